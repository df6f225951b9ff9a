package conversation

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/heartmarshall/cardsbot/internal/config"
)

type entry struct {
	ctx     Context
	touched time.Time
}

// Store keeps per-user conversation contexts in memory. Entries expire
// after the configured TTL so abandoned flows do not accumulate; a
// background sweeper reclaims them. An expired or absent entry reads as
// the zero (idle) context.
type Store struct {
	mu      sync.RWMutex
	entries map[int64]entry

	ttl   time.Duration
	sweep time.Duration
	log   *slog.Logger

	now func() time.Time
}

// NewStore creates a context store with the given eviction policy.
func NewStore(log *slog.Logger, cfg config.ConversationConfig) *Store {
	return &Store{
		entries: make(map[int64]entry),
		ttl:     cfg.TTL,
		sweep:   cfg.SweepInterval,
		log:     log.With("component", "conversation_store"),
		now:     time.Now,
	}
}

// Get returns the user's current context. Absent and expired entries both
// read as the zero idle context.
func (s *Store) Get(userID int64) Context {
	s.mu.RLock()
	e, ok := s.entries[userID]
	s.mu.RUnlock()

	if !ok || s.now().Sub(e.touched) > s.ttl {
		return Context{State: StateIdle}
	}
	return e.ctx
}

// Put stores the user's context and refreshes its TTL.
func (s *Store) Put(userID int64, ctx Context) {
	s.mu.Lock()
	s.entries[userID] = entry{ctx: ctx, touched: s.now()}
	s.mu.Unlock()
}

// Clear drops the user's context, returning them to idle.
func (s *Store) Clear(userID int64) {
	s.mu.Lock()
	delete(s.entries, userID)
	s.mu.Unlock()
}

// Len returns how many contexts are currently held, expired ones included.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Run sweeps expired entries until the context is cancelled. Meant to be
// started as a goroutine alongside the transport.
func (s *Store) Run(ctx context.Context) {
	ticker := time.NewTicker(s.sweep)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.evictExpired(); n > 0 {
				s.log.Debug("evicted stale conversations", slog.Int("count", n))
			}
		}
	}
}

func (s *Store) evictExpired() int {
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, e := range s.entries {
		if e.touched.Before(cutoff) {
			delete(s.entries, id)
			evicted++
		}
	}
	return evicted
}
