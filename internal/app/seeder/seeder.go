// Package seeder loads shared card collections from JSON files into the
// catalog. It is run offline by cmd/seeder, not by the bot itself.
package seeder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/heartmarshall/cardsbot/internal/domain"
)

type cardRepo interface {
	GetByWord(ctx context.Context, word string) (*domain.Card, error)
	Create(ctx context.Context, word, translation string) (*domain.Card, error)
	AddToCollection(ctx context.Context, cardID, collectionID int64) error
	Count(ctx context.Context) (int, error)
}

type collectionRepo interface {
	GetByName(ctx context.Context, name string) (*domain.Collection, error)
	Create(ctx context.Context, name string) (*domain.Collection, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// collectionFile is the on-disk format: one collection per JSON file.
type collectionFile struct {
	Name  string `json:"name"`
	Cards []struct {
		Word        string `json:"word"`
		Translation string `json:"translation"`
	} `json:"cards"`
}

// Stats summarizes one seeder run.
type Stats struct {
	Collections int
	Cards       int
	Skipped     int
}

// Seeder imports collection files into the shared catalog.
type Seeder struct {
	cards       cardRepo
	collections collectionRepo
	tx          txManager
	log         *slog.Logger
}

// New creates a seeder.
func New(log *slog.Logger, cards cardRepo, collections collectionRepo, tx txManager) *Seeder {
	return &Seeder{
		cards:       cards,
		collections: collections,
		tx:          tx,
		log:         log.With("component", "seeder"),
	}
}

// HasCards reports whether the catalog already holds any cards. Used by
// the --only-if-empty mode.
func (s *Seeder) HasCards(ctx context.Context) (bool, error) {
	count, err := s.cards.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("count cards: %w", err)
	}
	return count > 0, nil
}

// Run imports every *.json collection file in dir. Each collection is
// loaded in its own transaction; a malformed card is skipped with a
// warning rather than failing the whole file. Re-running is idempotent.
func (s *Seeder) Run(ctx context.Context, dir string) (*Stats, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("scan seed dir: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no collection files in %s", dir)
	}
	sort.Strings(paths)

	stats := &Stats{}
	for _, path := range paths {
		if err := s.loadFile(ctx, path, stats); err != nil {
			return nil, fmt.Errorf("load %s: %w", filepath.Base(path), err)
		}
	}

	s.log.InfoContext(ctx, "seeding complete",
		slog.Int("collections", stats.Collections),
		slog.Int("cards", stats.Cards),
		slog.Int("skipped", stats.Skipped),
	)

	return stats, nil
}

func (s *Seeder) loadFile(ctx context.Context, path string, stats *Stats) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var file collectionFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	if file.Name == "" {
		return errors.New("collection name is empty")
	}
	if len(file.Cards) == 0 {
		return errors.New("collection has no cards")
	}

	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		col, err := s.ensureCollection(ctx, file.Name)
		if err != nil {
			return err
		}
		stats.Collections++

		for _, c := range file.Cards {
			word := domain.NormalizeText(c.Word)
			translation := domain.NormalizeText(c.Translation)

			if err := domain.ValidateWord(word); err != nil || translation == "" {
				s.log.Warn("skipping malformed card",
					slog.String("collection", file.Name),
					slog.String("word", c.Word),
				)
				stats.Skipped++
				continue
			}

			card, err := s.ensureCard(ctx, word, translation)
			if err != nil {
				return fmt.Errorf("card %q: %w", word, err)
			}

			if err := s.cards.AddToCollection(ctx, card.ID, col.ID); err != nil {
				return fmt.Errorf("link card %q: %w", word, err)
			}
			stats.Cards++
		}

		return nil
	})
}

func (s *Seeder) ensureCollection(ctx context.Context, name string) (*domain.Collection, error) {
	col, err := s.collections.GetByName(ctx, name)
	if err == nil {
		return col, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get collection: %w", err)
	}
	return s.collections.Create(ctx, name)
}

func (s *Seeder) ensureCard(ctx context.Context, word, translation string) (*domain.Card, error) {
	card, err := s.cards.GetByWord(ctx, word)
	if err == nil {
		return card, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get card: %w", err)
	}
	return s.cards.Create(ctx, word, translation)
}
