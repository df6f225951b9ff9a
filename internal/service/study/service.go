// Package study implements the adaptive quiz scheduler: it selects which
// cards a user is quizzed on, weighted by recency and past performance,
// and scores the outcome of each answer.
package study

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/heartmarshall/cardsbot/internal/config"
	"github.com/heartmarshall/cardsbot/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type userCardRepo interface {
	ListByUser(ctx context.Context, userID int64) ([]domain.UserCard, error)
	Count(ctx context.Context, userID int64) (int, error)
	GetByCardIDForUpdate(ctx context.Context, userID, cardID int64) (*domain.UserCard, error)
	UpdateStudy(ctx context.Context, userID, cardID int64, score int, lastStudy time.Time) error
}

type userRepo interface {
	Get(ctx context.Context, id int64) (*domain.User, error)
	UpdateProgress(ctx context.Context, id int64, score, level int) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the study scheduling business logic.
type Service struct {
	userCards userCardRepo
	users     userRepo
	tx        txManager
	log       *slog.Logger
	cfg       config.StudyConfig

	// rng is the injected random source behind round selection; guarded by
	// mu because rounds for different users may be chosen concurrently.
	mu  sync.Mutex
	rng *rand.Rand

	now func() time.Time
}

// NewService creates a new study service. The random source is injected so
// tests can seed it and assert distributional properties deterministically.
func NewService(
	log *slog.Logger,
	userCards userCardRepo,
	users userRepo,
	tx txManager,
	cfg config.StudyConfig,
	src rand.Source,
) *Service {
	return &Service{
		userCards: userCards,
		users:     users,
		tx:        tx,
		log:       log.With("service", "study"),
		cfg:       cfg,
		rng:       rand.New(src),
		now:       time.Now,
	}
}
