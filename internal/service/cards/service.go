// Package cards implements deck management: the per-user vocabulary and
// the shared canonical cards and collections behind it.
package cards

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/cardsbot/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type cardRepo interface {
	GetByWord(ctx context.Context, word string) (*domain.Card, error)
	Create(ctx context.Context, word, translation string) (*domain.Card, error)
	UpdateTranslation(ctx context.Context, cardID int64, translation string) error
}

type collectionRepo interface {
	List(ctx context.Context) ([]domain.Collection, error)
	GetByID(ctx context.Context, id int64) (*domain.Collection, error)
	GetByName(ctx context.Context, name string) (*domain.Collection, error)
}

type userRepo interface {
	Get(ctx context.Context, id int64) (*domain.User, error)
	Ensure(ctx context.Context, id int64) error
}

type userCardRepo interface {
	ListByUser(ctx context.Context, userID int64) ([]domain.UserCard, error)
	Count(ctx context.Context, userID int64) (int, error)
	GetByWord(ctx context.Context, userID int64, word string) (*domain.UserCard, error)
	Create(ctx context.Context, userID, cardID int64, translation string) error
	DeleteByWord(ctx context.Context, userID int64, word string) error
	DeleteAll(ctx context.Context, userID int64) (int, error)
	ImportCollection(ctx context.Context, userID, collectionID int64) (int, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements deck management business logic.
type Service struct {
	cards       cardRepo
	collections collectionRepo
	users       userRepo
	userCards   userCardRepo
	tx          txManager
	log         *slog.Logger
}

// NewService creates a new cards service.
func NewService(
	log *slog.Logger,
	cards cardRepo,
	collections collectionRepo,
	users userRepo,
	userCards userCardRepo,
	tx txManager,
) *Service {
	return &Service{
		cards:       cards,
		collections: collections,
		users:       users,
		userCards:   userCards,
		tx:          tx,
		log:         log.With("service", "cards"),
	}
}

// EnsureUser registers the user on first contact; repeat calls are no-ops.
func (s *Service) EnsureUser(ctx context.Context, userID int64) error {
	return s.users.Ensure(ctx, userID)
}

// Stats is a snapshot of a user's study standing.
type Stats struct {
	Level     int
	Score     int
	CardCount int
}

// Stats returns the user's level, score, and deck size.
func (s *Service) Stats(ctx context.Context, userID int64) (*Stats, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	count, err := s.userCards.Count(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Stats{Level: user.Level, Score: user.Score, CardCount: count}, nil
}
