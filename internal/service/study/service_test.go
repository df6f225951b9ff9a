package study

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/cardsbot/internal/config"
	"github.com/heartmarshall/cardsbot/internal/domain"
)

// ---------------------------------------------------------------------------
// Mocks
// ---------------------------------------------------------------------------

type userCardRepoMock struct {
	ListByUserFunc           func(ctx context.Context, userID int64) ([]domain.UserCard, error)
	CountFunc                func(ctx context.Context, userID int64) (int, error)
	GetByCardIDForUpdateFunc func(ctx context.Context, userID, cardID int64) (*domain.UserCard, error)
	UpdateStudyFunc          func(ctx context.Context, userID, cardID int64, score int, lastStudy time.Time) error
}

func (m *userCardRepoMock) ListByUser(ctx context.Context, userID int64) ([]domain.UserCard, error) {
	return m.ListByUserFunc(ctx, userID)
}

func (m *userCardRepoMock) Count(ctx context.Context, userID int64) (int, error) {
	return m.CountFunc(ctx, userID)
}

func (m *userCardRepoMock) GetByCardIDForUpdate(ctx context.Context, userID, cardID int64) (*domain.UserCard, error) {
	return m.GetByCardIDForUpdateFunc(ctx, userID, cardID)
}

func (m *userCardRepoMock) UpdateStudy(ctx context.Context, userID, cardID int64, score int, lastStudy time.Time) error {
	return m.UpdateStudyFunc(ctx, userID, cardID, score, lastStudy)
}

type userRepoMock struct {
	GetFunc            func(ctx context.Context, id int64) (*domain.User, error)
	UpdateProgressFunc func(ctx context.Context, id int64, score, level int) error
}

func (m *userRepoMock) Get(ctx context.Context, id int64) (*domain.User, error) {
	return m.GetFunc(ctx, id)
}

func (m *userRepoMock) UpdateProgress(ctx context.Context, id int64, score, level int) error {
	return m.UpdateProgressFunc(ctx, id, score, level)
}

type txManagerMock struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.RunInTxFunc != nil {
		return m.RunInTxFunc(ctx, fn)
	}
	return fn(ctx)
}

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

func newTestService(userCards userCardRepo, users userRepo, tx txManager, seed int64) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
	cfg := config.StudyConfig{ChoicesPerRound: 4, MinDeckSize: 4}
	return NewService(logger, userCards, users, tx, cfg, rand.NewSource(seed))
}

func deckOf(words ...string) []domain.UserCard {
	cards := make([]domain.UserCard, 0, len(words))
	for i, w := range words {
		cards = append(cards, domain.UserCard{
			UserID:      42,
			CardID:      int64(i + 1),
			Word:        w,
			Translation: "t-" + w,
			Score:       1,
			LastStudy:   time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		})
	}
	return cards
}

// ---------------------------------------------------------------------------
// CanStudy tests
// ---------------------------------------------------------------------------

func TestService_CanStudy_BelowMinimum(t *testing.T) {
	t.Parallel()

	userCards := &userCardRepoMock{
		CountFunc: func(ctx context.Context, userID int64) (int, error) {
			assert.Equal(t, int64(42), userID)
			return 4, nil
		},
	}

	svc := newTestService(userCards, nil, nil, 1)
	ok, err := svc.CanStudy(context.Background(), 42)

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestService_CanStudy_AboveMinimum(t *testing.T) {
	t.Parallel()

	userCards := &userCardRepoMock{
		CountFunc: func(ctx context.Context, userID int64) (int, error) {
			return 5, nil
		},
	}

	svc := newTestService(userCards, nil, nil, 1)
	ok, err := svc.CanStudy(context.Background(), 42)

	require.NoError(t, err)
	assert.True(t, ok)
}

func TestService_CanStudy_RepoError(t *testing.T) {
	t.Parallel()

	repoErr := errors.New("connection refused")
	userCards := &userCardRepoMock{
		CountFunc: func(ctx context.Context, userID int64) (int, error) {
			return 0, repoErr
		},
	}

	svc := newTestService(userCards, nil, nil, 1)
	_, err := svc.CanStudy(context.Background(), 42)

	require.ErrorIs(t, err, repoErr)
}

// ---------------------------------------------------------------------------
// ChooseRound tests
// ---------------------------------------------------------------------------

func TestService_ChooseRound_NotEnoughCards(t *testing.T) {
	t.Parallel()

	userCards := &userCardRepoMock{
		ListByUserFunc: func(ctx context.Context, userID int64) ([]domain.UserCard, error) {
			return deckOf("apple", "pear", "plum", "fig"), nil
		},
	}

	svc := newTestService(userCards, nil, nil, 1)
	plan, err := svc.ChooseRound(context.Background(), 42)

	require.ErrorIs(t, err, domain.ErrNotEnoughCards)
	assert.Nil(t, plan)
}

func TestService_ChooseRound_PlanShape(t *testing.T) {
	t.Parallel()

	deck := deckOf("apple", "pear", "plum", "fig", "grape", "melon")
	userCards := &userCardRepoMock{
		ListByUserFunc: func(ctx context.Context, userID int64) ([]domain.UserCard, error) {
			return deck, nil
		},
	}

	svc := newTestService(userCards, nil, nil, 7)
	svc.now = func() time.Time { return time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC) }

	plan, err := svc.ChooseRound(context.Background(), 42)
	require.NoError(t, err)

	require.Len(t, plan.Choices, 4)
	assert.NotEqual(t, "", plan.ID.String())
	assert.True(t, plan.Direction.IsValid())
	assert.Contains(t, plan.Choices, plan.CorrectAnswer)

	seen := map[string]bool{}
	for _, c := range plan.Choices {
		assert.False(t, seen[c], "duplicate choice %q", c)
		seen[c] = true
	}

	var focus *domain.UserCard
	for i := range deck {
		if deck[i].CardID == plan.FocusCardID {
			focus = &deck[i]
		}
	}
	require.NotNil(t, focus, "focus card must come from the user's deck")

	switch plan.Direction {
	case domain.DirectionWord:
		assert.Equal(t, focus.Word, plan.Prompt)
		assert.Equal(t, focus.Translation, plan.CorrectAnswer)
	case domain.DirectionTranslation:
		assert.Equal(t, focus.Translation, plan.Prompt)
		assert.Equal(t, focus.Word, plan.CorrectAnswer)
	}
}

func TestService_ChooseRound_FavorsStaleLowScoreCard(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

	// One never-studied card among recently drilled high scorers.
	deck := deckOf("apple", "pear", "plum", "fig", "grape")
	for i := range deck {
		deck[i].Score = 50
		deck[i].LastStudy = now.Add(-1 * time.Hour)
	}
	deck[2].Score = 0
	deck[2].LastStudy = time.Unix(0, 0).UTC()

	userCards := &userCardRepoMock{
		ListByUserFunc: func(ctx context.Context, userID int64) ([]domain.UserCard, error) {
			return deck, nil
		},
	}

	svc := newTestService(userCards, nil, nil, 11)
	svc.now = func() time.Time { return now }

	hits := 0
	const rounds = 200
	for i := 0; i < rounds; i++ {
		plan, err := svc.ChooseRound(context.Background(), 42)
		require.NoError(t, err)
		if plan.FocusCardID == deck[2].CardID {
			hits++
		}
	}

	// The stale card's weight dwarfs the others by four orders of magnitude.
	assert.Greater(t, hits, rounds*9/10)
}

func TestService_ChooseRound_RepoError(t *testing.T) {
	t.Parallel()

	repoErr := errors.New("connection refused")
	userCards := &userCardRepoMock{
		ListByUserFunc: func(ctx context.Context, userID int64) ([]domain.UserCard, error) {
			return nil, repoErr
		},
	}

	svc := newTestService(userCards, nil, nil, 1)
	_, err := svc.ChooseRound(context.Background(), 42)

	require.ErrorIs(t, err, repoErr)
}

// ---------------------------------------------------------------------------
// ResolveAnswer tests
// ---------------------------------------------------------------------------

func TestService_ResolveAnswer_CorrectWithLevelUp(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

	var gotCardScore int
	var gotLastStudy time.Time
	userCards := &userCardRepoMock{
		GetByCardIDForUpdateFunc: func(ctx context.Context, userID, cardID int64) (*domain.UserCard, error) {
			return &domain.UserCard{UserID: 42, CardID: cardID, Word: "apple", Translation: "pomme", Score: 3}, nil
		},
		UpdateStudyFunc: func(ctx context.Context, userID, cardID int64, score int, lastStudy time.Time) error {
			gotCardScore = score
			gotLastStudy = lastStudy
			return nil
		},
	}

	var gotUserScore, gotUserLevel int
	users := &userRepoMock{
		GetFunc: func(ctx context.Context, id int64) (*domain.User, error) {
			return &domain.User{ID: 42, Score: 9, Level: 2}, nil
		},
		UpdateProgressFunc: func(ctx context.Context, id int64, score, level int) error {
			gotUserScore = score
			gotUserLevel = level
			return nil
		},
	}

	svc := newTestService(userCards, users, &txManagerMock{}, 1)
	svc.now = func() time.Time { return now }

	outcome, err := svc.ResolveAnswer(context.Background(), 42, ResolveAnswerInput{
		FocusCardID:   7,
		Submitted:     "pomme",
		CorrectAnswer: "pomme",
	})
	require.NoError(t, err)

	assert.True(t, outcome.Success)
	assert.Equal(t, "pomme", outcome.CorrectAnswer)
	assert.Equal(t, 3, outcome.NewLevel)
	assert.True(t, outcome.LeveledUp)

	assert.Equal(t, 4, gotCardScore)
	assert.Equal(t, now, gotLastStudy)
	assert.Equal(t, 10, gotUserScore)
	assert.Equal(t, 3, gotUserLevel)
}

func TestService_ResolveAnswer_CorrectWithoutLevelUp(t *testing.T) {
	t.Parallel()

	userCards := &userCardRepoMock{
		GetByCardIDForUpdateFunc: func(ctx context.Context, userID, cardID int64) (*domain.UserCard, error) {
			return &domain.UserCard{UserID: 42, CardID: cardID, Score: 5}, nil
		},
		UpdateStudyFunc: func(ctx context.Context, userID, cardID int64, score int, lastStudy time.Time) error {
			return nil
		},
	}
	users := &userRepoMock{
		GetFunc: func(ctx context.Context, id int64) (*domain.User, error) {
			return &domain.User{ID: 42, Score: 10, Level: 3}, nil
		},
		UpdateProgressFunc: func(ctx context.Context, id int64, score, level int) error {
			assert.Equal(t, 11, score)
			assert.Equal(t, 3, level)
			return nil
		},
	}

	svc := newTestService(userCards, users, &txManagerMock{}, 1)

	outcome, err := svc.ResolveAnswer(context.Background(), 42, ResolveAnswerInput{
		FocusCardID:   7,
		Submitted:     "right",
		CorrectAnswer: "right",
	})
	require.NoError(t, err)

	assert.True(t, outcome.Success)
	assert.Equal(t, 3, outcome.NewLevel)
	assert.False(t, outcome.LeveledUp)
}

func TestService_ResolveAnswer_WrongAnswer(t *testing.T) {
	t.Parallel()

	userCards := &userCardRepoMock{
		GetByCardIDForUpdateFunc: func(ctx context.Context, userID, cardID int64) (*domain.UserCard, error) {
			return &domain.UserCard{UserID: 42, CardID: cardID, Score: 0}, nil
		},
		UpdateStudyFunc: func(ctx context.Context, userID, cardID int64, score int, lastStudy time.Time) error {
			// Card score is already zero and must not go negative.
			assert.Equal(t, 0, score)
			return nil
		},
	}
	users := &userRepoMock{
		GetFunc: func(ctx context.Context, id int64) (*domain.User, error) {
			return &domain.User{ID: 42, Score: 15, Level: 3}, nil
		},
		UpdateProgressFunc: func(ctx context.Context, id int64, score, level int) error {
			assert.Equal(t, 15, score, "user score unchanged on failure")
			assert.Equal(t, 3, level)
			return nil
		},
	}

	svc := newTestService(userCards, users, &txManagerMock{}, 1)

	outcome, err := svc.ResolveAnswer(context.Background(), 42, ResolveAnswerInput{
		FocusCardID:   7,
		Submitted:     "wrong",
		CorrectAnswer: "right",
	})
	require.NoError(t, err)

	assert.False(t, outcome.Success)
	assert.Equal(t, "right", outcome.CorrectAnswer)
	assert.False(t, outcome.LeveledUp)
}

func TestService_ResolveAnswer_ComparisonIsNormalized(t *testing.T) {
	t.Parallel()

	userCards := &userCardRepoMock{
		GetByCardIDForUpdateFunc: func(ctx context.Context, userID, cardID int64) (*domain.UserCard, error) {
			return &domain.UserCard{UserID: 42, CardID: cardID, Score: 1}, nil
		},
		UpdateStudyFunc: func(ctx context.Context, userID, cardID int64, score int, lastStudy time.Time) error {
			return nil
		},
	}
	users := &userRepoMock{
		GetFunc: func(ctx context.Context, id int64) (*domain.User, error) {
			return &domain.User{ID: 42, Score: 1, Level: 1}, nil
		},
		UpdateProgressFunc: func(ctx context.Context, id int64, score, level int) error {
			return nil
		},
	}

	svc := newTestService(userCards, users, &txManagerMock{}, 1)

	outcome, err := svc.ResolveAnswer(context.Background(), 42, ResolveAnswerInput{
		FocusCardID:   7,
		Submitted:     "  Hello   World ",
		CorrectAnswer: "hello world",
	})
	require.NoError(t, err)
	assert.True(t, outcome.Success)
}

func TestService_ResolveAnswer_LevelNeverRegresses(t *testing.T) {
	t.Parallel()

	userCards := &userCardRepoMock{
		GetByCardIDForUpdateFunc: func(ctx context.Context, userID, cardID int64) (*domain.UserCard, error) {
			return &domain.UserCard{UserID: 42, CardID: cardID, Score: 2}, nil
		},
		UpdateStudyFunc: func(ctx context.Context, userID, cardID int64, score int, lastStudy time.Time) error {
			return nil
		},
	}
	users := &userRepoMock{
		GetFunc: func(ctx context.Context, id int64) (*domain.User, error) {
			// Stored level is higher than the score-derived one.
			return &domain.User{ID: 42, Score: 2, Level: 5}, nil
		},
		UpdateProgressFunc: func(ctx context.Context, id int64, score, level int) error {
			assert.Equal(t, 5, level)
			return nil
		},
	}

	svc := newTestService(userCards, users, &txManagerMock{}, 1)

	outcome, err := svc.ResolveAnswer(context.Background(), 42, ResolveAnswerInput{
		FocusCardID:   7,
		Submitted:     "right",
		CorrectAnswer: "right",
	})
	require.NoError(t, err)

	assert.Equal(t, 5, outcome.NewLevel)
	assert.False(t, outcome.LeveledUp)
}

func TestService_ResolveAnswer_CardNotFound(t *testing.T) {
	t.Parallel()

	userCards := &userCardRepoMock{
		GetByCardIDForUpdateFunc: func(ctx context.Context, userID, cardID int64) (*domain.UserCard, error) {
			return nil, domain.ErrNotFound
		},
	}
	users := &userRepoMock{}

	svc := newTestService(userCards, users, &txManagerMock{}, 1)

	outcome, err := svc.ResolveAnswer(context.Background(), 42, ResolveAnswerInput{
		FocusCardID:   7,
		Submitted:     "x",
		CorrectAnswer: "x",
	})

	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, outcome)
}

func TestService_ResolveAnswer_TxError(t *testing.T) {
	t.Parallel()

	txErr := errors.New("deadlock detected")
	tx := &txManagerMock{
		RunInTxFunc: func(ctx context.Context, fn func(ctx context.Context) error) error {
			return txErr
		},
	}

	svc := newTestService(&userCardRepoMock{}, &userRepoMock{}, tx, 1)

	outcome, err := svc.ResolveAnswer(context.Background(), 42, ResolveAnswerInput{
		FocusCardID:   7,
		Submitted:     "x",
		CorrectAnswer: "x",
	})

	require.ErrorIs(t, err, txErr)
	assert.Nil(t, outcome)
}
