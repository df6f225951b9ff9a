// Package usercard implements the user-card repository using PostgreSQL.
// Simple CRUD queries are built with squirrel; queries with JOINs use raw SQL.
package usercard

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/cardsbot/internal/adapter/postgres"
	"github.com/heartmarshall/cardsbot/internal/domain"
)

// Repo provides user-card persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
	sb   sq.StatementBuilderType
}

// New creates a new user-card repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{
		pool: pool,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// ---------------------------------------------------------------------------
// Raw SQL for queries requiring JOINs
// ---------------------------------------------------------------------------

const listByUserSQL = `
SELECT uc.user_id, uc.card_id, uc.translation, uc.score, uc.last_study, c.word
FROM user_cards uc
JOIN cards c ON uc.card_id = c.id
WHERE uc.user_id = $1
ORDER BY c.word`

const getByWordSQL = `
SELECT uc.user_id, uc.card_id, uc.translation, uc.score, uc.last_study, c.word
FROM user_cards uc
JOIN cards c ON uc.card_id = c.id
WHERE uc.user_id = $1 AND LOWER(c.word) = LOWER($2)`

const getByCardIDSQL = `
SELECT uc.user_id, uc.card_id, uc.translation, uc.score, uc.last_study, c.word
FROM user_cards uc
JOIN cards c ON uc.card_id = c.id
WHERE uc.user_id = $1 AND uc.card_id = $2`

// FOR UPDATE locks only the user_cards row, so the join column is read
// separately by the caller when needed.
const getByCardIDForUpdateSQL = `
SELECT uc.user_id, uc.card_id, uc.translation, uc.score, uc.last_study,
       (SELECT c.word FROM cards c WHERE c.id = uc.card_id) AS word
FROM user_cards uc
WHERE uc.user_id = $1 AND uc.card_id = $2
FOR UPDATE OF uc`

const deleteByWordSQL = `
DELETE FROM user_cards uc
USING cards c
WHERE uc.card_id = c.id AND uc.user_id = $1 AND LOWER(c.word) = LOWER($2)`

// Imports every card of a collection the user does not own yet, copying
// the canonical translation.
const importCollectionSQL = `
INSERT INTO user_cards (user_id, card_id, translation)
SELECT $1, c.id, c.translation
FROM cards c
JOIN card_collections cc ON c.id = cc.card_id
WHERE cc.collection_id = $2
ON CONFLICT (user_id, card_id) DO NOTHING`

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// ListByUser returns all user cards joined with the card word, ordered by
// word for deterministic reads.
func (r *Repo) ListByUser(ctx context.Context, userID int64) ([]domain.UserCard, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listByUserSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("list user cards: %w", err)
	}
	defer rows.Close()

	cards, err := scanUserCards(rows)
	if err != nil {
		return nil, fmt.Errorf("list user cards: %w", err)
	}

	return cards, nil
}

// Count returns how many cards the user owns.
func (r *Repo) Count(ctx context.Context, userID int64) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := r.sb.
		Select("count(*)").
		From("user_cards").
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count user cards query: %w", err)
	}

	var count int
	if err := querier.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count user cards: %w", err)
	}

	return count, nil
}

// GetByWord returns the user card for the given word (case-insensitive).
// Returns domain.ErrNotFound when the user does not own the word.
func (r *Repo) GetByWord(ctx context.Context, userID int64, word string) (*domain.UserCard, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	uc, err := scanUserCard(querier.QueryRow(ctx, getByWordSQL, userID, word))
	if err != nil {
		return nil, postgres.MapError(err, "user card", word)
	}

	return uc, nil
}

// GetByCardID returns the user card for the given card id.
func (r *Repo) GetByCardID(ctx context.Context, userID, cardID int64) (*domain.UserCard, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	uc, err := scanUserCard(querier.QueryRow(ctx, getByCardIDSQL, userID, cardID))
	if err != nil {
		return nil, postgres.MapError(err, "user card", cardID)
	}

	return uc, nil
}

// GetByCardIDForUpdate returns the user card and locks its row for the
// duration of the surrounding transaction.
func (r *Repo) GetByCardIDForUpdate(ctx context.Context, userID, cardID int64) (*domain.UserCard, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	uc, err := scanUserCard(querier.QueryRow(ctx, getByCardIDForUpdateSQL, userID, cardID))
	if err != nil {
		return nil, postgres.MapError(err, "user card", cardID)
	}

	return uc, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new user card with a zero score and epoch last_study.
// A duplicate (user, card) pair results in domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, userID, cardID int64, translation string) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := r.sb.
		Insert("user_cards").
		Columns("user_id", "card_id", "translation").
		Values(userID, cardID, translation).
		ToSql()
	if err != nil {
		return fmt.Errorf("build create user card query: %w", err)
	}

	if _, err := querier.Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "user card", cardID)
	}

	return nil
}

// DeleteByWord removes the user card for the given word.
// Returns domain.ErrNotFound when the user does not own the word.
func (r *Repo) DeleteByWord(ctx context.Context, userID int64, word string) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, deleteByWordSQL, userID, word)
	if err != nil {
		return postgres.MapError(err, "user card", word)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user card %q: %w", word, domain.ErrNotFound)
	}

	return nil
}

// DeleteAll removes every card of the user and returns how many were deleted.
func (r *Repo) DeleteAll(ctx context.Context, userID int64) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := r.sb.
		Delete("user_cards").
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete all user cards query: %w", err)
	}

	tag, err := querier.Exec(ctx, query, args...)
	if err != nil {
		return 0, postgres.MapError(err, "user card", userID)
	}

	return int(tag.RowsAffected()), nil
}

// UpdateStudy stores the new score and last-study timestamp after a quiz.
func (r *Repo) UpdateStudy(ctx context.Context, userID, cardID int64, score int, lastStudy time.Time) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := r.sb.
		Update("user_cards").
		Set("score", score).
		Set("last_study", lastStudy).
		Where(sq.Eq{"user_id": userID, "card_id": cardID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update study query: %w", err)
	}

	tag, err := querier.Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapError(err, "user card", cardID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user card %d: %w", cardID, domain.ErrNotFound)
	}

	return nil
}

// ImportCollection copies every card of the collection the user does not
// own yet and returns how many were added.
func (r *Repo) ImportCollection(ctx context.Context, userID, collectionID int64) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, importCollectionSQL, userID, collectionID)
	if err != nil {
		return 0, postgres.MapError(err, "collection", collectionID)
	}

	return int(tag.RowsAffected()), nil
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

func scanUserCard(row pgx.Row) (*domain.UserCard, error) {
	var uc domain.UserCard
	if err := row.Scan(&uc.UserID, &uc.CardID, &uc.Translation, &uc.Score, &uc.LastStudy, &uc.Word); err != nil {
		return nil, err
	}
	return &uc, nil
}

func scanUserCards(rows pgx.Rows) ([]domain.UserCard, error) {
	cards := []domain.UserCard{}
	for rows.Next() {
		var uc domain.UserCard
		if err := rows.Scan(&uc.UserID, &uc.CardID, &uc.Translation, &uc.Score, &uc.LastStudy, &uc.Word); err != nil {
			return nil, err
		}
		cards = append(cards, uc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cards, nil
}
