// Package card implements the canonical card repository using PostgreSQL.
// Simple CRUD queries are built with squirrel; queries with JOINs use raw SQL.
package card

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/cardsbot/internal/adapter/postgres"
	"github.com/heartmarshall/cardsbot/internal/domain"
)

// Repo provides card persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
	sb   sq.StatementBuilderType
}

// New creates a new card repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{
		pool: pool,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// ---------------------------------------------------------------------------
// Raw SQL for queries requiring JOINs
// ---------------------------------------------------------------------------

const listByCollectionSQL = `
SELECT c.id, c.word, c.translation
FROM cards c
JOIN card_collections cc ON c.id = cc.card_id
WHERE cc.collection_id = $1
ORDER BY c.word`

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByWord returns the card with the given word (case-insensitive).
// Returns domain.ErrNotFound when no such card exists.
func (r *Repo) GetByWord(ctx context.Context, word string) (*domain.Card, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := r.sb.
		Select("id", "word", "translation").
		From("cards").
		Where("LOWER(word) = LOWER(?)", word).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get card query: %w", err)
	}

	var c domain.Card
	if err := querier.QueryRow(ctx, query, args...).Scan(&c.ID, &c.Word, &c.Translation); err != nil {
		return nil, postgres.MapError(err, "card", word)
	}

	return &c, nil
}

// ListByCollection returns all cards of a collection ordered by word.
func (r *Repo) ListByCollection(ctx context.Context, collectionID int64) ([]domain.Card, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listByCollectionSQL, collectionID)
	if err != nil {
		return nil, fmt.Errorf("list cards by collection: %w", err)
	}
	defer rows.Close()

	cards := []domain.Card{}
	for rows.Next() {
		var c domain.Card
		if err := rows.Scan(&c.ID, &c.Word, &c.Translation); err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cards: %w", err)
	}

	return cards, nil
}

// Count returns the total number of cards in the catalog.
func (r *Repo) Count(ctx context.Context) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := r.sb.Select("count(*)").From("cards").ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count cards query: %w", err)
	}

	var count int
	if err := querier.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count cards: %w", err)
	}

	return count, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new card and returns it with the assigned id.
// A duplicate word results in domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, word, translation string) (*domain.Card, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := r.sb.
		Insert("cards").
		Columns("word", "translation").
		Values(word, translation).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build create card query: %w", err)
	}

	c := domain.Card{Word: word, Translation: translation}
	if err := querier.QueryRow(ctx, query, args...).Scan(&c.ID); err != nil {
		return nil, postgres.MapError(err, "card", word)
	}

	return &c, nil
}

// UpdateTranslation replaces the card's comma-joined translation list.
func (r *Repo) UpdateTranslation(ctx context.Context, cardID int64, translation string) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := r.sb.
		Update("cards").
		Set("translation", translation).
		Where(sq.Eq{"id": cardID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update translation query: %w", err)
	}

	tag, err := querier.Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapError(err, "card", cardID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("card %d: %w", cardID, domain.ErrNotFound)
	}

	return nil
}

// AddToCollection adds a card to a collection. Adding an existing member
// is a no-op.
func (r *Repo) AddToCollection(ctx context.Context, cardID, collectionID int64) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := r.sb.
		Insert("card_collections").
		Columns("card_id", "collection_id").
		Values(cardID, collectionID).
		Suffix("ON CONFLICT DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("build add to collection query: %w", err)
	}

	if _, err := querier.Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "card_collection", cardID)
	}

	return nil
}
