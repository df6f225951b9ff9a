// Package collection implements the collection repository using PostgreSQL.
package collection

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/cardsbot/internal/adapter/postgres"
	"github.com/heartmarshall/cardsbot/internal/domain"
)

// Repo provides collection persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
	sb   sq.StatementBuilderType
}

// New creates a new collection repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{
		pool: pool,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// List returns all collections ordered by name.
func (r *Repo) List(ctx context.Context) ([]domain.Collection, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := r.sb.
		Select("id", "name").
		From("collections").
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list collections query: %w", err)
	}

	rows, err := querier.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	defer rows.Close()

	collections := []domain.Collection{}
	for rows.Next() {
		var c domain.Collection
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan collection: %w", err)
		}
		collections = append(collections, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate collections: %w", err)
	}

	return collections, nil
}

// GetByID returns a collection by primary key.
func (r *Repo) GetByID(ctx context.Context, id int64) (*domain.Collection, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := r.sb.
		Select("id", "name").
		From("collections").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get collection query: %w", err)
	}

	var c domain.Collection
	if err := querier.QueryRow(ctx, query, args...).Scan(&c.ID, &c.Name); err != nil {
		return nil, postgres.MapError(err, "collection", id)
	}

	return &c, nil
}

// GetByName returns a collection by its unique name (case-insensitive).
func (r *Repo) GetByName(ctx context.Context, name string) (*domain.Collection, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := r.sb.
		Select("id", "name").
		From("collections").
		Where("LOWER(name) = LOWER(?)", name).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get collection query: %w", err)
	}

	var c domain.Collection
	if err := querier.QueryRow(ctx, query, args...).Scan(&c.ID, &c.Name); err != nil {
		return nil, postgres.MapError(err, "collection", name)
	}

	return &c, nil
}

// Create inserts a new collection and returns it with the assigned id.
// A duplicate name results in domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, name string) (*domain.Collection, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := r.sb.
		Insert("collections").
		Columns("name").
		Values(name).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build create collection query: %w", err)
	}

	c := domain.Collection{Name: name}
	if err := querier.QueryRow(ctx, query, args...).Scan(&c.ID); err != nil {
		return nil, postgres.MapError(err, "collection", name)
	}

	return &c, nil
}
