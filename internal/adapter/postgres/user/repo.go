// Package user implements the user repository using PostgreSQL.
package user

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/cardsbot/internal/adapter/postgres"
	"github.com/heartmarshall/cardsbot/internal/domain"
)

// Repo provides user persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
	sb   sq.StatementBuilderType
}

// New creates a new user repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{
		pool: pool,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Get returns a user by primary key.
func (r *Repo) Get(ctx context.Context, id int64) (*domain.User, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := r.sb.
		Select("id", "score", "level").
		From("users").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get user query: %w", err)
	}

	var u domain.User
	if err := querier.QueryRow(ctx, query, args...).Scan(&u.ID, &u.Score, &u.Level); err != nil {
		return nil, postgres.MapError(err, "user", id)
	}

	return &u, nil
}

// Ensure creates the user if it does not exist yet. Calling it again with
// the same id leaves the existing row untouched.
func (r *Repo) Ensure(ctx context.Context, id int64) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := r.sb.
		Insert("users").
		Columns("id").
		Values(id).
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("build ensure user query: %w", err)
	}

	if _, err := querier.Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "user", id)
	}

	return nil
}

// UpdateProgress stores the new aggregate score and level.
func (r *Repo) UpdateProgress(ctx context.Context, id int64, score, level int) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := r.sb.
		Update("users").
		Set("score", score).
		Set("level", level).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update progress query: %w", err)
	}

	tag, err := querier.Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapError(err, "user", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}

	return nil
}
