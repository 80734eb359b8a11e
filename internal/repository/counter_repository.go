package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// counterRepository implements CounterRepository using PostgreSQL.
type counterRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCounterRepository creates a new PostgreSQL-backed counter repository.
func NewCounterRepository(pool *pgxpool.Pool, logger zerolog.Logger) CounterRepository {
	return &counterRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "counter").Logger(),
	}
}

// Next increments and reads the counter in a single statement. The row lock
// taken by the upsert serialises concurrent callers, so no two of them can
// see the same value. Unknown counters start at 1.
func (r *counterRepository) Next(ctx context.Context, name string) (int64, error) {
	query := `
		INSERT INTO counters (name, sequence)
		VALUES ($1, 1)
		ON CONFLICT (name) DO UPDATE SET sequence = counters.sequence + 1
		RETURNING sequence
	`

	var seq int64
	if err := r.pool.QueryRow(ctx, query, name).Scan(&seq); err != nil {
		r.logger.Error().Err(err).Str("counter", name).Msg("failed to increment counter")
		return 0, fmt.Errorf("failed to increment counter %s: %w", name, err)
	}

	r.logger.Debug().Str("counter", name).Int64("sequence", seq).Msg("counter incremented")
	return seq, nil
}
