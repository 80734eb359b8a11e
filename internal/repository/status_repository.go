package repository

import (
	"context"
	"fmt"

	"newsteps/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// statusRepository implements StatusRepository using PostgreSQL.
type statusRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewStatusRepository creates a new PostgreSQL-backed status ledger.
func NewStatusRepository(pool *pgxpool.Pool, logger zerolog.Logger) StatusRepository {
	return &statusRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "status").Logger(),
	}
}

// Append adds one entry to an entity's history.
func (r *statusRepository) Append(ctx context.Context, db DBTX, kind model.EntityKind, entityID uuid.UUID, entry model.StatusEntry) error {
	if err := appendStatus(ctx, db, kind, entityID, entry); err != nil {
		r.logger.Error().
			Err(err).
			Str("entity_kind", string(kind)).
			Str("entity_id", entityID.String()).
			Str("status", string(entry.Status)).
			Msg("failed to append status")
		return err
	}

	r.logger.Debug().
		Str("entity_kind", string(kind)).
		Str("entity_id", entityID.String()).
		Str("status", string(entry.Status)).
		Msg("status appended")
	return nil
}

// History returns an entity's entries, oldest first.
func (r *statusRepository) History(ctx context.Context, db DBTX, kind model.EntityKind, entityID uuid.UUID) (model.StatusHistory, error) {
	histories, err := loadHistories(ctx, db, kind, []uuid.UUID{entityID})
	if err != nil {
		r.logger.Error().Err(err).Str("entity_id", entityID.String()).Msg("failed to load status history")
		return nil, err
	}
	return histories[entityID], nil
}

// Histories returns the histories of several entities keyed by entity ID.
func (r *statusRepository) Histories(ctx context.Context, kind model.EntityKind, entityIDs []uuid.UUID) (map[uuid.UUID]model.StatusHistory, error) {
	histories, err := loadHistories(ctx, r.pool, kind, entityIDs)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(entityIDs)).Msg("failed to load status histories")
		return nil, err
	}
	return histories, nil
}

func appendStatus(ctx context.Context, db DBTX, kind model.EntityKind, entityID uuid.UUID, entry model.StatusEntry) error {
	query := `
		INSERT INTO status_history (entity_kind, entity_id, status, note, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	if _, err := db.Exec(ctx, query, string(kind), entityID, string(entry.Status), entry.Note, entry.Timestamp); err != nil {
		return fmt.Errorf("failed to append status: %w", err)
	}
	return nil
}

// loadHistories reads the ledger for several entities at once. Entries are
// ordered by insertion so the last one is always the current status.
func loadHistories(ctx context.Context, db DBTX, kind model.EntityKind, entityIDs []uuid.UUID) (map[uuid.UUID]model.StatusHistory, error) {
	histories := make(map[uuid.UUID]model.StatusHistory, len(entityIDs))
	if len(entityIDs) == 0 {
		return histories, nil
	}

	query := `
		SELECT entity_id, status, note, created_at
		FROM status_history
		WHERE entity_kind = $1 AND entity_id = ANY($2)
		ORDER BY id
	`

	rows, err := db.Query(ctx, query, string(kind), entityIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query status history: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			entityID uuid.UUID
			entry    model.StatusEntry
		)
		if err := rows.Scan(&entityID, &entry.Status, &entry.Note, &entry.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan status entry: %w", err)
		}
		histories[entityID] = append(histories[entityID], entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating status history: %w", err)
	}

	return histories, nil
}
