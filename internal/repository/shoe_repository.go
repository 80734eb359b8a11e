package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"newsteps/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const shoeColumns = `id, shoe_id, brand, model_name, size, gender, sport, condition,
	status, inventory_count, donation_id, created_at, updated_at`

// shoeRepository implements the ShoeRepository interface using PostgreSQL.
type shoeRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewShoeRepository creates a new PostgreSQL-backed inventory repository.
func NewShoeRepository(pool *pgxpool.Pool, logger zerolog.Logger) ShoeRepository {
	return &shoeRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "shoe").Logger(),
	}
}

func scanShoe(row pgx.Row) (*model.Shoe, error) {
	var s model.Shoe
	err := row.Scan(
		&s.ID,
		&s.ShoeID,
		&s.Brand,
		&s.ModelName,
		&s.Size,
		&s.Gender,
		&s.Sport,
		&s.Condition,
		&s.Status,
		&s.InventoryCount,
		&s.DonationID,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a new inventory record.
func (r *shoeRepository) Create(ctx context.Context, shoe *model.Shoe) error {
	query := `
		INSERT INTO shoes (` + shoeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.pool.Exec(ctx, query,
		shoe.ID,
		shoe.ShoeID,
		shoe.Brand,
		shoe.ModelName,
		shoe.Size,
		shoe.Gender,
		shoe.Sport,
		shoe.Condition,
		string(shoe.Status),
		shoe.InventoryCount,
		shoe.DonationID,
		shoe.CreatedAt,
		shoe.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("shoe_id", shoe.ID.String()).
			Msg("failed to create shoe")
		return fmt.Errorf("failed to create shoe: %w", err)
	}

	r.logger.Debug().
		Str("shoe_id", shoe.ID.String()).
		Int64("shoe_number", shoe.ShoeID).
		Msg("shoe created successfully")

	return nil
}

// GetByID retrieves a single inventory record by its ID.
func (r *shoeRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Shoe, error) {
	query := `SELECT ` + shoeColumns + ` FROM shoes WHERE id = $1`

	shoe, err := scanShoe(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("shoe_id", id.String()).Msg("shoe not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("shoe_id", id.String()).Msg("failed to query shoe")
		return nil, fmt.Errorf("failed to query shoe: %w", err)
	}

	return shoe, nil
}

// GetByIDs retrieves every existing record among ids.
func (r *shoeRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Shoe, error) {
	if len(ids) == 0 {
		return []model.Shoe{}, nil
	}

	query := `SELECT ` + shoeColumns + ` FROM shoes WHERE id = ANY($1) ORDER BY shoe_id`

	shoes, err := r.query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to query shoes by IDs")
		return nil, fmt.Errorf("failed to query shoes by IDs: %w", err)
	}
	return shoes, nil
}

// List retrieves records matching the filter.
func (r *shoeRepository) List(ctx context.Context, filter model.ShoeFilter) ([]model.Shoe, error) {
	var (
		conditions []string
		args       []any
	)

	add := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	add("status", string(filter.Status))
	add("size", filter.Size)
	add("gender", filter.Gender)
	add("sport", filter.Sport)

	query := `SELECT ` + shoeColumns + ` FROM shoes`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}

	args = append(args, filter.Limit, filter.Offset)
	query += fmt.Sprintf(` ORDER BY shoe_id LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	shoes, err := r.query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).
			Int("limit", filter.Limit).
			Int("offset", filter.Offset).
			Msg("failed to query shoes")
		return nil, fmt.Errorf("failed to query shoes: %w", err)
	}
	return shoes, nil
}

// Update writes only the fields patch supplies and returns the resulting row,
// or nil when the record does not exist. Omitted fields keep their stored
// value, so an edit never rewinds a concurrent allocation.
func (r *shoeRepository) Update(ctx context.Context, id uuid.UUID, patch *model.ShoePatch, updatedAt time.Time) (*model.Shoe, error) {
	query := `
		UPDATE shoes
		SET brand = COALESCE($2::text, brand),
		    model_name = COALESCE($3::text, model_name),
		    size = COALESCE($4::text, size),
		    gender = COALESCE($5::text, gender),
		    sport = COALESCE($6::text, sport),
		    condition = COALESCE($7::text, condition),
		    status = COALESCE($8::text, status),
		    inventory_count = COALESCE($9::integer, inventory_count),
		    updated_at = $10
		WHERE id = $1
		RETURNING ` + shoeColumns

	var status *string
	if patch.Status != nil {
		v := string(*patch.Status)
		status = &v
	}

	shoe, err := scanShoe(r.pool.QueryRow(ctx, query,
		id,
		patch.Brand,
		patch.ModelName,
		patch.Size,
		patch.Gender,
		patch.Sport,
		patch.Condition,
		status,
		patch.InventoryCount,
		updatedAt,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("shoe_id", id.String()).Msg("shoe not found for update")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("shoe_id", id.String()).Msg("failed to update shoe")
		return nil, fmt.Errorf("failed to update shoe: %w", err)
	}

	return shoe, nil
}

// Delete removes a record. Requests that reference it keep their snapshot.
func (r *shoeRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM shoes WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("shoe_id", id.String()).Msg("failed to delete shoe")
		return false, fmt.Errorf("failed to delete shoe: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// Allocate decrements the count and marks the record requested in one
// conditional statement, so two requesters can never both win the same
// availability.
func (r *shoeRepository) Allocate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (bool, error) {
	query := `
		UPDATE shoes
		SET inventory_count = inventory_count - 1,
		    status = 'requested',
		    updated_at = NOW()
		WHERE id = $1
		  AND status = 'available'
		  AND inventory_count > 0
	`

	tag, err := tx.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error().Err(err).Str("shoe_id", id.String()).Msg("failed to allocate shoe")
		return false, fmt.Errorf("failed to allocate shoe: %w", err)
	}

	allocated := tag.RowsAffected() > 0
	r.logger.Debug().
		Str("shoe_id", id.String()).
		Bool("allocated", allocated).
		Msg("shoe allocation attempted")

	return allocated, nil
}

func (r *shoeRepository) query(ctx context.Context, query string, args ...any) ([]model.Shoe, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shoes := []model.Shoe{}
	for rows.Next() {
		shoe, err := scanShoe(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shoe: %w", err)
		}
		shoes = append(shoes, *shoe)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shoes: %w", err)
	}

	return shoes, nil
}
