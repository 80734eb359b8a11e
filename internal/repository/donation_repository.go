package repository

import (
	"context"
	"errors"
	"fmt"

	"newsteps/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const donationColumns = `d.id, d.donation_id, d.kind, d.user_id, d.first_name, d.last_name, d.email,
	d.phone, d.address, d.amount, d.admin_notes, d.created_at`

// donationRepository implements the DonationRepository interface using PostgreSQL.
type donationRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewDonationRepository creates a new PostgreSQL-backed donation repository.
func NewDonationRepository(pool *pgxpool.Pool, logger zerolog.Logger) DonationRepository {
	return &donationRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "donation").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *donationRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// Create inserts a donation and its items within the provided transaction.
func (r *donationRepository) Create(ctx context.Context, tx pgx.Tx, d *model.Donation) error {
	query := `
		INSERT INTO donations (
			id, donation_id, kind, user_id, first_name, last_name, email,
			phone, address, amount, admin_notes, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := tx.Exec(ctx, query,
		d.ID,
		d.DonationID,
		string(d.Kind),
		d.UserID,
		d.DonorInfo.FirstName,
		d.DonorInfo.LastName,
		d.DonorInfo.Email,
		d.DonorInfo.Phone,
		d.DonorInfo.Address,
		d.Amount,
		d.AdminNotes,
		d.CreatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("donation_id", d.DonationID).Msg("failed to create donation")
		return fmt.Errorf("failed to create donation: %w", err)
	}

	if len(d.Items) > 0 {
		itemQuery := `
			INSERT INTO donation_items (id, donation_id, brand, model_name, size, gender, sport, condition, quantity)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`

		batch := &pgx.Batch{}
		for _, item := range d.Items {
			batch.Queue(itemQuery,
				item.ID,
				item.DonationID,
				item.Brand,
				item.ModelName,
				item.Size,
				item.Gender,
				item.Sport,
				item.Condition,
				item.Quantity,
			)
		}

		results := tx.SendBatch(ctx, batch)
		for range d.Items {
			if _, err := results.Exec(); err != nil {
				results.Close()
				r.logger.Error().Err(err).Str("donation_id", d.DonationID).Msg("failed to create donation item")
				return fmt.Errorf("failed to create donation item: %w", err)
			}
		}
		if err := results.Close(); err != nil {
			return fmt.Errorf("failed to create donation items: %w", err)
		}
	}

	r.logger.Debug().
		Str("donation_id", d.DonationID).
		Str("kind", string(d.Kind)).
		Msg("donation created successfully")

	return nil
}

// GetByID retrieves a donation with items and status history.
func (r *donationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Donation, error) {
	query := `SELECT ` + donationColumns + ` FROM donations d WHERE d.id = $1`

	d, err := scanDonation(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("donation_id", id.String()).Msg("donation not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("donation_id", id.String()).Msg("failed to query donation")
		return nil, fmt.Errorf("failed to query donation: %w", err)
	}

	donations := []model.Donation{*d}
	if err := r.populate(ctx, donations); err != nil {
		return nil, err
	}
	return &donations[0], nil
}

// List retrieves donations matching the filter, newest first.
func (r *donationRepository) List(ctx context.Context, filter model.DonationFilter) ([]model.Donation, error) {
	query := `
		SELECT ` + donationColumns + `
		FROM donations d
		WHERE ($1::text = '' OR d.kind = $1::text)
		  AND ($2::text = '' OR (
			SELECT sh.status
			FROM status_history sh
			WHERE sh.entity_kind = 'donation' AND sh.entity_id = d.id
			ORDER BY sh.id DESC
			LIMIT 1
		  ) = $2::text)
		ORDER BY d.created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, string(filter.Kind), string(filter.Status))
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query donations")
		return nil, fmt.Errorf("failed to query donations: %w", err)
	}
	defer rows.Close()

	donations := []model.Donation{}
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan donation row")
			return nil, fmt.Errorf("failed to scan donation: %w", err)
		}
		donations = append(donations, *d)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating donation rows")
		return nil, fmt.Errorf("error iterating donations: %w", err)
	}

	if err := r.populate(ctx, donations); err != nil {
		return nil, err
	}
	return donations, nil
}

// Lock takes a row lock on the donation within tx and returns its kind.
func (r *donationRepository) Lock(ctx context.Context, tx pgx.Tx, id uuid.UUID) (model.DonationKind, error) {
	var kind model.DonationKind
	err := tx.QueryRow(ctx, `SELECT kind FROM donations WHERE id = $1 FOR UPDATE`, id).Scan(&kind)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		r.logger.Error().Err(err).Str("donation_id", id.String()).Msg("failed to lock donation")
		return "", fmt.Errorf("failed to lock donation: %w", err)
	}
	return kind, nil
}

// SetAdminNotes replaces the admin notes within tx.
func (r *donationRepository) SetAdminNotes(ctx context.Context, tx pgx.Tx, id uuid.UUID, notes string) error {
	if _, err := tx.Exec(ctx, `UPDATE donations SET admin_notes = $2 WHERE id = $1`, id, notes); err != nil {
		r.logger.Error().Err(err).Str("donation_id", id.String()).Msg("failed to update admin notes")
		return fmt.Errorf("failed to update admin notes: %w", err)
	}
	return nil
}

func (r *donationRepository) populate(ctx context.Context, donations []model.Donation) error {
	if len(donations) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(donations))
	for i := range donations {
		ids[i] = donations[i].ID
	}

	query := `
		SELECT id, donation_id, brand, model_name, size, gender, sport, condition, quantity
		FROM donation_items
		WHERE donation_id = ANY($1)
		ORDER BY brand, size
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query donation items")
		return fmt.Errorf("failed to query donation items: %w", err)
	}
	defer rows.Close()

	items := make(map[uuid.UUID][]model.DonationItem, len(ids))
	for rows.Next() {
		var item model.DonationItem
		err := rows.Scan(
			&item.ID,
			&item.DonationID,
			&item.Brand,
			&item.ModelName,
			&item.Size,
			&item.Gender,
			&item.Sport,
			&item.Condition,
			&item.Quantity,
		)
		if err != nil {
			return fmt.Errorf("failed to scan donation item: %w", err)
		}
		items[item.DonationID] = append(items[item.DonationID], item)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating donation items: %w", err)
	}

	histories, err := loadHistories(ctx, r.pool, model.EntityDonation, ids)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to load donation status history")
		return err
	}

	for i := range donations {
		donations[i].Items = items[donations[i].ID]
		donations[i].StatusHistory = histories[donations[i].ID]
	}
	return nil
}

func scanDonation(row pgx.Row) (*model.Donation, error) {
	var d model.Donation
	err := row.Scan(
		&d.ID,
		&d.DonationID,
		&d.Kind,
		&d.UserID,
		&d.DonorInfo.FirstName,
		&d.DonorInfo.LastName,
		&d.DonorInfo.Email,
		&d.DonorInfo.Phone,
		&d.DonorInfo.Address,
		&d.Amount,
		&d.AdminNotes,
		&d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
