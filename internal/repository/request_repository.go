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

const requestColumns = `r.id, r.request_id, r.user_id, r.first_name, r.last_name, r.email, r.phone,
	r.delivery_method, r.address_line1, r.address_line2, r.city, r.state, r.zip_code,
	r.shipping_fee, r.total_cost, r.created_at`

// requestRepository implements the RequestRepository interface using PostgreSQL.
type requestRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewRequestRepository creates a new PostgreSQL-backed request repository.
func NewRequestRepository(pool *pgxpool.Pool, logger zerolog.Logger) RequestRepository {
	return &requestRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "request").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *requestRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// Create inserts a request and its items within the provided transaction.
// The status history is written separately through the ledger.
func (r *requestRepository) Create(ctx context.Context, tx pgx.Tx, req *model.Request) error {
	query := `
		INSERT INTO requests (
			id, request_id, user_id, first_name, last_name, email, phone,
			delivery_method, address_line1, address_line2, city, state, zip_code,
			shipping_fee, total_cost, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := tx.Exec(ctx, query,
		req.ID,
		req.RequestID,
		req.UserID,
		req.RequestorInfo.FirstName,
		req.RequestorInfo.LastName,
		req.RequestorInfo.Email,
		req.RequestorInfo.Phone,
		req.ShippingInfo.DeliveryMethod,
		req.ShippingInfo.AddressLine1,
		req.ShippingInfo.AddressLine2,
		req.ShippingInfo.City,
		req.ShippingInfo.State,
		req.ShippingInfo.ZipCode,
		req.ShippingFee,
		req.TotalCost,
		req.CreatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("request_id", req.RequestID).
			Msg("failed to create request")
		return fmt.Errorf("failed to create request: %w", err)
	}

	if err := r.createItems(ctx, tx, req.Items); err != nil {
		return err
	}

	r.logger.Debug().
		Str("request_id", req.RequestID).
		Int("item_count", len(req.Items)).
		Msg("request created successfully")

	return nil
}

func (r *requestRepository) createItems(ctx context.Context, tx pgx.Tx, items []model.RequestItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO request_items (id, request_id, inventory_id, shoe_id, brand, name, size, gender, sport, condition)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query,
			item.ID,
			item.RequestID,
			item.InventoryID,
			item.ShoeID,
			item.Brand,
			item.Name,
			item.Size,
			item.Gender,
			item.Sport,
			item.Condition,
		)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(items); i++ {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().
				Err(err).
				Str("request_id", items[i].RequestID.String()).
				Str("inventory_id", items[i].InventoryID.String()).
				Msg("failed to create request item")
			return fmt.Errorf("failed to create request item: %w", err)
		}
	}

	return nil
}

// GetByID retrieves a request with items and status history.
func (r *requestRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests r WHERE r.id = $1`

	req, err := scanRequest(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("request_id", id.String()).Msg("request not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("request_id", id.String()).Msg("failed to query request")
		return nil, fmt.Errorf("failed to query request: %w", err)
	}

	requests := []model.Request{*req}
	if err := r.populate(ctx, requests); err != nil {
		return nil, err
	}

	return &requests[0], nil
}

// ListByUser retrieves a user's requests, newest first.
func (r *requestRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests r WHERE r.user_id = $1 ORDER BY r.created_at DESC, r.request_id DESC`
	return r.list(ctx, query, userID)
}

// List retrieves all requests, optionally filtered on the current status.
func (r *requestRepository) List(ctx context.Context, status model.Status) ([]model.Request, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM requests r
		WHERE $1::text = '' OR (
			SELECT sh.status
			FROM status_history sh
			WHERE sh.entity_kind = 'request' AND sh.entity_id = r.id
			ORDER BY sh.id DESC
			LIMIT 1
		) = $1::text
		ORDER BY r.created_at DESC, r.request_id DESC
	`
	return r.list(ctx, query, string(status))
}

// Lock takes a row lock on the request within tx.
func (r *requestRepository) Lock(ctx context.Context, tx pgx.Tx, id uuid.UUID) (bool, error) {
	var locked uuid.UUID
	err := tx.QueryRow(ctx, `SELECT id FROM requests WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		r.logger.Error().Err(err).Str("request_id", id.String()).Msg("failed to lock request")
		return false, fmt.Errorf("failed to lock request: %w", err)
	}
	return true, nil
}

func (r *requestRepository) list(ctx context.Context, query string, args ...any) ([]model.Request, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query requests")
		return nil, fmt.Errorf("failed to query requests: %w", err)
	}
	defer rows.Close()

	requests := []model.Request{}
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan request row")
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		requests = append(requests, *req)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating request rows")
		return nil, fmt.Errorf("error iterating requests: %w", err)
	}

	if err := r.populate(ctx, requests); err != nil {
		return nil, err
	}

	return requests, nil
}

// populate attaches items and status histories to the given requests.
func (r *requestRepository) populate(ctx context.Context, requests []model.Request) error {
	if len(requests) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(requests))
	for i := range requests {
		ids[i] = requests[i].ID
	}

	items, err := r.itemsFor(ctx, ids)
	if err != nil {
		return err
	}

	histories, err := loadHistories(ctx, r.pool, model.EntityRequest, ids)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to load request status history")
		return err
	}

	for i := range requests {
		requests[i].Items = items[requests[i].ID]
		if requests[i].Items == nil {
			requests[i].Items = []model.RequestItem{}
		}
		requests[i].StatusHistory = histories[requests[i].ID]
	}

	return nil
}

func (r *requestRepository) itemsFor(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]model.RequestItem, error) {
	query := `
		SELECT id, request_id, inventory_id, shoe_id, brand, name, size, gender, sport, condition
		FROM request_items
		WHERE request_id = ANY($1)
		ORDER BY shoe_id
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query request items")
		return nil, fmt.Errorf("failed to query request items: %w", err)
	}
	defer rows.Close()

	items := make(map[uuid.UUID][]model.RequestItem, len(ids))
	for rows.Next() {
		var item model.RequestItem
		err := rows.Scan(
			&item.ID,
			&item.RequestID,
			&item.InventoryID,
			&item.ShoeID,
			&item.Brand,
			&item.Name,
			&item.Size,
			&item.Gender,
			&item.Sport,
			&item.Condition,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan request item row")
			return nil, fmt.Errorf("failed to scan request item: %w", err)
		}
		items[item.RequestID] = append(items[item.RequestID], item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating request item rows")
		return nil, fmt.Errorf("error iterating request items: %w", err)
	}

	return items, nil
}

func scanRequest(row pgx.Row) (*model.Request, error) {
	var req model.Request
	err := row.Scan(
		&req.ID,
		&req.RequestID,
		&req.UserID,
		&req.RequestorInfo.FirstName,
		&req.RequestorInfo.LastName,
		&req.RequestorInfo.Email,
		&req.RequestorInfo.Phone,
		&req.ShippingInfo.DeliveryMethod,
		&req.ShippingInfo.AddressLine1,
		&req.ShippingInfo.AddressLine2,
		&req.ShippingInfo.City,
		&req.ShippingInfo.State,
		&req.ShippingInfo.ZipCode,
		&req.ShippingFee,
		&req.TotalCost,
		&req.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}
