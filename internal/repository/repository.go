package repository

import (
	"context"
	"time"

	"newsteps/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx so reads can run
// inside or outside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// CounterRepository issues human-readable sequence numbers.
type CounterRepository interface {
	// Next atomically increments the named counter and returns the new value.
	Next(ctx context.Context, name string) (int64, error)
}

// ShoeRepository defines data access for inventory records.
type ShoeRepository interface {
	// Create inserts a new inventory record.
	Create(ctx context.Context, shoe *model.Shoe) error

	// GetByID retrieves a record by ID. Returns nil when it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Shoe, error)

	// GetByIDs retrieves every existing record among ids.
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Shoe, error)

	// List retrieves records matching the filter.
	List(ctx context.Context, filter model.ShoeFilter) ([]model.Shoe, error)

	// Update applies the supplied fields of patch and returns the updated
	// record, or nil when it does not exist.
	Update(ctx context.Context, id uuid.UUID, patch *model.ShoePatch, updatedAt time.Time) (*model.Shoe, error)

	// Delete removes a record. Returns false when it does not exist.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	// Allocate consumes the availability of a record within tx. Returns false
	// when the record is missing, not available or has no units left.
	Allocate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (bool, error)
}

// UserRepository defines data access for requester records.
type UserRepository interface {
	// GetByID retrieves a user. Returns nil when it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	// Create inserts a user.
	Create(ctx context.Context, user *model.User) error
}

// RequestRepository defines data access for shoe requests.
type RequestRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// Create inserts a request and its items within the provided transaction.
	Create(ctx context.Context, tx pgx.Tx, req *model.Request) error

	// GetByID retrieves a request with items and status history.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Request, error)

	// ListByUser retrieves a user's requests, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Request, error)

	// List retrieves all requests, optionally only those whose current status matches.
	List(ctx context.Context, status model.Status) ([]model.Request, error)

	// Lock takes a row lock on the request within tx. Returns false when it does not exist.
	Lock(ctx context.Context, tx pgx.Tx, id uuid.UUID) (bool, error)
}

// DonationRepository defines data access for donations.
type DonationRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// Create inserts a donation and its items within the provided transaction.
	Create(ctx context.Context, tx pgx.Tx, donation *model.Donation) error

	// GetByID retrieves a donation with items and status history.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Donation, error)

	// List retrieves donations matching the filter, newest first.
	List(ctx context.Context, filter model.DonationFilter) ([]model.Donation, error)

	// Lock takes a row lock on the donation within tx and returns its kind.
	// Returns "" when it does not exist.
	Lock(ctx context.Context, tx pgx.Tx, id uuid.UUID) (model.DonationKind, error)

	// SetAdminNotes replaces the admin notes within tx.
	SetAdminNotes(ctx context.Context, tx pgx.Tx, id uuid.UUID, notes string) error
}

// StatusRepository is the append-only status history ledger.
type StatusRepository interface {
	// Append adds one entry to an entity's history.
	Append(ctx context.Context, db DBTX, kind model.EntityKind, entityID uuid.UUID, entry model.StatusEntry) error

	// History returns an entity's entries, oldest first.
	History(ctx context.Context, db DBTX, kind model.EntityKind, entityID uuid.UUID) (model.StatusHistory, error)

	// Histories returns the histories of several entities keyed by entity ID.
	Histories(ctx context.Context, kind model.EntityKind, entityIDs []uuid.UUID) (map[uuid.UUID]model.StatusHistory, error)
}
