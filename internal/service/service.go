package service

import (
	"context"

	"newsteps/internal/model"

	"github.com/google/uuid"
)

// ShoeService defines operations for inventory management.
type ShoeService interface {
	// Create adds an inventory record, assigning a shoe number when absent.
	Create(ctx context.Context, input *model.ShoeInput) (*model.Shoe, error)

	// GetByID retrieves a single inventory record.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Shoe, error)

	// List retrieves inventory records with filtering and pagination.
	List(ctx context.Context, filter model.ShoeFilter) ([]model.Shoe, error)

	// Update applies an admin patch to an inventory record.
	Update(ctx context.Context, id uuid.UUID, patch *model.ShoePatch) (*model.Shoe, error)

	// Delete removes an inventory record.
	Delete(ctx context.Context, id uuid.UUID) error
}

// RequestService defines the shoe request workflow.
type RequestService interface {
	// Submit validates a cart, allocates every item and records the request.
	Submit(ctx context.Context, identity model.Identity, req *model.SubmitRequest) (*model.SubmitResponse, error)

	// ListForUser retrieves a requester's own requests with current inventory details.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]model.Request, error)

	// List retrieves all requests, optionally filtered on current status.
	List(ctx context.Context, status model.Status) ([]model.Request, error)

	// GetByID retrieves one request.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Request, error)

	// UpdateStatus appends an admin status change to a request.
	UpdateStatus(ctx context.Context, update *model.StatusUpdate) (*model.Request, error)
}

// DonationService defines the donation workflow.
type DonationService interface {
	// SubmitShoeDonation records a shoe donation. identity is nil for
	// anonymous donors.
	SubmitShoeDonation(ctx context.Context, identity *model.Identity, input *model.DonationInput) (*model.Donation, error)

	// SubmitMoneyDonation records a monetary donation.
	SubmitMoneyDonation(ctx context.Context, identity *model.Identity, input *model.DonationInput) (*model.Donation, error)

	// GetByID retrieves one donation.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Donation, error)

	// List retrieves donations matching the filter.
	List(ctx context.Context, filter model.DonationFilter) ([]model.Donation, error)

	// UpdateStatus moves a donation of the given kind through the transition table.
	UpdateStatus(ctx context.Context, kind model.DonationKind, update *model.StatusUpdate) (*model.Donation, error)
}
