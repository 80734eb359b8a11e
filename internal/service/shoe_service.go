package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"newsteps/internal/model"
	"newsteps/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// shoeService implements ShoeService.
type shoeService struct {
	shoeRepo     repository.ShoeRepository
	donationRepo repository.DonationRepository
	counterRepo  repository.CounterRepository
	logger       zerolog.Logger
}

// NewShoeService creates a new inventory service.
func NewShoeService(
	shoeRepo repository.ShoeRepository,
	donationRepo repository.DonationRepository,
	counterRepo repository.CounterRepository,
	logger zerolog.Logger,
) ShoeService {
	return &shoeService{
		shoeRepo:     shoeRepo,
		donationRepo: donationRepo,
		counterRepo:  counterRepo,
		logger:       logger.With().Str("service", "shoe").Logger(),
	}
}

// Create adds an inventory record. Linking it to a processed donation is an
// explicit admin step; nothing is created automatically from donations.
func (s *shoeService) Create(ctx context.Context, input *model.ShoeInput) (*model.Shoe, error) {
	if input == nil {
		return nil, model.Validationf("shoe input is required")
	}

	if strings.TrimSpace(input.Brand) == "" {
		return nil, model.Validationf("brand is required")
	}

	if strings.TrimSpace(input.Size) == "" {
		return nil, model.Validationf("size is required")
	}

	count := 1
	if input.InventoryCount != nil {
		count = *input.InventoryCount
	}
	if count < 0 {
		return nil, model.Validationf("inventory count cannot be negative")
	}

	status := model.ShoeAvailable
	if input.Status != "" {
		if !input.Status.Valid() {
			return nil, model.NewDomainError(model.ErrCodeInvalidStatus, fmt.Sprintf("invalid shoe status: %s", input.Status))
		}
		status = input.Status
	}

	if input.DonationID != nil {
		donation, err := s.donationRepo.GetByID(ctx, *input.DonationID)
		if err != nil {
			return nil, fmt.Errorf("failed to look up donation: %w", err)
		}
		if donation == nil {
			return nil, model.ErrDonationNotFound
		}
	}

	var shoeNumber int64
	if input.ShoeID != nil {
		shoeNumber = *input.ShoeID
	} else {
		seq, err := s.counterRepo.Next(ctx, model.CounterShoeID)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to assign shoe number")
			return nil, fmt.Errorf("failed to assign shoe number: %w", err)
		}
		shoeNumber = seq
	}

	now := time.Now().UTC()
	shoe := &model.Shoe{
		ID:             uuid.New(),
		ShoeID:         shoeNumber,
		Brand:          strings.TrimSpace(input.Brand),
		ModelName:      strings.TrimSpace(input.ModelName),
		Size:           strings.TrimSpace(input.Size),
		Gender:         input.Gender,
		Sport:          input.Sport,
		Condition:      input.Condition,
		Status:         status,
		InventoryCount: count,
		DonationID:     input.DonationID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.shoeRepo.Create(ctx, shoe); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, model.Validationf("shoe number %d is already in use", shoeNumber)
		}
		return nil, fmt.Errorf("failed to create shoe: %w", err)
	}

	s.logger.Info().
		Str("shoe_id", shoe.ID.String()).
		Int64("shoe_number", shoe.ShoeID).
		Int("inventory_count", shoe.InventoryCount).
		Msg("shoe added to inventory")

	return shoe, nil
}

// GetByID retrieves a single inventory record.
func (s *shoeService) GetByID(ctx context.Context, id uuid.UUID) (*model.Shoe, error) {
	shoe, err := s.shoeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get shoe: %w", err)
	}
	if shoe == nil {
		return nil, model.ErrShoeNotFound
	}
	return shoe, nil
}

// List retrieves inventory records with filtering and pagination.
func (s *shoeService) List(ctx context.Context, filter model.ShoeFilter) ([]model.Shoe, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, model.NewDomainError(model.ErrCodeInvalidStatus, fmt.Sprintf("invalid shoe status: %s", filter.Status))
	}

	shoes, err := s.shoeRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list shoes: %w", err)
	}
	return shoes, nil
}

// Update applies an admin patch. This is the only way to restock a record
// after it has been requested. Fields the patch omits are left to the store,
// so a concurrent allocation is never overwritten.
func (s *shoeService) Update(ctx context.Context, id uuid.UUID, patch *model.ShoePatch) (*model.Shoe, error) {
	if patch == nil {
		return nil, model.Validationf("shoe patch is required")
	}

	clean := *patch
	trim := func(v *string) *string {
		if v == nil {
			return nil
		}
		t := strings.TrimSpace(*v)
		return &t
	}
	clean.Brand = trim(patch.Brand)
	clean.ModelName = trim(patch.ModelName)
	clean.Size = trim(patch.Size)
	clean.Gender = trim(patch.Gender)
	clean.Sport = trim(patch.Sport)
	clean.Condition = trim(patch.Condition)

	if clean.Brand != nil && *clean.Brand == "" {
		return nil, model.Validationf("brand is required")
	}
	if clean.Size != nil && *clean.Size == "" {
		return nil, model.Validationf("size is required")
	}
	if clean.Status != nil && !clean.Status.Valid() {
		return nil, model.NewDomainError(model.ErrCodeInvalidStatus, fmt.Sprintf("invalid shoe status: %s", *clean.Status))
	}
	if clean.InventoryCount != nil && *clean.InventoryCount < 0 {
		return nil, model.Validationf("inventory count cannot be negative")
	}

	shoe, err := s.shoeRepo.Update(ctx, id, &clean, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to update shoe: %w", err)
	}
	if shoe == nil {
		return nil, model.ErrShoeNotFound
	}

	s.logger.Info().
		Str("shoe_id", shoe.ID.String()).
		Str("status", string(shoe.Status)).
		Int("inventory_count", shoe.InventoryCount).
		Msg("shoe updated")

	return shoe, nil
}

// Delete removes an inventory record. Requests that reference it keep their
// item snapshot.
func (s *shoeService) Delete(ctx context.Context, id uuid.UUID) error {
	found, err := s.shoeRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete shoe: %w", err)
	}
	if !found {
		return model.ErrShoeNotFound
	}

	s.logger.Info().Str("shoe_id", id.String()).Msg("shoe deleted")
	return nil
}
