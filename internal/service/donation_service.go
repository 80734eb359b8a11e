package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"newsteps/internal/model"
	"newsteps/internal/notify"
	"newsteps/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// donationService implements DonationService.
type donationService struct {
	donationRepo repository.DonationRepository
	counterRepo  repository.CounterRepository
	statusRepo   repository.StatusRepository
	sender       notify.Sender
	logger       zerolog.Logger
}

// NewDonationService creates a new donation workflow service.
func NewDonationService(
	donationRepo repository.DonationRepository,
	counterRepo repository.CounterRepository,
	statusRepo repository.StatusRepository,
	sender notify.Sender,
	logger zerolog.Logger,
) DonationService {
	return &donationService{
		donationRepo: donationRepo,
		counterRepo:  counterRepo,
		statusRepo:   statusRepo,
		sender:       sender,
		logger:       logger.With().Str("service", "donation").Logger(),
	}
}

// SubmitShoeDonation records a shoe donation with its first ledger entry.
func (s *donationService) SubmitShoeDonation(ctx context.Context, identity *model.Identity, input *model.DonationInput) (*model.Donation, error) {
	if err := validateDonor(input); err != nil {
		return nil, err
	}

	if len(input.Items) == 0 {
		return nil, model.Validationf("at least one shoe is required")
	}

	items := make([]model.DonationItem, len(input.Items))
	for i, item := range input.Items {
		if strings.TrimSpace(item.Brand) == "" || strings.TrimSpace(item.Size) == "" {
			return nil, model.Validationf("item %d: brand and size are required", i)
		}
		if item.Quantity == 0 {
			item.Quantity = 1
		}
		if item.Quantity < 0 {
			return nil, model.Validationf("item %d: quantity must be at least 1", i)
		}
		item.ID = uuid.New()
		items[i] = item
	}

	donation := &model.Donation{
		Kind:      model.DonationShoes,
		DonorInfo: input.DonorInfo,
		Items:     items,
	}
	return s.create(ctx, identity, donation, input.Note)
}

// SubmitMoneyDonation records a monetary donation with its first ledger entry.
func (s *donationService) SubmitMoneyDonation(ctx context.Context, identity *model.Identity, input *model.DonationInput) (*model.Donation, error) {
	if err := validateDonor(input); err != nil {
		return nil, err
	}

	if input.Amount <= 0 {
		return nil, model.Validationf("amount must be greater than zero")
	}

	donation := &model.Donation{
		Kind:      model.DonationMoney,
		DonorInfo: input.DonorInfo,
		Amount:    input.Amount,
	}
	return s.create(ctx, identity, donation, input.Note)
}

func (s *donationService) create(ctx context.Context, identity *model.Identity, donation *model.Donation, note string) (*model.Donation, error) {
	seq, err := s.counterRepo.Next(ctx, model.CounterDonationID)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to assign donation id")
		return nil, fmt.Errorf("failed to assign donation id: %w", err)
	}

	now := time.Now().UTC()
	donation.ID = uuid.New()
	donation.DonationID = model.FormatDonationID(seq)
	donation.CreatedAt = now
	if identity != nil {
		userID := identity.UserID
		donation.UserID = &userID
	}
	for i := range donation.Items {
		donation.Items[i].DonationID = donation.ID
	}

	entry := model.StatusEntry{
		Status:    model.DonationSubmitted,
		Note:      strings.TrimSpace(note),
		Timestamp: now,
	}
	donation.StatusHistory = model.StatusHistory{entry}

	tx, err := s.donationRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to create donation: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.donationRepo.Create(ctx, tx, donation); err != nil {
		s.logger.Error().Err(err).Str("donation_id", donation.DonationID).Msg("failed to create donation")
		return nil, fmt.Errorf("failed to create donation: %w", err)
	}

	if err = s.statusRepo.Append(ctx, tx, model.EntityDonation, donation.ID, entry); err != nil {
		return nil, fmt.Errorf("failed to record donation status: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("donation_id", donation.DonationID).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to create donation: %w", err)
	}

	s.logger.Info().
		Str("donation_id", donation.DonationID).
		Str("kind", string(donation.Kind)).
		Msg("donation submitted")

	msg, renderErr := notify.DonationConfirmation(donation)
	deliver(ctx, s.sender, msg, renderErr, s.logger.With().Str("donation_id", donation.DonationID).Logger())

	return donation, nil
}

// GetByID retrieves one donation.
func (s *donationService) GetByID(ctx context.Context, id uuid.UUID) (*model.Donation, error) {
	donation, err := s.donationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get donation: %w", err)
	}
	if donation == nil {
		return nil, model.ErrDonationNotFound
	}
	return donation, nil
}

// List retrieves donations matching the filter.
func (s *donationService) List(ctx context.Context, filter model.DonationFilter) ([]model.Donation, error) {
	if filter.Status != "" && !model.ValidDonationStatus(filter.Status) {
		return nil, model.NewDomainError(model.ErrCodeInvalidStatus, fmt.Sprintf("invalid donation status: %s", filter.Status))
	}

	donations, err := s.donationRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list donations: %w", err)
	}
	return donations, nil
}

// UpdateStatus validates the transition against the current status while
// holding the donation row lock, then appends the new status.
func (s *donationService) UpdateStatus(ctx context.Context, kind model.DonationKind, update *model.StatusUpdate) (*model.Donation, error) {
	if update == nil || update.ID == uuid.Nil {
		return nil, model.Validationf("donation id is required")
	}
	if !model.ValidDonationStatus(update.Status) {
		return nil, model.NewDomainError(model.ErrCodeInvalidStatus, fmt.Sprintf("invalid donation status: %s", update.Status))
	}

	tx, err := s.donationRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update donation: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	locked, err := s.donationRepo.Lock(ctx, tx, update.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock donation: %w", err)
	}
	if locked == "" || locked != kind {
		err = model.ErrDonationNotFound
		return nil, err
	}

	history, err := s.statusRepo.History(ctx, tx, model.EntityDonation, update.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load donation history: %w", err)
	}

	current := history.Current()
	if !model.CanTransitionDonation(current, update.Status) {
		err = &model.TransitionError{From: current, To: update.Status}
		s.logger.Info().
			Str("id", update.ID.String()).
			Str("from", string(current)).
			Str("to", string(update.Status)).
			Msg("donation transition rejected")
		return nil, err
	}

	entry := model.StatusEntry{
		Status:    update.Status,
		Note:      strings.TrimSpace(update.Note),
		Timestamp: time.Now().UTC(),
	}
	if err = s.statusRepo.Append(ctx, tx, model.EntityDonation, update.ID, entry); err != nil {
		return nil, fmt.Errorf("failed to record donation status: %w", err)
	}

	if update.AdminNotes != nil {
		if err = s.donationRepo.SetAdminNotes(ctx, tx, update.ID, *update.AdminNotes); err != nil {
			return nil, fmt.Errorf("failed to save admin notes: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to update donation: %w", err)
	}

	s.logger.Info().
		Str("id", update.ID.String()).
		Str("from", string(current)).
		Str("to", string(update.Status)).
		Msg("donation status updated")

	return s.GetByID(ctx, update.ID)
}

func validateDonor(input *model.DonationInput) error {
	if input == nil {
		return model.Validationf("donation is required")
	}

	donor := input.DonorInfo
	if strings.TrimSpace(donor.FirstName) == "" || strings.TrimSpace(donor.LastName) == "" {
		return model.Validationf("donor name is required")
	}
	if strings.TrimSpace(donor.Email) == "" {
		return model.Validationf("donor email is required")
	}
	return nil
}
