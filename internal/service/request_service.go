package service

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"newsteps/internal/model"
	"newsteps/internal/notify"
	"newsteps/internal/repository"
	"newsteps/internal/settings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const notifyTimeout = 15 * time.Second

// SettingsSource supplies the settings snapshot for one operation.
type SettingsSource interface {
	Current() *settings.Settings
}

// requestService implements RequestService.
type requestService struct {
	requestRepo repository.RequestRepository
	shoeRepo    repository.ShoeRepository
	userRepo    repository.UserRepository
	counterRepo repository.CounterRepository
	statusRepo  repository.StatusRepository
	settings    SettingsSource
	sender      notify.Sender
	logger      zerolog.Logger
}

// NewRequestService creates a new request workflow service.
func NewRequestService(
	requestRepo repository.RequestRepository,
	shoeRepo repository.ShoeRepository,
	userRepo repository.UserRepository,
	counterRepo repository.CounterRepository,
	statusRepo repository.StatusRepository,
	settings SettingsSource,
	sender notify.Sender,
	logger zerolog.Logger,
) RequestService {
	return &requestService{
		requestRepo: requestRepo,
		shoeRepo:    shoeRepo,
		userRepo:    userRepo,
		counterRepo: counterRepo,
		statusRepo:  statusRepo,
		settings:    settings,
		sender:      sender,
		logger:      logger.With().Str("service", "request").Logger(),
	}
}

// Submit validates the cart, then creates the request and allocates every
// item in one transaction. Either all items are allocated or nothing is
// written. Resubmitting the same cart creates another request.
func (s *requestService) Submit(ctx context.Context, identity model.Identity, req *model.SubmitRequest) (*model.SubmitResponse, error) {
	cfg := s.settings.Current()

	if err := validateSubmission(req, cfg.MaxItems()); err != nil {
		s.logger.Debug().Err(err).Str("user_id", identity.UserID.String()).Msg("request rejected")
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		s.logger.Warn().Str("user_id", identity.UserID.String()).Msg("session user has no record")
		return nil, model.ErrUserNotFound
	}

	ids := make([]uuid.UUID, len(req.Items))
	for i, item := range req.Items {
		ids[i] = item.InventoryID
	}

	shoes, err := s.shoeRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart items: %w", err)
	}

	byID := make(map[uuid.UUID]model.Shoe, len(shoes))
	for _, shoe := range shoes {
		byID[shoe.ID] = shoe
	}

	var unavailable []string
	seen := make(map[uuid.UUID]bool, len(req.Items))
	for _, item := range req.Items {
		shoe, ok := byID[item.InventoryID]
		switch {
		case !ok:
			unavailable = append(unavailable, cartItemLabel(item))
		case !shoe.Allocatable() || seen[item.InventoryID]:
			// one allocation consumes the record, so a repeated id cannot be served
			unavailable = append(unavailable, model.UnavailableLabel(shoe.Brand, shoe.ModelName))
		}
		seen[item.InventoryID] = true
	}

	if len(unavailable) > 0 {
		s.logger.Info().
			Str("user_id", user.ID.String()).
			Strs("unavailable", unavailable).
			Msg("request rejected, items unavailable")
		return nil, &model.UnavailableError{Items: unavailable}
	}

	seq, err := s.counterRepo.Next(ctx, model.CounterRequestID)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to assign request id")
		return nil, fmt.Errorf("failed to assign request id: %w", err)
	}

	fee := shippingFee(cfg, user, req.ShippingInfo)
	now := time.Now().UTC()

	request := &model.Request{
		ID:            uuid.New(),
		RequestID:     model.FormatRequestID(seq),
		UserID:        user.ID,
		RequestorInfo: req.RequestorInfo,
		ShippingInfo:  req.ShippingInfo,
		ShippingFee:   fee,
		TotalCost:     fee,
		CreatedAt:     now,
	}
	for _, item := range req.Items {
		shoe := byID[item.InventoryID]
		request.Items = append(request.Items, model.RequestItem{
			ID:          uuid.New(),
			RequestID:   request.ID,
			InventoryID: shoe.ID,
			ShoeID:      shoe.ShoeID,
			Brand:       shoe.Brand,
			Name:        shoe.ModelName,
			Size:        shoe.Size,
			Gender:      shoe.Gender,
			Sport:       shoe.Sport,
			Condition:   shoe.Condition,
		})
	}
	entry := model.StatusEntry{Status: model.RequestSubmitted, Timestamp: now}
	request.StatusHistory = model.StatusHistory{entry}

	tx, err := s.requestRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.requestRepo.Create(ctx, tx, request); err != nil {
		s.logger.Error().Err(err).Str("request_id", request.RequestID).Msg("failed to create request")
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if err = s.statusRepo.Append(ctx, tx, model.EntityRequest, request.ID, entry); err != nil {
		return nil, fmt.Errorf("failed to record request status: %w", err)
	}

	// Rows are locked in a fixed order so overlapping carts cannot deadlock.
	allocation := slices.Clone(request.Items)
	slices.SortFunc(allocation, func(a, b model.RequestItem) int {
		return bytes.Compare(a.InventoryID[:], b.InventoryID[:])
	})

	var lost []string
	for _, item := range allocation {
		ok, allocErr := s.shoeRepo.Allocate(ctx, tx, item.InventoryID)
		if allocErr != nil {
			err = allocErr
			s.logger.Error().Err(err).Str("inventory_id", item.InventoryID.String()).Msg("failed to allocate shoe")
			return nil, fmt.Errorf("failed to allocate shoe: %w", err)
		}
		if !ok {
			lost = append(lost, model.UnavailableLabel(item.Brand, item.Name))
		}
	}

	if len(lost) > 0 {
		err = &model.UnavailableError{Items: lost}
		s.logger.Info().
			Str("request_id", request.RequestID).
			Strs("unavailable", lost).
			Msg("allocation lost to a concurrent request")
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("request_id", request.RequestID).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	s.logger.Info().
		Str("request_id", request.RequestID).
		Str("user_id", user.ID.String()).
		Int("item_count", len(request.Items)).
		Float64("shipping_fee", fee).
		Msg("request submitted")

	msg, renderErr := notify.RequestConfirmation(request)
	deliver(ctx, s.sender, msg, renderErr, s.logger.With().Str("request_id", request.RequestID).Logger())

	return &model.SubmitResponse{
		RequestID:   request.RequestID,
		ShippingFee: request.ShippingFee,
		TotalCost:   request.TotalCost,
	}, nil
}

// ListForUser retrieves a requester's requests with each item's current
// inventory record attached when it still exists.
func (s *requestService) ListForUser(ctx context.Context, userID uuid.UUID) ([]model.Request, error) {
	requests, err := s.requestRepo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to list requests")
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}

	var ids []uuid.UUID
	for _, req := range requests {
		for _, item := range req.Items {
			ids = append(ids, item.InventoryID)
		}
	}
	if len(ids) == 0 {
		return requests, nil
	}

	shoes, err := s.shoeRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory for requests: %w", err)
	}

	byID := make(map[uuid.UUID]*model.Shoe, len(shoes))
	for i := range shoes {
		byID[shoes[i].ID] = &shoes[i]
	}

	for i := range requests {
		for j := range requests[i].Items {
			requests[i].Items[j].Inventory = byID[requests[i].Items[j].InventoryID]
		}
	}

	return requests, nil
}

// List retrieves all requests, optionally filtered on current status.
func (s *requestService) List(ctx context.Context, status model.Status) ([]model.Request, error) {
	if status != "" && !model.ValidRequestStatus(status) {
		return nil, model.NewDomainError(model.ErrCodeInvalidStatus, fmt.Sprintf("invalid request status: %s", status))
	}

	requests, err := s.requestRepo.List(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	return requests, nil
}

// GetByID retrieves one request.
func (s *requestService) GetByID(ctx context.Context, id uuid.UUID) (*model.Request, error) {
	req, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("id", id.String()).Msg("failed to get request")
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	if req == nil {
		return nil, model.ErrRequestNotFound
	}
	return req, nil
}

// UpdateStatus appends a status to the request's history. Any request
// status may follow any other.
func (s *requestService) UpdateStatus(ctx context.Context, update *model.StatusUpdate) (*model.Request, error) {
	if update == nil || update.ID == uuid.Nil {
		return nil, model.Validationf("request id is required")
	}
	if !model.ValidRequestStatus(update.Status) {
		return nil, model.NewDomainError(model.ErrCodeInvalidStatus, fmt.Sprintf("invalid request status: %s", update.Status))
	}

	tx, err := s.requestRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update request: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	found, err := s.requestRepo.Lock(ctx, tx, update.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock request: %w", err)
	}
	if !found {
		err = model.ErrRequestNotFound
		return nil, err
	}

	entry := model.StatusEntry{
		Status:    update.Status,
		Note:      strings.TrimSpace(update.Note),
		Timestamp: time.Now().UTC(),
	}
	if err = s.statusRepo.Append(ctx, tx, model.EntityRequest, update.ID, entry); err != nil {
		return nil, fmt.Errorf("failed to record request status: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to update request: %w", err)
	}

	s.logger.Info().
		Str("id", update.ID.String()).
		Str("status", string(update.Status)).
		Msg("request status updated")

	return s.GetByID(ctx, update.ID)
}

// validateSubmission checks everything that needs no store access.
func validateSubmission(req *model.SubmitRequest, maxItems int) error {
	if req == nil || len(req.Items) == 0 {
		return model.ErrEmptyCart
	}

	if len(req.Items) > maxItems {
		return model.ErrTooManyItems(maxItems)
	}

	for i, item := range req.Items {
		if item.InventoryID == uuid.Nil {
			return model.Validationf("item %d: inventoryId is required", i)
		}
	}

	info := req.RequestorInfo
	var missing []string
	if strings.TrimSpace(info.FirstName) == "" {
		missing = append(missing, "firstName")
	}
	if strings.TrimSpace(info.LastName) == "" {
		missing = append(missing, "lastName")
	}
	if strings.TrimSpace(info.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(info.Phone) == "" {
		missing = append(missing, "phone")
	}
	if len(missing) > 0 {
		return model.Validationf("Missing required contact fields: %s", strings.Join(missing, ", "))
	}

	switch req.ShippingInfo.DeliveryMethod {
	case model.DeliveryPickup:
	case model.DeliveryShipping:
		if !req.ShippingInfo.AddressComplete() {
			return model.Validationf("Complete shipping address is required for shipping delivery")
		}
	default:
		return model.Validationf("Invalid delivery method: %q", req.ShippingInfo.DeliveryMethod)
	}

	return nil
}

// shippingFee is zero for pickup and for Bay Area requesters when the
// settings waive it.
func shippingFee(cfg *settings.Settings, user *model.User, info model.ShippingInfo) float64 {
	if info.DeliveryMethod == model.DeliveryPickup {
		return 0
	}
	if cfg.WaiveShippingForBayArea && (user.BayArea || cfg.IsBayAreaZip(info.ZipCode)) {
		return 0
	}
	return cfg.ShippingFee
}

func cartItemLabel(item model.CartItem) string {
	if strings.TrimSpace(item.Brand+item.Name) == "" {
		return model.UnavailableLabel("Shoe", item.InventoryID.String())
	}
	return model.UnavailableLabel(item.Brand, item.Name)
}

// deliver sends a confirmation without letting failures reach the caller.
func deliver(ctx context.Context, sender notify.Sender, msg notify.Message, renderErr error, logger zerolog.Logger) {
	if renderErr != nil {
		logger.Error().Err(renderErr).Msg("failed to render confirmation email")
		return
	}
	if sender == nil || msg.To == "" {
		return
	}

	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	if err := sender.Send(sendCtx, msg.To, msg.Subject, msg.HTML); err != nil {
		logger.Warn().Err(err).Str("to", msg.To).Msg("failed to send confirmation email")
	}
}
