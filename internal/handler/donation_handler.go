package handler

import (
	"context"
	"net/http"

	"newsteps/internal/auth"
	"newsteps/internal/model"
	"newsteps/internal/service"

	"github.com/rs/zerolog"
)

// DonationReceipt is returned after a donation is recorded.
type DonationReceipt struct {
	ID         string       `json:"id"`
	DonationID string       `json:"donationId"`
	Status     model.Status `json:"status"`
}

// DonationHandler handles donation HTTP requests.
type DonationHandler struct {
	service service.DonationService
	logger  zerolog.Logger
}

// NewDonationHandler creates a new donation handler.
func NewDonationHandler(service service.DonationService, logger zerolog.Logger) *DonationHandler {
	return &DonationHandler{
		service: service,
		logger:  logger.With().Str("handler", "donation").Logger(),
	}
}

// SubmitShoes handles POST /api/donations/shoes.
func (h *DonationHandler) SubmitShoes(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, h.service.SubmitShoeDonation)
}

// SubmitMoney handles POST /api/donations/money.
func (h *DonationHandler) SubmitMoney(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, h.service.SubmitMoneyDonation)
}

type submitFunc func(ctx context.Context, identity *model.Identity, input *model.DonationInput) (*model.Donation, error)

func (h *DonationHandler) submit(w http.ResponseWriter, r *http.Request, submit submitFunc) {
	var input model.DonationInput
	if !decodeJSON(w, r, &input, h.logger) {
		return
	}

	var identity *model.Identity
	if id, ok := auth.IdentityFrom(r.Context()); ok {
		identity = &id
	}

	donation, err := submit(r.Context(), identity, &input)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, DonationReceipt{
		ID:         donation.ID.String(),
		DonationID: donation.DonationID,
		Status:     donation.CurrentStatus(),
	})
}

// List returns the admin listing handler for one donation kind.
func (h *DonationHandler) List(kind model.DonationKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		donations, err := h.service.List(r.Context(), model.DonationFilter{
			Kind:   kind,
			Status: model.Status(r.URL.Query().Get("status")),
		})
		if err != nil {
			writeServiceError(w, err, h.logger)
			return
		}

		if donations == nil {
			donations = []model.Donation{}
		}
		writeJSON(w, http.StatusOK, donations)
	}
}

// UpdateStatus returns the admin status handler for one donation kind.
func (h *DonationHandler) UpdateStatus(kind model.DonationKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var update model.StatusUpdate
		if !decodeJSON(w, r, &update, h.logger) {
			return
		}

		donation, err := h.service.UpdateStatus(r.Context(), kind, &update)
		if err != nil {
			writeServiceError(w, err, h.logger)
			return
		}

		writeJSON(w, http.StatusOK, donation)
	}
}
