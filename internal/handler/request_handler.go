package handler

import (
	"net/http"

	"newsteps/internal/auth"
	"newsteps/internal/model"
	"newsteps/internal/service"

	"github.com/rs/zerolog"
)

// RequestHandler handles shoe request HTTP requests.
type RequestHandler struct {
	service service.RequestService
	logger  zerolog.Logger
}

// NewRequestHandler creates a new request handler.
func NewRequestHandler(service service.RequestService, logger zerolog.Logger) *RequestHandler {
	return &RequestHandler{
		service: service,
		logger:  logger.With().Str("handler", "request").Logger(),
	}
}

// Submit handles POST /api/requests.
func (h *RequestHandler) Submit(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "authentication required", h.logger)
		return
	}

	var req model.SubmitRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	resp, err := h.service.Submit(r.Context(), identity, &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// ListMine handles GET /api/requests.
func (h *RequestHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "authentication required", h.logger)
		return
	}

	requests, err := h.service.ListForUser(r.Context(), identity.UserID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	if requests == nil {
		requests = []model.Request{}
	}
	writeJSON(w, http.StatusOK, requests)
}

// List handles GET /api/admin/requests.
func (h *RequestHandler) List(w http.ResponseWriter, r *http.Request) {
	requests, err := h.service.List(r.Context(), model.Status(r.URL.Query().Get("status")))
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	if requests == nil {
		requests = []model.Request{}
	}
	writeJSON(w, http.StatusOK, requests)
}

// UpdateStatus handles PATCH /api/admin/requests.
func (h *RequestHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var update model.StatusUpdate
	if !decodeJSON(w, r, &update, h.logger) {
		return
	}

	req, err := h.service.UpdateStatus(r.Context(), &update)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, req)
}
