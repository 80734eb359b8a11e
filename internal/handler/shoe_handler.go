package handler

import (
	"net/http"
	"strconv"

	"newsteps/internal/model"
	"newsteps/internal/service"

	"github.com/rs/zerolog"
)

// ShoeHandler handles inventory HTTP requests.
type ShoeHandler struct {
	service service.ShoeService
	logger  zerolog.Logger
}

// NewShoeHandler creates a new inventory handler.
func NewShoeHandler(service service.ShoeService, logger zerolog.Logger) *ShoeHandler {
	return &ShoeHandler{
		service: service,
		logger:  logger.With().Str("handler", "shoe").Logger(),
	}
}

// List handles GET /api/shoes. The catalogue shows available shoes unless
// ?status= names another state; status=all lifts the filter.
func (h *ShoeHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := model.ShoeFilter{
		Status: model.ShoeAvailable,
		Size:   q.Get("size"),
		Gender: q.Get("gender"),
		Sport:  q.Get("sport"),
	}

	switch status := q.Get("status"); status {
	case "":
	case "all":
		filter.Status = ""
	default:
		filter.Status = model.ShoeStatus(status)
	}

	var ok bool
	if filter.Limit, ok = h.intParam(w, r, "limit"); !ok {
		return
	}
	if filter.Offset, ok = h.intParam(w, r, "offset"); !ok {
		return
	}

	shoes, err := h.service.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	if shoes == nil {
		shoes = []model.Shoe{}
	}
	writeJSON(w, http.StatusOK, shoes)
}

// GetByID handles GET /api/shoes/{id}.
func (h *ShoeHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, h.logger)
	if !ok {
		return
	}

	shoe, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, shoe)
}

// Create handles POST /api/admin/shoes.
func (h *ShoeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input model.ShoeInput
	if !decodeJSON(w, r, &input, h.logger) {
		return
	}

	shoe, err := h.service.Create(r.Context(), &input)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, shoe)
}

// Update handles PATCH /api/admin/shoes/{id}.
func (h *ShoeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, h.logger)
	if !ok {
		return
	}

	var patch model.ShoePatch
	if !decodeJSON(w, r, &patch, h.logger) {
		return
	}

	shoe, err := h.service.Update(r.Context(), id, &patch)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, shoe)
}

// Delete handles DELETE /api/admin/shoes/{id}.
func (h *ShoeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ShoeHandler) intParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "invalid "+name+" parameter", h.logger)
		return 0, false
	}
	return v, true
}
