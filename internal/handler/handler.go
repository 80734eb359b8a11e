package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"newsteps/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// maxBodyBytes bounds request payloads.
const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code, code and message.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Str("error", message).Str("code", code).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: message, Code: code})
}

// writeServiceError maps a service error onto an HTTP response. Infrastructure
// failures are logged in full and reported as a generic 500.
func writeServiceError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var unavailable *model.UnavailableError
	var transition *model.TransitionError
	var domainErr *model.DomainError

	switch {
	case errors.As(err, &unavailable):
		logger.Info().Strs("unavailable", unavailable.Items).Msg("items unavailable")
		writeJSON(w, http.StatusConflict, model.ErrorResponse{
			Error:            "Some items are no longer available",
			Code:             model.ErrCodeItemsUnavailable,
			UnavailableItems: unavailable.Items,
		})
	case errors.As(err, &transition):
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidTransition,
			fmt.Sprintf("Invalid status transition from %s to %s", transition.From, transition.To), logger)
	case errors.As(err, &domainErr):
		status := http.StatusBadRequest
		if model.IsNotFound(domainErr) {
			status = http.StatusNotFound
		}
		writeError(w, status, domainErr.Code, domainErr.Message, logger)
	default:
		logger.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error", logger)
	}
}

// decodeJSON reads a JSON body into dst, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, logger zerolog.Logger) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", logger)
		return false
	}
	return true
}

// pathID parses the {id} path value, writing a 400 on failure.
func pathID(w http.ResponseWriter, r *http.Request, logger zerolog.Logger) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "invalid ID format", logger)
		return uuid.Nil, false
	}
	return id, true
}
