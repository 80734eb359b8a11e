package handler

import (
	"context"
	"net/http"

	"newsteps/internal/model"
	"newsteps/internal/settings"

	"github.com/rs/zerolog"
)

// SettingsProvider exposes the active settings and a way to refresh them.
type SettingsProvider interface {
	Current() *settings.Settings
	Reload(ctx context.Context) error
}

// SettingsHandler handles admin settings requests.
type SettingsHandler struct {
	provider SettingsProvider
	logger   zerolog.Logger
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(provider SettingsProvider, logger zerolog.Logger) *SettingsHandler {
	return &SettingsHandler{
		provider: provider,
		logger:   logger.With().Str("handler", "settings").Logger(),
	}
}

// Get handles GET /api/admin/settings.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.provider.Current())
}

// Reload handles POST /api/admin/settings/reload.
func (h *SettingsHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if err := h.provider.Reload(r.Context()); err != nil {
		h.logger.Error().Err(err).Msg("settings reload failed")
		writeError(w, http.StatusBadGateway, model.ErrCodeInternalError, "failed to reload settings", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, h.provider.Current())
}
