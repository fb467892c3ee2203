package catalog

import (
	"errors"
	"net/http"
	"strings"

	"github.com/studiolensa/backend-shoot/internal/common"
	"github.com/studiolensa/backend-shoot/internal/selection"
)

// Handler exposes public catalog endpoints.
type Handler struct {
	service *Service
}

// HandlerConfig configures the Handler dependencies.
type HandlerConfig struct {
	Service *Service
}

// NewHandler constructs a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{service: cfg.Service}
}

// Catalog handles GET /api/v1/catalog?mode=&event=.
func (h *Handler) Catalog(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog service not configured", nil)
		return
	}
	mode, err := ModeFromQuery(r)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_MODE", "mode must be general or wedding", nil)
		return
	}
	eventType := strings.TrimSpace(r.URL.Query().Get("event"))
	categories, err := h.service.Categories(r.Context(), mode, eventType)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": categories})
}

// ModeFromQuery parses the pricing mode query parameter, defaulting to
// general when absent.
func ModeFromQuery(r *http.Request) (selection.Mode, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("mode"))
	if raw == "" {
		return selection.ModeGeneral, nil
	}
	mode, err := selection.ParseMode(raw)
	if err != nil && errors.Is(err, selection.ErrUnknownMode) {
		return "", err
	}
	return mode, err
}
