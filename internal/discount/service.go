package discount

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/studiolensa/backend-shoot/internal/cache"
	"github.com/studiolensa/backend-shoot/internal/common"
	"github.com/studiolensa/backend-shoot/internal/repo"
	"github.com/studiolensa/backend-shoot/internal/selection"
)

type queryProvider interface {
	ListDiscountTiers(ctx context.Context, mode string) ([]repo.DiscountTier, error)
}

// Service loads per-mode discount tier tables from Postgres with a Redis
// cache, validating them before they reach the calculator.
type Service struct {
	queries queryProvider
	cache   *cache.JSON
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Queries queryProvider
	Cache   *cache.JSON
}

// NewService constructs a Service instance.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Queries == nil {
		return nil, errors.New("discount: queries provider is required")
	}
	return &Service{queries: cfg.Queries, cache: cfg.Cache}, nil
}

// TiersForMode returns the validated tier table for a mode. A table that
// fails validation is a configuration error surfaced to the caller.
func (s *Service) TiersForMode(ctx context.Context, mode selection.Mode) ([]Tier, error) {
	key := cache.Key("discount_tiers", string(mode))
	var cached []Tier
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	rows, err := s.queries.ListDiscountTiers(ctx, string(mode))
	if err != nil {
		return nil, err
	}
	tiers := make([]Tier, 0, len(rows))
	for _, row := range rows {
		tiers = append(tiers, Tier{MinHours: row.MinHours, Percent: row.Percent})
	}
	if err := ValidateTiers(tiers); err != nil {
		return nil, fmt.Errorf("tier table for mode %s: %w", mode, err)
	}
	_ = s.cache.Set(ctx, key, tiers)
	return tiers, nil
}

// Handler exposes the discount tier table read endpoint.
type Handler struct {
	Svc *Service
}

// Tiers handles GET /api/v1/discount-tiers?mode=.
func (h *Handler) Tiers(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "discount service not configured", nil)
		return
	}
	mode := selection.ModeGeneral
	if raw := r.URL.Query().Get("mode"); raw != "" {
		parsed, err := selection.ParseMode(raw)
		if err != nil {
			common.JSONError(w, http.StatusBadRequest, "INVALID_MODE", "mode must be general or wedding", nil)
			return
		}
		mode = parsed
	}
	tiers, err := h.Svc.TiersForMode(r.Context(), mode)
	if err != nil {
		if errors.Is(err, ErrInvalidTiers) {
			common.JSONError(w, http.StatusInternalServerError, "INVALID_CONFIGURATION", "discount tier table is misconfigured", nil)
			return
		}
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": tiers})
}
