package catalog

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/studiolensa/backend-shoot/internal/cache"
	"github.com/studiolensa/backend-shoot/internal/obs"
	"github.com/studiolensa/backend-shoot/internal/quote"
	"github.com/studiolensa/backend-shoot/internal/repo"
	"github.com/studiolensa/backend-shoot/internal/selection"
)

type queryProvider interface {
	ListCategories(ctx context.Context, mode string) ([]repo.PricingCategory, error)
	ListItems(ctx context.Context, mode string, eventType *string) ([]repo.PricingItem, error)
}

// Service assembles the public pricing catalog per mode and event type,
// with a Redis read-through cache in front of Postgres.
type Service struct {
	queries queryProvider
	cache   *cache.JSON
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Queries queryProvider
	Cache   *cache.JSON
}

// Item is the public payload for one bookable catalog entry.
type Item struct {
	ID          int64           `json:"item_id"`
	Name        string          `json:"name"`
	Rate        decimal.Decimal `json:"rate"`
	RateType    quote.RateType  `json:"rate_type"`
	RateUnit    *string         `json:"rate_unit,omitempty"`
	MaxQuantity *int32          `json:"max_quantity,omitempty"`
	IsActive    bool            `json:"is_active"`
}

// Category groups items in display order. Order carries no pricing meaning.
type Category struct {
	ID    int64  `json:"category_id"`
	Name  string `json:"name"`
	Items []Item `json:"items"`
}

// NewService constructs a Service instance.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Queries == nil {
		return nil, errors.New("catalog: queries provider is required")
	}
	return &Service{queries: cfg.Queries, cache: cfg.Cache}, nil
}

// Categories returns the catalog for a mode, optionally filtered by event
// type. Items whose event type does not match are excluded at the query.
func (s *Service) Categories(ctx context.Context, mode selection.Mode, eventType string) ([]Category, error) {
	key := cache.Key("catalog", string(mode), eventType)
	var cached []Category
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		obs.RecordCatalogCache("hit")
		return cached, nil
	}
	obs.RecordCatalogCache("miss")

	rows, err := s.queries.ListCategories(ctx, string(mode))
	if err != nil {
		return nil, err
	}
	items, err := s.listItems(ctx, mode, eventType)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[int64][]Item, len(rows))
	for _, item := range items {
		dto, err := toItem(item)
		if err != nil {
			return nil, err
		}
		byCategory[item.CategoryID] = append(byCategory[item.CategoryID], dto)
	}

	out := make([]Category, 0, len(rows))
	for _, row := range rows {
		category := Category{ID: row.ID, Name: row.Name, Items: byCategory[row.ID]}
		if category.Items == nil {
			category.Items = []Item{}
		}
		out = append(out, category)
	}
	_ = s.cache.Set(ctx, key, out)
	return out, nil
}

// Lookup builds the calculator's item index for a mode and event type.
// Inactive items are included so the calculator can flag them instead of
// treating them as unknown.
func (s *Service) Lookup(ctx context.Context, mode selection.Mode, eventType string) (map[int64]quote.Item, error) {
	items, err := s.listItems(ctx, mode, eventType)
	if err != nil {
		return nil, err
	}
	out := make(map[int64]quote.Item, len(items))
	for _, item := range items {
		rateType, err := quote.ParseRateType(item.RateType)
		if err != nil {
			return nil, err
		}
		entry := quote.Item{
			ID:         item.ID,
			Name:       item.Name,
			Rate:       item.Rate,
			RateType:   rateType,
			CategoryID: item.CategoryID,
			Active:     item.Active,
		}
		if item.RateUnit != nil {
			entry.RateUnit = *item.RateUnit
		}
		if item.MaxQuantity != nil {
			max := int(*item.MaxQuantity)
			entry.MaxQuantity = &max
		}
		out[item.ID] = entry
	}
	return out, nil
}

func (s *Service) listItems(ctx context.Context, mode selection.Mode, eventType string) ([]repo.PricingItem, error) {
	var filter *string
	if eventType != "" {
		filter = &eventType
	}
	return s.queries.ListItems(ctx, string(mode), filter)
}

func toItem(row repo.PricingItem) (Item, error) {
	rateType, err := quote.ParseRateType(row.RateType)
	if err != nil {
		return Item{}, err
	}
	return Item{
		ID:          row.ID,
		Name:        row.Name,
		Rate:        row.Rate,
		RateType:    rateType,
		RateUnit:    row.RateUnit,
		MaxQuantity: row.MaxQuantity,
		IsActive:    row.Active,
	}, nil
}
