package catalog

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/studiolensa/backend-shoot/internal/quote"
	"github.com/studiolensa/backend-shoot/internal/repo"
	"github.com/studiolensa/backend-shoot/internal/selection"
)

type stubQueries struct {
	categories []repo.PricingCategory
	items      []repo.PricingItem
	gotMode    string
	gotEvent   *string
}

func (s *stubQueries) ListCategories(_ context.Context, mode string) ([]repo.PricingCategory, error) {
	s.gotMode = mode
	return s.categories, nil
}

func (s *stubQueries) ListItems(_ context.Context, mode string, eventType *string) ([]repo.PricingItem, error) {
	s.gotMode = mode
	s.gotEvent = eventType
	return s.items, nil
}

func strPtr(s string) *string { return &s }

func int32Ptr(n int32) *int32 { return &n }

func fixtureQueries() *stubQueries {
	return &stubQueries{
		categories: []repo.PricingCategory{
			{ID: 1, Name: "Crew", Mode: "general", Position: 0},
			{ID: 2, Name: "Equipment", Mode: "general", Position: 1},
		},
		items: []repo.PricingItem{
			{ID: 10, CategoryID: 1, Name: "Photographer", Rate: decimal.RequireFromString("150"), RateType: "per_hour", RateUnit: strPtr("hr"), MaxQuantity: int32Ptr(5), Active: true},
			{ID: 11, CategoryID: 2, Name: "Drone Package", Rate: decimal.RequireFromString("250"), RateType: "flat", Active: true},
			{ID: 12, CategoryID: 2, Name: "Retired Kit", Rate: decimal.RequireFromString("75"), RateType: "per_unit", Active: false},
		},
	}
}

func TestCategoriesGroupsItems(t *testing.T) {
	q := fixtureQueries()
	svc, err := NewService(ServiceConfig{Queries: q})
	require.NoError(t, err)

	categories, err := svc.Categories(context.Background(), selection.ModeGeneral, "")
	require.NoError(t, err)
	require.Len(t, categories, 2)
	require.Equal(t, "Crew", categories[0].Name)
	require.Len(t, categories[0].Items, 1)
	require.Equal(t, int64(10), categories[0].Items[0].ID)
	require.Len(t, categories[1].Items, 2)
	require.Equal(t, "general", q.gotMode)
}

func TestCategoriesPassesEventFilter(t *testing.T) {
	q := fixtureQueries()
	svc, err := NewService(ServiceConfig{Queries: q})
	require.NoError(t, err)

	_, err = svc.Categories(context.Background(), selection.ModeWedding, "ceremony")
	require.NoError(t, err)
	require.NotNil(t, q.gotEvent)
	require.Equal(t, "ceremony", *q.gotEvent)
}

func TestLookupIncludesInactiveItems(t *testing.T) {
	svc, err := NewService(ServiceConfig{Queries: fixtureQueries()})
	require.NoError(t, err)

	lookup, err := svc.Lookup(context.Background(), selection.ModeGeneral, "")
	require.NoError(t, err)
	require.Len(t, lookup, 3)

	retired, ok := lookup[12]
	require.True(t, ok)
	require.False(t, retired.Active)

	photographer := lookup[10]
	require.Equal(t, quote.RatePerHour, photographer.RateType)
	require.NotNil(t, photographer.MaxQuantity)
	require.Equal(t, 5, *photographer.MaxQuantity)
}

func TestNewServiceRequiresQueries(t *testing.T) {
	_, err := NewService(ServiceConfig{})
	require.Error(t, err)
}
