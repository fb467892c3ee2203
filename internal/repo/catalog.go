package repo

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"
)

// PricingCategory is a display grouping of priced items for one mode.
type PricingCategory struct {
	ID       int64
	Name     string
	Mode     string
	Position int32
}

// PricingItem is a single bookable line in the catalog. Rate is stored as
// numeric and surfaced as decimal to keep currency math exact.
type PricingItem struct {
	ID          int64
	CategoryID  int64
	Name        string
	Rate        decimal.Decimal
	RateType    string
	RateUnit    *string
	MaxQuantity *int32
	EventType   *string
	Active      bool
}

// ListCategories returns the categories for a mode in display order.
func (q *Queries) ListCategories(ctx context.Context, mode string) ([]PricingCategory, error) {
	sql, args, err := builder.
		Select("id", "name", "mode", "position").
		From("pricing_categories").
		Where(sq.Eq{"mode": mode}).
		OrderBy("position", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list categories: %w", err)
	}
	rows, err := q.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PricingCategory
	for rows.Next() {
		var c PricingCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Mode, &c.Position); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListItems returns the items for a mode, optionally narrowed to an event
// type. Items without an event type always match.
func (q *Queries) ListItems(ctx context.Context, mode string, eventType *string) ([]PricingItem, error) {
	query := builder.
		Select("i.id", "i.category_id", "i.name", "i.rate::text", "i.rate_type", "i.rate_unit", "i.max_quantity", "i.event_type", "i.is_active").
		From("pricing_items i").
		Join("pricing_categories c ON c.id = i.category_id").
		Where(sq.Eq{"c.mode": mode}).
		OrderBy("i.category_id", "i.position", "i.id")
	if eventType != nil && *eventType != "" {
		query = query.Where(sq.Or{sq.Eq{"i.event_type": nil}, sq.Eq{"i.event_type": *eventType}})
	}
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list items: %w", err)
	}
	rows, err := q.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PricingItem
	for rows.Next() {
		var (
			item PricingItem
			rate string
		)
		if err := rows.Scan(&item.ID, &item.CategoryID, &item.Name, &rate, &item.RateType, &item.RateUnit, &item.MaxQuantity, &item.EventType, &item.Active); err != nil {
			return nil, err
		}
		item.Rate, err = decimal.NewFromString(rate)
		if err != nil {
			return nil, fmt.Errorf("parse rate for item %d: %w", item.ID, err)
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// InsertCategory adds a category and returns its id. Used by the seeder.
func (q *Queries) InsertCategory(ctx context.Context, name, mode string, position int32) (int64, error) {
	sql, args, err := builder.
		Insert("pricing_categories").
		Columns("name", "mode", "position").
		Values(name, mode, position).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert category: %w", err)
	}
	var id int64
	if err := q.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// InsertItemParams holds the seeder payload for one catalog item.
type InsertItemParams struct {
	CategoryID  int64
	Name        string
	Rate        decimal.Decimal
	RateType    string
	RateUnit    *string
	MaxQuantity *int32
	EventType   *string
	Position    int32
	Active      bool
}

// InsertItem adds a catalog item and returns its id. Used by the seeder.
func (q *Queries) InsertItem(ctx context.Context, arg InsertItemParams) (int64, error) {
	sql, args, err := builder.
		Insert("pricing_items").
		Columns("category_id", "name", "rate", "rate_type", "rate_unit", "max_quantity", "event_type", "position", "is_active").
		Values(arg.CategoryID, arg.Name, arg.Rate.String(), arg.RateType, arg.RateUnit, arg.MaxQuantity, arg.EventType, arg.Position, arg.Active).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert item: %w", err)
	}
	var id int64
	if err := q.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}
