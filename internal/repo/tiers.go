package repo

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"
)

// DiscountTier is a stored hour-threshold discount row for one mode.
type DiscountTier struct {
	ID       int64
	Mode     string
	MinHours decimal.Decimal
	Percent  decimal.Decimal
}

// ListDiscountTiers returns the tier table for a mode ordered by threshold.
func (q *Queries) ListDiscountTiers(ctx context.Context, mode string) ([]DiscountTier, error) {
	sql, args, err := builder.
		Select("id", "mode", "min_hours::text", "discount_percent::text").
		From("discount_tiers").
		Where(sq.Eq{"mode": mode}).
		OrderBy("min_hours").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list discount tiers: %w", err)
	}
	rows, err := q.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DiscountTier
	for rows.Next() {
		var (
			tier              DiscountTier
			minHours, percent string
		)
		if err := rows.Scan(&tier.ID, &tier.Mode, &minHours, &percent); err != nil {
			return nil, err
		}
		if tier.MinHours, err = decimal.NewFromString(minHours); err != nil {
			return nil, fmt.Errorf("parse min_hours for tier %d: %w", tier.ID, err)
		}
		if tier.Percent, err = decimal.NewFromString(percent); err != nil {
			return nil, fmt.Errorf("parse discount_percent for tier %d: %w", tier.ID, err)
		}
		out = append(out, tier)
	}
	return out, rows.Err()
}

// InsertTier adds a discount tier row. Used by the seeder.
func (q *Queries) InsertTier(ctx context.Context, mode string, minHours, percent decimal.Decimal) (int64, error) {
	sql, args, err := builder.
		Insert("discount_tiers").
		Columns("mode", "min_hours", "discount_percent").
		Values(mode, minHours.String(), percent.String()).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert tier: %w", err)
	}
	var id int64
	if err := q.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}
