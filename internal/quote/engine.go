package quote

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/studiolensa/backend-shoot/internal/discount"
	"github.com/studiolensa/backend-shoot/internal/selection"
)

// ErrInvalidConfiguration indicates bad pricing inputs: negative hours or
// margin, a malformed tier table, or an unknown rate type. These are
// upstream data bugs and are never silently recovered.
var ErrInvalidConfiguration = errors.New("invalid pricing configuration")

// RateType determines how a catalog item's rate scales into a line total.
type RateType string

const (
	// RatePerHour scales with both shoot hours and quantity.
	RatePerHour RateType = "per_hour"
	// RatePerDay scales with quantity only; quantity carries the day count.
	RatePerDay RateType = "per_day"
	// RatePerUnit scales with quantity only.
	RatePerUnit RateType = "per_unit"
	// RateFlat is charged once per quantity unit, typically 1.
	RateFlat RateType = "flat"
)

// ParseRateType converts a stored string into a RateType.
func ParseRateType(value string) (RateType, error) {
	switch RateType(value) {
	case RatePerHour, RatePerDay, RatePerUnit, RateFlat:
		return RateType(value), nil
	default:
		return "", fmt.Errorf("unknown rate type %q: %w", value, ErrInvalidConfiguration)
	}
}

// Item is the calculator's view of a catalog entry.
type Item struct {
	ID          int64
	Name        string
	Rate        decimal.Decimal
	RateType    RateType
	RateUnit    string
	MaxQuantity *int
	CategoryID  int64
	Active      bool
}

// LineItem is one priced row of a quote. LineTotal is carried at full
// precision; rounding happens only at the aggregate level.
type LineItem struct {
	ItemID    int64           `json:"item_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	RateType  RateType        `json:"rate_type"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// Warning codes surfaced on a quote.
const (
	WarnUnknownItem  = "UNKNOWN_ITEM"
	WarnInactiveItem = "INACTIVE_ITEM"
)

// Warning flags a selected item that could not be priced. The item stays
// in the raw selection so the client can prompt for its removal.
type Warning struct {
	ItemID  int64  `json:"item_id"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Quote is the complete derived pricing breakdown. It is recomputed
// wholesale on every change and never patched in place.
type Quote struct {
	Mode               selection.Mode  `json:"pricing_mode"`
	ShootHours         decimal.Decimal `json:"shoot_hours"`
	LineItems          []LineItem      `json:"line_items"`
	Subtotal           decimal.Decimal `json:"subtotal"`
	DiscountPercent    decimal.Decimal `json:"discount_percent"`
	DiscountAmount     decimal.Decimal `json:"discount_amount"`
	PriceAfterDiscount decimal.Decimal `json:"price_after_discount"`
	MarginPercent      decimal.Decimal `json:"margin_percent"`
	MarginAmount       decimal.Decimal `json:"margin_amount"`
	Total              decimal.Decimal `json:"total"`
	Warnings           []Warning       `json:"warnings,omitempty"`
}

var oneHundred = decimal.NewFromInt(100)

// Calculate derives a Quote from the item lookup, selection, booked
// hours, margin percent, and discount tier table. It is pure and
// deterministic: identical inputs always yield an identical Quote, and
// an empty selection yields a well-formed zero quote. Line items are
// ordered by item id.
func Calculate(items map[int64]Item, sel selection.Selection, hours decimal.Decimal, mode selection.Mode, marginPercent decimal.Decimal, tiers []discount.Tier) (Quote, error) {
	if hours.IsNegative() {
		return Quote{}, fmt.Errorf("negative shoot hours %s: %w", hours, ErrInvalidConfiguration)
	}
	if marginPercent.IsNegative() {
		return Quote{}, fmt.Errorf("negative margin percent %s: %w", marginPercent, ErrInvalidConfiguration)
	}
	if err := discount.ValidateTiers(tiers); err != nil {
		return Quote{}, fmt.Errorf("%v: %w", err, ErrInvalidConfiguration)
	}

	ids := make([]int64, 0, len(sel))
	for id := range sel {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	q := Quote{
		Mode:       mode,
		ShootHours: hours,
		LineItems:  []LineItem{},
		Subtotal:   decimal.Zero,
	}
	for _, id := range ids {
		entry := sel[id]
		if entry.Quantity <= 0 {
			continue
		}
		item, ok := items[id]
		if !ok {
			q.Warnings = append(q.Warnings, Warning{
				ItemID:  id,
				Code:    WarnUnknownItem,
				Message: fmt.Sprintf("item %d is not available in the %s catalog", id, mode),
			})
			continue
		}
		if !item.Active {
			q.Warnings = append(q.Warnings, Warning{
				ItemID:  id,
				Code:    WarnInactiveItem,
				Message: fmt.Sprintf("item %d is no longer offered", id),
			})
			continue
		}
		total, err := lineTotal(item, entry.Quantity, hours)
		if err != nil {
			return Quote{}, err
		}
		q.LineItems = append(q.LineItems, LineItem{
			ItemID:    item.ID,
			Name:      item.Name,
			UnitPrice: item.Rate,
			Quantity:  entry.Quantity,
			RateType:  item.RateType,
			LineTotal: total,
		})
		q.Subtotal = q.Subtotal.Add(total)
	}

	q.DiscountPercent = discount.Resolve(tiers, hours)
	q.DiscountAmount = round2(q.Subtotal.Mul(q.DiscountPercent).Div(oneHundred))
	q.PriceAfterDiscount = q.Subtotal.Sub(q.DiscountAmount)
	q.MarginPercent = marginPercent
	q.MarginAmount = round2(q.PriceAfterDiscount.Mul(marginPercent).Div(oneHundred))
	q.Total = q.PriceAfterDiscount.Add(q.MarginAmount)
	return q, nil
}

func lineTotal(item Item, qty int, hours decimal.Decimal) (decimal.Decimal, error) {
	quantity := decimal.NewFromInt(int64(qty))
	switch item.RateType {
	case RatePerHour:
		return item.Rate.Mul(hours).Mul(quantity), nil
	case RatePerDay, RatePerUnit, RateFlat:
		return item.Rate.Mul(quantity), nil
	default:
		return decimal.Zero, fmt.Errorf("item %d has unknown rate type %q: %w", item.ID, item.RateType, ErrInvalidConfiguration)
	}
}

// round2 applies half-up rounding at two decimal places. Only aggregate
// amounts are rounded; line totals keep full precision so per-line
// rounding error cannot accumulate.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
