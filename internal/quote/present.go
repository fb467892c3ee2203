package quote

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DisplayLine is the human-readable form of a LineItem.
type DisplayLine struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	LineTotal   string `json:"line_total"`
}

// Display is a Quote formatted for rendering. All amounts are currency
// strings in a single fixed locale; no numeric value is altered beyond
// display rounding to two decimal places.
type Display struct {
	Mode               string        `json:"pricing_mode"`
	ShootHours         string        `json:"shoot_hours"`
	Lines              []DisplayLine `json:"lines"`
	Subtotal           string        `json:"subtotal"`
	DiscountPercent    string        `json:"discount_percent"`
	DiscountAmount     string        `json:"discount_amount"`
	PriceAfterDiscount string        `json:"price_after_discount"`
	MarginPercent      string        `json:"margin_percent"`
	MarginAmount       string        `json:"margin_amount"`
	Total              string        `json:"total"`
}

// FormatMoney renders a decimal amount as a dollar string with thousands
// separators, e.g. "$1,234.50".
func FormatMoney(amount decimal.Decimal) string {
	fixed := amount.StringFixed(2)
	negative := strings.HasPrefix(fixed, "-")
	if negative {
		fixed = fixed[1:]
	}
	parts := strings.SplitN(fixed, ".", 2)
	whole := parts[0]

	var b strings.Builder
	lead := len(whole) % 3
	if lead > 0 {
		b.WriteString(whole[:lead])
	}
	for i := lead; i < len(whole); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(whole[i : i+3])
	}

	out := "$" + b.String() + "." + parts[1]
	if negative {
		return "-" + out
	}
	return out
}

// Present formats a Quote for display.
func Present(q Quote) Display {
	lines := make([]DisplayLine, 0, len(q.LineItems))
	for _, li := range q.LineItems {
		lines = append(lines, DisplayLine{
			Name:        li.Name,
			Description: describeLine(li, q.ShootHours),
			LineTotal:   FormatMoney(li.LineTotal),
		})
	}
	return Display{
		Mode:               string(q.Mode),
		ShootHours:         q.ShootHours.String(),
		Lines:              lines,
		Subtotal:           FormatMoney(q.Subtotal),
		DiscountPercent:    q.DiscountPercent.String() + "%",
		DiscountAmount:     FormatMoney(q.DiscountAmount),
		PriceAfterDiscount: FormatMoney(q.PriceAfterDiscount),
		MarginPercent:      q.MarginPercent.String() + "%",
		MarginAmount:       FormatMoney(q.MarginAmount),
		Total:              FormatMoney(q.Total),
	}
}

// describeLine builds a rate-type-aware description such as
// "$150.00 × 3hr × 2" or "$500.00 × 2 days".
func describeLine(li LineItem, hours decimal.Decimal) string {
	price := FormatMoney(li.UnitPrice)
	switch li.RateType {
	case RatePerHour:
		desc := fmt.Sprintf("%s × %shr", price, hours.String())
		if li.Quantity > 1 {
			desc += fmt.Sprintf(" × %d", li.Quantity)
		}
		return desc
	case RatePerDay:
		unit := "day"
		if li.Quantity > 1 {
			unit = "days"
		}
		return fmt.Sprintf("%s × %d %s", price, li.Quantity, unit)
	case RatePerUnit:
		return fmt.Sprintf("%s × %d", price, li.Quantity)
	default:
		if li.Quantity > 1 {
			return fmt.Sprintf("%s × %d", price, li.Quantity)
		}
		return price
	}
}
