package discount

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidTiers indicates a malformed tier table loaded from configuration.
var ErrInvalidTiers = errors.New("invalid discount tier table")

// Tier grants a percentage discount once the booked hours reach MinHours.
type Tier struct {
	MinHours decimal.Decimal `json:"min_hours"`
	Percent  decimal.Decimal `json:"discount_percent"`
}

// ValidateTiers rejects tier tables with negative thresholds, duplicate
// thresholds, or percentages outside [0, 100). Duplicate thresholds are a
// configuration error and are refused at load time rather than resolved
// by precedence.
func ValidateTiers(tiers []Tier) error {
	seen := make(map[string]struct{}, len(tiers))
	hundred := decimal.NewFromInt(100)
	for _, tier := range tiers {
		if tier.MinHours.IsNegative() {
			return fmt.Errorf("negative threshold %s: %w", tier.MinHours, ErrInvalidTiers)
		}
		if tier.Percent.IsNegative() || tier.Percent.GreaterThanOrEqual(hundred) {
			return fmt.Errorf("discount percent %s out of range: %w", tier.Percent, ErrInvalidTiers)
		}
		key := tier.MinHours.String()
		if _, dup := seen[key]; dup {
			return fmt.Errorf("duplicate threshold %s: %w", tier.MinHours, ErrInvalidTiers)
		}
		seen[key] = struct{}{}
	}
	return nil
}

// Resolve returns the discount percent for the given booked hours: the
// tier with the greatest MinHours not exceeding hours wins, zero when no
// tier qualifies. It is a total function over any tier list and any hours
// value; should duplicate thresholds slip through, the last-defined tier
// wins deterministically.
func Resolve(tiers []Tier, hours decimal.Decimal) decimal.Decimal {
	percent := decimal.Zero
	best := decimal.NewFromInt(-1)
	for _, tier := range tiers {
		if tier.MinHours.GreaterThan(hours) {
			continue
		}
		if tier.MinHours.GreaterThanOrEqual(best) {
			best = tier.MinHours
			percent = tier.Percent
		}
	}
	return percent
}
