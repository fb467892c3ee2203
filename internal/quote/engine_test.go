package quote

import (
	"errors"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/studiolensa/backend-shoot/internal/discount"
	"github.com/studiolensa/backend-shoot/internal/selection"
)

func dec(value string) decimal.Decimal {
	d, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	return d
}

func testItems() map[int64]Item {
	return map[int64]Item{
		1: {ID: 1, Name: "Lead photographer", Rate: dec("100"), RateType: RatePerHour, Active: true},
		2: {ID: 2, Name: "Drone coverage", Rate: dec("50"), RateType: RatePerUnit, Active: true},
		3: {ID: 3, Name: "Studio rental", Rate: dec("500"), RateType: RatePerDay, Active: true},
		4: {ID: 4, Name: "Editing package", Rate: dec("250"), RateType: RateFlat, Active: true},
		5: {ID: 5, Name: "Retired lens kit", Rate: dec("75"), RateType: RatePerUnit, Active: false},
	}
}

func testTiers() []discount.Tier {
	return []discount.Tier{
		{MinHours: dec("0"), Percent: dec("0")},
		{MinHours: dec("5"), Percent: dec("10")},
		{MinHours: dec("10"), Percent: dec("15")},
	}
}

func TestCalculateDeterminism(t *testing.T) {
	sel := selection.Selection{
		1: {ItemID: 1, Quantity: 2},
		2: {ItemID: 2, Quantity: 4},
		4: {ItemID: 4, Quantity: 1},
	}
	first, err := Calculate(testItems(), sel, dec("6"), selection.ModeGeneral, dec("25"), testTiers())
	if err != nil {
		t.Fatal(err)
	}
	second, err := Calculate(testItems(), sel, dec("6"), selection.ModeGeneral, dec("25"), testTiers())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical quotes, got %+v vs %+v", first, second)
	}
}

func TestCalculateEmptySelection(t *testing.T) {
	q, err := Calculate(testItems(), selection.Selection{}, dec("8"), selection.ModeGeneral, dec("25"), testTiers())
	if err != nil {
		t.Fatal(err)
	}
	if len(q.LineItems) != 0 {
		t.Fatalf("expected no line items, got %d", len(q.LineItems))
	}
	if !q.Subtotal.IsZero() || !q.Total.IsZero() || !q.DiscountAmount.IsZero() || !q.MarginAmount.IsZero() {
		t.Fatalf("expected zero quote, got %+v", q)
	}
}

func TestPerHourScaling(t *testing.T) {
	sel := selection.Selection{1: {ItemID: 1, Quantity: 1}}
	q, err := Calculate(testItems(), sel, dec("3"), selection.ModeGeneral, dec("0"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if !q.LineItems[0].LineTotal.Equal(dec("300")) {
		t.Fatalf("expected line total 300, got %s", q.LineItems[0].LineTotal)
	}

	sel[1] = selection.SelectedItem{ItemID: 1, Quantity: 2}
	q, err = Calculate(testItems(), sel, dec("3"), selection.ModeGeneral, dec("0"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if !q.LineItems[0].LineTotal.Equal(dec("600")) {
		t.Fatalf("expected line total 600 with quantity 2, got %s", q.LineItems[0].LineTotal)
	}
}

func TestNonHourlyRatesIgnoreHours(t *testing.T) {
	sel := selection.Selection{2: {ItemID: 2, Quantity: 4}}
	for _, hours := range []string{"1", "8", "24"} {
		q, err := Calculate(testItems(), sel, dec(hours), selection.ModeGeneral, dec("0"), nil)
		if err != nil {
			t.Fatal(err)
		}
		if !q.LineItems[0].LineTotal.Equal(dec("200")) {
			t.Fatalf("hours=%s: expected per-unit line total 200, got %s", hours, q.LineItems[0].LineTotal)
		}
	}
}

func TestPerDayUsesQuantityAsDayCount(t *testing.T) {
	sel := selection.Selection{3: {ItemID: 3, Quantity: 2}}
	q, err := Calculate(testItems(), sel, dec("4"), selection.ModeGeneral, dec("0"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if !q.LineItems[0].LineTotal.Equal(dec("1000")) {
		t.Fatalf("expected 2 day-units at 500, got %s", q.LineItems[0].LineTotal)
	}
}

func TestFullPipeline(t *testing.T) {
	// Subtotal 1000 at 5h -> 10% tier: discount 100, after 900, margin 225, total 1125.
	sel := selection.Selection{1: {ItemID: 1, Quantity: 2}} // 100 * 5 * 2 = 1000
	q, err := Calculate(testItems(), sel, dec("5"), selection.ModeGeneral, dec("25"), testTiers())
	if err != nil {
		t.Fatal(err)
	}
	if !q.Subtotal.Equal(dec("1000")) {
		t.Fatalf("subtotal = %s, want 1000", q.Subtotal)
	}
	if !q.DiscountPercent.Equal(dec("10")) {
		t.Fatalf("discount percent = %s, want 10", q.DiscountPercent)
	}
	if !q.DiscountAmount.Equal(dec("100")) {
		t.Fatalf("discount amount = %s, want 100", q.DiscountAmount)
	}
	if !q.PriceAfterDiscount.Equal(dec("900")) {
		t.Fatalf("price after discount = %s, want 900", q.PriceAfterDiscount)
	}
	if !q.MarginAmount.Equal(dec("225")) {
		t.Fatalf("margin amount = %s, want 225", q.MarginAmount)
	}
	if !q.Total.Equal(dec("1125")) {
		t.Fatalf("total = %s, want 1125", q.Total)
	}
}

func TestUnknownItemWarning(t *testing.T) {
	sel := selection.Selection{
		2:   {ItemID: 2, Quantity: 2},
		999: {ItemID: 999, Quantity: 1},
	}
	q, err := Calculate(testItems(), sel, dec("2"), selection.ModeGeneral, dec("0"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(q.LineItems) != 1 {
		t.Fatalf("expected one priced line, got %d", len(q.LineItems))
	}
	if !q.Subtotal.Equal(dec("100")) {
		t.Fatalf("expected subtotal from known items only, got %s", q.Subtotal)
	}
	if len(q.Warnings) != 1 || q.Warnings[0].ItemID != 999 || q.Warnings[0].Code != WarnUnknownItem {
		t.Fatalf("expected UNKNOWN_ITEM warning for 999, got %+v", q.Warnings)
	}
}

func TestInactiveItemWarning(t *testing.T) {
	sel := selection.Selection{5: {ItemID: 5, Quantity: 1}}
	q, err := Calculate(testItems(), sel, dec("2"), selection.ModeGeneral, dec("0"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(q.LineItems) != 0 || !q.Subtotal.IsZero() {
		t.Fatalf("expected inactive item excluded, got %+v", q)
	}
	if len(q.Warnings) != 1 || q.Warnings[0].Code != WarnInactiveItem {
		t.Fatalf("expected INACTIVE_ITEM warning, got %+v", q.Warnings)
	}
}

func TestRoundingStability(t *testing.T) {
	// Subtotal 33.335, 10% discount: 3.3335 rounds to 3.33 at the
	// aggregate level while line totals stay unrounded.
	items := map[int64]Item{
		1: {ID: 1, Name: "Odd rate", Rate: dec("33.335"), RateType: RatePerUnit, Active: true},
	}
	tiers := []discount.Tier{{MinHours: dec("0"), Percent: dec("10")}}
	sel := selection.Selection{1: {ItemID: 1, Quantity: 1}}
	q, err := Calculate(items, sel, dec("1"), selection.ModeGeneral, dec("0"), tiers)
	if err != nil {
		t.Fatal(err)
	}
	if !q.Subtotal.Equal(dec("33.335")) {
		t.Fatalf("expected unrounded subtotal, got %s", q.Subtotal)
	}
	if !q.DiscountAmount.Equal(dec("3.33")) {
		t.Fatalf("expected discount 3.33, got %s", q.DiscountAmount)
	}
}

func TestHalfUpRounding(t *testing.T) {
	// 50.05 * 5% = 2.5025 -> 2.50; 50.10 * 5% = 2.505 -> 2.51 (half-up).
	items := map[int64]Item{
		1: {ID: 1, Name: "Item", Rate: dec("50.10"), RateType: RatePerUnit, Active: true},
	}
	tiers := []discount.Tier{{MinHours: dec("0"), Percent: dec("5")}}
	sel := selection.Selection{1: {ItemID: 1, Quantity: 1}}
	q, err := Calculate(items, sel, dec("1"), selection.ModeGeneral, dec("0"), tiers)
	if err != nil {
		t.Fatal(err)
	}
	if !q.DiscountAmount.Equal(dec("2.51")) {
		t.Fatalf("expected half-up 2.51, got %s", q.DiscountAmount)
	}
}

func TestInvalidConfiguration(t *testing.T) {
	sel := selection.Selection{1: {ItemID: 1, Quantity: 1}}

	_, err := Calculate(testItems(), sel, dec("-1"), selection.ModeGeneral, dec("25"), nil)
	if !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration for negative hours, got %v", err)
	}

	_, err = Calculate(testItems(), sel, dec("1"), selection.ModeGeneral, dec("-5"), nil)
	if !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration for negative margin, got %v", err)
	}

	bad := []discount.Tier{
		{MinHours: dec("5"), Percent: dec("10")},
		{MinHours: dec("5"), Percent: dec("12")},
	}
	_, err = Calculate(testItems(), sel, dec("1"), selection.ModeGeneral, dec("25"), bad)
	if !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration for duplicate tiers, got %v", err)
	}

	withBadRate := map[int64]Item{
		1: {ID: 1, Name: "Broken", Rate: dec("10"), RateType: RateType("per_week"), Active: true},
	}
	_, err = Calculate(withBadRate, sel, dec("1"), selection.ModeGeneral, dec("25"), nil)
	if !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration for unknown rate type, got %v", err)
	}
}

func TestLineItemsSortedByID(t *testing.T) {
	sel := selection.Selection{
		4: {ItemID: 4, Quantity: 1},
		1: {ItemID: 1, Quantity: 1},
		2: {ItemID: 2, Quantity: 1},
	}
	q, err := Calculate(testItems(), sel, dec("2"), selection.ModeGeneral, dec("0"), nil)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(q.LineItems); i++ {
		if q.LineItems[i-1].ItemID >= q.LineItems[i].ItemID {
			t.Fatalf("line items not sorted: %+v", q.LineItems)
		}
	}
}

func TestParseRateType(t *testing.T) {
	if _, err := ParseRateType("per_hour"); err != nil {
		t.Fatal(err)
	}
	if _, err := ParseRateType("hourly"); !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
	}
}
