package quote

import (
	"testing"
)

func TestFormatMoney(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "$0.00"},
		{"5", "$5.00"},
		{"150", "$150.00"},
		{"1234.5", "$1,234.50"},
		{"1234567.89", "$1,234,567.89"},
		{"-42.5", "-$42.50"},
		{"999", "$999.00"},
		{"1000", "$1,000.00"},
	}
	for _, tc := range cases {
		if got := FormatMoney(dec(tc.in)); got != tc.want {
			t.Fatalf("FormatMoney(%s) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestDescribeLine(t *testing.T) {
	hours := dec("3")
	cases := []struct {
		line LineItem
		want string
	}{
		{LineItem{UnitPrice: dec("150"), Quantity: 1, RateType: RatePerHour}, "$150.00 × 3hr"},
		{LineItem{UnitPrice: dec("150"), Quantity: 2, RateType: RatePerHour}, "$150.00 × 3hr × 2"},
		{LineItem{UnitPrice: dec("500"), Quantity: 1, RateType: RatePerDay}, "$500.00 × 1 day"},
		{LineItem{UnitPrice: dec("500"), Quantity: 3, RateType: RatePerDay}, "$500.00 × 3 days"},
		{LineItem{UnitPrice: dec("50"), Quantity: 4, RateType: RatePerUnit}, "$50.00 × 4"},
		{LineItem{UnitPrice: dec("250"), Quantity: 1, RateType: RateFlat}, "$250.00"},
	}
	for _, tc := range cases {
		if got := describeLine(tc.line, hours); got != tc.want {
			t.Fatalf("describeLine(%+v) = %q, want %q", tc.line, got, tc.want)
		}
	}
}

func TestPresentKeepsTotals(t *testing.T) {
	q := Quote{
		Mode:               "general",
		ShootHours:         dec("5"),
		LineItems:          []LineItem{{ItemID: 1, Name: "Lead photographer", UnitPrice: dec("100"), Quantity: 2, RateType: RatePerHour, LineTotal: dec("1000")}},
		Subtotal:           dec("1000"),
		DiscountPercent:    dec("10"),
		DiscountAmount:     dec("100"),
		PriceAfterDiscount: dec("900"),
		MarginPercent:      dec("25"),
		MarginAmount:       dec("225"),
		Total:              dec("1125"),
	}
	d := Present(q)
	if d.Total != "$1,125.00" {
		t.Fatalf("total = %s", d.Total)
	}
	if d.Subtotal != "$1,000.00" || d.DiscountAmount != "$100.00" || d.MarginAmount != "$225.00" {
		t.Fatalf("unexpected display: %+v", d)
	}
	if d.DiscountPercent != "10%" || d.MarginPercent != "25%" {
		t.Fatalf("unexpected percents: %+v", d)
	}
	if len(d.Lines) != 1 || d.Lines[0].Description != "$100.00 × 5hr × 2" {
		t.Fatalf("unexpected lines: %+v", d.Lines)
	}
}
