package selection

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestToggleTwiceRestoresPriorState(t *testing.T) {
	s := NewStore(ModeGeneral)
	s.SetQuantity(1, 2, nil)
	s.SetQuantity(2, 4, nil)

	before := s.Items()
	s.ToggleItem(7, 1)
	s.ToggleItem(7, 1)
	after := s.Items()

	if len(after) != len(before) {
		t.Fatalf("expected %d items, got %d", len(before), len(after))
	}
	for id, item := range before {
		if after[id] != item {
			t.Fatalf("item %d changed: %+v != %+v", id, after[id], item)
		}
	}
}

func TestToggleDefaultQuantity(t *testing.T) {
	s := NewStore(ModeGeneral)
	s.ToggleItem(3, 0)
	if got := s.Items()[3].Quantity; got != 1 {
		t.Fatalf("expected default quantity 1, got %d", got)
	}
	s.ToggleItem(3, 0)
	if _, ok := s.Items()[3]; ok {
		t.Fatal("expected item removed after second toggle")
	}
}

func TestSetQuantityRemovesOnZero(t *testing.T) {
	s := NewStore(ModeGeneral)
	s.SetQuantity(5, 3, nil)
	s.SetQuantity(5, 0, nil)
	if _, ok := s.Items()[5]; ok {
		t.Fatal("expected zero quantity to remove the entry")
	}
	s.SetQuantity(5, -2, nil)
	if _, ok := s.Items()[5]; ok {
		t.Fatal("expected negative quantity to remove the entry")
	}
}

func TestSetQuantityClampsToCap(t *testing.T) {
	s := NewStore(ModeGeneral)
	cap := 3
	s.SetQuantity(9, 5, &cap)
	if got := s.Items()[9].Quantity; got != 3 {
		t.Fatalf("expected clamped quantity 3, got %d", got)
	}
	s.SetQuantity(9, 2, &cap)
	if got := s.Items()[9].Quantity; got != 2 {
		t.Fatalf("expected quantity 2, got %d", got)
	}
}

func TestSetShootHoursClampsNegative(t *testing.T) {
	s := NewStore(ModeWedding)
	s.SetShootHours(decimal.NewFromFloat(-4))
	if !s.ShootHours().IsZero() {
		t.Fatalf("expected hours clamped to 0, got %s", s.ShootHours())
	}
}

func TestClearKeepsHoursAndMode(t *testing.T) {
	s := NewStore(ModeWedding)
	s.SetQuantity(1, 1, nil)
	s.SetShootHours(decimal.NewFromFloat(6.5))
	s.Clear()
	if len(s.Items()) != 0 {
		t.Fatal("expected empty selection after clear")
	}
	if !s.ShootHours().Equal(decimal.NewFromFloat(6.5)) {
		t.Fatalf("expected hours preserved, got %s", s.ShootHours())
	}
	if s.Mode() != ModeWedding {
		t.Fatalf("expected mode preserved, got %s", s.Mode())
	}
}

func TestSetPricingModeKeepsSelection(t *testing.T) {
	s := NewStore(ModeGeneral)
	s.SetQuantity(11, 2, nil)
	s.SetPricingMode(ModeWedding)
	if s.Mode() != ModeWedding {
		t.Fatalf("expected wedding mode, got %s", s.Mode())
	}
	if got := s.Items()[11].Quantity; got != 2 {
		t.Fatalf("expected selection kept across mode switch, got %d", got)
	}
}

func TestRestoreDropsInvalidEntries(t *testing.T) {
	s := Restore(Selection{
		1: {ItemID: 1, Quantity: 2},
		2: {ItemID: 2, Quantity: 0},
	}, decimal.NewFromInt(-1), ModeGeneral)
	if _, ok := s.Items()[2]; ok {
		t.Fatal("expected zero quantity entry dropped on restore")
	}
	if !s.ShootHours().IsZero() {
		t.Fatalf("expected hours clamped on restore, got %s", s.ShootHours())
	}
}

func TestParseMode(t *testing.T) {
	if m, err := ParseMode(" Wedding "); err != nil || m != ModeWedding {
		t.Fatalf("expected wedding, got %v %v", m, err)
	}
	if _, err := ParseMode("corporate"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}
