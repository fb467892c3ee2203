package selection

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Mode selects which catalog and discount tier table apply to a booking.
type Mode string

const (
	// ModeGeneral covers standard commercial and portrait shoots.
	ModeGeneral Mode = "general"
	// ModeWedding covers wedding packages with their own tier table.
	ModeWedding Mode = "wedding"
)

// ErrUnknownMode is returned when parsing an unrecognised pricing mode.
var ErrUnknownMode = errors.New("unknown pricing mode")

// ParseMode converts a string into a Mode.
func ParseMode(value string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(value))) {
	case ModeGeneral:
		return ModeGeneral, nil
	case ModeWedding:
		return ModeWedding, nil
	default:
		return "", ErrUnknownMode
	}
}

// SelectedItem is a single chosen catalog item with its quantity.
type SelectedItem struct {
	ItemID   int64 `json:"item_id"`
	Quantity int   `json:"quantity"`
}

// Selection maps item id to the chosen entry. Entries with quantity <= 0
// must not exist; removal is expressed by deleting the key.
type Selection map[int64]SelectedItem

// Clone returns an independent copy of the selection.
func (s Selection) Clone() Selection {
	out := make(Selection, len(s))
	for id, item := range s {
		out[id] = item
	}
	return out
}

// Store holds the mutable booking selection state: chosen items, shoot
// hours, and the active pricing mode. Mutations never derive a quote;
// recomputation is the caller's responsibility.
type Store struct {
	items Selection
	hours decimal.Decimal
	mode  Mode
}

// NewStore constructs an empty store for the given mode.
func NewStore(mode Mode) *Store {
	return &Store{items: Selection{}, mode: mode}
}

// Restore rebuilds a store from persisted state. Invalid entries
// (quantity <= 0) are dropped and negative hours clamped to zero so a
// restored store always satisfies the same invariants as a fresh one.
func Restore(items Selection, hours decimal.Decimal, mode Mode) *Store {
	s := NewStore(mode)
	for id, item := range items {
		if item.Quantity > 0 {
			s.items[id] = SelectedItem{ItemID: id, Quantity: item.Quantity}
		}
	}
	s.SetShootHours(hours)
	return s
}

// ToggleItem removes the item when present, otherwise inserts it with the
// provided default quantity. A defaultQty <= 0 falls back to 1.
func (s *Store) ToggleItem(itemID int64, defaultQty int) {
	if _, ok := s.items[itemID]; ok {
		delete(s.items, itemID)
		return
	}
	if defaultQty <= 0 {
		defaultQty = 1
	}
	s.items[itemID] = SelectedItem{ItemID: itemID, Quantity: defaultQty}
}

// SetQuantity upserts the quantity for an item. Zero or negative removes
// the entry. When maxQty is non-nil the quantity is silently capped at it;
// the store never rejects user input.
func (s *Store) SetQuantity(itemID int64, qty int, maxQty *int) {
	if qty <= 0 {
		delete(s.items, itemID)
		return
	}
	if maxQty != nil && *maxQty >= 1 && qty > *maxQty {
		qty = *maxQty
	}
	s.items[itemID] = SelectedItem{ItemID: itemID, Quantity: qty}
}

// SetShootHours updates the booked duration, clamping negatives to zero.
func (s *Store) SetShootHours(hours decimal.Decimal) {
	if hours.IsNegative() {
		hours = decimal.Zero
	}
	s.hours = hours
}

// Clear empties the selection. Shoot hours and mode are untouched.
func (s *Store) Clear() {
	s.items = Selection{}
}

// SetPricingMode switches the active mode. The selection is kept: items
// that do not exist in the new mode's catalog surface as quote warnings
// instead of being dropped here.
func (s *Store) SetPricingMode(mode Mode) {
	s.mode = mode
}

// Replace swaps in a full selection, dropping invalid entries.
func (s *Store) Replace(items Selection) {
	next := make(Selection, len(items))
	for id, item := range items {
		if item.Quantity > 0 {
			next[id] = SelectedItem{ItemID: id, Quantity: item.Quantity}
		}
	}
	s.items = next
}

// Items returns a copy of the current selection.
func (s *Store) Items() Selection {
	return s.items.Clone()
}

// ShootHours returns the booked duration.
func (s *Store) ShootHours() decimal.Decimal {
	return s.hours
}

// Mode returns the active pricing mode.
func (s *Store) Mode() Mode {
	return s.mode
}
