package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/studiolensa/backend-shoot/internal/discount"
	"github.com/studiolensa/backend-shoot/internal/quote"
	"github.com/studiolensa/backend-shoot/internal/repo"
	"github.com/studiolensa/backend-shoot/internal/selection"
)

// Status is the booking draft lifecycle state.
type Status string

const (
	// StatusDraft bookings accept selection edits.
	StatusDraft Status = "draft"
	// StatusConfirmed bookings carry a locked quote snapshot.
	StatusConfirmed Status = "confirmed"
	// StatusExpired bookings passed their deadline without confirmation.
	StatusExpired Status = "expired"
)

// ErrNotFound indicates the requested booking could not be located.
var ErrNotFound = errors.New("booking not found")

// ErrNotEditable is returned when mutating a booking that left draft state.
var ErrNotEditable = errors.New("booking is no longer editable")

// ErrInvalidInput is returned when the provided payload is invalid.
var ErrInvalidInput = errors.New("invalid input")

type queryProvider interface {
	CreateBooking(ctx context.Context, arg repo.CreateBookingParams) (repo.Booking, error)
	GetBooking(ctx context.Context, id uuid.UUID) (repo.Booking, error)
	UpdateBookingState(ctx context.Context, arg repo.UpdateBookingStateParams) (repo.Booking, error)
	SetBookingQuote(ctx context.Context, id uuid.UUID, quote []byte, status string) (repo.Booking, error)
	ExpireBooking(ctx context.Context, id uuid.UUID, now time.Time) (bool, error)
	ExpireStaleBookings(ctx context.Context, now time.Time) (int64, error)
}

type catalogProvider interface {
	Lookup(ctx context.Context, mode selection.Mode, eventType string) (map[int64]quote.Item, error)
}

type tierProvider interface {
	TiersForMode(ctx context.Context, mode selection.Mode) ([]discount.Tier, error)
}

// ExpiryScheduler schedules the background expiry of a draft booking.
type ExpiryScheduler interface {
	ScheduleExpiry(ctx context.Context, id uuid.UUID, at time.Time) error
}

// Service encapsulates booking draft operations. Every quote it returns
// is recomputed wholesale through the pure calculator; nothing is ever
// patched incrementally, so the preview and the confirmation snapshot
// derive from identical inputs.
type Service struct {
	Q       queryProvider
	Catalog catalogProvider
	Tiers   tierProvider
	Expiry  ExpiryScheduler
	Margin  decimal.Decimal
	TTL     time.Duration
	Now     func() time.Time
}

// Booking is the public booking payload.
type Booking struct {
	ID        uuid.UUID                `json:"booking_id"`
	Mode      selection.Mode           `json:"pricing_mode"`
	EventType string                   `json:"event_type,omitempty"`
	Hours     decimal.Decimal          `json:"shoot_hours"`
	Items     []selection.SelectedItem `json:"items"`
	Status    Status                   `json:"status"`
	ExpiresAt time.Time                `json:"expires_at"`
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *Service) ttl() time.Duration {
	if s == nil || s.TTL <= 0 {
		return 48 * time.Hour
	}
	return s.TTL
}

// Create opens a new draft booking and schedules its expiry.
func (s *Service) Create(ctx context.Context, mode selection.Mode, eventType string, hours decimal.Decimal) (Booking, error) {
	if s == nil || s.Q == nil {
		return Booking{}, errors.New("booking service not configured")
	}
	store := selection.NewStore(mode)
	store.SetShootHours(hours)

	items, err := encodeSelection(store.Items())
	if err != nil {
		return Booking{}, err
	}
	var event *string
	if eventType != "" {
		event = &eventType
	}
	expiresAt := s.now().Add(s.ttl())
	row, err := s.Q.CreateBooking(ctx, repo.CreateBookingParams{
		ID:        uuid.New(),
		Mode:      string(mode),
		EventType: event,
		Hours:     store.ShootHours(),
		Items:     items,
		Status:    string(StatusDraft),
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return Booking{}, err
	}
	if s.Expiry != nil {
		if err := s.Expiry.ScheduleExpiry(ctx, row.ID, expiresAt); err != nil {
			return Booking{}, fmt.Errorf("schedule expiry: %w", err)
		}
	}
	return fromRow(row)
}

// Get fetches a booking by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Booking, error) {
	row, err := s.load(ctx, id)
	if err != nil {
		return Booking{}, err
	}
	return fromRow(row)
}

// ToggleItem removes the item when selected, otherwise adds it with the
// default quantity.
func (s *Service) ToggleItem(ctx context.Context, id uuid.UUID, itemID int64, defaultQty int) (Booking, error) {
	return s.mutate(ctx, id, func(store *selection.Store) error {
		store.ToggleItem(itemID, defaultQty)
		return nil
	})
}

// SetQuantity upserts an item quantity, clamping to the catalog cap when
// the item is known. Zero removes the entry.
func (s *Service) SetQuantity(ctx context.Context, id uuid.UUID, itemID int64, qty int) (Booking, error) {
	return s.mutateWithRow(ctx, id, func(store *selection.Store, row repo.Booking) error {
		var maxQty *int
		if s.Catalog != nil {
			lookup, err := s.Catalog.Lookup(ctx, store.Mode(), derefEvent(row.EventType))
			if err != nil {
				return err
			}
			if item, ok := lookup[itemID]; ok {
				maxQty = item.MaxQuantity
			}
		}
		store.SetQuantity(itemID, qty, maxQty)
		return nil
	})
}

// SetHours updates the booked duration.
func (s *Service) SetHours(ctx context.Context, id uuid.UUID, hours decimal.Decimal) (Booking, error) {
	return s.mutate(ctx, id, func(store *selection.Store) error {
		store.SetShootHours(hours)
		return nil
	})
}

// SetMode switches the pricing mode. The selection is kept; items the new
// catalog does not know surface as quote warnings.
func (s *Service) SetMode(ctx context.Context, id uuid.UUID, mode selection.Mode) (Booking, error) {
	return s.mutate(ctx, id, func(store *selection.Store) error {
		store.SetPricingMode(mode)
		return nil
	})
}

// ClearItems empties the selection, keeping hours and mode.
func (s *Service) ClearItems(ctx context.Context, id uuid.UUID) (Booking, error) {
	return s.mutate(ctx, id, func(store *selection.Store) error {
		store.Clear()
		return nil
	})
}

// Quote recomputes the full quote for a booking from its current state.
func (s *Service) Quote(ctx context.Context, id uuid.UUID) (quote.Quote, error) {
	row, err := s.load(ctx, id)
	if err != nil {
		return quote.Quote{}, err
	}
	return s.computeQuote(ctx, row)
}

// Confirm locks in the booking: it recomputes the quote one final time
// from the stored selection and persists the snapshot. Because both the
// preview and this call run the same pure calculator over the same state,
// the confirmed totals always match the last preview.
func (s *Service) Confirm(ctx context.Context, id uuid.UUID) (Booking, quote.Quote, error) {
	row, err := s.load(ctx, id)
	if err != nil {
		return Booking{}, quote.Quote{}, err
	}
	if Status(row.Status) != StatusDraft {
		return Booking{}, quote.Quote{}, ErrNotEditable
	}
	q, err := s.computeQuote(ctx, row)
	if err != nil {
		return Booking{}, quote.Quote{}, err
	}
	snapshot, err := json.Marshal(q)
	if err != nil {
		return Booking{}, quote.Quote{}, err
	}
	updated, err := s.Q.SetBookingQuote(ctx, id, snapshot, string(StatusConfirmed))
	if err != nil {
		return Booking{}, quote.Quote{}, err
	}
	booking, err := fromRow(updated)
	return booking, q, err
}

// Expire marks a single draft as expired once its deadline passed.
func (s *Service) Expire(ctx context.Context, id uuid.UUID) (bool, error) {
	if s == nil || s.Q == nil {
		return false, errors.New("booking service not configured")
	}
	return s.Q.ExpireBooking(ctx, id, s.now())
}

// ExpireStale expires every draft past its deadline.
func (s *Service) ExpireStale(ctx context.Context) (int64, error) {
	if s == nil || s.Q == nil {
		return 0, errors.New("booking service not configured")
	}
	return s.Q.ExpireStaleBookings(ctx, s.now())
}

// ComputeQuote runs the calculator over an ad-hoc selection without any
// persisted booking, for the stateless quote endpoint.
func (s *Service) ComputeQuote(ctx context.Context, sel selection.Selection, hours decimal.Decimal, mode selection.Mode, eventType string, margin decimal.Decimal) (quote.Quote, error) {
	if s == nil || s.Catalog == nil || s.Tiers == nil {
		return quote.Quote{}, errors.New("booking service not configured")
	}
	lookup, err := s.Catalog.Lookup(ctx, mode, eventType)
	if err != nil {
		return quote.Quote{}, err
	}
	tiers, err := s.Tiers.TiersForMode(ctx, mode)
	if err != nil {
		return quote.Quote{}, err
	}
	return quote.Calculate(lookup, sel, hours, mode, margin, tiers)
}

func (s *Service) computeQuote(ctx context.Context, row repo.Booking) (quote.Quote, error) {
	sel, err := decodeSelection(row.Items)
	if err != nil {
		return quote.Quote{}, err
	}
	mode := selection.Mode(row.Mode)
	return s.ComputeQuote(ctx, sel, row.Hours, mode, derefEvent(row.EventType), s.Margin)
}

func (s *Service) load(ctx context.Context, id uuid.UUID) (repo.Booking, error) {
	if s == nil || s.Q == nil {
		return repo.Booking{}, errors.New("booking service not configured")
	}
	row, err := s.Q.GetBooking(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repo.Booking{}, ErrNotFound
		}
		return repo.Booking{}, err
	}
	return row, nil
}

func (s *Service) mutate(ctx context.Context, id uuid.UUID, apply func(*selection.Store) error) (Booking, error) {
	return s.mutateWithRow(ctx, id, func(store *selection.Store, _ repo.Booking) error {
		return apply(store)
	})
}

func (s *Service) mutateWithRow(ctx context.Context, id uuid.UUID, apply func(*selection.Store, repo.Booking) error) (Booking, error) {
	row, err := s.load(ctx, id)
	if err != nil {
		return Booking{}, err
	}
	if Status(row.Status) != StatusDraft {
		return Booking{}, ErrNotEditable
	}
	sel, err := decodeSelection(row.Items)
	if err != nil {
		return Booking{}, err
	}
	store := selection.Restore(sel, row.Hours, selection.Mode(row.Mode))
	if err := apply(store, row); err != nil {
		return Booking{}, err
	}
	items, err := encodeSelection(store.Items())
	if err != nil {
		return Booking{}, err
	}
	updated, err := s.Q.UpdateBookingState(ctx, repo.UpdateBookingStateParams{
		ID:    id,
		Mode:  string(store.Mode()),
		Hours: store.ShootHours(),
		Items: items,
	})
	if err != nil {
		return Booking{}, err
	}
	return fromRow(updated)
}

func encodeSelection(sel selection.Selection) ([]byte, error) {
	return json.Marshal(sortedItems(sel))
}

func decodeSelection(data []byte) (selection.Selection, error) {
	sel := selection.Selection{}
	if len(data) == 0 {
		return sel, nil
	}
	var items []selection.SelectedItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode selection: %w", err)
	}
	for _, item := range items {
		if item.Quantity > 0 {
			sel[item.ItemID] = item
		}
	}
	return sel, nil
}

func sortedItems(sel selection.Selection) []selection.SelectedItem {
	items := make([]selection.SelectedItem, 0, len(sel))
	for _, item := range sel {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ItemID < items[j].ItemID })
	return items
}

func fromRow(row repo.Booking) (Booking, error) {
	sel, err := decodeSelection(row.Items)
	if err != nil {
		return Booking{}, err
	}
	return Booking{
		ID:        row.ID,
		Mode:      selection.Mode(row.Mode),
		EventType: derefEvent(row.EventType),
		Hours:     row.Hours,
		Items:     sortedItems(sel),
		Status:    Status(row.Status),
		ExpiresAt: row.ExpiresAt,
	}, nil
}

func derefEvent(event *string) string {
	if event == nil {
		return ""
	}
	return *event
}
