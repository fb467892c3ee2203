package repo

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Booking is a persisted booking draft: the raw selection as JSON plus
// hours, mode, and event type. Quote holds the confirmed quote snapshot
// once the booking is locked in.
type Booking struct {
	ID        uuid.UUID
	Mode      string
	EventType *string
	Hours     decimal.Decimal
	Items     []byte
	Status    string
	Quote     []byte
	CreatedAt time.Time
	UpdatedAt time.Time
	ExpiresAt time.Time
}

const bookingColumns = "id, mode, event_type, hours::text, items, status, quote, created_at, updated_at, expires_at"

func scanBooking(row interface{ Scan(dest ...any) error }) (Booking, error) {
	var (
		b     Booking
		hours string
	)
	if err := row.Scan(&b.ID, &b.Mode, &b.EventType, &hours, &b.Items, &b.Status, &b.Quote, &b.CreatedAt, &b.UpdatedAt, &b.ExpiresAt); err != nil {
		return Booking{}, err
	}
	parsed, err := decimal.NewFromString(hours)
	if err != nil {
		return Booking{}, fmt.Errorf("parse booking hours: %w", err)
	}
	b.Hours = parsed
	return b, nil
}

// CreateBookingParams holds the initial draft state.
type CreateBookingParams struct {
	ID        uuid.UUID
	Mode      string
	EventType *string
	Hours     decimal.Decimal
	Items     []byte
	Status    string
	ExpiresAt time.Time
}

// CreateBooking inserts a draft booking and returns the stored row.
func (q *Queries) CreateBooking(ctx context.Context, arg CreateBookingParams) (Booking, error) {
	sql, args, err := builder.
		Insert("bookings").
		Columns("id", "mode", "event_type", "hours", "items", "status", "expires_at").
		Values(arg.ID, arg.Mode, arg.EventType, arg.Hours.String(), arg.Items, arg.Status, arg.ExpiresAt).
		Suffix("RETURNING " + bookingColumns).
		ToSql()
	if err != nil {
		return Booking{}, fmt.Errorf("build create booking: %w", err)
	}
	return scanBooking(q.db.QueryRow(ctx, sql, args...))
}

// GetBooking fetches a booking by id. pgx.ErrNoRows passes through.
func (q *Queries) GetBooking(ctx context.Context, id uuid.UUID) (Booking, error) {
	sql, args, err := builder.
		Select(bookingColumns).
		From("bookings").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return Booking{}, fmt.Errorf("build get booking: %w", err)
	}
	return scanBooking(q.db.QueryRow(ctx, sql, args...))
}

// UpdateBookingStateParams carries the replacement selection state.
type UpdateBookingStateParams struct {
	ID    uuid.UUID
	Mode  string
	Hours decimal.Decimal
	Items []byte
}

// UpdateBookingState replaces the selection, hours, and mode of a draft.
func (q *Queries) UpdateBookingState(ctx context.Context, arg UpdateBookingStateParams) (Booking, error) {
	sql, args, err := builder.
		Update("bookings").
		Set("mode", arg.Mode).
		Set("hours", arg.Hours.String()).
		Set("items", arg.Items).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": arg.ID}).
		Suffix("RETURNING " + bookingColumns).
		ToSql()
	if err != nil {
		return Booking{}, fmt.Errorf("build update booking state: %w", err)
	}
	return scanBooking(q.db.QueryRow(ctx, sql, args...))
}

// SetBookingQuote stores the confirmed quote snapshot and advances status.
func (q *Queries) SetBookingQuote(ctx context.Context, id uuid.UUID, quote []byte, status string) (Booking, error) {
	sql, args, err := builder.
		Update("bookings").
		Set("quote", quote).
		Set("status", status).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + bookingColumns).
		ToSql()
	if err != nil {
		return Booking{}, fmt.Errorf("build set booking quote: %w", err)
	}
	return scanBooking(q.db.QueryRow(ctx, sql, args...))
}

// ExpireBooking marks a single draft as expired when its deadline passed.
// Reports whether a row changed.
func (q *Queries) ExpireBooking(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	sql, args, err := builder.
		Update("bookings").
		Set("status", "expired").
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id, "status": "draft"}).
		Where(sq.LtOrEq{"expires_at": now}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build expire booking: %w", err)
	}
	tag, err := q.db.Exec(ctx, sql, args...)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ExpireStaleBookings expires every draft past its deadline and returns
// the number of rows affected.
func (q *Queries) ExpireStaleBookings(ctx context.Context, now time.Time) (int64, error) {
	sql, args, err := builder.
		Update("bookings").
		Set("status", "expired").
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"status": "draft"}).
		Where(sq.LtOrEq{"expires_at": now}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build expire stale bookings: %w", err)
	}
	tag, err := q.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
