package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/studiolensa/backend-shoot/internal/obs"
)

// Task kinds processed by the worker.
const (
	TaskExpire      = "booking:expire"
	TaskExpireSweep = "booking:expire_sweep"
)

// ExpirePayload identifies the booking to expire.
type ExpirePayload struct {
	BookingID string `json:"booking_id"`
}

// NewExpireTask builds the asynq task expiring one booking.
func NewExpireTask(id uuid.UUID) (*asynq.Task, error) {
	payload, err := json.Marshal(ExpirePayload{BookingID: id.String()})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskExpire, payload, asynq.MaxRetry(3)), nil
}

// NewExpireSweepTask builds the periodic sweep task catching any drafts
// whose individual expiry task was lost.
func NewExpireSweepTask() *asynq.Task {
	return asynq.NewTask(TaskExpireSweep, nil, asynq.MaxRetry(1))
}

// AsynqScheduler schedules expiry tasks through an asynq client. It
// implements ExpiryScheduler.
type AsynqScheduler struct {
	Client *asynq.Client
}

// ScheduleExpiry enqueues a delayed expiry task for the booking.
func (s AsynqScheduler) ScheduleExpiry(ctx context.Context, id uuid.UUID, at time.Time) error {
	if s.Client == nil {
		return nil
	}
	task, err := NewExpireTask(id)
	if err != nil {
		return err
	}
	_, err = s.Client.EnqueueContext(ctx, task, asynq.ProcessAt(at))
	return err
}

// Worker handles booking expiry tasks.
type Worker struct {
	Svc    *Service
	Logger zerolog.Logger
}

// HandleExpire processes a single-booking expiry task.
func (w Worker) HandleExpire(ctx context.Context, t *asynq.Task) error {
	var payload ExpirePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("decode expire payload: %v: %w", err, asynq.SkipRetry)
	}
	id, err := uuid.Parse(payload.BookingID)
	if err != nil {
		return fmt.Errorf("parse booking id: %v: %w", err, asynq.SkipRetry)
	}
	expired, err := w.Svc.Expire(ctx, id)
	if err != nil {
		return err
	}
	if expired {
		obs.RecordBookingExpired(1)
		w.Logger.Info().Str("booking_id", id.String()).Msg("booking expired")
	}
	return nil
}

// HandleExpireSweep expires every stale draft in one pass.
func (w Worker) HandleExpireSweep(ctx context.Context, _ *asynq.Task) error {
	count, err := w.Svc.ExpireStale(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		obs.RecordBookingExpired(count)
		w.Logger.Info().Int64("count", count).Msg("stale bookings expired")
	}
	return nil
}
