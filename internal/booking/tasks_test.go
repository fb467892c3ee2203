package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/studiolensa/backend-shoot/internal/selection"
)

func TestHandleExpireMarksStaleDraft(t *testing.T) {
	q := newStubQueries()
	svc, _ := testService(q)
	booking, err := svc.Create(context.Background(), selection.ModeGeneral, "", dec("4"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	svc.Now = func() time.Time { return booking.ExpiresAt.Add(time.Minute) }

	task, err := NewExpireTask(booking.ID)
	if err != nil {
		t.Fatalf("build task: %v", err)
	}
	w := Worker{Svc: svc, Logger: zerolog.Nop()}
	if err := w.HandleExpire(context.Background(), task); err != nil {
		t.Fatalf("handle expire: %v", err)
	}
	if q.rows[booking.ID].Status != string(StatusExpired) {
		t.Fatalf("expected expired status, got %s", q.rows[booking.ID].Status)
	}
}

func TestHandleExpireSkipsMalformedPayload(t *testing.T) {
	w := Worker{Svc: &Service{}, Logger: zerolog.Nop()}
	task := asynq.NewTask(TaskExpire, []byte("not json"))
	err := w.HandleExpire(context.Background(), task)
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry for malformed payload, got %v", err)
	}
}

func TestHandleExpireSweep(t *testing.T) {
	q := newStubQueries()
	svc, _ := testService(q)
	first, err := svc.Create(context.Background(), selection.ModeGeneral, "", dec("4"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	svc.Now = func() time.Time { return first.ExpiresAt.Add(time.Hour) }

	w := Worker{Svc: svc, Logger: zerolog.Nop()}
	if err := w.HandleExpireSweep(context.Background(), NewExpireSweepTask()); err != nil {
		t.Fatalf("handle sweep: %v", err)
	}
	if q.rows[first.ID].Status != string(StatusExpired) {
		t.Fatalf("expected expired status, got %s", q.rows[first.ID].Status)
	}
}
