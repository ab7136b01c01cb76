package calendar

import (
	"errors"
	"testing"
	"time"
)

func TestCancellationPolicy_Allow(t *testing.T) {
	policy := DefaultCancellationPolicy()
	appointment := time.Date(2025, 12, 15, 10, 0, 0, 0, time.UTC)

	if err := policy.Allow(appointment, appointment.Add(-48*time.Hour), false); err != nil {
		t.Fatalf("48h notice must be allowed, got %v", err)
	}
	// Ровно 24 часа — граница включительно.
	if err := policy.Allow(appointment, appointment.Add(-24*time.Hour), false); err != nil {
		t.Fatalf("exactly 24h notice must be allowed, got %v", err)
	}
	if err := policy.Allow(appointment, appointment.Add(-23*time.Hour), false); !errors.Is(err, ErrNoticeWindow) {
		t.Fatalf("23h notice must violate the window, got %v", err)
	}
	if err := policy.Allow(appointment, appointment.Add(time.Hour), false); !errors.Is(err, ErrNoticeWindow) {
		t.Fatalf("cancellation after the appointment must violate the window, got %v", err)
	}
}

func TestCancellationPolicy_AlreadyCancelledWins(t *testing.T) {
	// Повторная отмена даёт ErrAlreadyCancelled даже при нарушенном окне.
	policy := DefaultCancellationPolicy()
	appointment := time.Date(2025, 12, 15, 10, 0, 0, 0, time.UTC)

	if err := policy.Allow(appointment, appointment.Add(-time.Hour), true); !errors.Is(err, ErrAlreadyCancelled) {
		t.Fatalf("expected ErrAlreadyCancelled, got %v", err)
	}
	if err := policy.Allow(appointment, appointment.Add(-72*time.Hour), true); !errors.Is(err, ErrAlreadyCancelled) {
		t.Fatalf("expected ErrAlreadyCancelled, got %v", err)
	}
}

func TestCancellationPolicy_CustomNotice(t *testing.T) {
	policy := CancellationPolicy{Notice: 2 * time.Hour}
	appointment := time.Date(2025, 12, 15, 10, 0, 0, 0, time.UTC)

	if err := policy.Allow(appointment, appointment.Add(-3*time.Hour), false); err != nil {
		t.Fatalf("3h notice with 2h policy must be allowed, got %v", err)
	}
	if err := policy.Allow(appointment, appointment.Add(-time.Hour), false); !errors.Is(err, ErrNoticeWindow) {
		t.Fatalf("1h notice with 2h policy must violate, got %v", err)
	}
}
