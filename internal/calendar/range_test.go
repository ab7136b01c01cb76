package calendar

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
)

func weekRules(t *testing.T) []AvailabilityRule {
	t.Helper()
	return []AvailabilityRule{
		{Weekday: time.Monday, Start: mustTimeOfDay(t, "09:00"), End: mustTimeOfDay(t, "12:00")},
		{Weekday: time.Wednesday, Start: mustTimeOfDay(t, "14:00"), End: mustTimeOfDay(t, "17:00")},
	}
}

func TestComputeRange_DateThenTimeOrder(t *testing.T) {
	// Пн 15-е и ср 17-е: результат склеен по датам, внутри даты по времени.
	in := ScheduleInput{Rules: weekRules(t)}
	today := date(t, 2025, 12, 1)

	slots := ComputeRange(in, date(t, 2025, 12, 15), date(t, 2025, 12, 21), OfferingPolicy{SessionMinutes: 60, BreakMinutes: 30}, today)

	want := []string{"09:00", "10:30", "14:00", "15:30"}
	if !equalStrings(sessionStarts(slots), want) {
		t.Fatalf("expected starts %v, got %v", want, sessionStarts(slots))
	}
	if !SameDate(slots[0].Date, date(t, 2025, 12, 15)) || !SameDate(slots[2].Date, date(t, 2025, 12, 17)) {
		t.Fatalf("slots out of date order: %v, %v", slots[0].Date, slots[2].Date)
	}
}

func TestComputeRange_PastDateSuppressesAvailable(t *testing.T) {
	// До today available-окна не предлагаются, но booked остаются видимыми.
	ref := uuid.New()
	in := ScheduleInput{
		Rules: weekRules(t),
		Bookings: []BookingSpan{{
			Ref:   ref,
			Date:  date(t, 2025, 12, 15),
			Start: mustTimeOfDay(t, "09:00"),
			End:   mustTimeOfDay(t, "10:00"),
		}},
	}
	today := date(t, 2025, 12, 18)

	slots := ComputeRange(in, date(t, 2025, 12, 15), date(t, 2025, 12, 15), OfferingPolicy{SessionMinutes: 60, BreakMinutes: 30}, today)

	if len(slots) != 1 {
		t.Fatalf("expected only the booked slot, got %d slots (%v)", len(slots), sessionStarts(slots))
	}
	if slots[0].Status != SlotStatusBooked || slots[0].BookingRef == nil || *slots[0].BookingRef != ref {
		t.Fatalf("expected booked slot with ref, got %+v", slots[0])
	}
}

func TestComputeRange_PastDateKeepsBlocked(t *testing.T) {
	in := ScheduleInput{
		Rules: weekRules(t),
		Blocks: []BlockedSpan{{
			From:  date(t, 2025, 12, 15),
			To:    date(t, 2025, 12, 15),
			Start: mustTimeOfDay(t, "10:30"),
			End:   mustTimeOfDay(t, "11:30"),
		}},
	}
	today := date(t, 2025, 12, 18)

	slots := ComputeRange(in, date(t, 2025, 12, 15), date(t, 2025, 12, 15), OfferingPolicy{SessionMinutes: 60, BreakMinutes: 30}, today)

	if len(slots) != 1 || slots[0].Status != SlotStatusBlocked {
		t.Fatalf("expected single blocked slot, got %v", slots)
	}
}

func TestComputeRange_TodayExpandedNormally(t *testing.T) {
	// Сама today не считается прошлым: окна предлагаются как обычно.
	in := ScheduleInput{Rules: weekRules(t)}
	today := date(t, 2025, 12, 15)

	slots := ComputeRange(in, today, today, OfferingPolicy{SessionMinutes: 60, BreakMinutes: 30}, today)

	want := []string{"09:00", "10:30"}
	if !equalStrings(sessionStarts(slots), want) {
		t.Fatalf("expected starts %v, got %v", want, sessionStarts(slots))
	}
}

func TestComputeRange_CapPerDay(t *testing.T) {
	in := ScheduleInput{Rules: weekRules(t)}
	today := date(t, 2025, 12, 1)
	policy := OfferingPolicy{SessionMinutes: 60, BreakMinutes: 30, MaxSlotsPerDay: 1}

	slots := ComputeRange(in, date(t, 2025, 12, 15), date(t, 2025, 12, 21), policy, today)

	want := []string{"09:00", "14:00"}
	if !equalStrings(sessionStarts(slots), want) {
		t.Fatalf("expected one slot per day %v, got %v", want, sessionStarts(slots))
	}
}

func TestComputeRange_EmptyWhenStartAfterEnd(t *testing.T) {
	in := ScheduleInput{Rules: weekRules(t)}
	slots := ComputeRange(in, date(t, 2025, 12, 21), date(t, 2025, 12, 15), DefaultOfferingPolicy(), date(t, 2025, 12, 1))
	if len(slots) != 0 {
		t.Fatalf("expected empty result for inverted range, got %d", len(slots))
	}
}

func TestComputeRange_Deterministic(t *testing.T) {
	in := ScheduleInput{
		Rules: weekRules(t),
		Blocks: []BlockedSpan{{
			From:  date(t, 2025, 12, 15),
			To:    date(t, 2025, 12, 15),
			Start: mustTimeOfDay(t, "09:00"),
			End:   mustTimeOfDay(t, "10:00"),
		}},
		Bookings: []BookingSpan{{
			Ref:   uuid.New(),
			Date:  date(t, 2025, 12, 17),
			Start: mustTimeOfDay(t, "14:00"),
			End:   mustTimeOfDay(t, "15:00"),
		}},
	}
	today := date(t, 2025, 12, 16)

	a := ComputeRange(in, date(t, 2025, 12, 15), date(t, 2025, 12, 21), DefaultOfferingPolicy(), today)
	b := ComputeRange(in, date(t, 2025, 12, 15), date(t, 2025, 12, 21), DefaultOfferingPolicy(), today)

	if !reflect.DeepEqual(a, b) {
		t.Fatalf("same input must give same output")
	}
}
