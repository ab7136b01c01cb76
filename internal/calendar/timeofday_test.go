package calendar

import (
	"testing"
	"time"
)

func TestParseTimeOfDay_Valid(t *testing.T) {
	cases := map[string]TimeOfDay{
		"00:00": 0,
		"09:30": 9*60 + 30,
		"23:59": 23*60 + 59,
	}
	for in, want := range cases {
		got, err := ParseTimeOfDay(in)
		if err != nil {
			t.Fatalf("ParseTimeOfDay(%q): unexpected error %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseTimeOfDay(%q) = %d, want %d", in, got, want)
		}
		if got.String() != in {
			t.Fatalf("String() roundtrip: got %q, want %q", got.String(), in)
		}
	}
}

func TestParseTimeOfDay_Invalid(t *testing.T) {
	for _, in := range []string{"", "9:30", "24:00", "12:60", "12.30", "abcde", "12:3a"} {
		if _, err := ParseTimeOfDay(in); err == nil {
			t.Fatalf("ParseTimeOfDay(%q): expected error, got nil", in)
		}
	}
}

func TestTimeOfDay_At(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Moscow")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	date := time.Date(2025, 12, 15, 0, 0, 0, 0, loc)

	got := TimeOfDay(9*60 + 30).At(date)
	want := time.Date(2025, 12, 15, 9, 30, 0, 0, loc)
	if !got.Equal(want) {
		t.Fatalf("At() = %v, want %v", got, want)
	}
}

func TestSameDate_AcrossLocations(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Moscow")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	// Полночь Москвы и полночь UTC одной календарной даты — это разные
	// моменты, но одна дата.
	a := time.Date(2025, 12, 15, 0, 0, 0, 0, loc)
	b := time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC)
	if !SameDate(a, b) {
		t.Fatalf("expected same date for %v and %v", a, b)
	}
	if SameDate(a, b.AddDate(0, 0, 1)) {
		t.Fatalf("expected different dates")
	}
}
