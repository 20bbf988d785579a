package domain

import (
	"errors"
	"testing"
	"time"
)

// helper: build a time in given tz and return its UTC
func mustLocalUTC(t *testing.T, tz string, y int, m time.Month, d, hh, mm int) time.Time {
	t.Helper()
	loc, err := time.LoadLocation(tz)
	if err != nil {
		t.Fatalf("load tz: %v", err)
	}
	return time.Date(y, m, d, hh, mm, 0, 0, loc).UTC()
}

// helper: epoch milliseconds for a UTC-midnight calendar date
func birthdateMillis(y int, m time.Month, d int) int64 {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).UnixMilli()
}

func mustZone(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := LoadZone(name)
	if err != nil {
		t.Fatalf("load zone: %v", err)
	}
	return loc
}

func TestNextOccurrence_BirthdayToday(t *testing.T) {
	loc := mustZone(t, "America/New_York")
	now := mustLocalUTC(t, "America/New_York", 2024, time.January, 15, 9, 0)

	days, age, err := NextOccurrence(birthdateMillis(1990, time.January, 15), loc, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if days != 0 {
		t.Errorf("days until = %d, want 0", days)
	}
	if age != 34 {
		t.Errorf("age turning = %d, want 34", age)
	}
}

func TestNextOccurrence_LaterThisYear(t *testing.T) {
	loc := mustZone(t, "America/New_York")
	now := mustLocalUTC(t, "America/New_York", 2024, time.January, 15, 9, 0)

	days, age, err := NextOccurrence(birthdateMillis(1990, time.January, 25), loc, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if days != 10 {
		t.Errorf("days until = %d, want 10", days)
	}
	if age != 34 {
		t.Errorf("age turning = %d, want 34", age)
	}
}

func TestNextOccurrence_AlreadyPassedThisYear(t *testing.T) {
	loc := mustZone(t, "America/New_York")
	now := mustLocalUTC(t, "America/New_York", 2024, time.March, 1, 9, 0)

	// Jan 15 already passed in 2024, next occurrence is 2025.
	days, age, err := NextOccurrence(birthdateMillis(1990, time.January, 15), loc, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := 320 // Mar 1 2024 .. Jan 15 2025
	if days != want {
		t.Errorf("days until = %d, want %d", days, want)
	}
	if age != 35 {
		t.Errorf("age turning = %d, want 35", age)
	}
}

func TestNextOccurrence_LocalDateDiffersFromUTC(t *testing.T) {
	// 2024-01-16 03:00 UTC is still Jan 15 in New York, so a Jan 15
	// birthday is today there, not already passed.
	loc := mustZone(t, "America/New_York")
	now := time.Date(2024, time.January, 16, 3, 0, 0, 0, time.UTC)

	days, _, err := NextOccurrence(birthdateMillis(1990, time.January, 15), loc, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if days != 0 {
		t.Errorf("days until = %d, want 0", days)
	}
}

func TestNextOccurrence_LeapDaySkipsNonLeapYears(t *testing.T) {
	loc := mustZone(t, "UTC")
	// March 2024: Feb 29 2024 already passed, 2025..2027 have no Feb 29.
	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

	days, age, err := NextOccurrence(birthdateMillis(1996, time.February, 29), loc, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	occurrence := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC).AddDate(0, 0, days)
	if occurrence.Year() != 2028 || occurrence.Month() != time.February || occurrence.Day() != 29 {
		t.Errorf("occurrence = %s, want 2028-02-29", occurrence.Format("2006-01-02"))
	}
	if age != 32 {
		t.Errorf("age turning = %d, want 32", age)
	}
}

func TestNextOccurrence_LeapDayInLeapYear(t *testing.T) {
	loc := mustZone(t, "UTC")
	now := time.Date(2024, time.February, 1, 12, 0, 0, 0, time.UTC)

	days, age, err := NextOccurrence(birthdateMillis(2000, time.February, 29), loc, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if days != 28 {
		t.Errorf("days until = %d, want 28", days)
	}
	if age != 24 {
		t.Errorf("age turning = %d, want 24", age)
	}
}

func TestNextOccurrence_InvalidTimestamp(t *testing.T) {
	loc := mustZone(t, "UTC")
	now := time.Date(2024, time.February, 1, 12, 0, 0, 0, time.UTC)

	// Far outside any plausible calendar range.
	_, _, err := NextOccurrence(int64(-62167219200000*10), loc, now)
	if !errors.Is(err, ErrInvalidTimestamp) {
		t.Fatalf("err = %v, want ErrInvalidTimestamp", err)
	}
}

func TestNextOccurrence_AgeAdvancesAcrossOccurrences(t *testing.T) {
	loc := mustZone(t, "UTC")
	bd := birthdateMillis(1990, time.June, 15)

	before := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	after := time.Date(2024, time.June, 16, 0, 0, 0, 0, time.UTC)

	_, ageThis, err := NextOccurrence(bd, loc, before)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, ageNext, err := NextOccurrence(bd, loc, after)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ageNext != ageThis+1 {
		t.Errorf("age turning advanced %d -> %d, want +1", ageThis, ageNext)
	}
}

func TestNextOccurrence_NeverNegative(t *testing.T) {
	loc := mustZone(t, "Asia/Tokyo")
	now := time.Now().UTC()

	for month := time.January; month <= time.December; month++ {
		for _, day := range []int{1, 15, 28} {
			days, _, err := NextOccurrence(birthdateMillis(1985, month, day), loc, now)
			if err != nil {
				t.Fatalf("unexpected error for %v %d: %v", month, day, err)
			}
			if days < 0 {
				t.Errorf("days until = %d for %v %d, want >= 0", days, month, day)
			}
		}
	}
}

func TestLoadZone_Invalid(t *testing.T) {
	if _, err := LoadZone("Not/AZone"); !errors.Is(err, ErrInvalidTimezone) {
		t.Fatalf("err = %v, want ErrInvalidTimezone", err)
	}
}
