package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidTimestamp = errors.New("invalid birthdate timestamp")
	ErrInvalidTimezone  = errors.New("invalid timezone")
	ErrRecurrence       = errors.New("recurrence computation failed")
)

// yearScanLimit bounds the year-by-year search for a representable
// occurrence. A Feb 29 birthday around a skipped century leap year
// (e.g. 2100) needs up to eight years to resolve.
const yearScanLimit = 10

// LoadZone resolves an IANA time zone identifier.
func LoadZone(name string) (*time.Location, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, name)
	}
	return loc, nil
}

// NextOccurrence resolves the next occurrence of a birthday relative to
// "today", where today is now converted into loc. The birth month/day is
// placed in the current local year; if that date has already passed, or is
// not representable (Feb 29 outside a leap year), the search advances one
// year at a time until a representable date on or after today is found.
// A Feb 29 birthday is therefore only observed in years where it exists,
// never clamped to Feb 28.
//
// Returns the day count from today to the occurrence (always >= 0) and the
// age being turned on it.
func NextOccurrence(birthdateMillis int64, loc *time.Location, now time.Time) (daysUntil, ageTurning int, err error) {
	bd := time.UnixMilli(birthdateMillis).UTC()
	birthYear, birthMonth, birthDay := bd.Date()
	if birthYear < 1 || birthYear > 9999 {
		return 0, 0, fmt.Errorf("%w: %d", ErrInvalidTimestamp, birthdateMillis)
	}

	localNow := now.In(loc)
	todayYear, todayMonth, todayDay := localNow.Date()
	today := time.Date(todayYear, todayMonth, todayDay, 0, 0, 0, 0, time.UTC)

	for year := todayYear; year < todayYear+yearScanLimit; year++ {
		occurrence, ok := dateInYear(year, birthMonth, birthDay)
		if !ok || occurrence.Before(today) {
			continue
		}
		return int(occurrence.Sub(today) / (24 * time.Hour)), year - birthYear, nil
	}
	return 0, 0, fmt.Errorf("%w: no occurrence of %02d-%02d after %s",
		ErrRecurrence, birthMonth, birthDay, today.Format("2006-01-02"))
}

// dateInYear places month/day in the given year without normalizing, so
// Feb 29 in a non-leap year reports not representable instead of rolling
// over to Mar 1.
func dateInYear(year int, month time.Month, day int) (time.Time, bool) {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if d.Month() != month || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}
