// Package dates converts calendar days to and from canonical YYYY-MM-DD keys
// and does whole-day arithmetic over local midnights.
package dates

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// Layout is the canonical key format.
const Layout = "2006-01-02"

// ErrInvalidDate is returned when a key is not a real YYYY-MM-DD date.
var ErrInvalidDate = errors.New("invalid date")

var keyPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Clock returns the current time. Commands use time.Now; tests pin it.
type Clock func() time.Time

// Format returns the key for the calendar day of t in t's own location.
// It never converts to UTC first.
func Format(t time.Time) string {
	y, m, d := t.Date()
	return fmt.Sprintf("%04d-%02d-%02d", y, int(m), d)
}

// Parse validates s and returns local midnight of that day.
func Parse(s string) (time.Time, error) {
	if !keyPattern.MatchString(s) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	t, err := time.ParseInLocation(Layout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// Valid reports whether s would parse.
func Valid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// Midnight returns 00:00 of t's calendar day in t's location.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Today returns local midnight of the clock's current day.
func Today(clock Clock) time.Time {
	if clock == nil {
		clock = time.Now
	}
	return Midnight(clock())
}

// DaysBetween returns whole calendar days from a to b, floored at 0.
// Days are counted on calendar fields so a DST shift never loses a day.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	from := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	to := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	n := int(to.Sub(from).Hours() / 24)
	if n < 0 {
		return 0
	}
	return n
}

// AddDays returns midnight of the day n days after t.
func AddDays(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+n, 0, 0, 0, 0, t.Location())
}

// DaysInMonth returns the number of days of month in year.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthBounds returns midnight of the first and last day of t's month.
func MonthBounds(t time.Time) (first, last time.Time) {
	y, m, _ := t.Date()
	first = time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
	last = time.Date(y, m, DaysInMonth(y, m), 0, 0, 0, 0, t.Location())
	return first, last
}
