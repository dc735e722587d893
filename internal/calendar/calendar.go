// Package calendar is the single place where instants become calendar days.
// Every other component works with DayKey values and never with raw instants.
package calendar

import (
	"fmt"
	"time"

	"github.com/julianstephens/daystreak/internal/constants"
	apperrors "github.com/julianstephens/daystreak/internal/errors"
)

// DayKey is a timezone-free calendar date in YYYY-MM-DD form. The zero value
// is invalid. DayKeys order lexicographically.
type DayKey string

const (
	// MinDay and MaxDay bound open-ended day ranges
	MinDay DayKey = "0001-01-01"
	MaxDay DayKey = "9999-12-31"
)

// ParseDayKey validates s and returns it as a DayKey.
func ParseDayKey(s string) (DayKey, error) {
	t, err := time.Parse(constants.DateFormat, s)
	if err != nil {
		return "", apperrors.InvalidInput("invalid day %q (expected YYYY-MM-DD)", s)
	}
	return FromTime(t), nil
}

// FromTime returns the calendar date of t in t's own location.
func FromTime(t time.Time) DayKey {
	return DayKey(t.Format(constants.DateFormat))
}

// Valid reports whether d is a well-formed date.
func (d DayKey) Valid() bool {
	_, err := time.Parse(constants.DateFormat, string(d))
	return err == nil
}

// Time returns midnight UTC of the day. Panics are avoided: an invalid key
// yields the zero time.
func (d DayKey) Time() time.Time {
	t, err := time.Parse(constants.DateFormat, string(d))
	if err != nil {
		return time.Time{}
	}
	return t
}

// AddDays returns the day n days after d (n may be negative).
func (d DayKey) AddDays(n int) DayKey {
	return FromTime(d.Time().AddDate(0, 0, n))
}

// AddMonths returns the same day of month n months later, normalized like time.AddDate.
func (d DayKey) AddMonths(n int) DayKey {
	return FromTime(d.Time().AddDate(0, n, 0))
}

// DaysSince returns the number of calendar days from other to d.
func (d DayKey) DaysSince(other DayKey) int {
	// Both sides are UTC midnights, so the difference is an exact multiple of 24h
	return int(d.Time().Sub(other.Time()).Hours() / 24)
}

func (d DayKey) Before(other DayKey) bool { return d < other }
func (d DayKey) After(other DayKey) bool  { return d > other }
func (d DayKey) String() string           { return string(d) }

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidTimezone, timezone)
	}
	return loc, nil
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	_, err := LoadLocation(timezone)
	return err == nil
}

// Normalizer converts instants to day keys. The clock is injectable so that
// "now" is deterministic in tests.
type Normalizer struct {
	now func() time.Time
}

// NewNormalizer returns a Normalizer using now as its clock (time.Now when nil).
func NewNormalizer(now func() time.Time) *Normalizer {
	if now == nil {
		now = time.Now
	}
	return &Normalizer{now: now}
}

// Normalize returns the calendar day of instant in timezone. A nil instant
// means "now".
func (n *Normalizer) Normalize(instant *time.Time, timezone string) (DayKey, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return "", err
	}
	t := n.now()
	if instant != nil {
		t = *instant
	}
	return FromTime(t.In(loc)), nil
}

// Today returns the current day in timezone.
func (n *Normalizer) Today(timezone string) (DayKey, error) {
	return n.Normalize(nil, timezone)
}

// Now returns the normalizer's current instant.
func (n *Normalizer) Now() time.Time {
	return n.now()
}

var defaultNormalizer = NewNormalizer(nil)

// Normalize converts an instant (nil for now) using the wall clock.
func Normalize(instant *time.Time, timezone string) (DayKey, error) {
	return defaultNormalizer.Normalize(instant, timezone)
}

// Today returns the current day in timezone using the wall clock.
func Today(timezone string) (DayKey, error) {
	return defaultNormalizer.Today(timezone)
}
