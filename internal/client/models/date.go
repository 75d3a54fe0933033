package models

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/daybook/internal/common"
)

// DateLayout is the calendar-date form used as the entry key.
const DateLayout = "2006-01-02"

// ISOLayout is how timestamps travel to and from the backend.
const ISOLayout = "2006-01-02T15:04:05.000Z07:00"

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", common.ErrorInvalidDate, s)
	}
	return t, nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Today is the calendar date of now in now's location.
func Today(now time.Time) string {
	return FormatDate(now)
}

// DaysBetween counts whole calendar days from a to b (b after a is positive).
func DaysBetween(a, b time.Time) int {
	da := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	db := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}

// ValidateDate checks the YYYY-MM-DD form.
func ValidateDate(s string) error {
	_, err := ParseDate(s)
	return err
}

// FromMillis converts Unix milliseconds to an ISO-8601 UTC string.
func FromMillis(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(ISOLayout)
}

// ToMillis parses an ISO-8601 timestamp into Unix milliseconds. An empty
// string yields 0.
func ToMillis(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return 0, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t.UnixMilli(), nil
}
