package models

import (
	"fmt"
	"time"
)

// TimeLayout is how entry timestamps cross the wire: ISO-8601 in UTC with
// millisecond precision.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Entry is one journal row owned by UserID; (UserID, Date) is unique.
// ModifiedAt is the author's edit time and decides last-write-wins.
// UpdatedAt is assigned by the database on every write and orders pulls.
type Entry struct {
	ID           string
	UserID       string
	Date         string
	Storyworthy  string
	Thankful     string
	PhotoURL     string
	ThumbnailURL string
	CreatedAt    time.Time
	ModifiedAt   time.Time
	UpdatedAt    time.Time
}

// WatermarkLayout keeps the microseconds Postgres stores, so a watermark
// never sorts before the row it was taken from.
const WatermarkLayout = "2006-01-02T15:04:05.000000Z07:00"

func FormatWatermark(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(WatermarkLayout)
}

func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(TimeLayout)
}

// ParseTime accepts any RFC 3339 timestamp; "" yields the zero time.
func ParseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}
