// Package models defines the journal records the client keeps locally and
// the shape of a record as the backend returns it.
package models

import (
	"encoding/base64"
	"strings"
)

// Entry is one dated journal record. There is at most one Entry per Date.
// Timestamps are Unix milliseconds; zero means absent.
type Entry struct {
	Date        string
	Storyworthy string
	Thankful    string

	// Photo and Thumbnail hold JPEG bytes produced by the media pipeline.
	Photo     []byte
	Thumbnail []byte

	CreatedAt  int64
	ModifiedAt int64

	CloudID      string
	PhotoURL     string
	ThumbnailURL string
	SyncedAt     int64
	PendingSync  bool
}

// IsComplete reports whether at least one of the text fields has content.
func (e *Entry) IsComplete() bool {
	return strings.TrimSpace(e.Storyworthy) != "" || strings.TrimSpace(e.Thankful) != ""
}

func (e *Entry) HasPhoto() bool {
	return len(e.Photo) > 0 || e.PhotoURL != ""
}

// LastChange is ModifiedAt, or CreatedAt when the entry was never edited.
func (e *Entry) LastChange() int64 {
	if e.ModifiedAt != 0 {
		return e.ModifiedAt
	}
	return e.CreatedAt
}

// PhotoDataURL renders the photo as a data: URL, or "" without one.
func (e *Entry) PhotoDataURL() string {
	return DataURL(e.Photo)
}

func (e *Entry) ThumbnailDataURL() string {
	return DataURL(e.Thumbnail)
}

// DataURL encodes JPEG bytes as a base64 data URL.
func DataURL(jpeg []byte) string {
	if len(jpeg) == 0 {
		return ""
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(jpeg)
}

// Draft is unsaved work for a date.
type Draft struct {
	Date        string
	Storyworthy string
	Thankful    string
	Photo       []byte
	Thumbnail   []byte
	UpdatedAt   int64
}

// CloudEntry is an entry as held by the backend. Timestamps are ISO-8601.
// UpdatedAt is the backend's own write time, unrelated to ModifiedAt.
type CloudEntry struct {
	CloudID      string
	UserID       string
	Date         string
	Storyworthy  string
	Thankful     string
	PhotoURL     string
	ThumbnailURL string
	CreatedAt    string
	ModifiedAt   string
	UpdatedAt    string
}

// Usage reports local storage consumption in bytes. QuotaBytes is 0 when
// no quota is configured.
type Usage struct {
	UsedBytes  int64
	QuotaBytes int64
}

func (u Usage) Percent() float64 {
	if u.QuotaBytes <= 0 {
		return 0
	}
	return float64(u.UsedBytes) * 100 / float64(u.QuotaBytes)
}
