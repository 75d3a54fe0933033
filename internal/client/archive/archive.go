// Package archive exports the journal to a portable file and imports it
// back. Two formats exist: a plain JSON document carrying text only, and a
// zip bundle holding the same document plus the photos as
// photos/{date}.jpg and photos/{date}_thumb.jpg.
package archive

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/dmitrijs2005/daybook/internal/client/models"
	"github.com/dmitrijs2005/daybook/internal/common"
)

const (
	FormatVersion = "1.0"

	documentName = "entries.json"
	photoDir     = "photos"
	thumbSuffix  = "_thumb"

	// maxMemberSize caps one decompressed zip member.
	maxMemberSize = 64 << 20
)

var ErrInvalidArchive = errors.New("invalid archive")

type Metadata struct {
	Version    string `json:"version"`
	ExportDate string `json:"exportDate"`
	EntryCount int    `json:"entryCount"`
	AppName    string `json:"appName"`
}

// Record is an entry without media or sync state.
type Record struct {
	Date        string `json:"date"`
	Storyworthy string `json:"storyworthy"`
	Thankful    string `json:"thankful"`
	CreatedAt   string `json:"createdAt"`
	ModifiedAt  string `json:"modifiedAt,omitempty"`
}

type Document struct {
	Metadata Metadata `json:"metadata"`
	Entries  []Record `json:"entries"`
}

// NewDocument builds the export document for entries.
func NewDocument(entries []models.Entry, now time.Time) Document {
	recs := make([]Record, 0, len(entries))
	for _, e := range entries {
		r := Record{
			Date:        e.Date,
			Storyworthy: e.Storyworthy,
			Thankful:    e.Thankful,
			CreatedAt:   models.FromMillis(e.CreatedAt),
		}
		if e.ModifiedAt != 0 {
			r.ModifiedAt = models.FromMillis(e.ModifiedAt)
		}
		recs = append(recs, r)
	}

	return Document{
		Metadata: Metadata{
			Version:    FormatVersion,
			ExportDate: models.FromMillis(now.UnixMilli()),
			EntryCount: len(recs),
			AppName:    common.AppName,
		},
		Entries: recs,
	}
}

// ToEntries converts the records back, validating dates and timestamps.
func (d *Document) ToEntries() ([]models.Entry, error) {
	out := make([]models.Entry, 0, len(d.Entries))
	for i, r := range d.Entries {
		if err := models.ValidateDate(r.Date); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %w", ErrInvalidArchive, i, err)
		}
		created, err := models.ToMillis(r.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %w", ErrInvalidArchive, i, err)
		}
		modified, err := models.ToMillis(r.ModifiedAt)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %w", ErrInvalidArchive, i, err)
		}
		out = append(out, models.Entry{
			Date:        r.Date,
			Storyworthy: r.Storyworthy,
			Thankful:    r.Thankful,
			CreatedAt:   created,
			ModifiedAt:  modified,
		})
	}
	return out, nil
}

func WriteJSON(w io.Writer, entries []models.Entry, now time.Time) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewDocument(entries, now))
}

func ReadJSON(r io.Reader) ([]models.Entry, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArchive, err)
	}
	return doc.ToEntries()
}

func photoName(date string) string { return path.Join(photoDir, date+".jpg") }
func thumbName(date string) string { return path.Join(photoDir, date+thumbSuffix+".jpg") }

// WriteZip writes the document and every embedded photo and thumbnail.
func WriteZip(w io.Writer, entries []models.Entry, now time.Time) error {
	zw := zip.NewWriter(w)

	doc, err := zw.Create(documentName)
	if err != nil {
		return err
	}
	if err := WriteJSON(doc, entries, now); err != nil {
		return err
	}

	for _, e := range entries {
		if err := writeMember(zw, photoName(e.Date), e.Photo); err != nil {
			return err
		}
		if err := writeMember(zw, thumbName(e.Date), e.Thumbnail); err != nil {
			return err
		}
	}
	return zw.Close()
}

func writeMember(zw *zip.Writer, name string, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	// JPEG does not deflate usefully
	f, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Store})
	if err != nil {
		return err
	}
	_, err = f.Write(data)
	return err
}

// ReadZip reads a bundle written by WriteZip. Images whose date has no
// record are ignored.
func ReadZip(r io.ReaderAt, size int64) ([]models.Entry, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArchive, err)
	}

	var (
		entries []models.Entry
		found   bool
		images  = map[string][]byte{}
	)
	for _, f := range zr.File {
		data, err := readMember(f)
		if err != nil {
			return nil, err
		}

		switch {
		case f.Name == documentName:
			entries, err = ReadJSON(bytes.NewReader(data))
			if err != nil {
				return nil, err
			}
			found = true
		case strings.HasPrefix(f.Name, photoDir+"/") && strings.HasSuffix(f.Name, ".jpg"):
			images[f.Name] = data
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: %s missing", ErrInvalidArchive, documentName)
	}

	for i := range entries {
		entries[i].Photo = images[photoName(entries[i].Date)]
		entries[i].Thumbnail = images[thumbName(entries[i].Date)]
	}
	return entries, nil
}

func readMember(f *zip.File) ([]byte, error) {
	if f.UncompressedSize64 > maxMemberSize {
		return nil, fmt.Errorf("%w: %s too large", ErrInvalidArchive, f.Name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArchive, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxMemberSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArchive, err)
	}
	if len(data) > maxMemberSize {
		return nil, fmt.Errorf("%w: %s too large", ErrInvalidArchive, f.Name)
	}
	return data, nil
}
