package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dmitrijs2005/daybook/internal/client/models"
	"github.com/dustin/go-humanize"
)

const previewWidth = 60

func syncState(e *models.Entry) string {
	switch {
	case e.PendingSync:
		return "pending"
	case e.CloudID != "":
		return "synced"
	default:
		return "local"
	}
}

func preview(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= previewWidth {
		return s
	}
	return string(r[:previewWidth-3]) + "..."
}

func entryLine(e *models.Entry) string {
	text := e.Storyworthy
	if strings.TrimSpace(text) == "" {
		text = e.Thankful
	}
	photo := "     "
	if e.HasPhoto() {
		photo = "photo"
	}
	return fmt.Sprintf("%s  %s  %-7s  %s", e.Date, photo, syncState(e), preview(text))
}

// printDataURLs writes the locally stored images in a form a browser opens
// directly.
func printDataURLs(w io.Writer, e *models.Entry) {
	if u := e.ThumbnailDataURL(); u != "" {
		fmt.Fprintf(w, "Thumbnail:   %s\n", u)
	}
	if u := e.PhotoDataURL(); u != "" {
		fmt.Fprintf(w, "Photo data:  %s\n", u)
	}
}

func printEntry(w io.Writer, e *models.Entry, now time.Time) {
	fmt.Fprintf(w, "Date:        %s\n", e.Date)
	fmt.Fprintf(w, "Storyworthy: %s\n", e.Storyworthy)
	fmt.Fprintf(w, "Thankful:    %s\n", e.Thankful)

	switch {
	case len(e.Photo) > 0:
		fmt.Fprintf(w, "Photo:       %s (thumbnail %s)\n",
			humanize.Bytes(uint64(len(e.Photo))), humanize.Bytes(uint64(len(e.Thumbnail))))
	case e.PhotoURL != "":
		fmt.Fprintf(w, "Photo:       %s\n", e.PhotoURL)
	}

	fmt.Fprintf(w, "Written:     %s\n", humanize.RelTime(time.UnixMilli(e.CreatedAt), now, "ago", "from now"))
	if e.ModifiedAt != 0 {
		fmt.Fprintf(w, "Edited:      %s\n", humanize.RelTime(time.UnixMilli(e.ModifiedAt), now, "ago", "from now"))
	}

	state := syncState(e)
	if e.SyncedAt != 0 {
		state += ", last synced " + humanize.RelTime(time.UnixMilli(e.SyncedAt), now, "ago", "from now")
	}
	fmt.Fprintf(w, "Sync:        %s\n", state)
}
