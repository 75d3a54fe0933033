package archive

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/daybook/internal/client/models"
	"github.com/dmitrijs2005/daybook/internal/client/repositories/entries"
	"github.com/dmitrijs2005/daybook/internal/common"
)

type ImportResult struct {
	Added   int
	Updated int
	Skipped int
}

// Import merges incoming entries into repo. A date already present is
// overwritten only when the incoming entry changed later than the stored
// one; its sync state is kept and, like every imported row, it is flagged
// pending when markPending is set. Stored photos survive an incoming entry
// without one.
func Import(ctx context.Context, repo entries.Repository, incoming []models.Entry, markPending bool) (ImportResult, error) {
	var res ImportResult

	for i := range incoming {
		in := incoming[i]

		cur, err := repo.Get(ctx, in.Date)
		if errors.Is(err, common.ErrorNotFound) {
			in.CloudID, in.PhotoURL, in.ThumbnailURL, in.SyncedAt = "", "", "", 0
			in.PendingSync = markPending
			if err := repo.Put(ctx, &in); err != nil {
				return res, err
			}
			res.Added++
			continue
		}
		if err != nil {
			return res, err
		}

		if in.LastChange() <= cur.LastChange() {
			res.Skipped++
			continue
		}

		cur.Storyworthy = in.Storyworthy
		cur.Thankful = in.Thankful
		cur.CreatedAt = in.CreatedAt
		cur.ModifiedAt = in.LastChange()
		if len(in.Photo) > 0 {
			cur.Photo, cur.PhotoURL = in.Photo, ""
		}
		if len(in.Thumbnail) > 0 {
			cur.Thumbnail, cur.ThumbnailURL = in.Thumbnail, ""
		}
		if markPending || cur.CloudID != "" {
			cur.PendingSync = true
		}
		if err := repo.Put(ctx, cur); err != nil {
			return res, err
		}
		res.Updated++
	}
	return res, nil
}
