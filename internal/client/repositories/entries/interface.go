package entries

import (
	"context"

	"github.com/dmitrijs2005/daybook/internal/client/models"
)

// Repository is the local entry store.
type Repository interface {
	// Get returns the entry for date or common.ErrorNotFound.
	Get(ctx context.Context, date string) (*models.Entry, error)

	// Put inserts or replaces the entry keyed by its date.
	Put(ctx context.Context, entry *models.Entry) error

	// GetAll returns every entry, newest date first.
	GetAll(ctx context.Context) ([]models.Entry, error)

	// Delete removes the entry for date. Deleting a missing date is not an error.
	Delete(ctx context.Context, date string) error

	// GetPendingOrUnsynced returns entries flagged pending or never pushed
	// (no cloud id), newest date first.
	GetPendingOrUnsynced(ctx context.Context) ([]models.Entry, error)

	// ResetSync forgets which account the rows were synced to: cloud ids and
	// sync times are cleared and every row becomes pending. Photo URLs are
	// dropped where the bytes are held locally, so they are uploaded again.
	ResetSync(ctx context.Context) error

	// Dates returns every stored date, newest first.
	Dates(ctx context.Context) ([]string, error)

	Usage(ctx context.Context) (models.Usage, error)
}
