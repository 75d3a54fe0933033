package entries

import (
	"context"
	"time"

	"github.com/dmitrijs2005/daybook/internal/server/models"
)

type Repository interface {
	// Upsert inserts or replaces the (UserID, Date) row and fills e.ID,
	// e.ModifiedAt and e.UpdatedAt from the stored row. The id of an
	// existing row never changes; UpdatedAt always moves to the write time.
	Upsert(ctx context.Context, e *models.Entry) error
	// Query returns the user's rows, most recently written first. A non-zero
	// updatedAfter keeps only rows written strictly after it.
	Query(ctx context.Context, userID string, updatedAfter time.Time) ([]*models.Entry, error)
	// Delete returns common.ErrorNotFound when no row matched.
	Delete(ctx context.Context, userID, date string) error
}
