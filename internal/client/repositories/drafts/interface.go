package drafts

import (
	"context"

	"github.com/dmitrijs2005/daybook/internal/client/models"
)

type Repository interface {
	// Get returns the draft for date or common.ErrorNotFound.
	Get(ctx context.Context, date string) (*models.Draft, error)
	Put(ctx context.Context, d *models.Draft) error
	Delete(ctx context.Context, date string) error
	GetAll(ctx context.Context) ([]models.Draft, error)
}
