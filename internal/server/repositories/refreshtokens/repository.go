package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/daybook/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	// Find returns common.ErrorNotFound for an unknown token.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)
	// Delete consumes a token; common.ErrorNotFound means it was already gone.
	Delete(ctx context.Context, token string) error
	// DeleteExpired drops the user's tokens that expired before now.
	DeleteExpired(ctx context.Context, userID string, now time.Time) (int64, error)
}
