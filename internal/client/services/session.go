package services

import (
	"context"

	"github.com/dmitrijs2005/daybook/internal/client/repositories/metadata"
)

func signedIn(ctx context.Context, meta metadata.Repository) (bool, error) {
	token, err := metadata.GetString(ctx, meta, metadata.KeyAccessToken)
	if err != nil {
		return false, err
	}
	return token != "", nil
}
