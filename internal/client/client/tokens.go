package client

import (
	"context"

	"github.com/dmitrijs2005/daybook/internal/client/repositories/metadata"
)

// MetadataTokenStore keeps tokens in the local metadata table.
type MetadataTokenStore struct {
	repo metadata.Repository
}

func NewMetadataTokenStore(repo metadata.Repository) *MetadataTokenStore {
	return &MetadataTokenStore{repo: repo}
}

func (s *MetadataTokenStore) LoadTokens(ctx context.Context) (string, string, error) {
	access, err := metadata.GetString(ctx, s.repo, metadata.KeyAccessToken)
	if err != nil {
		return "", "", err
	}
	refresh, err := metadata.GetString(ctx, s.repo, metadata.KeyRefreshToken)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (s *MetadataTokenStore) SaveTokens(ctx context.Context, access, refresh string) error {
	if err := s.repo.Set(ctx, metadata.KeyAccessToken, []byte(access)); err != nil {
		return err
	}
	return s.repo.Set(ctx, metadata.KeyRefreshToken, []byte(refresh))
}
