// Package metadata is a small key/value table in the local database. It
// holds the sync watermark and the signed-in session.
package metadata

import (
	"context"
)

const (
	// KeyPullWatermark is the backend write time of the newest pulled row,
	// as the backend formatted it.
	KeyPullWatermark = "pull_watermark"
	KeyAccessToken   = "access_token"
	KeyRefreshToken  = "refresh_token"
	KeyUsername      = "username"
	KeyUserID        = "user_id"
	// KeySyncedUserID is the account the local rows were last synced to. It
	// outlives sign-out.
	KeySyncedUserID = "synced_user_id"
)

// SessionKeys are removed on sign-out.
var SessionKeys = []string{KeyAccessToken, KeyRefreshToken, KeyUsername, KeyUserID}

// Repository stores opaque values by key. Get returns (nil, nil) for a
// missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes the given keys; absent keys are ignored.
	Delete(ctx context.Context, keys ...string) error
}
