package client

import (
	"context"

	"github.com/dmitrijs2005/daybook/internal/client/models"
)

// Session is what a successful sign-in yields.
type Session struct {
	UserID       string
	AccessToken  string
	RefreshToken string
}

// Client is the remote entry and media API.
type Client interface {
	Close() error

	Register(ctx context.Context, username string, salt []byte, verifier []byte) error
	GetSalt(ctx context.Context, username string) ([]byte, error)
	Login(ctx context.Context, username string, verifier []byte) (*Session, error)
	// Logout forgets the in-memory and stored session tokens.
	Logout(ctx context.Context) error
	Ping(ctx context.Context) error

	// CurrentUser resolves the signed-in user id, ErrNotSignedIn without a session.
	CurrentUser(ctx context.Context) (string, error)

	// QueryEntries returns the user's rows the server wrote after the
	// watermark since, together with the watermark for the next call. An
	// empty since returns everything.
	QueryEntries(ctx context.Context, userID string, since string) ([]models.CloudEntry, string, error)
	// UpsertEntry inserts or overwrites the (user, date) row and returns the
	// stable cloud id and the stored modification time.
	UpsertEntry(ctx context.Context, e models.CloudEntry) (cloudID string, modifiedAt string, err error)
	DeleteEntry(ctx context.Context, userID, date string) error

	// UploadBlob stores a JPEG under path and returns its public URL.
	UploadBlob(ctx context.Context, path string, data []byte) (string, error)
	DeleteBlobs(ctx context.Context, paths []string) error
}

// TokenStore persists the session tokens between runs.
type TokenStore interface {
	LoadTokens(ctx context.Context) (access, refresh string, err error)
	SaveTokens(ctx context.Context, access, refresh string) error
}
