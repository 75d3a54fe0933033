package services

import (
	"context"
	"database/sql"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/dmitrijs2005/daybook/internal/common"
	"github.com/dmitrijs2005/daybook/internal/logging"
	"github.com/dmitrijs2005/daybook/internal/server/blob"
	"github.com/dmitrijs2005/daybook/internal/server/models"
	"github.com/dmitrijs2005/daybook/internal/server/repositories/repomanager"
)

const dateLayout = "2006-01-02"

type EntryService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	blobs       blob.Store
	log         logging.Logger
	now         func() time.Time
}

func NewEntryService(db *sql.DB, m repomanager.RepositoryManager, blobs blob.Store, log logging.Logger) *EntryService {
	if log == nil {
		log = logging.Nop{}
	}
	return &EntryService{db: db, repomanager: m, blobs: blobs, log: log, now: time.Now}
}

// Query returns the user's entries; updatedAfter, when not empty, is an
// RFC 3339 watermark compared with the server write time.
func (s *EntryService) Query(ctx context.Context, userID, updatedAfter string) ([]*models.Entry, error) {
	after, err := models.ParseTime(updatedAfter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return s.repomanager.Entries(s.db).Query(ctx, userID, after)
}

// Upsert stores e as the user's row for e.Date. Missing timestamps default
// to now; the client's modifiedAt is kept otherwise, since last-write-wins
// is decided by the clients.
func (s *EntryService) Upsert(ctx context.Context, e *models.Entry) error {
	if _, err := time.Parse(dateLayout, e.Date); err != nil {
		return fmt.Errorf("%w: %q", common.ErrorInvalidDate, e.Date)
	}
	now := s.now().UTC()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	if e.ModifiedAt.IsZero() {
		e.ModifiedAt = now
	}
	return s.repomanager.Entries(s.db).Upsert(ctx, e)
}

func (s *EntryService) Delete(ctx context.Context, userID, date string) error {
	return s.repomanager.Entries(s.db).Delete(ctx, userID, date)
}

// OwnsPath reports whether key lies in userID's folder.
func OwnsPath(userID, key string) bool {
	if userID == "" || !strings.HasPrefix(key, userID+"/") {
		return false
	}
	rest := key[len(userID)+1:]
	return rest != "" && path.Clean(key) == key && !strings.Contains(key, "..")
}

// UploadURLs presigns a PUT of key for the user and returns it with the
// public URL the object will have.
func (s *EntryService) UploadURLs(ctx context.Context, userID, key, contentType string) (string, string, error) {
	if !OwnsPath(userID, key) {
		return "", "", common.ErrorForbidden
	}
	if contentType == "" {
		contentType = "image/jpeg"
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", "", fmt.Errorf("%w: content type %q", ErrInvalidArgument, contentType)
	}

	put, err := s.blobs.PresignPut(ctx, key, contentType)
	if err != nil {
		return "", "", err
	}
	return put, s.blobs.PublicURL(key), nil
}

// DeleteBlobs removes the user's objects. Any foreign key rejects the whole
// request.
func (s *EntryService) DeleteBlobs(ctx context.Context, userID string, keys []string) (int, error) {
	for _, k := range keys {
		if !OwnsPath(userID, k) {
			return 0, common.ErrorForbidden
		}
	}
	n, err := s.blobs.Delete(ctx, keys)
	if err != nil {
		s.log.Warn(ctx, "blob delete failed", "user_id", userID, "count", len(keys), "error", err)
		return 0, err
	}
	return n, nil
}
