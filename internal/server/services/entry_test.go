package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/daybook/internal/common"
	"github.com/dmitrijs2005/daybook/internal/server/models"
)

func newEntryService() (*EntryService, *fakeRepoManager, *fakeStore) {
	m := newFakeRepoManager()
	st := &fakeStore{}
	s := NewEntryService(nil, m, st, nil)
	s.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return s, m, st
}

func TestEntryService_UpsertAndQuery(t *testing.T) {
	s, _, _ := newEntryService()
	ctx := context.Background()

	mod := time.Date(2024, 4, 30, 20, 0, 0, 0, time.UTC)
	e := &models.Entry{UserID: "u1", Date: "2024-04-30", Storyworthy: "walk", ModifiedAt: mod}
	require.NoError(t, s.Upsert(ctx, e))
	assert.Equal(t, mod, e.ModifiedAt)
	assert.Equal(t, s.now(), e.CreatedAt)
	assert.NotEmpty(t, e.ID)

	e2 := &models.Entry{UserID: "u1", Date: "2024-05-01", Thankful: "tea"}
	require.NoError(t, s.Upsert(ctx, e2))
	assert.Equal(t, s.now(), e2.ModifiedAt)

	all, err := s.Query(ctx, "u1", "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "2024-05-01", all[0].Date)

	newer, err := s.Query(ctx, "u1", models.FormatWatermark(e.UpdatedAt))
	require.NoError(t, err)
	require.Len(t, newer, 1)
	assert.Equal(t, "2024-05-01", newer[0].Date)

	// written after the watermark although edited long before it
	late := &models.Entry{UserID: "u1", Date: "2024-04-01", Storyworthy: "offline", ModifiedAt: mod.Add(-48 * time.Hour)}
	require.NoError(t, s.Upsert(ctx, late))
	newer, err = s.Query(ctx, "u1", models.FormatWatermark(e2.UpdatedAt))
	require.NoError(t, err)
	require.Len(t, newer, 1)
	assert.Equal(t, "2024-04-01", newer[0].Date)

	other, err := s.Query(ctx, "u2", "")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestEntryService_Validation(t *testing.T) {
	s, m, _ := newEntryService()
	ctx := context.Background()

	err := s.Upsert(ctx, &models.Entry{UserID: "u1", Date: "2024-13-01"})
	require.ErrorIs(t, err, common.ErrorInvalidDate)

	_, err = s.Query(ctx, "u1", "yesterday")
	require.ErrorIs(t, err, ErrInvalidArgument)

	m.entries.err = errors.New("db down")
	err = s.Upsert(ctx, &models.Entry{UserID: "u1", Date: "2024-01-01"})
	require.Error(t, err)
}

func TestEntryService_Delete(t *testing.T) {
	s, _, _ := newEntryService()
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, &models.Entry{UserID: "u1", Date: "2024-01-01"}))
	require.NoError(t, s.Delete(ctx, "u1", "2024-01-01"))
	require.ErrorIs(t, s.Delete(ctx, "u1", "2024-01-01"), common.ErrorNotFound)
}

func TestOwnsPath(t *testing.T) {
	tests := []struct {
		user, key string
		want      bool
	}{
		{"u1", "u1/2024-01-01.jpg", true},
		{"u1", "u1/thumbs/2024-01-01.jpg", true},
		{"u1", "u2/2024-01-01.jpg", false},
		{"u1", "u10/2024-01-01.jpg", false},
		{"u1", "u1/", false},
		{"u1", "u1/../u2/x.jpg", false},
		{"u1", "u1//x.jpg", false},
		{"", "/x.jpg", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, OwnsPath(tt.user, tt.key), "%s %s", tt.user, tt.key)
	}
}

func TestEntryService_UploadURLs(t *testing.T) {
	s, _, st := newEntryService()
	ctx := context.Background()

	put, pub, err := s.UploadURLs(ctx, "u1", "u1/2024-01-01.jpg", "")
	require.NoError(t, err)
	assert.Equal(t, "https://s3.test/put/u1/2024-01-01.jpg", put)
	assert.Equal(t, "https://media.test/media/u1/2024-01-01.jpg", pub)
	assert.Equal(t, []string{"u1/2024-01-01.jpg|image/jpeg"}, st.presigned)

	_, _, err = s.UploadURLs(ctx, "u1", "u2/2024-01-01.jpg", "image/jpeg")
	require.ErrorIs(t, err, common.ErrorForbidden)

	_, _, err = s.UploadURLs(ctx, "u1", "u1/a.txt", "text/plain")
	require.ErrorIs(t, err, ErrInvalidArgument)

	st.err = errors.New("s3 down")
	_, _, err = s.UploadURLs(ctx, "u1", "u1/a.jpg", "image/jpeg")
	require.Error(t, err)
}

func TestEntryService_DeleteBlobs(t *testing.T) {
	s, _, st := newEntryService()
	ctx := context.Background()

	n, err := s.DeleteBlobs(ctx, "u1", []string{"u1/a.jpg", "u1/thumbs/a.jpg"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = s.DeleteBlobs(ctx, "u1", []string{"u1/b.jpg", "u2/a.jpg"})
	require.ErrorIs(t, err, common.ErrorForbidden)
	assert.Len(t, st.deleted, 2)

	st.err = errors.New("s3 down")
	_, err = s.DeleteBlobs(ctx, "u1", []string{"u1/c.jpg"})
	require.Error(t, err)
}
