package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/daybook/internal/client/client"
	"github.com/dmitrijs2005/daybook/internal/client/media"
	"github.com/dmitrijs2005/daybook/internal/client/models"
	"github.com/dmitrijs2005/daybook/internal/client/repositories/drafts"
	"github.com/dmitrijs2005/daybook/internal/client/repositories/entries"
	"github.com/dmitrijs2005/daybook/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/daybook/internal/client/syncer"
	"github.com/dmitrijs2005/daybook/internal/common"
	"github.com/dmitrijs2005/daybook/internal/logging"
)

var (
	ErrEntryExists = errors.New("an entry already exists for this date")
	// ErrPhotoSkipped accompanies a saved entry whose photo could not be
	// processed. The text was stored; the photo was not.
	ErrPhotoSkipped = errors.New("failed to process image, entry saved without photo")
)

// EntryInput is what the user submits for a date. Photo is optional; on
// update a nil Photo keeps the existing one unless RemovePhoto is set.
type EntryInput struct {
	Date        string
	Storyworthy string
	Thankful    string
	Photo       *media.Input
	RemovePhoto bool
}

// ImageProcessor is satisfied by *media.Pipeline.
type ImageProcessor interface {
	CompressAndCreateThumbnail(ctx context.Context, in media.Input) (*media.Result, error)
}

// EntryService is the local journal. Every mutation is committed to the
// local store first; when a session exists the row is flagged pending and a
// background sync is kicked. Remote failures never fail a mutation.
type EntryService interface {
	// Add creates the entry for in.Date and fails with ErrEntryExists when
	// the date is taken. A photo failure returns the saved entry together
	// with an error wrapping ErrPhotoSkipped.
	Add(ctx context.Context, in EntryInput) (*models.Entry, error)
	// Update rewrites the entry for in.Date, keeping its creation time.
	Update(ctx context.Context, in EntryInput) (*models.Entry, error)
	Get(ctx context.Context, date string) (*models.Entry, error)
	// List returns complete entries, newest first.
	List(ctx context.Context) ([]models.Entry, error)
	ListAll(ctx context.Context) ([]models.Entry, error)
	Delete(ctx context.Context, date string) error

	SaveDraft(ctx context.Context, d models.Draft) error
	GetDraft(ctx context.Context, date string) (*models.Draft, error)
	DeleteDraft(ctx context.Context, date string) error
	ListDrafts(ctx context.Context) ([]models.Draft, error)

	Usage(ctx context.Context) (models.Usage, error)
}

type entryService struct {
	entries entries.Repository
	drafts  drafts.Repository
	meta    metadata.Repository
	images  ImageProcessor

	remote      client.Client
	kicker      Kicker
	log         logging.Logger
	now         func() time.Time
	callTimeout time.Duration
}

type EntryOption func(*entryService)

// WithRemote enables best-effort remote deletion.
func WithRemote(c client.Client) EntryOption {
	return func(s *entryService) { s.remote = c }
}

func WithKicker(k Kicker) EntryOption {
	return func(s *entryService) { s.kicker = k }
}

func WithLogger(l logging.Logger) EntryOption {
	return func(s *entryService) { s.log = l }
}

func WithClock(now func() time.Time) EntryOption {
	return func(s *entryService) { s.now = now }
}

func NewEntryService(entryRepo entries.Repository, draftRepo drafts.Repository, metaRepo metadata.Repository,
	images ImageProcessor, opts ...EntryOption) EntryService {

	s := &entryService{
		entries:     entryRepo,
		drafts:      draftRepo,
		meta:        metaRepo,
		images:      images,
		log:         logging.Nop{},
		now:         time.Now,
		callTimeout: syncer.DefaultCallTimeout,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// processPhoto runs the media pipeline. A failure is reported as an
// ErrPhotoSkipped error and never aborts the save.
func (s *entryService) processPhoto(ctx context.Context, in *media.Input) (*media.Result, error) {
	if in == nil || s.images == nil {
		return nil, nil
	}
	res, err := s.images.CompressAndCreateThumbnail(ctx, *in)
	if err != nil {
		s.log.Warn(ctx, "photo processing failed", "name", in.Name, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrPhotoSkipped, err)
	}
	return res, nil
}

func (s *entryService) Add(ctx context.Context, in EntryInput) (*models.Entry, error) {
	if err := models.ValidateDate(in.Date); err != nil {
		return nil, err
	}

	_, err := s.entries.Get(ctx, in.Date)
	if err == nil {
		return nil, fmt.Errorf("%w: %s", ErrEntryExists, in.Date)
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	e := &models.Entry{
		Date:        in.Date,
		Storyworthy: in.Storyworthy,
		Thankful:    in.Thankful,
		CreatedAt:   s.now().UnixMilli(),
	}

	photo, photoErr := s.processPhoto(ctx, in.Photo)
	if photo != nil {
		e.Photo, e.Thumbnail = photo.Photo, photo.Thumbnail
	}

	return s.save(ctx, e, photoErr)
}

func (s *entryService) Update(ctx context.Context, in EntryInput) (*models.Entry, error) {
	e, err := s.entries.Get(ctx, in.Date)
	if err != nil {
		return nil, err
	}

	e.Storyworthy = in.Storyworthy
	e.Thankful = in.Thankful
	e.ModifiedAt = s.now().UnixMilli()

	var dropped *models.Entry
	if in.RemovePhoto && (e.PhotoURL != "" || e.ThumbnailURL != "") {
		before := *e
		dropped = &before
		e.Photo, e.Thumbnail = nil, nil
		e.PhotoURL, e.ThumbnailURL = "", ""
	}

	photo, photoErr := s.processPhoto(ctx, in.Photo)
	if photo != nil {
		e.Photo, e.Thumbnail = photo.Photo, photo.Thumbnail
		// new bytes must be uploaded again
		e.PhotoURL, e.ThumbnailURL = "", ""
	}

	// rows already in the cloud stay pending until a signed-in sync
	if e.CloudID != "" {
		e.PendingSync = true
	}
	saved, err := s.save(ctx, e, photoErr)
	if saved != nil && dropped != nil {
		s.deleteRemoteBlobs(ctx, dropped)
	}
	return saved, err
}

func (s *entryService) save(ctx context.Context, e *models.Entry, photoErr error) (*models.Entry, error) {
	signed, err := signedIn(ctx, s.meta)
	if err != nil {
		return nil, err
	}
	if signed {
		e.PendingSync = true
	}

	if err := s.entries.Put(ctx, e); err != nil {
		return nil, err
	}

	if err := s.drafts.Delete(ctx, e.Date); err != nil {
		s.log.Warn(ctx, "failed to drop draft", "date", e.Date, "error", err)
	}

	if signed && s.kicker != nil {
		s.kicker.Kick()
	}
	return e, photoErr
}

func (s *entryService) Get(ctx context.Context, date string) (*models.Entry, error) {
	return s.entries.Get(ctx, date)
}

func (s *entryService) List(ctx context.Context) ([]models.Entry, error) {
	all, err := s.entries.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, e := range all {
		if e.IsComplete() {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *entryService) ListAll(ctx context.Context) ([]models.Entry, error) {
	return s.entries.GetAll(ctx)
}

// Delete removes the local row, then tries to remove the remote row and its
// blobs when signed in. Remote failures are logged only.
func (s *entryService) Delete(ctx context.Context, date string) error {
	e, err := s.entries.Get(ctx, date)
	if err != nil {
		return err
	}
	if err := s.entries.Delete(ctx, date); err != nil {
		return err
	}
	if err := s.drafts.Delete(ctx, date); err != nil {
		s.log.Warn(ctx, "failed to drop draft", "date", date, "error", err)
	}

	s.deleteRemote(ctx, e)
	return nil
}

// remoteUser returns the signed-in user id, or "" when remote calls must
// be skipped.
func (s *entryService) remoteUser(ctx context.Context) string {
	if s.remote == nil {
		return ""
	}
	signed, err := signedIn(ctx, s.meta)
	if err != nil || !signed {
		return ""
	}
	userID, err := metadata.GetString(ctx, s.meta, metadata.KeyUserID)
	if err != nil {
		return ""
	}
	return userID
}

func (s *entryService) deleteRemote(ctx context.Context, e *models.Entry) {
	if e.CloudID == "" {
		return
	}
	userID := s.remoteUser(ctx)
	if userID == "" {
		return
	}

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	if err := s.remote.DeleteEntry(callCtx, userID, e.Date); err != nil {
		s.log.Warn(ctx, "remote delete failed", "date", e.Date, "error", err)
	}
	s.deleteBlobs(callCtx, userID, e)
}

// deleteRemoteBlobs removes the uploaded photo and thumbnail of e from the
// backend, logging failures only.
func (s *entryService) deleteRemoteBlobs(ctx context.Context, e *models.Entry) {
	userID := s.remoteUser(ctx)
	if userID == "" {
		return
	}
	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()
	s.deleteBlobs(callCtx, userID, e)
}

func (s *entryService) deleteBlobs(ctx context.Context, userID string, e *models.Entry) {
	var paths []string
	if e.PhotoURL != "" {
		paths = append(paths, syncer.PhotoPath(userID, e.Date))
	}
	if e.ThumbnailURL != "" {
		paths = append(paths, syncer.ThumbnailPath(userID, e.Date))
	}
	if len(paths) == 0 {
		return
	}
	if err := s.remote.DeleteBlobs(ctx, paths); err != nil {
		s.log.Warn(ctx, "remote blob delete failed", "date", e.Date, "error", err)
	}
}

func (s *entryService) SaveDraft(ctx context.Context, d models.Draft) error {
	if err := models.ValidateDate(d.Date); err != nil {
		return err
	}
	d.UpdatedAt = s.now().UnixMilli()
	return s.drafts.Put(ctx, &d)
}

func (s *entryService) GetDraft(ctx context.Context, date string) (*models.Draft, error) {
	return s.drafts.Get(ctx, date)
}

func (s *entryService) DeleteDraft(ctx context.Context, date string) error {
	return s.drafts.Delete(ctx, date)
}

func (s *entryService) ListDrafts(ctx context.Context) ([]models.Draft, error) {
	return s.drafts.GetAll(ctx)
}

func (s *entryService) Usage(ctx context.Context) (models.Usage, error) {
	return s.entries.Usage(ctx)
}
