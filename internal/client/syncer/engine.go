package syncer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/daybook/internal/client/client"
	"github.com/dmitrijs2005/daybook/internal/client/models"
	"github.com/dmitrijs2005/daybook/internal/client/repositories/entries"
	"github.com/dmitrijs2005/daybook/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/daybook/internal/common"
	"github.com/dmitrijs2005/daybook/internal/logging"
	"github.com/dmitrijs2005/daybook/internal/netx"
)

// DefaultCallTimeout bounds every remote call made during a cycle.
const DefaultCallTimeout = 30 * time.Second

type Phase string

const (
	PhasePulling Phase = "pulling"
	PhasePushing Phase = "pushing"
)

// Progress is reported after each entry of a phase is handled.
type Progress struct {
	Phase   Phase
	Current int
	Total   int
}

// Result counts what one cycle did.
type Result struct {
	Pushed int
	Pulled int
	Errors int
}

type Engine struct {
	entries     entries.Repository
	meta        metadata.Repository
	remote      client.Client
	log         logging.Logger
	now         func() time.Time
	callTimeout time.Duration
	httpClient  *http.Client

	running atomic.Bool
}

type Option func(*Engine)

func WithLogger(l logging.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithHTTPClient sets the client used to download pulled photos.
func WithHTTPClient(hc *http.Client) Option {
	return func(e *Engine) { e.httpClient = hc }
}

// WithCallTimeout sets the per remote call timeout. Non-positive values
// keep the default.
func WithCallTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.callTimeout = d
		}
	}
}

// New builds an Engine. remote may be nil, in which case Run reports
// ErrNotConfigured.
func New(entryRepo entries.Repository, metaRepo metadata.Repository, remote client.Client, opts ...Option) *Engine {
	e := &Engine{
		entries:     entryRepo,
		meta:        metaRepo,
		remote:      remote,
		log:         logging.Nop{},
		now:         time.Now,
		callTimeout: DefaultCallTimeout,
		httpClient:  http.DefaultClient,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Running reports whether a cycle is in flight.
func (e *Engine) Running() bool {
	return e.running.Load()
}

// Run performs one sync cycle. Progress updates go to progress when it is
// not nil; Run never closes the channel. A second Run while one is in flight
// returns ErrSyncInProgress without doing anything.
//
// Per-row failures are counted in Result.Errors and do not stop the cycle.
// When the current user cannot be resolved Run returns a zero Result and a
// *CycleError.
func (e *Engine) Run(ctx context.Context, progress chan<- Progress) (*Result, error) {
	if e.remote == nil {
		return nil, ErrNotConfigured
	}
	if !e.running.CompareAndSwap(false, true) {
		return nil, ErrSyncInProgress
	}
	defer e.running.Store(false)

	userID, err := e.currentUser(ctx)
	if err != nil {
		e.log.Warn(ctx, "sync aborted", "error", err)
		return &Result{}, &CycleError{Err: err}
	}

	res := &Result{}

	watermark, pullOK := e.pull(ctx, userID, res, progress)
	e.push(ctx, userID, res, progress)

	if pullOK && watermark != "" {
		if err := e.meta.Set(ctx, metadata.KeyPullWatermark, []byte(watermark)); err != nil {
			e.log.Error(ctx, "failed to persist sync watermark", "error", err)
			res.Errors++
		}
	}

	e.log.Info(ctx, "sync finished", "pushed", res.Pushed, "pulled", res.Pulled, "errors", res.Errors)
	return res, nil
}

// ClearWatermark forgets the pull watermark so the next cycle pulls
// everything.
func (e *Engine) ClearWatermark(ctx context.Context) error {
	return e.meta.Delete(ctx, metadata.KeyPullWatermark)
}

func (e *Engine) currentUser(ctx context.Context) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, e.callTimeout)
	defer cancel()

	id, err := e.remote.CurrentUser(callCtx)
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", client.ErrNotSignedIn
	}
	return id, nil
}

// pull merges remote rows the backend wrote since the stored watermark and
// returns the next watermark. It reports false when the remote query itself
// failed, so the watermark stays put.
func (e *Engine) pull(ctx context.Context, userID string, res *Result, progress chan<- Progress) (string, bool) {
	since, err := metadata.GetString(ctx, e.meta, metadata.KeyPullWatermark)
	if err != nil {
		e.log.Error(ctx, "failed to read sync watermark", "error", err)
		res.Errors++
		return "", false
	}

	callCtx, cancel := context.WithTimeout(ctx, e.callTimeout)
	rows, next, err := e.remote.QueryEntries(callCtx, userID, since)
	cancel()
	if err != nil {
		e.log.Warn(ctx, "pull query failed", "error", err)
		res.Errors++
		return "", false
	}

	for i, ce := range rows {
		changed, err := e.merge(ctx, ce)
		switch {
		case err != nil:
			e.log.Warn(ctx, "failed to merge remote entry", "date", ce.Date, "error", err)
			res.Errors++
		case changed:
			res.Pulled++
		}
		report(ctx, progress, Progress{Phase: PhasePulling, Current: i + 1, Total: len(rows)})
	}
	return next, true
}

// merge applies one remote row. Remote wins for dates missing locally and
// when its modification time is strictly newer than the local one. Local
// rows without a modification time are kept. Photos of an applied row are
// downloaded when their URL changed.
func (e *Engine) merge(ctx context.Context, ce models.CloudEntry) (bool, error) {
	remoteMod, err := models.ToMillis(ce.ModifiedAt)
	if err != nil {
		return false, err
	}
	now := e.now().UnixMilli()

	local, err := e.entries.Get(ctx, ce.Date)
	if errors.Is(err, common.ErrorNotFound) {
		created, err := models.ToMillis(ce.CreatedAt)
		if err != nil {
			return false, err
		}
		if created == 0 {
			created = remoteMod
		}
		if created == 0 {
			created = now
		}

		entry := &models.Entry{
			Date:         ce.Date,
			Storyworthy:  ce.Storyworthy,
			Thankful:     ce.Thankful,
			CreatedAt:    created,
			ModifiedAt:   remoteMod,
			CloudID:      ce.CloudID,
			PhotoURL:     ce.PhotoURL,
			ThumbnailURL: ce.ThumbnailURL,
			SyncedAt:     now,
		}
		e.pullMedia(ctx, entry, "", "")
		if err := e.entries.Put(ctx, entry); err != nil {
			return false, err
		}
		return true, nil
	}
	if err != nil {
		return false, err
	}

	if local.ModifiedAt == 0 || remoteMod <= local.ModifiedAt {
		return false, nil
	}

	prevPhoto, prevThumb := local.PhotoURL, local.ThumbnailURL
	local.Storyworthy = ce.Storyworthy
	local.Thankful = ce.Thankful
	local.PhotoURL = ce.PhotoURL
	local.ThumbnailURL = ce.ThumbnailURL
	local.CloudID = ce.CloudID
	local.ModifiedAt = remoteMod
	local.SyncedAt = now
	local.PendingSync = false
	e.pullMedia(ctx, local, prevPhoto, prevThumb)

	if err := e.entries.Put(ctx, local); err != nil {
		return false, err
	}
	return true, nil
}

// pullMedia brings the photo bytes of dst in line with its URLs. Bytes are
// kept while the URL is unchanged, dropped when the URL is gone and fetched
// otherwise. A failed download leaves the URL without local bytes.
func (e *Engine) pullMedia(ctx context.Context, dst *models.Entry, prevPhotoURL, prevThumbURL string) {
	dst.Photo = e.refreshBlob(ctx, dst.Date, dst.Photo, prevPhotoURL, dst.PhotoURL)
	dst.Thumbnail = e.refreshBlob(ctx, dst.Date, dst.Thumbnail, prevThumbURL, dst.ThumbnailURL)
}

func (e *Engine) refreshBlob(ctx context.Context, date string, cur []byte, prevURL, url string) []byte {
	if url == "" {
		return nil
	}
	if url == prevURL && len(cur) > 0 {
		return cur
	}

	callCtx, cancel := context.WithTimeout(ctx, e.callTimeout)
	defer cancel()
	data, err := netx.Fetch(callCtx, e.httpClient, url)
	if err != nil {
		e.log.Warn(ctx, "failed to download media", "date", date, "url", url, "error", err)
		return nil
	}
	return data
}

func (e *Engine) push(ctx context.Context, userID string, res *Result, progress chan<- Progress) {
	rows, err := e.entries.GetPendingOrUnsynced(ctx)
	if err != nil {
		e.log.Error(ctx, "failed to list pending entries", "error", err)
		res.Errors++
		return
	}

	for i := range rows {
		if err := e.pushOne(ctx, userID, &rows[i]); err != nil {
			e.log.Warn(ctx, "failed to push entry", "date", rows[i].Date, "error", err)
			res.Errors++
		} else {
			res.Pushed++
		}
		report(ctx, progress, Progress{Phase: PhasePushing, Current: i + 1, Total: len(rows)})
	}
}

// PhotoPath is the blob key of an entry photo.
func PhotoPath(userID, date string) string {
	return fmt.Sprintf("%s/%s.jpg", userID, date)
}

// ThumbnailPath is the blob key of an entry thumbnail.
func ThumbnailPath(userID, date string) string {
	return fmt.Sprintf("%s/%s_thumb.jpg", userID, date)
}

func (e *Engine) upload(ctx context.Context, path string, data []byte) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, e.callTimeout)
	defer cancel()
	return e.remote.UploadBlob(callCtx, path, data)
}

func (e *Engine) pushOne(ctx context.Context, userID string, row *models.Entry) error {
	photoURL := row.PhotoURL
	if photoURL == "" && len(row.Photo) > 0 {
		url, err := e.upload(ctx, PhotoPath(userID, row.Date), row.Photo)
		if err != nil {
			return fmt.Errorf("upload photo: %w", err)
		}
		photoURL = url
	}

	thumbURL := row.ThumbnailURL
	if thumbURL == "" && len(row.Thumbnail) > 0 {
		url, err := e.upload(ctx, ThumbnailPath(userID, row.Date), row.Thumbnail)
		if err != nil {
			return fmt.Errorf("upload thumbnail: %w", err)
		}
		thumbURL = url
	}

	pushedMod := row.LastChange()
	ce := models.CloudEntry{
		UserID:       userID,
		Date:         row.Date,
		Storyworthy:  row.Storyworthy,
		Thankful:     row.Thankful,
		PhotoURL:     photoURL,
		ThumbnailURL: thumbURL,
		CreatedAt:    models.FromMillis(row.CreatedAt),
		ModifiedAt:   models.FromMillis(pushedMod),
	}

	callCtx, cancel := context.WithTimeout(ctx, e.callTimeout)
	cloudID, _, err := e.remote.UpsertEntry(callCtx, ce)
	cancel()
	if err != nil {
		return fmt.Errorf("upsert: %w", err)
	}

	// re-read so an edit made while the call was in flight stays pending
	current, err := e.entries.Get(ctx, row.Date)
	if err != nil {
		return err
	}
	current.CloudID = cloudID
	current.PhotoURL = photoURL
	current.ThumbnailURL = thumbURL
	current.SyncedAt = e.now().UnixMilli()
	if current.LastChange() == pushedMod {
		current.PendingSync = false
	}
	return e.entries.Put(ctx, current)
}

func report(ctx context.Context, ch chan<- Progress, p Progress) {
	if ch == nil {
		return
	}
	select {
	case ch <- p:
	case <-ctx.Done():
	}
}
