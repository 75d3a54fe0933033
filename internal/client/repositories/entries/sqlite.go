package entries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/daybook/internal/client/models"
	"github.com/dmitrijs2005/daybook/internal/client/storage"
	"github.com/dmitrijs2005/daybook/internal/common"
	"github.com/dmitrijs2005/daybook/internal/dbx"
)

// SQLiteRepository implements Repository over a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const selectColumns = `date, storyworthy, thankful, photo, thumbnail, created_at, modified_at,
	cloud_id, photo_url, thumbnail_url, synced_at, pending_sync`

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*models.Entry, error) {
	var (
		e                               models.Entry
		modifiedAt, syncedAt            sql.NullInt64
		cloudID, photoURL, thumbnailURL sql.NullString
		pending                         int
	)
	err := row.Scan(&e.Date, &e.Storyworthy, &e.Thankful, &e.Photo, &e.Thumbnail, &e.CreatedAt,
		&modifiedAt, &cloudID, &photoURL, &thumbnailURL, &syncedAt, &pending)
	if err != nil {
		return nil, err
	}
	e.ModifiedAt = modifiedAt.Int64
	e.SyncedAt = syncedAt.Int64
	e.CloudID = cloudID.String
	e.PhotoURL = photoURL.String
	e.ThumbnailURL = thumbnailURL.String
	e.PendingSync = pending != 0
	return &e, nil
}

func nullInt(v int64) any {
	if v == 0 {
		return nil
	}
	return v
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullBytes(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}

func (r *SQLiteRepository) Get(ctx context.Context, date string) (*models.Entry, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM entries WHERE date = ?`, date)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entry %s: %w", date, err)
	}
	return e, nil
}

func (r *SQLiteRepository) Put(ctx context.Context, e *models.Entry) error {
	query := `INSERT INTO entries (date, storyworthy, thankful, photo, thumbnail, created_at, modified_at,
			cloud_id, photo_url, thumbnail_url, synced_at, pending_sync)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			storyworthy = excluded.storyworthy,
			thankful = excluded.thankful,
			photo = excluded.photo,
			thumbnail = excluded.thumbnail,
			created_at = excluded.created_at,
			modified_at = excluded.modified_at,
			cloud_id = excluded.cloud_id,
			photo_url = excluded.photo_url,
			thumbnail_url = excluded.thumbnail_url,
			synced_at = excluded.synced_at,
			pending_sync = excluded.pending_sync`

	pending := 0
	if e.PendingSync {
		pending = 1
	}

	_, err := r.db.ExecContext(ctx, query,
		e.Date, e.Storyworthy, e.Thankful, nullBytes(e.Photo), nullBytes(e.Thumbnail), e.CreatedAt,
		nullInt(e.ModifiedAt), nullString(e.CloudID), nullString(e.PhotoURL), nullString(e.ThumbnailURL),
		nullInt(e.SyncedAt), pending)
	return storage.MapWriteError("put entry", err)
}

func (r *SQLiteRepository) list(ctx context.Context, where string) ([]models.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM entries `+where+` ORDER BY date DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to select entries: %w", err)
	}
	defer rows.Close()

	result := []models.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		result = append(result, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Entry, error) {
	return r.list(ctx, "")
}

func (r *SQLiteRepository) ResetSync(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `UPDATE entries SET
			cloud_id = NULL,
			synced_at = NULL,
			pending_sync = 1,
			photo_url = CASE WHEN photo IS NULL THEN photo_url ELSE NULL END,
			thumbnail_url = CASE WHEN thumbnail IS NULL THEN thumbnail_url ELSE NULL END`)
	return storage.MapWriteError("reset sync state", err)
}

func (r *SQLiteRepository) GetPendingOrUnsynced(ctx context.Context) ([]models.Entry, error) {
	return r.list(ctx, `WHERE pending_sync = 1 OR cloud_id IS NULL OR cloud_id = ''`)
}

func (r *SQLiteRepository) Delete(ctx context.Context, date string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM entries WHERE date = ?`, date)
	return storage.MapWriteError("delete entry", err)
}

func (r *SQLiteRepository) Dates(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT date FROM entries ORDER BY date DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to select dates: %w", err)
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

func (r *SQLiteRepository) Usage(ctx context.Context) (models.Usage, error) {
	used, quota, err := storage.Usage(ctx, r.db)
	if err != nil {
		return models.Usage{}, err
	}
	return models.Usage{UsedBytes: used, QuotaBytes: quota}, nil
}
