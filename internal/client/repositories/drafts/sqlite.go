package drafts

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

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Put(ctx context.Context, d *models.Draft) error {
	query := `INSERT INTO drafts (date, storyworthy, thankful, photo, thumbnail, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			storyworthy = excluded.storyworthy,
			thankful = excluded.thankful,
			photo = excluded.photo,
			thumbnail = excluded.thumbnail,
			updated_at = excluded.updated_at`

	_, err := r.db.ExecContext(ctx, query, d.Date, d.Storyworthy, d.Thankful, d.Photo, d.Thumbnail, d.UpdatedAt)
	return storage.MapWriteError("put draft", err)
}

func (r *SQLiteRepository) Get(ctx context.Context, date string) (*models.Draft, error) {
	query := `SELECT date, storyworthy, thankful, photo, thumbnail, updated_at FROM drafts WHERE date = ?`

	d := &models.Draft{}
	err := r.db.QueryRowContext(ctx, query, date).Scan(&d.Date, &d.Storyworthy, &d.Thankful, &d.Photo, &d.Thumbnail, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draft %s: %w", date, err)
	}
	return d, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, date string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM drafts WHERE date = ?`, date)
	return storage.MapWriteError("delete draft", err)
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Draft, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT date, storyworthy, thankful, photo, thumbnail, updated_at FROM drafts ORDER BY date DESC`)
	if err != nil {
		return nil, fmt.Errorf("error selecting drafts: %w", err)
	}
	defer rows.Close()

	var result []models.Draft
	for rows.Next() {
		var d models.Draft
		if err := rows.Scan(&d.Date, &d.Storyworthy, &d.Thankful, &d.Photo, &d.Thumbnail, &d.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
