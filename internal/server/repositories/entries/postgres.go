// Package entries stores journal rows in PostgreSQL, one per user and date.
package entries

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/dmitrijs2005/daybook/internal/dbx"
	"github.com/dmitrijs2005/daybook/internal/server/models"
	"github.com/google/uuid"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var columns = []string{
	"id", "user_id", "date", "storyworthy", "thankful",
	"photo_url", "thumbnail_url", "created_at", "modified_at", "updated_at",
}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(ctx context.Context, e *models.Entry) error {
	query := `
		INSERT INTO entries (id, user_id, date, storyworthy, thankful, photo_url, thumbnail_url, created_at, modified_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id, date)
		DO UPDATE SET
			storyworthy = EXCLUDED.storyworthy,
			thankful = EXCLUDED.thankful,
			photo_url = EXCLUDED.photo_url,
			thumbnail_url = EXCLUDED.thumbnail_url,
			modified_at = EXCLUDED.modified_at,
			updated_at = clock_timestamp()
		RETURNING id, modified_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		uuid.NewString(), e.UserID, e.Date, e.Storyworthy, e.Thankful,
		e.PhotoURL, e.ThumbnailURL, e.CreatedAt, e.ModifiedAt,
	).Scan(&e.ID, &e.ModifiedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Query(ctx context.Context, userID string, updatedAfter time.Time) ([]*models.Entry, error) {
	b := psql.Select(columns...).
		From("entries").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("updated_at DESC")
	if !updatedAfter.IsZero() {
		b = b.Where(sq.Gt{"updated_at": updatedAfter})
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select entries: %w", err)
	}
	defer rows.Close()

	var result []*models.Entry
	for rows.Next() {
		var e models.Entry
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.Date, &e.Storyworthy, &e.Thankful,
			&e.PhotoURL, &e.ThumbnailURL, &e.CreatedAt, &e.ModifiedAt, &e.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, date string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM entries WHERE user_id = $1 AND date = $2`, userID, date)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.RequireAffected(res)
}
