// Package storage opens the local journal database and classifies SQLite
// failures into common.StorageError.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"

	"github.com/dmitrijs2005/daybook/internal/client/migrations"
	"github.com/dmitrijs2005/daybook/internal/common"
	"github.com/dmitrijs2005/daybook/internal/dbx"
	"github.com/pressly/goose/v3"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// PageSize is the page size new databases are created with; the quota is
// converted to a page budget with it.
const PageSize = 4096

// InMemory opens a private in-memory database; used by tests.
const InMemory = ":memory:"

// Open opens (creating if needed) the SQLite database at path, applies
// pending migrations and, when quotaBytes > 0, caps the file size through
// max_page_count. Any failure is a StorageError of kind StorageOpenError.
func Open(ctx context.Context, path string, quotaBytes int64) (*sql.DB, error) {
	db, err := sql.Open("sqlite", buildDSN(path, quotaBytes))
	if err != nil {
		return nil, &common.StorageError{Kind: common.StorageOpenError, Op: "open", Err: err}
	}

	// one writer; an in-memory database also lives and dies with its connection
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, &common.StorageError{Kind: common.StorageOpenError, Op: "open", Err: err}
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, &common.StorageError{Kind: common.StorageOpenError, Op: "migrate", Err: err}
	}

	return db, nil
}

func buildDSN(path string, quotaBytes int64) string {
	q := url.Values{}
	q.Add("_pragma", fmt.Sprintf("page_size(%d)", PageSize))
	q.Add("_pragma", "busy_timeout(5000)")
	if quotaBytes > 0 {
		pages := quotaBytes / PageSize
		if pages < 1 {
			pages = 1
		}
		q.Add("_pragma", fmt.Sprintf("max_page_count(%d)", pages))
	}
	return path + "?" + q.Encode()
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, migrations.Migrations)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// MapWriteError wraps a failed write. SQLITE_FULL becomes a quota error,
// everything else a generic write error. nil stays nil.
func MapWriteError(op string, err error) error {
	if err == nil {
		return nil
	}
	kind := common.StorageWriteError
	if isFull(err) {
		kind = common.StorageQuotaExceeded
	}
	return &common.StorageError{Kind: kind, Op: op, Err: err}
}

func isFull(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code()&0xff == sqlite3.SQLITE_FULL
	}
	return false
}

// Usage reports the bytes the database occupies and the configured cap.
// QuotaBytes is 0 when the cap is SQLite's default.
func Usage(ctx context.Context, db dbx.DBTX) (used, quota int64, err error) {
	var pageCount, pageSize, maxPages int64
	if err := db.QueryRowContext(ctx, `PRAGMA page_count`).Scan(&pageCount); err != nil {
		return 0, 0, fmt.Errorf("page_count: %w", err)
	}
	if err := db.QueryRowContext(ctx, `PRAGMA page_size`).Scan(&pageSize); err != nil {
		return 0, 0, fmt.Errorf("page_size: %w", err)
	}
	if err := db.QueryRowContext(ctx, `PRAGMA max_page_count`).Scan(&maxPages); err != nil {
		return 0, 0, fmt.Errorf("max_page_count: %w", err)
	}

	used = pageCount * pageSize
	// 1073741823 and 4294967294 are the stock defaults: treat as unlimited
	if maxPages > 0 && maxPages < 1073741823 {
		quota = maxPages * pageSize
	}
	return used, quota, nil
}
