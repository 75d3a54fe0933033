// Package entries persists journal entries in the local SQLite database.
//
// There is one row per calendar date; Put upserts by date so a date can
// never be duplicated. Rows carry their sync bookkeeping (cloud id, remote
// photo URLs, synced-at and the pending flag) next to the content, and
// GetPendingOrUnsynced is what the sync engine pushes from.
//
// Write failures are returned as *common.StorageError; a full database
// (quota reached) has kind common.StorageQuotaExceeded.
//
//	repo := entries.NewSQLiteRepository(db)
//	_ = repo.Put(ctx, &models.Entry{Date: "2024-05-01", Storyworthy: "..."})
//	e, err := repo.Get(ctx, "2024-05-01")
//	pending, _ := repo.GetPendingOrUnsynced(ctx)
package entries
