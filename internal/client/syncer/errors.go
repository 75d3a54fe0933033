package syncer

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured means there is no remote to sync with.
	ErrNotConfigured = errors.New("sync is not configured")
	// ErrSyncInProgress is returned when another cycle is still running.
	ErrSyncInProgress = errors.New("sync already in progress")
)

// CycleError means a cycle could not start at all. Nothing was pulled or
// pushed and the watermark is unchanged.
type CycleError struct {
	Err error
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("sync cycle aborted: %v", e.Err)
}

func (e *CycleError) Unwrap() error { return e.Err }
