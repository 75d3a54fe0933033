package common

import (
	"errors"
	"fmt"
)

// StorageErrorKind classifies local persistence failures.
type StorageErrorKind string

const (
	// StorageQuotaExceeded means the local database hit its size limit.
	// It is surfaced verbatim to the user as "storage full".
	StorageQuotaExceeded StorageErrorKind = "quota_exceeded"
	// StorageWriteError is any other failed write.
	StorageWriteError StorageErrorKind = "write_error"
	// StorageOpenError means the local database could not be opened at all.
	StorageOpenError StorageErrorKind = "open_error"
)

// StorageError is returned by local store mutations.
type StorageError struct {
	Kind StorageErrorKind
	Op   string
	Err  error
}

func (e *StorageError) Error() string {
	if e.Kind == StorageQuotaExceeded {
		return "storage full"
	}
	return fmt.Sprintf("storage %s (%s): %v", e.Kind, e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// IsQuotaExceeded reports whether err is a StorageError of kind StorageQuotaExceeded.
func IsQuotaExceeded(err error) bool {
	var se *StorageError
	return errors.As(err, &se) && se.Kind == StorageQuotaExceeded
}
