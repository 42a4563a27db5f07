package docstore

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by Get and Update when the document is absent.
	ErrNotFound = errors.New("docstore: document not found")

	// ErrBatchLimitExceeded is returned by Commit when a batch stages more
	// than MaxBatchOperations operations.
	ErrBatchLimitExceeded = fmt.Errorf("docstore: batch exceeds %d staged operations", MaxBatchOperations)
)

// IsNotFound reports whether err wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
