// Package store implements the PostgreSQL record store consumed by the
// scheduling core. Every call runs under a bounded timeout; infrastructure
// faults surface as storage errors, domain misses as not-found errors.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"

	"github.com/klougaris/smartclinic/pkg/types"
)

// uniqueViolation is the PostgreSQL error code for a unique index conflict.
const uniqueViolation = "23505"

// withTimeout bounds a store call so a slow database never hangs the caller.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, d)
}

// storageError maps a driver or context failure onto the transient
// storage-unavailable kind. Timeouts get their own code so callers can
// distinguish a slow store from a broken one.
func storageError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return types.NewStorageError(types.CodeStorageTimeout, op+" timed out", err)
	}
	return types.NewStorageError(types.CodeStorageFault, op+" failed", err)
}

// isUniqueViolation reports whether err is a unique index conflict.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
