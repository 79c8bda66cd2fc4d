// Package store implements the access patterns the forum schema's indexes
// are designed to serve, along with the counter and toggle discipline the
// shared multi-writer storage model requires.
package store

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// MySQL server error numbers the store reacts to.
const (
	mysqlErrDuplicateEntry  = 1062
	mysqlErrLockWaitTimeout = 1205
	mysqlErrDeadlock        = 1213
)

var (
	// ErrNotFound is returned when a referenced row does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when a unique key rejects an insert and
	// the operation is not a toggle that absorbs the collision.
	ErrDuplicate = errors.New("duplicate key value")

	// ErrRetryable wraps engine-side lock timeouts and deadlocks. Retry
	// policy belongs to the caller, not the store.
	ErrRetryable = errors.New("retryable storage conflict")

	// ErrTopicClosed is returned when a write targets a closed topic.
	ErrTopicClosed = errors.New("topic is closed")
)

// isDuplicate reports whether err is a unique-key collision.
func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlErrDuplicateEntry
}

// isRetryable reports whether err is a lock-wait timeout or deadlock.
func isRetryable(err error) bool {
	var me *mysql.MySQLError
	if !errors.As(err, &me) {
		return false
	}
	return me.Number == mysqlErrLockWaitTimeout || me.Number == mysqlErrDeadlock
}

// classify maps engine errors onto the store's sentinel errors where a
// caller can act on them, passing everything else through.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case isDuplicate(err):
		return errors.Join(ErrDuplicate, err)
	case isRetryable(err):
		return errors.Join(ErrRetryable, err)
	default:
		return err
	}
}
