// Package lock provides destination advisory locks that keep two imports
// from loading the same database at once.
package lock

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dbsmedya/dumpmigrate/internal/sqlutil"
)

// ErrLockTimeout is returned when lock acquisition times out because
// another import is holding the lock.
var ErrLockTimeout = errors.New("lock acquisition timed out")

// Common timeout values for lock acquisition (in seconds).
const (
	// TimeoutImmediate returns at once if the lock cannot be acquired.
	TimeoutImmediate = 0

	// TimeoutShort fails fast when another import is running.
	TimeoutShort = 1

	// TimeoutInfinite waits until the lock is acquired or the context ends.
	TimeoutInfinite = -1
)

const defaultPollInterval = 100 * time.Millisecond

// AdvisoryLock is a named, session-scoped lock on the destination server.
// MySQL uses GET_LOCK and PostgreSQL pg_try_advisory_lock. Both belong to a
// session, so the lock pins one pooled connection from acquire to release.
type AdvisoryLock struct {
	db           *sql.DB
	dialect      sqlutil.Dialect
	lockName     string
	conn         *sql.Conn // non-nil while held
	pollInterval time.Duration
}

// NewAdvisoryLock creates a new advisory lock with the given name.
// The lock is not acquired until AcquireLock is called.
func NewAdvisoryLock(db *sql.DB, dialect sqlutil.Dialect, lockName string) *AdvisoryLock {
	return &AdvisoryLock{
		db:           db,
		dialect:      dialect,
		lockName:     lockName,
		pollInterval: defaultPollInterval,
	}
}

// AcquireLock attempts to acquire the lock, waiting up to timeoutSeconds.
// It returns false without error when the wait ran out.
func (a *AdvisoryLock) AcquireLock(ctx context.Context, timeoutSeconds int) (bool, error) {
	if a.conn != nil {
		return true, nil
	}

	conn, err := a.db.Conn(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to reserve lock connection: %w", err)
	}

	var acquired bool
	if a.dialect == sqlutil.Postgres {
		acquired, err = a.acquirePostgres(ctx, conn, timeoutSeconds)
	} else {
		acquired, err = a.acquireMySQL(ctx, conn, timeoutSeconds)
	}
	if err != nil || !acquired {
		conn.Close()
		return false, err
	}

	a.conn = conn
	return true, nil
}

// acquireMySQL runs GET_LOCK, which returns 1 when obtained, 0 on timeout
// and NULL on error.
func (a *AdvisoryLock) acquireMySQL(ctx context.Context, conn *sql.Conn, timeoutSeconds int) (bool, error) {
	var result sql.NullInt64
	err := conn.QueryRowContext(ctx, "SELECT GET_LOCK(?, ?)", a.lockName, timeoutSeconds).Scan(&result)
	if err != nil {
		return false, fmt.Errorf("failed to execute GET_LOCK: %w", err)
	}

	if !result.Valid {
		return false, fmt.Errorf("GET_LOCK returned NULL for lock %q (possible database error)", a.lockName)
	}

	switch result.Int64 {
	case 1:
		return true, nil
	case 0:
		return false, nil
	default:
		return false, fmt.Errorf("unexpected GET_LOCK return value: %d", result.Int64)
	}
}

// acquirePostgres polls pg_try_advisory_lock, which never waits, until the
// timeout passes.
func (a *AdvisoryLock) acquirePostgres(ctx context.Context, conn *sql.Conn, timeoutSeconds int) (bool, error) {
	deadline := time.Now().Add(time.Duration(timeoutSeconds) * time.Second)

	for {
		var acquired bool
		err := conn.QueryRowContext(ctx, "SELECT pg_try_advisory_lock(hashtext($1))", a.lockName).Scan(&acquired)
		if err != nil {
			return false, fmt.Errorf("failed to execute pg_try_advisory_lock: %w", err)
		}
		if acquired {
			return true, nil
		}
		if timeoutSeconds >= 0 && !time.Now().Before(deadline) {
			return false, nil
		}

		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(a.pollInterval):
		}
	}
}

// ReleaseLock releases the lock and returns its connection to the pool.
// It returns false when the lock was not held.
func (a *AdvisoryLock) ReleaseLock(ctx context.Context) (bool, error) {
	if a.conn == nil {
		return false, nil
	}
	conn := a.conn
	a.conn = nil
	// Closing the session connection drops the lock even if the query fails
	defer conn.Close()

	if a.dialect == sqlutil.Postgres {
		var released bool
		err := conn.QueryRowContext(ctx, "SELECT pg_advisory_unlock(hashtext($1))", a.lockName).Scan(&released)
		if err != nil {
			return false, fmt.Errorf("failed to execute pg_advisory_unlock: %w", err)
		}
		return released, nil
	}

	var result sql.NullInt64
	err := conn.QueryRowContext(ctx, "SELECT RELEASE_LOCK(?)", a.lockName).Scan(&result)
	if err != nil {
		return false, fmt.Errorf("failed to execute RELEASE_LOCK: %w", err)
	}
	if !result.Valid {
		return false, fmt.Errorf("RELEASE_LOCK returned NULL for lock %q (lock did not exist)", a.lockName)
	}
	return result.Int64 == 1, nil
}

// IsHeld returns true if this lock is currently held by this instance.
func (a *AdvisoryLock) IsHeld() bool {
	return a.conn != nil
}

// LockName returns the name of the advisory lock.
func (a *AdvisoryLock) LockName() string {
	return a.lockName
}

// AcquireOrFail acquires the lock within timeoutSeconds or returns
// ErrLockTimeout.
func (a *AdvisoryLock) AcquireOrFail(ctx context.Context, timeoutSeconds int) error {
	acquired, err := a.AcquireLock(ctx, timeoutSeconds)
	if err != nil {
		return err
	}
	if !acquired {
		return fmt.Errorf("%w: lock %q is held by another instance", ErrLockTimeout, a.lockName)
	}
	return nil
}

// WithLock executes fn while holding the lock. The lock is released however
// fn exits, panics included.
func (a *AdvisoryLock) WithLock(ctx context.Context, timeoutSeconds int, fn func() error) error {
	if err := a.AcquireOrFail(ctx, timeoutSeconds); err != nil {
		return err
	}

	defer func() {
		// fn may have been cut short by ctx; release on a fresh one
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_, _ = a.ReleaseLock(releaseCtx)
	}()

	return fn()
}

// ImportLockName creates the lock name guarding imports into database.
// Example: ImportLockName("tienda") -> "dumpmigrate:import:tienda"
func ImportLockName(database string) string {
	sanitized := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
			return r
		}
		return '_'
	}, database)

	return "dumpmigrate:import:" + sanitized
}

// NewImportLock creates the advisory lock guarding imports into database.
func NewImportLock(db *sql.DB, dialect sqlutil.Dialect, database string) *AdvisoryLock {
	return NewAdvisoryLock(db, dialect, ImportLockName(database))
}
