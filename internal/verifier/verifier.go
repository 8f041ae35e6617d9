// Package verifier checks destination tables against a parsed dump.
package verifier

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/dbsmedya/dumpmigrate/internal/dump"
	"github.com/dbsmedya/dumpmigrate/internal/importer"
	"github.com/dbsmedya/dumpmigrate/internal/logger"
	"github.com/dbsmedya/dumpmigrate/internal/sqlutil"
)

// VerificationMethod defines how a destination table is compared.
type VerificationMethod string

const (
	// MethodCount compares row counts (fast)
	MethodCount VerificationMethod = "count"
	// MethodSHA256 compares a SHA256 digest of the sorted primary keys
	MethodSHA256 VerificationMethod = "sha256"
)

// ErrMismatch is returned when at least one table differs from the dump.
var ErrMismatch = errors.New("verification mismatch")

// VerifyResult holds verification results for a single entity.
type VerifyResult struct {
	Entity       dump.Entity
	Table        string
	Method       VerificationMethod
	Expected     int64 // -1 when no dump was supplied
	Actual       int64
	ExpectedHash string
	ActualHash   string
	Match        bool
	ErrorMessage string
}

// VerifyStats contains overall verification statistics.
type VerifyStats struct {
	TablesVerified int
	TablesPassed   int
	TablesFailed   int
	TotalRows      int64
	Method         VerificationMethod
	Results        []VerifyResult
}

// Verifier reads destination tables and compares them with a dump.Result.
type Verifier struct {
	db      *sql.DB
	dialect sqlutil.Dialect
	method  VerificationMethod
	logger  *logger.Logger
}

// NewVerifier creates a new verifier reading from db.
func NewVerifier(db *sql.DB, dialect sqlutil.Dialect, method VerificationMethod, log *logger.Logger) (*Verifier, error) {
	if db == nil {
		return nil, fmt.Errorf("destination database is nil")
	}
	if method == "" {
		method = MethodCount
	}
	if method != MethodCount && method != MethodSHA256 {
		return nil, fmt.Errorf("unsupported verification method: %s", method)
	}
	if log == nil {
		log = logger.NewDefault()
	}

	return &Verifier{
		db:      db,
		dialect: dialect,
		method:  method,
		logger:  log,
	}, nil
}

// Verify inspects the destination tables of entities, in the given order.
// With a nil expected result it only reports row counts and every table
// passes. Otherwise all tables are checked and the returned error wraps
// ErrMismatch when any of them differs; the stats are returned either way.
func (v *Verifier) Verify(ctx context.Context, entities []dump.Entity, expected *dump.Result) (*VerifyStats, error) {
	stats := &VerifyStats{Method: v.method}

	v.logger.Infof("Starting verification (method=%s) for %d tables", v.method, len(entities))

	for _, e := range entities {
		if err := ctx.Err(); err != nil {
			return stats, fmt.Errorf("verification interrupted: %w", err)
		}

		var (
			result *VerifyResult
			err    error
		)
		if v.method == MethodSHA256 && expected != nil {
			result, err = v.verifyBySHA256(ctx, e, expected.Records(e))
		} else {
			result, err = v.verifyByCount(ctx, e, expected)
		}
		if err != nil {
			return stats, fmt.Errorf("verification failed for table %s: %w", importer.TableName(e), err)
		}

		stats.TablesVerified++
		stats.TotalRows += result.Actual
		stats.Results = append(stats.Results, *result)

		if result.Match {
			stats.TablesPassed++
			v.logger.Debugf("Verification PASSED for table %q (%d rows)", result.Table, result.Actual)
		} else {
			stats.TablesFailed++
			v.logger.WithEntity(string(e)).Errorf("Verification FAILED for table %q: %s", result.Table, result.ErrorMessage)
		}
	}

	v.logger.Infof("Verification complete: %d tables verified, %d passed, %d failed, %d total rows",
		stats.TablesVerified, stats.TablesPassed, stats.TablesFailed, stats.TotalRows)

	if stats.TablesFailed > 0 {
		return stats, fmt.Errorf("%w: %d tables differ from the dump", ErrMismatch, stats.TablesFailed)
	}
	return stats, nil
}

// verifyByCount compares the destination row count with the dump.
func (v *Verifier) verifyByCount(ctx context.Context, e dump.Entity, expected *dump.Result) (*VerifyResult, error) {
	table := importer.TableName(e)

	var actual int64
	if err := v.db.QueryRowContext(ctx, v.dialect.CountStatement(table)).Scan(&actual); err != nil {
		return nil, fmt.Errorf("failed to count destination: %w", err)
	}

	result := &VerifyResult{
		Entity:   e,
		Table:    table,
		Method:   MethodCount,
		Expected: -1,
		Actual:   actual,
		Match:    true,
	}
	if expected == nil {
		return result, nil
	}

	result.Expected = int64(expected.Count(e))
	result.Match = result.Expected == actual
	if !result.Match {
		result.ErrorMessage = fmt.Sprintf("count mismatch: dump=%d, dest=%d", result.Expected, actual)
	}
	return result, nil
}

// verifyBySHA256 compares digests of the sorted primary keys, which catches
// tables with the right size but the wrong rows.
func (v *Verifier) verifyBySHA256(ctx context.Context, e dump.Entity, records []dump.Record) (*VerifyResult, error) {
	table := importer.TableName(e)

	expectedKeys := make([]int64, len(records))
	for i, rec := range records {
		expectedKeys[i] = int64(rec.PrimaryKey())
	}

	actualKeys, err := v.fetchKeys(ctx, e)
	if err != nil {
		return nil, err
	}

	result := &VerifyResult{
		Entity:       e,
		Table:        table,
		Method:       MethodSHA256,
		Expected:     int64(len(expectedKeys)),
		Actual:       int64(len(actualKeys)),
		ExpectedHash: hashKeys(expectedKeys),
		ActualHash:   hashKeys(actualKeys),
	}
	result.Match = result.ExpectedHash == result.ActualHash

	if !result.Match {
		result.ErrorMessage = fmt.Sprintf("hash mismatch: dump=%s (%d rows), dest=%s (%d rows)",
			result.ExpectedHash[:12], result.Expected, result.ActualHash[:12], result.Actual)
	}
	return result, nil
}

// fetchKeys reads the primary key column of e's destination table.
func (v *Verifier) fetchKeys(ctx context.Context, e dump.Entity) ([]int64, error) {
	query := fmt.Sprintf("SELECT %s FROM %s",
		v.dialect.QuoteIdentifier(importer.Columns(e)[0]),
		v.dialect.QuoteIdentifier(importer.TableName(e)))

	rows, err := v.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to read destination keys: %w", err)
	}
	defer rows.Close()

	var keys []int64
	for rows.Next() {
		var k int64
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("failed to scan key: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating keys: %w", err)
	}
	return keys, nil
}

// hashKeys digests keys in ascending order, one decimal per line.
func hashKeys(keys []int64) string {
	sorted := append([]int64(nil), keys...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	h := sha256.New()
	for _, k := range sorted {
		h.Write([]byte(strconv.FormatInt(k, 10)))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// GetMethod returns the verification method in use.
func (v *Verifier) GetMethod() VerificationMethod {
	return v.method
}
