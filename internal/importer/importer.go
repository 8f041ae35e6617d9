// Package importer loads a parsed dump into the destination database.
package importer

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dbsmedya/dumpmigrate/internal/dump"
	"github.com/dbsmedya/dumpmigrate/internal/graph"
	"github.com/dbsmedya/dumpmigrate/internal/logger"
	"github.com/dbsmedya/dumpmigrate/internal/sqlutil"
)

// Options controls one import.
type Options struct {
	Entities                []dump.Entity // empty means all
	DisableForeignKeyChecks bool
}

// Stats contains statistics about an import.
type Stats struct {
	RunID         string
	Entities      []dump.Entity // imported entities in insert order
	RowsDeleted   int64
	RowsInserted  int64
	RowsPerEntity map[dump.Entity]int64
	Duration      time.Duration
}

// Importer replaces the destination contents of the selected entities with
// the records of a dump.Result.
//
// Everything runs in one destination transaction: the selected tables are
// cleared children first, then filled parents first, then committed. Any
// failure or context cancellation rolls the whole import back.
type Importer struct {
	db      *sql.DB
	dialect sqlutil.Dialect
	opts    Options
	logger  *logger.Logger
	now     func() time.Time
}

// New creates an importer writing to db.
func New(db *sql.DB, dialect sqlutil.Dialect, opts Options, log *logger.Logger) (*Importer, error) {
	if db == nil {
		return nil, fmt.Errorf("destination database is nil")
	}
	for _, e := range opts.Entities {
		if !e.IsKnown() {
			return nil, fmt.Errorf("cannot import entity %q", e)
		}
	}
	if log == nil {
		log = logger.NewDefault()
	}

	return &Importer{
		db:      db,
		dialect: dialect,
		opts:    opts,
		logger:  log,
		now:     time.Now,
	}, nil
}

// plan returns the selected entities in insert order (parents first) and
// delete order (children first).
func (im *Importer) plan() (insert, remove []dump.Entity, err error) {
	var entities []dump.Entity
	if len(im.opts.Entities) == 0 {
		entities = dump.Entities
	} else {
		entities = im.opts.Entities
	}

	g := graph.Build(entities)
	if insert, err = g.InsertOrder(); err != nil {
		return nil, nil, fmt.Errorf("failed to order entities: %w", err)
	}
	if remove, err = g.DeleteOrder(); err != nil {
		return nil, nil, fmt.Errorf("failed to order entities: %w", err)
	}
	return insert, remove, nil
}

// Import writes result into the destination.
func (im *Importer) Import(ctx context.Context, result *dump.Result) (*Stats, error) {
	startTime := time.Now()
	runID := uuid.NewString()
	log := im.logger.WithRun(runID)

	entities, deleteOrder, err := im.plan()
	if err != nil {
		return nil, err
	}
	stats := &Stats{
		RunID:         runID,
		Entities:      entities,
		RowsPerEntity: make(map[dump.Entity]int64),
	}
	now := im.now().Format(TimeLayout)

	log.Debug("Starting destination transaction")
	tx, err := im.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin destination transaction: %w", err)
	}

	defer func() {
		if tx != nil {
			log.Warn("Rolling back destination transaction")
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Errorf("Failed to rollback transaction: %v", rbErr)
			}
		}
	}()

	fkDisabled, err := im.disableForeignKeyChecks(ctx, tx, log)
	if err != nil {
		return nil, err
	}

	for _, e := range deleteOrder {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("import interrupted: %w", err)
		}

		deleted, err := im.clearTable(ctx, tx, e)
		if err != nil {
			return nil, err
		}
		stats.RowsDeleted += deleted
	}

	for _, e := range entities {
		rows := tables[e].rows(result.Records(e), now)

		inserted, err := im.insertRows(ctx, tx, e, rows)
		if err != nil {
			return nil, err
		}

		stats.RowsInserted += inserted
		stats.RowsPerEntity[e] = inserted
		log.WithEntity(string(e)).Infof("Imported %d rows into %s", inserted, TableName(e))
	}

	if fkDisabled {
		if _, err := tx.ExecContext(ctx, im.dialect.ForeignKeyChecks(true)); err != nil {
			return nil, fmt.Errorf("failed to restore foreign key checks: %w", err)
		}
	}

	log.Debug("Committing destination transaction")
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit destination transaction: %w", err)
	}
	tx = nil

	stats.Duration = time.Since(startTime)
	log.Infof("Import complete: %d entities, %d rows deleted, %d rows inserted, duration: %s",
		len(entities), stats.RowsDeleted, stats.RowsInserted, stats.Duration)

	return stats, nil
}

// disableForeignKeyChecks turns off foreign key enforcement for the
// transaction when configured. It reports whether checks must be restored.
func (im *Importer) disableForeignKeyChecks(ctx context.Context, tx *sql.Tx, log *logger.Logger) (bool, error) {
	if !im.opts.DisableForeignKeyChecks {
		return false, nil
	}

	stmt := im.dialect.ForeignKeyChecks(false)
	if stmt == "" {
		log.Warnf("Foreign key checks cannot be disabled on %s; importing with checks enabled", im.dialect)
		return false, nil
	}

	log.Debug("Disabling foreign key checks for destination transaction")
	if _, err := tx.ExecContext(ctx, stmt); err != nil {
		return false, fmt.Errorf("failed to disable foreign key checks: %w", err)
	}
	return true, nil
}

// clearTable deletes every row of the destination table of e.
func (im *Importer) clearTable(ctx context.Context, tx *sql.Tx, e dump.Entity) (int64, error) {
	name := TableName(e)

	res, err := tx.ExecContext(ctx, im.dialect.DeleteStatement(name))
	if err != nil {
		return 0, fmt.Errorf("failed to clear table %s: %w", name, err)
	}

	deleted, _ := res.RowsAffected()
	im.logger.Debugf("Deleted %d rows from table %q", deleted, name)
	return deleted, nil
}

// insertRows inserts rows into the destination table of e with one
// prepared statement.
func (im *Importer) insertRows(ctx context.Context, tx *sql.Tx, e dump.Entity, rows [][]interface{}) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	t := tables[e]
	stmt, err := tx.PrepareContext(ctx, im.dialect.InsertStatement(t.name, t.columns))
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert into %s: %w", t.name, err)
	}
	defer stmt.Close()

	var inserted int64
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return inserted, fmt.Errorf("import interrupted: %w", err)
		}

		res, err := stmt.ExecContext(ctx, row...)
		if err != nil {
			return inserted, fmt.Errorf("failed to insert row %d (id %v) into %s: %w", i+1, row[0], t.name, err)
		}

		affected, _ := res.RowsAffected()
		inserted += affected
	}

	return inserted, nil
}
