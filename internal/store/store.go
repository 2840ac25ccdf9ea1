// Package store owns the local database: opening it, migrating the schema
// and handing out repositories. All writes funnel through Write so they are
// transactional, serialized and can notify the sync engine afterwards.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/daybook/internal/common"
	"github.com/dmitrijs2005/daybook/internal/dbx"
	"github.com/dmitrijs2005/daybook/internal/logging"
	"github.com/dmitrijs2005/daybook/internal/store/migrations"
	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Supported backends. SQLite is the default for a single-device journal,
// Postgres is for running against a shared server database.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Config selects the backend and its data source name.
type Config struct {
	Backend string
	DSN     string
}

// Store wraps the database handle. Migrations run in the background after
// Open so startup stays fast; call Ready before touching data.
type Store struct {
	db      *sql.DB
	backend string
	log     logging.Logger

	ready    chan struct{}
	readyErr error

	writeMu  sync.Mutex
	onChange func()
}

// Open opens the database and starts migrations in the background.
// The returned store is usable once Ready reports no error.
func Open(ctx context.Context, cfg Config, log logging.Logger) (*Store, error) {
	driver, dsn := "", cfg.DSN
	switch cfg.Backend {
	case BackendSQLite, "":
		driver, dsn = "sqlite", sqliteDSN(cfg.DSN)
	case BackendPostgres:
		driver = "pgx"
	default:
		return nil, fmt.Errorf("unknown store backend: %q", cfg.Backend)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{
		db:      db,
		backend: cfg.Backend,
		log:     log,
		ready:   make(chan struct{}),
	}
	if s.backend == "" {
		s.backend = BackendSQLite
	}

	go func() {
		s.readyErr = s.migrate(ctx)
		if s.readyErr != nil {
			s.log.Error(ctx, "store migration failed", "error", s.readyErr)
		} else {
			s.log.Debug(ctx, "store ready", "backend", s.backend)
		}
		close(s.ready)
	}()

	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	fsys, err := migrations.For(s.backend)
	if err != nil {
		return err
	}

	dialect := "sqlite3"
	if s.backend == BackendPostgres {
		dialect = "postgres"
	}

	goose.SetBaseFS(fsys)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, s.db, ".")
}

// Ready blocks until background migrations finish or ctx expires. A failed
// migration surfaces as ErrStoreNotReady with the cause attached.
func (s *Store) Ready(ctx context.Context) error {
	select {
	case <-s.ready:
		if s.readyErr != nil {
			return fmt.Errorf("%w: %w", common.ErrStoreNotReady, s.readyErr)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Repos returns repositories bound to the store's connection pool, for
// single-statement reads. Use Write for anything that modifies data and
// Read when several tables must be seen at one consistent point.
func (s *Store) Repos() *Repositories {
	return newRepositories(s.backend, s.db)
}

func (s *Store) repos(db dbx.DBTX) *Repositories {
	return newRepositories(s.backend, db)
}

// SetOnChange registers a hook fired after every committed Write. The sync
// engine hangs its change notification here. Snapshot imports do not fire
// it, otherwise every pull would immediately schedule a push.
func (s *Store) SetOnChange(fn func()) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.onChange = fn
}

// Write runs fn inside a transaction with tx-bound repositories. Writes are
// serialized so notifications come out in commit order. The hook runs only
// after a successful commit.
func (s *Store) Write(ctx context.Context, fn func(ctx context.Context, r *Repositories) error) error {
	if err := s.Ready(ctx); err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, s.repos(tx))
	})
	if err != nil {
		return err
	}

	if s.onChange != nil {
		s.onChange()
	}
	return nil
}

// Read runs fn inside a read-only transaction with tx-bound repositories.
func (s *Store) Read(ctx context.Context, fn func(ctx context.Context, r *Repositories) error) error {
	if err := s.Ready(ctx); err != nil {
		return err
	}
	return dbx.WithReadTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, s.repos(tx))
	})
}

// sqliteDSN appends the pragmas every connection needs. Foreign keys are off
// by default in SQLite and the cascade rules depend on them.
func sqliteDSN(dsn string) string {
	pragmas := "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(wal)"
	if strings.Contains(dsn, "?") {
		return dsn + "&" + pragmas
	}
	return dsn + "?" + pragmas
}
