package db

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// goose keeps its settings in package globals.
var gooseMu sync.Mutex

// MigrateOption configures Migrate.
type MigrateOption func(*migrateOptions)

type migrateOptions struct {
	dir    string
	table  string
	logger *slog.Logger
}

// WithMigrationsDir sets the directory inside the migrations FS. Default: "."
func WithMigrationsDir(dir string) MigrateOption {
	return func(o *migrateOptions) {
		if dir != "" {
			o.dir = dir
		}
	}
}

// WithMigrationsTable sets the goose version table. Default: "schema_migrations"
func WithMigrationsTable(table string) MigrateOption {
	return func(o *migrateOptions) {
		if table != "" {
			o.table = table
		}
	}
}

// WithMigrationsLogger routes goose output to l. Default: discarded.
func WithMigrationsLogger(l *slog.Logger) MigrateOption {
	return func(o *migrateOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// Migrate applies every pending goose migration found in migrations.
func Migrate(ctx context.Context, pool *pgxpool.Pool, migrations fs.FS, opts ...MigrateOption) error {
	o := &migrateOptions{
		dir:    ".",
		table:  "schema_migrations",
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(o)
	}

	// Shares the pool's connections; closing it would close the pool.
	sqlDB := stdlib.OpenDBFromPool(pool)

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations)
	goose.SetLogger(&gooseLogger{log: o.logger})
	goose.SetTableName(o.table)

	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Join(ErrSetDialect, err)
	}
	if err := goose.UpContext(ctx, sqlDB, o.dir); err != nil {
		return errors.Join(ErrApplyMigrations, err)
	}
	return nil
}

type gooseLogger struct {
	log *slog.Logger
}

func (g *gooseLogger) Printf(format string, args ...any) {
	g.log.Info(fmt.Sprintf(format, args...), slog.String("component", "migrations"))
}

// Fatalf logs only; goose returns the error to Migrate.
func (g *gooseLogger) Fatalf(format string, args ...any) {
	g.log.Error(fmt.Sprintf(format, args...), slog.String("component", "migrations"))
}
