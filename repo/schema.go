package repo

import (
	"context"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"github.com/htol/libapi/config"
	"github.com/htol/libapi/logger"
)

//go:embed migrations
var migrations embed.FS

// GetStorage opens the configured database, sizes its pool and makes sure the
// schema exists
func GetStorage(ctx context.Context, cfg config.DatabaseConfig) (*Repo, error) {
	var (
		db  *sqlx.DB
		err error
	)

	switch cfg.Driver {
	case config.DriverSQLite:
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create db dir: %w", err)
			}
		}
		db, err = sqlx.Open("sqlite3", "file:"+cfg.Path+"?mode=rwc&_journal_mode=WAL&_busy_timeout=5000")
	case config.DriverPostgres:
		if cfg.DSN == "" {
			return nil, fmt.Errorf("DB_DSN is required for driver %s", cfg.Driver)
		}
		db, err = sqlx.Open("pgx", cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.Driver, err)
	}

	r := &Repo{
		db:      db,
		driver:  cfg.Driver,
		dialect: goqu.Dialect(cfg.Driver),
	}

	if err := r.CreateSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("Database ready", "driver", cfg.Driver)
	return r, nil
}

// CreateSchema applies the embedded table definitions for the repo's driver.
// Already applied files are skipped.
func (r *Repo) CreateSchema(ctx context.Context) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(logger.PrintfLogger{})
	if err := goose.SetDialect(r.driver); err != nil {
		return fmt.Errorf("schema dialect: %w", err)
	}

	dir := "migrations/" + r.driver
	if err := goose.UpContext(ctx, r.db.DB, dir); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}
