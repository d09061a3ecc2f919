package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/jmoiron/sqlx"

	"github.com/htol/libapi/config"
	"github.com/htol/libapi/logger"
)

type Repo struct {
	db      *sqlx.DB
	driver  string
	dialect goqu.DialectWrapper
}

func (r *Repo) Close() error {
	if r.db != nil {
		logger.Info("Closing database connection")
		return r.db.Close()
	}
	return nil
}

func (r *Repo) Ping(ctx context.Context) error {
	if r.db != nil {
		return r.db.PingContext(ctx)
	}
	return sql.ErrConnDone
}

// Driver returns the database/sql driver name the repo was opened with
func (r *Repo) Driver() string {
	return r.driver
}

// toSQL renders a goqu dataset with dialect placeholders
func toSQL(ds interface {
	ToSQL() (string, []interface{}, error)
}) (string, []interface{}, error) {
	query, args, err := ds.ToSQL()
	if err != nil {
		return "", nil, fmt.Errorf("build query: %w", err)
	}
	return query, args, nil
}

// insertID runs an insert and returns the generated id. SQLite reports it
// through LastInsertId, PostgreSQL through RETURNING.
func (r *Repo) insertID(ctx context.Context, db sqlx.ExtContext, ds *goqu.InsertDataset) (int64, error) {
	if r.driver == config.DriverPostgres {
		query, args, err := toSQL(ds.Returning(goqu.C(colID)).Prepared(true))
		if err != nil {
			return 0, err
		}
		var id int64
		if err := sqlx.GetContext(ctx, db, &id, query, args...); err != nil {
			return 0, err
		}
		return id, nil
	}

	query, args, err := toSQL(ds.Prepared(true))
	if err != nil {
		return 0, err
	}
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// rollback is deferred after BeginTxx; it is a no-op once the tx committed
func rollback(tx *sqlx.Tx) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		logger.Warn("Failed to rollback transaction", "error", err)
	}
}
