package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gymportal/portal/internal/config"
	"github.com/gymportal/portal/internal/logger"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/fx"
)

// DB wraps sqlx.DB to provide transaction management and query tracing
type DB struct {
	*sqlx.DB
	logger *logger.Logger
}

// Querier is the subset of sqlx shared by *sqlx.DB and *sqlx.Tx
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error)
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

// connectMaxElapsed bounds how long boot waits for the database to accept connections
const connectMaxElapsed = 30 * time.Second

// NewDB opens the pool and verifies connectivity, retrying while the database starts
func NewDB(cfg *config.Configuration, logger *logger.Logger) (*DB, error) {
	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = connectMaxElapsed

	var db *sqlx.DB
	connect := func() error {
		var err error
		db, err = sqlx.Connect("postgres", cfg.Postgres.GetDSN())
		return err
	}
	notify := func(err error, wait time.Duration) {
		logger.Warnw("postgres not reachable, retrying",
			"error", err,
			"retry_in", wait.String(),
		)
	}
	if err := backoff.RetryNotify(connect, policy, notify); err != nil {
		return nil, err
	}

	if cfg.Postgres.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
	}
	if cfg.Postgres.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
	}
	if cfg.Postgres.ConnMaxLifetimeMinutes > 0 {
		db.SetConnMaxLifetime(time.Duration(cfg.Postgres.ConnMaxLifetimeMinutes) * time.Minute)
	}

	logger.Infow("connected to postgres",
		"host", cfg.Postgres.Host,
		"dbname", cfg.Postgres.DBName,
	)

	return NewFromConn(db, logger), nil
}

// NewFromConn wraps an already opened pool
func NewFromConn(db *sqlx.DB, logger *logger.Logger) *DB {
	return &DB{DB: db, logger: logger}
}

// RegisterHooks closes the pool on application stop
func RegisterHooks(lc fx.Lifecycle, db *DB) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			db.logger.Info("closing postgres connection pool")
			return db.DB.Close()
		},
	})
}

// GetQuerier returns either the transaction from context or the base DB
func (db *DB) GetQuerier(ctx context.Context) Querier {
	if tx, ok := GetTx(ctx); ok {
		return NewTracedQuerier(tx.Tx, db.logger, tx.ID)
	}
	return NewTracedQuerier(db.DB, db.logger, "")
}
