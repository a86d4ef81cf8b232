package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/gymportal/portal/internal/config"
	"github.com/gymportal/portal/internal/logger"
	"github.com/gymportal/portal/internal/postgres"
	"github.com/gymportal/portal/internal/postgres/migrations"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "Print migration SQL without executing it")
	flag.Parse()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logger.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	all, err := migrations.All()
	if err != nil {
		logger.Fatalw("Failed to load migrations", "error", err)
	}

	if *dryRun {
		logger.Info("Dry run mode - printing migration SQL without executing")
		for _, m := range all {
			fmt.Printf("-- %s\n%s\n", m.Version, m.SQL)
		}
		return
	}

	db, err := postgres.NewDB(cfg, logger)
	if err != nil {
		logger.Fatalw("Failed to connect to postgres", "error", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`); err != nil {
		logger.Fatalw("Failed to create schema_migrations", "error", err)
	}

	for _, m := range all {
		var applied bool
		if err := db.GetContext(ctx, &applied, `SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)`, m.Version); err != nil {
			logger.Fatalw("Failed to read migration state", "version", m.Version, "error", err)
		}
		if applied {
			logger.Debugw("migration already applied", "version", m.Version)
			continue
		}

		err := db.WithTx(ctx, func(ctx context.Context) error {
			q := db.GetQuerier(ctx)
			if _, err := q.ExecContext(ctx, m.SQL); err != nil {
				return err
			}
			_, err := q.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, m.Version)
			return err
		})
		if err != nil {
			logger.Fatalw("Migration failed", "version", m.Version, "error", err)
		}
		logger.Infow("migration applied", "version", m.Version)
	}

	logger.Info("Migration completed successfully")
}
