package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"miniblog/config"
	"miniblog/internal/errors"
	"miniblog/internal/infra/persistence/migrations"

	pgLib "github.com/slighter12/go-lib/database/postgres"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("Failed to apply migrations", slog.Any("error", err))
		stop()
		os.Exit(1)
	}

	slog.Info("Migrations applied")
}

func run(ctx context.Context) error {
	cfg, err := config.New()
	if err != nil {
		return err
	}
	if cfg.Storage.Driver != config.StorageDriverPostgres {
		return errors.Errorf("storage.driver is %q, nothing to migrate", cfg.Storage.Driver)
	}

	gormDB, err := pgLib.New(cfg.Postgres)
	if err != nil {
		return errors.Wrap(err, "open database")
	}
	// Migrations always run on the primary connection.
	db, err := gormDB.DB()
	if err != nil {
		return errors.Wrap(err, "get primary sql.DB")
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return errors.Wrap(err, "ping database")
	}

	return migrations.Up(ctx, db)
}
