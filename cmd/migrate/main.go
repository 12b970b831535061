// Migration tool. Online mode opens the configured database and applies all
// pending migrations inside one transaction. Offline mode (-offline) emits the
// SQL to stdout without opening any connection, for running it elsewhere.
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/gatherhub/event-manager/pkg/config"
	"github.com/gatherhub/event-manager/pkg/storage"
)

func main() {
	offline := flag.Bool("offline", false, "emit migration SQL to stdout instead of applying it")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if err := run(logger, *offline); err != nil {
		logger.Error("Migration failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, offline bool) error {
	if offline {
		return storage.WriteOfflineSQL(os.Stdout, storage.Migrations)
	}

	cfg, err := config.New()
	if err != nil {
		return err
	}

	db, err := storage.NewDatabase(cfg.Postgresql, logger)
	if err != nil {
		return err
	}

	pending, err := storage.Pending(db, storage.Migrations)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		logger.Info("No pending migrations")
		return nil
	}

	err = storage.Apply(db, storage.Migrations)
	if err != nil {
		return err
	}

	logger.Info("Applied migrations", "count", len(pending))
	return nil
}
