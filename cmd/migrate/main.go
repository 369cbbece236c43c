// Command migrate applies database schema migrations.
//
// Usage:
//
//	migrate -command up
//	migrate -command down
//	migrate -command steps -n -1
//	migrate -command version
//	migrate -command force -n 3
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"

	"github.com/finvoice/backend/internal/infrastructure/config"
	"github.com/finvoice/backend/internal/infrastructure/logger"
	"github.com/finvoice/backend/internal/infrastructure/migration"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

func main() {
	command := flag.String("command", "up", "migration command: up, down, steps, version, force")
	n := flag.Int("n", 0, "step count for 'steps' or target version for 'force'")
	path := flag.String("path", "migrations", "path to migration files")
	flag.Parse()

	if err := run(*command, *n, *path); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run(command string, n int, path string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync(log) }()

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	migrator, err := migration.New(db, path, log)
	if err != nil {
		return fmt.Errorf("init migrator: %w", err)
	}
	defer func() { _ = migrator.Close() }()

	switch command {
	case "up":
		return migrator.Up()
	case "down":
		return migrator.Down()
	case "steps":
		if n == 0 {
			return fmt.Errorf("steps requires a non-zero -n")
		}
		return migrator.Steps(n)
	case "version":
		version, dirty, err := migrator.Version()
		if err != nil {
			return err
		}
		log.Info("Current migration version",
			zap.Uint("version", version),
			zap.Bool("dirty", dirty))
		return nil
	case "force":
		return migrator.Force(n)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}
