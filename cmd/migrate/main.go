package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/saturnino-fabrica-de-software/chamada/internal/config"
	"github.com/saturnino-fabrica-de-software/chamada/internal/database"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	action := flag.String("action", "up", "Migration action: up, down, steps, version, force")
	n := flag.Int("n", 0, "Steps to apply (steps action, negative rolls back) or target version (force action)")
	dbName := flag.String("db", "chamada", "Database name used for the migration lock")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// golang-migrate needs a database/sql handle
	db, err := database.OpenSQL(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	log.Println("Connected to database")

	migrator, err := database.NewMigrator(db, *dbName)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer func() { _ = migrator.Close() }()

	switch *action {
	case "up":
		log.Println("Running migrations...")
		if err := migrator.Up(); err != nil {
			return fmt.Errorf("migration up failed: %w", err)
		}
		log.Println("Migrations completed")

	case "down":
		log.Println("Rolling back last migration...")
		if err := migrator.Down(); err != nil {
			return fmt.Errorf("migration down failed: %w", err)
		}
		log.Println("Migration rolled back")

	case "steps":
		if *n == 0 {
			return fmt.Errorf("-n is required for steps action")
		}
		log.Printf("Applying %d migration steps...\n", *n)
		if err := migrator.Steps(*n); err != nil {
			return fmt.Errorf("migration steps failed: %w", err)
		}
		log.Println("Migration steps applied")

	case "version":
		status, err := migrator.Version()
		if err != nil {
			return fmt.Errorf("failed to get version: %w", err)
		}
		log.Printf("Current version: %s\n", status)
		if status.Dirty {
			log.Println("Last migration did not complete; fix the schema and run -action force")
		}

	case "force":
		if *n == 0 {
			return fmt.Errorf("-n is required for force action")
		}
		log.Printf("Forcing migration to version %d...\n", *n)
		if err := migrator.Force(*n); err != nil {
			return fmt.Errorf("force migration failed: %w", err)
		}
		log.Println("Migration version forced")

	default:
		return fmt.Errorf("invalid action: %s (use: up, down, steps, version, force)", *action)
	}

	return nil
}
