// Command migrate applies goose SQL migrations from ./migrations against
// the configured Postgres database.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"

	_ "github.com/lib/pq"
	"github.com/officekit/toolbox-api/internal/config"
	"github.com/pressly/goose/v3"
)

const usage = "usage: migrate [-dir migrations] <up|down|status|version|create NAME>"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	dir := flag.String("dir", "./migrations", "directory with migration files")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		return fmt.Errorf("%s", usage)
	}
	command, arguments := args[0], args[1:]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := sql.Open("postgres", cfg.Database.ConnectionString())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	switch command {
	case "up":
		if err := goose.Up(db, *dir); err != nil {
			return fmt.Errorf("failed to run up migrations: %w", err)
		}
		fmt.Println("migrations applied")

	case "down":
		if err := goose.Down(db, *dir); err != nil {
			return fmt.Errorf("failed to roll back migration: %w", err)
		}
		fmt.Println("migration rolled back")

	case "status":
		if err := goose.Status(db, *dir); err != nil {
			return fmt.Errorf("failed to get migration status: %w", err)
		}

	case "version":
		if err := goose.Version(db, *dir); err != nil {
			return fmt.Errorf("failed to get version: %w", err)
		}

	case "create":
		if len(arguments) == 0 {
			return fmt.Errorf("create requires a migration name")
		}
		if err := goose.Create(db, *dir, arguments[0], "sql"); err != nil {
			return fmt.Errorf("failed to create migration: %w", err)
		}
		fmt.Printf("created migration %s\n", arguments[0])

	default:
		return fmt.Errorf("unknown command %q\n%s", command, usage)
	}

	return nil
}
