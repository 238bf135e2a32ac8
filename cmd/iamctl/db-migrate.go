package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/iam-in-go/pkg/db"
)

// migrationsTable keeps golang-migrate bookkeeping apart from application tables
const migrationsTable = "iam_schema_migrations"

var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	Long: `Apply every pending schema migration.

Migrations are embedded in the binary when built with the embed_migrations
tag, and read from IAM_MIGRATIONS_PATH (default db/migrations) otherwise.

Example:
  iamctl db migrate`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrations(cmd.OutOrStdout())
	},
}

var dbMigrateDownCmd = &cobra.Command{
	Use:   "down [steps]",
	Short: "Roll back schema migrations",
	Long: `Roll back the most recent schema migrations, one step by default.

Example:
  iamctl db down      # Rollback 1 migration
  iamctl db down 3    # Rollback 3 migrations`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		steps := 1
		if len(args) > 0 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n <= 0 {
				return fmt.Errorf("steps must be a positive integer, got %q", args[0])
			}
			steps = n
		}
		return runMigrationsDown(cmd.OutOrStdout(), steps)
	},
}

var dbMigrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the applied schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showMigrationStatus(cmd.OutOrStdout())
	},
}

func init() {
	dbCmd.AddCommand(dbMigrateCmd)
	dbCmd.AddCommand(dbMigrateDownCmd)
	dbCmd.AddCommand(dbMigrateStatusCmd)
}

// withMigrationsTable appends the x-migrations-table parameter to dbURL
func withMigrationsTable(dbURL string) string {
	if dbURL == "" {
		return ""
	}
	if strings.Contains(dbURL, "?") {
		return dbURL + "&x-migrations-table=" + migrationsTable
	}
	return dbURL + "?x-migrations-table=" + migrationsTable
}

func openMigrate() (*migrate.Migrate, error) {
	dbURL := db.URL()
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	m, err := createMigrateInstance(withMigrationsTable(dbURL))
	if err != nil {
		return nil, fmt.Errorf("open migrations: %w", err)
	}
	return m, nil
}

// schemaVersion reports the applied version, or 0 when nothing is applied
func schemaVersion(m *migrate.Migrate) (uint, bool, error) {
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

func runMigrations(out io.Writer) error {
	m, err := openMigrate()
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	from, _, err := schemaVersion(m)
	if err != nil {
		return err
	}

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		fmt.Fprintf(out, "Schema already at version %d\n", from)
		return nil
	case err != nil:
		return fmt.Errorf("migrate up from version %d: %w", from, err)
	}

	to, _, err := schemaVersion(m)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Schema migrated from version %d to %d\n", from, to)
	return nil
}

func runMigrationsDown(out io.Writer, steps int) error {
	m, err := openMigrate()
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Steps(-steps); err != nil {
		return fmt.Errorf("roll back %d step(s): %w", steps, err)
	}

	to, _, err := schemaVersion(m)
	if err != nil {
		return err
	}
	if to == 0 {
		fmt.Fprintln(out, "Schema is empty, every migration was rolled back")
		return nil
	}
	fmt.Fprintf(out, "Schema rolled back %d step(s) to version %d\n", steps, to)
	return nil
}

func showMigrationStatus(out io.Writer) error {
	m, err := openMigrate()
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	version, dirty, err := schemaVersion(m)
	if err != nil {
		return err
	}

	state := "clean"
	if dirty {
		state = "dirty"
	}
	fmt.Fprintf(out, "version: %d (%s)\n", version, state)
	if files, err := listMigrationFiles(); err == nil {
		fmt.Fprintf(out, "available: %d\n", len(files))
	}
	return nil
}
