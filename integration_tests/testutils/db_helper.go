package testutils

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	catalogmigrations "github.com/platina-lab/platina-lab/app/modules/catalog/infrastructure/repositories/migrations"
	decodermigrations "github.com/platina-lab/platina-lab/app/modules/decoder/infrastructure/repositories/migrations"
	progressmigrations "github.com/platina-lab/platina-lab/app/modules/progress/infrastructure/repositories/migrations"
	resultmigrations "github.com/platina-lab/platina-lab/app/modules/result/infrastructure/repositories/migrations"
)

// NewBunDB opens a bun.DB for the given connection string.
func NewBunDB(connStr string) *bun.DB {
	pgdb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(connStr)))
	return bun.NewDB(pgdb, pgdialect.New())
}

// RunMigrations brings a fresh database to the current schema: River's own
// tables first, then the module tables in foreign-key order.
func RunMigrations(ctx context.Context, db *bun.DB, connStr string) error {
	migrator := migrate.NewMigrator(db, catalogmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize migration tables: %w", err)
	}

	if err := runRiverMigrations(ctx, connStr); err != nil {
		return fmt.Errorf("failed to run River migrations: %w", err)
	}

	// decode_results and decoder_progress reference the catalog and
	// decoders tables.
	orderedModules := []struct {
		name       string
		migrations *migrate.Migrations
	}{
		{"catalog", catalogmigrations.Migrations},
		{"decoder", decodermigrations.Migrations},
		{"result", resultmigrations.Migrations},
		{"progress", progressmigrations.Migrations},
	}

	for _, mod := range orderedModules {
		if err := runModuleMigrations(ctx, db, mod.migrations, mod.name); err != nil {
			return err
		}
	}
	log.Println("All migrations ran successfully")
	return nil
}

func runRiverMigrations(ctx context.Context, connStr string) error {
	config, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return fmt.Errorf("failed to parse DSN for River migrations: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return fmt.Errorf("failed to create pgx pool for River migrations: %w", err)
	}
	defer pool.Close()

	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		return fmt.Errorf("failed to create River migrator: %w", err)
	}

	if _, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, &rivermigrate.MigrateOpts{}); err != nil {
		return fmt.Errorf("failed to run River migrations: %w", err)
	}
	return nil
}

func runModuleMigrations(ctx context.Context, db *bun.DB, migrations *migrate.Migrations, name string) error {
	migrator := migrate.NewMigrator(db, migrations)
	group, err := migrator.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("failed to run %s migrations: %w", name, err)
	}
	if group.ID == 0 {
		log.Printf("No %s migrations to run", name)
	} else {
		log.Printf("Ran %s migrations group #%d", name, group.ID)
	}
	return nil
}

// appTables lists the application tables in dependency order for cleanup.
var appTables = []string{"decoder_progress", "decode_results", "decoders", "platina_patterns", "platina_songs"}

// CleanupDatabase truncates every application table plus River's job table.
func CleanupDatabase(ctx context.Context, db *bun.DB) error {
	query := fmt.Sprintf("TRUNCATE TABLE %s CASCADE", strings.Join(appTables, ", "))
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}

	if _, err := db.ExecContext(ctx, "DELETE FROM river_job"); err != nil {
		if !strings.Contains(err.Error(), "does not exist") {
			return fmt.Errorf("failed to cleanup river jobs: %w", err)
		}
	}

	return nil
}
