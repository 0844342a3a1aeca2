package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/monty/internal/models"
	"github.com/desertthunder/monty/internal/shared"
	"github.com/desertthunder/monty/internal/tasks"
	"github.com/urfave/cli/v3"
)

// DBSeed loads the CSV files listed in the seed manifest.
func (r *Runner) DBSeed(ctx context.Context, cmd *cli.Command) error {
	manifest := cmd.String("manifest")
	if manifest == "" {
		manifest = r.config.Seed.Manifest
	}
	if manifest == "" {
		return fmt.Errorf("%w: --manifest or seed.manifest", shared.ErrMissingArgument)
	}

	store, closeDB, err := r.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeDB()

	engine := tasks.NewDataEngine(store, shared.WithLogger(r.logger, "component", "seed"))

	progress := make(chan tasks.ProgressUpdate, 16)
	done := make(chan struct{})
	go r.printProgress(progress, done)

	result, err := engine.Seed(ctx, progress, manifest)
	close(progress)
	<-done

	if err != nil {
		if result != nil && len(result.Files) > 0 {
			r.logger.Warn("seed stopped early", "files_loaded", len(result.Files), "rows", result.TotalRows)
		}
		return fmt.Errorf("seed failed: %w", err)
	}

	r.writePlainln("✓ Seeded %d rows from %d files", result.TotalRows, len(result.Files))
	return nil
}

// DBDrop deletes the SQLite database file.
func (r *Runner) DBDrop(ctx context.Context, cmd *cli.Command) error {
	if r.config.Database.Driver != shared.DriverSQLite {
		return fmt.Errorf("%w: drop only removes %s databases", shared.ErrUnsupportedDriver, shared.DriverSQLite)
	}

	path := r.config.Database.Path
	if err := shared.RemoveDatabase(path); err != nil {
		return err
	}
	r.logger.Info("database removed", "path", path)
	return r.writePlain("✓ Removed %s\n", path)
}

// DBRollback rolls back the most recent migration.
func (r *Runner) DBRollback(ctx context.Context, cmd *cli.Command) error {
	db, closeDB, err := r.openDB(ctx)
	if err != nil {
		return err
	}
	defer closeDB()

	if err := shared.RollbackMigration(db, r.config.Database.Driver); err != nil {
		return fmt.Errorf("rollback failed: %w", err)
	}

	applied, err := shared.AppliedMigrations(db)
	if err != nil {
		return err
	}
	r.logger.Info("migration rolled back", "remaining", len(applied))
	return r.writePlain("✓ Rolled back, %d migrations remain applied\n", len(applied))
}

// DatabaseStatus is the output of "db status".
type DatabaseStatus struct {
	Driver     string           `json:"driver"`
	Migrations []int            `json:"migrations"`
	Tables     map[string]int64 `json:"tables"`
}

// DBStatus reports applied migrations and the row count of every table.
func (r *Runner) DBStatus(ctx context.Context, cmd *cli.Command) error {
	store, closeDB, err := r.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeDB()

	applied, err := shared.AppliedMigrations(store.DB())
	if err != nil {
		return err
	}

	status := DatabaseStatus{
		Driver:     store.Driver(),
		Migrations: applied,
		Tables:     make(map[string]int64),
	}
	for _, t := range models.Tables() {
		n, err := store.Count(ctx, t)
		if err != nil {
			return err
		}
		status.Tables[t.Name] = n
	}

	if cmd.Bool("json") {
		return r.writeJSON(status, true)
	}

	r.writePlainHeader("Database Status")
	r.writePlain("Driver:     %s\n", status.Driver)
	r.writePlain("Migrations: %v\n\n", status.Migrations)
	for _, t := range models.Tables() {
		r.writePlain("  %-16s %d\n", t.Name, status.Tables[t.Name])
	}
	return nil
}
