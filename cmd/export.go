package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/monty/internal/formatter"
	"github.com/desertthunder/monty/internal/models"
	"github.com/desertthunder/monty/internal/shared"
	"github.com/desertthunder/monty/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Export writes tables to files with the bulk export worker pool.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	tables, err := resolveTables(cmd.StringSlice("tables"))
	if err != nil {
		return err
	}

	store, closeDB, err := r.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeDB()

	engine := tasks.NewDataEngine(store, shared.WithLogger(r.logger, "component", "export"))

	var progress chan tasks.ProgressUpdate
	done := make(chan struct{})
	if cmd.Bool("json") {
		close(done)
	} else {
		progress = make(chan tasks.ProgressUpdate, 16)
		go r.printProgress(progress, done)
	}

	result, err := engine.BulkExport(ctx, progress, tables, tasks.BulkExportOpts{
		Format:     format,
		OutputDir:  cmd.String("output"),
		NumWorkers: int(cmd.Int("workers")),
	})
	if progress != nil {
		close(progress)
	}
	<-done

	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(exportSummary(result), true)
	}

	r.writePlainln("✓ Exported %d/%d tables to %s", result.SuccessfulExports, result.TotalTables, result.OutputDirectory)
	if result.ManifestPath != "" {
		r.writePlain("Manifest: %s\n", result.ManifestPath)
	}
	for _, res := range result.Results {
		if res.Error != nil {
			r.writePlain("  ✗ %s: %v\n", res.Table, res.Error)
		}
	}

	if result.FailedExports > 0 {
		return fmt.Errorf("%d of %d tables failed to export", result.FailedExports, result.TotalTables)
	}
	return nil
}

// resolveTables maps table names to descriptors in dependency order. No names means every table.
func resolveTables(names []string) ([]*models.Table, error) {
	if len(names) == 0 {
		return models.Tables(), nil
	}

	wanted := make(map[*models.Table]bool, len(names))
	for _, name := range names {
		t, ok := models.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", shared.ErrUnknownTable, name)
		}
		wanted[t] = true
	}

	var tables []*models.Table
	for _, t := range models.Tables() {
		if wanted[t] {
			tables = append(tables, t)
		}
	}
	return tables, nil
}

type exportTableSummary struct {
	Table string `json:"table"`
	Rows  int    `json:"rows"`
	File  string `json:"file,omitempty"`
	Error string `json:"error,omitempty"`
}

type exportResultSummary struct {
	TotalTables       int                  `json:"total_tables"`
	SuccessfulExports int                  `json:"successful_exports"`
	FailedExports     int                  `json:"failed_exports"`
	OutputDirectory   string               `json:"output_directory"`
	ManifestPath      string               `json:"manifest_path,omitempty"`
	Results           []exportTableSummary `json:"results"`
}

func exportSummary(result *tasks.BulkExportResult) exportResultSummary {
	out := exportResultSummary{
		TotalTables:       result.TotalTables,
		SuccessfulExports: result.SuccessfulExports,
		FailedExports:     result.FailedExports,
		OutputDirectory:   result.OutputDirectory,
		ManifestPath:      result.ManifestPath,
		Results:           make([]exportTableSummary, len(result.Results)),
	}
	for i, res := range result.Results {
		out.Results[i] = exportTableSummary{Table: res.Table, Rows: res.Rows, File: res.File}
		if res.Error != nil {
			out.Results[i].Error = res.Error.Error()
		}
	}
	return out
}
