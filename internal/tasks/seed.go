package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/monty/internal/formatter"
	"github.com/desertthunder/monty/internal/models"
	"github.com/desertthunder/monty/internal/shared"
)

// TableForFile resolves a seed file name to its table.
//
// The extension, underscores and dashes are ignored, so "artists.csv", "Artists.csv"
// and "invoice_items.csv" all resolve.
func TableForFile(name string) (*models.Table, error) {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.NewReplacer("_", "", "-", "").Replace(base)

	t, ok := models.Lookup(base)
	if !ok {
		return nil, fmt.Errorf("%w: no table for seed file %q", shared.ErrUnknownTable, name)
	}
	return t, nil
}

type seedFile struct {
	path  string
	table *models.Table
}

// Seed reads the manifest at manifestPath and loads every file it lists, in order.
//
// File names are relative to the manifest. Every name is resolved before anything is
// written; a failing file stops the run, leaving earlier files committed.
func (e *DataEngine) Seed(ctx context.Context, progress chan<- ProgressUpdate, manifestPath string) (*SeedResult, error) {
	f, err := os.Open(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	names, err := formatter.ReadManifest(f)
	f.Close()
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(manifestPath)
	files := make([]seedFile, 0, len(names))
	for _, name := range names {
		t, err := TableForFile(name)
		if err != nil {
			return nil, err
		}
		path := name
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, name)
		}
		files = append(files, seedFile{path: path, table: t})
	}
	e.sendProgress(progress, readManifestUpdate(manifestPath, len(files)))

	result := &SeedResult{Manifest: manifestPath, Files: make([]SeedFileResult, 0, len(files))}
	for i, sf := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		e.sendProgress(progress, seedingTableUpdate(i+1, len(files), sf.path, sf.table))
		res, err := e.seedFile(ctx, sf)
		if err != nil {
			return result, fmt.Errorf("failed to seed %s: %w", sf.path, err)
		}

		result.Files = append(result.Files, res)
		result.TotalRows += res.Rows
		e.logger.Info("seeded table", "table", res.Table, "rows", res.Rows, "file", res.File)
		e.sendProgress(progress, seededTableUpdate(i+1, len(files), res))
	}
	return result, nil
}

func (e *DataEngine) seedFile(ctx context.Context, sf seedFile) (SeedFileResult, error) {
	res := SeedFileResult{File: sf.path, Table: sf.table.Name}

	f, err := os.Open(sf.path)
	if err != nil {
		return res, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()

	rows, err := formatter.ReadCSV(f, sf.table)
	if err != nil {
		return res, err
	}
	if len(rows) == 0 {
		return res, nil
	}

	n, err := e.store.BulkInsert(ctx, sf.table, rows)
	if err != nil {
		return res, err
	}
	res.Rows = n
	return res, nil
}
