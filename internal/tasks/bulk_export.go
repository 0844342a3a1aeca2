package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/desertthunder/monty/internal/formatter"
	"github.com/desertthunder/monty/internal/models"
	"github.com/desertthunder/monty/internal/shared"
	"golang.org/x/time/rate"
)

// BulkExportOpts contains configuration for bulk table exports.
type BulkExportOpts struct {
	Format     formatter.Format // Export format: csv, markdown, txt, json (default: csv)
	OutputDir  string           // Base output directory (default: monty_export_{epoch})
	NumWorkers int              // Concurrent file writers (default: 4, max 10)
	RateLimit  float64          // Table reads per second (default: 10)
}

type tableExportJob struct {
	index int
	table *models.Table
	rows  []models.Row
}

type indexedResult struct {
	index int
	TableExportResult
}

// BulkExport exports tables concurrently with rate limited reads and progress tracking.
//
// Tables are read one at a time on a single goroutine and rendered by a pool of workers.
// A failure to read or write one table is recorded in its result and does not stop the others.
// CSV exports get a manifest.csv listing the successful files in dependency order.
func (e *DataEngine) BulkExport(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	tables []*models.Table,
	opts BulkExportOpts,
) (*BulkExportResult, error) {
	if e.store == nil {
		return nil, fmt.Errorf("%w: store not initialized", shared.ErrServiceUnavailable)
	}

	if opts.Format == "" {
		opts.Format = formatter.CSV
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("monty_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 10.0
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan tableExportJob, len(tables))
	results := make(chan indexedResult, len(tables))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, opts)
	}

	go func() {
		defer close(jobs)
		for i, t := range tables {
			if err := limiter.Wait(ctx); err != nil {
				return
			}

			rows, err := e.store.Select(ctx, t, nil)
			if err != nil {
				results <- indexedResult{i, TableExportResult{
					Table: t.Name,
					Error: fmt.Errorf("failed to read table: %w", err),
				}}
				continue
			}

			e.sendProgress(prog, fetchTableUpdate(i+1, len(tables), t, len(rows)))
			jobs <- tableExportJob{index: i, table: t, rows: rows}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	ordered := make([]*TableExportResult, len(tables))
	completed := 0
	for res := range results {
		completed++
		r := res.TableExportResult
		ordered[res.index] = &r

		if r.Error == nil {
			e.sendProgress(prog, exportCompletedUpdate(completed, len(tables), r))
		} else {
			e.logger.Error("table export failed", "table", r.Table, "error", r.Error)
			e.sendProgress(prog, exportFailedUpdate(completed, len(tables), r))
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &BulkExportResult{
		TotalTables:     len(tables),
		OutputDirectory: opts.OutputDir,
		Results:         make([]TableExportResult, 0, len(tables)),
	}

	var files []string
	for _, r := range ordered {
		if r == nil {
			continue
		}
		result.Results = append(result.Results, *r)
		if r.Error != nil {
			result.FailedExports++
			continue
		}
		result.SuccessfulExports++
		files = append(files, filepath.Base(r.File))
	}

	if opts.Format == formatter.CSV {
		path, err := formatter.WriteManifest(opts.OutputDir, files)
		if err != nil {
			return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
		}
		result.ManifestPath = path
		e.sendProgress(prog, writeManifestUpdate(path))
	}
	return result, nil
}

// exportWorker is a worker goroutine that writes tables from the jobs channel.
func (e *DataEngine) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan tableExportJob,
	results chan<- indexedResult,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res := TableExportResult{Table: job.table.Name, Rows: len(job.rows)}
		path, err := formatter.WriteExport(opts.Format, job.table, job.rows, opts.OutputDir)
		if err != nil {
			res.Error = fmt.Errorf("%s export failed: %w", opts.Format, err)
		} else {
			res.File = path
		}
		results <- indexedResult{job.index, res}
	}
}
