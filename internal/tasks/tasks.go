// package tasks implements seeding and bulk export of the media store tables.
//
// The core abstraction is DataEngine, which runs both operations against a [repositories.Store].
// Operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/monty/internal/models"
	"github.com/desertthunder/monty/internal/repositories"
)

// SeedFileResult describes one file loaded by [Seeder.Seed].
type SeedFileResult struct {
	File  string // Path of the CSV file
	Table string // Table the rows were written to
	Rows  int    // Number of rows inserted
}

// SeedResult contains the files loaded by a seed run, in manifest order.
type SeedResult struct {
	Manifest  string
	Files     []SeedFileResult
	TotalRows int
}

// TableExportResult describes the export of a single table.
type TableExportResult struct {
	Table string // Table name
	Rows  int    // Rows written
	File  string // Path of the written file, empty on failure
	Error error  // Error if the export failed
}

// BulkExportResult summarizes a [Exporter.BulkExport] run.
type BulkExportResult struct {
	TotalTables       int
	SuccessfulExports int
	FailedExports     int
	OutputDirectory   string
	ManifestPath      string              // Empty unless the format is CSV
	Results           []TableExportResult // In table dependency order
}

// Seeder loads table data from CSV files.
type Seeder interface {
	// Seed reads the manifest at path and inserts every listed file, each in its own transaction.
	Seed(ctx context.Context, progress chan<- ProgressUpdate, manifestPath string) (*SeedResult, error)
}

// Exporter writes table data to files.
type Exporter interface {
	// BulkExport writes each table to its own file under the configured output directory.
	BulkExport(ctx context.Context, progress chan<- ProgressUpdate, tables []*models.Table, opts BulkExportOpts) (*BulkExportResult, error)
}

// DataEngine implements [Seeder] and [Exporter] over a store.
type DataEngine struct {
	store  *repositories.Store
	logger *log.Logger
}

// NewDataEngine creates a new DataEngine. A nil logger discards output.
func NewDataEngine(store *repositories.Store, logger *log.Logger) *DataEngine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &DataEngine{store: store, logger: logger}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *DataEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
