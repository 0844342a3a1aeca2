package tasks

import (
	"fmt"

	"github.com/desertthunder/monty/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ReadManifest Phase = iota
	SeedTable
	FetchTable
	ExportTable
	WriteManifest
)

func (p Phase) String() string {
	switch p {
	case ReadManifest:
		return "read_manifest"
	case SeedTable:
		return "seed_table"
	case FetchTable:
		return "fetch_table"
	case ExportTable:
		return "export_table"
	case WriteManifest:
		return "write_manifest"
	default:
		return ""
	}
}

func readManifestUpdate(path string, files int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ReadManifest,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Read manifest %s (%d files)", path, files),
	}
}

func seedingTableUpdate(step, total int, file string, t *models.Table) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SeedTable,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Seeding %s from %s...", step, total, t.Name, file),
	}
}

func seededTableUpdate(step, total int, res SeedFileResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SeedTable,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d rows)", step, total, res.Table, res.Rows),
		Data:    res,
	}
}

func fetchTableUpdate(step, total int, t *models.Table, rows int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTable,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Exporting: %s (%d rows)...", step, total, t.Name, rows),
	}
}

func exportCompletedUpdate(step, total int, res TableExportResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportTable,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d rows)", step, total, res.Table, res.Rows),
		Data:    res,
	}
}

func exportFailedUpdate(step, total int, res TableExportResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportTable,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, res.Table, res.Error),
		Data:    res,
	}
}

func writeManifestUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteManifest,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Wrote manifest %s", path),
	}
}
