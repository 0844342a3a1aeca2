// Package tasks runs long data operations against the store with progress reporting.
//
// # Core Operations
//
// [DataEngine] implements two interfaces:
//
//  1. [Seeder.Seed] : Load CSV files listed in a manifest
//     - Resolves each file name to a table (artists.csv → Artists)
//     - Parses cells by column kind, normalizing slash dates
//     - Inserts each file in a single transaction
//
//  2. [Exporter.BulkExport] : Write tables to disk
//     - Reads tables in dependency order, rate limited
//     - Renders files concurrently on a worker pool
//     - Writes a manifest.csv next to CSV exports so they can be seeded again
//
// # Progress Reporting
//
// Operations accept an optional channel of [ProgressUpdate] values.
// Updates use select with default so a slow reader never blocks an operation.
package tasks
