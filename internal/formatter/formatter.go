// package formatter converts table rows to and from the export formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/monty/internal/models"
	"github.com/desertthunder/monty/internal/shared"
)

// ErrBadHeader is returned by [ReadCSV] when a header names no column of the table.
var ErrBadHeader = errors.New("invalid CSV header")

// Format is an export file format.
type Format string

const (
	CSV      Format = "csv"
	Markdown Format = "markdown"
	Text     Format = "txt"
	JSON     Format = "json"
)

// Formats lists every supported export format.
func Formats() []Format {
	return []Format{CSV, Markdown, Text, JSON}
}

// ParseFormat resolves a format name, accepting "md" and "text" as aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return CSV, nil
	case "markdown", "md":
		return Markdown, nil
	case "txt", "text":
		return Text, nil
	case "json":
		return JSON, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, s)
	}
}

// Ext returns the file extension written for the format, without the dot.
func (f Format) Ext() string {
	if f == Markdown {
		return "md"
	}
	return string(f)
}

// CSVColumns returns the columns written to and accepted from CSV: Id followed by the descriptive columns.
func CSVColumns(t *models.Table) []string {
	cols := []string{models.IDColumn}
	for _, c := range t.Columns {
		cols = append(cols, c.Name)
	}
	return cols
}

// RowTitle returns the display title of a row: its name column, or "#Id" for tables without one.
func RowTitle(t *models.Table, row models.Row) string {
	if t.NameColumn != "" {
		if name := row.Text(t.NameColumn); name != "" {
			return name
		}
	}
	return "#" + row.Text(models.IDColumn)
}

// RowSummary renders the descriptive columns of a row as "Col=value" pairs, skipping NULLs
// and the name column.
func RowSummary(t *models.Table, row models.Row) string {
	parts := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		if c.Name == t.NameColumn || row[c.Name] == nil {
			continue
		}
		parts = append(parts, c.Name+"="+row.Text(c.Name))
	}
	return strings.Join(parts, ", ")
}

// ExportToCSV writes rows with a header of [CSVColumns]. NULL values are written as empty cells.
func ExportToCSV(t *models.Table, rows []models.Row) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := CSVColumns(t)
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, row := range rows {
		record := make([]string, len(headers))
		for i, col := range headers {
			record[i] = row.Text(col)
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ReadCSV parses a headed CSV file into rows of t.
//
// Headers must name columns of t; DateCreated and DateUpdated are accepted and dropped.
// Empty cells become NULL for nullable columns, Int and Decimal cells are parsed,
// and Date cells are normalized with [shared.NormalizeDate].
func ReadCSV(r io.Reader, t *models.Table) ([]models.Row, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: %s: empty file", ErrBadHeader, t.Name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}

	cols := make([]*models.Column, len(headers))
	for i, h := range headers {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		headers[i] = h
		if h == models.DateCreatedColumn || h == models.DateUpdatedColumn {
			continue
		}
		c, ok := t.Column(h)
		if !ok {
			return nil, fmt.Errorf("%w: %s has no column %q", ErrBadHeader, t.Name, h)
		}
		cols[i] = &c
	}

	var rows []models.Row
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV line %d: %w", line, err)
		}

		row := make(models.Row, len(record))
		for i, cell := range record {
			if cols[i] == nil {
				continue
			}
			v, err := parseCell(*cols[i], cell)
			if err != nil {
				return nil, fmt.Errorf("%s line %d: %w", t.Name, line, err)
			}
			row[cols[i].Name] = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseCell(c models.Column, cell string) (any, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		if c.Nullable {
			return nil, nil
		}
		if c.Kind == models.Text {
			return "", nil
		}
		return nil, fmt.Errorf("%w: %s is required", shared.ErrInvalidInput, c.Name)
	}

	switch c.Kind {
	case models.Int:
		n, err := strconv.ParseInt(cell, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %q is not an integer", shared.ErrInvalidInput, c.Name, cell)
		}
		return n, nil
	case models.Decimal:
		f, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %q is not a number", shared.ErrInvalidInput, c.Name, cell)
		}
		return f, nil
	case models.Date:
		return shared.NormalizeDate(cell), nil
	default:
		return cell, nil
	}
}

// ExportToMarkdown renders rows as a Markdown document with one table.
func ExportToMarkdown(t *models.Table, rows []models.Row) ([]byte, error) {
	var buf bytes.Buffer
	cols := t.ColumnNames()

	buf.WriteString(fmt.Sprintf("# %s\n\n", t.Name))
	buf.WriteString(fmt.Sprintf("**Rows**: %d\n\n", len(rows)))

	if len(rows) == 0 {
		return buf.Bytes(), nil
	}

	buf.WriteString("| " + strings.Join(cols, " | ") + " |\n")
	buf.WriteString(strings.Repeat("|---", len(cols)) + "|\n")
	for _, row := range rows {
		cells := make([]string, len(cols))
		for i, col := range cols {
			cells[i] = strings.ReplaceAll(row.Text(col), "|", `\|`)
		}
		buf.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}

	return buf.Bytes(), nil
}

// ExportToText renders rows as a numbered plain text list.
func ExportToText(t *models.Table, rows []models.Row) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Table: %s\n", t.Name))
	buf.WriteString(fmt.Sprintf("Rows: %d\n\n", len(rows)))

	for i, row := range rows {
		line := fmt.Sprintf("%d. %s", i+1, RowTitle(t, row))
		if summary := RowSummary(t, row); summary != "" {
			line += " (" + summary + ")"
		}
		buf.WriteString(line + "\n")
	}

	return buf.Bytes(), nil
}

// ExportToJSON renders rows as an indented JSON array.
func ExportToJSON(rows []models.Row) ([]byte, error) {
	if rows == nil {
		rows = []models.Row{}
	}
	return shared.MarshalJSON(rows, true)
}

// Export renders rows in the given format.
func Export(f Format, t *models.Table, rows []models.Row) ([]byte, error) {
	switch f {
	case CSV:
		return ExportToCSV(t, rows)
	case Markdown:
		return ExportToMarkdown(t, rows)
	case Text:
		return ExportToText(t, rows)
	case JSON:
		return ExportToJSON(rows)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, f)
	}
}

// Filename returns the file name an export of t is written to, e.g. "Artists.csv".
func Filename(t *models.Table, f Format) string {
	return t.Name + "." + f.Ext()
}

// WriteExport renders rows and writes them to {dir}/{Table}.{ext}, creating dir if needed.
//
// Returns the path of the written file.
func WriteExport(f Format, t *models.Table, rows []models.Row, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := Export(f, t, rows)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", f, err)
	}

	path := filepath.Join(dir, Filename(t, f))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s file: %w", f, err)
	}
	return path, nil
}

// WriteManifest writes {dir}/manifest.csv listing files, one per row, in order.
func WriteManifest(dir string, files []string) (string, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	for _, f := range files {
		if err := writer.Write([]string{f}); err != nil {
			return "", fmt.Errorf("failed to write manifest entry: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("CSV writer error: %w", err)
	}

	path := filepath.Join(dir, "manifest.csv")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}
	return path, nil
}

// ReadManifest returns the file names listed in a manifest, skipping blank lines.
func ReadManifest(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	files := make([]string, 0, len(records))
	for _, rec := range records {
		if len(rec) == 0 {
			continue
		}
		if name := strings.TrimSpace(rec[0]); name != "" {
			files = append(files, name)
		}
	}
	return files, nil
}
