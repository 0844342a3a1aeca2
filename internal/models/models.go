// package models defines the data model for the media store web service
package models

import (
	"fmt"
	"strconv"
)

// Columns present on every table.
const (
	IDColumn          = "Id"
	DateCreatedColumn = "DateCreated"
	DateUpdatedColumn = "DateUpdated"
)

// Row is one table row keyed by column name.
//
// Values are nil, int64, float64 or string.
type Row map[string]any

// ID returns the row's Id column, if set.
func (r Row) ID() (int64, bool) {
	v, ok := r[IDColumn].(int64)
	return v, ok
}

// Text renders a column value for display. NULL renders as an empty string.
func (r Row) Text(col string) string {
	switch v := r[col].(type) {
	case nil:
		return ""
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// Kind is the storage class of a column.
type Kind int

const (
	Int Kind = iota
	Text
	Decimal
	Date
)

func (k Kind) String() string {
	switch k {
	case Int:
		return "int"
	case Text:
		return "text"
	case Decimal:
		return "decimal"
	case Date:
		return "date"
	default:
		return ""
	}
}

// Column describes one descriptive column of a table.
type Column struct {
	Name     string
	Kind     Kind
	Nullable bool
}

// Payload is a validated request body that can be persisted as a row.
type Payload interface {
	Fields() Row // Fields returns every payload column, with nil for absent nullable values
}

// Table describes one table of the store.
type Table struct {
	Name       string            // SQL table name
	Entity     string            // singular label used in messages, e.g. "Album"
	Resource   string            // URL segment of the table's router, empty when not exposed
	NameColumn string            // column matched by name lookups, empty when the table has none
	Columns    []Column          // descriptive columns, excluding Id and the date columns
	NewPayload func() Payload    // allocates an empty request body for decoding
	lookup     map[string]Column // built by register
}

// Column returns the descriptor of a column, including Id and the date columns.
func (t *Table) Column(name string) (Column, bool) {
	c, ok := t.lookup[name]
	return c, ok
}

// Has reports whether name is a column of the table.
func (t *Table) Has(name string) bool {
	_, ok := t.lookup[name]
	return ok
}

// ColumnNames returns Id, the descriptive columns and the date columns, in schema order.
func (t *Table) ColumnNames() []string {
	names := make([]string, 0, len(t.Columns)+3)
	names = append(names, IDColumn)
	for _, c := range t.Columns {
		names = append(names, c.Name)
	}
	return append(names, DateCreatedColumn, DateUpdatedColumn)
}

// Writable reports whether name may be set by an insert or update.
//
// The date columns are maintained by the data layer.
func (t *Table) Writable(name string) bool {
	return t.Has(name) && name != DateCreatedColumn && name != DateUpdatedColumn
}

// Exposed reports whether the table has an HTTP router.
func (t *Table) Exposed() bool {
	return t.Resource != ""
}

func (t *Table) String() string {
	return t.Name
}
