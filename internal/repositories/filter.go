package repositories

import (
	"fmt"
	"slices"
	"strings"

	"github.com/desertthunder/monty/internal/models"
)

// Op is the comparison applied by a filter [Term].
type Op int

const (
	Eq Op = iota
	Like
	IsNull
)

func (o Op) String() string {
	switch o {
	case Eq:
		return "="
	case Like:
		return "LIKE"
	case IsNull:
		return "IS NULL"
	default:
		return ""
	}
}

// Term is one predicate of a [Filter].
type Term struct {
	Column string
	Op     Op
	Value  any
}

// Filter is a conjunction of terms. The zero value matches every row.
type Filter []Term

// Where starts a filter with a wildcard-aware term, see [Filter.Where].
func Where(col string, v any) Filter {
	return Filter{}.Where(col, v)
}

// Exact starts a filter with a literal term, see [Filter.Exact].
func Exact(col string, v any) Filter {
	return Filter{}.Exact(col, v)
}

// ByID matches the row with the given Id.
func ByID(id int64) Filter {
	return Exact(models.IDColumn, id)
}

// MatchRow builds an exact filter on every column of row, in sorted column order.
func MatchRow(row models.Row) Filter {
	cols := make([]string, 0, len(row))
	for col := range row {
		cols = append(cols, col)
	}
	slices.Sort(cols)

	f := Filter{}
	for _, col := range cols {
		f = f.Exact(col, row[col])
	}
	return f
}

// Where adds a term that uses LIKE when v is a string containing '%', IS NULL when v is nil and equality otherwise.
func (f Filter) Where(col string, v any) Filter {
	if s, ok := v.(string); ok && strings.Contains(s, "%") {
		return append(f, Term{Column: col, Op: Like, Value: s})
	}
	return f.Exact(col, v)
}

// Exact adds a term that never treats '%' as a wildcard.
func (f Filter) Exact(col string, v any) Filter {
	if v == nil {
		return append(f, Term{Column: col, Op: IsNull})
	}
	return append(f, Term{Column: col, Op: Eq, Value: v})
}

// Columns lists the columns referenced by the filter.
func (f Filter) Columns() []string {
	cols := make([]string, len(f))
	for i, t := range f {
		cols[i] = t.Column
	}
	return cols
}

// clause compiles the filter into a WHERE clause for table t.
// The clause is empty for an empty filter.
func (f Filter) clause(t *models.Table) (string, []any, error) {
	if len(f) == 0 {
		return "", nil, nil
	}

	preds := make([]string, 0, len(f))
	args := make([]any, 0, len(f))
	for _, term := range f {
		if !t.Has(term.Column) {
			return "", nil, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, t.Name, term.Column)
		}

		switch term.Op {
		case IsNull:
			preds = append(preds, quote(term.Column)+" IS NULL")
		case Like:
			preds = append(preds, quote(term.Column)+" LIKE ?")
			args = append(args, term.Value)
		default:
			preds = append(preds, quote(term.Column)+" = ?")
			args = append(args, term.Value)
		}
	}
	return " WHERE " + strings.Join(preds, " AND "), args, nil
}

func (f Filter) String() string {
	parts := make([]string, len(f))
	for i, t := range f {
		if t.Op == IsNull {
			parts[i] = t.Column + " " + t.Op.String()
			continue
		}
		parts[i] = fmt.Sprintf("%s %s %v", t.Column, t.Op, t.Value)
	}
	return strings.Join(parts, " AND ")
}

// quote wraps an identifier in backticks, understood by both SQLite and MySQL.
func quote(ident string) string {
	return "`" + ident + "`"
}
