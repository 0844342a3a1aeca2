package repositories

import (
	"database/sql"

	"github.com/desertthunder/monty/internal/models"
)

// scanRows reads every row into a [models.Row], converting NULL to nil and
// each value to the Go type of its column kind.
func scanRows(rows *sql.Rows, t *models.Table, cols []string) ([]models.Row, error) {
	out := []models.Row{}
	for rows.Next() {
		dest := make([]any, len(cols))
		for i, col := range cols {
			c, _ := t.Column(col)
			switch c.Kind {
			case models.Int:
				dest[i] = new(sql.NullInt64)
			case models.Decimal:
				dest[i] = new(sql.NullFloat64)
			default:
				dest[i] = new(sql.NullString)
			}
		}

		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}

		row := make(models.Row, len(cols))
		for i, col := range cols {
			row[col] = value(dest[i])
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func value(v any) any {
	switch n := v.(type) {
	case *sql.NullInt64:
		if n.Valid {
			return n.Int64
		}
	case *sql.NullFloat64:
		if n.Valid {
			return n.Float64
		}
	case *sql.NullString:
		if n.Valid {
			return n.String
		}
	}
	return nil
}
