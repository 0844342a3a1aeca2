// package repositories provides the data access layer for every table of the store.
package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/monty/internal/models"
	"github.com/desertthunder/monty/internal/shared"
)

// querier is satisfied by both [sql.DB] and [sql.Tx].
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Store runs table operations against a database or a single transaction.
type Store struct {
	db     *sql.DB
	q      querier
	tx     *sql.Tx
	driver string
	logger *log.Logger
	trace  bool
	today  func() string
}

// Option configures a [Store].
type Option func(*Store)

// WithLogger sets the logger used for failures and tracing.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithTrace logs every statement at debug level.
func WithTrace(trace bool) Option {
	return func(s *Store) { s.trace = trace }
}

// WithDriver selects dialect specific behaviour. Defaults to [shared.DriverSQLite].
func WithDriver(driver string) Option {
	return func(s *Store) { s.driver = driver }
}

// WithClock overrides the date stamped on inserted and updated rows.
func WithClock(today func() string) Option {
	return func(s *Store) { s.today = today }
}

// NewStore creates a Store over db.
func NewStore(db *sql.DB, opts ...Option) *Store {
	s := &Store{
		db:     db,
		q:      db,
		driver: shared.DriverSQLite,
		today:  shared.Today,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	return s
}

// DB returns the underlying connection pool.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Driver returns the dialect the store was configured for.
func (s *Store) Driver() string {
	return s.driver
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Select returns the rows of t matching f, ordered by Id.
//
// No match is not an error: the result is an empty, non-nil slice.
func (s *Store) Select(ctx context.Context, t *models.Table, f Filter) ([]models.Row, error) {
	where, args, err := f.clause(t)
	if err != nil {
		return nil, s.fail("select", t, err)
	}

	cols := t.ColumnNames()
	query := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY %s", quoteAll(cols), quote(t.Name), where, quote(models.IDColumn))

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, s.fail("select", t, classify(err))
	}
	defer rows.Close()

	out, err := scanRows(rows, t, cols)
	if err != nil {
		return nil, s.fail("select", t, classify(err))
	}

	if s.trace {
		s.logger.Debug("selected", "table", t.Name, "filter", f.String(), "rows", len(out))
	}
	return out, nil
}

// Insert writes one row to t and returns its Id.
//
// DateCreated and DateUpdated are stamped with the current date.
func (s *Store) Insert(ctx context.Context, t *models.Table, row models.Row) (int64, error) {
	cols, args, err := writeColumns(t, row, true)
	if err != nil {
		return 0, s.fail("insert", t, err)
	}

	today := s.today()
	cols = append(cols, models.DateCreatedColumn, models.DateUpdatedColumn)
	args = append(args, today, today)

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", quote(t.Name), quoteAll(cols), placeholders(len(cols)))
	res, err := s.q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, s.fail("insert", t, classify(err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, s.fail("insert", t, classify(err))
	}

	if s.trace {
		s.logger.Debug("inserted", "table", t.Name, "id", id)
	}
	return id, nil
}

// Update applies changes to every row of t matching f and returns the number of rows affected.
//
// DateUpdated is stamped with the current date. An empty filter is rejected.
func (s *Store) Update(ctx context.Context, t *models.Table, f Filter, changes models.Row) (int64, error) {
	if len(f) == 0 {
		return 0, s.fail("update", t, ErrEmptyFilter)
	}

	cols, args, err := writeColumns(t, changes, false)
	if err != nil {
		return 0, s.fail("update", t, err)
	}
	cols = append(cols, models.DateUpdatedColumn)
	args = append(args, s.today())

	where, whereArgs, err := f.clause(t)
	if err != nil {
		return 0, s.fail("update", t, err)
	}

	sets := make([]string, len(cols))
	for i, c := range cols {
		sets[i] = quote(c) + " = ?"
	}

	query := fmt.Sprintf("UPDATE %s SET %s%s", quote(t.Name), strings.Join(sets, ", "), where)
	res, err := s.q.ExecContext(ctx, query, append(args, whereArgs...)...)
	if err != nil {
		return 0, s.fail("update", t, classify(err))
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, s.fail("update", t, classify(err))
	}

	if s.trace {
		s.logger.Debug("updated", "table", t.Name, "filter", f.String(), "rows", n)
	}
	return n, nil
}

// Delete removes every row of t matching f and returns the number of rows affected.
// An empty filter is rejected.
func (s *Store) Delete(ctx context.Context, t *models.Table, f Filter) (int64, error) {
	if len(f) == 0 {
		return 0, s.fail("delete", t, ErrEmptyFilter)
	}

	where, args, err := f.clause(t)
	if err != nil {
		return 0, s.fail("delete", t, err)
	}

	res, err := s.q.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s%s", quote(t.Name), where), args...)
	if err != nil {
		return 0, s.fail("delete", t, classify(err))
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, s.fail("delete", t, classify(err))
	}

	if s.trace {
		s.logger.Debug("deleted", "table", t.Name, "filter", f.String(), "rows", n)
	}
	return n, nil
}

// Count returns the number of rows in t.
func (s *Store) Count(ctx context.Context, t *models.Table) (int64, error) {
	rows, err := s.q.QueryContext(ctx, "SELECT COUNT(*) FROM "+quote(t.Name))
	if err != nil {
		return 0, s.fail("count", t, classify(err))
	}
	defer rows.Close()

	var n int64
	if rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return 0, s.fail("count", t, classify(err))
		}
	}
	if err := rows.Err(); err != nil {
		return 0, s.fail("count", t, classify(err))
	}
	return n, nil
}

// BulkInsert writes rows to t in one transaction and returns how many were written.
// Either every row is written or none is.
func (s *Store) BulkInsert(ctx context.Context, t *models.Table, rows []models.Row) (int, error) {
	var n int
	err := s.Tx(ctx, func(tx *Store) error {
		for i, row := range rows {
			if _, err := tx.Insert(ctx, t, row); err != nil {
				return fmt.Errorf("row %d: %w", i+1, err)
			}
			n++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Tx runs fn with a Store bound to a single transaction, committing when fn returns nil.
//
// MySQL transactions run at serializable isolation. SQLite connections begin
// transactions with an immediate write lock. A Store already bound to a
// transaction runs fn directly.
func (s *Store) Tx(ctx context.Context, fn func(tx *Store) error) error {
	if s.tx != nil {
		return fn(s)
	}

	var opts *sql.TxOptions
	if s.driver == shared.DriverMySQL {
		opts = &sql.TxOptions{Isolation: sql.LevelSerializable}
	}

	tx, err := s.db.BeginTx(ctx, opts)
	if err != nil {
		return s.fail("begin", nil, classify(err))
	}

	bound := *s
	bound.q = tx
	bound.tx = tx

	if err := fn(&bound); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			s.logger.Error("rollback failed", "error", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return s.fail("commit", nil, classify(err))
	}
	return nil
}

// fail logs err for op and returns it unchanged.
func (s *Store) fail(op string, t *models.Table, err error) error {
	if t != nil {
		s.logger.Error("data access failed", "op", op, "table", t.Name, "error", err)
	} else {
		s.logger.Error("data access failed", "op", op, "error", err)
	}
	return err
}

// writeColumns returns the writable columns present in row, in schema order, with their values.
func writeColumns(t *models.Table, row models.Row, allowID bool) ([]string, []any, error) {
	for col := range row {
		if !t.Writable(col) || (col == models.IDColumn && !allowID) {
			return nil, nil, fmt.Errorf("%w: %s.%s is not writable", ErrUnknownColumn, t.Name, col)
		}
	}

	cols := make([]string, 0, len(row))
	args := make([]any, 0, len(row))
	for _, col := range t.ColumnNames() {
		if v, ok := row[col]; ok {
			cols = append(cols, col)
			args = append(args, v)
		}
	}
	return cols, args, nil
}

func quoteAll(cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = quote(c)
	}
	return strings.Join(quoted, ", ")
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
