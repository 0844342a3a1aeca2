package repositories

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
)

var (
	ErrConflict      = fmt.Errorf("unique constraint violated")
	ErrForeignKey    = fmt.Errorf("foreign key constraint violated")
	ErrUnknownColumn = fmt.Errorf("unknown column")
	ErrEmptyFilter   = fmt.Errorf("filter must not be empty")
	ErrDatabase      = fmt.Errorf("database error")
)

// MySQL server error numbers.
const (
	mysqlDupEntry        = 1062
	mysqlRowIsReferenced = 1451
	mysqlNoReferencedRow = 1452
)

// classify maps a driver error onto one of the package sentinels, keeping the original in the chain.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var se sqlite3.Error
	if errors.As(err, &se) {
		switch se.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return fmt.Errorf("%w: %w", ErrConflict, err)
		case sqlite3.ErrConstraintForeignKey:
			return fmt.Errorf("%w: %w", ErrForeignKey, err)
		}
	}

	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case mysqlDupEntry:
			return fmt.Errorf("%w: %w", ErrConflict, err)
		case mysqlRowIsReferenced, mysqlNoReferencedRow:
			return fmt.Errorf("%w: %w", ErrForeignKey, err)
		}
	}

	return fmt.Errorf("%w: %w", ErrDatabase, err)
}
