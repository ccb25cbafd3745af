// Package sqlite runs the ?-placeholder repositories on an embedded SQLite file,
// for single-node deployments and tests.
package sqlite

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/bryanwahyu/estatehub/internal/domain/errs"
	"github.com/bryanwahyu/estatehub/internal/infra/db/mysql"
)

// foldFunc lower-cases with Go's Unicode rules; SQLite's LOWER only folds ASCII.
const foldFunc = "go_lower"

func init() {
	if err := sqlite.RegisterDeterministicScalarFunction(foldFunc, 1, goLower); err != nil {
		panic(err)
	}
}

func goLower(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return strings.ToLower(fmt.Sprint(v)), nil
	}
}

// Dialect is the MySQL dialect with containment folded by go_lower, so
// non-ASCII city and state values match the same rows as properties.Apply.
type Dialect struct{ mysql.Dialect }

func (Dialect) ContainsFold(column, placeholder string) string {
	return foldFunc + "(" + column + ") LIKE " + placeholder + " ESCAPE '!'"
}

// Open opens (or creates) the database and enables foreign keys.
// ":memory:" gives a private in-memory database.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one connection: an in-memory database is per connection, and SQLite serialises writers anyway
	db.SetMaxOpenConns(1)

	pragmas := []string{"PRAGMA foreign_keys = ON", "PRAGMA busy_timeout = 5000"}
	if path != ":memory:" {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL")
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}
	return db, nil
}

// NewRepositories reuses the MySQL repositories; their SQL is portable to SQLite.
func NewRepositories(db *sql.DB) *mysql.Repositories {
	return mysql.NewRepositoriesWith(db, translate, Dialect{})
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return errs.ErrNotFound
	}
	var sqErr *sqlite.Error
	if !errors.As(err, &sqErr) {
		return err
	}
	switch sqErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return fmt.Errorf("%s: %w", sqErr.Error(), errs.ErrConflict)
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return fmt.Errorf("%s: %w", sqErr.Error(), errs.ErrNotFound)
	case sqlite3.SQLITE_CONSTRAINT_CHECK:
		return errs.Invalid("", sqErr.Error())
	}
	// primary code only, when extended codes are off
	if sqErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		msg := sqErr.Error()
		switch {
		case strings.Contains(msg, "UNIQUE"):
			return fmt.Errorf("%s: %w", msg, errs.ErrConflict)
		case strings.Contains(msg, "FOREIGN KEY"):
			return fmt.Errorf("%s: %w", msg, errs.ErrNotFound)
		}
	}
	return err
}
