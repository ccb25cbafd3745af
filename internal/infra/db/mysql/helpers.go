package mysql

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/bryanwahyu/estatehub/internal/domain/errs"
	"github.com/bryanwahyu/estatehub/internal/domain/patch"
	"github.com/bryanwahyu/estatehub/internal/domain/properties"
)

// Dialect renders filter clauses with ? placeholders. The SQL it emits is
// also valid SQLite.
type Dialect struct{}

func (Dialect) Placeholder(int) string { return "?" }

func (Dialect) ContainsFold(column, placeholder string) string {
	return "LOWER(" + column + ") LIKE " + placeholder + " ESCAPE '!'"
}

func (Dialect) Number(placeholder string) string { return placeholder }

// Translator maps driver errors onto domain errors.
type Translator func(error) error

// translate is the MySQL Translator.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return errs.ErrNotFound
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case 1062: // ER_DUP_ENTRY
			return fmt.Errorf("%s: %w", myErr.Message, errs.ErrConflict)
		case 1452: // ER_NO_REFERENCED_ROW_2
			return fmt.Errorf("%s: %w", myErr.Message, errs.ErrNotFound)
		case 3819: // ER_CHECK_CONSTRAINT_VIOLATED
			return errs.Invalid("", myErr.Message)
		}
	}
	return err
}

// base is shared by every repository; tr and dialect let another ?-placeholder driver reuse them.
type base struct {
	db      *sql.DB
	tr      Translator
	dialect properties.Dialect
}

func (b base) where(c properties.Criteria) properties.Where {
	var d properties.Dialect = Dialect{}
	if b.dialect != nil {
		d = b.dialect
	}
	return properties.BuildWhere(c, d, 1)
}

func (b base) translate(err error) error {
	if b.tr != nil {
		return b.tr(err)
	}
	return translate(err)
}

func (b base) mustAffect(res sql.Result, err error) error {
	if err != nil {
		return b.translate(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// setClause renders "col = ?, ..." for the columns in allowed.
func setClause(set patch.Set, allowed map[string]bool) (string, []any, error) {
	parts := make([]string, 0, len(set))
	args := make([]any, 0, len(set))
	for _, a := range set {
		if !allowed[a.Column] {
			return "", nil, fmt.Errorf("column %q cannot be updated", a.Column)
		}
		parts = append(parts, a.Column+" = ?")
		args = append(args, a.Value)
	}
	return strings.Join(parts, ", "), args, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: strings.TrimSpace(s) != ""}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}
