package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/bryanwahyu/estatehub/internal/domain/errs"
	"github.com/bryanwahyu/estatehub/internal/domain/patch"
)

// Dialect renders filter clauses for PostgreSQL.
type Dialect struct{}

func (Dialect) Placeholder(n int) string { return fmt.Sprintf("$%d", n) }

func (Dialect) ContainsFold(column, placeholder string) string {
	return column + " ILIKE " + placeholder + " ESCAPE '!'"
}

// Number casts so integer columns compare against fractional bounds.
func (Dialect) Number(placeholder string) string { return placeholder + "::double precision" }

// translate maps driver errors onto domain errors.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return errs.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s: %w", pqErr.Constraint, errs.ErrConflict)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%s: %w", pqErr.Constraint, errs.ErrNotFound)
		case "23514": // check_violation
			return errs.Invalid("", "violates "+pqErr.Constraint)
		case "22P02": // invalid_text_representation
			return errs.Invalid("", pqErr.Message)
		}
	}
	return err
}

// setClause renders "col = $n, ..." for the columns in allowed.
func setClause(set patch.Set, allowed map[string]bool, next int) (string, []any, int, error) {
	parts := make([]string, 0, len(set))
	args := make([]any, 0, len(set))
	for _, a := range set {
		if !allowed[a.Column] {
			return "", nil, next, fmt.Errorf("column %q cannot be updated", a.Column)
		}
		parts = append(parts, fmt.Sprintf("%s = $%d", a.Column, next))
		args = append(args, a.Value)
		next++
	}
	return strings.Join(parts, ", "), args, next, nil
}

func mustAffect(res sql.Result, err error) error {
	if err != nil {
		return translate(err)
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
