package properties

import (
	"fmt"
	"strings"
)

// Dialect renders the backend specific parts of a filter clause.
type Dialect interface {
	// Placeholder returns the n-th (1-based) bind parameter marker.
	Placeholder(n int) string
	// ContainsFold compares column against a lower-cased LIKE pattern escaped with '!'.
	ContainsFold(column, placeholder string) string
	// Number wraps a numeric placeholder, e.g. with a cast.
	Number(placeholder string) string
}

// LikeEscape is the ESCAPE character used in containment patterns.
const LikeEscape = '!'

// Where is a rendered conjunction of predicates.
type Where struct {
	SQL  string // empty when no criterion is present
	Args []any
	Next int // next free placeholder index
}

// BuildWhere renders c as parameterized SQL against the properties table aliased as p.
// Each present criterion yields exactly one clause; values only ever travel as arguments.
func BuildWhere(c Criteria, d Dialect, next int) Where {
	if next < 1 {
		next = 1
	}
	var (
		clauses []string
		args    []any
	)
	for _, pred := range c.Predicates() {
		col := "p." + pred.Field
		ph := d.Placeholder(next)
		switch pred.Op {
		case OpContains:
			clauses = append(clauses, d.ContainsFold(col, ph))
			args = append(args, ContainsPattern(pred.Value.(string)))
		case OpEq:
			clauses = append(clauses, fmt.Sprintf("%s = %s", col, ph))
			args = append(args, pred.Value)
		case OpGTE:
			clauses = append(clauses, fmt.Sprintf("%s >= %s", col, d.Number(ph)))
			args = append(args, pred.Value)
		case OpLTE:
			clauses = append(clauses, fmt.Sprintf("%s <= %s", col, d.Number(ph)))
			args = append(args, pred.Value)
		default:
			continue
		}
		next++
	}
	return Where{SQL: strings.Join(clauses, " AND "), Args: args, Next: next}
}

// ContainsPattern lower-cases term, escapes LIKE wildcards and wraps it in %.
func ContainsPattern(term string) string {
	esc := string(LikeEscape)
	r := strings.NewReplacer(esc, esc+esc, "%", esc+"%", "_", esc+"_")
	return "%" + r.Replace(strings.ToLower(term)) + "%"
}
