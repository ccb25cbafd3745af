package patch

// Assignment is one column to change in a partial update.
// Column always comes from a fixed whitelist in the owning domain package;
// Value is bound as a query parameter.
type Assignment struct {
	Column string
	Value  any
}

// Set is an ordered list of assignments. Absent fields are simply not in the set.
type Set []Assignment

func (s Set) Add(column string, v any) Set {
	return append(s, Assignment{Column: column, Value: v})
}

func (s Set) Empty() bool { return len(s) == 0 }

// Columns returns the assigned column names in order.
func (s Set) Columns() []string {
	out := make([]string, len(s))
	for i, a := range s {
		out[i] = a.Column
	}
	return out
}
