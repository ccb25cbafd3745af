package properties

import (
	"bytes"
	"encoding/json"
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/bryanwahyu/estatehub/internal/domain/errs"
)

// DefaultBrowseStatus is applied by WithBrowseDefaults only.
const DefaultBrowseStatus = StatusForSale

// Criteria is a sparse conjunctive filter over Property.
// Empty strings and nil numbers are absent and contribute no predicate.
type Criteria struct {
	City     string   `json:"city,omitempty"`
	State    string   `json:"state,omitempty"`
	MinPrice *float64 `json:"minPrice,omitempty"`
	MaxPrice *float64 `json:"maxPrice,omitempty"`
	Beds     *float64 `json:"beds,omitempty"`
	Baths    *float64 `json:"baths,omitempty"`
	Type     string   `json:"type,omitempty"`
	Status   string   `json:"status,omitempty"`
}

// Op is the comparison a predicate applies.
type Op string

const (
	OpContains Op = "contains" // case-insensitive substring
	OpGTE      Op = "gte"
	OpLTE      Op = "lte"
	OpEq       Op = "eq"
)

// Field names double as the properties table column names.
const (
	FieldCity      = "city"
	FieldState     = "state"
	FieldPrice     = "price"
	FieldBedrooms  = "bedrooms"
	FieldBathrooms = "bathrooms"
	FieldType      = "property_type"
	FieldStatus    = "status"
)

// Predicate is one clause of a Criteria.
type Predicate struct {
	Field string
	Op    Op
	Value any // string for contains/eq, float64 for gte/lte
}

// ParseCriteria reads a query string. Unparseable numbers are treated as absent.
func ParseCriteria(q url.Values) Criteria {
	return Criteria{
		City:     clean(q.Get("city")),
		State:    clean(q.Get("state")),
		MinPrice: parseNumber(q.Get("minPrice")),
		MaxPrice: parseNumber(q.Get("maxPrice")),
		Beds:     parseNumber(q.Get("beds")),
		Baths:    parseNumber(q.Get("baths")),
		Type:     clean(q.Get("type")),
		Status:   clean(q.Get("status")),
	}
}

// DecodeCriteria reads a JSON criteria object. Anything but an object is a ValidationError.
func DecodeCriteria(raw []byte) (Criteria, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return Criteria{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return Criteria{}, errs.Invalid("criteria", "malformed JSON: "+err.Error())
	}
	return CriteriaFromAny(v)
}

// CriteriaFromAny builds Criteria from a decoded container. Only a map is accepted;
// within it, values of the wrong shape are treated as absent.
func CriteriaFromAny(v any) (Criteria, error) {
	if v == nil {
		return Criteria{}, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return Criteria{}, errs.Invalid("criteria", "must be an object")
	}
	return Criteria{
		City:     anyString(m["city"]),
		State:    anyString(m["state"]),
		MinPrice: anyNumber(m["minPrice"]),
		MaxPrice: anyNumber(m["maxPrice"]),
		Beds:     anyNumber(m["beds"]),
		Baths:    anyNumber(m["baths"]),
		Type:     anyString(m["type"]),
		Status:   anyString(m["status"]),
	}, nil
}

// WithBrowseDefaults returns a copy with Status set to "For Sale" when absent.
// Only the public browse listing uses it; no filter surface defaults on its own.
func WithBrowseDefaults(c Criteria) Criteria {
	if c.Status == "" {
		c.Status = string(DefaultBrowseStatus)
	}
	return c
}

// Empty reports whether no criterion is present.
func (c Criteria) Empty() bool { return len(c.Predicates()) == 0 }

// Predicates returns one predicate per present criterion in a fixed order.
func (c Criteria) Predicates() []Predicate {
	var out []Predicate
	if c.City != "" {
		out = append(out, Predicate{Field: FieldCity, Op: OpContains, Value: c.City})
	}
	if c.State != "" {
		out = append(out, Predicate{Field: FieldState, Op: OpContains, Value: c.State})
	}
	if c.MinPrice != nil {
		out = append(out, Predicate{Field: FieldPrice, Op: OpGTE, Value: *c.MinPrice})
	}
	if c.MaxPrice != nil {
		out = append(out, Predicate{Field: FieldPrice, Op: OpLTE, Value: *c.MaxPrice})
	}
	if c.Beds != nil {
		out = append(out, Predicate{Field: FieldBedrooms, Op: OpGTE, Value: *c.Beds})
	}
	if c.Baths != nil {
		out = append(out, Predicate{Field: FieldBathrooms, Op: OpGTE, Value: *c.Baths})
	}
	if c.Type != "" {
		out = append(out, Predicate{Field: FieldType, Op: OpEq, Value: c.Type})
	}
	if c.Status != "" {
		out = append(out, Predicate{Field: FieldStatus, Op: OpEq, Value: c.Status})
	}
	return out
}

// Match reports whether p satisfies every present criterion.
func (c Criteria) Match(p *Property) bool {
	for _, pred := range c.Predicates() {
		if !pred.Match(p) {
			return false
		}
	}
	return true
}

// Match evaluates the predicate against one row.
func (pr Predicate) Match(p *Property) bool {
	switch pr.Op {
	case OpContains:
		want, _ := pr.Value.(string)
		return strings.Contains(strings.ToLower(stringField(p, pr.Field)), strings.ToLower(want))
	case OpEq:
		want, _ := pr.Value.(string)
		return stringField(p, pr.Field) == want
	case OpGTE:
		bound, _ := pr.Value.(float64)
		return numberField(p, pr.Field) >= bound
	case OpLTE:
		bound, _ := pr.Value.(float64)
		return numberField(p, pr.Field) <= bound
	}
	return false
}

// Apply narrows rows one predicate at a time. Input order is preserved and
// rows is never modified.
func Apply(rows []*Property, c Criteria) []*Property {
	return ApplyPredicates(rows, c.Predicates())
}

// ApplyPredicates is Apply with an explicit predicate order.
func ApplyPredicates(rows []*Property, preds []Predicate) []*Property {
	filtered := slices.Clone(rows)
	for _, pred := range preds {
		next := make([]*Property, 0, len(filtered))
		for _, p := range filtered {
			if pred.Match(p) {
				next = append(next, p)
			}
		}
		filtered = next
	}
	return filtered
}

func stringField(p *Property, field string) string {
	switch field {
	case FieldCity:
		return p.City
	case FieldState:
		return p.State
	case FieldType:
		return string(p.Type)
	case FieldStatus:
		return string(p.Status)
	}
	return ""
}

func numberField(p *Property, field string) float64 {
	switch field {
	case FieldPrice:
		return p.Price
	case FieldBedrooms:
		return float64(p.Bedrooms)
	case FieldBathrooms:
		return p.Bathrooms
	}
	return math.NaN()
}

func clean(s string) string { return strings.TrimSpace(s) }

func parseNumber(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func anyString(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return clean(s)
}

func anyNumber(v any) *float64 {
	switch t := v.(type) {
	case string:
		return parseNumber(t)
	case json.Number:
		return parseNumber(t.String())
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return nil
		}
		return &t
	case int:
		f := float64(t)
		return &f
	}
	return nil
}
