package investment

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/bryanwahyu/estatehub/internal/domain/errs"
)

// scenarioFields lists the request keys in camelCase with their snake_case alias.
var scenarioFields = [...][2]string{
	{"purchasePrice", "purchase_price"},
	{"downPayment", "down_payment"},
	{"interestRate", "interest_rate"},
	{"loanTerm", "loan_term"},
	{"rent", "rent"},
	{"tax", "tax"},
	{"insurance", "insurance"},
	{"appreciationRate", "appreciation_rate"},
}

// ParseScenario coerces a decoded request body into a Scenario.
// Values may be numbers, json.Number or numeric strings. A missing or
// non-numeric field fails the whole scenario; nothing defaults to zero.
func ParseScenario(fields map[string]any) (Scenario, error) {
	if fields == nil {
		return Scenario{}, errs.Invalid("", "scenario must be an object")
	}
	var vals [len(scenarioFields)]float64
	for i, names := range scenarioFields {
		raw, ok := fields[names[0]]
		if !ok {
			raw, ok = fields[names[1]]
		}
		if !ok {
			return Scenario{}, errs.Invalid(names[0], "is required")
		}
		v, err := toNumber(raw)
		if err != nil {
			return Scenario{}, errs.Invalid(names[0], "must be a number; no metrics can be computed")
		}
		vals[i] = v
	}

	term := vals[3]
	if term != math.Trunc(term) || term > math.MaxInt32 || term < math.MinInt32 {
		return Scenario{}, errs.Invalid("loanTerm", "must be a whole number of years")
	}

	return Scenario{
		PurchasePrice:    vals[0],
		DownPayment:      vals[1],
		InterestRate:     vals[2],
		LoanTerm:         int(term),
		Rent:             vals[4],
		Tax:              vals[5],
		Insurance:        vals[6],
		AppreciationRate: vals[7],
	}, nil
}

func toNumber(raw any) (float64, error) {
	var (
		v   float64
		err error
	)
	switch t := raw.(type) {
	case float64:
		v = t
	case float32:
		v = float64(t)
	case int:
		v = float64(t)
	case int64:
		v = float64(t)
	case json.Number:
		v, err = t.Float64()
	case string:
		v, err = strconv.ParseFloat(strings.TrimSpace(t), 64)
	default:
		return 0, strconv.ErrSyntax
	}
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, strconv.ErrRange
	}
	return v, nil
}
