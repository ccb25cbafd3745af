package investment

import (
	"math"

	"github.com/bryanwahyu/estatehub/internal/domain/errs"
)

// Calculate returns the four investment metrics of s.
func Calculate(s Scenario) (Metrics, error) {
	m, _, err := Analyze(s)
	return m, err
}

// Analyze computes the metrics together with the intermediate quantities.
// Nothing is rounded here; use Metrics.Display at the presentation boundary.
func Analyze(s Scenario) (Metrics, Breakdown, error) {
	if err := checkFinite(s); err != nil {
		return Metrics{}, Breakdown{}, err
	}
	if s.LoanTerm <= 0 {
		return Metrics{}, Breakdown{}, errs.Invalid("loanTerm", "loan term must be greater than zero")
	}
	if s.PurchasePrice == 0 {
		return Metrics{}, Breakdown{}, errs.Invalid("purchasePrice", "purchase price must be non-zero")
	}

	downPaymentFraction := s.DownPayment / 100
	interestFraction := s.InterestRate / 100

	var b Breakdown
	b.LoanAmount = s.PurchasePrice * (1 - downPaymentFraction)
	b.MonthlyRate = interestFraction / 12
	b.NumPayments = s.LoanTerm * 12
	b.MonthlyPayment = monthlyPayment(b.LoanAmount, b.MonthlyRate, b.NumPayments)
	b.MonthlyExpenses = b.MonthlyPayment + s.Tax/12 + s.Insurance/12
	b.DownPaymentAmount = s.PurchasePrice * downPaymentFraction

	cashFlow := s.Rent - b.MonthlyExpenses

	if b.DownPaymentAmount == 0 {
		return Metrics{}, b, errs.Invalid("downPayment", "down payment amount must be non-zero")
	}
	if cashFlow == 0 {
		return Metrics{}, b, errs.Invalid("", "cash flow is zero; break-even undefined")
	}

	m := Metrics{
		ROI:         (cashFlow * 12 / b.DownPaymentAmount) * 100,
		CashFlow:    cashFlow,
		RentalYield: (s.Rent * 12 / s.PurchasePrice) * 100,
		// negative when the property never pays back under current cash flow
		BreakEvenPoint: b.DownPaymentAmount / cashFlow,
	}
	for _, v := range []float64{b.MonthlyPayment, m.ROI, m.CashFlow, m.RentalYield, m.BreakEvenPoint} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Metrics{}, b, errs.Invalid("", "scenario produces a non-finite result")
		}
	}
	return m, b, nil
}

func monthlyPayment(loanAmount, monthlyRate float64, numPayments int) float64 {
	if monthlyRate == 0 {
		return loanAmount / float64(numPayments)
	}
	growth := math.Pow(1+monthlyRate, float64(numPayments))
	return loanAmount * (monthlyRate * growth) / (growth - 1)
}

func checkFinite(s Scenario) error {
	fields := []struct {
		name string
		v    float64
	}{
		{"purchasePrice", s.PurchasePrice},
		{"downPayment", s.DownPayment},
		{"interestRate", s.InterestRate},
		{"rent", s.Rent},
		{"tax", s.Tax},
		{"insurance", s.Insurance},
		{"appreciationRate", s.AppreciationRate},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return errs.Invalid(f.name, "must be a finite number")
		}
	}
	return nil
}
