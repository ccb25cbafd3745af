package investment

import "github.com/shopspring/decimal"

// Display is the presentation form of Metrics.
type Display struct {
	ROI            string `json:"roi"`
	CashFlow       string `json:"cash_flow"`
	RentalYield    string `json:"rental_yield"`
	BreakEvenPoint string `json:"break_even_point"`
}

// Display rounds half away from zero: two places for the money and percent
// figures, one place for the break-even month count.
func (m Metrics) Display() Display {
	return Display{
		ROI:            decimal.NewFromFloat(m.ROI).StringFixed(2),
		CashFlow:       decimal.NewFromFloat(m.CashFlow).StringFixed(2),
		RentalYield:    decimal.NewFromFloat(m.RentalYield).StringFixed(2),
		BreakEvenPoint: decimal.NewFromFloat(m.BreakEvenPoint).StringFixed(1),
	}
}
