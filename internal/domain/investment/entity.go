package investment

import "time"

// RecordID identifier type
type RecordID string

// Scenario is the loan/rent/tax/insurance input of an analysis.
// Percent fields are given as 0-100, Tax and Insurance are annual, Rent is monthly.
type Scenario struct {
	PurchasePrice    float64 `json:"purchase_price"`
	DownPayment      float64 `json:"down_payment"`
	InterestRate     float64 `json:"interest_rate"`
	LoanTerm         int     `json:"loan_term"`
	Rent             float64 `json:"rent"`
	Tax              float64 `json:"tax"`
	Insurance        float64 `json:"insurance"`
	AppreciationRate float64 `json:"appreciation_rate"`
}

// Metrics are the derived figures, kept at full precision.
type Metrics struct {
	ROI            float64 `json:"roi"`
	CashFlow       float64 `json:"cash_flow"`
	RentalYield    float64 `json:"rental_yield"`
	BreakEvenPoint float64 `json:"break_even_point"`
}

// Breakdown exposes the intermediate quantities of a calculation.
type Breakdown struct {
	LoanAmount        float64 `json:"loan_amount"`
	MonthlyRate       float64 `json:"monthly_rate"`
	NumPayments       int     `json:"num_payments"`
	MonthlyPayment    float64 `json:"monthly_payment"`
	MonthlyExpenses   float64 `json:"monthly_expenses"`
	DownPaymentAmount float64 `json:"down_payment_amount"`
}

// Record is a persisted analysis owned by a single user.
type Record struct {
	ID     RecordID `json:"id"`
	UserID string   `json:"user_id"`
	Scenario
	Metrics
	CreatedAt time.Time `json:"created_at"`
}
