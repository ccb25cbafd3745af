package mysql

import (
	"context"
	"database/sql"

	domain "github.com/bryanwahyu/estatehub/internal/domain/investment"
)

type InvestmentRepository struct{ base }

func NewInvestmentRepository(db *sql.DB) *InvestmentRepository {
	return &InvestmentRepository{base{db: db}}
}

// Save stores inputs and metrics at full precision.
func (r *InvestmentRepository) Save(ctx context.Context, rec *domain.Record) error {
	const q = `
INSERT INTO investment_analyses
(id, user_id, purchase_price, down_payment, interest_rate, loan_term, rent, tax, insurance,
 appreciation_rate, roi, cash_flow, rental_yield, break_even_point, created_at)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?);`
	_, err := r.db.ExecContext(ctx, q,
		rec.ID, rec.UserID, rec.PurchasePrice, rec.DownPayment, rec.InterestRate, rec.LoanTerm,
		rec.Rent, rec.Tax, rec.Insurance, rec.AppreciationRate,
		rec.ROI, rec.CashFlow, rec.RentalYield, rec.BreakEvenPoint, rec.CreatedAt,
	)
	return r.translate(err)
}

const recordSelect = `
SELECT id, user_id, purchase_price, down_payment, interest_rate, loan_term, rent, tax, insurance,
       appreciation_rate, roi, cash_flow, rental_yield, break_even_point, created_at
FROM investment_analyses`

func scanRecord(row interface{ Scan(...any) error }) (*domain.Record, error) {
	var rec domain.Record
	if err := row.Scan(
		&rec.ID, &rec.UserID, &rec.PurchasePrice, &rec.DownPayment, &rec.InterestRate, &rec.LoanTerm,
		&rec.Rent, &rec.Tax, &rec.Insurance, &rec.AppreciationRate,
		&rec.ROI, &rec.CashFlow, &rec.RentalYield, &rec.BreakEvenPoint, &rec.CreatedAt,
	); err != nil {
		return nil, translate(err)
	}
	return &rec, nil
}

func (r *InvestmentRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Record, error) {
	rows, err := r.db.QueryContext(ctx, recordSelect+` WHERE user_id = ? ORDER BY created_at DESC, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *InvestmentRepository) Get(ctx context.Context, userID string, id domain.RecordID) (*domain.Record, error) {
	return scanRecord(r.db.QueryRowContext(ctx, recordSelect+` WHERE id = ? AND user_id = ?`, id, userID))
}

func (r *InvestmentRepository) Delete(ctx context.Context, userID string, id domain.RecordID) error {
	return r.mustAffect(r.db.ExecContext(ctx,
		`DELETE FROM investment_analyses WHERE id = ? AND user_id = ?`, id, userID))
}
