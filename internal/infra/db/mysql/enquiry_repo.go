package mysql

import (
	"context"
	"database/sql"

	domain "github.com/bryanwahyu/estatehub/internal/domain/enquiries"
)

type EnquiryRepository struct{ base }

func NewEnquiryRepository(db *sql.DB) *EnquiryRepository { return &EnquiryRepository{base{db: db}} }

func (r *EnquiryRepository) Save(ctx context.Context, e *domain.Enquiry) error {
	const q = `
INSERT INTO enquiries (id, property_id, user_id, name, email, phone, message, status, created_at)
VALUES (?,?,?,?,?,?,?,?,?);`
	_, err := r.db.ExecContext(ctx, q,
		e.ID, e.PropertyID, nullString(e.UserID), e.Name, e.Email, e.Phone, e.Message, e.Status, e.CreatedAt)
	return r.translate(err)
}

const enquirySelect = `
SELECT e.id, e.property_id, COALESCE(e.user_id, ''), e.name, e.email, e.phone, e.message, e.status,
       e.created_at, p.title
FROM enquiries e
JOIN properties p ON p.id = e.property_id`

func (r *EnquiryRepository) Get(ctx context.Context, id domain.ID) (*domain.Enquiry, error) {
	return scanEnquiry(r.db.QueryRowContext(ctx, enquirySelect+` WHERE e.id = ?`, id))
}

func (r *EnquiryRepository) ListAll(ctx context.Context) ([]*domain.Enquiry, error) {
	return r.query(ctx, enquirySelect+` ORDER BY e.created_at DESC, e.id`)
}

func (r *EnquiryRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Enquiry, error) {
	return r.query(ctx, enquirySelect+` WHERE p.user_id = ? ORDER BY e.created_at DESC, e.id`, ownerID)
}

func (r *EnquiryRepository) UpdateStatus(ctx context.Context, id domain.ID, status domain.Status) error {
	return r.mustAffect(r.db.ExecContext(ctx, `UPDATE enquiries SET status = ? WHERE id = ?`, status, id))
}

func (r *EnquiryRepository) query(ctx context.Context, q string, args ...any) ([]*domain.Enquiry, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Enquiry
	for rows.Next() {
		e, err := scanEnquiry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanEnquiry(row interface{ Scan(...any) error }) (*domain.Enquiry, error) {
	var e domain.Enquiry
	if err := row.Scan(&e.ID, &e.PropertyID, &e.UserID, &e.Name, &e.Email, &e.Phone, &e.Message,
		&e.Status, &e.CreatedAt, &e.PropertyTitle); err != nil {
		return nil, translate(err)
	}
	return &e, nil
}
