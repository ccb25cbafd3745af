package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bryanwahyu/estatehub/internal/domain/errs"
	"github.com/bryanwahyu/estatehub/internal/domain/patch"
	domain "github.com/bryanwahyu/estatehub/internal/domain/properties"
)

var propertyColumns = map[string]bool{
	"title": true, "description": true, "price": true, "bedrooms": true, "bathrooms": true,
	"square_feet": true, "property_type": true, "status": true, "address": true, "city": true,
	"state": true, "zip_code": true, "latitude": true, "longitude": true, "featured": true,
	"verification_status": true,
}

type PropertyRepository struct{ base }

func NewPropertyRepository(db *sql.DB) *PropertyRepository { return &PropertyRepository{base{db: db}} }

// propertyProjection is the listing with agent and primary image.
const propertyProjection = `
       p.id, p.user_id, p.title, p.description, p.price, p.bedrooms, p.bathrooms, p.square_feet,
       p.property_type, p.status, p.address, p.city, p.state, p.zip_code, p.latitude, p.longitude,
       p.featured, p.verification_status, p.created_at, p.updated_at,
       COALESCE(u.name, ''), COALESCE(u.email, ''),
       COALESCE((SELECT i.image_url FROM property_images i
                 WHERE i.property_id = p.id AND i.is_primary = TRUE
                 ORDER BY i.created_at LIMIT 1), '')`

const propertyFrom = `
FROM properties p
LEFT JOIN users u ON u.id = p.user_id`

const propertySelect = "SELECT" + propertyProjection + propertyFrom

func scanProperty(row interface{ Scan(...any) error }, extra ...any) (*domain.Property, error) {
	var p domain.Property
	var lat, lng sql.NullFloat64
	dest := []any{
		&p.ID, &p.UserID, &p.Title, &p.Description, &p.Price, &p.Bedrooms, &p.Bathrooms, &p.SquareFeet,
		&p.Type, &p.Status, &p.Address, &p.City, &p.State, &p.ZipCode, &lat, &lng,
		&p.Featured, &p.VerificationStatus, &p.CreatedAt, &p.UpdatedAt,
		&p.AgentName, &p.AgentEmail, &p.PrimaryImage,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, translate(err)
	}
	p.Latitude = floatPtr(lat)
	p.Longitude = floatPtr(lng)
	return &p, nil
}

func (r *PropertyRepository) Save(ctx context.Context, p *domain.Property) error {
	const q = `
INSERT INTO properties
(id, user_id, title, description, price, bedrooms, bathrooms, square_feet,
 property_type, status, address, city, state, zip_code, latitude, longitude,
 featured, verification_status, created_at, updated_at)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?);`
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, q,
		p.ID, p.UserID, p.Title, p.Description, p.Price, p.Bedrooms, p.Bathrooms, p.SquareFeet,
		p.Type, p.Status, p.Address, p.City, p.State, p.ZipCode, nullFloat(p.Latitude), nullFloat(p.Longitude),
		p.Featured, p.VerificationStatus, p.CreatedAt, p.UpdatedAt,
	); err != nil {
		return r.translate(err)
	}
	for _, img := range p.Images {
		if _, err := tx.ExecContext(ctx, insertImage, img.ID, p.ID, img.ImageURL, img.IsPrimary, img.CreatedAt); err != nil {
			return r.translate(err)
		}
	}
	return tx.Commit()
}

func (r *PropertyRepository) Patch(ctx context.Context, id domain.ID, set patch.Set, updatedAt time.Time) error {
	if set.Empty() {
		return errs.Invalid("", "no fields to update")
	}
	clause, args, err := setClause(set, propertyColumns)
	if err != nil {
		return err
	}
	q := fmt.Sprintf(`UPDATE properties SET %s, updated_at = ? WHERE id = ?`, clause)
	return r.mustAffect(r.db.ExecContext(ctx, q, append(args, updatedAt, id)...))
}

func (r *PropertyRepository) Delete(ctx context.Context, id domain.ID) error {
	return r.mustAffect(r.db.ExecContext(ctx, `DELETE FROM properties WHERE id = ?`, id))
}

// Get returns the listing with all images, primary first.
func (r *PropertyRepository) Get(ctx context.Context, id domain.ID) (*domain.Property, error) {
	p, err := scanProperty(r.db.QueryRowContext(ctx, propertySelect+` WHERE p.id = ?`, id))
	if err != nil {
		return nil, err
	}
	const q = `
SELECT id, property_id, image_url, is_primary, created_at
FROM property_images WHERE property_id = ?
ORDER BY is_primary DESC, created_at, id`
	rows, err := r.db.QueryContext(ctx, q, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var img domain.Image
		if err := rows.Scan(&img.ID, &img.PropertyID, &img.ImageURL, &img.IsPrimary, &img.CreatedAt); err != nil {
			return nil, err
		}
		p.Images = append(p.Images, &img)
	}
	return p, rows.Err()
}

// List filters with the shared criteria builder, newest first.
func (r *PropertyRepository) List(ctx context.Context, c domain.Criteria) ([]*domain.Property, error) {
	w := r.where(c)
	q := propertySelect
	if w.SQL != "" {
		q += "\nWHERE " + w.SQL
	}
	q += "\nORDER BY p.created_at DESC, p.id"
	return r.query(ctx, q, w.Args...)
}

func (r *PropertyRepository) ListByOwner(ctx context.Context, userID string) ([]*domain.Property, error) {
	return r.query(ctx, propertySelect+` WHERE p.user_id = ? ORDER BY p.created_at DESC, p.id`, userID)
}

func (r *PropertyRepository) query(ctx context.Context, q string, args ...any) ([]*domain.Property, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying properties: %w", err)
	}
	defer rows.Close()
	var out []*domain.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return out, nil
}

// ReplaceImages swaps the whole image set in one transaction.
func (r *PropertyRepository) ReplaceImages(ctx context.Context, id domain.ID, images []*domain.Image) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM property_images WHERE property_id = ?`, id); err != nil {
		return err
	}
	for _, img := range images {
		if _, err := tx.ExecContext(ctx, insertImage, img.ID, id, img.ImageURL, img.IsPrimary, img.CreatedAt); err != nil {
			return r.translate(err)
		}
	}
	return tx.Commit()
}

const insertImage = `
INSERT INTO property_images (id, property_id, image_url, is_primary, created_at)
VALUES (?,?,?,?,?)`

func (r *PropertyRepository) AddImage(ctx context.Context, img *domain.Image) error {
	_, err := r.db.ExecContext(ctx, insertImage, img.ID, img.PropertyID, img.ImageURL, img.IsPrimary, img.CreatedAt)
	return r.translate(err)
}

type SavedRepository struct{ base }

func NewSavedRepository(db *sql.DB) *SavedRepository { return &SavedRepository{base{db: db}} }

func (r *SavedRepository) Save(ctx context.Context, userID string, id domain.ID, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO saved_properties (user_id, property_id, created_at) VALUES (?,?,?)`, userID, id, at)
	return r.translate(err)
}

func (r *SavedRepository) Exists(ctx context.Context, userID string, id domain.ID) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM saved_properties WHERE user_id = ? AND property_id = ?`, userID, id).Scan(&n)
	return n > 0, err
}

func (r *SavedRepository) Delete(ctx context.Context, userID string, id domain.ID) error {
	return r.mustAffect(r.db.ExecContext(ctx,
		`DELETE FROM saved_properties WHERE user_id = ? AND property_id = ?`, userID, id))
}

func (r *SavedRepository) List(ctx context.Context, userID string) ([]*domain.SavedProperty, error) {
	q := "SELECT" + propertyProjection + ", s.created_at" + propertyFrom + `
JOIN saved_properties s ON s.property_id = p.id
WHERE s.user_id = ?
ORDER BY s.created_at DESC, p.id`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.SavedProperty
	for rows.Next() {
		var at time.Time
		p, err := scanProperty(rows, &at)
		if err != nil {
			return nil, err
		}
		out = append(out, &domain.SavedProperty{Property: *p, SavedAt: at})
	}
	return out, rows.Err()
}
