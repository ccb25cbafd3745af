package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bryanwahyu/estatehub/internal/domain/errs"
	"github.com/bryanwahyu/estatehub/internal/domain/patch"
	domain "github.com/bryanwahyu/estatehub/internal/domain/users"
)

var userColumns = map[string]bool{
	"name": true, "email": true, "password_hash": true, "role": true, "is_active": true,
}

type UserRepository struct{ base }

func NewUserRepository(db *sql.DB) *UserRepository { return &UserRepository{base{db: db}} }

func (r *UserRepository) Save(ctx context.Context, u *domain.User) error {
	const q = `
INSERT INTO users (id, name, email, password_hash, role, is_active, created_at)
VALUES (?,?,?,?,?,?,?);`
	_, err := r.db.ExecContext(ctx, q, u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.IsActive, u.CreatedAt)
	return r.translate(err)
}

const userSelect = `SELECT id, name, email, password_hash, role, is_active, created_at FROM users`

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt); err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *UserRepository) Get(ctx context.Context, id domain.ID) (*domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, userSelect+` WHERE id=?`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, userSelect+` WHERE email=?`, email))
}

func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	rows, err := r.db.QueryContext(ctx, userSelect+` ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *UserRepository) Update(ctx context.Context, id domain.ID, set patch.Set) error {
	if set.Empty() {
		return errs.Invalid("", "no fields to update")
	}
	clause, args, err := setClause(set, userColumns)
	if err != nil {
		return err
	}
	q := fmt.Sprintf(`UPDATE users SET %s WHERE id=?`, clause)
	return r.mustAffect(r.db.ExecContext(ctx, q, append(args, id)...))
}

func (r *UserRepository) Delete(ctx context.Context, id domain.ID) error {
	return r.mustAffect(r.db.ExecContext(ctx, `DELETE FROM users WHERE id=?`, id))
}
