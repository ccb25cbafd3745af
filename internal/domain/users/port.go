package users

import (
	"context"

	"github.com/bryanwahyu/estatehub/internal/domain/patch"
)

// Repository port (interface untuk persistence)
type Repository interface {
	Save(ctx context.Context, u *User) error
	Get(ctx context.Context, id ID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	Update(ctx context.Context, id ID, set patch.Set) error
	Delete(ctx context.Context, id ID) error
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Compare returns nil when password matches hash.
	Compare(hash, password string) error
}
