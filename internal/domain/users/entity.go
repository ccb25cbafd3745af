package users

import (
	"net/mail"
	"strings"
	"time"

	"github.com/bryanwahyu/estatehub/internal/domain/errs"
	"github.com/bryanwahyu/estatehub/internal/domain/patch"
)

// ID tipe untuk User
type ID string

type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAgent, RoleAdmin:
		return true
	}
	return false
}

// CanList reports whether the role may publish listings.
func (r Role) CanList() bool { return r == RoleAgent || r == RoleAdmin }

// Aggregate Root: User
type User struct {
	ID           ID        `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// NormalizeEmail trims and lower-cases an address for storage and lookup.
func NormalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// ValidateEmail rejects anything net/mail cannot parse as a bare address.
func ValidateEmail(s string) error {
	a, err := mail.ParseAddress(s)
	if err != nil || a.Address != s {
		return errs.Invalid("email", "invalid email address")
	}
	return nil
}

// MinPasswordLen is the shortest accepted password.
const MinPasswordLen = 6

func ValidatePassword(s string) error {
	if len(s) < MinPasswordLen {
		return errs.Invalid("password", "must be at least 6 characters")
	}
	return nil
}

// Patch is a partial update. Password is plain text; the caller hashes it.
type Patch struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *Role   `json:"role"`
	IsActive *bool   `json:"is_active"`
}

// SelfService drops the fields only an admin may change.
func (p Patch) SelfService() Patch {
	return Patch{Name: p.Name, Email: p.Email, Password: p.Password}
}

// Assignments validates the patch; hash turns a new password into its stored form.
func (p Patch) Assignments(hash func(string) (string, error)) (patch.Set, error) {
	var s patch.Set
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return nil, errs.Invalid("name", "must not be empty")
		}
		s = s.Add("name", name)
	}
	if p.Email != nil {
		email := NormalizeEmail(*p.Email)
		if err := ValidateEmail(email); err != nil {
			return nil, err
		}
		s = s.Add("email", email)
	}
	if p.Password != nil {
		if err := ValidatePassword(*p.Password); err != nil {
			return nil, err
		}
		h, err := hash(*p.Password)
		if err != nil {
			return nil, err
		}
		s = s.Add("password_hash", h)
	}
	if p.Role != nil {
		if !p.Role.Valid() {
			return nil, errs.Invalid("role", "unknown role "+string(*p.Role))
		}
		s = s.Add("role", string(*p.Role))
	}
	if p.IsActive != nil {
		s = s.Add("is_active", *p.IsActive)
	}
	if s.Empty() {
		return nil, errs.Invalid("", "no fields to update")
	}
	return s, nil
}
