package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/bryanwahyu/estatehub/internal/application"
	"github.com/bryanwahyu/estatehub/internal/domain/activity"
	"github.com/bryanwahyu/estatehub/internal/domain/errs"
	"github.com/bryanwahyu/estatehub/internal/domain/users"
)

// TokenIssuer signs session tokens for a principal.
type TokenIssuer interface {
	Issue(p users.Principal) (string, error)
}

// Service implements registration and login.
type Service struct {
	Users    users.Repository
	Hasher   users.PasswordHasher
	Tokens   TokenIssuer
	Activity activity.Recorder
	Clock    application.Clock
}

type RegisterCommand struct {
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Role     users.Role `json:"role"`
}

// Session is returned by register and login.
type Session struct {
	Token string      `json:"token"`
	User  *users.User `json:"user"`
}

func (s *Service) Register(ctx context.Context, cmd RegisterCommand) (Session, error) {
	name := strings.TrimSpace(cmd.Name)
	email := users.NormalizeEmail(cmd.Email)
	if name == "" || email == "" || cmd.Password == "" {
		return Session{}, errs.Invalid("", "name, email and password are required")
	}
	if err := users.ValidateEmail(email); err != nil {
		return Session{}, err
	}
	if err := users.ValidatePassword(cmd.Password); err != nil {
		return Session{}, err
	}
	role := cmd.Role
	if role == "" {
		role = users.RoleUser
	}
	if !role.Valid() {
		return Session{}, errs.Invalid("role", "unknown role "+string(role))
	}
	if role == users.RoleAdmin {
		return Session{}, errs.Invalid("role", "admin accounts are created by an administrator")
	}

	if _, err := s.Users.GetByEmail(ctx, email); err == nil {
		return Session{}, fmt.Errorf("email %s already registered: %w", email, errs.ErrConflict)
	} else if !errors.Is(err, errs.ErrNotFound) {
		return Session{}, err
	}

	hash, err := s.Hasher.Hash(cmd.Password)
	if err != nil {
		return Session{}, err
	}
	u := &users.User{
		ID:           users.ID(uuid.NewString()),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		CreatedAt:    application.Now(s.Clock),
	}
	if err := s.Users.Save(ctx, u); err != nil {
		return Session{}, err
	}
	s.Activity.Record(ctx, string(u.ID), activity.ActionRegister, "registered as "+string(role))
	return s.session(u)
}

func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	u, err := s.Users.GetByEmail(ctx, users.NormalizeEmail(email))
	if errors.Is(err, errs.ErrNotFound) {
		return Session{}, fmt.Errorf("invalid credentials: %w", errs.ErrUnauthorized)
	}
	if err != nil {
		return Session{}, err
	}
	if err := s.Hasher.Compare(u.PasswordHash, password); err != nil {
		return Session{}, fmt.Errorf("invalid credentials: %w", errs.ErrUnauthorized)
	}
	if !u.IsActive {
		return Session{}, fmt.Errorf("account disabled: %w", errs.ErrUnauthorized)
	}
	s.Activity.Record(ctx, string(u.ID), activity.ActionLogin, "")
	return s.session(u)
}

// Me returns the caller's account; disabled accounts no longer authenticate.
func (s *Service) Me(ctx context.Context, p users.Principal) (*users.User, error) {
	u, err := s.Users.Get(ctx, p.ID)
	if errors.Is(err, errs.ErrNotFound) {
		return nil, fmt.Errorf("account gone: %w", errs.ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, fmt.Errorf("account disabled: %w", errs.ErrUnauthorized)
	}
	return u, nil
}

func (s *Service) session(u *users.User) (Session, error) {
	tok, err := s.Tokens.Issue(users.Principal{ID: u.ID, Role: u.Role})
	if err != nil {
		return Session{}, err
	}
	return Session{Token: tok, User: u}, nil
}
