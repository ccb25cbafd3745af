package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/bryanwahyu/estatehub/internal/application"
	"github.com/bryanwahyu/estatehub/internal/domain/activity"
	"github.com/bryanwahyu/estatehub/internal/domain/errs"
	domain "github.com/bryanwahyu/estatehub/internal/domain/users"
)

// Service covers profiles and admin account management.
type Service struct {
	Repo     domain.Repository
	Hasher   domain.PasswordHasher
	Activity activity.Recorder
	Clock    application.Clock
}

func (s *Service) Profile(ctx context.Context, p domain.Principal) (*domain.User, error) {
	return s.Repo.Get(ctx, p.ID)
}

// UpdateProfile changes only the caller's own name, email or password.
func (s *Service) UpdateProfile(ctx context.Context, p domain.Principal, patch domain.Patch) (*domain.User, error) {
	patch = patch.SelfService()
	if err := s.apply(ctx, p.ID, patch); err != nil {
		return nil, err
	}
	s.Activity.Record(ctx, string(p.ID), activity.ActionUpdateProfile, strings.Join(fields(patch), ","))
	return s.Repo.Get(ctx, p.ID)
}

func (s *Service) ListAll(ctx context.Context, p domain.Principal) ([]*domain.User, error) {
	if !p.IsAdmin() {
		return nil, errs.ErrForbidden
	}
	return s.Repo.List(ctx)
}

type CreateCommand struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
}

// Create lets an admin add any account, admins included.
func (s *Service) Create(ctx context.Context, p domain.Principal, cmd CreateCommand) (*domain.User, error) {
	if !p.IsAdmin() {
		return nil, errs.ErrForbidden
	}
	name := strings.TrimSpace(cmd.Name)
	email := domain.NormalizeEmail(cmd.Email)
	if name == "" || email == "" || cmd.Password == "" {
		return nil, errs.Invalid("", "name, email and password are required")
	}
	if err := domain.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := domain.ValidatePassword(cmd.Password); err != nil {
		return nil, err
	}
	role := cmd.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !role.Valid() {
		return nil, errs.Invalid("role", "unknown role "+string(role))
	}
	if err := s.ensureEmailFree(ctx, email, ""); err != nil {
		return nil, err
	}
	hash, err := s.Hasher.Hash(cmd.Password)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		ID:           domain.ID(uuid.NewString()),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		CreatedAt:    application.Now(s.Clock),
	}
	if err := s.Repo.Save(ctx, u); err != nil {
		return nil, err
	}
	s.Activity.Record(ctx, string(p.ID), activity.ActionCreateUser, string(u.ID))
	return u, nil
}

func (s *Service) Update(ctx context.Context, p domain.Principal, id domain.ID, patch domain.Patch) (*domain.User, error) {
	if !p.IsAdmin() {
		return nil, errs.ErrForbidden
	}
	if _, err := s.Repo.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := s.apply(ctx, id, patch); err != nil {
		return nil, err
	}
	s.Activity.Record(ctx, string(p.ID), activity.ActionUpdateUser, string(id)+": "+strings.Join(fields(patch), ","))
	return s.Repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, p domain.Principal, id domain.ID) error {
	if !p.IsAdmin() {
		return errs.ErrForbidden
	}
	if id == p.ID {
		return errs.Invalid("id", "administrators cannot delete their own account")
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	s.Activity.Record(ctx, string(p.ID), activity.ActionDeleteUser, string(id))
	return nil
}

func (s *Service) apply(ctx context.Context, id domain.ID, patch domain.Patch) error {
	set, err := patch.Assignments(s.Hasher.Hash)
	if err != nil {
		return err
	}
	if patch.Email != nil {
		if err := s.ensureEmailFree(ctx, domain.NormalizeEmail(*patch.Email), id); err != nil {
			return err
		}
	}
	return s.Repo.Update(ctx, id, set)
}

func (s *Service) ensureEmailFree(ctx context.Context, email string, self domain.ID) error {
	u, err := s.Repo.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return nil
	case err != nil:
		return err
	case u.ID == self:
		return nil
	}
	return fmt.Errorf("email %s already in use: %w", email, errs.ErrConflict)
}

// fields names the patched fields for the audit trail, never their values.
func fields(p domain.Patch) []string {
	var out []string
	if p.Name != nil {
		out = append(out, "name")
	}
	if p.Email != nil {
		out = append(out, "email")
	}
	if p.Password != nil {
		out = append(out, "password")
	}
	if p.Role != nil {
		out = append(out, "role")
	}
	if p.IsActive != nil {
		out = append(out, "is_active")
	}
	return out
}
