package users

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/estatehub/internal/application/apptest"
	"github.com/bryanwahyu/estatehub/internal/domain/errs"
	domain "github.com/bryanwahyu/estatehub/internal/domain/users"
)

var (
	admin = domain.Principal{ID: "admin", Role: domain.RoleAdmin}
	alice = domain.Principal{ID: "alice", Role: domain.RoleUser}
)

func newService() (*Service, *apptest.Users) {
	repo := apptest.NewUsers(
		&domain.User{ID: "admin", Name: "Root", Email: "root@example.com", Role: domain.RoleAdmin, IsActive: true},
		&domain.User{ID: "alice", Name: "Alice", Email: "alice@example.com", PasswordHash: "hashed:old", Role: domain.RoleUser, IsActive: true},
	)
	return &Service{
		Repo:     repo,
		Hasher:   apptest.Hasher{},
		Activity: &apptest.Activity{},
		Clock:    apptest.NewClock(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)),
	}, repo
}

func ptr[T any](v T) *T { return &v }

func TestUpdateProfile_IgnoresPrivilegedFields(t *testing.T) {
	svc, _ := newService()
	u, err := svc.UpdateProfile(context.Background(), alice, domain.Patch{
		Name:     ptr("Alice B"),
		Password: ptr("newsecret"),
		Role:     ptr(domain.RoleAdmin),
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice B", u.Name)
	assert.Equal(t, "hashed:newsecret", u.PasswordHash)
	assert.Equal(t, domain.RoleUser, u.Role)
	assert.Equal(t, "alice@example.com", u.Email)
}

func TestUpdateProfile_EmailTaken(t *testing.T) {
	svc, _ := newService()
	_, err := svc.UpdateProfile(context.Background(), alice, domain.Patch{Email: ptr("ROOT@example.com")})
	assert.ErrorIs(t, err, errs.ErrConflict)

	// keeping your own address is fine
	_, err = svc.UpdateProfile(context.Background(), alice, domain.Patch{Email: ptr("alice@example.com")})
	assert.NoError(t, err)

	_, err = svc.UpdateProfile(context.Background(), alice, domain.Patch{})
	assert.True(t, errs.IsValidation(err))
}

func TestAdminOperations(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()

	_, err := svc.ListAll(ctx, alice)
	assert.ErrorIs(t, err, errs.ErrForbidden)

	all, err := svc.ListAll(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	u, err := svc.Create(ctx, admin, CreateCommand{Name: "Agent", Email: "agent@example.com", Password: "agentpw", Role: domain.RoleAgent})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAgent, u.Role)
	assert.True(t, u.IsActive)

	_, err = svc.Create(ctx, admin, CreateCommand{Name: "Dup", Email: "agent@example.com", Password: "agentpw"})
	assert.ErrorIs(t, err, errs.ErrConflict)

	updated, err := svc.Update(ctx, admin, "alice", domain.Patch{IsActive: ptr(false), Role: ptr(domain.RoleAgent)})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Equal(t, domain.RoleAgent, updated.Role)

	_, err = svc.Update(ctx, admin, "ghost", domain.Patch{Name: ptr("x")})
	assert.ErrorIs(t, err, errs.ErrNotFound)

	assert.True(t, errs.IsValidation(svc.Delete(ctx, admin, "admin")))
	assert.ErrorIs(t, svc.Delete(ctx, alice, "admin"), errs.ErrForbidden)
	require.NoError(t, svc.Delete(ctx, admin, "alice"))
	_, err = repo.Get(ctx, "alice")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}
