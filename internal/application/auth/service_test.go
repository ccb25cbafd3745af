package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/estatehub/internal/application/apptest"
	"github.com/bryanwahyu/estatehub/internal/domain/errs"
	"github.com/bryanwahyu/estatehub/internal/domain/users"
)

func newService() (*Service, *apptest.Users, *apptest.Activity) {
	repo := apptest.NewUsers()
	act := &apptest.Activity{}
	return &Service{
		Users:    repo,
		Hasher:   apptest.Hasher{},
		Tokens:   apptest.Tokens{},
		Activity: act,
		Clock:    apptest.NewClock(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)),
	}, repo, act
}

func TestRegisterThenLogin(t *testing.T) {
	svc, _, act := newService()
	ctx := context.Background()

	sess, err := svc.Register(ctx, RegisterCommand{Name: "Rin", Email: " Rin@Example.com", Password: "hunter22"})
	require.NoError(t, err)
	assert.Equal(t, "rin@example.com", sess.User.Email)
	assert.Equal(t, users.RoleUser, sess.User.Role)
	assert.Equal(t, string(sess.User.ID)+"|user", sess.Token)
	assert.NotEqual(t, "hunter22", sess.User.PasswordHash)

	again, err := svc.Login(ctx, "RIN@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, again.User.ID)
	assert.Len(t, act.Actions, 2)
}

func TestRegister_Rejections(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterCommand{Name: "A", Email: "a@example.com", Password: "123456"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterCommand{Name: "B", Email: "A@example.com", Password: "123456"})
	assert.ErrorIs(t, err, errs.ErrConflict)

	_, err = svc.Register(ctx, RegisterCommand{Name: "C", Email: "c@example.com", Password: "123456", Role: users.RoleAdmin})
	assert.True(t, errs.IsValidation(err))

	_, err = svc.Register(ctx, RegisterCommand{Name: "", Email: "d@example.com", Password: "123456"})
	assert.True(t, errs.IsValidation(err))

	_, err = svc.Register(ctx, RegisterCommand{Name: "E", Email: "e@example.com", Password: "123"})
	assert.True(t, errs.IsValidation(err))

	sess, err := svc.Register(ctx, RegisterCommand{Name: "F", Email: "f@example.com", Password: "123456", Role: users.RoleAgent})
	require.NoError(t, err)
	assert.Equal(t, users.RoleAgent, sess.User.Role)
}

func TestLogin_Failures(t *testing.T) {
	svc, repo, _ := newService()
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, &users.User{ID: "u1", Email: "off@example.com", PasswordHash: "hashed:pw1234", Role: users.RoleUser}))

	_, err := svc.Login(ctx, "nobody@example.com", "x")
	assert.ErrorIs(t, err, errs.ErrUnauthorized)

	_, err = svc.Login(ctx, "off@example.com", "wrong")
	assert.ErrorIs(t, err, errs.ErrUnauthorized)

	// correct password, inactive account
	_, err = svc.Login(ctx, "off@example.com", "pw1234")
	assert.ErrorIs(t, err, errs.ErrUnauthorized)

	_, err = svc.Me(ctx, users.Principal{ID: "u1"})
	assert.ErrorIs(t, err, errs.ErrUnauthorized)
	_, err = svc.Me(ctx, users.Principal{ID: "ghost"})
	assert.ErrorIs(t, err, errs.ErrUnauthorized)
}
