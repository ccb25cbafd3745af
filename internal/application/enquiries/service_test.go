package enquiries

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/estatehub/internal/application/apptest"
	domain "github.com/bryanwahyu/estatehub/internal/domain/enquiries"
	"github.com/bryanwahyu/estatehub/internal/domain/errs"
	"github.com/bryanwahyu/estatehub/internal/domain/properties"
	"github.com/bryanwahyu/estatehub/internal/domain/users"
)

func newService() *Service {
	props := apptest.NewProperties(
		&properties.Property{ID: "p1", UserID: "agent-1", Title: "Cabin"},
		&properties.Property{ID: "p2", UserID: "agent-2", Title: "Villa"},
	)
	return &Service{
		Repo:       apptest.NewEnquiries(props),
		Properties: props,
		Activity:   &apptest.Activity{},
		Clock:      apptest.NewClock(time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)),
	}
}

func TestCreateAndList(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	anon, err := svc.Create(ctx, nil, CreateCommand{PropertyID: "p1", Name: "Kim", Email: "KIM@example.com", Message: "Viewing?"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNew, anon.Status)
	assert.Empty(t, anon.UserID)
	assert.Equal(t, "kim@example.com", anon.Email)
	assert.Equal(t, "Cabin", anon.PropertyTitle)

	buyer := &users.Principal{ID: "buyer", Role: users.RoleUser}
	_, err = svc.Create(ctx, buyer, CreateCommand{PropertyID: "p2", Name: "Lee", Email: "lee@example.com", Message: "Price?"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, nil, CreateCommand{PropertyID: "nope", Name: "X", Email: "x@example.com", Message: "?"})
	assert.ErrorIs(t, err, errs.ErrNotFound)

	_, err = svc.Create(ctx, nil, CreateCommand{PropertyID: "p1", Name: "X", Email: "bad", Message: "?"})
	assert.True(t, errs.IsValidation(err))

	mine, err := svc.List(ctx, users.Principal{ID: "agent-1", Role: users.RoleAgent})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "p1", mine[0].PropertyID)

	all, err := svc.List(ctx, users.Principal{ID: "root", Role: users.RoleAdmin})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestUpdateStatus(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	e, err := svc.Create(ctx, nil, CreateCommand{PropertyID: "p1", Name: "Kim", Email: "kim@example.com", Message: "Viewing?"})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, users.Principal{ID: "agent-2", Role: users.RoleAgent}, e.ID, domain.StatusContacted)
	assert.ErrorIs(t, err, errs.ErrForbidden)

	_, err = svc.UpdateStatus(ctx, users.Principal{ID: "agent-1", Role: users.RoleAgent}, e.ID, "archived")
	assert.True(t, errs.IsValidation(err))

	out, err := svc.UpdateStatus(ctx, users.Principal{ID: "agent-1", Role: users.RoleAgent}, e.ID, domain.StatusContacted)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusContacted, out.Status)

	out, err = svc.UpdateStatus(ctx, users.Principal{ID: "root", Role: users.RoleAdmin}, e.ID, domain.StatusClosed)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusClosed, out.Status)

	_, err = svc.UpdateStatus(ctx, users.Principal{ID: "root", Role: users.RoleAdmin}, "missing", domain.StatusClosed)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}
