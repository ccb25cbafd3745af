package properties

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bryanwahyu/estatehub/internal/application/apptest"
	"github.com/bryanwahyu/estatehub/internal/domain/ai"
	"github.com/bryanwahyu/estatehub/internal/domain/errs"
	domain "github.com/bryanwahyu/estatehub/internal/domain/properties"
	"github.com/bryanwahyu/estatehub/internal/domain/users"
)

var (
	agent  = users.Principal{ID: "agent-1", Role: users.RoleAgent}
	other  = users.Principal{ID: "agent-2", Role: users.RoleAgent}
	buyer  = users.Principal{ID: "buyer", Role: users.RoleUser}
	admin  = users.Principal{ID: "root", Role: users.RoleAdmin}
	start  = time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC)
	listed = domain.Property{
		Title: "Sunny condo", Description: "Close to the park", Price: 450000, Bedrooms: 2, Bathrooms: 1,
		SquareFeet: 850, Type: domain.TypeCondo, Status: domain.StatusForSale,
		Address: "1 Main St", City: "Austin", State: "TX", ZipCode: "78701",
	}
)

type fixture struct {
	svc   *Service
	repo  *apptest.Properties
	cache *apptest.StatsCache
	clock *apptest.Clock
}

func newFixture() fixture {
	repo := apptest.NewProperties()
	cache := &apptest.StatsCache{}
	clock := apptest.NewClock(start)
	return fixture{
		svc: &Service{
			Repo:     repo,
			Saved:    apptest.NewSaved(repo),
			Images:   &apptest.Images{},
			Cache:    cache,
			Writer:   apptest.Writer{},
			Activity: &apptest.Activity{},
			Clock:    clock,
			Log:      zap.NewNop(),
		},
		repo:  repo,
		cache: cache,
		clock: clock,
	}
}

func (f fixture) create(t *testing.T, p users.Principal, mutate func(*domain.Property)) *domain.Property {
	t.Helper()
	prop := listed
	if mutate != nil {
		mutate(&prop)
	}
	out, err := f.svc.Create(context.Background(), p, CreateCommand{Property: prop})
	require.NoError(t, err)
	f.clock.Advance(time.Minute)
	return out
}

func TestCreate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	out, err := f.svc.Create(ctx, agent, CreateCommand{
		Property:  func() domain.Property { p := listed; p.Featured = true; return p }(),
		ImageURLs: []string{"http://img/1.jpg", " ", "http://img/2.jpg"},
	})
	require.NoError(t, err)
	assert.Equal(t, "agent-1", out.UserID)
	assert.False(t, out.Featured)
	assert.Equal(t, domain.VerificationPending, out.VerificationStatus)
	require.Len(t, out.Images, 2)
	assert.True(t, out.Images[0].IsPrimary)
	assert.False(t, out.Images[1].IsPrimary)
	assert.Equal(t, "http://img/1.jpg", out.PrimaryImage)

	_, err = f.svc.Create(ctx, buyer, CreateCommand{Property: listed})
	assert.ErrorIs(t, err, errs.ErrForbidden)

	bad := listed
	bad.City = ""
	_, err = f.svc.Create(ctx, agent, CreateCommand{Property: bad})
	assert.True(t, errs.IsValidation(err))
}

func TestBrowseDefaultsToForSale(t *testing.T) {
	f := newFixture()
	f.create(t, agent, nil)
	f.create(t, agent, func(p *domain.Property) { p.Status = domain.StatusSold })

	browse, err := f.svc.Browse(context.Background(), domain.Criteria{})
	require.NoError(t, err)
	assert.Len(t, browse, 1)

	search, err := f.svc.Search(context.Background(), domain.Criteria{})
	require.NoError(t, err)
	assert.Len(t, search, 2)

	sold, err := f.svc.Browse(context.Background(), domain.Criteria{Status: "Sold"})
	require.NoError(t, err)
	assert.Len(t, sold, 1)
}

func TestUpdate_OwnerOrAdmin(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.create(t, agent, nil)

	price := 400000.0
	_, err := f.svc.Update(ctx, other, p.ID, domain.Patch{Price: &price}, nil)
	assert.ErrorIs(t, err, errs.ErrForbidden)

	featured := true
	out, err := f.svc.Update(ctx, agent, p.ID, domain.Patch{Price: &price, Featured: &featured}, nil)
	require.NoError(t, err)
	assert.Equal(t, 400000.0, out.Price)
	assert.False(t, out.Featured, "owners cannot feature their own listing")
	assert.Equal(t, start.Add(time.Minute), out.UpdatedAt)

	out, err = f.svc.Update(ctx, admin, p.ID, domain.Patch{Featured: &featured}, nil)
	require.NoError(t, err)
	assert.True(t, out.Featured)

	_, err = f.svc.Update(ctx, agent, p.ID, domain.Patch{}, nil)
	assert.True(t, errs.IsValidation(err))

	out, err = f.svc.Update(ctx, agent, p.ID, domain.Patch{}, []string{"http://img/new.jpg"})
	require.NoError(t, err)
	require.Len(t, out.Images, 1)
	assert.Equal(t, "http://img/new.jpg", out.Images[0].ImageURL)

	_, err = f.svc.Update(ctx, agent, "missing", domain.Patch{Price: &price}, nil)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestDelete(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.create(t, agent, nil)

	assert.ErrorIs(t, f.svc.Delete(ctx, other, p.ID), errs.ErrForbidden)
	assert.ErrorIs(t, f.svc.AdminDelete(ctx, agent, p.ID), errs.ErrForbidden)
	require.NoError(t, f.svc.Delete(ctx, agent, p.ID))
	_, err := f.svc.Get(ctx, p.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestFavourites(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.create(t, agent, nil)

	require.NoError(t, f.svc.SaveFavourite(ctx, buyer, p.ID))
	assert.ErrorIs(t, f.svc.SaveFavourite(ctx, buyer, p.ID), errs.ErrConflict)
	assert.ErrorIs(t, f.svc.SaveFavourite(ctx, buyer, "missing"), errs.ErrNotFound)

	saved, err := f.svc.ListSaved(ctx, buyer)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, p.ID, saved[0].ID)
	assert.Equal(t, start.Add(time.Minute), saved[0].SavedAt)

	require.NoError(t, f.svc.RemoveFavourite(ctx, buyer, p.ID))
	assert.ErrorIs(t, f.svc.RemoveFavourite(ctx, buyer, p.ID), errs.ErrNotFound)
}

func TestModerateAndStats(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.create(t, agent, nil)
	f.create(t, other, func(p *domain.Property) { p.Type = domain.TypeLand })

	_, err := f.svc.Stats(ctx, agent)
	assert.ErrorIs(t, err, errs.ErrForbidden)

	st, err := f.svc.Stats(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, 2, st.General.TotalProperties)
	assert.Equal(t, 2, st.General.PendingVerification)

	_, err = f.svc.Stats(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, 1, f.cache.Hits)

	v := domain.VerificationVerified
	out, err := f.svc.Moderate(ctx, admin, p.ID, domain.ModerationPatch{VerificationStatus: &v})
	require.NoError(t, err)
	assert.Equal(t, domain.VerificationVerified, out.VerificationStatus)

	st, err = f.svc.Stats(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, 1, st.General.VerifiedProperties)

	_, err = f.svc.Moderate(ctx, agent, p.ID, domain.ModerationPatch{VerificationStatus: &v})
	assert.ErrorIs(t, err, errs.ErrForbidden)
	_, err = f.svc.Moderate(ctx, admin, p.ID, domain.ModerationPatch{})
	assert.True(t, errs.IsValidation(err))
}

func TestUploadImage(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.create(t, agent, nil)

	img, err := f.svc.UploadImage(ctx, agent, p.ID, "Front.JPG", "image/jpeg", 3, strings.NewReader("abc"))
	require.NoError(t, err)
	assert.True(t, img.IsPrimary)
	assert.True(t, strings.HasPrefix(img.ImageURL, "http://images.test/properties/"+string(p.ID)+"/"))
	assert.True(t, strings.HasSuffix(img.ImageURL, ".jpg"))

	second, err := f.svc.UploadImage(ctx, agent, p.ID, "back.png", "image/png", 3, strings.NewReader("def"))
	require.NoError(t, err)
	assert.False(t, second.IsPrimary)

	_, err = f.svc.UploadImage(ctx, other, p.ID, "x.png", "", 1, strings.NewReader("x"))
	assert.ErrorIs(t, err, errs.ErrForbidden)

	f.svc.Images = nil
	_, err = f.svc.UploadImage(ctx, agent, p.ID, "x.png", "", 1, strings.NewReader("x"))
	assert.ErrorIs(t, err, errs.ErrUnavailable)
}

func TestDescribe(t *testing.T) {
	f := newFixture()
	text, err := f.svc.Describe(context.Background(), ai.ListingDraft{Title: "Loft", Type: "Condo", City: "Austin"})
	require.NoError(t, err)
	assert.Equal(t, "A lovely Condo in Austin.", text)

	_, err = f.svc.Describe(context.Background(), ai.ListingDraft{})
	assert.True(t, errs.IsValidation(err))

	f.svc.Writer = nil
	_, err = f.svc.Describe(context.Background(), ai.ListingDraft{Title: "Loft"})
	assert.ErrorIs(t, err, ai.ErrNotConfigured)
	assert.ErrorIs(t, err, errs.ErrUnavailable)
}
