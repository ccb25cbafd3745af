package sqlite

import (
	"context"
	"fmt"
	"math"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/estatehub/internal/domain/activity"
	"github.com/bryanwahyu/estatehub/internal/domain/enquiries"
	"github.com/bryanwahyu/estatehub/internal/domain/errs"
	"github.com/bryanwahyu/estatehub/internal/domain/investment"
	"github.com/bryanwahyu/estatehub/internal/domain/patch"
	"github.com/bryanwahyu/estatehub/internal/domain/properties"
	"github.com/bryanwahyu/estatehub/internal/domain/users"
	"github.com/bryanwahyu/estatehub/internal/infra/db/mysql"
)

var t0 = time.Date(2026, 9, 1, 8, 30, 0, 123456000, time.UTC)

func newStore(t *testing.T) *mysql.Repositories {
	t.Helper()
	ctx := context.Background()
	db, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, Migrate(ctx, db))
	require.NoError(t, Migrate(ctx, db), "migrate twice")
	return NewRepositories(db)
}

func seedUser(t *testing.T, r *mysql.Repositories, id, name string, role users.Role) *users.User {
	t.Helper()
	u := &users.User{
		ID: users.ID(id), Name: name, Email: id + "@example.com", PasswordHash: "x",
		Role: role, IsActive: true, CreatedAt: t0,
	}
	require.NoError(t, r.Users.Save(context.Background(), u))
	return u
}

func fptr(v float64) *float64 { return &v }

func listing(id, owner, city, state string, price float64, beds int, baths float64, typ properties.Type, st properties.Status, age int) *properties.Property {
	at := t0.Add(-time.Duration(age) * time.Hour)
	return &properties.Property{
		ID: properties.ID(id), UserID: owner, Title: "Home " + id, Description: "desc",
		Price: price, Bedrooms: beds, Bathrooms: baths, SquareFeet: 1000,
		Type: typ, Status: st, Address: "1 Main", City: city, State: state, ZipCode: "00000",
		VerificationStatus: properties.VerificationPending, CreatedAt: at, UpdatedAt: at,
	}
}

func TestUsers(t *testing.T) {
	r := newStore(t)
	ctx := context.Background()
	u := seedUser(t, r, "u1", "Una", users.RoleAgent)

	got, err := r.Users.GetByEmail(ctx, "u1@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.True(t, got.IsActive)
	assert.True(t, t0.Equal(got.CreatedAt))

	dup := *u
	dup.ID = "u2"
	assert.ErrorIs(t, r.Users.Save(ctx, &dup), errs.ErrConflict)

	require.NoError(t, r.Users.Update(ctx, "u1", patch.Set{}.Add("name", "Una B").Add("is_active", false)))
	got, err = r.Users.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Una B", got.Name)
	assert.False(t, got.IsActive)

	assert.Error(t, r.Users.Update(ctx, "u1", patch.Set{}.Add("id", "hijack")))
	assert.ErrorIs(t, r.Users.Update(ctx, "ghost", patch.Set{}.Add("name", "x")), errs.ErrNotFound)

	_, err = r.Users.Get(ctx, "ghost")
	assert.ErrorIs(t, err, errs.ErrNotFound)

	require.NoError(t, r.Users.Delete(ctx, "u1"))
	assert.ErrorIs(t, r.Users.Delete(ctx, "u1"), errs.ErrNotFound)
}

func TestPropertiesImagesAndPatch(t *testing.T) {
	r := newStore(t)
	ctx := context.Background()
	seedUser(t, r, "agent", "Ada", users.RoleAgent)

	p := listing("p1", "agent", "Austin", "TX", 300000, 3, 2, properties.TypeCondo, properties.StatusForSale, 0)
	p.Latitude = fptr(30.2672)
	require.NoError(t, r.Properties.Save(ctx, p))

	require.NoError(t, r.Properties.ReplaceImages(ctx, "p1", []*properties.Image{
		{ID: "i1", ImageURL: "http://img/a.jpg", IsPrimary: true, CreatedAt: t0},
		{ID: "i2", ImageURL: "http://img/b.jpg", CreatedAt: t0.Add(time.Second)},
	}))
	require.NoError(t, r.Properties.AddImage(ctx, &properties.Image{ID: "i3", PropertyID: "p1", ImageURL: "http://img/c.jpg", CreatedAt: t0.Add(2 * time.Second)}))

	got, err := r.Properties.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.AgentName)
	assert.Equal(t, "agent@example.com", got.AgentEmail)
	assert.Equal(t, "http://img/a.jpg", got.PrimaryImage)
	require.Len(t, got.Images, 3)
	assert.True(t, got.Images[0].IsPrimary)
	require.NotNil(t, got.Latitude)
	assert.Equal(t, 30.2672, *got.Latitude)
	assert.Nil(t, got.Longitude)

	later := t0.Add(time.Hour)
	set := patch.Set{}.Add("price", 275000.5).Add("status", "Pending").Add("featured", true)
	require.NoError(t, r.Properties.Patch(ctx, "p1", set, later))
	got, err = r.Properties.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 275000.5, got.Price)
	assert.Equal(t, properties.StatusPending, got.Status)
	assert.True(t, got.Featured)
	assert.True(t, later.Equal(got.UpdatedAt))
	assert.Equal(t, "Home p1", got.Title)

	assert.ErrorIs(t, r.Properties.Patch(ctx, "missing", set, later), errs.ErrNotFound)

	require.NoError(t, r.Properties.ReplaceImages(ctx, "p1", nil))
	got, err = r.Properties.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, got.Images)
	assert.Empty(t, got.PrimaryImage)

	orphan := listing("p2", "nobody", "X", "Y", 1, 1, 1, properties.TypeLand, properties.StatusForSale, 0)
	assert.ErrorIs(t, r.Properties.Save(ctx, orphan), errs.ErrNotFound)

	require.NoError(t, r.Properties.Delete(ctx, "p1"))
	_, err = r.Properties.Get(ctx, "p1")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func ids(rows []*properties.Property) []string {
	out := make([]string, len(rows))
	for i, p := range rows {
		out[i] = string(p.ID)
	}
	sort.Strings(out)
	return out
}

func TestSavePersistsImagesAtomically(t *testing.T) {
	r := newStore(t)
	ctx := context.Background()
	seedUser(t, r, "agent", "Ada", users.RoleAgent)

	p := listing("p1", "agent", "Austin", "TX", 300000, 3, 2, properties.TypeCondo, properties.StatusForSale, 0)
	p.Images = []*properties.Image{
		{ID: "i1", ImageURL: "http://img/a.jpg", IsPrimary: true, CreatedAt: t0},
		{ID: "i2", ImageURL: "http://img/b.jpg", CreatedAt: t0},
	}
	require.NoError(t, r.Properties.Save(ctx, p))
	got, err := r.Properties.Get(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, got.Images, 2)
	assert.Equal(t, "http://img/a.jpg", got.PrimaryImage)

	broken := listing("p2", "agent", "Dallas", "TX", 250000, 2, 1, properties.TypeCondo, properties.StatusForSale, 0)
	broken.Images = []*properties.Image{
		{ID: "i3", ImageURL: "http://img/c.jpg", IsPrimary: true, CreatedAt: t0},
		{ID: "i3", ImageURL: "http://img/d.jpg", CreatedAt: t0},
	}
	assert.ErrorIs(t, r.Properties.Save(ctx, broken), errs.ErrConflict)
	_, err = r.Properties.Get(ctx, "p2")
	assert.ErrorIs(t, err, errs.ErrNotFound, "listing row rolled back with its images")
}

func TestDialectFoldsUnicode(t *testing.T) {
	w := properties.BuildWhere(properties.Criteria{City: "Öre", Status: "For Sale"}, Dialect{}, 1)
	assert.Equal(t, "go_lower(p.city) LIKE ? ESCAPE '!' AND p.status = ?", w.SQL)
	assert.Equal(t, []any{"%öre%", "For Sale"}, w.Args)

	ctx := context.Background()
	db, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	defer db.Close()
	var folded string
	require.NoError(t, db.QueryRowContext(ctx, `SELECT go_lower('ÖREBRO Län')`).Scan(&folded))
	assert.Equal(t, "örebro län", folded)
}

func TestListMatchesInMemoryFilter(t *testing.T) {
	r := newStore(t)
	ctx := context.Background()
	seedUser(t, r, "a1", "Ann", users.RoleAgent)
	seedUser(t, r, "a2", "Ben", users.RoleAgent)

	rows := []*properties.Property{
		listing("sf", "a1", "San Francisco", "CA", 1200000, 3, 2, properties.TypeSingleFamily, properties.StatusForSale, 1),
		listing("oak", "a1", "Oakland", "CA", 650000, 2, 1, properties.TypeCondo, properties.StatusForSale, 2),
		listing("atx", "a2", "Austin", "TX", 450000, 4, 2.5, properties.TypeSingleFamily, properties.StatusSold, 3),
		listing("ssf", "a2", "South San Francisco", "CA", 3200, 1, 1, properties.TypeCondo, properties.StatusForRent, 4),
		listing("pct", "a2", "100% Pure_Town", "NV", 90000, 2, 1.5, properties.TypeLand, properties.StatusForSale, 5),
		listing("frk", "a1", "Frankfort", "KY", 210000, 5, 3, properties.TypeMultiFamily, properties.StatusPending, 6),
		listing("orb", "a1", "ÖREBRO", "Örebro Län", 2500000, 3, 1, properties.TypeCondo, properties.StatusForSale, 7),
	}
	for _, p := range rows {
		require.NoError(t, r.Properties.Save(ctx, p))
	}

	cases := []properties.Criteria{
		{},
		{City: "fran"},
		{City: "FRAN", State: "ca"},
		{MinPrice: fptr(300000)},
		{MinPrice: fptr(200000), MaxPrice: fptr(700000)},
		{Beds: fptr(2.5)},
		{Baths: fptr(1.5)},
		{Type: "Condo"},
		{Status: "For Sale"},
		{Status: "for sale"},
		{City: "%"},
		{City: "0% P"},
		{City: "_"},
		{City: "e_t"},
		{City: "öre"},
		{City: "ÖrEb"},
		{State: "LÄN"},
		{City: "ore"},
		{State: "CA", Beds: fptr(2), MaxPrice: fptr(1000000), Status: "For Sale"},
		properties.WithBrowseDefaults(properties.Criteria{}),
	}
	for i, c := range cases {
		t.Run(fmt.Sprintf("case%d", i), func(t *testing.T) {
			stored, err := r.Properties.List(ctx, c)
			require.NoError(t, err)
			assert.Equal(t, ids(properties.Apply(rows, c)), ids(stored))
		})
	}

	folded, err := r.Properties.List(ctx, properties.Criteria{City: "öre"})
	require.NoError(t, err)
	require.Len(t, folded, 1, "non-ASCII containment folds case")
	assert.Equal(t, properties.ID("orb"), folded[0].ID)

	all, err := r.Properties.List(ctx, properties.Criteria{})
	require.NoError(t, err)
	require.Len(t, all, 7)
	assert.Equal(t, properties.ID("sf"), all[0].ID, "newest first")

	mine, err := r.Properties.ListByOwner(ctx, "a2")
	require.NoError(t, err)
	assert.Len(t, mine, 3)
}

func TestSavedProperties(t *testing.T) {
	r := newStore(t)
	ctx := context.Background()
	seedUser(t, r, "agent", "Ada", users.RoleAgent)
	seedUser(t, r, "buyer", "Bo", users.RoleUser)
	require.NoError(t, r.Properties.Save(ctx, listing("p1", "agent", "Austin", "TX", 1, 1, 1, properties.TypeCondo, properties.StatusForSale, 0)))
	require.NoError(t, r.Properties.Save(ctx, listing("p2", "agent", "Dallas", "TX", 1, 1, 1, properties.TypeCondo, properties.StatusForSale, 0)))

	require.NoError(t, r.Saved.Save(ctx, "buyer", "p1", t0))
	require.NoError(t, r.Saved.Save(ctx, "buyer", "p2", t0.Add(time.Minute)))
	assert.ErrorIs(t, r.Saved.Save(ctx, "buyer", "p1", t0), errs.ErrConflict)

	ok, err := r.Saved.Exists(ctx, "buyer", "p1")
	require.NoError(t, err)
	assert.True(t, ok)

	list, err := r.Saved.List(ctx, "buyer")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, properties.ID("p2"), list[0].ID)
	assert.True(t, t0.Add(time.Minute).Equal(list[0].SavedAt))
	assert.Equal(t, "Ada", list[0].AgentName)

	require.NoError(t, r.Properties.Delete(ctx, "p2"))
	list, err = r.Saved.List(ctx, "buyer")
	require.NoError(t, err)
	assert.Len(t, list, 1, "cascade")

	require.NoError(t, r.Saved.Delete(ctx, "buyer", "p1"))
	assert.ErrorIs(t, r.Saved.Delete(ctx, "buyer", "p1"), errs.ErrNotFound)
}

func TestEnquiries(t *testing.T) {
	r := newStore(t)
	ctx := context.Background()
	seedUser(t, r, "a1", "Ann", users.RoleAgent)
	seedUser(t, r, "a2", "Ben", users.RoleAgent)
	require.NoError(t, r.Properties.Save(ctx, listing("p1", "a1", "Austin", "TX", 1, 1, 1, properties.TypeCondo, properties.StatusForSale, 0)))
	require.NoError(t, r.Properties.Save(ctx, listing("p2", "a2", "Dallas", "TX", 1, 1, 1, properties.TypeCondo, properties.StatusForSale, 0)))

	anon := &enquiries.Enquiry{ID: "e1", PropertyID: "p1", Name: "Kim", Email: "kim@example.com", Message: "hi", Status: enquiries.StatusNew, CreatedAt: t0}
	signed := &enquiries.Enquiry{ID: "e2", PropertyID: "p2", UserID: "a1", Name: "Ann", Email: "a1@example.com", Phone: "555", Message: "hello", Status: enquiries.StatusNew, CreatedAt: t0.Add(time.Minute)}
	require.NoError(t, r.Enquiries.Save(ctx, anon))
	require.NoError(t, r.Enquiries.Save(ctx, signed))

	got, err := r.Enquiries.Get(ctx, "e1")
	require.NoError(t, err)
	assert.Empty(t, got.UserID)
	assert.Equal(t, "Home p1", got.PropertyTitle)

	all, err := r.Enquiries.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, enquiries.ID("e2"), all[0].ID)

	mine, err := r.Enquiries.ListByOwner(ctx, "a2")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "a1", mine[0].UserID)

	require.NoError(t, r.Enquiries.UpdateStatus(ctx, "e1", enquiries.StatusClosed))
	got, err = r.Enquiries.Get(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, enquiries.StatusClosed, got.Status)
	assert.ErrorIs(t, r.Enquiries.UpdateStatus(ctx, "nope", enquiries.StatusClosed), errs.ErrNotFound)
}

func TestInvestmentRecordsRoundTrip(t *testing.T) {
	r := newStore(t)
	ctx := context.Background()
	seedUser(t, r, "owner", "Olu", users.RoleUser)
	seedUser(t, r, "other", "Oz", users.RoleUser)

	sc := investment.Scenario{
		PurchasePrice: 300000, DownPayment: 20, InterestRate: 4.5, LoanTerm: 30,
		Rent: 2000, Tax: 3600, Insurance: 1200, AppreciationRate: 3.25,
	}
	m, err := investment.Calculate(sc)
	require.NoError(t, err)
	rec := &investment.Record{ID: "r1", UserID: "owner", Scenario: sc, Metrics: m, CreatedAt: t0}
	require.NoError(t, r.Analyses.Save(ctx, rec))

	got, err := r.Analyses.Get(ctx, "owner", "r1")
	require.NoError(t, err)
	assert.Equal(t, sc, got.Scenario)
	assert.Equal(t, math.Float64bits(m.ROI), math.Float64bits(got.ROI))
	assert.Equal(t, math.Float64bits(m.CashFlow), math.Float64bits(got.CashFlow))
	assert.Equal(t, math.Float64bits(m.RentalYield), math.Float64bits(got.RentalYield))
	assert.Equal(t, math.Float64bits(m.BreakEvenPoint), math.Float64bits(got.BreakEvenPoint))
	assert.True(t, t0.Equal(got.CreatedAt))

	_, err = r.Analyses.Get(ctx, "other", "r1")
	assert.ErrorIs(t, err, errs.ErrNotFound)
	assert.ErrorIs(t, r.Analyses.Delete(ctx, "other", "r1"), errs.ErrNotFound)

	require.NoError(t, r.Analyses.Save(ctx, &investment.Record{ID: "r2", UserID: "owner", Scenario: sc, Metrics: m, CreatedAt: t0.Add(time.Hour)}))
	list, err := r.Analyses.ListByUser(ctx, "owner")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, investment.RecordID("r2"), list[0].ID)

	require.NoError(t, r.Analyses.Delete(ctx, "owner", "r1"))
	list, err = r.Analyses.ListByUser(ctx, "owner")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestActivityLatestAndPurge(t *testing.T) {
	r := newStore(t)
	ctx := context.Background()
	seedUser(t, r, "u1", "Una", users.RoleUser)

	for i, e := range []*activity.Entry{
		{ID: "old", UserID: "u1", Action: activity.ActionLogin, CreatedAt: t0.AddDate(0, 0, -100)},
		{ID: "new", UserID: "u1", Action: activity.ActionLogin, CreatedAt: t0},
		{ID: "anon", Action: activity.ActionCreateEnquiry, Details: "e1", CreatedAt: t0.Add(time.Minute)},
	} {
		require.NoError(t, r.Activity.Save(ctx, e), i)
	}

	latest, err := r.Activity.Latest(ctx, 10)
	require.NoError(t, err)
	require.Len(t, latest, 3)
	assert.Equal(t, "anon", latest[0].ID)
	assert.Empty(t, latest[0].UserName)
	assert.Equal(t, "Una", latest[1].UserName)

	n, err := r.Activity.PurgeBefore(ctx, t0.AddDate(0, 0, -90))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	latest, err = r.Activity.Latest(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, latest, 1)
}
