// Package apptest holds in-memory fakes of the domain ports for service and handler tests.
package apptest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bryanwahyu/estatehub/internal/domain/ai"
	"github.com/bryanwahyu/estatehub/internal/domain/enquiries"
	"github.com/bryanwahyu/estatehub/internal/domain/errs"
	"github.com/bryanwahyu/estatehub/internal/domain/investment"
	"github.com/bryanwahyu/estatehub/internal/domain/patch"
	"github.com/bryanwahyu/estatehub/internal/domain/properties"
	"github.com/bryanwahyu/estatehub/internal/domain/users"
)

// Clock returns a fixed time that tests may advance.
type Clock struct {
	mu sync.Mutex
	T  time.Time
}

func NewClock(t time.Time) *Clock { return &Clock{T: t} }

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.T
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.T = c.T.Add(d)
	c.mu.Unlock()
}

// Activity remembers recorded actions.
type Activity struct {
	mu      sync.Mutex
	Actions []string
}

func (a *Activity) Record(_ context.Context, userID, action, _ string) {
	a.mu.Lock()
	a.Actions = append(a.Actions, userID+":"+action)
	a.mu.Unlock()
}

// Hasher prefixes the password; it is not a real hash.
type Hasher struct{}

func (Hasher) Hash(pw string) (string, error) { return "hashed:" + pw, nil }

func (Hasher) Compare(hash, pw string) error {
	if hash != "hashed:"+pw {
		return errors.New("mismatch")
	}
	return nil
}

// Tokens encodes the principal as "id|role".
type Tokens struct{}

func (Tokens) Issue(p users.Principal) (string, error) {
	return string(p.ID) + "|" + string(p.Role), nil
}

func (Tokens) Parse(tok string) (users.Principal, error) {
	id, role, ok := strings.Cut(tok, "|")
	if !ok {
		return users.Principal{}, errs.ErrUnauthorized
	}
	return users.Principal{ID: users.ID(id), Role: users.Role(role)}, nil
}

// Users is an in-memory users.Repository.
type Users struct {
	mu   sync.Mutex
	rows map[users.ID]*users.User
}

func NewUsers(seed ...*users.User) *Users {
	r := &Users{rows: map[users.ID]*users.User{}}
	for _, u := range seed {
		r.rows[u.ID] = u
	}
	return r
}

func (r *Users) Save(_ context.Context, u *users.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, x := range r.rows {
		if x.Email == u.Email && x.ID != u.ID {
			return errs.ErrConflict
		}
	}
	c := *u
	r.rows[u.ID] = &c
	return nil
}

func (r *Users) Get(_ context.Context, id users.ID) (*users.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.rows[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (r *Users) GetByEmail(_ context.Context, email string) (*users.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.rows {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (r *Users) List(_ context.Context) ([]*users.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*users.User, 0, len(r.rows))
	for _, u := range r.rows {
		c := *u
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *Users) Update(_ context.Context, id users.ID, set patch.Set) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.rows[id]
	if !ok {
		return errs.ErrNotFound
	}
	for _, a := range set {
		switch a.Column {
		case "name":
			u.Name = a.Value.(string)
		case "email":
			u.Email = a.Value.(string)
		case "password_hash":
			u.PasswordHash = a.Value.(string)
		case "role":
			u.Role = users.Role(a.Value.(string))
		case "is_active":
			u.IsActive = a.Value.(bool)
		default:
			return fmt.Errorf("unknown column %s", a.Column)
		}
	}
	return nil
}

func (r *Users) Delete(_ context.Context, id users.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return errs.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

// Properties is an in-memory properties.Repository filtered with properties.Apply.
type Properties struct {
	mu     sync.Mutex
	rows   []*properties.Property
	images map[properties.ID][]*properties.Image
}

func NewProperties(seed ...*properties.Property) *Properties {
	r := &Properties{images: map[properties.ID][]*properties.Image{}}
	r.rows = append(r.rows, seed...)
	return r
}

func (r *Properties) Save(_ context.Context, p *properties.Property) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *p
	c.Images = nil
	r.rows = append(r.rows, &c)
	if len(p.Images) > 0 {
		r.images[p.ID] = slices.Clone(p.Images)
	}
	return nil
}

func (r *Properties) find(id properties.ID) (int, bool) {
	for i, p := range r.rows {
		if p.ID == id {
			return i, true
		}
	}
	return 0, false
}

func (r *Properties) Patch(_ context.Context, id properties.ID, set patch.Set, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.find(id)
	if !ok {
		return errs.ErrNotFound
	}
	p := r.rows[i]
	for _, a := range set {
		switch a.Column {
		case "title":
			p.Title = a.Value.(string)
		case "description":
			p.Description = a.Value.(string)
		case "price":
			p.Price = a.Value.(float64)
		case "bedrooms":
			p.Bedrooms = a.Value.(int)
		case "bathrooms":
			p.Bathrooms = a.Value.(float64)
		case "square_feet":
			p.SquareFeet = a.Value.(int)
		case "property_type":
			p.Type = properties.Type(a.Value.(string))
		case "status":
			p.Status = properties.Status(a.Value.(string))
		case "address":
			p.Address = a.Value.(string)
		case "city":
			p.City = a.Value.(string)
		case "state":
			p.State = a.Value.(string)
		case "zip_code":
			p.ZipCode = a.Value.(string)
		case "latitude":
			v := a.Value.(float64)
			p.Latitude = &v
		case "longitude":
			v := a.Value.(float64)
			p.Longitude = &v
		case "featured":
			p.Featured = a.Value.(bool)
		case "verification_status":
			p.VerificationStatus = properties.Verification(a.Value.(string))
		default:
			return fmt.Errorf("unknown column %s", a.Column)
		}
	}
	p.UpdatedAt = at
	return nil
}

func (r *Properties) Delete(_ context.Context, id properties.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.find(id)
	if !ok {
		return errs.ErrNotFound
	}
	r.rows = slices.Delete(r.rows, i, i+1)
	delete(r.images, id)
	return nil
}

func (r *Properties) Get(_ context.Context, id properties.ID) (*properties.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.find(id)
	if !ok {
		return nil, errs.ErrNotFound
	}
	c := *r.rows[i]
	c.Images = slices.Clone(r.images[id])
	if len(c.Images) > 0 {
		c.PrimaryImage = c.Images[0].ImageURL
	}
	return &c, nil
}

func (r *Properties) List(_ context.Context, c properties.Criteria) ([]*properties.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := properties.Apply(r.rows, c)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *Properties) ListByOwner(_ context.Context, userID string) ([]*properties.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*properties.Property
	for _, p := range r.rows {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *Properties) ReplaceImages(_ context.Context, id properties.ID, imgs []*properties.Image) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.images[id] = slices.Clone(imgs)
	return nil
}

func (r *Properties) AddImage(_ context.Context, img *properties.Image) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.images[img.PropertyID] = append(r.images[img.PropertyID], img)
	return nil
}

// Saved is an in-memory properties.SavedRepository backed by a Properties fake.
type Saved struct {
	mu    sync.Mutex
	Props *Properties
	rows  map[string]map[properties.ID]time.Time
}

func NewSaved(props *Properties) *Saved {
	return &Saved{Props: props, rows: map[string]map[properties.ID]time.Time{}}
}

func (s *Saved) Save(_ context.Context, userID string, id properties.ID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rows[userID] == nil {
		s.rows[userID] = map[properties.ID]time.Time{}
	}
	if _, ok := s.rows[userID][id]; ok {
		return errs.ErrConflict
	}
	s.rows[userID][id] = at
	return nil
}

func (s *Saved) Exists(_ context.Context, userID string, id properties.ID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.rows[userID][id]
	return ok, nil
}

func (s *Saved) Delete(_ context.Context, userID string, id properties.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[userID][id]; !ok {
		return errs.ErrNotFound
	}
	delete(s.rows[userID], id)
	return nil
}

func (s *Saved) List(ctx context.Context, userID string) ([]*properties.SavedProperty, error) {
	s.mu.Lock()
	ids := s.rows[userID]
	s.mu.Unlock()
	var out []*properties.SavedProperty
	for id, at := range ids {
		p, err := s.Props.Get(ctx, id)
		if err != nil {
			continue
		}
		out = append(out, &properties.SavedProperty{Property: *p, SavedAt: at})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SavedAt.After(out[j].SavedAt) })
	return out, nil
}

// Images stores uploads in memory and returns a fake URL.
type Images struct {
	mu      sync.Mutex
	Objects map[string][]byte
}

func (m *Images) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Objects == nil {
		m.Objects = map[string][]byte{}
	}
	m.Objects[key] = b
	return "http://images.test/" + key, nil
}

// StatsCache keeps one value in memory.
type StatsCache struct {
	mu    sync.Mutex
	st    *properties.Stats
	Hits  int
	Drops int
}

func (c *StatsCache) GetStats(context.Context) (*properties.Stats, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.st == nil {
		return nil, false
	}
	c.Hits++
	return c.st, true
}

func (c *StatsCache) SetStats(_ context.Context, st *properties.Stats) error {
	c.mu.Lock()
	c.st = st
	c.mu.Unlock()
	return nil
}

func (c *StatsCache) Invalidate(context.Context) error {
	c.mu.Lock()
	c.st = nil
	c.Drops++
	c.mu.Unlock()
	return nil
}

// Writer returns a canned description.
type Writer struct{ Text string }

func (w Writer) DescribeListing(_ context.Context, d ai.ListingDraft) (string, error) {
	if w.Text != "" {
		return w.Text, nil
	}
	return "A lovely " + d.Type + " in " + d.City + ".", nil
}

// Enquiries is an in-memory enquiries.Repository; ListByOwner joins through Props.
type Enquiries struct {
	mu    sync.Mutex
	Props *Properties
	rows  []*enquiries.Enquiry
}

func NewEnquiries(props *Properties) *Enquiries { return &Enquiries{Props: props} }

func (r *Enquiries) Save(_ context.Context, e *enquiries.Enquiry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *e
	r.rows = append(r.rows, &c)
	return nil
}

func (r *Enquiries) Get(_ context.Context, id enquiries.ID) (*enquiries.Enquiry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.rows {
		if e.ID == id {
			c := *e
			return &c, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (r *Enquiries) ListAll(context.Context) ([]*enquiries.Enquiry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.rows), nil
}

func (r *Enquiries) ListByOwner(ctx context.Context, ownerID string) ([]*enquiries.Enquiry, error) {
	all, _ := r.ListAll(ctx)
	var out []*enquiries.Enquiry
	for _, e := range all {
		p, err := r.Props.Get(ctx, properties.ID(e.PropertyID))
		if err == nil && p.UserID == ownerID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *Enquiries) UpdateStatus(_ context.Context, id enquiries.ID, st enquiries.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.rows {
		if e.ID == id {
			e.Status = st
			return nil
		}
	}
	return errs.ErrNotFound
}

// Analyses is an in-memory investment.Repository.
type Analyses struct {
	mu   sync.Mutex
	rows []*investment.Record
}

func (r *Analyses) Save(_ context.Context, rec *investment.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *rec
	r.rows = append(r.rows, &c)
	return nil
}

func (r *Analyses) ListByUser(_ context.Context, userID string) ([]*investment.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*investment.Record
	for i := len(r.rows) - 1; i >= 0; i-- {
		if r.rows[i].UserID == userID {
			c := *r.rows[i]
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *Analyses) Get(_ context.Context, userID string, id investment.RecordID) (*investment.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.rows {
		if rec.ID == id && rec.UserID == userID {
			c := *rec
			return &c, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (r *Analyses) Delete(_ context.Context, userID string, id investment.RecordID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, rec := range r.rows {
		if rec.ID == id && rec.UserID == userID {
			r.rows = slices.Delete(r.rows, i, i+1)
			return nil
		}
	}
	return errs.ErrNotFound
}
