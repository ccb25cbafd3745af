package properties

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bryanwahyu/estatehub/internal/application"
	"github.com/bryanwahyu/estatehub/internal/domain/activity"
	"github.com/bryanwahyu/estatehub/internal/domain/ai"
	"github.com/bryanwahyu/estatehub/internal/domain/errs"
	domain "github.com/bryanwahyu/estatehub/internal/domain/properties"
	"github.com/bryanwahyu/estatehub/internal/domain/users"
)

// ErrStorageDisabled is returned by UploadImage when no object store is configured.
var ErrStorageDisabled = fmt.Errorf("image storage not configured: %w", errs.ErrUnavailable)

// Service implements the listing use-cases.
// Images, Cache and Writer are optional.
type Service struct {
	Repo     domain.Repository
	Saved    domain.SavedRepository
	Images   domain.ImageStore
	Cache    domain.StatsCache
	Writer   ai.Writer
	Activity activity.Recorder
	Clock    application.Clock
	Log      *zap.Logger
}

// Browse is the public listing: status defaults to "For Sale".
func (s *Service) Browse(ctx context.Context, c domain.Criteria) ([]*domain.Property, error) {
	return s.Repo.List(ctx, domain.WithBrowseDefaults(c))
}

// Search filters with exactly the criteria given.
func (s *Service) Search(ctx context.Context, c domain.Criteria) ([]*domain.Property, error) {
	return s.Repo.List(ctx, c)
}

func (s *Service) Get(ctx context.Context, id domain.ID) (*domain.Property, error) {
	return s.Repo.Get(ctx, id)
}

// CreateCommand carries a new listing and the URLs of already hosted images.
type CreateCommand struct {
	domain.Property
	ImageURLs []string `json:"image_urls"`
}

func (s *Service) Create(ctx context.Context, p users.Principal, cmd CreateCommand) (*domain.Property, error) {
	if !p.Role.CanList() {
		return nil, fmt.Errorf("only agents can create listings: %w", errs.ErrForbidden)
	}
	prop := cmd.Property
	now := application.Now(s.Clock)
	prop.ID = domain.ID(uuid.NewString())
	prop.UserID = string(p.ID)
	prop.CreatedAt = now
	prop.UpdatedAt = now
	prop.Images = s.images(prop.ID, cmd.ImageURLs, now)
	if !p.IsAdmin() {
		prop.Featured = false
		prop.VerificationStatus = domain.VerificationPending
	}
	if prop.VerificationStatus == "" {
		prop.VerificationStatus = domain.VerificationPending
	}
	if err := prop.Validate(); err != nil {
		return nil, err
	}
	if err := s.Repo.Save(ctx, &prop); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	s.Activity.Record(ctx, string(p.ID), activity.ActionCreateProperty, string(prop.ID))
	return s.Repo.Get(ctx, prop.ID)
}

// Update applies a partial update; when ImageURLs is non-nil the image set is replaced.
func (s *Service) Update(ctx context.Context, p users.Principal, id domain.ID, patch domain.Patch, imageURLs []string) (*domain.Property, error) {
	if _, err := s.owned(ctx, p, id); err != nil {
		return nil, err
	}
	if !p.IsAdmin() {
		patch.Featured = nil
		patch.VerificationStatus = nil
	}
	now := application.Now(s.Clock)
	if !patch.Empty() || imageURLs == nil {
		set, err := patch.Assignments()
		if err != nil {
			return nil, err
		}
		if err := s.Repo.Patch(ctx, id, set, now); err != nil {
			return nil, err
		}
	}
	if imageURLs != nil {
		if err := s.Repo.ReplaceImages(ctx, id, s.images(id, imageURLs, now)); err != nil {
			return nil, err
		}
	}
	s.invalidate(ctx)
	s.Activity.Record(ctx, string(p.ID), activity.ActionUpdateProperty, string(id))
	return s.Repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, p users.Principal, id domain.ID) error {
	if _, err := s.owned(ctx, p, id); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	s.Activity.Record(ctx, string(p.ID), activity.ActionDeleteProperty, string(id))
	return nil
}

func (s *Service) SaveFavourite(ctx context.Context, p users.Principal, id domain.ID) error {
	if _, err := s.Repo.Get(ctx, id); err != nil {
		return err
	}
	ok, err := s.Saved.Exists(ctx, string(p.ID), id)
	if err != nil {
		return err
	}
	if ok {
		return fmt.Errorf("property already saved: %w", errs.ErrConflict)
	}
	if err := s.Saved.Save(ctx, string(p.ID), id, application.Now(s.Clock)); err != nil {
		return err
	}
	s.Activity.Record(ctx, string(p.ID), activity.ActionSaveProperty, string(id))
	return nil
}

func (s *Service) RemoveFavourite(ctx context.Context, p users.Principal, id domain.ID) error {
	ok, err := s.Saved.Exists(ctx, string(p.ID), id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("property not in saved list: %w", errs.ErrNotFound)
	}
	if err := s.Saved.Delete(ctx, string(p.ID), id); err != nil {
		return err
	}
	s.Activity.Record(ctx, string(p.ID), activity.ActionUnsaveProperty, string(id))
	return nil
}

func (s *Service) ListSaved(ctx context.Context, p users.Principal) ([]*domain.SavedProperty, error) {
	return s.Saved.List(ctx, string(p.ID))
}

func (s *Service) ListMine(ctx context.Context, p users.Principal) ([]*domain.Property, error) {
	return s.Repo.ListByOwner(ctx, string(p.ID))
}

//
// ==== ADMIN ====
//

func (s *Service) AdminList(ctx context.Context, p users.Principal, c domain.Criteria) ([]*domain.Property, error) {
	if !p.IsAdmin() {
		return nil, errs.ErrForbidden
	}
	return s.Repo.List(ctx, c)
}

func (s *Service) AdminUpdate(ctx context.Context, p users.Principal, id domain.ID, patch domain.Patch) (*domain.Property, error) {
	if !p.IsAdmin() {
		return nil, errs.ErrForbidden
	}
	return s.Update(ctx, p, id, patch, nil)
}

// Moderate changes status, featured flag or verification.
func (s *Service) Moderate(ctx context.Context, p users.Principal, id domain.ID, m domain.ModerationPatch) (*domain.Property, error) {
	if !p.IsAdmin() {
		return nil, errs.ErrForbidden
	}
	if _, err := s.Repo.Get(ctx, id); err != nil {
		return nil, err
	}
	set, err := m.Patch().Assignments()
	if err != nil {
		return nil, err
	}
	if err := s.Repo.Patch(ctx, id, set, application.Now(s.Clock)); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	s.Activity.Record(ctx, string(p.ID), activity.ActionModerateProperty, string(id)+": "+strings.Join(set.Columns(), ","))
	return s.Repo.Get(ctx, id)
}

func (s *Service) AdminDelete(ctx context.Context, p users.Principal, id domain.ID) error {
	if !p.IsAdmin() {
		return errs.ErrForbidden
	}
	return s.Delete(ctx, p, id)
}

// Stats serves the dashboard from cache when possible.
func (s *Service) Stats(ctx context.Context, p users.Principal) (*domain.Stats, error) {
	if !p.IsAdmin() {
		return nil, errs.ErrForbidden
	}
	if s.Cache != nil {
		if st, ok := s.Cache.GetStats(ctx); ok {
			return st, nil
		}
	}
	rows, err := s.Repo.List(ctx, domain.Criteria{})
	if err != nil {
		return nil, err
	}
	st := domain.ComputeStats(rows, s.Clock.Now())
	if s.Cache != nil {
		if err := s.Cache.SetStats(ctx, &st); err != nil {
			s.logger().Warn("stats cache write failed", zap.Error(err))
		}
	}
	return &st, nil
}

//
// ==== MEDIA & AI ====
//

// UploadImage stores the bytes as-is and attaches the URL. The first image becomes primary.
func (s *Service) UploadImage(ctx context.Context, p users.Principal, id domain.ID, filename, contentType string, size int64, r io.Reader) (*domain.Image, error) {
	if s.Images == nil {
		return nil, ErrStorageDisabled
	}
	prop, err := s.owned(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := fmt.Sprintf("properties/%s/%s%s", id, uuid.NewString(), strings.ToLower(path.Ext(filename)))
	url, err := s.Images.Put(ctx, key, r, size, contentType)
	if err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}
	img := &domain.Image{
		ID:         uuid.NewString(),
		PropertyID: id,
		ImageURL:   url,
		IsPrimary:  len(prop.Images) == 0,
		CreatedAt:  application.Now(s.Clock),
	}
	if err := s.Repo.AddImage(ctx, img); err != nil {
		return nil, err
	}
	s.Activity.Record(ctx, string(p.ID), activity.ActionUploadImage, string(id))
	return img, nil
}

// Describe drafts listing copy with the configured writer.
func (s *Service) Describe(ctx context.Context, d ai.ListingDraft) (string, error) {
	if s.Writer == nil {
		return "", ai.ErrNotConfigured
	}
	if strings.TrimSpace(d.Title) == "" && strings.TrimSpace(d.City) == "" {
		return "", errs.Invalid("", "title or city is required")
	}
	return s.Writer.DescribeListing(ctx, d)
}

// owned loads the listing and checks p may change it.
func (s *Service) owned(ctx context.Context, p users.Principal, id domain.ID) (*domain.Property, error) {
	prop, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.CanManage(prop.UserID) {
		return nil, fmt.Errorf("not the listing owner: %w", errs.ErrForbidden)
	}
	return prop, nil
}

func (s *Service) images(id domain.ID, urls []string, at time.Time) []*domain.Image {
	out := make([]*domain.Image, 0, len(urls))
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		out = append(out, &domain.Image{
			ID:         uuid.NewString(),
			PropertyID: id,
			ImageURL:   u,
			IsPrimary:  len(out) == 0,
			CreatedAt:  at,
		})
	}
	return out
}

func (s *Service) invalidate(ctx context.Context) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Invalidate(ctx); err != nil && !errors.Is(err, context.Canceled) {
		s.logger().Warn("stats cache invalidate failed", zap.Error(err))
	}
}

func (s *Service) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}
