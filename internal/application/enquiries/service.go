package enquiries

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/bryanwahyu/estatehub/internal/application"
	"github.com/bryanwahyu/estatehub/internal/domain/activity"
	domain "github.com/bryanwahyu/estatehub/internal/domain/enquiries"
	"github.com/bryanwahyu/estatehub/internal/domain/errs"
	"github.com/bryanwahyu/estatehub/internal/domain/properties"
	"github.com/bryanwahyu/estatehub/internal/domain/users"
)

type Service struct {
	Repo       domain.Repository
	Properties properties.Repository
	Activity   activity.Recorder
	Clock      application.Clock
}

type CreateCommand struct {
	PropertyID string `json:"property_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Message    string `json:"message"`
}

// Create accepts an enquiry from anyone; caller is nil for anonymous senders.
func (s *Service) Create(ctx context.Context, caller *users.Principal, cmd CreateCommand) (*domain.Enquiry, error) {
	e := &domain.Enquiry{
		ID:         domain.ID(uuid.NewString()),
		PropertyID: strings.TrimSpace(cmd.PropertyID),
		Name:       strings.TrimSpace(cmd.Name),
		Email:      users.NormalizeEmail(cmd.Email),
		Phone:      strings.TrimSpace(cmd.Phone),
		Message:    strings.TrimSpace(cmd.Message),
		Status:     domain.StatusNew,
		CreatedAt:  application.Now(s.Clock),
	}
	if caller != nil {
		e.UserID = string(caller.ID)
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	prop, err := s.Properties.Get(ctx, properties.ID(e.PropertyID))
	if err != nil {
		return nil, fmt.Errorf("property %s: %w", e.PropertyID, err)
	}
	if err := s.Repo.Save(ctx, e); err != nil {
		return nil, err
	}
	e.PropertyTitle = prop.Title
	s.Activity.Record(ctx, e.UserID, activity.ActionCreateEnquiry, string(e.ID))
	return e, nil
}

// List shows admins every enquiry and everyone else the enquiries on their own listings.
func (s *Service) List(ctx context.Context, p users.Principal) ([]*domain.Enquiry, error) {
	if p.IsAdmin() {
		return s.Repo.ListAll(ctx)
	}
	return s.Repo.ListByOwner(ctx, string(p.ID))
}

func (s *Service) UpdateStatus(ctx context.Context, p users.Principal, id domain.ID, status domain.Status) (*domain.Enquiry, error) {
	if !status.Valid() {
		return nil, errs.Invalid("status", "unknown status "+string(status))
	}
	e, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	prop, err := s.Properties.Get(ctx, properties.ID(e.PropertyID))
	if err != nil {
		return nil, err
	}
	if !p.CanManage(prop.UserID) {
		return nil, fmt.Errorf("not the listing owner: %w", errs.ErrForbidden)
	}
	if err := s.Repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	s.Activity.Record(ctx, string(p.ID), activity.ActionUpdateEnquiry, string(id)+": "+string(status))
	e.Status = status
	e.PropertyTitle = prop.Title
	return e, nil
}
