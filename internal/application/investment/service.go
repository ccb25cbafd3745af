package investment

import (
	"context"

	"github.com/google/uuid"

	"github.com/bryanwahyu/estatehub/internal/application"
	"github.com/bryanwahyu/estatehub/internal/domain/activity"
	domain "github.com/bryanwahyu/estatehub/internal/domain/investment"
	"github.com/bryanwahyu/estatehub/internal/domain/users"
)

// Service runs and stores investment analyses.
type Service struct {
	Repo     domain.Repository
	Activity activity.Recorder
	Clock    application.Clock
}

// Preview is an unsaved calculation.
type Preview struct {
	Scenario  domain.Scenario  `json:"scenario"`
	Metrics   domain.Metrics   `json:"metrics"`
	Display   domain.Display   `json:"display"`
	Breakdown domain.Breakdown `json:"breakdown"`
}

func (s *Service) Preview(fields map[string]any) (Preview, error) {
	sc, err := domain.ParseScenario(fields)
	if err != nil {
		return Preview{}, err
	}
	m, b, err := domain.Analyze(sc)
	if err != nil {
		return Preview{}, err
	}
	return Preview{Scenario: sc, Metrics: m, Display: m.Display(), Breakdown: b}, nil
}

// Create computes and persists an analysis. Metrics are stored at full precision.
func (s *Service) Create(ctx context.Context, p users.Principal, fields map[string]any) (*domain.Record, error) {
	sc, err := domain.ParseScenario(fields)
	if err != nil {
		return nil, err
	}
	m, err := domain.Calculate(sc)
	if err != nil {
		return nil, err
	}
	rec := &domain.Record{
		ID:        domain.RecordID(uuid.NewString()),
		UserID:    string(p.ID),
		Scenario:  sc,
		Metrics:   m,
		CreatedAt: application.Now(s.Clock),
	}
	if err := s.Repo.Save(ctx, rec); err != nil {
		return nil, err
	}
	s.Activity.Record(ctx, string(p.ID), activity.ActionCreateAnalysis, string(rec.ID))
	return rec, nil
}

func (s *Service) List(ctx context.Context, p users.Principal) ([]*domain.Record, error) {
	return s.Repo.ListByUser(ctx, string(p.ID))
}

// Get returns ErrNotFound for records owned by someone else.
func (s *Service) Get(ctx context.Context, p users.Principal, id domain.RecordID) (*domain.Record, error) {
	return s.Repo.Get(ctx, string(p.ID), id)
}

func (s *Service) Delete(ctx context.Context, p users.Principal, id domain.RecordID) error {
	if err := s.Repo.Delete(ctx, string(p.ID), id); err != nil {
		return err
	}
	s.Activity.Record(ctx, string(p.ID), activity.ActionDeleteAnalysis, string(id))
	return nil
}
