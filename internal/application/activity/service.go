package activity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bryanwahyu/estatehub/internal/application"
	domain "github.com/bryanwahyu/estatehub/internal/domain/activity"
)

// DefaultLimit is how many entries the admin feed shows when no limit is given.
const DefaultLimit = 100

// Service records and reads the audit trail.
type Service struct {
	Repo  domain.Repository
	Clock application.Clock
	Log   *zap.Logger
}

func NewService(repo domain.Repository, clock application.Clock, log *zap.Logger) *Service {
	if clock == nil {
		clock = application.SystemClock{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{Repo: repo, Clock: clock, Log: log}
}

// Record stores an entry. Failures are logged, never returned.
func (s *Service) Record(ctx context.Context, userID, action, details string) {
	e := &domain.Entry{
		ID:        uuid.NewString(),
		UserID:    userID,
		Action:    action,
		Details:   details,
		CreatedAt: application.Now(s.Clock),
	}
	if err := s.Repo.Save(ctx, e); err != nil {
		s.Log.Warn("activity log write failed",
			zap.String("user_id", userID),
			zap.String("action", action),
			zap.Error(err))
	}
}

func (s *Service) Latest(ctx context.Context, limit int) ([]*domain.Entry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return s.Repo.Latest(ctx, limit)
}

// Purge drops entries older than retention.
func (s *Service) Purge(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := application.Now(s.Clock).Add(-retention)
	n, err := s.Repo.PurgeBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	s.Log.Info("activity log purged", zap.Int64("deleted", n), zap.Time("cutoff", cutoff))
	return n, nil
}
