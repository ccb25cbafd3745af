package investment

import "context"

// Repository port for persisted analyses. Every read and delete is scoped to the owner.
type Repository interface {
	Save(ctx context.Context, r *Record) error
	ListByUser(ctx context.Context, userID string) ([]*Record, error)
	Get(ctx context.Context, userID string, id RecordID) (*Record, error)
	Delete(ctx context.Context, userID string, id RecordID) error
}
