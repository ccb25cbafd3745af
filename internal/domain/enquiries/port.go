package enquiries

import "context"

// Repository port (interface untuk persistence)
type Repository interface {
	Save(ctx context.Context, e *Enquiry) error
	Get(ctx context.Context, id ID) (*Enquiry, error)
	ListAll(ctx context.Context) ([]*Enquiry, error)
	// ListByOwner returns enquiries on listings owned by ownerID.
	ListByOwner(ctx context.Context, ownerID string) ([]*Enquiry, error)
	UpdateStatus(ctx context.Context, id ID, status Status) error
}
