package properties

import (
	"context"
	"io"
	"time"

	"github.com/bryanwahyu/estatehub/internal/domain/patch"
)

// Repository port (interface untuk persistence)
type Repository interface {
	// Save inserts the listing and p.Images atomically.
	Save(ctx context.Context, p *Property) error
	Patch(ctx context.Context, id ID, set patch.Set, updatedAt time.Time) error
	Delete(ctx context.Context, id ID) error
	Get(ctx context.Context, id ID) (*Property, error)

	// List returns listings matching c, newest first, with agent name and primary image.
	List(ctx context.Context, c Criteria) ([]*Property, error)
	ListByOwner(ctx context.Context, userID string) ([]*Property, error)

	ReplaceImages(ctx context.Context, id ID, images []*Image) error
	AddImage(ctx context.Context, img *Image) error
}

// SavedRepository keeps each user's favourites.
type SavedRepository interface {
	Save(ctx context.Context, userID string, id ID, at time.Time) error
	Exists(ctx context.Context, userID string, id ID) (bool, error)
	Delete(ctx context.Context, userID string, id ID) error
	List(ctx context.Context, userID string) ([]*SavedProperty, error)
}

// ImageStore port (interface untuk penyimpanan gambar)
type ImageStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
}

// StatsCache holds the last computed dashboard figures.
type StatsCache interface {
	GetStats(ctx context.Context) (*Stats, bool)
	SetStats(ctx context.Context, st *Stats) error
	Invalidate(ctx context.Context) error
}
