package repository

import (
	"context"

	"media-gallery-backend/internal/domains/media/model"
)

// Repository is the durable store of MediaItem records.
//
// Create is the slug-uniqueness primitive: it inserts atomically and
// returns model.ErrSlugTaken when the slug is already present, so the
// allocator can retry with the next candidate instead of racing a separate
// existence probe.
type Repository interface {
	Create(ctx context.Context, item *model.MediaItem) (*model.MediaItem, error)
	GetByID(ctx context.Context, id int64) (*model.MediaItem, error)
	GetBySlug(ctx context.Context, slug string) (*model.MediaItem, error)
	List(ctx context.Context, filter model.ListFilter) ([]model.MediaItem, int64, error)

	// Update persists mutable fields (title, description, blob, media type).
	// The slug is immutable and never written back.
	Update(ctx context.Context, item *model.MediaItem) (*model.MediaItem, error)

	// SetThumbnail records a successfully generated preview.
	SetThumbnail(ctx context.Context, id int64, thumbKey string) error

	// Delete removes the metadata record. model.ErrMediaNotFound when absent.
	Delete(ctx context.Context, id int64) error

	// ListBlobKeys returns every blob and thumbnail key still referenced by
	// a record. Used by the orphan sweep.
	ListBlobKeys(ctx context.Context) ([]string, error)
}
