package service

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"media-gallery-backend/internal/domains/media/model"
)

// UploadFile is the file part of an upload or edit request.
type UploadFile struct {
	Name   string
	Size   int64
	Reader io.Reader
}

// Service is the media domain business logic.
type Service interface {
	// Upload validates, classifies, allocates a slug and persists a new
	// item. Thumbnail generation for images is enqueued after the record
	// is durable; its outcome never affects the returned result.
	Upload(ctx context.Context, req model.UploadRequest, file UploadFile, ownerID *uuid.UUID) (*model.MediaItem, error)

	GetBySlug(ctx context.Context, slug string) (*model.MediaItem, error)
	GetByID(ctx context.Context, id int64) (*model.MediaItem, error)
	List(ctx context.Context, filter model.ListFilter) ([]model.MediaItem, int64, error)

	// Update applies partial edits. A replacement file re-runs
	// classification (and thumbnail derivation for images); the slug is
	// never regenerated.
	Update(ctx context.Context, id int64, req model.UpdateRequest, file *UploadFile) (*model.MediaItem, error)

	// Delete removes the metadata record. Blob and thumbnail reclamation
	// is left to the periodic orphan sweep.
	Delete(ctx context.Context, id int64) error

	// ProcessThumbnail is the worker-side thumbnail derivation step.
	ProcessThumbnail(ctx context.Context, mediaID int64) error

	// SweepOrphans removes stored objects no record references anymore.
	// Returns the number of objects removed.
	SweepOrphans(ctx context.Context) (int, error)
}

// TaskEnqueuer is the slice of asynq.Client the service needs. Kept as an
// interface so tests can capture enqueued tasks.
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}
