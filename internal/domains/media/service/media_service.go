package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"media-gallery-backend/internal/config"
	"media-gallery-backend/internal/domains/media/model"
	"media-gallery-backend/internal/domains/media/repository"
	"media-gallery-backend/internal/infrastructure/storage"
	"media-gallery-backend/internal/shared"
	"media-gallery-backend/internal/shared/mimetype"
	"media-gallery-backend/internal/shared/utils"
)

// sweepGracePeriod protects blobs of uploads still in flight: the blob is
// written moments before its record becomes visible, so very young objects
// are never treated as orphans.
const sweepGracePeriod = time.Hour

type mediaService struct {
	repo        repository.Repository
	storage     storage.ObjectStorage
	thumbnailer *storage.Thumbnailer
	tasks       TaskEnqueuer
	detect      mimetype.DetectFunc
	cfg         config.MediaConfig
}

func NewMediaService(
	repo repository.Repository,
	store storage.ObjectStorage,
	thumbnailer *storage.Thumbnailer,
	tasks TaskEnqueuer,
	detect mimetype.DetectFunc,
	cfg config.MediaConfig,
) Service {
	return &mediaService{
		repo:        repo,
		storage:     store,
		thumbnailer: thumbnailer,
		tasks:       tasks,
		detect:      detect,
		cfg:         cfg,
	}
}

func (s *mediaService) Upload(ctx context.Context, req model.UploadRequest, file UploadFile, ownerID *uuid.UUID) (*model.MediaItem, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if file.Reader == nil || file.Name == "" {
		return nil, model.ErrMissingFile
	}
	if s.cfg.MaxUploadBytes > 0 && file.Size > s.cfg.MaxUploadBytes {
		return nil, fmt.Errorf("file exceeds %d bytes", s.cfg.MaxUploadBytes)
	}
	if !mimetype.IsAllowedExtension(file.Name) {
		return nil, fmt.Errorf("%w: %s", model.ErrInvalidExtension, file.Name)
	}

	mediaType := mimetype.Classify(s.detect, file.Name)
	blobKey := model.BlobKey(ownerID, file.Name)

	contentType, reader := s.sniffContentType(file.Name, file.Reader)
	if err := s.storage.Put(ctx, blobKey, reader, file.Size, contentType); err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	item := &model.MediaItem{
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		BlobKey:      blobKey,
		OriginalName: file.Name,
		MediaType:    mediaType,
		OwnerID:      ownerID,
	}

	created, err := s.createWithUniqueSlug(ctx, item)
	if err != nil {
		// The record never became visible; drop the blob we just wrote.
		if rmErr := s.storage.Remove(ctx, blobKey); rmErr != nil {
			log.Warn().Err(rmErr).Str("key", blobKey).Msg("Failed to clean up blob after insert failure")
		}
		return nil, err
	}

	// The record is durable; thumbnail derivation is strictly best-effort
	// from here on.
	if created.MediaType == mimetype.TypeImage {
		s.enqueueThumbnail(created.ID)
	}

	return created, nil
}

// createWithUniqueSlug allocates the slug through the repository's atomic
// insert. The base candidate comes straight from the title; collisions walk
// "-2", "-3", … until the bounded attempt budget runs out.
func (s *mediaService) createWithUniqueSlug(ctx context.Context, item *model.MediaItem) (*model.MediaItem, error) {
	base := utils.GenerateSlug(item.Title)

	for attempt := 1; attempt <= s.cfg.SlugMaxAttempts; attempt++ {
		candidate := base
		if attempt > 1 {
			candidate = fmt.Sprintf("%s-%d", base, attempt)
		}

		item.Slug = candidate
		created, err := s.repo.Create(ctx, item)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, model.ErrSlugTaken) {
			return nil, err
		}
	}

	return nil, fmt.Errorf("%w: base %q after %d attempts", model.ErrSlugExhausted, base, s.cfg.SlugMaxAttempts)
}

func (s *mediaService) GetBySlug(ctx context.Context, slug string) (*model.MediaItem, error) {
	slug = strings.TrimSpace(strings.ToLower(slug))
	if slug == "" {
		return nil, model.ErrMediaNotFound
	}
	return s.repo.GetBySlug(ctx, slug)
}

func (s *mediaService) GetByID(ctx context.Context, id int64) (*model.MediaItem, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *mediaService) List(ctx context.Context, filter model.ListFilter) ([]model.MediaItem, int64, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	filter.Search = strings.TrimSpace(filter.Search)

	return s.repo.List(ctx, filter)
}

func (s *mediaService) Update(ctx context.Context, id int64, req model.UpdateRequest, file *UploadFile) (*model.MediaItem, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *current
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, fmt.Errorf("title must not be empty")
		}
		updated.Title = title
	}
	if req.Description != nil {
		updated.Description = *req.Description
	}

	replaced := file != nil && file.Reader != nil
	if replaced {
		if !mimetype.IsAllowedExtension(file.Name) {
			return nil, fmt.Errorf("%w: %s", model.ErrInvalidExtension, file.Name)
		}
		if s.cfg.MaxUploadBytes > 0 && file.Size > s.cfg.MaxUploadBytes {
			return nil, fmt.Errorf("file exceeds %d bytes", s.cfg.MaxUploadBytes)
		}

		blobKey := model.BlobKey(current.OwnerID, file.Name)
		contentType, reader := s.sniffContentType(file.Name, file.Reader)
		if err := s.storage.Put(ctx, blobKey, reader, file.Size, contentType); err != nil {
			return nil, fmt.Errorf("failed to store replacement file: %w", err)
		}

		updated.BlobKey = blobKey
		updated.OriginalName = file.Name
		// The old preview belongs to the old file.
		updated.ThumbnailKey = nil
	}

	// media_type is derived state: recompute from the current primary file
	// on every save, never trust what was stored.
	updated.MediaType = mimetype.Classify(s.detect, updated.OriginalName)

	result, err := s.repo.Update(ctx, &updated)
	if err != nil {
		return nil, err
	}

	if replaced && result.MediaType == mimetype.TypeImage {
		s.enqueueThumbnail(result.ID)
	}

	return result, nil
}

func (s *mediaService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// ProcessThumbnail derives and stores the JPEG preview for an image item.
// Decode and encode failures are terminal: they are logged and reported as
// success so the task is not retried — the item simply has no thumbnail.
// Storage and database errors are returned for asynq's bounded retry.
func (s *mediaService) ProcessThumbnail(ctx context.Context, mediaID int64) error {
	item, err := s.repo.GetByID(ctx, mediaID)
	if err != nil {
		if errors.Is(err, model.ErrMediaNotFound) {
			// Deleted between enqueue and processing; nothing to do.
			return nil
		}
		return err
	}

	if item.MediaType != mimetype.TypeImage {
		return nil
	}

	reader, err := s.storage.Get(ctx, item.BlobKey)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			log.Warn().Int64("media_id", mediaID).Str("key", item.BlobKey).Msg("Blob missing, skipping thumbnail")
			return nil
		}
		return fmt.Errorf("failed to open blob: %w", err)
	}
	defer reader.Close()

	thumbData, err := s.thumbnailer.Generate(reader)
	if err != nil {
		log.Warn().Err(err).Int64("media_id", mediaID).Msg("Thumbnail generation failed, item stays without preview")
		return nil
	}

	thumbKey := model.ThumbKey(item.BlobKey)
	if err := s.storage.Put(ctx, thumbKey, bytes.NewReader(thumbData), int64(len(thumbData)), "image/jpeg"); err != nil {
		return fmt.Errorf("failed to store thumbnail: %w", err)
	}

	if err := s.repo.SetThumbnail(ctx, mediaID, thumbKey); err != nil {
		if errors.Is(err, model.ErrMediaNotFound) {
			return nil
		}
		return fmt.Errorf("failed to record thumbnail: %w", err)
	}

	log.Info().Int64("media_id", mediaID).Str("key", thumbKey).Msg("Thumbnail generated")
	return nil
}

// SweepOrphans deletes stored objects under uploads/ that no record
// references. Objects younger than the grace period are skipped so uploads
// racing the sweep are never reclaimed.
func (s *mediaService) SweepOrphans(ctx context.Context) (int, error) {
	referenced, err := s.repo.ListBlobKeys(ctx)
	if err != nil {
		return 0, err
	}

	refSet := make(map[string]struct{}, len(referenced))
	for _, key := range referenced {
		refSet[key] = struct{}{}
	}

	objects, err := s.storage.List(ctx, "uploads/")
	if err != nil {
		return 0, fmt.Errorf("failed to list stored objects: %w", err)
	}

	cutoff := time.Now().Add(-sweepGracePeriod)
	removed := 0
	for _, obj := range objects {
		if _, ok := refSet[obj.Key]; ok {
			continue
		}
		if obj.LastModified.After(cutoff) {
			continue
		}
		if err := s.storage.Remove(ctx, obj.Key); err != nil {
			log.Warn().Err(err).Str("key", obj.Key).Msg("Failed to remove orphaned object")
			continue
		}
		removed++
	}

	if removed > 0 {
		log.Info().Int("removed", removed).Msg("Orphan sweep completed")
	}
	return removed, nil
}

// sniffContentType works out the Content-Type stored alongside the blob.
// The leading bytes win over the filename; the extension table is the
// fallback when sniffing is inconclusive. Sniffed bytes are stitched back
// in front of the remaining stream. Note this only affects stored object
// metadata — classification is extension-driven on purpose, so a renamed
// file streams with the type its name promises.
func (s *mediaService) sniffContentType(name string, r io.Reader) (string, io.Reader) {
	head := new(bytes.Buffer)
	sniffed, err := mimetype.SniffReader(io.TeeReader(r, head))
	combined := io.MultiReader(bytes.NewReader(head.Bytes()), r)

	if err != nil || sniffed == "" || sniffed == "application/octet-stream" {
		return mimetype.ContentType(s.detect, name), combined
	}
	return sniffed, combined
}

func (s *mediaService) enqueueThumbnail(mediaID int64) {
	payload, err := json.Marshal(model.GenerateThumbnailPayload{MediaID: mediaID})
	if err != nil {
		log.Warn().Err(err).Int64("media_id", mediaID).Msg("Failed to marshal thumbnail payload")
		return
	}

	task := asynq.NewTask(shared.TypeGenerateThumbnail, payload)
	if _, err := s.tasks.Enqueue(task, asynq.Queue(shared.QueueMedia), asynq.MaxRetry(2)); err != nil {
		// Best-effort step: the upload already succeeded.
		log.Warn().Err(err).Int64("media_id", mediaID).Msg("Failed to enqueue thumbnail task")
	}
}
