package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"media-gallery-backend/internal/domains/media/model"
	"media-gallery-backend/internal/domains/media/service"
)

// GenerateThumbnailHandler derives the JPEG preview for an uploaded image.
type GenerateThumbnailHandler struct {
	mediaService service.Service
}

func NewGenerateThumbnailHandler(mediaService service.Service) *GenerateThumbnailHandler {
	return &GenerateThumbnailHandler{
		mediaService: mediaService,
	}
}

// ProcessTask runs the thumbnail derivation. Errors returned here trigger
// asynq's bounded retry; the service swallows terminal failures itself.
func (h *GenerateThumbnailHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload model.GenerateThumbnailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal GenerateThumbnail payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	log.Info().
		Int64("media_id", payload.MediaID).
		Msg("Generating thumbnail")

	if err := h.mediaService.ProcessThumbnail(ctx, payload.MediaID); err != nil {
		log.Error().
			Err(err).
			Int64("media_id", payload.MediaID).
			Msg("Failed to generate thumbnail")
		return fmt.Errorf("generate thumbnail: %w", err)
	}

	return nil
}
