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

// SweepOrphansHandler reclaims stored objects no media record references.
type SweepOrphansHandler struct {
	mediaService service.Service
}

func NewSweepOrphansHandler(mediaService service.Service) *SweepOrphansHandler {
	return &SweepOrphansHandler{
		mediaService: mediaService,
	}
}

func (h *SweepOrphansHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload model.SweepOrphansPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal SweepOrphans payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	log.Info().Msg("Starting orphan sweep")

	removed, err := h.mediaService.SweepOrphans(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Orphan sweep failed")
		return fmt.Errorf("sweep orphans: %w", err)
	}

	log.Info().
		Int("removed", removed).
		Msg("Orphan sweep finished")

	return nil
}
