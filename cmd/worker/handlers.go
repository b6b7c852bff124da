package main

import (
	"github.com/hibiken/asynq"

	mediaJob "media-gallery-backend/internal/domains/media/job"
	"media-gallery-backend/internal/shared"
	"media-gallery-backend/pkg/container"
)

// HandlerRegistry holds all job handlers.
type HandlerRegistry struct {
	generateThumbnail *mediaJob.GenerateThumbnailHandler
	sweepOrphans      *mediaJob.SweepOrphansHandler
}

func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		generateThumbnail: mediaJob.NewGenerateThumbnailHandler(c.MediaService),
		sweepOrphans:      mediaJob.NewSweepOrphansHandler(c.MediaService),
	}
}

func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeGenerateThumbnail, h.generateThumbnail.ProcessTask)
	mux.HandleFunc(shared.TypeSweepOrphans, h.sweepOrphans.ProcessTask)
}
