package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"media-gallery-backend/internal/domains/media/model"
	"media-gallery-backend/internal/shared"
	"media-gallery-backend/pkg/logger"
)

// Scheduler registers the recurring maintenance jobs with asynq.
type Scheduler struct {
	scheduler *asynq.Scheduler
}

func NewScheduler(redisAddress, redisPassword string, redisDB int) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{
			Addr:     redisAddress,
			Password: redisPassword,
			DB:       redisDB,
		},
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{scheduler: scheduler}
}

// RegisterMaintenanceJobs wires up all cron-driven tasks.
func (s *Scheduler) RegisterMaintenanceJobs() error {
	return s.registerSweepOrphansJob()
}

// Orphan sweep, daily at 3 AM. Blobs of failed uploads and replaced files
// accumulate until this runs; the service-side grace period keeps uploads
// racing the sweep safe, so a daily cadence is enough.
func (s *Scheduler) registerSweepOrphansJob() error {
	payload, err := json.Marshal(model.SweepOrphansPayload{})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeSweepOrphans, payload)

	_, err = s.scheduler.Register(
		"0 3 * * *",
		task,
		asynq.Queue(shared.QueueMedia),
		asynq.MaxRetry(1),
		asynq.Timeout(15*time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register SweepOrphans job", err)
		return err
	}

	logger.Info("Registered SweepOrphans: daily at 3 AM", map[string]interface{}{})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Start()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
