package model

// GenerateThumbnailPayload is the asynq task body for thumbnail derivation.
type GenerateThumbnailPayload struct {
	MediaID int64 `json:"media_id"`
}

// SweepOrphansPayload is the asynq task body for the periodic storage sweep.
// Empty for now; kept as a struct so the schema can grow without renaming
// the task type.
type SweepOrphansPayload struct{}
