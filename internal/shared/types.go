package shared

// Task type names shared between the API (producer) and the worker (consumer).
const (
	TypeGenerateThumbnail = "media:generate_thumbnail"
	TypeSweepOrphans      = "media:sweep_orphans"
)

// Queue names
const (
	QueueMedia = "media"
)
