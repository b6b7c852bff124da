package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"media-gallery-backend/internal/config"
	mediaHandler "media-gallery-backend/internal/domains/media/handler"
	mediaRepo "media-gallery-backend/internal/domains/media/repository"
	mediaService "media-gallery-backend/internal/domains/media/service"
	infraCache "media-gallery-backend/internal/infrastructure/cache"
	"media-gallery-backend/internal/infrastructure/database"
	"media-gallery-backend/internal/infrastructure/storage"
	"media-gallery-backend/internal/shared/mimetype"
	"media-gallery-backend/pkg/cache"
)

// Container is the root of the dependency graph. Everything in here is a
// singleton, built once at startup in dependency order: config, then
// infrastructure, then repositories, services and handlers.
type Container struct {
	Config *config.Config

	// Infrastructure
	DB          *database.PostgresDB
	Redis       *infraCache.RedisClient
	Cache       cache.Cache
	Storage     storage.ObjectStorage
	AsynqClient *asynq.Client

	// Media domain
	MediaRepo    mediaRepo.Repository
	MediaService mediaService.Service
	MediaHandler *mediaHandler.MediaHandler
}

// NewContainer builds the full dependency graph, failing fast on anything
// the API cannot run without (database, object storage). Redis is treated
// as degraded-but-up: a failed connection logs a warning and caching plus
// background jobs are simply less effective.
func NewContainer() (*Container, error) {
	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Printf("[Container] Config loaded (environment: %s)", cfg.App.Environment)

	// Database
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}
	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db
	log.Println("[Container] Database connected")

	// Redis
	redisClient := infraCache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := redisClient.Connect(context.Background()); err != nil {
		log.Printf("[Container] Redis connection failed (non-critical): %v", err)
	}
	c.Redis = redisClient
	c.Cache = infraCache.NewCache(redisClient)

	// Object storage
	minioStorage, err := storage.NewMinIOStorage(cfg.MinIO)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize object storage: %w", err)
	}
	c.Storage = minioStorage
	log.Println("[Container] Object storage ready")

	// Task queue client (producer side)
	c.AsynqClient = asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Media domain
	c.MediaRepo = mediaRepo.NewPostgresRepository(db.Pool, c.Cache)
	c.MediaService = mediaService.NewMediaService(
		c.MediaRepo,
		c.Storage,
		storage.NewThumbnailer(cfg.Media.ThumbnailMaxPx, cfg.Media.ThumbnailJPEGQ),
		c.AsynqClient,
		mimetype.ByExtension,
		cfg.Media,
	)
	c.MediaHandler = mediaHandler.NewMediaHandler(c.MediaService, c.Storage, mimetype.ByExtension)

	log.Println("[Container] Dependency graph ready")
	return c, nil
}

// Cleanup releases infrastructure resources in reverse order.
func (c *Container) Cleanup() {
	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Printf("[Container] Failed to close asynq client: %v", err)
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Printf("[Container] Failed to close redis: %v", err)
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
	log.Println("[Container] Cleaned up")
}
