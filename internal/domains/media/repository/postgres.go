package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"media-gallery-backend/internal/domains/media/model"
	"media-gallery-backend/pkg/cache"
)

// postgresRepository implements Repository on pgxpool with a Redis
// read-through cache for single-item lookups.
type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

func NewPostgresRepository(pool *pgxpool.Pool, cache cache.Cache) Repository {
	return &postgresRepository{
		pool:  pool,
		cache: cache,
	}
}

const (
	mediaCacheKeyPrefix = "media:id:"
	mediaSlugKeyPrefix  = "media:slug:"
	cacheTTL            = 15 * time.Minute
)

const mediaColumns = `id, title, description, blob_key, original_name, media_type, thumbnail_key, owner_id, slug, created_at, updated_at`

func scanMediaItem(row pgx.Row) (*model.MediaItem, error) {
	var m model.MediaItem
	err := row.Scan(
		&m.ID,
		&m.Title,
		&m.Description,
		&m.BlobKey,
		&m.OriginalName,
		&m.MediaType,
		&m.ThumbnailKey,
		&m.OwnerID,
		&m.Slug,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserts a new item. The unique constraint on slug makes this the
// atomic "insert if slug absent" primitive: a duplicate maps to
// model.ErrSlugTaken and the caller retries with its next candidate.
func (r *postgresRepository) Create(ctx context.Context, item *model.MediaItem) (*model.MediaItem, error) {
	query := `
        INSERT INTO media_items (title, description, blob_key, original_name, media_type, owner_id, slug)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING ` + mediaColumns

	created, err := scanMediaItem(r.pool.QueryRow(
		ctx,
		query,
		item.Title,
		item.Description,
		item.BlobKey,
		item.OriginalName,
		item.MediaType,
		item.OwnerID,
		item.Slug,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" && strings.Contains(pgErr.ConstraintName, "slug") {
				return nil, model.ErrSlugTaken
			}
		}
		return nil, fmt.Errorf("failed to create media item: %w", err)
	}

	return created, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*model.MediaItem, error) {
	cacheKey := fmt.Sprintf("%s%d", mediaCacheKeyPrefix, id)

	var m model.MediaItem
	if found, err := r.cache.Get(ctx, cacheKey, &m); err == nil && found {
		return &m, nil
	}

	query := `SELECT ` + mediaColumns + ` FROM media_items WHERE id = $1`

	item, err := scanMediaItem(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrMediaNotFound
		}
		return nil, fmt.Errorf("failed to get media item by id: %w", err)
	}

	r.storeInCache(ctx, item)
	return item, nil
}

func (r *postgresRepository) GetBySlug(ctx context.Context, slug string) (*model.MediaItem, error) {
	cacheKey := mediaSlugKeyPrefix + slug

	var m model.MediaItem
	if found, err := r.cache.Get(ctx, cacheKey, &m); err == nil && found {
		return &m, nil
	}

	query := `SELECT ` + mediaColumns + ` FROM media_items WHERE slug = $1`

	item, err := scanMediaItem(r.pool.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrMediaNotFound
		}
		return nil, fmt.Errorf("failed to get media item by slug: %w", err)
	}

	r.storeInCache(ctx, item)
	return item, nil
}

func (r *postgresRepository) List(ctx context.Context, filter model.ListFilter) ([]model.MediaItem, int64, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + mediaColumns + ` FROM media_items WHERE 1=1`)

	args := []interface{}{}
	argPos := 1

	if filter.Search != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND title ILIKE $%d", argPos))
		args = append(args, "%"+escapeWildcards(filter.Search)+"%")
		argPos++
	}

	queryBuilder.WriteString(" ORDER BY created_at DESC")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argPos, argPos+1))
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query media items: %w", err)
	}
	defer rows.Close()

	var items []model.MediaItem
	for rows.Next() {
		item, err := scanMediaItem(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan media item: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating media items: %w", err)
	}

	countQuery := `SELECT COUNT(*) FROM media_items WHERE 1=1`
	countArgs := []interface{}{}
	if filter.Search != "" {
		countQuery += " AND title ILIKE $1"
		countArgs = append(countArgs, "%"+escapeWildcards(filter.Search)+"%")
	}

	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count media items: %w", err)
	}

	return items, total, nil
}

// Update rewrites the mutable columns. The slug column is deliberately
// absent from the SET list: once assigned it never changes.
func (r *postgresRepository) Update(ctx context.Context, item *model.MediaItem) (*model.MediaItem, error) {
	query := `
        UPDATE media_items
        SET title = $1,
            description = $2,
            blob_key = $3,
            original_name = $4,
            media_type = $5,
            thumbnail_key = $6,
            updated_at = NOW()
        WHERE id = $7
        RETURNING ` + mediaColumns

	updated, err := scanMediaItem(r.pool.QueryRow(
		ctx,
		query,
		item.Title,
		item.Description,
		item.BlobKey,
		item.OriginalName,
		item.MediaType,
		item.ThumbnailKey,
		item.ID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrMediaNotFound
		}
		return nil, fmt.Errorf("failed to update media item: %w", err)
	}

	r.invalidateCache(ctx, updated.ID, updated.Slug)
	return updated, nil
}

func (r *postgresRepository) SetThumbnail(ctx context.Context, id int64, thumbKey string) error {
	query := `UPDATE media_items SET thumbnail_key = $1, updated_at = NOW() WHERE id = $2 RETURNING slug`

	var slug string
	err := r.pool.QueryRow(ctx, query, thumbKey, id).Scan(&slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrMediaNotFound
		}
		return fmt.Errorf("failed to set thumbnail: %w", err)
	}

	r.invalidateCache(ctx, id, slug)
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	// Fetch the slug first so both cache entries can be invalidated.
	var slug string
	err := r.pool.QueryRow(ctx, `SELECT slug FROM media_items WHERE id = $1`, id).Scan(&slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrMediaNotFound
		}
		return fmt.Errorf("failed to look up media item: %w", err)
	}

	cmdTag, err := r.pool.Exec(ctx, `DELETE FROM media_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete media item: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return model.ErrMediaNotFound
	}

	r.invalidateCache(ctx, id, slug)
	return nil
}

func (r *postgresRepository) ListBlobKeys(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT blob_key, thumbnail_key FROM media_items`)
	if err != nil {
		return nil, fmt.Errorf("failed to list blob keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var blobKey string
		var thumbKey *string
		if err := rows.Scan(&blobKey, &thumbKey); err != nil {
			return nil, fmt.Errorf("failed to scan blob key: %w", err)
		}
		keys = append(keys, blobKey)
		if thumbKey != nil {
			keys = append(keys, *thumbKey)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating blob keys: %w", err)
	}

	return keys, nil
}

func (r *postgresRepository) storeInCache(ctx context.Context, item *model.MediaItem) {
	r.cache.Set(ctx, fmt.Sprintf("%s%d", mediaCacheKeyPrefix, item.ID), item, cacheTTL)
	r.cache.Set(ctx, mediaSlugKeyPrefix+item.Slug, item, cacheTTL)
}

func (r *postgresRepository) invalidateCache(ctx context.Context, id int64, slug string) {
	r.cache.Delete(ctx,
		fmt.Sprintf("%s%d", mediaCacheKeyPrefix, id),
		mediaSlugKeyPrefix+slug,
	)
}

// escapeWildcards keeps user search input from injecting ILIKE wildcards.
func escapeWildcards(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
