package model

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"media-gallery-backend/internal/shared/mimetype"
)

// MediaItem is the sole domain entity: an uploaded file plus its metadata.
type MediaItem struct {
	ID           int64              `json:"id"`
	Title        string             `json:"title"`
	Description  string             `json:"description"`
	BlobKey      string             `json:"blob_key"`
	OriginalName string             `json:"original_name"`
	MediaType    mimetype.MediaType `json:"media_type"`
	ThumbnailKey *string            `json:"thumbnail_key,omitempty"`
	OwnerID      *uuid.UUID         `json:"owner_id,omitempty"`
	Slug         string             `json:"slug"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// anonBucket namespaces blobs of ownerless items.
const anonBucket = "anon"

// OwnerBucket returns the per-owner path segment, or the anonymous bucket.
func OwnerBucket(ownerID *uuid.UUID) string {
	if ownerID == nil {
		return anonBucket
	}
	return ownerID.String()
}

// BlobKey builds the storage key for a primary file:
// uploads/<owner-id-or-"anon">/<stem>-<random>.<ext>.
//
// The random stem suffix makes every key unique per upload, so two items
// uploaded with the same filename never share a blob and a replacement file
// never clobbers another item's content. The original name is preserved in
// the record, not the key.
func BlobKey(ownerID *uuid.UUID, filename string) string {
	base := path.Base(filename)
	ext := path.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return fmt.Sprintf("uploads/%s/%s-%s%s", OwnerBucket(ownerID), stem, uuid.NewString()[:8], ext)
}

// ThumbKey derives the preview key from an item's blob key:
// uploads/<owner>/<stem>.<ext> → uploads/<owner>/thumbs/<stem>.jpg.
// Deriving from the blob key (not the original name) keeps the pair matched
// and inherits the blob key's uniqueness.
func ThumbKey(blobKey string) string {
	dir, base := path.Split(blobKey)
	stem := strings.TrimSuffix(base, path.Ext(base))
	return dir + "thumbs/" + stem + ".jpg"
}
