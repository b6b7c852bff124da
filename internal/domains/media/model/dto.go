package model

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// UploadRequest carries the multipart form fields of an upload.
// The file part is handled separately by the handler.
type UploadRequest struct {
	Title       string `form:"title"`
	Description string `form:"description"`
}

func (r UploadRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Description, validation.Length(0, 2000)),
	)
}

// UpdateRequest carries partial edits. Nil fields stay untouched; a
// replacement file, when present, re-runs classification.
type UpdateRequest struct {
	Title       *string `form:"title"`
	Description *string `form:"description"`
}

func (r UpdateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Length(1, 200)),
		validation.Field(&r.Description, validation.Length(0, 2000)),
	)
}

// ListFilter narrows and pages the gallery listing.
type ListFilter struct {
	Search string
	Limit  int
	Offset int
}

// MediaResponse is the public shape of a MediaItem.
type MediaResponse struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	MediaType    string    `json:"media_type"`
	Slug         string    `json:"slug"`
	OriginalName string    `json:"original_name"`
	StreamURL    string    `json:"stream_url"`
	HasThumbnail bool      `json:"has_thumbnail"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func (m *MediaItem) ToResponse() *MediaResponse {
	resp := &MediaResponse{
		ID:           m.ID,
		Title:        m.Title,
		Description:  m.Description,
		MediaType:    string(m.MediaType),
		Slug:         m.Slug,
		OriginalName: m.OriginalName,
		StreamURL:    fmt.Sprintf("/api/v1/media/id/%d/stream", m.ID),
		HasThumbnail: m.ThumbnailKey != nil,
		CreatedAt:    m.CreatedAt,
	}
	if m.ThumbnailKey != nil {
		resp.ThumbnailURL = fmt.Sprintf("/api/v1/media/id/%d/thumbnail", m.ID)
	}
	return resp
}
