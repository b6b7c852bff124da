package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"media-gallery-backend/internal/domains/media/model"
	"media-gallery-backend/internal/domains/media/service"
	"media-gallery-backend/internal/infrastructure/storage"
	"media-gallery-backend/internal/shared/middleware"
	"media-gallery-backend/internal/shared/mimetype"
	"media-gallery-backend/internal/shared/response"
)

// streamChunkSize bounds the copy buffer while streaming, so a large video
// never sits in memory in one piece.
const streamChunkSize = 64 * 1024

// MediaHandler exposes the media gallery over HTTP.
type MediaHandler struct {
	service service.Service
	storage storage.ObjectStorage
	detect  mimetype.DetectFunc
}

func NewMediaHandler(svc service.Service, store storage.ObjectStorage, detect mimetype.DetectFunc) *MediaHandler {
	return &MediaHandler{
		service: svc,
		storage: store,
		detect:  detect,
	}
}

// Upload handles POST /api/v1/media (multipart form: title, description, file).
func (h *MediaHandler) Upload(c *gin.Context) {
	var req model.UploadRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "invalid form data")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.UnprocessableEntity(c, model.ErrMissingFile.Error())
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "cannot read uploaded file")
		return
	}
	defer f.Close()

	var ownerID *uuid.UUID
	if id, ok := middleware.OwnerFromContext(c); ok {
		ownerID = &id
	}

	item, err := h.service.Upload(c.Request.Context(), req, service.UploadFile{
		Name:   filepath.Base(fileHeader.Filename),
		Size:   fileHeader.Size,
		Reader: f,
	}, ownerID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, item.ToResponse())
}

// List handles GET /api/v1/media?search=&limit=&offset=.
func (h *MediaHandler) List(c *gin.Context) {
	filter := model.ListFilter{
		Search: c.Query("search"),
		Limit:  queryInt(c, "limit", 20),
		Offset: queryInt(c, "offset", 0),
	}

	items, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, err)
		return
	}

	responses := make([]*model.MediaResponse, 0, len(items))
	for i := range items {
		responses = append(responses, items[i].ToResponse())
	}

	response.SuccessWithMeta(c, http.StatusOK, responses, &response.Meta{
		Limit:  filter.Limit,
		Offset: filter.Offset,
		Total:  total,
	})
}

// GetBySlug handles GET /api/v1/media/:slug.
func (h *MediaHandler) GetBySlug(c *gin.Context) {
	item, err := h.service.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, item.ToResponse())
}

// GetByID handles GET /api/v1/media/id/:id.
func (h *MediaHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	item, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, item.ToResponse())
}

// Update handles PUT /api/v1/media/id/:id (multipart form, all parts optional).
func (h *MediaHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var req model.UpdateRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "invalid form data")
		return
	}

	var file *service.UploadFile
	if fileHeader, err := c.FormFile("file"); err == nil {
		f, err := fileHeader.Open()
		if err != nil {
			response.BadRequest(c, "cannot read uploaded file")
			return
		}
		defer f.Close()
		file = &service.UploadFile{
			Name:   filepath.Base(fileHeader.Filename),
			Size:   fileHeader.Size,
			Reader: f,
		}
	}

	item, err := h.service.Update(c.Request.Context(), id, req, file)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, item.ToResponse())
}

// Delete handles DELETE /api/v1/media/id/:id.
func (h *MediaHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Stream handles GET /api/v1/media/id/:id/stream with byte-range support.
//
// The Range header resolves to one of three servings: the whole file (200),
// a single byte span (206 with Content-Range), or nothing at all (416 with
// "bytes */<size>"). Malformed and multi-span headers fall back to the whole
// file rather than erroring.
func (h *MediaHandler) Stream(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	item, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	size, err := h.storage.Stat(c.Request.Context(), item.BlobKey)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			h.handleError(c, model.ErrBlobMissing)
			return
		}
		h.handleError(c, err)
		return
	}

	c.Header("Accept-Ranges", "bytes")
	contentType := mimetype.ContentType(h.detect, item.OriginalName)

	span, outcome := model.ResolveRange(c.GetHeader("Range"), size)
	switch outcome {
	case model.RangeUnsatisfiable:
		c.Header("Content-Range", fmt.Sprintf("bytes */%d", size))
		c.Status(http.StatusRequestedRangeNotSatisfiable)
		return

	case model.RangePartial:
		reader, err := h.storage.GetRange(c.Request.Context(), item.BlobKey, span.Start, span.End)
		if err != nil {
			h.handleError(c, err)
			return
		}
		defer reader.Close()

		c.Header("Content-Range", fmt.Sprintf("bytes %d-%d/%d", span.Start, span.End, size))
		c.Header("Content-Length", strconv.FormatInt(span.Length(), 10))
		c.Header("Content-Type", contentType)
		c.Status(http.StatusPartialContent)
		h.copyBody(c, reader)
		return

	default:
		reader, err := h.storage.Get(c.Request.Context(), item.BlobKey)
		if err != nil {
			h.handleError(c, err)
			return
		}
		defer reader.Close()

		c.Header("Content-Length", strconv.FormatInt(size, 10))
		c.Header("Content-Type", contentType)
		c.Status(http.StatusOK)
		h.copyBody(c, reader)
	}
}

// Thumbnail handles GET /api/v1/media/id/:id/thumbnail.
func (h *MediaHandler) Thumbnail(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	item, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	if item.ThumbnailKey == nil {
		response.NotFound(c, "no thumbnail for this item")
		return
	}

	reader, err := h.storage.Get(c.Request.Context(), *item.ThumbnailKey)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			response.NotFound(c, "no thumbnail for this item")
			return
		}
		h.handleError(c, err)
		return
	}
	defer reader.Close()

	c.Header("Content-Type", "image/jpeg")
	c.Status(http.StatusOK)
	h.copyBody(c, reader)
}

// copyBody streams the reader to the client in bounded chunks. Headers are
// already out when copying starts, so failures can only be logged.
func (h *MediaHandler) copyBody(c *gin.Context, r io.Reader) {
	buf := make([]byte, streamChunkSize)
	if _, err := io.CopyBuffer(c.Writer, r, buf); err != nil {
		log.Debug().Err(err).Str("path", c.Request.URL.Path).Msg("Stream interrupted")
	}
}

func (h *MediaHandler) pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "invalid media id")
		return 0, false
	}
	return id, true
}

func (h *MediaHandler) handleError(c *gin.Context, err error) {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_FAILED", "validation failed", verrs)
		return
	}

	status := model.ToHTTPStatus(err)
	switch status {
	case http.StatusNotFound:
		response.NotFound(c, err.Error())
	case http.StatusUnprocessableEntity:
		response.UnprocessableEntity(c, err.Error())
	case http.StatusConflict:
		response.Conflict(c, err.Error())
	case http.StatusServiceUnavailable:
		response.ServiceUnavailable(c, err.Error())
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
		response.InternalServerError(c, "internal server error")
	}
}

func queryInt(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
