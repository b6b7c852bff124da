package model

import (
	"errors"
	"net/http"
)

var (
	// ErrMediaNotFound covers lookups by id or slug with no matching record.
	ErrMediaNotFound = errors.New("media item not found")

	// ErrBlobMissing means the metadata row exists but the stored file is gone.
	ErrBlobMissing = errors.New("stored file is missing")

	// ErrInvalidExtension rejects uploads outside the extension allow-list.
	ErrInvalidExtension = errors.New("file extension is not allowed")

	// ErrMissingFile rejects uploads without a file part.
	ErrMissingFile = errors.New("file is required")

	// ErrSlugTaken is the repository-level unique violation on slug insert.
	ErrSlugTaken = errors.New("slug already taken")

	// ErrSlugExhausted means slug allocation ran out of retry budget under
	// contention. Retryable server error, never a silent duplicate.
	ErrSlugExhausted = errors.New("could not allocate a unique slug")
)

// ToHTTPStatus maps domain errors to HTTP status codes.
func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrMediaNotFound), errors.Is(err, ErrBlobMissing):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidExtension), errors.Is(err, ErrMissingFile):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrSlugExhausted):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrSlugTaken):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
