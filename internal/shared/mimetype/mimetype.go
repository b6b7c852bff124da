// Package mimetype classifies media files by their detected content type.
//
// Detection is an injected capability (a DetectFunc) rather than ambient
// global state, so classification stays deterministic and unit-testable
// regardless of what /etc/mime.types the host happens to carry.
package mimetype

import (
	"io"
	"mime"
	"path/filepath"
	"strings"

	gvmime "github.com/gabriel-vasile/mimetype"
)

// MediaType is the coarse classification of a stored file.
type MediaType string

const (
	TypeImage MediaType = "image"
	TypeAudio MediaType = "audio"
	TypeVideo MediaType = "video"
	TypeOther MediaType = "other"
)

// DetectFunc maps a filename to a MIME type. The boolean reports whether
// the detector recognized the name at all.
type DetectFunc func(filename string) (string, bool)

// extensionTypes covers every extension on the upload allow-list plus a few
// common aliases. It is consulted before the stdlib registry so results do
// not vary with the host environment.
var extensionTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".ogg":  "audio/ogg",
	".mp4":  "video/mp4",
	".webm": "video/webm",
	".mov":  "video/quicktime",
	".mkv":  "video/x-matroska",
}

// allowedExtensions is the stricter upload gate. Files outside this list are
// rejected with a validation error before classification ever runs.
var allowedExtensions = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".webp": {},
	".mp3": {}, ".wav": {}, ".ogg": {},
	".mp4": {}, ".webm": {}, ".mov": {}, ".mkv": {},
}

// ByExtension is the default detector: the built-in table first, then the
// stdlib registry for anything exotic.
func ByExtension(filename string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return "", false
	}
	if mt, ok := extensionTypes[ext]; ok {
		return mt, true
	}
	if mt := mime.TypeByExtension(ext); mt != "" {
		return mt, true
	}
	return "", false
}

// Classify maps a filename to its MediaType using the given detector.
// Unknown or unrecognized content types classify as TypeOther; the function
// is total and never errors.
func Classify(detect DetectFunc, filename string) MediaType {
	mt, ok := detect(filename)
	if !ok {
		return TypeOther
	}
	switch {
	case strings.HasPrefix(mt, "image/"):
		return TypeImage
	case strings.HasPrefix(mt, "audio/"):
		return TypeAudio
	case strings.HasPrefix(mt, "video/"):
		return TypeVideo
	default:
		return TypeOther
	}
}

// IsAllowedExtension reports whether the filename passes the upload
// allow-list. Matching is case-insensitive.
func IsAllowedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	_, ok := allowedExtensions[ext]
	return ok
}

// ContentType resolves the Content-Type to serve a stored file with,
// defaulting to application/octet-stream when nothing is recognized.
func ContentType(detect DetectFunc, filename string) string {
	if mt, ok := detect(filename); ok {
		return mt
	}
	return "application/octet-stream"
}

// SniffReader detects the MIME type from content, used as a fallback when
// the filename alone tells us nothing. It reads at most the sniff window
// defined by the underlying library.
func SniffReader(r io.Reader) (string, error) {
	mt, err := gvmime.DetectReader(r)
	if err != nil {
		return "", err
	}
	return mt.String(), nil
}
