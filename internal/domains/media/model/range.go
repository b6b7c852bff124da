package model

import (
	"strconv"
	"strings"
)

// RangeOutcome says how a Range header resolved against a file.
// Parsing never fails outward: a malformed header simply resolves to
// RangeNone and the caller serves the whole file.
type RangeOutcome int

const (
	// RangeNone: no header, or one we could not honor. Serve 200, full body.
	RangeNone RangeOutcome = iota
	// RangePartial: a satisfiable byte span. Serve 206.
	RangePartial
	// RangeUnsatisfiable: start beyond the end of the file. Serve 416.
	RangeUnsatisfiable
)

// ByteRange is an inclusive byte span within a file.
type ByteRange struct {
	Start int64
	End   int64
}

// Length is the number of bytes in the span.
func (r ByteRange) Length() int64 {
	return r.End - r.Start + 1
}

// ResolveRange evaluates a Range request header against a file of the given
// size. Only single spans of the form "bytes=<start>-<end>" are supported;
// an omitted start defaults to 0 and an omitted end is clamped to size-1.
// Multi-range headers and anything malformed degrade to RangeNone.
func ResolveRange(header string, size int64) (ByteRange, RangeOutcome) {
	if header == "" || size <= 0 {
		return ByteRange{}, RangeNone
	}

	unit, spec, found := strings.Cut(header, "=")
	if !found || strings.TrimSpace(unit) != "bytes" {
		return ByteRange{}, RangeNone
	}

	// Multiple comma-separated spans are out of scope.
	if strings.Contains(spec, ",") {
		return ByteRange{}, RangeNone
	}

	startStr, endStr, found := strings.Cut(strings.TrimSpace(spec), "-")
	if !found {
		return ByteRange{}, RangeNone
	}

	var start int64
	if startStr != "" {
		v, err := strconv.ParseInt(startStr, 10, 64)
		if err != nil || v < 0 {
			return ByteRange{}, RangeNone
		}
		start = v
	}

	end := size - 1
	if endStr != "" {
		v, err := strconv.ParseInt(endStr, 10, 64)
		if err != nil || v < 0 {
			return ByteRange{}, RangeNone
		}
		if v < end {
			end = v
		}
	}

	if start >= size {
		return ByteRange{}, RangeUnsatisfiable
	}
	if start > end {
		return ByteRange{}, RangeNone
	}

	return ByteRange{Start: start, End: end}, RangePartial
}
