package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveRange(t *testing.T) {
	const size = 1000

	tests := []struct {
		name    string
		header  string
		want    ByteRange
		outcome RangeOutcome
	}{
		{"first hundred bytes", "bytes=0-99", ByteRange{0, 99}, RangePartial},
		{"tail from offset", "bytes=900-", ByteRange{900, 999}, RangePartial},
		{"end clamped to file size", "bytes=0-5000", ByteRange{0, 999}, RangePartial},
		{"omitted start defaults to zero", "bytes=-500", ByteRange{0, 500}, RangePartial},
		{"single byte", "bytes=42-42", ByteRange{42, 42}, RangePartial},
		{"last byte", "bytes=999-999", ByteRange{999, 999}, RangePartial},
		{"start past end of file", "bytes=5000-", ByteRange{}, RangeUnsatisfiable},
		{"start equals file size", "bytes=1000-", ByteRange{}, RangeUnsatisfiable},
		{"empty header", "", ByteRange{}, RangeNone},
		{"wrong unit", "items=0-99", ByteRange{}, RangeNone},
		{"no equals sign", "bytes 0-99", ByteRange{}, RangeNone},
		{"no dash", "bytes=099", ByteRange{}, RangeNone},
		{"garbage start", "bytes=abc-99", ByteRange{}, RangeNone},
		{"garbage end", "bytes=0-xyz", ByteRange{}, RangeNone},
		{"multiple ranges unsupported", "bytes=0-99,200-299", ByteRange{}, RangeNone},
		{"inverted range", "bytes=500-100", ByteRange{}, RangeNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, outcome := ResolveRange(tt.header, size)
			assert.Equal(t, tt.outcome, outcome)
			if tt.outcome == RangePartial {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestByteRangeLength(t *testing.T) {
	assert.Equal(t, int64(100), ByteRange{0, 99}.Length())
	assert.Equal(t, int64(1), ByteRange{42, 42}.Length())
}

func TestResolveRangeEmptyFile(t *testing.T) {
	_, outcome := ResolveRange("bytes=0-99", 0)
	assert.Equal(t, RangeNone, outcome)
}
