// Package codec encodes and decodes tables in the supported on-disk formats
// and maps file extensions to the matching codec.
package codec

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"iwutil/internal/fsx"
	"iwutil/table"
)

// Codec is one tabular file format.
type Codec interface {
	Encode(w io.Writer, t *table.Table) error
	Decode(r *io.SectionReader) (*table.Table, error)
	Extension() string
}

// New returns the codec for a format name or extension (csv, .csv, PARQUET).
// Returns nil if the format is not supported.
func New(format string) Codec {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(format)), ".") {
	case "csv":
		return CSV
	case "txt":
		return TXT
	case "tsv":
		return TSV
	case "json":
		return JSON{}
	case "parquet":
		return Parquet{}
	case "feather":
		return Feather{}
	default:
		return nil
	}
}

// Lookup is New with an ErrUnsupportedFormat error instead of nil.
func Lookup(format string) (Codec, error) {
	c := New(format)
	if c == nil {
		return nil, fmt.Errorf("%w: %q (use: %s)", fsx.ErrUnsupportedFormat, format, strings.Join(Formats(), ", "))
	}
	return c, nil
}

// ForPath picks the codec from the extension of path.
func ForPath(path string) (Codec, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return nil, fmt.Errorf("%w: %s has no extension", fsx.ErrUnsupportedFormat, path)
	}
	return Lookup(ext)
}

// Formats lists the supported format names.
func Formats() []string {
	return []string{"csv", "txt", "tsv", "json", "parquet", "feather"}
}

// WithRawStrings turns off cell type inference for delimited codecs.
// Other codecs are returned unchanged.
func WithRawStrings(c Codec) Codec {
	if d, ok := c.(Delimited); ok {
		d.RawStrings = true
		return d
	}
	return c
}
