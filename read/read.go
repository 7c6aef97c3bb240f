// Package read loads tables, JSON documents, typed records and text from
// disk. The file extension decides the parser for tables.
package read

import (
	"encoding/json"
	"errors"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"

	"iwutil/internal/codec"
	"iwutil/internal/fsx"
	"iwutil/table"
)

// Error kinds, shared with package save.
var (
	ErrFileNotFound      = fsx.ErrFileNotFound
	ErrUnsupportedFormat = fsx.ErrUnsupportedFormat
	ErrParse             = fsx.ErrParse
	ErrPermissionDenied  = fsx.ErrPermissionDenied
)

type options struct {
	columns []string
	raw     bool
}

// Option tunes Table and FromTable.
type Option func(*options)

// WithColumns keeps only the named columns, in the given order.
func WithColumns(names ...string) Option {
	return func(o *options) { o.columns = names }
}

// WithRawStrings keeps csv/txt cells as strings instead of inferring
// int, float and bool columns.
func WithRawStrings() Option {
	return func(o *options) { o.raw = true }
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Table reads a table from path. Supported extensions: .csv, .txt and .tsv
// (tab-separated), .json, .parquet, .feather.
func Table(path string, opts ...Option) (*table.Table, error) {
	o := buildOptions(opts)
	c, err := codec.ForPath(path)
	if err != nil {
		return nil, err
	}
	if o.raw {
		c = codec.WithRawStrings(c)
	}

	var t *table.Table
	err = fsx.ReadFile(path, func(r *io.SectionReader) error {
		var derr error
		t, derr = c.Decode(r)
		return fsx.ParseError(path, derr)
	})
	if err != nil {
		return nil, err
	}
	return project(t, o)
}

// FromTable applies the same options to a table already in memory.
func FromTable(t *table.Table, opts ...Option) (*table.Table, error) {
	return project(t, buildOptions(opts))
}

func project(t *table.Table, o options) (*table.Table, error) {
	if len(o.columns) == 0 {
		return t, nil
	}
	return t.Select(o.columns...)
}

// JSON reads a JSON document. Objects decode to map[string]any, arrays to
// []any, integral numbers to int64 and other numbers to float64.
func JSON(path string) (any, error) {
	var v any
	err := fsx.ReadFile(path, func(r *io.SectionReader) error {
		dec := json.NewDecoder(r)
		dec.UseNumber()
		if err := decodeOne(dec, &v); err != nil {
			return fsx.ParseError(path, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return numbers(v), nil
}

// JSONInto decodes the JSON document at path into v.
func JSONInto(path string, v any) error {
	return fsx.ReadFile(path, func(r *io.SectionReader) error {
		return fsx.ParseError(path, decodeOne(json.NewDecoder(r), v))
	})
}

func decodeOne(dec *json.Decoder, v any) error {
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("trailing data after JSON value")
	}
	return nil
}

func numbers(v any) any {
	switch x := v.(type) {
	case json.Number:
		return table.Normalize(x)
	case map[string]any:
		for k, e := range x {
			x[k] = numbers(e)
		}
		return x
	case []any:
		for i, e := range x {
			x[i] = numbers(e)
		}
		return x
	default:
		return v
	}
}

// Records reads typed rows from a parquet file. Columns map to T's
// `parquet` struct tags.
func Records[T any](path string) ([]T, error) {
	var rows []T
	err := fsx.ReadFile(path, func(r *io.SectionReader) error {
		var rerr error
		rows, rerr = parquet.Read[T](r, r.Size())
		return fsx.ParseError(path, rerr)
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Text returns the content of path.
func Text(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fsx.Classify(err)
	}
	return string(data), nil
}
