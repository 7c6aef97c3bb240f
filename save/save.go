// Package save writes payloads to disk. Every function creates the target's
// parent folder first and overwrites an existing file without warning.
//
// The folder/name forms resolve the path as folder/name.<ext> and return it;
// the ...To forms take the full file name.
package save

import (
	"encoding"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"iwutil/internal/codec"
	"iwutil/internal/fsx"
	"iwutil/table"
)

// Error kinds, shared with package read.
var (
	ErrFileNotFound      = fsx.ErrFileNotFound
	ErrUnsupportedFormat = fsx.ErrUnsupportedFormat
	ErrParse             = fsx.ErrParse
	ErrPermissionDenied  = fsx.ErrPermissionDenied

	// ErrSameFile is returned by CopyFile when src and dst are one file.
	ErrSameFile = fsx.ErrSameFile
)

// CreateFolder makes dir and any missing parents. Calling it on an existing
// directory is a no-op.
func CreateFolder(dir string) error {
	return fsx.CreateFolder(dir)
}

// CreateParent makes the folder that will hold filename.
func CreateParent(filename string) error {
	return fsx.CreateParent(filename)
}

// Path resolves folder/name.ext. ext may be given with or without the dot.
func Path(folder, name, ext string) string {
	if ext != "" && ext[0] != '.' {
		ext = "." + ext
	}
	return filepath.Join(folder, name+ext)
}

// CopyFile copies src to dst, creating dst's folder and overwriting dst.
func CopyFile(src, dst string) error {
	return fsx.CopyFile(src, dst)
}

// JSON writes v as two-space indented JSON to folder/name.json.
func JSON(v any, folder, name string) (string, error) {
	path := Path(folder, name, "json")
	return path, JSONTo(v, path)
}

// JSONTo writes v as two-space indented JSON to filename. Floats inside
// maps, slices and arrays keep a decimal point (2.0, not 2) so read.JSON
// returns them as float64 again.
func JSONTo(v any, filename string) error {
	return fsx.WriteFile(filename, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(keepFloats(v))
	})
}

// jsonFloat marshals like table.FormatCell: integral values keep ".0".
type jsonFloat float64

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	x := float64(f)
	if math.IsInf(x, 0) || math.IsNaN(x) {
		return nil, fmt.Errorf("json: unsupported float value %v", x)
	}
	return []byte(table.FormatCell(x)), nil
}

// keepFloats rewrites float64 values reachable through maps with string
// keys, slices, arrays, pointers and interfaces into jsonFloat. Structs and
// values with their own marshalers are left to encoding/json.
func keepFloats(v any) any {
	switch x := v.(type) {
	case nil, json.Marshaler, encoding.TextMarshaler:
		return v
	case float64:
		return jsonFloat(x)
	case float32:
		return float32Value(x)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Float64:
		return jsonFloat(rv.Float())
	case reflect.Map:
		if rv.IsNil() || rv.Type().Key().Kind() != reflect.String {
			return v
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = keepFloats(iter.Value().Interface())
		}
		return out
	case reflect.Slice:
		if rv.IsNil() || rv.Type().Elem().Kind() == reflect.Uint8 {
			return v
		}
		fallthrough
	case reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = keepFloats(rv.Index(i).Interface())
		}
		return out
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return v
		}
		return keepFloats(rv.Elem().Interface())
	}
	return v
}

// float32Value keeps float32 precision in the text ("0.1", not
// "0.10000000149011612").
func float32Value(f float32) any {
	if f != f || math.IsInf(float64(f), 0) {
		return jsonFloat(f)
	}
	s := strconv.FormatFloat(float64(f), 'f', -1, 32)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return json.RawMessage(s)
}

// CSV writes t comma-separated with a header row to folder/name.csv.
func CSV(t *table.Table, folder, name string) (string, error) {
	path := Path(folder, name, "csv")
	return path, CSVTo(t, path)
}

// CSVTo writes t comma-separated with a header row to filename.
func CSVTo(t *table.Table, filename string) error {
	return writeTable(codec.CSV, t, filename)
}

// Parquet writes t to folder/name.parquet.
func Parquet(t *table.Table, folder, name string) (string, error) {
	path := Path(folder, name, "parquet")
	return path, ParquetTo(t, path)
}

// ParquetTo writes t to filename as Snappy-compressed parquet.
func ParquetTo(t *table.Table, filename string) error {
	return writeTable(codec.Parquet{}, t, filename)
}

// Feather writes t to folder/name.feather.
func Feather(t *table.Table, folder, name string) (string, error) {
	path := Path(folder, name, "feather")
	return path, FeatherTo(t, path)
}

// FeatherTo writes t to filename in the Arrow IPC file format.
func FeatherTo(t *table.Table, filename string) error {
	return writeTable(codec.Feather{}, t, filename)
}

// TableTXT writes t tab-separated with a header row to folder/name.txt.
func TableTXT(t *table.Table, folder, name string) (string, error) {
	path := Path(folder, name, "txt")
	return path, writeTable(codec.TXT, t, path)
}

// Table writes t to filename in the format named by its extension.
func Table(t *table.Table, filename string) error {
	c, err := codec.ForPath(filename)
	if err != nil {
		return err
	}
	return writeTable(c, t, filename)
}

// writeTable writes t to filename with an explicit codec.
func writeTable(c codec.Codec, t *table.Table, filename string) error {
	return fsx.WriteFile(filename, func(w io.Writer) error {
		return c.Encode(w, t)
	})
}

// TXT writes text as-is to folder/name.txt.
func TXT(text, folder, name string) (string, error) {
	path := Path(folder, name, "txt")
	return path, TXTTo(text, path)
}

// TXTTo writes text as-is to filename.
func TXTTo(text, filename string) error {
	return fsx.WriteFile(filename, func(w io.Writer) error {
		_, err := io.WriteString(w, text)
		return err
	})
}
