package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"iwutil/table"
)

// JSON stores a table column-oriented: {"col": [v, ...], ...} with two-space
// indent. Decode also accepts a top-level array of row objects.
type JSON struct{}

func (JSON) Extension() string { return "json" }

func (JSON) Encode(w io.Writer, t *table.Table) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(t)
}

func (JSON) Decode(r *io.SectionReader) (*table.Table, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	var t *table.Table
	switch tok {
	case json.Delim('{'):
		t, err = decodeColumns(dec)
	case json.Delim('['):
		t, err = decodeRecords(dec)
	default:
		return nil, fmt.Errorf("want a JSON object or array, got %v", tok)
	}
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("trailing data after JSON value")
	}
	return t, nil
}

// decodeColumns reads the members of an object whose values are arrays,
// keeping keys in document order.
func decodeColumns(dec *json.Decoder) (*table.Table, error) {
	var names []string
	cols := make(map[string][]any)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("want column name, got %v", tok)
		}
		var vals []any
		if err := dec.Decode(&vals); err != nil {
			return nil, fmt.Errorf("column %q: %w", name, err)
		}
		if _, dup := cols[name]; dup {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		for i, v := range vals {
			vals[i] = jsonCell(v)
		}
		names = append(names, name)
		cols[name] = vals
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return table.FromColumns(names, cols)
}

// decodeRecords reads an array of row objects. Columns appear in the order
// they are first seen; missing keys are nil.
func decodeRecords(dec *json.Decoder) (*table.Table, error) {
	var names []string
	seen := make(map[string]bool)
	var rows []map[string]any
	for dec.More() {
		row, keys, err := decodeObject(dec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", len(rows), err)
		}
		for _, k := range keys {
			if !seen[k] {
				seen[k] = true
				names = append(names, k)
			}
		}
		rows = append(rows, row)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	t, err := table.New(names...)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		cells := make([]any, len(names))
		for j, name := range names {
			cells[j] = jsonCell(row[name])
		}
		if err := t.AppendRow(cells...); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// decodeObject reads one object and its keys in document order.
func decodeObject(dec *json.Decoder) (map[string]any, []string, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if tok != json.Delim('{') {
		return nil, nil, fmt.Errorf("want object, got %v", tok)
	}
	row := make(map[string]any)
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("want key, got %v", tok)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, nil, err
		}
		if _, dup := row[key]; !dup {
			keys = append(keys, key)
		}
		row[key] = v
	}
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	return row, keys, nil
}

// jsonCell flattens nested values back to their JSON text.
func jsonCell(v any) any {
	switch v.(type) {
	case map[string]any, []any:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		if err := enc.Encode(v); err != nil {
			return fmt.Sprint(v)
		}
		return string(bytes.TrimRight(buf.Bytes(), "\n"))
	default:
		return table.Normalize(v)
	}
}
