package codec

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"iwutil/table"
)

// Delimited is a text table with a header row: comma-separated for .csv,
// tab-separated for .txt and .tsv.
type Delimited struct {
	Comma rune
	Ext   string
	// RawStrings keeps every non-empty cell as a string on decode.
	RawStrings bool
}

var (
	CSV = Delimited{Comma: ',', Ext: "csv"}
	TXT = Delimited{Comma: '\t', Ext: "txt"}
	TSV = Delimited{Comma: '\t', Ext: "tsv"}
)

func (d Delimited) Extension() string { return d.Ext }

func (d Delimited) Encode(w io.Writer, t *table.Table) error {
	cw := csv.NewWriter(w)
	cw.Comma = d.Comma

	if err := writeRecord(w, cw, t.Columns()); err != nil {
		return err
	}
	record := make([]string, t.NumColumns())
	for i := 0; i < t.Len(); i++ {
		for j, c := range t.Row(i) {
			record[j] = table.FormatCell(c)
		}
		if err := writeRecord(w, cw, record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// writeRecord writes a lone empty field as "" so the line is not blank;
// csv.Reader skips blank lines.
func writeRecord(w io.Writer, cw *csv.Writer, record []string) error {
	if len(record) != 1 || record[0] != "" {
		return cw.Write(record)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\"\"\n")
	return err
}

func (d Delimited) Decode(r *io.SectionReader) (*table.Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = d.Comma

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("no header row")
	}
	if err != nil {
		return nil, err
	}
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}

	cols := make(map[string][]any, len(header))
	for j, name := range header {
		raw := make([]string, len(records))
		for i, rec := range records {
			raw[i] = rec[j]
		}
		if _, dup := cols[name]; dup {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		if d.RawStrings {
			cols[name] = stringCells(raw)
		} else {
			cols[name] = inferCells(raw)
		}
	}
	return table.FromColumns(header, cols)
}

func stringCells(raw []string) []any {
	out := make([]any, len(raw))
	for i, s := range raw {
		if s != "" {
			out[i] = s
		}
	}
	return out
}

// inferCells types a column: int64 if every non-empty cell parses as an
// integer, else float64, else bool, else string. Empty cells become nil.
func inferCells(raw []string) []any {
	out := make([]any, len(raw))
	if cells, ok := parseAll(raw, func(s string) (any, error) { return strconv.ParseInt(s, 10, 64) }); ok {
		return cells
	}
	if cells, ok := parseAll(raw, func(s string) (any, error) { return strconv.ParseFloat(s, 64) }); ok {
		return cells
	}
	if cells, ok := parseAll(raw, parseBool); ok {
		return cells
	}
	for i, s := range raw {
		if s != "" {
			out[i] = s
		}
	}
	return out
}

func parseAll(raw []string, parse func(string) (any, error)) ([]any, bool) {
	out := make([]any, len(raw))
	for i, s := range raw {
		if s == "" {
			continue
		}
		v, err := parse(s)
		if err != nil {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

func parseBool(s string) (any, error) {
	switch strings.ToLower(s) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return nil, fmt.Errorf("not a bool: %q", s)
}
