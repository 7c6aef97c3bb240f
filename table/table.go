// Package table holds the in-memory tabular payload shared by the save and
// read packages: ordered, uniquely named columns and rows of cells.
//
// Cells are always one of nil, bool, int64, float64 or string. Values of
// other types are normalised on the way in (see Normalize).
package table

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// Kind is the storage type of a column, derived from its non-nil cells.
type Kind int

const (
	KindNull Kind = iota // no non-nil cells
	KindBool
	KindInt
	KindFloat
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int64"
	case KindFloat:
		return "float64"
	case KindString:
		return "string"
	default:
		return "null"
	}
}

// Table is a rows × named columns structure.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]any
}

// New creates an empty table with the given column names.
func New(columns ...string) (*Table, error) {
	t := &Table{
		columns: make([]string, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range columns {
		if _, dup := t.index[c]; dup {
			return nil, fmt.Errorf("table: duplicate column %q", c)
		}
		t.columns[i] = c
		t.index[c] = i
	}
	return t, nil
}

// MustNew is like New but panics on duplicate column names.
func MustNew(columns ...string) *Table {
	t, err := New(columns...)
	if err != nil {
		panic(err)
	}
	return t
}

// FromColumns builds a table from column slices. names fixes the column order;
// every slice in cols must have the same length.
func FromColumns(names []string, cols map[string][]any) (*Table, error) {
	t, err := New(names...)
	if err != nil {
		return nil, err
	}
	n := -1
	for _, name := range names {
		col, ok := cols[name]
		if !ok {
			return nil, fmt.Errorf("table: missing values for column %q", name)
		}
		if n >= 0 && len(col) != n {
			return nil, fmt.Errorf("table: column %q has %d values, want %d", name, len(col), n)
		}
		n = len(col)
	}
	if len(cols) != len(names) {
		return nil, fmt.Errorf("table: %d value slices for %d columns", len(cols), len(names))
	}
	for i := 0; i < n; i++ {
		row := make([]any, len(names))
		for j, name := range names {
			row[j] = Normalize(cols[name][i])
		}
		t.rows = append(t.rows, row)
	}
	return t, nil
}

// AppendRow adds one row. The number of cells must match the column count.
func (t *Table) AppendRow(cells ...any) error {
	if len(cells) != len(t.columns) {
		return fmt.Errorf("table: row has %d cells, want %d", len(cells), len(t.columns))
	}
	row := make([]any, len(cells))
	for i, c := range cells {
		row[i] = Normalize(c)
	}
	t.rows = append(t.rows, row)
	return nil
}

// Columns returns a copy of the column names in order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// NumColumns returns the column count.
func (t *Table) NumColumns() int { return len(t.columns) }

// Len returns the row count.
func (t *Table) Len() int { return len(t.rows) }

// Row returns a copy of row i.
func (t *Table) Row(i int) []any {
	out := make([]any, len(t.rows[i]))
	copy(out, t.rows[i])
	return out
}

// Cell returns the value at row i of the named column.
func (t *Table) Cell(i int, name string) (any, bool) {
	j, ok := t.index[name]
	if !ok || i < 0 || i >= len(t.rows) {
		return nil, false
	}
	return t.rows[i][j], true
}

// Column returns the values of the named column.
func (t *Table) Column(name string) ([]any, bool) {
	j, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.columnAt(j), true
}

func (t *Table) columnAt(j int) []any {
	out := make([]any, len(t.rows))
	for i, row := range t.rows {
		out[i] = row[j]
	}
	return out
}

// ColumnKind returns the storage kind of column j.
// Ints mixed with floats widen to KindFloat; any other mix is KindString.
func (t *Table) ColumnKind(j int) Kind {
	k := KindNull
	for _, row := range t.rows {
		var ck Kind
		switch row[j].(type) {
		case nil:
			continue
		case bool:
			ck = KindBool
		case int64:
			ck = KindInt
		case float64:
			ck = KindFloat
		default:
			ck = KindString
		}
		switch {
		case k == KindNull || k == ck:
			k = ck
		case (k == KindInt && ck == KindFloat) || (k == KindFloat && ck == KindInt):
			k = KindFloat
		default:
			return KindString
		}
	}
	return k
}

// Floats returns the named column as float64. Ints widen and nil cells
// become NaN; any other cell is an error.
func (t *Table) Floats(name string) ([]float64, error) {
	j, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("table: unknown column %q", name)
	}
	out := make([]float64, len(t.rows))
	for i, row := range t.rows {
		switch x := row[j].(type) {
		case nil:
			out[i] = math.NaN()
		case int64:
			out[i] = float64(x)
		case float64:
			out[i] = x
		default:
			return nil, fmt.Errorf("table: column %q row %d: %T is not numeric", name, i, x)
		}
	}
	return out, nil
}

// Select returns a new table with only the named columns, in the given order.
func (t *Table) Select(names ...string) (*Table, error) {
	out, err := New(names...)
	if err != nil {
		return nil, err
	}
	idx := make([]int, len(names))
	for i, name := range names {
		j, ok := t.index[name]
		if !ok {
			return nil, fmt.Errorf("table: unknown column %q", name)
		}
		idx[i] = j
	}
	out.rows = make([][]any, len(t.rows))
	for r, row := range t.rows {
		nr := make([]any, len(idx))
		for i, j := range idx {
			nr[i] = row[j]
		}
		out.rows[r] = nr
	}
	return out, nil
}

// Equal reports whether both tables have the same columns in the same order
// and equal cells.
func (t *Table) Equal(o *Table) bool {
	if t == nil || o == nil {
		return t == o
	}
	if len(t.columns) != len(o.columns) || len(t.rows) != len(o.rows) {
		return false
	}
	for i := range t.columns {
		if t.columns[i] != o.columns[i] {
			return false
		}
	}
	for i := range t.rows {
		for j := range t.rows[i] {
			if !cellEqual(t.rows[i][j], o.rows[i][j]) {
				return false
			}
		}
	}
	return true
}

func cellEqual(a, b any) bool {
	fa, aok := a.(float64)
	fb, bok := b.(float64)
	if aok && bok && math.IsNaN(fa) && math.IsNaN(fb) {
		return true
	}
	return a == b
}

// MarshalJSON encodes the table column-oriented, keeping column order:
// {"a": [1, 2], "b": ["x", "y"]}.
func (t *Table) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for j, name := range t.columns {
		if j > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteByte('[')
		for i, row := range t.rows {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSONCell(&buf, row[j]); err != nil {
				return nil, fmt.Errorf("table: column %q row %d: %w", name, i, err)
			}
		}
		buf.WriteByte(']')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// writeJSONCell keeps integral floats as 2.0 so they decode as floats again.
func writeJSONCell(buf *bytes.Buffer, v any) error {
	switch x := v.(type) {
	case nil:
		buf.WriteString("null")
	case bool, int64:
		buf.WriteString(FormatCell(x))
	case float64:
		if math.IsInf(x, 0) || math.IsNaN(x) {
			return fmt.Errorf("unsupported float value %v", x)
		}
		buf.WriteString(floatStr(x))
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return err
		}
		buf.Write(b)
	}
	return nil
}

// Normalize converts v to one of the cell types.
func Normalize(v any) any {
	switch x := v.(type) {
	case nil, bool, int64, float64, string:
		return x
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case uint:
		return uintCell(uint64(x))
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint64:
		return uintCell(x)
	case float32:
		return float64(x)
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case []byte:
		return string(x)
	case time.Time:
		return x.Format(time.RFC3339Nano)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

func uintCell(u uint64) any {
	if u > math.MaxInt64 {
		return float64(u)
	}
	return int64(u)
}

// FormatCell renders a cell as text. nil renders empty; integral floats keep a
// trailing ".0" so they read back as floats.
func FormatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case bool:
		return strconv.FormatBool(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return floatStr(x)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

func floatStr(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			return s
		}
	}
	return s + ".0"
}
