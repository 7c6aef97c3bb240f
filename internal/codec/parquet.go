package codec

import (
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/parquet-go/parquet-go"

	"iwutil/table"
)

// columnsKey names the key/value metadata entry holding the column order.
// Parquet groups sort their fields by name, so the order is kept separately.
const columnsKey = "iwutil.columns"

// Parquet stores a table as one optional leaf per column with Snappy pages.
type Parquet struct{}

func (Parquet) Extension() string { return "parquet" }

func (Parquet) Encode(w io.Writer, t *table.Table) error {
	cols := t.Columns()
	if len(cols) == 0 {
		return errors.New("parquet: table has no columns")
	}
	kinds := make([]table.Kind, len(cols))
	group := make(parquet.Group, len(cols))
	for j, name := range cols {
		kinds[j] = t.ColumnKind(j)
		group[name] = parquet.Optional(parquetNode(kinds[j]))
	}
	schema := parquet.NewSchema("table", group)

	leafOf := make(map[string]int, len(cols))
	for i, f := range schema.Fields() {
		leafOf[f.Name()] = i
	}
	leaf := make([]int, len(cols))
	for j, name := range cols {
		leaf[j] = leafOf[name]
	}

	order, err := json.Marshal(cols)
	if err != nil {
		return err
	}
	pw := parquet.NewWriter(w, schema,
		parquet.Compression(&parquet.Snappy),
		parquet.KeyValueMetadata(columnsKey, string(order)),
	)

	rows := make([]parquet.Row, t.Len())
	for i := range rows {
		row := make(parquet.Row, len(cols))
		for j, c := range t.Row(i) {
			row[leaf[j]] = parquetValue(c, kinds[j], leaf[j])
		}
		rows[i] = row
	}
	if _, err := pw.WriteRows(rows); err != nil {
		_ = pw.Close()
		return err
	}
	return pw.Close()
}

func parquetNode(k table.Kind) parquet.Node {
	switch k {
	case table.KindBool:
		return parquet.Leaf(parquet.BooleanType)
	case table.KindInt:
		return parquet.Int(64)
	case table.KindFloat:
		return parquet.Leaf(parquet.DoubleType)
	default:
		return parquet.String()
	}
}

func parquetValue(c any, k table.Kind, col int) parquet.Value {
	if c == nil {
		return parquet.Value{}.Level(0, 0, col)
	}
	var v parquet.Value
	switch k {
	case table.KindBool:
		v = parquet.BooleanValue(c.(bool))
	case table.KindInt:
		v = parquet.Int64Value(c.(int64))
	case table.KindFloat:
		v = parquet.DoubleValue(toFloat(c))
	default:
		v = parquet.ByteArrayValue([]byte(table.FormatCell(c)))
	}
	return v.Level(0, 1, col)
}

func toFloat(c any) float64 {
	switch x := c.(type) {
	case int64:
		return float64(x)
	case float64:
		return x
	}
	return 0
}

func (Parquet) Decode(r *io.SectionReader) (*table.Table, error) {
	f, err := parquet.OpenFile(r, r.Size())
	if err != nil {
		return nil, err
	}

	leaves := f.Schema().Columns()
	names := make([]string, len(leaves))
	for i, path := range leaves {
		names[i] = strings.Join(path, ".")
	}
	order := savedOrder(f, names)

	t, err := table.New(order...)
	if err != nil {
		return nil, err
	}
	pos := make(map[string]int, len(order))
	for j, name := range order {
		pos[name] = j
	}
	place := make([]int, len(names))
	for i, name := range names {
		place[i] = pos[name]
	}

	for _, rg := range f.RowGroups() {
		if err := readRowGroup(rg, t, place); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// savedOrder returns the column order from metadata when it is a permutation
// of the leaf names, else the schema order.
func savedOrder(f *parquet.File, names []string) []string {
	raw, ok := f.Lookup(columnsKey)
	if !ok {
		return names
	}
	var saved []string
	if err := json.Unmarshal([]byte(raw), &saved); err != nil || len(saved) != len(names) {
		return names
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	for _, n := range saved {
		if !want[n] {
			return names
		}
		delete(want, n)
	}
	return saved
}

func readRowGroup(rg parquet.RowGroup, t *table.Table, place []int) error {
	rows := rg.Rows()
	defer rows.Close()

	buf := make([]parquet.Row, 128)
	for {
		n, err := rows.ReadRows(buf)
		for _, row := range buf[:n] {
			cells := make([]any, len(place))
			for _, v := range row {
				cells[place[v.Column()]] = parquetCell(v)
			}
			if aerr := t.AppendRow(cells...); aerr != nil {
				return aerr
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func parquetCell(v parquet.Value) any {
	if v.IsNull() {
		return nil
	}
	switch v.Kind() {
	case parquet.Boolean:
		return v.Boolean()
	case parquet.Int32:
		return int64(v.Int32())
	case parquet.Int64:
		return v.Int64()
	case parquet.Float:
		return float64(v.Float())
	case parquet.Double:
		return v.Double()
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return string(v.ByteArray())
	default:
		return v.String()
	}
}
