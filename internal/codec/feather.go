package codec

import (
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"iwutil/table"
)

// Feather is the Arrow IPC file format (feather v2) with one nullable field
// per column.
type Feather struct{}

func (Feather) Extension() string { return "feather" }

func (Feather) Encode(w io.Writer, t *table.Table) error {
	cols := t.Columns()
	kinds := make([]table.Kind, len(cols))
	fields := make([]arrow.Field, len(cols))
	for j, name := range cols {
		kinds[j] = t.ColumnKind(j)
		fields[j] = arrow.Field{Name: name, Type: arrowType(kinds[j]), Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)

	b := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer b.Release()
	for i := 0; i < t.Len(); i++ {
		for j, c := range t.Row(i) {
			appendArrow(b.Field(j), c)
		}
	}
	rec := b.NewRecord()
	defer rec.Release()

	fw, err := ipc.NewFileWriter(w, ipc.WithSchema(schema), ipc.WithAllocator(memory.DefaultAllocator))
	if err != nil {
		return err
	}
	if err := fw.Write(rec); err != nil {
		_ = fw.Close()
		return err
	}
	return fw.Close()
}

func arrowType(k table.Kind) arrow.DataType {
	switch k {
	case table.KindBool:
		return arrow.FixedWidthTypes.Boolean
	case table.KindInt:
		return arrow.PrimitiveTypes.Int64
	case table.KindFloat:
		return arrow.PrimitiveTypes.Float64
	default:
		return arrow.BinaryTypes.String
	}
}

func appendArrow(fb array.Builder, c any) {
	if c == nil {
		fb.AppendNull()
		return
	}
	switch b := fb.(type) {
	case *array.BooleanBuilder:
		b.Append(c.(bool))
	case *array.Int64Builder:
		b.Append(c.(int64))
	case *array.Float64Builder:
		b.Append(toFloat(c))
	case *array.StringBuilder:
		b.Append(table.FormatCell(c))
	}
}

func (Feather) Decode(r *io.SectionReader) (*table.Table, error) {
	fr, err := ipc.NewFileReader(r, ipc.WithAllocator(memory.DefaultAllocator))
	if err != nil {
		return nil, err
	}
	defer fr.Close()

	fields := fr.Schema().Fields()
	names := make([]string, len(fields))
	for j, f := range fields {
		names[j] = f.Name
	}
	t, err := table.New(names...)
	if err != nil {
		return nil, err
	}

	for i := 0; i < fr.NumRecords(); i++ {
		rec, err := fr.Record(i)
		if err != nil {
			return nil, fmt.Errorf("record batch %d: %w", i, err)
		}
		for row := 0; row < int(rec.NumRows()); row++ {
			cells := make([]any, len(names))
			for j := range cells {
				cells[j] = arrowCell(rec.Column(j), row)
			}
			if err := t.AppendRow(cells...); err != nil {
				return nil, err
			}
		}
	}
	return t, nil
}

func arrowCell(arr arrow.Array, i int) any {
	if arr.IsNull(i) {
		return nil
	}
	switch a := arr.(type) {
	case *array.Boolean:
		return a.Value(i)
	case *array.Int8:
		return int64(a.Value(i))
	case *array.Int16:
		return int64(a.Value(i))
	case *array.Int32:
		return int64(a.Value(i))
	case *array.Int64:
		return a.Value(i)
	case *array.Uint8:
		return int64(a.Value(i))
	case *array.Uint16:
		return int64(a.Value(i))
	case *array.Uint32:
		return int64(a.Value(i))
	case *array.Uint64:
		return table.Normalize(a.Value(i))
	case *array.Float32:
		return float64(a.Value(i))
	case *array.Float64:
		return a.Value(i)
	case *array.String:
		return a.Value(i)
	case *array.LargeString:
		return a.Value(i)
	case *array.Binary:
		return string(a.Value(i))
	default:
		return arr.ValueStr(i)
	}
}
