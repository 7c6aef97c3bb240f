package codec

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iwutil/internal/fsx"
	"iwutil/table"
)

func mixed(t *testing.T) *table.Table {
	t.Helper()
	tb := table.MustNew("name", "count", "ratio", "ok")
	require.NoError(t, tb.AppendRow("alpha", 1, 0.5, true))
	require.NoError(t, tb.AppendRow("beta, with comma", 2, 2.0, false))
	require.NoError(t, tb.AppendRow(nil, 3, nil, nil))
	return tb
}

func roundTrip(t *testing.T, c Codec, tb *table.Table) *table.Table {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Encode(&buf, tb))
	got, err := c.Decode(io.NewSectionReader(bytes.NewReader(buf.Bytes()), 0, int64(buf.Len())))
	require.NoError(t, err)
	return got
}

func section(s string) *io.SectionReader {
	return io.NewSectionReader(strings.NewReader(s), 0, int64(len(s)))
}

func TestRoundTrip_AllCodecs(t *testing.T) {
	for _, format := range Formats() {
		t.Run(format, func(t *testing.T) {
			c, err := Lookup(format)
			require.NoError(t, err)
			tb := mixed(t)
			got := roundTrip(t, c, tb)
			assert.Equal(t, tb.Columns(), got.Columns())
			assert.True(t, tb.Equal(got), "want %v got %v", tb.Row(1), got.Row(1))
		})
	}
}

func TestRoundTrip_IntegerFrame(t *testing.T) {
	tb, err := table.FromColumns([]string{"a", "b"}, map[string][]any{
		"a": {1, 2, 3},
		"b": {4, 5, 6},
	})
	require.NoError(t, err)
	for _, format := range Formats() {
		c := New(format)
		require.NotNil(t, c, format)
		assert.True(t, tb.Equal(roundTrip(t, c, tb)), format)
	}
}

func TestNew_Normalizes(t *testing.T) {
	assert.Equal(t, CSV, New(" .CSV "))
	assert.Equal(t, Parquet{}, New("parquet"))
	assert.Nil(t, New("xyz"))
}

func TestForPath(t *testing.T) {
	c, err := ForPath("out/table.feather")
	require.NoError(t, err)
	assert.Equal(t, "feather", c.Extension())

	_, err = ForPath("out/table.xyz")
	assert.ErrorIs(t, err, fsx.ErrUnsupportedFormat)

	_, err = ForPath("out/table")
	assert.ErrorIs(t, err, fsx.ErrUnsupportedFormat)
}

func TestDelimited_Inference(t *testing.T) {
	got, err := CSV.Decode(section("i,f,b,s,e\n1,1.5,true,x,\n2,3,False,4,\n"))
	require.NoError(t, err)
	assert.Equal(t, []any{int64(1), 1.5, true, "x", nil}, got.Row(0))
	assert.Equal(t, []any{int64(2), 3.0, false, "4", nil}, got.Row(1))
}

func TestDelimited_RawStrings(t *testing.T) {
	c := WithRawStrings(CSV)
	got, err := c.Decode(section("a,b\n1,\n"))
	require.NoError(t, err)
	assert.Equal(t, []any{"1", nil}, got.Row(0))

	assert.Equal(t, Parquet{}, WithRawStrings(Parquet{}))
}

func TestDelimited_Errors(t *testing.T) {
	_, err := CSV.Decode(section(""))
	assert.Error(t, err)

	_, err = CSV.Decode(section("a,b\n1,2,3\n"))
	assert.Error(t, err)

	_, err = CSV.Decode(section("a,a\n1,2\n"))
	assert.Error(t, err)
}

func TestDelimited_TabSeparated(t *testing.T) {
	tb := mixed(t)
	var buf bytes.Buffer
	require.NoError(t, TXT.Encode(&buf, tb))
	first := strings.SplitN(buf.String(), "\n", 2)[0]
	assert.Equal(t, "name\tcount\tratio\tok", first)
}

func TestDelimited_SingleColumnWithNull(t *testing.T) {
	tb, err := table.FromColumns([]string{"a"}, map[string][]any{"a": {1, nil, 3}})
	require.NoError(t, err)

	for _, d := range []Delimited{CSV, TXT, TSV} {
		t.Run(d.Ext, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, d.Encode(&buf, tb))
			assert.Equal(t, "a\n1\n\"\"\n3\n", buf.String())

			got, err := d.Decode(section(buf.String()))
			require.NoError(t, err)
			require.Equal(t, 3, got.Len())
			assert.True(t, tb.Equal(got))
		})
	}
}

func TestJSON_ColumnOrientedOutput(t *testing.T) {
	tb := table.MustNew("b", "a")
	require.NoError(t, tb.AppendRow(1, "x"))

	var buf bytes.Buffer
	require.NoError(t, JSON{}.Encode(&buf, tb))
	assert.Equal(t, "{\n  \"b\": [\n    1\n  ],\n  \"a\": [\n    \"x\"\n  ]\n}\n", buf.String())
}

func TestJSON_Records(t *testing.T) {
	got, err := JSON{}.Decode(section(`[{"z": 1, "a": "p"}, {"a": "q", "n": {"k": [1, 2]}}]`))
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "a", "n"}, got.Columns())
	assert.Equal(t, []any{int64(1), "p", nil}, got.Row(0))
	assert.Equal(t, []any{nil, "q", `{"k":[1,2]}`}, got.Row(1))
}

func TestJSON_Malformed(t *testing.T) {
	for _, in := range []string{`{"a": [1,`, `42`, `{"a": 1}`, `{"a": [1]} {}`} {
		_, err := JSON{}.Decode(section(in))
		assert.Error(t, err, in)
	}
}

func TestParquet_KeepsColumnOrder(t *testing.T) {
	tb := table.MustNew("zeta", "alpha", "mid")
	require.NoError(t, tb.AppendRow(1, 2.5, "s"))
	got := roundTrip(t, Parquet{}, tb)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, got.Columns())
	assert.Equal(t, []any{int64(1), 2.5, "s"}, got.Row(0))
}

func TestParquet_NoColumns(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Parquet{}.Encode(&buf, table.MustNew()))
}

func TestParquet_Garbage(t *testing.T) {
	_, err := Parquet{}.Decode(section("definitely not parquet"))
	assert.Error(t, err)
}

func TestFeather_Garbage(t *testing.T) {
	_, err := Feather{}.Decode(section("definitely not arrow"))
	assert.Error(t, err)
}

func TestParquet_ReadsCellsByName(t *testing.T) {
	tb := table.MustNew("b", "a")
	require.NoError(t, tb.AppendRow(int64(1), int64(2)))
	got := roundTrip(t, Parquet{}, tb)
	v, ok := got.Cell(0, "a")
	require.True(t, ok)
	assert.Equal(t, int64(2), v)
}
