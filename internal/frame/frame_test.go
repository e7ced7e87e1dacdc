package frame

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustFrame(t *testing.T, cols []string, rows ...[]string) *Frame {
	t.Helper()
	f, err := New(cols)
	require.NoError(t, err)
	for _, row := range rows {
		require.NoError(t, f.Append(row))
	}
	return f
}

func rowsOf(t *testing.T, f *Frame) [][]string {
	t.Helper()
	out := make([][]string, f.NumRows())
	for i := range out {
		out[i] = f.Row(i)
	}
	return out
}

func TestNew_DuplicateColumn(t *testing.T) {
	_, err := New([]string{"a", "b", "a"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"a"`)
}

func TestAppend_LengthMismatch(t *testing.T) {
	f := mustFrame(t, []string{"a", "b"})
	require.Error(t, f.Append([]string{"only-one"}))
}

func TestSelectAndRename(t *testing.T) {
	f := mustFrame(t, []string{"a", "b", "c"},
		[]string{"1", "2", "3"},
		[]string{"4", "5", "6"},
	)

	sel, err := f.Select("c", "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a"}, sel.Columns())
	assert.Equal(t, [][]string{{"3", "1"}, {"6", "4"}}, rowsOf(t, sel))

	_, err = f.Select("missing")
	require.Error(t, err)

	ren, err := f.Rename(map[string]string{"a": "x"})
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "b", "c"}, ren.Columns())
	// Original untouched.
	assert.Equal(t, []string{"a", "b", "c"}, f.Columns())
}

func TestUnion_ColumnUnionWithMissingSentinel(t *testing.T) {
	old := mustFrame(t, []string{"A", "B"},
		[]string{"a1", "b1"},
	)
	page := mustFrame(t, []string{"B", "C"},
		[]string{"b2", "c2"},
	)

	merged := old.Union(page)

	assert.Equal(t, []string{"A", "B", "C"}, merged.Columns())
	want := [][]string{
		{"a1", "b1", ""},
		{"", "b2", "c2"},
	}
	if diff := cmp.Diff(want, rowsOf(t, merged)); diff != "" {
		t.Errorf("merged rows mismatch (-want +got):\n%s", diff)
	}
}

func TestUnion_IdenticalColumns(t *testing.T) {
	a := mustFrame(t, []string{"x", "y"}, []string{"1", "2"})
	b := mustFrame(t, []string{"x", "y"}, []string{"3", "4"})

	merged := a.Union(b)
	assert.Equal(t, []string{"x", "y"}, merged.Columns())
	assert.Equal(t, 2, merged.NumRows())
}

func TestClone_Independent(t *testing.T) {
	f := mustFrame(t, []string{"a"}, []string{"1"})
	c := f.Clone()
	require.NoError(t, c.SetColumn("a", []string{"changed"}))

	orig, err := f.Cell(0, "a")
	require.NoError(t, err)
	assert.Equal(t, "1", orig)
}

func TestSetColumnAndAddColumn(t *testing.T) {
	f := mustFrame(t, []string{"a"}, []string{"1"}, []string{"2"})

	require.NoError(t, f.SetColumn("a", []string{"x", "y"}))
	col, err := f.Column("a")
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, col)

	require.NoError(t, f.AddColumn("b", []string{"7", "8"}))
	assert.Equal(t, []string{"a", "b"}, f.Columns())

	require.Error(t, f.AddColumn("b", []string{"", ""}), "duplicate column")
	require.Error(t, f.SetColumn("a", []string{"too-short"}))
}

func TestCSVRoundTrip(t *testing.T) {
	f := mustFrame(t, []string{"EV_id_x", "total_energy"},
		[]string{"EV0", "12.5"},
		[]string{"EV1", "3.25"},
	)

	var buf bytes.Buffer
	require.NoError(t, f.WriteCSV(&buf, ','))

	back, err := ReadCSV(&buf, ',')
	require.NoError(t, err)
	assert.Equal(t, f.Columns(), back.Columns())
	assert.Equal(t, rowsOf(t, f), rowsOf(t, back))
}

func TestReadCSV_SemicolonDelimited(t *testing.T) {
	in := "a;b\n1;2\n"
	f, err := ReadCSV(strings.NewReader(in), ';')
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, f.Columns())
	assert.Equal(t, [][]string{{"1", "2"}}, rowsOf(t, f))
}

func TestReadCSV_Errors(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""), ',')
	require.Error(t, err, "empty input")

	_, err = ReadCSV(strings.NewReader("a,b\n1\n"), ',')
	require.Error(t, err, "ragged row")
}
