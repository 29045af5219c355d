package recordio

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"json": JSON, "YAML": YAML, "yml": YAML, "csv": CSV} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseFormat("xml")
	require.ErrorIs(t, err, ErrUnknownFormat)

	assert.Equal(t, CSV, FormatOf("in/records.csv"))
	assert.Equal(t, YAML, FormatOf("records.yml"))
	assert.Equal(t, JSON, FormatOf("records"))
}

func TestReadJSON(t *testing.T) {
	array, err := Read(strings.NewReader(` [{"id": 1}, {"id": 2}]`), JSON)
	require.NoError(t, err)
	assert.Equal(t, []any{map[string]any{"id": 1.0}, map[string]any{"id": 2.0}}, array)

	stream, err := Read(strings.NewReader("{\"id\": 1}\n{\"id\": 2}\n"), JSON)
	require.NoError(t, err)
	assert.Equal(t, array, stream)

	empty, err := Read(strings.NewReader("  \n"), JSON)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = Read(strings.NewReader(`{"id": `), JSON)
	require.Error(t, err)
}

func TestReadYAML(t *testing.T) {
	records, err := Read(strings.NewReader("- id: 1\n  name: a\n- id: 2\n  name: b\n"), YAML)
	require.NoError(t, err)
	assert.Equal(t, []any{
		map[string]any{"id": 1, "name": "a"},
		map[string]any{"id": 2, "name": "b"},
	}, records)
}

func TestReadCSV(t *testing.T) {
	records, err := Read(strings.NewReader("sensor,value,ok,name\n1, 10.5,true,north\n2,30,false,\n"), CSV)
	require.NoError(t, err)
	assert.Equal(t, []any{
		map[string]any{"sensor": 1, "value": 10.5, "ok": true, "name": "north"},
		map[string]any{"sensor": 2, "value": 30, "ok": false, "name": ""},
	}, records)

	_, err = Read(strings.NewReader("a,b\n1\n"), CSV)
	require.Error(t, err)
}

func TestInferCell(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"42", 42},
		{"-3.5", -3.5},
		{"true", true},
		{"FALSE", false},
		{"True", true},
		{"T", "T"},
		{"F", "F"},
		{"t", "t"},
		{"NaN", "NaN"},
		{"Inf", "Inf"},
		{"-infinity", "-infinity"},
		{"1e400", "1e400"},
		{"", ""},
		{"north", "north"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, inferCell(tt.in))
		})
	}
}

func TestWrite(t *testing.T) {
	records := []any{
		map[string]any{"name": "Tom", "children": []any{"Paul", "Laura"}, "size": 2},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, JSON, records))
	assert.JSONEq(t, `[{"name":"Tom","children":["Paul","Laura"],"size":2}]`, buf.String())

	buf.Reset()
	require.NoError(t, Write(&buf, CSV, records))
	assert.Equal(t, "children,name,size\n\"[\"\"Paul\"\",\"\"Laura\"\"]\",Tom,2\n", buf.String())

	buf.Reset()
	require.NoError(t, Write(&buf, YAML, records))
	assert.Contains(t, buf.String(), "name: Tom")

	buf.Reset()
	require.NoError(t, Write(&buf, JSON, nil))
	assert.Equal(t, "[]\n", buf.String())

	require.Error(t, Write(&buf, CSV, []any{map[any]any{1: 2}}))
	require.ErrorIs(t, Write(&buf, Format("xml"), records), ErrUnknownFormat)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.csv")
	require.NoError(t, os.WriteFile(path, []byte("a\nx\n"), 0o600))

	records, err := ReadFile(path, FormatOf(path))
	require.NoError(t, err)
	assert.Equal(t, []any{map[string]any{"a": "x"}}, records)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.json"), JSON)
	require.Error(t, err)
}
