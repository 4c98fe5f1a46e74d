package document_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/pseudomuto/mecha/pkg/ast"
	"github.com/pseudomuto/mecha/pkg/checker"
	. "github.com/pseudomuto/mecha/pkg/document"
	"github.com/pseudomuto/mecha/pkg/parser"
	"github.com/stretchr/testify/require"
	"gotest.tools/v3/golden"
)

func TestGoldenFiles(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("testdata", "*.mecha"))
	require.NoError(t, err)
	require.NotEmpty(t, matches, "No *.mecha files found in testdata directory")

	for _, inputFile := range matches {
		// "library.mecha" -> "library.json"
		outputName := strings.TrimSuffix(filepath.Base(inputFile), ".mecha") + JSON.Ext()

		t.Run(outputName, func(t *testing.T) {
			schema := loadSchema(t, inputFile)

			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, FromSchema(schema), JSON))

			golden.Assert(t, buf.String(), outputName)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	schema := loadSchema(t, filepath.Join("testdata", "library.mecha"))

	for _, format := range Formats {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, FromSchema(schema), format))

			doc, err := Decode(&buf, format)
			require.NoError(t, err)

			got, err := doc.Schema()
			require.NoError(t, err)

			diff := cmp.Diff(schema, got, cmpopts.IgnoreTypes(ast.Span{}), cmpopts.EquateEmpty())
			require.Empty(t, diff)

			require.NoError(t, checker.Check(got))
		})
	}
}

func TestEncodeYAML(t *testing.T) {
	schema := loadSchema(t, filepath.Join("testdata", "library.mecha"))

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, FromSchema(schema), YAML))

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "name: library.mecha\n"))
	require.Contains(t, out, "is_abstract: true")
	require.Contains(t, out, "operator: ManyToMany")
	require.Contains(t, out, "attribute: Primary")
	require.Contains(t, out, "Composite:")
	require.NotContains(t, out, "extended_by: null")
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		input  string
		err    string
	}{
		{
			name:   "unknown field",
			format: JSON,
			input:  `{"name": "x", "tables": [], "span": 1}`,
			err:    "failed to decode json document",
		},
		{
			name:   "malformed yaml",
			format: YAML,
			input:  "name: [",
			err:    "failed to decode yaml document",
		},
		{
			name:   "unknown yaml field",
			format: YAML,
			input:  "name: x\nowner: me\n",
			err:    "failed to decode yaml document",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input), tt.format)
			require.ErrorContains(t, err, tt.err)
		})
	}
}

func TestDocumentSchemaErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		err   string
	}{
		{
			name:  "unknown attribute",
			input: `{"name": "x", "tables": [{"id": {"name": "t"}, "is_abstract": false, "extended_by": null, "columns": [{"id": {"name": "c"}, "typ": {"name": "int"}, "attribute": "Nullable", "reference": null}], "indexes": null}]}`,
			err:   `invalid table "t": invalid column "c": unknown attribute "Nullable"`,
		},
		{
			name:  "unknown operator",
			input: `{"name": "x", "tables": [{"id": {"name": "t"}, "is_abstract": false, "extended_by": null, "columns": [{"id": {"name": "c"}, "typ": {"name": "int"}, "attribute": null, "reference": {"operator": "ManyToOne", "table": {"name": "t"}, "column": {"name": "c"}}}], "indexes": null}]}`,
			err:   `invalid table "t": invalid column "c": unknown reference operator "ManyToOne"`,
		},
		{
			name:  "empty index",
			input: `{"name": "x", "tables": [{"id": {"name": "t"}, "is_abstract": false, "extended_by": null, "columns": [], "indexes": [{}]}]}`,
			err:   `invalid table "t": index 0 must be either a single column or a composite of at least two`,
		},
		{
			name:  "short composite",
			input: `{"name": "x", "tables": [{"id": {"name": "t"}, "is_abstract": false, "extended_by": null, "columns": [], "indexes": [{"Composite": [{"name": "c"}]}]}]}`,
			err:   `invalid table "t": index 0 must be either a single column or a composite of at least two`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Decode(strings.NewReader(tt.input), JSON)
			require.NoError(t, err)

			_, err = doc.Schema()
			require.EqualError(t, err, tt.err)
		})
	}
}

func TestParseFormat(t *testing.T) {
	for input, want := range map[string]Format{
		"json":   JSON,
		"JSON":   JSON,
		"yaml":   YAML,
		" yml ":  YAML,
		"Yaml\n": YAML,
	} {
		got, err := ParseFormat(input)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	_, err := ParseFormat("toml")
	require.EqualError(t, err, "unsupported document format: toml")

	require.Equal(t, ".yaml", YAML.Ext())
}

func TestEncodeUnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	err := Encode(&buf, &Document{Name: "x"}, Format("toml"))
	require.EqualError(t, err, "unsupported document format: toml")
	require.Zero(t, buf.Len())
}

func loadSchema(t *testing.T, path string) *ast.Schema {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	schema, err := parser.Parse(filepath.Base(path), string(data))
	require.NoError(t, err)
	require.NoError(t, checker.Check(schema))

	return schema
}
