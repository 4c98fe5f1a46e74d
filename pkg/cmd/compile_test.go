package cmd

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/pseudomuto/mecha/pkg/cmd/testutil"
	"github.com/pseudomuto/mecha/pkg/document"
	"github.com/stretchr/testify/require"
)

func decodeFile(t *testing.T, path string, f document.Format) *document.Document {
	t.Helper()

	file, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	doc, err := document.Decode(file, f)
	require.NoError(t, err)
	return doc
}

func TestCompileCommand_Defaults(t *testing.T) {
	fixture := testutil.TestProject(t)

	out, err := testutil.RunCommand(t, fixture.Dir, compileCmd(slog.Default()))
	require.NoError(t, err)

	dest := filepath.Join(fixture.OutputDir(), "main.json")
	require.Equal(t, fixture.MainSchemaPath()+" -> "+dest+"\n", out.Stdout.String())

	doc := decodeFile(t, dest, document.JSON)
	require.Equal(t, fixture.MainSchemaPath(), doc.Name)
	require.Len(t, doc.Tables, 2)
	require.Equal(t, "timestamps", doc.Tables[0].ID.Name)
	require.True(t, doc.Tables[0].IsAbstract)
	require.Equal(t, "users", doc.Tables[1].ID.Name)
}

func TestCompileCommand_ConfiguredOutput(t *testing.T) {
	fixture := testutil.TestProject(t).WithConfig("output:\n  dir: docs\n  format: yaml\n")

	_, err := testutil.RunCommand(t, fixture.Dir, compileCmd(slog.Default()))
	require.NoError(t, err)

	doc := decodeFile(t, filepath.Join(fixture.Dir, "docs", "main.yaml"), document.YAML)
	require.Len(t, doc.Tables, 2)
}

func TestCompileCommand_Flags(t *testing.T) {
	fixture := testutil.TestProject(t)
	outDir := t.TempDir()

	_, err := testutil.RunCommand(t, fixture.Dir, compileCmd(slog.Default()), "--out", outDir, "-f", "yml", "schema")
	require.NoError(t, err)

	testutil.RequireFileExists(t, filepath.Join(outDir, "main.yaml"),
		testutil.RequireFileContains(t, "name: timestamps"),
	)
	require.NoDirExists(t, fixture.OutputDir())
}

func TestCompileCommand_InvalidFormat(t *testing.T) {
	fixture := testutil.TestProject(t)

	_, err := testutil.RunCommand(t, fixture.Dir, compileCmd(slog.Default()), "--format", "xml")
	require.EqualError(t, err, "unsupported document format: xml")
}

func TestCompileCommand_SkipsInvalidFiles(t *testing.T) {
	fixture := testutil.TestProject(t).WithSchemaFiles(map[string]string{
		"cycle.mecha": "abstract table a extends b {\n    x: int\n}\n\nabstract table b extends a {\n    y: int\n}\n",
	})

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	out, err := testutil.RunCommand(t, fixture.Dir, compileCmd(logger))
	require.EqualError(t, err, "1 of 2 files failed")
	require.Contains(t, out.Stderr.String(), "error[inheritance cycle]: cyclic reference happens at `")

	require.FileExists(t, filepath.Join(fixture.OutputDir(), "main.json"))
	require.NoFileExists(t, filepath.Join(fixture.OutputDir(), "cycle.json"))

	require.Contains(t, logs.String(), `msg="Invalid schema"`)
	require.Contains(t, logs.String(), `msg="Wrote document"`)
}
