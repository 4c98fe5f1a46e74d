package project_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pseudomuto/mecha/pkg/checker"
	"github.com/pseudomuto/mecha/pkg/consts"
	"github.com/pseudomuto/mecha/pkg/document"
	"github.com/pseudomuto/mecha/pkg/format"
	"github.com/pseudomuto/mecha/pkg/parser"
	"github.com/pseudomuto/mecha/pkg/project"
	"github.com/stretchr/testify/require"
)

func TestProjectInitialize_CreatesDirectoriesAndFiles(t *testing.T) {
	tmpDir := t.TempDir()

	proj := project.New(project.ProjectParams{
		Dir:       tmpDir,
		Formatter: format.New(format.Defaults),
	})
	require.NoError(t, proj.Initialize(project.InitOptions{}))

	require.DirExists(t, filepath.Join(tmpDir, "schema"))
	require.FileExists(t, filepath.Join(tmpDir, "schema", "main.mecha"))
	require.FileExists(t, filepath.Join(tmpDir, "mecha.yaml"))

	// the starter schema is valid
	src, err := os.ReadFile(filepath.Join(tmpDir, "schema", "main.mecha"))
	require.NoError(t, err)

	schema, err := parser.Parse("main.mecha", string(src))
	require.NoError(t, err)
	require.NoError(t, checker.Check(schema))

	cfg := proj.Config()
	require.NotNil(t, cfg)
	require.Equal(t, []string{"schema"}, cfg.Sources)
	require.Equal(t, document.JSON, cfg.DocumentFormat())
}

func TestProjectInitialize_UsesFormatter(t *testing.T) {
	tmpDir := t.TempDir()

	proj := project.New(project.ProjectParams{
		Dir:       tmpDir,
		Formatter: format.New(format.FormatterOptions{IndentSize: 2}),
	})
	require.NoError(t, proj.Initialize(project.InitOptions{}))

	src, err := os.ReadFile(filepath.Join(tmpDir, "schema", "main.mecha"))
	require.NoError(t, err)
	require.Contains(t, string(src), "\n  id: uuid primary,\n")
}

func TestProjectInitialize_PreservesExisting(t *testing.T) {
	tmpDir := t.TempDir()

	custom := "table mine {\n    id: int\n}\n"
	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "schema"), consts.ModeDir))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "schema", "main.mecha"), []byte(custom), consts.ModeFile))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "mecha.yaml"), []byte("output:\n  dir: out\n"), consts.ModeFile))

	proj := project.New(project.ProjectParams{Dir: tmpDir})
	require.NoError(t, proj.Initialize(project.InitOptions{}))

	src, err := os.ReadFile(filepath.Join(tmpDir, "schema", "main.mecha"))
	require.NoError(t, err)
	require.Equal(t, custom, string(src))
	require.Equal(t, "out", proj.Config().Output.Dir)

	// running again changes nothing
	require.NoError(t, proj.Initialize(project.InitOptions{}))
	src, err = os.ReadFile(filepath.Join(tmpDir, "schema", "main.mecha"))
	require.NoError(t, err)
	require.Equal(t, custom, string(src))
}

func TestProjectInitialize_FormatOption(t *testing.T) {
	tmpDir := t.TempDir()

	proj := project.New(project.ProjectParams{Dir: tmpDir})
	require.NoError(t, proj.Initialize(project.InitOptions{Format: "yml"}))
	require.Equal(t, document.YAML, proj.Config().DocumentFormat())

	// the override is persisted
	reloaded := project.New(project.ProjectParams{Dir: tmpDir})
	require.NoError(t, reloaded.Load())
	require.Equal(t, document.YAML, reloaded.Config().DocumentFormat())

	err := project.New(project.ProjectParams{Dir: t.TempDir()}).Initialize(project.InitOptions{Format: "xml"})
	require.EqualError(t, err, "unsupported document format: xml")
}

func TestProjectInitialize_ErrorHandling(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		err := project.New(project.ProjectParams{Dir: filepath.Join(t.TempDir(), "nope")}).Initialize(project.InitOptions{})
		require.ErrorContains(t, err, "failed to stat dir")
	})

	t.Run("file instead of directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(path, []byte("x"), consts.ModeFile))

		err := project.New(project.ProjectParams{Dir: path}).Initialize(project.InitOptions{})
		require.EqualError(t, err, path+" is not a directory")
	})

	t.Run("broken config", func(t *testing.T) {
		tmpDir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "mecha.yaml"), []byte("sources: {"), consts.ModeFile))

		err := project.New(project.ProjectParams{Dir: tmpDir}).Initialize(project.InitOptions{})
		require.ErrorContains(t, err, "failed to load mecha.yaml")
	})
}

func TestProjectSources(t *testing.T) {
	tmpDir := t.TempDir()
	write := func(rel string) string {
		path := filepath.Join(tmpDir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), consts.ModeDir))
		require.NoError(t, os.WriteFile(path, []byte("table t { id: int }\n"), consts.ModeFile))
		return path
	}

	a := write("schema/a.mecha")
	b := write("schema/nested/b.mecha")
	write("schema/notes.txt")
	extra := write("extra/c.mecha")

	proj := project.New(project.ProjectParams{Dir: tmpDir})

	t.Run("default source directory", func(t *testing.T) {
		files, err := proj.Sources()
		require.NoError(t, err)
		require.Equal(t, []string{a, b}, files)
	})

	t.Run("explicit paths", func(t *testing.T) {
		files, err := proj.Sources("extra", "schema/a.mecha", a)
		require.NoError(t, err)
		require.Equal(t, []string{extra, a}, files)
	})

	t.Run("configured sources", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "mecha.yaml"), []byte("sources: [extra]\n"), consts.ModeFile))
		require.NoError(t, proj.Load())

		files, err := proj.Sources()
		require.NoError(t, err)
		require.Equal(t, []string{extra}, files)
	})

	t.Run("errors", func(t *testing.T) {
		_, err := proj.Sources("missing")
		require.ErrorContains(t, err, "failed to access path")

		require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "empty"), consts.ModeDir))
		_, err = proj.Sources("empty")
		require.EqualError(t, err, "no .mecha files found")
	})
}

func TestProjectOutputPath(t *testing.T) {
	tmpDir := t.TempDir()
	proj := project.New(project.ProjectParams{Dir: tmpDir})

	require.Equal(t,
		filepath.Join(tmpDir, "build", "shop.json"),
		proj.OutputPath(filepath.Join("schema", "shop.mecha"), document.JSON),
	)

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "mecha.yaml"), []byte("output:\n  dir: /tmp/docs\n"), consts.ModeFile))
	require.NoError(t, proj.Load())
	require.Equal(t, filepath.Join("/tmp/docs", "shop.yaml"), proj.OutputPath("shop.mecha", document.YAML))
}
