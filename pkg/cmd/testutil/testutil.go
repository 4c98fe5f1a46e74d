package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pseudomuto/mecha/pkg/consts"
	"github.com/pseudomuto/mecha/pkg/format"
	"github.com/pseudomuto/mecha/pkg/project"
	"github.com/stretchr/testify/require"
)

// ProjectFixture is an initialized project in a temp directory.
type ProjectFixture struct {
	Dir       string
	Project   *project.Project
	Formatter *format.Formatter
	t         *testing.T
}

// TestProject creates an isolated temp directory with an initialized mecha
// project.
func TestProject(t *testing.T) *ProjectFixture {
	t.Helper()

	tmpDir := t.TempDir()
	formatter := format.New(format.Defaults)

	proj := project.New(project.ProjectParams{
		Dir:       tmpDir,
		Formatter: formatter,
	})
	require.NoError(t, proj.Initialize(project.InitOptions{}), "Failed to initialize test project")

	return &ProjectFixture{
		Dir:       tmpDir,
		Project:   proj,
		Formatter: formatter,
		t:         t,
	}
}

// WithConfig replaces mecha.yaml and reloads it.
func (p *ProjectFixture) WithConfig(yaml string) *ProjectFixture {
	p.t.Helper()

	require.NoError(p.t, os.WriteFile(p.ConfigPath(), []byte(yaml), consts.ModeFile), "Failed to write config")
	require.NoError(p.t, p.Project.Load(), "Failed to reload config")

	return p
}

// WithSchema sets the main schema content.
func (p *ProjectFixture) WithSchema(src string) *ProjectFixture {
	p.t.Helper()

	require.NoError(p.t, os.WriteFile(p.MainSchemaPath(), []byte(src), consts.ModeFile), "Failed to write schema file")
	return p
}

// WithSchemaFiles adds schema files under the schema directory. Keys are
// paths relative to it.
func (p *ProjectFixture) WithSchemaFiles(files map[string]string) *ProjectFixture {
	p.t.Helper()

	for path, content := range files {
		fullPath := filepath.Join(p.SchemaDir(), path)

		dir := filepath.Dir(fullPath)
		require.NoError(p.t, os.MkdirAll(dir, consts.ModeDir), "Failed to create directory: %s", dir)
		require.NoError(p.t, os.WriteFile(fullPath, []byte(content), consts.ModeFile), "Failed to write schema file: %s", path)
	}

	return p
}

// SchemaDir returns the path to the schema directory.
func (p *ProjectFixture) SchemaDir() string {
	return filepath.Join(p.Dir, consts.DefaultSourceDir)
}

// MainSchemaPath returns the path to the starter schema.
func (p *ProjectFixture) MainSchemaPath() string {
	return filepath.Join(p.SchemaDir(), consts.DefaultEntrypoint)
}

// ConfigPath returns the path to mecha.yaml.
func (p *ProjectFixture) ConfigPath() string {
	return filepath.Join(p.Dir, consts.ConfigFile)
}

// OutputDir returns the default output directory.
func (p *ProjectFixture) OutputDir() string {
	return filepath.Join(p.Dir, consts.DefaultOutputDir)
}
