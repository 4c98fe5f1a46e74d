package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pseudomuto/mecha/pkg/checker"
	"github.com/pseudomuto/mecha/pkg/config"
	"github.com/pseudomuto/mecha/pkg/consts"
	"github.com/pseudomuto/mecha/pkg/parser"
	"github.com/stretchr/testify/require"
)

// RequireValidProject asserts that a project structure is correctly initialized
func RequireValidProject(t *testing.T, projectDir string) {
	t.Helper()

	require.DirExists(t, filepath.Join(projectDir, consts.DefaultSourceDir), "schema directory should exist")
	require.FileExists(t, filepath.Join(projectDir, consts.ConfigFile), "mecha.yaml should exist")
	require.FileExists(t, filepath.Join(projectDir, consts.DefaultSourceDir, consts.DefaultEntrypoint), "main.mecha should exist")

	_, err := config.LoadConfigFile(filepath.Join(projectDir, consts.ConfigFile))
	require.NoError(t, err, "mecha.yaml should load")
}

// RequireFileExists asserts that a file exists and optionally checks its content
func RequireFileExists(t *testing.T, path string, checks ...func(content string)) {
	t.Helper()

	require.FileExists(t, path, "File should exist: %s", path)

	if len(checks) > 0 {
		content, err := os.ReadFile(path)
		require.NoError(t, err, "Failed to read file: %s", path)

		for _, check := range checks {
			check(string(content))
		}
	}
}

// RequireFileContains returns a check function that verifies file contains text
func RequireFileContains(t *testing.T, expected string) func(string) {
	return func(content string) {
		require.Contains(t, content, expected, "File should contain: %s", expected)
	}
}

// RequireValidSchema asserts that a file holds a schema that parses and
// passes every check.
func RequireValidSchema(t *testing.T, path string) {
	t.Helper()

	content, err := os.ReadFile(path)
	require.NoError(t, err, "Failed to read schema file")

	schema, err := parser.Parse(path, string(content))
	require.NoError(t, err, "Schema should parse: %s", path)
	require.NoError(t, checker.Check(schema), "Schema should pass checks: %s", path)
}
