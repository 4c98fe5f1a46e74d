package cmd

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/pseudomuto/mecha/pkg/cmd/testutil"
	"github.com/pseudomuto/mecha/pkg/config"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

// runApp runs the full CLI through fx and returns its exit code and the log
// level the run ended with.
func runApp(t *testing.T, args ...string) (int, slog.Level) {
	t.Helper()

	var level *slog.LevelVar
	app := fxtest.New(t,
		fx.Supply(
			append([]string{"mecha"}, args...),
			&Version{Version: "1.2.3", Commit: "abc123", Timestamp: "2024-01-01"},
		),
		fx.Provide(func() context.Context { return context.Background() }),
		config.Module,
		Module,
		fx.Populate(&level),
		fx.NopLogger,
	)

	app.RequireStart()
	sig := <-app.Wait()
	app.RequireStop()

	return sig.ExitCode, level.Level()
}

func TestRun_Init(t *testing.T) {
	dir := t.TempDir()

	code, level := runApp(t, "--dir", dir, "init")
	require.Equal(t, 0, code)
	require.Equal(t, slog.LevelInfo, level)

	testutil.RequireValidProject(t, dir)
}

func TestRun_CompileProject(t *testing.T) {
	fixture := testutil.TestProject(t)

	code, _ := runApp(t, "-d", fixture.Dir, "compile")
	require.Equal(t, 0, code)
	require.FileExists(t, filepath.Join(fixture.OutputDir(), "main.json"))
}

func TestRun_FailingCommand(t *testing.T) {
	fixture := testutil.TestProject(t).WithSchema("table users extends nobody {\n    id: int\n}\n")

	code, _ := runApp(t, "-d", fixture.Dir, "check")
	require.Equal(t, 1, code)
}

func TestRun_Verbose(t *testing.T) {
	fixture := testutil.TestProject(t)

	t.Run("flag", func(t *testing.T) {
		code, level := runApp(t, "-v", "-d", fixture.Dir, "check")
		require.Equal(t, 0, code)
		require.Equal(t, slog.LevelDebug, level)
	})

	t.Run("env", func(t *testing.T) {
		t.Setenv("MECHA_VERBOSE", "true")

		code, level := runApp(t, "-d", fixture.Dir, "check")
		require.Equal(t, 0, code)
		require.Equal(t, slog.LevelDebug, level)
	})
}
