package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/pseudomuto/mecha/pkg/compiler"
	"github.com/pseudomuto/mecha/pkg/consts"
	"github.com/pseudomuto/mecha/pkg/format"
	"github.com/pseudomuto/mecha/pkg/project"
	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
)

type (
	Params struct {
		fx.In

		Args       []string
		Commands   []*cli.Command `group:"commands"`
		Ctx        context.Context
		Level      *slog.LevelVar
		Lifecycle  fx.Lifecycle
		Logger     *slog.Logger
		Shutdowner fx.Shutdowner
		Version    *Version
	}

	Version struct {
		Version   string
		Commit    string
		Timestamp string
	}
)

// Run registers the mecha CLI application with the fx lifecycle. The
// application runs once the fx app starts and shuts it down with exit code 1
// when the command fails.
//
// Global Flags:
//   - --dir, -d: Project directory (defaults to current directory)
//   - --verbose, -v: Log per-file progress (MECHA_VERBOSE)
//
// Example usage:
//
//	mecha init
//	mecha --dir /path/to/project compile --format yaml
//	mecha -v check schema/
func Run(p Params) {
	cli.VersionPrinter = func(cmd *cli.Command) {
		fmt.Fprintln(cmd.Writer, "Version:", p.Version.Version)
		fmt.Fprintln(cmd.Writer, "Commit:", p.Version.Commit)
		fmt.Fprintln(cmd.Writer, "Date:", p.Version.Timestamp)
	}

	// -v belongs to --verbose
	cli.VersionFlag = &cli.BoolFlag{
		Name:  "version",
		Usage: "print the version",
	}

	app := &cli.Command{
		Name:  "mecha",
		Usage: "Compile and check mecha schema files",
		Description: `mecha reads table schemas written in the mecha language, checks them
for semantic problems such as inheritance cycles or dangling references,
and compiles valid schemas into JSON or YAML documents.`,
		Version: p.Version.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "dir",
				Aliases:     []string{"d"},
				Usage:       "the project directory",
				Value:       ".",
				DefaultText: "Current directory",
				Config: cli.StringConfig{
					TrimSpace: true,
				},
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log per-file progress",
				Sources: cli.EnvVars("MECHA_VERBOSE"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("verbose") {
				p.Level.Set(slog.LevelDebug)
			}

			return ctx, nil
		},
		Commands: p.Commands,
	}

	p.Lifecycle.Append(fx.StartHook(func() {
		if err := app.Run(p.Ctx, p.Args); err != nil {
			p.Logger.Error("Error running command", "err", err)
			_ = p.Shutdowner.Shutdown(fx.ExitCode(1))
			return
		}

		_ = p.Shutdowner.Shutdown(fx.ExitCode(0))
	}))
}

// newLogger builds the logger shared by every command. Its level starts at
// info and is lowered by --verbose.
func newLogger(level *slog.LevelVar) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// projectDir resolves the --dir flag, defaulting to the current directory.
func projectDir(cmd *cli.Command) (string, error) {
	dir := "."
	if path := cmd.String("dir"); path != "" {
		dir = path
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.Wrapf(err, "failed to resolve project directory: %s", dir)
	}

	return abs, nil
}

// projectFormatter prefers the layout from the project's mecha.yaml over f.
func projectFormatter(proj *project.Project, f *format.Formatter) *format.Formatter {
	if cfg := proj.Config(); cfg != nil {
		return cfg.GetFormatter()
	}

	return f
}

// openProject returns the project in the --dir directory, with its
// configuration loaded when mecha.yaml exists.
func openProject(cmd *cli.Command, f *format.Formatter) (*project.Project, error) {
	dir, err := projectDir(cmd)
	if err != nil {
		return nil, err
	}

	proj := project.New(project.ProjectParams{Dir: dir, Formatter: f})

	_, err = os.Stat(filepath.Join(dir, consts.ConfigFile))
	if os.IsNotExist(err) {
		return proj, nil
	}

	if err != nil {
		return nil, errors.Wrapf(err, "failed to stat %s", consts.ConfigFile)
	}

	return proj, proj.Load()
}

// summarize prints the diagnostics for every failed result and turns any
// failure into an error.
func summarize(cmd *cli.Command, results []compiler.Result) error {
	if err := compiler.Report(cmd.Root().ErrWriter, results); err != nil {
		return errors.Wrap(err, "failed to write report")
	}

	if n := compiler.Failed(results); n > 0 {
		return errors.Errorf("%d of %d files failed", n, len(results))
	}

	return nil
}

func jobsFlag() cli.Flag {
	return &cli.IntFlag{
		Name:        "jobs",
		Aliases:     []string{"j"},
		Usage:       "number of files processed at once",
		DefaultText: "number of CPUs",
	}
}
