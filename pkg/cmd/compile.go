package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/pseudomuto/mecha/pkg/compiler"
	"github.com/pseudomuto/mecha/pkg/document"
	"github.com/urfave/cli/v3"
)

// compileCmd returns a CLI command that checks schema files and writes a
// document for each valid one. Sources are resolved the same way as for
// check.
//
// Documents are named after their source (users.mecha becomes users.json)
// and written to the output directory from mecha.yaml, or build/ by default.
// Invalid files are reported and produce no document.
//
// Flags:
//   - --out, -o: Output directory, overriding mecha.yaml
//   - --format, -f: Document format (json or yaml), overriding mecha.yaml
//   - --jobs, -j: Number of files processed at once
//
// Example usage:
//
//	mecha compile
//	mecha compile --format yaml --out docs schema/
func compileCmd(logger *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:      "compile",
		Usage:     "Compile schema files into documents",
		ArgsUsage: "[paths...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "Output directory for compiled documents",
				DefaultText: "output.dir from mecha.yaml",
				Config: cli.StringConfig{
					TrimSpace: true,
				},
			},
			&cli.StringFlag{
				Name:        "format",
				Aliases:     []string{"f"},
				Usage:       "Document format (json, yaml)",
				DefaultText: "output.format from mecha.yaml",
			},
			jobsFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			proj, err := openProject(cmd, nil)
			if err != nil {
				return err
			}

			files, err := proj.Sources(cmd.Args().Slice()...)
			if err != nil {
				return err
			}

			f := proj.Config().DocumentFormat()
			if name := cmd.String("format"); name != "" {
				if f, err = document.ParseFormat(name); err != nil {
					return err
				}
			}

			out := func(source string) string {
				return proj.OutputPath(source, f)
			}

			if dir := cmd.String("out"); dir != "" {
				out = func(source string) string {
					stem := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
					return filepath.Join(dir, stem+f.Ext())
				}
			}

			c := compiler.New(compiler.Options{Logger: logger, Concurrency: cmd.Int("jobs")})
			results, err := c.Compile(ctx, files, f, out)
			if err != nil {
				return err
			}

			for _, r := range results {
				if r.Output != "" {
					fmt.Fprintf(cmd.Root().Writer, "%s -> %s\n", r.Path, r.Output)
				}
			}

			return summarize(cmd, results)
		},
	}
}
