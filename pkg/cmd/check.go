package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pseudomuto/mecha/pkg/compiler"
	"github.com/urfave/cli/v3"
)

// checkCmd returns a CLI command that parses and checks schema files without
// writing anything. Each argument is a file or a directory searched
// recursively for *.mecha files. Without arguments the sources configured in
// mecha.yaml are checked, or the schema directory when there is no config.
//
// Diagnostics for every failing file are written to stderr and the command
// fails if any file has a problem.
//
// Example usage:
//
//	mecha check
//	mecha check schema/users.mecha schema/billing
func checkCmd(logger *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Check schema files for errors",
		ArgsUsage: "[paths...]",
		Flags:     []cli.Flag{jobsFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			proj, err := openProject(cmd, nil)
			if err != nil {
				return err
			}

			files, err := proj.Sources(cmd.Args().Slice()...)
			if err != nil {
				return err
			}

			c := compiler.New(compiler.Options{Logger: logger, Concurrency: cmd.Int("jobs")})
			results, err := c.Check(ctx, files)
			if err != nil {
				return err
			}

			for _, r := range results {
				if r.Err == nil {
					fmt.Fprintf(cmd.Root().Writer, "ok\t%s\n", r.Path)
				}
			}

			return summarize(cmd, results)
		},
	}
}
