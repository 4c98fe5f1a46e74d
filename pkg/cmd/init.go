package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/pseudomuto/mecha/pkg/consts"
	"github.com/pseudomuto/mecha/pkg/format"
	"github.com/pseudomuto/mecha/pkg/project"
	"github.com/urfave/cli/v3"
)

// initCmd returns a CLI command that initializes a mecha project in the
// project directory, creating it if needed.
//
// The initialization process is idempotent - running it multiple times will
// not overwrite existing files, making it safe to run in existing
// directories.
//
// Created structure:
//   - mecha.yaml: Sources, output and format settings
//   - schema/main.mecha: Starter schema
//
// Example usage:
//
//	mecha init
//	mecha --dir inventory init --format yaml
func initCmd(f *format.Formatter) *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Initialize a project in the current directory",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Document format to record in mecha.yaml (json, yaml)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir, err := projectDir(cmd)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(dir, consts.ModeDir); err != nil {
				return err
			}

			existing, err := openProject(cmd, f)
			if err != nil {
				return err
			}

			proj := project.New(project.ProjectParams{Dir: dir, Formatter: projectFormatter(existing, f)})
			if err := proj.Initialize(project.InitOptions{Format: cmd.String("format")}); err != nil {
				return err
			}

			fmt.Fprintf(cmd.Root().Writer, "Initialized mecha project in %s\n", dir)
			return nil
		},
	}
}
