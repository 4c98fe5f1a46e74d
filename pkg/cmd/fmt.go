package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/pseudomuto/mecha/pkg/consts"
	"github.com/pseudomuto/mecha/pkg/format"
	"github.com/urfave/cli/v3"
)

// fmtCmd creates a CLI command for formatting schema files, in the spirit of
// gofmt. The path can be a single file or a directory, which is searched
// recursively for *.mecha files.
//
// The command supports two output modes:
//   - Stdout mode (default): Formatted source is written to standard output
//   - Write mode (-w flag): Files are rewritten in place
//
// Layout follows the format section of the project's mecha.yaml when present.
// Only syntax matters: files with semantic problems are still formatted, but
// files that fail to parse make the command fail.
//
// Examples:
//
//	mecha fmt schema/users.mecha
//	mecha fmt -w schema/
func fmtCmd(f *format.Formatter) *cli.Command {
	return &cli.Command{
		Name:      "fmt",
		Usage:     "Format schema files",
		ArgsUsage: "<path>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "write",
				Aliases: []string{"w"},
				Usage:   "Write result to source files instead of stdout",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return errors.New("exactly one path argument is required")
			}

			proj, err := openProject(cmd, f)
			if err != nil {
				return err
			}

			files, err := proj.Sources(cmd.Args().First())
			if err != nil {
				return err
			}

			layout := projectFormatter(proj, f)
			for _, file := range files {
				if err := formatFile(layout, file, cmd.Bool("write"), cmd.Root().Writer); err != nil {
					return err
				}
			}

			return nil
		},
	}
}

// formatFile formats a single schema file and either writes it to w or back
// to the file. Files already in canonical form are not rewritten.
func formatFile(f *format.Formatter, path string, writeBack bool, w io.Writer) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "failed to read file: %s", path)
	}

	formatted, err := f.Source(path, string(content))
	if err != nil {
		return errors.Wrapf(err, "failed to format file: %s", path)
	}

	if !writeBack {
		if _, err := fmt.Fprint(w, formatted); err != nil {
			return errors.Wrap(err, "failed to write formatted content to output")
		}

		return nil
	}

	if formatted == string(content) {
		return nil
	}

	if err := os.WriteFile(path, []byte(formatted), consts.ModeFile); err != nil {
		return errors.Wrapf(err, "failed to write formatted content to file: %s", path)
	}

	return nil
}
