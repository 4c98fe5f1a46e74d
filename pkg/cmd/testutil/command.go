package testutil

import (
	"bytes"
	"context"
	"testing"

	"github.com/urfave/cli/v3"
)

// CommandOutput holds what a command wrote.
type CommandOutput struct {
	Stdout bytes.Buffer
	Stderr bytes.Buffer
}

// RunCommand executes command as a subcommand of a test app, with the global
// --dir flag set to dir.
func RunCommand(t *testing.T, dir string, command *cli.Command, args ...string) (*CommandOutput, error) {
	t.Helper()

	out := new(CommandOutput)
	app := &cli.Command{
		Name: "test",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dir", Aliases: []string{"d"}, Value: "."},
		},
		Commands:  []*cli.Command{command},
		Writer:    &out.Stdout,
		ErrWriter: &out.Stderr,
	}

	fullArgs := append([]string{"test", "--dir", dir, command.Name}, args...)
	return out, app.Run(context.Background(), fullArgs)
}
