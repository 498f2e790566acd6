// Command xgbinspect decodes legacy binary gbtree dumps and prints their
// structure, or converts them into JSON snapshots.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
)

func newApp(stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:   "xgbinspect",
		Usage:  "Inspect binary gradient-boosted tree dumps",
		Writer: stdout,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			inspectCmd(),
			dumpCmd(),
			objectivesCmd(),
		},
	}
}

func main() {
	if err := newApp(os.Stdout).Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
