package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/YuminosukeSato/scigo-xgb/core/model"
)

func dumpCmd() *cli.Command {
	flags := append(commonFlags(),
		&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "write snapshot here instead of stdout"},
	)
	return &cli.Command{
		Name:  "dump",
		Usage: "Convert a binary dump into a JSON snapshot of the decoded trees",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			ens, err := loadModel(cmd, cfg)
			if err != nil {
				return err
			}
			if out := cmd.String("out"); out != "" {
				return ens.Save(out)
			}
			return model.SaveModelToWriter(ens.Snapshot(), cmd.Root().Writer)
		},
	}
}
