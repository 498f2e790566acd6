package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/YuminosukeSato/scigo-xgb/sklearn/xgboost"
)

func objectivesCmd() *cli.Command {
	return &cli.Command{
		Name:  "objectives",
		Usage: "List supported objective identifiers and their task",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			w := cmd.Root().Writer
			for _, name := range xgboost.SupportedObjectives() {
				task, _ := xgboost.ClassifyObjective(name)
				if _, err := fmt.Fprintf(w, "%-24s %s\n", name, task); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
