package main

import (
	"context"
	"io"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/scigo-xgb/pkg/errors"
	"github.com/YuminosukeSato/scigo-xgb/sklearn/xgboost"
)

type treeSummary struct {
	Index    int `json:"index" yaml:"index"`
	Nodes    int `json:"nodes" yaml:"nodes"`
	Leaves   int `json:"leaves" yaml:"leaves"`
	MaxDepth int `json:"max_depth" yaml:"max_depth"`
}

type summary struct {
	ID        string                `json:"id" yaml:"id"`
	Metadata  xgboost.Metadata      `json:"metadata" yaml:"metadata"`
	Header    xgboost.Header        `json:"header" yaml:"header"`
	Params    xgboost.BoosterParams `json:"params" yaml:"params"`
	BaseScore xgboost.Float         `json:"base_score" yaml:"base_score"`
	MaxDepth  int                   `json:"max_depth" yaml:"max_depth"`
	Trees     []treeSummary         `json:"trees,omitempty" yaml:"trees,omitempty"`
}

func summarize(e *xgboost.Ensemble, withTrees bool) summary {
	s := summary{
		ID:        e.ID.String(),
		Metadata:  e.Metadata,
		Header:    e.Header,
		Params:    e.Params,
		BaseScore: xgboost.Float(e.BaseScore),
		MaxDepth:  e.MaxDepth(),
	}
	if !withTrees {
		return s
	}
	first, _ := e.Metadata.Range.TreeSpan(e.Metadata.OutputDim)
	for i, t := range e.Trees {
		leaves := 0
		for n := 0; n < t.NumNodes(); n++ {
			if t.IsLeaf(n) {
				leaves++
			}
		}
		s.Trees = append(s.Trees, treeSummary{Index: first + i, Nodes: t.NumNodes(), Leaves: leaves, MaxDepth: t.MaxDepth()})
	}
	return s
}

func writeFormatted(w io.Writer, format string, v interface{}) error {
	switch format {
	case "json":
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return errors.Wrap(err, "encode json")
		}
		_, err = w.Write(append(out, '\n'))
		return err
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return errors.Wrap(err, "encode yaml")
		}
		return enc.Close()
	default:
		return errors.NewValidationError("format", "must be json or yaml", format)
	}
}

func inspectCmd() *cli.Command {
	flags := append(commonFlags(),
		&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "json or yaml"},
		&cli.BoolFlag{Name: "trees", Usage: "include one line per decoded tree"},
	)
	return &cli.Command{
		Name:  "inspect",
		Usage: "Print header, booster parameters and ensemble metadata",
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
			return writeFormatted(cmd.Root().Writer, cfg.Format, summarize(ens, cmd.Bool("trees")))
		},
	}
}
