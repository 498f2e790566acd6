package main

import (
	"os"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/scigo-xgb/pkg/errors"
	"github.com/YuminosukeSato/scigo-xgb/pkg/log"
	"github.com/YuminosukeSato/scigo-xgb/sklearn/xgboost"
)

// Config is the optional YAML file passed with --config.
type Config struct {
	LibraryVersion string `yaml:"library_version"`
	Format         string `yaml:"format"`
	LogLevel       string `yaml:"log_level"`
	LogFormat      string `yaml:"log_format"`
}

func defaultConfig() Config {
	return Config{
		LibraryVersion: xgboost.DefaultLibraryVersion,
		Format:         "json",
		LogLevel:       "warn",
		LogFormat:      "json",
	}
}

func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "read config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}
	return cfg, nil
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "model", Aliases: []string{"m"}, Usage: "path to binary model dump", Required: true},
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "path to YAML config file"},
		&cli.StringFlag{Name: "library-version", Usage: "version of the library that wrote the dump"},
		&cli.IntFlag{Name: "start", Usage: "first boosting round to decode"},
		&cli.IntFlag{Name: "end", Usage: "boosting round to stop before"},
		&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error"},
		&cli.StringFlag{Name: "log-format", Usage: "json or console"},
	}
}

// resolveConfig loads the config file and applies flags that were set explicitly.
func resolveConfig(cmd *cli.Command) (Config, error) {
	cfg, err := loadConfig(cmd.String("config"))
	if err != nil {
		return cfg, err
	}
	if cmd.IsSet("library-version") {
		cfg.LibraryVersion = cmd.String("library-version")
	}
	if cmd.IsSet("format") {
		cfg.Format = cmd.String("format")
	}
	if cmd.IsSet("log-level") {
		cfg.LogLevel = cmd.String("log-level")
	}
	if cmd.IsSet("log-format") {
		cfg.LogFormat = cmd.String("log-format")
	}
	if err := log.SetupLogger(cfg.LogLevel, cfg.LogFormat); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// loadModel parses the dump named by --model using cfg and the range flags.
func loadModel(cmd *cli.Command, cfg Config) (*xgboost.Ensemble, error) {
	opts := []xgboost.ParseOption{xgboost.WithLibraryVersion(cfg.LibraryVersion)}
	if cmd.IsSet("start") != cmd.IsSet("end") {
		return nil, errors.NewValidationError("start/end", "both bounds are required", nil)
	}
	if cmd.IsSet("start") {
		opts = append(opts, xgboost.WithIterationRange(int(cmd.Int("start")), int(cmd.Int("end"))))
	}

	path := cmd.String("model")
	ens, err := xgboost.LoadFromFile(path, opts...)
	if err != nil {
		log.GetLoggerWithName("xgbinspect").Warn("Model could not be decoded",
			"path", path,
			"error", err,
		)
		return nil, err
	}
	return ens, nil
}
