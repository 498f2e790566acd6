package xgboost

import (
	"bytes"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/YuminosukeSato/scigo-xgb/pkg/errors"
	"github.com/YuminosukeSato/scigo-xgb/pkg/log"
)

// Magic is the prefix the library writes in front of a raw binary dump.
const Magic = "binf"

// Metadata summarises a decoded ensemble.
type Metadata struct {
	Task           Task           `json:"task" yaml:"task"`
	Objective      string         `json:"objective" yaml:"objective"`
	Booster        string         `json:"booster" yaml:"booster"`
	NumFeatures    int            `json:"num_features" yaml:"num_features"`
	OutputDim      int            `json:"output_dim" yaml:"output_dim"`
	Range          IterationRange `json:"iteration_range" yaml:"iteration_range"`
	NumTrees       int            `json:"num_trees" yaml:"num_trees"`
	TotalTrees     int            `json:"total_trees" yaml:"total_trees"`
	LibraryVersion string         `json:"library_version" yaml:"library_version"`
}

// Ensemble is the result of Parse: the trees of the selected rounds in
// stored order plus the model metadata. Trees[i] contributes to output
// i % Metadata.OutputDim.
type Ensemble struct {
	ID        uuid.UUID     `json:"id" yaml:"id"`
	Header    Header        `json:"header" yaml:"header"`
	Params    BoosterParams `json:"params" yaml:"params"`
	Metadata  Metadata      `json:"metadata" yaml:"metadata"`
	BaseScore float64       `json:"base_score" yaml:"base_score"`
	Trees     []*Tree       `json:"-" yaml:"-"`
}

// MaxDepth returns the deepest recorded depth across materialised trees.
func (e *Ensemble) MaxDepth() int {
	depth := 0
	for _, t := range e.Trees {
		depth = max(depth, t.MaxDepth())
	}
	return depth
}

type parseConfig struct {
	iterRange *IterationRange
	version   string
	logger    log.Logger
}

// ParseOption configures Parse.
type ParseOption func(*parseConfig)

// WithIterationRange materialises only rounds [start, end).
func WithIterationRange(start, end int) ParseOption {
	return func(c *parseConfig) {
		c.iterRange = &IterationRange{Start: start, End: end}
	}
}

// WithLibraryVersion sets the version of the library that wrote the dump.
// It decides the base-score transform; the default is DefaultLibraryVersion.
func WithLibraryVersion(version string) ParseOption {
	return func(c *parseConfig) {
		c.version = version
	}
}

// WithLogger overrides the logger used for parse diagnostics.
func WithLogger(l log.Logger) ParseOption {
	return func(c *parseConfig) {
		c.logger = l
	}
}

// StripMagic removes the leading "binf" marker if present.
func StripMagic(buf []byte) []byte {
	return bytes.TrimPrefix(buf, []byte(Magic))
}

// LoadFromFile reads a dump from path and parses it. A leading magic
// marker is stripped.
func LoadFromFile(path string, opts ...ParseOption) (*Ensemble, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read model file %s", path)
	}
	return Parse(StripMagic(buf), opts...)
}

// LoadFromReader reads r to EOF and parses the content. A leading magic
// marker is stripped.
func LoadFromReader(r io.Reader, opts ...ParseOption) (*Ensemble, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read model")
	}
	return Parse(StripMagic(buf), opts...)
}

// Parse decodes a gbtree dump whose magic prefix has already been removed.
// The whole buffer is decoded eagerly; on any error no ensemble is returned.
// buf is not retained.
func Parse(buf []byte, opts ...ParseOption) (*Ensemble, error) {
	cfg := parseConfig{version: DefaultLibraryVersion}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = log.GetLoggerWithName("xgboost")
	}

	policy, err := NewBaseScorePolicy(cfg.version)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	c := NewCursor(buf)

	header, err := decodeHeader(c)
	if err != nil {
		return nil, errors.Wrap(err, "header")
	}
	if header.Booster != BoosterGBTree {
		return nil, errors.NewUnsupportedBoosterError(header.Booster)
	}
	params, err := decodeBoosterParams(c)
	if err != nil {
		return nil, errors.Wrap(err, "gbtree params")
	}
	task, err := ClassifyObjective(header.Objective)
	if err != nil {
		return nil, err
	}

	outputDim := header.OutputDim()
	rng, err := ResolveIterationRange(cfg.iterRange, int(params.NumTrees), outputDim)
	if err != nil {
		return nil, err
	}

	ens := &Ensemble{
		ID:        uuid.New(),
		Header:    header,
		Params:    params,
		BaseScore: policy.Margin(header.Objective, header.BaseScore),
	}
	logger := cfg.logger.With(log.ModelNameKey, "xgboost", log.EstimatorIDKey, ens.ID.String())
	logger.Debug("Header decoded",
		log.ObjectiveKey, header.Objective,
		log.BoosterKey, header.Booster,
		log.FeaturesKey, header.NumFeatures,
		log.TreesKey, params.NumTrees,
		log.DataSizeKey, len(buf),
	)

	first, last := rng.TreeSpan(outputDim)
	ens.Trees = make([]*Tree, 0, last-first)
	for i := 0; i < last; i++ {
		if i < first {
			if err := skipTreeBlock(c, i); err != nil {
				return nil, err
			}
			continue
		}
		block, err := decodeTreeBlock(c, i)
		if err != nil {
			return nil, err
		}
		tree, err := buildTree(block, int(header.NumFeatures), i)
		if err != nil {
			return nil, err
		}
		ens.Trees = append(ens.Trees, tree)
	}

	ens.Metadata = Metadata{
		Task:           task,
		Objective:      header.Objective,
		Booster:        header.Booster,
		NumFeatures:    int(header.NumFeatures),
		OutputDim:      outputDim,
		Range:          rng,
		NumTrees:       len(ens.Trees),
		TotalTrees:     int(params.NumTrees),
		LibraryVersion: policy.Version.String(),
	}

	logger.Info("Model parsed",
		log.OperationKey, log.OperationParse,
		log.TaskKey, string(task),
		log.TreesKey, len(ens.Trees),
		log.RoundsKey, rng.Rounds(),
		log.OutputDimKey, outputDim,
		log.BaseScoreKey, ens.BaseScore,
		log.LibraryVersionKey, policy.Version.String(),
		log.DurationMsKey, time.Since(started).Milliseconds(),
	)
	return ens, nil
}
