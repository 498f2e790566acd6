package xgboost

import (
	"github.com/YuminosukeSato/scigo-xgb/pkg/errors"
)

// BoosterGBTree is the only booster family this package decodes.
const BoosterGBTree = "gbtree"

// Reserved word counts in the legacy binary layout.
const (
	headerReservedWords  = 29
	boosterReservedWords = 32
	treeReservedWords    = 31
)

// Header holds the global learner parameters at the start of a dump.
// BaseScore is the value as stored; see BaseScorePolicy for the margin value.
type Header struct {
	BaseScore          float32 `json:"base_score" yaml:"base_score"`
	NumFeatures        uint32  `json:"num_feature" yaml:"num_feature"`
	NumClass           int32   `json:"num_class" yaml:"num_class"`
	ContainExtraAttrs  int32   `json:"contain_extra_attrs" yaml:"contain_extra_attrs"`
	ContainEvalMetrics int32   `json:"contain_eval_metrics" yaml:"contain_eval_metrics"`
	Objective          string  `json:"objective" yaml:"objective"`
	Booster            string  `json:"booster" yaml:"booster"`
}

// OutputDim returns the number of outputs per boosting round.
func (h Header) OutputDim() int {
	if h.NumClass > 0 {
		return int(h.NumClass)
	}
	return 1
}

// BoosterParams holds the gbtree-specific block that follows the header.
// Only NumTrees affects decoding.
type BoosterParams struct {
	NumTrees             int32  `json:"num_trees" yaml:"num_trees"`
	NumRoots             int32  `json:"num_roots" yaml:"num_roots"`
	NumFeature           int32  `json:"num_feature" yaml:"num_feature"`
	Pad                  int32  `json:"pad_32bit" yaml:"pad_32bit"`
	NumPbufferDeprecated uint64 `json:"num_pbuffer_deprecated" yaml:"num_pbuffer_deprecated"`
	NumOutputGroup       int32  `json:"num_output_group" yaml:"num_output_group"`
	SizeLeafVector       int32  `json:"size_leaf_vector" yaml:"size_leaf_vector"`
}

func decodeHeader(c *Cursor) (Header, error) {
	r := fieldReader{c: c}
	h := Header{
		BaseScore:          r.f32("base_score"),
		NumFeatures:        r.u32("num_feature"),
		NumClass:           r.i32("num_class"),
		ContainExtraAttrs:  r.i32("contain_extra_attrs"),
		ContainEvalMetrics: r.i32("contain_eval_metrics"),
	}
	r.reserved("header reserved", headerReservedWords)
	h.Objective = r.str("objective")
	h.Booster = r.str("booster")
	if err := r.Err(); err != nil {
		return Header{}, err
	}
	if h.NumClass < 0 {
		return Header{}, errors.NewFormatErrorf("num_class", 8, "negative class count %d", h.NumClass)
	}
	return h, nil
}

func decodeBoosterParams(c *Cursor) (BoosterParams, error) {
	start := c.Pos()
	r := fieldReader{c: c}
	p := BoosterParams{
		NumTrees:             r.i32("num_trees"),
		NumRoots:             r.i32("num_roots"),
		NumFeature:           r.i32("num_feature"),
		Pad:                  r.i32("pad_32bit"),
		NumPbufferDeprecated: r.u64("num_pbuffer_deprecated"),
		NumOutputGroup:       r.i32("num_output_group"),
		SizeLeafVector:       r.i32("size_leaf_vector"),
	}
	r.reserved("gbtree reserved", boosterReservedWords)
	if err := r.Err(); err != nil {
		return BoosterParams{}, err
	}
	if p.NumTrees < 0 {
		return BoosterParams{}, errors.NewFormatErrorf("num_trees", start, "negative tree count %d", p.NumTrees)
	}
	return p, nil
}
