package xgboost

import (
	"github.com/google/uuid"

	"github.com/YuminosukeSato/scigo-xgb/core/model"
	"github.com/YuminosukeSato/scigo-xgb/pkg/errors"
)

// TreeDump is the serialisable form of a Tree.
type TreeDump struct {
	ChildrenLeft    []int     `json:"children_left" yaml:"children_left"`
	ChildrenRight   []int     `json:"children_right" yaml:"children_right"`
	ChildrenDefault []int     `json:"children_default" yaml:"children_default"`
	SplitFeature    []int     `json:"split_feature" yaml:"split_feature"`
	Threshold       Float32s  `json:"threshold" yaml:"threshold"`
	LeafValue       Float32s  `json:"leaf_value" yaml:"leaf_value"`
	NodeWeight      Float32s  `json:"node_weight" yaml:"node_weight"`
	NumFeatures     int       `json:"num_features" yaml:"num_features"`
	MaxDepth        int       `json:"max_depth" yaml:"max_depth"`
}

// Snapshot is the serialisable form of an Ensemble. Non-finite base scores,
// thresholds and leaf values are kept; see Float and Float32s.
type Snapshot struct {
	Ensemble *Ensemble  `json:"ensemble" yaml:"ensemble"`
	Trees    []TreeDump `json:"trees" yaml:"trees"`
}

// Dump copies the tree into its serialisable form.
func (t *Tree) Dump() TreeDump {
	return TreeDump{
		ChildrenLeft:    t.ChildrenLeft(),
		ChildrenRight:   t.ChildrenRight(),
		ChildrenDefault: t.ChildrenDefault(),
		SplitFeature:    t.SplitFeatures(),
		Threshold:       Float32s(t.Thresholds()),
		LeafValue:       Float32s(t.LeafValues()),
		NodeWeight:      Float32s(t.NodeWeights()),
		NumFeatures:     t.numFeatures,
		MaxDepth:        t.maxDepth,
	}
}

// NewTreeFromDump rebuilds a Tree from a dump. Thresholds are taken as
// already adjusted; the structure is validated the same way Parse does.
func NewTreeFromDump(d TreeDump) (*Tree, error) {
	n := len(d.ChildrenLeft)
	for name, l := range map[string]int{
		"children_right":   len(d.ChildrenRight),
		"children_default": len(d.ChildrenDefault),
		"split_feature":    len(d.SplitFeature),
		"threshold":        len(d.Threshold),
		"leaf_value":       len(d.LeafValue),
		"node_weight":      len(d.NodeWeight),
	} {
		if l != n {
			return nil, errors.NewFormatErrorf(name, -1, "length %d, want %d", l, n)
		}
	}
	if n == 0 {
		return nil, errors.NewFormatErrorf("tree structure", -1, "tree has no nodes")
	}

	t := &Tree{
		childrenLeft:    append([]int(nil), d.ChildrenLeft...),
		childrenRight:   append([]int(nil), d.ChildrenRight...),
		childrenDefault: append([]int(nil), d.ChildrenDefault...),
		splitFeature:    append([]int(nil), d.SplitFeature...),
		threshold:       append([]float32(nil), d.Threshold...),
		leafValue:       append([]float32(nil), d.LeafValue...),
		nodeWeight:      append([]float32(nil), d.NodeWeight...),
		numFeatures:     d.NumFeatures,
		maxDepth:        d.MaxDepth,
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	for node, def := range t.childrenDefault {
		if !t.IsLeaf(node) && def != t.childrenLeft[node] && def != t.childrenRight[node] {
			return nil, errors.NewFormatErrorf("tree structure", -1,
				"node %d default child %d is neither child", node, def)
		}
	}
	return t, nil
}

// Snapshot captures the ensemble in serialisable form.
func (e *Ensemble) Snapshot() Snapshot {
	s := Snapshot{Ensemble: e, Trees: make([]TreeDump, len(e.Trees))}
	for i, t := range e.Trees {
		s.Trees[i] = t.Dump()
	}
	return s
}

// FromSnapshot rebuilds an ensemble. A zero ID is replaced with a new one.
func FromSnapshot(s Snapshot) (*Ensemble, error) {
	if s.Ensemble == nil {
		return nil, errors.NewFormatErrorf("snapshot", -1, "missing ensemble section")
	}
	e := *s.Ensemble
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if len(s.Trees) != e.Metadata.NumTrees {
		return nil, errors.NewFormatErrorf("snapshot", -1,
			"%d trees stored, metadata declares %d", len(s.Trees), e.Metadata.NumTrees)
	}
	e.Trees = make([]*Tree, len(s.Trees))
	for i, d := range s.Trees {
		t, err := NewTreeFromDump(d)
		if err != nil {
			return nil, errors.Wrapf(err, "tree %d", i)
		}
		e.Trees[i] = t
	}
	return &e, nil
}

// Save writes the ensemble snapshot as JSON.
func (e *Ensemble) Save(path string) error {
	return model.SaveModel(e.Snapshot(), path)
}

// LoadSnapshot reads a snapshot written by Save.
func LoadSnapshot(path string) (*Ensemble, error) {
	var s Snapshot
	if err := model.LoadModel(&s, path); err != nil {
		return nil, err
	}
	return FromSnapshot(s)
}
