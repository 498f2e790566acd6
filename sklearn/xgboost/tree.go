package xgboost

import (
	"math"
	"slices"

	"github.com/YuminosukeSato/scigo-xgb/pkg/errors"
)

const (
	defaultLeftBit = uint32(1) << 31
	featureMask    = uint32(0x7FFFFFFF)
)

// Tree is one decoded regression tree stored as flat, index-addressed arrays.
// Node 0 is the root. A Tree is never modified after construction and is
// safe for concurrent use.
type Tree struct {
	childrenLeft    []int
	childrenRight   []int
	childrenDefault []int
	splitFeature    []int
	threshold       []float32
	leafValue       []float32
	nodeWeight      []float32
	numFeatures     int
	maxDepth        int
}

// NumNodes returns the number of node slots, including unreachable ones.
func (t *Tree) NumNodes() int { return len(t.childrenLeft) }

// NumFeatures returns the model-wide feature count.
func (t *Tree) NumFeatures() int { return t.numFeatures }

// MaxDepth returns the depth recorded for this tree in the dump.
func (t *Tree) MaxDepth() int { return t.maxDepth }

// IsLeaf reports whether node has no children.
func (t *Tree) IsLeaf(node int) bool { return t.childrenLeft[node] < 0 }

// Left returns the left child of node, or -1 for a leaf.
func (t *Tree) Left(node int) int { return t.childrenLeft[node] }

// Right returns the right child of node, or -1 for a leaf.
func (t *Tree) Right(node int) int { return t.childrenRight[node] }

// Default returns the child taken when the split feature is missing.
func (t *Tree) Default(node int) int { return t.childrenDefault[node] }

// Feature returns the split feature index. Only meaningful for internal nodes.
func (t *Tree) Feature(node int) int { return t.splitFeature[node] }

// Threshold returns the split threshold for use with "x <= threshold goes left".
// It is zero for leaves.
func (t *Tree) Threshold(node int) float32 { return t.threshold[node] }

// LeafValue returns the output of a leaf. It is zero for internal nodes.
func (t *Tree) LeafValue(node int) float32 { return t.leafValue[node] }

// Weight returns the node's training weight (its sum of hessians).
func (t *Tree) Weight(node int) float32 { return t.nodeWeight[node] }

// ChildrenLeft returns a copy of the left-child column.
func (t *Tree) ChildrenLeft() []int { return slices.Clone(t.childrenLeft) }

// ChildrenRight returns a copy of the right-child column.
func (t *Tree) ChildrenRight() []int { return slices.Clone(t.childrenRight) }

// ChildrenDefault returns a copy of the default-child column.
func (t *Tree) ChildrenDefault() []int { return slices.Clone(t.childrenDefault) }

// SplitFeatures returns a copy of the split-feature column.
func (t *Tree) SplitFeatures() []int { return slices.Clone(t.splitFeature) }

// Thresholds returns a copy of the adjusted threshold column.
func (t *Tree) Thresholds() []float32 { return slices.Clone(t.threshold) }

// LeafValues returns a copy of the leaf value column.
func (t *Tree) LeafValues() []float32 { return slices.Clone(t.leafValue) }

// NodeWeights returns a copy of the node weight column.
func (t *Tree) NodeWeights() []float32 { return slices.Clone(t.nodeWeight) }

// defaultChild resolves where missing values go: bit 31 set means left.
func defaultChild(packed uint32, left, right int32) int32 {
	if packed&defaultLeftBit != 0 {
		return left
	}
	return right
}

// featureIndex strips the default-direction bit.
func featureIndex(packed uint32) int {
	return int(packed & featureMask)
}

// adjustThreshold converts a "x < v" boundary into the largest float32 t with
// "x <= t" selecting the same branch for every float32 x.
// -Inf has no smaller float32 and stays -Inf, so only -Inf itself takes the
// left branch where the strict rule sends nothing left. NaN stays NaN.
func adjustThreshold(v float32) float32 {
	return math.Nextafter32(v, float32(math.Inf(-1)))
}

// buildTree converts a raw block into a Tree in one pass over the columns.
func buildTree(b *treeBlock, numFeatures int, index int) (*Tree, error) {
	n := int(b.NumNodes)
	if n == 0 {
		return nil, errors.NewFormatErrorf("tree structure", -1, "tree %d has no nodes", index)
	}

	t := &Tree{
		childrenLeft:    make([]int, n),
		childrenRight:   make([]int, n),
		childrenDefault: make([]int, n),
		splitFeature:    make([]int, n),
		threshold:       make([]float32, n),
		leafValue:       make([]float32, n),
		nodeWeight:      make([]float32, n),
		numFeatures:     numFeatures,
		maxDepth:        int(b.MaxDepth),
	}

	for j := 0; j < n; j++ {
		left, right := b.left[j], b.right[j]
		t.childrenLeft[j] = int(left)
		t.childrenRight[j] = int(right)
		t.childrenDefault[j] = int(defaultChild(b.splitIndex[j], left, right))
		t.splitFeature[j] = featureIndex(b.splitIndex[j])
		t.nodeWeight[j] = b.sumHess[j]

		if left < 0 {
			t.leafValue[j] = b.value[j]
			continue
		}
		t.threshold[j] = adjustThreshold(b.value[j])
	}

	if err := t.validate(); err != nil {
		return nil, errors.Wrapf(err, "tree %d", index)
	}
	return t, nil
}

// validate checks that every node reachable from the root has in-range
// children and a valid feature, and that no node is reached twice.
func (t *Tree) validate() error {
	n := t.NumNodes()
	seen := make([]bool, n)
	stack := []int{0}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[node] {
			return errors.NewFormatErrorf("tree structure", -1, "node %d reached more than once", node)
		}
		seen[node] = true
		if t.IsLeaf(node) {
			continue
		}

		left, right := t.childrenLeft[node], t.childrenRight[node]
		if left >= n || right < 0 || right >= n {
			return errors.NewFormatErrorf("tree structure", -1,
				"node %d has children (%d, %d) outside [0, %d)", node, left, right, n)
		}
		if t.splitFeature[node] >= t.numFeatures {
			return errors.NewFormatErrorf("tree structure", -1,
				"node %d splits on feature %d of %d", node, t.splitFeature[node], t.numFeatures)
		}
		stack = append(stack, left, right)
	}
	return nil
}

// Leaf returns the index of the leaf reached by x. NaN follows the default
// child; otherwise x <= threshold goes left. Comparison happens in float32,
// the precision the thresholds were trained at.
func (t *Tree) Leaf(x []float64) int {
	node := 0
	for !t.IsLeaf(node) {
		v := x[t.splitFeature[node]]
		switch {
		case math.IsNaN(v):
			node = t.childrenDefault[node]
		case float32(v) <= t.threshold[node]:
			node = t.childrenLeft[node]
		default:
			node = t.childrenRight[node]
		}
	}
	return node
}

// Predict returns the leaf value reached by x.
func (t *Tree) Predict(x []float64) float64 {
	return float64(t.leafValue[t.Leaf(x)])
}
