package xgboost

import (
	"github.com/YuminosukeSato/scigo-xgb/pkg/errors"
)

// Per-node byte sizes: parent, left, right, packed split, value; then
// loss change, sum of hessians, base weight, leaf child count.
const (
	nodeRecordBytes = 5 * 4
	statRecordBytes = 4 * 4
)

// TreeParams holds the per-tree scalars preceding the node columns.
type TreeParams struct {
	NumRoots       int32 `json:"num_roots" yaml:"num_roots"`
	NumNodes       int32 `json:"num_nodes" yaml:"num_nodes"`
	NumDeleted     int32 `json:"num_deleted" yaml:"num_deleted"`
	MaxDepth       int32 `json:"max_depth" yaml:"max_depth"`
	NumFeature     int32 `json:"num_feature" yaml:"num_feature"`
	SizeLeafVector int32 `json:"size_leaf_vector" yaml:"size_leaf_vector"`
}

// treeBlock is the raw content of one tree, all columns of length NumNodes.
// It only lives for the duration of a Parse call.
type treeBlock struct {
	TreeParams
	parent       []int32
	left         []int32
	right        []int32
	splitIndex   []uint32
	value        []float32
	lossChg      []float32
	sumHess      []float32
	baseWeight   []float32
	leafChildCnt []int32
}

func decodeTreeParams(c *Cursor, index int) (TreeParams, error) {
	start := c.Pos()
	r := fieldReader{c: c}
	p := TreeParams{
		NumRoots:       r.i32("num_roots"),
		NumNodes:       r.i32("num_nodes"),
		NumDeleted:     r.i32("num_deleted"),
		MaxDepth:       r.i32("max_depth"),
		NumFeature:     r.i32("num_feature"),
		SizeLeafVector: r.i32("size_leaf_vector"),
	}
	r.reserved("tree reserved", treeReservedWords)
	if err := r.Err(); err != nil {
		return TreeParams{}, errors.Wrapf(err, "tree %d", index)
	}
	if p.NumNodes < 0 {
		return TreeParams{}, errors.NewFormatErrorf("num_nodes", start+4,
			"tree %d declares negative node count %d", index, p.NumNodes)
	}
	// Refuse before allocating when the columns cannot fit.
	need := int64(p.NumNodes) * (nodeRecordBytes + statRecordBytes)
	if need > int64(c.Remaining()) {
		return TreeParams{}, errors.NewFormatErrorf("num_nodes", start+4,
			"tree %d declares %d nodes needing %d bytes, %d remaining", index, p.NumNodes, need, c.Remaining())
	}
	return p, nil
}

// decodeTreeBlock reads one tree: params, node records, then stat records.
func decodeTreeBlock(c *Cursor, index int) (*treeBlock, error) {
	params, err := decodeTreeParams(c, index)
	if err != nil {
		return nil, err
	}

	n := int(params.NumNodes)
	b := &treeBlock{
		TreeParams:   params,
		parent:       make([]int32, n),
		left:         make([]int32, n),
		right:        make([]int32, n),
		splitIndex:   make([]uint32, n),
		value:        make([]float32, n),
		lossChg:      make([]float32, n),
		sumHess:      make([]float32, n),
		baseWeight:   make([]float32, n),
		leafChildCnt: make([]int32, n),
	}

	r := fieldReader{c: c}
	for j := 0; j < n; j++ {
		b.parent[j] = r.i32("parent")
		b.left[j] = r.i32("cleft")
		b.right[j] = r.i32("cright")
		b.splitIndex[j] = r.u32("sindex")
		b.value[j] = r.f32("info")
	}
	for j := 0; j < n; j++ {
		b.lossChg[j] = r.f32("loss_chg")
		b.sumHess[j] = r.f32("sum_hess")
		b.baseWeight[j] = r.f32("base_weight")
		b.leafChildCnt[j] = r.i32("leaf_child_cnt")
	}
	if err := r.Err(); err != nil {
		return nil, errors.Wrapf(err, "tree %d", index)
	}
	return b, nil
}

// skipTreeBlock advances past a tree that falls outside the requested range.
func skipTreeBlock(c *Cursor, index int) error {
	params, err := decodeTreeParams(c, index)
	if err != nil {
		return err
	}
	if err := c.Skip(int(params.NumNodes) * (nodeRecordBytes + statRecordBytes)); err != nil {
		return errors.Wrapf(err, "tree %d", index)
	}
	return nil
}
