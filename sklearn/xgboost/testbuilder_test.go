package xgboost

import (
	"bytes"
	"encoding/binary"
)

// dumpNode is one node as it appears in a binary dump.
type dumpNode struct {
	parent, left, right int32
	split               uint32
	value               float32
	sumHess             float32
}

type dumpTree struct {
	maxDepth int32
	nodes    []dumpNode
}

// dumpModel writes the legacy gbtree layout byte for byte.
type dumpModel struct {
	baseScore   float32
	numFeatures uint32
	numClass    int32
	objective   string
	booster     string
	trees       []dumpTree
}

func newDumpModel() *dumpModel {
	return &dumpModel{
		baseScore:   0.5,
		numFeatures: 4,
		objective:   "reg:squarederror",
		booster:     BoosterGBTree,
	}
}

func put(buf *bytes.Buffer, vs ...interface{}) {
	for _, v := range vs {
		if err := binary.Write(buf, binary.LittleEndian, v); err != nil {
			panic(err)
		}
	}
}

func putString(buf *bytes.Buffer, s string) {
	put(buf, uint64(len(s)))
	buf.WriteString(s)
}

// headerBytes returns the learner header up to and including the booster name.
func (m *dumpModel) headerBytes() []byte {
	var buf bytes.Buffer
	put(&buf, m.baseScore, m.numFeatures, m.numClass, int32(0), int32(0), make([]int32, headerReservedWords))
	putString(&buf, m.objective)
	putString(&buf, m.booster)
	return buf.Bytes()
}

func (m *dumpModel) bytes() []byte {
	var buf bytes.Buffer
	buf.Write(m.headerBytes())

	// gbtree params
	put(&buf, int32(len(m.trees)), int32(1), int32(m.numFeatures), int32(0), uint64(0),
		int32(max(m.numClass, 1)), int32(0), make([]int32, boosterReservedWords))

	for _, t := range m.trees {
		put(&buf, int32(1), int32(len(t.nodes)), int32(0), t.maxDepth, int32(m.numFeatures), int32(0),
			make([]int32, treeReservedWords))
		for _, n := range t.nodes {
			put(&buf, n.parent, n.left, n.right, n.split, n.value)
		}
		for _, n := range t.nodes {
			put(&buf, float32(0), n.sumHess, float32(0), int32(0))
		}
	}
	return buf.Bytes()
}

// stump returns a three-node tree: root splits feature on threshold, leaves
// hold left and right values.
func stump(feature uint32, defaultLeft bool, threshold, left, right float32) dumpTree {
	split := feature
	if defaultLeft {
		split |= 1 << 31
	}
	return dumpTree{
		maxDepth: 1,
		nodes: []dumpNode{
			{parent: -1, left: 1, right: 2, split: split, value: threshold, sumHess: 10},
			{parent: 0, left: -1, right: -1, value: left, sumHess: 4},
			{parent: 0, left: -1, right: -1, value: right, sumHess: 6},
		},
	}
}

// leafTree returns a single-leaf tree.
func leafTree(value float32) dumpTree {
	return dumpTree{nodes: []dumpNode{{parent: -1, left: -1, right: -1, value: value, sumHess: 1}}}
}
