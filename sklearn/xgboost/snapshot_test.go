package xgboost

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scigo-xgb/pkg/errors"
)

func TestSnapshotSaveLoad(t *testing.T) {
	m := newDumpModel()
	m.numFeatures = 3
	m.trees = []dumpTree{stump(2, true, 0.5, -0.25, 0.75), leafTree(0.1)}
	ens, err := Parse(m.bytes(), WithLogger(quietLogger()))
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "ensemble.json")
	if err := ens.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	if loaded.ID != ens.ID || loaded.Metadata != ens.Metadata || loaded.Header != ens.Header {
		t.Errorf("metadata changed across snapshot: %+v vs %+v", loaded.Metadata, ens.Metadata)
	}
	if loaded.Trees[0].Threshold(0) != ens.Trees[0].Threshold(0) {
		t.Error("threshold changed across snapshot")
	}

	X := mat.NewDense(2, 3, []float64{0, 0, 0, 1, 1, 1})
	want, _ := NewPredictor(ens).PredictRaw(X)
	got, err := NewPredictor(loaded).PredictRaw(X)
	if err != nil {
		t.Fatal(err)
	}
	if !mat.Equal(want, got) {
		t.Error("predictions differ after snapshot round trip")
	}
}

func TestFromSnapshotValidates(t *testing.T) {
	tree, err := buildTree(blockFrom(stump(0, false, 1, 0, 1)), 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	good := tree.Dump()

	badDefault := tree.Dump()
	badDefault.ChildrenDefault[0] = 0

	short := tree.Dump()
	short.LeafValue = short.LeafValue[:2]

	for name, dump := range map[string]TreeDump{"bad default": badDefault, "short column": short} {
		s := Snapshot{
			Ensemble: &Ensemble{Metadata: Metadata{NumTrees: 1}},
			Trees:    []TreeDump{dump},
		}
		_, err := FromSnapshot(s)
		var formatErr *errors.FormatError
		if !errors.As(err, &formatErr) {
			t.Errorf("%s: expected *FormatError, got %v", name, err)
		}
	}

	ens, err := FromSnapshot(Snapshot{Ensemble: &Ensemble{Metadata: Metadata{NumTrees: 1}}, Trees: []TreeDump{good}})
	if err != nil {
		t.Fatal(err)
	}
	if ens.ID == uuid.Nil {
		t.Error("expected generated ID")
	}

	if _, err := FromSnapshot(Snapshot{}); err == nil {
		t.Error("expected error for missing ensemble")
	}
}

func TestSnapshotKeepsNonFiniteValues(t *testing.T) {
	errors.SetWarningHandler(func(error) {})
	defer errors.SetWarningHandler(nil)

	m := newDumpModel()
	m.objective = "binary:logistic"
	m.baseScore = 1
	m.trees = []dumpTree{stump(0, false, -math.MaxFloat32, float32(math.NaN()), float32(math.Inf(1)))}
	ens, err := Parse(m.bytes(), WithLogger(quietLogger()), WithLibraryVersion("1.7.6"))
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsInf(ens.BaseScore, 1) || !math.IsInf(float64(ens.Trees[0].Threshold(0)), -1) {
		t.Fatalf("base=%v threshold=%v, want +Inf and -Inf", ens.BaseScore, ens.Trees[0].Threshold(0))
	}

	path := filepath.Join(t.TempDir(), "ensemble.json")
	if err := ens.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	if !math.IsInf(loaded.BaseScore, 1) {
		t.Errorf("BaseScore = %v, want +Inf", loaded.BaseScore)
	}
	if loaded.Header != ens.Header {
		t.Errorf("header changed: %+v vs %+v", loaded.Header, ens.Header)
	}
	tree := loaded.Trees[0]
	if !math.IsInf(float64(tree.Threshold(0)), -1) {
		t.Errorf("threshold = %v, want -Inf", tree.Threshold(0))
	}
	if !math.IsNaN(float64(tree.LeafValue(1))) || !math.IsInf(float64(tree.LeafValue(2)), 1) {
		t.Errorf("leaf values = %v, want [_ NaN +Inf]", tree.LeafValues())
	}
}

func TestFloatJSON(t *testing.T) {
	tests := []struct {
		in   Float32s
		want string
	}{
		{Float32s{0.1, -2, 0}, `[0.1,-2,0]`},
		{Float32s{float32(math.Inf(1)), float32(math.Inf(-1))}, `["+Inf","-Inf"]`},
		{Float32s{}, `[]`},
	}
	for _, tt := range tests {
		out, err := tt.in.MarshalJSON()
		if err != nil {
			t.Fatal(err)
		}
		if string(out) != tt.want {
			t.Errorf("MarshalJSON(%v) = %s, want %s", tt.in, out, tt.want)
		}
		var back Float32s
		if err := back.UnmarshalJSON(out); err != nil {
			t.Fatalf("UnmarshalJSON(%s): %v", out, err)
		}
		if len(back) != len(tt.in) {
			t.Fatalf("UnmarshalJSON(%s) = %v", out, back)
		}
		for i := range back {
			if back[i] != tt.in[i] {
				t.Errorf("element %d: got %v, want %v", i, back[i], tt.in[i])
			}
		}
	}

	var f Float
	if err := f.UnmarshalJSON([]byte(`"NaN"`)); err != nil || !math.IsNaN(float64(f)) {
		t.Errorf("UnmarshalJSON(NaN) = %v, %v", f, err)
	}
	if out, _ := Float(math.NaN()).MarshalJSON(); string(out) != `"NaN"` {
		t.Errorf("MarshalJSON(NaN) = %s", out)
	}

	var valErr *errors.ValidationError
	if err := f.UnmarshalJSON([]byte(`"infinity"`)); !errors.As(err, &valErr) {
		t.Errorf("expected *ValidationError for unknown token, got %v", err)
	}
}
