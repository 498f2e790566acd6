package xgboost

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scigo-xgb/core"
	"github.com/YuminosukeSato/scigo-xgb/pkg/errors"
)

func parseForPredict(t *testing.T, m *dumpModel) *Ensemble {
	t.Helper()
	ens, err := Parse(m.bytes(), WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return ens
}

func TestPredictRawSingleOutput(t *testing.T) {
	m := newDumpModel()
	m.numFeatures = 2
	m.baseScore = 0.5
	m.trees = []dumpTree{
		stump(0, false, 0.5, -0.25, 0.75),
		stump(1, true, 10, 1, 2),
	}
	ens := parseForPredict(t, m)

	X := mat.NewDense(3, 2, []float64{
		0, 0,
		1, 20,
		math.NaN(), math.NaN(),
	})
	got, err := NewPredictor(ens).PredictRaw(X)
	if err != nil {
		t.Fatal(err)
	}

	// NaN in feature 0 goes right (default bit clear), in feature 1 goes left.
	want := []float64{0.5 - 0.25 + 1, 0.5 + 0.75 + 2, 0.5 + 0.75 + 1}
	for i, w := range want {
		if math.Abs(got.At(i, 0)-w) > 1e-9 {
			t.Errorf("row %d: got %v, want %v", i, got.At(i, 0), w)
		}
	}
}

func TestPredictRawMultiOutput(t *testing.T) {
	m := newDumpModel()
	m.objective = "multi:softmax"
	m.numClass = 3
	m.baseScore = 0
	for round := 0; round < 2; round++ {
		for k := 0; k < 3; k++ {
			m.trees = append(m.trees, leafTree(float32(k+1)))
		}
	}
	ens := parseForPredict(t, m)

	got, err := NewPredictor(ens).PredictRaw(mat.NewDense(1, 4, nil))
	if err != nil {
		t.Fatal(err)
	}
	r, c := got.Dims()
	if r != 1 || c != 3 {
		t.Fatalf("dims = %dx%d, want 1x3", r, c)
	}
	for k := 0; k < 3; k++ {
		if want := float64(2 * (k + 1)); got.At(0, k) != want {
			t.Errorf("output %d = %v, want %v", k, got.At(0, k), want)
		}
	}
}

func TestPredictLeaf(t *testing.T) {
	m := newDumpModel()
	m.numFeatures = 1
	m.trees = []dumpTree{stump(0, false, 0, 0, 0), leafTree(3)}
	ens := parseForPredict(t, m)

	got, err := NewPredictor(ens).PredictLeaf(mat.NewDense(2, 1, []float64{-1, 1}))
	if err != nil {
		t.Fatal(err)
	}
	want := [][]float64{{1, 0}, {2, 0}}
	for i := range want {
		for j := range want[i] {
			if got.At(i, j) != want[i][j] {
				t.Errorf("leaf[%d][%d] = %v, want %v", i, j, got.At(i, j), want[i][j])
			}
		}
	}
}

func TestPredictParallelMatchesSequential(t *testing.T) {
	m := newDumpModel()
	m.numFeatures = 2
	m.trees = []dumpTree{stump(0, false, 0.5, -1, 1), stump(1, true, 0.25, 2, -2)}
	ens := parseForPredict(t, m)

	rows := parallelRowThreshold * 3
	data := make([]float64, rows*2)
	for i := range data {
		data[i] = float64(i%7) / 7
	}
	X := mat.NewDense(rows, 2, data)

	seq := NewPredictor(ens)
	seq.SetNumThreads(1)
	want, err := seq.PredictRaw(X)
	if err != nil {
		t.Fatal(err)
	}

	par := NewPredictor(ens)
	par.SetNumThreads(4)
	got, err := par.PredictRaw(X)
	if err != nil {
		t.Fatal(err)
	}
	if !mat.Equal(want, got) {
		t.Error("parallel prediction differs from sequential")
	}
}

func TestPredictInputValidation(t *testing.T) {
	m := newDumpModel()
	m.trees = []dumpTree{leafTree(1)}
	p := NewPredictor(parseForPredict(t, m))

	_, err := p.PredictRaw(mat.NewDense(2, 3, nil))
	var dimErr *errors.DimensionError
	if !errors.As(err, &dimErr) {
		t.Fatalf("expected *DimensionError, got %v", err)
	}
	if dimErr.Expected != 4 || dimErr.Got != 3 {
		t.Errorf("unexpected dimension error %+v", dimErr)
	}

	empty := &Ensemble{Metadata: Metadata{NumFeatures: 4, OutputDim: 1}}
	if _, err := NewPredictor(empty).PredictLeaf(mat.NewDense(1, 4, nil)); !errors.Is(err, errors.ErrEmptyData) {
		t.Errorf("expected ErrEmptyData for ensemble without trees, got %v", err)
	}
}

func TestPredictorShape(t *testing.T) {
	m := newDumpModel()
	m.objective = "multi:softprob"
	m.numClass = 2
	m.trees = []dumpTree{leafTree(1), leafTree(2)}

	var model core.TreeModel = NewPredictor(parseForPredict(t, m))
	if model.NumFeatures() != 4 || model.OutputDim() != 2 {
		t.Fatalf("shape = (%d, %d), want (4, 2)", model.NumFeatures(), model.OutputDim())
	}

	out, err := model.PredictRaw(mat.NewDense(2, 4, nil))
	if err != nil {
		t.Fatal(err)
	}
	if r, c := out.Dims(); r != 2 || c != 2 {
		t.Errorf("PredictRaw dims = (%d, %d), want (2, 2)", r, c)
	}
}
