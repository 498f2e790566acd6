package xgboost

import (
	"runtime"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scigo-xgb/core"
	"github.com/YuminosukeSato/scigo-xgb/core/parallel"
	"github.com/YuminosukeSato/scigo-xgb/pkg/errors"
	"github.com/YuminosukeSato/scigo-xgb/pkg/log"
)

// parallelRowThreshold is the row count above which prediction fans out.
const parallelRowThreshold = 256

var _ core.TreeModel = (*Predictor)(nil)

// Predictor evaluates a decoded ensemble over batches of rows.
type Predictor struct {
	ensemble   *Ensemble
	numThreads int
	logger     log.Logger
}

// NewPredictor creates a predictor using every CPU.
func NewPredictor(e *Ensemble) *Predictor {
	return &Predictor{
		ensemble:   e,
		numThreads: runtime.NumCPU(),
		logger: log.GetLoggerWithName("xgboost.predictor").
			With(log.EstimatorIDKey, e.ID.String()),
	}
}

// SetNumThreads sets the number of goroutines used for large batches.
// n <= 0 selects runtime.NumCPU(); 1 forces sequential evaluation.
func (p *Predictor) SetNumThreads(n int) {
	if n <= 0 {
		n = runtime.NumCPU()
	}
	p.numThreads = n
}

// NumFeatures returns the number of input columns expected by PredictRaw.
func (p *Predictor) NumFeatures() int { return p.ensemble.Metadata.NumFeatures }

// OutputDim returns the number of margin columns per row.
func (p *Predictor) OutputDim() int { return p.ensemble.Metadata.OutputDim }

func (p *Predictor) checkInput(op string, X mat.Matrix) (rows int, err error) {
	rows, cols := X.Dims()
	if rows == 0 {
		return 0, errors.Wrapf(errors.ErrEmptyData, "%s", op)
	}
	if want := p.ensemble.Metadata.NumFeatures; cols != want {
		return 0, errors.NewDimensionError(op, want, cols, 1)
	}
	return rows, nil
}

// PredictRaw returns untransformed margins: one row per sample and one
// column per output. Missing values are encoded as NaN.
func (p *Predictor) PredictRaw(X mat.Matrix) (*mat.Dense, error) {
	rows, err := p.checkInput("PredictRaw", X)
	if err != nil {
		return nil, err
	}

	dim := p.ensemble.Metadata.OutputDim
	out := mat.NewDense(rows, dim, nil)
	parallel.ParallelizeWithThreshold(rows, parallelRowThreshold, p.numThreads, func(start, end int) {
		margin := make([]float64, dim)
		for i := start; i < end; i++ {
			x := mat.Row(nil, i, X)
			p.ensemble.margin(x, margin)
			out.SetRow(i, margin)
		}
	})

	p.logger.Debug("Raw prediction done",
		log.OperationKey, log.OperationPredictRaw,
		log.SamplesKey, rows,
	)
	return out, nil
}

// PredictLeaf returns, for every sample, the leaf index reached in each
// materialised tree.
func (p *Predictor) PredictLeaf(X mat.Matrix) (*mat.Dense, error) {
	rows, err := p.checkInput("PredictLeaf", X)
	if err != nil {
		return nil, err
	}

	trees := p.ensemble.Trees
	if len(trees) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "PredictLeaf: ensemble has no trees")
	}
	out := mat.NewDense(rows, len(trees), nil)
	parallel.ParallelizeWithThreshold(rows, parallelRowThreshold, p.numThreads, func(start, end int) {
		for i := start; i < end; i++ {
			x := mat.Row(nil, i, X)
			for j, t := range trees {
				out.Set(i, j, float64(t.Leaf(x)))
			}
		}
	})

	p.logger.Debug("Leaf prediction done",
		log.OperationKey, log.OperationPredictLeaf,
		log.SamplesKey, rows,
	)
	return out, nil
}

// margin fills dst (length OutputDim) with base score plus tree outputs.
func (e *Ensemble) margin(x []float64, dst []float64) {
	dim := len(dst)
	for k := range dst {
		dst[k] = e.BaseScore
	}
	for i, t := range e.Trees {
		dst[i%dim] += t.Predict(x)
	}
}
