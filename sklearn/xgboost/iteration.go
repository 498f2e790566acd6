package xgboost

import (
	"github.com/YuminosukeSato/scigo-xgb/pkg/errors"
)

// IterationRange is a half-open range [Start, End) of boosting rounds.
type IterationRange struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// Rounds returns the number of boosting rounds in the range.
func (r IterationRange) Rounds() int { return r.End - r.Start }

// TreeSpan returns the stored tree indices covered by the range when each
// round holds outputDim trees.
func (r IterationRange) TreeSpan(outputDim int) (first, last int) {
	return r.Start * outputDim, r.End * outputDim
}

// ResolveIterationRange validates requested against the model's round count.
// A nil request selects every round. numTrees must be a multiple of outputDim
// because multi-output models store one tree per output per round.
func ResolveIterationRange(requested *IterationRange, numTrees, outputDim int) (IterationRange, error) {
	if outputDim <= 0 {
		return IterationRange{}, errors.NewValidationError("output_dim", "must be positive", outputDim)
	}
	if numTrees < 0 || numTrees%outputDim != 0 {
		return IterationRange{}, errors.NewFormatErrorf("num_trees", -1,
			"%d trees cannot be split into rounds of %d outputs", numTrees, outputDim)
	}
	totalRounds := numTrees / outputDim

	if requested == nil {
		return IterationRange{Start: 0, End: totalRounds}, nil
	}
	if requested.Start < 0 || requested.Start >= requested.End || requested.End > totalRounds {
		return IterationRange{}, errors.NewRangeError(requested.Start, requested.End, totalRounds)
	}
	return *requested, nil
}
