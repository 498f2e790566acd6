package xgboost

import (
	"math"

	"github.com/Masterminds/semver/v3"

	"github.com/YuminosukeSato/scigo-xgb/pkg/errors"
)

// DefaultLibraryVersion is assumed when the caller does not say which
// library release produced the dump.
const DefaultLibraryVersion = "1.0.0"

// logisticObjectives store base_score in probability space from 1.0 onwards.
var logisticObjectives = map[string]bool{
	"binary:logistic": true,
	"reg:logistic":    true,
}

// BaseScorePolicy decides how the stored base_score maps to a margin.
// Starting with major version 1 the library saves base_score untransformed,
// so logistic objectives need a logit before the value can be added to leaf sums.
type BaseScorePolicy struct {
	Version *semver.Version
}

// NewBaseScorePolicy parses version (e.g. "1.7.6", "v2.0.3", "0.90").
func NewBaseScorePolicy(version string) (BaseScorePolicy, error) {
	v, err := semver.NewVersion(version)
	if err != nil {
		return BaseScorePolicy{}, errors.NewValidationError("library_version", err.Error(), version)
	}
	return BaseScorePolicy{Version: v}, nil
}

// NeedsLogit reports whether objective's stored base_score is a probability.
func (p BaseScorePolicy) NeedsLogit(objective string) bool {
	return p.Version != nil && p.Version.Major() >= 1 && logisticObjectives[objective]
}

// Margin returns the base score in margin space.
func (p BaseScorePolicy) Margin(objective string, stored float32) float64 {
	if !p.NeedsLogit(objective) {
		return float64(stored)
	}
	margin := logit(float64(stored))
	if math.IsInf(margin, 0) || math.IsNaN(margin) {
		errors.Warn(errors.NewBaseScoreWarning(objective, stored, margin))
	}
	return margin
}

func logit(p float64) float64 {
	return math.Log(p / (1 - p))
}
