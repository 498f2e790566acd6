// Package scigoxgb reads gradient-boosted tree ensembles from the legacy
// binary gbtree dump format and evaluates them in Go.
//
// The format is the one produced by older Booster.save_raw / save_model calls:
// a learner header, the gbtree parameter block and one block per tree. Only
// the tree booster is supported; linear and dart dumps are rejected.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/scigo-xgb/sklearn/xgboost"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    ens, err := xgboost.LoadFromFile("model.bin",
//	        xgboost.WithLibraryVersion("1.7.6"),
//	        xgboost.WithIterationRange(0, 50),
//	    )
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    X := mat.NewDense(1, ens.Metadata.NumFeatures, nil)
//	    margins, err := xgboost.NewPredictor(ens).PredictRaw(X)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(mat.Formatted(margins))
//	}
//
// # Packages
//
//   - sklearn/xgboost: dump decoding, trees, raw-margin and leaf prediction, snapshots
//   - core/model: JSON persistence used for snapshots
//   - core/parallel: row-parallel prediction
//   - pkg/errors: typed decode errors (FormatError, RangeError, ...)
//   - pkg/log: zerolog-backed structured logging
//   - cmd/xgbinspect: command line inspector
//
// # Base Score
//
// Dumps written by library versions 1.0 and later store base_score as a
// probability for binary:logistic and reg:logistic. Pass the writing version
// with WithLibraryVersion so the stored value is converted to a margin only
// when it needs to be.
package scigoxgb
