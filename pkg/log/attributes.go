// Package log defines standard attribute keys for model decoding operations.
//
// Keys follow a hierarchical naming convention (e.g. "model.name",
// "xgb.trees") so decoded-model logs can be filtered consistently.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the model family being decoded, e.g. "xgboost".
	ModelNameKey = "model.name"

	// EstimatorIDKey carries the generated identifier of a decoded ensemble.
	EstimatorIDKey = "estimator.id"

	// OperationKey names the operation being performed.
	// Standard values: "parse", "predict_raw", "predict_leaf", "inspect"
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is logging.
	ComponentKey = "ml.component"
)

// Data Shape
const (
	// SamplesKey is the number of rows passed to a prediction call.
	SamplesKey = "data.samples"

	// FeaturesKey is the model's declared feature count.
	FeaturesKey = "data.features"

	// DataSizeKey is the size of the raw model buffer in bytes.
	DataSizeKey = "data.size_bytes"
)

// Ensemble structure
const (
	// ObjectiveKey is the objective identifier stored in the model.
	ObjectiveKey = "xgb.objective"

	// BoosterKey is the booster family identifier stored in the model.
	BoosterKey = "xgb.booster"

	// TaskKey is the task category derived from the objective.
	TaskKey = "xgb.task"

	// TreesKey is the number of trees stored or materialized.
	TreesKey = "xgb.trees"

	// RoundsKey is the number of boosting rounds in the resolved range.
	RoundsKey = "xgb.rounds"

	// OutputDimKey is the prediction dimension (1 or the class count).
	OutputDimKey = "xgb.output_dim"

	// BaseScoreKey is the margin-space base score after version policy.
	BaseScoreKey = "xgb.base_score"

	// LibraryVersionKey is the library version the base-score policy was keyed on.
	LibraryVersionKey = "xgb.library_version"
)

// Performance
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"
)

// Error and Warning Context
const (
	// ErrorCodeKey provides a structured error code for programmatic handling.
	ErrorCodeKey = "error.code"

	// ErrorTypeKey categorizes the type of error encountered.
	ErrorTypeKey = "error.type"

	// StacktraceKey contains stack trace information for debugging.
	StacktraceKey = "error.stacktrace"
)

// Standard attribute values.
const (
	OperationParse       = "parse"
	OperationPredictRaw  = "predict_raw"
	OperationPredictLeaf = "predict_leaf"
	OperationInspect     = "inspect"

	ErrorFormat               = "FORMAT"
	ErrorUnsupportedBooster   = "UNSUPPORTED_BOOSTER"
	ErrorUnsupportedObjective = "UNSUPPORTED_OBJECTIVE"
	ErrorRange                = "RANGE"
	ErrorDimensionMismatch    = "DIMENSION_MISMATCH"
)
