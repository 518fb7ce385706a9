// Package log defines standard attribute keys for frame and estimator
// operations.
//
// Using these keys keeps log output consistent across the frame dispatch
// layer and the bundled estimators, which makes filtering and analysis of
// structured logs straightforward.
package log

// Frame and dispatch context.
const (
	// FrameTargetKey identifies the target column of the frame involved in
	// the operation. Example: ".target", "species"
	FrameTargetKey = "frame.target"

	// EstimatorKey identifies the estimator type receiving a dispatched
	// call. Example: "*cluster.KMeans"
	EstimatorKey = "estimator.type"

	// MethodKey names the dispatched estimator method.
	// Standard values: "fit", "predict", "predict_proba", "predict_log_proba",
	// "decision_function", "transform", "fit_transform", "inverse_transform",
	// "score", "fit_predict"
	MethodKey = "dispatch.method"

	// OperationKey names the frame operation being performed.
	// Examples: "New", "SetData", "SetTarget", "DropTarget"
	OperationKey = "frame.operation"
)

// Data shape and characteristics.
const (
	// SamplesKey indicates the number of rows in the frame.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of feature columns in the frame.
	FeaturesKey = "data.features"

	// ColumnsKey carries the ordered column names involved in an operation.
	ColumnsKey = "data.columns"

	// ClassesKey indicates the number of class labels reported by a
	// classifier when wrapping probability output.
	ClassesKey = "data.classes"
)

// Metrics context.
const (
	// AccuracyKey records classification accuracy for evaluation operations.
	AccuracyKey = "metrics.accuracy"

	// R2ScoreKey records the R² coefficient of determination.
	R2ScoreKey = "metrics.r2_score"

	// ScoreKey records a generic estimator score.
	ScoreKey = "metrics.score"
)

// Error and warning context.
const (
	// ErrorTypeKey categorizes the type of error encountered.
	// Examples: "ColumnNotFoundError", "DimensionError"
	ErrorTypeKey = "error.type"

	// StacktraceKey contains stack trace information for debugging.
	// Automatically populated when logging errors carrying stacks.
	StacktraceKey = "error.stacktrace"
)
