package model

// EstimatorState represents the learning state of an estimator.
type EstimatorState int

const (
	// NotFitted indicates the estimator is not yet trained.
	NotFitted EstimatorState = iota
	// Fitted indicates the estimator has been trained.
	Fitted
)

// BaseEstimator is the embedded base for the bundled estimators. It tracks
// the fitted state so that Predict and Transform can refuse to run on an
// untrained model.
//
// Example:
//
//	type MyModel struct {
//		model.BaseEstimator
//		// model-specific fields
//	}
//
//	func (m *MyModel) Fit(X, y mat.Matrix) error {
//		// training logic
//		m.SetFitted()
//		return nil
//	}
type BaseEstimator struct {
	// State holds the estimator's learning state.
	State EstimatorState
}

// IsFitted returns whether the estimator has been fitted with training data.
func (e *BaseEstimator) IsFitted() bool {
	return e.State == Fitted
}

// SetFitted marks the estimator as fitted. Called by estimator
// implementations after successful training.
func (e *BaseEstimator) SetFitted() {
	e.State = Fitted
}

// Reset returns the estimator to its initial untrained state.
func (e *BaseEstimator) Reset() {
	e.State = NotFitted
}
