// Package model provides the core capability interfaces for estimators.
//
// A ModelFrame dispatches fit/predict/transform-family calls onto an
// estimator supplied as a plain interface value. Instead of looking up method
// names at runtime, the dispatch layer asserts the narrow interfaces defined
// here, one per conventional scikit-learn method. An estimator implements
// whatever subset of these capabilities it supports; anything with the right
// method set participates, whether bundled with this module or not.
package model

import (
	"gonum.org/v1/gonum/mat"
)

// Fitter is the interface for supervised estimators trained with a target.
type Fitter interface {
	// Fit trains the estimator on features X and target y.
	Fit(X, y mat.Matrix) error
}

// DataFitter is the interface for estimators trained on features alone
// (transformers, clusterers). Dispatch falls back to it when an estimator
// does not accept a target.
type DataFitter interface {
	// Fit learns the parameters required from the features.
	Fit(X mat.Matrix) error
}

// Predictor is the interface for estimators that predict labels or values.
type Predictor interface {
	// Predict returns predictions for the given features.
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// FitPredictor is the interface for estimators that fit and predict in a
// single pass, such as clusterers returning training labels.
type FitPredictor interface {
	// FitPredict trains the estimator and returns predictions for X.
	FitPredict(X, y mat.Matrix) (mat.Matrix, error)
}

// ProbaPredictor is the interface for classifiers that report per-class
// probability estimates.
type ProbaPredictor interface {
	// PredictProba returns class probabilities, one column per class.
	PredictProba(X mat.Matrix) (mat.Matrix, error)
}

// LogProbaPredictor is the interface for classifiers that report per-class
// log probabilities.
type LogProbaPredictor interface {
	// PredictLogProba returns log class probabilities, one column per class.
	PredictLogProba(X mat.Matrix) (mat.Matrix, error)
}

// DecisionScorer is the interface for classifiers exposing raw decision
// scores.
type DecisionScorer interface {
	// DecisionFunction returns the decision scores for the given features.
	DecisionFunction(X mat.Matrix) (mat.Matrix, error)
}

// Transformer is the interface for estimators that transform features.
type Transformer interface {
	// Transform transforms the given features.
	Transform(X mat.Matrix) (mat.Matrix, error)
}

// FitTransformer is the interface for supervised estimators that fit and
// transform in one step.
type FitTransformer interface {
	// FitTransform fits on X and y, then transforms X.
	FitTransform(X, y mat.Matrix) (mat.Matrix, error)
}

// DataFitTransformer is the interface for transformers that fit and
// transform from features alone.
type DataFitTransformer interface {
	// FitTransform fits on X, then transforms it.
	FitTransform(X mat.Matrix) (mat.Matrix, error)
}

// InverseTransformer is the interface for transformers that can reverse
// their transformation.
type InverseTransformer interface {
	// InverseTransform maps transformed features back to the original space.
	InverseTransform(X mat.Matrix) (mat.Matrix, error)
}

// Scorer is the interface for estimators that can score themselves against a
// target.
type Scorer interface {
	// Score returns a quality measure of the prediction, such as R² or
	// accuracy.
	Score(X, y mat.Matrix) (float64, error)
}

// ClassProvider is the interface for classifiers that report the class
// labels seen during fitting. The dispatch layer uses it to name the columns
// of wrapped probability output.
type ClassProvider interface {
	// Classes returns the unique classes seen during fitting.
	Classes() []int
}

// Regressor combines the capabilities of regression models.
type Regressor interface {
	Fitter
	Predictor
	Scorer
}

// Classifier combines the capabilities of classification models.
type Classifier interface {
	Fitter
	Predictor
	Scorer
	ProbaPredictor
	ClassProvider
}
