package frame

import (
	"gonum.org/v1/gonum/mat"

	"github.com/OPpuolitaival/pandas-ml/core/tensor"
	"github.com/OPpuolitaival/pandas-ml/metrics"
	"github.com/OPpuolitaival/pandas-ml/pkg/errors"
	"github.com/OPpuolitaival/pandas-ml/preprocessing"
	"github.com/OPpuolitaival/pandas-ml/sklearn/cluster"
	"github.com/OPpuolitaival/pandas-ml/sklearn/linear_model"
	"github.com/OPpuolitaival/pandas-ml/sklearn/naive_bayes"
	"github.com/OPpuolitaival/pandas-ml/sklearn/pipeline"
)

// Accessor objects group the bundled estimator constructors by submodule,
// mirroring the layout of the delegate library. Each accessor is created
// lazily on first use and memoized on the frame; it carries no logic beyond
// constructor lookup, except for the metrics accessor which binds the
// frame's target and predicted values.
type accessorCache struct {
	cluster       *ClusterAccessor
	linearModel   *LinearModelAccessor
	naiveBayes    *NaiveBayesAccessor
	preprocessing *PreprocessingAccessor
	pipeline      *PipelineAccessor
	metrics       *MetricsAccessor
}

// ClusterAccessor exposes the clustering estimator constructors.
type ClusterAccessor struct {
	mf *ModelFrame
}

// Cluster returns the accessor for clustering estimators.
func (mf *ModelFrame) Cluster() *ClusterAccessor {
	if mf.accessors.cluster == nil {
		mf.accessors.cluster = &ClusterAccessor{mf: mf}
	}
	return mf.accessors.cluster
}

// KMeans constructs a KMeans estimator.
func (a *ClusterAccessor) KMeans(opts ...cluster.Option) *cluster.KMeans {
	return cluster.NewKMeans(opts...)
}

// LinearModelAccessor exposes the linear model constructors.
type LinearModelAccessor struct {
	mf *ModelFrame
}

// LinearModel returns the accessor for linear models.
func (mf *ModelFrame) LinearModel() *LinearModelAccessor {
	if mf.accessors.linearModel == nil {
		mf.accessors.linearModel = &LinearModelAccessor{mf: mf}
	}
	return mf.accessors.linearModel
}

// LinearRegression constructs an ordinary least squares regressor.
func (a *LinearModelAccessor) LinearRegression() *linear_model.LinearRegression {
	return linear_model.NewLinearRegression()
}

// LogisticRegression constructs a binary logistic regression classifier.
func (a *LinearModelAccessor) LogisticRegression(opts ...linear_model.LogisticOption) *linear_model.LogisticRegression {
	return linear_model.NewLogisticRegression(opts...)
}

// NaiveBayesAccessor exposes the naive Bayes constructors.
type NaiveBayesAccessor struct {
	mf *ModelFrame
}

// NaiveBayes returns the accessor for naive Bayes classifiers.
func (mf *ModelFrame) NaiveBayes() *NaiveBayesAccessor {
	if mf.accessors.naiveBayes == nil {
		mf.accessors.naiveBayes = &NaiveBayesAccessor{mf: mf}
	}
	return mf.accessors.naiveBayes
}

// GaussianNB constructs a Gaussian naive Bayes classifier.
func (a *NaiveBayesAccessor) GaussianNB() *naive_bayes.GaussianNB {
	return naive_bayes.NewGaussianNB()
}

// PreprocessingAccessor exposes the preprocessing transformer constructors.
type PreprocessingAccessor struct {
	mf *ModelFrame
}

// Preprocessing returns the accessor for preprocessing transformers.
func (mf *ModelFrame) Preprocessing() *PreprocessingAccessor {
	if mf.accessors.preprocessing == nil {
		mf.accessors.preprocessing = &PreprocessingAccessor{mf: mf}
	}
	return mf.accessors.preprocessing
}

// PP is a shorthand alias for Preprocessing.
func (mf *ModelFrame) PP() *PreprocessingAccessor {
	return mf.Preprocessing()
}

// StandardScaler constructs a standardizing scaler.
func (a *PreprocessingAccessor) StandardScaler() *preprocessing.StandardScaler {
	return preprocessing.NewStandardScalerDefault()
}

// MinMaxScaler constructs a min-max scaler for the given feature range.
func (a *PreprocessingAccessor) MinMaxScaler(featureRange [2]float64) *preprocessing.MinMaxScaler {
	return preprocessing.NewMinMaxScaler(featureRange)
}

// PipelineAccessor exposes the pipeline constructors.
type PipelineAccessor struct {
	mf *ModelFrame
}

// Pipeline returns the accessor for pipelines.
func (mf *ModelFrame) Pipeline() *PipelineAccessor {
	if mf.accessors.pipeline == nil {
		mf.accessors.pipeline = &PipelineAccessor{mf: mf}
	}
	return mf.accessors.pipeline
}

// New constructs a pipeline from named steps.
func (a *PipelineAccessor) New(steps ...pipeline.Step) *pipeline.Pipeline {
	return pipeline.New(steps...)
}

// Make constructs a pipeline with generated step names.
func (a *PipelineAccessor) Make(estimators ...any) *pipeline.Pipeline {
	return pipeline.Make(estimators...)
}

// MetricsAccessor computes evaluation metrics between the frame's target and
// its cached predicted values, passing both automatically.
type MetricsAccessor struct {
	mf *ModelFrame
}

// Metrics returns the frame-bound metrics accessor.
func (mf *ModelFrame) Metrics() *MetricsAccessor {
	if mf.accessors.metrics == nil {
		mf.accessors.metrics = &MetricsAccessor{mf: mf}
	}
	return mf.accessors.metrics
}

func (a *MetricsAccessor) vectors() (yTrue, yPred *mat.VecDense, err error) {
	if !a.mf.HasTarget() {
		return nil, nil, errors.NewValueError("Metrics", "frame has no target column")
	}
	predicted, err := a.mf.Predicted()
	if err != nil {
		return nil, nil, err
	}
	yTrue, err = tensor.FromSeries(a.mf.Target())
	if err != nil {
		return nil, nil, err
	}
	yPred, err = tensor.FromSeries(predicted)
	if err != nil {
		return nil, nil, err
	}
	return yTrue, yPred, nil
}

// Accuracy computes classification accuracy of the cached predictions.
func (a *MetricsAccessor) Accuracy() (float64, error) {
	yTrue, yPred, err := a.vectors()
	if err != nil {
		return 0, err
	}
	return metrics.AccuracyScore(yTrue, yPred)
}

// R2 computes the R² coefficient of determination of the cached predictions.
func (a *MetricsAccessor) R2() (float64, error) {
	yTrue, yPred, err := a.vectors()
	if err != nil {
		return 0, err
	}
	return metrics.R2Score(yTrue, yPred)
}

// MSE computes the mean squared error of the cached predictions.
func (a *MetricsAccessor) MSE() (float64, error) {
	yTrue, yPred, err := a.vectors()
	if err != nil {
		return 0, err
	}
	return metrics.MeanSquaredError(yTrue, yPred)
}

// MAE computes the mean absolute error of the cached predictions.
func (a *MetricsAccessor) MAE() (float64, error) {
	yTrue, yPred, err := a.vectors()
	if err != nil {
		return 0, err
	}
	return metrics.MeanAbsoluteError(yTrue, yPred)
}
