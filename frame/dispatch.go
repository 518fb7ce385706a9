package frame

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/mat"

	"github.com/OPpuolitaival/pandas-ml/core/model"
	"github.com/OPpuolitaival/pandas-ml/core/tensor"
	"github.com/OPpuolitaival/pandas-ml/pkg/errors"
	"github.com/OPpuolitaival/pandas-ml/pkg/log"
)

// PredictedName is the column name used when wrapping predicted results.
const PredictedName = ".predicted"

// Dispatchable method names accepted by Call.
const (
	MethodFit              = "fit"
	MethodPredict          = "predict"
	MethodFitPredict       = "fit_predict"
	MethodPredictProba     = "predict_proba"
	MethodPredictLogProba  = "predict_log_proba"
	MethodDecisionFunction = "decision_function"
	MethodTransform        = "transform"
	MethodFitTransform     = "fit_transform"
	MethodInverseTransform = "inverse_transform"
	MethodScore            = "score"
)

// Call dispatches the named estimator method with the frame's feature
// columns (and target, when present) and returns the wrapped result. It is
// the generic façade behind the typed wrappers; unknown method names and
// estimators missing the capability fail with a MethodNotSupportedError.
func (mf *ModelFrame) Call(estimator any, method string) (any, error) {
	switch method {
	case MethodFit:
		if err := mf.Fit(estimator); err != nil {
			return nil, err
		}
		return estimator, nil
	case MethodPredict:
		return mf.Predict(estimator)
	case MethodFitPredict:
		return mf.FitPredict(estimator)
	case MethodPredictProba:
		return mf.PredictProba(estimator)
	case MethodPredictLogProba:
		return mf.PredictLogProba(estimator)
	case MethodDecisionFunction:
		return mf.DecisionFunction(estimator)
	case MethodTransform:
		return mf.Transform(estimator)
	case MethodFitTransform:
		return mf.FitTransform(estimator)
	case MethodInverseTransform:
		return mf.InverseTransform(estimator)
	case MethodScore:
		return mf.Score(estimator)
	default:
		return nil, errors.NewMethodNotSupportedError(estimatorName(estimator), method)
	}
}

// Fit trains the estimator on the frame. With a target present the
// supervised signature is tried first, falling back to the features-only
// signature for estimators that do not accept a target. On success the
// estimator becomes the frame's most recent estimator.
func (mf *ModelFrame) Fit(estimator any) (err error) {
	defer errors.Recover(&err, "ModelFrame.Fit")

	X, err := mf.featureMatrix()
	if err != nil {
		return err
	}

	if mf.HasTarget() {
		y, err := mf.targetVector()
		if err != nil {
			return err
		}
		switch est := estimator.(type) {
		case model.Fitter:
			err = est.Fit(X, y)
		case model.DataFitter:
			// The estimator does not take a target; fit on features alone.
			err = est.Fit(X)
		default:
			return errors.NewMethodNotSupportedError(estimatorName(estimator), "Fit")
		}
		if err != nil {
			return err
		}
	} else {
		switch est := estimator.(type) {
		case model.DataFitter:
			err = est.Fit(X)
		case model.Fitter:
			// No target to pass; let the estimator reject the nil target.
			err = est.Fit(X, nil)
		default:
			return errors.NewMethodNotSupportedError(estimatorName(estimator), "Fit")
		}
		if err != nil {
			return err
		}
	}

	mf.attachEstimator(estimator)
	mf.logDispatch(MethodFit, estimator)
	return nil
}

// Predict returns the estimator's predictions wrapped into a row-aligned
// series. The result is cached as the frame's predicted values.
func (mf *ModelFrame) Predict(estimator any) (_ series.Series, err error) {
	defer errors.Recover(&err, "ModelFrame.Predict")

	p, ok := estimator.(model.Predictor)
	if !ok {
		return series.Series{}, errors.NewMethodNotSupportedError(estimatorName(estimator), "Predict")
	}

	X, err := mf.featureMatrix()
	if err != nil {
		return series.Series{}, err
	}

	raw, err := p.Predict(X)
	if err != nil {
		return series.Series{}, err
	}

	mf.attachEstimator(estimator)
	mf.logDispatch(MethodPredict, estimator)
	return mf.wrapPredicted(raw, estimator)
}

// FitPredict fits the estimator and returns its predictions for the
// training data, wrapped like Predict.
func (mf *ModelFrame) FitPredict(estimator any) (_ series.Series, err error) {
	defer errors.Recover(&err, "ModelFrame.FitPredict")

	fp, ok := estimator.(model.FitPredictor)
	if !ok {
		return series.Series{}, errors.NewMethodNotSupportedError(estimatorName(estimator), "FitPredict")
	}

	X, err := mf.featureMatrix()
	if err != nil {
		return series.Series{}, err
	}
	var y mat.Matrix
	if mf.HasTarget() {
		if y, err = mf.targetVector(); err != nil {
			return series.Series{}, err
		}
	}

	raw, err := fp.FitPredict(X, y)
	if err != nil {
		return series.Series{}, err
	}

	mf.attachEstimator(estimator)
	mf.logDispatch(MethodFitPredict, estimator)
	return mf.wrapPredicted(raw, estimator)
}

// PredictProba returns class probabilities wrapped into a ModelFrame whose
// columns are named after the estimator's class labels. The result is cached.
func (mf *ModelFrame) PredictProba(estimator any) (_ *ModelFrame, err error) {
	defer errors.Recover(&err, "ModelFrame.PredictProba")

	pp, ok := estimator.(model.ProbaPredictor)
	if !ok {
		return nil, errors.NewMethodNotSupportedError(estimatorName(estimator), "PredictProba")
	}

	X, err := mf.featureMatrix()
	if err != nil {
		return nil, err
	}

	raw, err := pp.PredictProba(X)
	if err != nil {
		return nil, err
	}

	mf.attachEstimator(estimator)
	mf.logDispatch(MethodPredictProba, estimator)
	wrapped, err := mf.wrapProbability(raw, estimator, MethodPredictProba)
	if err != nil {
		return nil, err
	}
	mf.proba = wrapped
	return wrapped, nil
}

// PredictLogProba returns log class probabilities wrapped like PredictProba.
func (mf *ModelFrame) PredictLogProba(estimator any) (_ *ModelFrame, err error) {
	defer errors.Recover(&err, "ModelFrame.PredictLogProba")

	lp, ok := estimator.(model.LogProbaPredictor)
	if !ok {
		return nil, errors.NewMethodNotSupportedError(estimatorName(estimator), "PredictLogProba")
	}

	X, err := mf.featureMatrix()
	if err != nil {
		return nil, err
	}

	raw, err := lp.PredictLogProba(X)
	if err != nil {
		return nil, err
	}

	mf.attachEstimator(estimator)
	mf.logDispatch(MethodPredictLogProba, estimator)
	wrapped, err := mf.wrapProbability(raw, estimator, MethodPredictLogProba)
	if err != nil {
		return nil, err
	}
	mf.logProba = wrapped
	return wrapped, nil
}

// DecisionFunction returns raw decision scores wrapped like PredictProba.
func (mf *ModelFrame) DecisionFunction(estimator any) (_ *ModelFrame, err error) {
	defer errors.Recover(&err, "ModelFrame.DecisionFunction")

	ds, ok := estimator.(model.DecisionScorer)
	if !ok {
		return nil, errors.NewMethodNotSupportedError(estimatorName(estimator), "DecisionFunction")
	}

	X, err := mf.featureMatrix()
	if err != nil {
		return nil, err
	}

	raw, err := ds.DecisionFunction(X)
	if err != nil {
		return nil, err
	}

	mf.attachEstimator(estimator)
	mf.logDispatch(MethodDecisionFunction, estimator)
	wrapped, err := mf.wrapProbability(raw, estimator, MethodDecisionFunction)
	if err != nil {
		return nil, err
	}
	mf.decision = wrapped
	return wrapped, nil
}

// Transform returns the transformed features as a new ModelFrame. The
// current target, when present, is re-attached to the result.
func (mf *ModelFrame) Transform(estimator any) (_ *ModelFrame, err error) {
	defer errors.Recover(&err, "ModelFrame.Transform")

	tr, ok := estimator.(model.Transformer)
	if !ok {
		return nil, errors.NewMethodNotSupportedError(estimatorName(estimator), "Transform")
	}

	X, err := mf.featureMatrix()
	if err != nil {
		return nil, err
	}

	raw, err := tr.Transform(X)
	if err != nil {
		return nil, err
	}

	mf.attachEstimator(estimator)
	mf.logDispatch(MethodTransform, estimator)
	return mf.wrapTransform(raw, estimator, MethodTransform)
}

// FitTransform fits the estimator and transforms the features in one step.
func (mf *ModelFrame) FitTransform(estimator any) (_ *ModelFrame, err error) {
	defer errors.Recover(&err, "ModelFrame.FitTransform")

	X, err := mf.featureMatrix()
	if err != nil {
		return nil, err
	}

	var raw mat.Matrix
	if mf.HasTarget() {
		y, err := mf.targetVector()
		if err != nil {
			return nil, err
		}
		switch est := estimator.(type) {
		case model.FitTransformer:
			raw, err = est.FitTransform(X, y)
		case model.DataFitTransformer:
			raw, err = est.FitTransform(X)
		default:
			return nil, errors.NewMethodNotSupportedError(estimatorName(estimator), "FitTransform")
		}
		if err != nil {
			return nil, err
		}
	} else {
		switch est := estimator.(type) {
		case model.DataFitTransformer:
			raw, err = est.FitTransform(X)
		case model.FitTransformer:
			raw, err = est.FitTransform(X, nil)
		default:
			return nil, errors.NewMethodNotSupportedError(estimatorName(estimator), "FitTransform")
		}
		if err != nil {
			return nil, err
		}
	}

	mf.attachEstimator(estimator)
	mf.logDispatch(MethodFitTransform, estimator)
	return mf.wrapTransform(raw, estimator, MethodFitTransform)
}

// InverseTransform maps transformed features back to the original space,
// wrapped like Transform.
func (mf *ModelFrame) InverseTransform(estimator any) (_ *ModelFrame, err error) {
	defer errors.Recover(&err, "ModelFrame.InverseTransform")

	it, ok := estimator.(model.InverseTransformer)
	if !ok {
		return nil, errors.NewMethodNotSupportedError(estimatorName(estimator), "InverseTransform")
	}

	X, err := mf.featureMatrix()
	if err != nil {
		return nil, err
	}

	raw, err := it.InverseTransform(X)
	if err != nil {
		return nil, err
	}

	mf.attachEstimator(estimator)
	mf.logDispatch(MethodInverseTransform, estimator)
	return mf.wrapTransform(raw, estimator, MethodInverseTransform)
}

// Score returns the estimator's score against the frame's target. Both the
// (float64, error) and the bare float64 signatures are accepted.
func (mf *ModelFrame) Score(estimator any) (_ float64, err error) {
	defer errors.Recover(&err, "ModelFrame.Score")

	X, err := mf.featureMatrix()
	if err != nil {
		return 0, err
	}
	y, err := mf.targetVector()
	if err != nil {
		return 0, err
	}

	var score float64
	switch est := estimator.(type) {
	case model.Scorer:
		score, err = est.Score(X, y)
		if err != nil {
			return 0, err
		}
	case interface {
		Score(X, y mat.Matrix) float64
	}:
		score = est.Score(X, y)
	default:
		return 0, errors.NewMethodNotSupportedError(estimatorName(estimator), "Score")
	}

	mf.attachEstimator(estimator)
	mf.logger.Info("estimator scored",
		log.EstimatorKey, estimatorName(estimator),
		log.ScoreKey, score,
	)
	return score, nil
}

// Estimator returns the most recently dispatched estimator, or nil.
func (mf *ModelFrame) Estimator() any {
	return mf.estimator
}

// Predicted returns the cached predictions of the current estimator. A cold
// cache triggers an implicit Predict call, surfacing an AutoCallWarning.
func (mf *ModelFrame) Predicted() (series.Series, error) {
	if mf.predicted != nil {
		return *mf.predicted, nil
	}
	if mf.estimator == nil {
		return series.Series{}, errors.NewValueError("Predicted", "no estimator has been dispatched")
	}
	errors.Warn(errors.NewAutoCallWarning(estimatorName(mf.estimator), "Predict"))
	return mf.Predict(mf.estimator)
}

// Proba returns the cached class probabilities of the current estimator,
// invoking PredictProba when the cache is cold.
func (mf *ModelFrame) Proba() (*ModelFrame, error) {
	if mf.proba != nil {
		return mf.proba, nil
	}
	if mf.estimator == nil {
		return nil, errors.NewValueError("Proba", "no estimator has been dispatched")
	}
	errors.Warn(errors.NewAutoCallWarning(estimatorName(mf.estimator), "PredictProba"))
	return mf.PredictProba(mf.estimator)
}

// LogProba returns the cached log probabilities of the current estimator,
// invoking PredictLogProba when the cache is cold.
func (mf *ModelFrame) LogProba() (*ModelFrame, error) {
	if mf.logProba != nil {
		return mf.logProba, nil
	}
	if mf.estimator == nil {
		return nil, errors.NewValueError("LogProba", "no estimator has been dispatched")
	}
	errors.Warn(errors.NewAutoCallWarning(estimatorName(mf.estimator), "PredictLogProba"))
	return mf.PredictLogProba(mf.estimator)
}

// Decision returns the cached decision scores of the current estimator,
// invoking DecisionFunction when the cache is cold.
func (mf *ModelFrame) Decision() (*ModelFrame, error) {
	if mf.decision != nil {
		return mf.decision, nil
	}
	if mf.estimator == nil {
		return nil, errors.NewValueError("Decision", "no estimator has been dispatched")
	}
	errors.Warn(errors.NewAutoCallWarning(estimatorName(mf.estimator), "DecisionFunction"))
	return mf.DecisionFunction(mf.estimator)
}

// featureMatrix exports the feature columns for estimator consumption.
func (mf *ModelFrame) featureMatrix() (*mat.Dense, error) {
	if !mf.HasData() {
		return nil, errors.NewMissingDataError("dispatch")
	}
	return tensor.FromDataFrame(mf.Data())
}

// targetVector exports the target column for estimator consumption.
func (mf *ModelFrame) targetVector() (*mat.VecDense, error) {
	if !mf.HasTarget() {
		return nil, errors.NewValueError("dispatch", "frame has no target column")
	}
	return tensor.FromSeries(mf.Target())
}

// attachEstimator records the most recently used estimator. Attaching a
// different estimator resets all memoized derived results.
func (mf *ModelFrame) attachEstimator(estimator any) {
	if !sameEstimator(mf.estimator, estimator) {
		mf.predicted = nil
		mf.proba = nil
		mf.logProba = nil
		mf.decision = nil
	}
	mf.estimator = estimator
}

// sameEstimator reports whether the two estimator references are identical.
// Uncomparable dynamic types never compare equal.
func sameEstimator(a, b any) bool {
	if a == nil || b == nil {
		return false
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}

// wrapPredicted wraps a raw prediction matrix into a row-aligned series and
// caches it. A row mismatch degrades to a warning plus an unaligned series;
// output that cannot be wrapped at all is an error.
func (mf *ModelFrame) wrapPredicted(raw mat.Matrix, estimator any) (series.Series, error) {
	rows, _ := raw.Dims()
	if rows != mf.NRows() {
		errors.Warn(errors.NewResultWrapWarning(
			estimatorName(estimator), MethodPredict,
			fmt.Sprintf("expected %d rows, got %d", mf.NRows(), rows)))
	}

	s, err := tensor.ToSeries(raw, PredictedName)
	if err != nil {
		errors.Warn(errors.NewResultWrapWarning(estimatorName(estimator), MethodPredict, err.Error()))
		return series.Series{}, errors.Wrapf(err, "wrapping %s result of %s", MethodPredict, estimatorName(estimator))
	}
	mf.predicted = &s
	return s, nil
}

// wrapProbability wraps a raw probability or decision matrix into a
// ModelFrame. Two-dimensional output with more than one column gets its
// columns named after the estimator's class labels when available. A row
// mismatch degrades to a warning plus an unaligned frame; output that cannot
// be wrapped at all is an error.
func (mf *ModelFrame) wrapProbability(raw mat.Matrix, estimator any, method string) (*ModelFrame, error) {
	rows, cols := raw.Dims()
	if rows != mf.NRows() {
		errors.Warn(errors.NewResultWrapWarning(
			estimatorName(estimator), method,
			fmt.Sprintf("expected %d rows, got %d", mf.NRows(), rows)))
	}

	var names []string
	if cols > 1 {
		if cp, ok := estimator.(model.ClassProvider); ok {
			classes := cp.Classes()
			if len(classes) == cols {
				names = make([]string, cols)
				for i, c := range classes {
					names[i] = strconv.Itoa(c)
				}
			}
		}
	}

	df, err := tensor.ToDataFrame(raw, names)
	if err != nil {
		errors.Warn(errors.NewResultWrapWarning(estimatorName(estimator), method, err.Error()))
		return nil, errors.Wrapf(err, "wrapping %s result of %s", method, estimatorName(estimator))
	}

	return &ModelFrame{
		df:         df,
		targetName: DefaultTargetName,
		logger:     mf.logger,
	}, nil
}

// wrapTransform wraps a raw transformed matrix into a ModelFrame,
// re-attaching the current target when present. Column names are reused from
// the data columns when the width matches, otherwise generated.
func (mf *ModelFrame) wrapTransform(raw mat.Matrix, estimator any, method string) (*ModelFrame, error) {
	rows, cols := raw.Dims()

	var names []string
	if dataCols := mf.DataColumns(); len(dataCols) == cols {
		names = dataCols
	}

	df, err := tensor.ToDataFrame(raw, names)
	if err != nil {
		return nil, err
	}

	result := &ModelFrame{
		df:         df,
		targetName: DefaultTargetName,
		logger:     mf.logger,
	}

	if mf.HasTarget() {
		target := mf.Target()
		if target.Len() != rows {
			errors.Warn(errors.NewResultWrapWarning(
				estimatorName(estimator), method,
				fmt.Sprintf("target length %d does not match %d transformed rows", target.Len(), rows)))
			return result, nil
		}
		result.targetName = mf.targetName
		combined, err := concatTarget(target, df)
		if err != nil {
			return nil, err
		}
		result.df = combined
	}

	return result, nil
}

func (mf *ModelFrame) logDispatch(method string, estimator any) {
	mf.logger.Info("estimator call dispatched",
		log.MethodKey, method,
		log.EstimatorKey, estimatorName(estimator),
		log.FrameTargetKey, mf.targetName,
		log.SamplesKey, mf.NRows(),
		log.FeaturesKey, len(mf.DataColumns()),
	)
}

func estimatorName(estimator any) string {
	return fmt.Sprintf("%T", estimator)
}
