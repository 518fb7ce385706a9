package frame

import (
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/OPpuolitaival/pandas-ml/pkg/errors"
	"github.com/OPpuolitaival/pandas-ml/preprocessing"
	"github.com/OPpuolitaival/pandas-ml/sklearn/cluster"
	"github.com/OPpuolitaival/pandas-ml/sklearn/linear_model"
	"github.com/OPpuolitaival/pandas-ml/sklearn/naive_bayes"
)

// constantModel is a minimal estimator supporting only Fit and Predict.
type constantModel struct {
	value  float64
	fitted bool
}

func (m *constantModel) Fit(X, y mat.Matrix) error {
	m.fitted = true
	return nil
}

func (m *constantModel) Predict(X mat.Matrix) (mat.Matrix, error) {
	r, _ := X.Dims()
	out := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		out.Set(i, 0, m.value)
	}
	return out, nil
}

// paddedModel returns results with one extra row, exercising the unaligned
// best-effort wrap path.
type paddedModel struct{}

func (paddedModel) Fit(X, y mat.Matrix) error { return nil }

func (paddedModel) Predict(X mat.Matrix) (mat.Matrix, error) {
	r, _ := X.Dims()
	return mat.NewDense(r+1, 1, nil), nil
}

func (paddedModel) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	r, _ := X.Dims()
	return mat.NewDense(r+1, 2, nil), nil
}

// emptyMatrix is a 0x0 matrix; gonum constructors reject zero dimensions.
type emptyMatrix struct{}

func (emptyMatrix) Dims() (int, int)    { return 0, 0 }
func (emptyMatrix) At(i, j int) float64 { return 0 }
func (emptyMatrix) T() mat.Matrix       { return emptyMatrix{} }

// hollowModel returns output that cannot be wrapped into a frame at all.
type hollowModel struct{}

func (hollowModel) Fit(X, y mat.Matrix) error { return nil }

func (hollowModel) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	return emptyMatrix{}, nil
}

func classificationFrame(t *testing.T) *ModelFrame {
	t.Helper()

	data := dataframe.New(
		series.New([]float64{-3, -2.5, -3.5, 2.5, 3, 3.5}, series.Float, "x1"),
		series.New([]float64{-2, -3, -2.8, 3.2, 2.4, 2.9}, series.Float, "x2"),
	)
	mf, err := New(&data, WithTargetValues([]float64{0, 0, 0, 1, 1, 1}))
	require.NoError(t, err)
	return mf
}

func regressionFrame(t *testing.T) *ModelFrame {
	t.Helper()

	data := dataframe.New(
		series.New([]float64{1, 2, 3, 4}, series.Float, "x"),
	)
	mf, err := New(&data, WithTargetValues([]float64{3, 5, 7, 9}))
	require.NoError(t, err)
	return mf
}

func TestFitAndPredictRegression(t *testing.T) {
	mf := regressionFrame(t)
	lr := linear_model.NewLinearRegression()

	require.NoError(t, mf.Fit(lr))
	assert.Same(t, lr, mf.Estimator())

	pred, err := mf.Predict(lr)
	require.NoError(t, err)
	assert.Equal(t, PredictedName, pred.Name)
	assert.Equal(t, mf.NRows(), pred.Len())
	assert.InDelta(t, 3.0, pred.Float()[0], 1e-6)
	assert.InDelta(t, 9.0, pred.Float()[3], 1e-6)
}

func TestFitWithoutTargetUsesDataFitter(t *testing.T) {
	data := dataframe.New(
		series.New([]float64{1, 2, 3, 4}, series.Float, "x"),
	)
	mf, err := New(&data)
	require.NoError(t, err)

	scaler := preprocessing.NewStandardScalerDefault()
	require.NoError(t, mf.Fit(scaler))
	assert.True(t, scaler.IsFitted())
}

func TestFitSupervisedFallbackForDataFitter(t *testing.T) {
	// A frame with a target still fits a features-only estimator.
	mf := regressionFrame(t)
	scaler := preprocessing.NewStandardScalerDefault()
	require.NoError(t, mf.Fit(scaler))
	assert.True(t, scaler.IsFitted())
}

func TestPredictedUsesCache(t *testing.T) {
	mf := regressionFrame(t)
	lr := linear_model.NewLinearRegression()
	require.NoError(t, mf.Fit(lr))

	first, err := mf.Predict(lr)
	require.NoError(t, err)

	cached, err := mf.Predicted()
	require.NoError(t, err)
	assert.Equal(t, first.Float(), cached.Float())
}

func TestPredictedAutoCallWarns(t *testing.T) {
	var captured []error
	errors.SetWarningHandler(func(w error) {
		captured = append(captured, w)
	})
	defer errors.SetWarningHandler(nil)

	mf := regressionFrame(t)
	lr := linear_model.NewLinearRegression()
	require.NoError(t, mf.Fit(lr))

	// Cache is cold; Predicted must auto-invoke Predict and warn about it.
	pred, err := mf.Predicted()
	require.NoError(t, err)
	assert.Equal(t, mf.NRows(), pred.Len())

	require.NotEmpty(t, captured)
	var acw *errors.AutoCallWarning
	assert.ErrorAs(t, captured[0], &acw)
}

func TestPredictedWithoutEstimator(t *testing.T) {
	mf := regressionFrame(t)

	_, err := mf.Predicted()
	var ve *errors.ValueError
	assert.ErrorAs(t, err, &ve)
}

func TestAttachingNewEstimatorResetsCaches(t *testing.T) {
	mf := classificationFrame(t)

	nb := naive_bayes.NewGaussianNB()
	require.NoError(t, mf.Fit(nb))
	_, err := mf.PredictProba(nb)
	require.NoError(t, err)
	require.NotNil(t, mf.proba)

	// Dispatching a different estimator must invalidate the derived results.
	other := &constantModel{value: 1}
	require.NoError(t, mf.Fit(other))
	assert.Nil(t, mf.proba)
	assert.Nil(t, mf.predicted)
	assert.Nil(t, mf.logProba)
	assert.Nil(t, mf.decision)
	assert.Same(t, other, mf.Estimator())
}

func TestSameEstimatorKeepsCaches(t *testing.T) {
	mf := regressionFrame(t)
	lr := linear_model.NewLinearRegression()
	require.NoError(t, mf.Fit(lr))

	_, err := mf.Predict(lr)
	require.NoError(t, err)
	require.NotNil(t, mf.predicted)

	// Re-dispatching the same estimator keeps memoized results.
	require.NoError(t, mf.Fit(lr))
	assert.NotNil(t, mf.predicted)
}

func TestPredictRowMismatchWarnsAndReturnsUnaligned(t *testing.T) {
	var captured []error
	errors.SetWarningHandler(func(w error) {
		captured = append(captured, w)
	})
	defer errors.SetWarningHandler(nil)

	mf := regressionFrame(t)

	pred, err := mf.Predict(paddedModel{})
	require.NoError(t, err)
	assert.Equal(t, mf.NRows()+1, pred.Len())

	require.NotEmpty(t, captured)
	var rww *errors.ResultWrapWarning
	assert.ErrorAs(t, captured[0], &rww)
	assert.Equal(t, MethodPredict, rww.Method)
}

func TestPredictProbaRowMismatchWarnsAndReturnsUnaligned(t *testing.T) {
	var captured []error
	errors.SetWarningHandler(func(w error) {
		captured = append(captured, w)
	})
	defer errors.SetWarningHandler(nil)

	mf := regressionFrame(t)

	proba, err := mf.PredictProba(paddedModel{})
	require.NoError(t, err)
	require.NotNil(t, proba)
	assert.Equal(t, mf.NRows()+1, proba.NRows())

	require.NotEmpty(t, captured)
	var rww *errors.ResultWrapWarning
	assert.ErrorAs(t, captured[0], &rww)
	assert.Equal(t, MethodPredictProba, rww.Method)
}

func TestPredictProbaUnwrappableResultErrors(t *testing.T) {
	var captured []error
	errors.SetWarningHandler(func(w error) {
		captured = append(captured, w)
	})
	defer errors.SetWarningHandler(nil)

	mf := regressionFrame(t)

	proba, err := mf.PredictProba(hollowModel{})
	require.Error(t, err)
	assert.Nil(t, proba)
	assert.Nil(t, mf.proba)

	require.NotEmpty(t, captured)
	var rww *errors.ResultWrapWarning
	assert.ErrorAs(t, captured[len(captured)-1], &rww)
}

func TestPredictProbaColumnsNamedAfterClasses(t *testing.T) {
	mf := classificationFrame(t)
	nb := naive_bayes.NewGaussianNB()
	require.NoError(t, mf.Fit(nb))

	proba, err := mf.PredictProba(nb)
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "1"}, proba.Columns())
	assert.Equal(t, mf.NRows(), proba.NRows())
}

func TestPredictLogProbaCached(t *testing.T) {
	mf := classificationFrame(t)
	nb := naive_bayes.NewGaussianNB()
	require.NoError(t, mf.Fit(nb))

	direct, err := mf.PredictLogProba(nb)
	require.NoError(t, err)

	cached, err := mf.LogProba()
	require.NoError(t, err)
	assert.Same(t, direct, cached)
}

func TestDecisionFunction(t *testing.T) {
	mf := classificationFrame(t)
	logit := linear_model.NewLogisticRegression(
		linear_model.WithLogisticMaxIter(2000),
		linear_model.WithLearningRate(0.5),
	)
	require.NoError(t, mf.Fit(logit))

	dec, err := mf.DecisionFunction(logit)
	require.NoError(t, err)
	assert.Equal(t, mf.NRows(), dec.NRows())
	assert.Equal(t, 1, len(dec.Columns()))

	cached, err := mf.Decision()
	require.NoError(t, err)
	assert.Same(t, dec, cached)
}

func TestTransformReattachesTarget(t *testing.T) {
	mf := regressionFrame(t)
	scaler := preprocessing.NewStandardScalerDefault()

	out, err := mf.FitTransform(scaler)
	require.NoError(t, err)

	require.True(t, out.HasTarget())
	assert.Equal(t, mf.TargetName(), out.TargetName())
	assert.Equal(t, mf.Target().Float(), out.Target().Float())
	assert.Equal(t, []string{"x"}, out.DataColumns())

	// Standardized feature has zero mean.
	sum := 0.0
	for _, v := range out.Data().Col("x").Float() {
		sum += v
	}
	assert.InDelta(t, 0.0, sum, 1e-9)
}

func TestInverseTransformRoundTrip(t *testing.T) {
	mf := regressionFrame(t)
	scaler := preprocessing.NewStandardScalerDefault()

	scaled, err := mf.FitTransform(scaler)
	require.NoError(t, err)

	back, err := scaled.InverseTransform(scaler)
	require.NoError(t, err)

	orig := mf.Data().Col("x").Float()
	restored := back.Data().Col("x").Float()
	for i := range orig {
		assert.InDelta(t, orig[i], restored[i], 1e-9)
	}
}

func TestFitPredictClustering(t *testing.T) {
	data := dataframe.New(
		series.New([]float64{-3, -2.5, -3.5, 2.5, 3, 3.5}, series.Float, "x1"),
		series.New([]float64{-2, -3, -2.8, 3.2, 2.4, 2.9}, series.Float, "x2"),
	)
	mf, err := New(&data)
	require.NoError(t, err)

	km := cluster.NewKMeans(cluster.WithNClusters(2), cluster.WithRandomState(42))
	labels, err := mf.FitPredict(km)
	require.NoError(t, err)
	assert.Equal(t, mf.NRows(), labels.Len())

	// The two blobs must land in different clusters.
	got := labels.Float()
	assert.Equal(t, got[0], got[1])
	assert.Equal(t, got[3], got[4])
	assert.NotEqual(t, got[0], got[3])
}

func TestScore(t *testing.T) {
	mf := regressionFrame(t)
	lr := linear_model.NewLinearRegression()
	require.NoError(t, mf.Fit(lr))

	score, err := mf.Score(lr)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, score, 1e-9)
}

func TestCallDispatchesByName(t *testing.T) {
	mf := regressionFrame(t)
	lr := linear_model.NewLinearRegression()

	_, err := mf.Call(lr, MethodFit)
	require.NoError(t, err)

	result, err := mf.Call(lr, MethodPredict)
	require.NoError(t, err)
	pred, ok := result.(series.Series)
	require.True(t, ok)
	assert.Equal(t, mf.NRows(), pred.Len())

	_, err = mf.Call(lr, "poach")
	var mns *errors.MethodNotSupportedError
	assert.ErrorAs(t, err, &mns)
}

func TestDispatchUnsupportedCapability(t *testing.T) {
	mf := regressionFrame(t)
	est := &constantModel{value: 2}

	_, err := mf.PredictProba(est)
	var mns *errors.MethodNotSupportedError
	assert.ErrorAs(t, err, &mns)
}

func TestDispatchRequiresData(t *testing.T) {
	target := series.New([]float64{1, 2, 3}, series.Float, "y")
	mf, err := New(nil, WithTargetSeries(target))
	require.NoError(t, err)

	var mde *errors.MissingDataError
	assert.ErrorAs(t, mf.Fit(linear_model.NewLinearRegression()), &mde)
}
