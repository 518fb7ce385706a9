// Package linear_model implements linear estimators.
package linear_model

import (
	"gonum.org/v1/gonum/mat"

	"github.com/OPpuolitaival/pandas-ml/core/model"
	"github.com/OPpuolitaival/pandas-ml/metrics"
	"github.com/OPpuolitaival/pandas-ml/pkg/errors"
)

// LinearRegression fits an ordinary least squares model with intercept.
type LinearRegression struct {
	model.BaseEstimator

	// Weights holds the fitted coefficients, one per feature.
	Weights []float64

	// Intercept holds the fitted bias term.
	Intercept float64

	// NFeatures is the number of features seen during fitting.
	NFeatures int
}

// NewLinearRegression creates an untrained LinearRegression.
func NewLinearRegression() *LinearRegression {
	return &LinearRegression{}
}

// Fit solves the least squares problem for X and y using a QR
// decomposition.
func (lr *LinearRegression) Fit(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "LinearRegression.Fit")

	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.Wrap(errors.ErrEmptyData, "LinearRegression.Fit")
	}
	yr, _ := y.Dims()
	if yr != r {
		return errors.NewDimensionError("LinearRegression.Fit", r, yr, 0)
	}

	// Augment X with a column of ones for the intercept.
	aug := mat.NewDense(r, c+1, nil)
	for i := 0; i < r; i++ {
		aug.Set(i, 0, 1.0)
		for j := 0; j < c; j++ {
			aug.Set(i, j+1, X.At(i, j))
		}
	}

	yVec := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		yVec.SetVec(i, y.At(i, 0))
	}

	var qr mat.QR
	qr.Factorize(aug)

	coef := mat.NewVecDense(c+1, nil)
	if err := qr.SolveVecTo(coef, false, yVec); err != nil {
		return errors.Wrap(errors.ErrSingularMatrix, "LinearRegression.Fit")
	}

	lr.Intercept = coef.AtVec(0)
	lr.Weights = make([]float64, c)
	for j := 0; j < c; j++ {
		lr.Weights[j] = coef.AtVec(j + 1)
	}
	lr.NFeatures = c
	lr.SetFitted()
	return nil
}

// Predict returns the fitted linear combination for each row of X.
func (lr *LinearRegression) Predict(X mat.Matrix) (_ mat.Matrix, err error) {
	defer errors.Recover(&err, "LinearRegression.Predict")
	if !lr.IsFitted() {
		return nil, errors.NewNotFittedError("LinearRegression", "Predict")
	}

	r, c := X.Dims()
	if c != lr.NFeatures {
		return nil, errors.NewDimensionError("LinearRegression.Predict", lr.NFeatures, c, 1)
	}

	result := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		sum := lr.Intercept
		for j := 0; j < c; j++ {
			sum += lr.Weights[j] * X.At(i, j)
		}
		result.Set(i, 0, sum)
	}
	return result, nil
}

// Score returns the coefficient of determination R² of the prediction.
func (lr *LinearRegression) Score(X, y mat.Matrix) (float64, error) {
	pred, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}

	r, _ := y.Dims()
	yTrue := mat.NewVecDense(r, nil)
	yPred := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		yTrue.SetVec(i, y.At(i, 0))
		yPred.SetVec(i, pred.At(i, 0))
	}
	return metrics.R2Score(yTrue, yPred)
}
