// Package metrics implements model evaluation scores.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/OPpuolitaival/pandas-ml/pkg/errors"
)

func checkLengths(op string, yTrue, yPred *mat.VecDense) (int, error) {
	if yTrue == nil || yPred == nil || yTrue.Len() == 0 {
		return 0, errors.Wrap(errors.ErrEmptyData, op)
	}
	if yTrue.Len() != yPred.Len() {
		return 0, errors.NewDimensionError(op, yTrue.Len(), yPred.Len(), 0)
	}
	return yTrue.Len(), nil
}

// AccuracyScore returns the fraction of exactly matching labels.
func AccuracyScore(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkLengths("metrics.AccuracyScore", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	correct := 0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == yPred.AtVec(i) {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}

// R2Score returns the coefficient of determination. A model that always
// predicts the mean of yTrue scores 0; a perfect model scores 1.
func R2Score(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkLengths("metrics.R2Score", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	mean := stat.Mean(yTrue.RawVector().Data, nil)
	ssRes, ssTot := 0.0, 0.0
	for i := 0; i < n; i++ {
		res := yTrue.AtVec(i) - yPred.AtVec(i)
		tot := yTrue.AtVec(i) - mean
		ssRes += res * res
		ssTot += tot * tot
	}
	if ssTot == 0 {
		if ssRes == 0 {
			return 1.0, nil
		}
		return 0.0, nil
	}
	return 1.0 - ssRes/ssTot, nil
}

// MeanSquaredError returns the mean of squared residuals.
func MeanSquaredError(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkLengths("metrics.MeanSquaredError", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	sum := 0.0
	for i := 0; i < n; i++ {
		d := yTrue.AtVec(i) - yPred.AtVec(i)
		sum += d * d
	}
	return sum / float64(n), nil
}

// MeanAbsoluteError returns the mean of absolute residuals.
func MeanAbsoluteError(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkLengths("metrics.MeanAbsoluteError", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	sum := 0.0
	for i := 0; i < n; i++ {
		sum += math.Abs(yTrue.AtVec(i) - yPred.AtVec(i))
	}
	return sum / float64(n), nil
}

// LogLoss returns the negative mean log likelihood of binary labels
// yTrue under predicted probabilities yProba. Probabilities are clipped
// away from 0 and 1.
func LogLoss(yTrue, yProba *mat.VecDense) (float64, error) {
	n, err := checkLengths("metrics.LogLoss", yTrue, yProba)
	if err != nil {
		return 0, err
	}

	sum := 0.0
	for i := 0; i < n; i++ {
		p := math.Min(math.Max(yProba.AtVec(i), 1e-15), 1-1e-15)
		if yTrue.AtVec(i) >= 0.5 {
			sum -= math.Log(p)
		} else {
			sum -= math.Log(1 - p)
		}
	}
	return sum / float64(n), nil
}
