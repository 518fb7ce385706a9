// Package naive_bayes implements naive Bayes classifiers.
package naive_bayes

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/OPpuolitaival/pandas-ml/core/model"
	"github.com/OPpuolitaival/pandas-ml/pkg/errors"
)

// varianceFloor keeps per-feature variances away from zero so the
// Gaussian likelihood stays finite for constant features.
const varianceFloor = 1e-9

// GaussianNB is a Gaussian naive Bayes classifier. Each feature is
// modeled as an independent normal distribution per class.
type GaussianNB struct {
	model.BaseEstimator

	// NFeatures is the number of features seen during fitting.
	NFeatures int

	classes []int
	priors  []float64   // log prior per class
	means   [][]float64 // per class, per feature
	vars    [][]float64 // per class, per feature
}

// NewGaussianNB creates an untrained GaussianNB.
func NewGaussianNB() *GaussianNB {
	return &GaussianNB{}
}

// Fit estimates per-class feature means, variances and priors from X
// and integer labels y.
func (nb *GaussianNB) Fit(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "GaussianNB.Fit")

	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.Wrap(errors.ErrEmptyData, "GaussianNB.Fit")
	}
	yr, _ := y.Dims()
	if yr != r {
		return errors.NewDimensionError("GaussianNB.Fit", r, yr, 0)
	}

	byClass := make(map[int][]int)
	for i := 0; i < r; i++ {
		label := int(y.At(i, 0))
		byClass[label] = append(byClass[label], i)
	}

	nb.classes = make([]int, 0, len(byClass))
	for cl := range byClass {
		nb.classes = append(nb.classes, cl)
	}
	sort.Ints(nb.classes)

	nb.priors = make([]float64, len(nb.classes))
	nb.means = make([][]float64, len(nb.classes))
	nb.vars = make([][]float64, len(nb.classes))

	for k, cl := range nb.classes {
		rows := byClass[cl]
		nb.priors[k] = math.Log(float64(len(rows)) / float64(r))
		nb.means[k] = make([]float64, c)
		nb.vars[k] = make([]float64, c)

		for j := 0; j < c; j++ {
			sum := 0.0
			for _, i := range rows {
				sum += X.At(i, j)
			}
			mean := sum / float64(len(rows))

			sq := 0.0
			for _, i := range rows {
				d := X.At(i, j) - mean
				sq += d * d
			}
			nb.means[k][j] = mean
			nb.vars[k][j] = math.Max(sq/float64(len(rows)), varianceFloor)
		}
	}

	nb.NFeatures = c
	nb.SetFitted()
	return nil
}

// jointLogLikelihood returns an rows-by-classes matrix of unnormalized
// log posterior values.
func (nb *GaussianNB) jointLogLikelihood(X mat.Matrix) (*mat.Dense, error) {
	if !nb.IsFitted() {
		return nil, errors.NewNotFittedError("GaussianNB", "Predict")
	}

	r, c := X.Dims()
	if c != nb.NFeatures {
		return nil, errors.NewDimensionError("GaussianNB.Predict", nb.NFeatures, c, 1)
	}

	jll := mat.NewDense(r, len(nb.classes), nil)
	for i := 0; i < r; i++ {
		for k := range nb.classes {
			ll := nb.priors[k]
			for j := 0; j < c; j++ {
				d := X.At(i, j) - nb.means[k][j]
				v := nb.vars[k][j]
				ll -= 0.5 * (math.Log(2*math.Pi*v) + d*d/v)
			}
			jll.Set(i, k, ll)
		}
	}
	return jll, nil
}

// Predict returns the most probable class label for each row of X.
func (nb *GaussianNB) Predict(X mat.Matrix) (_ mat.Matrix, err error) {
	defer errors.Recover(&err, "GaussianNB.Predict")

	jll, err := nb.jointLogLikelihood(X)
	if err != nil {
		return nil, err
	}

	r, _ := jll.Dims()
	result := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		best, bestVal := 0, math.Inf(-1)
		for k := range nb.classes {
			if v := jll.At(i, k); v > bestVal {
				best, bestVal = k, v
			}
		}
		result.Set(i, 0, float64(nb.classes[best]))
	}
	return result, nil
}

// PredictLogProba returns normalized log class probabilities, one
// column per class in the order reported by Classes.
func (nb *GaussianNB) PredictLogProba(X mat.Matrix) (_ mat.Matrix, err error) {
	defer errors.Recover(&err, "GaussianNB.PredictLogProba")

	jll, err := nb.jointLogLikelihood(X)
	if err != nil {
		return nil, err
	}

	// Normalize with log-sum-exp per row.
	r, c := jll.Dims()
	result := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		maxVal := math.Inf(-1)
		for k := 0; k < c; k++ {
			maxVal = math.Max(maxVal, jll.At(i, k))
		}
		sum := 0.0
		for k := 0; k < c; k++ {
			sum += math.Exp(jll.At(i, k) - maxVal)
		}
		logSum := maxVal + math.Log(sum)
		for k := 0; k < c; k++ {
			result.Set(i, k, jll.At(i, k)-logSum)
		}
	}
	return result, nil
}

// PredictProba returns class probabilities, one column per class in
// the order reported by Classes.
func (nb *GaussianNB) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	logProba, err := nb.PredictLogProba(X)
	if err != nil {
		return nil, err
	}

	r, c := logProba.Dims()
	result := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for k := 0; k < c; k++ {
			result.Set(i, k, math.Exp(logProba.At(i, k)))
		}
	}
	return result, nil
}

// Score returns the mean accuracy on X against the true labels y.
func (nb *GaussianNB) Score(X, y mat.Matrix) (float64, error) {
	pred, err := nb.Predict(X)
	if err != nil {
		return 0, err
	}

	r, _ := y.Dims()
	correct := 0
	for i := 0; i < r; i++ {
		if int(pred.At(i, 0)) == int(y.At(i, 0)) {
			correct++
		}
	}
	return float64(correct) / float64(r), nil
}

// Classes returns the class labels in ascending order.
func (nb *GaussianNB) Classes() []int {
	return nb.classes
}
