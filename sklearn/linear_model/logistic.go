package linear_model

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/OPpuolitaival/pandas-ml/core/model"
	"github.com/OPpuolitaival/pandas-ml/pkg/errors"
	"github.com/OPpuolitaival/pandas-ml/pkg/log"
)

var logisticProvider log.LoggerProvider

func logisticLogger() log.Logger {
	if logisticProvider == nil {
		logisticProvider = log.NewZerologProvider(log.LevelWarn)
	}
	return logisticProvider.GetLoggerWithName("logistic-regression")
}

// LogisticRegression is a binary classifier trained with gradient
// descent on the log loss.
type LogisticRegression struct {
	model.BaseEstimator

	// Weights holds the fitted coefficients, one per feature.
	Weights []float64

	// Intercept holds the fitted bias term.
	Intercept float64

	// NFeatures is the number of features seen during fitting.
	NFeatures int

	classes      []int
	learningRate float64
	maxIter      int
	tol          float64
}

// LogisticOption configures a LogisticRegression.
type LogisticOption func(*LogisticRegression)

// WithLearningRate sets the gradient descent step size.
func WithLearningRate(lr float64) LogisticOption {
	return func(m *LogisticRegression) {
		m.learningRate = lr
	}
}

// WithLogisticMaxIter sets the maximum number of gradient descent steps.
func WithLogisticMaxIter(n int) LogisticOption {
	return func(m *LogisticRegression) {
		m.maxIter = n
	}
}

// WithLogisticTol sets the convergence tolerance on the loss decrease.
func WithLogisticTol(tol float64) LogisticOption {
	return func(m *LogisticRegression) {
		m.tol = tol
	}
}

// NewLogisticRegression creates an untrained LogisticRegression.
func NewLogisticRegression(opts ...LogisticOption) *LogisticRegression {
	m := &LogisticRegression{
		learningRate: 0.1,
		maxIter:      1000,
		tol:          1e-6,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1.0 / (1.0 + math.Exp(-z))
	}
	ez := math.Exp(z)
	return ez / (1.0 + ez)
}

// Fit trains the classifier on X and binary labels y. The two distinct
// values found in y become the class labels; the larger one is treated
// as the positive class.
func (m *LogisticRegression) Fit(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "LogisticRegression.Fit")

	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.Wrap(errors.ErrEmptyData, "LogisticRegression.Fit")
	}
	yr, _ := y.Dims()
	if yr != r {
		return errors.NewDimensionError("LogisticRegression.Fit", r, yr, 0)
	}

	seen := make(map[int]bool)
	labels := make([]int, r)
	for i := 0; i < r; i++ {
		labels[i] = int(y.At(i, 0))
		seen[labels[i]] = true
	}
	if len(seen) != 2 {
		return errors.NewValidationError("y",
			"must contain exactly two classes", len(seen))
	}
	m.classes = make([]int, 0, 2)
	for cl := range seen {
		m.classes = append(m.classes, cl)
	}
	sort.Ints(m.classes)

	// 0/1 targets: positive class is the larger label.
	t := make([]float64, r)
	for i, l := range labels {
		if l == m.classes[1] {
			t[i] = 1.0
		}
	}

	m.Weights = make([]float64, c)
	m.Intercept = 0.0
	m.NFeatures = c

	logger := logisticLogger()
	prevLoss := math.Inf(1)
	for iter := 0; iter < m.maxIter; iter++ {
		gradW := make([]float64, c)
		gradB := 0.0
		loss := 0.0

		for i := 0; i < r; i++ {
			z := m.Intercept
			for j := 0; j < c; j++ {
				z += m.Weights[j] * X.At(i, j)
			}
			p := sigmoid(z)
			diff := p - t[i]
			for j := 0; j < c; j++ {
				gradW[j] += diff * X.At(i, j)
			}
			gradB += diff

			// Clamp to avoid log(0).
			pc := math.Min(math.Max(p, 1e-15), 1-1e-15)
			loss -= t[i]*math.Log(pc) + (1-t[i])*math.Log(1-pc)
		}
		loss /= float64(r)

		step := m.learningRate / float64(r)
		for j := 0; j < c; j++ {
			m.Weights[j] -= step * gradW[j]
		}
		m.Intercept -= step * gradB

		if math.Abs(prevLoss-loss) < m.tol {
			logger.Debug("gradient descent converged",
				"iterations", iter+1, "loss", loss)
			break
		}
		prevLoss = loss
	}

	m.SetFitted()
	return nil
}

// DecisionFunction returns the signed distance to the decision boundary
// for each row of X.
func (m *LogisticRegression) DecisionFunction(X mat.Matrix) (_ mat.Matrix, err error) {
	defer errors.Recover(&err, "LogisticRegression.DecisionFunction")
	if !m.IsFitted() {
		return nil, errors.NewNotFittedError("LogisticRegression", "DecisionFunction")
	}

	r, c := X.Dims()
	if c != m.NFeatures {
		return nil, errors.NewDimensionError("LogisticRegression.DecisionFunction", m.NFeatures, c, 1)
	}

	result := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		z := m.Intercept
		for j := 0; j < c; j++ {
			z += m.Weights[j] * X.At(i, j)
		}
		result.Set(i, 0, z)
	}
	return result, nil
}

// PredictProba returns class membership probabilities, one column per
// class in the order reported by Classes.
func (m *LogisticRegression) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	scores, err := m.DecisionFunction(X)
	if err != nil {
		return nil, err
	}

	r, _ := scores.Dims()
	result := mat.NewDense(r, 2, nil)
	for i := 0; i < r; i++ {
		p := sigmoid(scores.At(i, 0))
		result.Set(i, 0, 1-p)
		result.Set(i, 1, p)
	}
	return result, nil
}

// PredictLogProba returns the natural log of PredictProba.
func (m *LogisticRegression) PredictLogProba(X mat.Matrix) (mat.Matrix, error) {
	proba, err := m.PredictProba(X)
	if err != nil {
		return nil, err
	}

	r, c := proba.Dims()
	result := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			p := math.Max(proba.At(i, j), 1e-15)
			result.Set(i, j, math.Log(p))
		}
	}
	return result, nil
}

// Predict returns the most likely class label for each row of X.
func (m *LogisticRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	scores, err := m.DecisionFunction(X)
	if err != nil {
		return nil, err
	}

	r, _ := scores.Dims()
	result := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		if scores.At(i, 0) >= 0 {
			result.Set(i, 0, float64(m.classes[1]))
		} else {
			result.Set(i, 0, float64(m.classes[0]))
		}
	}
	return result, nil
}

// Score returns the mean accuracy on X against the true labels y.
func (m *LogisticRegression) Score(X, y mat.Matrix) (float64, error) {
	pred, err := m.Predict(X)
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
func (m *LogisticRegression) Classes() []int {
	return m.classes
}
