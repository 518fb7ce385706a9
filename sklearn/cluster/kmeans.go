// Package cluster implements clustering estimators.
package cluster

import (
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/OPpuolitaival/pandas-ml/core/model"
	"github.com/OPpuolitaival/pandas-ml/pkg/errors"
	"github.com/OPpuolitaival/pandas-ml/pkg/log"
)

var globalProvider log.LoggerProvider

// KMeans implements Lloyd's algorithm with k-means++ initialization.
//
// The supervised Fit signature is kept for dispatch compatibility; the
// target argument is ignored.
type KMeans struct {
	model.BaseEstimator
	logger log.Logger

	// Hyperparameters
	nClusters   int
	maxIter     int
	tol         float64
	randomState int64

	// Learned attributes
	centers  [][]float64
	labels   []int
	inertia  float64
	nIter    int
	features int

	rng *rand.Rand
}

// Option configures a KMeans instance.
type Option func(*KMeans)

// WithNClusters sets the number of clusters.
func WithNClusters(n int) Option {
	return func(km *KMeans) {
		km.nClusters = n
	}
}

// WithMaxIter sets the maximum number of Lloyd iterations.
func WithMaxIter(maxIter int) Option {
	return func(km *KMeans) {
		km.maxIter = maxIter
	}
}

// WithTol sets the center-shift tolerance used to detect convergence.
func WithTol(tol float64) Option {
	return func(km *KMeans) {
		km.tol = tol
	}
}

// WithRandomState seeds the random source for reproducible runs.
func WithRandomState(seed int64) Option {
	return func(km *KMeans) {
		km.randomState = seed
	}
}

// NewKMeans creates a KMeans estimator with the given options.
func NewKMeans(options ...Option) *KMeans {
	km := &KMeans{
		nClusters:   8,
		maxIter:     300,
		tol:         1e-4,
		randomState: -1,
	}

	for _, opt := range options {
		opt(km)
	}

	if km.randomState >= 0 {
		km.rng = rand.New(rand.NewPCG(uint64(km.randomState), uint64(km.randomState)))
	} else {
		seed := uint64(time.Now().UnixNano())
		km.rng = rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
	}

	if globalProvider == nil {
		globalProvider = log.NewZerologProvider(log.ToLogLevel("warn"))
	}
	km.logger = globalProvider.GetLoggerWithName("KMeans")

	return km
}

// Fit runs Lloyd's algorithm on X. The target y is accepted for dispatch
// compatibility and ignored.
func (km *KMeans) Fit(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "KMeans.Fit")
	_ = y

	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.Wrap(errors.ErrEmptyData, "KMeans.Fit")
	}
	if r < km.nClusters {
		return errors.NewValidationError("n_clusters",
			"must not exceed the number of samples", km.nClusters)
	}

	km.features = c
	centers := km.initCenters(X)
	labels := make([]int, r)

	for iter := 0; iter < km.maxIter; iter++ {
		// Assignment step
		for i := 0; i < r; i++ {
			labels[i] = nearestCenter(rowAt(X, i), centers)
		}

		// Update step
		next := make([][]float64, km.nClusters)
		counts := make([]int, km.nClusters)
		for k := range next {
			next[k] = make([]float64, c)
		}
		for i := 0; i < r; i++ {
			k := labels[i]
			counts[k]++
			for j := 0; j < c; j++ {
				next[k][j] += X.At(i, j)
			}
		}
		for k := range next {
			if counts[k] == 0 {
				// Reseed empty clusters from a random sample.
				copy(next[k], rowAt(X, km.rng.IntN(r)))
				continue
			}
			for j := range next[k] {
				next[k][j] /= float64(counts[k])
			}
		}

		shift := 0.0
		for k := range centers {
			shift += squaredDistance(centers[k], next[k])
		}
		centers = next
		km.nIter = iter + 1

		if shift <= km.tol {
			break
		}
	}

	// Final assignment against the converged centers, so the stored labels
	// agree with what Predict would return for the training data.
	for i := 0; i < r; i++ {
		labels[i] = nearestCenter(rowAt(X, i), centers)
	}

	km.centers = centers
	km.labels = labels
	km.inertia = km.computeInertia(X, centers, labels)
	km.SetFitted()

	km.logger.Debug("kmeans fitted",
		log.SamplesKey, r,
		log.FeaturesKey, c,
		"n_clusters", km.nClusters,
		"n_iter", km.nIter,
		"inertia", km.inertia,
	)
	return nil
}

// Predict assigns each sample of X to its nearest cluster center.
func (km *KMeans) Predict(X mat.Matrix) (_ mat.Matrix, err error) {
	defer errors.Recover(&err, "KMeans.Predict")
	if !km.IsFitted() {
		return nil, errors.NewNotFittedError("KMeans", "Predict")
	}

	r, c := X.Dims()
	if c != km.features {
		return nil, errors.NewDimensionError("KMeans.Predict", km.features, c, 1)
	}

	result := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		result.Set(i, 0, float64(nearestCenter(rowAt(X, i), km.centers)))
	}
	return result, nil
}

// FitPredict fits on X and returns the training labels.
func (km *KMeans) FitPredict(X, y mat.Matrix) (mat.Matrix, error) {
	if err := km.Fit(X, y); err != nil {
		return nil, err
	}

	r, _ := X.Dims()
	result := mat.NewDense(r, 1, nil)
	for i, label := range km.labels {
		result.Set(i, 0, float64(label))
	}
	return result, nil
}

// Transform maps X to the cluster-distance space: one column per cluster
// holding the Euclidean distance to its center.
func (km *KMeans) Transform(X mat.Matrix) (_ mat.Matrix, err error) {
	defer errors.Recover(&err, "KMeans.Transform")
	if !km.IsFitted() {
		return nil, errors.NewNotFittedError("KMeans", "Transform")
	}

	r, c := X.Dims()
	if c != km.features {
		return nil, errors.NewDimensionError("KMeans.Transform", km.features, c, 1)
	}

	result := mat.NewDense(r, km.nClusters, nil)
	for i := 0; i < r; i++ {
		row := rowAt(X, i)
		for k, center := range km.centers {
			result.Set(i, k, math.Sqrt(squaredDistance(row, center)))
		}
	}
	return result, nil
}

// ClusterCenters returns a copy of the fitted cluster centers.
func (km *KMeans) ClusterCenters() [][]float64 {
	centers := make([][]float64, len(km.centers))
	for k, center := range km.centers {
		centers[k] = append([]float64(nil), center...)
	}
	return centers
}

// Labels returns the training labels assigned by the last Fit.
func (km *KMeans) Labels() []int {
	return append([]int(nil), km.labels...)
}

// Inertia returns the within-cluster sum of squared distances of the last
// Fit.
func (km *KMeans) Inertia() float64 {
	return km.inertia
}

// NIterations returns the number of Lloyd iterations executed.
func (km *KMeans) NIterations() int {
	return km.nIter
}

// initCenters implements k-means++ seeding.
func (km *KMeans) initCenters(X mat.Matrix) [][]float64 {
	r, _ := X.Dims()
	centers := make([][]float64, 0, km.nClusters)
	centers = append(centers, rowAt(X, km.rng.IntN(r)))

	dist := make([]float64, r)
	for len(centers) < km.nClusters {
		total := 0.0
		for i := 0; i < r; i++ {
			row := rowAt(X, i)
			best := math.Inf(1)
			for _, center := range centers {
				if d := squaredDistance(row, center); d < best {
					best = d
				}
			}
			dist[i] = best
			total += best
		}

		if total == 0 {
			centers = append(centers, rowAt(X, km.rng.IntN(r)))
			continue
		}

		pick := km.rng.Float64() * total
		idx := 0
		for i := 0; i < r; i++ {
			pick -= dist[i]
			if pick <= 0 {
				idx = i
				break
			}
		}
		centers = append(centers, rowAt(X, idx))
	}
	return centers
}

func (km *KMeans) computeInertia(X mat.Matrix, centers [][]float64, labels []int) float64 {
	r, _ := X.Dims()
	inertia := 0.0
	for i := 0; i < r; i++ {
		inertia += squaredDistance(rowAt(X, i), centers[labels[i]])
	}
	return inertia
}

func rowAt(X mat.Matrix, i int) []float64 {
	_, c := X.Dims()
	row := make([]float64, c)
	for j := 0; j < c; j++ {
		row[j] = X.At(i, j)
	}
	return row
}

func nearestCenter(row []float64, centers [][]float64) int {
	best, bestDist := 0, math.Inf(1)
	for k, center := range centers {
		if d := squaredDistance(row, center); d < bestDist {
			best, bestDist = k, d
		}
	}
	return best
}

func squaredDistance(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return sum
}
