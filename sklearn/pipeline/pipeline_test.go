package pipeline

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/OPpuolitaival/pandas-ml/pkg/errors"
	"github.com/OPpuolitaival/pandas-ml/preprocessing"
	"github.com/OPpuolitaival/pandas-ml/sklearn/linear_model"
)

const epsilon = 1e-6

func regressionData() (*mat.Dense, *mat.Dense) {
	// y = 3x + 2 with features on a wide scale.
	X := mat.NewDense(6, 1, []float64{100, 200, 300, 400, 500, 600})
	y := mat.NewDense(6, 1, []float64{302, 602, 902, 1202, 1502, 1802})
	return X, y
}

func TestPipelineScaleThenRegress(t *testing.T) {
	X, y := regressionData()

	p := New(
		Step{Name: "scale", Estimator: preprocessing.NewStandardScalerDefault()},
		Step{Name: "ols", Estimator: linear_model.NewLinearRegression()},
	)

	if err := p.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	pred, err := p.Predict(X)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	for i := 0; i < 6; i++ {
		if math.Abs(pred.At(i, 0)-y.At(i, 0)) > 1e-6 {
			t.Errorf("row %d: got %f, want %f", i, pred.At(i, 0), y.At(i, 0))
		}
	}

	score, err := p.Score(X, y)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if math.Abs(score-1.0) > epsilon {
		t.Errorf("expected R² of 1.0, got %f", score)
	}
}

func TestMakeGeneratesStepNames(t *testing.T) {
	p := Make(preprocessing.NewStandardScalerDefault(), linear_model.NewLinearRegression())

	steps := p.Steps()
	if len(steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(steps))
	}
	if steps[0].Name != "step1" || steps[1].Name != "step2" {
		t.Errorf("unexpected step names: %q, %q", steps[0].Name, steps[1].Name)
	}

	if _, ok := p.NamedStep("step1"); !ok {
		t.Error("expected step1 to be addressable by name")
	}
}

func TestPipelineTransformOnlySteps(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{0, 1, 2, 3})

	p := Make(preprocessing.NewStandardScalerDefault(), preprocessing.NewMinMaxScaler([2]float64{0, 1}))

	Xt, err := p.FitTransform(X, nil)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}

	r, c := Xt.Dims()
	if r != 4 || c != 1 {
		t.Fatalf("expected 4x1 output, got %dx%d", r, c)
	}
	if math.Abs(Xt.At(0, 0)) > epsilon || math.Abs(Xt.At(3, 0)-1.0) > epsilon {
		t.Errorf("expected output scaled to [0, 1], got [%f, %f]", Xt.At(0, 0), Xt.At(3, 0))
	}

	back, err := p.InverseTransform(Xt)
	if err != nil {
		t.Fatalf("InverseTransform failed: %v", err)
	}
	for i := 0; i < 4; i++ {
		if math.Abs(back.At(i, 0)-X.At(i, 0)) > epsilon {
			t.Errorf("round trip mismatch at row %d: got %f, want %f", i, back.At(i, 0), X.At(i, 0))
		}
	}
}

func TestPipelineNotFitted(t *testing.T) {
	p := Make(linear_model.NewLinearRegression())
	_, err := p.Predict(mat.NewDense(1, 1, []float64{1}))
	var nf *errors.NotFittedError
	if !errors.As(err, &nf) {
		t.Errorf("expected NotFittedError, got %v", err)
	}
}

func TestPipelineRejectsNonTransformerIntermediate(t *testing.T) {
	X, y := regressionData()

	p := New(
		Step{Name: "ols", Estimator: linear_model.NewLinearRegression()},
		Step{Name: "ols2", Estimator: linear_model.NewLinearRegression()},
	)

	if err := p.Fit(X, y); err == nil {
		t.Fatal("expected error for non-transformer intermediate step")
	}
}
