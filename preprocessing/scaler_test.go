package preprocessing_test

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/OPpuolitaival/pandas-ml/pkg/errors"
	"github.com/OPpuolitaival/pandas-ml/preprocessing"
)

const epsilon = 1e-10 // Tolerance for floating-point comparisons

func TestStandardScaler_BasicFunctionality(t *testing.T) {
	// 3 samples, 2 features
	// Feature 1: [1, 2, 3] -> mean=2, std=0.816
	// Feature 2: [4, 5, 6] -> mean=5, std=0.816
	X := mat.NewDense(3, 2, []float64{
		1.0, 4.0,
		2.0, 5.0,
		3.0, 6.0,
	})

	scaler := preprocessing.NewStandardScalerDefault()

	if err := scaler.Fit(X); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	expectedMean := []float64{2.0, 5.0}
	expectedStd := []float64{0.816496580927726, 0.816496580927726}
	for i := range expectedMean {
		if math.Abs(scaler.Mean[i]-expectedMean[i]) > epsilon {
			t.Errorf("Mean[%d]: expected %f, got %f", i, expectedMean[i], scaler.Mean[i])
		}
		if math.Abs(scaler.Scale[i]-expectedStd[i]) > epsilon {
			t.Errorf("Scale[%d]: expected %f, got %f", i, expectedStd[i], scaler.Scale[i])
		}
	}

	XScaled, err := scaler.Transform(X)
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}

	expectedScaled := []float64{
		-1.224744871391589, -1.224744871391589,
		0.0, 0.0,
		1.224744871391589, 1.224744871391589,
	}
	r, c := XScaled.Dims()
	if r != 3 || c != 2 {
		t.Fatalf("Expected 3x2 matrix, got %dx%d", r, c)
	}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if math.Abs(XScaled.At(i, j)-expectedScaled[i*c+j]) > epsilon {
				t.Errorf("XScaled[%d][%d]: expected %f, got %f",
					i, j, expectedScaled[i*c+j], XScaled.At(i, j))
			}
		}
	}
}

func TestStandardScaler_InverseRoundTrip(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{
		10, 100,
		20, 200,
		30, 300,
		40, 400,
	})

	scaler := preprocessing.NewStandardScalerDefault()
	XScaled, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}

	XBack, err := scaler.InverseTransform(XScaled)
	if err != nil {
		t.Fatalf("InverseTransform failed: %v", err)
	}

	for i := 0; i < 4; i++ {
		for j := 0; j < 2; j++ {
			if math.Abs(XBack.At(i, j)-X.At(i, j)) > 1e-9 {
				t.Errorf("round trip [%d][%d]: expected %f, got %f",
					i, j, X.At(i, j), XBack.At(i, j))
			}
		}
	}
}

func TestStandardScaler_NotFitted(t *testing.T) {
	scaler := preprocessing.NewStandardScalerDefault()
	_, err := scaler.Transform(mat.NewDense(1, 1, []float64{1}))
	if err == nil {
		t.Fatal("expected an error for an unfitted scaler")
	}
	var notFitted *errors.NotFittedError
	if !errors.As(err, &notFitted) {
		t.Errorf("expected NotFittedError, got %v", err)
	}
}

func TestMinMaxScaler_Range(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{2, 4, 6})

	scaler := preprocessing.NewMinMaxScalerDefault()
	XScaled, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}

	expected := []float64{0.0, 0.5, 1.0}
	for i, want := range expected {
		if math.Abs(XScaled.At(i, 0)-want) > epsilon {
			t.Errorf("XScaled[%d]: expected %f, got %f", i, want, XScaled.At(i, 0))
		}
	}

	XBack, err := scaler.InverseTransform(XScaled)
	if err != nil {
		t.Fatalf("InverseTransform failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		if math.Abs(XBack.At(i, 0)-X.At(i, 0)) > epsilon {
			t.Errorf("round trip [%d]: expected %f, got %f", i, X.At(i, 0), XBack.At(i, 0))
		}
	}
}

func TestMinMaxScaler_ConstantFeature(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{5, 5, 5})

	scaler := preprocessing.NewMinMaxScalerDefault()
	XScaled, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}

	// Constant features map to the range start without dividing by zero.
	for i := 0; i < 3; i++ {
		if math.IsNaN(XScaled.At(i, 0)) || math.IsInf(XScaled.At(i, 0), 0) {
			t.Errorf("constant feature produced non-finite value: %f", XScaled.At(i, 0))
		}
	}
}

func TestMinMaxScaler_DimensionMismatch(t *testing.T) {
	scaler := preprocessing.NewMinMaxScalerDefault()
	if err := scaler.Fit(mat.NewDense(2, 2, []float64{1, 2, 3, 4})); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	_, err := scaler.Transform(mat.NewDense(2, 3, nil))
	if err == nil {
		t.Fatal("expected a dimension error")
	}
	var dimErr *errors.DimensionError
	if !errors.As(err, &dimErr) {
		t.Errorf("expected DimensionError, got %v", err)
	}
}
