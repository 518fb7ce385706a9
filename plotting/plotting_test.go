package plotting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/OPpuolitaival/pandas-ml/frame"
	"github.com/OPpuolitaival/pandas-ml/sklearn/linear_model"
)

func fittedFrame(t *testing.T) *frame.ModelFrame {
	t.Helper()

	data := dataframe.New(
		series.New([]float64{1, 2, 3, 4, 5}, series.Float, "x"),
	)
	mf, err := frame.New(&data, frame.WithTargetValues([]float64{2.1, 3.9, 6.2, 8.0, 9.8}))
	if err != nil {
		t.Fatalf("frame.New failed: %v", err)
	}

	lr := linear_model.NewLinearRegression()
	if err := mf.Fit(lr); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if _, err := mf.Predict(lr); err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	return mf
}

func TestPredictionError(t *testing.T) {
	mf := fittedFrame(t)

	p, err := PredictionError(mf)
	if err != nil {
		t.Fatalf("PredictionError failed: %v", err)
	}
	if p.Title.Text != "Prediction Error" {
		t.Errorf("unexpected title %q", p.Title.Text)
	}

	path := filepath.Join(t.TempDir(), "prediction_error.png")
	if err := SavePNG(p, path); err != nil {
		t.Fatalf("SavePNG failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected plot file: %v", err)
	}
	if info.Size() == 0 {
		t.Error("expected non-empty plot file")
	}
}

func TestResiduals(t *testing.T) {
	mf := fittedFrame(t)

	p, err := Residuals(mf)
	if err != nil {
		t.Fatalf("Residuals failed: %v", err)
	}
	if p.X.Label.Text != "predicted" {
		t.Errorf("unexpected x label %q", p.X.Label.Text)
	}
}

func TestPlotsRequireTarget(t *testing.T) {
	data := dataframe.New(
		series.New([]float64{1, 2, 3}, series.Float, "x"),
	)
	mf, err := frame.New(&data)
	if err != nil {
		t.Fatalf("frame.New failed: %v", err)
	}

	if _, err := PredictionError(mf); err == nil {
		t.Fatal("expected error plotting a frame without a target")
	}
}
