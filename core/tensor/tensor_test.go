package tensor_test

import (
	"math"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/OPpuolitaival/pandas-ml/core/tensor"
)

func TestFromDataFrameRoundTrip(t *testing.T) {
	df := dataframe.New(
		series.New([]float64{1, 2, 3}, series.Float, "a"),
		series.New([]float64{4, 5, 6}, series.Float, "b"),
	)

	m, err := tensor.FromDataFrame(df)
	if err != nil {
		t.Fatalf("FromDataFrame failed: %v", err)
	}

	r, c := m.Dims()
	if r != 3 || c != 2 {
		t.Fatalf("expected 3x2 matrix, got %dx%d", r, c)
	}
	if m.At(1, 0) != 2 || m.At(2, 1) != 6 {
		t.Errorf("unexpected matrix values: %v", m)
	}

	back, err := tensor.ToDataFrame(m, []string{"a", "b"})
	if err != nil {
		t.Fatalf("ToDataFrame failed: %v", err)
	}
	if back.Nrow() != 3 || back.Ncol() != 2 {
		t.Fatalf("expected 3x2 dataframe, got %dx%d", back.Nrow(), back.Ncol())
	}
	for j, name := range []string{"a", "b"} {
		got := back.Col(name).Float()
		for i, v := range got {
			if math.Abs(v-m.At(i, j)) > 1e-12 {
				t.Errorf("column %s row %d: got %f, want %f", name, i, v, m.At(i, j))
			}
		}
	}
}

func TestFromDataFrameEmpty(t *testing.T) {
	if _, err := tensor.FromDataFrame(dataframe.DataFrame{}); err == nil {
		t.Error("expected an error for an empty dataframe")
	}
}

func TestFromSeries(t *testing.T) {
	s := series.New([]float64{0.5, 1.5, 2.5}, series.Float, "y")

	v, err := tensor.FromSeries(s)
	if err != nil {
		t.Fatalf("FromSeries failed: %v", err)
	}
	if v.Len() != 3 {
		t.Fatalf("expected length 3, got %d", v.Len())
	}
	if v.AtVec(2) != 2.5 {
		t.Errorf("AtVec(2) = %f, want 2.5", v.AtVec(2))
	}
}

func TestToDataFrameGeneratedNames(t *testing.T) {
	m, err := tensor.FromDataFrame(dataframe.New(
		series.New([]float64{1, 2}, series.Float, "a"),
		series.New([]float64{3, 4}, series.Float, "b"),
		series.New([]float64{5, 6}, series.Float, "c"),
	))
	if err != nil {
		t.Fatalf("FromDataFrame failed: %v", err)
	}

	df, err := tensor.ToDataFrame(m, nil)
	if err != nil {
		t.Fatalf("ToDataFrame failed: %v", err)
	}

	names := df.Names()
	want := []string{"x0", "x1", "x2"}
	for i, n := range want {
		if names[i] != n {
			t.Errorf("names[%d] = %q, want %q", i, names[i], n)
		}
	}
}

func TestToSeries(t *testing.T) {
	m, err := tensor.FromDataFrame(dataframe.New(
		series.New([]float64{7, 8, 9}, series.Float, "p"),
	))
	if err != nil {
		t.Fatalf("FromDataFrame failed: %v", err)
	}

	s, err := tensor.ToSeries(m, "predicted")
	if err != nil {
		t.Fatalf("ToSeries failed: %v", err)
	}
	if s.Name != "predicted" {
		t.Errorf("Name = %q, want %q", s.Name, "predicted")
	}
	if s.Len() != 3 || s.Float()[1] != 8 {
		t.Errorf("unexpected series contents: %v", s.Float())
	}
}
