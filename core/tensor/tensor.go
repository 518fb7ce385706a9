// Package tensor bridges the gota dataframe world and the gonum matrix world.
//
// Estimators operate on gonum mat.Matrix values while the ModelFrame stores
// its columns in a gota dataframe. The conversions here are the only place
// where the two representations meet.
package tensor

import (
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/mat"

	"github.com/OPpuolitaival/pandas-ml/pkg/errors"
)

// FromDataFrame converts a dataframe into a dense matrix, one column per
// feature in the dataframe's column order. Non-float columns are coerced via
// gota's float conversion; a column that cannot be represented numerically
// yields NaN elements, matching gota's semantics.
func FromDataFrame(df dataframe.DataFrame) (*mat.Dense, error) {
	if df.Err != nil {
		return nil, errors.Wrap(df.Err, "tensor.FromDataFrame")
	}

	rows, cols := df.Nrow(), df.Ncol()
	if rows == 0 || cols == 0 {
		return nil, errors.NewValueError("tensor.FromDataFrame", "empty dataframe")
	}

	dense := mat.NewDense(rows, cols, nil)
	for j, name := range df.Names() {
		col := df.Col(name)
		if col.Type() != series.Float && col.Type() != series.Int {
			errors.Warn(errors.NewDataConversionWarning(
				string(col.Type()), string(series.Float), "matrix export requires numeric columns"))
		}
		dense.SetCol(j, col.Float())
	}
	return dense, nil
}

// FromSeries converts a single series into a column vector.
func FromSeries(s series.Series) (*mat.VecDense, error) {
	if s.Err != nil {
		return nil, errors.Wrap(s.Err, "tensor.FromSeries")
	}
	if s.Len() == 0 {
		return nil, errors.NewValueError("tensor.FromSeries", "empty series")
	}
	return mat.NewVecDense(s.Len(), s.Float()), nil
}

// ToDataFrame converts a matrix into a dataframe with the given column
// names. When names is nil or its length does not match the matrix width,
// generated names x0..xk are used instead.
func ToDataFrame(m mat.Matrix, names []string) (dataframe.DataFrame, error) {
	if m == nil {
		return dataframe.DataFrame{}, errors.NewValueError("tensor.ToDataFrame", "nil matrix")
	}

	rows, cols := m.Dims()
	if rows == 0 || cols == 0 {
		return dataframe.DataFrame{}, errors.NewValueError("tensor.ToDataFrame", "empty matrix")
	}

	if len(names) != cols {
		names = GeneratedNames(cols)
	}

	ss := make([]series.Series, cols)
	for j := 0; j < cols; j++ {
		values := make([]float64, rows)
		for i := 0; i < rows; i++ {
			values[i] = m.At(i, j)
		}
		ss[j] = series.New(values, series.Float, names[j])
	}

	df := dataframe.New(ss...)
	if df.Err != nil {
		return dataframe.DataFrame{}, errors.Wrap(df.Err, "tensor.ToDataFrame")
	}
	return df, nil
}

// ToSeries converts a single-column matrix (or the first column of a wider
// one) into a named series.
func ToSeries(m mat.Matrix, name string) (series.Series, error) {
	if m == nil {
		return series.Series{}, errors.NewValueError("tensor.ToSeries", "nil matrix")
	}

	rows, cols := m.Dims()
	if rows == 0 || cols == 0 {
		return series.Series{}, errors.NewValueError("tensor.ToSeries", "empty matrix")
	}

	values := make([]float64, rows)
	for i := 0; i < rows; i++ {
		values[i] = m.At(i, 0)
	}
	return series.New(values, series.Float, name), nil
}

// GeneratedNames returns placeholder column names x0..x(n-1).
func GeneratedNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = "x" + strconv.Itoa(i)
	}
	return names
}
