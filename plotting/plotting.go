// Package plotting renders diagnostic plots for fitted model frames.
package plotting

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/OPpuolitaival/pandas-ml/frame"
	"github.com/OPpuolitaival/pandas-ml/pkg/errors"
)

func predictionPairs(mf *frame.ModelFrame) (plotter.XYs, error) {
	if !mf.HasTarget() {
		return nil, errors.NewValueError("plotting", "frame has no target column")
	}
	predicted, err := mf.Predicted()
	if err != nil {
		return nil, err
	}

	target := mf.Target()
	n := target.Len()
	if predicted.Len() != n {
		return nil, errors.NewDimensionError("plotting", n, predicted.Len(), 0)
	}

	observed := target.Float()
	fitted := predicted.Float()
	pts := make(plotter.XYs, n)
	for i := 0; i < n; i++ {
		pts[i].X = observed[i]
		pts[i].Y = fitted[i]
	}
	return pts, nil
}

// PredictionError draws predicted values against true target values.
// A perfect model puts every point on the identity line, which is
// drawn for reference.
func PredictionError(mf *frame.ModelFrame) (*plot.Plot, error) {
	pts, err := predictionPairs(mf)
	if err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = "Prediction Error"
	p.X.Label.Text = "observed"
	p.Y.Label.Text = "predicted"

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, errors.Wrap(err, "plotting: building scatter")
	}
	p.Add(scatter)
	p.Legend.Add("predictions", scatter)

	minV, maxV := pts[0].X, pts[0].X
	for _, pt := range pts {
		minV = min(minV, min(pt.X, pt.Y))
		maxV = max(maxV, max(pt.X, pt.Y))
	}
	identity := plotter.XYs{{X: minV, Y: minV}, {X: maxV, Y: maxV}}
	line, err := plotter.NewLine(identity)
	if err != nil {
		return nil, errors.Wrap(err, "plotting: building identity line")
	}
	line.Width = vg.Points(1)
	p.Add(line)
	p.Legend.Add("identity", line)

	return p, nil
}

// Residuals draws prediction residuals against predicted values.
func Residuals(mf *frame.ModelFrame) (*plot.Plot, error) {
	pairs, err := predictionPairs(mf)
	if err != nil {
		return nil, err
	}

	pts := make(plotter.XYs, len(pairs))
	for i, pair := range pairs {
		pts[i].X = pair.Y
		pts[i].Y = pair.Y - pair.X
	}

	p := plot.New()
	p.Title.Text = "Residuals"
	p.X.Label.Text = "predicted"
	p.Y.Label.Text = "residual"

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, errors.Wrap(err, "plotting: building scatter")
	}
	p.Add(scatter)
	p.Legend.Add("residuals", scatter)

	minX, maxX := pts[0].X, pts[0].X
	for _, pt := range pts {
		minX = min(minX, pt.X)
		maxX = max(maxX, pt.X)
	}
	zero, err := plotter.NewLine(plotter.XYs{{X: minX, Y: 0}, {X: maxX, Y: 0}})
	if err != nil {
		return nil, errors.Wrap(err, "plotting: building zero line")
	}
	zero.Width = vg.Points(1)
	p.Add(zero)

	return p, nil
}

// SavePNG writes the plot to path as an 8x6 inch PNG.
func SavePNG(p *plot.Plot, path string) error {
	if err := p.Save(8*vg.Inch, 6*vg.Inch, path); err != nil {
		return errors.Wrap(err, "plotting: saving plot")
	}
	return nil
}
