// Package pipeline chains transformers with a final estimator.
package pipeline

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/OPpuolitaival/pandas-ml/core/model"
	"github.com/OPpuolitaival/pandas-ml/pkg/errors"
	"github.com/OPpuolitaival/pandas-ml/pkg/log"
)

var globalProvider log.LoggerProvider

// Step is one named stage of a pipeline.
type Step struct {
	Name      string
	Estimator any
}

// Pipeline applies a sequence of transformers and finishes with an
// estimator. Intermediate steps must implement Transform; the final
// step may be any estimator.
type Pipeline struct {
	model.BaseEstimator

	steps  []Step
	byName map[string]any
	logger log.Logger
}

// New creates a Pipeline from explicitly named steps.
func New(steps ...Step) *Pipeline {
	byName := make(map[string]any, len(steps))
	for _, step := range steps {
		byName[step.Name] = step.Estimator
	}

	if globalProvider == nil {
		globalProvider = log.NewZerologProvider(log.LevelWarn)
	}

	return &Pipeline{
		steps:  steps,
		byName: byName,
		logger: globalProvider.GetLoggerWithName("pipeline"),
	}
}

// Make creates a Pipeline with generated step names.
func Make(estimators ...any) *Pipeline {
	steps := make([]Step, len(estimators))
	for i, est := range estimators {
		steps[i] = Step{
			Name:      fmt.Sprintf("step%d", i+1),
			Estimator: est,
		}
	}
	return New(steps...)
}

// Steps returns a copy of the configured steps.
func (p *Pipeline) Steps() []Step {
	steps := make([]Step, len(p.steps))
	copy(steps, p.steps)
	return steps
}

// NamedStep returns a step's estimator by name.
func (p *Pipeline) NamedStep(name string) (any, bool) {
	est, ok := p.byName[name]
	return est, ok
}

// fitIntermediate fits and transforms every step but the last,
// returning the transformed matrix fed to the final step.
func (p *Pipeline) fitIntermediate(X mat.Matrix) (mat.Matrix, error) {
	Xt := X
	for i := 0; i < len(p.steps)-1; i++ {
		step := p.steps[i]
		transformer, ok := step.Estimator.(model.Transformer)
		if !ok {
			return nil, errors.NewValidationError(step.Name,
				"intermediate steps must implement Transform", step.Estimator)
		}

		switch fitter := step.Estimator.(type) {
		case model.DataFitter:
			if err := fitter.Fit(Xt); err != nil {
				return nil, errors.Wrapf(err, "pipeline: fitting step %q", step.Name)
			}
		case model.Fitter:
			if err := fitter.Fit(Xt, nil); err != nil {
				return nil, errors.Wrapf(err, "pipeline: fitting step %q", step.Name)
			}
		default:
			return nil, errors.NewValidationError(step.Name,
				"intermediate steps must implement Fit", step.Estimator)
		}

		var err error
		Xt, err = transformer.Transform(Xt)
		if err != nil {
			return nil, errors.Wrapf(err, "pipeline: transforming at step %q", step.Name)
		}
	}
	return Xt, nil
}

// transform runs X through every step but the last.
func (p *Pipeline) transformIntermediate(X mat.Matrix) (mat.Matrix, error) {
	Xt := X
	for i := 0; i < len(p.steps)-1; i++ {
		step := p.steps[i]
		transformer, ok := step.Estimator.(model.Transformer)
		if !ok {
			return nil, errors.NewValidationError(step.Name,
				"intermediate steps must implement Transform", step.Estimator)
		}

		var err error
		Xt, err = transformer.Transform(Xt)
		if err != nil {
			return nil, errors.Wrapf(err, "pipeline: transforming at step %q", step.Name)
		}
	}
	return Xt, nil
}

func (p *Pipeline) finalStep() (Step, error) {
	if len(p.steps) == 0 {
		return Step{}, errors.New("pandas-ml: pipeline has no steps")
	}
	return p.steps[len(p.steps)-1], nil
}

// Fit fits all intermediate transformers, then the final estimator.
func (p *Pipeline) Fit(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "Pipeline.Fit")

	Xt, err := p.fitIntermediate(X)
	if err != nil {
		return err
	}

	final, err := p.finalStep()
	if err != nil {
		return err
	}

	switch fitter := final.Estimator.(type) {
	case model.Fitter:
		err = fitter.Fit(Xt, y)
	case model.DataFitter:
		err = fitter.Fit(Xt)
	default:
		return errors.NewValidationError(final.Name,
			"final step must implement Fit", final.Estimator)
	}
	if err != nil {
		return errors.Wrapf(err, "pipeline: fitting final step %q", final.Name)
	}

	p.logger.Debug("pipeline fitted", "steps", len(p.steps))
	p.SetFitted()
	return nil
}

// Predict transforms X through the intermediate steps and predicts
// with the final estimator.
func (p *Pipeline) Predict(X mat.Matrix) (_ mat.Matrix, err error) {
	defer errors.Recover(&err, "Pipeline.Predict")
	if !p.IsFitted() {
		return nil, errors.NewNotFittedError("Pipeline", "Predict")
	}

	Xt, err := p.transformIntermediate(X)
	if err != nil {
		return nil, err
	}

	final, err := p.finalStep()
	if err != nil {
		return nil, err
	}
	predictor, ok := final.Estimator.(model.Predictor)
	if !ok {
		return nil, errors.NewMethodNotSupportedError(
			fmt.Sprintf("%T", final.Estimator), "predict")
	}
	return predictor.Predict(Xt)
}

// PredictProba transforms X and calls PredictProba on the final step.
func (p *Pipeline) PredictProba(X mat.Matrix) (_ mat.Matrix, err error) {
	defer errors.Recover(&err, "Pipeline.PredictProba")
	if !p.IsFitted() {
		return nil, errors.NewNotFittedError("Pipeline", "PredictProba")
	}

	Xt, err := p.transformIntermediate(X)
	if err != nil {
		return nil, err
	}

	final, err := p.finalStep()
	if err != nil {
		return nil, err
	}
	proba, ok := final.Estimator.(model.ProbaPredictor)
	if !ok {
		return nil, errors.NewMethodNotSupportedError(
			fmt.Sprintf("%T", final.Estimator), "predict_proba")
	}
	return proba.PredictProba(Xt)
}

// Transform runs X through every step, final step included.
func (p *Pipeline) Transform(X mat.Matrix) (_ mat.Matrix, err error) {
	defer errors.Recover(&err, "Pipeline.Transform")
	if !p.IsFitted() {
		return nil, errors.NewNotFittedError("Pipeline", "Transform")
	}

	Xt := X
	for _, step := range p.steps {
		transformer, ok := step.Estimator.(model.Transformer)
		if !ok {
			return nil, errors.NewValidationError(step.Name,
				"all steps must implement Transform", step.Estimator)
		}
		Xt, err = transformer.Transform(Xt)
		if err != nil {
			return nil, errors.Wrapf(err, "pipeline: transforming at step %q", step.Name)
		}
	}
	return Xt, nil
}

// FitTransform fits every step and returns the fully transformed X.
func (p *Pipeline) FitTransform(X, y mat.Matrix) (_ mat.Matrix, err error) {
	defer errors.Recover(&err, "Pipeline.FitTransform")

	Xt, err := p.fitIntermediate(X)
	if err != nil {
		return nil, err
	}

	final, err := p.finalStep()
	if err != nil {
		return nil, err
	}

	switch ft := final.Estimator.(type) {
	case model.DataFitTransformer:
		Xt, err = ft.FitTransform(Xt)
	case model.FitTransformer:
		Xt, err = ft.FitTransform(Xt, y)
	default:
		return nil, errors.NewValidationError(final.Name,
			"final step must implement FitTransform", final.Estimator)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "pipeline: fit-transforming final step %q", final.Name)
	}

	p.SetFitted()
	return Xt, nil
}

// InverseTransform applies each step's inverse in reverse order.
func (p *Pipeline) InverseTransform(X mat.Matrix) (_ mat.Matrix, err error) {
	defer errors.Recover(&err, "Pipeline.InverseTransform")
	if !p.IsFitted() {
		return nil, errors.NewNotFittedError("Pipeline", "InverseTransform")
	}

	Xt := X
	for i := len(p.steps) - 1; i >= 0; i-- {
		step := p.steps[i]
		inv, ok := step.Estimator.(model.InverseTransformer)
		if !ok {
			return nil, errors.NewValidationError(step.Name,
				"all steps must implement InverseTransform", step.Estimator)
		}
		Xt, err = inv.InverseTransform(Xt)
		if err != nil {
			return nil, errors.Wrapf(err, "pipeline: inverse transforming at step %q", step.Name)
		}
	}
	return Xt, nil
}

// Score transforms X and scores with the final estimator.
func (p *Pipeline) Score(X, y mat.Matrix) (_ float64, err error) {
	defer errors.Recover(&err, "Pipeline.Score")
	if !p.IsFitted() {
		return 0, errors.NewNotFittedError("Pipeline", "Score")
	}

	Xt, err := p.transformIntermediate(X)
	if err != nil {
		return 0, err
	}

	final, err := p.finalStep()
	if err != nil {
		return 0, err
	}
	scorer, ok := final.Estimator.(model.Scorer)
	if !ok {
		return 0, errors.NewMethodNotSupportedError(
			fmt.Sprintf("%T", final.Estimator), "score")
	}
	return scorer.Score(Xt, y)
}
