// Package frame implements ModelFrame, a dataframe that tags one column as
// the target (response variable) and the rest as data (explanatory
// variables / features).
//
// The tabular storage is delegated to gota; ModelFrame maintains the
// data/target partition on top of it and forwards fit/predict/transform
// calls to estimators through the capability interfaces in core/model. The
// most recently used estimator and the results derived from it (predictions,
// probabilities, decision scores) are cached on the frame.
package frame

import (
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/OPpuolitaival/pandas-ml/pkg/errors"
	"github.com/OPpuolitaival/pandas-ml/pkg/log"
)

// DefaultTargetName is the sentinel column name used when a target is
// supplied as raw values without a name.
const DefaultTargetName = ".target"

var globalProvider log.LoggerProvider

func frameLogger() log.Logger {
	if globalProvider == nil {
		globalProvider = log.NewZerologProvider(log.ToLogLevel("warn"))
	}
	return globalProvider.GetLoggerWithName("ModelFrame")
}

// SetLoggerProvider replaces the provider used for new frames. Tests use it
// to capture log output.
func SetLoggerProvider(p log.LoggerProvider) {
	globalProvider = p
}

// ModelFrame is a column-tagged table. The target column, when present, is
// stored first in the underlying dataframe, followed by the feature columns.
// Data and target views are derived from the same column store.
type ModelFrame struct {
	df         dataframe.DataFrame
	targetName string
	logger     log.Logger

	// Most recently dispatched estimator and its memoized derived results.
	// All caches reset whenever a different estimator is attached.
	estimator any
	predicted *series.Series
	proba     *ModelFrame
	logProba  *ModelFrame
	decision  *ModelFrame

	accessors accessorCache
}

type config struct {
	targetName   string
	targetSeries *series.Series
}

// Option configures ModelFrame construction.
type Option func(*config)

// WithTarget designates an existing column of the data as the target.
func WithTarget(name string) Option {
	return func(c *config) {
		c.targetName = name
	}
}

// WithTargetSeries supplies target values as a named series. An empty name
// falls back to DefaultTargetName.
func WithTargetSeries(s series.Series) Option {
	return func(c *config) {
		c.targetSeries = &s
	}
}

// WithTargetValues supplies raw target values under DefaultTargetName.
func WithTargetValues(values []float64) Option {
	return func(c *config) {
		s := series.New(values, series.Float, DefaultTargetName)
		c.targetSeries = &s
	}
}

// New constructs a ModelFrame from tabular data plus an optional target
// specification. Pass a nil data frame to build a target-only frame.
//
// Construction fails when both data and target are absent, when a target
// column name is not part of the data, or when target values are not
// row-aligned with the data.
func New(data *dataframe.DataFrame, opts ...Option) (*ModelFrame, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	if data != nil && data.Err != nil {
		return nil, errors.Wrap(data.Err, "frame.New")
	}

	mf := &ModelFrame{
		targetName: DefaultTargetName,
		logger:     frameLogger(),
	}

	switch {
	case data == nil && cfg.targetSeries == nil:
		return nil, errors.NewMissingDataError("New")

	case data == nil && cfg.targetName != "":
		return nil, errors.NewValueError("New", "target must be array-like when data is nil")

	case data == nil:
		ts := *cfg.targetSeries
		if ts.Name == "" {
			ts.Name = DefaultTargetName
		}
		mf.targetName = ts.Name
		mf.df = dataframe.New(ts)

	case cfg.targetName != "":
		if !contains(data.Names(), cfg.targetName) {
			return nil, errors.NewColumnNotFoundError("New", cfg.targetName)
		}
		mf.targetName = cfg.targetName
		mf.df = data.Copy()

	case cfg.targetSeries != nil:
		ts := *cfg.targetSeries
		if ts.Name == "" {
			ts.Name = DefaultTargetName
		}
		if contains(data.Names(), ts.Name) {
			return nil, errors.NewNameCollisionError("New", ts.Name)
		}
		if ts.Len() != data.Nrow() {
			return nil, errors.NewDimensionError("New", data.Nrow(), ts.Len(), 0)
		}
		mf.targetName = ts.Name
		df, err := concatTarget(ts, data.Copy())
		if err != nil {
			return nil, err
		}
		mf.df = df

	default:
		// Data only. The target name stays at the sentinel default; it is
		// not a member of the columns, so HasTarget reports false.
		mf.df = data.Copy()
	}

	if mf.df.Err != nil {
		return nil, errors.Wrap(mf.df.Err, "frame.New")
	}

	mf.logger.Debug("frame constructed",
		log.FrameTargetKey, mf.targetName,
		log.SamplesKey, mf.NRows(),
		log.FeaturesKey, len(mf.DataColumns()),
	)
	return mf, nil
}

// concatTarget places the target series before the feature columns.
func concatTarget(target series.Series, data dataframe.DataFrame) (dataframe.DataFrame, error) {
	combined := dataframe.New(target).CBind(data)
	if combined.Err != nil {
		return dataframe.DataFrame{}, errors.Wrap(combined.Err, "frame.concatTarget")
	}
	return combined, nil
}

// DataFrame returns a copy of the full underlying column store, target
// column included.
func (mf *ModelFrame) DataFrame() dataframe.DataFrame {
	return mf.df.Copy()
}

// TargetName returns the designated target column name. The name may refer
// to no column; HasTarget reports whether target data is present.
func (mf *ModelFrame) TargetName() string {
	return mf.targetName
}

// Columns returns the ordered column names of the frame.
func (mf *ModelFrame) Columns() []string {
	return mf.df.Names()
}

// DataColumns returns the ordered feature column names, i.e. every column
// except the target.
func (mf *ModelFrame) DataColumns() []string {
	var cols []string
	for _, c := range mf.df.Names() {
		if c != mf.targetName {
			cols = append(cols, c)
		}
	}
	return cols
}

// NRows returns the number of rows. Row identity is positional.
func (mf *ModelFrame) NRows() int {
	if mf.df.Err != nil {
		return 0
	}
	return mf.df.Nrow()
}

// HasData reports whether the frame has feature columns.
func (mf *ModelFrame) HasData() bool {
	return len(mf.DataColumns()) > 0
}

// HasTarget reports whether the target column is present.
func (mf *ModelFrame) HasTarget() bool {
	return contains(mf.df.Names(), mf.targetName)
}

// Data returns the feature columns as a dataframe. Check HasData first; a
// frame without feature columns yields an empty dataframe.
func (mf *ModelFrame) Data() dataframe.DataFrame {
	if !mf.HasData() {
		return dataframe.DataFrame{}
	}
	return mf.df.Select(mf.DataColumns())
}

// Target returns the target column as a series. Check HasTarget first; a
// frame without a target yields a zero series.
func (mf *ModelFrame) Target() series.Series {
	if !mf.HasTarget() {
		return series.Series{}
	}
	return mf.df.Col(mf.targetName)
}

// SetData replaces the feature columns, keeping the current target. It fails
// when the incoming data carries a column named like the target, or when its
// row count does not match the existing target.
func (mf *ModelFrame) SetData(data dataframe.DataFrame) error {
	if data.Err != nil {
		return errors.Wrap(data.Err, "frame.SetData")
	}

	if contains(data.Names(), mf.targetName) {
		return errors.NewNameCollisionError("SetData", mf.targetName)
	}

	if mf.HasTarget() {
		target := mf.Target()
		if data.Nrow() != target.Len() {
			return errors.NewDimensionError("SetData", target.Len(), data.Nrow(), 0)
		}
		combined, err := concatTarget(target, data.Copy())
		if err != nil {
			return err
		}
		mf.df = combined
	} else {
		mf.df = data.Copy()
	}

	mf.logger.Debug("data replaced",
		log.OperationKey, "SetData",
		log.FeaturesKey, len(mf.DataColumns()),
	)
	return nil
}

// SetDataFrame replaces the feature columns with another frame's columns.
// The incoming frame must not carry a target of its own.
func (mf *ModelFrame) SetDataFrame(other *ModelFrame) error {
	if other.HasTarget() {
		return errors.NewValueError("SetData", "cannot update with a ModelFrame which has a target attribute")
	}
	return mf.SetData(other.Data())
}

// DropData removes all feature columns, leaving only the target. It fails
// when the frame has no target.
func (mf *ModelFrame) DropData() error {
	if !mf.HasTarget() {
		return errors.NewMissingDataError("DropData")
	}
	mf.df = dataframe.New(mf.Target())
	if mf.df.Err != nil {
		return errors.Wrap(mf.df.Err, "frame.DropData")
	}
	return nil
}

// SetTarget repoints the target to an existing column.
func (mf *ModelFrame) SetTarget(name string) error {
	if !contains(mf.df.Names(), name) {
		return errors.NewColumnNotFoundError("SetTarget", name)
	}
	mf.targetName = name
	return nil
}

// SetTargetSeries replaces the target values with a row-aligned series.
//
// On a frame that already has a target, a series whose name differs from the
// target name is renamed to it and a non-fatal TargetRenameWarning is
// emitted. On a frame without a target, a non-empty series name becomes the
// new target name.
func (mf *ModelFrame) SetTargetSeries(s series.Series) error {
	if s.Err != nil {
		return errors.Wrap(s.Err, "frame.SetTargetSeries")
	}

	if !mf.HasTarget() && s.Name != "" {
		mf.targetName = s.Name
	}

	if s.Name != mf.targetName {
		errors.Warn(errors.NewTargetRenameWarning(s.Name, mf.targetName))
		s.Name = mf.targetName
	}

	if mf.HasData() {
		data := mf.Data()
		if s.Len() != data.Nrow() {
			return errors.NewDimensionError("SetTargetSeries", data.Nrow(), s.Len(), 0)
		}
		combined, err := concatTarget(s, data)
		if err != nil {
			return err
		}
		mf.df = combined
	} else {
		mf.df = dataframe.New(s)
		if mf.df.Err != nil {
			return errors.Wrap(mf.df.Err, "frame.SetTargetSeries")
		}
	}

	return nil
}

// SetTargetValues replaces the target values, keeping the current target
// name.
func (mf *ModelFrame) SetTargetValues(values []float64) error {
	return mf.SetTargetSeries(series.New(values, series.Float, mf.targetName))
}

// DropTarget removes the target column, leaving only the features. It fails
// when no feature columns would remain.
func (mf *ModelFrame) DropTarget() error {
	if !mf.HasData() {
		return errors.NewMissingDataError("DropTarget")
	}
	if mf.HasTarget() {
		mf.df = mf.Data()
	}
	return nil
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
