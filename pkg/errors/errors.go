// Package errors provides error handling and the warning system used across
// pandas-ml. It is inspired by the scikit-learn / pandas warning and exception
// hierarchy and provides structured error types with stack traces attached via
// cockroachdb/errors.
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	Global warning handling
//
// ===========================================================================

var (
	warningMutex   sync.Mutex
	defaultHandler = func(w error) {
		log.Printf("pandas-ml warning: %v\n", w)
	}
	warningHandler func(w error)
	// zerolog sink, set lazily by pkg/log to avoid a circular import.
	zerologWarnFunc func(warning error)
)

// SetWarningHandler sets the library-wide warning handler. Non-fatal
// situations (target rename on assign, result wrapping fallbacks) are routed
// through it instead of aborting the operation. An explicitly set handler
// takes precedence over the structured logging sink; passing nil restores the
// default behavior.
//
// Example:
//
//	errors.SetWarningHandler(func(w error) {
//	    // ignore warnings
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc installs a zerolog-backed warning sink. Used by pkg/log
// during provider initialization; exists to avoid a circular import.
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn emits a non-fatal warning. When a zerolog sink has been installed the
// warning is emitted as a structured log event, otherwise the plain handler
// is used.
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	switch {
	case warningHandler != nil:
		warningHandler(w)
	case zerologWarnFunc != nil:
		zerologWarnFunc(w)
	default:
		defaultHandler(w)
	}
}

// ===========================================================================
//
//	Warning types
//
// ===========================================================================

// TargetRenameWarning is emitted when a target series assigned to a frame
// carries a name that differs from the frame's target name. The incoming
// values are kept and renamed.
type TargetRenameWarning struct {
	From string
	To   string
}

func (w *TargetRenameWarning) Error() string {
	return fmt.Sprintf("passed target '%s' is being renamed to '%s'", w.From, w.To)
}

// MarshalZerologObject adds the structured warning fields to a zerolog event.
func (w *TargetRenameWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("from", w.From).
		Str("to", w.To).
		Str("type", "TargetRenameWarning")
}

// NewTargetRenameWarning creates a new TargetRenameWarning.
func NewTargetRenameWarning(from, to string) *TargetRenameWarning {
	return &TargetRenameWarning{From: from, To: to}
}

// ResultWrapWarning is emitted when a raw estimator result cannot be wrapped
// back into a row-aligned frame or series. The unaligned result is returned
// as a best-effort fallback.
type ResultWrapWarning struct {
	Estimator string
	Method    string
	Reason    string
}

func (w *ResultWrapWarning) Error() string {
	return fmt.Sprintf("unable to wrap %s result of '%s' into a frame: %s",
		w.Method, w.Estimator, w.Reason)
}

// MarshalZerologObject adds the structured warning fields to a zerolog event.
func (w *ResultWrapWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("estimator", w.Estimator).
		Str("method", w.Method).
		Str("reason", w.Reason).
		Str("type", "ResultWrapWarning")
}

// NewResultWrapWarning creates a new ResultWrapWarning.
func NewResultWrapWarning(estimator, method, reason string) *ResultWrapWarning {
	return &ResultWrapWarning{Estimator: estimator, Method: method, Reason: reason}
}

// AutoCallWarning is emitted when reading a cold derived-result cache
// triggers an implicit estimator call to populate it.
type AutoCallWarning struct {
	Estimator string
	Method    string
}

func (w *AutoCallWarning) Error() string {
	return fmt.Sprintf("automatically calling '%s' on %s to populate the cache", w.Method, w.Estimator)
}

// MarshalZerologObject adds the structured warning fields to a zerolog event.
func (w *AutoCallWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("estimator", w.Estimator).
		Str("method", w.Method).
		Str("type", "AutoCallWarning")
}

// NewAutoCallWarning creates a new AutoCallWarning.
func NewAutoCallWarning(estimator, method string) *AutoCallWarning {
	return &AutoCallWarning{Estimator: estimator, Method: method}
}

// DataConversionWarning is emitted when column data is implicitly converted
// to another type, e.g. string columns forced to float64 on matrix export.
type DataConversionWarning struct {
	FromType string
	ToType   string
	Reason   string
}

func (w *DataConversionWarning) Error() string {
	return fmt.Sprintf("data converted from %s to %s. Reason: %s", w.FromType, w.ToType, w.Reason)
}

// MarshalZerologObject adds the structured warning fields to a zerolog event.
func (w *DataConversionWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("from_type", w.FromType).
		Str("to_type", w.ToType).
		Str("reason", w.Reason).
		Str("type", "DataConversionWarning")
}

// NewDataConversionWarning creates a new DataConversionWarning.
func NewDataConversionWarning(from, to, reason string) *DataConversionWarning {
	return &DataConversionWarning{FromType: from, ToType: to, Reason: reason}
}

// ===========================================================================
//
//	Structured error types
//
// ===========================================================================

// MissingDataError reports a frame that would end up with neither data nor
// target columns.
type MissingDataError struct {
	Op string
}

func (e *MissingDataError) Error() string {
	return fmt.Sprintf("pandas-ml: %s: ModelFrame must have either data or target", e.Op)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *MissingDataError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("type", "MissingDataError")
}

// NewMissingDataError creates a new MissingDataError with a stack trace.
func NewMissingDataError(op string) error {
	err := &MissingDataError{Op: op}
	return errors.WithStack(err)
}

// ColumnNotFoundError reports a reference to a column that is not part of the
// frame.
type ColumnNotFoundError struct {
	Op     string
	Column string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("pandas-ml: %s: specified column '%s' is not included in data", e.Op, e.Column)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *ColumnNotFoundError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("column", e.Column).
		Str("type", "ColumnNotFoundError")
}

// NewColumnNotFoundError creates a new ColumnNotFoundError with a stack trace.
func NewColumnNotFoundError(op, column string) error {
	err := &ColumnNotFoundError{Op: op, Column: column}
	return errors.WithStack(err)
}

// NameCollisionError reports incoming data that carries a column with the
// same name as the frame's target column.
type NameCollisionError struct {
	Op     string
	Column string
}

func (e *NameCollisionError) Error() string {
	return fmt.Sprintf("pandas-ml: %s: passed data has the same column name as the target '%s'", e.Op, e.Column)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *NameCollisionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("column", e.Column).
		Str("type", "NameCollisionError")
}

// NewNameCollisionError creates a new NameCollisionError with a stack trace.
func NewNameCollisionError(op, column string) error {
	err := &NameCollisionError{Op: op, Column: column}
	return errors.WithStack(err)
}

// MethodNotSupportedError reports an estimator that does not implement the
// capability required by a dispatched method.
type MethodNotSupportedError struct {
	Estimator string
	Method    string
}

func (e *MethodNotSupportedError) Error() string {
	return fmt.Sprintf("pandas-ml: estimator %s doesn't have %s method", e.Estimator, e.Method)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *MethodNotSupportedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("estimator", e.Estimator).
		Str("method", e.Method).
		Str("type", "MethodNotSupportedError")
}

// NewMethodNotSupportedError creates a new MethodNotSupportedError with a
// stack trace.
func NewMethodNotSupportedError(estimator, method string) error {
	err := &MethodNotSupportedError{Estimator: estimator, Method: method}
	return errors.WithStack(err)
}

// NotFittedError is returned when Predict or Transform is called on an
// estimator that has not been fitted.
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("pandas-ml: %s: this estimator is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError creates a new NotFittedError with a stack trace.
func NewNotFittedError(modelName, method string) error {
	err := &NotFittedError{ModelName: modelName, Method: method}
	return errors.WithStack(err)
}

// DimensionError reports input whose dimensions do not match the expected
// shape, e.g. a target array whose length differs from the frame's row count.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) Error() string {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("pandas-ml: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", axisName).
		Str("type", "DimensionError")
}

// NewDimensionError creates a new DimensionError with a stack trace.
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// ValidationError reports a parameter that failed validation.
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("pandas-ml: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError creates a new ValidationError with a stack trace.
func NewValidationError(param, reason string, value interface{}) error {
	err := &ValidationError{ParamName: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// ValueError reports an argument whose value is invalid for the operation.
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("pandas-ml: %s: %s", e.Op, e.Message)
}

// NewValueError creates a new ValueError with a stack trace.
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	cockroachdb/errors wrappers
//
// ===========================================================================

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates a new error with a stack trace.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a new formatted error with a stack trace.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack annotates an error with a stack trace.
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	Common error values
//
// ===========================================================================

var (
	// ErrEmptyData is returned when an operation receives empty data.
	ErrEmptyData = New("empty data")

	// ErrSingularMatrix is returned when a linear solve hits a singular matrix.
	ErrSingularMatrix = New("singular matrix")
)
