// Package errors provides the error and warning system used across edago.
// Errors that indicate caller misuse (bad configuration, calling Transform
// before Fit) carry stack traces via cockroachdb/errors and always propagate.
// Tolerated conditions (schema drift, fallback fills, stray correlation cells)
// are reported through the package-level warning channel instead of failing.
package errors

import (
	"fmt"
	"log"
	"strings"
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
	warningHandler = func(w error) {
		log.Printf("edago: warning: %v\n", w)
	}
	// zerolog sink, lazily injected to avoid a circular import with pkg/log.
	zerologWarnFunc func(warning error)
)

// SetWarningHandler replaces the library-wide warning handler. Passing a
// handler that does nothing silences all soft diagnostics.
//
// Example:
//
//	errors.SetWarningHandler(func(w error) {})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc installs a zerolog-backed warning sink. When set it takes
// precedence over the plain handler.
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn emits a warning through the configured sink. Warnings never stop
// processing; they exist so that batch workflows keep running on partial data.
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	Warning types (soft, tolerated conditions)
//
// ===========================================================================

// SchemaDriftWarning is emitted when columns learned during Fit are absent
// from the table handed to Transform. The step skips them and continues.
type SchemaDriftWarning struct {
	Step    string
	Columns []string
}

func (w *SchemaDriftWarning) Error() string {
	return fmt.Sprintf("%s: columns [%s] were learned during fit but are missing at transform time; skipping",
		w.Step, strings.Join(w.Columns, ", "))
}

// MarshalZerologObject adds structured warning fields to a zerolog event.
func (w *SchemaDriftWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("step", w.Step).
		Strs("columns", w.Columns).
		Str("type", "SchemaDriftWarning")
}

// NewSchemaDriftWarning creates a new SchemaDriftWarning.
func NewSchemaDriftWarning(step string, columns []string) *SchemaDriftWarning {
	return &SchemaDriftWarning{Step: step, Columns: columns}
}

// ModeFallbackWarning is emitted when a fill statistic cannot be computed
// (for example on an all-missing column) and a default is used instead.
type ModeFallbackWarning struct {
	Column   string
	Fallback interface{}
}

func (w *ModeFallbackWarning) Error() string {
	return fmt.Sprintf("column '%s' has no usable fill statistic; falling back to %v", w.Column, w.Fallback)
}

// MarshalZerologObject adds structured warning fields to a zerolog event.
func (w *ModeFallbackWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("column", w.Column).
		Interface("fallback", w.Fallback).
		Str("type", "ModeFallbackWarning")
}

// NewModeFallbackWarning creates a new ModeFallbackWarning.
func NewModeFallbackWarning(column string, fallback interface{}) *ModeFallbackWarning {
	return &ModeFallbackWarning{Column: column, Fallback: fallback}
}

// NonFiniteCorrelationWarning is emitted when a cell of the correlation matrix
// is not a finite number, for example when a feature pair shares fewer than
// two complete observations. The pair is skipped, not categorized.
type NonFiniteCorrelationWarning struct {
	FeatureA string
	FeatureB string
	Value    float64
}

func (w *NonFiniteCorrelationWarning) Error() string {
	return fmt.Sprintf("non-finite correlation value for (%s, %s): %v; pair skipped",
		w.FeatureA, w.FeatureB, w.Value)
}

// MarshalZerologObject adds structured warning fields to a zerolog event.
func (w *NonFiniteCorrelationWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("feature_a", w.FeatureA).
		Str("feature_b", w.FeatureB).
		Float64("value", w.Value).
		Str("type", "NonFiniteCorrelationWarning")
}

// NewNonFiniteCorrelationWarning creates a new NonFiniteCorrelationWarning.
func NewNonFiniteCorrelationWarning(a, b string, value float64) *NonFiniteCorrelationWarning {
	return &NonFiniteCorrelationWarning{FeatureA: a, FeatureB: b, Value: value}
}

// EmptyTableWarning is emitted when an operation receives a table with no rows
// or no columns and degrades to a no-op.
type EmptyTableWarning struct {
	Op string
}

func (w *EmptyTableWarning) Error() string {
	return fmt.Sprintf("%s: table is empty; nothing to do", w.Op)
}

// MarshalZerologObject adds structured warning fields to a zerolog event.
func (w *EmptyTableWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("operation", w.Op).
		Str("type", "EmptyTableWarning")
}

// NewEmptyTableWarning creates a new EmptyTableWarning.
func NewEmptyTableWarning(op string) *EmptyTableWarning {
	return &EmptyTableWarning{Op: op}
}

// UnimputedColumnWarning is emitted when a column carries missing values at
// transform time but no fill value was learned for it, so the missing values
// remain.
type UnimputedColumnWarning struct {
	Column string
}

func (w *UnimputedColumnWarning) Error() string {
	return fmt.Sprintf("column '%s' has missing values at transform time but no learned fill value; values remain missing", w.Column)
}

// MarshalZerologObject adds structured warning fields to a zerolog event.
func (w *UnimputedColumnWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("column", w.Column).
		Str("type", "UnimputedColumnWarning")
}

// NewUnimputedColumnWarning creates a new UnimputedColumnWarning.
func NewUnimputedColumnWarning(column string) *UnimputedColumnWarning {
	return &UnimputedColumnWarning{Column: column}
}

// ChartSkippedWarning is emitted when a chart cannot be drawn from the given
// table, for example a missing or non-numeric column. The chart function
// returns nil instead of failing.
type ChartSkippedWarning struct {
	Chart  string
	Reason string
}

func (w *ChartSkippedWarning) Error() string {
	return fmt.Sprintf("chart '%s' skipped: %s", w.Chart, w.Reason)
}

// MarshalZerologObject adds structured warning fields to a zerolog event.
func (w *ChartSkippedWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("chart", w.Chart).
		Str("reason", w.Reason).
		Str("type", "ChartSkippedWarning")
}

// NewChartSkippedWarning creates a new ChartSkippedWarning.
func NewChartSkippedWarning(chart, reason string) *ChartSkippedWarning {
	return &ChartSkippedWarning{Chart: chart, Reason: reason}
}

// ===========================================================================
//
//	Structured error types
//
// ===========================================================================

// NotFittedError is returned when Transform is called on a step whose Fit has
// not run yet.
type NotFittedError struct {
	StepName string
	Method   string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("edago: %s: this step is not fitted yet. Call Fit() before using %s()", e.StepName, e.Method)
}

// MarshalZerologObject adds structured error fields to a zerolog event.
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("step", e.StepName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError creates a new NotFittedError with a stack trace attached.
func NewNotFittedError(stepName, method string) error {
	err := &NotFittedError{StepName: stepName, Method: method}
	return errors.WithStack(err)
}

// ValidationError is returned when a constructor parameter fails validation.
// It always indicates caller misuse and is raised at construction time.
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("edago: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject adds structured error fields to a zerolog event.
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError creates a new ValidationError with a stack trace attached.
func NewValidationError(param, reason string, value interface{}) error {
	err := &ValidationError{ParamName: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// ValueError is returned when an argument value is unacceptable at call time,
// for example a strict dropper asked to remove a column that does not exist.
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("edago: %s: %s", e.Op, e.Message)
}

// NewValueError creates a new ValueError with a stack trace attached.
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// DimensionError is returned when table or series dimensions disagree.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns
}

func (e *DimensionError) Error() string {
	axisName := "columns"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("edago: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject adds structured error fields to a zerolog event.
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	axisName := "columns"
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

// NewDimensionError creates a new DimensionError with a stack trace attached.
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// MalformedMatrixError is returned when a correlation computation does not
// produce a square matrix with matching row and column labels.
type MalformedMatrixError struct {
	Op     string
	Reason string
}

func (e *MalformedMatrixError) Error() string {
	return fmt.Sprintf("edago: %s: malformed correlation matrix: %s", e.Op, e.Reason)
}

// MarshalZerologObject adds structured error fields to a zerolog event.
func (e *MalformedMatrixError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("reason", e.Reason).
		Str("type", "MalformedMatrixError")
}

// NewMalformedMatrixError creates a new MalformedMatrixError with a stack
// trace attached.
func NewMalformedMatrixError(op, reason string) error {
	err := &MalformedMatrixError{Op: op, Reason: reason}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	cockroachdb/errors wrappers
//
// ===========================================================================

// Is reports whether err matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an existing error with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf wraps an existing error with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates a new error.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a new formatted error.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack attaches a stack trace to an error.
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	Common error variables
//
// ===========================================================================

var (
	// ErrEmptyData is returned when an operation that requires data receives none.
	ErrEmptyData = New("empty data")
)
