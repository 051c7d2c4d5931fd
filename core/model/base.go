// Package model defines the shared lifecycle for fitted table transforms:
// construct, Fit exactly once against a reference table, Transform any number
// of times. BaseEstimator tracks the fitted state; the Transformer interface
// is what a Pipeline composes.
package model

// EstimatorState represents the learning state of a step.
type EstimatorState int

const (
	// NotFitted means Fit has not been called yet.
	NotFitted EstimatorState = iota
	// Fitted means learned state is populated and Transform may run.
	Fitted
)

// BaseEstimator is embedded by every fit/transform step.
type BaseEstimator struct {
	state EstimatorState
}

// IsFitted reports whether Fit has completed.
func (e *BaseEstimator) IsFitted() bool {
	return e.state == Fitted
}

// SetFitted marks the step as fitted. Re-fitting overwrites learned state.
func (e *BaseEstimator) SetFitted() {
	e.state = Fitted
}

// Reset returns the step to its unfitted state.
func (e *BaseEstimator) Reset() {
	e.state = NotFitted
}
