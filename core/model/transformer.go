package model

import "github.com/YuminosukeSato/edago/dataframe"

// Transformer is the interface shared by all table preprocessing steps.
// Implementations never mutate the input frame; Transform returns a new one.
type Transformer interface {
	// Fit learns the step's state from a reference table.
	Fit(df *dataframe.DataFrame) error

	// Transform applies the learned state to a table.
	Transform(df *dataframe.DataFrame) (*dataframe.DataFrame, error)

	// FitTransform runs Fit and then Transform on the same table.
	FitTransform(df *dataframe.DataFrame) (*dataframe.DataFrame, error)
}
