// Package preprocessing implements fit/transform steps for cleaning a
// DataFrame: dropping high-missingness and low-variance columns, imputing
// missing values, converting dtypes, and composing the steps into a Pipeline.
//
// Every step follows the same lifecycle: construct with validated
// configuration, Fit once against a reference table to learn column lists or
// fill values, then Transform any table sharing the fitted column names.
// Transform never mutates its input; it returns a new frame. Columns learned
// during Fit but absent at transform time are skipped with a warning (schema
// drift tolerance); only the strict ColumnDropper halts on missing columns.
package preprocessing

import (
	"fmt"

	"github.com/YuminosukeSato/edago/core/model"
	"github.com/YuminosukeSato/edago/dataframe"
	"github.com/YuminosukeSato/edago/pkg/errors"
	"github.com/YuminosukeSato/edago/pkg/log"
)

// dropLearned removes the intersection of learned and the table's current
// columns, warning about learned columns that have drifted away.
func dropLearned(step string, df *dataframe.DataFrame, learned []string, logger log.Logger) *dataframe.DataFrame {
	var present, absent []string
	for _, name := range learned {
		if df.HasColumn(name) {
			present = append(present, name)
		} else {
			absent = append(absent, name)
		}
	}
	if len(absent) > 0 {
		errors.Warn(errors.NewSchemaDriftWarning(step, absent))
	}
	if len(present) > 0 {
		logger.Info("dropped columns",
			log.StepKey, step,
			log.OperationKey, "transform",
			log.DroppedColumnsKey, present,
		)
	}
	return df.Drop(present...)
}

// HighMissingColumnDropper drops columns whose percentage of missing values
// meets or exceeds a threshold learned against a reference table.
type HighMissingColumnDropper struct {
	model.BaseEstimator

	// Threshold is the missing-value percentage in [0, 100] at or above
	// which a column is dropped.
	Threshold float64

	// DroppedColumns is the drop-list learned by Fit.
	DroppedColumns []string

	logger log.Logger
}

// NewHighMissingColumnDropper creates the step. threshold must be in
// [0, 100].
func NewHighMissingColumnDropper(threshold float64) (*HighMissingColumnDropper, error) {
	if threshold < 0 || threshold > 100 {
		return nil, errors.NewValidationError("threshold", "must be between 0 and 100", threshold)
	}
	return &HighMissingColumnDropper{
		Threshold: threshold,
		logger:    log.GetLoggerWithName("preprocessing"),
	}, nil
}

// SetLogger replaces the step's diagnostic sink.
func (d *HighMissingColumnDropper) SetLogger(l log.Logger) { d.logger = l }

// Fit records every column whose missing percentage is >= Threshold. An empty
// table yields an empty drop-list.
func (d *HighMissingColumnDropper) Fit(df *dataframe.DataFrame) error {
	if df == nil {
		return errors.NewValueError("HighMissingColumnDropper.Fit", "input table is nil")
	}
	d.DroppedColumns = nil

	if df.IsEmpty() {
		errors.Warn(errors.NewEmptyTableWarning("HighMissingColumnDropper.Fit"))
		d.SetFitted()
		return nil
	}

	rows := float64(df.NumRows())
	for _, name := range df.Columns() {
		s, _ := df.Column(name)
		percent := float64(s.MissingCount()) / rows * 100
		if percent >= d.Threshold {
			d.DroppedColumns = append(d.DroppedColumns, name)
		}
	}

	d.logger.Info("learned high-missingness drop-list",
		log.StepKey, "HighMissingColumnDropper",
		log.OperationKey, "fit",
		log.RowsKey, df.NumRows(),
		log.DroppedColumnsKey, d.DroppedColumns,
	)
	d.SetFitted()
	return nil
}

// Transform drops the learned columns that are present in df.
func (d *HighMissingColumnDropper) Transform(df *dataframe.DataFrame) (*dataframe.DataFrame, error) {
	if !d.IsFitted() {
		return nil, errors.NewNotFittedError("HighMissingColumnDropper", "Transform")
	}
	if df == nil {
		return nil, errors.NewValueError("HighMissingColumnDropper.Transform", "input table is nil")
	}
	return dropLearned("HighMissingColumnDropper", df, d.DroppedColumns, d.logger), nil
}

// FitTransform fits on df and transforms it.
func (d *HighMissingColumnDropper) FitTransform(df *dataframe.DataFrame) (*dataframe.DataFrame, error) {
	if err := d.Fit(df); err != nil {
		return nil, err
	}
	return d.Transform(df)
}

// GetParams returns the step's configuration.
func (d *HighMissingColumnDropper) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"threshold": d.Threshold,
	}
}

// String returns a short description of the step.
func (d *HighMissingColumnDropper) String() string {
	if !d.IsFitted() {
		return fmt.Sprintf("HighMissingColumnDropper(threshold=%.1f)", d.Threshold)
	}
	return fmt.Sprintf("HighMissingColumnDropper(threshold=%.1f, dropped=%d)", d.Threshold, len(d.DroppedColumns))
}

// ColumnDropper drops a fixed, caller-supplied list of columns. Unlike the
// learned droppers it is strict: Fit fails when any named column is absent
// from the reference table.
type ColumnDropper struct {
	model.BaseEstimator

	// ColumnsToDrop is the configured list of columns to remove.
	ColumnsToDrop []string

	fittedColumns []string
	logger        log.Logger
}

// NewColumnDropper creates the step with the columns to drop.
func NewColumnDropper(columns []string) *ColumnDropper {
	return &ColumnDropper{
		ColumnsToDrop: append([]string(nil), columns...),
		logger:        log.GetLoggerWithName("preprocessing"),
	}
}

// SetLogger replaces the step's diagnostic sink.
func (d *ColumnDropper) SetLogger(l log.Logger) { d.logger = l }

// Fit verifies that every configured column exists in the reference table and
// fails otherwise.
func (d *ColumnDropper) Fit(df *dataframe.DataFrame) error {
	if df == nil {
		return errors.NewValueError("ColumnDropper.Fit", "input table is nil")
	}

	var missing []string
	for _, name := range d.ColumnsToDrop {
		if !df.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return errors.NewValueError("ColumnDropper.Fit",
			fmt.Sprintf("columns specified for dropping were not found in the table: %v", missing))
	}

	d.fittedColumns = append([]string(nil), d.ColumnsToDrop...)
	d.SetFitted()
	return nil
}

// Transform drops the validated columns that are still present in df,
// tolerating drift with a warning.
func (d *ColumnDropper) Transform(df *dataframe.DataFrame) (*dataframe.DataFrame, error) {
	if !d.IsFitted() {
		return nil, errors.NewNotFittedError("ColumnDropper", "Transform")
	}
	if df == nil {
		return nil, errors.NewValueError("ColumnDropper.Transform", "input table is nil")
	}
	return dropLearned("ColumnDropper", df, d.fittedColumns, d.logger), nil
}

// FitTransform fits on df and transforms it.
func (d *ColumnDropper) FitTransform(df *dataframe.DataFrame) (*dataframe.DataFrame, error) {
	if err := d.Fit(df); err != nil {
		return nil, err
	}
	return d.Transform(df)
}

// GetParams returns the step's configuration.
func (d *ColumnDropper) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"columns_to_drop": d.ColumnsToDrop,
	}
}

// String returns a short description of the step.
func (d *ColumnDropper) String() string {
	return fmt.Sprintf("ColumnDropper(columns=%d)", len(d.ColumnsToDrop))
}
