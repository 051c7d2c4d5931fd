package preprocessing

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/edago/core/model"
	"github.com/YuminosukeSato/edago/dataframe"
	"github.com/YuminosukeSato/edago/pkg/errors"
	"github.com/YuminosukeSato/edago/pkg/log"
)

// LowVarianceDropper drops numeric columns whose variance, measured after an
// internal per-column min-max rescale to [0, 1], is zero (constant) or below a
// quasi-constant threshold. The rescale exists only to make one threshold
// comparable across columns of different scale; the output table is never
// rescaled.
type LowVarianceDropper struct {
	model.BaseEstimator

	// QuasiConstantThreshold is the rescaled-variance bound below which a
	// non-constant column is still dropped. Must be non-negative.
	QuasiConstantThreshold float64

	// DroppedColumns is the drop-list learned by Fit.
	DroppedColumns []string

	// NumericColumns are the columns considered during the last Fit.
	NumericColumns []string

	logger log.Logger
}

// NewLowVarianceDropper creates the step. threshold must be non-negative.
func NewLowVarianceDropper(threshold float64) (*LowVarianceDropper, error) {
	if threshold < 0 {
		return nil, errors.NewValidationError("quasi_constant_threshold", "must be non-negative", threshold)
	}
	return &LowVarianceDropper{
		QuasiConstantThreshold: threshold,
		logger:                 log.GetLoggerWithName("preprocessing"),
	}, nil
}

// SetLogger replaces the step's diagnostic sink.
func (d *LowVarianceDropper) SetLogger(l log.Logger) { d.logger = l }

// Fit learns the drop-list from the reference table's numeric columns.
// Columns with no non-missing values cannot be rescaled and are checked for
// zero variance on their raw values instead (an all-missing column has NaN
// variance and is kept).
func (d *LowVarianceDropper) Fit(df *dataframe.DataFrame) error {
	if df == nil {
		return errors.NewValueError("LowVarianceDropper.Fit", "input table is nil")
	}
	d.DroppedColumns = nil
	d.NumericColumns = df.NumericColumns()

	if len(d.NumericColumns) == 0 {
		d.logger.Info("no numeric columns to analyze for variance",
			log.StepKey, "LowVarianceDropper",
			log.OperationKey, "fit",
		)
		d.SetFitted()
		return nil
	}

	var constant, quasi, zeroRaw []string
	for _, name := range d.NumericColumns {
		s, _ := df.Column(name)
		if s.NUnique() == 0 {
			// Cannot be rescaled; fall back to raw variance.
			if s.PopVariance() == 0 {
				zeroRaw = append(zeroRaw, name)
			}
			continue
		}
		variance := rescaledPopVariance(s)
		switch {
		case variance == 0:
			constant = append(constant, name)
		case variance < d.QuasiConstantThreshold:
			quasi = append(quasi, name)
		}
	}

	seen := make(map[string]struct{})
	for _, name := range append(append(constant, quasi...), zeroRaw...) {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		d.DroppedColumns = append(d.DroppedColumns, name)
	}

	d.logger.Info("learned low-variance drop-list",
		log.StepKey, "LowVarianceDropper",
		log.OperationKey, "fit",
		"constant", len(constant),
		"quasi_constant", len(quasi),
		log.DroppedColumnsKey, d.DroppedColumns,
	)
	d.SetFitted()
	return nil
}

// rescaledPopVariance min-max rescales the non-missing values of s to [0, 1]
// and returns their population variance. A constant column rescales to all
// zeros.
func rescaledPopVariance(s *dataframe.Series) float64 {
	vals := s.FloatsDropMissing()
	min, max, ok := s.MinMax()
	if !ok {
		return 0
	}
	scale := max - min
	if scale == 0 {
		// Constant column: every value maps to 0.
		scale = 1
	}
	scaled := make([]float64, len(vals))
	for i, v := range vals {
		scaled[i] = (v - min) / scale
	}
	return stat.PopVariance(scaled, nil)
}

// Transform drops the learned columns that are present in df.
func (d *LowVarianceDropper) Transform(df *dataframe.DataFrame) (*dataframe.DataFrame, error) {
	if !d.IsFitted() {
		return nil, errors.NewNotFittedError("LowVarianceDropper", "Transform")
	}
	if df == nil {
		return nil, errors.NewValueError("LowVarianceDropper.Transform", "input table is nil")
	}
	return dropLearned("LowVarianceDropper", df, d.DroppedColumns, d.logger), nil
}

// FitTransform fits on df and transforms it.
func (d *LowVarianceDropper) FitTransform(df *dataframe.DataFrame) (*dataframe.DataFrame, error) {
	if err := d.Fit(df); err != nil {
		return nil, err
	}
	return d.Transform(df)
}

// GetParams returns the step's configuration.
func (d *LowVarianceDropper) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"quasi_constant_threshold": d.QuasiConstantThreshold,
	}
}

// String returns a short description of the step.
func (d *LowVarianceDropper) String() string {
	if !d.IsFitted() {
		return fmt.Sprintf("LowVarianceDropper(quasi_constant_threshold=%g)", d.QuasiConstantThreshold)
	}
	return fmt.Sprintf("LowVarianceDropper(quasi_constant_threshold=%g, dropped=%d)",
		d.QuasiConstantThreshold, len(d.DroppedColumns))
}
