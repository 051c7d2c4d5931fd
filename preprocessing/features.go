package preprocessing

import (
	"fmt"
	"math"
	"strings"

	"github.com/YuminosukeSato/edago/core/model"
	"github.com/YuminosukeSato/edago/dataframe"
	"github.com/YuminosukeSato/edago/pkg/errors"
	"github.com/YuminosukeSato/edago/pkg/log"
)

// featurePair is one old/new column pair learned by the builder, keyed by the
// shared base name.
type featurePair struct {
	Base string
	Old  string
	New  string
}

// TemporalFeatureBuilder derives comparison features from column pairs that
// share a base name and differ only in a temporal suffix, such as
// "income_prev" and "income_curr". Numeric pairs yield a "delta_<base>"
// column holding new minus old; all other pairs yield a "changed_<base>"
// 0/1 indicator. A derived cell is missing when either source cell is
// missing.
type TemporalFeatureBuilder struct {
	model.BaseEstimator

	OldSuffix string
	NewSuffix string

	// DropOriginals removes the source column pairs after deriving.
	DropOriginals bool

	// Pairs is the pair list learned by Fit.
	Pairs []featurePair

	logger log.Logger
}

// NewTemporalFeatureBuilder creates the step. The two suffixes must be
// non-empty and distinct.
func NewTemporalFeatureBuilder(oldSuffix, newSuffix string, dropOriginals bool) (*TemporalFeatureBuilder, error) {
	if oldSuffix == "" || newSuffix == "" {
		return nil, errors.NewValidationError("suffix", "suffixes must be non-empty", oldSuffix+"/"+newSuffix)
	}
	if oldSuffix == newSuffix {
		return nil, errors.NewValidationError("suffix", "suffixes must differ", oldSuffix)
	}
	return &TemporalFeatureBuilder{
		OldSuffix:     oldSuffix,
		NewSuffix:     newSuffix,
		DropOriginals: dropOriginals,
		logger:        log.GetLoggerWithName("preprocessing"),
	}, nil
}

// SetLogger replaces the step's diagnostic sink.
func (t *TemporalFeatureBuilder) SetLogger(l log.Logger) { t.logger = l }

// Fit learns the base names that appear with both suffixes, in the order the
// old-suffix columns appear in the table.
func (t *TemporalFeatureBuilder) Fit(df *dataframe.DataFrame) error {
	if df == nil {
		return errors.NewValueError("TemporalFeatureBuilder.Fit", "input table is nil")
	}
	t.Pairs = nil
	for _, name := range df.Columns() {
		if !strings.HasSuffix(name, t.OldSuffix) {
			continue
		}
		base := strings.TrimSuffix(name, t.OldSuffix)
		newName := base + t.NewSuffix
		if !df.HasColumn(newName) {
			continue
		}
		t.Pairs = append(t.Pairs, featurePair{
			Base: strings.Trim(base, "_"),
			Old:  name,
			New:  newName,
		})
	}
	if len(t.Pairs) == 0 {
		t.logger.Warn("no suffix pairs found",
			log.StepKey, "TemporalFeatureBuilder",
			log.OperationKey, "fit",
		)
	}
	t.SetFitted()
	return nil
}

// Transform appends the derived columns for every learned pair. Pairs whose
// source columns have drifted away are skipped with a warning.
func (t *TemporalFeatureBuilder) Transform(df *dataframe.DataFrame) (*dataframe.DataFrame, error) {
	if !t.IsFitted() {
		return nil, errors.NewNotFittedError("TemporalFeatureBuilder", "Transform")
	}
	if df == nil {
		return nil, errors.NewValueError("TemporalFeatureBuilder.Transform", "input table is nil")
	}

	out := df.Copy()
	var built, absent []string
	var sources []string
	for _, p := range t.Pairs {
		oldCol, okOld := out.Column(p.Old)
		newCol, okNew := out.Column(p.New)
		if !okOld || !okNew {
			absent = append(absent, p.Base)
			continue
		}

		var derived *dataframe.Series
		if oldCol.DType().IsNumeric() && newCol.DType().IsNumeric() {
			derived = deltaSeries("delta_"+p.Base, oldCol, newCol)
		} else {
			derived = changedSeries("changed_"+p.Base, oldCol, newCol)
		}
		var err error
		out, err = out.WithColumn(derived)
		if err != nil {
			return nil, err
		}
		built = append(built, derived.Name())
		sources = append(sources, p.Old, p.New)
	}

	if len(absent) > 0 {
		errors.Warn(errors.NewSchemaDriftWarning("TemporalFeatureBuilder", absent))
	}
	if len(built) > 0 {
		t.logger.Info("derived features",
			log.StepKey, "TemporalFeatureBuilder",
			log.OperationKey, "transform",
			log.ColumnsKey, built,
		)
	}
	if t.DropOriginals {
		out = out.Drop(sources...)
	}
	return out, nil
}

// deltaSeries builds new minus old as a Float series.
func deltaSeries(name string, oldCol, newCol *dataframe.Series) *dataframe.Series {
	vals := make([]float64, oldCol.Len())
	for i := range vals {
		if oldCol.IsMissing(i) || newCol.IsMissing(i) {
			vals[i] = math.NaN()
			continue
		}
		vals[i] = newCol.Float(i) - oldCol.Float(i)
	}
	return dataframe.NewFloats(name, vals)
}

// changedSeries builds a 0/1 indicator of value change as an Int series.
func changedSeries(name string, oldCol, newCol *dataframe.Series) *dataframe.Series {
	vals := make([]any, oldCol.Len())
	for i := range vals {
		if oldCol.IsMissing(i) || newCol.IsMissing(i) {
			continue
		}
		if oldCol.Value(i) != newCol.Value(i) {
			vals[i] = int64(1)
		} else {
			vals[i] = int64(0)
		}
	}
	// vals holds only int64 and nil, so inference cannot fail.
	s, _ := dataframe.FromValues(name, vals)
	return s
}

// FitTransform fits on df and transforms it.
func (t *TemporalFeatureBuilder) FitTransform(df *dataframe.DataFrame) (*dataframe.DataFrame, error) {
	if err := t.Fit(df); err != nil {
		return nil, err
	}
	return t.Transform(df)
}

// GetParams returns the step's configuration.
func (t *TemporalFeatureBuilder) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"old_suffix":     t.OldSuffix,
		"new_suffix":     t.NewSuffix,
		"drop_originals": t.DropOriginals,
	}
}

func (t *TemporalFeatureBuilder) String() string {
	return fmt.Sprintf("TemporalFeatureBuilder(old=%s, new=%s)", t.OldSuffix, t.NewSuffix)
}
