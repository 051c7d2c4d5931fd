package preprocessing

import (
	"fmt"
	"math"

	"github.com/YuminosukeSato/edago/core/model"
	"github.com/YuminosukeSato/edago/dataframe"
	"github.com/YuminosukeSato/edago/pkg/errors"
	"github.com/YuminosukeSato/edago/pkg/log"
)

// NumericStrategy selects the statistic used to fill missing numeric cells.
type NumericStrategy string

const (
	// StrategyMean fills with the column mean.
	StrategyMean NumericStrategy = "mean"
	// StrategyMedian fills with the column median.
	StrategyMedian NumericStrategy = "median"
	// StrategyMode fills with the column's most frequent value.
	StrategyMode NumericStrategy = "mode"
)

// CategoricalStrategy is a tagged choice for non-numeric columns: either use
// the column's mode, or fill with a fixed constant. Using a tagged type
// instead of a sentinel string keeps constant fills unambiguous.
type CategoricalStrategy struct {
	useMode bool
	fill    any
}

// UseMode fills non-numeric columns with their most frequent value.
func UseMode() CategoricalStrategy {
	return CategoricalStrategy{useMode: true}
}

// FillWith fills non-numeric columns with the given constant.
func FillWith(value any) CategoricalStrategy {
	return CategoricalStrategy{fill: value}
}

// IsMode reports whether the strategy is mode-based.
func (c CategoricalStrategy) IsMode() bool { return c.useMode }

// Constant returns the configured constant fill value.
func (c CategoricalStrategy) Constant() any { return c.fill }

// MissingPolicy governs what Transform does with a column that has missing
// values but no learned fill value (clean at fit time, missing at transform
// time).
type MissingPolicy int

const (
	// MissingIgnore leaves the values missing and emits a warning.
	MissingIgnore MissingPolicy = iota
	// MissingError fails the transform.
	MissingError
	// MissingRefit fills with the statistic computed from the
	// transform-time table.
	MissingRefit
)

// Imputer fills missing values with per-column scalars learned during Fit.
// Numeric columns use NumericStrategy; all other columns use
// CategoricalStrategy. Columns free of missing values at fit time learn no
// fill value; MissingPolicy decides their fate at transform time.
type Imputer struct {
	model.BaseEstimator

	NumStrategy NumericStrategy
	CatStrategy CategoricalStrategy
	Policy      MissingPolicy

	// NumericFills and CategoricalFills are the learned per-column fill
	// values. Absence from both maps is the explicit no-op marker.
	NumericFills     map[string]float64
	CategoricalFills map[string]any

	logger log.Logger
}

// NewImputer creates the step. numStrategy must be one of mean, median, mode.
func NewImputer(numStrategy NumericStrategy, catStrategy CategoricalStrategy) (*Imputer, error) {
	switch numStrategy {
	case StrategyMean, StrategyMedian, StrategyMode:
	default:
		return nil, errors.NewValidationError("num_strategy",
			"must be 'mean', 'median', or 'mode'", string(numStrategy))
	}
	return &Imputer{
		NumStrategy: numStrategy,
		CatStrategy: catStrategy,
		Policy:      MissingIgnore,
		logger:      log.GetLoggerWithName("preprocessing"),
	}, nil
}

// SetMissingPolicy changes the transform-time policy for columns without a
// learned fill value.
func (im *Imputer) SetMissingPolicy(p MissingPolicy) { im.Policy = p }

// SetLogger replaces the step's diagnostic sink.
func (im *Imputer) SetLogger(l log.Logger) { im.logger = l }

// Fit learns one scalar fill value for every column that has at least one
// missing value in the reference table.
func (im *Imputer) Fit(df *dataframe.DataFrame) error {
	if df == nil {
		return errors.NewValueError("Imputer.Fit", "input table is nil")
	}
	im.NumericFills = make(map[string]float64)
	im.CategoricalFills = make(map[string]any)

	for _, name := range df.Columns() {
		s, _ := df.Column(name)
		if !s.HasMissing() {
			continue
		}
		if s.DType().IsNumeric() {
			im.NumericFills[name] = im.numericFill(s)
		} else {
			im.CategoricalFills[name] = im.categoricalFill(s)
		}
	}

	im.logger.Info("learned fill values",
		log.StepKey, "Imputer",
		log.OperationKey, "fit",
		log.StrategyKey, string(im.NumStrategy),
		"numeric_fills", len(im.NumericFills),
		"categorical_fills", len(im.CategoricalFills),
	)
	im.SetFitted()
	return nil
}

func (im *Imputer) numericFill(s *dataframe.Series) float64 {
	switch im.NumStrategy {
	case StrategyMean:
		return finiteOrZero(s, s.Mean())
	case StrategyMedian:
		return finiteOrZero(s, s.Median())
	default: // StrategyMode
		mode, ok := s.Mode()
		if !ok {
			errors.Warn(errors.NewModeFallbackWarning(s.Name(), 0))
			return 0
		}
		switch v := mode.(type) {
		case float64:
			return v
		case int64:
			return float64(v)
		default:
			errors.Warn(errors.NewModeFallbackWarning(s.Name(), 0))
			return 0
		}
	}
}

// finiteOrZero guards against learning NaN from an all-missing column, which
// would turn every filled cell into a NaN that the validity mask no longer
// tracks as missing.
func finiteOrZero(s *dataframe.Series, v float64) float64 {
	if math.IsNaN(v) {
		errors.Warn(errors.NewModeFallbackWarning(s.Name(), 0))
		return 0
	}
	return v
}

func (im *Imputer) categoricalFill(s *dataframe.Series) any {
	if !im.CatStrategy.IsMode() {
		return im.CatStrategy.Constant()
	}
	mode, ok := s.Mode()
	if ok {
		return mode
	}
	// No mode to learn from; boolean columns cannot hold the text fallback.
	if s.DType() == dataframe.Bool {
		errors.Warn(errors.NewModeFallbackWarning(s.Name(), false))
		return false
	}
	errors.Warn(errors.NewModeFallbackWarning(s.Name(), "Unknown"))
	return "Unknown"
}

// Transform fills missing cells in every column with a learned fill value.
// Remaining missing cells are handled according to the MissingPolicy.
func (im *Imputer) Transform(df *dataframe.DataFrame) (*dataframe.DataFrame, error) {
	if !im.IsFitted() {
		return nil, errors.NewNotFittedError("Imputer", "Transform")
	}
	if df == nil {
		return nil, errors.NewValueError("Imputer.Transform", "input table is nil")
	}

	out := df.Copy()
	for _, name := range out.Columns() {
		s, _ := out.Column(name)
		if !s.HasMissing() {
			continue
		}

		fill, learned := im.lookupFill(s)
		if !learned {
			switch im.Policy {
			case MissingError:
				return nil, errors.NewValueError("Imputer.Transform",
					fmt.Sprintf("column '%s' has missing values but no learned fill value", name))
			case MissingRefit:
				if s.DType().IsNumeric() {
					fill = im.numericFill(s)
				} else {
					fill = im.categoricalFill(s)
				}
			default:
				errors.Warn(errors.NewUnimputedColumnWarning(name))
				continue
			}
		}

		filled, err := s.Fill(fill)
		if err != nil {
			return nil, err
		}
		out, err = out.WithColumn(filled)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// lookupFill returns the learned fill value for the column, if any.
func (im *Imputer) lookupFill(s *dataframe.Series) (any, bool) {
	if s.DType().IsNumeric() {
		v, ok := im.NumericFills[s.Name()]
		return v, ok
	}
	v, ok := im.CategoricalFills[s.Name()]
	return v, ok
}

// FitTransform fits on df and transforms it.
func (im *Imputer) FitTransform(df *dataframe.DataFrame) (*dataframe.DataFrame, error) {
	if err := im.Fit(df); err != nil {
		return nil, err
	}
	return im.Transform(df)
}

// GetParams returns the step's configuration.
func (im *Imputer) GetParams() map[string]interface{} {
	cat := "mode"
	if !im.CatStrategy.IsMode() {
		cat = fmt.Sprintf("constant(%v)", im.CatStrategy.Constant())
	}
	return map[string]interface{}{
		"num_strategy": string(im.NumStrategy),
		"cat_strategy": cat,
	}
}

// String returns a short description of the step.
func (im *Imputer) String() string {
	if !im.IsFitted() {
		return fmt.Sprintf("Imputer(num_strategy=%s)", im.NumStrategy)
	}
	return fmt.Sprintf("Imputer(num_strategy=%s, learned=%d)",
		im.NumStrategy, len(im.NumericFills)+len(im.CategoricalFills))
}
