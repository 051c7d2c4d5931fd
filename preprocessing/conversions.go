package preprocessing

import (
	"fmt"

	"github.com/YuminosukeSato/edago/core/model"
	"github.com/YuminosukeSato/edago/dataframe"
	"github.com/YuminosukeSato/edago/pkg/errors"
	"github.com/YuminosukeSato/edago/pkg/log"
	"github.com/YuminosukeSato/edago/stats"
)

// convertLearned rewrites the learned columns that are still present through
// convert, warning about columns that have drifted away. Conversion errors on
// individual columns abort the transform.
func convertLearned(step string, df *dataframe.DataFrame, learned []string,
	convert func(*dataframe.Series) (*dataframe.Series, error), logger log.Logger,
) (*dataframe.DataFrame, error) {
	out := df.Copy()
	var converted, absent []string
	for _, name := range learned {
		s, ok := out.Column(name)
		if !ok {
			absent = append(absent, name)
			continue
		}
		c, err := convert(s)
		if err != nil {
			return nil, err
		}
		out, err = out.WithColumn(c)
		if err != nil {
			return nil, err
		}
		converted = append(converted, name)
	}
	if len(absent) > 0 {
		errors.Warn(errors.NewSchemaDriftWarning(step, absent))
	}
	if len(converted) > 0 {
		logger.Info("converted columns",
			log.StepKey, step,
			log.OperationKey, "transform",
			log.ConvertedColumnsKey, converted,
		)
	}
	return out, nil
}

// ColumnCategorizer converts an explicit list of columns to the Categorical
// dtype.
type ColumnCategorizer struct {
	model.BaseEstimator

	// Columns is the requested column list.
	Columns []string

	// FittedColumns is the subset of Columns present in the reference
	// table.
	FittedColumns []string

	logger log.Logger
}

// NewColumnCategorizer creates the step for the given columns.
func NewColumnCategorizer(columns []string) *ColumnCategorizer {
	return &ColumnCategorizer{
		Columns: columns,
		logger:  log.GetLoggerWithName("preprocessing"),
	}
}

// SetLogger replaces the step's diagnostic sink.
func (c *ColumnCategorizer) SetLogger(l log.Logger) { c.logger = l }

// Fit restricts the requested columns to those present in df. Requested
// columns that are absent are logged and ignored.
func (c *ColumnCategorizer) Fit(df *dataframe.DataFrame) error {
	if df == nil {
		return errors.NewValueError("ColumnCategorizer.Fit", "input table is nil")
	}
	c.FittedColumns = stats.ValidateAndFilterColumns(c.Columns, df.Columns())
	if len(c.FittedColumns) == 0 {
		c.logger.Warn("no requested columns present",
			log.StepKey, "ColumnCategorizer",
			log.OperationKey, "fit",
		)
	}
	c.SetFitted()
	return nil
}

// Transform converts the fitted columns to Categorical.
func (c *ColumnCategorizer) Transform(df *dataframe.DataFrame) (*dataframe.DataFrame, error) {
	if !c.IsFitted() {
		return nil, errors.NewNotFittedError("ColumnCategorizer", "Transform")
	}
	if df == nil {
		return nil, errors.NewValueError("ColumnCategorizer.Transform", "input table is nil")
	}
	return convertLearned("ColumnCategorizer", df, c.FittedColumns,
		func(s *dataframe.Series) (*dataframe.Series, error) {
			return s.AsCategorical(), nil
		}, c.logger)
}

// FitTransform fits on df and transforms it.
func (c *ColumnCategorizer) FitTransform(df *dataframe.DataFrame) (*dataframe.DataFrame, error) {
	if err := c.Fit(df); err != nil {
		return nil, err
	}
	return c.Transform(df)
}

// GetParams returns the step's configuration.
func (c *ColumnCategorizer) GetParams() map[string]interface{} {
	return map[string]interface{}{"columns": c.Columns}
}

func (c *ColumnCategorizer) String() string {
	return fmt.Sprintf("ColumnCategorizer(columns=%d)", len(c.Columns))
}

// StringToCategoryConverter converts low-cardinality String columns to
// Categorical. A column qualifies when its unique-value ratio is below
// ThresholdRatio and its unique-value count is at most MaxUnique.
type StringToCategoryConverter struct {
	model.BaseEstimator

	ThresholdRatio float64
	MaxUnique      int

	// ConvertedColumns is the list learned by Fit.
	ConvertedColumns []string

	logger log.Logger
}

// NewStringToCategoryConverter creates the step. thresholdRatio must be in
// (0, 1] and maxUnique positive.
func NewStringToCategoryConverter(thresholdRatio float64, maxUnique int) (*StringToCategoryConverter, error) {
	if thresholdRatio <= 0 || thresholdRatio > 1 {
		return nil, errors.NewValidationError("threshold_ratio", "must be in (0, 1]", thresholdRatio)
	}
	if maxUnique <= 0 {
		return nil, errors.NewValidationError("max_unique", "must be positive", maxUnique)
	}
	return &StringToCategoryConverter{
		ThresholdRatio: thresholdRatio,
		MaxUnique:      maxUnique,
		logger:         log.GetLoggerWithName("preprocessing"),
	}, nil
}

// SetLogger replaces the step's diagnostic sink.
func (c *StringToCategoryConverter) SetLogger(l log.Logger) { c.logger = l }

// Fit records every String column whose cardinality is low enough to treat
// as categorical.
func (c *StringToCategoryConverter) Fit(df *dataframe.DataFrame) error {
	if df == nil {
		return errors.NewValueError("StringToCategoryConverter.Fit", "input table is nil")
	}
	c.ConvertedColumns = nil
	rows := df.NumRows()
	if rows == 0 {
		errors.Warn(errors.NewEmptyTableWarning("StringToCategoryConverter.Fit"))
		c.SetFitted()
		return nil
	}
	for _, name := range df.ColumnsOfType(dataframe.String) {
		s, _ := df.Column(name)
		uniq := s.NUnique()
		if float64(uniq)/float64(rows) < c.ThresholdRatio && uniq <= c.MaxUnique {
			c.ConvertedColumns = append(c.ConvertedColumns, name)
		}
	}
	c.SetFitted()
	return nil
}

// Transform converts the learned columns to Categorical.
func (c *StringToCategoryConverter) Transform(df *dataframe.DataFrame) (*dataframe.DataFrame, error) {
	if !c.IsFitted() {
		return nil, errors.NewNotFittedError("StringToCategoryConverter", "Transform")
	}
	if df == nil {
		return nil, errors.NewValueError("StringToCategoryConverter.Transform", "input table is nil")
	}
	return convertLearned("StringToCategoryConverter", df, c.ConvertedColumns,
		func(s *dataframe.Series) (*dataframe.Series, error) {
			return s.AsCategorical(), nil
		}, c.logger)
}

// FitTransform fits on df and transforms it.
func (c *StringToCategoryConverter) FitTransform(df *dataframe.DataFrame) (*dataframe.DataFrame, error) {
	if err := c.Fit(df); err != nil {
		return nil, err
	}
	return c.Transform(df)
}

// GetParams returns the step's configuration.
func (c *StringToCategoryConverter) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"threshold_ratio": c.ThresholdRatio,
		"max_unique":      c.MaxUnique,
	}
}

func (c *StringToCategoryConverter) String() string {
	return fmt.Sprintf("StringToCategoryConverter(threshold_ratio=%g, max_unique=%d)",
		c.ThresholdRatio, c.MaxUnique)
}

// FloatToCategoryConverter converts Float columns that hold only the values
// 0 and 1 into Categorical columns. Such columns are usually encoded flags.
type FloatToCategoryConverter struct {
	model.BaseEstimator

	// ConvertedColumns is the list learned by Fit.
	ConvertedColumns []string

	logger log.Logger
}

// NewFloatToCategoryConverter creates the step.
func NewFloatToCategoryConverter() *FloatToCategoryConverter {
	return &FloatToCategoryConverter{logger: log.GetLoggerWithName("preprocessing")}
}

// SetLogger replaces the step's diagnostic sink.
func (c *FloatToCategoryConverter) SetLogger(l log.Logger) { c.logger = l }

// Fit records every Float column whose non-missing values are all 0 or 1.
// Columns with no non-missing values are left alone.
func (c *FloatToCategoryConverter) Fit(df *dataframe.DataFrame) error {
	if df == nil {
		return errors.NewValueError("FloatToCategoryConverter.Fit", "input table is nil")
	}
	c.ConvertedColumns = nil
	for _, name := range df.ColumnsOfType(dataframe.Float) {
		s, _ := df.Column(name)
		if isZeroOneColumn(s) {
			c.ConvertedColumns = append(c.ConvertedColumns, name)
		}
	}
	c.SetFitted()
	return nil
}

// isZeroOneColumn reports whether the series has at least one non-missing
// value and all of them are 0 or 1.
func isZeroOneColumn(s *dataframe.Series) bool {
	seen := false
	for i := 0; i < s.Len(); i++ {
		if s.IsMissing(i) {
			continue
		}
		v := s.Float(i)
		if v != 0 && v != 1 {
			return false
		}
		seen = true
	}
	return seen
}

// Transform converts the learned columns to Categorical.
func (c *FloatToCategoryConverter) Transform(df *dataframe.DataFrame) (*dataframe.DataFrame, error) {
	if !c.IsFitted() {
		return nil, errors.NewNotFittedError("FloatToCategoryConverter", "Transform")
	}
	if df == nil {
		return nil, errors.NewValueError("FloatToCategoryConverter.Transform", "input table is nil")
	}
	return convertLearned("FloatToCategoryConverter", df, c.ConvertedColumns,
		func(s *dataframe.Series) (*dataframe.Series, error) {
			return s.AsCategorical(), nil
		}, c.logger)
}

// FitTransform fits on df and transforms it.
func (c *FloatToCategoryConverter) FitTransform(df *dataframe.DataFrame) (*dataframe.DataFrame, error) {
	if err := c.Fit(df); err != nil {
		return nil, err
	}
	return c.Transform(df)
}

// GetParams returns the step's configuration.
func (c *FloatToCategoryConverter) GetParams() map[string]interface{} {
	return map[string]interface{}{}
}

func (c *FloatToCategoryConverter) String() string {
	return fmt.Sprintf("FloatToCategoryConverter(converted=%d)", len(c.ConvertedColumns))
}

// BoolToCategoryConverter converts every Bool column to Categorical with the
// levels "true" and "false".
type BoolToCategoryConverter struct {
	model.BaseEstimator

	// ConvertedColumns is the list learned by Fit.
	ConvertedColumns []string

	logger log.Logger
}

// NewBoolToCategoryConverter creates the step.
func NewBoolToCategoryConverter() *BoolToCategoryConverter {
	return &BoolToCategoryConverter{logger: log.GetLoggerWithName("preprocessing")}
}

// SetLogger replaces the step's diagnostic sink.
func (c *BoolToCategoryConverter) SetLogger(l log.Logger) { c.logger = l }

// Fit records every Bool column.
func (c *BoolToCategoryConverter) Fit(df *dataframe.DataFrame) error {
	if df == nil {
		return errors.NewValueError("BoolToCategoryConverter.Fit", "input table is nil")
	}
	c.ConvertedColumns = df.ColumnsOfType(dataframe.Bool)
	c.SetFitted()
	return nil
}

// Transform converts the learned columns to Categorical.
func (c *BoolToCategoryConverter) Transform(df *dataframe.DataFrame) (*dataframe.DataFrame, error) {
	if !c.IsFitted() {
		return nil, errors.NewNotFittedError("BoolToCategoryConverter", "Transform")
	}
	if df == nil {
		return nil, errors.NewValueError("BoolToCategoryConverter.Transform", "input table is nil")
	}
	return convertLearned("BoolToCategoryConverter", df, c.ConvertedColumns,
		func(s *dataframe.Series) (*dataframe.Series, error) {
			return s.AsCategorical(), nil
		}, c.logger)
}

// FitTransform fits on df and transforms it.
func (c *BoolToCategoryConverter) FitTransform(df *dataframe.DataFrame) (*dataframe.DataFrame, error) {
	if err := c.Fit(df); err != nil {
		return nil, err
	}
	return c.Transform(df)
}

// GetParams returns the step's configuration.
func (c *BoolToCategoryConverter) GetParams() map[string]interface{} {
	return map[string]interface{}{}
}

func (c *BoolToCategoryConverter) String() string {
	return fmt.Sprintf("BoolToCategoryConverter(converted=%d)", len(c.ConvertedColumns))
}

// FloatToBoolConverter converts 0/1-valued Float columns to the Bool dtype.
type FloatToBoolConverter struct {
	model.BaseEstimator

	// ConvertedColumns is the list learned by Fit.
	ConvertedColumns []string

	logger log.Logger
}

// NewFloatToBoolConverter creates the step.
func NewFloatToBoolConverter() *FloatToBoolConverter {
	return &FloatToBoolConverter{logger: log.GetLoggerWithName("preprocessing")}
}

// SetLogger replaces the step's diagnostic sink.
func (c *FloatToBoolConverter) SetLogger(l log.Logger) { c.logger = l }

// Fit records every Float column whose non-missing values are all 0 or 1.
func (c *FloatToBoolConverter) Fit(df *dataframe.DataFrame) error {
	if df == nil {
		return errors.NewValueError("FloatToBoolConverter.Fit", "input table is nil")
	}
	c.ConvertedColumns = nil
	for _, name := range df.ColumnsOfType(dataframe.Float) {
		s, _ := df.Column(name)
		if isZeroOneColumn(s) {
			c.ConvertedColumns = append(c.ConvertedColumns, name)
		}
	}
	c.SetFitted()
	return nil
}

// Transform converts the learned columns to Bool. A learned column that has
// since acquired values outside {0, 1} fails the transform.
func (c *FloatToBoolConverter) Transform(df *dataframe.DataFrame) (*dataframe.DataFrame, error) {
	if !c.IsFitted() {
		return nil, errors.NewNotFittedError("FloatToBoolConverter", "Transform")
	}
	if df == nil {
		return nil, errors.NewValueError("FloatToBoolConverter.Transform", "input table is nil")
	}
	return convertLearned("FloatToBoolConverter", df, c.ConvertedColumns,
		func(s *dataframe.Series) (*dataframe.Series, error) {
			return s.AsBool()
		}, c.logger)
}

// FitTransform fits on df and transforms it.
func (c *FloatToBoolConverter) FitTransform(df *dataframe.DataFrame) (*dataframe.DataFrame, error) {
	if err := c.Fit(df); err != nil {
		return nil, err
	}
	return c.Transform(df)
}

// GetParams returns the step's configuration.
func (c *FloatToBoolConverter) GetParams() map[string]interface{} {
	return map[string]interface{}{}
}

func (c *FloatToBoolConverter) String() string {
	return fmt.Sprintf("FloatToBoolConverter(converted=%d)", len(c.ConvertedColumns))
}
