// Standard attribute keys for table analysis and preprocessing operations.
// Using these keys keeps log output consistent and filterable across the
// stats, preprocessing and charts packages.

package log

// Step and operation context.
const (
	// StepKey identifies the preprocessing step emitting the record.
	// Examples: "HighMissingColumnDropper", "Imputer"
	StepKey = "prep.step"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "transform", "fit_transform", "categorize"
	OperationKey = "prep.operation"

	// ComponentKey identifies the package performing the operation.
	// Examples: "preprocessing", "stats", "charts"
	ComponentKey = "prep.component"

	// StrategyKey names a configured strategy.
	// Examples: "median", "mode"
	StrategyKey = "prep.strategy"

	// DroppedColumnsKey lists columns removed by a drop step.
	DroppedColumnsKey = "prep.dropped_columns"

	// ConvertedColumnsKey lists columns whose dtype was converted.
	ConvertedColumnsKey = "prep.converted_columns"
)

// Table shape and characteristics.
const (
	// RowsKey is the number of rows in the table being processed.
	RowsKey = "table.rows"

	// ColumnsKey is the number of columns in the table being processed.
	ColumnsKey = "table.columns"

	// ColumnKey names a single column under discussion.
	ColumnKey = "table.column"

	// DTypeKey is the declared type of a column.
	// Examples: "float", "bool", "categorical"
	DTypeKey = "table.dtype"

	// MissingKey is a count of missing cells.
	MissingKey = "table.missing"
)

// Analysis results.
const (
	// BandKey names a correlation band.
	BandKey = "stats.band"

	// PairsKey is a count of categorized feature pairs.
	PairsKey = "stats.pairs"

	// ChartKey names the chart being rendered.
	ChartKey = "chart.name"
)
