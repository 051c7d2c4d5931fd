package preprocessing

import (
	"github.com/YuminosukeSato/edago/dataframe"
	"github.com/YuminosukeSato/edago/pkg/errors"
	"github.com/YuminosukeSato/edago/pkg/log"
	"github.com/YuminosukeSato/edago/stats"
)

// DropRowsBySubsetMissing removes rows whose percentage of missing values
// across the subset columns meets or exceeds thresholdPercent. Subset columns
// absent from the table are logged and ignored; an empty table or an empty
// effective subset returns a copy of the input unchanged.
func DropRowsBySubsetMissing(df *dataframe.DataFrame, subset []string, thresholdPercent float64) (*dataframe.DataFrame, error) {
	if df == nil {
		return nil, errors.NewValueError("DropRowsBySubsetMissing", "input table is nil")
	}
	if thresholdPercent < 0 || thresholdPercent > 100 {
		return nil, errors.NewValidationError("threshold_percent", "must be between 0 and 100", thresholdPercent)
	}
	if df.IsEmpty() {
		errors.Warn(errors.NewEmptyTableWarning("DropRowsBySubsetMissing"))
		return df.Copy(), nil
	}

	present := stats.ValidateAndFilterColumns(subset, df.Columns())
	if len(present) == 0 {
		errors.Warn(errors.NewEmptyTableWarning("DropRowsBySubsetMissing"))
		return df.Copy(), nil
	}

	cols := make([]*dataframe.Series, len(present))
	for i, name := range present {
		s, _ := df.Column(name)
		cols[i] = s
	}

	rows := df.NumRows()
	keep := make([]bool, rows)
	dropped := 0
	for i := 0; i < rows; i++ {
		missing := 0
		for _, s := range cols {
			if s.IsMissing(i) {
				missing++
			}
		}
		percent := float64(missing) / float64(len(cols)) * 100
		keep[i] = percent < thresholdPercent
		if !keep[i] {
			dropped++
		}
	}

	if dropped > 0 {
		log.GetLoggerWithName("preprocessing").Info("dropped rows",
			log.OperationKey, "drop_rows_by_subset_missing",
			log.RowsKey, dropped,
			log.ColumnsKey, len(present),
		)
	}
	return df.FilterRows(keep)
}
