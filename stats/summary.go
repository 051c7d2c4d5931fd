package stats

import (
	"sort"

	"github.com/YuminosukeSato/edago/dataframe"
	"github.com/YuminosukeSato/edago/pkg/errors"
)

// DTypeGroup describes the columns sharing one declared type.
type DTypeGroup struct {
	Count   int
	Columns []string
}

// DTypeSummary groups column names by their dtype name. An empty table yields
// an empty summary with a warning.
func DTypeSummary(df *dataframe.DataFrame) map[string]DTypeGroup {
	summary := make(map[string]DTypeGroup)
	if df == nil || df.IsEmpty() {
		errors.Warn(errors.NewEmptyTableWarning("stats.DTypeSummary"))
		return summary
	}
	for _, name := range df.Columns() {
		s, _ := df.Column(name)
		key := s.DType().String()
		group := summary[key]
		group.Count++
		group.Columns = append(group.Columns, name)
		summary[key] = group
	}
	return summary
}

// ColumnMissingness reports the missing cells of one column.
type ColumnMissingness struct {
	Column  string
	Missing int
	Percent float64
}

// Missingness returns per-column missing counts and percentages, ordered by
// descending percentage; ties keep the table's column order.
func Missingness(df *dataframe.DataFrame) []ColumnMissingness {
	if df == nil || df.IsEmpty() {
		errors.Warn(errors.NewEmptyTableWarning("stats.Missingness"))
		return nil
	}
	rows := df.NumRows()
	out := make([]ColumnMissingness, 0, df.NumCols())
	for _, name := range df.Columns() {
		s, _ := df.Column(name)
		missing := s.MissingCount()
		out = append(out, ColumnMissingness{
			Column:  name,
			Missing: missing,
			Percent: float64(missing) / float64(rows) * 100,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Percent > out[j].Percent
	})
	return out
}
