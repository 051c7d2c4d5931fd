package stats

import (
	"strings"

	"github.com/YuminosukeSato/edago/dataframe"
	"github.com/YuminosukeSato/edago/pkg/log"
)

// ValidateAndFilterColumns returns the members of subset that appear in
// available, preserving subset order. Removed names are logged; an empty
// result is not an error.
func ValidateAndFilterColumns(subset, available []string) []string {
	logger := log.GetLoggerWithName("stats")

	availableSet := make(map[string]struct{}, len(available))
	for _, name := range available {
		availableSet[name] = struct{}{}
	}

	valid := make([]string, 0, len(subset))
	var invalid []string
	for _, name := range subset {
		if _, ok := availableSet[name]; ok {
			valid = append(valid, name)
		} else {
			invalid = append(invalid, name)
		}
	}

	if len(invalid) > 0 {
		logger.Warn("removed column names not present in the table",
			log.ColumnKey, strings.Join(invalid, ","),
		)
	}
	return valid
}

// SuffixGroups partitions column names by two suffixes.
type SuffixGroups struct {
	A    []string // columns ending with the first suffix
	B    []string // columns ending with the second suffix
	Rest []string // everything else
}

// GroupColumnsBySuffix partitions the table's columns into those ending with
// suffixA, those ending with suffixB, and the rest. Useful for datasets whose
// columns encode two observation waves in a name suffix.
func GroupColumnsBySuffix(df *dataframe.DataFrame, suffixA, suffixB string) SuffixGroups {
	var groups SuffixGroups
	for _, name := range df.Columns() {
		switch {
		case strings.HasSuffix(name, suffixA):
			groups.A = append(groups.A, name)
		case strings.HasSuffix(name, suffixB):
			groups.B = append(groups.B, name)
		default:
			groups.Rest = append(groups.Rest, name)
		}
	}
	return groups
}
