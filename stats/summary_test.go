package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/edago/dataframe"
	"github.com/YuminosukeSato/edago/pkg/errors"
)

func TestDTypeSummary(t *testing.T) {
	t.Run("groups columns by dtype", func(t *testing.T) {
		df := dataframe.MustNew(
			dataframe.NewFloats("a", []float64{1}),
			dataframe.NewFloats("b", []float64{2}),
			dataframe.NewStrings("c", []string{"x"}),
			dataframe.NewBools("d", []bool{true}),
		)
		summary := DTypeSummary(df)

		assert.Equal(t, 2, summary["float"].Count)
		assert.Equal(t, []string{"a", "b"}, summary["float"].Columns)
		assert.Equal(t, []string{"c"}, summary["string"].Columns)
		assert.Equal(t, []string{"d"}, summary["bool"].Columns)
	})

	t.Run("empty table warns", func(t *testing.T) {
		warnings := captureWarnings(t)
		summary := DTypeSummary(dataframe.MustNew())
		assert.Empty(t, summary)
		require.Len(t, *warnings, 1)
		var w *errors.EmptyTableWarning
		assert.ErrorAs(t, (*warnings)[0], &w)
	})
}

func TestMissingness(t *testing.T) {
	nan := math.NaN()
	df := dataframe.MustNew(
		dataframe.NewFloats("clean", []float64{1, 2, 3, 4}),
		dataframe.NewFloats("half", []float64{1, nan, 3, nan}),
		dataframe.NewFloats("sparse", []float64{nan, nan, nan, 4}),
	)

	out := Missingness(df)
	require.Len(t, out, 3)

	// most missing first
	assert.Equal(t, "sparse", out[0].Column)
	assert.InDelta(t, 75.0, out[0].Percent, 1e-9)
	assert.Equal(t, 3, out[0].Missing)

	assert.Equal(t, "half", out[1].Column)
	assert.InDelta(t, 50.0, out[1].Percent, 1e-9)

	assert.Equal(t, "clean", out[2].Column)
	assert.Zero(t, out[2].Missing)
}

func TestValidateAndFilterColumns(t *testing.T) {
	available := []string{"a", "b", "c"}

	t.Run("keeps requested order of present columns", func(t *testing.T) {
		out := ValidateAndFilterColumns([]string{"c", "a"}, available)
		assert.Equal(t, []string{"c", "a"}, out)
	})

	t.Run("drops absent columns", func(t *testing.T) {
		out := ValidateAndFilterColumns([]string{"a", "nope"}, available)
		assert.Equal(t, []string{"a"}, out)
	})

	t.Run("empty when nothing matches", func(t *testing.T) {
		assert.Empty(t, ValidateAndFilterColumns([]string{"x"}, available))
	})
}

func TestGroupColumnsBySuffix(t *testing.T) {
	df := dataframe.MustNew(
		dataframe.NewFloats("income_prev", []float64{1}),
		dataframe.NewFloats("income_curr", []float64{2}),
		dataframe.NewStrings("city", []string{"x"}),
	)

	groups := GroupColumnsBySuffix(df, "_prev", "_curr")
	assert.Equal(t, []string{"income_prev"}, groups.A)
	assert.Equal(t, []string{"income_curr"}, groups.B)
	assert.Equal(t, []string{"city"}, groups.Rest)
}
