package preprocessing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/edago/dataframe"
)

func TestNewLowVarianceDropper(t *testing.T) {
	_, err := NewLowVarianceDropper(-0.1)
	assert.Error(t, err)

	d, err := NewLowVarianceDropper(0)
	require.NoError(t, err)
	assert.False(t, d.IsFitted())
}

func TestLowVarianceDropper(t *testing.T) {
	t.Run("constant columns are always dropped", func(t *testing.T) {
		df := dataframe.MustNew(
			dataframe.NewFloats("varied", []float64{1, 2, 3, 4}),
			dataframe.NewFloats("constant", []float64{7, 7, 7, 7}),
		)
		d, err := NewLowVarianceDropper(0)
		require.NoError(t, err)

		out, err := d.FitTransform(df)
		require.NoError(t, err)
		assert.Equal(t, []string{"constant"}, d.DroppedColumns)
		assert.Equal(t, []string{"varied"}, out.Columns())
	})

	t.Run("rescaled variance decides quasi-constant columns", func(t *testing.T) {
		// after a min-max rescale both columns have the same variance,
		// so the raw magnitude of the values must not matter
		df := dataframe.MustNew(
			dataframe.NewFloats("small", []float64{0, 0, 0, 1}),
			dataframe.NewFloats("large", []float64{0, 0, 0, 1e6}),
			dataframe.NewFloats("balanced", []float64{0, 1, 0, 1}),
		)
		d, err := NewLowVarianceDropper(0.2)
		require.NoError(t, err)

		out, err := d.FitTransform(df)
		require.NoError(t, err)
		// 3/4 vs 1/4 split rescales to variance 0.1875 < 0.2
		assert.ElementsMatch(t, []string{"small", "large"}, d.DroppedColumns)
		assert.Equal(t, []string{"balanced"}, out.Columns())
	})

	t.Run("non-numeric columns are untouched", func(t *testing.T) {
		df := dataframe.MustNew(
			dataframe.NewStrings("same", []string{"x", "x", "x"}),
			dataframe.NewFloats("constant", []float64{1, 1, 1}),
		)
		d, err := NewLowVarianceDropper(0)
		require.NoError(t, err)

		out, err := d.FitTransform(df)
		require.NoError(t, err)
		assert.Equal(t, []string{"same"}, out.Columns())
	})

	t.Run("all-missing column is kept", func(t *testing.T) {
		nan := math.NaN()
		df := dataframe.MustNew(
			dataframe.NewFloats("ghost", []float64{nan, nan, nan}),
			dataframe.NewFloats("varied", []float64{1, 2, 3}),
		)
		d, err := NewLowVarianceDropper(0)
		require.NoError(t, err)

		out, err := d.FitTransform(df)
		require.NoError(t, err)
		assert.True(t, out.HasColumn("ghost"))
	})

	t.Run("constant column with missing cells is dropped", func(t *testing.T) {
		nan := math.NaN()
		df := dataframe.MustNew(
			dataframe.NewFloats("constish", []float64{5, nan, 5, 5}),
			dataframe.NewFloats("varied", []float64{1, 2, 3, 4}),
		)
		d, err := NewLowVarianceDropper(0)
		require.NoError(t, err)

		out, err := d.FitTransform(df)
		require.NoError(t, err)
		assert.Equal(t, []string{"varied"}, out.Columns())
	})
}
