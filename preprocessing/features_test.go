package preprocessing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/edago/dataframe"
)

func temporalFrame(t *testing.T) *dataframe.DataFrame {
	t.Helper()
	nan := math.NaN()
	return dataframe.MustNew(
		dataframe.NewFloats("income_prev", []float64{100, 200, nan}),
		dataframe.NewFloats("income_curr", []float64{150, 180, 300}),
		dataframe.NewStrings("city_prev", []string{"Tokyo", "Osaka", "Kyoto"}),
		dataframe.NewStrings("city_curr", []string{"Tokyo", "Nagoya", "Kyoto"}),
		dataframe.NewFloats("age", []float64{30, 40, 50}),
	)
}

func TestNewTemporalFeatureBuilder(t *testing.T) {
	_, err := NewTemporalFeatureBuilder("", "_curr", false)
	assert.Error(t, err)
	_, err = NewTemporalFeatureBuilder("_x", "_x", false)
	assert.Error(t, err)
}

func TestTemporalFeatureBuilder(t *testing.T) {
	t.Run("numeric pairs yield deltas", func(t *testing.T) {
		b, err := NewTemporalFeatureBuilder("_prev", "_curr", false)
		require.NoError(t, err)

		out, err := b.FitTransform(temporalFrame(t))
		require.NoError(t, err)

		delta, ok := out.Column("delta_income")
		require.True(t, ok)
		assert.InDelta(t, 50.0, delta.Float(0), 1e-9)
		assert.InDelta(t, -20.0, delta.Float(1), 1e-9)
		assert.True(t, delta.IsMissing(2))
	})

	t.Run("non-numeric pairs yield change flags", func(t *testing.T) {
		b, err := NewTemporalFeatureBuilder("_prev", "_curr", false)
		require.NoError(t, err)

		out, err := b.FitTransform(temporalFrame(t))
		require.NoError(t, err)

		changed, ok := out.Column("changed_city")
		require.True(t, ok)
		assert.Equal(t, 0.0, changed.Float(0))
		assert.Equal(t, 1.0, changed.Float(1))
		assert.Equal(t, 0.0, changed.Float(2))
	})

	t.Run("unpaired columns are ignored", func(t *testing.T) {
		b, err := NewTemporalFeatureBuilder("_prev", "_curr", false)
		require.NoError(t, err)

		out, err := b.FitTransform(temporalFrame(t))
		require.NoError(t, err)
		assert.True(t, out.HasColumn("age"))
		assert.False(t, out.HasColumn("delta_age"))
	})

	t.Run("drop originals", func(t *testing.T) {
		b, err := NewTemporalFeatureBuilder("_prev", "_curr", true)
		require.NoError(t, err)

		out, err := b.FitTransform(temporalFrame(t))
		require.NoError(t, err)
		assert.False(t, out.HasColumn("income_prev"))
		assert.False(t, out.HasColumn("city_curr"))
		assert.True(t, out.HasColumn("delta_income"))
		assert.True(t, out.HasColumn("age"))
	})

	t.Run("drifted pairs warn and are skipped", func(t *testing.T) {
		b, err := NewTemporalFeatureBuilder("_prev", "_curr", false)
		require.NoError(t, err)
		require.NoError(t, b.Fit(temporalFrame(t)))

		warnings := captureWarnings(t)
		out, err := b.Transform(dataframe.MustNew(
			dataframe.NewFloats("income_prev", []float64{1}),
			dataframe.NewFloats("income_curr", []float64{2}),
		))
		require.NoError(t, err)
		assert.True(t, out.HasColumn("delta_income"))
		assert.False(t, out.HasColumn("changed_city"))
		assert.Len(t, *warnings, 1)
	})
}
