package preprocessing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/edago/dataframe"
	"github.com/YuminosukeSato/edago/pkg/errors"
)

func TestNewImputer(t *testing.T) {
	_, err := NewImputer("p99", UseMode())
	assert.Error(t, err)

	im, err := NewImputer(StrategyMean, UseMode())
	require.NoError(t, err)
	assert.False(t, im.IsFitted())
}

func TestImputerNumeric(t *testing.T) {
	nan := math.NaN()

	t.Run("median round trip", func(t *testing.T) {
		df := dataframe.MustNew(
			dataframe.NewFloats("a", []float64{1, 2, nan, 3, 4}),
			dataframe.NewFloats("b", []float64{10, 20, 30, 40, 50}),
		)
		im, err := NewImputer(StrategyMedian, UseMode())
		require.NoError(t, err)

		out, err := im.FitTransform(df)
		require.NoError(t, err)

		a, _ := out.Column("a")
		assert.InDelta(t, 2.5, a.Float(2), 1e-9)
		assert.Zero(t, a.MissingCount())

		// clean column learns no fill and is untouched
		_, learned := im.NumericFills["b"]
		assert.False(t, learned)
		b, _ := out.Column("b")
		assert.Equal(t, 10.0, b.Float(0))
	})

	t.Run("mean strategy", func(t *testing.T) {
		df := dataframe.MustNew(
			dataframe.NewFloats("a", []float64{1, 2, nan, 4}),
		)
		im, err := NewImputer(StrategyMean, UseMode())
		require.NoError(t, err)

		out, err := im.FitTransform(df)
		require.NoError(t, err)
		a, _ := out.Column("a")
		assert.InDelta(t, 7.0/3.0, a.Float(2), 1e-9)
	})

	t.Run("mode strategy with first-encountered tie break", func(t *testing.T) {
		df := dataframe.MustNew(
			dataframe.NewFloats("a", []float64{3, 1, 3, 1, nan}),
		)
		im, err := NewImputer(StrategyMode, UseMode())
		require.NoError(t, err)

		out, err := im.FitTransform(df)
		require.NoError(t, err)
		a, _ := out.Column("a")
		assert.Equal(t, 3.0, a.Float(4))
	})

	t.Run("all-missing numeric column falls back to zero", func(t *testing.T) {
		warnings := captureWarnings(t)
		df := dataframe.MustNew(
			dataframe.NewFloats("ghost", []float64{nan, nan}),
		)
		im, err := NewImputer(StrategyMode, UseMode())
		require.NoError(t, err)

		out, err := im.FitTransform(df)
		require.NoError(t, err)
		ghost, _ := out.Column("ghost")
		assert.Equal(t, 0.0, ghost.Float(0))

		require.NotEmpty(t, *warnings)
		var w *errors.ModeFallbackWarning
		assert.ErrorAs(t, (*warnings)[0], &w)
	})

	t.Run("all-missing column never learns a NaN fill", func(t *testing.T) {
		for _, strategy := range []NumericStrategy{StrategyMean, StrategyMedian} {
			t.Run(string(strategy), func(t *testing.T) {
				warnings := captureWarnings(t)
				df := dataframe.MustNew(
					dataframe.NewFloats("ghost", []float64{nan, nan, nan}),
				)
				im, err := NewImputer(strategy, UseMode())
				require.NoError(t, err)

				out, err := im.FitTransform(df)
				require.NoError(t, err)
				assert.Equal(t, 0.0, im.NumericFills["ghost"])

				ghost, _ := out.Column("ghost")
				assert.Equal(t, 0, ghost.MissingCount())
				assert.Equal(t, 0.0, ghost.Float(0))

				require.NotEmpty(t, *warnings)
				var w *errors.ModeFallbackWarning
				assert.ErrorAs(t, (*warnings)[0], &w)
				assert.Equal(t, "ghost", w.Column)
			})
		}
	})
}

func TestImputerCategorical(t *testing.T) {
	t.Run("mode fill", func(t *testing.T) {
		df := dataframe.MustNew(mustFromValues(t, "city", []any{"Tokyo", "Osaka", "Tokyo", nil}))
		im, err := NewImputer(StrategyMean, UseMode())
		require.NoError(t, err)

		out, err := im.FitTransform(df)
		require.NoError(t, err)
		city, _ := out.Column("city")
		assert.Equal(t, "Tokyo", city.Str(3))
	})

	t.Run("constant fill", func(t *testing.T) {
		df := dataframe.MustNew(mustFromValues(t, "city", []any{"Tokyo", nil}))
		im, err := NewImputer(StrategyMean, FillWith("N/A"))
		require.NoError(t, err)

		out, err := im.FitTransform(df)
		require.NoError(t, err)
		city, _ := out.Column("city")
		assert.Equal(t, "N/A", city.Str(1))
	})

	t.Run("bool column uses its mode", func(t *testing.T) {
		df := dataframe.MustNew(mustFromValues(t, "flag", []any{true, true, false, nil}))
		im, err := NewImputer(StrategyMean, UseMode())
		require.NoError(t, err)

		out, err := im.FitTransform(df)
		require.NoError(t, err)
		flag, _ := out.Column("flag")
		assert.True(t, flag.Bool(3))
	})
}

func TestImputerIdempotence(t *testing.T) {
	nan := math.NaN()
	df := dataframe.MustNew(
		dataframe.NewFloats("a", []float64{1, 2, nan, 3, 4}),
	)
	im, err := NewImputer(StrategyMedian, UseMode())
	require.NoError(t, err)

	once, err := im.FitTransform(df)
	require.NoError(t, err)
	twice, err := im.Transform(once)
	require.NoError(t, err)

	a1, _ := once.Column("a")
	a2, _ := twice.Column("a")
	for i := 0; i < a1.Len(); i++ {
		assert.Equal(t, a1.Float(i), a2.Float(i), "row %d", i)
	}
}

func TestImputerMissingPolicy(t *testing.T) {
	nan := math.NaN()
	clean := dataframe.MustNew(dataframe.NewFloats("a", []float64{1, 2, 3}))
	dirty := dataframe.MustNew(dataframe.NewFloats("a", []float64{1, nan, 5}))

	t.Run("ignore leaves values missing with a warning", func(t *testing.T) {
		im, err := NewImputer(StrategyMean, UseMode())
		require.NoError(t, err)
		require.NoError(t, im.Fit(clean))

		warnings := captureWarnings(t)
		out, err := im.Transform(dirty)
		require.NoError(t, err)
		a, _ := out.Column("a")
		assert.True(t, a.IsMissing(1))

		require.Len(t, *warnings, 1)
		var w *errors.UnimputedColumnWarning
		assert.ErrorAs(t, (*warnings)[0], &w)
	})

	t.Run("error policy fails the transform", func(t *testing.T) {
		im, err := NewImputer(StrategyMean, UseMode())
		require.NoError(t, err)
		im.SetMissingPolicy(MissingError)
		require.NoError(t, im.Fit(clean))

		_, err = im.Transform(dirty)
		assert.Error(t, err)
	})

	t.Run("refit policy fills from the new table", func(t *testing.T) {
		im, err := NewImputer(StrategyMean, UseMode())
		require.NoError(t, err)
		im.SetMissingPolicy(MissingRefit)
		require.NoError(t, im.Fit(clean))

		out, err := im.Transform(dirty)
		require.NoError(t, err)
		a, _ := out.Column("a")
		assert.InDelta(t, 3.0, a.Float(1), 1e-9)
	})
}

func TestImputerTransformBeforeFit(t *testing.T) {
	im, err := NewImputer(StrategyMean, UseMode())
	require.NoError(t, err)

	_, err = im.Transform(dataframe.MustNew())
	var nf *errors.NotFittedError
	assert.ErrorAs(t, err, &nf)
}

func mustFromValues(t *testing.T, name string, vals []any) *dataframe.Series {
	t.Helper()
	s, err := dataframe.FromValues(name, vals)
	require.NoError(t, err)
	return s
}
