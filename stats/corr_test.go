package stats

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/edago/dataframe"
	"github.com/YuminosukeSato/edago/pkg/errors"
)

// captureWarnings routes the package warning channel into a slice for the
// duration of the test.
func captureWarnings(t *testing.T) *[]error {
	t.Helper()
	var got []error
	errors.SetWarningHandler(func(w error) {
		got = append(got, w)
	})
	t.Cleanup(func() { errors.SetWarningHandler(nil) })
	return &got
}

func TestDefaultThresholds(t *testing.T) {
	bands := DefaultThresholds()
	require.Len(t, bands, 10)

	t.Run("every reportable value matches at least one band", func(t *testing.T) {
		for v := -1.0; v <= 1.0; v += 0.001 {
			if math.Abs(v) < 0.1 {
				continue // below the weakest band on purpose
			}
			matched := false
			for _, b := range bands {
				if b.Contains(v) {
					matched = true
					break
				}
			}
			assert.True(t, matched, "no band for %v", v)
		}
	})

	t.Run("exact one and minus one are included", func(t *testing.T) {
		first := func(v float64) string {
			for _, b := range bands {
				if b.Contains(v) {
					return b.Name
				}
			}
			return ""
		}
		// high bands precede the perfect bands in the table, so they win.
		assert.Equal(t, "high_positive", first(1.0))
		assert.Equal(t, "high_negative", first(-1.0))
		assert.Equal(t, "medium_negative", first(-0.6))
	})
}

func TestBandContains(t *testing.T) {
	t.Run("non-directional bands match absolute value", func(t *testing.T) {
		b := Band{Name: "strong", Min: 0.7, Max: 1.1}
		assert.False(t, b.IsDirectional())
		assert.True(t, b.Contains(0.8))
		assert.True(t, b.Contains(-0.8))
		assert.False(t, b.Contains(0.5))
	})

	t.Run("directional bands match signed value", func(t *testing.T) {
		b := Band{Name: "neg", Min: -0.5, Max: -0.3}
		assert.True(t, b.IsDirectional())
		assert.True(t, b.Contains(-0.4))
		assert.False(t, b.Contains(0.4))
	})

	t.Run("interval is closed below open above", func(t *testing.T) {
		b := Band{Name: "x", Min: 0.3, Max: 0.5}
		assert.True(t, b.Contains(0.3))
		assert.False(t, b.Contains(0.5))
	})
}

func TestCorrelationMatrix(t *testing.T) {
	t.Run("symmetric with unit diagonal", func(t *testing.T) {
		df := dataframe.MustNew(
			dataframe.NewFloats("a", []float64{1, 2, 3, 4}),
			dataframe.NewFloats("b", []float64{2, 4, 5, 9}),
			dataframe.NewFloats("c", []float64{4, 3, 2, 1}),
		)
		cm, err := CorrelationMatrix(df)
		require.NoError(t, err)
		require.NoError(t, cm.Validate("test"))

		for i := 0; i < cm.Len(); i++ {
			assert.InDelta(t, 1.0, cm.At(i, i), 1e-12)
			for j := 0; j < cm.Len(); j++ {
				assert.InDelta(t, cm.At(i, j), cm.At(j, i), 1e-12)
			}
		}
	})

	t.Run("pairwise complete observations", func(t *testing.T) {
		nan := math.NaN()
		df := dataframe.MustNew(
			dataframe.NewFloats("a", []float64{1, 2, nan, 4}),
			dataframe.NewFloats("b", []float64{2, 4, 100, 8}),
		)
		cm, err := CorrelationMatrix(df)
		require.NoError(t, err)
		// the row with the missing cell (and its outlier) is excluded
		assert.InDelta(t, 1.0, cm.At(0, 1), 1e-9)
	})

	t.Run("fewer than two complete observations yields NaN", func(t *testing.T) {
		nan := math.NaN()
		df := dataframe.MustNew(
			dataframe.NewFloats("a", []float64{1, nan, nan}),
			dataframe.NewFloats("b", []float64{nan, 2, 3}),
		)
		cm, err := CorrelationMatrix(df)
		require.NoError(t, err)
		assert.True(t, math.IsNaN(cm.At(0, 1)))
	})

	t.Run("wide tables agree with the sequential path", func(t *testing.T) {
		// enough columns to cross the parallel threshold
		cols := make([]*dataframe.Series, 40)
		for i := range cols {
			f := float64(i + 1)
			cols[i] = dataframe.NewFloats(fmt.Sprintf("c%02d", i),
				[]float64{f, 2 * f, 3*f + 1, f * f, 5})
		}
		cm, err := CorrelationMatrix(dataframe.MustNew(cols...))
		require.NoError(t, err)

		for i := 0; i < cm.Len(); i++ {
			assert.InDelta(t, 1.0, cm.At(i, i), 1e-12)
			for j := 0; j < i; j++ {
				want := pairwiseCorrelation(cols[i], cols[j])
				assert.InDelta(t, want, cm.At(i, j), 1e-12)
			}
		}
	})

	t.Run("non-numeric columns are excluded", func(t *testing.T) {
		df := dataframe.MustNew(
			dataframe.NewFloats("a", []float64{1, 2}),
			dataframe.NewStrings("s", []string{"x", "y"}),
		)
		cm, err := CorrelationMatrix(df)
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, cm.Features())
	})
}

func TestCategorizeCorrelations(t *testing.T) {
	t.Run("every band key is present", func(t *testing.T) {
		df := dataframe.MustNew(
			dataframe.NewFloats("a", []float64{1, 2, 3}),
			dataframe.NewFloats("b", []float64{1, 2, 3}),
		)
		report, err := CategorizeCorrelations(df, nil)
		require.NoError(t, err)
		require.Len(t, report, 10)
		for _, band := range DefaultThresholds() {
			_, ok := report[band.Name]
			assert.True(t, ok, "band %s missing from report", band.Name)
		}
	})

	t.Run("each pair lands in exactly one band", func(t *testing.T) {
		df := dataframe.MustNew(
			dataframe.NewFloats("a", []float64{1, 2, 3, 4, 5}),
			dataframe.NewFloats("b", []float64{2, 1, 4, 3, 6}),
			dataframe.NewFloats("c", []float64{5, 4, 3, 2, 1}),
		)
		report, err := CategorizeCorrelations(df, nil)
		require.NoError(t, err)

		total := 0
		for _, pairs := range report {
			total += len(pairs)
		}
		// three numeric columns make three distinct pairs
		assert.Equal(t, 3, total)
	})

	t.Run("perfectly correlated pair", func(t *testing.T) {
		df := dataframe.MustNew(
			dataframe.NewFloats("x", []float64{1, 2, 3, 4}),
			dataframe.NewFloats("y", []float64{2, 4, 6, 8}),
		)
		report, err := CategorizeCorrelations(df, nil)
		require.NoError(t, err)

		require.Len(t, report["high_positive"], 1)
		pair := report["high_positive"][0]
		assert.Equal(t, "y", pair.FeatureA)
		assert.Equal(t, "x", pair.FeatureB)
		assert.InDelta(t, 1.0, pair.Value, 1e-9)
	})

	t.Run("pair on a closed band lower bound", func(t *testing.T) {
		// r(A_03, A_12) is exactly 0.5, the inclusive floor of medium_positive.
		df := dataframe.MustNew(
			dataframe.NewFloats("A_03", []float64{1, 2, 3}),
			dataframe.NewFloats("A_12", []float64{1, 5, 3}),
		)
		report, err := CategorizeCorrelations(df, nil)
		require.NoError(t, err)

		require.Len(t, report["medium_positive"], 1)
		pair := report["medium_positive"][0]
		assert.Equal(t, "A_12", pair.FeatureA)
		assert.Equal(t, "A_03", pair.FeatureB)
		assert.InDelta(t, 0.5, pair.Value, 1e-9)

		total := 0
		for _, pairs := range report {
			total += len(pairs)
		}
		assert.Equal(t, 1, total)
	})

	t.Run("column order does not change assignments", func(t *testing.T) {
		a := dataframe.NewFloats("a", []float64{1, 2, 3, 4, 7})
		b := dataframe.NewFloats("b", []float64{2, 1, 4, 3, 9})
		fwd, err := CategorizeCorrelations(dataframe.MustNew(a, b), nil)
		require.NoError(t, err)
		rev, err := CategorizeCorrelations(dataframe.MustNew(b.Copy(), a.Copy()), nil)
		require.NoError(t, err)

		for name := range fwd {
			require.Len(t, rev[name], len(fwd[name]), "band %s", name)
			for i := range fwd[name] {
				assert.InDelta(t, fwd[name][i].Value, rev[name][i].Value, 1e-12)
			}
		}
	})

	t.Run("non-finite correlation is skipped with a warning", func(t *testing.T) {
		warnings := captureWarnings(t)
		nan := math.NaN()
		df := dataframe.MustNew(
			dataframe.NewFloats("a", []float64{1, nan, nan}),
			dataframe.NewFloats("b", []float64{nan, 2, 3}),
		)
		report, err := CategorizeCorrelations(df, nil)
		require.NoError(t, err)

		for name, pairs := range report {
			assert.Empty(t, pairs, "band %s", name)
		}
		require.Len(t, *warnings, 1)
		var w *errors.NonFiniteCorrelationWarning
		assert.ErrorAs(t, (*warnings)[0], &w)
	})

	t.Run("custom thresholds use first match", func(t *testing.T) {
		df := dataframe.MustNew(
			dataframe.NewFloats("x", []float64{1, 2, 3, 4}),
			dataframe.NewFloats("y", []float64{2, 4, 6, 8}),
		)
		custom := Thresholds{
			{Name: "wide", Min: 0, Max: 1.1},
			{Name: "narrow", Min: 0.9, Max: 1.1},
		}
		report, err := CategorizeCorrelations(df, custom)
		require.NoError(t, err)
		assert.Len(t, report["wide"], 1)
		assert.Empty(t, report["narrow"])
	})
}
