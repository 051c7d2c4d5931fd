// Package stats provides descriptive statistics over a DataFrame: dtype and
// missingness summaries, pairwise Pearson correlation, and categorization of
// feature pairs into named correlation bands.
package stats

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/edago/core/parallel"
	"github.com/YuminosukeSato/edago/dataframe"
	"github.com/YuminosukeSato/edago/pkg/errors"
	"github.com/YuminosukeSato/edago/pkg/log"
)

// Band is a named half-open correlation interval [Min, Max). A band with
// Min < 0 or Max <= 0 is directional and is matched against the signed
// correlation value; otherwise it is matched against the absolute value.
type Band struct {
	Name string
	Min  float64
	Max  float64
}

// IsDirectional reports whether the band tests signed correlation.
func (b Band) IsDirectional() bool {
	return b.Min < 0 || b.Max <= 0
}

// Contains reports whether the correlation value matches the band.
func (b Band) Contains(value float64) bool {
	v := value
	if !b.IsDirectional() {
		v = math.Abs(value)
	}
	return b.Min <= v && v < b.Max
}

// Thresholds is an ordered list of bands. Order matters: a pair is assigned to
// the first matching band only. Bands need not be disjoint or exhaustive.
type Thresholds []Band

// The upper bounds use a small epsilon past 1.0 so that a correlation of
// exactly 1.0 or -1.0 is included.
const (
	includeOne = 1.000001
	nearlyOne  = 0.999999
)

// DefaultThresholds returns the ten-band directional table covering very-low
// through perfect positive and negative Pearson correlation.
func DefaultThresholds() Thresholds {
	return Thresholds{
		{Name: "very_low_positive", Min: 0.1, Max: 0.3},
		{Name: "very_low_negative", Min: -0.3, Max: -0.1},
		{Name: "low_positive", Min: 0.3, Max: 0.5},
		{Name: "low_negative", Min: -0.5, Max: -0.3},
		{Name: "medium_positive", Min: 0.5, Max: 0.7},
		{Name: "medium_negative", Min: -0.7, Max: -0.5},
		{Name: "high_positive", Min: 0.7, Max: includeOne},
		{Name: "high_negative", Min: -includeOne, Max: -0.7},
		{Name: "perfect_positive", Min: nearlyOne, Max: includeOne},
		{Name: "perfect_negative", Min: -includeOne, Max: -nearlyOne},
	}
}

// CorrPair is one categorized feature pair with its signed correlation value.
type CorrPair struct {
	FeatureA string
	FeatureB string
	Value    float64
}

// Report maps a band name to the pairs assigned to it. Every band name from
// the threshold table is present, possibly with an empty list.
type Report map[string][]CorrPair

// CorrMatrix is a square, symmetric Pearson correlation matrix with feature
// labels on both axes and a unit diagonal.
type CorrMatrix struct {
	names []string
	m     *mat.SymDense
}

// Features returns the feature labels in matrix order.
func (cm *CorrMatrix) Features() []string {
	return append([]string(nil), cm.names...)
}

// Len returns the number of features.
func (cm *CorrMatrix) Len() int { return len(cm.names) }

// At returns the correlation between features i and j.
func (cm *CorrMatrix) At(i, j int) float64 { return cm.m.At(i, j) }

// Validate checks the malformed-result contract: the matrix must be square
// with one label per row/column and no duplicate labels.
func (cm *CorrMatrix) Validate(op string) error {
	if cm.m == nil {
		if len(cm.names) == 0 {
			return nil
		}
		return errors.NewMalformedMatrixError(op, "labels without values")
	}
	n, c := cm.m.Dims()
	if n != c {
		return errors.NewMalformedMatrixError(op, "matrix is not square")
	}
	if n != len(cm.names) {
		return errors.NewMalformedMatrixError(op, "row/column labels do not match matrix size")
	}
	seen := make(map[string]struct{}, n)
	for _, name := range cm.names {
		if _, dup := seen[name]; dup {
			return errors.NewMalformedMatrixError(op, "duplicate feature label '"+name+"'")
		}
		seen[name] = struct{}{}
	}
	return nil
}

// CorrelationMatrix computes the pairwise Pearson correlation matrix over the
// numeric columns of df. Non-numeric columns are silently excluded. Each pair
// is computed over its complete observations (rows where both cells are
// non-missing); pairs with fewer than two complete observations yield NaN.
func CorrelationMatrix(df *dataframe.DataFrame) (*CorrMatrix, error) {
	if df == nil {
		return nil, errors.NewValueError("stats.CorrelationMatrix", "input table is nil")
	}
	names := df.NumericColumns()
	cm := &CorrMatrix{names: names}
	if len(names) == 0 {
		return cm, nil
	}

	cols := make([]*dataframe.Series, len(names))
	for i, name := range names {
		s, _ := df.Column(name)
		cols[i] = s
	}

	// Each (i, j) cell is written by exactly one worker, so the rows of the
	// lower triangle can be filled concurrently.
	cm.m = mat.NewSymDense(len(names), nil)
	parallel.ParallelizeWithThreshold(len(names), parallelColumnThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			cm.m.SetSym(i, i, 1.0)
			for j := 0; j < i; j++ {
				cm.m.SetSym(i, j, pairwiseCorrelation(cols[i], cols[j]))
			}
		}
	})
	return cm, nil
}

// Below this many numeric columns the pairwise loop runs sequentially.
const parallelColumnThreshold = 32

// pairwiseCorrelation computes Pearson correlation over the rows where both
// series are non-missing.
func pairwiseCorrelation(a, b *dataframe.Series) float64 {
	var x, y []float64
	for i := 0; i < a.Len(); i++ {
		if a.IsMissing(i) || b.IsMissing(i) {
			continue
		}
		x = append(x, a.Float(i))
		y = append(y, b.Float(i))
	}
	if len(x) < 2 {
		return math.NaN()
	}
	return stat.Correlation(x, y, nil)
}

// CategorizeCorrelations buckets every distinct unordered pair of numeric
// features into the first matching band of the threshold table. A nil or
// empty threshold table selects DefaultThresholds. Pairs whose correlation is
// not a finite number are skipped with a warning. Every band name appears in
// the returned report, possibly with an empty list; within a band, pairs
// follow the row-major lower-triangle traversal of the matrix.
func CategorizeCorrelations(df *dataframe.DataFrame, thresholds Thresholds) (Report, error) {
	logger := log.GetLoggerWithName("stats")

	cm, err := CorrelationMatrix(df)
	if err != nil {
		return nil, err
	}
	if err := cm.Validate("stats.CategorizeCorrelations"); err != nil {
		return nil, err
	}

	if len(thresholds) == 0 {
		thresholds = DefaultThresholds()
		logger.Debug("using default directional thresholds")
	}

	report := make(Report, len(thresholds))
	for _, band := range thresholds {
		report[band.Name] = make([]CorrPair, 0)
	}

	total := 0
	for i := 0; i < cm.Len(); i++ {
		for j := 0; j < i; j++ {
			value := cm.At(i, j)
			colA := cm.names[i]
			colB := cm.names[j]
			if math.IsNaN(value) || math.IsInf(value, 0) {
				errors.Warn(errors.NewNonFiniteCorrelationWarning(colA, colB, value))
				continue
			}
			for _, band := range thresholds {
				if band.Contains(value) {
					report[band.Name] = append(report[band.Name], CorrPair{
						FeatureA: colA,
						FeatureB: colB,
						Value:    value,
					})
					total++
					break
				}
			}
		}
	}

	logger.Info("categorized feature correlations",
		log.OperationKey, "categorize",
		log.ColumnsKey, cm.Len(),
		log.PairsKey, total,
	)
	return report, nil
}
