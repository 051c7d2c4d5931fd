package charts

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/edago/dataframe"
	"github.com/YuminosukeSato/edago/pkg/errors"
	"github.com/YuminosukeSato/edago/stats"
)

// skip emits the degrade warning shared by all chart functions.
func skip(chart, reason string) (*plot.Plot, error) {
	errors.Warn(errors.NewChartSkippedWarning(chart, reason))
	return nil, nil
}

// numericValues returns the column's non-missing values, or a skip reason.
func numericValues(df *dataframe.DataFrame, column string) ([]float64, string) {
	if df == nil || df.IsEmpty() {
		return nil, "table is empty"
	}
	s, ok := df.Column(column)
	if !ok {
		return nil, fmt.Sprintf("column '%s' not found", column)
	}
	if !s.DType().IsNumeric() {
		return nil, fmt.Sprintf("column '%s' is not numeric", column)
	}
	vals := s.FloatsDropMissing()
	if len(vals) == 0 {
		return nil, fmt.Sprintf("column '%s' has no non-missing values", column)
	}
	return vals, ""
}

// Histogram draws a value histogram of one numeric column.
func Histogram(df *dataframe.DataFrame, column string, opts *Options) (*plot.Plot, error) {
	vals, reason := numericValues(df, column)
	if reason != "" {
		return skip("Histogram", reason)
	}
	o := withDefaults(opts, "Distribution of "+column)

	p := plot.New()
	p.X.Label.Text = column
	p.Y.Label.Text = "count"

	var h *plotter.Histogram
	err := errors.SafeExecute("charts.Histogram", func() error {
		var err error
		h, err = plotter.NewHist(plotter.Values(vals), o.Bins)
		return err
	})
	if err != nil {
		return nil, err
	}
	h.FillColor = o.Color
	p.Add(h)
	return finish(p, o)
}

// BoxPlot draws side-by-side box plots of the given numeric columns. Columns
// that are absent, non-numeric, or fully missing are skipped with a warning.
func BoxPlot(df *dataframe.DataFrame, columns []string, opts *Options) (*plot.Plot, error) {
	if df == nil || df.IsEmpty() {
		return skip("BoxPlot", "table is empty")
	}

	var names []string
	var series [][]float64
	for _, column := range columns {
		vals, reason := numericValues(df, column)
		if reason != "" {
			errors.Warn(errors.NewChartSkippedWarning("BoxPlot", reason))
			continue
		}
		names = append(names, column)
		series = append(series, vals)
	}
	if len(names) == 0 {
		return skip("BoxPlot", "no plottable columns")
	}
	o := withDefaults(opts, "Value spread")

	p := plot.New()
	p.Y.Label.Text = "value"

	err := errors.SafeExecute("charts.BoxPlot", func() error {
		for i, vals := range series {
			b, err := plotter.NewBoxPlot(vg.Points(20), float64(i), plotter.Values(vals))
			if err != nil {
				return err
			}
			b.FillColor = o.Color
			p.Add(b)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	p.NominalX(names...)
	return finish(p, o)
}

// Aggregation methods accepted by Bar.
const (
	AggMean  = "mean"
	AggSum   = "sum"
	AggCount = "count"
)

// Bar draws one bar per level of groupColumn, aggregating valueColumn with
// the given method. With AggCount the value column may be empty; the bars
// then hold the per-level row counts. Groups appear in first-occurrence
// order.
func Bar(df *dataframe.DataFrame, groupColumn, valueColumn, method string, opts *Options) (*plot.Plot, error) {
	switch method {
	case AggMean, AggSum, AggCount:
	default:
		return nil, errors.NewValueError("charts.Bar",
			fmt.Sprintf("unknown aggregation method '%s'; use mean, sum, or count", method))
	}
	if df == nil || df.IsEmpty() {
		return skip("Bar", "table is empty")
	}
	group, ok := df.Column(groupColumn)
	if !ok {
		return skip("Bar", fmt.Sprintf("column '%s' not found", groupColumn))
	}

	var value *dataframe.Series
	if method != AggCount {
		value, ok = df.Column(valueColumn)
		if !ok {
			return skip("Bar", fmt.Sprintf("column '%s' not found", valueColumn))
		}
		if !value.DType().IsNumeric() {
			return skip("Bar", fmt.Sprintf("column '%s' is not numeric", valueColumn))
		}
	}

	var labels []string
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for i := 0; i < group.Len(); i++ {
		if group.IsMissing(i) {
			continue
		}
		if value != nil && value.IsMissing(i) {
			continue
		}
		label := fmt.Sprintf("%v", group.Value(i))
		if _, seen := counts[label]; !seen {
			labels = append(labels, label)
		}
		counts[label]++
		if value != nil {
			sums[label] += value.Float(i)
		}
	}
	if len(labels) == 0 {
		return skip("Bar", fmt.Sprintf("column '%s' has no non-missing values", groupColumn))
	}

	heights := make(plotter.Values, len(labels))
	for i, label := range labels {
		switch method {
		case AggMean:
			heights[i] = sums[label] / float64(counts[label])
		case AggSum:
			heights[i] = sums[label]
		default:
			heights[i] = float64(counts[label])
		}
	}

	title := fmt.Sprintf("%s of %s by %s", method, valueColumn, groupColumn)
	if method == AggCount {
		title = "count by " + groupColumn
	}
	o := withDefaults(opts, title)

	p := plot.New()
	p.X.Label.Text = groupColumn
	p.Y.Label.Text = method

	var bars *plotter.BarChart
	err := errors.SafeExecute("charts.Bar", func() error {
		var err error
		bars, err = plotter.NewBarChart(heights, vg.Points(25))
		return err
	})
	if err != nil {
		return nil, err
	}
	bars.Color = o.Color
	p.Add(bars)
	p.NominalX(labels...)
	return finish(p, o)
}

// corrGrid adapts a correlation matrix to the heatmap grid interface. NaN
// cells render as zero correlation.
type corrGrid struct {
	cm *stats.CorrMatrix
}

func (g corrGrid) Dims() (c, r int) { return g.cm.Len(), g.cm.Len() }
func (g corrGrid) X(c int) float64  { return float64(c) }
func (g corrGrid) Y(r int) float64  { return float64(r) }

func (g corrGrid) Z(c, r int) float64 {
	v := g.cm.At(r, c)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// labelTicks places one tick per feature index.
type labelTicks []string

func (l labelTicks) Ticks(min, max float64) []plot.Tick {
	var ts []plot.Tick
	for i, name := range l {
		v := float64(i)
		if v < min || v > max {
			continue
		}
		ts = append(ts, plot.Tick{Value: v, Label: name})
	}
	return ts
}

// CorrelationHeatmap draws the pairwise Pearson correlation matrix of the
// table's numeric columns on a diverging blue-red scale fixed to [-1, 1].
func CorrelationHeatmap(df *dataframe.DataFrame, opts *Options) (*plot.Plot, error) {
	if df == nil || df.IsEmpty() {
		return skip("CorrelationHeatmap", "table is empty")
	}
	cm, err := stats.CorrelationMatrix(df)
	if err != nil {
		return nil, err
	}
	if err := cm.Validate("charts.CorrelationHeatmap"); err != nil {
		return nil, err
	}
	if cm.Len() < 2 {
		return skip("CorrelationHeatmap", "fewer than two numeric columns")
	}
	o := withDefaults(opts, "Correlation matrix")

	cmSpec := moreland.SmoothBlueRed()
	cmSpec.SetMin(-1)
	cmSpec.SetMax(1)

	p := plot.New()
	var h *plotter.HeatMap
	err = errors.SafeExecute("charts.CorrelationHeatmap", func() error {
		h = plotter.NewHeatMap(corrGrid{cm}, cmSpec.Palette(255))
		return nil
	})
	if err != nil {
		return nil, err
	}
	h.Min, h.Max = -1, 1
	p.Add(h)

	features := cm.Features()
	p.X.Tick.Marker = labelTicks(features)
	p.X.Tick.Label.Rotation = math.Pi / 2
	p.X.Tick.Label.XAlign = -0.5
	p.Y.Tick.Marker = labelTicks(features)
	return finish(p, o)
}

// MissingnessChart draws a bar per column showing its percentage of missing
// cells, sorted most-missing first.
func MissingnessChart(df *dataframe.DataFrame, opts *Options) (*plot.Plot, error) {
	if df == nil || df.IsEmpty() {
		return skip("MissingnessChart", "table is empty")
	}
	mm := stats.Missingness(df)
	names := make([]string, len(mm))
	heights := make(plotter.Values, len(mm))
	for i, m := range mm {
		names[i] = m.Column
		heights[i] = m.Percent
	}
	o := withDefaults(opts, "Missing values per column")

	p := plot.New()
	p.Y.Label.Text = "% missing"
	p.Y.Max = 100

	var bars *plotter.BarChart
	err := errors.SafeExecute("charts.MissingnessChart", func() error {
		var err error
		bars, err = plotter.NewBarChart(heights, vg.Points(20))
		return err
	})
	if err != nil {
		return nil, err
	}
	bars.Color = o.Color
	p.Add(bars)
	p.NominalX(names...)
	return finish(p, o)
}

// CategoricalDistribution draws the level counts of one categorical, string,
// or bool column in first-occurrence order.
func CategoricalDistribution(df *dataframe.DataFrame, column string, opts *Options) (*plot.Plot, error) {
	if df == nil || df.IsEmpty() {
		return skip("CategoricalDistribution", "table is empty")
	}
	s, ok := df.Column(column)
	if !ok {
		return skip("CategoricalDistribution", fmt.Sprintf("column '%s' not found", column))
	}
	if s.DType().IsNumeric() {
		return skip("CategoricalDistribution", fmt.Sprintf("column '%s' is numeric; use Histogram", column))
	}

	var labels []string
	counts := make(map[string]int)
	for i := 0; i < s.Len(); i++ {
		if s.IsMissing(i) {
			continue
		}
		label := fmt.Sprintf("%v", s.Value(i))
		if _, seen := counts[label]; !seen {
			labels = append(labels, label)
		}
		counts[label]++
	}
	if len(labels) == 0 {
		return skip("CategoricalDistribution", fmt.Sprintf("column '%s' has no non-missing values", column))
	}

	heights := make(plotter.Values, len(labels))
	for i, label := range labels {
		heights[i] = float64(counts[label])
	}
	o := withDefaults(opts, "Distribution of "+column)

	p := plot.New()
	p.X.Label.Text = column
	p.Y.Label.Text = "count"

	var bars *plotter.BarChart
	err := errors.SafeExecute("charts.CategoricalDistribution", func() error {
		var err error
		bars, err = plotter.NewBarChart(heights, vg.Points(25))
		return err
	})
	if err != nil {
		return nil, err
	}
	bars.Color = o.Color
	p.Add(bars)
	p.NominalX(labels...)
	return finish(p, o)
}
