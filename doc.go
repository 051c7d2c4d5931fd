// Package edago provides exploratory data analysis and preprocessing for
// tabular data in Go.
//
// Edago pairs a small typed DataFrame with scikit-learn-style fit/transform
// steps: learn column drop-lists, fill values, and dtype conversions from a
// reference table once, then replay them on any table sharing the fitted
// schema. A correlation categorizer sorts feature pairs into named strength
// bands, and a charts package renders the usual EDA plots.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/edago/dataframe"
//	    "github.com/YuminosukeSato/edago/preprocessing"
//	    "github.com/YuminosukeSato/edago/stats"
//	)
//
//	func main() {
//	    df := dataframe.MustNew(
//	        dataframe.NewFloats("age", []float64{34, 29, 41}),
//	        dataframe.NewFloats("income", []float64{52000, 48000, 67000}),
//	    )
//
//	    report, err := stats.CategorizeCorrelations(df, nil)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(report["high_positive"])
//
//	    dropper, err := preprocessing.NewHighMissingColumnDropper(50)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    cleaned, err := dropper.FitTransform(df)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(cleaned)
//	}
//
// # Packages
//
// The library is organized into several packages:
//
//   - dataframe: typed columns with per-cell missingness
//   - stats: correlation categorizer, dtype and missingness summaries
//   - preprocessing: fit/transform cleaning steps and the Pipeline
//   - charts: gonum/plot wrappers for the standard EDA figures
//   - pkg/errors: structured errors and the soft-warning channel
//   - pkg/log: structured logging helpers
//
// Steps never mutate their input; Transform returns a new frame. Soft
// conditions such as schema drift or an empty table surface as warnings on
// the pkg/errors warning channel while processing continues.
package edago
