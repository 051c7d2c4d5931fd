// Package charts renders exploratory plots for a DataFrame on top of
// gonum.org/v1/plot: value histograms, box plots, grouped bars, a correlation
// heatmap, and missingness and category-distribution overviews.
//
// Chart functions degrade instead of failing: when a requested column is
// absent or has the wrong dtype the function emits a warning and returns a
// nil plot with a nil error. Only configuration mistakes, such as an unknown
// aggregation method, are reported as errors. When Options.SavePath is set
// the plot is also rendered to that file; otherwise the caller receives the
// figure handle and decides how to render it.
package charts

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
)

// Options carries the cosmetic settings shared by all chart functions. The
// zero value is usable; unset fields fall back to package defaults.
type Options struct {
	// Title is the plot title. Defaults to a chart-specific title built
	// from the column names.
	Title string

	// Width and Height are the rendered size. Defaults are 6x4 inches.
	Width  vg.Length
	Height vg.Length

	// Bins is the histogram bin count. Defaults to 30.
	Bins int

	// Color fills bars and boxes. Defaults to a muted blue.
	Color color.Color

	// SavePath, when non-empty, renders the plot to this file. The format
	// follows the file extension (png, svg, pdf, ...).
	SavePath string
}

var defaultFill = color.RGBA{R: 70, G: 130, B: 180, A: 255}

// withDefaults returns a copy of o with unset fields filled in.
func withDefaults(o *Options, title string) Options {
	out := Options{}
	if o != nil {
		out = *o
	}
	if out.Title == "" {
		out.Title = title
	}
	if out.Width == 0 {
		out.Width = 6 * vg.Inch
	}
	if out.Height == 0 {
		out.Height = 4 * vg.Inch
	}
	if out.Bins <= 0 {
		out.Bins = 30
	}
	if out.Color == nil {
		out.Color = defaultFill
	}
	return out
}

// finish applies the title and renders to SavePath when configured.
func finish(p *plot.Plot, opts Options) (*plot.Plot, error) {
	p.Title.Text = opts.Title
	if opts.SavePath != "" {
		if err := p.Save(opts.Width, opts.Height, opts.SavePath); err != nil {
			return nil, err
		}
	}
	return p, nil
}
