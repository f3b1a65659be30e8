// Package traceplot draws sampler traces as histograms.
package traceplot

import (
	"errors"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Options control the histogram plot.
type Options struct {
	// Title of the plot.
	Title string
	// Bins is the number of histogram bins.
	Bins int
	// Reference is drawn as a vertical line unless it is NaN.
	Reference float64
	// ReferenceLabel is the legend entry for the reference line.
	ReferenceLabel string
	// Density is drawn over the histogram if set.
	Density func(float64) float64
	// DensityLabel is the legend entry for the density.
	DensityLabel string
}

// NewOptions returns default options without a reference line.
func NewOptions(title string) *Options {
	return &Options{
		Title:     title,
		Bins:      50,
		Reference: math.NaN(),
	}
}

// Histogram creates a normalized histogram of samples in [0, 1].
func Histogram(samples []float64, opts *Options) (*plot.Plot, error) {
	if len(samples) == 0 {
		return nil, errors.New("no samples to plot")
	}
	if opts.Bins < 1 {
		return nil, errors.New("number of bins should be >= 1")
	}

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = "p"
	p.Y.Label.Text = "density"

	h, err := plotter.NewHist(plotter.Values(samples), opts.Bins)
	if err != nil {
		return nil, err
	}
	h.Normalize(1)
	h.FillColor = color.Gray{Y: 200}
	p.Add(h)
	p.Legend.Add("samples", h)

	ymax := 0.0
	for _, b := range h.Bins {
		ymax = math.Max(ymax, b.Weight)
	}

	if opts.Density != nil {
		f := plotter.NewFunction(opts.Density)
		f.XMin = 0
		f.XMax = 1
		f.Samples = 200
		f.Color = color.RGBA{B: 200, A: 255}
		f.Width = vg.Points(1.5)
		p.Add(f)
		if opts.DensityLabel != "" {
			p.Legend.Add(opts.DensityLabel, f)
		}
		for i := 0; i <= f.Samples; i++ {
			if y := opts.Density(float64(i) / float64(f.Samples)); !math.IsInf(y, 0) && !math.IsNaN(y) {
				ymax = math.Max(ymax, y)
			}
		}
	}

	if !math.IsNaN(opts.Reference) {
		l, err := plotter.NewLine(plotter.XYs{
			{X: opts.Reference, Y: 0},
			{X: opts.Reference, Y: ymax},
		})
		if err != nil {
			return nil, err
		}
		l.Color = color.RGBA{R: 220, A: 255}
		l.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
		l.Width = vg.Points(1.5)
		p.Add(l)
		if opts.ReferenceLabel != "" {
			p.Legend.Add(opts.ReferenceLabel, l)
		}
	}

	p.X.Min = 0
	p.X.Max = 1
	p.Y.Min = 0
	p.Legend.Top = true
	return p, nil
}

// Save writes the plot to a file, the format is chosen by extension
// (png, svg, pdf, ...).
func Save(p *plot.Plot, fn string) error {
	return p.Save(6*vg.Inch, 4*vg.Inch, fn)
}

// Write writes the plot in the given format.
func Write(p *plot.Plot, w io.Writer, format string) error {
	wt, err := p.WriterTo(6*vg.Inch, 4*vg.Inch, format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}
