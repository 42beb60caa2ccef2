package compare

import (
	"errors"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var ErrNothingToPlot = errors.New("no pair has a wildtype prediction")

// PlotScatter draws log10 mutant Kd against log10 wildtype Kd, with the
// identity line for reference, and saves it to path. The image format follows
// the file extension.
func PlotScatter(pairs []Pair, path string) error {
	var xys plotter.XYs
	for _, p := range pairs {
		if _, ok := p.Amplitude(); !ok || p.Wildtype.Affinity <= 0 {
			continue
		}
		xys = append(xys, plotter.XY{X: math.Log10(p.Mutant.Affinity), Y: math.Log10(p.Wildtype.Affinity)})
	}
	if len(xys) == 0 {
		return ErrNothingToPlot
	}

	pl := plot.New()
	pl.Title.Text = "Mutant vs wildtype binding affinity"
	pl.X.Label.Text = "log10 mutant Kd (nM)"
	pl.Y.Label.Text = "log10 wildtype Kd (nM)"

	s, err := plotter.NewScatter(xys)
	if err != nil {
		return err
	}
	s.GlyphStyle.Shape = draw.CircleGlyph{}
	s.GlyphStyle.Radius = vg.Points(2)
	s.GlyphStyle.Color = color.RGBA{R: 200, B: 40, A: 255}

	identity := plotter.NewFunction(func(x float64) float64 { return x })
	identity.LineStyle.Dashes = []vg.Length{vg.Millimeter * 1.4}
	identity.LineStyle.Color = color.Gray{Y: 120}

	pl.Add(plotter.NewGrid(), s, identity)
	return pl.Save(12*vg.Centimeter, 12*vg.Centimeter, path)
}
