package main

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/SFUStatgen/TJ2022/likelihood"
)

// plotCurve writes a likelihood-vs-tau curve to a PNG file.
func plotCurve(points []likelihood.Point, fileName string) error {
	p, err := plot.New()
	if err != nil {
		return err
	}
	p.X.Label.Text = "tau"
	p.Y.Label.Text = "likelihood"

	pts := make(plotter.XYs, len(points))
	for i, pt := range points {
		pts[i].X = pt.Tau
		pts[i].Y = pt.Likelihood
	}

	if err := plotutil.AddLinePoints(p, "likelihood", pts); err != nil {
		return err
	}
	return p.Save(6*vg.Inch, 4*vg.Inch, fileName)
}
