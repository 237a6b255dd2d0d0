package main

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/Noofbiz/quasarprep/datasets"
	"github.com/Noofbiz/quasarprep/prep"
	"github.com/Noofbiz/quasarprep/store"
)

// histBins is the number of redshift histogram bins.
const histBins = 60

// writePlots writes the sample spectrum on both grids, one redshift
// histogram per subset and a z_vi against z_pipe scatter of the validation
// subset.
func writePlots(outDir string, src store.Reader, rep *prep.Report) error {
	if err := ensureDir(outDir); err != nil {
		return err
	}
	if err := plotSample(filepath.Join(outDir, "sample_spectrum.png"), rep); err != nil {
		return err
	}
	for _, s := range rep.Partition.Subsets() {
		name := datasets.SplitName(datasets.ZVIName, s.Suffix)
		z, err := src.ReadFloat64(name)
		if err != nil {
			return err
		}
		path := filepath.Join(outDir, name+".png")
		title := fmt.Sprintf("Visual redshift, %s subset (%d spectra)", s.Name, z.Rows())
		if err := plotHistogram(path, title, z.Data); err != nil {
			return err
		}
	}
	return plotRedshifts(filepath.Join(outDir, "z_vi_vs_z_pipe_va.png"), src, "va")
}

// plotSample overlays the native (grey) and resampled (blue) flux of the
// report's sample spectrum.
func plotSample(path string, rep *prep.Report) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Spectrum %v: native (grey), resampled (blue)", rep.Sample.ID)
	p.X.Label.Text = "log10(wavelength)"
	p.Y.Label.Text = "flux"

	native, err := plotter.NewLine(gridXYs(rep.Native, rep.Sample.Flux))
	if err != nil {
		return err
	}
	native.Color = color.RGBA{R: 120, G: 120, B: 120, A: 180}
	native.Width = vg.Points(0.6)
	p.Add(native)
	p.Legend.Add(fmt.Sprintf("native (%d)", len(rep.Native)), native)

	resampled, err := plotter.NewLine(gridXYs(rep.Output, rep.Sample.X))
	if err != nil {
		return err
	}
	resampled.Color = color.RGBA{R: 20, G: 80, B: 200, A: 220}
	resampled.Width = vg.Points(1.2)
	p.Add(resampled)
	p.Legend.Add(fmt.Sprintf("resampled (%d)", len(rep.Output)), resampled)

	p.Add(plotter.NewGrid())
	return p.Save(10*vg.Inch, 5*vg.Inch, path)
}

// plotHistogram skips the file when no value is finite.
func plotHistogram(path, title string, values []float64) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "z"
	p.Y.Label.Text = "count"

	vs := finiteValues(values)
	if len(vs) == 0 {
		return nil
	}
	h, err := plotter.NewHist(vs, histBins)
	if err != nil {
		return err
	}
	h.FillColor = color.RGBA{R: 20, G: 80, B: 200, A: 160}
	p.Add(h)
	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}

// plotRedshifts scatters z_pipe against z_vi for one subset with the
// z_pipe = z_vi diagonal for reference.
func plotRedshifts(path string, src store.Reader, suffix string) error {
	zvi, err := src.ReadFloat64(datasets.SplitName(datasets.ZVIName, suffix))
	if err != nil {
		return err
	}
	zpipe, err := src.ReadFloat64(datasets.SplitName(datasets.ZPipeName, suffix))
	if err != nil {
		return err
	}

	pts := make(plotter.XYs, 0, len(zvi.Data))
	lo, hi := math.Inf(1), math.Inf(-1)
	for i := range zvi.Data {
		x, y := zvi.Data[i], zpipe.Data[i]
		if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
			continue
		}
		pts = append(pts, plotter.XY{X: x, Y: y})
		lo, hi = math.Min(lo, math.Min(x, y)), math.Max(hi, math.Max(x, y))
	}
	if len(pts) == 0 {
		return nil
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Pipeline vs visual redshift (%s)", suffix)
	p.X.Label.Text = "z_vi"
	p.Y.Label.Text = "z_pipe"

	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	sc.GlyphStyle.Color = color.RGBA{R: 200, G: 30, B: 30, A: 120}
	sc.GlyphStyle.Radius = vg.Points(1)
	p.Add(sc)

	diag, err := plotter.NewLine(plotter.XYs{{X: lo, Y: lo}, {X: hi, Y: hi}})
	if err != nil {
		return err
	}
	diag.Color = color.RGBA{R: 120, G: 120, B: 120, A: 255}
	diag.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(diag)
	p.Add(plotter.NewGrid())
	return p.Save(6*vg.Inch, 6*vg.Inch, path)
}

func gridXYs(grid []float64, values []float32) plotter.XYs {
	n := min(len(grid), len(values))
	xys := make(plotter.XYs, 0, n)
	for i := range n {
		y := float64(values[i])
		if math.IsNaN(y) || math.IsInf(y, 0) {
			continue
		}
		xys = append(xys, plotter.XY{X: grid[i], Y: y})
	}
	return xys
}

// finiteValues drops NaN and Inf, which plotter.NewHist rejects.
func finiteValues(values []float64) plotter.Values {
	out := make(plotter.Values, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

func ensureDir(path string) error {
	if path == "" {
		return nil
	}
	return os.MkdirAll(path, 0755)
}
