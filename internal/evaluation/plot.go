package evaluation

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// SavePlot writes a PNG (or any format gonum/plot infers from the
// extension) of mean, max and RMS error against feature dimension.
func SavePlot(points []Point, path string) error {
	if len(points) == 0 {
		return fmt.Errorf("no sweep points to plot")
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create plot directory: %w", err)
		}
	}

	p := plot.New()
	p.Title.Text = "Random Fourier features: kernel approximation error"
	p.X.Label.Text = "Feature dimension D"
	p.Y.Label.Text = "Absolute error"
	p.X.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}

	series := []struct {
		name  string
		value func(Point) float64
	}{
		{"mean", func(pt Point) float64 { return pt.MeanAbsError }},
		{"max", func(pt Point) float64 { return pt.MaxAbsError }},
		{"rmse", func(pt Point) float64 { return pt.RMSE }},
	}
	for i, s := range series {
		xys := make(plotter.XYs, len(points))
		for j, pt := range points {
			xys[j] = plotter.XY{X: float64(pt.DimFeatureSpace), Y: s.value(pt)}
		}
		line, scatter, err := plotter.NewLinePoints(xys)
		if err != nil {
			return fmt.Errorf("%s series: %w", s.name, err)
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(1)
		scatter.Color = plotutil.Color(i)
		p.Add(line, scatter)
		p.Legend.Add(s.name, line, scatter)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save plot: %w", err)
	}
	return nil
}

// RenderChart writes an interactive HTML line chart of the sweep to w.
func RenderChart(points []Point, w io.Writer) error {
	if len(points) == 0 {
		return fmt.Errorf("no sweep points to chart")
	}

	xs := make([]string, len(points))
	mean := make([]opts.LineData, len(points))
	peak := make([]opts.LineData, len(points))
	rmse := make([]opts.LineData, len(points))
	for i, pt := range points {
		xs[i] = strconv.Itoa(pt.DimFeatureSpace)
		mean[i] = opts.LineData{Value: pt.MeanAbsError}
		peak[i] = opts.LineData{Value: pt.MaxAbsError}
		rmse[i] = opts.LineData{Value: pt.RMSE}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "RFF approximation error", Width: "900px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: "Kernel approximation error", Subtitle: fmt.Sprintf("%d feature dimensions, %d pairs each", len(points), points[0].Pairs)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "D", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "abs error", NameLocation: "middle", NameGap: 40}),
	)
	line.SetXAxis(xs).
		AddSeries("mean", mean).
		AddSeries("max", peak).
		AddSeries("rmse", rmse)

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}
