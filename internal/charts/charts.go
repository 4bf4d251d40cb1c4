// Package charts renders the dashboard charts with gonum/plot: the share
// line, the per-region bars and the per-year pie, as PNG images or as
// animated GIFs with one frame per year.
package charts

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"globalsouth/internal/dataset"
)

// Size is the rendered size of a chart.
type Size struct {
	Width, Height vg.Length
}

var (
	LineSize = Size{Width: 9 * vg.Inch, Height: 5 * vg.Inch}
	BarSize  = Size{Width: 7 * vg.Inch, Height: 5 * vg.Inch}
	PieSize  = Size{Width: 5 * vg.Inch, Height: 5 * vg.Inch}
)

var (
	primary   = color.RGBA{R: 46, G: 139, B: 87, A: 255}
	marker    = color.RGBA{R: 31, G: 110, B: 70, A: 255}
	minColor  = color.RGBA{R: 255, G: 99, B: 71, A: 255}
	maxColor  = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	fallback  = color.RGBA{R: 128, G: 128, B: 128, A: 255}
	errNoData = errors.New("no values to plot")
)

// ShareLine plots the Global South share for every year up to and including
// upTo. The axes cover the whole dataset so successive frames line up.
func ShareLine(d *dataset.Dataset, upTo int) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Global South share of global GDP"
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = "Year"
	p.Y.Label.Text = "GDP share (%)"
	p.Add(plotter.NewGrid())

	minYear, maxYear, ok := dataset.YearRange(d)
	if !ok {
		return nil, errNoData
	}
	p.X.Min = float64(minYear)
	p.X.Max = float64(maxYear)
	if minYear == maxYear {
		p.X.Min, p.X.Max = float64(minYear)-1, float64(maxYear)+1
	}

	lo, hi, ok := dataset.Extrema(d, dataset.Share)
	if !ok {
		lo, hi = 0, 100
	}
	p.Y.Min = math.Max(0, lo-5)
	p.Y.Max = math.Min(100, hi+5)

	var points plotter.XYs
	for _, rec := range dataset.UpTo(d, upTo) {
		if math.IsNaN(rec.Share) {
			continue
		}
		points = append(points, plotter.XY{X: float64(rec.Year), Y: rec.Share})
	}

	if len(points) > 0 {
		line, scatter, err := plotter.NewLinePoints(points)
		if err != nil {
			return nil, err
		}
		line.Color = primary
		line.Width = vg.Points(3)
		scatter.GlyphStyle.Color = marker
		scatter.GlyphStyle.Radius = vg.Points(4)
		scatter.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(line, scatter)
	}

	if ok {
		if err := addGuide(p, lo, minColor, fmt.Sprintf("Min (~%.1f%%)", lo)); err != nil {
			return nil, err
		}
		if err := addGuide(p, hi, maxColor, fmt.Sprintf("Max (~%.1f%%)", hi)); err != nil {
			return nil, err
		}
	}

	return p, nil
}

func addGuide(p *plot.Plot, y float64, c color.Color, text string) error {
	guide := plotter.NewFunction(func(float64) float64 { return y })
	guide.Color = c
	guide.Dashes = []vg.Length{vg.Points(5), vg.Points(5)}
	p.Add(guide)

	label, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    []plotter.XY{{X: p.X.Min, Y: y}},
		Labels: []string{text},
	})
	if err != nil {
		return err
	}
	p.Add(label)
	return nil
}

// RegionBars plots one bar per selected region for year. yMax fixes the
// vertical range so frames of an animation share a scale.
func RegionBars(d *dataset.Dataset, regions []dataset.Region, year int, yMax float64) (*plot.Plot, error) {
	records := dataset.YearSlice(d, year)
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %d", dataset.ErrNoDataForYear, year)
	}
	rec := records[0]

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Regional contribution, %d", year)
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.Y.Label.Text = "Contribution (%)"
	p.Add(plotter.NewGrid())

	names := make([]string, len(regions))
	for i, region := range regions {
		names[i] = string(region)

		v := dataset.Contribution(region)(rec)
		if math.IsNaN(v) {
			continue
		}
		bars, err := plotter.NewBarChart(plotter.Values{v}, vg.Points(40))
		if err != nil {
			return nil, err
		}
		bars.Color = hexColor(d.Color(region))
		bars.LineStyle.Width = vg.Length(0)
		bars.XMin = float64(i)
		p.Add(bars)

		label, err := plotter.NewLabels(plotter.XYLabels{
			XYs:    []plotter.XY{{X: float64(i), Y: v}},
			Labels: []string{fmt.Sprintf("%.1f%%", v)},
		})
		if err != nil {
			return nil, err
		}
		p.Add(label)
	}

	p.NominalX(names...)
	p.Y.Min = 0
	if yMax > 0 {
		p.Y.Max = yMax
	}
	return p, nil
}

// RegionPie plots each selected region's share of the selected total for
// year. An absent year is reported with dataset.ErrNoDataForYear.
func RegionPie(d *dataset.Dataset, regions []dataset.Region, year int) (*plot.Plot, error) {
	records := dataset.YearSlice(d, year)
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %d", dataset.ErrNoDataForYear, year)
	}
	rec := records[0]

	var total float64
	values := make([]float64, len(regions))
	for i, region := range regions {
		v := dataset.Contribution(region)(rec)
		if math.IsNaN(v) || v <= 0 {
			continue
		}
		values[i] = v
		total += v
	}
	if total == 0 {
		return nil, errNoData
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%d regional contribution share", year)
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.HideAxes()
	p.X.Min, p.X.Max = -1.3, 1.3
	p.Y.Min, p.Y.Max = -1.3, 1.3
	p.Legend.Top = true

	start := math.Pi / 2
	for i, region := range regions {
		if values[i] == 0 {
			continue
		}
		sweep := 2 * math.Pi * values[i] / total

		wedge, err := plotter.NewPolygon(wedgePoints(start, sweep))
		if err != nil {
			return nil, err
		}
		wedge.Color = hexColor(d.Color(region))
		wedge.LineStyle.Color = color.White
		wedge.LineStyle.Width = vg.Points(1)
		p.Add(wedge)
		p.Legend.Add(string(region), wedge)

		mid := start - sweep/2
		label, err := plotter.NewLabels(plotter.XYLabels{
			XYs:    []plotter.XY{{X: 0.6 * math.Cos(mid), Y: 0.6 * math.Sin(mid)}},
			Labels: []string{fmt.Sprintf("%.1f%%", 100*values[i]/total)},
		})
		if err != nil {
			return nil, err
		}
		p.Add(label)

		start -= sweep
	}

	return p, nil
}

// wedgePoints traces a unit-circle wedge clockwise from start.
func wedgePoints(start, sweep float64) plotter.XYs {
	steps := int(math.Ceil(sweep/(math.Pi/90))) + 1
	pts := make(plotter.XYs, 0, steps+2)
	pts = append(pts, plotter.XY{})
	for i := 0; i <= steps; i++ {
		a := start - sweep*float64(i)/float64(steps)
		pts = append(pts, plotter.XY{X: math.Cos(a), Y: math.Sin(a)})
	}
	return pts
}

// WritePNG renders p as PNG.
func WritePNG(w io.Writer, p *plot.Plot, size Size) error {
	wt, err := p.WriterTo(size.Width, size.Height, "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

func hexColor(hex string) color.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return fallback
	}
	return c
}
