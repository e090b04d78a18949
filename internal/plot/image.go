package plot

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	imageWidth  = 1024
	imageHeight = 640
)

func lineStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: 2,
		StrokeColor: col,
		DotWidth:    3,
		DotColor:    col,
	}
}

func rendererFor(kind string) (chart.RendererProvider, error) {
	switch strings.ToLower(kind) {
	case "png":
		return chart.PNG, nil
	case "svg":
		return chart.SVG, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedPlotType, kind)
}

func buildChart(s Series) (chart.Chart, error) {
	if len(s.X) < 2 || len(s.X) != len(s.Y) {
		return chart.Chart{}, fmt.Errorf("%w: got %d", ErrTooFewPoints, len(s.Y))
	}

	yAxis := chart.YAxis{Name: s.YAxisLabel()}
	lo, hi := Bounds(s.Y)
	if lo == hi {
		yAxis.Range = &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
	}

	ch := chart.Chart{
		Title:      s.Name,
		Width:      imageWidth,
		Height:     imageHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}},
		XAxis:      chart.XAxis{Name: s.XLabel},
		YAxis:      yAxis,
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    s.YLabel,
				XValues: s.X,
				YValues: s.Y,
				Style:   lineStyle(chart.ColorBlue),
			},
		},
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch, nil
}

// Render writes the series as a png or svg image.
func Render(w io.Writer, s Series, kind string) error {
	provider, err := rendererFor(kind)
	if err != nil {
		return err
	}
	ch, err := buildChart(s)
	if err != nil {
		return err
	}
	return ch.Render(provider, w)
}

// WriteImage renders the series to path, creating its directory.
func WriteImage(path string, s Series, kind string) error {
	if _, err := rendererFor(kind); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Render(f, s, kind); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
