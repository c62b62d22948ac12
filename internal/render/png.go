package render

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/1pactus/netstat/internal/series"
)

var ErrNoPoints = errors.New("chart has no points")

const (
	chartWidth  = 1024
	chartHeight = 400
	dateLayout  = "2006-01-02"
)

// PNG renders one chart as a line graph over its dates.
func PNG(w io.Writer, c series.Chart) error {
	points := c.Series.Points
	if len(points) == 0 {
		return fmt.Errorf("%s: %w", c.Series.Metric, ErrNoPoints)
	}

	xs := make([]time.Time, len(points))
	ys := make([]float64, len(points))
	minY, maxY := points[0].Value, points[0].Value
	for i, p := range points {
		t, err := time.Parse(dateLayout, p.Date)
		if err != nil {
			return fmt.Errorf("invalid point date %q: %w", p.Date, err)
		}
		xs[i], ys[i] = t, p.Value
		minY, maxY = min(minY, p.Value), max(maxY, p.Value)
	}
	// go-chart needs a non-zero range on both axes.
	if len(xs) == 1 {
		xs = append(xs, xs[0].Add(24*time.Hour))
		ys = append(ys, ys[0])
	}
	var yRange *chart.ContinuousRange
	if minY == maxY {
		yRange = &chart.ContinuousRange{Min: minY - 1, Max: maxY + 1}
	}

	graph := chart.Chart{
		Title:  c.Title,
		Width:  chartWidth,
		Height: chartHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: chart.XAxis{ValueFormatter: chart.TimeDateValueFormatter},
		YAxis: chart.YAxis{Name: c.Label, Range: yRange},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    c.Label,
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: chart.ColorBlue,
					StrokeWidth: 2,
				},
			},
		},
	}
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render %s: %w", c.Series.Metric, err)
	}
	return nil
}

// WritePNGs renders every non-empty chart to <dir>/<metric>.png and returns
// the written paths.
func WritePNGs(dir string, charts []series.Chart) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}

	var written []string
	for _, c := range charts {
		if len(c.Series.Points) == 0 {
			continue
		}
		path := filepath.Join(dir, string(c.Series.Metric)+".png")
		if err := writePNG(path, c); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func writePNG(path string, c series.Chart) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := PNG(f, c); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
