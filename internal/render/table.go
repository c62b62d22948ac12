// Package render draws projected charts for a terminal or as PNG files.
package render

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/1pactus/netstat/internal/series"
)

// Table writes one summary row per chart: caption, point count, covered
// days and the most recent value.
func Table(w io.Writer, charts []series.Chart) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "METRIC\tPOINTS\tFROM\tTO\tLATEST")
	for _, c := range charts {
		points := c.Series.Points
		from, to, latest := "-", "-", "-"
		if n := len(points); n > 0 {
			from, to = points[0].Date, points[n-1].Date
			latest = formatValue(points[n-1].Value)
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", c.Title, len(points), from, to, latest)
	}
	return tw.Flush()
}

// Detail writes every point of a single chart under its caption.
func Detail(w io.Writer, c series.Chart) error {
	if _, err := fmt.Fprintf(w, "%s\n%s\n\n", c.Title, c.Description); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "DATE\t%s\n", c.Label)
	for _, p := range c.Series.Points {
		fmt.Fprintf(tw, "%s\t%s\n", p.Date, formatValue(p.Value))
	}
	return tw.Flush()
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
