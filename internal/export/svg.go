// Package export renders serum curves as standalone SVG charts.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/physiosim/internal/serum"
)

// palette cycles per compound; the total always draws last in white.
var palette = []string{"#00d7ff", "#ffaf00", "#87ff5f", "#ff5fd7", "#af87ff", "#ff5f5f"}

const totalStroke = "#f5f5f5"

type point struct{ X, Y float64 }

// SerumSVG draws every compound curve and the total against days. The Y axis
// starts at zero so curves of different compounds stay comparable.
func SerumSVG(res *serum.Result, width, height int) string {
	if res == nil || len(res.Hours) < 2 || width <= 0 || height <= 0 {
		return ""
	}

	maxX := res.Hours[len(res.Hours)-1] / 24
	maxY := 0.0
	for _, v := range res.Total {
		maxY = max(maxY, v)
	}
	if maxX == 0 {
		maxX = 1
	}
	if maxY == 0 {
		maxY = 1
	}
	maxY *= 1.1

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	for i, c := range res.Compounds {
		writePath(&sb, c, palette[i%len(palette)], toPoints(res.Hours, res.Levels[c]), maxX, maxY, width, height)
	}
	writePath(&sb, serum.SeriesTotal, totalStroke, toPoints(res.Hours, res.Total), maxX, maxY, width, height)

	fmt.Fprintf(&sb, `<text x="8" y="16" fill="#888" font-family="monospace" font-size="12">peak %.0f mg · %.0f days</text>
</svg>`, maxY/1.1, maxX)
	return sb.String()
}

// WriteSerumSVG writes the chart to w.
func WriteSerumSVG(w io.Writer, res *serum.Result, width, height int) error {
	svg := SerumSVG(res, width, height)
	if svg == "" {
		return fmt.Errorf("export: nothing to draw")
	}
	_, err := io.WriteString(w, svg)
	return err
}

func toPoints(hours, values []float64) []point {
	n := min(len(hours), len(values))
	pts := make([]point, n)
	for i := 0; i < n; i++ {
		pts[i] = point{X: hours[i] / 24, Y: values[i]}
	}
	return pts
}

func writePath(sb *strings.Builder, id, stroke string, pts []point, maxX, maxY float64, width, height int) {
	if len(pts) < 2 {
		return
	}
	fmt.Fprintf(sb, `<path data-series="%s" fill="none" stroke="%s" stroke-width="1.5" d="M`, id, stroke)
	for i, p := range pts {
		x := p.X / maxX * float64(width)
		y := float64(height) - p.Y/maxY*float64(height)
		if i == 0 {
			fmt.Fprintf(sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(sb, " L%.1f,%.1f", x, y)
		}
	}
	sb.WriteString("\"/>\n")
}
