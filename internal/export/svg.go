package export

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var ErrTooFewSamples = errors.New("export: need at least two finite samples")

// SeriesSVG plots values against ticks as an SVG line chart. Non-finite
// samples break the line. The y range gets 10% padding on each side.
func SeriesSVG(ticks []int, values []float64, width, height int, title, stroke string) (string, error) {
	n := min(len(ticks), len(values))

	minY, maxY := math.Inf(1), math.Inf(-1)
	finite := 0
	for _, v := range values[:n] {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		minY = min(minY, v)
		maxY = max(maxY, v)
		finite++
	}
	if finite < 2 {
		return "", ErrTooFewSamples
	}

	minX, maxX := float64(ticks[0]), float64(ticks[n-1])
	rangeX := maxX - minX
	if rangeX == 0 {
		rangeX = 1
	}
	lo, hi := minY, maxY
	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))
	if title != "" {
		sb.WriteString(fmt.Sprintf(`<text x="8" y="16" fill="#888899" font-family="monospace" font-size="12">%s</text>
`, escape(title)))
	}
	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="`, stroke))

	pen := "M"
	for i := 0; i < n; i++ {
		v := values[i]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			pen = "M"
			continue
		}
		x := (float64(ticks[i]) - minX) / rangeX * float64(width)
		y := float64(height) - (v-minY)/rangeY*float64(height)
		sb.WriteString(fmt.Sprintf("%s%.1f,%.1f ", pen, x, y))
		pen = "L"
	}

	sb.WriteString(`"/>
<text x="8" y="` + fmt.Sprint(height-8) + `" fill="#666688" font-family="monospace" font-size="10">`)
	sb.WriteString(fmt.Sprintf("%.4g .. %.4g", lo, hi))
	sb.WriteString("</text>\n</svg>")
	return sb.String(), nil
}

func escape(s string) string {
	return strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;").Replace(s)
}
