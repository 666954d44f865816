package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// shades from faint to solid; index 0 is used for exact zero.
var shades = []rune{' ', '░', '▒', '▓', '█'}

const nonFiniteGlyph = '×'

// Heatmap draws an n*n row-major scalar field as cols x rows glyphs.
// Each glyph covers a block of cells and shows the value of largest
// magnitude in it, scaled against the largest finite magnitude overall.
// Signed data uses the theme's diverging ramp. Non-finite cells are
// marked with ×. Returns "" when values does not hold n*n entries.
func Heatmap(values []float64, n, cols, rows int, signed bool) string {
	if n < 1 || len(values) < n*n || cols < 1 || rows < 1 {
		return ""
	}
	cols = min(cols, n)
	rows = min(rows, n)

	scale := Scale(values)
	theme := CurrentTheme
	bad := lipgloss.NewStyle().Foreground(theme.Error)

	var b strings.Builder
	for r := 0; r < rows; r++ {
		y0, y1 := r*n/rows, (r+1)*n/rows
		for c := 0; c < cols; c++ {
			x0, x1 := c*n/cols, (c+1)*n/cols

			v, finite := peak(values, n, x0, x1, y0, y1)
			if !finite {
				b.WriteString(bad.Render(string(nonFiniteGlyph)))
				continue
			}
			b.WriteString(cell(v, scale, signed, theme))
		}
		if r < rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// peak returns the value of largest magnitude within the block, and
// false if the block holds a non-finite value.
func peak(values []float64, n, x0, x1, y0, y1 int) (float64, bool) {
	best := 0.0
	for y := y0; y < y1; y++ {
		row := values[y*n : y*n+n]
		for x := x0; x < x1; x++ {
			v := row[x]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return 0, false
			}
			if math.Abs(v) > math.Abs(best) {
				best = v
			}
		}
	}
	return best, true
}

func cell(v, scale float64, signed bool, theme Theme) string {
	if v == 0 || scale == 0 {
		return string(shades[0])
	}
	t := math.Abs(v) / scale
	idx := 1 + int(t*float64(len(shades)-2)+0.5)
	idx = max(1, min(idx, len(shades)-1))

	var color lipgloss.Color
	switch {
	case !signed:
		color = blend(theme.Low, theme.High, t)
	case v < 0:
		color = blend(theme.Low, theme.Negative, t)
	default:
		color = blend(theme.Low, theme.Positive, t)
	}
	return lipgloss.NewStyle().Foreground(color).Render(string(shades[idx]))
}

// Scale returns the largest finite magnitude in values.
func Scale(values []float64) float64 {
	scale := 0.0
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		scale = max(scale, math.Abs(v))
	}
	return scale
}

// Legend describes the colour ramp of a heatmap with the given scale.
func Legend(scale float64, signed bool) string {
	theme := CurrentTheme
	if !signed {
		return fmt.Sprintf("%s 0 .. %.4g", lipgloss.NewStyle().Foreground(theme.High).Render("█"), scale)
	}
	neg := lipgloss.NewStyle().Foreground(theme.Negative).Render("█")
	pos := lipgloss.NewStyle().Foreground(theme.Positive).Render("█")
	return fmt.Sprintf("%s -%.4g .. %s +%.4g", neg, scale, pos, scale)
}

// Speed returns the per-cell velocity magnitude.
func Speed(vx, vy []float64) []float64 {
	out := make([]float64, min(len(vx), len(vy)))
	for i := range out {
		out[i] = math.Hypot(vx[i], vy[i])
	}
	return out
}
