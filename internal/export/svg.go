// Package export writes plot slots to standalone SVG files, so a view found
// interactively can be kept as a static artifact.
package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/jonxlegasa/nn-viewer/internal/provider"
	"github.com/jonxlegasa/nn-viewer/internal/render"
	"github.com/jonxlegasa/nn-viewer/internal/theme"
)

// Default series palette, cycled when a bundle has more lines than colors.
var palette = []string{"#4fc3f7", "#66bb6a", "#ff8a65", "#ef5350", "#42a5f5", "#e0e0e0"}

// SlotToSVG renders one slot's bundle as an SVG line chart. Semilog slots
// plot log10 of values floored at 1e-10, like the interactive view. An empty
// bundle yields "".
func SlotToSVG(slot render.Slot, bundle provider.Bundle, th theme.Theme, width, height int) string {
	var drawn []provider.Series
	for _, s := range bundle {
		if !s.Empty() {
			drawn = append(drawn, s)
		}
	}
	if len(drawn) == 0 {
		return ""
	}

	// Shared bounds over every series, y transformed for semilog slots.
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	ys := make([][]float64, len(drawn))
	for i, s := range drawn {
		ys[i] = make([]float64, len(s.Y))
		for j, y := range s.Y {
			if slot.Kind == render.Semilog {
				if y < 1e-10 || math.IsNaN(y) {
					y = 1e-10
				}
				y = math.Log10(y)
			}
			ys[i][j] = y
			if !math.IsNaN(y) {
				minY = math.Min(minY, y)
				maxY = math.Max(maxY, y)
			}
		}
		for _, x := range s.X {
			minX = math.Min(minX, x)
			maxX = math.Max(maxX, x)
		}
	}
	if maxX == minX {
		maxX = minX + 1
	}
	if maxY == minY {
		maxY = minY + 1
	}
	padY := (maxY - minY) * 0.05
	minY -= padY
	maxY += padY

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, th.Background)
	fmt.Fprintf(&sb, `<text x="%d" y="18" fill="%s" font-family="monospace" font-size="14">%s</text>
`, width/2-len(slot.Title)*4, th.Text, slot.Title)

	const margin = 30.0
	plotW := float64(width) - 2*margin
	plotH := float64(height) - 2*margin

	for i, s := range drawn {
		color := palette[i%len(palette)]
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, color)
		for j := range s.X {
			px := margin + (s.X[j]-minX)/(maxX-minX)*plotW
			py := margin + plotH - (ys[i][j]-minY)/(maxY-minY)*plotH
			if math.IsNaN(py) {
				py = margin + plotH
			}
			if j == 0 {
				fmt.Fprintf(&sb, "%.1f,%.1f", px, py)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", px, py)
			}
		}
		sb.WriteString("\"/>\n")
		fmt.Fprintf(&sb, `<text x="%.0f" y="%.0f" fill="%s" font-family="monospace" font-size="11">%s</text>
`, margin, float64(height)-8-float64(len(drawn)-1-i)*13, color, s.Label)
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}
