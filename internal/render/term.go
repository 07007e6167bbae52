package render

import (
	"math"

	"github.com/guptarohit/asciigraph"
)

// semilogFloor keeps log-scaled values finite; matches the floor applied to
// loss curves before plotting.
const semilogFloor = 1e-10

// TermBackend renders slots to terminal text with asciigraph. It implements
// Backend; the TUI (and the plot subcommand) pull finished blocks out of it
// after each refresh.
type TermBackend struct {
	width   int
	height  int
	artists map[string][]*termArtist // per slot, in creation order
	redraws int
}

// NewTermBackend sizes the backend's plot area. Width and height are per
// plot, in character cells.
func NewTermBackend(width, height int) *TermBackend {
	return &TermBackend{
		width:   width,
		height:  height,
		artists: make(map[string][]*termArtist),
	}
}

// Resize adjusts the per-plot dimensions.
func (b *TermBackend) Resize(width, height int) {
	if width > 0 {
		b.width = width
	}
	if height > 0 {
		b.height = height
	}
}

// NewArtist creates the line artist for one (slot, label) pair.
func (b *TermBackend) NewArtist(slotID, label string) Artist {
	a := &termArtist{label: label}
	b.artists[slotID] = append(b.artists[slotID], a)
	return a
}

// RequestRedraw counts batched redraw requests. Terminal output is pulled,
// not pushed, so the count is the whole story; tests use it to assert one
// redraw per refresh.
func (b *TermBackend) RequestRedraw() { b.redraws++ }

// Redraws returns how many batched redraws have been requested.
func (b *TermBackend) Redraws() int { return b.redraws }

// Render returns the asciigraph block for one slot, or "" when every artist
// in it is hidden. Semilog slots plot log10 of floored values.
func (b *TermBackend) Render(slot Slot) string {
	var data [][]float64
	var legend []string
	for _, a := range b.artists[slot.ID] {
		if !a.visible || len(a.y) == 0 {
			continue
		}
		ys := a.y
		if slot.Kind == Semilog {
			ys = logScale(ys)
		}
		data = append(data, ys)
		legend = append(legend, a.label)
	}
	if len(data) == 0 {
		return ""
	}
	caption := slot.Title
	if slot.Kind == Semilog {
		caption += " (log10 " + slot.YLabel + ")"
	}
	return asciigraph.PlotMany(data,
		asciigraph.Height(b.height),
		asciigraph.Width(b.width),
		asciigraph.Caption(caption),
		asciigraph.SeriesLegends(legend...),
	)
}

func logScale(ys []float64) []float64 {
	out := make([]float64, len(ys))
	for i, y := range ys {
		if y < semilogFloor || math.IsNaN(y) {
			y = semilogFloor
		}
		out[i] = math.Log10(y)
	}
	return out
}

type termArtist struct {
	label   string
	x, y    []float64
	visible bool
}

func (a *termArtist) SetData(x, y []float64) {
	a.x = x
	a.y = y
}

func (a *termArtist) SetVisible(visible bool) { a.visible = visible }
