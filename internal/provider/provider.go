// Package provider maps a semantic data key plus the current parameter state
// to the exact numeric series a plot must render. Two variants share one
// contract: a snapshot-stream provider driven by a single iteration slider,
// and a coefficient-table provider driven by a (neurons, hidden layers, adam
// iterations) composite key. Both are pure functions of (key, state, loaded
// data); nothing is cached that could desynchronize from a moved slider.
package provider

import (
	"errors"

	"github.com/jonxlegasa/nn-viewer/internal/params"
)

// ErrNoMatchingConfiguration reports a parameter combination with no backing
// data. The caller's contract is to hide the affected plot, not to raise it
// to the user.
var ErrNoMatchingConfiguration = errors.New("provider: no matching configuration")

// ErrUnknownDataKey reports a data key no plot slot should be asking for.
var ErrUnknownDataKey = errors.New("provider: unknown data key")

// Series is one labeled line: parallel x/y slices. The label doubles as the
// visibility-toggle key.
type Series struct {
	Label string
	X, Y  []float64
}

// Empty reports whether the series carries no points.
func (s Series) Empty() bool { return len(s.Y) == 0 }

// Bundle is the ordered set of series a single plot renders.
type Bundle []Series

// Empty reports whether every series in the bundle is empty.
func (b Bundle) Empty() bool {
	for _, s := range b {
		if !s.Empty() {
			return false
		}
	}
	return true
}

// Labels returns the series labels in bundle order.
func (b Bundle) Labels() []string {
	out := make([]string, len(b))
	for i, s := range b {
		out[i] = s.Label
	}
	return out
}

// Provider resolves a data key against the current parameter state.
type Provider interface {
	// Get returns the series for dataKey under st. A nil Bundle with a nil
	// error means the plot has nothing to show and should be hidden.
	Get(dataKey string, st *params.State) (Bundle, error)

	// DataKeys lists every key this provider can serve, in display order.
	DataKeys() []string

	// SeriesLabels lists every label this provider can emit, for visibility
	// checkbox registration.
	SeriesLabels() []string
}

// Display labels shared by both variants. The checkbox panel and the legend
// key off these exact strings.
const (
	LabelAnalytical     = "Analytical Solution"
	LabelBenchmark      = "Benchmark Series"
	LabelPINN           = "PINN Series"
	LabelPINNError      = "PINN Error"
	LabelCoeffBenchmark = "Benchmark"
	LabelCoeffPINN      = "PINN"
	LabelCoeffError     = "|Benchmark - PINN|"
	LabelTotalLoss      = "Total Loss"
	LabelBCLoss         = "BC Loss"
	LabelPDELoss        = "PDE Loss"
	LabelSupervised     = "Supervised Loss"
)
