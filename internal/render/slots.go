// Package render owns the plot slots and decides, on every state change,
// which plots must be redrawn, hidden, or left untouched. It is the only
// package that talks to the rendering backend, and it does so through two
// small interfaces so the engine stays independent of how lines actually
// get drawn.
package render

import (
	"github.com/jonxlegasa/nn-viewer/internal/provider"
	"github.com/jonxlegasa/nn-viewer/internal/snapshot"
)

// Kind selects the y-axis scaling of a slot.
type Kind int

const (
	Line Kind = iota
	Semilog
)

// Slot binds a data key and a rendering style to one plot position. Slots
// are built from a static list at construction time and never mutated
// afterwards except for visibility.
type Slot struct {
	ID      string
	DataKey string
	Title   string
	XLabel  string
	YLabel  string
	Kind    Kind
}

// StreamSlots returns the eight plot slots of the single-run view: function
// and coefficient comparisons on top, the four loss channels below.
func StreamSlots() []Slot {
	slots := []Slot{
		{ID: "function", DataKey: provider.KeyFunctionComparison,
			Title: "ODE Solution Comparison", XLabel: "x", YLabel: "u(x)", Kind: Line},
		{ID: "function_error", DataKey: provider.KeyFunctionError,
			Title: "Absolute Error of Solution", XLabel: "x", YLabel: "|Error|", Kind: Semilog},
		{ID: "coefficients", DataKey: provider.KeyCoefficientComparison,
			Title: "Coefficient Comparison", XLabel: "Coefficient Index", YLabel: "Coefficient Value", Kind: Line},
		{ID: "coefficient_error", DataKey: provider.KeyCoefficientError,
			Title: "Coefficient Error", XLabel: "Coefficient Index", YLabel: "|Error|", Kind: Semilog},
	}
	titles := map[string]string{
		snapshot.ChannelTotal:      "Total Loss",
		snapshot.ChannelBC:         "BC Loss",
		snapshot.ChannelPDE:        "PDE Loss",
		snapshot.ChannelSupervised: "Supervised Loss",
	}
	for _, ch := range snapshot.Channels {
		slots = append(slots, Slot{
			ID:      "loss_" + ch,
			DataKey: provider.KeyLossPrefix + ch,
			Title:   titles[ch],
			XLabel:  "Iteration",
			YLabel:  "Loss",
			Kind:    Semilog,
		})
	}
	return slots
}

// SweepSlots returns the plot slots of the hyperparameter-sweep view.
// includeLoss adds the overlay and per-channel loss plots when the sweep data
// carries a loss mapping.
func SweepSlots(includeLoss bool) []Slot {
	slots := []Slot{
		{ID: "solutions", DataKey: provider.KeySolutions,
			Title: "ODE Solution Comparison", XLabel: "x", YLabel: "u(x)", Kind: Line},
		{ID: "coefficients", DataKey: provider.KeyCoeffComparisons,
			Title: "Coefficient Comparison", XLabel: "Coefficient Index", YLabel: "Coefficient Value", Kind: Line},
		{ID: "coefficient_error", DataKey: provider.KeyCoeffErrors,
			Title: "Coefficient Error", XLabel: "Coefficient Index", YLabel: "Absolute Error", Kind: Semilog},
		{ID: "solution_error", DataKey: provider.KeySolutionErrors,
			Title: "Solution Error", XLabel: "x", YLabel: "Error", Kind: Semilog},
	}
	if includeLoss {
		slots = append(slots,
			Slot{ID: "loss", DataKey: provider.KeyLossOverlay,
				Title: "Training Loss", XLabel: "Iteration", YLabel: "Loss", Kind: Semilog},
			Slot{ID: "loss_bc", DataKey: provider.KeyLossChannelPrefix + snapshot.ChannelBC,
				Title: "BC Loss", XLabel: "Iteration", YLabel: "Loss", Kind: Semilog},
			Slot{ID: "loss_pde", DataKey: provider.KeyLossChannelPrefix + snapshot.ChannelPDE,
				Title: "PDE Loss", XLabel: "Iteration", YLabel: "Loss", Kind: Semilog},
			Slot{ID: "loss_supervised", DataKey: provider.KeyLossChannelPrefix + snapshot.ChannelSupervised,
				Title: "Supervised Loss", XLabel: "Iteration", YLabel: "Loss", Kind: Semilog},
		)
	}
	return slots
}
