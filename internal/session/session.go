// Package session assembles one viewer session from its configuration:
// load the source files, derive slider bounds from the data, wire the
// provider, parameter state, and coordinator together, and hand the result
// to whichever front end runs it.
package session

import (
	"fmt"

	"github.com/jonxlegasa/nn-viewer/internal/config"
	"github.com/jonxlegasa/nn-viewer/internal/loader"
	"github.com/jonxlegasa/nn-viewer/internal/params"
	"github.com/jonxlegasa/nn-viewer/internal/provider"
	"github.com/jonxlegasa/nn-viewer/internal/render"
	"github.com/jonxlegasa/nn-viewer/internal/series"
)

// Session is a fully wired viewer: mutate State, call Coordinator.Refresh,
// read plots out of Backend.
type Session struct {
	Title       string
	State       *params.State
	Provider    provider.Provider
	Coordinator *render.Coordinator
	Backend     *render.TermBackend
	Note        string // persistent status, e.g. analytical solution unavailable
}

// Plot dimensions for the terminal backend, in character cells.
const (
	plotWidth  = 72
	plotHeight = 12
)

// New builds the session the config's mode asks for.
func New(cfg *config.Config) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Mode {
	case "stream":
		return NewStream(cfg)
	case "sweep":
		return NewSweep(cfg)
	}
	return nil, fmt.Errorf("session: unknown mode %q", cfg.Mode)
}

// NewStream wires a single-run session: iteration slider over the snapshot
// range, stream provider, and the eight training plots.
func NewStream(cfg *config.Config) (*Session, error) {
	run, err := loader.LoadRun(cfg.Snapshots, cfg.Loss)
	if err != nil {
		return nil, err
	}
	xs := series.Linspace(cfg.XRange.Min, cfg.XRange.Max, cfg.Points)
	prov := provider.NewStreamProvider(run.Store, run.Alpha, run.Benchmark, xs)

	store := run.Store
	state := params.NewState(params.SliderSpec{
		Name:  provider.SliderIteration,
		Label: "Iteration",
		Min:   float64(store.MinIteration()),
		Max:   float64(store.MaxIteration()),
		Step:  float64(store.Step()),
		Init:  float64(cfg.Initial.Iteration),
	})

	backend := render.NewTermBackend(plotWidth, plotHeight)
	coord := render.New(render.StreamSlots(), prov, state, backend)

	note := ""
	if err := prov.Degenerate(); err != nil {
		note = "analytical solution unavailable: " + err.Error()
	}
	return &Session{
		Title:       "PINN ODE Training Analysis",
		State:       state,
		Provider:    prov,
		Coordinator: coord,
		Backend:     backend,
		Note:        note,
	}, nil
}

// NewSweep wires a hyperparameter-sweep session: three sliders derived from
// the loaded key space and the table provider.
func NewSweep(cfg *config.Config) (*Session, error) {
	if len(cfg.TrueCoefficients) == 0 {
		return nil, fmt.Errorf("session: sweep mode needs true_coefficients")
	}
	sweep, err := loader.LoadSweep(cfg.Table, cfg.TableLoss)
	if err != nil {
		return nil, err
	}
	xs := series.Linspace(cfg.XRange.Min, cfg.XRange.Max, cfg.Points)
	prov := provider.NewTableProvider(sweep.Coefficients, sweep.Loss, cfg.TrueCoefficients, xs)

	specs := prov.SliderSpecs()
	applyInitial(specs, cfg.Initial)
	state := params.NewState(specs...)

	backend := render.NewTermBackend(plotWidth, plotHeight)
	coord := render.New(render.SweepSlots(sweep.Loss != nil), prov, state, backend)

	return &Session{
		Title:       "PINNs Power Series Analysis",
		State:       state,
		Provider:    prov,
		Coordinator: coord,
		Backend:     backend,
	}, nil
}

func applyInitial(specs []params.SliderSpec, init config.InitState) {
	for i := range specs {
		switch specs[i].Name {
		case provider.SliderNeurons:
			if init.Neurons != 0 {
				specs[i].Init = float64(init.Neurons)
			}
		case provider.SliderHiddenLayers:
			if init.HiddenLayers != 0 {
				specs[i].Init = float64(init.HiddenLayers)
			}
		case provider.SliderAdamIterations:
			if init.AdamIterations != 0 {
				specs[i].Init = float64(init.AdamIterations)
			}
		}
	}
}
