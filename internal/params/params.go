// Package params holds the mutable UI-parameter record: current slider
// values and per-series visibility flags. It is the single source of truth
// for what should be displayed right now; every data-assembly call reads it
// and only widget-event handlers mutate it.
package params

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrUnknownSlider reports a set on a slider name that was never configured.
var ErrUnknownSlider = errors.New("params: unknown slider")

// SliderSpec describes one slider: its bounds, step, and initial value.
// Values are clamped to [Min, Max] and snapped to multiples of Step from Min.
type SliderSpec struct {
	Name  string
	Label string
	Min   float64
	Max   float64
	Step  float64
	Init  float64
}

// Snap clamps v to the spec's bounds and snaps it to the nearest valid step.
// A value snapped past Max steps back down, so the result is always the
// nearest valid multiple <= Max.
func (s SliderSpec) Snap(v float64) float64 {
	if v < s.Min {
		v = s.Min
	}
	if v > s.Max {
		v = s.Max
	}
	if s.Step <= 0 {
		return v
	}
	k := math.Round((v - s.Min) / s.Step)
	v = s.Min + k*s.Step
	for v > s.Max {
		v -= s.Step
	}
	if v < s.Min {
		v = s.Min
	}
	return v
}

// State is the mutable record of slider values and visibility flags.
// Not safe for concurrent use; all mutation happens on the host event loop.
type State struct {
	specs  map[string]SliderSpec
	order  []string
	values map[string]float64

	visibility map[string]bool
	labels     []string // known labels in registration order

	observers []func(Event) error
}

// EventKind tags a state-change notification.
type EventKind int

const (
	EventSlider EventKind = iota
	EventVisibility
	EventReset
)

// Event describes one state transition. SelectAll/DeselectAll and Reset emit
// a single event for the whole atomic update.
type Event struct {
	Kind    EventKind
	Slider  string
	Value   float64
	Label   string
	Visible bool
}

// NewState builds a State from slider specs, with every slider at its
// initial value and no series labels registered yet.
func NewState(specs ...SliderSpec) *State {
	st := &State{
		specs:      make(map[string]SliderSpec, len(specs)),
		values:     make(map[string]float64, len(specs)),
		visibility: make(map[string]bool),
	}
	for _, s := range specs {
		st.specs[s.Name] = s
		st.order = append(st.order, s.Name)
		st.values[s.Name] = s.Snap(s.Init)
	}
	return st
}

// Subscribe registers an observer for state changes. Observer failures are
// returned to the mutating caller instead of being discarded, so broken
// wiring is visible to tests. The observer list lives and dies with the
// State.
func (st *State) Subscribe(fn func(Event) error) {
	st.observers = append(st.observers, fn)
}

func (st *State) notify(ev Event) error {
	var errs []error
	for _, fn := range st.observers {
		if err := fn(ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SetSlider clamps and snaps value for the named slider and stores it.
// It reports whether the effective value changed, so callers can skip
// redundant redraws, along with any observer error. Unknown names fail
// without touching state.
func (st *State) SetSlider(name string, value float64) (changed bool, err error) {
	spec, ok := st.specs[name]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownSlider, name)
	}
	snapped := spec.Snap(value)
	if snapped == st.values[name] {
		return false, nil
	}
	st.values[name] = snapped
	return true, st.notify(Event{Kind: EventSlider, Slider: name, Value: snapped})
}

// Value returns the current value of the named slider.
func (st *State) Value(name string) (float64, bool) {
	v, ok := st.values[name]
	return v, ok
}

// IntValue returns the named slider value rounded to int, for iteration and
// count sliders.
func (st *State) IntValue(name string) (int, bool) {
	v, ok := st.values[name]
	return int(math.Round(v)), ok
}

// Spec returns the configuration of the named slider.
func (st *State) Spec(name string) (SliderSpec, bool) {
	s, ok := st.specs[name]
	return s, ok
}

// SliderNames returns slider names in configuration order.
func (st *State) SliderNames() []string {
	return append([]string(nil), st.order...)
}

// RegisterLabel makes a series label known to the visibility set, visible by
// default. Registering an existing label is a no-op.
func (st *State) RegisterLabel(label string) {
	if _, ok := st.visibility[label]; ok {
		return
	}
	st.visibility[label] = true
	st.labels = append(st.labels, label)
}

// Visible reports the flag for a label. Labels never registered are treated
// as visible: a label absent from the current plot set is ignored, not an
// error.
func (st *State) Visible(label string) bool {
	v, ok := st.visibility[label]
	if !ok {
		return true
	}
	return v
}

// SetVisibility sets the flag for a known label. Idempotent: setting the
// same value twice notifies once. Unknown labels are ignored.
func (st *State) SetVisibility(label string, visible bool) error {
	cur, ok := st.visibility[label]
	if !ok || cur == visible {
		return nil
	}
	st.visibility[label] = visible
	return st.notify(Event{Kind: EventVisibility, Label: label, Visible: visible})
}

// ToggleVisibility flips the flag for a known label.
func (st *State) ToggleVisibility(label string) error {
	cur, ok := st.visibility[label]
	if !ok {
		return nil
	}
	st.visibility[label] = !cur
	return st.notify(Event{Kind: EventVisibility, Label: label, Visible: !cur})
}

// SelectAll marks every known label visible in one atomic update followed by
// a single notification.
func (st *State) SelectAll() error { return st.setAll(true) }

// DeselectAll marks every known label hidden in one atomic update followed
// by a single notification.
func (st *State) DeselectAll() error { return st.setAll(false) }

func (st *State) setAll(visible bool) error {
	changed := false
	for _, label := range st.labels {
		if st.visibility[label] != visible {
			st.visibility[label] = visible
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return st.notify(Event{Kind: EventVisibility, Visible: visible})
}

// Reset restores every slider to its initial value and every label to
// visible, then notifies once.
func (st *State) Reset() error {
	for name, spec := range st.specs {
		st.values[name] = spec.Snap(spec.Init)
	}
	for _, label := range st.labels {
		st.visibility[label] = true
	}
	return st.notify(Event{Kind: EventReset})
}

// Labels returns the known series labels sorted for stable display.
func (st *State) Labels() []string {
	out := append([]string(nil), st.labels...)
	sort.Strings(out)
	return out
}
