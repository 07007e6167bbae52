package render

import (
	"errors"
	"fmt"

	"github.com/jonxlegasa/nn-viewer/internal/params"
	"github.com/jonxlegasa/nn-viewer/internal/provider"
)

// ErrRefreshInProgress reports a re-entrant Refresh. Dispatch is cooperative:
// a refresh always runs to completion before the next widget event, so
// re-entry means broken wiring, not a race.
var ErrRefreshInProgress = errors.New("render: refresh already in progress")

// Artist is one drawable line owned by the backend.
type Artist interface {
	SetData(x, y []float64)
	SetVisible(visible bool)
}

// Backend is the rendering layer the coordinator drives. Artists are created
// once per (slot, label) pair; RequestRedraw is issued exactly once per
// refresh so redraws are batched rather than per slot.
type Backend interface {
	NewArtist(slotID, label string) Artist
	RequestRedraw()
}

// SlotStatus records the outcome of the most recent refresh for one slot.
type SlotStatus struct {
	Visible bool
	Err     error // per-slot provider condition, nil when healthy
}

// Coordinator walks every plot slot on Refresh, asks the provider for its
// bundle, applies visibility flags, hides slots with nothing to show, and
// pushes the rest to their artists. A provider failure for one slot hides
// only that slot; the remaining slots still refresh.
type Coordinator struct {
	slots      []Slot
	prov       provider.Provider
	state      *params.State
	backend    Backend
	artists    map[string]Artist // keyed slotID + "\x00" + label
	status     map[string]SlotStatus
	visCbs     []func(slotID string, visible bool) error
	refreshing bool
}

// New wires a coordinator to its provider, state, and backend, and registers
// every label the provider can emit so the visibility panel knows about it.
func New(slots []Slot, prov provider.Provider, state *params.State, backend Backend) *Coordinator {
	for _, label := range prov.SeriesLabels() {
		state.RegisterLabel(label)
	}
	return &Coordinator{
		slots:   slots,
		prov:    prov,
		state:   state,
		backend: backend,
		artists: make(map[string]Artist),
		status:  make(map[string]SlotStatus),
	}
}

// Slots returns the configured plot slots.
func (c *Coordinator) Slots() []Slot { return c.slots }

// OnVisibilityChanged registers an observer for slot visibility transitions.
// Observer errors propagate out of Refresh; they are never discarded.
func (c *Coordinator) OnVisibilityChanged(fn func(slotID string, visible bool) error) {
	c.visCbs = append(c.visCbs, fn)
}

// Status returns the outcome of the last refresh for a slot.
func (c *Coordinator) Status(slotID string) SlotStatus { return c.status[slotID] }

// Errors returns the per-slot conditions recorded by the last refresh, for
// the status bar.
func (c *Coordinator) Errors() []error {
	var errs []error
	for _, slot := range c.slots {
		if st := c.status[slot.ID]; st.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", slot.ID, st.Err))
		}
	}
	return errs
}

// Refresh recomputes every slot from the current parameter state and issues
// one batched redraw. The returned error aggregates observer failures only;
// per-slot provider conditions are recorded in Status and hide just their
// own slot.
func (c *Coordinator) Refresh() error {
	if c.refreshing {
		return ErrRefreshInProgress
	}
	c.refreshing = true
	defer func() { c.refreshing = false }()

	var cbErrs []error
	for _, slot := range c.slots {
		visible, err := c.refreshSlot(slot)
		prev, seen := c.status[slot.ID]
		c.status[slot.ID] = SlotStatus{Visible: visible, Err: err}
		if !seen || prev.Visible != visible {
			for _, fn := range c.visCbs {
				if cbErr := fn(slot.ID, visible); cbErr != nil {
					cbErrs = append(cbErrs, cbErr)
				}
			}
		}
	}
	c.backend.RequestRedraw()
	return errors.Join(cbErrs...)
}

// refreshSlot resolves one slot's bundle and reports whether the slot ends
// up visible.
func (c *Coordinator) refreshSlot(slot Slot) (bool, error) {
	bundle, err := c.prov.Get(slot.DataKey, c.state)
	if err != nil {
		c.hideSlot(slot)
		return false, err
	}
	if bundle.Empty() {
		c.hideSlot(slot)
		return false, nil
	}

	anyVisible := false
	for _, s := range bundle {
		artist := c.artist(slot.ID, s.Label)
		show := c.state.Visible(s.Label) && !s.Empty()
		if show {
			artist.SetData(s.X, s.Y)
			anyVisible = true
		}
		artist.SetVisible(show)
	}
	if !anyVisible {
		return false, nil
	}
	return true, nil
}

func (c *Coordinator) hideSlot(slot Slot) {
	prefix := slot.ID + "\x00"
	for key, artist := range c.artists {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			artist.SetVisible(false)
		}
	}
}

func (c *Coordinator) artist(slotID, label string) Artist {
	key := slotID + "\x00" + label
	if a, ok := c.artists[key]; ok {
		return a
	}
	a := c.backend.NewArtist(slotID, label)
	c.artists[key] = a
	return a
}
