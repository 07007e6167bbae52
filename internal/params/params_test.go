package params

import (
	"errors"
	"testing"
)

func iterState() *State {
	return NewState(SliderSpec{
		Name: "iteration", Label: "Iteration",
		Min: 100, Max: 100000, Step: 100, Init: 1000,
	})
}

func TestSetSliderSnapAndClamp(t *testing.T) {
	cases := []struct {
		input float64
		want  float64
	}{
		{100050, 100000}, // above max: nearest valid multiple <= max
		{99, 100},        // below min
		{149, 100},       // snaps down
		{151, 200},       // snaps up
		{250, 300},       // ties round half away from zero
		{1000, 1000},     // already valid
	}
	for _, tc := range cases {
		st := iterState()
		if _, err := st.SetSlider("iteration", tc.input); err != nil {
			t.Fatalf("set %g: %v", tc.input, err)
		}
		got, _ := st.Value("iteration")
		if got != tc.want {
			t.Errorf("set %g: got %g, want %g", tc.input, got, tc.want)
		}
	}
}

func TestSetSliderReportsChange(t *testing.T) {
	st := iterState()
	changed, err := st.SetSlider("iteration", 2000)
	if err != nil || !changed {
		t.Fatalf("expected change, got changed=%v err=%v", changed, err)
	}
	// Snapping 2049 lands back on 2000: no effective change.
	changed, err = st.SetSlider("iteration", 2049)
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if changed {
		t.Error("snapped-identical value must not report a change")
	}
}

func TestSetSliderUnknownName(t *testing.T) {
	st := iterState()
	_, err := st.SetSlider("bogus", 1)
	if !errors.Is(err, ErrUnknownSlider) {
		t.Errorf("expected ErrUnknownSlider, got %v", err)
	}
	if _, ok := st.Value("bogus"); ok {
		t.Error("failed set must not create a slider")
	}
}

func TestVisibilityIdempotent(t *testing.T) {
	st := iterState()
	st.RegisterLabel("PINN Series")

	if err := st.SetVisibility("PINN Series", false); err != nil {
		t.Fatalf("set visibility: %v", err)
	}
	notifications := 0
	st.Subscribe(func(Event) error {
		notifications++
		return nil
	})
	if err := st.SetVisibility("PINN Series", false); err != nil {
		t.Fatalf("set visibility: %v", err)
	}
	if notifications != 0 {
		t.Errorf("idempotent set must not notify, got %d notifications", notifications)
	}
	if st.Visible("PINN Series") {
		t.Error("label should stay hidden")
	}
}

func TestUnknownLabelIgnored(t *testing.T) {
	st := iterState()
	if err := st.SetVisibility("never registered", false); err != nil {
		t.Fatalf("unknown label must be ignored, got %v", err)
	}
	if !st.Visible("never registered") {
		t.Error("unregistered labels default to visible")
	}
	if err := st.ToggleVisibility("never registered"); err != nil {
		t.Fatalf("toggle of unknown label must be ignored, got %v", err)
	}
}

func TestSelectDeselectAllAtomic(t *testing.T) {
	st := iterState()
	labels := []string{"a", "b", "c"}
	for _, l := range labels {
		st.RegisterLabel(l)
	}
	st.SetVisibility("b", false)

	notifications := 0
	st.Subscribe(func(Event) error {
		notifications++
		return nil
	})

	if err := st.DeselectAll(); err != nil {
		t.Fatalf("deselect all: %v", err)
	}
	for _, l := range labels {
		if st.Visible(l) {
			t.Errorf("label %q still visible after DeselectAll", l)
		}
	}
	if notifications != 1 {
		t.Errorf("DeselectAll must notify once, got %d", notifications)
	}

	// Idempotent: a second call changes nothing and stays silent.
	if err := st.DeselectAll(); err != nil {
		t.Fatalf("second deselect all: %v", err)
	}
	if notifications != 1 {
		t.Errorf("repeated DeselectAll must not notify again, got %d", notifications)
	}

	if err := st.SelectAll(); err != nil {
		t.Fatalf("select all: %v", err)
	}
	for _, l := range labels {
		if !st.Visible(l) {
			t.Errorf("label %q hidden after SelectAll", l)
		}
	}
}

func TestReset(t *testing.T) {
	st := iterState()
	st.RegisterLabel("x")
	st.SetSlider("iteration", 50000)
	st.SetVisibility("x", false)

	if err := st.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	v, _ := st.Value("iteration")
	if v != 1000 {
		t.Errorf("slider after reset: got %g, want 1000", v)
	}
	if !st.Visible("x") {
		t.Error("labels must be visible after reset")
	}
}

func TestObserverErrorsPropagate(t *testing.T) {
	st := iterState()
	wantErr := errors.New("listener broken")
	st.Subscribe(func(Event) error { return wantErr })

	changed, err := st.SetSlider("iteration", 3000)
	if !changed {
		t.Fatal("expected effective change")
	}
	if !errors.Is(err, wantErr) {
		t.Errorf("observer error must propagate, got %v", err)
	}
	// The mutation itself still lands.
	if v, _ := st.Value("iteration"); v != 3000 {
		t.Errorf("value after failing observer: got %g, want 3000", v)
	}
}
