package snapshot

import (
	"errors"
	"testing"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	st, err := New([]Snapshot{
		{Iteration: 100, Coefficients: []float64{1, 2}},
		{Iteration: 200, Coefficients: []float64{1, 2.1}},
		{Iteration: 300, Coefficients: []float64{1, 2.2}},
	}, &LossSeries{
		Iterations: []int{100, 200, 300},
		Values: map[string][]float64{
			ChannelTotal: {5.0, 3.0, 1.0},
		},
	})
	if err != nil {
		t.Fatalf("build store: %v", err)
	}
	return st
}

func TestNearestAtOrBefore(t *testing.T) {
	st := testStore(t)

	cases := []struct {
		iter int
		want int
	}{
		{100, 100},
		{150, 100},
		{200, 200},
		{299, 200},
		{300, 300},
		{99999, 300},
	}
	for _, tc := range cases {
		snap, err := st.NearestAtOrBefore(tc.iter)
		if err != nil {
			t.Fatalf("lookup %d: %v", tc.iter, err)
		}
		if snap.Iteration != tc.want {
			t.Errorf("lookup %d: got snapshot %d, want %d", tc.iter, snap.Iteration, tc.want)
		}
	}
}

func TestNearestBelowMinimum(t *testing.T) {
	st := testStore(t)
	_, err := st.NearestAtOrBefore(99)
	if !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("expected ErrNoSnapshot, got %v", err)
	}
}

func TestDuplicateIterationLastWriteWins(t *testing.T) {
	st, err := New([]Snapshot{
		{Iteration: 100, Coefficients: []float64{1.0}},
		{Iteration: 100, Coefficients: []float64{9.0}},
	}, nil)
	if err != nil {
		t.Fatalf("build store: %v", err)
	}
	snap, err := st.NearestAtOrBefore(100)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if snap.Coefficients[0] != 9.0 {
		t.Errorf("expected last write to win, got coefficient %g", snap.Coefficients[0])
	}
	if st.Len() != 1 {
		t.Errorf("expected 1 distinct checkpoint, got %d", st.Len())
	}
}

func TestNewRejectsMissingCoefficients(t *testing.T) {
	_, err := New([]Snapshot{{Iteration: 100}}, nil)
	if !errors.Is(err, ErrMalformedData) {
		t.Errorf("expected ErrMalformedData, got %v", err)
	}
}

func TestNewRejectsDescendingLoss(t *testing.T) {
	_, err := New(
		[]Snapshot{{Iteration: 100, Coefficients: []float64{1}}},
		&LossSeries{
			Iterations: []int{100, 50},
			Values:     map[string][]float64{ChannelTotal: {1, 2}},
		},
	)
	if !errors.Is(err, ErrMalformedData) {
		t.Errorf("expected ErrMalformedData, got %v", err)
	}
}

func TestSliderBounds(t *testing.T) {
	st := testStore(t)
	if st.MinIteration() != 100 || st.MaxIteration() != 300 {
		t.Errorf("bounds: got [%d, %d], want [100, 300]", st.MinIteration(), st.MaxIteration())
	}
	if st.Step() != 100 {
		t.Errorf("step: got %d, want 100", st.Step())
	}
}
