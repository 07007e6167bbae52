package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jonxlegasa/nn-viewer/internal/config"
	"github.com/jonxlegasa/nn-viewer/internal/provider"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestStreamSessionEndToEnd(t *testing.T) {
	dir := t.TempDir()
	snapshots := writeFile(t, dir, "results.json", `[
  {"iteration": 100,
   "pinn_coefficients": [0.9, 0.1, 0.4],
   "benchmark_coefficients": [1, 0, 1],
   "alpha_matrix": [1, 0, -1]},
  {"iteration": 200, "pinn_coefficients": [1.0, 0.01, 0.9]}
]`)
	loss := writeFile(t, dir, "loss.csv", `iteration,total,bc,pde,supervised
100,5.0,1.0,3.0,1.0
200,1.0,0.2,0.7,0.1
`)

	cfg := config.DefaultConfig()
	cfg.Snapshots = snapshots
	cfg.Loss = loss
	cfg.Initial.Iteration = 100

	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s.Note != "" {
		t.Errorf("healthy run must carry no note, got %q", s.Note)
	}

	spec, ok := s.State.Spec(provider.SliderIteration)
	if !ok {
		t.Fatal("iteration slider not configured")
	}
	if spec.Min != 100 || spec.Max != 200 || spec.Step != 100 {
		t.Errorf("slider bounds = [%g, %g] step %g, want [100, 200] step 100", spec.Min, spec.Max, spec.Step)
	}

	if err := s.Coordinator.Refresh(); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if s.Backend.Redraws() != 1 {
		t.Errorf("redraws = %d, want 1", s.Backend.Redraws())
	}
	for _, slot := range s.Coordinator.Slots() {
		if st := s.Coordinator.Status(slot.ID); !st.Visible || st.Err != nil {
			t.Errorf("slot %s: %+v, want visible and healthy", slot.ID, st)
		}
	}
}

func TestSweepSessionEndToEnd(t *testing.T) {
	dir := t.TempDir()
	table := writeFile(t, dir, "sweep.json", `{
  "n10_h1_a10000": [1.0, 0.5],
  "n20_h1_a10000": [1.0, 0.9]
}`)

	cfg := config.DefaultConfig()
	cfg.Mode = "sweep"
	cfg.Table = table
	cfg.TrueCoefficients = []float64{1, 1, 0.5}

	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, name := range []string{provider.SliderNeurons, provider.SliderHiddenLayers, provider.SliderAdamIterations} {
		if _, ok := s.State.Spec(name); !ok {
			t.Errorf("slider %s not configured", name)
		}
	}
	// No loss file: the loss slots are absent entirely.
	if got := len(s.Coordinator.Slots()); got != 4 {
		t.Errorf("slot count = %d, want 4", got)
	}
	if err := s.Coordinator.Refresh(); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if st := s.Coordinator.Status("solutions"); !st.Visible || st.Err != nil {
		t.Errorf("solutions slot: %+v, want visible and healthy", st)
	}
}

func TestSweepSessionRequiresTrueCoefficients(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Mode = "sweep"
	cfg.Table = "nonexistent.json"
	if _, err := New(cfg); err == nil {
		t.Fatal("missing true_coefficients must fail")
	}
}
