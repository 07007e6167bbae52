package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewer.yaml")
	content := `mode: stream
snapshots: results.json
x_range:
  min: 0
  max: 2
theme: light
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.XRange != (Range{Min: 0, Max: 2}) {
		t.Errorf("x range = %+v", cfg.XRange)
	}
	if cfg.Points != DefaultPoints {
		t.Errorf("points = %d, want default %d", cfg.Points, DefaultPoints)
	}
	if cfg.Theme != "light" {
		t.Errorf("theme = %q", cfg.Theme)
	}
	if cfg.Initial.Iteration != DefaultIteration {
		t.Errorf("initial iteration = %d, want default %d", cfg.Initial.Iteration, DefaultIteration)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults pass", func(c *Config) {}, ""},
		{"sweep mode passes", func(c *Config) { c.Mode = "sweep" }, ""},
		{"unknown mode", func(c *Config) { c.Mode = "live" }, "unknown mode"},
		{"empty x range", func(c *Config) { c.XRange = Range{Min: 1, Max: 1} }, "empty x range"},
		{"inverted x range", func(c *Config) { c.XRange = Range{Min: 2, Max: -2} }, "empty x range"},
		{"too few points", func(c *Config) { c.Points = 1 }, "sample points"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("Validate = %v, want error containing %q", err, tc.wantErr)
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewer.yaml")
	cfg := DefaultConfig()
	cfg.Mode = "sweep"
	cfg.Table = "sweep.json"
	cfg.TrueCoefficients = []float64{1, 1, 0.5}
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Mode != "sweep" || got.Table != "sweep.json" {
		t.Errorf("round trip lost fields: %+v", got)
	}
	if len(got.TrueCoefficients) != 3 {
		t.Errorf("true coefficients = %v", got.TrueCoefficients)
	}
}
