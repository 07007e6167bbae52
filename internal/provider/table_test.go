package provider

import (
	"errors"
	"testing"

	"github.com/jonxlegasa/nn-viewer/internal/params"
	"github.com/jonxlegasa/nn-viewer/internal/series"
	"github.com/jonxlegasa/nn-viewer/internal/snapshot"
)

func tableFixture() *TableProvider {
	coeffs := map[ConfigKey][]float64{
		{Neurons: 10, HiddenLayers: 1, AdamIterations: 10000}: {1.0, 0.5},
		{Neurons: 20, HiddenLayers: 1, AdamIterations: 10000}: {1.0, 0.9, 0.1},
		{Neurons: 20, HiddenLayers: 2, AdamIterations: 20000}: {1.0, 1.0, 0.5},
	}
	loss := map[ConfigKey]*snapshot.LossSeries{
		{Neurons: 10, HiddenLayers: 1, AdamIterations: 10000}: {
			Iterations: []int{1000, 2000},
			Values: map[string][]float64{
				snapshot.ChannelTotal: {0.5, 0.1},
				snapshot.ChannelPDE:   {0.3, 0.05},
			},
		},
	}
	xs := series.Linspace(-1, 1, 11)
	return NewTableProvider(coeffs, loss, []float64{1, 1, 0.5, 1.0 / 6}, xs)
}

func tableState(p *TableProvider) *params.State {
	return params.NewState(p.SliderSpecs()...)
}

func TestTableExactMatch(t *testing.T) {
	p := tableFixture()
	st := tableState(p)
	// Sliders initialize at the key-space minimum, an exact configuration.
	b, err := p.Get(KeySolutions, st)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	want := []string{LabelAnalytic, LabelPINNSeries}
	for i, l := range b.Labels() {
		if l != want[i] {
			t.Errorf("label %d: got %q, want %q", i, l, want[i])
		}
	}
}

func TestTableMissHidesPlot(t *testing.T) {
	p := tableFixture()
	st := tableState(p)
	if _, err := st.SetSlider(SliderNeurons, 20); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, err := st.SetSlider(SliderHiddenLayers, 2); err != nil {
		t.Fatalf("set: %v", err)
	}
	// (20, 2, 10000) is not a trained configuration.
	_, err := p.Get(KeySolutions, st)
	if !errors.Is(err, ErrNoMatchingConfiguration) {
		t.Fatalf("expected ErrNoMatchingConfiguration, got %v", err)
	}
}

func TestTableSnapToNearest(t *testing.T) {
	p := tableFixture()
	p.SnapToNearest = true
	st := tableState(p)
	st.SetSlider(SliderNeurons, 20)
	st.SetSlider(SliderHiddenLayers, 2)
	// (20, 1, 10000) and (20, 2, 20000) both sit at weighted distance 10
	// from (20, 2, 10000); the earlier key in sorted order wins the tie.
	b, err := p.Get(KeyCoeffComparisons, st)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got := b[1].Y[1]; got != 0.9 {
		t.Errorf("snapped to wrong configuration: PINN coeff[1] = %g, want 0.9", got)
	}
}

func TestTableCoefficientOverlap(t *testing.T) {
	p := tableFixture()
	st := tableState(p)
	// (10, 1, 10000) has 2 coefficients against 4 true ones.
	b, err := p.Get(KeyCoeffComparisons, st)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(b[0].Y) != 2 || len(b[1].Y) != 2 {
		t.Errorf("overlap: got lengths %d/%d, want 2/2", len(b[0].Y), len(b[1].Y))
	}
	b, err = p.Get(KeyCoeffErrors, st)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(b[0].Y) != 2 {
		t.Errorf("error series length: got %d, want 2", len(b[0].Y))
	}
}

func TestTableLossOverlay(t *testing.T) {
	p := tableFixture()
	st := tableState(p)
	b, err := p.Get(KeyLossOverlay, st)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	got := b.Labels()
	want := []string{LabelTotalLoss, LabelPDELoss}
	if len(got) != len(want) {
		t.Fatalf("overlay labels: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("overlay label %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestTableLossMissingForConfiguration(t *testing.T) {
	p := tableFixture()
	st := tableState(p)
	st.SetSlider(SliderNeurons, 20)
	// (20, 1, 10000) exists but has no loss record.
	b, err := p.Get(KeyLossOverlay, st)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !b.Empty() {
		t.Errorf("missing loss record must yield an empty bundle, got %v", b.Labels())
	}
}

func TestTableSliderSpecsFromKeySpace(t *testing.T) {
	p := tableFixture()
	specs := p.SliderSpecs()
	byName := map[string]params.SliderSpec{}
	for _, s := range specs {
		byName[s.Name] = s
	}
	if s := byName[SliderNeurons]; s.Min != 10 || s.Max != 20 {
		t.Errorf("neurons bounds: got [%g, %g], want [10, 20]", s.Min, s.Max)
	}
	if s := byName[SliderAdamIterations]; s.Min != 10000 || s.Max != 20000 {
		t.Errorf("adam bounds: got [%g, %g], want [10000, 20000]", s.Min, s.Max)
	}
}

func TestParseConfigKey(t *testing.T) {
	cases := []struct {
		in      string
		want    ConfigKey
		wantErr bool
	}{
		{"n20_h3_a30000", ConfigKey{20, 3, 30000}, false},
		{"n5_h1_a10000", ConfigKey{5, 1, 10000}, false},
		{"40", ConfigKey{40, 1, 10000}, false}, // legacy bare neuron count
		{"h3_n20", ConfigKey{}, true},
		{"banana", ConfigKey{}, true},
	}
	for _, tc := range cases {
		got, err := ParseConfigKey(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseConfigKey(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseConfigKey(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseConfigKey(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
}

func TestConfigKeyString(t *testing.T) {
	k := ConfigKey{Neurons: 30, HiddenLayers: 2, AdamIterations: 40000}
	if got := k.String(); got != "n30_h2_a40000" {
		t.Errorf("String() = %q, want n30_h2_a40000", got)
	}
}
