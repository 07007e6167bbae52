package provider

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/jonxlegasa/nn-viewer/internal/params"
	"github.com/jonxlegasa/nn-viewer/internal/series"
	"github.com/jonxlegasa/nn-viewer/internal/snapshot"
)

// Sliders driving the table provider.
const (
	SliderNeurons        = "neurons"
	SliderHiddenLayers   = "hidden_layers"
	SliderAdamIterations = "adam_iterations"
)

// Table data keys, one per plot slot.
const (
	KeySolutions         = "solutions"
	KeyCoeffComparisons  = "coeff_comparisons"
	KeyCoeffErrors       = "coeff_errors"
	KeySolutionErrors    = "solution_errors"
	KeyLossOverlay       = "loss_data"
	KeyLossChannelPrefix = "loss_data."
)

// Table-variant display labels.
const (
	LabelAnalytic      = "Analytic Solution"
	LabelPINNSeries    = "PINN Power Series"
	LabelSolutionError = "|Analytic - Predicted|"
)

// ConfigKey identifies one trained configuration. A value-typed composite key
// in a single flat map keeps lookup, absence handling, and iteration
// well-defined, unlike nested per-dimension containers.
type ConfigKey struct {
	Neurons        int
	HiddenLayers   int
	AdamIterations int
}

func (k ConfigKey) String() string {
	return fmt.Sprintf("n%d_h%d_a%d", k.Neurons, k.HiddenLayers, k.AdamIterations)
}

// ParseConfigKey parses the "n{neurons}_h{hidden}_a{adam}" encoding. The
// legacy format of a bare neuron count maps to hidden=1, adam=10000.
func ParseConfigKey(s string) (ConfigKey, error) {
	var k ConfigKey
	if !strings.HasPrefix(s, "n") {
		if _, err := fmt.Sscanf(s, "%d", &k.Neurons); err == nil {
			k.HiddenLayers = 1
			k.AdamIterations = 10000
			return k, nil
		}
		return ConfigKey{}, fmt.Errorf("provider: malformed configuration key %q", s)
	}
	if _, err := fmt.Sscanf(s, "n%d_h%d_a%d", &k.Neurons, &k.HiddenLayers, &k.AdamIterations); err != nil {
		return ConfigKey{}, fmt.Errorf("provider: malformed configuration key %q: %v", s, err)
	}
	return k, nil
}

// TableProvider serves plots for a hyperparameter sweep: every bundle is
// resolved through the composite (neurons, hidden layers, adam iterations)
// key built from the current slider values.
type TableProvider struct {
	coeffs map[ConfigKey][]float64
	loss   map[ConfigKey]*snapshot.LossSeries
	keys   []ConfigKey // sorted, for deterministic iteration

	trueCoeffs []float64
	xs         []float64
	trueSeries []float64

	// SnapToNearest enables the weighted nearest-key fallback when no exact
	// configuration matches. Off by default: an exact miss hides the plot.
	SnapToNearest bool
}

// NewTableProvider indexes the sweep data. The loss mapping may be nil;
// loss plots then serve empty bundles.
func NewTableProvider(coeffs map[ConfigKey][]float64, loss map[ConfigKey]*snapshot.LossSeries, trueCoeffs, xs []float64) *TableProvider {
	keys := make([]ConfigKey, 0, len(coeffs))
	for k := range coeffs {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Neurons != b.Neurons {
			return a.Neurons < b.Neurons
		}
		if a.HiddenLayers != b.HiddenLayers {
			return a.HiddenLayers < b.HiddenLayers
		}
		return a.AdamIterations < b.AdamIterations
	})
	return &TableProvider{
		coeffs:     coeffs,
		loss:       loss,
		keys:       keys,
		trueCoeffs: trueCoeffs,
		xs:         xs,
		trueSeries: series.EvaluatePowerSeries(trueCoeffs, xs),
	}
}

// Keys returns the loaded configuration keys in sorted order.
func (p *TableProvider) Keys() []ConfigKey { return p.keys }

// SliderSpecs derives slider configurations from the loaded key space.
func (p *TableProvider) SliderSpecs() []params.SliderSpec {
	minK, maxK := p.bounds()
	return []params.SliderSpec{
		{Name: SliderNeurons, Label: "Neurons",
			Min: float64(minK.Neurons), Max: float64(maxK.Neurons), Step: 10, Init: float64(minK.Neurons)},
		{Name: SliderHiddenLayers, Label: "Hidden Layers",
			Min: float64(minK.HiddenLayers), Max: float64(maxK.HiddenLayers), Step: 1, Init: float64(minK.HiddenLayers)},
		{Name: SliderAdamIterations, Label: "Adam Iterations",
			Min: float64(minK.AdamIterations), Max: float64(maxK.AdamIterations), Step: 1000, Init: float64(minK.AdamIterations)},
	}
}

func (p *TableProvider) bounds() (minK, maxK ConfigKey) {
	if len(p.keys) == 0 {
		return ConfigKey{Neurons: 10, HiddenLayers: 1, AdamIterations: 10000},
			ConfigKey{Neurons: 50, HiddenLayers: 5, AdamIterations: 50000}
	}
	minK, maxK = p.keys[0], p.keys[0]
	for _, k := range p.keys[1:] {
		minK.Neurons = min(minK.Neurons, k.Neurons)
		minK.HiddenLayers = min(minK.HiddenLayers, k.HiddenLayers)
		minK.AdamIterations = min(minK.AdamIterations, k.AdamIterations)
		maxK.Neurons = max(maxK.Neurons, k.Neurons)
		maxK.HiddenLayers = max(maxK.HiddenLayers, k.HiddenLayers)
		maxK.AdamIterations = max(maxK.AdamIterations, k.AdamIterations)
	}
	return minK, maxK
}

func (p *TableProvider) DataKeys() []string {
	keys := []string{KeySolutions, KeyCoeffComparisons, KeyCoeffErrors, KeySolutionErrors}
	if p.loss != nil {
		keys = append(keys, KeyLossOverlay,
			KeyLossChannelPrefix+snapshot.ChannelBC,
			KeyLossChannelPrefix+snapshot.ChannelPDE,
			KeyLossChannelPrefix+snapshot.ChannelSupervised,
		)
	}
	return keys
}

func (p *TableProvider) SeriesLabels() []string {
	labels := []string{
		LabelAnalytic, LabelPINNSeries,
		LabelCoeffBenchmark, LabelCoeffPINN,
		LabelCoeffError, LabelSolutionError,
	}
	if p.loss != nil {
		labels = append(labels, LabelTotalLoss, LabelBCLoss, LabelPDELoss, LabelSupervised)
	}
	return labels
}

// lookupKey builds the composite key from the sliders and resolves it to a
// loaded configuration.
func (p *TableProvider) lookupKey(st *params.State) (ConfigKey, error) {
	n, _ := st.IntValue(SliderNeurons)
	h, _ := st.IntValue(SliderHiddenLayers)
	a, _ := st.IntValue(SliderAdamIterations)
	want := ConfigKey{Neurons: n, HiddenLayers: h, AdamIterations: a}

	if _, ok := p.coeffs[want]; ok {
		return want, nil
	}
	if !p.SnapToNearest || len(p.keys) == 0 {
		return ConfigKey{}, fmt.Errorf("%w: %s", ErrNoMatchingConfiguration, want)
	}
	// Weighted taxicab distance: a hidden-layer step costs far more than a
	// neuron step, and adam iterations are scaled down to comparable units.
	best := p.keys[0]
	bestDist := math.Inf(1)
	for _, k := range p.keys {
		d := math.Abs(float64(k.Neurons-want.Neurons)) +
			10*math.Abs(float64(k.HiddenLayers-want.HiddenLayers)) +
			math.Abs(float64(k.AdamIterations-want.AdamIterations))/1000
		if d < bestDist {
			bestDist = d
			best = k
		}
	}
	return best, nil
}

// Get resolves dataKey against the configuration selected by the sliders.
func (p *TableProvider) Get(dataKey string, st *params.State) (Bundle, error) {
	key, err := p.lookupKey(st)
	if err != nil {
		return nil, err
	}
	coeffs := p.coeffs[key]

	switch {
	case dataKey == KeySolutions:
		pred := series.EvaluatePowerSeries(coeffs, p.xs)
		return Bundle{
			{Label: LabelAnalytic, X: p.xs, Y: p.trueSeries},
			{Label: LabelPINNSeries, X: p.xs, Y: pred},
		}, nil

	case dataKey == KeyCoeffComparisons:
		n := min(len(p.trueCoeffs), len(coeffs))
		idx := series.Indices(n)
		return Bundle{
			{Label: LabelCoeffBenchmark, X: idx, Y: p.trueCoeffs[:n]},
			{Label: LabelCoeffPINN, X: idx, Y: coeffs[:n]},
		}, nil

	case dataKey == KeyCoeffErrors:
		diff := series.AbsDiff(p.trueCoeffs, coeffs)
		return Bundle{{Label: LabelCoeffError, X: series.Indices(len(diff)), Y: diff}}, nil

	case dataKey == KeySolutionErrors:
		pred := series.EvaluatePowerSeries(coeffs, p.xs)
		return Bundle{{Label: LabelSolutionError, X: p.xs, Y: series.AbsDiff(p.trueSeries, pred)}}, nil

	case dataKey == KeyLossOverlay:
		return p.lossOverlay(key), nil

	case strings.HasPrefix(dataKey, KeyLossChannelPrefix):
		return p.lossChannel(key, strings.TrimPrefix(dataKey, KeyLossChannelPrefix)), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDataKey, dataKey)
}

func (p *TableProvider) lossOverlay(key ConfigKey) Bundle {
	ls := p.lossFor(key)
	if ls == nil {
		return nil
	}
	var b Bundle
	for _, ch := range snapshot.Channels {
		if !ls.Has(ch) {
			continue
		}
		xs, ys := ls.Truncate(ch, math.MaxInt)
		b = append(b, Series{Label: lossLabel(ch), X: xs, Y: ys})
	}
	return b
}

func (p *TableProvider) lossChannel(key ConfigKey, channel string) Bundle {
	ls := p.lossFor(key)
	if ls == nil || !ls.Has(channel) {
		return nil
	}
	xs, ys := ls.Truncate(channel, math.MaxInt)
	return Bundle{{Label: lossLabel(channel), X: xs, Y: ys}}
}

func (p *TableProvider) lossFor(key ConfigKey) *snapshot.LossSeries {
	if p.loss == nil {
		return nil
	}
	return p.loss[key]
}
