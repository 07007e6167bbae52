package provider

import (
	"fmt"
	"strings"

	"github.com/jonxlegasa/nn-viewer/internal/params"
	"github.com/jonxlegasa/nn-viewer/internal/series"
	"github.com/jonxlegasa/nn-viewer/internal/snapshot"
)

// SliderIteration is the slider driving the stream provider.
const SliderIteration = "iteration"

// Stream data keys, one per plot slot.
const (
	KeyFunctionComparison    = "function_comparison"
	KeyFunctionError         = "function_error"
	KeyCoefficientComparison = "coefficient_comparison"
	KeyCoefficientError      = "coefficient_error"
	KeyLossPrefix            = "loss_"
)

// StreamProvider serves plots for a single training run: the PINN side of
// every bundle comes from the snapshot at or before the iteration slider,
// loss channels are truncated to the slider, and the analytical and benchmark
// series are computed once at construction and never depend on state.
type StreamProvider struct {
	store     *snapshot.Store
	xs        []float64
	benchmark []float64 // benchmark power-series coefficients

	benchmarkSeries []float64 // benchmark evaluated over xs
	analytical      []float64 // closed-form solution over xs, nil if degenerate
	degenerate      error
}

// NewStreamProvider precomputes the static series. A degenerate governing
// equation is not fatal: the analytical series is simply absent from every
// bundle and the condition stays queryable via Degenerate.
func NewStreamProvider(store *snapshot.Store, alpha [3]float64, benchmark []float64, xs []float64) *StreamProvider {
	p := &StreamProvider{
		store:           store,
		xs:              xs,
		benchmark:       benchmark,
		benchmarkSeries: series.EvaluatePowerSeries(benchmark, xs),
	}
	sol, err := series.NewSolution(alpha, benchmark)
	if err != nil {
		p.degenerate = err
		return p
	}
	p.analytical = sol.Evaluate(xs)
	return p
}

// Degenerate returns the ODE condition that suppressed the analytical
// series, or nil.
func (p *StreamProvider) Degenerate() error { return p.degenerate }

// Store exposes the underlying snapshot store, for slider-bound discovery.
func (p *StreamProvider) Store() *snapshot.Store { return p.store }

func (p *StreamProvider) DataKeys() []string {
	keys := []string{
		KeyFunctionComparison,
		KeyFunctionError,
		KeyCoefficientComparison,
		KeyCoefficientError,
	}
	for _, ch := range snapshot.Channels {
		keys = append(keys, KeyLossPrefix+ch)
	}
	return keys
}

func (p *StreamProvider) SeriesLabels() []string {
	return []string{
		LabelAnalytical, LabelBenchmark, LabelPINN,
		LabelPINNError,
		LabelCoeffBenchmark, LabelCoeffPINN,
		LabelCoeffError,
		LabelTotalLoss, LabelBCLoss, LabelPDELoss, LabelSupervised,
	}
}

// Get resolves dataKey at the current iteration slider value.
func (p *StreamProvider) Get(dataKey string, st *params.State) (Bundle, error) {
	iter, ok := st.IntValue(SliderIteration)
	if !ok {
		return nil, fmt.Errorf("provider: state has no %q slider", SliderIteration)
	}

	if strings.HasPrefix(dataKey, KeyLossPrefix) {
		return p.lossBundle(strings.TrimPrefix(dataKey, KeyLossPrefix), iter)
	}

	snap, err := p.store.NearestAtOrBefore(iter)
	if err != nil {
		return nil, err
	}
	pinn := series.EvaluatePowerSeries(snap.Coefficients, p.xs)

	switch dataKey {
	case KeyFunctionComparison:
		b := Bundle{}
		if p.analytical != nil {
			b = append(b, Series{Label: LabelAnalytical, X: p.xs, Y: p.analytical})
		}
		b = append(b,
			Series{Label: LabelBenchmark, X: p.xs, Y: p.benchmarkSeries},
			Series{Label: LabelPINN, X: p.xs, Y: pinn},
		)
		return b, nil

	case KeyFunctionError:
		ref := p.analytical
		if ref == nil {
			// No closed form; fall back to the benchmark series as reference.
			ref = p.benchmarkSeries
		}
		return Bundle{{Label: LabelPINNError, X: p.xs, Y: series.AbsDiff(ref, pinn)}}, nil

	case KeyCoefficientComparison:
		n := min(len(p.benchmark), len(snap.Coefficients))
		idx := series.Indices(n)
		return Bundle{
			{Label: LabelCoeffBenchmark, X: idx, Y: p.benchmark[:n]},
			{Label: LabelCoeffPINN, X: idx, Y: snap.Coefficients[:n]},
		}, nil

	case KeyCoefficientError:
		diff := series.AbsDiff(p.benchmark, snap.Coefficients)
		return Bundle{{Label: LabelCoeffError, X: series.Indices(len(diff)), Y: diff}}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDataKey, dataKey)
}

func (p *StreamProvider) lossBundle(channel string, iter int) (Bundle, error) {
	loss := p.store.Loss()
	if !loss.Has(channel) {
		return nil, nil
	}
	xs, ys := loss.Truncate(channel, iter)
	return Bundle{{Label: lossLabel(channel), X: xs, Y: ys}}, nil
}

func lossLabel(channel string) string {
	switch channel {
	case snapshot.ChannelTotal:
		return LabelTotalLoss
	case snapshot.ChannelBC:
		return LabelBCLoss
	case snapshot.ChannelPDE:
		return LabelPDELoss
	case snapshot.ChannelSupervised:
		return LabelSupervised
	}
	return channel
}
