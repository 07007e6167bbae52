package snapshot

import (
	"fmt"
	"sort"
)

// Canonical loss channel names.
const (
	ChannelTotal      = "total"
	ChannelBC         = "bc"
	ChannelPDE        = "pde"
	ChannelSupervised = "supervised"
)

// Channels lists the loss channels in display order.
var Channels = []string{ChannelTotal, ChannelBC, ChannelPDE, ChannelSupervised}

// LossSeries stores one training-loop tick per row as parallel arrays:
// an ascending iteration column plus named scalar channels. Loss is logged
// far more densely than snapshots, so rows are indexed by position rather
// than by iteration.
type LossSeries struct {
	Iterations []int
	Values     map[string][]float64
}

func (ls *LossSeries) validate() error {
	for i := 1; i < len(ls.Iterations); i++ {
		if ls.Iterations[i] < ls.Iterations[i-1] {
			return fmt.Errorf("%w: loss iterations not ascending at row %d (%d after %d)",
				ErrMalformedData, i, ls.Iterations[i], ls.Iterations[i-1])
		}
	}
	for name, vals := range ls.Values {
		if len(vals) != len(ls.Iterations) {
			return fmt.Errorf("%w: loss channel %q has %d values for %d iterations",
				ErrMalformedData, name, len(vals), len(ls.Iterations))
		}
	}
	return nil
}

// Truncate returns the prefix of the named channel whose iterations are
// <= maxIter, as plot-ready x/y slices. An absent channel yields an empty
// series, as does a maxIter below the first recorded iteration. The cut
// point is found by binary search; this runs on every slider tick.
func (ls *LossSeries) Truncate(channel string, maxIter int) (xs, ys []float64) {
	vals, ok := ls.Values[channel]
	if !ok {
		return nil, nil
	}
	n := sort.Search(len(ls.Iterations), func(i int) bool {
		return ls.Iterations[i] > maxIter
	})
	if n == 0 {
		return nil, nil
	}
	xs = make([]float64, n)
	ys = make([]float64, n)
	for i := 0; i < n; i++ {
		xs[i] = float64(ls.Iterations[i])
		ys[i] = vals[i]
	}
	return xs, ys
}

// Has reports whether the named channel was loaded.
func (ls *LossSeries) Has(channel string) bool {
	_, ok := ls.Values[channel]
	return ok
}

// Len returns the number of loss rows.
func (ls *LossSeries) Len() int { return len(ls.Iterations) }
