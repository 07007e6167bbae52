// Package snapshot indexes PINN training checkpoints by iteration number and
// holds the parallel loss time series logged alongside them. Lookups never
// mutate stored data; everything handed out is the caller's to read only.
package snapshot

import (
	"errors"
	"fmt"
	"sort"
)

// ErrNoSnapshot reports a lookup iteration below the smallest recorded
// checkpoint.
var ErrNoSnapshot = errors.New("snapshot: no snapshot at or before iteration")

// ErrMalformedData reports structurally invalid source data at load time.
var ErrMalformedData = errors.New("snapshot: malformed data")

// Snapshot is one training checkpoint: the power-series coefficients the
// PINN had learned at a given iteration. Immutable once loaded.
type Snapshot struct {
	Iteration    int
	Coefficients []float64
}

// Store maps iteration numbers to snapshots and owns the loss series.
// Snapshots are sparse (one per checkpoint interval); loss rows are dense
// (one per training tick), so the two are indexed independently.
type Store struct {
	byIteration map[int]Snapshot
	iterations  []int // sorted keys of byIteration
	loss        *LossSeries
}

// New builds the iteration index and validates the loss series. Duplicate
// iterations resolve last-write-wins, matching append-only source data.
// A snapshot without coefficients is a load-time failure.
func New(snapshots []Snapshot, loss *LossSeries) (*Store, error) {
	if len(snapshots) == 0 {
		return nil, fmt.Errorf("%w: no snapshots", ErrMalformedData)
	}
	byIter := make(map[int]Snapshot, len(snapshots))
	for i, s := range snapshots {
		if s.Iteration <= 0 {
			return nil, fmt.Errorf("%w: snapshot %d has non-positive iteration %d",
				ErrMalformedData, i, s.Iteration)
		}
		if len(s.Coefficients) == 0 {
			return nil, fmt.Errorf("%w: snapshot at iteration %d has no coefficients",
				ErrMalformedData, s.Iteration)
		}
		byIter[s.Iteration] = s
	}
	iters := make([]int, 0, len(byIter))
	for it := range byIter {
		iters = append(iters, it)
	}
	sort.Ints(iters)

	if loss == nil {
		loss = &LossSeries{}
	}
	if err := loss.validate(); err != nil {
		return nil, err
	}
	return &Store{byIteration: byIter, iterations: iters, loss: loss}, nil
}

// NearestAtOrBefore returns the snapshot with the greatest iteration <= iter.
// The slider may land on any step value, not necessarily one with an exact
// checkpoint, so this is the lookup every slider-driven plot uses.
func (st *Store) NearestAtOrBefore(iter int) (Snapshot, error) {
	// First index with iterations[i] > iter; the snapshot we want is just
	// before it.
	i := sort.Search(len(st.iterations), func(i int) bool {
		return st.iterations[i] > iter
	})
	if i == 0 {
		return Snapshot{}, fmt.Errorf("%w: iteration %d is below minimum %d",
			ErrNoSnapshot, iter, st.iterations[0])
	}
	return st.byIteration[st.iterations[i-1]], nil
}

// MinIteration returns the smallest recorded checkpoint iteration.
func (st *Store) MinIteration() int { return st.iterations[0] }

// MaxIteration returns the largest recorded checkpoint iteration.
func (st *Store) MaxIteration() int { return st.iterations[len(st.iterations)-1] }

// Step returns the spacing between the first two checkpoints, used as the
// slider step. A single-checkpoint store reports 100.
func (st *Store) Step() int {
	if len(st.iterations) < 2 {
		return 100
	}
	return st.iterations[1] - st.iterations[0]
}

// Len returns the number of distinct checkpoints.
func (st *Store) Len() int { return len(st.iterations) }

// Loss exposes the loss series for channel queries.
func (st *Store) Loss() *LossSeries { return st.loss }
