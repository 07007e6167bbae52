// Package loader reads the viewer's three source-file formats: the snapshot
// JSON written during training, the dense loss CSV, and the coefficient-table
// JSON of a hyperparameter sweep. Load-time errors are fatal to construction
// and carry file, field, and offending value, so a bad input can be diagnosed
// without re-running the training.
package loader

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jonxlegasa/nn-viewer/internal/provider"
	"github.com/jonxlegasa/nn-viewer/internal/snapshot"
)

// MalformedDataError describes a structural problem in a source file.
type MalformedDataError struct {
	File   string
	Field  string
	Value  any
	Reason string
}

func (e *MalformedDataError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("loader: %s: field %q = %v: %s", e.File, e.Field, e.Value, e.Reason)
	}
	if e.Field != "" {
		return fmt.Sprintf("loader: %s: field %q: %s", e.File, e.Field, e.Reason)
	}
	return fmt.Sprintf("loader: %s: %s", e.File, e.Reason)
}

// snapshotRecord mirrors one entry of the training results JSON. The first
// record additionally carries the run-wide constants.
type snapshotRecord struct {
	Iteration             *int      `json:"iteration"`
	PinnCoefficients      []float64 `json:"pinn_coefficients"`
	BenchmarkCoefficients []float64 `json:"benchmark_coefficients"`
	AlphaMatrix           []float64 `json:"alpha_matrix"`
}

// RunData is everything a snapshot-stream session needs: the indexed store
// plus the constants derived once at load time.
type RunData struct {
	Store     *snapshot.Store
	Alpha     [3]float64 // a0, a1, a2 of the governing equation
	Benchmark []float64  // reference power-series coefficients
}

// LoadRun reads the snapshot JSON and the loss CSV and builds the store.
func LoadRun(snapshotPath, lossPath string) (*RunData, error) {
	snaps, alpha, benchmark, err := loadSnapshots(snapshotPath)
	if err != nil {
		return nil, err
	}
	var loss *snapshot.LossSeries
	if lossPath != "" {
		loss, err = LoadLossCSV(lossPath)
		if err != nil {
			return nil, err
		}
	}
	store, err := snapshot.New(snaps, loss)
	if err != nil {
		return nil, &MalformedDataError{File: snapshotPath, Reason: err.Error()}
	}
	return &RunData{Store: store, Alpha: alpha, Benchmark: benchmark}, nil
}

func loadSnapshots(path string) ([]snapshot.Snapshot, [3]float64, []float64, error) {
	var alpha [3]float64
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, alpha, nil, err
	}
	var records []snapshotRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, alpha, nil, &MalformedDataError{File: path, Reason: err.Error()}
	}
	if len(records) == 0 {
		return nil, alpha, nil, &MalformedDataError{File: path, Reason: "no snapshot records"}
	}

	snaps := make([]snapshot.Snapshot, 0, len(records))
	for i, rec := range records {
		if rec.Iteration == nil {
			return nil, alpha, nil, &MalformedDataError{
				File: path, Field: "iteration",
				Reason: fmt.Sprintf("missing in record %d", i),
			}
		}
		if len(rec.PinnCoefficients) == 0 {
			return nil, alpha, nil, &MalformedDataError{
				File: path, Field: "pinn_coefficients", Value: *rec.Iteration,
				Reason: "missing coefficient vector",
			}
		}
		snaps = append(snaps, snapshot.Snapshot{
			Iteration:    *rec.Iteration,
			Coefficients: rec.PinnCoefficients,
		})
	}

	// Run-wide constants live on the first record.
	first := records[0]
	if len(first.AlphaMatrix) != 3 {
		return nil, alpha, nil, &MalformedDataError{
			File: path, Field: "alpha_matrix", Value: first.AlphaMatrix,
			Reason: "want exactly 3 ODE coefficients",
		}
	}
	if len(first.BenchmarkCoefficients) < 2 {
		return nil, alpha, nil, &MalformedDataError{
			File: path, Field: "benchmark_coefficients", Value: first.BenchmarkCoefficients,
			Reason: "need at least the initial value and derivative",
		}
	}
	// The file stores the highest-order coefficient first (a2, a1, a0);
	// internally the equation reads a0 + a1*r + a2*r^2.
	alpha = [3]float64{first.AlphaMatrix[2], first.AlphaMatrix[1], first.AlphaMatrix[0]}
	return snaps, alpha, first.BenchmarkCoefficients, nil
}

// LoadLossCSV parses the loss table: a header row followed by
// iteration,total,bc,pde,supervised rows in ascending iteration order.
// Missing trailing columns make that channel absent rather than failing.
func LoadLossCSV(path string) (*snapshot.LossSeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		return nil, &MalformedDataError{File: path, Reason: "missing header row"}
	}
	channels := make([]string, 0, len(header)-1)
	for _, name := range header[1:] {
		channels = append(channels, normalizeChannel(name))
	}

	ls := &snapshot.LossSeries{Values: make(map[string][]float64)}
	for _, ch := range channels {
		ls.Values[ch] = nil
	}
	row := 1
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &MalformedDataError{File: path, Reason: err.Error()}
		}
		row++
		if len(rec) == 0 || strings.TrimSpace(rec[0]) == "" {
			continue
		}
		iter, err := strconv.Atoi(strings.TrimSpace(rec[0]))
		if err != nil {
			return nil, &MalformedDataError{
				File: path, Field: header[0], Value: rec[0],
				Reason: fmt.Sprintf("row %d: not an integer iteration", row),
			}
		}
		if n := len(ls.Iterations); n > 0 && iter < ls.Iterations[n-1] {
			return nil, &MalformedDataError{
				File: path, Field: header[0], Value: iter,
				Reason: fmt.Sprintf("row %d: iterations must be ascending", row),
			}
		}
		ls.Iterations = append(ls.Iterations, iter)
		for i, ch := range channels {
			if i+1 >= len(rec) {
				delete(ls.Values, ch)
				continue
			}
			if _, ok := ls.Values[ch]; !ok {
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[i+1]), 64)
			if err != nil {
				return nil, &MalformedDataError{
					File: path, Field: header[i+1], Value: rec[i+1],
					Reason: fmt.Sprintf("row %d: not a number", row),
				}
			}
			ls.Values[ch] = append(ls.Values[ch], v)
		}
	}
	return ls, nil
}

func normalizeChannel(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.TrimSuffix(name, "_loss")
	return name
}

// SweepData is everything a coefficient-table session needs.
type SweepData struct {
	Coefficients map[provider.ConfigKey][]float64
	Loss         map[provider.ConfigKey]*snapshot.LossSeries
}

// LoadSweep reads the coefficient-table JSON: a mapping from composite key
// strings to coefficient vectors. lossPath is optional and keyed identically,
// each entry carrying an iterations array plus named loss channel arrays.
func LoadSweep(tablePath, lossPath string) (*SweepData, error) {
	data, err := os.ReadFile(tablePath)
	if err != nil {
		return nil, err
	}
	var raw map[string][]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &MalformedDataError{File: tablePath, Reason: err.Error()}
	}
	if len(raw) == 0 {
		return nil, &MalformedDataError{File: tablePath, Reason: "no configurations"}
	}

	sweep := &SweepData{Coefficients: make(map[provider.ConfigKey][]float64, len(raw))}
	for keyStr, coeffs := range raw {
		key, err := provider.ParseConfigKey(keyStr)
		if err != nil {
			return nil, &MalformedDataError{File: tablePath, Field: keyStr, Reason: err.Error()}
		}
		if len(coeffs) == 0 {
			return nil, &MalformedDataError{
				File: tablePath, Field: keyStr, Reason: "empty coefficient vector",
			}
		}
		sweep.Coefficients[key] = coeffs
	}

	if lossPath != "" {
		loss, err := loadSweepLoss(lossPath)
		if err != nil {
			return nil, err
		}
		sweep.Loss = loss
	}
	return sweep, nil
}

// sweepLossRecord mirrors one sweep loss entry.
type sweepLossRecord struct {
	Iterations     []int     `json:"iterations"`
	TotalLoss      []float64 `json:"total_loss"`
	BCLoss         []float64 `json:"bc_loss"`
	PDELoss        []float64 `json:"pde_loss"`
	SupervisedLoss []float64 `json:"supervised_loss"`
}

func loadSweepLoss(path string) (map[provider.ConfigKey]*snapshot.LossSeries, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw map[string]sweepLossRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &MalformedDataError{File: path, Reason: err.Error()}
	}

	out := make(map[provider.ConfigKey]*snapshot.LossSeries, len(raw))
	for keyStr, rec := range raw {
		key, err := provider.ParseConfigKey(keyStr)
		if err != nil {
			return nil, &MalformedDataError{File: path, Field: keyStr, Reason: err.Error()}
		}
		ls := &snapshot.LossSeries{
			Iterations: rec.Iterations,
			Values:     make(map[string][]float64),
		}
		channels := map[string][]float64{
			snapshot.ChannelTotal:      rec.TotalLoss,
			snapshot.ChannelBC:         rec.BCLoss,
			snapshot.ChannelPDE:        rec.PDELoss,
			snapshot.ChannelSupervised: rec.SupervisedLoss,
		}
		for ch, vals := range channels {
			if len(vals) == 0 {
				continue
			}
			if len(vals) != len(rec.Iterations) {
				return nil, &MalformedDataError{
					File: path, Field: keyStr,
					Reason: fmt.Sprintf("channel %s has %d values for %d iterations", ch, len(vals), len(rec.Iterations)),
				}
			}
			ls.Values[ch] = vals
		}
		out[key] = ls
	}
	return out, nil
}
