package series

import "math/big"

// EvaluatePowerSeries computes sum(coeffs[i] * x^i / i!) at every point in xs.
// An empty coefficient vector yields an all-zero slice of the same length as
// xs. Non-finite coefficients propagate NaN through the affected points
// instead of failing.
func EvaluatePowerSeries(coeffs, xs []float64) []float64 {
	out := make([]float64, len(xs))
	if len(coeffs) == 0 {
		return out
	}
	facts := factorials(len(coeffs))
	for j, x := range xs {
		sum := 0.0
		pow := 1.0
		for i, c := range coeffs {
			sum += c * pow / facts[i]
			pow *= x
		}
		out[j] = sum
	}
	return out
}

// factorials returns [0!, 1!, ..., (n-1)!] as float64. Each factorial is
// accumulated exactly as an integer and cast once, so the same table is
// bit-identical no matter how often a series is re-evaluated.
func factorials(n int) []float64 {
	facts := make([]float64, n)
	acc := big.NewInt(1)
	for i := 0; i < n; i++ {
		if i > 1 {
			acc.Mul(acc, big.NewInt(int64(i)))
		}
		facts[i], _ = new(big.Float).SetInt(acc).Float64()
	}
	return facts
}

// Linspace returns n evenly spaced samples over [min, max]. n < 2 collapses
// to a single sample at min.
func Linspace(min, max float64, n int) []float64 {
	if n < 2 {
		return []float64{min}
	}
	xs := make([]float64, n)
	step := (max - min) / float64(n-1)
	for i := range xs {
		xs[i] = min + float64(i)*step
	}
	xs[n-1] = max
	return xs
}

// AbsDiff returns |a[i] - b[i]| over the overlapping prefix of a and b.
// Length mismatch is a deliberate truncate-to-shortest, not an error: the
// benchmark may carry fewer coefficients than a PINN snapshot.
func AbsDiff(a, b []float64) []float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		d := a[i] - b[i]
		if d < 0 {
			d = -d
		}
		out[i] = d
	}
	return out
}

// Indices returns [0, 1, ..., n-1] as float64, the x-axis for
// coefficient-index plots.
func Indices(n int) []float64 {
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
	}
	return xs
}
