package series

import (
	"errors"
	"fmt"
	"math"
)

// ErrDegenerateODE reports a governing equation with no real distinct-root
// closed form: a2 == 0, a repeated root, or complex roots. It is a recoverable
// condition ("analytical solution unavailable"), never a crash.
var ErrDegenerateODE = errors.New("series: degenerate ODE")

// SolveCharacteristicRoots solves a2*r^2 + a1*r + a0 = 0 for the two real
// distinct roots of the characteristic equation.
func SolveCharacteristicRoots(a0, a1, a2 float64) (r1, r2 float64, err error) {
	if a2 == 0 {
		return 0, 0, fmt.Errorf("%w: a2 = 0, equation is not second order", ErrDegenerateODE)
	}
	disc := a1*a1 - 4*a2*a0
	if disc == 0 {
		return 0, 0, fmt.Errorf("%w: repeated root (discriminant = 0)", ErrDegenerateODE)
	}
	if disc < 0 {
		return 0, 0, fmt.Errorf("%w: complex roots (discriminant = %g)", ErrDegenerateODE, disc)
	}
	sq := math.Sqrt(disc)
	r1 = (-a1 + sq) / (2 * a2)
	r2 = (-a1 - sq) / (2 * a2)
	return r1, r2, nil
}

// SolveInitialConditions solves the 2x2 system c1 + c2 = y0,
// r1*c1 + r2*c2 = dy0 that pins the exponential solution to its initial
// value and derivative.
func SolveInitialConditions(r1, r2, y0, dy0 float64) (c1, c2 float64, err error) {
	if r1 == r2 {
		return 0, 0, fmt.Errorf("%w: singular initial-condition system (r1 == r2)", ErrDegenerateODE)
	}
	c1 = (dy0 - y0*r2) / (r1 - r2)
	c2 = y0 - c1
	return c1, c2, nil
}

// ExponentialSolution evaluates c1*exp(r1*x) + c2*exp(r2*x) at every point
// in xs. Roots are assumed real; complex roots must have been rejected by
// SolveCharacteristicRoots upstream.
func ExponentialSolution(r1, r2, c1, c2 float64, xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = c1*math.Exp(r1*x) + c2*math.Exp(r2*x)
	}
	return out
}

// Solution holds the derived constants of the closed-form exponential
// solution to a2*y'' + a1*y' + a0*y = 0. Computed once at load time and
// reused for every evaluation.
type Solution struct {
	R1, R2 float64
	C1, C2 float64
}

// NewSolution derives the analytical solution from the governing equation's
// coefficients (a0, a1, a2) and the benchmark power series, whose first two
// coefficients are y(0) and y'(0).
func NewSolution(alpha [3]float64, benchmark []float64) (Solution, error) {
	if len(benchmark) < 2 {
		return Solution{}, fmt.Errorf("%w: need y(0) and y'(0), got %d benchmark coefficients",
			ErrDegenerateODE, len(benchmark))
	}
	r1, r2, err := SolveCharacteristicRoots(alpha[0], alpha[1], alpha[2])
	if err != nil {
		return Solution{}, err
	}
	c1, c2, err := SolveInitialConditions(r1, r2, benchmark[0], benchmark[1])
	if err != nil {
		return Solution{}, err
	}
	return Solution{R1: r1, R2: r2, C1: c1, C2: c2}, nil
}

// Evaluate computes the analytical solution at every point in xs.
func (s Solution) Evaluate(xs []float64) []float64 {
	return ExponentialSolution(s.R1, s.R2, s.C1, s.C2, xs)
}
