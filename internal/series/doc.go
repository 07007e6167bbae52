// Package series provides the pure numeric kernel of the viewer:
// factorial-normalized power series evaluation, the characteristic-equation
// solver for constant-coefficient 2nd-order linear ODEs, and the closed-form
// exponential solution built from its roots.
//
// All functions are stateless. The only error condition is a degenerate
// governing equation (not second order, repeated roots, or complex roots),
// which callers treat as "analytical solution unavailable" rather than a
// failure of the viewer.
package series
