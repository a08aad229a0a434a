// Package dsops contains the small dynamical-system state operations shared
// by the preprocessing pipeline and the evaluator: linear rescaling of raw
// state vectors into the [-1, 1] reference frame defined by per-dimension
// workspace bounds, and the inverse mapping back to raw coordinates.
package dsops

// NormalizeState maps a raw state vector into [-1, 1] coordinates using the
// given per-dimension bounds. The result is a new slice; x is not modified.
// Bounds are assumed valid (xMax[i] > xMin[i]); no checking is done here.
func NormalizeState(x, xMin, xMax []float64) []float64 {
	out := make([]float64, len(x))
	for i := range x {
		out[i] = 2.0*(x[i]-xMin[i])/(xMax[i]-xMin[i]) - 1.0
	}
	return out
}

// DenormalizeState maps a [-1, 1] state vector back into raw coordinates.
// It is the inverse of NormalizeState for the same bounds.
func DenormalizeState(x, xMin, xMax []float64) []float64 {
	out := make([]float64, len(x))
	for i := range x {
		out[i] = (x[i]+1.0)/2.0*(xMax[i]-xMin[i]) + xMin[i]
	}
	return out
}

// NormalizeStates applies NormalizeState to every row of a sample-major
// trajectory.
func NormalizeStates(xs [][]float64, xMin, xMax []float64) [][]float64 {
	out := make([][]float64, len(xs))
	for i, x := range xs {
		out[i] = NormalizeState(x, xMin, xMax)
	}
	return out
}

// DenormalizeStates applies DenormalizeState to every row of a sample-major
// trajectory.
func DenormalizeStates(xs [][]float64, xMin, xMax []float64) [][]float64 {
	out := make([][]float64, len(xs))
	for i, x := range xs {
		out[i] = DenormalizeState(x, xMin, xMax)
	}
	return out
}
