package dsops

import (
	"math"
	"testing"
)

func TestNormalizeDenormalizeRoundTrip(t *testing.T) {
	xMin := []float64{-1, 0, 2.5}
	xMax := []float64{11, 10, 3.5}

	states := [][]float64{
		{0, 0, 3},
		{10, 5, 2.5},
		{-1, 10, 3.5},
		{3.25, 7.125, 2.75},
	}

	for _, x := range states {
		norm := NormalizeState(x, xMin, xMax)
		back := DenormalizeState(norm, xMin, xMax)
		for i := range x {
			if math.Abs(back[i]-x[i]) > 1e-12 {
				t.Errorf("round trip mismatch at dim %d: got %v, want %v", i, back[i], x[i])
			}
		}
	}
}

func TestNormalizeRange(t *testing.T) {
	xMin := []float64{0}
	xMax := []float64{10}

	if got := NormalizeState([]float64{0}, xMin, xMax)[0]; got != -1 {
		t.Errorf("normalized lower bound = %v, want -1", got)
	}
	if got := NormalizeState([]float64{10}, xMin, xMax)[0]; got != 1 {
		t.Errorf("normalized upper bound = %v, want 1", got)
	}
	if got := NormalizeState([]float64{5}, xMin, xMax)[0]; got != 0 {
		t.Errorf("normalized midpoint = %v, want 0", got)
	}
}

func TestNormalizeStatesDoesNotMutateInput(t *testing.T) {
	xMin := []float64{0, 0}
	xMax := []float64{1, 1}
	in := [][]float64{{0.25, 0.75}}

	_ = NormalizeStates(in, xMin, xMax)
	if in[0][0] != 0.25 || in[0][1] != 0.75 {
		t.Errorf("input mutated: %v", in[0])
	}
}
