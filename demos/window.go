package demos

import (
	"fmt"

	"github.com/gomlx/gomlx/pkg/core/tensors"
)

// WindowTensor is the training tensor produced by preprocessing: for every
// demonstration, every resampled point carries a multi-step imitation window
// of positions sampled along arc length. Data is stored in a contiguous
// float64 buffer with axis order
//
//	[trajectory, resampled point, workspace dimension, window step]
//
// The tensor is written once by the resampler and immutable afterwards.
type WindowTensor struct {
	buf []float64

	nTraj   int
	nPoints int
	dim     int
	window  int
}

// NewWindowTensor allocates a zeroed tensor with the given shape.
func NewWindowTensor(nTraj, nPoints, dim, window int) *WindowTensor {
	return &WindowTensor{
		buf:     make([]float64, nTraj*nPoints*dim*window),
		nTraj:   nTraj,
		nPoints: nPoints,
		dim:     dim,
		window:  window,
	}
}

// Dims returns the tensor shape: trajectories, resampled points, workspace
// dimensions, window steps.
func (t *WindowTensor) Dims() (nTraj, nPoints, dim, window int) {
	return t.nTraj, t.nPoints, t.dim, t.window
}

func (t *WindowTensor) index(j, p, d, w int) int {
	return ((j*t.nPoints+p)*t.dim+d)*t.window + w
}

// At returns the value at [trajectory j, point p, dimension d, window step w].
func (t *WindowTensor) At(j, p, d, w int) float64 {
	return t.buf[t.index(j, p, d, w)]
}

// Set stores a value at [trajectory j, point p, dimension d, window step w].
func (t *WindowTensor) Set(j, p, d, w int, v float64) {
	t.buf[t.index(j, p, d, w)] = v
}

// Raw exposes the underlying contiguous buffer. Callers must treat it as
// read-only.
func (t *WindowTensor) Raw() []float64 { return t.buf }

// ToGomlxTensor converts the window tensor to a gomlx tensor of the same
// shape.
func (t *WindowTensor) ToGomlxTensor() (*tensors.Tensor, error) {
	if t.nTraj == 0 || t.nPoints == 0 || t.dim == 0 || t.window == 0 {
		return nil, fmt.Errorf("window tensor has an empty axis: %dx%dx%dx%d", t.nTraj, t.nPoints, t.dim, t.window)
	}

	// Reshape the flat buffer into a nested 4D slice.
	data := make([][][][]float64, t.nTraj)
	idx := 0
	for j := 0; j < t.nTraj; j++ {
		data[j] = make([][][]float64, t.nPoints)
		for p := 0; p < t.nPoints; p++ {
			data[j][p] = make([][]float64, t.dim)
			for d := 0; d < t.dim; d++ {
				data[j][p][d] = t.buf[idx : idx+t.window]
				idx += t.window
			}
		}
	}
	return tensors.FromAnyValue(data), nil
}
