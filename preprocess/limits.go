package preprocess

import (
	"math"

	"github.com/arcspline/demoprep/demos"
)

// DerivativeLimits holds per-workspace-dimension min/max of the first
// (velocity) and second (acceleration) finite differences of the training
// tensor along the window axis.
type DerivativeLimits struct {
	VelMin []float64
	VelMax []float64
	AccMin []float64
	AccMax []float64
}

// derivativeLimits reduces the training tensor's window-axis finite
// differences with min/max across trajectories, resampled points and window
// steps. For second-order systems the velocity is part of the state, so its
// limits are widened by the same margin rule as the workspace bounds.
func (p *Preprocessor) derivativeLimits(t *demos.WindowTensor) *DerivativeLimits {
	nTraj, nPoints, dim, window := t.Dims()

	limits := &DerivativeLimits{
		VelMin: make([]float64, dim),
		VelMax: make([]float64, dim),
		AccMin: make([]float64, dim),
		AccMax: make([]float64, dim),
	}
	for d := 0; d < dim; d++ {
		limits.VelMin[d] = math.Inf(1)
		limits.VelMax[d] = math.Inf(-1)
		limits.AccMin[d] = math.Inf(1)
		limits.AccMax[d] = math.Inf(-1)
	}

	for j := 0; j < nTraj; j++ {
		for pt := 0; pt < nPoints; pt++ {
			for d := 0; d < dim; d++ {
				prevVel := math.NaN()
				for w := 0; w < window-1; w++ {
					vel := (t.At(j, pt, d, w+1) - t.At(j, pt, d, w)) / trainingDeltaT
					if vel < limits.VelMin[d] {
						limits.VelMin[d] = vel
					}
					if vel > limits.VelMax[d] {
						limits.VelMax[d] = vel
					}
					if !math.IsNaN(prevVel) {
						acc := (vel - prevVel) / trainingDeltaT
						if acc < limits.AccMin[d] {
							limits.AccMin[d] = acc
						}
						if acc > limits.AccMax[d] {
							limits.AccMax[d] = acc
						}
					}
					prevVel = vel
				}
			}
		}
	}

	if p.cfg.DynamicalSystemOrder == 2 {
		expandBounds(limits.VelMin, limits.VelMax, p.cfg.StateIncrement)
	}
	return limits
}
