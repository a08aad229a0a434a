package preprocess

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/arcspline/demoprep/demos"
)

// expandBounds widens a (min, max) bounds pair outward by
// (max-min) * increment / 2 per dimension, in place. The max is expanded
// first and the updated max is reused when expanding the min, so the min
// margin is slightly larger than the max margin. This asymmetry matches the
// reference pipeline exactly; it is also applied to second-order velocity
// limits.
func expandBounds(xMin, xMax []float64, increment float64) {
	span := make([]float64, len(xMax))
	floats.SubTo(span, xMax, xMin)
	floats.AddScaled(xMax, increment/2, span)
	floats.SubTo(span, xMax, xMin)
	floats.AddScaled(xMin, -increment/2, span)
}

// workspaceBounds computes the per-dimension (min, max) bounds of the raw
// state, either from the demonstrations plus the state-increment margin or
// from the user-supplied array. An unrecognized boundary mode fails before
// any other computation.
func (p *Preprocessor) workspaceBounds(demonstrations []demos.Demonstration) (xMin, xMax []float64, err error) {
	switch p.cfg.WorkspaceBoundariesType {
	case BoundariesFromData:
		dim := p.cfg.StateDimension()
		xMin = make([]float64, dim)
		xMax = make([]float64, dim)
		for d := 0; d < dim; d++ {
			xMin[d] = math.Inf(1)
			xMax[d] = math.Inf(-1)
		}
		for _, demo := range demonstrations {
			for _, sample := range demo.Samples {
				for d := 0; d < dim; d++ {
					if sample[d] < xMin[d] {
						xMin[d] = sample[d]
					}
					if sample[d] > xMax[d] {
						xMax[d] = sample[d]
					}
				}
			}
		}
		expandBounds(xMin, xMax, p.cfg.StateIncrement)
		return xMin, xMax, nil

	case BoundariesCustom:
		dim := len(p.cfg.WorkspaceBoundaries)
		if dim == 0 {
			return nil, nil, fmt.Errorf("custom workspace boundaries selected but none supplied")
		}
		xMin = make([]float64, dim)
		xMax = make([]float64, dim)
		for d, b := range p.cfg.WorkspaceBoundaries {
			xMin[d] = b[0]
			xMax[d] = b[1]
		}
		return xMin, xMax, nil

	default:
		return nil, nil, &InvalidConfigError{
			Option: "workspace boundaries type",
			Value:  p.cfg.WorkspaceBoundariesType,
			Valid:  []string{BoundariesFromData, BoundariesCustom},
		}
	}
}
