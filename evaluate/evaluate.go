// Package evaluate renders qualitative comparisons of a trained
// dynamical-system model against held-out demonstrations. Simulation itself
// happens elsewhere; this package consumes finished simulation records and
// plots them per workspace dimension.
package evaluate

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// ErrDiffeoEvalUnsupported reports that the diffeomorphism-based evaluation
// path performed no work. Callers detect it with errors.Is instead of
// mistaking the path for a successful evaluation.
var ErrDiffeoEvalUnsupported = errors.New("diffeomorphism evaluation not implemented")

// SimulationResults is one simulation record for a primitive at one training
// checkpoint: the states visited by a grid of simulated rollouts and by the
// rollouts started from the demonstrations' initial states. All states are in
// bounds-normalized coordinates.
type SimulationResults struct {
	// VisitedStatesGrid is indexed [step][rollout][dimension].
	VisitedStatesGrid [][][]float64

	// VisitedStatesDemos is indexed [step][demonstration][dimension].
	VisitedStatesDemos [][][]float64
}

// Simulator drives a trained model from a set of initial states and returns
// the visited-state record. The integration loop lives behind this interface.
type Simulator interface {
	Simulate(primitiveID int, initialStates [][]float64) (*SimulationResults, error)
}

// Evaluator plots simulated trajectories against held-out demonstrations.
type Evaluator struct {
	// SavePath is the root directory plots are written under.
	SavePath string

	// XMin, XMax are the workspace bounds used to denormalize simulated
	// states for plotting.
	XMin []float64
	XMax []float64

	// DimWorkspace is the number of workspace dimensions (one panel each).
	DimWorkspace int

	// DemonstrationsEval holds the held-out demonstrations, dimension-major:
	// DemonstrationsEval[demo][dim][sample], in raw coordinates.
	DemonstrationsEval [][][]float64

	// DeltaTEval holds per-sample time deltas per held-out demonstration.
	DeltaTEval [][]float64

	Verbose bool
}

// ComputeQualiEval renders the per-dimension comparison plot for one
// primitive and one training iteration and writes it to
// <SavePath>/images/primitive_<id>_iter_<iteration>.pdf. It returns true on
// success.
func (e *Evaluator) ComputeQualiEval(results *SimulationResults, attractor []float64, primitiveID, iteration int) (bool, error) {
	if len(e.DeltaTEval) == 0 || len(e.DemonstrationsEval) == 0 {
		return false, fmt.Errorf("no held-out demonstrations to evaluate against")
	}

	// Demonstration time axis: cumulative recorded deltas.
	timeDemos := computeTime(e.DeltaTEval[0])

	// Simulated time axis: uniform steps of the mean recorded delta.
	meanDelta := meanDeltaT(e.DeltaTEval)
	timeSims := make([]float64, len(results.VisitedStatesGrid))
	for i := range timeSims {
		timeSims[i] = float64(i) * meanDelta
	}

	savePath := filepath.Join(e.SavePath, "images",
		fmt.Sprintf("primitive_%d_iter_%d.pdf", primitiveID, iteration))
	if err := os.MkdirAll(filepath.Dir(savePath), 0o755); err != nil {
		return false, fmt.Errorf("failed to create image dir: %w", err)
	}

	if e.Verbose {
		log.Printf("saving image to %s", savePath)
	}
	if err := e.plotNDMotion(results, timeDemos, timeSims, savePath); err != nil {
		return false, err
	}
	return true, nil
}

// ComputeDiffeoQualiEval is the diffeomorphism-based evaluation path. It is
// not implemented: it reports that no work was performed rather than
// silently succeeding.
func (e *Evaluator) ComputeDiffeoQualiEval(results, resultsLatent *SimulationResults, primitiveID, iteration int) (bool, error) {
	return false, ErrDiffeoEvalUnsupported
}

// computeTime accumulates per-sample time deltas into per-sample times.
func computeTime(deltas []float64) []float64 {
	times := make([]float64, len(deltas))
	t := 0.0
	for i, d := range deltas {
		t += d
		times[i] = t
	}
	return times
}

// meanDeltaT averages every recorded delta across the held-out
// demonstrations.
func meanDeltaT(deltaT [][]float64) float64 {
	sum, n := 0.0, 0
	for _, deltas := range deltaT {
		for _, d := range deltas {
			sum += d
			n++
		}
	}
	if n == 0 {
		return 1
	}
	return sum / float64(n)
}
