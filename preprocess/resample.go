package preprocess

import (
	"fmt"
	"log"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"
	"gonum.org/v1/gonum/stat"

	"github.com/arcspline/demoprep/demos"
	"github.com/arcspline/demoprep/dsops"
)

// zeroDistanceEps replaces a zero arc-length step between consecutive
// samples. Repeated samples would otherwise produce duplicate spline knots
// and an ill-posed fit; the value is small enough to leave the geometry
// untouched.
const zeroDistanceEps = 1e-15

// trainingDeltaT is the synthetic time step of the resampled training data.
// The windows are used for learning only, so any constant works.
const trainingDeltaT = 1.0

// curveSpline is a piecewise-linear, zero-smoothing spline through the curve
// [normalized dim 1..D, phase, phase delta], parametrized by the arc-length
// phase itself. Channel D is the phase, channel D+1 the per-sample delta.
type curveSpline struct {
	channels []interp.PiecewiseLinear
	dimW     int
}

// fitCurveSpline builds the phase-parametrized spline for one normalized
// trajectory. phases must be strictly increasing, which the zero-distance
// epsilon guarantees.
func fitCurveSpline(demoNorm [][]float64, phases, deltas []float64, dimW int) (*curveSpline, error) {
	n := len(demoNorm)
	s := &curveSpline{
		channels: make([]interp.PiecewiseLinear, dimW+2),
		dimW:     dimW,
	}

	col := make([]float64, n)
	for d := 0; d < dimW; d++ {
		for i := range demoNorm {
			col[i] = demoNorm[i][d]
		}
		if err := s.channels[d].Fit(phases, col); err != nil {
			return nil, fmt.Errorf("spline fit failed for dimension %d: %w", d, err)
		}
	}
	if err := s.channels[dimW].Fit(phases, phases); err != nil {
		return nil, fmt.Errorf("spline fit failed for phase channel: %w", err)
	}
	if err := s.channels[dimW+1].Fit(phases, deltas); err != nil {
		return nil, fmt.Errorf("spline fit failed for delta channel: %w", err)
	}
	return s, nil
}

// position evaluates workspace dimension d at phase u.
func (s *curveSpline) position(d int, u float64) float64 { return s.channels[d].Predict(u) }

// phase evaluates the arc-length channel at phase u.
func (s *curveSpline) phase(u float64) float64 { return s.channels[s.dimW].Predict(u) }

// delta evaluates the per-sample phase-delta channel at phase u.
func (s *curveSpline) delta(u float64) float64 { return s.channels[s.dimW+1].Predict(u) }

// phaseParametrize builds the arc-length phase sequence of a normalized
// trajectory: phase[0] = 0 and each increment is the Euclidean distance
// between consecutive normalized samples, with zero distances replaced by
// zeroDistanceEps. The returned deltas are parallel to the samples; the last
// delta is 0 since the final sample has no successor.
func phaseParametrize(demoNorm [][]float64) (phases, deltas []float64) {
	n := len(demoNorm)
	phases = make([]float64, n)
	deltas = make([]float64, n)
	for i := 0; i < n-1; i++ {
		d := floats.Distance(demoNorm[i+1], demoNorm[i], 2)
		if d == 0 {
			d = zeroDistanceEps
		}
		phases[i+1] = phases[i] + d
		deltas[i] = d
	}
	return phases, deltas
}

// resampleTrajectory resamples one demonstration to cfg's fixed number of
// equidistant arc-length points and builds the multi-step imitation window at
// each of them. The result is window-step major: window[w][d][p] is the
// position of workspace dimension d at resampled point p, w steps into the
// window. The returned diagnostics hold, per window step, the mean absolute
// disagreement between the spline's arc-length channel and the phase
// increment actually applied; it is reported but never acted on.
func resampleTrajectory(demo demos.Demonstration, xMin, xMax []float64, cfg Config) (window [][][]float64, diagnostics []float64, err error) {
	demoNorm := dsops.NormalizeStates(demo.Samples, xMin, xMax)
	phases, deltas := phaseParametrize(demoNorm)
	maxPhase := phases[len(phases)-1]

	dimW := cfg.WorkspaceDimensions
	spline, err := fitCurveSpline(demoNorm, phases, deltas, dimW)
	if err != nil {
		return nil, nil, err
	}

	// Equally spaced phases from 0 to the trajectory's total arc length.
	u := make([]float64, cfg.TrajectoriesResampleLength)
	floats.Span(u, 0, maxPhase)

	steps := cfg.WindowSteps()
	window = make([][][]float64, steps)
	diagnostics = make([]float64, 0, steps)
	next := make([]float64, len(u))

	for w := 0; w < steps; w++ {
		perDim := make([][]float64, dimW)
		for d := 0; d < dimW; d++ {
			vals := make([]float64, len(u))
			for p, phase := range u {
				vals[p] = spline.position(d, phase)
			}
			perDim[d] = vals
		}
		window[w] = perDim

		// Advance each phase sample by the local sampling-rate delta,
		// clamped so later window steps never overrun the trajectory end.
		for p, phase := range u {
			next[p] = phase + spline.delta(phase)
			u[p] = math.Min(math.Max(next[p], 0), maxPhase)
		}

		// Diagnostic only: how far the arc-length channel disagrees with the
		// increment that was applied.
		stepErr := 0.0
		for p := range u {
			stepErr += math.Abs(spline.phase(u[p]) - next[p])
		}
		diagnostics = append(diagnostics, stepErr/float64(len(u)))
	}
	return window, diagnostics, nil
}

// generateTrainingData resamples every demonstration and assembles the
// training tensor, indexed [trajectory, resampled point, workspace dimension,
// window step]. It also returns the mean spline resampling error across all
// trajectories and window steps.
func (p *Preprocessor) generateTrainingData(data *demos.LoadedData, f *Features) (*demos.WindowTensor, float64, error) {
	n := len(data.Demonstrations)
	tensor := demos.NewWindowTensor(n, p.cfg.TrajectoriesResampleLength, p.cfg.WorkspaceDimensions, p.cfg.WindowSteps())

	var errAcc []float64
	for j, demo := range data.Demonstrations {
		if p.cfg.Verbose {
			log.Printf("data preprocessing, demonstration %d / %d", j+1, n)
		}

		window, diagnostics, err := resampleTrajectory(demo, f.XMin, f.XMax, p.cfg)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to resample demonstration %d: %w", j, err)
		}
		errAcc = append(errAcc, diagnostics...)

		for w, perDim := range window {
			for d, vals := range perDim {
				for pt, v := range vals {
					tensor.Set(j, pt, d, w, v)
				}
			}
		}
	}

	meanErr := stat.Mean(errAcc, nil)
	if p.cfg.Verbose {
		log.Printf("mean error spline resampling: %g", meanErr)
	}
	return tensor, meanErr, nil
}
