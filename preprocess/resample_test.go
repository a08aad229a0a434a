package preprocess

import (
	"math"
	"testing"

	"github.com/arcspline/demoprep/demos"
)

// lineDemo2D builds a demonstration moving on a straight line in 2D.
func lineDemo2D(n int) demos.Demonstration {
	samples := make([][]float64, n)
	for i := 0; i < n; i++ {
		samples[i] = []float64{float64(i) * 0.5, float64(i) * 0.25}
	}
	return demos.Demonstration{Samples: samples}
}

func resampleConfig() Config {
	return Config{
		TrajectoriesResampleLength: 10,
		StateIncrement:             0.2,
		WorkspaceDimensions:        2,
		DynamicalSystemOrder:       1,
		WorkspaceBoundariesType:    BoundariesFromData,
		EvaluationSamplesLength:    5,
		ImitationWindowSize:        3,
	}
}

func TestPhaseParametrizeStrictlyIncreasing(t *testing.T) {
	// Includes a repeated sample so a zero distance occurs.
	demoNorm := [][]float64{{0, 0}, {0.1, 0}, {0.1, 0}, {0.2, 0.1}}

	phases, deltas := phaseParametrize(demoNorm)

	if phases[0] != 0 {
		t.Errorf("phase[0] = %v, want 0", phases[0])
	}
	for i := 1; i < len(phases); i++ {
		if phases[i] <= phases[i-1] {
			t.Errorf("phases not strictly increasing at %d: %v <= %v", i, phases[i], phases[i-1])
		}
	}
	if deltas[1] != zeroDistanceEps {
		t.Errorf("zero-distance delta = %v, want %v", deltas[1], zeroDistanceEps)
	}
	if deltas[len(deltas)-1] != 0 {
		t.Errorf("last delta = %v, want 0", deltas[len(deltas)-1])
	}
}

func TestResampleTrajectoryShape(t *testing.T) {
	cfg := resampleConfig()
	demo := lineDemo2D(20)

	p := New(cfg, nil)
	xMin, xMax, err := p.workspaceBounds([]demos.Demonstration{demo})
	if err != nil {
		t.Fatalf("workspaceBounds failed: %v", err)
	}

	window, diagnostics, err := resampleTrajectory(demo, xMin, xMax, cfg)
	if err != nil {
		t.Fatalf("resampleTrajectory failed: %v", err)
	}

	if len(window) != cfg.WindowSteps() {
		t.Fatalf("window steps = %d, want %d", len(window), cfg.WindowSteps())
	}
	for w, perDim := range window {
		if len(perDim) != cfg.WorkspaceDimensions {
			t.Fatalf("window step %d has %d dimensions, want %d", w, len(perDim), cfg.WorkspaceDimensions)
		}
		for d, vals := range perDim {
			if len(vals) != cfg.TrajectoriesResampleLength {
				t.Fatalf("window[%d][%d] has %d points, want %d", w, d, len(vals), cfg.TrajectoriesResampleLength)
			}
		}
	}
	if len(diagnostics) != cfg.WindowSteps() {
		t.Errorf("diagnostics length = %d, want %d", len(diagnostics), cfg.WindowSteps())
	}

	// Normalized positions stay inside the reference frame.
	for w, perDim := range window {
		for d, vals := range perDim {
			for pt, v := range vals {
				if v < -1-1e-9 || v > 1+1e-9 {
					t.Errorf("window[%d][%d][%d] = %v outside [-1, 1]", w, d, pt, v)
				}
			}
		}
	}
}

func TestResampleTrajectoryEndpoints(t *testing.T) {
	cfg := resampleConfig()
	demo := lineDemo2D(20)

	p := New(cfg, nil)
	xMin, xMax, err := p.workspaceBounds([]demos.Demonstration{demo})
	if err != nil {
		t.Fatalf("workspaceBounds failed: %v", err)
	}

	window, _, err := resampleTrajectory(demo, xMin, xMax, cfg)
	if err != nil {
		t.Fatalf("resampleTrajectory failed: %v", err)
	}

	// On a straight line the resampled first window step spans the whole
	// normalized trajectory: first point at the start, last at the end.
	for d := 0; d < cfg.WorkspaceDimensions; d++ {
		vals := window[0][d]
		start := 2*(demo.Samples[0][d]-xMin[d])/(xMax[d]-xMin[d]) - 1
		end := 2*(demo.Samples[19][d]-xMin[d])/(xMax[d]-xMin[d]) - 1
		if math.Abs(vals[0]-start) > 1e-9 {
			t.Errorf("dim %d first point = %v, want %v", d, vals[0], start)
		}
		if math.Abs(vals[len(vals)-1]-end) > 1e-9 {
			t.Errorf("dim %d last point = %v, want %v", d, vals[len(vals)-1], end)
		}
	}

	// Later window steps advance along the trajectory but stay clamped to
	// the end: the final resampled point never moves past the end state.
	for w := 1; w < len(window); w++ {
		for d := 0; d < cfg.WorkspaceDimensions; d++ {
			last := window[w][d][len(window[w][d])-1]
			end := 2*(demo.Samples[19][d]-xMin[d])/(xMax[d]-xMin[d]) - 1
			if math.Abs(last-end) > 1e-9 {
				t.Errorf("window step %d dim %d end point = %v, want %v", w, d, last, end)
			}
		}
	}
}

func TestGenerateTrainingDataTensorShape(t *testing.T) {
	cfg := resampleConfig()
	data := &demos.LoadedData{
		Demonstrations: []demos.Demonstration{lineDemo2D(20), lineDemo2D(15), lineDemo2D(30)},
		PrimitiveIDs:   []int{0, 0, 1},
	}

	p := New(cfg, nil)
	features, err := p.demoFeatures(data)
	if err != nil {
		t.Fatalf("demoFeatures failed: %v", err)
	}

	tensor, _, err := p.generateTrainingData(data, features)
	if err != nil {
		t.Fatalf("generateTrainingData failed: %v", err)
	}

	nTraj, nPoints, dim, window := tensor.Dims()
	if nTraj != 3 || nPoints != cfg.TrajectoriesResampleLength || dim != cfg.WorkspaceDimensions || window != cfg.WindowSteps() {
		t.Errorf("tensor dims = [%d %d %d %d], want [3 %d %d %d]",
			nTraj, nPoints, dim, window,
			cfg.TrajectoriesResampleLength, cfg.WorkspaceDimensions, cfg.WindowSteps())
	}
}

func TestGenerateTrainingDataSecondOrderWindow(t *testing.T) {
	cfg := resampleConfig()
	cfg.DynamicalSystemOrder = 2
	cfg.WorkspaceDimensions = 1

	// Second-order state: position plus velocity columns.
	samples := make([][]float64, 20)
	for i := range samples {
		samples[i] = []float64{float64(i) * 0.5, 0.2 + float64(i)*0.1}
	}
	data := &demos.LoadedData{
		Demonstrations: []demos.Demonstration{{Samples: samples}},
		PrimitiveIDs:   []int{0},
	}

	p := New(cfg, nil)
	features, err := p.demoFeatures(data)
	if err != nil {
		t.Fatalf("demoFeatures failed: %v", err)
	}
	tensor, _, err := p.generateTrainingData(data, features)
	if err != nil {
		t.Fatalf("generateTrainingData failed: %v", err)
	}

	_, _, _, window := tensor.Dims()
	if window != cfg.ImitationWindowSize+1 {
		t.Errorf("window steps = %d, want %d", window, cfg.ImitationWindowSize+1)
	}
}
