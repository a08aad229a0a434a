package preprocess

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/arcspline/demoprep/demos"
	"github.com/arcspline/demoprep/dsops"
)

func demo1D(values ...float64) demos.Demonstration {
	samples := make([][]float64, len(values))
	for i, v := range values {
		samples[i] = []float64{v}
	}
	return demos.Demonstration{Samples: samples}
}

func TestWorkspaceBoundsFromData(t *testing.T) {
	p := New(Config{
		WorkspaceDimensions:     1,
		DynamicalSystemOrder:    1,
		WorkspaceBoundariesType: BoundariesFromData,
		StateIncrement:          0.2,
	}, nil)

	// Combined pre-margin range across the two demonstrations is [0, 10].
	raw := []demos.Demonstration{demo1D(0, 4, 10), demo1D(2, 8)}

	xMin, xMax, err := p.workspaceBounds(raw)
	if err != nil {
		t.Fatalf("workspaceBounds failed: %v", err)
	}

	// The max expands first: 10 + 10*0.2/2 = 11. The min margin then reuses
	// the updated max: 0 - 11*0.2/2 = -1.1.
	if math.Abs(xMax[0]-11) > 1e-12 {
		t.Errorf("x max = %v, want 11", xMax[0])
	}
	if math.Abs(xMin[0]-(-1.1)) > 1e-12 {
		t.Errorf("x min = %v, want -1.1", xMin[0])
	}
}

func TestWorkspaceBoundsCustom(t *testing.T) {
	p := New(Config{
		WorkspaceBoundariesType: BoundariesCustom,
		WorkspaceBoundaries:     [][2]float64{{-2, 2}, {0, 5}},
	}, nil)

	xMin, xMax, err := p.workspaceBounds(nil)
	if err != nil {
		t.Fatalf("workspaceBounds failed: %v", err)
	}
	if xMin[0] != -2 || xMin[1] != 0 {
		t.Errorf("x min = %v, want [-2 0]", xMin)
	}
	if xMax[0] != 2 || xMax[1] != 5 {
		t.Errorf("x max = %v, want [2 5]", xMax)
	}
}

func TestWorkspaceBoundsInvalidMode(t *testing.T) {
	p := New(Config{WorkspaceBoundariesType: "bogus"}, nil)

	_, _, err := p.workspaceBounds(nil)
	if err == nil {
		t.Fatal("expected error for bogus boundary mode")
	}
	var cfgErr *InvalidConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("error type = %T, want *InvalidConfigError", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, BoundariesFromData) || !strings.Contains(msg, BoundariesCustom) {
		t.Errorf("error %q does not name the valid modes", msg)
	}
}

func TestBoundsNormalizationRoundTrip(t *testing.T) {
	raw := []demos.Demonstration{demo1D(0, 4, 10), demo1D(2, 8)}

	modes := []Config{
		{
			WorkspaceDimensions:     1,
			DynamicalSystemOrder:    1,
			WorkspaceBoundariesType: BoundariesFromData,
			StateIncrement:          0.2,
		},
		{
			WorkspaceBoundariesType: BoundariesCustom,
			WorkspaceBoundaries:     [][2]float64{{-3, 12}},
		},
	}

	for _, cfg := range modes {
		xMin, xMax, err := New(cfg, nil).workspaceBounds(raw)
		if err != nil {
			t.Fatalf("workspaceBounds failed for mode %q: %v", cfg.WorkspaceBoundariesType, err)
		}
		for _, v := range []float64{0, 2, 7.5, 10} {
			norm := dsops.NormalizeState([]float64{v}, xMin, xMax)
			back := dsops.DenormalizeState(norm, xMin, xMax)
			if math.Abs(back[0]-v) > 1e-12 {
				t.Errorf("mode %q: round trip of %v gave %v", cfg.WorkspaceBoundariesType, v, back[0])
			}
		}
	}
}

func TestExpandBoundsUsesUpdatedMax(t *testing.T) {
	xMin := []float64{0}
	xMax := []float64{10}
	expandBounds(xMin, xMax, 0.2)

	if math.Abs(xMax[0]-11) > 1e-12 {
		t.Errorf("expanded max = %v, want 11", xMax[0])
	}
	// 0 - (11-0)*0.1, not 0 - (10-0)*0.1.
	if math.Abs(xMin[0]-(-1.1)) > 1e-12 {
		t.Errorf("expanded min = %v, want -1.1", xMin[0])
	}
}
