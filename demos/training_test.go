package demos

import (
	"io"
	"testing"
)

// fillSequential numbers every cell of the tensor so tests can check
// addressing: value = ((j*nPoints+p)*dim+d)*window + w.
func fillSequential(t *WindowTensor) {
	nTraj, nPoints, dim, window := t.Dims()
	v := 0.0
	for j := 0; j < nTraj; j++ {
		for p := 0; p < nPoints; p++ {
			for d := 0; d < dim; d++ {
				for w := 0; w < window; w++ {
					t.Set(j, p, d, w, v)
					v++
				}
			}
		}
	}
}

func TestWindowTensorAddressing(t *testing.T) {
	wt := NewWindowTensor(2, 3, 2, 4)
	fillSequential(wt)

	if got := wt.At(0, 0, 0, 0); got != 0 {
		t.Errorf("At(0,0,0,0) = %v, want 0", got)
	}
	if got := wt.At(1, 2, 1, 3); got != float64(2*3*2*4-1) {
		t.Errorf("At(1,2,1,3) = %v, want %v", got, 2*3*2*4-1)
	}
	if got := len(wt.Raw()); got != 2*3*2*4 {
		t.Errorf("Raw length = %d, want %d", got, 2*3*2*4)
	}
}

func TestTrainingDatasetExample(t *testing.T) {
	wt := NewWindowTensor(2, 3, 2, 4)
	fillSequential(wt)
	ds := NewTrainingDataset(wt)

	if got := ds.Len(); got != 6 {
		t.Fatalf("Len = %d, want 6", got)
	}

	// Example 4 is trajectory 1, point 1.
	inputs, labels, err := ds.Example(4)
	if err != nil {
		t.Fatalf("Example failed: %v", err)
	}
	if len(inputs) != 2 {
		t.Fatalf("inputs length = %d, want 2", len(inputs))
	}
	if len(labels) != 2*4 {
		t.Fatalf("labels length = %d, want 8", len(labels))
	}
	// Inputs are window step 0 for each dimension.
	if inputs[0] != wt.At(1, 1, 0, 0) || inputs[1] != wt.At(1, 1, 1, 0) {
		t.Errorf("inputs = %v, want window step 0 of trajectory 1 point 1", inputs)
	}
	// Labels are dimension-major windows.
	for d := 0; d < 2; d++ {
		for w := 0; w < 4; w++ {
			if labels[d*4+w] != wt.At(1, 1, d, w) {
				t.Errorf("labels[%d] = %v, want %v", d*4+w, labels[d*4+w], wt.At(1, 1, d, w))
			}
		}
	}

	if _, _, err := ds.Example(6); err == nil {
		t.Error("expected out-of-range error")
	}
}

func TestTrainingDatasetYield(t *testing.T) {
	wt := NewWindowTensor(2, 3, 2, 4)
	fillSequential(wt)
	ds := NewTrainingDataset(wt)
	ds.BatchSize = 4

	// First batch of 4, second of 2, then EOF.
	_, ins, labs, err := ds.Yield()
	if err != nil {
		t.Fatalf("first Yield failed: %v", err)
	}
	if len(ins) != 1 || len(labs) != 1 {
		t.Fatalf("Yield returned %d input and %d label tensors, want 1 and 1", len(ins), len(labs))
	}

	if _, _, _, err := ds.Yield(); err != nil {
		t.Fatalf("second Yield failed: %v", err)
	}
	if _, _, _, err := ds.Yield(); err != io.EOF {
		t.Fatalf("third Yield error = %v, want io.EOF", err)
	}

	ds.Reset()
	if _, _, _, err := ds.Yield(); err != nil {
		t.Fatalf("Yield after Reset failed: %v", err)
	}
}

func TestTrainingDatasetShuffleIsPermutation(t *testing.T) {
	wt := NewWindowTensor(1, 5, 1, 2)
	fillSequential(wt)
	ds := NewTrainingDataset(wt)
	ds.Shuffle(7)

	seen := make(map[float64]bool)
	for i := 0; i < ds.Len(); i++ {
		inputs, _, err := ds.Example(i)
		if err != nil {
			t.Fatalf("Example failed: %v", err)
		}
		seen[inputs[0]] = true
	}
	if len(seen) != 5 {
		t.Errorf("shuffle lost examples: saw %d unique inputs, want 5", len(seen))
	}
}
