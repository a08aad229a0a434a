package demos

import (
	"fmt"
	"io"
	"math/rand"

	"github.com/gomlx/gomlx/pkg/core/tensors"
)

// TrainingDataset presents the imitation windows of a WindowTensor as a
// trainable dataset. Each example corresponds to one resampled point of one
// trajectory: the inputs are that point's position (window step 0) and the
// labels are the full imitation window, flattened dimension-major.
type TrainingDataset struct {
	// BatchSize used by Yield.
	BatchSize int

	tensor *WindowTensor

	// order maps example index to (trajectory, point); shuffled in place.
	order []int

	cursor int
	rand   *rand.Rand
}

// NewTrainingDataset wraps a window tensor. The example order starts
// sequential; call Shuffle to randomize it.
func NewTrainingDataset(t *WindowTensor) *TrainingDataset {
	nTraj, nPoints, _, _ := t.Dims()
	order := make([]int, nTraj*nPoints)
	for i := range order {
		order[i] = i
	}
	return &TrainingDataset{
		BatchSize: 32,
		tensor:    t,
		order:     order,
		rand:      rand.New(rand.NewSource(1)),
	}
}

// Len returns the number of examples (trajectories times resampled points).
func (ds *TrainingDataset) Len() int { return len(ds.order) }

// Example returns the inputs and labels for one example.
func (ds *TrainingDataset) Example(i int) (inputs []float64, labels []float64, err error) {
	if i < 0 || i >= len(ds.order) {
		return nil, nil, fmt.Errorf("index %d out of range", i)
	}
	_, nPoints, dim, window := ds.tensor.Dims()

	idx := ds.order[i]
	j := idx / nPoints
	p := idx % nPoints

	inputs = make([]float64, dim)
	labels = make([]float64, dim*window)
	for d := 0; d < dim; d++ {
		inputs[d] = ds.tensor.At(j, p, d, 0)
		for w := 0; w < window; w++ {
			labels[d*window+w] = ds.tensor.At(j, p, d, w)
		}
	}
	return inputs, labels, nil
}

// Batch returns inputs and labels for the provided example indices.
func (ds *TrainingDataset) Batch(indices []int) ([][]float64, [][]float64, error) {
	inputs := make([][]float64, len(indices))
	labels := make([][]float64, len(indices))
	for i, idx := range indices {
		in, lab, err := ds.Example(idx)
		if err != nil {
			return nil, nil, err
		}
		inputs[i] = in
		labels[i] = lab
	}
	return inputs, labels, nil
}

// Shuffle reorders the examples and rewinds Yield.
func (ds *TrainingDataset) Shuffle(seed int64) {
	ds.rand = rand.New(rand.NewSource(seed))
	ds.rand.Shuffle(len(ds.order), func(i, j int) {
		ds.order[i], ds.order[j] = ds.order[j], ds.order[i]
	})
	ds.cursor = 0
}

// Reset rewinds Yield to the first batch.
func (ds *TrainingDataset) Reset() { ds.cursor = 0 }

// Yield produces the next minibatch as gomlx tensors, implementing the
// train.Dataset contract. It returns io.EOF once every example has been
// yielded; call Reset or Shuffle to start a new epoch.
func (ds *TrainingDataset) Yield() (any, []*tensors.Tensor, []*tensors.Tensor, error) {
	if ds.cursor >= len(ds.order) {
		return nil, nil, nil, io.EOF
	}
	end := ds.cursor + ds.BatchSize
	if end > len(ds.order) {
		end = len(ds.order)
	}

	indices := make([]int, 0, end-ds.cursor)
	for i := ds.cursor; i < end; i++ {
		indices = append(indices, i)
	}
	ds.cursor = end

	inputs, labels, err := ds.Batch(indices)
	if err != nil {
		return nil, nil, nil, err
	}
	inT := tensors.FromAnyValue(inputs)
	labT := tensors.FromAnyValue(labels)
	return nil, []*tensors.Tensor{inT}, []*tensors.Tensor{labT}, nil
}
