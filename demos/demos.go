package demos

import "github.com/gomlx/gomlx/pkg/core/tensors"

// This package loads recorded demonstration trajectories from CSV assets and
// presents them to the preprocessing pipeline, and wraps the preprocessed
// imitation windows as a dataset suitable for model training.
//
// The loader uses lazy discovery - it globs the dataset directory up front,
// then reads rows grouped by a demonstration id column. Each demonstration is
// a variable-length, time-ordered sequence of state vectors tagged with the
// id of the motion primitive it belongs to.
//
// Notes on gomlx tensors:
//   - The window tensor produced by preprocessing is kept as a contiguous
//     float64 buffer plus shape metadata. Conversion into gomlx tensors is a
//     small, well-defined step (see WindowTensor.ToGomlxTensor) so the rest
//     of the pipeline stays free of any particular tensor API.
//
// Layout and intended usage:
//
// DirLoader
//   - Points at a root directory of datasets; each dataset is a directory of
//     CSV files with a demo id column, a primitive id column and one column
//     per state dimension.
//   - Load returns all demonstrations of the selected primitives, in file
//     scan order, together with the parallel primitive id array.
//
// TrainingDataset
//   - Wraps a WindowTensor; each example is one resampled point of one
//     trajectory, its inputs the first window position and its labels the
//     full imitation window.

// Demonstration is a single recorded trajectory: an ordered sequence of state
// samples (sample-major; each sample has length workspace dim times the
// dynamical-system order) and the id of the motion primitive it demonstrates.
type Demonstration struct {
	Samples     [][]float64
	PrimitiveID int
}

// Len returns the number of samples in the demonstration.
func (d Demonstration) Len() int { return len(d.Samples) }

// LoadedData is the mapping the loader collaborator supplies to the
// preprocessing pipeline: the raw demonstrations, the parallel primitive id
// array, and the per-sample time deltas kept aside for evaluation plotting.
type LoadedData struct {
	Dataset        string
	Demonstrations []Demonstration
	PrimitiveIDs   []int
	DeltaT         [][]float64
}

// Dataset is the interface the training stage consumes. TrainingDataset
// implements it; the Yield method matches gomlx's train.Dataset so the
// imitation windows can be fed straight into a gomlx training loop.
type Dataset interface {
	Len() int
	Example(i int) (inputs []float64, labels []float64, err error)
	Batch(indices []int) (inputs [][]float64, labels [][]float64, err error)
	Shuffle(seed int64)

	Yield() (any, []*tensors.Tensor, []*tensors.Tensor, error)
}
