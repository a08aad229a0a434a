package preprocess

import (
	"fmt"
	"strings"
)

// Workspace boundary modes.
const (
	// BoundariesFromData derives bounds from the demonstrations, widened by
	// the state-increment margin.
	BoundariesFromData = "from data"

	// BoundariesCustom uses the user-supplied per-dimension [min,max] array.
	BoundariesCustom = "custom"
)

// Config holds every externally supplied preprocessing option. It is read-only
// once handed to New; components receive it by value.
type Config struct {
	// TrajectoriesResampleLength is the number of equidistant arc-length
	// points each demonstration is resampled to.
	TrajectoriesResampleLength int

	// StateIncrement is the fractional safety margin applied when widening
	// data-derived workspace bounds and second-order velocity limits.
	StateIncrement float64

	// WorkspaceDimensions is the dimensionality of the workspace (positions).
	WorkspaceDimensions int

	// DynamicalSystemOrder is 1 (position state) or 2 (position+velocity).
	DynamicalSystemOrder int

	// WorkspaceBoundariesType selects BoundariesFromData or BoundariesCustom.
	WorkspaceBoundariesType string

	// WorkspaceBoundaries supplies explicit [min,max] per state dimension
	// when WorkspaceBoundariesType is BoundariesCustom.
	WorkspaceBoundaries [][2]float64

	// EvaluationSamplesLength is the target sample count for the reduced
	// evaluation index sets.
	EvaluationSamplesLength int

	// DatasetName identifies the dataset handed to the loader.
	DatasetName string

	// SelectedPrimitivesIDs restricts loading to these primitives; empty
	// keeps all.
	SelectedPrimitivesIDs []int

	// ImitationWindowSize is the number of future positions attached to each
	// resampled point.
	ImitationWindowSize int

	// Verbose enables progress logging.
	Verbose bool
}

// StateDimension is the length of a raw state vector: workspace dimensions
// times the dynamical-system order.
func (c Config) StateDimension() int {
	return c.WorkspaceDimensions * c.DynamicalSystemOrder
}

// WindowSteps is the number of window steps generated per resampled point:
// the imitation window size plus order minus one.
func (c Config) WindowSteps() int {
	return c.ImitationWindowSize + c.DynamicalSystemOrder - 1
}

// InvalidConfigError reports a configuration option set to an unrecognized
// value, naming the valid alternatives.
type InvalidConfigError struct {
	Option string
	Value  string
	Valid  []string
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("selected %s %q not valid. Try: %s", e.Option, e.Value, strings.Join(e.Valid, ", "))
}
