package preprocess

import (
	"sort"

	"github.com/arcspline/demoprep/demos"
	"github.com/arcspline/demoprep/dsops"
)

// Features collects everything derived from the raw demonstrations before
// resampling: workspace bounds, per-primitive goals (raw and normalized),
// trajectory lengths and the reduced index sets used for fast evaluation.
type Features struct {
	XMin []float64
	XMax []float64

	// Goals holds one averaged terminal state per unique primitive id, in
	// ascending id order. GoalsTraining is the same in bounds-normalized
	// coordinates.
	Goals         [][]float64
	GoalsTraining [][]float64

	MaxDemonstrationLength int
	DemonstrationLengths   []int
	EvalIndexes            [][]int
	NDemonstrations        int
}

// demoFeatures computes the demonstration features. It fails fast on an
// invalid boundary mode before anything else is derived.
func (p *Preprocessor) demoFeatures(data *demos.LoadedData) (*Features, error) {
	xMin, xMax, err := p.workspaceBounds(data.Demonstrations)
	if err != nil {
		return nil, err
	}

	goals := goalStates(data.Demonstrations, data.PrimitiveIDs)
	goalsTraining := dsops.NormalizeStates(goals, xMin, xMax)

	maxLength, lengths, evalIndexes := trajectoryLengths(data.Demonstrations, p.cfg.EvaluationSamplesLength)

	return &Features{
		XMin:                   xMin,
		XMax:                   xMax,
		Goals:                  goals,
		GoalsTraining:          goalsTraining,
		MaxDemonstrationLength: maxLength,
		DemonstrationLengths:   lengths,
		EvalIndexes:            evalIndexes,
		NDemonstrations:        len(data.Demonstrations),
	}, nil
}

// goalStates averages, per unique primitive id in ascending order, the final
// raw state of that primitive's demonstrations.
func goalStates(demonstrations []demos.Demonstration, primitiveIDs []int) [][]float64 {
	unique := make(map[int]bool)
	for _, id := range primitiveIDs {
		unique[id] = true
	}
	ids := make([]int, 0, len(unique))
	for id := range unique {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	goals := make([][]float64, 0, len(ids))
	for _, id := range ids {
		var goal []float64
		count := 0
		for j, primID := range primitiveIDs {
			if primID != id {
				continue
			}
			final := demonstrations[j].Samples[demonstrations[j].Len()-1]
			if goal == nil {
				goal = make([]float64, len(final))
			}
			for d, v := range final {
				goal[d] += v
			}
			count++
		}
		for d := range goal {
			goal[d] /= float64(count)
		}
		goals = append(goals, goal)
	}
	return goals
}

// trajectoryLengths computes each trajectory's length, the longest length,
// and the reduced per-trajectory index sets for cheap evaluation sampling:
// evenly strided indices when the trajectory is longer than evalLength,
// otherwise every index.
func trajectoryLengths(demonstrations []demos.Demonstration, evalLength int) (maxLength int, lengths []int, evalIndexes [][]int) {
	lengths = make([]int, len(demonstrations))
	evalIndexes = make([][]int, len(demonstrations))

	for j, demo := range demonstrations {
		length := demo.Len()
		lengths[j] = length
		if length > maxLength {
			maxLength = length
		}

		stride := 1
		if length > evalLength {
			stride = length / evalLength
		}
		indexes := make([]int, 0, (length+stride-1)/stride)
		for i := 0; i < length; i += stride {
			indexes = append(indexes, i)
		}
		evalIndexes[j] = indexes
	}
	return maxLength, lengths, evalIndexes
}
