package demos

import (
	"fmt"
	"path/filepath"
	"strings"
)

// DirLoader loads demonstration CSV files from a root directory. Each dataset
// is a subdirectory of Root containing one or more CSV files; rows are
// grouped into demonstrations by the demo id column and tagged with the
// primitive id column. State columns are read in the order given by
// StateCols.
type DirLoader struct {
	// Root directory containing one subdirectory per dataset.
	Root string

	// StateCols names the state columns, in state-vector order.
	StateCols []string

	// DemoIDCol is the demonstration grouping column. Default "demo_id".
	DemoIDCol string

	// PrimitiveCol is the primitive id column. Default "primitive_id".
	PrimitiveCol string

	// TimeCol names an optional per-sample timestamp column used to derive
	// the time deltas kept for evaluation. Default "time"; if the column is
	// absent, unit deltas are used.
	TimeCol string
}

// NewDirLoader creates a loader for the given root directory and state
// column names.
func NewDirLoader(root string, stateCols []string) *DirLoader {
	return &DirLoader{
		Root:         root,
		StateCols:    stateCols,
		DemoIDCol:    "demo_id",
		PrimitiveCol: "primitive_id",
		TimeCol:      "time",
	}
}

// Load reads every CSV file of the named dataset and returns the
// demonstrations of the selected primitives, in file scan order. An empty
// selectedPrimitives keeps every primitive.
func (l *DirLoader) Load(dataset string, selectedPrimitives []int) (*LoadedData, error) {
	pattern := filepath.Join(l.Root, dataset, "*.csv")
	csvPaths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to glob pattern %s: %w", pattern, err)
	}
	if len(csvPaths) == 0 {
		return nil, fmt.Errorf("no CSV files found matching pattern: %s", pattern)
	}

	selected := make(map[int]bool)
	for _, id := range selectedPrimitives {
		selected[id] = true
	}

	data := &LoadedData{Dataset: dataset}
	for _, path := range csvPaths {
		if err := l.loadFile(path, selected, data); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	if len(data.Demonstrations) == 0 {
		return nil, fmt.Errorf("dataset %s contains no demonstrations for the selected primitives", dataset)
	}
	return data, nil
}

// demoAccum collects the rows of one demonstration while a file is scanned.
type demoAccum struct {
	samples     [][]float64
	times       []float64
	primitiveID int
}

func (l *DirLoader) loadFile(path string, selected map[int]bool, data *LoadedData) error {
	colIndex, err := readHeader(path)
	if err != nil {
		return err
	}

	demoIdx, err := l.resolveColumn(colIndex, l.DemoIDCol, "demo_id", "demo", "trajectory_id")
	if err != nil {
		return err
	}
	primIdx, err := l.resolveColumn(colIndex, l.PrimitiveCol, "primitive_id", "primitive")
	if err != nil {
		return err
	}

	stateIdx := make([]int, len(l.StateCols))
	for i, col := range l.StateCols {
		idx, ok := colIndex[strings.ToLower(col)]
		if !ok {
			return fmt.Errorf("state column %q not found", col)
		}
		stateIdx[i] = idx
	}

	timeIdx := -1
	if l.TimeCol != "" {
		if idx, ok := colIndex[strings.ToLower(l.TimeCol)]; ok {
			timeIdx = idx
		}
	}

	// Group rows by demo id, preserving first-appearance order.
	accums := make(map[string]*demoAccum)
	var order []string

	err = forEachRow(path, func(record []string) error {
		demoID := strings.TrimSpace(record[demoIdx])
		acc, ok := accums[demoID]
		if !ok {
			primID, err := parseInt(record[primIdx])
			if err != nil {
				return fmt.Errorf("bad primitive id for demo %s: %w", demoID, err)
			}
			acc = &demoAccum{primitiveID: primID}
			accums[demoID] = acc
			order = append(order, demoID)
		}

		sample := make([]float64, len(stateIdx))
		for i, col := range stateIdx {
			v, err := parseFloat64(record[col])
			if err != nil {
				return fmt.Errorf("bad state value in demo %s: %w", demoID, err)
			}
			sample[i] = v
		}
		acc.samples = append(acc.samples, sample)

		if timeIdx >= 0 {
			ts, err := parseFloat64(record[timeIdx])
			if err != nil {
				return fmt.Errorf("bad timestamp in demo %s: %w", demoID, err)
			}
			acc.times = append(acc.times, ts)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, demoID := range order {
		acc := accums[demoID]
		if len(selected) > 0 && !selected[acc.primitiveID] {
			continue
		}
		data.Demonstrations = append(data.Demonstrations, Demonstration{
			Samples:     acc.samples,
			PrimitiveID: acc.primitiveID,
		})
		data.PrimitiveIDs = append(data.PrimitiveIDs, acc.primitiveID)
		data.DeltaT = append(data.DeltaT, sampleDeltas(acc.times, len(acc.samples)))
	}
	return nil
}

// resolveColumn finds a column by the configured name, falling back to a list
// of common names.
func (l *DirLoader) resolveColumn(colIndex map[string]int, name string, fallbacks ...string) (int, error) {
	if name != "" {
		if idx, ok := colIndex[strings.ToLower(name)]; ok {
			return idx, nil
		}
	}
	for _, fb := range fallbacks {
		if idx, ok := colIndex[fb]; ok {
			return idx, nil
		}
	}
	return 0, fmt.Errorf("could not find column %q", name)
}

// sampleDeltas derives per-sample time deltas from recorded timestamps. With
// no timestamp column every delta is 1. The first delta is duplicated so the
// result stays parallel to the samples.
func sampleDeltas(times []float64, n int) []float64 {
	deltas := make([]float64, n)
	if len(times) != n || n < 2 {
		for i := range deltas {
			deltas[i] = 1
		}
		return deltas
	}
	for i := 1; i < n; i++ {
		deltas[i] = times[i] - times[i-1]
	}
	deltas[0] = deltas[1]
	return deltas
}
