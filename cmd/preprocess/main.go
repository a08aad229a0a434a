// Command preprocess runs the demonstration preprocessing pipeline: it loads
// raw demonstration CSVs, resamples them into arc-length imitation windows
// and writes the training products to a gob file for the training stage.
package main

import (
	"encoding/gob"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/arcspline/demoprep/demos"
	"github.com/arcspline/demoprep/preprocess"
)

// defaultConfigJSON is the embedded configuration used when no --config path
// is provided. Flags override individual fields either way.
const defaultConfigJSON = `{
  "preprocess": {
    "trajectories_resample_length": 300,
    "state_increment": 0.2,
    "workspace_dimensions": 2,
    "dynamical_system_order": 1,
    "workspace_boundaries_type": "from data",
    "workspace_boundaries": [],
    "evaluation_samples_length": 10,
    "dataset_name": "demos",
    "selected_primitives_ids": [],
    "imitation_window_size": 4,
    "verbose": true
  },
  "loader": {
    "root": "assets",
    "state_columns": ["x", "y"],
    "demo_id_column": "demo_id",
    "primitive_id_column": "primitive_id",
    "time_column": "time"
  }
}
`

// fileConfig mirrors the JSON configuration layout.
type fileConfig struct {
	Preprocess struct {
		TrajectoriesResampleLength int          `json:"trajectories_resample_length"`
		StateIncrement             float64      `json:"state_increment"`
		WorkspaceDimensions        int          `json:"workspace_dimensions"`
		DynamicalSystemOrder       int          `json:"dynamical_system_order"`
		WorkspaceBoundariesType    string       `json:"workspace_boundaries_type"`
		WorkspaceBoundaries        [][2]float64 `json:"workspace_boundaries"`
		EvaluationSamplesLength    int          `json:"evaluation_samples_length"`
		DatasetName                string       `json:"dataset_name"`
		SelectedPrimitivesIDs      []int        `json:"selected_primitives_ids"`
		ImitationWindowSize        int          `json:"imitation_window_size"`
		Verbose                    bool         `json:"verbose"`
	} `json:"preprocess"`
	Loader struct {
		Root              string   `json:"root"`
		StateColumns      []string `json:"state_columns"`
		DemoIDColumn      string   `json:"demo_id_column"`
		PrimitiveIDColumn string   `json:"primitive_id_column"`
		TimeColumn        string   `json:"time_column"`
	} `json:"loader"`
}

// cacheFile is the gob layout written for the training stage.
type cacheFile struct {
	TensorData             []float64
	NTrajectories          int
	NPoints                int
	Dim                    int
	Window                 int
	XMin, XMax             []float64
	Goals, GoalsTraining   [][]float64
	MaxDemonstrationLength int
	DemonstrationLengths   []int
	EvalIndexes            [][]int
	NDemonstrations        int
	VelMin, VelMax         []float64
	AccMin, AccMax         []float64
	PrimitiveIDs           []int
	DeltaTEval             [][]float64
	MeanSplineError        float64
}

func loadConfig(path string) (*fileConfig, error) {
	raw := []byte(defaultConfigJSON)
	if path != "" {
		var err error
		raw, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}
	var cfg fileConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

func main() {
	configPath := flag.String("config", "", "path to JSON configuration (embedded defaults if empty)")
	dataRoot := flag.String("data", "", "override the dataset root directory")
	dataset := flag.String("dataset", "", "override the dataset name")
	resample := flag.Int("resample-length", 0, "override the trajectory resample length")
	window := flag.Int("window", 0, "override the imitation window size")
	out := flag.String("out", "output/preprocessed.gob", "output gob file for the training stage")
	verbose := flag.Bool("verbose", false, "force verbose progress logging")
	flag.Parse()

	fc, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}
	if *dataRoot != "" {
		fc.Loader.Root = *dataRoot
	}
	if *dataset != "" {
		fc.Preprocess.DatasetName = *dataset
	}
	if *resample > 0 {
		fc.Preprocess.TrajectoriesResampleLength = *resample
	}
	if *window > 0 {
		fc.Preprocess.ImitationWindowSize = *window
	}
	if *verbose {
		fc.Preprocess.Verbose = true
	}

	cfg := preprocess.Config{
		TrajectoriesResampleLength: fc.Preprocess.TrajectoriesResampleLength,
		StateIncrement:             fc.Preprocess.StateIncrement,
		WorkspaceDimensions:        fc.Preprocess.WorkspaceDimensions,
		DynamicalSystemOrder:       fc.Preprocess.DynamicalSystemOrder,
		WorkspaceBoundariesType:    fc.Preprocess.WorkspaceBoundariesType,
		WorkspaceBoundaries:        fc.Preprocess.WorkspaceBoundaries,
		EvaluationSamplesLength:    fc.Preprocess.EvaluationSamplesLength,
		DatasetName:                fc.Preprocess.DatasetName,
		SelectedPrimitivesIDs:      fc.Preprocess.SelectedPrimitivesIDs,
		ImitationWindowSize:        fc.Preprocess.ImitationWindowSize,
		Verbose:                    fc.Preprocess.Verbose,
	}

	loader := demos.NewDirLoader(fc.Loader.Root, fc.Loader.StateColumns)
	if fc.Loader.DemoIDColumn != "" {
		loader.DemoIDCol = fc.Loader.DemoIDColumn
	}
	if fc.Loader.PrimitiveIDColumn != "" {
		loader.PrimitiveCol = fc.Loader.PrimitiveIDColumn
	}
	if fc.Loader.TimeColumn != "" {
		loader.TimeCol = fc.Loader.TimeColumn
	}

	output, err := preprocess.New(cfg, loader).Run()
	if err != nil {
		log.Fatalf("preprocessing failed: %v", err)
	}

	nTraj, nPoints, dim, windowSteps := output.DemonstrationsTrain.Dims()
	log.Printf("preprocessed %d demonstrations of dataset %q", output.Features.NDemonstrations, cfg.DatasetName)
	log.Printf("training tensor: %d trajectories x %d points x %d dims x %d window steps", nTraj, nPoints, dim, windowSteps)
	log.Printf("workspace bounds: min %v max %v", output.Features.XMin, output.Features.XMax)
	log.Printf("velocity limits: min %v max %v", output.Limits.VelMin, output.Limits.VelMax)
	log.Printf("acceleration limits: min %v max %v", output.Limits.AccMin, output.Limits.AccMax)
	log.Printf("mean spline resampling error: %g", output.MeanSplineError)

	if *out != "" {
		if err := writeCache(*out, output); err != nil {
			log.Fatalf("failed to write output: %v", err)
		}
		log.Printf("training products written to %s", *out)
	}
}

func writeCache(path string, output *preprocess.Output) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	nTraj, nPoints, dim, window := output.DemonstrationsTrain.Dims()
	cache := cacheFile{
		TensorData:             output.DemonstrationsTrain.Raw(),
		NTrajectories:          nTraj,
		NPoints:                nPoints,
		Dim:                    dim,
		Window:                 window,
		XMin:                   output.Features.XMin,
		XMax:                   output.Features.XMax,
		Goals:                  output.Features.Goals,
		GoalsTraining:          output.Features.GoalsTraining,
		MaxDemonstrationLength: output.Features.MaxDemonstrationLength,
		DemonstrationLengths:   output.Features.DemonstrationLengths,
		EvalIndexes:            output.Features.EvalIndexes,
		NDemonstrations:        output.Features.NDemonstrations,
		VelMin:                 output.Limits.VelMin,
		VelMax:                 output.Limits.VelMax,
		AccMin:                 output.Limits.AccMin,
		AccMax:                 output.Limits.AccMax,
		PrimitiveIDs:           output.Loaded.PrimitiveIDs,
		DeltaTEval:             output.Loaded.DeltaT,
		MeanSplineError:        output.MeanSplineError,
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gob.NewEncoder(f).Encode(&cache)
}
