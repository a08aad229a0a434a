// Package preprocess turns raw recorded demonstrations into normalized,
// arc-length-resampled, fixed-length imitation windows for training a learned
// dynamical-system model, together with the workspace bounds, per-primitive
// goals, trajectory lengths and derivative limits the training and evaluation
// stages need.
//
// The pipeline is an offline batch: every stage fully consumes its input
// before the next starts, and a hard failure aborts the whole run.
package preprocess

import (
	"github.com/arcspline/demoprep/demos"
)

// Loader supplies raw demonstrations for a dataset, restricted to a set of
// primitive ids. demos.DirLoader implements it.
type Loader interface {
	Load(dataset string, primitiveIDs []int) (*demos.LoadedData, error)
}

// Preprocessor runs the preprocessing pipeline for one configuration.
type Preprocessor struct {
	cfg    Config
	loader Loader
}

// New creates a preprocessor with the given configuration and loader.
func New(cfg Config, loader Loader) *Preprocessor {
	return &Preprocessor{cfg: cfg, loader: loader}
}

// Output is the single mapping handed to the training stage: the training
// tensor, every raw loaded field, the demonstration features and the
// derivative limits. All tensors are produced once per run and immutable
// afterwards.
type Output struct {
	DemonstrationsTrain *demos.WindowTensor
	Loaded              *demos.LoadedData
	Features            *Features
	Limits              *DerivativeLimits

	// MeanSplineError is the diagnostic resampling error, informational only.
	MeanSplineError float64
}

// Map returns the dictionary-keyed view of the output, using the key
// vocabulary downstream trainers expect.
func (o *Output) Map() map[string]any {
	return map[string]any{
		"demonstrations train":        o.DemonstrationsTrain,
		"demonstrations raw":          o.Loaded.Demonstrations,
		"demonstrations primitive id": o.Loaded.PrimitiveIDs,
		"delta t eval":                o.Loaded.DeltaT,
		"x min":                       o.Features.XMin,
		"x max":                       o.Features.XMax,
		"goals":                       o.Features.Goals,
		"goals training":              o.Features.GoalsTraining,
		"max demonstration length":    o.Features.MaxDemonstrationLength,
		"demonstrations length":       o.Features.DemonstrationLengths,
		"eval indexes":                o.Features.EvalIndexes,
		"n demonstrations":            o.Features.NDemonstrations,
		"vel min train":               o.Limits.VelMin,
		"vel max train":               o.Limits.VelMax,
		"acc min train":               o.Limits.AccMin,
		"acc max train":               o.Limits.AccMax,
		"mean spline error":           o.MeanSplineError,
	}
}

// Run loads the demonstrations and computes every preprocessing product.
func (p *Preprocessor) Run() (*Output, error) {
	data, err := p.loader.Load(p.cfg.DatasetName, p.cfg.SelectedPrimitivesIDs)
	if err != nil {
		return nil, err
	}
	return p.RunLoaded(data)
}

// RunLoaded computes every preprocessing product from already-loaded
// demonstrations.
func (p *Preprocessor) RunLoaded(data *demos.LoadedData) (*Output, error) {
	features, err := p.demoFeatures(data)
	if err != nil {
		return nil, err
	}

	tensor, meanErr, err := p.generateTrainingData(data, features)
	if err != nil {
		return nil, err
	}

	limits := p.derivativeLimits(tensor)

	return &Output{
		DemonstrationsTrain: tensor,
		Loaded:              data,
		Features:            features,
		Limits:              limits,
		MeanSplineError:     meanErr,
	}, nil
}
