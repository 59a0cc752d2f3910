package config

import "time"

// Study is the unified, format-agnostic representation of one ablation study
// document: the grid definition plus the search-driver settings.
type Study struct {
	Ablation *Ablation
	Search   *Search
}

// Ablation is the declarative grid: the categorical axes and the kwargs
// tables scoped to them.
type Ablation struct {
	Datasets             []string
	Models               []string
	TrainingLoops        []string
	Optimizers           []string
	LossFunctions        []string
	Regularizers         []string
	CreateInverseTriples []bool

	// NegativeSampler is a single choice, not a product axis. It attaches
	// only to trials whose training loop draws negative samples.
	NegativeSampler string

	ModelKwargs       map[string]Kwargs
	ModelKwargsRanges map[string]Ranges

	OptimizerKwargs             ScopedKwargs
	OptimizerKwargsRanges       ScopedRanges
	LossKwargs                  ScopedKwargs
	LossKwargsRanges            ScopedRanges
	RegularizerKwargs           ScopedKwargs
	RegularizerKwargsRanges     ScopedRanges
	NegativeSamplerKwargs       ScopedKwargs
	NegativeSamplerKwargsRanges ScopedRanges
	TrainingKwargs              ScopedKwargs
	TrainingKwargsRanges        ScopedRanges

	Evaluator        string
	EvaluatorKwargs  Kwargs
	EvaluationKwargs Kwargs

	Stopper       string
	StopperKwargs Kwargs
}

// Search holds the settings of the external search loop. They describe how
// the driver explores each trial's tunable parameters, not any individual
// trial.
type Search struct {
	NTrials   int
	Timeout   time.Duration
	Metric    string
	Direction string
	Sampler   string
	Pruner    string
}

// DefaultNegativeSampler is attached to negative-sampling training loops when
// a study declares no sampler of its own.
const DefaultNegativeSampler = "basic"

// SamplerChoices returns the effective negative-sampler choice set of a
// document: the declared sampler, or the implicit default when none is
// declared. Sampler kwargs tables are keyed against this set, so kwargs for
// the default sampler bind per choice even in documents that never name it.
func SamplerChoices(sampler string) []string {
	if sampler == "" {
		return []string{DefaultNegativeSampler}
	}
	return []string{sampler}
}

// Kwargs is a set of fixed hyperparameter values keyed by parameter name.
type Kwargs map[string]any

// Ranges is a set of tunable hyperparameter domains keyed by parameter name.
type Ranges map[string]*ParameterRange

// ComponentKwargs holds the fixed kwargs declared for one component slot of
// one model. PerChoice entries are keyed by the chosen component name;
// Default applies to every choice that has no PerChoice entry.
type ComponentKwargs struct {
	Default   Kwargs
	PerChoice map[string]Kwargs
}

// ComponentRanges is the kwargs-range counterpart of ComponentKwargs.
type ComponentRanges struct {
	Default   Ranges
	PerChoice map[string]Ranges
}

// ScopedKwargs is a fixed-kwargs table for one component slot, keyed by model
// name.
type ScopedKwargs map[string]*ComponentKwargs

// ScopedRanges is a kwargs-range table for one component slot, keyed by model
// name.
type ScopedRanges map[string]*ComponentRanges

// Resolve returns the kwargs applicable to the given model and component
// choice: the [model][choice] entry when present, else the model-level
// default, else nil.
func (s ScopedKwargs) Resolve(model, choice string) Kwargs {
	entry, ok := s[model]
	if !ok || entry == nil {
		return nil
	}
	if kw, ok := entry.PerChoice[choice]; ok {
		return kw
	}
	return entry.Default
}

// Resolve returns the ranges applicable to the given model and component
// choice, with the same precedence as ScopedKwargs.Resolve.
func (s ScopedRanges) Resolve(model, choice string) Ranges {
	entry, ok := s[model]
	if !ok || entry == nil {
		return nil
	}
	if r, ok := entry.PerChoice[choice]; ok {
		return r
	}
	return entry.Default
}
