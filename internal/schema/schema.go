// Package schema defines the HCL decoding structures for study documents.
// The kwargs tables stay as raw expressions here; the hcl loader evaluates
// them and binds the results into the format-agnostic config model.
package schema

import "github.com/hashicorp/hcl/v2"

// StudyFile represents the top-level structure of a study document: one
// ablation block describing the grid and one optuna block describing the
// search loop.
type StudyFile struct {
	Ablation *AblationBlock `hcl:"ablation,block"`
	Optuna   *OptunaBlock   `hcl:"optuna,block"`
	Body     hcl.Body       `hcl:",remain"`
}

// AblationBlock represents the `ablation` block. The categorical axis lists
// decode directly; every kwargs table is kept as an expression because its
// nesting depth depends on the slot it configures.
type AblationBlock struct {
	Datasets             []string `hcl:"datasets,optional"`
	Models               []string `hcl:"models,optional"`
	TrainingLoops        []string `hcl:"training_loops,optional"`
	Optimizers           []string `hcl:"optimizers,optional"`
	LossFunctions        []string `hcl:"loss_functions,optional"`
	Regularizers         []string `hcl:"regularizers,optional"`
	NegativeSampler      string   `hcl:"negative_sampler,optional"`
	CreateInverseTriples []bool   `hcl:"create_inverse_triples,optional"`

	ModelKwargs       hcl.Expression `hcl:"model_kwargs,optional"`
	ModelKwargsRanges hcl.Expression `hcl:"model_kwargs_ranges,optional"`

	OptimizerKwargs       hcl.Expression `hcl:"optimizer_kwargs,optional"`
	OptimizerKwargsRanges hcl.Expression `hcl:"optimizer_kwargs_ranges,optional"`

	LossKwargs       hcl.Expression `hcl:"loss_kwargs,optional"`
	LossKwargsRanges hcl.Expression `hcl:"loss_kwargs_ranges,optional"`

	RegularizerKwargs       hcl.Expression `hcl:"regularizer_kwargs,optional"`
	RegularizerKwargsRanges hcl.Expression `hcl:"regularizer_kwargs_ranges,optional"`

	NegativeSamplerKwargs       hcl.Expression `hcl:"negative_sampler_kwargs,optional"`
	NegativeSamplerKwargsRanges hcl.Expression `hcl:"negative_sampler_kwargs_ranges,optional"`

	TrainingKwargs       hcl.Expression `hcl:"training_kwargs,optional"`
	TrainingKwargsRanges hcl.Expression `hcl:"training_kwargs_ranges,optional"`

	Evaluator        string         `hcl:"evaluator,optional"`
	EvaluatorKwargs  hcl.Expression `hcl:"evaluator_kwargs,optional"`
	EvaluationKwargs hcl.Expression `hcl:"evaluation_kwargs,optional"`

	Stopper       string         `hcl:"stopper,optional"`
	StopperKwargs hcl.Expression `hcl:"stopper_kwargs,optional"`
}

// OptunaBlock represents the `optuna` block holding the search-driver
// settings. Timeout is declared in seconds, matching the original document
// format.
type OptunaBlock struct {
	NTrials        int     `hcl:"n_trials,optional"`
	TimeoutSeconds float64 `hcl:"timeout,optional"`
	Metric         string  `hcl:"metric,optional"`
	Direction      string  `hcl:"direction,optional"`
	Sampler        string  `hcl:"sampler,optional"`
	Pruner         string  `hcl:"pruner,optional"`
}
