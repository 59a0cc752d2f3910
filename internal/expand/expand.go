package expand

import (
	"context"

	"github.com/vk/hpogrid/internal/config"
	"github.com/vk/hpogrid/internal/ctxlog"
	"github.com/vk/hpogrid/internal/registry"
)

// Expander resolves study documents against a component registry.
type Expander struct {
	reg *registry.Registry
}

// New creates an Expander backed by the given registry.
func New(reg *registry.Registry) *Expander {
	return &Expander{reg: reg}
}

// Expand computes the Cartesian product over the ablation's categorical axes
// and returns one trial per combination, in deterministic declared order.
// Empty axes yield zero trials and a warning per empty axis; this is valid
// input, not an error, but callers are expected to check for it.
//
// Expand assumes a previously validated study and is total on valid input.
func (e *Expander) Expand(ctx context.Context, study *config.Study) ([]*config.Trial, []config.EmptyAxisWarning) {
	logger := ctxlog.FromContext(ctx)
	ab := study.Ablation

	warnings := emptyAxes(ab)
	if len(warnings) > 0 {
		logger.Warn("Study has empty axes, expanding to zero trials.", "empty_axes", len(warnings))
		return nil, warnings
	}

	trials := make([]*config.Trial, 0, productSize(ab))
	index := 0
	for _, dataset := range ab.Datasets {
		for _, model := range ab.Models {
			for _, loop := range ab.TrainingLoops {
				for _, optimizer := range ab.Optimizers {
					for _, loss := range ab.LossFunctions {
						for _, reg := range ab.Regularizers {
							for _, inverse := range ab.CreateInverseTriples {
								trials = append(trials, e.newTrial(ab, index, dataset, model, loop, optimizer, loss, reg, inverse))
								index++
							}
						}
					}
				}
			}
		}
	}

	logger.Debug("Study expanded.", "trials", len(trials))
	return trials, nil
}

// newTrial resolves the kwargs and ranges scoped to one axis combination.
func (e *Expander) newTrial(ab *config.Ablation, index int, dataset, model, loop, optimizer, loss, reg string, inverse bool) *config.Trial {
	t := &config.Trial{
		Index:                index,
		Dataset:              dataset,
		Model:                model,
		TrainingLoop:         loop,
		Optimizer:            optimizer,
		LossFunction:         loss,
		Regularizer:          reg,
		CreateInverseTriples: inverse,

		ModelKwargs:       copyKwargs(ab.ModelKwargs[model]),
		ModelKwargsRanges: copyRanges(ab.ModelKwargsRanges[model]),

		OptimizerKwargs:       copyKwargs(ab.OptimizerKwargs.Resolve(model, optimizer)),
		OptimizerKwargsRanges: copyRanges(ab.OptimizerKwargsRanges.Resolve(model, optimizer)),

		LossKwargs:       copyKwargs(ab.LossKwargs.Resolve(model, loss)),
		LossKwargsRanges: copyRanges(ab.LossKwargsRanges.Resolve(model, loss)),

		RegularizerKwargs:       copyKwargs(ab.RegularizerKwargs.Resolve(model, reg)),
		RegularizerKwargsRanges: copyRanges(ab.RegularizerKwargsRanges.Resolve(model, reg)),

		TrainingKwargs:       copyKwargs(ab.TrainingKwargs.Resolve(model, loop)),
		TrainingKwargsRanges: copyRanges(ab.TrainingKwargsRanges.Resolve(model, loop)),

		Evaluator:        ab.Evaluator,
		EvaluatorKwargs:  copyKwargs(ab.EvaluatorKwargs),
		EvaluationKwargs: copyKwargs(ab.EvaluationKwargs),

		Stopper:       ab.Stopper,
		StopperKwargs: copyKwargs(ab.StopperKwargs),
	}

	if e.samplesNegatives(loop) {
		sampler := ab.NegativeSampler
		if sampler == "" {
			sampler = config.DefaultNegativeSampler
		}
		t.NegativeSampler = sampler
		t.NegativeSamplerKwargs = copyKwargs(ab.NegativeSamplerKwargs.Resolve(model, sampler))
		t.NegativeSamplerKwargsRanges = copyRanges(ab.NegativeSamplerKwargsRanges.Resolve(model, sampler))
	}

	return t
}

// samplesNegatives reports whether a training loop draws negative samples.
// Only the stochastic local closed-world loop does; the full LCWA loop scores
// against all entities and needs no sampler.
func (e *Expander) samplesNegatives(loop string) bool {
	canonical, ok := e.reg.Canonical(registry.AxisTrainingLoop, loop)
	return ok && canonical == "slcwa"
}

// emptyAxes returns one warning per empty categorical axis, in declared axis
// order.
func emptyAxes(ab *config.Ablation) []config.EmptyAxisWarning {
	var warnings []config.EmptyAxisWarning
	for _, axis := range []struct {
		name string
		size int
	}{
		{"datasets", len(ab.Datasets)},
		{"models", len(ab.Models)},
		{"training_loops", len(ab.TrainingLoops)},
		{"optimizers", len(ab.Optimizers)},
		{"loss_functions", len(ab.LossFunctions)},
		{"regularizers", len(ab.Regularizers)},
		{"create_inverse_triples", len(ab.CreateInverseTriples)},
	} {
		if axis.size == 0 {
			warnings = append(warnings, config.EmptyAxisWarning{Axis: axis.name})
		}
	}
	return warnings
}

func productSize(ab *config.Ablation) int {
	return len(ab.Datasets) * len(ab.Models) * len(ab.TrainingLoops) *
		len(ab.Optimizers) * len(ab.LossFunctions) * len(ab.Regularizers) *
		len(ab.CreateInverseTriples)
}

// copyKwargs shallow-copies a kwargs map so trials never alias the study
// document's tables.
func copyKwargs(kw config.Kwargs) config.Kwargs {
	if kw == nil {
		return nil
	}
	out := make(config.Kwargs, len(kw))
	for k, v := range kw {
		out[k] = v
	}
	return out
}

func copyRanges(ranges config.Ranges) config.Ranges {
	if ranges == nil {
		return nil
	}
	out := make(config.Ranges, len(ranges))
	for k, v := range ranges {
		out[k] = v
	}
	return out
}
