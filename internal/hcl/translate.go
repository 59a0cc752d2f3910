package hcl

import (
	"fmt"
	"time"

	"github.com/hashicorp/hcl/v2"

	"github.com/vk/hpogrid/internal/config"
	"github.com/vk/hpogrid/internal/schema"
)

// translate converts the decoded HCL schema into the format-agnostic model.
// Kwargs expressions are evaluated to native values here and bound through
// the shared config binders.
func translate(parsed *schema.StudyFile) (*config.Study, error) {
	raw := parsed.Ablation
	ab := &config.Ablation{
		Datasets:             raw.Datasets,
		Models:               raw.Models,
		TrainingLoops:        raw.TrainingLoops,
		Optimizers:           raw.Optimizers,
		LossFunctions:        raw.LossFunctions,
		Regularizers:         raw.Regularizers,
		NegativeSampler:      raw.NegativeSampler,
		CreateInverseTriples: raw.CreateInverseTriples,
		Evaluator:            raw.Evaluator,
		Stopper:              raw.Stopper,
	}
	if raw.CreateInverseTriples == nil {
		// An omitted axis means "no inverse triples", not an empty grid. An
		// explicitly empty list stays empty and warns at expansion.
		ab.CreateInverseTriples = []bool{false}
	}

	var err error
	if ab.ModelKwargs, err = bindModelKwargs(raw.ModelKwargs, "model_kwargs"); err != nil {
		return nil, err
	}
	if ab.ModelKwargsRanges, err = bindModelRanges(raw.ModelKwargsRanges, "model_kwargs_ranges"); err != nil {
		return nil, err
	}

	samplerChoices := config.SamplerChoices(raw.NegativeSampler)
	scoped := []struct {
		slot       string
		choices    []string
		kwargsExpr hcl.Expression
		rangesExpr hcl.Expression
		kwargs     *config.ScopedKwargs
		ranges     *config.ScopedRanges
	}{
		{"optimizer_kwargs", raw.Optimizers, raw.OptimizerKwargs, raw.OptimizerKwargsRanges, &ab.OptimizerKwargs, &ab.OptimizerKwargsRanges},
		{"loss_kwargs", raw.LossFunctions, raw.LossKwargs, raw.LossKwargsRanges, &ab.LossKwargs, &ab.LossKwargsRanges},
		{"regularizer_kwargs", raw.Regularizers, raw.RegularizerKwargs, raw.RegularizerKwargsRanges, &ab.RegularizerKwargs, &ab.RegularizerKwargsRanges},
		{"negative_sampler_kwargs", samplerChoices, raw.NegativeSamplerKwargs, raw.NegativeSamplerKwargsRanges, &ab.NegativeSamplerKwargs, &ab.NegativeSamplerKwargsRanges},
		{"training_kwargs", raw.TrainingLoops, raw.TrainingKwargs, raw.TrainingKwargsRanges, &ab.TrainingKwargs, &ab.TrainingKwargsRanges},
	}
	for _, s := range scoped {
		kwargsNative, err := exprToNative(s.kwargsExpr, s.slot)
		if err != nil {
			return nil, err
		}
		if *s.kwargs, err = config.BindScopedKwargs(kwargsNative, s.slot, s.choices); err != nil {
			return nil, err
		}
		rangesNative, err := exprToNative(s.rangesExpr, s.slot+"_ranges")
		if err != nil {
			return nil, err
		}
		if *s.ranges, err = config.BindScopedRanges(rangesNative, s.slot+"_ranges", s.choices); err != nil {
			return nil, err
		}
	}

	if ab.EvaluatorKwargs, err = bindFlatKwargs(raw.EvaluatorKwargs, "evaluator_kwargs"); err != nil {
		return nil, err
	}
	if ab.EvaluationKwargs, err = bindFlatKwargs(raw.EvaluationKwargs, "evaluation_kwargs"); err != nil {
		return nil, err
	}
	if ab.StopperKwargs, err = bindFlatKwargs(raw.StopperKwargs, "stopper_kwargs"); err != nil {
		return nil, err
	}

	study := &config.Study{Ablation: ab}
	if parsed.Optuna != nil {
		study.Search = &config.Search{
			NTrials:   parsed.Optuna.NTrials,
			Timeout:   time.Duration(parsed.Optuna.TimeoutSeconds * float64(time.Second)),
			Metric:    parsed.Optuna.Metric,
			Direction: parsed.Optuna.Direction,
			Sampler:   parsed.Optuna.Sampler,
			Pruner:    parsed.Optuna.Pruner,
		}
	}
	return study, nil
}

func bindFlatKwargs(expr hcl.Expression, slot string) (config.Kwargs, error) {
	native, err := exprToNative(expr, slot)
	if err != nil {
		return nil, err
	}
	kw, err := config.BindKwargs(native)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", slot, err)
	}
	return kw, nil
}

func bindModelKwargs(expr hcl.Expression, slot string) (map[string]config.Kwargs, error) {
	native, err := exprToNative(expr, slot)
	if err != nil {
		return nil, err
	}
	table, err := config.BindModelKwargs(native)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", slot, err)
	}
	return table, nil
}

func bindModelRanges(expr hcl.Expression, slot string) (map[string]config.Ranges, error) {
	native, err := exprToNative(expr, slot)
	if err != nil {
		return nil, err
	}
	table, err := config.BindModelRanges(native)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", slot, err)
	}
	return table, nil
}
