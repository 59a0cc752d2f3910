package expand

import (
	"context"
	"fmt"
	"sort"

	"github.com/vk/hpogrid/internal/config"
	"github.com/vk/hpogrid/internal/ctxlog"
	"github.com/vk/hpogrid/internal/registry"
)

// Validate checks the referential and structural integrity of a study
// document: every identifier must be recognized, every kwargs table must
// reference declared axis values, every range must be well-formed, and no
// parameter may be both fixed and tunable for the same slot. All violations
// are collected and returned together as one *config.ConfigurationError;
// a nil return means the document is valid.
func (e *Expander) Validate(ctx context.Context, study *config.Study) error {
	logger := ctxlog.FromContext(ctx)

	if study == nil || study.Ablation == nil {
		return &config.ConfigurationError{Violations: []string{"document has no ablation definition"}}
	}
	ab := study.Ablation

	var errs []string

	// Axis identifiers must be recognized and unique per axis.
	errs = append(errs, e.checkAxisNames(registry.AxisDataset, "datasets", ab.Datasets)...)
	errs = append(errs, e.checkAxisNames(registry.AxisModel, "models", ab.Models)...)
	errs = append(errs, e.checkAxisNames(registry.AxisTrainingLoop, "training_loops", ab.TrainingLoops)...)
	errs = append(errs, e.checkAxisNames(registry.AxisOptimizer, "optimizers", ab.Optimizers)...)
	errs = append(errs, e.checkAxisNames(registry.AxisLossFunction, "loss_functions", ab.LossFunctions)...)
	errs = append(errs, e.checkAxisNames(registry.AxisRegularizer, "regularizers", ab.Regularizers)...)

	if ab.NegativeSampler != "" && !e.reg.Known(registry.AxisNegativeSampler, ab.NegativeSampler) {
		errs = append(errs, fmt.Sprintf("negative_sampler: unknown negative sampler %q", ab.NegativeSampler))
	}
	if ab.Evaluator != "" && !e.reg.Known(registry.AxisEvaluator, ab.Evaluator) {
		errs = append(errs, fmt.Sprintf("evaluator: unknown evaluator %q", ab.Evaluator))
	}
	if ab.Stopper != "" && !e.reg.Known(registry.AxisStopper, ab.Stopper) {
		errs = append(errs, fmt.Sprintf("stopper: unknown stopper %q", ab.Stopper))
	}

	// Every model keying a kwargs table must appear under models.
	models := stringSet(ab.Models)
	errs = append(errs, checkTableModels("model_kwargs", sortedKeys(ab.ModelKwargs), models)...)
	errs = append(errs, checkTableModels("model_kwargs_ranges", sortedKeys(ab.ModelKwargsRanges), models)...)
	for _, slot := range scopedSlots(ab) {
		errs = append(errs, checkTableModels(slot.name, slot.kwargsModels(), models)...)
		errs = append(errs, checkTableModels(slot.name+"_ranges", slot.rangesModels(), models)...)
		errs = append(errs, slot.checkChoices()...)
	}

	// Ranges must be well-formed wherever they appear.
	for _, model := range sortedKeys(ab.ModelKwargsRanges) {
		errs = append(errs, checkRanges(fmt.Sprintf("model_kwargs_ranges[%s]", model), ab.ModelKwargsRanges[model])...)
	}
	for _, slot := range scopedSlots(ab) {
		errs = append(errs, slot.checkRanges()...)
	}

	// A parameter may be fixed or tunable for one slot, never both.
	errs = append(errs, checkModelOverlap(ab)...)
	for _, slot := range scopedSlots(ab) {
		errs = append(errs, slot.checkOverlap(ab.Models)...)
	}

	errs = append(errs, e.checkSearch(study.Search)...)

	if len(errs) > 0 {
		logger.Debug("Study validation failed.", "violations", len(errs))
		return &config.ConfigurationError{Violations: errs}
	}
	logger.Debug("Study validation passed.")
	return nil
}

// checkAxisNames verifies that every name on an axis resolves in the registry
// and appears only once after normalization.
func (e *Expander) checkAxisNames(axis registry.Axis, field string, names []string) []string {
	var errs []string
	seen := make(map[string]string, len(names))
	for _, name := range names {
		if !e.reg.Known(axis, name) {
			errs = append(errs, fmt.Sprintf("%s: unknown %s %q", field, axis, name))
			continue
		}
		normalized := registry.Normalize(axis, name)
		if first, dup := seen[normalized]; dup {
			errs = append(errs, fmt.Sprintf("%s: %q duplicates %q", field, name, first))
			continue
		}
		seen[normalized] = name
	}
	return errs
}

// checkSearch validates the search-driver settings.
func (e *Expander) checkSearch(search *config.Search) []string {
	if search == nil {
		return []string{"search settings missing: declare an optuna block"}
	}
	var errs []string
	if search.NTrials < 0 {
		errs = append(errs, fmt.Sprintf("optuna: n_trials must not be negative, got %d", search.NTrials))
	}
	if search.Timeout < 0 {
		errs = append(errs, fmt.Sprintf("optuna: timeout must not be negative, got %s", search.Timeout))
	}
	if search.NTrials == 0 && search.Timeout == 0 {
		errs = append(errs, "optuna: either n_trials or timeout must be set")
	}
	switch search.Direction {
	case "", "maximize", "minimize":
	default:
		errs = append(errs, fmt.Sprintf("optuna: direction must be \"maximize\" or \"minimize\", got %q", search.Direction))
	}
	if search.Sampler != "" && !e.reg.Known(registry.AxisSampler, search.Sampler) {
		errs = append(errs, fmt.Sprintf("optuna: unknown sampler %q", search.Sampler))
	}
	if search.Pruner != "" && !e.reg.Known(registry.AxisPruner, search.Pruner) {
		errs = append(errs, fmt.Sprintf("optuna: unknown pruner %q", search.Pruner))
	}
	return errs
}

// checkModelOverlap flags parameters that appear in both model_kwargs and
// model_kwargs_ranges for the same model.
func checkModelOverlap(ab *config.Ablation) []string {
	var errs []string
	for _, model := range sortedKeys(ab.ModelKwargsRanges) {
		fixed, ok := ab.ModelKwargs[model]
		if !ok {
			continue
		}
		for _, param := range overlap(fixed, ab.ModelKwargsRanges[model]) {
			errs = append(errs, fmt.Sprintf(
				"model_kwargs[%s]: parameter %q is both fixed and tunable", model, param))
		}
	}
	return errs
}

// scopedSlot pairs one component slot's kwargs and ranges tables with the
// axis list its per-choice keys must reference.
type scopedSlot struct {
	name    string
	axis    registry.Axis
	choices []string
	kwargs  config.ScopedKwargs
	ranges  config.ScopedRanges
}

func scopedSlots(ab *config.Ablation) []scopedSlot {
	samplerChoices := config.SamplerChoices(ab.NegativeSampler)
	return []scopedSlot{
		{"optimizer_kwargs", registry.AxisOptimizer, ab.Optimizers, ab.OptimizerKwargs, ab.OptimizerKwargsRanges},
		{"loss_kwargs", registry.AxisLossFunction, ab.LossFunctions, ab.LossKwargs, ab.LossKwargsRanges},
		{"regularizer_kwargs", registry.AxisRegularizer, ab.Regularizers, ab.RegularizerKwargs, ab.RegularizerKwargsRanges},
		{"negative_sampler_kwargs", registry.AxisNegativeSampler, samplerChoices, ab.NegativeSamplerKwargs, ab.NegativeSamplerKwargsRanges},
		{"training_kwargs", registry.AxisTrainingLoop, ab.TrainingLoops, ab.TrainingKwargs, ab.TrainingKwargsRanges},
	}
}

func (s scopedSlot) kwargsModels() []string { return sortedKeys(s.kwargs) }
func (s scopedSlot) rangesModels() []string { return sortedKeys(s.ranges) }

// checkChoices verifies that every per-choice key references a declared axis
// value. Loaders guarantee this for parsed documents; studies constructed in
// code get the same check.
func (s scopedSlot) checkChoices() []string {
	var errs []string
	choiceSet := stringSet(s.choices)
	for _, model := range sortedKeys(s.kwargs) {
		entry := s.kwargs[model]
		if entry == nil {
			continue
		}
		for _, choice := range sortedKeys(entry.PerChoice) {
			if _, ok := choiceSet[choice]; !ok {
				errs = append(errs, fmt.Sprintf(
					"%s[%s]: %q is not a declared %s", s.name, model, choice, s.axis))
			}
		}
	}
	for _, model := range sortedKeys(s.ranges) {
		entry := s.ranges[model]
		if entry == nil {
			continue
		}
		for _, choice := range sortedKeys(entry.PerChoice) {
			if _, ok := choiceSet[choice]; !ok {
				errs = append(errs, fmt.Sprintf(
					"%s_ranges[%s]: %q is not a declared %s", s.name, model, choice, s.axis))
			}
		}
	}
	return errs
}

func (s scopedSlot) checkRanges() []string {
	var errs []string
	for _, model := range sortedKeys(s.ranges) {
		entry := s.ranges[model]
		if entry == nil {
			continue
		}
		errs = append(errs, checkRanges(fmt.Sprintf("%s_ranges[%s]", s.name, model), entry.Default)...)
		for _, choice := range sortedKeys(entry.PerChoice) {
			errs = append(errs, checkRanges(fmt.Sprintf("%s_ranges[%s][%s]", s.name, model, choice), entry.PerChoice[choice])...)
		}
	}
	return errs
}

// checkOverlap flags parameters that resolve as both fixed and tunable for
// the same (model, choice) pair.
func (s scopedSlot) checkOverlap(models []string) []string {
	var errs []string
	for _, model := range models {
		for _, choice := range s.choices {
			fixed := s.kwargs.Resolve(model, choice)
			tunable := s.ranges.Resolve(model, choice)
			for _, param := range overlap(fixed, tunable) {
				errs = append(errs, fmt.Sprintf(
					"%s[%s][%s]: parameter %q is both fixed and tunable", s.name, model, choice, param))
			}
		}
	}
	return errs
}

func checkRanges(table string, ranges config.Ranges) []string {
	var errs []string
	for _, param := range sortedKeys(ranges) {
		if err := ranges[param].Validate(param); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %s", table, err.Error()))
		}
	}
	return errs
}

func checkTableModels(table string, keys []string, models map[string]struct{}) []string {
	var errs []string
	for _, model := range keys {
		if _, ok := models[model]; !ok {
			errs = append(errs, fmt.Sprintf("%s: model %q is not listed under models", table, model))
		}
	}
	return errs
}

// overlap returns the sorted parameter names present in both maps.
func overlap(fixed config.Kwargs, tunable config.Ranges) []string {
	var params []string
	for param := range tunable {
		if _, ok := fixed[param]; ok {
			params = append(params, param)
		}
	}
	sort.Strings(params)
	return params
}

func stringSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
