package config

import (
	"fmt"
	"strings"
	"unicode"
)

// Trial is one fully resolved combination of the ablation grid: one value per
// categorical axis plus the merged fixed kwargs and kwargs ranges applicable
// to exactly that combination. Trials are created by the expander and never
// mutated afterwards; consumers may process them in any order or in parallel.
type Trial struct {
	// Index is the trial's position in the deterministic expansion order.
	Index int

	Dataset              string
	Model                string
	TrainingLoop         string
	Optimizer            string
	LossFunction         string
	Regularizer          string
	CreateInverseTriples bool

	// NegativeSampler is set only for training loops that draw negative
	// samples; for the others it is empty and the sampler kwargs are nil.
	NegativeSampler string

	ModelKwargs       Kwargs
	ModelKwargsRanges Ranges

	OptimizerKwargs       Kwargs
	OptimizerKwargsRanges Ranges

	LossKwargs       Kwargs
	LossKwargsRanges Ranges

	RegularizerKwargs       Kwargs
	RegularizerKwargsRanges Ranges

	NegativeSamplerKwargs       Kwargs
	NegativeSamplerKwargsRanges Ranges

	TrainingKwargs       Kwargs
	TrainingKwargsRanges Ranges

	Evaluator        string
	EvaluatorKwargs  Kwargs
	EvaluationKwargs Kwargs

	Stopper       string
	StopperKwargs Kwargs
}

// ID returns the trial's stable identity: its expansion index plus the
// dataset and model slugs. Re-expanding the same document yields the same
// IDs, which is what results are keyed by.
func (t *Trial) ID() string {
	return fmt.Sprintf("%04d_%s_%s", t.Index, slug(t.Dataset), slug(t.Model))
}

// Document serializes the trial back to the nested-map shape of the source
// document, for logging and reproducibility. Empty slots are omitted.
func (t *Trial) Document() map[string]any {
	doc := map[string]any{
		"dataset":                t.Dataset,
		"model":                  t.Model,
		"training_loop":          t.TrainingLoop,
		"optimizer":              t.Optimizer,
		"loss_function":          t.LossFunction,
		"regularizer":            t.Regularizer,
		"create_inverse_triples": t.CreateInverseTriples,
	}
	if t.NegativeSampler != "" {
		doc["negative_sampler"] = t.NegativeSampler
	}
	putKwargs(doc, "model_kwargs", t.ModelKwargs)
	putRanges(doc, "model_kwargs_ranges", t.ModelKwargsRanges)
	putKwargs(doc, "optimizer_kwargs", t.OptimizerKwargs)
	putRanges(doc, "optimizer_kwargs_ranges", t.OptimizerKwargsRanges)
	putKwargs(doc, "loss_kwargs", t.LossKwargs)
	putRanges(doc, "loss_kwargs_ranges", t.LossKwargsRanges)
	putKwargs(doc, "regularizer_kwargs", t.RegularizerKwargs)
	putRanges(doc, "regularizer_kwargs_ranges", t.RegularizerKwargsRanges)
	putKwargs(doc, "negative_sampler_kwargs", t.NegativeSamplerKwargs)
	putRanges(doc, "negative_sampler_kwargs_ranges", t.NegativeSamplerKwargsRanges)
	putKwargs(doc, "training_kwargs", t.TrainingKwargs)
	putRanges(doc, "training_kwargs_ranges", t.TrainingKwargsRanges)
	if t.Evaluator != "" {
		doc["evaluator"] = t.Evaluator
	}
	putKwargs(doc, "evaluator_kwargs", t.EvaluatorKwargs)
	putKwargs(doc, "evaluation_kwargs", t.EvaluationKwargs)
	if t.Stopper != "" {
		doc["stopper"] = t.Stopper
	}
	putKwargs(doc, "stopper_kwargs", t.StopperKwargs)
	return doc
}

func putKwargs(doc map[string]any, key string, kw Kwargs) {
	if len(kw) == 0 {
		return
	}
	doc[key] = map[string]any(kw)
}

func putRanges(doc map[string]any, key string, ranges Ranges) {
	if len(ranges) == 0 {
		return
	}
	out := make(map[string]any, len(ranges))
	for name, r := range ranges {
		out[name] = r.document()
	}
	doc[key] = out
}

// document serializes a range back to its declarative map form.
func (r *ParameterRange) document() map[string]any {
	doc := map[string]any{"type": string(r.Type)}
	switch r.Type {
	case RangeInt:
		doc["low"] = int(r.Low)
		doc["high"] = int(r.High)
		if r.Q != 0 {
			doc["q"] = int(r.Q)
		}
	case RangeFloat:
		doc["low"] = r.Low
		doc["high"] = r.High
		if r.Q != 0 {
			doc["q"] = r.Q
		}
	case RangeCategorical:
		doc["choices"] = r.Choices
	}
	if r.Scale != "" && r.Scale != ScaleLinear {
		doc["scale"] = string(r.Scale)
	}
	return doc
}

// slug reduces an identifier to lowercase alphanumerics for use in trial IDs.
func slug(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	if b.Len() == 0 {
		return "unnamed"
	}
	return b.String()
}
