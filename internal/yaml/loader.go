// Package yaml provides the YAML implementation of the study loader
// interface. YAML documents mirror the HCL block structure: a top-level
// `ablation` mapping and an `optuna` mapping. Decoded values are bound
// through the same shared binders as the HCL loader, so the keying rules for
// kwargs tables are identical across formats.
package yaml

import (
	"context"
	"fmt"
	"os"
	"time"

	yamlv3 "gopkg.in/yaml.v3"

	"github.com/vk/hpogrid/internal/config"
	"github.com/vk/hpogrid/internal/ctxlog"
)

// Loader parses YAML study documents.
type Loader struct{}

// NewLoader creates a new YAML study loader.
func NewLoader() *Loader {
	return &Loader{}
}

// studyDoc mirrors the document's two top-level mappings.
type studyDoc struct {
	Ablation *ablationDoc `yaml:"ablation"`
	Optuna   *optunaDoc   `yaml:"optuna"`
}

type ablationDoc struct {
	Datasets             []string `yaml:"datasets"`
	Models               []string `yaml:"models"`
	TrainingLoops        []string `yaml:"training_loops"`
	Optimizers           []string `yaml:"optimizers"`
	LossFunctions        []string `yaml:"loss_functions"`
	Regularizers         []string `yaml:"regularizers"`
	NegativeSampler      string   `yaml:"negative_sampler"`
	CreateInverseTriples []bool   `yaml:"create_inverse_triples"`

	ModelKwargs       map[string]any `yaml:"model_kwargs"`
	ModelKwargsRanges map[string]any `yaml:"model_kwargs_ranges"`

	OptimizerKwargs       map[string]any `yaml:"optimizer_kwargs"`
	OptimizerKwargsRanges map[string]any `yaml:"optimizer_kwargs_ranges"`

	LossKwargs       map[string]any `yaml:"loss_kwargs"`
	LossKwargsRanges map[string]any `yaml:"loss_kwargs_ranges"`

	RegularizerKwargs       map[string]any `yaml:"regularizer_kwargs"`
	RegularizerKwargsRanges map[string]any `yaml:"regularizer_kwargs_ranges"`

	NegativeSamplerKwargs       map[string]any `yaml:"negative_sampler_kwargs"`
	NegativeSamplerKwargsRanges map[string]any `yaml:"negative_sampler_kwargs_ranges"`

	TrainingKwargs       map[string]any `yaml:"training_kwargs"`
	TrainingKwargsRanges map[string]any `yaml:"training_kwargs_ranges"`

	Evaluator        string         `yaml:"evaluator"`
	EvaluatorKwargs  map[string]any `yaml:"evaluator_kwargs"`
	EvaluationKwargs map[string]any `yaml:"evaluation_kwargs"`

	Stopper       string         `yaml:"stopper"`
	StopperKwargs map[string]any `yaml:"stopper_kwargs"`
}

type optunaDoc struct {
	NTrials        int     `yaml:"n_trials"`
	TimeoutSeconds float64 `yaml:"timeout"`
	Metric         string  `yaml:"metric"`
	Direction      string  `yaml:"direction"`
	Sampler        string  `yaml:"sampler"`
	Pruner         string  `yaml:"pruner"`
}

// Load reads one YAML study document and translates it into the
// format-agnostic model.
func (l *Loader) Load(ctx context.Context, path string) (*config.Study, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading study document.", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read study file %s: %w", path, err)
	}

	var doc studyDoc
	if err := yamlv3.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse study file %s: %w", path, err)
	}
	if doc.Ablation == nil {
		return nil, fmt.Errorf("study file %s has no ablation mapping", path)
	}

	study, err := translate(&doc)
	if err != nil {
		return nil, fmt.Errorf("invalid study file %s: %w", path, err)
	}

	logger.Debug("Study document loaded.", "path", path,
		"models", len(study.Ablation.Models), "datasets", len(study.Ablation.Datasets))
	return study, nil
}

func translate(doc *studyDoc) (*config.Study, error) {
	raw := doc.Ablation
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
	if ab.ModelKwargs, err = config.BindModelKwargs(normalize(raw.ModelKwargs)); err != nil {
		return nil, fmt.Errorf("model_kwargs: %w", err)
	}
	if ab.ModelKwargsRanges, err = config.BindModelRanges(normalize(raw.ModelKwargsRanges)); err != nil {
		return nil, fmt.Errorf("model_kwargs_ranges: %w", err)
	}

	samplerChoices := config.SamplerChoices(raw.NegativeSampler)
	scoped := []struct {
		slot    string
		choices []string
		rawKw   map[string]any
		rawRg   map[string]any
		kwargs  *config.ScopedKwargs
		ranges  *config.ScopedRanges
	}{
		{"optimizer_kwargs", raw.Optimizers, raw.OptimizerKwargs, raw.OptimizerKwargsRanges, &ab.OptimizerKwargs, &ab.OptimizerKwargsRanges},
		{"loss_kwargs", raw.LossFunctions, raw.LossKwargs, raw.LossKwargsRanges, &ab.LossKwargs, &ab.LossKwargsRanges},
		{"regularizer_kwargs", raw.Regularizers, raw.RegularizerKwargs, raw.RegularizerKwargsRanges, &ab.RegularizerKwargs, &ab.RegularizerKwargsRanges},
		{"negative_sampler_kwargs", samplerChoices, raw.NegativeSamplerKwargs, raw.NegativeSamplerKwargsRanges, &ab.NegativeSamplerKwargs, &ab.NegativeSamplerKwargsRanges},
		{"training_kwargs", raw.TrainingLoops, raw.TrainingKwargs, raw.TrainingKwargsRanges, &ab.TrainingKwargs, &ab.TrainingKwargsRanges},
	}
	for _, s := range scoped {
		if *s.kwargs, err = config.BindScopedKwargs(normalize(s.rawKw), s.slot, s.choices); err != nil {
			return nil, err
		}
		if *s.ranges, err = config.BindScopedRanges(normalize(s.rawRg), s.slot+"_ranges", s.choices); err != nil {
			return nil, err
		}
	}

	if ab.EvaluatorKwargs, err = config.BindKwargs(normalize(raw.EvaluatorKwargs)); err != nil {
		return nil, fmt.Errorf("evaluator_kwargs: %w", err)
	}
	if ab.EvaluationKwargs, err = config.BindKwargs(normalize(raw.EvaluationKwargs)); err != nil {
		return nil, fmt.Errorf("evaluation_kwargs: %w", err)
	}
	if ab.StopperKwargs, err = config.BindKwargs(normalize(raw.StopperKwargs)); err != nil {
		return nil, fmt.Errorf("stopper_kwargs: %w", err)
	}

	study := &config.Study{Ablation: ab}
	if doc.Optuna != nil {
		study.Search = &config.Search{
			NTrials:   doc.Optuna.NTrials,
			Timeout:   time.Duration(doc.Optuna.TimeoutSeconds * float64(time.Second)),
			Metric:    doc.Optuna.Metric,
			Direction: doc.Optuna.Direction,
			Sampler:   doc.Optuna.Sampler,
			Pruner:    doc.Optuna.Pruner,
		}
	}
	return study, nil
}

// normalize deep-converts yaml.v3's map[string]any trees so that nested
// mappings always decode as map[string]any and nil maps stay nil for the
// binders.
func normalize(v map[string]any) any {
	if v == nil {
		return nil
	}
	return normalizeValue(v)
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalizeValue(val)
		}
		return out
	case map[any]any:
		// yaml.v3 only produces this for non-string keys; study documents
		// key everything by name, so stringify and continue.
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprintf("%v", k)] = normalizeValue(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalizeValue(val)
		}
		return out
	default:
		return v
	}
}
