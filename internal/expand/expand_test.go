package expand

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/hpogrid/internal/config"
	"github.com/vk/hpogrid/internal/registry"
)

// exampleStudy builds the ComplEx-on-nations grid used throughout these
// tests: 1 dataset x 1 model x 2 loops x 2 optimizers x 2 losses x
// 2 regularizers x 2 inverse-triple settings = 32 trials.
func exampleStudy() *config.Study {
	lr := func() *config.ParameterRange {
		return &config.ParameterRange{Type: config.RangeFloat, Low: 0.001, High: 0.1, Scale: config.ScaleLog}
	}
	return &config.Study{
		Ablation: &config.Ablation{
			Datasets:             []string{"nations"},
			Models:               []string{"ComplEx"},
			TrainingLoops:        []string{"slcwa", "lcwa"},
			Optimizers:           []string{"adam", "adadelta"},
			LossFunctions:        []string{"BCEAfterSigmoidLoss", "SoftplusLoss"},
			Regularizers:         []string{"LpRegularizer", "NoRegularizer"},
			CreateInverseTriples: []bool{true, false},
			NegativeSampler:      "basic",

			ModelKwargs: map[string]config.Kwargs{"ComplEx": {}},
			ModelKwargsRanges: map[string]config.Ranges{"ComplEx": {
				"embedding_dim": {Type: config.RangeInt, Low: 10, High: 30, Q: 10},
			}},

			OptimizerKwargsRanges: config.ScopedRanges{"ComplEx": {
				PerChoice: map[string]config.Ranges{
					"adam":     {"lr": lr()},
					"adadelta": {"lr": lr()},
				},
			}},
			RegularizerKwargs: config.ScopedKwargs{"ComplEx": {
				PerChoice: map[string]config.Kwargs{
					"LpRegularizer": {"p": 2.0, "weight": 0.1},
					"NoRegularizer": {},
				},
			}},
			NegativeSamplerKwargsRanges: config.ScopedRanges{"ComplEx": {
				PerChoice: map[string]config.Ranges{
					"basic": {"num_negs_per_pos": {Type: config.RangeInt, Low: 1, High: 50}},
				},
			}},
			TrainingKwargs: config.ScopedKwargs{"ComplEx": {
				PerChoice: map[string]config.Kwargs{
					"slcwa": {"num_epochs": 200, "batch_size": 256},
					"lcwa":  {"num_epochs": 200, "label_smoothing": 0.1},
				},
			}},

			Evaluator:        "RankBasedEvaluator",
			EvaluationKwargs: config.Kwargs{"batch_size": 16384},
			Stopper:          "early",
			StopperKwargs:    config.Kwargs{"frequency": 5, "patience": 20, "relative_delta": 0.002},
		},
		Search: &config.Search{
			NTrials:   100,
			Timeout:   2 * time.Hour,
			Metric:    "hits@10",
			Direction: "maximize",
			Sampler:   "random",
			Pruner:    "nop",
		},
	}
}

func TestExpandExampleGrid(t *testing.T) {
	e := New(registry.New())
	study := exampleStudy()
	require.NoError(t, e.Validate(context.Background(), study))

	trials, warnings := e.Expand(context.Background(), study)
	require.Empty(t, warnings)
	require.Len(t, trials, 32)

	for i, trial := range trials {
		assert.Equal(t, i, trial.Index)
		assert.Equal(t, "nations", trial.Dataset)
		assert.Equal(t, "ComplEx", trial.Model)

		// Every trial carries the model's tunable embedding dimension.
		require.Contains(t, trial.ModelKwargsRanges, "embedding_dim")
		dim := trial.ModelKwargsRanges["embedding_dim"]
		assert.Equal(t, config.RangeInt, dim.Type)
		assert.Equal(t, []any{10, 20, 30}, dim.GridPoints())

		// Both optimizers tune the learning rate on a log scale.
		require.Contains(t, trial.OptimizerKwargsRanges, "lr")
		lr := trial.OptimizerKwargsRanges["lr"]
		assert.Equal(t, config.RangeFloat, lr.Type)
		assert.Equal(t, config.ScaleLog, lr.Scale)
		assert.Equal(t, 0.001, lr.Low)
		assert.Equal(t, 0.1, lr.High)
	}

	first := trials[0]
	assert.Equal(t, "slcwa", first.TrainingLoop)
	assert.Equal(t, "adam", first.Optimizer)
	assert.Equal(t, "BCEAfterSigmoidLoss", first.LossFunction)
	assert.Equal(t, "LpRegularizer", first.Regularizer)
	assert.True(t, first.CreateInverseTriples)
	assert.Equal(t, "0000_nations_complex", first.ID())

	last := trials[31]
	assert.Equal(t, "lcwa", last.TrainingLoop)
	assert.Equal(t, "adadelta", last.Optimizer)
	assert.Equal(t, "SoftplusLoss", last.LossFunction)
	assert.Equal(t, "NoRegularizer", last.Regularizer)
	assert.False(t, last.CreateInverseTriples)
}

func TestExpandNegativeSamplerOnlyOnSLCWA(t *testing.T) {
	e := New(registry.New())
	trials, _ := e.Expand(context.Background(), exampleStudy())
	require.Len(t, trials, 32)

	for _, trial := range trials {
		switch trial.TrainingLoop {
		case "slcwa":
			assert.Equal(t, "basic", trial.NegativeSampler)
			require.Contains(t, trial.NegativeSamplerKwargsRanges, "num_negs_per_pos")
		case "lcwa":
			assert.Empty(t, trial.NegativeSampler)
			assert.Nil(t, trial.NegativeSamplerKwargs)
			assert.Nil(t, trial.NegativeSamplerKwargsRanges)
		}
	}
}

func TestExpandDefaultsNegativeSampler(t *testing.T) {
	e := New(registry.New())
	study := exampleStudy()
	// No sampler is declared, but kwargs ranges for the default choice stay
	// valid and resolve onto the sampling trials.
	study.Ablation.NegativeSampler = ""
	require.NoError(t, e.Validate(context.Background(), study))

	trials, _ := e.Expand(context.Background(), study)
	for _, trial := range trials {
		if trial.TrainingLoop != "slcwa" {
			continue
		}
		assert.Equal(t, "basic", trial.NegativeSampler)
		require.Contains(t, trial.NegativeSamplerKwargsRanges, "num_negs_per_pos")
		assert.Equal(t, config.RangeInt, trial.NegativeSamplerKwargsRanges["num_negs_per_pos"].Type)
	}
}

func TestExpandTrainingKwargsFollowLoop(t *testing.T) {
	e := New(registry.New())
	trials, _ := e.Expand(context.Background(), exampleStudy())

	for _, trial := range trials {
		switch trial.TrainingLoop {
		case "slcwa":
			assert.Equal(t, 256, trial.TrainingKwargs["batch_size"])
			assert.NotContains(t, trial.TrainingKwargs, "label_smoothing")
		case "lcwa":
			assert.Equal(t, 0.1, trial.TrainingKwargs["label_smoothing"])
			assert.NotContains(t, trial.TrainingKwargs, "batch_size")
		}
	}
}

func TestExpandRegularizerKwargsFollowChoice(t *testing.T) {
	e := New(registry.New())
	trials, _ := e.Expand(context.Background(), exampleStudy())

	for _, trial := range trials {
		switch trial.Regularizer {
		case "LpRegularizer":
			assert.Equal(t, config.Kwargs{"p": 2.0, "weight": 0.1}, trial.RegularizerKwargs)
		case "NoRegularizer":
			assert.Empty(t, trial.RegularizerKwargs)
		}
		// No loss kwargs are declared, so the slot resolves to nothing.
		assert.Nil(t, trial.LossKwargs)
		assert.Nil(t, trial.LossKwargsRanges)
	}
}

func TestExpandModelLevelDefault(t *testing.T) {
	e := New(registry.New())
	study := exampleStudy()
	// A default applies to every optimizer that has no per-choice entry.
	study.Ablation.OptimizerKwargs = config.ScopedKwargs{"ComplEx": {
		Default: config.Kwargs{"weight_decay": 0.01},
	}}

	trials, _ := e.Expand(context.Background(), study)
	for _, trial := range trials {
		assert.Equal(t, 0.01, trial.OptimizerKwargs["weight_decay"])
	}
}

func TestExpandProductLaw(t *testing.T) {
	e := New(registry.New())
	cases := []struct {
		name     string
		mutate   func(*config.Ablation)
		expected int
	}{
		{"full example", func(ab *config.Ablation) {}, 32},
		{"single loop", func(ab *config.Ablation) {
			ab.TrainingLoops = []string{"slcwa"}
		}, 16},
		{"two datasets", func(ab *config.Ablation) {
			ab.Datasets = []string{"nations", "kinships"}
		}, 64},
		{"one of each", func(ab *config.Ablation) {
			ab.TrainingLoops = []string{"slcwa"}
			ab.Optimizers = []string{"adam"}
			ab.LossFunctions = []string{"SoftplusLoss"}
			ab.Regularizers = []string{"NoRegularizer"}
			ab.CreateInverseTriples = []bool{false}
		}, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			study := exampleStudy()
			tc.mutate(study.Ablation)
			trials, warnings := e.Expand(context.Background(), study)
			assert.Empty(t, warnings)
			assert.Len(t, trials, tc.expected)
		})
	}
}

func TestExpandEmptyAxis(t *testing.T) {
	e := New(registry.New())
	study := exampleStudy()
	study.Ablation.TrainingLoops = nil
	study.Ablation.Regularizers = nil

	trials, warnings := e.Expand(context.Background(), study)
	assert.Empty(t, trials)
	require.Len(t, warnings, 2)
	assert.Equal(t, "training_loops", warnings[0].Axis)
	assert.Equal(t, "regularizers", warnings[1].Axis)
	assert.Contains(t, warnings[0].String(), "zero trials")
}

func TestExpandDeterministic(t *testing.T) {
	e := New(registry.New())
	first, _ := e.Expand(context.Background(), exampleStudy())
	second, _ := e.Expand(context.Background(), exampleStudy())
	require.Equal(t, first, second)

	ids := make(map[string]struct{}, len(first))
	for _, trial := range first {
		ids[trial.ID()] = struct{}{}
	}
	assert.Len(t, ids, len(first))
}

func TestExpandCopiesTables(t *testing.T) {
	e := New(registry.New())
	study := exampleStudy()
	trials, _ := e.Expand(context.Background(), study)
	require.NotEmpty(t, trials)

	trials[0].StopperKwargs["patience"] = 99
	assert.Equal(t, 20, study.Ablation.StopperKwargs["patience"])
	assert.Equal(t, 20, trials[1].StopperKwargs["patience"])
}
