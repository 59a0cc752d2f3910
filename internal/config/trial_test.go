package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrialID(t *testing.T) {
	trial := &Trial{Index: 7, Dataset: "FB15k-237", Model: "ComplEx"}
	assert.Equal(t, "0007_fb15k237_complex", trial.ID())

	trial = &Trial{Index: 0, Dataset: "nations", Model: "TransE"}
	assert.Equal(t, "0000_nations_transe", trial.ID())
}

func TestTrialDocument(t *testing.T) {
	trial := &Trial{
		Index:                3,
		Dataset:              "nations",
		Model:                "ComplEx",
		TrainingLoop:         "slcwa",
		Optimizer:            "adam",
		LossFunction:         "SoftplusLoss",
		Regularizer:          "NoRegularizer",
		CreateInverseTriples: true,
		NegativeSampler:      "basic",
		ModelKwargsRanges: Ranges{
			"embedding_dim": {Type: RangeInt, Low: 10, High: 30, Q: 10},
		},
		OptimizerKwargsRanges: Ranges{
			"lr": {Type: RangeFloat, Low: 0.001, High: 0.1, Scale: ScaleLog},
		},
		TrainingKwargs:   Kwargs{"num_epochs": 200},
		Evaluator:        "RankBasedEvaluator",
		EvaluationKwargs: Kwargs{"batch_size": 16384},
		Stopper:          "early",
		StopperKwargs:    Kwargs{"frequency": 5, "patience": 20},
	}

	doc := trial.Document()
	assert.Equal(t, "nations", doc["dataset"])
	assert.Equal(t, "ComplEx", doc["model"])
	assert.Equal(t, "slcwa", doc["training_loop"])
	assert.Equal(t, true, doc["create_inverse_triples"])
	assert.Equal(t, "basic", doc["negative_sampler"])
	assert.Equal(t, "early", doc["stopper"])

	ranges, ok := doc["model_kwargs_ranges"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"type": "int", "low": 10, "high": 30, "q": 10},
		ranges["embedding_dim"])

	optRanges, ok := doc["optimizer_kwargs_ranges"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"type": "float", "low": 0.001, "high": 0.1, "scale": "log"},
		optRanges["lr"])

	// Empty slots stay out of the document entirely.
	assert.NotContains(t, doc, "model_kwargs")
	assert.NotContains(t, doc, "loss_kwargs")
	assert.NotContains(t, doc, "regularizer_kwargs_ranges")
}

func TestTrialDocumentOmitsNegativeSampler(t *testing.T) {
	trial := &Trial{Dataset: "nations", Model: "ComplEx", TrainingLoop: "lcwa"}
	doc := trial.Document()
	assert.NotContains(t, doc, "negative_sampler")
	assert.NotContains(t, doc, "negative_sampler_kwargs")
}
