package hcl

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/hpogrid/internal/config"
)

func writeStudyFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const exampleHCL = `
ablation {
  datasets               = ["nations"]
  models                 = ["ComplEx"]
  training_loops         = ["slcwa", "lcwa"]
  optimizers             = ["adam", "adadelta"]
  loss_functions         = ["BCEAfterSigmoidLoss", "SoftplusLoss"]
  regularizers           = ["LpRegularizer", "NoRegularizer"]
  negative_sampler       = "basic"
  create_inverse_triples = [true, false]

  model_kwargs_ranges = {
    ComplEx = {
      embedding_dim = { type = "int", low = 10, high = 30, q = 10 }
    }
  }

  optimizer_kwargs_ranges = {
    ComplEx = {
      adam     = { lr = { type = "float", low = 0.001, high = 0.1, scale = "log" } }
      adadelta = { lr = { type = "float", low = 0.001, high = 0.1, scale = "log" } }
    }
  }

  training_kwargs = {
    ComplEx = {
      slcwa = { num_epochs = 200, batch_size = 256 }
      lcwa  = { num_epochs = 200, label_smoothing = 0.1 }
    }
  }

  evaluator         = "RankBasedEvaluator"
  evaluation_kwargs = { batch_size = 16384 }
  stopper           = "early"
  stopper_kwargs    = { frequency = 5, patience = 20, relative_delta = 0.002 }
}

optuna {
  n_trials  = 100
  timeout   = 7200
  metric    = "hits@10"
  direction = "maximize"
  sampler   = "random"
  pruner    = "nop"
}
`

func TestLoadNativeSyntax(t *testing.T) {
	path := writeStudyFile(t, "study.hcl", exampleHCL)
	study, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)

	ab := study.Ablation
	assert.Equal(t, []string{"nations"}, ab.Datasets)
	assert.Equal(t, []string{"ComplEx"}, ab.Models)
	assert.Equal(t, []string{"slcwa", "lcwa"}, ab.TrainingLoops)
	assert.Equal(t, []bool{true, false}, ab.CreateInverseTriples)
	assert.Equal(t, "basic", ab.NegativeSampler)
	assert.Equal(t, "early", ab.Stopper)

	require.Contains(t, ab.ModelKwargsRanges, "ComplEx")
	dim := ab.ModelKwargsRanges["ComplEx"]["embedding_dim"]
	require.NotNil(t, dim)
	assert.Equal(t, &config.ParameterRange{Type: config.RangeInt, Low: 10, High: 30, Q: 10}, dim)

	lr := ab.OptimizerKwargsRanges.Resolve("ComplEx", "adam")["lr"]
	require.NotNil(t, lr)
	assert.Equal(t, config.ScaleLog, lr.Scale)
	assert.Equal(t, 0.001, lr.Low)

	// Whole numbers decode as int, fractions as float64.
	training := ab.TrainingKwargs.Resolve("ComplEx", "slcwa")
	assert.Equal(t, config.Kwargs{"num_epochs": 200, "batch_size": 256}, training)
	assert.Equal(t, 0.1, ab.TrainingKwargs.Resolve("ComplEx", "lcwa")["label_smoothing"])
	assert.Equal(t, config.Kwargs{"batch_size": 16384}, ab.EvaluationKwargs)
	assert.Equal(t, 0.002, ab.StopperKwargs["relative_delta"])

	require.NotNil(t, study.Search)
	assert.Equal(t, 100, study.Search.NTrials)
	assert.Equal(t, 2*time.Hour, study.Search.Timeout)
	assert.Equal(t, "hits@10", study.Search.Metric)
	assert.Equal(t, "maximize", study.Search.Direction)
}

func TestLoadJSONSyntax(t *testing.T) {
	path := writeStudyFile(t, "study.json", `{
  "ablation": {
    "datasets": ["nations"],
    "models": ["ComplEx"],
    "training_loops": ["slcwa"],
    "optimizers": ["adam"],
    "loss_functions": ["SoftplusLoss"],
    "regularizers": ["NoRegularizer"],
    "create_inverse_triples": [false],
    "model_kwargs_ranges": {
      "ComplEx": {
        "embedding_dim": {"type": "int", "low": 10, "high": 30, "q": 10}
      }
    }
  },
  "optuna": {"n_trials": 10, "metric": "hits@10"}
}`)

	study, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []string{"ComplEx"}, study.Ablation.Models)
	assert.Equal(t, &config.ParameterRange{Type: config.RangeInt, Low: 10, High: 30, Q: 10},
		study.Ablation.ModelKwargsRanges["ComplEx"]["embedding_dim"])
	require.NotNil(t, study.Search)
	assert.Equal(t, 10, study.Search.NTrials)
	assert.Zero(t, study.Search.Timeout)
}

func TestLoadImplicitDefaults(t *testing.T) {
	path := writeStudyFile(t, "study.hcl", `
ablation {
  datasets       = ["nations"]
  models         = ["ComplEx"]
  training_loops = ["slcwa"]
  optimizers     = ["adam"]
  loss_functions = ["SoftplusLoss"]
  regularizers   = ["NoRegularizer"]

  negative_sampler_kwargs = {
    ComplEx = {
      basic = { num_negs_per_pos = 5 }
    }
  }
}
`)
	study, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)
	ab := study.Ablation

	// Without a declared sampler the kwargs still key the default choice, not
	// a model-level parameter map.
	entry := ab.NegativeSamplerKwargs["ComplEx"]
	require.NotNil(t, entry)
	assert.Nil(t, entry.Default)
	assert.Equal(t, config.Kwargs{"num_negs_per_pos": 5},
		ab.NegativeSamplerKwargs.Resolve("ComplEx", "basic"))

	// An omitted inverse-triples axis defaults rather than emptying the grid.
	assert.Equal(t, []bool{false}, ab.CreateInverseTriples)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "absent.hcl"))
		require.ErrorContains(t, err, "failed to parse study file")
	})

	t.Run("syntax error", func(t *testing.T) {
		path := writeStudyFile(t, "broken.hcl", "ablation {\n  datasets = [\n")
		_, err := NewLoader().Load(context.Background(), path)
		require.ErrorContains(t, err, "failed to parse study file")
	})

	t.Run("no ablation block", func(t *testing.T) {
		path := writeStudyFile(t, "empty.hcl", "optuna {\n  n_trials = 1\n}\n")
		_, err := NewLoader().Load(context.Background(), path)
		require.ErrorContains(t, err, "has no ablation block")
	})

	t.Run("mixed table keying", func(t *testing.T) {
		path := writeStudyFile(t, "mixed.hcl", `
ablation {
  models     = ["ComplEx"]
  optimizers = ["adam"]

  optimizer_kwargs = {
    ComplEx = {
      adam         = { weight_decay = 0.0 }
      weight_decay = 0.01
    }
  }
}
`)
		_, err := NewLoader().Load(context.Background(), path)
		require.ErrorContains(t, err, "mixes choice keys with parameter keys")
	})

	t.Run("malformed range", func(t *testing.T) {
		path := writeStudyFile(t, "range.hcl", `
ablation {
  models = ["ComplEx"]

  model_kwargs_ranges = {
    ComplEx = {
      embedding_dim = { type = "int", step = 10 }
    }
  }
}
`)
		_, err := NewLoader().Load(context.Background(), path)
		require.ErrorContains(t, err, `unknown range field "step"`)
	})
}
