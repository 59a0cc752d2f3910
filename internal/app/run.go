package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/vk/hpogrid/internal/config"
	"github.com/vk/hpogrid/internal/ctxlog"
	"github.com/vk/hpogrid/internal/fsutil"
	"github.com/vk/hpogrid/internal/resultstore"
	"github.com/vk/hpogrid/internal/runner"
)

// studyPlan is the serialized form of one expanded study.
type studyPlan struct {
	Study   string           `json:"study"`
	NTrials int              `json:"n_trials"`
	Trials  []map[string]any `json:"trials"`
}

// Run executes the main application logic based on the provided
// configuration.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	files, err := fsutil.FindStudyFiles(a.config.StudyPath)
	if err != nil {
		return fmt.Errorf("failed to locate study documents in %s: %w", a.config.StudyPath, err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no study documents found in %s", a.config.StudyPath)
	}
	a.logger.Info("Study documents located.", "count", len(files))

	planW, closePlan, err := a.planWriter()
	if err != nil {
		return err
	}
	defer closePlan()

	for _, file := range files {
		if err := a.runStudy(ctx, file, planW); err != nil {
			return err
		}
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// runStudy loads, validates and expands one study document, then optionally
// executes the resulting plan.
func (a *App) runStudy(ctx context.Context, path string, planW io.Writer) error {
	study, err := a.loaderFor(path).Load(ctx, path)
	if err != nil {
		return err
	}

	if err := a.expander.Validate(ctx, study); err != nil {
		return fmt.Errorf("study %s is invalid: %w", path, err)
	}
	if a.config.ValidateOnly {
		a.logger.Info("Study document is valid.", "study", path)
		return nil
	}

	trials, warnings := a.expander.Expand(ctx, study)
	for _, warning := range warnings {
		a.logger.Warn(warning.String(), "study", path)
	}
	a.logger.Info("Study expanded.", "study", path, "trials", len(trials))

	plan := studyPlan{Study: path, NTrials: len(trials), Trials: make([]map[string]any, 0, len(trials))}
	for _, trial := range trials {
		plan.Trials = append(plan.Trials, trial.Document())
	}
	enc := json.NewEncoder(planW)
	enc.SetIndent("", "  ")
	if err := enc.Encode(plan); err != nil {
		return fmt.Errorf("failed to write trial plan for %s: %w", path, err)
	}

	if len(a.config.ExecCommand) == 0 || len(trials) == 0 {
		return nil
	}
	return a.executePlan(ctx, study, trials)
}

// executePlan runs the expanded trials through the worker pool and reports
// the best completed trial for the study's target metric.
func (a *App) executePlan(ctx context.Context, study *config.Study, trials []*config.Trial) error {
	store := resultstore.New()
	sink := runner.Sink(store)

	if a.config.ResultsPath != "" {
		f, err := os.OpenFile(a.config.ResultsPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open results file: %w", err)
		}
		defer f.Close()
		sink = runner.Tee(store, runner.NewJSONLSink(f))
	}

	fn := runner.ExecTrialFunc(a.config.ExecCommand[0], a.config.ExecCommand[1:]...)
	r := runner.New(a.config.Workers, fn, sink)
	runID, err := r.Run(ctx, trials, study.Search)
	if err != nil {
		return fmt.Errorf("trial run failed: %w", err)
	}

	metric, direction := "", ""
	if study.Search != nil {
		metric, direction = study.Search.Metric, study.Search.Direction
	}
	if best, ok := store.Best(metric, direction); ok {
		a.logger.Info("Best trial.", "run_id", runID, "trial_id", best.TrialID,
			"metric", metric, "value", best.Metrics[metric])
	} else {
		a.logger.Warn("No trial completed with the target metric.", "run_id", runID, "metric", metric)
	}
	return nil
}

// planWriter resolves the plan destination: the configured file, or the
// app's output stream.
func (a *App) planWriter() (io.Writer, func(), error) {
	if a.config.OutPath == "" {
		return a.outW, func() {}, nil
	}
	f, err := os.Create(a.config.OutPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create plan file: %w", err)
	}
	return f, func() { f.Close() }, nil
}
