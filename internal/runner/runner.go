package runner

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vk/hpogrid/internal/config"
	"github.com/vk/hpogrid/internal/ctxlog"
)

// TrialFunc executes one trial and returns its outcome metrics keyed by
// metric name.
type TrialFunc func(ctx context.Context, trial *config.Trial) (map[string]float64, error)

// Trial statuses recorded in results.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusSkipped   = "skipped"
)

// Result is one completed, failed or skipped trial outcome, keyed by the
// trial's stable ID and tagged with the run session it belongs to.
type Result struct {
	RunID    string             `json:"run_id"`
	TrialID  string             `json:"trial_id"`
	Status   string             `json:"status"`
	Metrics  map[string]float64 `json:"metrics,omitempty"`
	Error    string             `json:"error,omitempty"`
	Started  time.Time          `json:"started"`
	Finished time.Time          `json:"finished"`
}

// Runner executes trials with a pool of concurrent workers.
type Runner struct {
	workers int
	fn      TrialFunc
	sink    Sink
}

// New creates a Runner. A worker count below one is treated as one.
func New(workers int, fn TrialFunc, sink Sink) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{workers: workers, fn: fn, sink: sink}
}

// Run executes the trial sequence and returns the run session ID under which
// all results were recorded. The search settings bound the run: NTrials caps
// how many trials execute, Timeout bounds the whole session. Trials that miss
// the deadline are recorded as skipped; trial failures are recorded and do
// not abort the run.
func (r *Runner) Run(ctx context.Context, trials []*config.Trial, search *config.Search) (string, error) {
	logger := ctxlog.FromContext(ctx)
	runID := uuid.NewString()

	if search != nil && search.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, search.Timeout)
		defer cancel()
	}

	limit := len(trials)
	if search != nil && search.NTrials > 0 && search.NTrials < limit {
		limit = search.NTrials
	}
	logger.Info("Starting trial run.", "run_id", runID, "trials", limit, "workers", r.workers)

	readyChan := make(chan *config.Trial)
	var wg sync.WaitGroup
	for workerID := 0; workerID < r.workers; workerID++ {
		wg.Add(1)
		go r.worker(ctx, readyChan, &wg, runID, workerID)
	}

	for _, trial := range trials[:limit] {
		readyChan <- trial
	}
	close(readyChan)
	wg.Wait()

	logger.Info("Trial run finished.", "run_id", runID)
	return runID, nil
}

// worker is the processing loop for a single concurrent worker.
func (r *Runner) worker(ctx context.Context, readyChan <-chan *config.Trial, wg *sync.WaitGroup, runID string, workerID int) {
	defer wg.Done()
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Worker started.", "workerID", workerID)

	for trial := range readyChan {
		workerLogger := logger.With("workerID", workerID, "trialID", trial.ID())

		res := &Result{RunID: runID, TrialID: trial.ID(), Started: time.Now()}
		if err := ctx.Err(); err != nil {
			res.Status = StatusSkipped
			res.Error = err.Error()
			res.Finished = res.Started
			workerLogger.Warn("Trial skipped, run deadline reached.")
			r.record(ctx, workerLogger, res)
			continue
		}

		workerLogger.Debug("Worker picked up trial.")
		metrics, err := r.fn(ctx, trial)
		res.Finished = time.Now()
		if err != nil {
			res.Status = StatusFailed
			res.Error = err.Error()
			workerLogger.Error("Trial failed.", "error", err)
		} else {
			res.Status = StatusCompleted
			res.Metrics = metrics
			workerLogger.Debug("Trial completed.")
		}
		r.record(ctx, workerLogger, res)
	}
	logger.Debug("Worker finished.", "workerID", workerID)
}

func (r *Runner) record(ctx context.Context, logger *slog.Logger, res *Result) {
	if r.sink == nil {
		return
	}
	if err := r.sink.Record(ctx, res); err != nil {
		logger.Error("Failed to record trial result.", "trialID", res.TrialID, "error", err)
	}
}
