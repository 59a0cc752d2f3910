// Package resultstore provides an ephemeral, thread-safe, in-memory sink for
// trial results.
//
// It backs a single study run: workers record outcomes concurrently while
// the app reads nothing until the run finishes, so a sync.Map keyed by trial
// ID fits the write-heavy access pattern without global lock contention. For
// runs whose results must survive the process, pair it with a JSONL sink via
// runner.Tee.
package resultstore

import (
	"context"
	"sort"
	"sync"

	"github.com/vk/hpogrid/internal/runner"
)

// Store is an in-memory implementation of runner.Sink keyed by trial ID.
type Store struct {
	results sync.Map // Key: trial ID string, Value: *runner.Result
}

// New creates a new, empty result store.
func New() *Store {
	return &Store{}
}

// Record implements runner.Sink.
func (s *Store) Record(_ context.Context, res *runner.Result) error {
	s.results.Store(res.TrialID, res)
	return nil
}

// Get returns the result recorded for a trial ID.
func (s *Store) Get(trialID string) (*runner.Result, bool) {
	v, ok := s.results.Load(trialID)
	if !ok {
		return nil, false
	}
	return v.(*runner.Result), true
}

// All returns every recorded result sorted by trial ID, i.e. in expansion
// order.
func (s *Store) All() []*runner.Result {
	var all []*runner.Result
	s.results.Range(func(_, v any) bool {
		all = append(all, v.(*runner.Result))
		return true
	})
	sort.Slice(all, func(i, j int) bool { return all[i].TrialID < all[j].TrialID })
	return all
}

// Len returns the number of recorded results.
func (s *Store) Len() int {
	n := 0
	s.results.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Best returns the completed result with the extreme value of the given
// metric: the highest for direction "maximize" (the default), the lowest for
// "minimize". Results missing the metric are ignored.
func (s *Store) Best(metric, direction string) (*runner.Result, bool) {
	var best *runner.Result
	var bestValue float64
	s.results.Range(func(_, v any) bool {
		res := v.(*runner.Result)
		if res.Status != runner.StatusCompleted {
			return true
		}
		value, ok := res.Metrics[metric]
		if !ok {
			return true
		}
		if best == nil || better(value, bestValue, direction) {
			best, bestValue = res, value
		}
		return true
	})
	return best, best != nil
}

func better(candidate, current float64, direction string) bool {
	if direction == "minimize" {
		return candidate < current
	}
	return candidate > current
}
