package resultstore

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/hpogrid/internal/runner"
)

func record(t *testing.T, s *Store, trialID, status string, metrics map[string]float64) {
	t.Helper()
	require.NoError(t, s.Record(context.Background(), &runner.Result{
		TrialID: trialID,
		Status:  status,
		Metrics: metrics,
	}))
}

func TestStoreRecordAndGet(t *testing.T) {
	s := New()
	record(t, s, "0001_nations_transe", runner.StatusCompleted, map[string]float64{"hits@10": 0.4})

	res, ok := s.Get("0001_nations_transe")
	require.True(t, ok)
	assert.Equal(t, runner.StatusCompleted, res.Status)

	_, ok = s.Get("0002_nations_transe")
	assert.False(t, ok)
	assert.Equal(t, 1, s.Len())
}

func TestStoreAllSortsByTrialID(t *testing.T) {
	s := New()
	record(t, s, "0002_nations_transe", runner.StatusCompleted, nil)
	record(t, s, "0000_nations_transe", runner.StatusFailed, nil)
	record(t, s, "0001_nations_transe", runner.StatusCompleted, nil)

	all := s.All()
	require.Len(t, all, 3)
	assert.Equal(t, "0000_nations_transe", all[0].TrialID)
	assert.Equal(t, "0001_nations_transe", all[1].TrialID)
	assert.Equal(t, "0002_nations_transe", all[2].TrialID)
}

func TestStoreBest(t *testing.T) {
	s := New()
	record(t, s, "a", runner.StatusCompleted, map[string]float64{"hits@10": 0.3, "loss": 2.0})
	record(t, s, "b", runner.StatusCompleted, map[string]float64{"hits@10": 0.7, "loss": 0.5})
	record(t, s, "c", runner.StatusCompleted, map[string]float64{"loss": 0.1})
	record(t, s, "d", runner.StatusFailed, map[string]float64{"hits@10": 0.99})

	t.Run("maximize is the default", func(t *testing.T) {
		best, ok := s.Best("hits@10", "")
		require.True(t, ok)
		assert.Equal(t, "b", best.TrialID)
	})

	t.Run("minimize", func(t *testing.T) {
		best, ok := s.Best("loss", "minimize")
		require.True(t, ok)
		assert.Equal(t, "c", best.TrialID)
	})

	t.Run("failed and metric-less results are ignored", func(t *testing.T) {
		best, ok := s.Best("hits@10", "maximize")
		require.True(t, ok)
		assert.NotEqual(t, "d", best.TrialID)
	})

	t.Run("unknown metric", func(t *testing.T) {
		_, ok := s.Best("mrr", "maximize")
		assert.False(t, ok)
	})
}

func TestStoreConcurrentRecords(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = s.Record(context.Background(), &runner.Result{
				TrialID: fmt.Sprintf("%04d_nations_transe", i),
				Status:  runner.StatusCompleted,
			})
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 64, s.Len())
}
