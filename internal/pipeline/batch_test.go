package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nao1215/webrecon/internal/model"
)

// TestBatchProcessor tests concurrent processing of targets.
func TestBatchProcessor(t *testing.T) {
	t.Parallel()

	t.Run("returns reports in target order", func(t *testing.T) {
		t.Parallel()

		factory := func(target string) (*Pipeline, error) {
			p := New()
			p.AddStep(NewScanStep(&pathTransport{found: map[string]bool{target + "/admin": true}},
				bruteConfig(target, "admin", "missing")))
			return p, nil
		}

		var n atomic.Int32
		bp := NewBatchProcessor(factory,
			WithConcurrency(3),
			WithIDGenerator(func() string { return fmt.Sprintf("job-%d", n.Add(1)) }))

		targets := []string{"http://a", "http://b", "http://c", "http://d"}
		reports, err := bp.ProcessBatch(context.Background(), targets)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(reports) != len(targets) {
			t.Fatalf("expected %d reports, got %d", len(targets), len(reports))
		}

		ids := make(map[string]bool)
		for i, r := range reports {
			if r.Target != targets[i] {
				t.Errorf("report %d: expected target %s, got %s", i, targets[i], r.Target)
			}
			if r.State != model.StateCompleted || len(r.Retained) != 1 {
				t.Errorf("report %d: unexpected state %s with %d retained", i, r.State, len(r.Retained))
			}
			ids[r.ID] = true
		}
		if len(ids) != len(targets) {
			t.Errorf("expected unique job IDs, got %v", ids)
		}
	})

	t.Run("respects the concurrency limit", func(t *testing.T) {
		t.Parallel()

		var running, peak atomic.Int32
		step := &mockStep{name: "slow", doFunc: func(context.Context, *model.JobReport) error {
			cur := running.Add(1)
			for {
				old := peak.Load()
				if cur <= old || peak.CompareAndSwap(old, cur) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			running.Add(-1)
			return nil
		}}
		var mu sync.Mutex
		factory := func(string) (*Pipeline, error) {
			p := New()
			p.AddStep(&lockedStep{step: step, mu: &mu})
			return p, nil
		}

		bp := NewBatchProcessor(factory, WithConcurrency(2))
		if _, err := bp.ProcessBatch(context.Background(), []string{"1", "2", "3", "4", "5"}); err != nil {
			t.Fatal(err)
		}
		if peak.Load() > 2 {
			t.Errorf("expected at most 2 concurrent jobs, got %d", peak.Load())
		}
	})

	t.Run("factory errors are recorded per job", func(t *testing.T) {
		t.Parallel()

		factory := func(target string) (*Pipeline, error) {
			if target == "bad" {
				return nil, errors.New("no profile")
			}
			return New(), nil
		}

		reports, err := NewBatchProcessor(factory).ProcessBatch(context.Background(), []string{"good", "bad"})
		if err != nil {
			t.Fatal(err)
		}
		if reports[1].State != model.StateError || reports[1].Error != "no profile" {
			t.Errorf("expected setup error on report, got %+v", reports[1])
		}
		if reports[0].Error != "" {
			t.Errorf("expected first job to succeed, got %q", reports[0].Error)
		}
	})

	t.Run("cancelled context stops scheduling", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		called := false
		factory := func(string) (*Pipeline, error) {
			called = true
			return New(), nil
		}

		_, err := NewBatchProcessor(factory).ProcessBatch(ctx, []string{"a", "b"})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if called {
			t.Error("expected no job to start")
		}
	})

	t.Run("callback receives every report", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		seen := make(map[int]string)
		err := NewBatchProcessor(func(string) (*Pipeline, error) { return New(), nil }, WithConcurrency(4)).
			ProcessBatchWithCallback(context.Background(), []string{"a", "b", "c"}, func(r *model.JobReport, i int) {
				mu.Lock()
				seen[i] = r.Target
				mu.Unlock()
			})
		if err != nil {
			t.Fatal(err)
		}
		if len(seen) != 3 || seen[2] != "c" {
			t.Errorf("unexpected callbacks %v", seen)
		}
	})
}

// lockedStep serializes callCount updates of a shared mockStep.
type lockedStep struct {
	step *mockStep
	mu   *sync.Mutex
}

func (l *lockedStep) Do(ctx context.Context, r *model.JobReport) error {
	l.mu.Lock()
	l.step.callCount++
	fn := l.step.doFunc
	l.mu.Unlock()
	return fn(ctx, r)
}

func (l *lockedStep) Name() string { return l.step.name }
