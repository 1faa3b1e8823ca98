package commands

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/captivegate/captivegate/src/internal/log"
)

func init() {
	log.DisableLogs()
}

func waitDone(t *testing.T, r *RestartableRunner) {
	t.Helper()
	select {
	case <-r.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not finish")
	}
}

func TestRunnerRestartsUntilLimit(t *testing.T) {
	var calls atomic.Int32
	r := NewRestartableRunner(RunnerConfig{
		Name:           "flaky",
		MaxRestarts:    3,
		RestartBackoff: time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
	}, func(ctx context.Context) error {
		calls.Add(1)
		return fmt.Errorf("boom")
	})

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	waitDone(t, r)

	if got := calls.Load(); got != 3 {
		t.Errorf("Expected 3 runs, got %d", got)
	}
	if r.RestartCount() != 3 {
		t.Errorf("Expected restart count 3, got %d", r.RestartCount())
	}
	if r.LastError() == nil {
		t.Error("Expected last error to be kept")
	}
}

func TestRunnerRecoversPanic(t *testing.T) {
	var calls atomic.Int32
	r := NewRestartableRunner(RunnerConfig{Name: "panicky", RestartBackoff: time.Millisecond}, func(ctx context.Context) error {
		if calls.Add(1) == 1 {
			panic("first run explodes")
		}
		return nil
	})

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	waitDone(t, r)

	if calls.Load() != 2 {
		t.Errorf("Expected a restart after panic, got %d runs", calls.Load())
	}
	if r.LastError() != nil {
		t.Errorf("Expected clean exit, got %v", r.LastError())
	}
}

func TestRunnerStop(t *testing.T) {
	started := make(chan struct{})
	r := NewRestartableRunner(RunnerConfig{Name: "blocking"}, func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	})

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := r.Start(context.Background()); err == nil {
		t.Error("Expected error when starting twice")
	}
	<-started

	if err := r.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if r.IsRunning() {
		t.Error("Expected runner to be stopped")
	}
	if r.RestartCount() != 0 {
		t.Errorf("Cancellation must not count as a crash, got %d restarts", r.RestartCount())
	}
}
