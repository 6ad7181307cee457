package livefeed

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"balatro-run-viewer/internal/app/viewer"
	"balatro-run-viewer/internal/store"
)

func snapshotWithStatus(status string) *viewer.RunDetail {
	return &viewer.RunDetail{Run: store.Run{ID: "r1", Status: status}}
}

func TestWatchPushesImmediatelyAndStopsOnTerminal(t *testing.T) {
	c := NewController(func(ctx context.Context, runID string) (*viewer.RunDetail, error) {
		return snapshotWithStatus("completed"), nil
	}, 10*time.Millisecond)

	got := make(chan *viewer.RunDetail, 4)
	c.Watch(context.Background(), "r1", func(d *viewer.RunDetail) { got <- d })

	select {
	case d := <-got:
		if d.Run.Status != "completed" {
			t.Fatalf("pushed status = %q", d.Run.Status)
		}
	case <-time.After(time.Second):
		t.Fatal("no immediate push")
	}

	// Terminal status ends the loop; no further pushes arrive.
	select {
	case <-got:
		t.Fatal("loop kept pushing after terminal snapshot")
	case <-time.After(50 * time.Millisecond):
	}
	c.Stop()
}

func TestWatchKeepsPollingWhileRunning(t *testing.T) {
	var fetches atomic.Int64
	c := NewController(func(ctx context.Context, runID string) (*viewer.RunDetail, error) {
		fetches.Add(1)
		return snapshotWithStatus("running"), nil
	}, 5*time.Millisecond)
	defer c.Stop()

	c.Watch(context.Background(), "r1", func(*viewer.RunDetail) {})

	deadline := time.After(time.Second)
	for fetches.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("only %d fetches before deadline", fetches.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestWatchReplacesActivePoller(t *testing.T) {
	c := NewController(func(ctx context.Context, runID string) (*viewer.RunDetail, error) {
		d := snapshotWithStatus("running")
		d.Run.ID = runID
		return d, nil
	}, 5*time.Millisecond)
	defer c.Stop()

	pushed := make(chan string, 64)
	push := func(d *viewer.RunDetail) { pushed <- d.Run.ID }

	c.Watch(context.Background(), "r1", push)
	c.Watch(context.Background(), "r2", push)

	// Drain anything in flight from the first watch, then verify only the
	// replacement keeps pushing.
	time.Sleep(30 * time.Millisecond)
	for len(pushed) > 0 {
		<-pushed
	}
	deadline := time.After(time.Second)
	for i := 0; i < 3; i++ {
		select {
		case id := <-pushed:
			if id != "r2" {
				t.Fatalf("push from cancelled poller for %q", id)
			}
		case <-deadline:
			t.Fatal("replacement poller produced no pushes")
		}
	}
}

func TestWatchStopsWhenRunDisappears(t *testing.T) {
	c := NewController(func(ctx context.Context, runID string) (*viewer.RunDetail, error) {
		return nil, viewer.ErrRunNotFound
	}, 5*time.Millisecond)

	var pushes atomic.Int64
	c.Watch(context.Background(), "gone", func(*viewer.RunDetail) { pushes.Add(1) })

	time.Sleep(30 * time.Millisecond)
	c.Stop()
	if pushes.Load() != 0 {
		t.Fatalf("got %d pushes for a missing run", pushes.Load())
	}
}

func TestStopWaitsForLoopExit(t *testing.T) {
	inFetch := make(chan struct{}, 1)
	release := make(chan struct{})
	c := NewController(func(ctx context.Context, runID string) (*viewer.RunDetail, error) {
		select {
		case inFetch <- struct{}{}:
		default:
		}
		select {
		case <-release:
		case <-ctx.Done():
		}
		return snapshotWithStatus("running"), ctx.Err()
	}, 5*time.Millisecond)

	c.Watch(context.Background(), "r1", func(*viewer.RunDetail) {})
	<-inFetch
	done := make(chan struct{})
	go func() {
		c.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return after cancelling the loop")
	}
	close(release)
}
