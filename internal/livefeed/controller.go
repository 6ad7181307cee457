// Package livefeed drives the live-refresh loop behind a run watch: while a
// run is still running, its viewer snapshot is refetched on an interval and
// pushed to the subscriber; once the run reaches a terminal status the final
// snapshot is pushed and the loop stops.
package livefeed

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"balatro-run-viewer/internal/app/viewer"
)

// FetchFunc loads the current snapshot of one run.
type FetchFunc func(ctx context.Context, runID string) (*viewer.RunDetail, error)

// PushFunc delivers a snapshot to the subscriber. It must not block
// indefinitely; slow subscribers drop frames upstream.
type PushFunc func(*viewer.RunDetail)

// Controller owns at most one poll loop at a time. Watch replaces the active
// loop: the previous loop is cancelled and drained before the new one starts,
// so two pollers never run concurrently for the same controller.
type Controller struct {
	fetch    FetchFunc
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewController(fetch FetchFunc, interval time.Duration) *Controller {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Controller{fetch: fetch, interval: interval}
}

// Watch starts polling runID, pushing a snapshot immediately and then on
// every tick. Any loop already running is stopped first. The loop ends when
// ctx is cancelled, the run disappears, or the run reaches a terminal status;
// in the terminal case the final snapshot is pushed before the loop exits.
func (c *Controller) Watch(ctx context.Context, runID string, push PushFunc) {
	c.mu.Lock()
	c.stopLocked()
	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	c.cancel = cancel
	c.done = done
	c.mu.Unlock()

	go c.loop(loopCtx, runID, push, done)
}

// Stop cancels the active loop, if any, and waits for it to exit.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

func (c *Controller) stopLocked() {
	if c.cancel == nil {
		return
	}
	c.cancel()
	<-c.done
	c.cancel = nil
	c.done = nil
}

func (c *Controller) loop(ctx context.Context, runID string, push PushFunc, done chan struct{}) {
	defer close(done)

	if terminal := c.poll(ctx, runID, push); terminal {
		return
	}
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if terminal := c.poll(ctx, runID, push); terminal {
				return
			}
		}
	}
}

// poll fetches once and pushes the result. It reports true when the loop
// should end: the run is gone or no longer running. Transient fetch errors
// are logged and the loop keeps ticking.
func (c *Controller) poll(ctx context.Context, runID string, push PushFunc) bool {
	d, err := c.fetch(ctx, runID)
	if err != nil {
		if errors.Is(err, viewer.ErrRunNotFound) {
			return true
		}
		if ctx.Err() == nil {
			log.Warn().Err(err).Str("run_id", runID).Msg("livefeed fetch failed")
		}
		return ctx.Err() != nil
	}
	if ctx.Err() != nil {
		return true
	}
	push(d)
	return d.Run.Status != "running"
}
