package mailbox

import (
	"context"
	"log"
	"time"
)

// DefaultSweepInterval is how often the deadline sweep runs when no interval
// is configured.
const DefaultSweepInterval = 30 * time.Second

// Sweeper drives the periodic deadline sweep: once immediately on Run, then
// on a fixed interval until the context is cancelled. Each pass runs
// synchronously, so sweeps never overlap.
type Sweeper struct {
	ctrl     *Controller
	interval time.Duration
	now      func() time.Time
}

// NewSweeper creates a Sweeper over the controller. A non-positive interval
// falls back to DefaultSweepInterval; pass nil for the real clock.
func NewSweeper(ctrl *Controller, interval time.Duration, now func() time.Time) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	if now == nil {
		now = time.Now
	}
	return &Sweeper{ctrl: ctrl, interval: interval, now: now}
}

// Run blocks until ctx is cancelled, sweeping once at start and then every
// interval. Intended to be started in its own goroutine at process start.
func (s *Sweeper) Run(ctx context.Context) {
	s.sweep()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *Sweeper) sweep() {
	if moved := s.ctrl.SweepDeadlines(s.now()); moved > 0 {
		log.Printf("Sweeper: moved %d message(s) to Trash due to missed deadlines", moved)
	}
}
