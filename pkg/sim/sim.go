// Package sim provides a minimal ticker-driven loop for stepping a
// simulation at a fixed cadence, independent of any particular rendering
// or event system.
package sim

import (
	"context"
	"time"
)

// StepFunc advances the simulation by one tick.
type StepFunc func()

type Simulation struct {
	Duration time.Duration
	Step     StepFunc
	running  bool
}

func New(duration time.Duration, step StepFunc) *Simulation {
	if duration <= 0 {
		duration = 50 * time.Millisecond
	}
	return &Simulation{
		Duration: duration,
		Step:     step,
	}
}

// Run starts the simulation loop on its own goroutine, calling Step once
// per tick until ctx is canceled.
func (s *Simulation) Run(ctx context.Context) {
	if s == nil || s.running || s.Step == nil {
		return
	}
	s.running = true

	go func() {
		ticker := time.NewTicker(s.Duration)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Step()
			}
		}
	}()
}
