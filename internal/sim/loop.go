package sim

import (
	"context"
	"time"
)

// FrameHandler is called after every step. Returning false stops the loop.
type FrameHandler func(w *World, f Frame) bool

// Loop drives a World at a fixed rate without a terminal attached.
type Loop struct {
	world    *World
	interval time.Duration
}

// NewLoop returns a loop stepping w rate times per second. A non-positive
// rate runs frames back to back.
func NewLoop(w *World, rate int) *Loop {
	var interval time.Duration
	if rate > 0 {
		interval = time.Second / time.Duration(rate)
	}
	return &Loop{world: w, interval: interval}
}

// Interval returns the time between frames, or 0 when unthrottled.
func (l *Loop) Interval() time.Duration {
	return l.interval
}

// Run steps the world until handle returns false or ctx is done. Cancellation
// is checked between frames only: a frame that has started always completes
// and is handed to handle. Run returns ctx.Err() when cancelled and nil when
// the handler stopped it.
func (l *Loop) Run(ctx context.Context, handle FrameHandler) error {
	if l.interval <= 0 {
		for {
			if err := ctx.Err(); err != nil {
				return err
			}
			if !handle(l.world, l.world.Step(0)) {
				return nil
			}
		}
	}

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			if !handle(l.world, l.world.Step(dt)) {
				return nil
			}
		}
	}
}
