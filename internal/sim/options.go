package sim

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/citywalk/internal/collision"
	"github.com/vovakirdan/citywalk/internal/entity"
)

// Recorder receives instrumentation from a World. *metrics.Metrics satisfies it.
type Recorder interface {
	RecordEvent(ev collision.Event)
	RecordCollect(subtype entity.ItemSubtype)
	RecordFrame(d time.Duration, active int)
}

type nopRecorder struct{}

func (nopRecorder) RecordEvent(collision.Event)       {}
func (nopRecorder) RecordCollect(entity.ItemSubtype) {}
func (nopRecorder) RecordFrame(time.Duration, int)   {}

// Option configures a World.
type Option func(*World)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(w *World) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(w *World) {
		if r != nil {
			w.recorder = r
		}
	}
}

// WithSeed seeds the RNG used for patrol velocities.
func WithSeed(seed int64) Option {
	return func(w *World) {
		w.seed = seed
	}
}

// WithViewport sets the viewport used for camera clamping, overriding the
// configured one.
func WithViewport(width, height float64) Option {
	return func(w *World) {
		w.viewport = Viewport{W: width, H: height}
	}
}
