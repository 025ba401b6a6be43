package fileconv

import (
	"time"

	"github.com/rs/zerolog"
)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithStatsStore sets where sessions persist usage counters (default: an
// in-memory store).
func WithStatsStore(store StatsStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithNow sets the clock used for the generation timestamp in HTML output.
func WithNow(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// ConvertOption adjusts a single conversion.
type ConvertOption func(*ConvertJob)

// WithProgress registers a callback for the rendering checkpoints of large
// PDF conversions.
func WithProgress(fn ProgressFunc) ConvertOption {
	return func(job *ConvertJob) {
		job.Progress = fn
	}
}
