// Package notify delivers fire-and-forget user-facing messages. The
// engine never surfaces raw errors to the UI layer; everything goes
// through a Sink as a short human-readable string.
package notify

import (
	"log"

	"golang.org/x/time/rate"

	"precivox-base/pkg/logger"
)

// Level classifies a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Sink receives user-facing messages. Implementations must not block
// and must not fail the caller.
type Sink interface {
	Notify(level Level, message string)
}

// LogSink writes notifications to the process log.
type LogSink struct{}

func (LogSink) Notify(level Level, message string) {
	log.Printf("[%s] %s", level, message)
}

// Discard swallows notifications; used in tests.
type Discard struct{}

func (Discard) Notify(Level, string) {}

// Throttled wraps a sink with a rate limiter so a misbehaving
// suggestion stream cannot flood the user with toasts. Dropped
// messages are logged (deduplicated) rather than delivered.
type Throttled struct {
	sink    Sink
	limiter *rate.Limiter
}

// NewThrottled allows ratePerSec notifications per second with the
// given burst.
func NewThrottled(sink Sink, ratePerSec float64, burst int) *Throttled {
	return &Throttled{
		sink:    sink,
		limiter: rate.NewLimiter(rate.Limit(ratePerSec), burst),
	}
}

func (t *Throttled) Notify(level Level, message string) {
	if !t.limiter.Allow() {
		logger.Dedup("notify: rate limited, dropping %s notification", level)
		return
	}
	t.sink.Notify(level, message)
}
