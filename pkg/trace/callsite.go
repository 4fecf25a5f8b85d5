package trace

import (
	"context"
	"fmt"
	"log/slog"
)

// Message is the log message of every call-site record.
const Message = "ENUM_TRACER"

const unknownCaller = "unknown"

// CallSiteTracer logs the caller of each generated member at LevelFatal.
type CallSiteTracer struct {
	logger  *slog.Logger
	cleaner Cleaner
	capture func() []Frame
}

// Option configures a CallSiteTracer.
type Option func(*CallSiteTracer)

// WithCleaner replaces DefaultCleaner.
func WithCleaner(c Cleaner) Option {
	return func(t *CallSiteTracer) {
		t.cleaner = c
	}
}

// WithCapture replaces stack capture. Mostly useful in tests.
func WithCapture(capture func() []Frame) Option {
	return func(t *CallSiteTracer) {
		t.capture = capture
	}
}

// New creates a CallSiteTracer. A nil logger falls back to slog.Default().
func New(logger *slog.Logger, opts ...Option) *CallSiteTracer {
	if logger == nil {
		logger = slog.Default()
	}
	t := &CallSiteTracer{
		logger:  logger,
		cleaner: DefaultCleaner(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.capture == nil {
		// Skip this closure, caller and Trace.
		t.capture = func() []Frame { return CaptureCallStack(3) }
	}
	return t
}

// Trace implements Tracer. It always emits exactly one record; failures
// while resolving the caller degrade the caller string instead of panicking.
func (t *CallSiteTracer) Trace(l Label) {
	t.emit(l, t.caller())
}

func (t *CallSiteTracer) caller() (desc string) {
	defer func() {
		if r := recover(); r != nil {
			desc = fmt.Sprintf("%s (%v)", unknownCaller, r)
		}
	}()

	frames := t.capture()
	if cleaned := t.cleaner.Clean(frames); len(cleaned) > 0 {
		return cleaned[0].String()
	}
	if len(frames) > 0 {
		return frames[0].String()
	}
	return unknownCaller
}

func (t *CallSiteTracer) emit(l Label, caller string) {
	defer func() {
		_ = recover()
	}()
	t.logger.Log(context.Background(), LevelFatal, Message,
		slog.String("label", l.String()),
		slog.String("caller", caller),
	)
}
