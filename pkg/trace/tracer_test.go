package trace_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/loamenum/pkg/trace"
)

var label = trace.Label{
	Kind:      trace.KindFieldInquirer,
	Model:     "Post",
	Attribute: "status",
	Field:     "_status",
	Member:    "published?",
}

func newLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{
		Level:       slog.LevelError,
		ReplaceAttr: trace.ReplaceLevel,
	}))
}

func TestLabel_String(t *testing.T) {
	assert.Equal(t, "Field inquirer `Post#status(_status).published?`", label.String())
}

func TestCallSiteTracer_LogsCaller(t *testing.T) {
	var buf bytes.Buffer
	tracer := trace.New(newLogger(&buf))

	tracer.Trace(label)

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, trace.Message), "exactly one record")
	assert.Contains(t, out, "level=FATAL")
	assert.Contains(t, out, "Post#status(_status).published?")
	// The test function itself is the first frame outside silenced packages.
	assert.Contains(t, out, "TestCallSiteTracer_LogsCaller")
}

func TestCallSiteTracer_FallsBackToRawFrame(t *testing.T) {
	var buf bytes.Buffer
	silenceAll := trace.CleanerFunc(func([]trace.Frame) []trace.Frame { return nil })
	tracer := trace.New(newLogger(&buf),
		trace.WithCleaner(silenceAll),
		trace.WithCapture(func() []trace.Frame {
			return []trace.Frame{{Function: "main.handler", File: "main.go", Line: 42}}
		}),
	)

	tracer.Trace(label)

	assert.Contains(t, buf.String(), "main.go:42 in main.handler")
}

func TestCallSiteTracer_NeverPanics(t *testing.T) {
	var buf bytes.Buffer
	tracer := trace.New(newLogger(&buf),
		trace.WithCapture(func() []trace.Frame { panic("stack unavailable") }),
	)

	require.NotPanics(t, func() { tracer.Trace(label) })
	assert.Contains(t, buf.String(), "unknown (stack unavailable)")
}

func TestCallSiteTracer_EmptyStack(t *testing.T) {
	var buf bytes.Buffer
	tracer := trace.New(newLogger(&buf),
		trace.WithCapture(func() []trace.Frame { return nil }),
	)

	tracer.Trace(label)
	assert.Contains(t, buf.String(), "caller=unknown")
}

func TestBacktraceCleaner(t *testing.T) {
	c := trace.NewBacktraceCleaner()
	c.AddFilter(trace.TrimRoot("/src/app"))
	c.SilencePackages("runtime.", "github.com/aretw0/loamenum/pkg/enum.")

	frames := []trace.Frame{
		{Function: "github.com/aretw0/loamenum/pkg/enum.(*Enum).Is", File: "/go/pkg/enum/accessor.go", Line: 10},
		{Function: "main.publish", File: "/src/app/main.go", Line: 7},
		{Function: "runtime.main", File: "/usr/lib/go/src/runtime/proc.go", Line: 250},
	}

	cleaned := c.Clean(frames)
	require.Len(t, cleaned, 1)
	assert.Equal(t, "main.go:7 in main.publish", cleaned[0].String())
}

func TestCaptureCallStack(t *testing.T) {
	frames := trace.CaptureCallStack(0)
	require.NotEmpty(t, frames)
	assert.True(t, strings.HasSuffix(frames[0].Function, "TestCaptureCallStack"), frames[0].Function)
}

func TestMultiAndRecorder(t *testing.T) {
	var a, b trace.Recorder
	tracer := trace.Multi(&a, nil, &b)

	tracer.Trace(label)
	tracer.Trace(trace.Label{Kind: trace.KindScope, Model: "Post", Member: "draft"})

	assert.Len(t, a.Labels(), 2)
	last, ok := b.Last()
	require.True(t, ok)
	assert.Equal(t, trace.KindScope, last.Kind)

	a.Reset()
	_, ok = a.Last()
	assert.False(t, ok)
}

func TestMetricsTracer(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := trace.NewMetricsTracer(reg, "")
	require.NoError(t, err)

	m.Trace(label)
	m.Trace(label)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Collector().WithLabelValues("Post", "status", string(trace.KindFieldInquirer))))

	// A second tracer on the same registry shares the counter.
	again, err := trace.NewMetricsTracer(reg, "")
	require.NoError(t, err)
	again.Trace(label)
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Collector().WithLabelValues("Post", "status", string(trace.KindFieldInquirer))))
}

func TestMetricsTracer_InvalidLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := trace.NewMetricsTracer(reg, "")
	require.NoError(t, err)

	bad := label
	bad.Attribute = "st\xffatus"
	assert.NotPanics(t, func() { m.Trace(bad) })
	assert.Equal(t, 0, testutil.CollectAndCount(m.Collector()))

	m.Trace(label)
	assert.Equal(t, 1, testutil.CollectAndCount(m.Collector()))
}

func TestMulti_RecoversPerTracer(t *testing.T) {
	rec := &trace.Recorder{}
	tr := trace.Multi(
		trace.Func(func(trace.Label) { panic("boom") }),
		nil,
		rec,
	)

	assert.NotPanics(t, func() { tr.Trace(label) })
	got, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, label, got)
}

func TestReplaceLevel(t *testing.T) {
	a := trace.ReplaceLevel(nil, slog.Any(slog.LevelKey, slog.LevelError))
	assert.Equal(t, "ERROR", a.Value.String())

	a = trace.ReplaceLevel(nil, slog.Any(slog.LevelKey, trace.LevelFatal))
	assert.Equal(t, "FATAL", a.Value.String())
}
