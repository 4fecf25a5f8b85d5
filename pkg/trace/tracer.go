// Package trace records who calls generated enum members.
//
// Every generated member and scope calls Tracer.Trace with a Label before
// doing its real work. CallSiteTracer resolves the caller from the current
// stack and logs it; MetricsTracer counts calls; Multi fans out to several.
package trace

import (
	"fmt"
	"sync"
)

// Kind identifies the family of a generated member.
type Kind string

const (
	KindScope            Kind = "Scope"
	KindFieldInquirer    Kind = "Field inquirer"
	KindFieldValueSetter Kind = "Field value setter"
	KindFieldGetter      Kind = "Field getter"
	KindFieldSetter      Kind = "Field setter"
	KindArrayInquirer    Kind = "Array inquirer"
	KindArrayValueSetter Kind = "Array value setter"
	KindArrayGetter      Kind = "Array getter"
	KindArraySetter      Kind = "Array setter"
)

// Label identifies one generated member invocation.
type Label struct {
	Kind      Kind
	Model     string
	Attribute string
	Field     string
	Member    string
}

// String renders the label as "Kind `Model#attribute(field).member`".
func (l Label) String() string {
	return fmt.Sprintf("%s `%s#%s(%s).%s`", l.Kind, l.Model, l.Attribute, l.Field, l.Member)
}

// Tracer receives a Label before a generated member runs.
// Implementations must not panic and must not block for long.
type Tracer interface {
	Trace(label Label)
}

// Func adapts a plain function to Tracer.
type Func func(Label)

// Trace calls f.
func (f Func) Trace(l Label) { f(l) }

// Nop discards every label.
var Nop Tracer = Func(func(Label) {})

type multi []Tracer

func (m multi) Trace(l Label) {
	for _, t := range m {
		Safe(t, l)
	}
}

// Safe calls t.Trace and swallows any panic it raises.
func Safe(t Tracer, l Label) {
	defer func() { _ = recover() }()
	t.Trace(l)
}

// Multi returns a Tracer that forwards to each non-nil tracer in order.
// A panicking tracer does not stop the ones after it.
func Multi(tracers ...Tracer) Tracer {
	out := make(multi, 0, len(tracers))
	for _, t := range tracers {
		if t != nil {
			out = append(out, t)
		}
	}
	return out
}

// Recorder keeps every label it sees. Safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	labels []Label
}

// Trace records l.
func (r *Recorder) Trace(l Label) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.labels = append(r.labels, l)
}

// Labels returns a copy of the recorded labels.
func (r *Recorder) Labels() []Label {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Label(nil), r.labels...)
}

// Last returns the most recent label.
func (r *Recorder) Last() (Label, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.labels) == 0 {
		return Label{}, false
	}
	return r.labels[len(r.labels)-1], true
}

// Reset forgets all recorded labels.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.labels = nil
}
