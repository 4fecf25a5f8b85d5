package trace

import (
	"os"
	"path/filepath"
	"strings"
)

// Cleaner turns a raw stack into the frames worth showing. It may return
// an empty slice.
type Cleaner interface {
	Clean(frames []Frame) []Frame
}

// CleanerFunc adapts a function to Cleaner.
type CleanerFunc func([]Frame) []Frame

// Clean calls f.
func (f CleanerFunc) Clean(frames []Frame) []Frame { return f(frames) }

// BacktraceCleaner applies filters (rewrite a frame) then silencers (drop a
// frame) to a stack.
type BacktraceCleaner struct {
	filters   []func(Frame) Frame
	silencers []func(Frame) bool
}

// NewBacktraceCleaner returns a cleaner with no filters or silencers.
func NewBacktraceCleaner() *BacktraceCleaner {
	return &BacktraceCleaner{}
}

// internalPackages are never the interesting caller of a generated member.
var internalPackages = []string{
	"runtime.",
	"testing.",
	"reflect.",
	"github.com/aretw0/loamenum/pkg/trace.",
	"github.com/aretw0/loamenum/pkg/model.",
	"github.com/aretw0/loamenum/pkg/enum.",
}

// DefaultCleaner silences runtime, testing and this module's own member
// plumbing, and shortens file paths relative to the working directory.
func DefaultCleaner() *BacktraceCleaner {
	c := NewBacktraceCleaner()
	if wd, err := os.Getwd(); err == nil {
		c.AddFilter(TrimRoot(wd))
	}
	c.SilencePackages(internalPackages...)
	return c
}

// AddFilter registers a frame rewrite.
func (c *BacktraceCleaner) AddFilter(f func(Frame) Frame) {
	c.filters = append(c.filters, f)
}

// AddSilencer registers a predicate; frames it matches are dropped.
func (c *BacktraceCleaner) AddSilencer(f func(Frame) bool) {
	c.silencers = append(c.silencers, f)
}

// SilencePackages drops frames whose function name starts with any prefix.
func (c *BacktraceCleaner) SilencePackages(prefixes ...string) {
	ps := append([]string(nil), prefixes...)
	c.AddSilencer(func(f Frame) bool {
		for _, p := range ps {
			if strings.HasPrefix(f.Function, p) {
				return true
			}
		}
		return false
	})
}

// Clean implements Cleaner.
func (c *BacktraceCleaner) Clean(frames []Frame) []Frame {
	out := make([]Frame, 0, len(frames))
next:
	for _, f := range frames {
		for _, filter := range c.filters {
			f = filter(f)
		}
		for _, silence := range c.silencers {
			if silence(f) {
				continue next
			}
		}
		out = append(out, f)
	}
	return out
}

// TrimRoot returns a filter making files below root relative to it.
func TrimRoot(root string) func(Frame) Frame {
	prefix := filepath.ToSlash(filepath.Clean(root)) + "/"
	return func(f Frame) Frame {
		f.File = strings.TrimPrefix(filepath.ToSlash(f.File), prefix)
		return f
	}
}
