package trace

import (
	"fmt"
	"runtime"
)

const maxFrames = 64

// Frame is one entry of a captured call stack.
type Frame struct {
	Function string
	File     string
	Line     int
}

func (f Frame) String() string {
	if f.Function == "" {
		return fmt.Sprintf("%s:%d", f.File, f.Line)
	}
	return fmt.Sprintf("%s:%d in %s", f.File, f.Line, f.Function)
}

// CaptureCallStack returns the stack of the calling goroutine, innermost first.
// skip=0 starts at the caller of CaptureCallStack.
func CaptureCallStack(skip int) []Frame {
	pcs := make([]uintptr, maxFrames)
	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return nil
	}

	frames := make([]Frame, 0, n)
	iter := runtime.CallersFrames(pcs[:n])
	for {
		fr, more := iter.Next()
		frames = append(frames, Frame{Function: fr.Function, File: fr.File, Line: fr.Line})
		if !more {
			break
		}
	}
	return frames
}
