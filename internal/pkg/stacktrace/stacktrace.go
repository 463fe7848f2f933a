// Package stacktrace shortens call stacks to the frames that belong to this module.
package stacktrace

import (
	"runtime"
	"strconv"
	"strings"
)

const maxDepth = 64

// InternalFrames returns "internal/<pkg>/<file>.go:<line>" for every frame of
// the calling goroutine that lives under an internal/ directory. skip 0 starts
// at the caller of InternalFrames.
func InternalFrames(skip int) []string {
	pcs := make([]uintptr, maxDepth)
	n := runtime.Callers(skip+2, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	var out []string
	for {
		frame, more := frames.Next()
		// Standard library packages named internal/... have no slash before it.
		idx := strings.Index(frame.File, "/internal/")
		if idx != -1 && strings.Contains(frame.Function, "/internal/") {
			out = append(out, frame.File[idx+1:]+":"+strconv.Itoa(frame.Line))
		}
		if !more {
			break
		}
	}

	return out
}
