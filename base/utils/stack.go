package utils

import (
	"runtime"
	"strconv"
	"strings"
)

// Stack returns a formatted stack trace of the calling goroutine, skipping the
// innermost skip frames.
func Stack(skip int) []byte {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(skip+1, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	var b strings.Builder
	for {
		f, more := frames.Next()
		b.WriteString(f.Function)
		b.WriteString("\n\t")
		b.WriteString(f.File)
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(f.Line))
		b.WriteByte('\n')
		if !more {
			break
		}
	}
	return []byte(b.String())
}
