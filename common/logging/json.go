package logging

import (
	"io"

	"github.com/go-kit/log"
)

// NewJSONLogger creates a logger that writes JSON entries of every level
// directly to w, bypassing the global backend.
func NewJSONLogger(w io.Writer) *Logger {
	return &Logger{
		logger: log.NewJSONLogger(w),
		level:  newLevel(LevelDebug),
	}
}

// NewNopLogger creates a logger that discards everything.
func NewNopLogger() *Logger {
	return &Logger{
		logger: log.NewNopLogger(),
		level:  newLevel(LevelError),
	}
}
