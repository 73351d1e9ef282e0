package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
)

// NewTestLogger builds a logger that writes through t.Log, matching
// go.viam.com/rdk/logging.NewTestLogger's role in the teacher's test suites.
func NewTestLogger(t *testing.T) *Logger {
	t.Helper()
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	z := zaptest.NewLogger(t, zaptest.Level(level))
	return &Logger{name: t.Name(), z: z.Sugar().Named(t.Name()), level: level}
}
