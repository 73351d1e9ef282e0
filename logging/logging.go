// Package logging provides the structured logger used by every real-time task and core
// component. It mirrors go.viam.com/rdk/logging's Level/Logger idiom: a small leveled wrapper
// around zap, with named sub-loggers ("traj", "servo.N", ...) that share their root's level. The
// DEBUG command (SPEC_FULL.md §4) sets that shared level: any non-zero mask selects DEBUG and zero
// selects INFO; mask bits are not mapped onto individual sub-logger names.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level is a logging severity, serializable to/from JSON as its lowercase name.
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

func (l Level) String() string {
	switch l {
	case DEBUG:
		return "debug"
	case INFO:
		return "info"
	case WARN:
		return "warn"
	case ERROR:
		return "error"
	default:
		return "unknown"
	}
}

// LevelFromString parses a level name, accepting "warning" as an alias for WARN.
func LevelFromString(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DEBUG, nil
	case "info":
		return INFO, nil
	case "warn", "warning":
		return WARN, nil
	case "error":
		return ERROR, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}

// MarshalJSON implements json.Marshaler.
func (l Level) MarshalJSON() ([]byte, error) {
	return []byte(`"` + l.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *Level) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("logging.Level: invalid JSON %q", s)
	}
	parsed, err := LevelFromString(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

func (l Level) zapLevel() zapcore.Level {
	switch l {
	case DEBUG:
		return zapcore.DebugLevel
	case INFO:
		return zapcore.InfoLevel
	case WARN:
		return zapcore.WarnLevel
	case ERROR:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Logger is the structured logger handed to every real-time task and core component. Named
// children share their root's zap.AtomicLevel, mirroring the teacher's logging.Registry (which
// keeps one mutable level per subsystem name) without the full pattern-matching registry.
type Logger struct {
	name  string
	z     *zap.SugaredLogger
	level zap.AtomicLevel
}

// NewLogger builds a production logger named for a subsystem ("traj", "servo.0", "queue", ...),
// defaulting to INFO.
func NewLogger(name string) *Logger {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	z, err := cfg.Build()
	if err != nil {
		z = zap.NewNop()
		cfg.Level = zap.NewAtomicLevel()
	}
	return &Logger{name: name, z: z.Sugar().Named(name), level: cfg.Level}
}

// Named returns a child logger, mirroring zap's namespacing and the teacher's per-subsystem
// logger tree (one child per servo joint, one for the queue, one for kinematics). The child
// shares its parent's level, so SetLevel on either one is visible through both.
func (l *Logger) Named(name string) *Logger {
	return &Logger{name: l.name + "." + name, z: l.z.Named(name), level: l.level}
}

// SetLevel adjusts the minimum emitted level, used by the DEBUG command's mask-to-logger mapping.
// It mutates the shared zap.AtomicLevel in place, so it takes effect on the very next log call.
func (l *Logger) SetLevel(level Level) {
	l.level.SetLevel(level.zapLevel())
}

// GetLevel returns the logger's current minimum emitted level.
func (l *Logger) GetLevel() Level {
	switch l.level.Level() {
	case zapcore.DebugLevel:
		return DEBUG
	case zapcore.WarnLevel:
		return WARN
	case zapcore.ErrorLevel:
		return ERROR
	default:
		return INFO
	}
}

func (l *Logger) Debugf(template string, args ...interface{}) { l.z.Debugf(template, args...) }
func (l *Logger) Infof(template string, args ...interface{})  { l.z.Infof(template, args...) }
func (l *Logger) Warnf(template string, args ...interface{})  { l.z.Warnf(template, args...) }
func (l *Logger) Errorf(template string, args ...interface{}) { l.z.Errorf(template, args...) }

func (l *Logger) Debugw(msg string, kv ...interface{}) { l.z.Debugw(msg, kv...) }
func (l *Logger) Infow(msg string, kv ...interface{})  { l.z.Infow(msg, kv...) }
func (l *Logger) Warnw(msg string, kv ...interface{})  { l.z.Warnw(msg, kv...) }
func (l *Logger) Errorw(msg string, kv ...interface{}) { l.z.Errorw(msg, kv...) }

func (l *Logger) Name() string { return l.name }
