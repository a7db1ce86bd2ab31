// Package logging configures the process-wide logr logger backed by zap.
package logging

import (
	"fmt"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	ctrl "sigs.k8s.io/controller-runtime"
)

// Verbosity levels for logger.V(). zapr maps V(n) to zap level -n.
const (
	INFO  = 0
	DEBUG = 1
	TRACE = 2
)

// Level names accepted by ParseLevel.
const (
	LevelError = "error"
	LevelInfo  = "info"
	LevelDebug = "debug"
	LevelTrace = "trace"
)

// ParseLevel converts a level name into a zap level.
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case LevelError:
		return zapcore.ErrorLevel, nil
	case LevelInfo, "":
		return zapcore.Level(-INFO), nil
	case LevelDebug:
		return zapcore.Level(-DEBUG), nil
	case LevelTrace:
		return zapcore.Level(-TRACE), nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
}

// NewLogger builds a logr.Logger at the given level. Development mode uses
// the console encoder; otherwise JSON.
func NewLogger(level string, development bool) (logr.Logger, error) {
	zapLevel, err := ParseLevel(level)
	if err != nil {
		return logr.Discard(), err
	}

	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)

	zl, err := cfg.Build()
	if err != nil {
		return logr.Discard(), fmt.Errorf("building zap logger: %w", err)
	}
	return zapr.NewLogger(zl), nil
}

// Setup builds a logger and installs it as the controller-runtime global logger.
func Setup(level string, development bool) (logr.Logger, error) {
	logger, err := NewLogger(level, development)
	if err != nil {
		return logger, err
	}
	ctrl.SetLogger(logger)
	return logger, nil
}

// NewTestLogger installs a development logger at trace level for test suites.
func NewTestLogger() logr.Logger {
	logger, err := Setup(LevelTrace, true)
	if err != nil {
		logger = logr.Discard()
		ctrl.SetLogger(logger)
	}
	return logger
}
