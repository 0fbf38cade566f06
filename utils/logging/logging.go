// Copyright Renderd Contributors
// SPDX-License-Identifier: Apache-2.0

// Package logging provides named, structured loggers for all renderd
// components. Log level is controlled by the RENDERD_LOG_LEVEL
// environment variable (debug, info, warn, error; default info).
package logging

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const levelEnvVar = "RENDERD_LOG_LEVEL"

var (
	baseOnce sync.Once
	baseLog  *zap.Logger
)

// NamedLogger is a leveled, key-value logger scoped to a component name.
type NamedLogger struct {
	s *zap.SugaredLogger
}

// Logger returns the logger for the given component name, e.g.
// logging.Logger("store/oci").
func Logger(name string) *NamedLogger {
	return &NamedLogger{s: base().Named(name).Sugar()}
}

func base() *zap.Logger {
	baseOnce.Do(func() {
		level := zapcore.InfoLevel
		if v := os.Getenv(levelEnvVar); v != "" {
			if parsed, err := zapcore.ParseLevel(strings.ToLower(v)); err == nil {
				level = parsed
			}
		}

		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(level)
		cfg.DisableStacktrace = true

		logger, err := cfg.Build()
		if err != nil {
			logger = zap.NewNop()
		}

		baseLog = logger
	})

	return baseLog
}

func (l *NamedLogger) Debug(msg string, keysAndValues ...any) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l *NamedLogger) Info(msg string, keysAndValues ...any) {
	l.s.Infow(msg, keysAndValues...)
}

func (l *NamedLogger) Warn(msg string, keysAndValues ...any) {
	l.s.Warnw(msg, keysAndValues...)
}

func (l *NamedLogger) Error(msg string, keysAndValues ...any) {
	l.s.Errorw(msg, keysAndValues...)
}

// With returns a logger with the given key-value pairs attached to
// every entry.
func (l *NamedLogger) With(keysAndValues ...any) *NamedLogger {
	return &NamedLogger{s: l.s.With(keysAndValues...)}
}
