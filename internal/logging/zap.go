// Package logging adapts zap to the narrow Logger contract the service and
// handlers depend on.
package logging

import "go.uber.org/zap"

// ZapLogger wraps a sugared zap logger. Args are alternating key/value
// pairs, zap's Infow convention.
type ZapLogger struct {
	s *zap.SugaredLogger
}

// NewZap wraps the supplied zap logger.
func NewZap(l *zap.Logger) *ZapLogger {
	return &ZapLogger{s: l.Sugar()}
}

func (z *ZapLogger) Debug(msg string, args ...any) { z.s.Debugw(msg, args...) }
func (z *ZapLogger) Info(msg string, args ...any)  { z.s.Infow(msg, args...) }
func (z *ZapLogger) Warn(msg string, args ...any)  { z.s.Warnw(msg, args...) }
func (z *ZapLogger) Error(msg string, args ...any) { z.s.Errorw(msg, args...) }
