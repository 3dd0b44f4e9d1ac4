// Package dtslog wraps logrus behind a small interface so the type system
// never forces a logging backend on a host that hasn't configured one,
// mirroring the lock adapter's no-op-by-default posture.
package dtslog

import "github.com/sirupsen/logrus"

// Logger is the diagnostic-logging capability DTS consumes internally. It
// is used only for descriptor registration, re-parenting and deletion —
// never for control flow, and never at a fatal or panic site.
type Logger interface {
	Debugf(format string, args ...any)
	Warnf(format string, args ...any)
}

type noop struct{}

func (noop) Debugf(string, ...any) {}
func (noop) Warnf(string, ...any)  {}

// Noop discards everything. It is the default Logger for a TypeSystem
// constructed without WithLogger.
var Noop Logger = noop{}

type logrusLogger struct {
	entry *logrus.Entry
}

// NewLogrus adapts a *logrus.Logger (or the package-level default, when l
// is nil) to the Logger interface.
func NewLogrus(l *logrus.Logger) Logger {
	if l == nil {
		l = logrus.New()
	}
	return &logrusLogger{entry: logrus.NewEntry(l)}
}

func (l *logrusLogger) Debugf(format string, args ...any) { l.entry.Debugf(format, args...) }
func (l *logrusLogger) Warnf(format string, args ...any)  { l.entry.Warnf(format, args...) }
