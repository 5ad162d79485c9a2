package log

import (
	"context"
	"io"
	"log"
	"os"
)

type CslLogger struct {
	out      *log.Logger
	minLevel Level
}

type CslOption func(*CslLogger)

func WithLevel(level Level) CslOption {
	return func(l *CslLogger) {
		l.minLevel = level
	}
}

func WithWriter(w io.Writer) CslOption {
	return func(l *CslLogger) {
		l.out = log.New(w, "", log.LstdFlags)
	}
}

func NewCslLogger(opts ...CslOption) (*CslLogger, error) {
	l := &CslLogger{
		out:      log.New(os.Stderr, "", log.LstdFlags),
		minLevel: LevelInfo,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

func (l *CslLogger) print(level Level, format string, args ...interface{}) {
	if level > l.minLevel {
		return
	}
	l.out.Printf("["+level.String()+"] "+format, args...)
}

func (l *CslLogger) Info(ctx context.Context, format string, args ...interface{}) {
	l.print(LevelInfo, format, args...)
}

func (l *CslLogger) Alert(ctx context.Context, format string, args ...interface{}) {
	l.print(LevelAlert, format, args...)
}

func (l *CslLogger) Error(ctx context.Context, format string, args ...interface{}) {
	l.print(LevelError, format, args...)
}

func (l *CslLogger) Warn(ctx context.Context, format string, args ...interface{}) {
	l.print(LevelWarn, format, args...)
}

func (l *CslLogger) Debug(ctx context.Context, format string, args ...interface{}) {
	l.print(LevelDebug, format, args...)
}

func (l *CslLogger) Critical(ctx context.Context, format string, args ...interface{}) {
	l.print(LevelCritical, format, args...)
}

func (l *CslLogger) Emergency(ctx context.Context, format string, args ...interface{}) {
	l.print(LevelEmergency, format, args...)
}

func (l *CslLogger) Notice(ctx context.Context, format string, args ...interface{}) {
	l.print(LevelNotice, format, args...)
}
