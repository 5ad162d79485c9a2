package log

import (
	"context"
	"strings"
)

type Logger interface {
	Info(ctx context.Context, format string, args ...interface{})
	Alert(ctx context.Context, format string, args ...interface{})
	Error(ctx context.Context, format string, args ...interface{})
	Warn(ctx context.Context, format string, args ...interface{})
	Debug(ctx context.Context, format string, args ...interface{})
	Notice(ctx context.Context, format string, args ...interface{})
	Critical(ctx context.Context, format string, args ...interface{})
	Emergency(ctx context.Context, format string, args ...interface{})
}

// Level theo thứ tự syslog, số càng nhỏ càng nghiêm trọng
type Level int

const (
	LevelEmergency Level = iota
	LevelAlert
	LevelCritical
	LevelError
	LevelWarn
	LevelNotice
	LevelInfo
	LevelDebug
)

var levelNames = map[Level]string{
	LevelEmergency: "EMERGENCY",
	LevelAlert:     "ALERT",
	LevelCritical:  "CRITICAL",
	LevelError:     "ERROR",
	LevelWarn:      "WARN",
	LevelNotice:    "NOTICE",
	LevelInfo:      "INFO",
	LevelDebug:     "DEBUG",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseLevel nhận tên level không phân biệt hoa thường, mặc định là INFO
func ParseLevel(name string) Level {
	upper := strings.ToUpper(strings.TrimSpace(name))
	if upper == "WARNING" {
		return LevelWarn
	}
	for level, levelName := range levelNames {
		if levelName == upper {
			return level
		}
	}
	return LevelInfo
}

func NewLogger(logger Logger) (Logger, error) {
	return logger, nil
}
