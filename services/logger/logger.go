package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Level định nghĩa các mức độ log
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// ParseLevel chuyển chuỗi cấu hình sang Level, mặc định InfoLevel
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// Logger interface định nghĩa các phương thức logging
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
	Debug(format string, v ...interface{})
	WithField(key string, value interface{}) Logger
}

// LogrusLogger implement Logger interface bằng logrus
type LogrusLogger struct {
	entry *logrus.Entry
}

// NewLogrusLogger tạo logger; json=true dùng cho môi trường prod
func NewLogrusLogger(level Level, json bool) *LogrusLogger {
	return NewLogrusLoggerTo(os.Stdout, level, json)
}

func NewLogrusLoggerTo(out io.Writer, level Level, json bool) *LogrusLogger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(toLogrus(level))
	if json {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return &LogrusLogger{entry: logrus.NewEntry(l)}
}

// Logrus trả về logger gốc, dùng cho middleware log request
func (l *LogrusLogger) Logrus() *logrus.Entry {
	return l.entry
}

func (l *LogrusLogger) Info(format string, v ...interface{}) {
	l.entry.Infof(format, v...)
}

func (l *LogrusLogger) Warn(format string, v ...interface{}) {
	l.entry.Warnf(format, v...)
}

func (l *LogrusLogger) Error(format string, v ...interface{}) {
	l.entry.Errorf(format, v...)
}

func (l *LogrusLogger) Debug(format string, v ...interface{}) {
	l.entry.Debugf(format, v...)
}

func (l *LogrusLogger) WithField(key string, value interface{}) Logger {
	return &LogrusLogger{entry: l.entry.WithField(key, value)}
}

func toLogrus(level Level) logrus.Level {
	switch level {
	case DebugLevel:
		return logrus.DebugLevel
	case WarnLevel:
		return logrus.WarnLevel
	case ErrorLevel:
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// Nop logger bỏ qua mọi log, dùng trong test
type Nop struct{}

func (Nop) Info(string, ...interface{})            {}
func (Nop) Warn(string, ...interface{})            {}
func (Nop) Error(string, ...interface{})           {}
func (Nop) Debug(string, ...interface{})           {}
func (n Nop) WithField(string, interface{}) Logger { return n }
