package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiCyan   = "\033[36m"
)

// LogLevel defines the severity of the log
type LogLevel int

const (
	LogLevelSilent LogLevel = iota
	LogLevelError
	LogLevelWarn
	LogLevelInfo
)

// LogFormat defines the output format of the log
type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

// Logger is the interface for logging statement executions and connection events
type Logger interface {
	SetLevel(level LogLevel)
	SetFormat(format LogFormat)
	SetOutput(w io.Writer)
	// SetLevelOutput copies every entry of the given level to w,
	// in addition to the main output.
	SetLevelOutput(level LogLevel, w io.Writer)
	WithFields(fields map[string]any) Logger
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
	SQL(sql string, duration time.Duration, args ...any)
}

// baseLogger contains common logging functionality
type baseLogger struct {
	mu           *sync.Mutex
	level        LogLevel
	format       LogFormat
	writer       io.Writer
	levelWriters map[LogLevel]io.Writer
	fields       map[string]any
}

func (l *baseLogger) SetLevel(level LogLevel) {
	l.level = level
}

func (l *baseLogger) SetFormat(format LogFormat) {
	l.format = format
}

func (l *baseLogger) SetOutput(w io.Writer) {
	l.writer = w
}

func (l *baseLogger) SetLevelOutput(level LogLevel, w io.Writer) {
	if w == nil {
		delete(l.levelWriters, level)
		return
	}
	l.levelWriters[level] = w
}

func (l *baseLogger) clone() *baseLogger {
	newFields := make(map[string]any, len(l.fields))
	for k, v := range l.fields {
		newFields[k] = v
	}
	newWriters := make(map[LogLevel]io.Writer, len(l.levelWriters))
	for k, v := range l.levelWriters {
		newWriters[k] = v
	}
	return &baseLogger{
		mu:           l.mu,
		level:        l.level,
		format:       l.format,
		writer:       l.writer,
		levelWriters: newWriters,
		fields:       newFields,
	}
}

// stdLogger is the default implementation of Logger
type stdLogger struct {
	baseLogger
}

// NewStdLogger creates a new standard logger writing text entries to stdout
func NewStdLogger() Logger {
	return &stdLogger{
		baseLogger: baseLogger{
			mu:           &sync.Mutex{},
			level:        LogLevelInfo,
			format:       LogFormatText,
			writer:       os.Stdout,
			levelWriters: make(map[LogLevel]io.Writer),
			fields:       make(map[string]any),
		},
	}
}

// Discard returns a logger that drops every entry.
func Discard() Logger {
	l := NewStdLogger()
	l.SetLevel(LogLevelSilent)
	l.SetOutput(nil)
	return l
}

func (l *stdLogger) WithFields(fields map[string]any) Logger {
	newLogger := &stdLogger{
		baseLogger: *l.clone(),
	}
	for k, v := range fields {
		newLogger.fields[k] = v
	}
	return newLogger
}

func (l *stdLogger) Info(format string, args ...any) {
	if l.level >= LogLevelInfo {
		l.log(LogLevelInfo, "INFO", format, args...)
	}
}

func (l *stdLogger) Warn(format string, args ...any) {
	if l.level >= LogLevelWarn {
		l.log(LogLevelWarn, "WARN", format, args...)
	}
}

func (l *stdLogger) Error(format string, args ...any) {
	if l.level >= LogLevelError {
		l.log(LogLevelError, "ERROR", format, args...)
	}
}

func (l *stdLogger) SQL(sql string, duration time.Duration, args ...any) {
	if l.level < LogLevelInfo {
		return
	}
	if l.format == LogFormatJSON {
		l.log(LogLevelInfo, "SQL", "", "sql", sql, "duration", duration.String(), "args", args)
		return
	}
	msg := fmt.Sprintf("[%v] %s | args: %v", duration, sql, args)
	l.log(LogLevelInfo, "SQL", "%s", getSQLColor(sql)+msg+ansiReset)
}

func (l *stdLogger) log(level LogLevel, label string, format string, args ...any) {
	var line []byte
	now := time.Now()
	if l.format == LogFormatJSON {
		data := make(map[string]any, len(l.fields)+3)
		for k, v := range l.fields {
			data[k] = v
		}
		data["time"] = now.Format(time.RFC3339)
		data["level"] = label
		if format != "" {
			if len(args) > 0 {
				data["msg"] = fmt.Sprintf(format, args...)
			} else {
				data["msg"] = format
			}
		} else {
			// structured key/value pairs, as passed by SQL
			for i := 0; i+1 < len(args); i += 2 {
				if key, ok := args[i].(string); ok {
					data[key] = args[i+1]
				}
			}
		}
		encoded, err := json.Marshal(data)
		if err != nil {
			return
		}
		line = append(encoded, '\n')
	} else {
		msg := ""
		if format != "" {
			msg = fmt.Sprintf(format, args...)
		}
		fieldStr := ""
		if len(l.fields) > 0 {
			fieldStr = fmt.Sprintf(" fields: %v", l.fields)
		}
		line = []byte(fmt.Sprintf("[JLITE] %s %s: %s%s\n", now.Format("2006-01-02 15:04:05"), label, msg, fieldStr))
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.writer != nil {
		l.writer.Write(line)
	}
	if w, ok := l.levelWriters[level]; ok {
		w.Write(line)
	}
}

func getSQLColor(sqlStr string) string {
	s := strings.TrimSpace(strings.ToUpper(sqlStr))
	switch {
	case strings.HasPrefix(s, "SELECT"):
		return ansiYellow
	case strings.HasPrefix(s, "INSERT"), strings.HasPrefix(s, "UPDATE"):
		return ansiGreen
	case strings.HasPrefix(s, "DELETE"), strings.HasPrefix(s, "DROP"):
		return ansiRed
	default:
		return ansiCyan
	}
}
