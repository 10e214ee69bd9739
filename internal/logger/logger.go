// Package logger provides the leveled, structured logger used across
// pgkeeper: a log/slog logger with a JSON-or-text handler factory and a
// package-level severity threshold.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Severity covers five levels: TRACE, DEBUG, INFO, WARNING, ERROR. slog
// only ships four levels, so TRACE is modeled as a level below
// slog.LevelDebug.
const (
	LevelTrace   = slog.Level(-8)
	LevelDebug   = slog.LevelDebug
	LevelInfo    = slog.LevelInfo
	LevelWarning = slog.LevelWarn
	LevelError   = slog.LevelError
)

var severityNames = map[slog.Level]string{
	LevelTrace:   "TRACE",
	LevelDebug:   "DEBUG",
	LevelInfo:    "INFO",
	LevelWarning: "WARNING",
	LevelError:   "ERROR",
}

func ParseSeverity(s string) (slog.Level, error) {
	for lvl, name := range severityNames {
		if name == s {
			return lvl, nil
		}
	}
	return 0, fmt.Errorf("logger: unknown severity %q", s)
}

type handlerFactory struct{}

var defaultLoggerFactory handlerFactory

// createHandler builds a slog.Handler that writes either JSON or
// "time=... severity=... message=..." text lines, prefixing every
// message with prefix (every caller in this package passes "").
func (handlerFactory) createHandler(w io.Writer, lvl *slog.LevelVar, prefix string, jsonFormat bool) slog.Handler {
	opts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			switch a.Key {
			case slog.LevelKey:
				level, _ := a.Value.Any().(slog.Level)
				name, ok := severityNames[level]
				if !ok {
					name = level.String()
				}
				return slog.String("severity", name)
			case slog.MessageKey:
				return slog.String("message", prefix+a.Value.String())
			case slog.TimeKey:
				if jsonFormat {
					return a
				}
				return slog.String("time", a.Value.Time().Format("2006/01/02 15:04:05.000000"))
			}
			return a
		},
	}
	if jsonFormat {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

var (
	programLevel  = new(slog.LevelVar)
	defaultLogger = slog.New(defaultLoggerFactory.createHandler(os.Stdout, programLevel, "", false))
)

// Init (re)configures the package-level logger. format is "json" or
// "text"; severity is one of the Level constants above.
func Init(w io.Writer, format string, severity slog.Level) {
	programLevel.Set(severity)
	defaultLogger = slog.New(defaultLoggerFactory.createHandler(w, programLevel, "", format == "json"))
}

func SetSeverity(lvl slog.Level) { programLevel.Set(lvl) }

func Tracef(format string, v ...any)   { logf(context.Background(), LevelTrace, format, v...) }
func Debugf(format string, v ...any)   { logf(context.Background(), LevelDebug, format, v...) }
func Infof(format string, v ...any)    { logf(context.Background(), LevelInfo, format, v...) }
func Warnf(format string, v ...any)    { logf(context.Background(), LevelWarning, format, v...) }
func Errorf(format string, v ...any)   { logf(context.Background(), LevelError, format, v...) }

func logf(ctx context.Context, lvl slog.Level, format string, v ...any) {
	if !defaultLogger.Enabled(ctx, lvl) {
		return
	}
	defaultLogger.Log(ctx, lvl, fmt.Sprintf(format, v...))
}
