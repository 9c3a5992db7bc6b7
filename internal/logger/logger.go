// Package logger is the process-wide printf-style logger.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Level is a logging threshold.
type Level int

const (
	TraceLevel Level = iota
	DebugLevel
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
	PanicLevel
)

var levelNames = map[Level]string{
	TraceLevel: "trace",
	DebugLevel: "debug",
	InfoLevel:  "info",
	WarnLevel:  "warn",
	ErrorLevel: "error",
	FatalLevel: "fatal",
	PanicLevel: "panic",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// slogLevel maps onto slog's scale; trace sits below debug, fatal/panic above error.
func (l Level) slogLevel() slog.Level {
	switch l {
	case TraceLevel:
		return slog.LevelDebug - 4
	case DebugLevel:
		return slog.LevelDebug
	case InfoLevel:
		return slog.LevelInfo
	case WarnLevel:
		return slog.LevelWarn
	case ErrorLevel:
		return slog.LevelError
	default:
		return slog.LevelError + 4
	}
}

// ParseLevel converts a level name to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return TraceLevel, nil
	case "debug":
		return DebugLevel, nil
	case "", "info":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	case "fatal":
		return FatalLevel, nil
	case "panic":
		return PanicLevel, nil
	}
	return InfoLevel, fmt.Errorf("invalid log level %q (want trace, debug, info, warn, error, fatal, panic)", s)
}

var (
	mu       sync.Mutex
	levelVar = new(slog.LevelVar)
	current  = InfoLevel
	rotating *lumberjack.Logger
	base     = newSlog(os.Stderr)
)

func newSlog(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: levelVar}))
}

// SetLevel sets the minimum level that is written.
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	current = l
	levelVar.Set(l.slogLevel())
}

// GetLevel returns the current threshold.
func GetLevel() Level {
	mu.Lock()
	defer mu.Unlock()
	return current
}

// SetOutput redirects log output to w.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	closeRotatingLocked()
	base = newSlog(w)
}

// SetFile writes logs to a size-rotated file at path in addition to stderr.
// An empty path restores stderr-only output.
func SetFile(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		SetOutput(os.Stderr)
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()
	closeRotatingLocked()
	rotating = &lumberjack.Logger{
		Filename:   path,
		MaxSize:    5, // megabytes
		MaxBackups: 3,
		MaxAge:     30,
	}
	base = newSlog(io.MultiWriter(os.Stderr, rotating))
	return nil
}

// Close flushes and closes the rotating log file, if any.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	return closeRotatingLocked()
}

func closeRotatingLocked() error {
	if rotating == nil {
		return nil
	}
	err := rotating.Close()
	rotating = nil
	return err
}

func logf(l Level, format string, args ...any) {
	mu.Lock()
	lg := base
	mu.Unlock()

	ctx := context.Background()
	lvl := l.slogLevel()
	if !lg.Enabled(ctx, lvl) {
		return
	}
	lg.Log(ctx, lvl, fmt.Sprintf(format, args...))
}

func Trace(format string, args ...any) { logf(TraceLevel, format, args...) }
func Debug(format string, args ...any) { logf(DebugLevel, format, args...) }
func Info(format string, args ...any)  { logf(InfoLevel, format, args...) }
func Warn(format string, args ...any)  { logf(WarnLevel, format, args...) }
func Error(format string, args ...any) { logf(ErrorLevel, format, args...) }
