package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Config selects how the process logger writes. Empty fields keep the
// current setting, so a partial Config is safe to apply.
type Config struct {
	Level  string // DEBUG, INFO, WARN or ERROR
	Format string // text or json
	Output string // stdout, stderr or a file path
}

// minLevel is shared by every handler ever built, so SetLevel takes
// effect without rebuilding anything. The zero LevelVar is LevelInfo.
var minLevel = new(slog.LevelVar)

// out is the destination state guarded by mu; root is rebuilt whenever
// it changes.
var (
	mu  sync.RWMutex
	out = struct {
		w      io.Writer
		color  bool
		format string
	}{w: os.Stdout, color: isTerminal(os.Stdout.Fd()), format: "text"}
	root *slog.Logger
)

func init() {
	mu.Lock()
	rebuild()
	mu.Unlock()
}

// rebuild replaces root with a handler for the current destination and
// format. Callers hold mu.
func rebuild() {
	opts := &slog.HandlerOptions{Level: minLevel}
	if out.format == "json" {
		root = slog.New(slog.NewJSONHandler(out.w, opts))
		return
	}
	root = slog.New(newTextHandler(out.w, opts, out.color))
}

// Init applies cfg to the process logger.
func Init(cfg Config) error {
	mu.Lock()
	if cfg.Output != "" {
		w, color, err := openOutput(cfg.Output)
		if err != nil {
			mu.Unlock()
			return err
		}
		out.w, out.color = w, color
	}
	if f := strings.ToLower(cfg.Format); f == "text" || f == "json" {
		out.format = f
	}
	rebuild()
	mu.Unlock()

	SetLevel(cfg.Level)
	return nil
}

// InitWithWriter redirects logging to w, for tests that capture output.
func InitWithWriter(w io.Writer, level, format string, enableColor bool) {
	mu.Lock()
	out.w, out.color = w, enableColor
	if f := strings.ToLower(format); f == "text" || f == "json" {
		out.format = f
	}
	rebuild()
	mu.Unlock()

	SetLevel(level)
}

// openOutput resolves a destination name. Anything that is not stdout or
// stderr is opened for append as a file path; files never get color.
func openOutput(dest string) (io.Writer, bool, error) {
	switch strings.ToLower(dest) {
	case "", "stdout":
		return os.Stdout, isTerminal(os.Stdout.Fd()), nil
	case "stderr":
		return os.Stderr, isTerminal(os.Stderr.Fd()), nil
	}

	f, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, false, fmt.Errorf("failed to open log file %q: %w", dest, err)
	}
	return f, false, nil
}

// SetLevel changes the minimum severity. Unknown names are ignored so a
// typo cannot silence the log.
func SetLevel(name string) {
	if l, ok := parseLevel(name); ok {
		minLevel.Set(l)
	}
}

// SetFormat switches between text and json lines. Unknown names are ignored.
func SetFormat(name string) {
	f := strings.ToLower(name)
	if f != "text" && f != "json" {
		return
	}
	mu.Lock()
	out.format = f
	rebuild()
	mu.Unlock()
}

// parseLevel maps a config level name to its slog.Level.
func parseLevel(name string) (slog.Level, bool) {
	switch strings.ToUpper(name) {
	case "DEBUG":
		return slog.LevelDebug, true
	case "INFO":
		return slog.LevelInfo, true
	case "WARN":
		return slog.LevelWarn, true
	case "ERROR":
		return slog.LevelError, true
	}
	return 0, false
}

func current() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return root
}

// Debug logs msg with alternating key-value args at debug level.
func Debug(msg string, args ...any) { current().Debug(msg, args...) }

// Info logs msg with alternating key-value args at info level.
func Info(msg string, args ...any) { current().Info(msg, args...) }

// Warn logs msg with alternating key-value args at warn level.
func Warn(msg string, args ...any) { current().Warn(msg, args...) }

// Error logs msg with alternating key-value args at error level.
func Error(msg string, args ...any) { current().Error(msg, args...) }

// The Ctx variants prepend the request fields carried by any LogContext
// in ctx, so handlers log trace and user identity without repeating it.
// The Enabled check keeps disabled levels allocation-free.

func DebugCtx(ctx context.Context, msg string, args ...any) {
	if l := current(); l.Enabled(ctx, slog.LevelDebug) {
		l.Debug(msg, contextArgs(ctx, args)...)
	}
}

func InfoCtx(ctx context.Context, msg string, args ...any) {
	if l := current(); l.Enabled(ctx, slog.LevelInfo) {
		l.Info(msg, contextArgs(ctx, args)...)
	}
}

func WarnCtx(ctx context.Context, msg string, args ...any) {
	if l := current(); l.Enabled(ctx, slog.LevelWarn) {
		l.Warn(msg, contextArgs(ctx, args)...)
	}
}

func ErrorCtx(ctx context.Context, msg string, args ...any) {
	current().Error(msg, contextArgs(ctx, args)...)
}

// contextArgs prepends LogContext fields so they lead every record.
func contextArgs(ctx context.Context, args []any) []any {
	lc := FromContext(ctx)
	if lc == nil {
		return args
	}

	pairs := [...]struct{ key, val string }{
		{KeyTraceID, lc.TraceID},
		{KeySpanID, lc.SpanID},
		{KeyRequestID, lc.RequestID},
		{KeyUsername, lc.Username},
		{KeyClientIP, lc.ClientIP},
	}

	merged := make([]any, 0, 2*len(pairs)+len(args))
	for _, p := range pairs {
		if p.val != "" {
			merged = append(merged, p.key, p.val)
		}
	}
	return append(merged, args...)
}
