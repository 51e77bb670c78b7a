package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/lmittmann/tint"
	"golang.org/x/term"

	"ticketdash/internal/shared/config"
)

var (
	Logger      *slog.Logger
	atomicLevel *slog.LevelVar

	mu      sync.Mutex
	logFile *os.File
)

// Init builds the process logger. Text output uses tint with colors only when the
// writer is a terminal; a file output path keeps the TUI screen clean.
func Init(cfg *config.LoggerConfig) error {
	mu.Lock()
	defer mu.Unlock()

	atomicLevel = new(slog.LevelVar)
	atomicLevel.Set(ParseLevel(cfg.Level, slog.LevelInfo))

	var writer io.Writer
	switch strings.ToLower(cfg.OutputPath) {
	case "stdout", "":
		writer = os.Stdout
	case "stderr":
		writer = os.Stderr
	case "discard":
		writer = io.Discard
	default:
		file, err := os.OpenFile(cfg.OutputPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		if logFile != nil {
			_ = logFile.Close()
		}
		logFile = file
		writer = file
	}

	sourceLevel := ParseLevel(cfg.SourceLevel, slog.LevelWarn)

	var base slog.Handler
	if cfg.Format == "json" {
		base = slog.NewJSONHandler(writer, &slog.HandlerOptions{Level: atomicLevel})
	} else {
		base = newTintHandler(writer, atomicLevel)
	}

	Logger = slog.New(NewConditionalSourceHandler(base, sourceLevel))
	slog.SetDefault(Logger)
	return nil
}

// ParseLevel maps a config level name to a slog level.
func ParseLevel(name string, fallback slog.Level) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return fallback
}

func newTintHandler(w io.Writer, level slog.Leveler) slog.Handler {
	return tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.DateTime,
		NoColor:    !isTerminal(w),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "error" && a.Value.Kind() == slog.KindAny {
				if err, ok := a.Value.Any().(error); ok {
					return tint.Err(err)
				}
			}
			return a
		},
	})
}

func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

func Get() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if Logger == nil {
		Logger = slog.New(NewConditionalSourceHandler(newTintHandler(os.Stderr, slog.LevelInfo), slog.LevelWarn))
		slog.SetDefault(Logger)
	}
	return Logger
}

// Sync closes the log file opened by Init, if any.
func Sync() error {
	mu.Lock()
	defer mu.Unlock()
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

func Named(name string) *slog.Logger {
	return Get().With("logger", name)
}
