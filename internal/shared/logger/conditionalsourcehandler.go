package logger

import (
	"context"
	"log/slog"
	"runtime"
)

type conditionalSourceHandler struct {
	handler  slog.Handler
	minLevel slog.Level
}

// NewConditionalSourceHandler wraps a handler so that records at or above minLevel
// carry a source attribute. The wrapped handler should have AddSource disabled.
func NewConditionalSourceHandler(handler slog.Handler, minLevel slog.Level) slog.Handler {
	return &conditionalSourceHandler{
		handler:  handler,
		minLevel: minLevel,
	}
}

func (h *conditionalSourceHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= h.minLevel {
		source := recordSource(r)
		r.AddAttrs(slog.Any(slog.SourceKey, source))
	}
	return h.handler.Handle(ctx, r)
}

// recordSource prefers the PC captured by slog and falls back to walking the stack
// for records built without one.
func recordSource(r slog.Record) *slog.Source {
	pc := r.PC
	if pc == 0 {
		var pcs [1]uintptr
		runtime.Callers(4, pcs[:])
		pc = pcs[0]
	}
	f, _ := runtime.CallersFrames([]uintptr{pc}).Next()
	return &slog.Source{
		Function: f.Function,
		File:     f.File,
		Line:     f.Line,
	}
}

func (h *conditionalSourceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &conditionalSourceHandler{
		handler:  h.handler.WithAttrs(attrs),
		minLevel: h.minLevel,
	}
}

func (h *conditionalSourceHandler) WithGroup(name string) slog.Handler {
	return &conditionalSourceHandler{
		handler:  h.handler.WithGroup(name),
		minLevel: h.minLevel,
	}
}

func (h *conditionalSourceHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}
