// Package log builds the process logger and provides the structured
// attributes shared across packages.
package log

import (
	"io"
	"log/slog"
	"strings"
)

var levels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// New constructs a logger writing to w. format "json" selects the JSON
// handler, anything else the text handler. Unknown levels mean info.
func New(service, level, format string, w io.Writer) *slog.Logger {
	lvl, ok := levels[strings.ToLower(level)]
	if !ok {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler).With(slog.String("service", service))
}

func NodeID[T ~string](id T) slog.Attr {
	return slog.String("node_id", string(id))
}

func FlowID[T ~string](id T) slog.Attr {
	return slog.String("flow_id", string(id))
}

func State[T ~string](state T) slog.Attr {
	return slog.String("state", string(state))
}

func Error(err error) slog.Attr {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return slog.String("error", msg)
}
