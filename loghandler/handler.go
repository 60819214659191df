package loghandler

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
)

const timeFormat = "2006/01/02 15:04:05"

const tagKey = "tag"

// CompactHandler writes one line per record: timestamp, optional [tag] prefix,
// message, then key=value attrs. Warnings and errors carry a level marker after
// the tag; info and debug lines do not. Attrs bound with Logger.With are kept,
// including a bound tag, so a room can log through a logger tagged once.
type CompactHandler struct {
	mu    *sync.Mutex
	w     io.Writer
	level slog.Leveler
	tag   string
	attrs []slog.Attr
}

// NewCompactHandler returns a handler that writes to w with minimum level.
func NewCompactHandler(w io.Writer, level slog.Leveler) *CompactHandler {
	return &CompactHandler{mu: &sync.Mutex{}, w: w, level: level}
}

// Enabled reports whether the handler handles records at the given level.
func (h *CompactHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats the record as: 2006/01/02 15:04:05 [tag] message key=value ...
func (h *CompactHandler) Handle(_ context.Context, r slog.Record) error {
	tag := h.tag
	rest := append([]slog.Attr(nil), h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == tagKey && a.Value.Kind() == slog.KindString {
			tag = a.Value.String()
			return true
		}
		rest = append(rest, a)
		return true
	})

	buf := make([]byte, 0, 256)
	buf = append(buf, r.Time.Format(timeFormat)...)
	buf = append(buf, ' ')
	if tag != "" {
		buf = append(buf, '[')
		buf = append(buf, tag...)
		buf = append(buf, "] "...)
	}
	if r.Level >= slog.LevelWarn {
		buf = append(buf, r.Level.String()...)
		buf = append(buf, ' ')
	}
	buf = append(buf, r.Message...)
	for _, a := range rest {
		buf = appendAttr(buf, a)
	}
	buf = append(buf, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf)
	return err
}

func appendAttr(buf []byte, a slog.Attr) []byte {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return buf
	}
	buf = append(buf, ' ')
	buf = append(buf, a.Key...)
	buf = append(buf, '=')
	s := a.Value.String()
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return strconv.AppendQuote(buf, s)
	}
	return append(buf, s...)
}

// WithAttrs returns a handler that renders attrs on every record.
func (h *CompactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	h2 := *h
	h2.attrs = append([]slog.Attr(nil), h.attrs...)
	for _, a := range attrs {
		if a.Key == tagKey && a.Value.Kind() == slog.KindString {
			h2.tag = a.Value.String()
			continue
		}
		h2.attrs = append(h2.attrs, a)
	}
	return &h2
}

// WithGroup returns h; groups are flattened in compact output.
func (h *CompactHandler) WithGroup(name string) slog.Handler {
	return h
}
