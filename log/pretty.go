package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
)

const (
	ansiReset   = "\033[0m"
	ansiGray    = "\033[90m"
	ansiRed     = "\033[31m"
	ansiGreen   = "\033[32m"
	ansiYellow  = "\033[33m"
	ansiBlue    = "\033[34m"
	ansiMagenta = "\033[35m"
	ansiCyan    = "\033[36m"
)

// prettyHandler writes one colorized line per record:
//
//	TIME LEVEL source message key=value ...
type prettyHandler struct {
	opts       slog.HandlerOptions
	formatTime FormatTime
	mu         *sync.Mutex
	w          io.Writer
	prefix     string
	attrs      []byte
}

func newPrettyHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
) *prettyHandler {
	return &prettyHandler{
		opts:       *opts,
		formatTime: formatTime,
		mu:         &sync.Mutex{},
		w:          w,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	if !r.Time.IsZero() {
		if ts := h.formatTime(r.Time); ts != "" {
			buf.WriteString(ansiGray + ts + ansiReset + " ")
		}
	}

	buf.WriteString(levelColor(r.Level))
	fmt.Fprintf(&buf, "%-5s", strings.ToUpper(Level(r.Level).String()))
	buf.WriteString(ansiReset)

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			fmt.Fprintf(&buf, " %s%s:%d%s", ansiGray, src.File, src.Line, ansiReset)
		}
	}

	buf.WriteByte(' ')
	buf.WriteString(r.Message)
	buf.Write(h.attrs)

	r.Attrs(func(a slog.Attr) bool {
		h.appendAttr(&buf, h.prefix, a)

		return true
	})

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h

	var buf bytes.Buffer
	buf.Write(h.attrs)

	for _, a := range attrs {
		h.appendAttr(&buf, h.prefix, a)
	}

	c.attrs = buf.Bytes()

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.prefix = h.prefix + name + "."

	return &c
}

func (h *prettyHandler) appendAttr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		group := prefix
		if a.Key != "" {
			group += a.Key + "."
		}

		for _, ga := range a.Value.Group() {
			h.appendAttr(buf, group, ga)
		}

		return
	}

	buf.WriteByte(' ')
	buf.WriteString(ansiGray + prefix + a.Key + ansiReset + "=")

	v := a.Value

	switch v.Kind() {
	case slog.KindInt64:
		buf.WriteString(ansiYellow + strconv.FormatInt(v.Int64(), 10) + ansiReset)
	case slog.KindUint64:
		buf.WriteString(ansiYellow + strconv.FormatUint(v.Uint64(), 10) + ansiReset)
	case slog.KindFloat64:
		buf.WriteString(ansiYellow + strconv.FormatFloat(v.Float64(), 'g', -1, 64) + ansiReset)
	case slog.KindBool:
		if v.Bool() {
			buf.WriteString(ansiGreen + "true" + ansiReset)
		} else {
			buf.WriteString(ansiRed + "false" + ansiReset)
		}
	case slog.KindDuration:
		buf.WriteString(ansiMagenta + v.Duration().String() + ansiReset)
	case slog.KindTime:
		buf.WriteString(ansiBlue + h.formatTime(v.Time()) + ansiReset)
	default:
		s := v.String()
		if strings.ContainsAny(s, " \t\n\"=") {
			s = strconv.Quote(s)
		}

		buf.WriteString(ansiCyan + s + ansiReset)
	}
}

func levelColor(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return ansiRed
	case l >= slog.LevelWarn:
		return ansiYellow
	case l >= slog.LevelInfo:
		return ansiGreen
	default:
		return ansiBlue
	}
}

// indentHandler encodes records with [slog.JSONHandler] and re-indents each
// record before writing it.
type indentHandler struct {
	slog.Handler

	mu  *sync.Mutex
	buf *bytes.Buffer
	w   io.Writer
}

func newIndentHandler(w io.Writer, opts *slog.HandlerOptions) *indentHandler {
	buf := new(bytes.Buffer)

	return &indentHandler{
		Handler: slog.NewJSONHandler(buf, opts),
		mu:      &sync.Mutex{},
		buf:     buf,
		w:       w,
	}
}

func (h *indentHandler) Handle(ctx context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.buf.Reset()

	if err := h.Handler.Handle(ctx, r); err != nil {
		return err
	}

	var out bytes.Buffer
	if err := json.Indent(&out, bytes.TrimSpace(h.buf.Bytes()), "", "  "); err != nil {
		_, err = h.w.Write(h.buf.Bytes())

		return err
	}

	out.WriteByte('\n')

	_, err := h.w.Write(out.Bytes())

	return err
}

func (h *indentHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.Handler = h.Handler.WithAttrs(attrs)

	return &c
}

func (h *indentHandler) WithGroup(name string) slog.Handler {
	c := *h
	c.Handler = h.Handler.WithGroup(name)

	return &c
}
