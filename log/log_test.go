package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"slices"
	"strings"
	"testing"
	"time"
)

var refTime = time.Date(2006, time.January, 2, 15, 4, 5, 0, time.UTC)

func TestMake_Defaults(t *testing.T) {
	var buf bytes.Buffer
	l := Make(&buf)

	if l.Level() != DefaultLevel {
		t.Errorf("Level() = %v, want %v", l.Level(), DefaultLevel)
	}
	if l.Format() != DefaultFormat {
		t.Errorf("Format() = %v, want %v", l.Format(), DefaultFormat)
	}
	if l.caller != DefaultCaller || l.pretty != DefaultPretty {
		t.Errorf("caller=%v pretty=%v, want %v %v", l.caller, l.pretty, DefaultCaller, DefaultPretty)
	}
}

func TestLogger_LevelFilter(t *testing.T) {
	tests := []struct {
		name  string
		level Level
		emit  func(Logger)
		want  bool
	}{
		{"debug at info", LevelInfo, func(l Logger) { l.Debug("m") }, false},
		{"info at info", LevelInfo, func(l Logger) { l.Info("m") }, true},
		{"trace at trace", LevelTrace, func(l Logger) { l.Trace("m") }, true},
		{"trace at debug", LevelDebug, func(l Logger) { l.Trace("m") }, false},
		{"warn at error", LevelError, func(l Logger) { l.Warn("m") }, false},
		{"error at error", LevelError, func(l Logger) { l.Error("m") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.emit(Make(&buf, WithLevel(tt.level), WithPretty(false)))

			if got := buf.Len() > 0; got != tt.want {
				t.Errorf("emitted = %v, want %v (output %q)", got, tt.want, buf.String())
			}
		})
	}
}

func TestLogger_JSONRecord(t *testing.T) {
	var buf bytes.Buffer
	l := Make(&buf,
		WithFormat(FormatJSON),
		WithPretty(false),
		WithLevel(LevelTrace),
		WithTimeLayout("none"),
	)

	l.With(slog.String("scope", "ns")).Trace("lookup", slog.Int("depth", 2))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("unmarshal %q: %v", buf.String(), err)
	}

	if _, ok := rec[slog.TimeKey]; ok {
		t.Errorf("time present with layout none: %v", rec)
	}
	if rec[slog.LevelKey] != "TRACE" {
		t.Errorf("level = %v, want TRACE", rec[slog.LevelKey])
	}
	if rec["scope"] != "ns" || rec["depth"] != float64(2) {
		t.Errorf("attributes missing: %v", rec)
	}
}

func TestLogger_PrettyJSONIsIndented(t *testing.T) {
	var buf bytes.Buffer
	Make(&buf, WithFormat(FormatJSON), WithPretty(true)).Info("hello")

	if !strings.Contains(buf.String(), "\n  \"msg\": \"hello\"") {
		t.Errorf("output not indented: %q", buf.String())
	}
}

func TestLogger_PrettyTextKeepsWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	l := Make(&buf, WithFormat(FormatText), WithTimeLayout(""))

	l.With(slog.String("file", "a.h")).WithGroup("req").Warn("skipped", slog.Int("n", 3))

	out := buf.String()
	for _, want := range []string{"WARN", "skipped", "file", "a.h", "req.n", "3"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestLogger_Caller(t *testing.T) {
	var buf bytes.Buffer
	Make(&buf, WithCaller(true), WithPretty(false), WithFormat(FormatJSON)).Info("here")

	if !strings.Contains(buf.String(), "log_test.go") {
		t.Errorf("caller not attributed to test file: %s", buf.String())
	}
}

func TestLogger_ZeroValue(t *testing.T) {
	var l Logger

	l.Info("dropped")
	l = l.With(slog.String("k", "v"))

	if l.Level() != DefaultLevel {
		t.Errorf("Level() = %v", l.Level())
	}
}

func TestLogger_Wrap(t *testing.T) {
	var a, b bytes.Buffer
	base := Make(&a, WithLevel(LevelError), WithPretty(false))
	wrapped := base.Wrap(WithOutput(&b), WithLevel(LevelDebug))

	base.Info("base")
	wrapped.Debug("wrapped")

	if a.Len() != 0 {
		t.Errorf("base emitted below its level: %q", a.String())
	}
	if !strings.Contains(b.String(), "wrapped") {
		t.Errorf("wrapped output = %q", b.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"trace":  LevelTrace,
		"TRACE":  LevelTrace,
		"debug":  LevelDebug,
		"info":   LevelInfo,
		" warn ": LevelWarn,
		"ERROR":  LevelError,
		"bogus":  DefaultLevel,
		"info+2": LevelInfo + 2,
		"":       DefaultLevel,
	}

	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	for _, name := range slices.Collect(Formats()) {
		if got := ParseFormat(name).String(); got != name {
			t.Errorf("ParseFormat(%q).String() = %q", name, got)
		}
	}

	if ParseFormat("yaml") != DefaultFormat {
		t.Error("unknown format should fall back to default")
	}
}

func TestLevels(t *testing.T) {
	got := slices.Collect(Levels())
	want := []string{"trace", "debug", "info", "warn", "error"}

	if !slices.Equal(got, want) {
		t.Errorf("Levels() = %v, want %v", got, want)
	}
}

func TestMakeFormatTimeFunc(t *testing.T) {
	if got := makeFormatTimeFunc("none")(refTime); got != "" {
		t.Errorf("none layout produced %q", got)
	}
	if got := makeFormatTimeFunc("kitchen")(refTime); got != "3:04PM" {
		t.Errorf("kitchen layout produced %q", got)
	}
	if got := makeFormatTimeFunc("2006")(refTime); got != "2006" {
		t.Errorf("custom layout produced %q", got)
	}
}
