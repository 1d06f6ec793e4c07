package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/pxx/log"
)

func waitFor(t *testing.T, changed <-chan []string, want string) {
	t.Helper()

	timeout := time.After(2 * time.Second)

	for {
		select {
		case paths := <-changed:
			for _, p := range paths {
				if p == want {
					return
				}
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %s", want)
		}
	}
}

func TestWatcher(t *testing.T) {
	dir := t.TempDir()

	changed := make(chan []string, 8)

	w, err := New(func(paths []string) { changed <- paths },
		WithDebounce(50*time.Millisecond),
		WithExclude("build", "*_skip.h"),
		WithLogger(log.Logger{}),
	)
	require.NoError(t, err)

	defer w.Close()

	require.NoError(t, w.Add(dir))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go w.Run(ctx)

	header := filepath.Join(dir, "point.hpp")
	require.NoError(t, os.WriteFile(header, []byte("class Point {};"), 0o644))
	waitFor(t, changed, header)

	for _, name := range []string{"point.cpp", "point_skip.h"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	select {
	case paths := <-changed:
		t.Errorf("unexpected change %v", paths)
	case <-time.After(300 * time.Millisecond):
	}

	sub := filepath.Join(dir, "geo")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	nested := filepath.Join(sub, "sum.h")
	require.NoError(t, os.WriteFile(nested, []byte("struct Sum {};"), 0o644))
	waitFor(t, changed, nested)
}

func TestWatcher_Headers(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{
		"a.h", "b.HPP", "c.cpp", filepath.Join("build", "d.h"), filepath.Join("geo", "e.hh"),
	} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, nil, 0o644))
	}

	w, err := New(func([]string) {}, WithExclude("build"))
	require.NoError(t, err)

	defer w.Close()

	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "a.h"),
		filepath.Join(dir, "b.HPP"),
		filepath.Join(dir, "geo", "e.hh"),
	}, w.Headers(dir))
}

func TestNew_InvalidPattern(t *testing.T) {
	_, err := New(func([]string) {}, WithExclude("[a"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPattern)
}

func TestNew_Options(t *testing.T) {
	tests := []struct {
		name     string
		opts     []Option
		debounce time.Duration
		header   string
		want     bool
	}{
		{"defaults", nil, DefaultDebounce, "a.hpp", true},
		{"zero debounce", []Option{WithDebounce(0)}, DefaultDebounce, "a.h", true},
		{"debounce", []Option{WithDebounce(time.Second)}, time.Second, "a.h", true},
		{"extensions", []Option{WithExtensions(".H", ".inl")}, DefaultDebounce, "a.INL", true},
		{"replaced extensions", []Option{WithExtensions(".inl")}, DefaultDebounce, "a.h", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := New(func([]string) {}, append(tt.opts, WithLogger(log.Logger{}))...)
			require.NoError(t, err)

			defer w.Close()

			assert.Equal(t, tt.debounce, w.debounce)
			assert.Equal(t, tt.want, w.isHeader(tt.header))
		})
	}
}
