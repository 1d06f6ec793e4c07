package repl

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"slices"
	"strings"
	"sync"
)

const (
	baseHistory = "history.utf8"
	// maxHistory bounds the number of remembered commands.
	maxHistory = 500
)

// History is the list of commands entered at the prompt, oldest first,
// persisted one per line.
type History struct {
	mu      sync.RWMutex
	path    string
	entries []string
	limit   int
}

// NewHistory returns an empty history stored at path.
func NewHistory(path string) *History {
	return &History{path: path, limit: maxHistory}
}

// Load replaces the entries with those stored at the history path. A
// missing file is an empty history.
func (h *History) Load() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	file, err := os.Open(h.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if err != nil {
		return err
	}
	defer file.Close()

	var entries []string

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			entries = append(entries, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return err
	}

	h.entries = h.bounded(entries)

	return nil
}

// Write records entry as the newest command. Repeating a command moves it
// to the end instead of storing it twice.
func (h *History) Write(entry string) (int, error) {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return 0, nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if n := len(h.entries); n > 0 && h.entries[n-1] == entry {
		return len(entry), nil
	}

	n := len(h.entries)

	h.entries = h.bounded(append(slices.DeleteFunc(h.entries, func(s string) bool {
		return s == entry
	}), entry))

	// the file only needs rewriting when earlier lines changed
	if len(h.entries) != n+1 {
		return h.persist(os.O_TRUNC, h.entries...)
	}

	return h.persist(os.O_APPEND, entry)
}

// GetLine returns entry i, where 0 is the oldest.
func (h *History) GetLine(i int) (string, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || i >= len(h.entries) {
		return "", ErrOutOfBounds
	}

	return h.entries[i], nil
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

// Entries returns a copy of all entries, oldest first.
func (h *History) Entries() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return slices.Clone(h.entries)
}

func (h *History) bounded(entries []string) []string {
	if h.limit > 0 && len(entries) > h.limit {
		return slices.Clone(entries[len(entries)-h.limit:])
	}

	return entries
}

// persist writes lines to the history file opened with mode. Must be
// called with h.mu held.
func (h *History) persist(mode int, lines ...string) (int, error) {
	file, err := os.OpenFile(h.path, os.O_WRONLY|os.O_CREATE|mode, 0o600)
	if err != nil {
		return 0, err
	}

	w := bufio.NewWriter(file)

	var total int

	for _, line := range lines {
		n, err := w.WriteString(line + "\n")
		total += n

		if err != nil {
			file.Close()

			return total, err
		}
	}

	if err := w.Flush(); err != nil {
		file.Close()

		return total, err
	}

	return total, file.Close()
}
