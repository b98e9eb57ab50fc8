package state

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store persists one line-delimited list of strings. The bot keeps two
// of these across runs: normalized titles it already posted and the
// keywords it used most recently.
type Store struct {
	path string
}

// NewStore returns a store backed by the given file path. The file does
// not need to exist yet.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path reports the backing file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the list. A missing or unreadable file means first-run
// semantics: an empty list, never an error.
func (s *Store) Load() []string {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}
	var out []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// Save overwrites the list, one entry per line, creating the file and
// its parent directory when absent.
func (s *Store) Save(list []string) error {
	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create state dir: %w", err)
		}
	}
	var b strings.Builder
	for _, entry := range list {
		b.WriteString(entry)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(s.path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}

// Append adds entries to the list and keeps only the newest limit
// entries, evicting the oldest on overflow.
func Append(list, entries []string, limit int) []string {
	out := make([]string, 0, len(list)+len(entries))
	out = append(out, list...)
	out = append(out, entries...)
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}
