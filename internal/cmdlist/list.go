package cmdlist

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"pipr/internal/system"
)

// Separator is the sentinel line between entries in a list file.
const Separator = "---"

// List is an ordered sequence of entries with an optional size bound and an
// optional backing file. Every mutating operation rewrites the file in full.
type List struct {
	entries []Entry
	path    string
	maxSize int
}

// New returns an empty list. An empty path disables persistence and a
// maxSize <= 0 disables eviction.
func New(path string, maxSize int) *List {
	return &List{path: path, maxSize: maxSize}
}

// Load reads a list file. A missing file yields an empty list without error.
func Load(path string, maxSize int) (*List, error) {
	l := New(path, maxSize)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return l, nil
		}
		return nil, err
	}
	entries := Parse(string(b))
	// dedupe consecutive entries the same way Push does
	for _, e := range entries {
		if e.Empty() {
			continue
		}
		if n := len(l.entries); n > 0 && l.entries[n-1].Equal(e) {
			continue
		}
		l.entries = append(l.entries, e)
	}
	l.evict()
	return l, nil
}

// Parse splits serialized list content into entries.
func Parse(data string) []Entry {
	var (
		out     []Entry
		current []string
	)
	flush := func() {
		for len(current) > 0 && current[len(current)-1] == "" {
			current = current[:len(current)-1]
		}
		if len(current) > 0 {
			out = append(out, NewEntry(current))
		}
		current = nil
	}
	for _, line := range strings.Split(strings.ReplaceAll(data, "\r\n", "\n"), "\n") {
		if line == Separator {
			flush()
			continue
		}
		if len(current) == 0 && line == "" {
			continue
		}
		current = append(current, line)
	}
	flush()
	return out
}

// Serialize renders entries separated by the sentinel line.
func Serialize(entries []Entry) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, e.String())
	}
	return strings.Join(parts, "\n"+Separator+"\n")
}

// Push appends e unless it is empty or equal to the current last entry.
// It reports whether the list changed.
func (l *List) Push(e Entry) bool {
	if e.Empty() {
		return false
	}
	if n := len(l.entries); n > 0 && l.entries[n-1].Equal(e) {
		return false
	}
	l.entries = append(l.entries, e)
	l.evict()
	l.persist()
	return true
}

// Toggle adds e when absent and removes it when present. Empty entries are
// ignored.
func (l *List) Toggle(e Entry) {
	if e.Empty() {
		return
	}
	if l.Contains(e) {
		l.Remove(e)
		return
	}
	l.Push(e)
}

// Remove deletes the first entry equal to e.
func (l *List) Remove(e Entry) {
	if i := l.index(e); i >= 0 {
		l.entries = append(l.entries[:i], l.entries[i+1:]...)
		l.persist()
	}
}

// Contains reports whether an entry equal to e is stored.
func (l *List) Contains(e Entry) bool { return l.index(e) >= 0 }

// At returns the entry at idx.
func (l *List) At(idx int) (Entry, bool) {
	if idx < 0 || idx >= len(l.entries) {
		return Entry{}, false
	}
	return l.entries[idx], true
}

// Len returns the number of entries.
func (l *List) Len() int { return len(l.entries) }

// Entries returns a copy of the stored entries.
func (l *List) Entries() []Entry {
	return append([]Entry(nil), l.entries...)
}

// Replace swaps in an edited entry slice, e.g. after a list view closes.
func (l *List) Replace(entries []Entry) {
	l.entries = append([]Entry(nil), entries...)
	l.evict()
	l.persist()
}

// Path returns the backing file path, if any.
func (l *List) Path() string { return l.path }

// Save writes the list to its backing file, creating parent dirs.
func (l *List) Save() error {
	if strings.TrimSpace(l.path) == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(l.path, []byte(Serialize(l.entries)), 0o644)
}

func (l *List) persist() {
	if err := l.Save(); err != nil {
		system.Logger.Warn("command list not saved", "path", l.path, "err", err)
	}
}

func (l *List) evict() {
	if l.maxSize > 0 && len(l.entries) > l.maxSize {
		l.entries = append([]Entry(nil), l.entries[len(l.entries)-l.maxSize:]...)
	}
}

func (l *List) index(e Entry) int {
	for i, cur := range l.entries {
		if cur.Equal(e) {
			return i
		}
	}
	return -1
}
