package cmdlist

import (
	"slices"
	"strings"
)

// Entry is an immutable snapshot of editor content used for history and
// bookmarks. Two entries are equal when their lines are equal.
type Entry struct {
	lines []string
}

// NewEntry copies lines into a new Entry. Leading and trailing empty lines
// are dropped so an entry reads back from a list file unchanged.
func NewEntry(lines []string) Entry {
	start, end := 0, len(lines)
	for start < end && lines[start] == "" {
		start++
	}
	for end > start && lines[end-1] == "" {
		end--
	}
	return Entry{lines: slices.Clone(lines[start:end])}
}

// Lines returns a copy of the entry content.
func (e Entry) Lines() []string { return slices.Clone(e.lines) }

// String joins the lines with newlines.
func (e Entry) String() string { return strings.Join(e.lines, "\n") }

// FirstLine returns the first line, or "" for a zero Entry.
func (e Entry) FirstLine() string {
	if len(e.lines) == 0 {
		return ""
	}
	return e.lines[0]
}

// Empty reports whether the entry holds nothing but whitespace.
func (e Entry) Empty() bool {
	return strings.TrimSpace(e.String()) == ""
}

// Equal compares entries structurally.
func (e Entry) Equal(other Entry) bool {
	return slices.Equal(e.lines, other.lines)
}
