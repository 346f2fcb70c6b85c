package config

import (
	"sort"
	"strings"
)

const cursorMarker = "||"

// Snippet is insertable text with the cursor offset after insertion.
type Snippet struct {
	Text         string
	CursorOffset int
}

// ParseSnippet removes the first || marker and records its byte offset. The
// cursor lands after the text when there is no marker.
func ParseSnippet(raw string) Snippet {
	idx := strings.Index(raw, cursorMarker)
	if idx < 0 {
		return Snippet{Text: raw, CursorOffset: len(raw)}
	}
	return Snippet{Text: raw[:idx] + raw[idx+len(cursorMarker):], CursorOffset: idx}
}

// Trigger is a key-select option sourced from one of the trigger maps.
type Trigger struct {
	Key   rune
	Value string
}

// Triggers returns the entries of m sorted by key.
func Triggers(m map[string]string) []Trigger {
	out := make([]Trigger, 0, len(m))
	for k, v := range m {
		r := []rune(k)
		if len(r) != 1 {
			continue
		}
		out = append(out, Trigger{Key: r[0], Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
