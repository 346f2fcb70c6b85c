// Package editor implements the multi-line command buffer behind the input
// pane. Cursor columns are byte offsets that always sit on grapheme cluster
// boundaries; every operation that would go out of bounds is a no-op.
package editor

import (
	"slices"
	"strings"

	"pipr/internal/cmdlist"
)

// Buffer holds the lines being edited and the cursor.
type Buffer struct {
	lines []string
	line  int
	col   int
}

// New returns an empty buffer (one empty line).
func New() *Buffer {
	return &Buffer{lines: []string{""}}
}

// Lines returns a copy of the buffer content.
func (b *Buffer) Lines() []string { return slices.Clone(b.lines) }

// String joins the lines with newlines.
func (b *Buffer) String() string { return strings.Join(b.lines, "\n") }

// Cursor returns the cursor line and byte column.
func (b *Buffer) Cursor() (line, col int) { return b.line, b.col }

// Hovered returns the grapheme under the cursor, or "" at end of line.
func (b *Buffer) Hovered() string { return graphemeAt(b.lines[b.line], b.col) }

// HoveredWord returns the space-delimited word under the cursor.
func (b *Buffer) HoveredWord() string { return WordAt(b.lines[b.line], b.col) }

// DisplayedCursorColumn returns the terminal cell column of the cursor on
// its line, accounting for wide and combining characters.
func (b *Buffer) DisplayedCursorColumn() int {
	return displayWidth(b.lines[b.line], b.col)
}

// SetContent replaces the content and moves the cursor to the end.
func (b *Buffer) SetContent(lines []string) {
	if len(lines) == 0 {
		lines = []string{""}
	}
	b.lines = slices.Clone(lines)
	b.line = len(b.lines) - 1
	b.col = len(b.lines[b.line])
}

// Clear resets the buffer to a single empty line.
func (b *Buffer) Clear() { b.SetContent(nil) }

// Entry snapshots the content.
func (b *Buffer) Entry() cmdlist.Entry { return cmdlist.NewEntry(b.lines) }

// LoadEntry replaces the content with e.
func (b *Buffer) LoadEntry(e cmdlist.Entry) { b.SetContent(e.Lines()) }

// SetCursor moves the cursor, clamping to the content and snapping to a
// grapheme boundary.
func (b *Buffer) SetCursor(line, col int) {
	line = max(0, min(line, len(b.lines)-1))
	s := b.lines[line]
	col = max(0, min(col, len(s)))
	b.line = line
	b.col = snapForward(s, col)
}

// InsertChar inserts r at the cursor and moves past it.
func (b *Buffer) InsertChar(r rune) {
	if r == '\n' {
		b.NewLine()
		return
	}
	b.insert(string(r))
}

// InsertText inserts s at the cursor, splitting lines on '\n', and leaves
// the cursor after the inserted text.
func (b *Buffer) InsertText(s string) {
	for i, part := range strings.Split(s, "\n") {
		if i > 0 {
			b.NewLine()
		}
		if part != "" {
			b.insert(part)
		}
	}
}

// InsertWithCursor inserts s and places the cursor offset bytes into it.
func (b *Buffer) InsertWithCursor(s string, offset int) {
	offset = max(0, min(offset, len(s)))
	b.InsertText(s[:offset])
	line, col := b.line, b.col
	b.InsertText(s[offset:])
	b.SetCursor(line, col)
}

func (b *Buffer) insert(s string) {
	cur := b.lines[b.line]
	next := cur[:b.col] + s + cur[b.col:]
	b.lines[b.line] = next
	b.col = snapForward(next, b.col+len(s))
}

// NewLine splits the current line at the cursor.
func (b *Buffer) NewLine() {
	cur := b.lines[b.line]
	head, tail := cur[:b.col], cur[b.col:]
	b.lines[b.line] = head
	b.lines = slices.Insert(b.lines, b.line+1, tail)
	b.line++
	b.col = 0
}

// Backspace removes the grapheme before the cursor, joining with the
// previous line at column 0.
func (b *Buffer) Backspace() {
	if b.col == 0 {
		if b.line == 0 {
			return
		}
		prev := b.lines[b.line-1]
		b.lines[b.line-1] = prev + b.lines[b.line]
		b.lines = slices.Delete(b.lines, b.line, b.line+1)
		b.line--
		b.col = len(prev)
		return
	}
	cur := b.lines[b.line]
	start := prevBoundary(cur, b.col)
	b.lines[b.line] = cur[:start] + cur[b.col:]
	b.col = start
}

// Delete removes the grapheme at the cursor, joining with the next line at
// end of line.
func (b *Buffer) Delete() {
	cur := b.lines[b.line]
	if b.col >= len(cur) {
		if b.line >= len(b.lines)-1 {
			return
		}
		b.lines[b.line] = cur + b.lines[b.line+1]
		b.lines = slices.Delete(b.lines, b.line+1, b.line+2)
		return
	}
	end := nextBoundary(cur, b.col)
	b.lines[b.line] = cur[:b.col] + cur[end:]
}

func isWordDelimiter(g string) bool {
	switch g {
	case " ", "/", "\\", ":", "_", "-":
		return true
	}
	return false
}

// KillWordBack deletes backwards up to and including the nearest word
// delimiter, or to the start of the line. Delimiters directly before the
// cursor are consumed together with the word preceding them.
func (b *Buffer) KillWordBack() {
	if b.col == 0 {
		return
	}
	cur := b.lines[b.line]
	start := b.col
	sawWord := false
	for start > 0 {
		p := prevBoundary(cur, start)
		g := cur[p:start]
		start = p
		if isWordDelimiter(g) {
			if sawWord {
				break
			}
			continue
		}
		sawWord = true
	}
	b.lines[b.line] = cur[:start] + cur[b.col:]
	b.col = start
}

// MoveLeft moves one grapheme left, wrapping to the end of the previous line.
func (b *Buffer) MoveLeft() {
	if b.col > 0 {
		b.col = prevBoundary(b.lines[b.line], b.col)
		return
	}
	if b.line > 0 {
		b.line--
		b.col = len(b.lines[b.line])
	}
}

// MoveRight moves one grapheme right, wrapping to the start of the next line.
func (b *Buffer) MoveRight() {
	cur := b.lines[b.line]
	if b.col < len(cur) {
		b.col = nextBoundary(cur, b.col)
		return
	}
	if b.line < len(b.lines)-1 {
		b.line++
		b.col = 0
	}
}

// MoveUp moves to the previous line keeping the display column where the
// line is long enough.
func (b *Buffer) MoveUp() {
	if b.line == 0 {
		return
	}
	w := b.DisplayedCursorColumn()
	b.line--
	b.col = colForWidth(b.lines[b.line], w)
}

// MoveDown moves to the next line keeping the display column where the line
// is long enough.
func (b *Buffer) MoveDown() {
	if b.line >= len(b.lines)-1 {
		return
	}
	w := b.DisplayedCursorColumn()
	b.line++
	b.col = colForWidth(b.lines[b.line], w)
}

// MoveHome moves to the start of the line.
func (b *Buffer) MoveHome() { b.col = 0 }

// MoveEnd moves to the end of the line.
func (b *Buffer) MoveEnd() { b.col = len(b.lines[b.line]) }
