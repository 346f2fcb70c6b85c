package ui

import (
	"slices"

	"github.com/charmbracelet/bubbles/viewport"

	"pipr/internal/cmdlist"
)

// window is the active screen. Exactly one of mainWindow, *textWindow or
// *listWindow.
type window interface {
	title() string
}

type mainWindow struct{}

func (mainWindow) title() string { return "pipr" }

// textWindow is a read-only document such as the key binding help.
type textWindow struct {
	name     string
	markdown string
	vp       viewport.Model
	rendered int // width the body was last rendered at
}

func (w *textWindow) title() string { return w.name }

type listKind int

const (
	listBookmarks listKind = iota
	listHistory
)

func (k listKind) String() string {
	if k == listHistory {
		return "History"
	}
	return "Bookmarks"
}

// pageStride is how far page up and page down move the selection.
const pageStride = 5

// listWindow edits a copy of a command list. Changes reach the backing list
// only when the view is left.
type listWindow struct {
	kind     listKind
	entries  []cmdlist.Entry
	selected int // -1 when the list is empty
	deleted  []cmdlist.Entry
}

func (w *listWindow) title() string { return w.kind.String() }

// newListWindow selects sel when it is valid, otherwise the newest entry.
func newListWindow(kind listKind, entries []cmdlist.Entry, sel int) *listWindow {
	w := &listWindow{kind: kind, entries: slices.Clone(entries), selected: len(entries) - 1}
	if sel >= 0 && sel < len(entries) {
		w.selected = sel
	}
	return w
}

func (w *listWindow) move(delta int) {
	if len(w.entries) == 0 {
		return
	}
	w.selected = max(0, min(w.selected+delta, len(w.entries)-1))
}

func (w *listWindow) remove() {
	if w.selected < 0 || w.selected >= len(w.entries) {
		return
	}
	w.deleted = append(w.deleted, w.entries[w.selected])
	w.entries = slices.Delete(w.entries, w.selected, w.selected+1)
	if w.selected >= len(w.entries) {
		w.selected = len(w.entries) - 1
	}
}

// undo re-appends the most recently deleted entry and selects it.
func (w *listWindow) undo() {
	if n := len(w.deleted); n > 0 {
		w.entries = append(w.entries, w.deleted[n-1])
		w.deleted = w.deleted[:n-1]
	}
	w.selected = len(w.entries) - 1
}

func (w *listWindow) current() (cmdlist.Entry, bool) {
	if w.selected < 0 || w.selected >= len(w.entries) {
		return cmdlist.Entry{}, false
	}
	return w.entries[w.selected], true
}
