package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	// global
	Help      key.Binding
	Bookmarks key.Binding
	History   key.Binding
	Quit      key.Binding

	// main window
	Execute        key.Binding
	Newline        key.Binding
	KillWord       key.Binding
	Complete       key.Binding
	ToggleBookmark key.Binding
	HistoryPrev    key.Binding
	HistoryNext    key.Binding
	Snippets       key.Binding
	Clear          key.Binding
	Copy           key.Binding
	Autoeval       key.Binding
	Paranoid       key.Binding
	HelpViewer     key.Binding
	OutputViewer   key.Binding
	CachePrefix    key.Binding
	DropCache      key.Binding

	Left      key.Binding
	Right     key.Binding
	Up        key.Binding
	Down      key.Binding
	Home      key.Binding
	End       key.Binding
	Backspace key.Binding
	Delete    key.Binding

	// autocomplete overlay
	CompleteNext key.Binding
	CompletePrev key.Binding
	Accept       key.Binding
	Dismiss      key.Binding

	// list views
	ListUp       key.Binding
	ListDown     key.Binding
	ListPageUp   key.Binding
	ListPageDown key.Binding
	ListDelete   key.Binding
	ListUndo     key.Binding
	ListLoad     key.Binding
	ListBack     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Help:      key.NewBinding(key.WithKeys("f1"), key.WithHelp("F1", "help")),
		Bookmarks: key.NewBinding(key.WithKeys("ctrl+b"), key.WithHelp("C-b", "bookmarks")),
		History:   key.NewBinding(key.WithKeys("f4"), key.WithHelp("F4", "history")),
		Quit:      key.NewBinding(key.WithKeys("esc", "ctrl+q", "ctrl+c"), key.WithHelp("esc", "quit")),

		Execute:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run")),
		Newline:        key.NewBinding(key.WithKeys("alt+enter"), key.WithHelp("M-enter", "new line")),
		KillWord:       key.NewBinding(key.WithKeys("ctrl+w"), key.WithHelp("C-w", "delete word")),
		Complete:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "complete path")),
		ToggleBookmark: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("C-s", "bookmark")),
		HistoryPrev:    key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("C-p", "older")),
		HistoryNext:    key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("C-n", "newer")),
		Snippets:       key.NewBinding(key.WithKeys("ctrl+v"), key.WithHelp("C-v", "snippets")),
		Clear:          key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("C-x", "clear")),
		Copy:           key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("C-y", "copy")),
		Autoeval:       key.NewBinding(key.WithKeys("f2"), key.WithHelp("F2", "autoeval")),
		Paranoid:       key.NewBinding(key.WithKeys("f3"), key.WithHelp("F3", "paranoid history")),
		HelpViewer:     key.NewBinding(key.WithKeys("f5"), key.WithHelp("F5", "help for word")),
		OutputViewer:   key.NewBinding(key.WithKeys("f6"), key.WithHelp("F6", "view output")),
		CachePrefix:    key.NewBinding(key.WithKeys("f7"), key.WithHelp("F7", "cache up to |")),
		DropCache:      key.NewBinding(key.WithKeys("f8"), key.WithHelp("F8", "drop cache")),

		Left:      key.NewBinding(key.WithKeys("left")),
		Right:     key.NewBinding(key.WithKeys("right")),
		Up:        key.NewBinding(key.WithKeys("up")),
		Down:      key.NewBinding(key.WithKeys("down")),
		Home:      key.NewBinding(key.WithKeys("home", "ctrl+a")),
		End:       key.NewBinding(key.WithKeys("end", "ctrl+e")),
		Backspace: key.NewBinding(key.WithKeys("backspace", "ctrl+h")),
		Delete:    key.NewBinding(key.WithKeys("delete", "ctrl+d")),

		CompleteNext: key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next")),
		CompletePrev: key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("S-tab", "previous")),
		Accept:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "insert")),
		Dismiss:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),

		ListUp:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		ListDown:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		ListPageUp:   key.NewBinding(key.WithKeys("pgup", "g"), key.WithHelp("pgup/g", "up 5")),
		ListPageDown: key.NewBinding(key.WithKeys("pgdown", "G"), key.WithHelp("pgdn/G", "down 5")),
		ListDelete:   key.NewBinding(key.WithKeys("delete", "backspace"), key.WithHelp("del", "delete")),
		ListUndo:     key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo delete")),
		ListLoad:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "load")),
		ListBack:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	}
}

// mainHelp is the footer shown under the editor.
type mainHelp struct{ k keyMap }

func (h mainHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.k.Execute, h.k.Complete, h.k.HistoryPrev, h.k.Snippets, h.k.CachePrefix, h.k.Help, h.k.Quit}
}

func (h mainHelp) FullHelp() [][]key.Binding {
	k := h.k
	return [][]key.Binding{
		{k.Execute, k.Newline, k.KillWord, k.Complete, k.Clear, k.Copy},
		{k.HistoryPrev, k.HistoryNext, k.History, k.ToggleBookmark, k.Bookmarks},
		{k.Snippets, k.HelpViewer, k.OutputViewer, k.CachePrefix, k.DropCache},
		{k.Autoeval, k.Paranoid, k.Help, k.Quit},
	}
}

// listHelp is the footer shown in the bookmark and history views.
type listHelp struct{ k keyMap }

func (h listHelp) ShortHelp() []key.Binding {
	k := h.k
	return []key.Binding{k.ListUp, k.ListDown, k.ListPageUp, k.ListPageDown, k.ListDelete, k.ListUndo, k.ListLoad, k.ListBack}
}

func (h listHelp) FullHelp() [][]key.Binding { return [][]key.Binding{h.ShortHelp()} }

// helpMarkdown renders the key bindings as the body of the help window.
func helpMarkdown(k keyMap) string {
	var b strings.Builder
	b.WriteString("# pipr\n\nCompose shell pipelines and watch their output while you type.\n\n")
	section := func(title string, bindings ...key.Binding) {
		fmt.Fprintf(&b, "## %s\n\n| Key | Action |\n|---|---|\n", title)
		for _, kb := range bindings {
			hl := kb.Help()
			fmt.Fprintf(&b, "| `%s` | %s |\n", hl.Key, hl.Desc)
		}
		b.WriteString("\n")
	}
	section("Editing", k.Execute, k.Newline, k.KillWord, k.Complete, k.Clear, k.Copy, k.Snippets)
	section("History and bookmarks", k.HistoryPrev, k.HistoryNext, k.History, k.ToggleBookmark, k.Bookmarks)
	section("Evaluation", k.Autoeval, k.Paranoid, k.CachePrefix, k.DropCache)
	section("Viewers", k.HelpViewer, k.OutputViewer)
	section("Lists", k.ListUp, k.ListDown, k.ListPageUp, k.ListPageDown, k.ListDelete, k.ListUndo, k.ListLoad, k.ListBack)
	b.WriteString("Lines starting with `#` are not executed. ")
	b.WriteString("With a cached segment only the part after the `|` is re-run, fed with the cached output.\n")
	return b.String()
}
