package ui

import tea "github.com/charmbracelet/bubbletea"

// overlay floats over the main window. Either *autocompleteOverlay or
// *keySelectOverlay; nil when none is open.
type overlay interface {
	heading() string
}

type autocompleteOverlay struct {
	prompt  string
	options []string
	idx     int
}

func (o *autocompleteOverlay) heading() string { return "complete " + o.prompt }

func (o *autocompleteOverlay) next() { o.idx = (o.idx + 1) % len(o.options) }

func (o *autocompleteOverlay) prev() { o.idx = (o.idx - 1 + len(o.options)) % len(o.options) }

func (o *autocompleteOverlay) selected() string { return o.options[o.idx] }

type keyOption struct {
	key   rune
	label string
}

// keyAction tags what a key-select menu does with the chosen option.
type keyAction interface {
	name() string
}

// insertSnippet inserts the option label as a snippet.
type insertSnippet struct{}

func (insertSnippet) name() string { return "snippets" }

// openWordIn runs the option label, a help command already resolved for word.
type openWordIn struct{ word string }

func (a openWordIn) name() string { return "help for " + a.word }

// openOutputIn hands output to the viewer template in the option label.
type openOutputIn struct{ output string }

func (openOutputIn) name() string { return "view output" }

type keySelectOverlay struct {
	options []keyOption
	action  keyAction
}

func (o *keySelectOverlay) heading() string { return o.action.name() }

func (o *keySelectOverlay) lookup(r rune) (keyOption, bool) {
	for _, opt := range o.options {
		if opt.key == r {
			return opt, true
		}
	}
	return keyOption{}, false
}

// keyRune extracts the single character of a key press.
func keyRune(msg tea.KeyMsg) (rune, bool) {
	switch {
	case msg.Type == tea.KeySpace:
		return ' ', true
	case msg.Type == tea.KeyRunes && len(msg.Runes) == 1 && !msg.Alt:
		return msg.Runes[0], true
	}
	return 0, false
}
