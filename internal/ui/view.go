package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	var body string
	switch w := m.win.(type) {
	case *textWindow:
		body = renderPane(theme.Pane, w.title(), w.vp.View(), m.paneWidth())
	case *listWindow:
		body = m.viewList(w)
	default:
		body = m.viewMain()
	}
	return zone.Scan(lipgloss.JoinVertical(lipgloss.Left, body, m.viewStatusBar(), m.viewFooter()))
}

func (m Model) paneWidth() int {
	if m.width <= 0 {
		return 80
	}
	return m.width
}

func (m Model) paneHeight() int {
	if m.height <= 0 {
		return 24
	}
	return m.height
}

// layout sizes components that keep state across frames.
func (m *Model) layout() {
	inner := max(m.paneWidth()-4, 10)
	m.output.Width = inner
	if tw, ok := m.win.(*textWindow); ok && tw.rendered != inner {
		tw.vp = viewport.New(inner, max(m.paneHeight()-4, 3))
		tw.vp.SetContent(renderMarkdown(tw.markdown, inner))
		tw.rendered = inner
	}
}

func (m Model) viewMain() string {
	width := m.paneWidth()
	parts := []string{renderPane(theme.Pane, m.editorTitle(), m.viewEditor(width-4), width)}

	switch o := m.overlay.(type) {
	case *autocompleteOverlay:
		parts = append(parts, renderAutocomplete(o, width))
	case *keySelectOverlay:
		parts = append(parts, renderKeySelect(o, width))
	}
	if m.stderr != "" {
		parts = append(parts, renderPane(theme.ErrorPane, "stderr", theme.Error.Render(m.stderr), width))
	}

	used := 2 // status bar and footer
	for _, p := range parts {
		used += lipgloss.Height(p)
	}
	vp := m.output
	vp.Width = max(width-4, 10)
	vp.Height = max(m.paneHeight()-used-2, 1)
	parts = append(parts, renderPane(theme.Pane, "output", vp.View(), width))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) editorTitle() string {
	if m.historyIdx >= 0 {
		return fmt.Sprintf("pipr · history %d/%d", m.historyIdx+1, m.history.Len())
	}
	return "pipr"
}

// viewEditor renders every buffer line. The cursor line scrolls
// horizontally so the cursor stays visible.
func (m Model) viewEditor(inner int) string {
	lines := m.buf.Lines()
	curLine, _ := m.buf.Cursor()
	out := make([]string, len(lines))
	for i, s := range lines {
		r := m.renderBufferLine(i, s)
		if i == curLine {
			if off := m.buf.DisplayedCursorColumn() - inner + 2; off > 0 {
				r = xansi.Cut(r, off, off+inner)
			}
		}
		out[i] = xansi.Truncate(r, inner, "")
	}
	return strings.Join(out, "\n")
}

// renderBufferLine dims the cached prefix, highlights the rest and draws
// the cursor on the cursor line.
func (m Model) renderBufferLine(i int, s string) string {
	dimTo := 0
	if c := m.cache; c != nil {
		switch {
		case i < c.line:
			dimTo = len(s)
		case i == c.line:
			dimTo = min(c.col+1, len(s))
		}
	}
	paint := func(from, to int) string {
		if from >= to {
			return ""
		}
		var b strings.Builder
		if from < dimTo {
			end := min(to, dimTo)
			b.WriteString(theme.Prefix.Render(s[from:end]))
			from = end
		}
		if from < to {
			b.WriteString(highlightShell(s[from:to]))
		}
		return b.String()
	}
	line, col := m.buf.Cursor()
	if _, onMain := m.win.(mainWindow); i != line || !onMain {
		return paint(0, len(s))
	}
	h := m.buf.Hovered()
	cur := h
	if cur == "" {
		cur = " "
	}
	return paint(0, col) + theme.Cursor.Render(cur) + paint(col+len(h), len(s))
}

func (m Model) viewList(w *listWindow) string {
	width := m.paneWidth()
	inner := max(width-4, 10)
	rows := max(m.paneHeight()/2-2, 3)

	start := 0
	if w.selected >= rows {
		start = w.selected - rows + 1
	}
	end := min(len(w.entries), start+rows)
	var b strings.Builder
	if len(w.entries) == 0 {
		b.WriteString(theme.Muted.Render("empty · u restores the last deleted entry"))
	}
	for i := start; i < end; i++ {
		e := w.entries[i]
		label := e.FirstLine()
		if n := len(e.Lines()); n > 1 {
			label += fmt.Sprintf("  (+%d lines)", n-1)
		}
		row := fitWidth(fmt.Sprintf("%3d  %s", i+1, label), inner)
		if i == w.selected {
			row = theme.Selected.Render(row)
		}
		b.WriteString(zone.Mark(listRowZone(i), row))
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	title := fmt.Sprintf("%s (%d)", w.title(), len(w.entries))
	parts := []string{renderPane(theme.Pane, title, b.String(), width)}

	if e, ok := w.current(); ok {
		preview := make([]string, 0, len(e.Lines()))
		for _, l := range e.Lines() {
			preview = append(preview, xansi.Truncate(highlightShell(l), inner, "…"))
		}
		parts = append(parts, renderPane(theme.Pane, "preview", strings.Join(preview, "\n"), width))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewStatusBar() string {
	chip := func(on bool, label string) string {
		if on {
			return theme.ChipOn.Render(label)
		}
		return theme.ChipOff.Render(label)
	}
	left := []string{
		chip(m.autoeval, "autoeval"),
		chip(m.paranoid, "paranoid"),
		chip(m.backend == "isolated", m.backend),
	}
	if m.raw {
		left = append(left, theme.ChipWarn.Render("raw"))
	}
	if m.cache != nil {
		left = append(left, theme.ChipWarn.Render(fmt.Sprintf("cached %d", len(m.cache.output))))
	}
	if m.notice != "" {
		left = append(left, " "+m.notice)
	}

	var right []string
	if m.running {
		right = append(right, m.spinner.View())
	}
	if label := m.git.Label(); label != "" {
		right = append(right, "git "+label)
	}
	return renderStatusBar(m.paneWidth(), strings.Join(left, ""), strings.Join(right, "  ")+" ")
}

func (m Model) viewFooter() string {
	switch m.win.(type) {
	case *listWindow:
		return m.help.View(listHelp{m.keys})
	case *textWindow:
		return theme.OverlayHint.Render("↑/↓ scroll · any other key returns")
	}
	return m.help.View(mainHelp{m.keys})
}
