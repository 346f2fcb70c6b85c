package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-runewidth"
)

// maxOverlayItems bounds the rows an overlay shows at once.
const maxOverlayItems = 10

// renderStatusBar lays out left and right segments on one line of width,
// trimming the left side first.
func renderStatusBar(width int, left, right string) string {
	if width <= 0 {
		width = 80
	}
	lw := xansi.StringWidth(left)
	rw := xansi.StringWidth(right)
	if lw+rw+1 > width {
		left = xansi.Truncate(left, max(0, width-rw-1), "…")
		lw = xansi.StringWidth(left)
	}
	pad := max(0, width-lw-rw)
	return theme.Bar.Render(left + strings.Repeat(" ", pad) + right)
}

// renderPane draws body in a rounded box of the given outer width with the
// title embedded in the top border.
func renderPane(style lipgloss.Style, title string, body string, width int) string {
	box := style.Width(max(width-style.GetHorizontalBorderSize(), 1)).Render(body)
	if title == "" {
		return box
	}
	lines := strings.SplitN(box, "\n", 2)
	label := " " + theme.PaneTitle.Render(title) + " "
	top := lines[0]
	if xansi.StringWidth(top) > xansi.StringWidth(label)+4 {
		top = xansi.Cut(top, 0, 2) + label + xansi.Cut(top, 2+xansi.StringWidth(label), xansi.StringWidth(top))
	}
	if len(lines) == 1 {
		return top
	}
	return top + "\n" + lines[1]
}

// fitWidth truncates or pads plain text to exactly w cells.
func fitWidth(s string, w int) string {
	if w <= 0 {
		return ""
	}
	return runewidth.FillRight(runewidth.Truncate(s, w, "…"), w)
}

// renderAutocomplete draws the candidate list below the editor.
func renderAutocomplete(o *autocompleteOverlay, width int) string {
	inner := max(width-4, 10)
	start := 0
	if o.idx >= maxOverlayItems {
		start = o.idx - maxOverlayItems + 1
	}
	end := min(len(o.options), start+maxOverlayItems)
	var b strings.Builder
	for i := start; i < end; i++ {
		row := fitWidth("  "+o.options[i], inner)
		if i == o.idx {
			row = theme.Selected.Render(fitWidth("› "+o.options[i], inner))
		}
		b.WriteString(zone.Mark(candidateZone(i), row))
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	hint := theme.OverlayHint.Render(fmt.Sprintf("%d/%d · tab/S-tab cycle · enter insert · esc close", o.idx+1, len(o.options)))
	return renderPane(theme.Overlay, o.heading(), b.String()+"\n"+hint, width)
}

// renderKeySelect draws the options of a key-select menu.
func renderKeySelect(o *keySelectOverlay, width int) string {
	inner := max(width-4, 10)
	var b strings.Builder
	for i, opt := range o.options {
		if i == maxOverlayItems*2 {
			break
		}
		label := runewidth.Truncate(opt.label, max(inner-4, 1), "…")
		fmt.Fprintf(&b, "%s  %s", theme.Key.Render(string(opt.key)), label)
		if i < len(o.options)-1 {
			b.WriteString("\n")
		}
	}
	hint := theme.OverlayHint.Render("press a key · any other key closes")
	return renderPane(theme.Overlay, o.heading(), strings.TrimRight(b.String(), "\n")+"\n"+hint, width)
}
