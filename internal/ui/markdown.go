package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/lipgloss"
)

// glamourStyle maps the palette onto glamour's markdown elements.
func glamourStyle(p palette) ansi.StyleConfig {
	hex := func(c lipgloss.Color) *string {
		s := string(c)
		if strings.HasPrefix(s, "#") && len(s) == 9 {
			s = s[:7]
		}
		return &s
	}
	sp := func(s string) *string { return &s }
	bp := func(b bool) *bool { return &b }
	margin := uint(1)

	return ansi.StyleConfig{
		Document: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{Color: hex(p.Text)},
			Margin:         &margin,
		},
		Heading: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{Color: hex(p.Primary), Bold: bp(true)},
		},
		H1: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{Prefix: "", Color: hex(p.Primary), Bold: bp(true)},
		},
		H2: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{Prefix: "", Color: hex(p.Blue), Bold: bp(true)},
		},
		Paragraph: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{Color: hex(p.Text)},
		},
		Code: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{Color: hex(p.Yellow), BackgroundColor: hex(p.BgSoft)},
		},
		Table: ansi.StyleTable{
			StyleBlock:      ansi.StyleBlock{StylePrimitive: ansi.StylePrimitive{Color: hex(p.Text)}},
			CenterSeparator: sp("┼"),
			ColumnSeparator: sp("│"),
			RowSeparator:    sp("─"),
		},
	}
}

// renderMarkdown renders md for the given width, falling back to the raw
// text when glamour fails.
func renderMarkdown(md string, width int) string {
	wrap := max(width-2, 10)
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(glamourStyle(vitesse)),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}
