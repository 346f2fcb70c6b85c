package ui

import "github.com/charmbracelet/lipgloss"

// palette is Vitesse Dark Soft:
// https://github.com/antfu/vscode-theme-vitesse/blob/main/themes/vitesse-dark-soft.json
type palette struct {
	Primary lipgloss.Color
	Blue    lipgloss.Color
	Yellow  lipgloss.Color
	Magenta lipgloss.Color
	Red     lipgloss.Color

	Text      lipgloss.Color
	Secondary lipgloss.Color
	Muted     lipgloss.Color

	Bg       lipgloss.Color
	BgSoft   lipgloss.Color
	Border   lipgloss.Color
	OnAccent lipgloss.Color

	BarFG lipgloss.AdaptiveColor
	BarBG lipgloss.AdaptiveColor
}

var vitesse = palette{
	Primary: lipgloss.Color("#4d9375"),
	Blue:    lipgloss.Color("#6394bf"),
	Yellow:  lipgloss.Color("#e6cc77"),
	Magenta: lipgloss.Color("#d9739f"),
	Red:     lipgloss.Color("#cb7676"),

	Text:      lipgloss.Color("#dbd7caee"),
	Secondary: lipgloss.Color("#bfbaaa"),
	Muted:     lipgloss.Color("#dedcd590"),

	Bg:       lipgloss.Color("#181818"),
	BgSoft:   lipgloss.Color("#292929"),
	Border:   lipgloss.Color("#3a3a3a"),
	OnAccent: lipgloss.Color("#222"),

	BarFG: lipgloss.AdaptiveColor{Light: "#343433", Dark: "#bfbaaa"},
	BarBG: lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#222"},
}

// styles is built once at startup and shared read-only by every view.
type styles struct {
	Pane        lipgloss.Style
	ErrorPane   lipgloss.Style
	PaneTitle   lipgloss.Style
	Prefix      lipgloss.Style
	Cursor      lipgloss.Style
	Error       lipgloss.Style
	Muted       lipgloss.Style
	Selected    lipgloss.Style
	Key         lipgloss.Style
	Bar         lipgloss.Style
	ChipOn      lipgloss.Style
	ChipOff     lipgloss.Style
	ChipWarn    lipgloss.Style
	Overlay     lipgloss.Style
	OverlayHint lipgloss.Style
}

func newStyles(p palette) styles {
	chip := lipgloss.NewStyle().Foreground(p.OnAccent).Padding(0, 1)
	return styles{
		Pane:        lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.Border).Padding(0, 1),
		ErrorPane:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.Red).Padding(0, 1),
		PaneTitle:   lipgloss.NewStyle().Bold(true).Foreground(p.Primary),
		Prefix:      lipgloss.NewStyle().Foreground(p.Muted).Faint(true),
		Cursor:      lipgloss.NewStyle().Reverse(true),
		Error:       lipgloss.NewStyle().Foreground(p.Red),
		Muted:       lipgloss.NewStyle().Foreground(p.Muted),
		Selected:    lipgloss.NewStyle().Bold(true).Foreground(p.Primary),
		Key:         lipgloss.NewStyle().Bold(true).Foreground(p.Yellow),
		Bar:         lipgloss.NewStyle().Foreground(p.BarFG).Background(p.BarBG),
		ChipOn:      chip.Background(p.Primary),
		ChipOff:     chip.Background(p.Secondary),
		ChipWarn:    chip.Background(p.Yellow),
		Overlay:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.Primary).Padding(0, 1),
		OverlayHint: lipgloss.NewStyle().Foreground(p.Muted).Italic(true),
	}
}

var theme = newStyles(vitesse)
