package config

import "strings"

// Placeholder is substituted in viewer command templates.
const Placeholder = "??"

// CommandTemplate is a viewer command containing Placeholder.
type CommandTemplate string

// HasPlaceholder reports whether the template references its argument.
func (t CommandTemplate) HasPlaceholder() bool {
	return strings.Contains(string(t), Placeholder)
}

// Resolve substitutes every placeholder with arg.
func (t CommandTemplate) Resolve(arg string) string {
	return strings.ReplaceAll(string(t), Placeholder, arg)
}
