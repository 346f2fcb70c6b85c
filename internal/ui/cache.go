package ui

import (
	"slices"
	"strings"

	"pipr/internal/editor"
)

// cachedSegment freezes the output of the pipeline up to and including the
// pipe at (line, col). Only the text after the pipe is re-run, with output
// fed to its stdin.
type cachedSegment struct {
	line, col int
	prefix    []string
	output    []string
}

func prefixThrough(lines []string, line, col int) []string {
	left, _ := editor.SplitLinesAt(lines, line, col+1)
	return left
}

// invalidatedBy reports whether an edit made with the cursor at
// (editLine, editCol), resulting in lines, touched the cached prefix.
func (c *cachedSegment) invalidatedBy(lines []string, editLine, editCol int) bool {
	if editLine < c.line || (editLine == c.line && editCol <= c.col) {
		return true
	}
	if c.line >= len(lines) || c.col >= len(lines[c.line]) {
		return true
	}
	return !slices.Equal(prefixThrough(lines, c.line, c.col), c.prefix)
}

// remainder returns the lines after the cached pipe.
func (c *cachedSegment) remainder(lines []string) []string {
	_, right := editor.SplitLinesAt(lines, c.line, c.col+1)
	return right
}

// composeCommand drops comment lines and joins the rest into one command.
func composeCommand(lines []string, raw bool) string {
	kept := make([]string, 0, len(lines))
	for _, l := range lines {
		if strings.HasPrefix(strings.TrimLeft(l, " \t"), "#") {
			continue
		}
		kept = append(kept, l)
	}
	sep := " "
	if raw {
		sep = "\n"
	}
	return strings.Join(kept, sep)
}
