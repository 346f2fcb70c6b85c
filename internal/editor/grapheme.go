package editor

import "github.com/rivo/uniseg"

// cluster is one grapheme cluster of a line: byte range plus display width.
type cluster struct {
	start, end int
	width      int
}

func clusters(s string) []cluster {
	var out []cluster
	state := -1
	off := 0
	rest := s
	for len(rest) > 0 {
		var (
			c string
			w int
		)
		c, rest, w, state = uniseg.FirstGraphemeClusterInString(rest, state)
		out = append(out, cluster{start: off, end: off + len(c), width: w})
		off += len(c)
	}
	return out
}

// prevBoundary returns the start of the grapheme ending at or spanning col.
func prevBoundary(s string, col int) int {
	prev := 0
	for _, c := range clusters(s) {
		if c.end >= col {
			return c.start
		}
		prev = c.end
	}
	return prev
}

// nextBoundary returns the end of the grapheme starting at or spanning col.
func nextBoundary(s string, col int) int {
	for _, c := range clusters(s) {
		if c.end > col {
			return c.end
		}
	}
	return len(s)
}

// snapForward moves col to the nearest boundary at or after it.
func snapForward(s string, col int) int {
	if col <= 0 {
		return 0
	}
	for _, c := range clusters(s) {
		if c.start >= col {
			return c.start
		}
		if c.end >= col {
			return c.end
		}
	}
	return len(s)
}

// displayWidth sums the cell widths of graphemes in s[:col].
func displayWidth(s string, col int) int {
	w := 0
	for _, c := range clusters(s) {
		if c.end > col {
			break
		}
		w += c.width
	}
	return w
}

// colForWidth returns the byte offset of the last boundary whose display
// width does not exceed width.
func colForWidth(s string, width int) int {
	col, w := 0, 0
	for _, c := range clusters(s) {
		if w+c.width > width {
			break
		}
		w += c.width
		col = c.end
	}
	return col
}

func graphemeAt(s string, col int) string {
	for _, c := range clusters(s) {
		if c.start == col {
			return s[c.start:c.end]
		}
	}
	return ""
}
