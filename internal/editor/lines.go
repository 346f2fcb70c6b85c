package editor

import "strings"

// WordAt returns the space-delimited word at byte index idx of s. When idx
// sits on a space or at the end of s, the word ending just before it is
// used. Returns "" when there is no word.
func WordAt(s string, idx int) string {
	idx = max(0, min(idx, len(s)))
	adj := idx
	if (idx == len(s) || s[idx] == ' ') && idx > 0 {
		adj = idx - 1
	}
	if adj >= len(s) || s[adj] == ' ' {
		return ""
	}
	left := strings.LastIndexByte(s[:adj], ' ') + 1
	right := strings.IndexByte(s[adj:], ' ')
	if right < 0 {
		right = len(s)
	} else {
		right += adj
	}
	return s[left:right]
}

// SplitLinesAt splits lines at (line, col). The left side ends with
// lines[line][:col], the right side starts with lines[line][col:].
// Out-of-range positions are clamped.
func SplitLinesAt(lines []string, line, col int) (left, right []string) {
	if len(lines) == 0 {
		return nil, nil
	}
	line = max(0, min(line, len(lines)-1))
	col = max(0, min(col, len(lines[line])))
	left = append(left, lines[:line]...)
	left = append(left, lines[line][:col])
	right = append(right, lines[line][col:])
	right = append(right, lines[line+1:]...)
	return left, right
}
