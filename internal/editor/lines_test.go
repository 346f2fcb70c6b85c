package editor

import (
	"slices"
	"testing"
)

func TestWordAt(t *testing.T) {
	cases := []struct {
		s    string
		idx  int
		want string
	}{
		{"abc def ghi", 5, "def"},
		{"abc def ghi", 2, "abc"},
		{"abc def ghi", 0, "abc"},
		{"abc def ghi", 10, "ghi"},
		{"", 0, ""},
		{"", 2, ""},
		{"abc", 0, "abc"},
		{"abc", 3, "abc"},
		{"abc     def ghi", 3, "abc"},
		{"abc     def ghi", 4, ""},
		{"äää", 2, "äää"},
	}
	for _, tc := range cases {
		if got := WordAt(tc.s, tc.idx); got != tc.want {
			t.Fatalf("WordAt(%q, %d) = %q, want %q", tc.s, tc.idx, got, tc.want)
		}
	}
}

func TestSplitLinesAt(t *testing.T) {
	base := []string{"", "abcd", "abcd", "", "abcd"}
	left, right := SplitLinesAt(base, 2, 2)
	if !slices.Equal(left, []string{"", "abcd", "ab"}) || !slices.Equal(right, []string{"cd", "", "abcd"}) {
		t.Fatalf("unexpected split: %q | %q", left, right)
	}

	left, right = SplitLinesAt([]string{"abcd", "abcd"}, 0, 2)
	if !slices.Equal(left, []string{"ab"}) || !slices.Equal(right, []string{"cd", "abcd"}) {
		t.Fatalf("unexpected split: %q | %q", left, right)
	}

	left, right = SplitLinesAt([]string{"abcd", "abcd"}, 9, 99)
	if !slices.Equal(left, []string{"abcd", "abcd"}) || !slices.Equal(right, []string{""}) {
		t.Fatalf("unexpected clamped split: %q | %q", left, right)
	}

	if l, r := SplitLinesAt(nil, 0, 0); l != nil || r != nil {
		t.Fatalf("expected nil split for empty input")
	}
}
