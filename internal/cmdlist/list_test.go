package cmdlist

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func entry(lines ...string) Entry { return NewEntry(lines) }

func TestList_PushSuppressesDuplicatesAndEmpty(t *testing.T) {
	l := New("", 0)
	if !l.Push(entry("ls")) {
		t.Fatalf("expected first push to change list")
	}
	if l.Push(entry("ls")) {
		t.Fatalf("expected duplicate push to be ignored")
	}
	if l.Len() != 1 {
		t.Fatalf("expected len 1, got %d", l.Len())
	}
	if l.Push(entry("")) || l.Push(entry("  ", "")) {
		t.Fatalf("expected empty entries to be ignored")
	}
	// non-consecutive duplicates are kept
	l.Push(entry("pwd"))
	l.Push(entry("ls"))
	if l.Len() != 3 {
		t.Fatalf("expected len 3, got %d", l.Len())
	}
}

func TestList_EvictsOldest(t *testing.T) {
	l := New("", 2)
	l.Push(entry("a"))
	l.Push(entry("b"))
	l.Push(entry("c"))
	if l.Len() != 2 {
		t.Fatalf("expected len 2, got %d", l.Len())
	}
	first, _ := l.At(0)
	if first.String() != "b" {
		t.Fatalf("expected oldest entry evicted, first=%q", first.String())
	}
}

func TestList_ToggleIsIdempotent(t *testing.T) {
	l := New("", 0)
	l.Push(entry("keep"))
	x := entry("grep foo", "| wc -l")
	l.Toggle(x)
	if !l.Contains(x) {
		t.Fatalf("expected entry added by toggle")
	}
	l.Toggle(x)
	if l.Contains(x) || l.Len() != 1 {
		t.Fatalf("expected entry removed by second toggle, entries=%v", l.Entries())
	}
	l.Toggle(entry(""))
	if l.Len() != 1 {
		t.Fatalf("toggling empty entry must not mutate the list")
	}
}

func TestList_AtOutOfRange(t *testing.T) {
	l := New("", 0)
	if _, ok := l.At(0); ok {
		t.Fatalf("expected miss on empty list")
	}
	if _, ok := l.At(-1); ok {
		t.Fatalf("expected miss on negative index")
	}
}

func TestList_PersistAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history")
	l := New(path, 10)
	l.Push(entry("echo a"))
	l.Push(entry("cat file", "", "| sort"))
	l.Push(entry("echo b"))

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	want := "echo a\n---\ncat file\n\n| sort\n---\necho b"
	if string(b) != want {
		t.Fatalf("unexpected file content:\n%q\nwant\n%q", string(b), want)
	}

	got, err := Load(path, 2)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if got.Len() != 2 {
		t.Fatalf("expected max size applied on load, got %d", got.Len())
	}
	e, _ := got.At(0)
	if !e.Equal(entry("cat file", "", "| sort")) {
		t.Fatalf("unexpected entry after load: %q", e.Lines())
	}
}

func TestList_BlankEdgeLinesSurviveReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookmarks")
	x := entry("", "ls", "", "| wc -l", "")
	if got := strings.Join(x.Lines(), ","); got != "ls,,| wc -l" {
		t.Fatalf("entry lines = %q", got)
	}
	l := New(path, 0)
	l.Toggle(x)
	l.Push(entry("ls", ""))

	got, err := Load(path, 0)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !got.Contains(entry("ls", "")) || !got.Contains(x) {
		t.Fatalf("reloaded entries differ: %v", got.Entries())
	}
	if got.Push(entry("ls")) {
		t.Fatalf("push after reload should be deduped against the stored entry")
	}
	got.Toggle(x)
	if got.Contains(x) || got.Len() != 1 {
		t.Fatalf("toggle after reload should remove the bookmark, entries=%v", got.Entries())
	}
}

func TestList_LoadMissingFile(t *testing.T) {
	l, err := Load(filepath.Join(t.TempDir(), "missing"), 0)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if l.Len() != 0 {
		t.Fatalf("expected empty list, got %d", l.Len())
	}
}

func TestList_ReplaceRewritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookmarks")
	l := New(path, 0)
	l.Push(entry("a"))
	l.Push(entry("b"))
	l.Replace([]Entry{entry("b")})
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if string(b) != "b" {
		t.Fatalf("unexpected file content %q", string(b))
	}
}

func TestParse(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want [][]string
	}{
		{"empty", "", nil},
		{"single", "ls -la\n", [][]string{{"ls -la"}}},
		{"multi", "a\nb\n---\nc", [][]string{{"a", "b"}, {"c"}}},
		{"blank separators", "a\n---\n\n---\nb\n", [][]string{{"a"}, {"b"}}},
		{"crlf", "a\r\n---\r\nb", [][]string{{"a"}, {"b"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Parse(tc.in)
			if len(got) != len(tc.want) {
				t.Fatalf("expected %d entries, got %d (%v)", len(tc.want), len(got), got)
			}
			for i := range got {
				if !got[i].Equal(NewEntry(tc.want[i])) {
					t.Fatalf("entry %d: got %q want %q", i, got[i].Lines(), tc.want[i])
				}
			}
		})
	}
}
