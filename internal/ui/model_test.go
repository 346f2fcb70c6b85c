package ui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"pipr/internal/cmdlist"
	"pipr/internal/config"
	"pipr/internal/engine"
)

func TestMain(m *testing.M) {
	zone.NewGlobal()
	os.Exit(m.Run())
}

type fakeRunner struct {
	submitted []engine.Request
	blocking  []string
	blockOut  []string
	blockErr  error
	timeout   time.Duration
	results   chan engine.Result
}

func newFakeRunner() *fakeRunner { return &fakeRunner{results: make(chan engine.Result, 1)} }

func (f *fakeRunner) Submit(req engine.Request) uint64 {
	f.submitted = append(f.submitted, req)
	return uint64(len(f.submitted))
}

func (f *fakeRunner) Results() <-chan engine.Result { return f.results }

func (f *fakeRunner) RunBlocking(_ context.Context, command string) ([]string, error) {
	f.blocking = append(f.blocking, command)
	return f.blockOut, f.blockErr
}

func (f *fakeRunner) SetTimeout(d time.Duration) { f.timeout = d }

func (f *fakeRunner) last() engine.Request { return f.submitted[len(f.submitted)-1] }

func newTestModel(t *testing.T, r *fakeRunner, autoeval bool) Model {
	t.Helper()
	cfg := config.Default()
	cfg.AutoevalDefault = autoeval
	return New(Options{
		Runner:    r,
		History:   cmdlist.New("", 0),
		Bookmarks: cmdlist.New("", 0),
		Config:    cfg,
		Backend:   "direct",
		WorkDir:   t.TempDir(),
	})
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func keyOf(t tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: t} }

func press(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func typeText(m Model, s string) Model {
	for _, r := range s {
		m = press(m, runes(string(r)))
	}
	return m
}

func TestAutoevalRerunsOnlyOnContentChange(t *testing.T) {
	r := newFakeRunner()
	m := newTestModel(t, r, true)

	m = typeText(m, "ls")
	if len(r.submitted) != 2 {
		t.Fatalf("submissions after typing = %d, want 2", len(r.submitted))
	}
	m = press(m, keyOf(tea.KeyLeft), keyOf(tea.KeyHome), keyOf(tea.KeyEnd))
	if len(r.submitted) != 2 {
		t.Fatalf("cursor moves re-ran the command: %d submissions", len(r.submitted))
	}
	m = press(m, keyOf(tea.KeyF2))
	if m.autoeval {
		t.Fatalf("F2 should disable autoeval")
	}
	m = typeText(m, "x")
	if len(r.submitted) != 2 {
		t.Fatalf("edit with autoeval off submitted a run")
	}
	if got := r.last().Command; got != "ls" {
		t.Fatalf("last command = %q", got)
	}
}

func TestEnterPushesHistoryAndRuns(t *testing.T) {
	r := newFakeRunner()
	m := newTestModel(t, r, false)
	m = typeText(m, "echo hi")
	m = press(m, keyOf(tea.KeyEnter))

	if len(r.submitted) != 1 || r.last().Command != "echo hi" {
		t.Fatalf("submitted = %+v", r.submitted)
	}
	if m.history.Len() != 1 {
		t.Fatalf("history len = %d", m.history.Len())
	}
	if !m.running {
		t.Fatalf("model should be running after submit")
	}
}

func TestStaleResultsIgnored(t *testing.T) {
	r := newFakeRunner()
	m := newTestModel(t, r, false)
	m = typeText(m, "a")
	m = press(m, keyOf(tea.KeyEnter))
	m = typeText(m, "b")
	m = press(m, keyOf(tea.KeyEnter))

	m = press(m, resultMsg{res: engine.Result{Seq: 1, Status: engine.StatusOK, Output: "old"}})
	if m.stdout != "" || !m.running {
		t.Fatalf("stale result applied: stdout=%q running=%v", m.stdout, m.running)
	}
	m = press(m, resultMsg{res: engine.Result{Seq: 2, Status: engine.StatusOK, Output: "new"}})
	if m.stdout != "new" || m.running {
		t.Fatalf("latest result not applied: stdout=%q running=%v", m.stdout, m.running)
	}
}

func TestFailureKeepsLastOutput(t *testing.T) {
	r := newFakeRunner()
	m := newTestModel(t, r, false)
	m.paranoid = true
	m = typeText(m, "ok")
	m = press(m, keyOf(tea.KeyEnter))
	m = press(m, resultMsg{res: engine.Result{Seq: 1, Status: engine.StatusOK, Output: "fine"}})

	m = typeText(m, "x")
	m = press(m, keyOf(tea.KeyEnter))
	m = press(m, resultMsg{res: engine.Result{Seq: 2, Status: engine.StatusRuntimeFailure, Output: "boom"}})

	if m.stdout != "fine" {
		t.Fatalf("stdout = %q, want previous output", m.stdout)
	}
	if m.stderr != "boom" {
		t.Fatalf("stderr = %q", m.stderr)
	}
	// enter pushed "ok" and "okx"; the successful run pushed "ok" again, deduped
	if m.history.Len() != 2 {
		t.Fatalf("history len = %d, want 2", m.history.Len())
	}
}

func TestParanoidHistoryPushesSuccessfulRuns(t *testing.T) {
	r := newFakeRunner()
	m := newTestModel(t, r, true)
	m = press(m, keyOf(tea.KeyF3))
	m = typeText(m, "ls")
	m = press(m, resultMsg{res: engine.Result{Seq: uint64(len(r.submitted)), Status: engine.StatusOK, Output: "x"}})
	if !m.history.Contains(cmdlist.NewEntry([]string{"ls"})) {
		t.Fatalf("paranoid mode should record successful runs: %v", m.history.Entries())
	}
}

func seedList(l *cmdlist.List, cmds ...string) {
	for _, c := range cmds {
		l.Push(cmdlist.NewEntry([]string{c}))
	}
}

func TestHistoryNavigation(t *testing.T) {
	m := newTestModel(t, newFakeRunner(), false)
	seedList(m.history, "one", "two")
	m = typeText(m, "draft")

	steps := []struct {
		key  tea.KeyType
		want string
	}{
		{tea.KeyCtrlP, "two"},
		{tea.KeyCtrlP, "one"},
		{tea.KeyCtrlP, "one"},
		{tea.KeyCtrlN, "two"},
		{tea.KeyCtrlN, ""},
	}
	for i, st := range steps {
		m = press(m, keyOf(st.key))
		if got := m.Content(); got != st.want {
			t.Fatalf("step %d: content = %q, want %q", i, got, st.want)
		}
	}
	if m.historyIdx != -1 {
		t.Fatalf("navigation should end past the newest entry, idx=%d", m.historyIdx)
	}
	if !m.history.Contains(cmdlist.NewEntry([]string{"draft"})) {
		t.Fatalf("draft should have been stashed in history")
	}
}

func TestBookmarkToggle(t *testing.T) {
	m := newTestModel(t, newFakeRunner(), false)
	m = press(m, keyOf(tea.KeyCtrlS))
	if m.bookmarks.Len() != 0 {
		t.Fatalf("empty buffer was bookmarked")
	}
	m = typeText(m, "ls")
	m = press(m, keyOf(tea.KeyCtrlS))
	if m.bookmarks.Len() != 1 {
		t.Fatalf("bookmark not added")
	}
	m = press(m, keyOf(tea.KeyCtrlS))
	if m.bookmarks.Len() != 0 {
		t.Fatalf("second toggle should remove the bookmark")
	}
}

func TestListViewEditsCommitOnExit(t *testing.T) {
	m := newTestModel(t, newFakeRunner(), false)
	seedList(m.bookmarks, "a", "b", "c", "d", "e", "f", "g")

	m = press(m, keyOf(tea.KeyCtrlB))
	w, ok := m.win.(*listWindow)
	if !ok {
		t.Fatalf("bookmarks view not open: %T", m.win)
	}
	if w.selected != 6 {
		t.Fatalf("initial selection = %d, want newest", w.selected)
	}
	m = press(m, keyOf(tea.KeyPgUp))
	if w.selected != 1 {
		t.Fatalf("page up: selected = %d", w.selected)
	}
	m = press(m, keyOf(tea.KeyPgUp), runes("k"))
	if w.selected != 0 {
		t.Fatalf("selection should clamp at 0, got %d", w.selected)
	}
	m = press(m, keyOf(tea.KeyPgDown))
	if w.selected != 5 {
		t.Fatalf("page down: selected = %d", w.selected)
	}
	m = press(m, keyOf(tea.KeyDelete))
	if len(w.entries) != 6 || m.bookmarks.Len() != 7 {
		t.Fatalf("delete should only touch the view copy: view=%d list=%d", len(w.entries), m.bookmarks.Len())
	}
	m = press(m, runes("u"))
	if w.selected != 6 || w.entries[6].String() != "f" {
		t.Fatalf("undo should re-append and select: sel=%d", w.selected)
	}
	m = press(m, keyOf(tea.KeyEscape))
	if _, ok := m.win.(mainWindow); !ok {
		t.Fatalf("esc should return to main")
	}
	var got []string
	for _, e := range m.bookmarks.Entries() {
		got = append(got, e.String())
	}
	if strings.Join(got, ",") != "a,b,c,d,e,g,f" {
		t.Fatalf("bookmarks after exit = %v", got)
	}
}

func TestHistoryViewLoadsSelection(t *testing.T) {
	m := newTestModel(t, newFakeRunner(), false)
	seedList(m.history, "one", "two", "three")

	m = press(m, keyOf(tea.KeyF4), keyOf(tea.KeyUp), keyOf(tea.KeyEnter))
	if got := m.Content(); got != "two" {
		t.Fatalf("content = %q", got)
	}
	if m.historyIdx != 1 {
		t.Fatalf("historyIdx = %d", m.historyIdx)
	}
	if _, ok := m.win.(mainWindow); !ok {
		t.Fatalf("loading should return to main")
	}
}

func TestListToggleSwitchesKind(t *testing.T) {
	m := newTestModel(t, newFakeRunner(), false)
	m = press(m, keyOf(tea.KeyF4), keyOf(tea.KeyCtrlB))
	if w, ok := m.win.(*listWindow); !ok || w.kind != listBookmarks {
		t.Fatalf("expected bookmarks view, got %T", m.win)
	}
	m = press(m, keyOf(tea.KeyCtrlB))
	if _, ok := m.win.(mainWindow); !ok {
		t.Fatalf("same key should close the view")
	}
}

func TestHelpWindow(t *testing.T) {
	m := newTestModel(t, newFakeRunner(), false)
	m = press(m, tea.WindowSizeMsg{Width: 80, Height: 24}, keyOf(tea.KeyF1))
	if _, ok := m.win.(*textWindow); !ok {
		t.Fatalf("F1 should open help, got %T", m.win)
	}
	m = press(m, runes("x"))
	if _, ok := m.win.(mainWindow); !ok {
		t.Fatalf("any key should leave help")
	}
	if m.Content() != "" {
		t.Fatalf("key leaving help must not edit the buffer")
	}
}

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		p := filepath.Join(dir, n)
		if strings.HasSuffix(n, "/") {
			if err := os.MkdirAll(p, 0o755); err != nil {
				t.Fatal(err)
			}
			continue
		}
		if err := os.WriteFile(p, nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestAutocomplete(t *testing.T) {
	m := newTestModel(t, newFakeRunner(), false)
	writeFiles(t, m.cwd, "alpha.txt", "alpine/", "beta")

	m = typeText(m, "cat be")
	m = press(m, keyOf(tea.KeyTab))
	if got := m.Content(); got != "cat beta" {
		t.Fatalf("single completion: %q", got)
	}

	m = press(m, keyOf(tea.KeyCtrlX))
	m = typeText(m, "cat al")
	m = press(m, keyOf(tea.KeyTab))
	o, ok := m.overlay.(*autocompleteOverlay)
	if !ok {
		t.Fatalf("expected autocomplete overlay, got %T", m.overlay)
	}
	if strings.Join(o.options, ",") != "alpha.txt,alpine/" {
		t.Fatalf("options = %v", o.options)
	}
	m = press(m, keyOf(tea.KeyTab), keyOf(tea.KeyTab), keyOf(tea.KeyShiftTab))
	if o.idx != 1 {
		t.Fatalf("idx = %d", o.idx)
	}
	m = press(m, keyOf(tea.KeyEnter))
	if got := m.Content(); got != "cat alpine/" {
		t.Fatalf("accepted completion: %q", got)
	}
	if m.overlay != nil {
		t.Fatalf("overlay should close after accept")
	}
}

func TestAutocompleteYieldsOtherKeys(t *testing.T) {
	m := newTestModel(t, newFakeRunner(), false)
	writeFiles(t, m.cwd, "alpha", "alps")

	m = typeText(m, "al")
	m = press(m, keyOf(tea.KeyTab))
	if m.overlay == nil {
		t.Fatalf("overlay not open")
	}
	m = press(m, runes("x"))
	if m.overlay != nil || m.Content() != "alx" {
		t.Fatalf("overlay=%v content=%q", m.overlay, m.Content())
	}

	m = press(m, keyOf(tea.KeyBackspace), keyOf(tea.KeyTab), keyOf(tea.KeyEscape))
	if m.quitting || m.overlay != nil {
		t.Fatalf("esc should only close the overlay")
	}
}

func TestAutocompleteRequiresBlankUnderCursor(t *testing.T) {
	m := newTestModel(t, newFakeRunner(), false)
	writeFiles(t, m.cwd, "alpha")
	m = typeText(m, "al")
	m = press(m, keyOf(tea.KeyLeft), keyOf(tea.KeyTab))
	if m.Content() != "al" || m.overlay != nil {
		t.Fatalf("completion ran with a character under the cursor")
	}
}

func TestSnippetInsertion(t *testing.T) {
	m := newTestModel(t, newFakeRunner(), false)
	m = typeText(m, "ls")
	m = press(m, keyOf(tea.KeyCtrlV))
	if _, ok := m.overlay.(*keySelectOverlay); !ok {
		t.Fatalf("snippet menu not open")
	}
	m = press(m, runes("s"))
	m = typeText(m, "x")
	if got := m.Content(); got != "ls | sed -r 's/x//g'" {
		t.Fatalf("content = %q", got)
	}
}

func TestKeySelectConsumesUnknownKeys(t *testing.T) {
	m := newTestModel(t, newFakeRunner(), false)
	m = press(m, keyOf(tea.KeyCtrlV), runes("Q"))
	if m.overlay != nil || m.Content() != "" {
		t.Fatalf("unknown key should close the menu without editing")
	}
	m = press(m, keyOf(tea.KeyCtrlV), keyOf(tea.KeyF2))
	if m.autoeval != m.cfg.AutoevalDefault || m.overlay != nil {
		t.Fatalf("non-character key should close the menu and be consumed")
	}
}

func TestCachePrefix(t *testing.T) {
	r := newFakeRunner()
	r.blockOut = []string{"l1", "l2"}
	m := newTestModel(t, r, false)
	m.buf.SetContent([]string{"cat f | grep x"})
	m.buf.SetCursor(0, 6)

	m = press(m, keyOf(tea.KeyF7))
	if len(r.blocking) != 1 || strings.TrimSpace(r.blocking[0]) != "cat f" {
		t.Fatalf("blocking runs = %q", r.blocking)
	}
	if m.cache == nil {
		t.Fatalf("cache not set")
	}
	req := m.request()
	if req.Command != " grep x" || strings.Join(req.Stdin, ",") != "l1,l2" {
		t.Fatalf("request = %+v", req)
	}

	m = press(m, keyOf(tea.KeyEnd))
	m = typeText(m, "y")
	if m.cache == nil {
		t.Fatalf("edit after the pipe dropped the cache")
	}

	m = press(m, keyOf(tea.KeyHome))
	m = typeText(m, "z")
	if m.cache != nil {
		t.Fatalf("edit before the pipe kept the cache")
	}
}

func TestCacheInvalidatedAtAnchor(t *testing.T) {
	r := newFakeRunner()
	m := newTestModel(t, r, false)
	m.buf.SetContent([]string{"a | b"})
	m.buf.SetCursor(0, 2)
	m = press(m, keyOf(tea.KeyF7))
	if m.cache == nil {
		t.Fatalf("cache not set")
	}
	// deleting the pipe itself is an edit at the anchor
	m = press(m, keyOf(tea.KeyDelete))
	if m.cache != nil {
		t.Fatalf("cache survived deleting its pipe")
	}
}

func TestCachePrefixErrors(t *testing.T) {
	r := newFakeRunner()
	m := newTestModel(t, r, false)
	m = typeText(m, "ls")
	m = press(m, keyOf(tea.KeyF7))
	if len(r.blocking) != 0 || m.notice == "" {
		t.Fatalf("cache outside a pipe should only show a notice")
	}

	r.blockErr = errors.New("boom")
	m.buf.SetContent([]string{"false | cat"})
	m.buf.SetCursor(0, 6)
	m = press(m, keyOf(tea.KeyF7))
	if m.cache != nil || m.stderr != "could not run command to cache: boom" {
		t.Fatalf("cache=%v stderr=%q", m.cache, m.stderr)
	}
}

func TestQuitCommitsBuffer(t *testing.T) {
	m := newTestModel(t, newFakeRunner(), false)
	m = typeText(m, "ls")
	next, cmd := m.Update(keyOf(tea.KeyEscape))
	m = next.(Model)
	if !m.quitting || cmd == nil {
		t.Fatalf("esc should quit")
	}
	if m.history.Len() != 1 {
		t.Fatalf("buffer not committed to history")
	}
	if m.View() != "" {
		t.Fatalf("view should be empty after quit")
	}
}

func TestConfigReloadUpdatesTimeout(t *testing.T) {
	r := newFakeRunner()
	m := newTestModel(t, r, false)
	cfg := config.Default()
	cfg.Timeout = "3s"
	m = press(m, configLoadedMsg{cfg: cfg})
	if r.timeout != 3*time.Second {
		t.Fatalf("timeout = %v", r.timeout)
	}
	m = press(m, configLoadedMsg{err: errors.New("bad yaml")})
	if !strings.Contains(m.notice, "bad yaml") {
		t.Fatalf("notice = %q", m.notice)
	}
}

func TestComposeCommand(t *testing.T) {
	lines := []string{"cat f", "  # skipped", "| wc -l"}
	if got := composeCommand(lines, false); got != "cat f | wc -l" {
		t.Fatalf("joined = %q", got)
	}
	if got := composeCommand(lines, true); got != "cat f\n| wc -l" {
		t.Fatalf("raw = %q", got)
	}
}

func TestView(t *testing.T) {
	m := newTestModel(t, newFakeRunner(), false)
	m = press(m, tea.WindowSizeMsg{Width: 80, Height: 24})
	m = typeText(m, "echo hi")
	m = press(m, keyOf(tea.KeyEnter), resultMsg{res: engine.Result{Seq: 1, Status: engine.StatusOK, Output: "hi"}})

	v := m.View()
	for _, want := range []string{"pipr", "output", "hi", "autoeval"} {
		if !strings.Contains(v, want) {
			t.Fatalf("view missing %q:\n%s", want, v)
		}
	}
	m = press(m, keyOf(tea.KeyF4))
	if v := m.View(); !strings.Contains(v, "History") {
		t.Fatalf("history view missing title:\n%s", v)
	}
}

func TestWithoutRunner(t *testing.T) {
	m := New(Options{Config: config.Default(), WorkDir: t.TempDir()})
	m.buf.SetContent([]string{"a | b"})
	m.buf.SetCursor(0, 2)
	m = press(m, keyOf(tea.KeyF7), keyOf(tea.KeyEnter), runes("x"))
	if m.cache != nil || m.running {
		t.Fatalf("cache=%v running=%v without a runner", m.cache, m.running)
	}
	if m.Init() == nil {
		t.Fatalf("Init should still schedule ticks")
	}
}
