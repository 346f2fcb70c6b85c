package ui

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"pipr/internal/cmdlist"
	"pipr/internal/config"
	"pipr/internal/engine"
	"pipr/internal/system"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.layout()
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case runNowMsg:
		return m, m.execute()
	case resultMsg:
		m.applyResult(msg.res)
		return m, waitResult(m.runner)
	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tickMsg:
		// git is polled every 10 seconds
		if m.lastGitCheck.IsZero() || time.Time(msg).Sub(m.lastGitCheck) >= 10*time.Second {
			m.lastGitCheck = time.Time(msg)
			return m, tea.Batch(tickCmd(), gitStatusCmd(m.cwd))
		}
		return m, tickCmd()
	case gitStatusMsg:
		m.git = msg.status
		return m, nil
	case configChangedMsg:
		return m, tea.Batch(loadConfigCmd(m.configPath), watchConfigCmd(m.changes))
	case configLoadedMsg:
		if msg.err != nil {
			system.Logger.Warn("config reload failed", "err", msg.err)
			m.notice = "config not reloaded: " + msg.err.Error()
			return m, nil
		}
		m.applyConfig(msg.cfg)
		m.notice = "config reloaded"
		return m, nil
	case viewerFinishedMsg:
		if msg.tempFile != "" {
			_ = os.Remove(msg.tempFile)
		}
		if msg.err != nil {
			m.notice = "viewer: " + msg.err.Error()
		}
		return m, nil
	case noticeMsg:
		m.notice = string(msg)
		return m, nil
	}
	return m, nil
}

// handleKey routes msg and re-runs the buffer when its content changed.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	before := m.buf.Lines()
	line, col := m.buf.Cursor()
	m.notice = ""

	cmd := m.route(msg)
	if m.quitting {
		return m, tea.Quit
	}
	if !slices.Equal(before, m.buf.Lines()) {
		cmd = tea.Batch(cmd, m.contentChanged(line, col))
	}
	return m, cmd
}

func (m *Model) route(msg tea.KeyMsg) tea.Cmd {
	if _, onMain := m.win.(mainWindow); onMain && m.overlay != nil {
		if consumed, cmd := m.handleOverlay(msg); consumed {
			return cmd
		}
	}
	switch {
	case key.Matches(msg, m.keys.Help):
		m.toggleHelp()
		return nil
	case key.Matches(msg, m.keys.Bookmarks):
		m.toggleList(listBookmarks)
		return nil
	case key.Matches(msg, m.keys.History):
		m.toggleList(listHistory)
		return nil
	}
	switch w := m.win.(type) {
	case mainWindow:
		return m.handleMainKey(msg)
	case *textWindow:
		m.handleTextKey(w, msg)
	case *listWindow:
		m.handleListKey(w, msg)
	}
	return nil
}

// handleOverlay offers msg to the open overlay. It reports false when the
// overlay closed without handling the key, so the window handler runs.
func (m *Model) handleOverlay(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch o := m.overlay.(type) {
	case *autocompleteOverlay:
		switch {
		case key.Matches(msg, m.keys.CompleteNext):
			o.next()
			return true, nil
		case key.Matches(msg, m.keys.CompletePrev):
			o.prev()
			return true, nil
		case key.Matches(msg, m.keys.Accept):
			m.buf.InsertText(strings.TrimPrefix(o.selected(), o.prompt))
			m.overlay = nil
			return true, nil
		case key.Matches(msg, m.keys.Dismiss):
			m.overlay = nil
			return true, nil
		}
		m.overlay = nil
		return false, nil
	case *keySelectOverlay:
		m.overlay = nil
		r, ok := keyRune(msg)
		if !ok {
			return true, nil
		}
		opt, ok := o.lookup(r)
		if !ok {
			return true, nil
		}
		return true, m.runKeyAction(o.action, opt)
	}
	return false, nil
}

func (m *Model) runKeyAction(action keyAction, opt keyOption) tea.Cmd {
	switch a := action.(type) {
	case insertSnippet:
		s := config.ParseSnippet(opt.label)
		m.buf.InsertWithCursor(s.Text, s.CursorOffset)
	case openWordIn:
		return m.openHelpViewer(opt.label)
	case openOutputIn:
		return m.openOutputViewer(config.CommandTemplate(opt.label), a.output)
	}
	return nil
}

func (m *Model) handleMainKey(msg tea.KeyMsg) tea.Cmd {
	k := m.keys
	switch {
	case key.Matches(msg, k.Execute):
		m.history.Push(m.buf.Entry())
		return m.execute()
	case key.Matches(msg, k.Newline):
		m.buf.NewLine()
	case key.Matches(msg, k.KillWord):
		m.buf.KillWordBack()
	case key.Matches(msg, k.Complete):
		m.openAutocomplete()
	case key.Matches(msg, k.ToggleBookmark):
		m.toggleBookmark()
	case key.Matches(msg, k.HistoryPrev):
		m.historyPrev()
	case key.Matches(msg, k.HistoryNext):
		m.historyNext()
	case key.Matches(msg, k.Snippets):
		m.openKeySelect(config.Triggers(m.cfg.Snippets), insertSnippet{})
	case key.Matches(msg, k.Clear):
		m.history.Push(m.buf.Entry())
		m.buf.Clear()
		m.cache = nil
		m.resetHistoryNav()
	case key.Matches(msg, k.Copy):
		return copyCmd(m.request().Command)
	case key.Matches(msg, k.Autoeval):
		m.autoeval = !m.autoeval
	case key.Matches(msg, k.Paranoid):
		m.paranoid = !m.paranoid
	case key.Matches(msg, k.HelpViewer):
		m.openHelpViewerMenu()
	case key.Matches(msg, k.OutputViewer):
		m.openKeySelect(config.Triggers(m.cfg.OutputViewers), openOutputIn{output: m.stdout})
	case key.Matches(msg, k.CachePrefix):
		return m.cachePrefix()
	case key.Matches(msg, k.DropCache):
		if m.cache != nil {
			m.cache = nil
			if m.autoeval {
				return m.execute()
			}
		}
	case key.Matches(msg, k.Quit):
		m.quit()
	case key.Matches(msg, k.Left):
		m.buf.MoveLeft()
	case key.Matches(msg, k.Right):
		m.buf.MoveRight()
	case key.Matches(msg, k.Up):
		m.buf.MoveUp()
	case key.Matches(msg, k.Down):
		m.buf.MoveDown()
	case key.Matches(msg, k.Home):
		m.buf.MoveHome()
	case key.Matches(msg, k.End):
		m.buf.MoveEnd()
	case key.Matches(msg, k.Backspace):
		m.buf.Backspace()
	case key.Matches(msg, k.Delete):
		m.buf.Delete()
	case msg.Type == tea.KeySpace:
		m.buf.InsertChar(' ')
	case msg.Type == tea.KeyRunes && !msg.Alt:
		m.buf.InsertText(normalizeNewlines(string(msg.Runes)))
	}
	return nil
}

func (m *Model) handleTextKey(w *textWindow, msg tea.KeyMsg) {
	switch msg.String() {
	case "up", "down", "pgup", "pgdown", "k", "j":
		w.vp, _ = w.vp.Update(msg)
	case "ctrl+c":
		m.quit()
	default:
		m.win = mainWindow{}
	}
}

func (m *Model) handleListKey(w *listWindow, msg tea.KeyMsg) {
	k := m.keys
	switch {
	case key.Matches(msg, k.ListUp):
		w.move(-1)
	case key.Matches(msg, k.ListDown):
		w.move(1)
	case key.Matches(msg, k.ListPageUp):
		w.move(-pageStride)
	case key.Matches(msg, k.ListPageDown):
		w.move(pageStride)
	case key.Matches(msg, k.ListDelete):
		w.remove()
	case key.Matches(msg, k.ListUndo):
		w.undo()
	case key.Matches(msg, k.ListLoad):
		if e, ok := w.current(); ok {
			m.buf.LoadEntry(e)
			m.cache = nil
			m.resetHistoryNav()
			if w.kind == listHistory {
				m.historyIdx = w.selected
			}
		}
		m.closeList(w)
	case key.Matches(msg, k.ListBack):
		m.closeList(w)
	case msg.String() == "ctrl+c":
		m.closeList(w)
		m.quit()
	}
}

func (m *Model) listFor(kind listKind) *cmdlist.List {
	if kind == listHistory {
		return m.history
	}
	return m.bookmarks
}

// closeList writes the edited entries back and returns to the main window.
func (m *Model) closeList(w *listWindow) {
	m.listFor(w.kind).Replace(w.entries)
	m.win = mainWindow{}
}

// toggleList opens the list of kind, or closes it when it is already open.
// Opening a list commits the buffer to history first.
func (m *Model) toggleList(kind listKind) {
	if w, ok := m.win.(*listWindow); ok {
		m.closeList(w)
		if w.kind == kind {
			return
		}
	}
	m.overlay = nil
	m.history.Push(m.buf.Entry())
	sel := -1
	if kind == listHistory {
		sel = m.historyIdx
	}
	m.win = newListWindow(kind, m.listFor(kind).Entries(), sel)
}

func (m *Model) toggleHelp() {
	switch w := m.win.(type) {
	case *textWindow:
		m.win = mainWindow{}
		return
	case *listWindow:
		m.closeList(w)
	}
	m.overlay = nil
	tw := &textWindow{name: "Help", markdown: helpMarkdown(m.keys)}
	m.win = tw
	m.layout()
}

func (m *Model) toggleBookmark() {
	e := m.buf.Entry()
	if e.Empty() {
		return
	}
	m.bookmarks.Toggle(e)
	if m.bookmarks.Contains(e) {
		m.notice = "bookmarked"
	} else {
		m.notice = "bookmark removed"
	}
}

// historyPrev shows the next older history entry. The first press stashes
// the buffer as the newest entry so historyNext can return to it.
func (m *Model) historyPrev() {
	if m.historyIdx >= 0 {
		if m.historyIdx > 0 {
			m.historyIdx--
			m.loadHistory(m.historyIdx)
		}
		return
	}
	if m.history.Len() == 0 {
		return
	}
	m.stashed = m.history.Push(m.buf.Entry())
	m.historyIdx = m.history.Len() - 1
	if m.stashed {
		m.historyIdx--
	}
	if m.historyIdx < 0 {
		m.resetHistoryNav()
		return
	}
	m.loadHistory(m.historyIdx)
}

// historyNext walks toward the stash. Past the newest stored entry the
// buffer is cleared and navigation ends.
func (m *Model) historyNext() {
	if m.historyIdx < 0 {
		return
	}
	limit := m.history.Len()
	if m.stashed {
		limit--
	}
	if m.historyIdx+1 < limit {
		m.historyIdx++
		m.loadHistory(m.historyIdx)
		return
	}
	m.resetHistoryNav()
	m.buf.Clear()
	m.cache = nil
}

func (m *Model) loadHistory(idx int) {
	if e, ok := m.history.At(idx); ok {
		m.buf.LoadEntry(e)
		m.cache = nil
	}
}

func (m *Model) resetHistoryNav() {
	m.historyIdx = -1
	m.stashed = false
}

func (m *Model) openAutocomplete() {
	if h := m.buf.Hovered(); h != "" && h != " " {
		return
	}
	word := m.buf.HoveredWord()
	opts := completePath(m.cwd, word)
	switch len(opts) {
	case 0:
	case 1:
		m.buf.InsertText(strings.TrimPrefix(opts[0], word))
	default:
		m.overlay = &autocompleteOverlay{prompt: word, options: opts}
	}
}

func (m *Model) openKeySelect(triggers []config.Trigger, action keyAction) {
	if len(triggers) == 0 {
		m.notice = "nothing configured for " + action.name()
		return
	}
	opts := make([]keyOption, 0, len(triggers))
	for _, t := range triggers {
		opts = append(opts, keyOption{key: t.Key, label: t.Value})
	}
	m.overlay = &keySelectOverlay{options: opts, action: action}
}

func (m *Model) openHelpViewerMenu() {
	word := m.buf.HoveredWord()
	if word == "" {
		return
	}
	triggers := config.Triggers(m.cfg.HelpViewers)
	for i := range triggers {
		triggers[i].Value = config.CommandTemplate(triggers[i].Value).Resolve(word)
	}
	m.openKeySelect(triggers, openWordIn{word: word})
}

// contentChanged runs after any edit that changed the buffer.
func (m *Model) contentChanged(editLine, editCol int) tea.Cmd {
	if m.cache != nil && m.cache.invalidatedBy(m.buf.Lines(), editLine, editCol) {
		m.cache = nil
	}
	if !m.autoeval {
		return nil
	}
	return m.execute()
}

func (m *Model) request() engine.Request {
	lines := m.buf.Lines()
	if m.cache == nil {
		return engine.Request{Command: composeCommand(lines, m.raw)}
	}
	stdin := append(make([]string, 0, len(m.cache.output)), m.cache.output...)
	return engine.Request{Command: composeCommand(m.cache.remainder(lines), m.raw), Stdin: stdin}
}

// execute submits the buffer and starts the spinner if it is idle.
func (m *Model) execute() tea.Cmd {
	if m.runner == nil {
		return nil
	}
	m.lastSeq = m.runner.Submit(m.request())
	if m.running {
		return nil
	}
	m.running = true
	return m.spinner.Tick
}

func (m *Model) applyResult(res engine.Result) {
	if res.Seq != m.lastSeq {
		return
	}
	m.running = false
	if !res.OK() {
		m.stderr = res.Output
		return
	}
	if m.paranoid {
		m.history.Push(m.buf.Entry())
	}
	m.stdout = res.Output
	m.stderr = ""
	m.output.SetContent(res.Output)
}

// cachePrefix runs everything before the pipe under the cursor once and
// keeps its output. It blocks the UI for the duration of the run.
func (m *Model) cachePrefix() tea.Cmd {
	if m.runner == nil {
		return nil
	}
	if m.buf.Hovered() != "|" {
		m.notice = "move the cursor onto a | to cache the pipeline before it"
		return nil
	}
	line, col := m.buf.Cursor()
	lines := m.buf.Lines()
	m.cache = nil
	before := prefixThrough(lines, line, col)
	before[len(before)-1] = strings.TrimSuffix(before[len(before)-1], "|")

	out, err := m.runner.RunBlocking(context.Background(), composeCommand(before, m.raw))
	if err != nil {
		m.stderr = fmt.Sprintf("could not run command to cache: %v", err)
		return nil
	}
	m.cache = &cachedSegment{line: line, col: col, prefix: prefixThrough(lines, line, col), output: out}
	m.notice = fmt.Sprintf("cached %d lines", len(out))
	if m.autoeval {
		return m.execute()
	}
	return nil
}

func (m *Model) applyConfig(cfg config.Config) {
	m.cfg = cfg
	if m.runner != nil {
		m.runner.SetTimeout(cfg.TimeoutDuration())
	}
}

// quit commits the buffer to history and ends the session.
func (m *Model) quit() {
	m.history.Push(m.buf.Entry())
	m.quitting = true
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
		if _, ok := m.win.(mainWindow); ok && msg.Action == tea.MouseActionPress {
			var cmd tea.Cmd
			m.output, cmd = m.output.Update(msg)
			return m, cmd
		}
		return m, nil
	}
	switch w := m.win.(type) {
	case *listWindow:
		for i := range w.entries {
			if zone.Get(listRowZone(i)).InBounds(msg) {
				w.selected = i
				break
			}
		}
	case mainWindow:
		if o, ok := m.overlay.(*autocompleteOverlay); ok {
			for i := range o.options {
				if zone.Get(candidateZone(i)).InBounds(msg) {
					o.idx = i
					break
				}
			}
		}
	}
	return m, nil
}

func listRowZone(i int) string { return fmt.Sprintf("list.row.%d", i) }

func candidateZone(i int) string { return fmt.Sprintf("complete.%d", i) }

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

func splitContent(s string) []string {
	return strings.Split(normalizeNewlines(s), "\n")
}
