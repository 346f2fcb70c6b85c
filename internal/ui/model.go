// Package ui is the interactive controller: it routes key events to the
// active window or overlay, decides when the buffer is re-run, and renders
// the editor, the output and the status line.
package ui

import (
	"context"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"pipr/internal/cmdlist"
	"pipr/internal/config"
	"pipr/internal/editor"
	"pipr/internal/engine"
	"pipr/internal/system"
)

// Runner is the part of the execution engine the controller drives.
type Runner interface {
	Submit(req engine.Request) uint64
	Results() <-chan engine.Result
	RunBlocking(ctx context.Context, command string) ([]string, error)
	SetTimeout(d time.Duration)
}

// Options configures a new Model.
type Options struct {
	Runner     Runner
	History    *cmdlist.List
	Bookmarks  *cmdlist.List
	Config     config.Config
	ConfigPath string
	// ConfigChanges signals edits of the config file; nil disables reloads.
	ConfigChanges <-chan struct{}
	Backend       string
	Initial       string
	Raw           bool
	WorkDir       string
}

// Model is the Bubble Tea model of a pipr session.
type Model struct {
	buf       *editor.Buffer
	history   *cmdlist.List
	bookmarks *cmdlist.List
	runner    Runner

	cfg        config.Config
	configPath string
	changes    <-chan struct{}
	backend    string
	cwd        string

	keys    keyMap
	help    help.Model
	spinner spinner.Model
	output  viewport.Model

	win     window
	overlay overlay

	autoeval bool
	paranoid bool
	raw      bool

	// historyIdx is the history entry shown by Ctrl+P/Ctrl+N, -1 when not
	// navigating. stashed records whether the buffer was pushed on entry.
	historyIdx int
	stashed    bool

	cache   *cachedSegment
	lastSeq uint64
	running bool
	stdout  string
	stderr  string
	notice  string

	git          system.RepoStatus
	lastGitCheck time.Time

	width    int
	height   int
	quitting bool
}

// New builds the initial model.
func New(opts Options) Model {
	cwd := opts.WorkDir
	if cwd == "" {
		cwd, _ = os.Getwd()
	}
	history := opts.History
	if history == nil {
		history = cmdlist.New("", 0)
	}
	bookmarks := opts.Bookmarks
	if bookmarks == nil {
		bookmarks = cmdlist.New("", 0)
	}

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = theme.Selected

	m := Model{
		buf:        editor.New(),
		history:    history,
		bookmarks:  bookmarks,
		runner:     opts.Runner,
		cfg:        opts.Config,
		configPath: opts.ConfigPath,
		changes:    opts.ConfigChanges,
		backend:    opts.Backend,
		cwd:        cwd,
		keys:       defaultKeyMap(),
		help:       help.New(),
		spinner:    sp,
		output:     viewport.New(80, 10),
		win:        mainWindow{},
		autoeval:   opts.Config.AutoevalDefault,
		paranoid:   opts.Config.ParanoidHistoryDefault,
		raw:        opts.Raw || opts.Config.RawMode,
		historyIdx: -1,
	}
	if opts.Initial != "" {
		m.buf.SetContent(splitContent(opts.Initial))
	}
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{waitResult(m.runner), tickCmd(), gitStatusCmd(m.cwd), watchConfigCmd(m.changes)}
	if m.autoeval && m.buf.String() != "" {
		cmds = append(cmds, func() tea.Msg { return runNowMsg{} })
	}
	return tea.Batch(cmds...)
}

// Content returns the buffer as it should be handed to the finish hook.
func (m Model) Content() string { return m.buf.String() }

// Command returns the command text that would be executed for the buffer.
func (m Model) Command() string { return m.request().Command }
