package ui

import (
	"os"
	"os/exec"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"pipr/internal/config"
	"pipr/internal/system"
)

// viewerCommand runs command through the eval environment on the host. man
// is told to skip its pager prompt.
func (m *Model) viewerCommand(command string) *exec.Cmd {
	argv := append(slices.Clone(m.cfg.EvalEnvironment), command)
	if len(argv) == 1 {
		argv = []string{"sh", "-c", command}
	}
	c := exec.Command(argv[0], argv[1:]...)
	c.Dir = m.cwd
	c.Env = append(os.Environ(), "MAN_POSIXLY_CORRECT=1")
	return c
}

// openHelpViewer hands the terminal to an already resolved help command.
func (m *Model) openHelpViewer(command string) tea.Cmd {
	system.Logger.Debug("help viewer", "cmd", command)
	return tea.ExecProcess(m.viewerCommand(command), func(err error) tea.Msg {
		return viewerFinishedMsg{err: err}
	})
}

// openOutputViewer shows output in tpl. A placeholder is replaced with the
// path of a temp file holding the output; otherwise the output is piped to
// the viewer's stdin.
func (m *Model) openOutputViewer(tpl config.CommandTemplate, output string) tea.Cmd {
	if !tpl.HasPlaceholder() {
		c := m.viewerCommand(string(tpl))
		c.Stdin = strings.NewReader(output)
		return tea.ExecProcess(c, func(err error) tea.Msg { return viewerFinishedMsg{err: err} })
	}
	f, err := os.CreateTemp("", "pipr-output-*.txt")
	if err != nil {
		m.notice = "viewer: " + err.Error()
		return nil
	}
	_, werr := f.WriteString(output + "\n")
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		_ = os.Remove(f.Name())
		m.notice = "viewer: " + werr.Error()
		return nil
	}
	path := f.Name()
	return tea.ExecProcess(m.viewerCommand(tpl.Resolve(path)), func(err error) tea.Msg {
		return viewerFinishedMsg{err: err, tempFile: path}
	})
}
