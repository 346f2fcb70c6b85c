package ui

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"pipr/internal/config"
	"pipr/internal/system"
)

// waitResult blocks on the engine's result channel off the UI goroutine.
func waitResult(r Runner) tea.Cmd {
	if r == nil {
		return nil
	}
	return func() tea.Msg {
		return resultMsg{res: <-r.Results()}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func gitStatusCmd(dir string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return gitStatusMsg{status: system.GitStatus(ctx, dir)}
	}
}

// watchConfigCmd waits for the next config change. Bursts of writes are
// coalesced by waiting briefly before reporting.
func watchConfigCmd(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		time.Sleep(120 * time.Millisecond)
		return configChangedMsg{}
	}
}

func loadConfigCmd(path string) tea.Cmd {
	return func() tea.Msg {
		cfg, err := config.Load(path)
		return configLoadedMsg{cfg: cfg, err: err}
	}
}

func copyCmd(text string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			system.Logger.Warn("clipboard", "err", err)
			return noticeMsg("clipboard unavailable: " + err.Error())
		}
		return noticeMsg("command copied")
	}
}
