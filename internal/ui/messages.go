package ui

import (
	"time"

	"pipr/internal/config"
	"pipr/internal/engine"
	"pipr/internal/system"
)

// resultMsg carries a finished run from the engine.
type resultMsg struct{ res engine.Result }

// periodic tick for the status bar
type tickMsg time.Time

type gitStatusMsg struct{ status system.RepoStatus }

// configChangedMsg fires after the config file was modified on disk.
type configChangedMsg struct{}

type configLoadedMsg struct {
	cfg config.Config
	err error
}

// viewerFinishedMsg is returned once an external viewer hands the terminal
// back. tempFile, when set, is removed.
type viewerFinishedMsg struct {
	err      error
	tempFile string
}

type noticeMsg string

// runNowMsg asks for an immediate run of the buffer.
type runNowMsg struct{}
