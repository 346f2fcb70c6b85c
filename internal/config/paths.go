package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const (
	fileName      = "pipr.yaml"
	historyName   = "history"
	bookmarksName = "bookmarks"
	logName       = "pipr.log"
)

// Dir returns the pipr config directory under the user config base.
// On Linux this is typically $XDG_CONFIG_HOME/pipr. Falls back to HOME when
// UserConfigDir is unavailable.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil || strings.TrimSpace(base) == "" {
		if home, herr := os.UserHomeDir(); herr == nil {
			base = home
		} else {
			return "", errors.New("cannot determine config directory")
		}
	}
	return filepath.Join(base, "pipr"), nil
}

func inDir(name string) (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// FilePath returns the default config file location.
func FilePath() (string, error) { return inDir(fileName) }

// HistoryPath returns the history list file.
func HistoryPath() (string, error) { return inDir(historyName) }

// BookmarksPath returns the bookmarks list file.
func BookmarksPath() (string, error) { return inDir(bookmarksName) }

// LogPath returns the log file used while the TUI owns the terminal.
func LogPath() (string, error) { return inDir(logName) }
