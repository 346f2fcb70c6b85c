package system

import (
	"os"
	"path/filepath"

	clog "github.com/charmbracelet/log"
)

// Logger is the shared application logger. It prints to stderr until the
// interactive session redirects it with LogToFile.
var Logger = clog.NewWithOptions(os.Stderr, clog.Options{
	ReportTimestamp: true,
})

// LogToFile points Logger at path (appending) for as long as the terminal is
// owned by the UI. The returned func restores stderr and closes the file.
func LogToFile(path string, level clog.Level) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	prev := Logger.GetLevel()
	Logger.SetOutput(f)
	Logger.SetLevel(level)
	return func() {
		Logger.SetOutput(os.Stderr)
		Logger.SetLevel(prev)
		_ = f.Close()
	}, nil
}
