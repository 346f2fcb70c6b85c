// Package app wires configuration, command lists, the execution engine and
// the UI into one interactive session.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	clog "github.com/charmbracelet/log"
	zone "github.com/lrstanley/bubblezone"

	"pipr/internal/cmdlist"
	"pipr/internal/config"
	"pipr/internal/engine"
	"pipr/internal/system"
	"pipr/internal/ui"
)

// Options are the command line choices for one session.
type Options struct {
	Initial     string
	NoIsolation bool
	Raw         bool
	ConfigPath  string
}

// finishHookTimeout bounds the run of the finish hook after the UI exits.
const finishHookTimeout = 30 * time.Second

// Start runs an interactive session. The final buffer is passed to the
// finish hook, if any, and printed to stdout.
func Start(opts Options) error {
	path := opts.ConfigPath
	if path == "" {
		p, err := config.FilePath()
		if err != nil {
			return err
		}
		path = p
	}
	if created, err := config.EnsureFile(path); err != nil {
		return fmt.Errorf("create config: %w", err)
	} else if created {
		system.Logger.Info("wrote default config", "path", path)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	if logPath, err := config.LogPath(); err == nil {
		restore, err := system.LogToFile(logPath, clog.DebugLevel)
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		defer restore()
	}

	history, bookmarks, err := openLists(cfg)
	if err != nil {
		return err
	}
	cwd, _ := os.Getwd()
	backend, err := buildBackend(cfg, opts.NoIsolation, cwd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	eng := engine.New(backend,
		engine.WithTimeout(cfg.TimeoutDuration()),
		engine.WithLogger(system.Logger.WithPrefix("engine")),
	)
	eng.Start(ctx)

	var changes <-chan struct{}
	if w, err := config.Watch(path); err != nil {
		system.Logger.Warn("config watch disabled", "err", err)
	} else {
		defer w.Close()
		changes = w.Changes()
	}

	zone.NewGlobal()
	model := ui.New(ui.Options{
		Runner:        eng,
		History:       history,
		Bookmarks:     bookmarks,
		Config:        cfg,
		ConfigPath:    path,
		ConfigChanges: changes,
		Backend:       eng.Backend().Name(),
		Initial:       opts.Initial,
		Raw:           opts.Raw,
		WorkDir:       cwd,
	})
	final, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	if err != nil {
		return err
	}
	m, ok := final.(ui.Model)
	if !ok {
		return nil
	}
	content := m.Content()

	// the hook may have been edited during the session
	if latest, err := config.Load(path); err == nil {
		cfg = latest
	}
	hookCtx, hookCancel := context.WithTimeout(context.Background(), finishHookTimeout)
	defer hookCancel()
	if err := runFinishHook(hookCtx, cfg, content, os.Stdout, os.Stderr); err != nil {
		system.Logger.Error("finish hook failed", "err", err)
		fmt.Fprintf(os.Stderr, "finish hook: %v\n", err)
	}
	fmt.Println(content)
	return nil
}

// openLists loads history and bookmarks from the config directory.
func openLists(cfg config.Config) (history, bookmarks *cmdlist.List, err error) {
	hp, err := config.HistoryPath()
	if err != nil {
		return nil, nil, err
	}
	bp, err := config.BookmarksPath()
	if err != nil {
		return nil, nil, err
	}
	if history, err = cmdlist.Load(hp, cfg.HistorySize); err != nil {
		return nil, nil, fmt.Errorf("load history: %w", err)
	}
	if bookmarks, err = cmdlist.Load(bp, 0); err != nil {
		return nil, nil, fmt.Errorf("load bookmarks: %w", err)
	}
	return history, bookmarks, nil
}

// buildBackend selects the isolated backend unless noIsolation is set.
func buildBackend(cfg config.Config, noIsolation bool, workDir string) (engine.Backend, error) {
	env := slices.Clone(cfg.EvalEnvironment)
	if noIsolation {
		return engine.Direct{Env: env}, nil
	}
	specs, err := config.ParseMounts(cfg.IsolationMountsReadonly)
	if err != nil {
		return nil, err
	}
	mounts := make([]engine.Mount, 0, len(specs))
	for _, s := range specs {
		mounts = append(mounts, engine.Mount{Host: s.Host, Target: s.Target})
	}
	b, err := engine.NewIsolated(env, mounts, cfg.IsolationPathAdditions, workDir)
	if errors.Is(err, engine.ErrSandboxMissing) {
		return nil, fmt.Errorf("%w; install bubblewrap or start with --no-isolation", err)
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// runFinishHook pipes content into the configured finish hook.
func runFinishHook(ctx context.Context, cfg config.Config, content string, stdout, stderr io.Writer) error {
	hook := strings.TrimSpace(cfg.FinishHook)
	if hook == "" {
		return nil
	}
	argv := append(slices.Clone(cfg.EvalEnvironment), hook)
	c := exec.CommandContext(ctx, argv[0], argv[1:]...)
	c.Stdin = strings.NewReader(content)
	c.Stdout = stdout
	c.Stderr = stderr
	system.Logger.Debug("finish hook", "cmd", hook)
	if err := c.Run(); err != nil {
		return fmt.Errorf("run %q: %w", hook, err)
	}
	return nil
}
