package engine

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"slices"
	"strings"
	"time"
)

// Backend turns command text into a running child process.
type Backend interface {
	Name() string
	Spawn(ctx context.Context, command string, withStdin bool) (*Child, error)
}

// Child is a spawned process with piped streams. Stdin is nil unless it was
// requested. Stdout and Stderr are owned by the caller, so they can be read
// while Wait runs.
type Child struct {
	cmd    *exec.Cmd
	Stdin  io.WriteCloser
	Stdout *os.File
	Stderr *os.File
}

// Pid returns the process id.
func (c *Child) Pid() int {
	if c.cmd.Process == nil {
		return 0
	}
	return c.cmd.Process.Pid
}

// Wait waits for the top-level process to exit, then kills what is left of
// its process group. Background jobs holding the output pipes open would
// otherwise keep the readers blocked.
func (c *Child) Wait() error {
	err := c.cmd.Wait()
	_ = killGroup(c.cmd)
	return err
}

// ExitCode returns the exit status, or -1 while running or when killed.
func (c *Child) ExitCode() int {
	if c.cmd.ProcessState == nil {
		return -1
	}
	return c.cmd.ProcessState.ExitCode()
}

// closeOutput unblocks readers still waiting on the output pipes.
func (c *Child) closeOutput() {
	_ = c.Stdout.Close()
	_ = c.Stderr.Close()
}

// start spawns argv in its own process group so cancellation kills the
// whole pipeline, not just the shell.
func start(ctx context.Context, argv []string, withStdin bool, env []string) (*Child, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("empty eval environment")
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Env = append(os.Environ(), env...)
	cmd.WaitDelay = 500 * time.Millisecond
	configureProcessGroup(cmd)

	outR, outW, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	errR, errW, err := os.Pipe()
	if err != nil {
		_ = outR.Close()
		_ = outW.Close()
		return nil, err
	}
	cmd.Stdout = outW
	cmd.Stderr = errW
	child := &Child{cmd: cmd, Stdout: outR, Stderr: errR}
	fail := func(err error) (*Child, error) {
		for _, f := range []*os.File{outR, outW, errR, errW} {
			_ = f.Close()
		}
		return nil, err
	}
	if withStdin {
		if child.Stdin, err = cmd.StdinPipe(); err != nil {
			return fail(err)
		}
	}
	if err := cmd.Start(); err != nil {
		return fail(fmt.Errorf("could not start %s: %w", argv[0], err))
	}
	// the child holds its own copies of the write ends
	_ = outW.Close()
	_ = errW.Close()
	return child, nil
}

// IsDestructive reports whether command contains one of the guarded
// substrings. Trivially bypassable; it only catches obvious typos.
func IsDestructive(command string) bool {
	return strings.Contains(command, "rm ") ||
		strings.Contains(command, "mv ") ||
		strings.Contains(command, "dd ")
}

// Direct runs commands through the configured argv prefix, e.g. bash -c.
type Direct struct {
	Env []string
}

func (d Direct) Name() string { return "direct" }

// Spawn rejects guarded commands and starts the rest directly.
func (d Direct) Spawn(ctx context.Context, command string, withStdin bool) (*Child, error) {
	if IsDestructive(command) {
		return nil, ErrRejected
	}
	argv := append(slices.Clone(d.Env), command)
	return start(ctx, argv, withStdin, nil)
}

// Mount is a read-only bind mount into the isolated environment.
type Mount struct {
	Host   string
	Target string
}

const defaultSandboxPath = "/usr/local/sbin:/usr/local/bin:/usr/sbin:/usr/bin:/sbin:/bin"

// Isolated runs commands through bubblewrap with private pid, network and
// ipc namespaces and a filesystem consisting only of the given mounts.
type Isolated struct {
	Binary        string
	Env           []string
	Mounts        []Mount
	PathAdditions []string
	// WorkDir, when set, is mounted read-only and used as working directory.
	WorkDir string
}

// NewIsolated resolves the bwrap binary. A missing binary is fatal for the
// caller.
func NewIsolated(env []string, mounts []Mount, pathAdditions []string, workDir string) (*Isolated, error) {
	bin, err := exec.LookPath("bwrap")
	if err != nil {
		return nil, ErrSandboxMissing
	}
	return &Isolated{
		Binary:        bin,
		Env:           env,
		Mounts:        mounts,
		PathAdditions: pathAdditions,
		WorkDir:       workDir,
	}, nil
}

func (i *Isolated) Name() string { return "isolated" }

// Args builds the wrapper argv for command.
func (i *Isolated) Args(command string) []string {
	args := []string{
		"--die-with-parent",
		"--unshare-pid",
		"--unshare-net",
		"--unshare-ipc",
		"--tmpfs", "/tmp",
		"--dev", "/dev",
		"--proc", "/proc",
	}
	for _, m := range i.Mounts {
		args = append(args, "--ro-bind", m.Host, m.Target)
	}
	if i.WorkDir != "" {
		args = append(args, "--ro-bind", i.WorkDir, i.WorkDir, "--chdir", i.WorkDir)
	}
	path := defaultSandboxPath
	if len(i.PathAdditions) > 0 {
		path += ":" + strings.Join(i.PathAdditions, ":")
	}
	args = append(args, "--setenv", "PATH", path)
	args = append(args, i.Env...)
	return append(args, command)
}

func (i *Isolated) Spawn(ctx context.Context, command string, withStdin bool) (*Child, error) {
	bin := i.Binary
	if bin == "" {
		bin = "bwrap"
	}
	return start(ctx, append([]string{bin}, i.Args(command)...), withStdin, nil)
}
