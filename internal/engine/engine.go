// Package engine runs pipeline commands off the UI goroutine. At most one
// run is active; submitting a new request cancels the previous one, and only
// results belonging to the most recent submission are delivered.
package engine

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"
	"unicode/utf8"

	clog "github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"pipr/internal/system"
)

// DefaultTimeout bounds a single run when no timeout is configured.
const DefaultTimeout = 10 * time.Second

const maxLineSize = 1024 * 1024

// drainGrace bounds how long readers may keep going once the process group
// is gone. Descendants that escaped the group can hold the pipes open.
const drainGrace = 500 * time.Millisecond

var errNonUTF8 = errors.New("output is not valid UTF-8")

type submission struct {
	seq uint64
	req Request
}

type activeRun struct {
	seq    uint64
	cancel context.CancelFunc
	done   chan struct{}
}

// Engine owns the single execution slot.
type Engine struct {
	backend  Backend
	logger   *clog.Logger
	timeout  atomic.Int64
	seq      atomic.Uint64
	requests chan submission
	results  chan Result
	done     chan struct{}
}

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout sets the per-run timeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) { e.SetTimeout(d) }
}

// WithLogger replaces the shared logger.
func WithLogger(l *clog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New builds an engine around backend. Call Start before Submit.
func New(backend Backend, opts ...Option) *Engine {
	e := &Engine{
		backend:  backend,
		logger:   system.Logger,
		requests: make(chan submission),
		results:  make(chan Result, 1),
		done:     make(chan struct{}),
	}
	e.SetTimeout(DefaultTimeout)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Backend returns the backend the engine spawns through.
func (e *Engine) Backend() Backend { return e.backend }

// SetTimeout changes the timeout for subsequent runs.
func (e *Engine) SetTimeout(d time.Duration) {
	if d <= 0 {
		d = DefaultTimeout
	}
	e.timeout.Store(int64(d))
}

// Timeout returns the current per-run timeout.
func (e *Engine) Timeout() time.Duration { return time.Duration(e.timeout.Load()) }

// Start launches the execution loop. It stops, killing any active run, when
// ctx is cancelled.
func (e *Engine) Start(ctx context.Context) {
	go e.loop(ctx)
}

// Done is closed once the loop has exited.
func (e *Engine) Done() <-chan struct{} { return e.done }

// Submit hands req to the loop and returns its sequence number. Any run
// still in flight is cancelled and its result discarded.
func (e *Engine) Submit(req Request) uint64 {
	seq := e.seq.Add(1)
	select {
	case e.requests <- submission{seq: seq, req: req}:
	case <-e.done:
	}
	return seq
}

// Latest returns the sequence number of the most recent submission.
func (e *Engine) Latest() uint64 { return e.seq.Load() }

// Results delivers finished runs. Only the newest undelivered result is
// kept; readers should still compare Seq against the value Submit returned.
func (e *Engine) Results() <-chan Result { return e.results }

func (e *Engine) loop(ctx context.Context) {
	defer close(e.done)
	finished := make(chan Result)
	var cur *activeRun
	stop := func() {
		if cur == nil {
			return
		}
		cur.cancel()
		<-cur.done
		e.logger.Debug("killed run", "seq", cur.seq)
		cur = nil
	}
	defer stop()

	for {
		select {
		case <-ctx.Done():
			return
		case sub := <-e.requests:
			stop()
			cur = e.launch(ctx, sub, finished)
		case res := <-finished:
			cur = nil
			if res.Seq != e.Latest() {
				e.logger.Debug("dropping stale result", "seq", res.Seq)
				continue
			}
			e.deliver(res)
		}
	}
}

func (e *Engine) launch(parent context.Context, sub submission, finished chan<- Result) *activeRun {
	ctx, cancel := context.WithCancel(parent)
	run := &activeRun{seq: sub.seq, cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(run.done)
		defer cancel()
		started := time.Now()
		res := e.execute(ctx, sub.seq, sub.req)
		res.Seq = sub.seq
		res.Duration = time.Since(started)
		if ctx.Err() != nil {
			return
		}
		e.logger.Debug("run finished", "seq", res.Seq, "status", res.Status, "duration", res.Duration)
		select {
		case finished <- res:
		case <-ctx.Done():
		}
	}()
	return run
}

// deliver replaces an unread result instead of blocking the loop.
func (e *Engine) deliver(res Result) {
	select {
	case e.results <- res:
		return
	default:
	}
	select {
	case <-e.results:
	default:
	}
	e.results <- res
}

func (e *Engine) execute(parent context.Context, seq uint64, req Request) Result {
	if strings.TrimSpace(req.Command) == "" {
		return ok("")
	}
	timeout := e.Timeout()
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	child, err := e.backend.Spawn(ctx, req.Command, req.Stdin != nil)
	if err != nil {
		if errors.Is(err, ErrRejected) {
			return notOK(StatusRejected, err.Error())
		}
		return notOK(StatusSpawnFailure, err.Error())
	}
	defer child.closeOutput()
	e.logger.Debug("spawned", "seq", seq, "backend", e.backend.Name(), "pid", child.Pid())
	if child.Stdin != nil {
		go writeLines(child.Stdin, req.Stdin)
	}

	var stdout, stderr []string
	var g errgroup.Group
	g.Go(func() error { return readLines(child.Stdout, &stdout) })
	g.Go(func() error { return readLines(child.Stderr, &stderr) })
	waitErr := child.Wait()
	readErr := finishReads(&g, child)
	e.logger.Debug("process exited", "seq", seq, "backend", e.backend.Name(), "exit_code", child.ExitCode())

	switch {
	case parent.Err() == nil && errors.Is(ctx.Err(), context.DeadlineExceeded):
		e.logger.Info("run timed out", "seq", seq, "backend", e.backend.Name(), "timeout", timeout)
		return notOK(StatusTimeout, TimeoutMessage)
	case readErr != nil:
		return notOK(StatusRuntimeFailure, fmt.Sprintf("could not read command output: %v", readErr))
	case waitErr != nil:
		if len(stderr) == 0 {
			return notOK(StatusRuntimeFailure, waitErr.Error())
		}
		return notOK(StatusRuntimeFailure, strings.Join(stderr, "\n"))
	}
	return ok(strings.Join(stdout, "\n"))
}

// RunBlocking runs command to completion on the calling goroutine and returns
// its stdout lines. Stderr is discarded; a non-zero exit is an error.
func (e *Engine) RunBlocking(ctx context.Context, command string) ([]string, error) {
	if strings.TrimSpace(command) == "" {
		return nil, ErrEmptyCommand
	}
	timeout := e.Timeout()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	child, err := e.backend.Spawn(ctx, command, false)
	if err != nil {
		return nil, err
	}
	defer child.closeOutput()
	var out []string
	var g errgroup.Group
	g.Go(func() error { return readLines(child.Stdout, &out) })
	g.Go(func() error {
		_, err := io.Copy(io.Discard, child.Stderr)
		if errors.Is(err, os.ErrClosed) {
			return nil
		}
		return err
	})
	waitErr := child.Wait()
	readErr := finishReads(&g, child)

	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		e.logger.Info("blocking run timed out", "backend", e.backend.Name(), "timeout", timeout)
		return nil, ErrTimeout
	case readErr != nil:
		return nil, fmt.Errorf("read output: %w", readErr)
	case waitErr != nil:
		return nil, fmt.Errorf("command failed: %w", waitErr)
	}
	return out, nil
}

// finishReads waits for the readers of an exited child. Whatever is still
// buffered in the pipes is drained; if a reader is still blocked after
// drainGrace the pipes are closed under it.
func finishReads(g *errgroup.Group, child *Child) error {
	done := make(chan error, 1)
	go func() { done <- g.Wait() }()
	select {
	case err := <-done:
		return err
	case <-time.After(drainGrace):
		child.closeOutput()
		return <-done
	}
}

func writeLines(w io.WriteCloser, lines []string) {
	defer w.Close()
	bw := bufio.NewWriter(w)
	for _, line := range lines {
		if _, err := bw.WriteString(line + "\n"); err != nil {
			// child stopped reading
			return
		}
	}
	_ = bw.Flush()
}

// readLines collects r line by line. It keeps draining after an error so the
// child never blocks on a full pipe.
func readLines(r io.Reader, dst *[]string) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	var firstErr error
	for sc.Scan() {
		if firstErr != nil {
			continue
		}
		line := sc.Bytes()
		if !utf8.Valid(line) {
			firstErr = errNonUTF8
			continue
		}
		*dst = append(*dst, string(line))
	}
	if err := sc.Err(); err != nil {
		if errors.Is(err, os.ErrClosed) {
			return firstErr
		}
		_, _ = io.Copy(io.Discard, r)
		if firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
