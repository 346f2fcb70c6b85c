package engine

import (
	"errors"
	"time"
)

// TimeoutMessage is the failure text of a run that hit the timeout.
const TimeoutMessage = "Command timed out"

var (
	// ErrRejected is returned by the direct backend for commands containing
	// one of the guarded substrings. It is a convenience guard only.
	ErrRejected = errors.New("will not run this command, it's for your own good. Believe me")
	// ErrTimeout is returned by RunBlocking when the timeout elapsed.
	ErrTimeout = errors.New("command timed out")
	// ErrEmptyCommand is returned by RunBlocking for blank command text.
	ErrEmptyCommand = errors.New("empty command")
	// ErrSandboxMissing is returned when the isolation wrapper is not on PATH.
	ErrSandboxMissing = errors.New("bubblewrap (bwrap) not found on PATH; install it or use --no-isolation")
)

// Request is a command to run plus optional lines written to its stdin.
type Request struct {
	Command string
	Stdin   []string
}

// Status classifies a finished run.
type Status int

const (
	StatusOK Status = iota
	StatusSpawnFailure
	StatusRejected
	StatusRuntimeFailure
	StatusTimeout
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusSpawnFailure:
		return "spawn failure"
	case StatusRejected:
		return "rejected"
	case StatusRuntimeFailure:
		return "runtime failure"
	case StatusTimeout:
		return "timeout"
	}
	return "unknown"
}

// Result is the outcome of one submitted request. Output is the accumulated
// stdout when Status is StatusOK and the failure message otherwise.
type Result struct {
	Seq      uint64
	Status   Status
	Output   string
	Duration time.Duration
}

// OK reports whether the run succeeded.
func (r Result) OK() bool { return r.Status == StatusOK }

func ok(stdout string) Result { return Result{Status: StatusOK, Output: stdout} }

func notOK(status Status, msg string) Result { return Result{Status: status, Output: msg} }
