package system

import (
	"context"
	"os/exec"
	"strings"
	"time"
)

// RepoStatus is the git state shown in the status line.
type RepoStatus struct {
	InRepo bool
	Branch string
	Dirty  bool
}

// Label renders the branch with a dirty marker, or "" outside a repository.
func (s RepoStatus) Label() string {
	if !s.InRepo || s.Branch == "" {
		return ""
	}
	if s.Dirty {
		return s.Branch + "*"
	}
	return s.Branch
}

func gitOutput(ctx context.Context, dir string, args ...string) (string, bool) {
	cctx, cancel := context.WithTimeout(ctx, 800*time.Millisecond)
	defer cancel()
	out, err := exec.CommandContext(cctx, "git", append([]string{"-C", dir}, args...)...).Output()
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(string(out)), true
}

// GitStatus inspects the repository containing dir. Missing git or a
// directory outside any work tree yields a zero RepoStatus.
func GitStatus(ctx context.Context, dir string) RepoStatus {
	var st RepoStatus
	if _, err := exec.LookPath("git"); err != nil {
		return st
	}
	if out, ok := gitOutput(ctx, dir, "rev-parse", "--is-inside-work-tree"); !ok || out != "true" {
		return st
	}
	st.InRepo = true
	if b, ok := gitOutput(ctx, dir, "symbolic-ref", "--quiet", "--short", "HEAD"); ok {
		st.Branch = b
	} else if sha, ok := gitOutput(ctx, dir, "rev-parse", "--short", "HEAD"); ok {
		// detached
		st.Branch = "@" + sha
	}
	if out, ok := gitOutput(ctx, dir, "status", "--porcelain"); ok {
		st.Dirty = out != ""
	}
	return st
}
