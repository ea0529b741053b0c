// Package update pulls new versions of the program from its git remote.
package update

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

const (
	fetchTimeout   = 10 * time.Second
	revListTimeout = 5 * time.Second
	pullTimeout    = 15 * time.Second
	maxDetail      = 40
)

var (
	ErrTimeout     = errors.New("update timed out")
	ErrGitNotFound = errors.New("git not found")
	ErrGit         = errors.New("git command failed")
)

// Result is what the update screen shows. Message may contain newlines.
type Result struct {
	Updated bool
	Behind  int
	Message string
}

// Runner executes a command in dir and returns its combined output.
type Runner func(ctx context.Context, dir string, name string, args ...string) (string, error)

func execRunner(ctx context.Context, dir string, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	out, err := cmd.CombinedOutput()

	return string(out), err
}

// Git updates a checkout by fetching and fast-forwarding to remote/branch.
type Git struct {
	dir    string
	remote string
	branch string
	run    Runner
}

func NewGit(dir string, remote string, branch string) *Git {
	return &Git{dir: dir, remote: remote, branch: branch, run: execRunner}
}

// WithRunner replaces command execution, used by tests.
func (g *Git) WithRunner(run Runner) *Git {
	g.run = run

	return g
}

func (g *Git) git(ctx context.Context, timeout time.Duration, args ...string) (string, error) {
	cmdCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := g.run(cmdCtx, g.dir, "git", args...)
	if err == nil {
		return out, nil
	}

	switch {
	case errors.Is(cmdCtx.Err(), context.DeadlineExceeded):
		return out, errors.Join(err, ErrTimeout)
	case errors.Is(err, exec.ErrNotFound):
		return out, errors.Join(err, ErrGitNotFound)
	default:
		return out, errors.Join(err, ErrGit)
	}
}

// Check fetches the remote and pulls when the checkout is behind. The error
// is already reflected in the result message.
func (g *Git) Check(ctx context.Context) (Result, error) {
	upstream := g.remote + "/" + g.branch

	if out, err := g.git(ctx, fetchTimeout, "fetch", g.remote, g.branch); err != nil {
		return failure("Fetch failed", out, err), err
	}

	out, err := g.git(ctx, revListTimeout, "rev-list", "--count", "HEAD.."+upstream)
	if err != nil {
		return failure("Could not check\nfor updates", "", err), err
	}

	behind, errCount := strconv.Atoi(strings.TrimSpace(out))
	if errCount != nil {
		return Result{Message: "Could not check\nfor updates"}, errors.Join(errCount, ErrGit)
	}

	if behind == 0 {
		return Result{Message: "Already up\nto date!"}, nil
	}

	if pullOut, errPull := g.git(ctx, pullTimeout, "pull", "--ff-only", g.remote, g.branch); errPull != nil {
		return failure("Pull failed", pullOut, errPull), errPull
	}

	plural := "s"
	if behind == 1 {
		plural = ""
	}

	return Result{
		Updated: true,
		Behind:  behind,
		Message: fmt.Sprintf("Update found!\n(%d commit%s)", behind, plural),
	}, nil
}

func failure(prefix string, output string, err error) Result {
	switch {
	case errors.Is(err, ErrTimeout):
		return Result{Message: "Update timed\nout. Check WiFi."}
	case errors.Is(err, ErrGitNotFound):
		return Result{Message: "Git not found"}
	}

	detail := []rune(strings.TrimSpace(output))
	if len(detail) > maxDetail {
		detail = detail[:maxDetail]
	}

	if len(detail) == 0 {
		return Result{Message: prefix}
	}

	return Result{Message: prefix + ":\n" + string(detail)}
}
