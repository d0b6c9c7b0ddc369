// Package acceptance launches the external Robot Framework suite that
// checks a page end to end.
package acceptance

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// ErrRunnerNotFound means the runner binary is not on PATH.
var ErrRunnerNotFound = errors.New("acceptance runner not found")

const (
	DefaultCommand = "robot"
	DefaultSuite   = "count_elements_tests.robot"
)

// Runner runs Suite against a URL, passed to the suite as TEST_URL.
type Runner struct {
	Command string
	Suite   string
	// Dir is the working directory; empty means the current one.
	Dir string
}

// Result is the outcome of one suite run.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Passed reports whether the suite exited with status 0.
func (r Result) Passed() bool { return r.ExitCode == 0 }

// NewRunner returns a Runner for the default suite.
func NewRunner() *Runner {
	return &Runner{Command: DefaultCommand, Suite: DefaultSuite}
}

// Args returns the runner's command-line arguments for url.
func (r *Runner) Args(url string) []string {
	return []string{"--variable", "TEST_URL:" + url, r.Suite}
}

// Run executes the suite and waits for it. A failing suite is not an
// error; check Result.Passed.
func (r *Runner) Run(ctx context.Context, url string) (Result, error) {
	path, err := exec.LookPath(r.Command)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s: %w", ErrRunnerNotFound, r.Command, err)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, r.Args(url)...)
	cmd.Dir = r.Dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return res, nil
	case ctx.Err() != nil:
		return res, fmt.Errorf("run %s: %w", r.Command, ctx.Err())
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	default:
		return res, fmt.Errorf("run %s: %w", r.Command, err)
	}
}
