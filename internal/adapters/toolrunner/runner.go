// Package toolrunner runs external command line tools such as npm and git.
package toolrunner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ErrNotFound is returned when a tool is not on the PATH.
var ErrNotFound = errors.New("tool not found")

// Runner runs commands through os/exec. Run blocks until the command exits.
type Runner struct {
	Stdout io.Writer
	Stderr io.Writer
	Env    []string
	logger zerolog.Logger
}

// New creates a runner writing command output to the process streams.
func New(logger zerolog.Logger) *Runner {
	return &Runner{Stdout: os.Stdout, Stderr: os.Stderr, logger: logger}
}

// LookPath resolves a tool on the PATH.
func (r *Runner) LookPath(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return path, nil
}

// Run executes name with args in dir.
func (r *Runner) Run(ctx context.Context, dir, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}

	line := strings.TrimSpace(name + " " + strings.Join(args, " "))
	r.logger.Info().Str("dir", dir).Msgf("running %s", line)
	start := time.Now()
	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return fmt.Errorf("%s failed: %w", line, err)
	}
	r.logger.Debug().Dur("duration", time.Since(start)).Msgf("%s finished", line)
	return nil
}

// Call is a command seen by a Recorder.
type Call struct {
	Dir  string
	Name string
	Args []string
}

// String renders the call as a command line.
func (c Call) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Recorder is a runner that records calls instead of executing them.
type Recorder struct {
	// Missing tools fail LookPath.
	Missing map[string]bool
	// Errors maps a command line to the error its Run returns.
	Errors map[string]error

	mu    sync.Mutex
	calls []Call
}

// LookPath implements the runner contract.
func (r *Recorder) LookPath(name string) (string, error) {
	if r.Missing[name] {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return "/usr/bin/" + name, nil
}

// Run records the call.
func (r *Recorder) Run(_ context.Context, dir, name string, args ...string) error {
	call := Call{Dir: dir, Name: name, Args: append([]string(nil), args...)}
	r.mu.Lock()
	r.calls = append(r.calls, call)
	r.mu.Unlock()
	return r.Errors[call.String()]
}

// Calls returns the recorded calls as command lines.
func (r *Recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	for i, c := range r.calls {
		out[i] = c.String()
	}
	return out
}
