package utility

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds commands run without explicit options.
const DefaultTimeout = 5 * time.Second

// Shell runs external helper programs such as compositor query tools
type Shell struct {
	logger *Logger
}

// Result contains the output of a command execution
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	TimedOut bool
	Duration time.Duration
	Command  string
}

// ExecOptions configures command execution
type ExecOptions struct {
	Timeout time.Duration
	Env     map[string]string
}

// NewShell creates a new Shell executor
func NewShell(logger *Logger) *Shell {
	if logger == nil {
		logger = GetLogger()
	}
	return &Shell{logger: logger}
}

// Run executes name with args directly, without a shell in between. A non-zero exit
// is reported through Result.ExitCode, not as an error.
func (s *Shell) Run(ctx context.Context, opts *ExecOptions, name string, args ...string) (*Result, error) {
	if opts == nil {
		opts = &ExecOptions{}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	execCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(execCtx, name, args...)
	if len(opts.Env) > 0 {
		cmd.Env = append(cmd.Environ(), envMapToSlice(opts.Env)...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()

	result := &Result{
		Stdout:   strings.TrimSpace(stdout.String()),
		Stderr:   strings.TrimSpace(stderr.String()),
		Duration: time.Since(start),
		Command:  strings.TrimSpace(name + " " + strings.Join(args, " ")),
	}
	s.logger.Debug("%s finished in %v", result.Command, result.Duration)

	if errors.Is(execCtx.Err(), context.DeadlineExceeded) {
		result.TimedOut = true
		result.ExitCode = -1
		return result, fmt.Errorf("command timed out after %v", timeout)
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		result.ExitCode = -1
		return result, fmt.Errorf("command failed: %w", err)
	}

	return result, nil
}

// envMapToSlice converts a map of environment variables to a slice
func envMapToSlice(env map[string]string) []string {
	result := make([]string, 0, len(env))
	for key, value := range env {
		result = append(result, fmt.Sprintf("%s=%s", key, value))
	}
	return result
}
