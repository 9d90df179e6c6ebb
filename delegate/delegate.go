// Package delegate runs the external console tools dtools builds on: the
// translation extractor (translation:update) and the Doctrine entity
// generator (doctrine:generate:entities). The tools are configured as
// command lines such as "php bin/console translation:update" and are run
// as child processes with their output passed through.
package delegate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/shlex"
)

// ToolError reports a tool that could not be started (ExitCode -1) or
// exited with a non-zero status.
type ToolError struct {
	Tool     string
	ExitCode int
	Err      error
}

func (e *ToolError) Error() string {
	if e.ExitCode < 0 {
		return fmt.Sprintf("%s could not be run: %v", e.Tool, e.Err)
	}
	return fmt.Sprintf("%s failed with exit code %d", e.Tool, e.ExitCode)
}

func (e *ToolError) Unwrap() error { return e.Err }

// ParseCommand splits a configured command line with shell quoting rules.
func ParseCommand(line string) ([]string, error) {
	argv, err := shlex.Split(line)
	if err != nil {
		return nil, fmt.Errorf("parsing command %q: %w", line, err)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("empty command")
	}
	return argv, nil
}

// ToolName is the name used in messages for a command: its last word, so
// "php bin/console translation:update" is "translation:update".
func ToolName(command []string) string {
	if len(command) == 0 {
		return ""
	}
	return filepath.Base(command[len(command)-1])
}

// Runner starts tool processes.
type Runner struct {
	// Dir is the working directory, usually the project root.
	Dir string
	// Stdout and Stderr receive the tool output. Nil means os.Stdout and
	// os.Stderr.
	Stdout io.Writer
	Stderr io.Writer
	// Verbose enables OnCommandLine.
	Verbose bool
	// OnCommandLine receives the command line before it runs, as
	// "translation:update --force fr".
	OnCommandLine func(line string)
}

// Run executes command followed by args. The process is killed when ctx
// is cancelled.
func (r *Runner) Run(ctx context.Context, command []string, args ...string) error {
	if len(command) == 0 {
		return fmt.Errorf("empty command")
	}
	tool := ToolName(command)

	if r.Verbose && r.OnCommandLine != nil {
		r.OnCommandLine(strings.Join(append([]string{tool}, args...), " "))
	}

	path, err := exec.LookPath(command[0])
	if err != nil {
		return &ToolError{Tool: tool, ExitCode: -1, Err: err}
	}

	argv := append(append([]string{}, command[1:]...), args...)
	cmd := exec.CommandContext(ctx, path, argv...)
	cmd.Dir = r.Dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = r.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = r.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%s interrupted: %w", tool, ctx.Err())
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ToolError{Tool: tool, ExitCode: exitErr.ExitCode(), Err: err}
		}
		return &ToolError{Tool: tool, ExitCode: -1, Err: err}
	}
	return nil
}
