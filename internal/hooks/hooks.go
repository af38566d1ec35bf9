package hooks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/shell"
)

// Options configures a hook invocation.
type Options struct {
	// Command is split into arguments with shell quoting rules. Variables
	// are expanded from the environment.
	Command string
	WorkDir string
	Stdout  io.Writer
	Stderr  io.Writer
}

// Result captures the outcome of a hook invocation.
type Result struct {
	Ran      bool
	Command  []string
	ExitCode int
}

// Invoke runs the hook command. An empty command does nothing.
func Invoke(ctx context.Context, opts Options) (Result, error) {
	args, err := shell.Fields(opts.Command, nil)
	if err != nil {
		return Result{}, fmt.Errorf("parse hook command %q: %w", opts.Command, err)
	}
	if len(args) == 0 {
		return Result{}, nil
	}

	if ctx == nil {
		ctx = context.Background()
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	if opts.WorkDir != "" {
		cmd.Dir = opts.WorkDir
	}
	cmd.Stdout = opts.Stdout
	cmd.Stderr = opts.Stderr

	err = cmd.Run()
	result := Result{
		Ran:      true,
		Command:  cmd.Args,
		ExitCode: exitCodeFromError(err),
	}
	if err != nil {
		return result, fmt.Errorf("hook command failed: %w", err)
	}
	return result, nil
}

func exitCodeFromError(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// Publish writes content to statusFile and then runs hook. A failing hook
// is logged, not returned.
func Publish(ctx context.Context, statusFile, content, hook string, logger *log.Logger) error {
	if err := WriteStatus(statusFile, content); err != nil {
		return err
	}
	result, err := Invoke(ctx, Options{Command: hook})
	if err != nil {
		logger.Warn("status hook failed", "command", hook, "exit_code", result.ExitCode, "err", err)
		return nil
	}
	if result.Ran {
		logger.Debug("status hook ran", "command", result.Command)
	}
	return nil
}
