package transform

import (
	"bytes"
	"context"
	stderrors "errors"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/move-patcher/errors"
)

// BuildOptions adjusts the build tool invocation.
type BuildOptions struct {
	// JSONErrors asks the tool for machine-readable diagnostics.
	JSONErrors bool
	// Quiet silences warnings and suppresses forwarding of diagnostics.
	Quiet bool
}

// Builder compiles a Move package directory.
type Builder interface {
	Build(ctx context.Context, dir string, opts BuildOptions) error
}

// DefaultBuildCommand is the command CommandBuilder runs when none is set.
var DefaultBuildCommand = []string{"sui", "move", "build"}

// CommandBuilder runs an external build command and forwards each non-blank
// line of its standard error to the logger.
type CommandBuilder struct {
	// Command is the program and leading arguments. The package flags are
	// appended to it.
	Command []string
}

// Args returns the full argument list for building dir.
func (b *CommandBuilder) Args(dir string, opts BuildOptions) []string {
	command := b.Command
	if len(command) == 0 {
		command = DefaultBuildCommand
	}
	args := append(append([]string(nil), command...), "--path", dir)
	if opts.JSONErrors {
		args = append(args, "--json-errors")
	}
	if opts.Quiet {
		args = append(args, "--silence-warnings")
	}
	return args
}

// Build runs the build command in dir. A non-zero exit is a BuildFailed error
// carrying the exit status; stderr lines are logged unless opts.Quiet is set.
func (b *CommandBuilder) Build(ctx context.Context, dir string, opts BuildOptions) error {
	args := b.Args(dir, opts)
	Logger().Debug("running build command", zap.String("command", strings.Join(args, " ")))

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	runErr := cmd.Run()

	if !opts.Quiet {
		for _, line := range strings.Split(stderr.String(), "\n") {
			if line = strings.TrimRight(line, "\r"); strings.TrimSpace(line) != "" {
				Logger().Info(line)
			}
		}
	}
	if stdout.Len() > 0 {
		Logger().Debug("build output", zap.String("stdout", stdout.String()))
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if stderrors.As(runErr, &exitErr) {
			return errors.BuildFailed(exitErr.ExitCode(), runErr)
		}
		return errors.BuildFailed(-1, runErr)
	}
	return nil
}
