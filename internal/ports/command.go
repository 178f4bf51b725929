// Package ports defines interfaces for external dependencies.
package ports

import (
	"context"
)

// CommandResult represents the result of executing a shell command.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Success returns true if the command exited with code 0.
func (r CommandResult) Success() bool {
	return r.ExitCode == 0
}

// CommandCall records a command invocation.
type CommandCall struct {
	Command string
	Args    []string
}

// CommandRunner executes external commands on behalf of provisioning steps.
//
// Run captures output and is used for probes and non-interactive actions.
// RunWithInput feeds input on the child's stdin, for commands that read a
// credential from a pipe rather than argv. RunInteractive inherits the
// operator's terminal so vendor installers and browser-based auth flows can
// talk to the user directly. StartDetached launches a long-running process
// (a daemon) in its own session and returns without waiting for it to exit.
type CommandRunner interface {
	Run(ctx context.Context, command string, args ...string) (CommandResult, error)
	RunWithInput(ctx context.Context, input string, command string, args ...string) (CommandResult, error)
	RunInteractive(ctx context.Context, command string, args ...string) (CommandResult, error)
	StartDetached(ctx context.Context, command string, args ...string) error
}
