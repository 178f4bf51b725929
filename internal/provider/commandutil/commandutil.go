// Package commandutil provides helpers shared by tool providers.
package commandutil

import (
	"context"
	"errors"
	"os"
	"os/exec"

	"github.com/opsbench/setup/internal/ports"
)

// IsCommandNotFound reports whether an error indicates a missing executable.
func IsCommandNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, exec.ErrNotFound) {
		return true
	}
	var execErr *exec.Error
	if errors.As(err, &execErr) && errors.Is(execErr.Err, exec.ErrNotFound) {
		return true
	}
	var pathErr *os.PathError
	if errors.As(err, &pathErr) && errors.Is(pathErr.Err, os.ErrNotExist) {
		return true
	}
	return false
}

// Probe runs a command and interprets the result as a precondition check:
// a missing executable or a non-zero exit is a normal false, not an error.
// Only environment failures (cannot fork, permissions) surface as errors.
func Probe(ctx context.Context, runner ports.CommandRunner, command string, args ...string) (bool, error) {
	result, err := runner.Run(ctx, command, args...)
	if err != nil {
		if IsCommandNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return result.Success(), nil
}
