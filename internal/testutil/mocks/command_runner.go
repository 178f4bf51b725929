// Package mocks provides test doubles for testing.
package mocks

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/opsbench/setup/internal/ports"
)

// CommandRunner is a thread-safe test double for ports.CommandRunner.
//
// Register expected commands with AddResult or AddError; unregistered
// commands fail the call so tests notice unexpected invocations. Detached
// starts are recorded but always succeed unless an error is registered.
type CommandRunner struct {
	mu       sync.RWMutex
	results  map[string]ports.CommandResult
	errors   map[string]error
	calls    []ports.CommandCall
	detached []ports.CommandCall
	inputs   []string
}

// NewCommandRunner creates a new CommandRunner mock.
func NewCommandRunner() *CommandRunner {
	return &CommandRunner{
		results: make(map[string]ports.CommandResult),
		errors:  make(map[string]error),
	}
}

// AddResult registers an expected command and its result.
func (m *CommandRunner) AddResult(command string, args []string, result ports.CommandResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[buildKey(command, args)] = result
}

// AddError registers an expected command that should return an error.
func (m *CommandRunner) AddError(command string, args []string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[buildKey(command, args)] = err
}

// Run executes a mock command.
func (m *CommandRunner) Run(_ context.Context, command string, args ...string) (ports.CommandResult, error) {
	m.mu.Lock()
	m.calls = append(m.calls, ports.CommandCall{Command: command, Args: args})
	m.mu.Unlock()

	return m.lookup(command, args)
}

// RunWithInput behaves like Run and records the input fed to the command.
func (m *CommandRunner) RunWithInput(ctx context.Context, input string, command string, args ...string) (ports.CommandResult, error) {
	m.mu.Lock()
	m.inputs = append(m.inputs, input)
	m.mu.Unlock()
	return m.Run(ctx, command, args...)
}

// RunInteractive behaves like Run; the mock has no terminal to inherit.
func (m *CommandRunner) RunInteractive(ctx context.Context, command string, args ...string) (ports.CommandResult, error) {
	return m.Run(ctx, command, args...)
}

// StartDetached records a detached start.
func (m *CommandRunner) StartDetached(_ context.Context, command string, args ...string) error {
	m.mu.Lock()
	m.detached = append(m.detached, ports.CommandCall{Command: command, Args: args})
	m.mu.Unlock()

	m.mu.RLock()
	defer m.mu.RUnlock()
	if err, ok := m.errors[buildKey(command, args)]; ok {
		return err
	}
	return nil
}

func (m *CommandRunner) lookup(command string, args []string) (ports.CommandResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	key := buildKey(command, args)

	if err, ok := m.errors[key]; ok {
		return ports.CommandResult{}, err
	}
	if result, ok := m.results[key]; ok {
		return result, nil
	}

	return ports.CommandResult{}, fmt.Errorf("no mock result for command: %s %v", command, args)
}

// Calls returns all recorded foreground invocations.
func (m *CommandRunner) Calls() []ports.CommandCall {
	m.mu.RLock()
	defer m.mu.RUnlock()

	calls := make([]ports.CommandCall, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// DetachedCalls returns all recorded detached starts.
func (m *CommandRunner) DetachedCalls() []ports.CommandCall {
	m.mu.RLock()
	defer m.mu.RUnlock()

	calls := make([]ports.CommandCall, len(m.detached))
	copy(calls, m.detached)
	return calls
}

// Inputs returns the stdin payloads passed to RunWithInput, in order.
func (m *CommandRunner) Inputs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	inputs := make([]string, len(m.inputs))
	copy(inputs, m.inputs)
	return inputs
}

// CalledWith reports whether a foreground command with the given name was run.
func (m *CommandRunner) CalledWith(command string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, c := range m.calls {
		if c.Command == command {
			return true
		}
	}
	return false
}

// Reset clears all registered results, errors, and recorded calls.
func (m *CommandRunner) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = make(map[string]ports.CommandResult)
	m.errors = make(map[string]error)
	m.calls = nil
	m.detached = nil
	m.inputs = nil
}

func buildKey(command string, args []string) string {
	return command + ":" + strings.Join(args, ":")
}

// Ensure CommandRunner implements ports.CommandRunner.
var _ ports.CommandRunner = (*CommandRunner)(nil)
