package mocks

import (
	"context"
	"errors"
	"testing"

	"github.com/opsbench/setup/internal/ports"
)

func TestCommandRunner_AddResult(t *testing.T) {
	runner := NewCommandRunner()
	runner.AddResult("doppler", []string{"--version"}, ports.CommandResult{
		ExitCode: 0,
		Stdout:   "v3.75.0",
	})

	result, err := runner.Run(context.Background(), "doppler", "--version")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Stdout != "v3.75.0" {
		t.Errorf("Stdout = %q", result.Stdout)
	}
}

func TestCommandRunner_AddError(t *testing.T) {
	runner := NewCommandRunner()
	wantErr := errors.New("fork failed")
	runner.AddError("gh", []string{"auth", "status"}, wantErr)

	_, err := runner.Run(context.Background(), "gh", "auth", "status")
	if !errors.Is(err, wantErr) {
		t.Errorf("Run() error = %v, want %v", err, wantErr)
	}
}

func TestCommandRunner_UnregisteredCommand(t *testing.T) {
	runner := NewCommandRunner()

	_, err := runner.Run(context.Background(), "unexpected")
	if err == nil {
		t.Error("expected error for unregistered command")
	}
}

func TestCommandRunner_RecordsCalls(t *testing.T) {
	runner := NewCommandRunner()
	runner.AddResult("tailscale", []string{"status"}, ports.CommandResult{ExitCode: 0})

	_, _ = runner.Run(context.Background(), "tailscale", "status")

	calls := runner.Calls()
	if len(calls) != 1 {
		t.Fatalf("len(Calls()) = %d, want 1", len(calls))
	}
	if calls[0].Command != "tailscale" {
		t.Errorf("Command = %q", calls[0].Command)
	}
	if !runner.CalledWith("tailscale") {
		t.Error("CalledWith(tailscale) = false")
	}
}

func TestCommandRunner_StartDetached(t *testing.T) {
	runner := NewCommandRunner()

	if err := runner.StartDetached(context.Background(), "tailscaled"); err != nil {
		t.Fatalf("StartDetached() error = %v", err)
	}

	detached := runner.DetachedCalls()
	if len(detached) != 1 || detached[0].Command != "tailscaled" {
		t.Errorf("DetachedCalls() = %+v", detached)
	}
	if runner.CalledWith("tailscaled") {
		t.Error("detached starts must not count as foreground calls")
	}
}

func TestCommandRunner_Reset(t *testing.T) {
	runner := NewCommandRunner()
	runner.AddResult("docker", []string{"--version"}, ports.CommandResult{ExitCode: 0})
	_, _ = runner.Run(context.Background(), "docker", "--version")

	runner.Reset()

	if len(runner.Calls()) != 0 {
		t.Error("Reset should clear recorded calls")
	}
	if _, err := runner.Run(context.Background(), "docker", "--version"); err == nil {
		t.Error("Reset should clear registered results")
	}
}

func TestPrompter_ScriptedAnswers(t *testing.T) {
	p := NewPrompter("machine-a", "machine-b")

	first, err := p.Ask(context.Background(), "Hostname")
	if err != nil || first != "machine-a" {
		t.Errorf("first = %q, err = %v", first, err)
	}

	second, _ := p.Ask(context.Background(), "Hostname")
	if second != "machine-b" {
		t.Errorf("second = %q", second)
	}

	exhausted, _ := p.Ask(context.Background(), "Hostname")
	if exhausted != "" {
		t.Errorf("exhausted = %q, want empty", exhausted)
	}

	if len(p.Prompts()) != 3 {
		t.Errorf("Prompts() = %v", p.Prompts())
	}
}
