// Package docker provisions the Docker engine.
package docker

import (
	"fmt"

	"github.com/opsbench/setup/internal/domain/provision"
	"github.com/opsbench/setup/internal/ports"
	"github.com/opsbench/setup/internal/provider/commandutil"
)

const installScript = `curl -fsSL https://get.docker.com | sudo sh`

// InstallStep installs Docker and grants the invoking user access to the
// daemon socket.
type InstallStep struct {
	id     provision.StepID
	runner ports.CommandRunner
}

// NewInstallStep creates the Docker install step.
func NewInstallStep(runner ports.CommandRunner) *InstallStep {
	return &InstallStep{
		id:     provision.MustNewStepID("docker:install"),
		runner: runner,
	}
}

// ID returns the step identifier.
func (s *InstallStep) ID() provision.StepID {
	return s.id
}

// RequiredEnv returns nothing; Docker needs no credentials here.
func (s *InstallStep) RequiredEnv() []string {
	return nil
}

// Check reports whether docker is already installed.
func (s *InstallStep) Check(ctx provision.RunContext) (bool, error) {
	return commandutil.Probe(ctx.Context(), s.runner, "docker", "--version")
}

// Install runs the vendor script and adds the user to the docker group.
// The group change takes effect on next login; the current run keeps
// using sudo-less commands only for probing.
func (s *InstallStep) Install(ctx provision.RunContext) error {
	result, err := s.runner.RunInteractive(ctx.Context(), "sh", "-c", installScript)
	if err != nil {
		return err
	}
	if !result.Success() {
		return provision.NewExternalCommandError("docker install", result.ExitCode, result.Stderr)
	}

	result, err = s.runner.Run(ctx.Context(), "sh", "-c", `sudo usermod -aG docker "$USER"`)
	if err != nil {
		return err
	}
	if !result.Success() {
		return provision.NewExternalCommandError("docker group membership", result.ExitCode, result.Stderr)
	}
	return nil
}

// Verify surfaces the installed version.
func (s *InstallStep) Verify(ctx provision.RunContext) error {
	result, err := s.runner.Run(ctx.Context(), "docker", "--version")
	if err != nil {
		return err
	}
	fmt.Fprint(ctx.Out(), result.Stdout)
	if !result.Success() {
		return fmt.Errorf("docker --version exited %d", result.ExitCode)
	}
	return nil
}

// Ensure InstallStep implements the step lifecycle.
var _ provision.Step = (*InstallStep)(nil)
