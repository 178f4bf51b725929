// Package s2 provisions the S2 stream-store CLI.
package s2

import (
	"fmt"

	"github.com/opsbench/setup/internal/domain/provision"
	"github.com/opsbench/setup/internal/ports"
	"github.com/opsbench/setup/internal/provider/commandutil"
)

const installScript = `curl -fsSL https://s2.dev/install.sh | bash`

// InstallStep installs the s2 CLI. Authentication is left to the operator;
// the vendor flow is interactive-only.
type InstallStep struct {
	id     provision.StepID
	runner ports.CommandRunner
}

// NewInstallStep creates the s2 install step.
func NewInstallStep(runner ports.CommandRunner) *InstallStep {
	return &InstallStep{
		id:     provision.MustNewStepID("s2:install"),
		runner: runner,
	}
}

// ID returns the step identifier.
func (s *InstallStep) ID() provision.StepID {
	return s.id
}

// RequiredEnv returns nothing.
func (s *InstallStep) RequiredEnv() []string {
	return nil
}

// Check reports whether s2 is already installed.
func (s *InstallStep) Check(ctx provision.RunContext) (bool, error) {
	return commandutil.Probe(ctx.Context(), s.runner, "s2", "--version")
}

// Install runs the vendor install script.
func (s *InstallStep) Install(ctx provision.RunContext) error {
	result, err := s.runner.RunInteractive(ctx.Context(), "sh", "-c", installScript)
	if err != nil {
		return err
	}
	if !result.Success() {
		return provision.NewExternalCommandError("s2 install", result.ExitCode, result.Stderr)
	}
	return nil
}

// Verify surfaces the installed version.
func (s *InstallStep) Verify(ctx provision.RunContext) error {
	result, err := s.runner.Run(ctx.Context(), "s2", "--version")
	if err != nil {
		return err
	}
	fmt.Fprint(ctx.Out(), result.Stdout)
	if !result.Success() {
		return fmt.Errorf("s2 --version exited %d", result.ExitCode)
	}
	return nil
}

var _ provision.Step = (*InstallStep)(nil)
