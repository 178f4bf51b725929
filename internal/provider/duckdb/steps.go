// Package duckdb provisions the DuckDB CLI.
package duckdb

import (
	"fmt"

	"github.com/opsbench/setup/internal/domain/provision"
	"github.com/opsbench/setup/internal/ports"
	"github.com/opsbench/setup/internal/provider/commandutil"
)

const installScript = `curl -fsSL https://install.duckdb.org | sh`

// InstallStep installs the DuckDB CLI. DuckDB has no authentication.
type InstallStep struct {
	id     provision.StepID
	runner ports.CommandRunner
}

// NewInstallStep creates the DuckDB install step.
func NewInstallStep(runner ports.CommandRunner) *InstallStep {
	return &InstallStep{
		id:     provision.MustNewStepID("duckdb:install"),
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

// Check reports whether duckdb is already installed.
func (s *InstallStep) Check(ctx provision.RunContext) (bool, error) {
	return commandutil.Probe(ctx.Context(), s.runner, "duckdb", "--version")
}

// Install runs the vendor install script.
func (s *InstallStep) Install(ctx provision.RunContext) error {
	result, err := s.runner.RunInteractive(ctx.Context(), "sh", "-c", installScript)
	if err != nil {
		return err
	}
	if !result.Success() {
		return provision.NewExternalCommandError("duckdb install", result.ExitCode, result.Stderr)
	}
	return nil
}

// Verify surfaces the installed version.
func (s *InstallStep) Verify(ctx provision.RunContext) error {
	result, err := s.runner.Run(ctx.Context(), "duckdb", "--version")
	if err != nil {
		return err
	}
	fmt.Fprint(ctx.Out(), result.Stdout)
	if !result.Success() {
		return fmt.Errorf("duckdb --version exited %d", result.ExitCode)
	}
	return nil
}

var _ provision.Step = (*InstallStep)(nil)
