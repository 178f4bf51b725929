// Package tinybird provisions the Tinybird CLI.
package tinybird

import (
	"fmt"

	"github.com/opsbench/setup/internal/domain/provision"
	"github.com/opsbench/setup/internal/ports"
	"github.com/opsbench/setup/internal/provider/commandutil"
)

const installScript = `curl -fsSL https://tinybird.co | sh`

// InstallStep installs the Tinybird CLI and, when both TB_HOST and TB_TOKEN
// are set, authenticates against the workspace non-interactively. With either
// variable absent the auth phase is a no-op; the operator runs `tb auth`
// themselves later.
type InstallStep struct {
	id     provision.StepID
	runner ports.CommandRunner
}

// NewInstallStep creates the Tinybird install step.
func NewInstallStep(runner ports.CommandRunner) *InstallStep {
	return &InstallStep{
		id:     provision.MustNewStepID("tinybird:install"),
		runner: runner,
	}
}

// ID returns the step identifier.
func (s *InstallStep) ID() provision.StepID {
	return s.id
}

// RequiredEnv returns nothing; workspace credentials are optional.
func (s *InstallStep) RequiredEnv() []string {
	return nil
}

// Check reports whether tb is already installed.
func (s *InstallStep) Check(ctx provision.RunContext) (bool, error) {
	return commandutil.Probe(ctx.Context(), s.runner, "tb", "--version")
}

// Install runs the vendor install script.
func (s *InstallStep) Install(ctx provision.RunContext) error {
	result, err := s.runner.RunInteractive(ctx.Context(), "sh", "-c", installScript)
	if err != nil {
		return err
	}
	if !result.Success() {
		return provision.NewExternalCommandError("tinybird install", result.ExitCode, result.Stderr)
	}
	return nil
}

// AuthCheck reports whether authentication can be skipped. Without full
// credentials there is nothing to do, so it reports true.
func (s *InstallStep) AuthCheck(ctx provision.RunContext) (bool, error) {
	if !s.hasCredentials(ctx) {
		ctx.Logger().Debug(ctx.Context(), "tinybird credentials absent, skipping workspace auth")
		return true, nil
	}
	return commandutil.Probe(ctx.Context(), s.runner, "tb", "workspace", "current")
}

// Authenticate logs in to the workspace with the configured host and token.
func (s *InstallStep) Authenticate(ctx provision.RunContext) error {
	host, _ := ctx.Env().Lookup("TB_HOST")
	token, _ := ctx.Env().Lookup("TB_TOKEN")

	result, err := s.runner.Run(ctx.Context(), "tb", "auth", "--host", host, "--token", token)
	if err != nil {
		return err
	}
	if !result.Success() {
		return provision.NewExternalCommandError("tb auth", result.ExitCode, result.Stderr)
	}
	return nil
}

// Verify surfaces the installed version.
func (s *InstallStep) Verify(ctx provision.RunContext) error {
	result, err := s.runner.Run(ctx.Context(), "tb", "--version")
	if err != nil {
		return err
	}
	fmt.Fprint(ctx.Out(), result.Stdout)
	if !result.Success() {
		return fmt.Errorf("tb --version exited %d", result.ExitCode)
	}
	return nil
}

func (s *InstallStep) hasCredentials(ctx provision.RunContext) bool {
	return ctx.Env().Has("TB_HOST") && ctx.Env().Has("TB_TOKEN")
}

// Ensure InstallStep implements the authentication lifecycle.
var _ provision.Authenticator = (*InstallStep)(nil)
