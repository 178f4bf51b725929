// Package doppler provisions the Doppler secrets-manager CLI.
package doppler

import (
	"fmt"

	"github.com/opsbench/setup/internal/domain/provision"
	"github.com/opsbench/setup/internal/ports"
	"github.com/opsbench/setup/internal/provider/commandutil"
)

// installScript is Doppler's own installer; its internals are the vendor's
// concern, only the exit code matters here.
const installScript = `curl -Ls --tlsv1.2 --proto "=https" https://cli.doppler.com/install.sh | sudo sh`

// InstallStep installs and authenticates the Doppler CLI.
//
// Authentication is token-based and non-interactive when DOPPLER_TOKEN is
// set, otherwise the vendor's browser login flow runs on the operator's
// terminal.
type InstallStep struct {
	id     provision.StepID
	runner ports.CommandRunner
}

// NewInstallStep creates the Doppler install step.
func NewInstallStep(runner ports.CommandRunner) *InstallStep {
	return &InstallStep{
		id:     provision.MustNewStepID("doppler:install"),
		runner: runner,
	}
}

// ID returns the step identifier.
func (s *InstallStep) ID() provision.StepID {
	return s.id
}

// RequiredEnv returns nothing; the token is optional.
func (s *InstallStep) RequiredEnv() []string {
	return nil
}

// Check reports whether the doppler binary already answers.
func (s *InstallStep) Check(ctx provision.RunContext) (bool, error) {
	return commandutil.Probe(ctx.Context(), s.runner, "doppler", "--version")
}

// Install runs the vendor installer.
func (s *InstallStep) Install(ctx provision.RunContext) error {
	result, err := s.runner.RunInteractive(ctx.Context(), "sh", "-c", installScript)
	if err != nil {
		return err
	}
	if !result.Success() {
		return provision.NewExternalCommandError("doppler install script", result.ExitCode, result.Stderr)
	}
	return nil
}

// AuthCheck reports whether a workplace identity is already configured.
func (s *InstallStep) AuthCheck(ctx provision.RunContext) (bool, error) {
	return commandutil.Probe(ctx.Context(), s.runner, "doppler", "me")
}

// Authenticate configures the service token when present, otherwise runs the
// interactive browser login.
func (s *InstallStep) Authenticate(ctx provision.RunContext) error {
	if token, ok := ctx.Env().Lookup("DOPPLER_TOKEN"); ok {
		result, err := s.runner.Run(ctx.Context(), "doppler", "configure", "set", "token", token, "--scope", "/")
		if err != nil {
			return err
		}
		if !result.Success() {
			return provision.NewExternalCommandError("doppler configure set token", result.ExitCode, result.Stderr)
		}
		return nil
	}

	result, err := s.runner.RunInteractive(ctx.Context(), "doppler", "login", "--yes")
	if err != nil {
		return err
	}
	if !result.Success() {
		return provision.NewExternalCommandError("doppler login", result.ExitCode, result.Stderr)
	}
	return nil
}

// Verify surfaces the installed version.
func (s *InstallStep) Verify(ctx provision.RunContext) error {
	result, err := s.runner.Run(ctx.Context(), "doppler", "--version")
	if err != nil {
		return err
	}
	fmt.Fprint(ctx.Out(), result.Stdout)
	if !result.Success() {
		return fmt.Errorf("doppler --version exited %d", result.ExitCode)
	}
	return nil
}

// Ensure InstallStep implements the authentication lifecycle.
var _ provision.Authenticator = (*InstallStep)(nil)
