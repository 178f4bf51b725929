// Package ghcli provisions the GitHub CLI.
package ghcli

import (
	"fmt"

	"github.com/opsbench/setup/internal/domain/provision"
	"github.com/opsbench/setup/internal/ports"
	"github.com/opsbench/setup/internal/provider/commandutil"
)

// installScript follows GitHub's documented apt repository setup.
const installScript = `sudo mkdir -p -m 755 /etc/apt/keyrings && ` +
	`curl -fsSL https://cli.github.com/packages/githubcli-archive-keyring.gpg | sudo tee /etc/apt/keyrings/githubcli-archive-keyring.gpg > /dev/null && ` +
	`echo "deb [arch=$(dpkg --print-architecture) signed-by=/etc/apt/keyrings/githubcli-archive-keyring.gpg] https://cli.github.com/packages stable main" | sudo tee /etc/apt/sources.list.d/github-cli.list > /dev/null && ` +
	`sudo apt-get update && sudo apt-get install -y gh`

// InstallStep installs and authenticates the GitHub CLI.
//
// Authentication is polymorphic over GH_TOKEN: when the token is present it
// is fed to `gh auth login --with-token` on stdin, otherwise the web-based
// interactive flow runs.
type InstallStep struct {
	id     provision.StepID
	runner ports.CommandRunner
}

// NewInstallStep creates the GitHub CLI install step.
func NewInstallStep(runner ports.CommandRunner) *InstallStep {
	return &InstallStep{
		id:     provision.MustNewStepID("gh:install"),
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

// Check reports whether gh is already installed.
func (s *InstallStep) Check(ctx provision.RunContext) (bool, error) {
	return commandutil.Probe(ctx.Context(), s.runner, "gh", "--version")
}

// Install adds GitHub's apt repository and installs the package.
func (s *InstallStep) Install(ctx provision.RunContext) error {
	result, err := s.runner.RunInteractive(ctx.Context(), "sh", "-c", installScript)
	if err != nil {
		return err
	}
	if !result.Success() {
		return provision.NewExternalCommandError("gh apt install", result.ExitCode, result.Stderr)
	}
	return nil
}

// AuthCheck reports whether gh already holds credentials.
func (s *InstallStep) AuthCheck(ctx provision.RunContext) (bool, error) {
	return commandutil.Probe(ctx.Context(), s.runner, "gh", "auth", "status")
}

// Authenticate logs in with the token when present, otherwise via browser.
func (s *InstallStep) Authenticate(ctx provision.RunContext) error {
	if token, ok := ctx.Env().Lookup("GH_TOKEN"); ok {
		result, err := s.runner.RunWithInput(ctx.Context(), token, "gh", "auth", "login", "--with-token")
		if err != nil {
			return err
		}
		if !result.Success() {
			return provision.NewExternalCommandError("gh auth login --with-token", result.ExitCode, result.Stderr)
		}
		return nil
	}

	result, err := s.runner.RunInteractive(ctx.Context(), "gh", "auth", "login", "--web")
	if err != nil {
		return err
	}
	if !result.Success() {
		return provision.NewExternalCommandError("gh auth login --web", result.ExitCode, result.Stderr)
	}
	return nil
}

// Verify surfaces the authentication status.
func (s *InstallStep) Verify(ctx provision.RunContext) error {
	result, err := s.runner.Run(ctx.Context(), "gh", "auth", "status")
	if err != nil {
		return err
	}
	fmt.Fprint(ctx.Out(), result.Stdout)
	if !result.Success() {
		return fmt.Errorf("gh auth status exited %d", result.ExitCode)
	}
	return nil
}

// Ensure InstallStep implements the authentication lifecycle.
var _ provision.Authenticator = (*InstallStep)(nil)
