// Package tailscale provisions the Tailscale client and daemon.
package tailscale

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/opsbench/setup/internal/domain/provision"
	"github.com/opsbench/setup/internal/ports"
	"github.com/opsbench/setup/internal/provider/commandutil"
)

const installScript = `curl -fsSL https://tailscale.com/install.sh | sh`

// Defaults for waiting on tailscaled after a detached start.
const (
	DefaultSettleInterval = 500 * time.Millisecond
	DefaultSettleTimeout  = 15 * time.Second
)

// InstallStep installs Tailscale, brings up tailscaled, and joins the
// tailnet with an auth key.
//
// The auth key is mandatory (TAILSCALE_AUTHKEY). The machine hostname is
// taken from SETUP_HOSTNAME when set, otherwise the prompter asks for it.
type InstallStep struct {
	id             provision.StepID
	runner         ports.CommandRunner
	prompter       ports.Prompter
	settleInterval time.Duration
	settleTimeout  time.Duration
}

// Option configures an InstallStep.
type Option func(*InstallStep)

// WithSettleTimeout overrides how long to wait for tailscaled to come up.
func WithSettleTimeout(d time.Duration) Option {
	return func(s *InstallStep) {
		s.settleTimeout = d
	}
}

// WithSettleInterval overrides the poll interval for the daemon probe.
func WithSettleInterval(d time.Duration) Option {
	return func(s *InstallStep) {
		s.settleInterval = d
	}
}

// NewInstallStep creates the Tailscale install step.
func NewInstallStep(runner ports.CommandRunner, prompter ports.Prompter, opts ...Option) *InstallStep {
	s := &InstallStep{
		id:             provision.MustNewStepID("tailscale:install"),
		runner:         runner,
		prompter:       prompter,
		settleInterval: DefaultSettleInterval,
		settleTimeout:  DefaultSettleTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the step identifier.
func (s *InstallStep) ID() provision.StepID {
	return s.id
}

// RequiredEnv names the auth key the tailnet join cannot run without.
func (s *InstallStep) RequiredEnv() []string {
	return []string{"TAILSCALE_AUTHKEY"}
}

// Check reports whether the tailscale client is already installed.
func (s *InstallStep) Check(ctx provision.RunContext) (bool, error) {
	return commandutil.Probe(ctx.Context(), s.runner, "tailscale", "version")
}

// Install runs the vendor install script.
func (s *InstallStep) Install(ctx provision.RunContext) error {
	result, err := s.runner.RunInteractive(ctx.Context(), "sh", "-c", installScript)
	if err != nil {
		return err
	}
	if !result.Success() {
		return provision.NewExternalCommandError("tailscale install", result.ExitCode, result.Stderr)
	}
	return nil
}

// AuthCheck reports whether this machine is already joined to a tailnet.
func (s *InstallStep) AuthCheck(ctx provision.RunContext) (bool, error) {
	running, err := s.daemonRunning(ctx)
	if err != nil || !running {
		return false, err
	}
	return commandutil.Probe(ctx.Context(), s.runner, "tailscale", "status")
}

// Authenticate starts tailscaled if needed and joins the tailnet.
func (s *InstallStep) Authenticate(ctx provision.RunContext) error {
	if err := s.ensureDaemon(ctx); err != nil {
		return err
	}

	hostname, err := s.resolveHostname(ctx)
	if err != nil {
		return err
	}

	authkey, _ := ctx.Env().Lookup("TAILSCALE_AUTHKEY")

	result, err := s.runner.Run(ctx.Context(), "sudo", "tailscale", "up",
		"--authkey="+authkey, "--hostname="+hostname)
	if err != nil {
		return err
	}
	if !result.Success() {
		return provision.NewExternalCommandError("tailscale up", result.ExitCode, result.Stderr)
	}
	return nil
}

// Verify surfaces the tailnet status.
func (s *InstallStep) Verify(ctx provision.RunContext) error {
	result, err := s.runner.Run(ctx.Context(), "tailscale", "status")
	if err != nil {
		return err
	}
	fmt.Fprint(ctx.Out(), result.Stdout)
	if !result.Success() {
		return fmt.Errorf("tailscale status exited %d", result.ExitCode)
	}
	return nil
}

// ensureDaemon starts tailscaled detached when it is not already running,
// then polls until the daemon answers or the timeout elapses.
func (s *InstallStep) ensureDaemon(ctx provision.RunContext) error {
	running, err := s.daemonRunning(ctx)
	if err != nil {
		return err
	}
	if running {
		return nil
	}

	ctx.Logger().Info(ctx.Context(), "starting tailscaled", ports.F("timeout", s.settleTimeout.String()))

	if err := s.runner.StartDetached(ctx.Context(), "sudo", "tailscaled"); err != nil {
		return fmt.Errorf("starting tailscaled: %w", err)
	}

	return provision.WaitFor(ctx.Context(), "tailscaled", func(context.Context) (bool, error) {
		return s.daemonRunning(ctx)
	}, s.settleInterval, s.settleTimeout)
}

func (s *InstallStep) daemonRunning(ctx provision.RunContext) (bool, error) {
	return commandutil.Probe(ctx.Context(), s.runner, "pgrep", "-x", "tailscaled")
}

// resolveHostname prefers SETUP_HOSTNAME and falls back to asking the user.
func (s *InstallStep) resolveHostname(ctx provision.RunContext) (string, error) {
	if hostname, ok := ctx.Env().Lookup("SETUP_HOSTNAME"); ok {
		return hostname, nil
	}

	answer, err := s.prompter.Ask(ctx.Context(), "Hostname for this machine on the tailnet")
	if err != nil {
		return "", fmt.Errorf("reading hostname: %w", err)
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		err := provision.NewInvalidInputError("hostname must not be empty")
		err.Remediation = "provide a hostname at the prompt, or set SETUP_HOSTNAME to skip it"
		return "", err
	}
	return answer, nil
}

// Ensure InstallStep implements the authentication lifecycle.
var _ provision.Authenticator = (*InstallStep)(nil)
