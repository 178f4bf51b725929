package tailscale_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsbench/setup/internal/adapters/logging"
	"github.com/opsbench/setup/internal/domain/env"
	"github.com/opsbench/setup/internal/domain/provision"
	"github.com/opsbench/setup/internal/ports"
	"github.com/opsbench/setup/internal/provider/tailscale"
	"github.com/opsbench/setup/internal/testutil/mocks"
)

func runCtx(environ *env.Environment) provision.RunContext {
	return provision.NewRunContext(context.Background(), environ).
		WithLogger(logging.NewNopLogger())
}

func authedEnv(hostname string) *env.Environment {
	environ := env.New()
	environ.Set("TAILSCALE_AUTHKEY", "tskey-auth-abc")
	if hostname != "" {
		environ.Set("SETUP_HOSTNAME", hostname)
	}
	return environ
}

func daemonUp(runner *mocks.CommandRunner) {
	runner.AddResult("pgrep", []string{"-x", "tailscaled"}, ports.CommandResult{ExitCode: 0})
}

func TestInstallStep_ID(t *testing.T) {
	t.Parallel()

	step := tailscale.NewInstallStep(mocks.NewCommandRunner(), mocks.NewPrompter())
	assert.Equal(t, "tailscale:install", step.ID().String())
	assert.Equal(t, []string{"TAILSCALE_AUTHKEY"}, step.RequiredEnv())
}

func TestInstallStep_Check(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("tailscale", []string{"version"}, ports.CommandResult{ExitCode: 0, Stdout: "1.82.0\n"})

	ok, err := tailscale.NewInstallStep(runner, mocks.NewPrompter()).Check(runCtx(env.New()))

	require.NoError(t, err)
	assert.True(t, ok)
}

func TestInstallStep_AuthCheck_DaemonDown(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("pgrep", []string{"-x", "tailscaled"}, ports.CommandResult{ExitCode: 1})

	ok, err := tailscale.NewInstallStep(runner, mocks.NewPrompter()).AuthCheck(runCtx(env.New()))

	require.NoError(t, err)
	assert.False(t, ok, "no daemon means not joined")
	assert.False(t, runner.CalledWith("tailscale"), "status is not probed while the daemon is down")
}

func TestInstallStep_Authenticate_DaemonAlreadyRunning(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	daemonUp(runner)
	runner.AddResult("sudo", []string{"tailscale", "up", "--authkey=tskey-auth-abc", "--hostname=bench-01"},
		ports.CommandResult{ExitCode: 0})

	step := tailscale.NewInstallStep(runner, mocks.NewPrompter())
	err := step.Authenticate(runCtx(authedEnv("bench-01")))

	require.NoError(t, err)
	assert.Empty(t, runner.DetachedCalls(), "a running daemon is not restarted")
}

func TestInstallStep_Authenticate_StartsDaemonAndWaits(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	// Daemon comes up immediately after the detached start; the mock has no
	// notion of time, so the same probe answers both the pre-check and the
	// first wait poll.
	runner.AddResult("pgrep", []string{"-x", "tailscaled"}, ports.CommandResult{ExitCode: 1})
	runner.AddResult("sudo", []string{"tailscale", "up", "--authkey=tskey-auth-abc", "--hostname=bench-01"},
		ports.CommandResult{ExitCode: 0})

	step := tailscale.NewInstallStep(runner, mocks.NewPrompter(),
		tailscale.WithSettleInterval(time.Millisecond),
		tailscale.WithSettleTimeout(50*time.Millisecond))

	// Flip the probe to "running" once the detached start has been recorded.
	go func() {
		for len(runner.DetachedCalls()) == 0 {
			time.Sleep(time.Millisecond)
		}
		daemonUp(runner)
	}()

	err := step.Authenticate(runCtx(authedEnv("bench-01")))

	require.NoError(t, err)
	require.Len(t, runner.DetachedCalls(), 1)
	assert.Equal(t, "sudo", runner.DetachedCalls()[0].Command)
	assert.Equal(t, []string{"tailscaled"}, runner.DetachedCalls()[0].Args)
}

func TestInstallStep_Authenticate_DaemonNeverSettles(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("pgrep", []string{"-x", "tailscaled"}, ports.CommandResult{ExitCode: 1})

	step := tailscale.NewInstallStep(runner, mocks.NewPrompter(),
		tailscale.WithSettleInterval(time.Millisecond),
		tailscale.WithSettleTimeout(10*time.Millisecond))

	err := step.Authenticate(runCtx(authedEnv("bench-01")))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "tailscaled")
}

func TestInstallStep_Authenticate_PromptsForHostname(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	daemonUp(runner)
	runner.AddResult("sudo", []string{"tailscale", "up", "--authkey=tskey-auth-abc", "--hostname=lab-3"},
		ports.CommandResult{ExitCode: 0})

	prompter := mocks.NewPrompter("lab-3")
	step := tailscale.NewInstallStep(runner, prompter)

	err := step.Authenticate(runCtx(authedEnv("")))

	require.NoError(t, err)
	assert.Len(t, prompter.Prompts(), 1)
}

func TestInstallStep_Authenticate_EmptyHostnameRejected(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	daemonUp(runner)

	step := tailscale.NewInstallStep(runner, mocks.NewPrompter("   "))
	err := step.Authenticate(runCtx(authedEnv("")))

	require.Error(t, err)
	assert.True(t, provision.IsInvalidInput(err))
}
