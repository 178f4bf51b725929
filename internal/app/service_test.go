package app_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsbench/setup/internal/adapters/logging"
	"github.com/opsbench/setup/internal/app"
	"github.com/opsbench/setup/internal/domain/config"
	"github.com/opsbench/setup/internal/domain/env"
	"github.com/opsbench/setup/internal/domain/provision"
	"github.com/opsbench/setup/internal/ports"
	"github.com/opsbench/setup/internal/testutil/mocks"
)

// satisfiedPhase1Runner mocks both phase 1 tools as installed and authed.
func satisfiedPhase1Runner() *mocks.CommandRunner {
	runner := mocks.NewCommandRunner()
	runner.AddResult("doppler", []string{"--version"}, ports.CommandResult{ExitCode: 0, Stdout: "v3\n"})
	runner.AddResult("doppler", []string{"me"}, ports.CommandResult{ExitCode: 0})
	runner.AddResult("gh", []string{"--version"}, ports.CommandResult{ExitCode: 0, Stdout: "gh 2\n"})
	runner.AddResult("gh", []string{"auth", "status"}, ports.CommandResult{ExitCode: 0, Stdout: "Logged in\n"})
	return runner
}

func TestSetupService_Run_SatisfiedPhaseIsAllSkipped(t *testing.T) {
	t.Parallel()

	runner := satisfiedPhase1Runner()
	var out bytes.Buffer
	historyPath := filepath.Join(t.TempDir(), "history.jsonl")

	svc := app.NewSetupService(runner, mocks.NewPrompter(), logging.NewNopLogger(), &out, historyPath)
	err := svc.Run(context.Background(), app.Phase1, env.New(), config.Default(), app.RunOptions{})

	require.NoError(t, err)
	assert.Contains(t, out.String(), "skipped")
	assert.NotContains(t, out.String(), "installed")
	assert.False(t, runner.CalledWith("sh"), "no installer runs when preconditions hold")

	// History got one record.
	data, err := os.ReadFile(historyPath)
	require.NoError(t, err)
	assert.Equal(t, 1, bytes.Count(data, []byte("\n")))
}

func TestSetupService_Run_UnknownPhase(t *testing.T) {
	t.Parallel()

	svc := app.NewSetupService(mocks.NewCommandRunner(), mocks.NewPrompter(), logging.NewNopLogger(), &bytes.Buffer{}, "")
	err := svc.Run(context.Background(), "phase9", env.New(), config.Default(), app.RunOptions{})

	require.Error(t, err)
}

func TestSetupService_Run_Phase2MissingSecretsFile(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.SecretsFile = filepath.Join(t.TempDir(), ".env.secrets")

	runner := mocks.NewCommandRunner()
	svc := app.NewSetupService(runner, mocks.NewPrompter(), logging.NewNopLogger(), &bytes.Buffer{}, "")
	err := svc.Run(context.Background(), app.Phase2, env.New(), cfg, app.RunOptions{})

	require.Error(t, err)
	assert.True(t, provision.IsMissingConfiguration(err))
	assert.Contains(t, err.Error(), ".env.secrets")
	assert.Empty(t, runner.Calls(), "nothing runs without the secrets file")
}

func TestSetupService_Run_ConfigHostnameIsInjected(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Hostname = "bench-01"

	environ := env.New()
	svc := app.NewSetupService(satisfiedPhase1Runner(), mocks.NewPrompter(), logging.NewNopLogger(), &bytes.Buffer{}, "")
	require.NoError(t, svc.Run(context.Background(), app.Phase1, environ, cfg, app.RunOptions{}))

	assert.Equal(t, "bench-01", environ.Get("SETUP_HOSTNAME"))
}

func TestSetupService_Status(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("doppler", []string{"--version"}, ports.CommandResult{ExitCode: 0, Stdout: "v3\n"})
	runner.AddResult("gh", []string{"--version"}, ports.CommandResult{ExitCode: 127})

	var out bytes.Buffer
	svc := app.NewSetupService(runner, mocks.NewPrompter(), logging.NewNopLogger(), &out, "")
	err := svc.Status(context.Background(), app.Phase1, env.New(), config.Default())

	require.NoError(t, err)
	assert.Contains(t, out.String(), "doppler:install ready")
	assert.Contains(t, out.String(), "gh:install needs install")
	assert.False(t, runner.CalledWith("sh"), "status never installs")
}
