package s2_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsbench/setup/internal/domain/env"
	"github.com/opsbench/setup/internal/domain/provision"
	"github.com/opsbench/setup/internal/ports"
	"github.com/opsbench/setup/internal/provider/s2"
	"github.com/opsbench/setup/internal/testutil/mocks"
)

func TestInstallStep_CheckNotInstalledThenInstall(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("s2", []string{"--version"}, ports.CommandResult{ExitCode: 127})
	runner.AddResult("sh", []string{"-c", `curl -fsSL https://s2.dev/install.sh | bash`},
		ports.CommandResult{ExitCode: 0})

	step := s2.NewInstallStep(runner)
	rctx := provision.NewRunContext(context.Background(), env.New())

	ok, err := step.Check(rctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, step.Install(rctx))
	assert.Equal(t, "s2:install", step.ID().String())
}
