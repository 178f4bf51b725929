package duckdb_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsbench/setup/internal/domain/env"
	"github.com/opsbench/setup/internal/domain/provision"
	"github.com/opsbench/setup/internal/ports"
	"github.com/opsbench/setup/internal/provider/duckdb"
	"github.com/opsbench/setup/internal/testutil/mocks"
)

func TestInstallStep_Lifecycle(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("duckdb", []string{"--version"},
		ports.CommandResult{ExitCode: 0, Stdout: "v1.2.1\n"})

	step := duckdb.NewInstallStep(runner)
	rctx := provision.NewRunContext(context.Background(), env.New())

	assert.Equal(t, "duckdb:install", step.ID().String())

	ok, err := step.Check(rctx)
	require.NoError(t, err)
	assert.True(t, ok)

	var out bytes.Buffer
	require.NoError(t, step.Verify(rctx.WithOut(&out)))
	assert.Equal(t, "v1.2.1\n", out.String())
}

func TestInstallStep_Install_ScriptFails(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("sh", []string{"-c", `curl -fsSL https://install.duckdb.org | sh`},
		ports.CommandResult{ExitCode: 22, Stderr: "curl: HTTP error"})

	err := duckdb.NewInstallStep(runner).Install(provision.NewRunContext(context.Background(), env.New()))

	var se *provision.SetupError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 22, se.ExitCode)
}
