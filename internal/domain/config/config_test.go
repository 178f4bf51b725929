package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsbench/setup/internal/domain/config"
)

func TestParse_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.Parse([]byte(""))

	require.NoError(t, err)
	assert.Equal(t, ".env.secrets", cfg.SecretsFile)
	assert.Equal(t, 15*time.Second, cfg.SettleTimeout(15*time.Second))
	assert.True(t, cfg.ToolEnabled("docker"))
}

func TestParse_Overrides(t *testing.T) {
	t.Parallel()

	cfg, err := config.Parse([]byte(`
secrets_file: /etc/bench/secrets.env
hostname: bench-01
daemon_settle_timeout: 45s
disabled:
  - tinybird
  - s2
`))

	require.NoError(t, err)
	assert.Equal(t, "/etc/bench/secrets.env", cfg.SecretsFile)
	assert.Equal(t, "bench-01", cfg.Hostname)
	assert.Equal(t, 45*time.Second, cfg.SettleTimeout(15*time.Second))
	assert.False(t, cfg.ToolEnabled("tinybird"))
	assert.False(t, cfg.ToolEnabled("s2"))
	assert.True(t, cfg.ToolEnabled("docker"))
}

func TestParse_BadDuration(t *testing.T) {
	t.Parallel()

	_, err := config.Parse([]byte("daemon_settle_timeout: soon"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "daemon_settle_timeout")
}

func TestParse_BadYAML(t *testing.T) {
	t.Parallel()

	_, err := config.Parse([]byte("disabled: {not a list"))

	require.Error(t, err)
}

func TestParse_EmptySecretsFileRejected(t *testing.T) {
	t.Parallel()

	_, err := config.Parse([]byte(`secrets_file: ""`))

	require.Error(t, err)
}

func TestLoad_MissingDefaultPathYieldsDefaults(t *testing.T) {
	// Not parallel: chdir is process-wide.
	dir := t.TempDir()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	cfg, err := config.Load(config.DefaultPath)

	require.NoError(t, err)
	assert.Equal(t, ".env.secrets", cfg.SecretsFile)
}

func TestLoad_MissingExplicitPathFails(t *testing.T) {
	t.Parallel()

	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))

	require.Error(t, err)
}

func TestLoad_ReadsFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "setup.yaml")
	require.NoError(t, os.WriteFile(path, []byte("hostname: lab-7\n"), 0o644))

	cfg, err := config.Load(path)

	require.NoError(t, err)
	assert.Equal(t, "lab-7", cfg.Hostname)
}
