package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvironment_SetAndLookup(t *testing.T) {
	t.Parallel()

	e := New()
	e.Set("TAILSCALE_AUTHKEY", "tskey-abc")

	v, ok := e.Lookup("TAILSCALE_AUTHKEY")
	assert.True(t, ok)
	assert.Equal(t, "tskey-abc", v)
}

func TestEnvironment_Lookup_EmptyValueIsAbsent(t *testing.T) {
	t.Parallel()

	e := New()
	e.Set("GH_TOKEN", "")

	_, ok := e.Lookup("GH_TOKEN")
	assert.False(t, ok)
	assert.False(t, e.Has("GH_TOKEN"))
}

func TestEnvironment_Merge_Overrides(t *testing.T) {
	t.Parallel()

	e := New()
	e.Set("TB_HOST", "https://old.example.com")
	e.Merge(map[string]string{
		"TB_HOST":  "https://api.tinybird.co",
		"TB_TOKEN": "p.token",
	})

	assert.Equal(t, "https://api.tinybird.co", e.Get("TB_HOST"))
	assert.Equal(t, "p.token", e.Get("TB_TOKEN"))
	assert.Equal(t, 2, e.Len())
}

func TestEnvironment_Missing(t *testing.T) {
	t.Parallel()

	e := New()
	e.Set("DOPPLER_TOKEN", "dp.st.xyz")

	missing := e.Missing([]string{"TAILSCALE_AUTHKEY", "DOPPLER_TOKEN", "GH_TOKEN"})
	assert.Equal(t, []string{"GH_TOKEN", "TAILSCALE_AUTHKEY"}, missing)
}

func TestEnvironment_Missing_AllPresent(t *testing.T) {
	t.Parallel()

	e := New()
	e.Set("A", "1")

	assert.Empty(t, e.Missing([]string{"A"}))
	assert.Empty(t, e.Missing(nil))
}

func TestFromOS(t *testing.T) {
	t.Setenv("SETUP_ENV_TEST_KEY", "present")

	e := FromOS()

	v, ok := e.Lookup("SETUP_ENV_TEST_KEY")
	assert.True(t, ok)
	assert.Equal(t, "present", v)
}
