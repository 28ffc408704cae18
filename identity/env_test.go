package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) LookupEnvFunc {
	return func(key string) (string, bool) {
		value, ok := env[key]
		return value, ok
	}
}

func TestTryCurrentServerIdentity(t *testing.T) {
	t.Parallel()

	server, ok := TryCurrentServerIdentity(lookupFrom(map[string]string{
		EnvServerURL: "https://gitlab.example.com:8443",
	}))
	require.True(t, ok)
	assert.Equal(t, "gitlab.example.com", server.Host())
	assert.Equal(t, 8443, server.Port())

	for _, env := range []map[string]string{
		{},
		{EnvServerURL: ""},
		{EnvServerURL: "not-a-url"},
	} {
		_, ok := TryCurrentServerIdentity(lookupFrom(env))
		assert.False(t, ok, "%v", env)
	}
}

func TestTryCurrentProjectIdentity(t *testing.T) {
	t.Parallel()

	p, ok := TryCurrentProjectIdentity(lookupFrom(map[string]string{
		EnvServerURL:   "https://gitlab.com",
		EnvProjectPath: "group/subgroup/project",
	}))
	require.True(t, ok)
	assert.Equal(t, "gitlab.com", p.Host())
	assert.Equal(t, "group/subgroup", p.Namespace())
	assert.Equal(t, "project", p.Project())

	for _, env := range []map[string]string{
		{EnvProjectPath: "group/project"},
		{EnvServerURL: "https://gitlab.com"},
		{EnvServerURL: "https://gitlab.com", EnvProjectPath: "project"},
	} {
		_, ok := TryCurrentProjectIdentity(lookupFrom(env))
		assert.False(t, ok, "%v", env)
	}
}
