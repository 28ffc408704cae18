package identity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProjectIdentity(t *testing.T) {
	t.Parallel()

	p, err := NewProjectIdentity("example.com", "group/subgroup", "project")
	require.NoError(t, err)

	assert.Equal(t, "https", p.Protocol())
	assert.Equal(t, "example.com", p.Host())
	assert.Equal(t, 443, p.Port())
	assert.Equal(t, "https://example.com/", p.URL())
	assert.Equal(t, "group/subgroup", p.Namespace())
	assert.Equal(t, "project", p.Project())
	assert.Equal(t, "group/subgroup/project", p.ProjectPath())
	assert.Equal(t, "https://example.com/group/subgroup/project", p.WebURL())
}

func TestNewProjectIdentityFromPath(t *testing.T) {
	t.Parallel()

	p, err := NewProjectIdentityFromPath("example.com", "group/subgroup/project")
	require.NoError(t, err)

	assert.Equal(t, "group/subgroup", p.Namespace())
	assert.Equal(t, "project", p.Project())

	_, err = NewProjectIdentityFromPath("example.com", "project")
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestNewProjectIdentityOnServer(t *testing.T) {
	t.Parallel()

	server, err := NewServerIdentityWithPort("http", "localhost", 8080)
	require.NoError(t, err)

	p, err := server.Project("group", "project")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/group/project", p.WebURL())
	assert.True(t, server.Equal(p.Server()))

	fromPath, err := server.ProjectFromPath("group/project")
	require.NoError(t, err)
	assert.True(t, p.Equal(fromPath))

	_, err = ServerIdentity{}.Project("group", "project")
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestNewProjectIdentityRejectsBlankArguments(t *testing.T) {
	t.Parallel()

	for _, value := range blankValues {
		_, err := NewProjectIdentity(value, "group", "project")
		assert.True(t, errors.Is(err, ErrInvalidArgument), "host %q", value)

		_, err = NewProjectIdentity("example.com", value, "project")
		assert.True(t, errors.Is(err, ErrInvalidArgument), "namespace %q", value)

		_, err = NewProjectIdentity("example.com", "group", value)
		assert.True(t, errors.Is(err, ErrInvalidArgument), "project %q", value)

		_, err = NewProjectIdentityFromPath(value, "group/project")
		assert.True(t, errors.Is(err, ErrInvalidArgument), "host %q", value)

		_, err = NewProjectIdentityFromPath("example.com", value)
		assert.True(t, errors.Is(err, ErrInvalidArgument), "projectPath %q", value)
	}
}

func TestNewProjectIdentityRejectsMalformedNames(t *testing.T) {
	t.Parallel()

	_, err := NewProjectIdentity("example.com", "/group", "project")
	assert.Error(t, err)
	_, err = NewProjectIdentity("example.com", "group/", "project")
	assert.Error(t, err)
	_, err = NewProjectIdentity("example.com", "group", "sub/project")
	assert.Error(t, err)
}

func TestProjectIdentityDerivedFields(t *testing.T) {
	t.Parallel()

	p, err := NewProjectIdentity("example.com", "group/subgroup", "project")
	require.NoError(t, err)

	renamed, err := p.WithProject("x")
	require.NoError(t, err)
	assert.Equal(t, "group/subgroup/x", renamed.ProjectPath())

	moved, err := p.WithNamespace("other")
	require.NoError(t, err)
	assert.Equal(t, "other/project", moved.ProjectPath())

	repathed, err := p.WithProjectPath("g2/x")
	require.NoError(t, err)
	assert.Equal(t, "g2", repathed.Namespace())
	assert.Equal(t, "x", repathed.Project())

	rehosted, err := p.WithHost("gitlab.com")
	require.NoError(t, err)
	assert.Equal(t, "gitlab.com", rehosted.Host())
	assert.Equal(t, "group/subgroup/project", rehosted.ProjectPath())

	reported, err := p.WithPort(8443)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com:8443/", reported.URL())

	reprotocoled, err := p.WithProtocol("http")
	require.NoError(t, err)
	assert.Equal(t, "http", reprotocoled.Protocol())

	// the original is unchanged
	assert.Equal(t, "group/subgroup", p.Namespace())
	assert.Equal(t, "project", p.Project())
	assert.Equal(t, "example.com", p.Host())
}

func TestProjectIdentityWithInvalidValueFails(t *testing.T) {
	t.Parallel()

	p, err := NewProjectIdentity("example.com", "group", "project")
	require.NoError(t, err)

	for _, projectPath := range []string{"user", "user/", "/user", ""} {
		_, err := p.WithProjectPath(projectPath)
		assert.True(t, errors.Is(err, ErrInvalidArgument), projectPath)
	}

	_, err = p.WithProject("")
	assert.Error(t, err)
	_, err = p.WithNamespace(" ")
	assert.Error(t, err)
	_, err = p.WithServer(ServerIdentity{})
	assert.Error(t, err)

	assert.Equal(t, "group/project", p.ProjectPath())
}

func TestProjectIdentityEquality(t *testing.T) {
	t.Parallel()

	upper, err := NewProjectIdentity("EXAMPLE.COM", "GROUP/SUB", "REPO")
	require.NoError(t, err)
	lower, err := NewProjectIdentity("example.com", "group/sub", "repo")
	require.NoError(t, err)
	other, err := NewProjectIdentity("example.com", "group/sub", "other")
	require.NoError(t, err)
	otherHost, err := NewProjectIdentity("gitlab.com", "group/sub", "repo")
	require.NoError(t, err)

	assert.True(t, upper.Equal(lower))
	assert.Equal(t, upper.Key(), lower.Key())
	assert.False(t, lower.Equal(other))
	assert.False(t, lower.Equal(otherHost))
	assert.NotEqual(t, lower.Key(), other.Key())

	seen := map[string]bool{upper.Key(): true}
	assert.True(t, seen[lower.Key()])
}

func TestTryProjectIdentityFromServerAndPath(t *testing.T) {
	t.Parallel()

	server, err := NewServerIdentity("example.com")
	require.NoError(t, err)

	p, ok := TryProjectIdentityFromServerAndPath(server, "group/subgroup/project")
	require.True(t, ok)
	assert.Equal(t, "group/subgroup", p.Namespace())
	assert.Equal(t, "project", p.Project())

	for _, projectPath := range []string{"", "project", "group/", "/group/project"} {
		p, ok := TryProjectIdentityFromServerAndPath(server, projectPath)
		assert.False(t, ok, projectPath)
		assert.True(t, p.IsZero())
	}
}
