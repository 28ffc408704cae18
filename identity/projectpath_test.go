package identity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProjectPath(t *testing.T) {
	t.Parallel()

	cases := []struct {
		projectPath string
		namespace   string
		project     string
	}{
		{"user/project", "user", "project"},
		{"group/subgroup/project", "group/subgroup", "project"},
		{"a/b/c/d/project", "a/b/c/d", "project"},
		{"Group/SubGroup/Project", "Group/SubGroup", "Project"},
		{"group/project.name", "group", "project.name"},
	}

	for _, tc := range cases {
		t.Run(tc.projectPath, func(t *testing.T) {
			namespace, project, err := ParseProjectPath(tc.projectPath)
			require.NoError(t, err)

			assert.Equal(t, tc.namespace, namespace)
			assert.Equal(t, tc.project, project)
			assert.Equal(t, tc.projectPath, JoinProjectPath(namespace, project))
		})
	}
}

func TestParseProjectPathInvalid(t *testing.T) {
	t.Parallel()

	cases := []struct {
		projectPath string
		reason      string
	}{
		{"", "must not be empty"},
		{" ", "must not be empty"},
		{"user", "does not contain '/'"},
		{"user/", "must not end with '/'"},
		{"/user", "must not start with '/'"},
		{"group/subgroup/", "must not end with '/'"},
		{"/group/subgroup/", "must not start with '/'"},
		{"/group/subgroup/project", "must not start with '/'"},
		{"group//project", "namespace"},
		{" /project", "namespace must not be empty"},
		{"group/ ", "project name must not be empty"},
	}

	for _, tc := range cases {
		t.Run(tc.projectPath, func(t *testing.T) {
			_, _, err := ParseProjectPath(tc.projectPath)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidArgument))
			assert.Contains(t, err.Error(), tc.reason)
		})
	}
}

func TestProjectPathRoundTrip(t *testing.T) {
	t.Parallel()

	namespaces := []string{"user", "group/subgroup", "a/b/c", "Mixed/Case"}
	projects := []string{"project", "repo-name", "Repo.Name", "x"}

	for _, namespace := range namespaces {
		for _, project := range projects {
			parsedNamespace, parsedProject, err := ParseProjectPath(JoinProjectPath(namespace, project))
			require.NoError(t, err)
			assert.Equal(t, namespace, parsedNamespace)
			assert.Equal(t, project, parsedProject)
		}
	}
}
