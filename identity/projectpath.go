package identity

import (
	"strings"
)

// ParseProjectPath splits a GitLab project path into namespace and project name.
// The split happens on the last "/", so "group/subgroup/project" yields namespace "group/subgroup"
// and project "project".
func ParseProjectPath(projectPath string) (namespace, project string, err error) {
	return parseProjectPath("projectPath", projectPath)
}

// JoinProjectPath is the inverse of ParseProjectPath
func JoinProjectPath(namespace, project string) string {
	return namespace + "/" + project
}

func parseProjectPath(param, projectPath string) (string, string, error) {
	if isBlank(projectPath) {
		return "", "", newArgumentError(param, "project path must not be empty")
	}

	if strings.HasPrefix(projectPath, "/") {
		return "", "", newArgumentError(param, "project path '%s' must not start with '/'", projectPath)
	}

	if strings.HasSuffix(projectPath, "/") {
		return "", "", newArgumentError(param, "project path '%s' must not end with '/'", projectPath)
	}

	idx := strings.LastIndex(projectPath, "/")
	if idx < 0 {
		return "", "", newArgumentError(param, "project path '%s' does not contain '/'", projectPath)
	}

	namespace := projectPath[:idx]
	project := projectPath[idx+1:]

	if err := validateNamespace(param, namespace); err != nil {
		return "", "", err
	}
	if err := validateProject(param, project); err != nil {
		return "", "", err
	}

	return namespace, project, nil
}

func validateNamespace(param, namespace string) error {
	if isBlank(namespace) {
		return newArgumentError(param, "namespace must not be empty")
	}
	if strings.HasPrefix(namespace, "/") || strings.HasSuffix(namespace, "/") {
		return newArgumentError(param, "namespace '%s' must not start or end with '/'", namespace)
	}
	return nil
}

func validateProject(param, project string) error {
	if isBlank(project) {
		return newArgumentError(param, "project name must not be empty")
	}
	if strings.Contains(project, "/") {
		return newArgumentError(param, "project name '%s' must not contain '/'", project)
	}
	return nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
