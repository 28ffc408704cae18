package identity

import (
	"strings"
)

// ProjectIdentity identifies a project on a GitLab server. The namespace may contain "/" for nested groups, the
// project name may not.
type ProjectIdentity struct {
	server    ServerIdentity
	namespace string
	project   string
}

// NewProjectIdentity creates a project identity on the given host using the https protocol
func NewProjectIdentity(host, namespace, project string) (ProjectIdentity, error) {
	server, err := NewServerIdentity(host)
	if err != nil {
		return ProjectIdentity{}, err
	}
	return newProjectIdentity(server, namespace, project)
}

// NewProjectIdentityFromPath creates a project identity on the given host from a "namespace/project" path
func NewProjectIdentityFromPath(host, projectPath string) (ProjectIdentity, error) {
	server, err := NewServerIdentity(host)
	if err != nil {
		return ProjectIdentity{}, err
	}
	return server.ProjectFromPath(projectPath)
}

func newProjectIdentity(server ServerIdentity, namespace, project string) (ProjectIdentity, error) {
	if err := server.validate(); err != nil {
		return ProjectIdentity{}, err
	}
	if err := validateNamespace("namespace", namespace); err != nil {
		return ProjectIdentity{}, err
	}
	if err := validateProject("project", project); err != nil {
		return ProjectIdentity{}, err
	}

	return ProjectIdentity{
		server:    server,
		namespace: namespace,
		project:   project,
	}, nil
}

// ProjectIdentityFromGitRemoteURL determines the project from a git remote url. Supported are http, https and ssh
// urls as well as scp-style remotes like "git@gitlab.com:group/project.git".
func ProjectIdentityFromGitRemoteURL(remoteURL string) (ProjectIdentity, error) {
	p, err := parseRemoteURL(remoteURL)
	if err != nil {
		return ProjectIdentity{}, newArgumentError("remoteUrl", "'%s' is not a valid GitLab project url: %s", remoteURL, err)
	}
	return p, nil
}

// TryProjectIdentityFromGitRemoteURL is like ProjectIdentityFromGitRemoteURL but reports failure as false
func TryProjectIdentityFromGitRemoteURL(remoteURL string) (ProjectIdentity, bool) {
	p, err := parseRemoteURL(remoteURL)
	if err != nil {
		return ProjectIdentity{}, false
	}
	return p, true
}

// TryProjectIdentityFromServerAndPath combines a known server with a raw project path
func TryProjectIdentityFromServerAndPath(server ServerIdentity, projectPath string) (ProjectIdentity, bool) {
	p, err := server.ProjectFromPath(projectPath)
	if err != nil {
		return ProjectIdentity{}, false
	}
	return p, true
}

func (p ProjectIdentity) Server() ServerIdentity { return p.server }
func (p ProjectIdentity) Protocol() string       { return p.server.Protocol() }
func (p ProjectIdentity) Host() string           { return p.server.Host() }
func (p ProjectIdentity) Port() int              { return p.server.Port() }
func (p ProjectIdentity) URL() string            { return p.server.URL() }
func (p ProjectIdentity) Namespace() string      { return p.namespace }
func (p ProjectIdentity) Project() string        { return p.project }

// ProjectPath returns "<namespace>/<project>"
func (p ProjectIdentity) ProjectPath() string {
	return JoinProjectPath(p.namespace, p.project)
}

// WebURL returns the url of the project's page on the server
func (p ProjectIdentity) WebURL() string {
	return p.server.URL() + p.ProjectPath()
}

func (p ProjectIdentity) IsZero() bool {
	return p == ProjectIdentity{}
}

func (p ProjectIdentity) WithServer(server ServerIdentity) (ProjectIdentity, error) {
	return newProjectIdentity(server, p.namespace, p.project)
}

func (p ProjectIdentity) WithProtocol(protocol string) (ProjectIdentity, error) {
	server, err := p.server.WithProtocol(protocol)
	if err != nil {
		return ProjectIdentity{}, err
	}
	return p.WithServer(server)
}

func (p ProjectIdentity) WithHost(host string) (ProjectIdentity, error) {
	server, err := p.server.WithHost(host)
	if err != nil {
		return ProjectIdentity{}, err
	}
	return p.WithServer(server)
}

func (p ProjectIdentity) WithPort(port int) (ProjectIdentity, error) {
	server, err := p.server.WithPort(port)
	if err != nil {
		return ProjectIdentity{}, err
	}
	return p.WithServer(server)
}

// WithNamespace returns a copy of p in another namespace. The project path follows.
func (p ProjectIdentity) WithNamespace(namespace string) (ProjectIdentity, error) {
	return newProjectIdentity(p.server, namespace, p.project)
}

// WithProject returns a copy of p with another project name. The project path follows.
func (p ProjectIdentity) WithProject(project string) (ProjectIdentity, error) {
	return newProjectIdentity(p.server, p.namespace, project)
}

// WithProjectPath re-parses the path and replaces both namespace and project name
func (p ProjectIdentity) WithProjectPath(projectPath string) (ProjectIdentity, error) {
	return p.server.ProjectFromPath(projectPath)
}

// WithAccessToken combines p with a token into a project connection
func (p ProjectIdentity) WithAccessToken(accessToken string) (ProjectConnection, error) {
	return NewProjectConnection(p, accessToken)
}

// Equal compares all fields case-insensitively, except for the port
func (p ProjectIdentity) Equal(other ProjectIdentity) bool {
	return p.server.Equal(other.server) &&
		strings.EqualFold(p.namespace, other.namespace) &&
		strings.EqualFold(p.project, other.project)
}

// Key returns a canonical representation of p, suitable as a map key
func (p ProjectIdentity) Key() string {
	return p.server.Key() + "/" + keyPart(strings.ToLower(p.namespace)) + "/" + keyPart(strings.ToLower(p.project))
}

func (p ProjectIdentity) String() string {
	return p.WebURL()
}

func (p ProjectIdentity) validate() error {
	if p.IsZero() {
		return newArgumentError("project", "project identity must not be empty")
	}
	return nil
}
