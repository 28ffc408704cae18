package identity

import (
	"fmt"
)

// ServerConnection is a server identity plus the access token used to authenticate against it
type ServerConnection struct {
	server      ServerIdentity
	accessToken string
}

// NewServerConnection combines an existing server identity with an access token
func NewServerConnection(server ServerIdentity, accessToken string) (ServerConnection, error) {
	if err := server.validate(); err != nil {
		return ServerConnection{}, err
	}
	if isBlank(accessToken) {
		return ServerConnection{}, newArgumentError("accessToken", "value must not be null or whitespace")
	}
	return ServerConnection{server: server, accessToken: accessToken}, nil
}

// NewServerConnectionForHost creates a https server connection for the given host
func NewServerConnectionForHost(host, accessToken string) (ServerConnection, error) {
	server, err := NewServerIdentity(host)
	if err != nil {
		return ServerConnection{}, err
	}
	return NewServerConnection(server, accessToken)
}

func (c ServerConnection) Server() ServerIdentity { return c.server }
func (c ServerConnection) Protocol() string       { return c.server.Protocol() }
func (c ServerConnection) Host() string           { return c.server.Host() }
func (c ServerConnection) Port() int              { return c.server.Port() }
func (c ServerConnection) URL() string            { return c.server.URL() }
func (c ServerConnection) AccessToken() string    { return c.accessToken }

func (c ServerConnection) IsZero() bool {
	return c == ServerConnection{}
}

func (c ServerConnection) WithServer(server ServerIdentity) (ServerConnection, error) {
	return NewServerConnection(server, c.accessToken)
}

func (c ServerConnection) WithAccessToken(accessToken string) (ServerConnection, error) {
	return NewServerConnection(c.server, accessToken)
}

// Project creates a connection to a project on the same server with the same token
func (c ServerConnection) Project(namespace, project string) (ProjectConnection, error) {
	p, err := c.server.Project(namespace, project)
	if err != nil {
		return ProjectConnection{}, err
	}
	return NewProjectConnection(p, c.accessToken)
}

// Equal compares the identities like ServerIdentity.Equal. Tokens are secrets and must match exactly.
func (c ServerConnection) Equal(other ServerConnection) bool {
	return c.server.Equal(other.server) && c.accessToken == other.accessToken
}

func (c ServerConnection) Key() string {
	return c.server.Key() + "#" + keyPart(c.accessToken)
}

// String never includes the access token
func (c ServerConnection) String() string {
	return fmt.Sprintf("%s (token: %s)", c.server.URL(), redact(c.accessToken))
}

// ProjectConnection is a project identity plus the access token used to authenticate against its server
type ProjectConnection struct {
	project     ProjectIdentity
	accessToken string
}

// NewProjectConnection combines an existing project identity with an access token
func NewProjectConnection(project ProjectIdentity, accessToken string) (ProjectConnection, error) {
	if err := project.validate(); err != nil {
		return ProjectConnection{}, err
	}
	if isBlank(accessToken) {
		return ProjectConnection{}, newArgumentError("accessToken", "value must not be null or whitespace")
	}
	return ProjectConnection{project: project, accessToken: accessToken}, nil
}

// NewProjectConnectionForHost creates a connection to a project on a https host
func NewProjectConnectionForHost(host, namespace, project, accessToken string) (ProjectConnection, error) {
	p, err := NewProjectIdentity(host, namespace, project)
	if err != nil {
		return ProjectConnection{}, err
	}
	return NewProjectConnection(p, accessToken)
}

// NewProjectConnectionFromPath creates a connection to a project on a https host from a "namespace/project" path
func NewProjectConnectionFromPath(host, projectPath, accessToken string) (ProjectConnection, error) {
	p, err := NewProjectIdentityFromPath(host, projectPath)
	if err != nil {
		return ProjectConnection{}, err
	}
	return NewProjectConnection(p, accessToken)
}

func (c ProjectConnection) Identity() ProjectIdentity { return c.project }
func (c ProjectConnection) Protocol() string          { return c.project.Protocol() }
func (c ProjectConnection) Host() string              { return c.project.Host() }
func (c ProjectConnection) Port() int                 { return c.project.Port() }
func (c ProjectConnection) URL() string               { return c.project.URL() }
func (c ProjectConnection) Namespace() string         { return c.project.Namespace() }
func (c ProjectConnection) Project() string           { return c.project.Project() }
func (c ProjectConnection) ProjectPath() string       { return c.project.ProjectPath() }
func (c ProjectConnection) WebURL() string            { return c.project.WebURL() }
func (c ProjectConnection) AccessToken() string       { return c.accessToken }

func (c ProjectConnection) IsZero() bool {
	return c == ProjectConnection{}
}

// Server drops the project part, keeping server and token
func (c ProjectConnection) Server() ServerConnection {
	return ServerConnection{server: c.project.Server(), accessToken: c.accessToken}
}

func (c ProjectConnection) WithIdentity(project ProjectIdentity) (ProjectConnection, error) {
	return NewProjectConnection(project, c.accessToken)
}

func (c ProjectConnection) WithAccessToken(accessToken string) (ProjectConnection, error) {
	return NewProjectConnection(c.project, accessToken)
}

func (c ProjectConnection) WithNamespace(namespace string) (ProjectConnection, error) {
	p, err := c.project.WithNamespace(namespace)
	if err != nil {
		return ProjectConnection{}, err
	}
	return c.WithIdentity(p)
}

func (c ProjectConnection) WithProject(project string) (ProjectConnection, error) {
	p, err := c.project.WithProject(project)
	if err != nil {
		return ProjectConnection{}, err
	}
	return c.WithIdentity(p)
}

func (c ProjectConnection) WithProjectPath(projectPath string) (ProjectConnection, error) {
	p, err := c.project.WithProjectPath(projectPath)
	if err != nil {
		return ProjectConnection{}, err
	}
	return c.WithIdentity(p)
}

// Equal compares the identities like ProjectIdentity.Equal. Tokens must match exactly.
func (c ProjectConnection) Equal(other ProjectConnection) bool {
	return c.project.Equal(other.project) && c.accessToken == other.accessToken
}

func (c ProjectConnection) Key() string {
	return c.project.Key() + "#" + keyPart(c.accessToken)
}

// String never includes the access token
func (c ProjectConnection) String() string {
	return fmt.Sprintf("%s (token: %s)", c.project.WebURL(), redact(c.accessToken))
}

func redact(token string) string {
	if token == "" {
		return "<none>"
	}
	return "****"
}
