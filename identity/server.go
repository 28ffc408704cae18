// Package identity models the addressable location of a GitLab server or project, and the connection values
// (identity plus access token) used to authenticate API calls against it. All values are immutable: every
// WithXxx method returns a new, validated value and leaves its receiver untouched.
package identity

import (
	"net"
	"net/url"
	"strconv"
	"strings"
	"unicode"
)

// DefaultProtocol is used when a server is constructed from a bare host name
const DefaultProtocol = "https"

var defaultPorts = map[string]int{
	"http":  80,
	"https": 443,
	"ssh":   22,
}

// DefaultPort returns the standard port of the given protocol, if one is known
func DefaultPort(protocol string) (int, bool) {
	port, ok := defaultPorts[strings.ToLower(protocol)]
	return port, ok
}

// ServerIdentity identifies a GitLab server by protocol, host and port
type ServerIdentity struct {
	protocol string
	host     string
	port     int
}

// NewServerIdentity creates a server identity for the given host using the https protocol
func NewServerIdentity(host string) (ServerIdentity, error) {
	return NewServerIdentityWithProtocol(DefaultProtocol, host)
}

// NewServerIdentityWithProtocol creates a server identity using the default port of the protocol
func NewServerIdentityWithProtocol(protocol, host string) (ServerIdentity, error) {
	if isBlank(protocol) {
		return ServerIdentity{}, newArgumentError("protocol", "value must not be null or whitespace")
	}
	port, ok := DefaultPort(protocol)
	if !ok {
		return ServerIdentity{}, newArgumentError("port", "protocol '%s' has no default port, a port must be specified", protocol)
	}
	return NewServerIdentityWithPort(protocol, host, port)
}

// NewServerIdentityWithPort creates a server identity with an explicit port
func NewServerIdentityWithPort(protocol, host string, port int) (ServerIdentity, error) {
	if isBlank(protocol) {
		return ServerIdentity{}, newArgumentError("protocol", "value must not be null or whitespace")
	}
	if err := validateHost(host); err != nil {
		return ServerIdentity{}, err
	}
	if port <= 0 {
		return ServerIdentity{}, newArgumentError("port", "value must be positive, but was %d", port)
	}

	return ServerIdentity{
		protocol: protocol,
		host:     host,
		port:     port,
	}, nil
}

// ServerIdentityFromURL parses an absolute URL such as "https://gitlab.example.com:8443/" into a server identity.
// Any path, query or credentials in the URL are ignored.
func ServerIdentityFromURL(rawURL string) (ServerIdentity, error) {
	if isBlank(rawURL) {
		return ServerIdentity{}, newArgumentError("url", "value must not be null or whitespace")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return ServerIdentity{}, newArgumentError("url", "'%s' is not a valid url: %s", rawURL, err)
	}
	if !u.IsAbs() || u.Hostname() == "" {
		return ServerIdentity{}, newArgumentError("url", "'%s' is not an absolute url", rawURL)
	}

	if u.Port() == "" {
		return NewServerIdentityWithProtocol(u.Scheme, u.Hostname())
	}

	port, err := strconv.Atoi(u.Port())
	if err != nil {
		return ServerIdentity{}, newArgumentError("url", "'%s' has an invalid port", rawURL)
	}
	return NewServerIdentityWithPort(u.Scheme, u.Hostname(), port)
}

func (s ServerIdentity) Protocol() string { return s.protocol }
func (s ServerIdentity) Host() string     { return s.host }
func (s ServerIdentity) Port() int        { return s.port }

// IsZero reports whether s is the zero value, which no constructor ever returns
func (s ServerIdentity) IsZero() bool {
	return s == ServerIdentity{}
}

// URL returns the canonical url of the server, e.g. "https://gitlab.com/".
// The port is omitted when it is the default port of the protocol.
func (s ServerIdentity) URL() string {
	protocol := strings.ToLower(s.protocol)
	host := strings.ToLower(s.host)

	if defaultPort, ok := DefaultPort(protocol); ok && defaultPort == s.port {
		if strings.Contains(host, ":") {
			host = "[" + host + "]"
		}
		return protocol + "://" + host + "/"
	}
	return protocol + "://" + net.JoinHostPort(host, strconv.Itoa(s.port)) + "/"
}

// WithProtocol returns a copy of s using the given protocol. The port is kept as is.
func (s ServerIdentity) WithProtocol(protocol string) (ServerIdentity, error) {
	return NewServerIdentityWithPort(protocol, s.host, s.port)
}

// WithHost returns a copy of s pointing at another host
func (s ServerIdentity) WithHost(host string) (ServerIdentity, error) {
	return NewServerIdentityWithPort(s.protocol, host, s.port)
}

// WithPort returns a copy of s using the given port
func (s ServerIdentity) WithPort(port int) (ServerIdentity, error) {
	return NewServerIdentityWithPort(s.protocol, s.host, port)
}

// Equal compares protocol and host case-insensitively and port exactly
func (s ServerIdentity) Equal(other ServerIdentity) bool {
	return strings.EqualFold(s.protocol, other.protocol) &&
		strings.EqualFold(s.host, other.host) &&
		s.port == other.port
}

// Key returns a canonical representation of s, suitable as a map key. Two identities are Equal if and only if
// their keys are equal.
func (s ServerIdentity) Key() string {
	return keyPart(strings.ToLower(s.protocol)) + "://" + keyPart(strings.ToLower(s.host)) + ":" + strconv.Itoa(s.port)
}

// keyPart escapes every separator used in keys, so distinct fields never produce the same key
func keyPart(value string) string {
	return url.QueryEscape(value)
}

func (s ServerIdentity) String() string {
	return s.URL()
}

// Project creates a project identity on this server
func (s ServerIdentity) Project(namespace, project string) (ProjectIdentity, error) {
	return newProjectIdentity(s, namespace, project)
}

// ProjectFromPath creates a project identity on this server from a "namespace/project" path
func (s ServerIdentity) ProjectFromPath(projectPath string) (ProjectIdentity, error) {
	namespace, project, err := parseProjectPath("projectPath", projectPath)
	if err != nil {
		return ProjectIdentity{}, err
	}
	return newProjectIdentity(s, namespace, project)
}

// WithAccessToken combines s with a token into a server connection
func (s ServerIdentity) WithAccessToken(accessToken string) (ServerConnection, error) {
	return NewServerConnection(s, accessToken)
}

// validateHost accepts a host name or an unbracketed IP address. Anything that would change the meaning of the
// url built from it is rejected.
func validateHost(host string) error {
	if isBlank(host) {
		return newArgumentError("host", "value must not be null or whitespace")
	}
	if strings.IndexFunc(host, unicode.IsSpace) >= 0 {
		return newArgumentError("host", "'%s' must not contain whitespace", host)
	}
	if strings.ContainsAny(host, "/\\@?#[]%") {
		return newArgumentError("host", "'%s' is not a valid host name", host)
	}
	if strings.Contains(host, ":") && net.ParseIP(host) == nil {
		return newArgumentError("host", "'%s' must not contain a port", host)
	}
	return nil
}

func (s ServerIdentity) validate() error {
	if s.IsZero() {
		return newArgumentError("server", "server identity must not be empty")
	}
	return nil
}
