package identity

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var supportedRemoteSchemes = map[string]bool{
	"http":  true,
	"https": true,
	"ssh":   true,
}

// parseRemoteURL returns plain errors; callers decide whether to wrap them or just report failure
func parseRemoteURL(remoteURL string) (ProjectIdentity, error) {
	if isBlank(remoteURL) {
		return ProjectIdentity{}, errors.New("value must not be null or whitespace")
	}

	u, err := remoteURLToURI(remoteURL)
	if err != nil {
		return ProjectIdentity{}, err
	}

	scheme := strings.ToLower(u.Scheme)
	if !supportedRemoteSchemes[scheme] {
		return ProjectIdentity{}, fmt.Errorf("unsupported scheme '%s'", u.Scheme)
	}

	if u.Hostname() == "" {
		return ProjectIdentity{}, errors.New("not a valid URI")
	}

	projectPath, err := remotePath(u)
	if err != nil {
		return ProjectIdentity{}, err
	}
	projectPath = strings.TrimSuffix(projectPath, ".git")

	namespace, project, err := parseProjectPath("remoteUrl", projectPath)
	if err != nil {
		var argErr *ArgumentError
		if errors.As(err, &argErr) {
			return ProjectIdentity{}, errors.New(argErr.Reason)
		}
		return ProjectIdentity{}, err
	}

	// The project lives on the web host of the server, so the scheme of an ssh remote is not carried over.
	// Only explicit http(s) remotes keep their protocol and port.
	server, err := remoteServer(scheme, u)
	if err != nil {
		return ProjectIdentity{}, err
	}

	return newProjectIdentity(server, namespace, project)
}

// remoteURLToURI tries the input as an absolute uri first and falls back to scp-style "user@host:path"
func remoteURLToURI(remoteURL string) (*url.URL, error) {
	if u, err := url.Parse(remoteURL); err == nil && u.IsAbs() {
		return u, nil
	}

	segments := strings.Split(remoteURL, ":")
	if len(segments) != 2 {
		return nil, errors.New("not a valid URI")
	}

	u, err := url.Parse("ssh://" + segments[0] + "/" + segments[1])
	if err != nil || !u.IsAbs() {
		return nil, errors.New("not a valid URI")
	}
	return u, nil
}

// remotePath decodes the path of u segment by segment. A segment holding an escaped "/" is rejected instead of
// being read as a nested group.
func remotePath(u *url.URL) (string, error) {
	segments := strings.Split(strings.Trim(u.EscapedPath(), "/"), "/")
	for i, segment := range segments {
		decoded, err := url.PathUnescape(segment)
		if err != nil {
			return "", fmt.Errorf("invalid path segment '%s'", segment)
		}
		if strings.Contains(decoded, "/") {
			return "", fmt.Errorf("path segment '%s' contains an escaped '/'", segment)
		}
		segments[i] = decoded
	}
	return strings.Join(segments, "/"), nil
}

func remoteServer(scheme string, u *url.URL) (ServerIdentity, error) {
	if scheme == "ssh" {
		return NewServerIdentity(u.Hostname())
	}
	if u.Port() == "" {
		return NewServerIdentityWithProtocol(scheme, u.Hostname())
	}
	return ServerIdentityFromURL(scheme + "://" + u.Host)
}
