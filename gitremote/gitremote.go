// Package gitremote resolves the GitLab project of a local git checkout from the URL of one of its remotes.
package gitremote

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/gruntwork-io/gitlab-tasks/identity"
)

// DefaultRemote is the remote consulted when the caller does not name one
const DefaultRemote = "origin"

// RemoteURL returns the first URL of the named remote of the repository containing dir. Parent directories of dir
// are searched for the .git directory, so any directory inside a checkout works.
func RemoteURL(dir, remoteName string) (string, error) {
	if remoteName == "" {
		remoteName = DefaultRemote
	}

	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("failed to open git repository at %s: %w", dir, err)
	}

	remote, err := repo.Remote(remoteName)
	if err != nil {
		if errors.Is(err, git.ErrRemoteNotFound) {
			return "", fmt.Errorf("git repository at %s has no remote named %s", dir, remoteName)
		}
		return "", fmt.Errorf("failed to read remote %s: %w", remoteName, err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 || urls[0] == "" {
		return "", fmt.Errorf("remote %s of %s has no url", remoteName, dir)
	}
	return urls[0], nil
}

// ProjectIdentity resolves the GitLab project that the named remote of the repository containing dir points at
func ProjectIdentity(dir, remoteName string) (identity.ProjectIdentity, error) {
	remoteURL, err := RemoteURL(dir, remoteName)
	if err != nil {
		return identity.ProjectIdentity{}, err
	}
	return identity.ProjectIdentityFromGitRemoteURL(remoteURL)
}
