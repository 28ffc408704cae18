package identity

// Variables GitLab CI sets for every job
const (
	EnvServerURL   = "CI_SERVER_URL"
	EnvProjectPath = "CI_PROJECT_PATH"
)

// LookupEnvFunc has the signature of os.LookupEnv
type LookupEnvFunc func(key string) (string, bool)

// TryCurrentServerIdentity determines the GitLab server of the running CI job
func TryCurrentServerIdentity(lookup LookupEnvFunc) (ServerIdentity, bool) {
	serverURL, ok := lookup(EnvServerURL)
	if !ok || isBlank(serverURL) {
		return ServerIdentity{}, false
	}

	server, err := ServerIdentityFromURL(serverURL)
	if err != nil {
		return ServerIdentity{}, false
	}
	return server, true
}

// TryCurrentProjectIdentity determines the project of the running CI job
func TryCurrentProjectIdentity(lookup LookupEnvFunc) (ProjectIdentity, bool) {
	server, ok := TryCurrentServerIdentity(lookup)
	if !ok {
		return ProjectIdentity{}, false
	}

	projectPath, ok := lookup(EnvProjectPath)
	if !ok {
		return ProjectIdentity{}, false
	}
	return TryProjectIdentityFromServerAndPath(server, projectPath)
}
