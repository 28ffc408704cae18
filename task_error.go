package main

import (
	"errors"
	"fmt"

	"github.com/gruntwork-io/gitlab-tasks/source"
)

// We define a custom error type so that we can provide friendlier error messages
type taskError struct {
	errorCode int    // an error code is an arbitrary int that allows for strongly typed identification of specific errors
	details   string // the output of the underlying error message, if any
	err       error  // the underlying golang error, if any
}

// Implement the golang Error interface
func (e *taskError) Error() string {
	return fmt.Sprintf("%d - %s", e.errorCode, e.details)
}

func (e *taskError) Unwrap() error {
	return e.err
}

func newError(errorCode int, details string) *taskError {
	return &taskError{
		errorCode: errorCode,
		details:   details,
	}
}

func wrapError(errorCode int, err error) *taskError {
	return &taskError{
		errorCode: errorCode,
		details:   err.Error(),
		err:       err,
	}
}

// wrapSourceError assigns an error code to a failure reported by a source. Errors without a matching code are
// returned unchanged.
func wrapSourceError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, source.ErrUnauthorized):
		return wrapError(invalidTokenOrAccessDenied, err)
	case errors.Is(err, source.ErrNotFound):
		return wrapError(resourceDoesNotExistOrAccessDenied, err)
	default:
		return err
	}
}

func getErrorMessage(errorCode int, errorDetails string) string {
	switch errorCode {
	case invalidTagConstraintExpression:
		return fmt.Sprintf(`
The --constraint value you entered is not a valid constraint expression.
See https://github.com/hashicorp/go-version for the supported operators.

Underlying error message:
%s
`, errorDetails)
	case projectNotResolvable:
		return fmt.Sprintf(`
Could not determine which GitLab project to use.

Pass --server-url and --project, pass --remote-url, set CI_SERVER_URL and CI_PROJECT_PATH, or run the command inside a
git repository whose remote points at a GitLab project.

Underlying error message:
%s
`, errorDetails)
	case missingAccessToken:
		return fmt.Sprintf(`
This command needs a GitLab access token.

Pass --token, set the GITLAB_TOKEN environment variable or add a token to the config file.

Underlying error message:
%s
`, errorDetails)
	case invalidTokenOrAccessDenied:
		return fmt.Sprintf(`
Received an HTTP 401 or 403 Response from the GitLab API.

This means that either your access token is invalid, or that the token is valid but lacks the scopes needed to access
the project.

Underlying error message:
%s
`, errorDetails)
	case resourceDoesNotExistOrAccessDenied:
		return fmt.Sprintf(`
Received an HTTP 404 Response from the GitLab API.

This means that either the project or the requested resource does not exist, or that you don't have permission to see it.
GitLab answers 404 instead of 403 for private projects, so check the access token as well.

Underlying error message:
%s
`, errorDetails)
	}

	return ""
}

// friendlyError expands coded errors into the long form message shown to users
func friendlyError(err error) error {
	var taskErr *taskError
	if errors.As(err, &taskErr) {
		if message := getErrorMessage(taskErr.errorCode, taskErr.details); message != "" {
			return errors.New(message)
		}
	}
	return err
}
