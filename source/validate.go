package source

import (
	"fmt"
	"strings"

	"github.com/gruntwork-io/gitlab-tasks/identity"
)

// The helpers below are shared by every Source implementation so they reject the same input the same way

func ValidateProject(project identity.ProjectConnection) error {
	if project.IsZero() {
		return &identity.ArgumentError{Param: "project", Reason: "project connection must not be empty"}
	}
	return nil
}

func ValidateId(param string, id int) error {
	if id <= 0 {
		return &identity.ArgumentError{Param: param, Reason: fmt.Sprintf("value must be positive, but was %d", id)}
	}
	return nil
}

func ValidateNotBlank(param, value string) error {
	if strings.TrimSpace(value) == "" {
		return &identity.ArgumentError{Param: param, Reason: "value must not be null or whitespace"}
	}
	return nil
}

// ValidateFileDownload checks all required fields of opts
func ValidateFileDownload(opts FileDownloadOptions) error {
	if err := ValidateNotBlank("path", opts.Path); err != nil {
		return err
	}
	if err := ValidateNotBlank("ref", opts.Ref); err != nil {
		return err
	}
	return ValidateNotBlank("destination", opts.Destination)
}

// ValidateTag checks all required fields of opts
func ValidateTag(opts TagOptions) error {
	if err := ValidateNotBlank("name", opts.Name); err != nil {
		return err
	}
	return ValidateNotBlank("ref", opts.Ref)
}
