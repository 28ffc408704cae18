package source

import (
	"fmt"
	"strings"
)

// SourceType identifies a Source implementation
type SourceType string

const (
	TypeGitLab SourceType = "gitlab"
	TypeFake   SourceType = "fake"
)

// ParseSourceType converts string to SourceType
func ParseSourceType(s string) (SourceType, error) {
	switch strings.ToLower(s) {
	case "gitlab", "":
		return TypeGitLab, nil
	case "fake":
		return TypeFake, nil
	default:
		return "", fmt.Errorf("unknown source type: %s (valid: gitlab, fake)", s)
	}
}

// NewSource creates a Source implementation based on type
func NewSource(sourceType SourceType, config Config) (Source, error) {
	switch sourceType {
	case TypeGitLab:
		if NewGitLabSource == nil {
			return nil, fmt.Errorf("source type %s is not registered", sourceType)
		}
		return NewGitLabSource(config), nil
	case TypeFake:
		if NewFakeSource == nil {
			return nil, fmt.Errorf("source type %s is not registered", sourceType)
		}
		return NewFakeSource(config), nil
	default:
		return nil, fmt.Errorf("unsupported source type: %s", sourceType)
	}
}

// NewGitLabSource creates a GitLab source. It is set by importing the gitlab package.
var NewGitLabSource func(config Config) Source

// NewFakeSource creates an in-memory source. It is set by importing the fake package.
var NewFakeSource func(config Config) Source
