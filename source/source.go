package source

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/gruntwork-io/gitlab-tasks/identity"
	"github.com/sirupsen/logrus"
)

var (
	// ErrNotFound is returned when the server reports that a project, pipeline, file or other resource does not exist
	ErrNotFound = errors.New("resource not found")

	// ErrUnauthorized is returned when the server rejects the access token
	ErrUnauthorized = errors.New("access denied")
)

// Pipeline represents a CI pipeline of a project
type Pipeline struct {
	Id        int
	Iid       int
	ProjectId int
	Name      string
	Status    string
	Source    string
	Ref       string
	Sha       string
	WebUrl    string
	CreatedAt *time.Time
}

// PipelineListOptions narrows down ListPipelines. Empty fields do not filter.
type PipelineListOptions struct {
	Ref    string
	Status string
}

// MergeRequest represents a merge request of a project
type MergeRequest struct {
	Id           int
	Iid          int
	Title        string
	State        string
	SourceBranch string
	TargetBranch string
	Sha          string
	WebUrl       string
}

// Tag represents a git tag
type Tag struct {
	Name      string
	Message   string
	CommitSha string
}

// TagOptions configures CreateTag
type TagOptions struct {
	Name    string // Name of the new tag
	Ref     string // Branch, tag or commit sha to create the tag from
	Message string // Creates an annotated tag when not empty
}

// Branch represents a git branch
type Branch struct {
	Name      string
	CommitSha string
	Default   bool
	Protected bool
	Merged    bool
	WebUrl    string
}

// FileDownloadOptions configures DownloadFile
type FileDownloadOptions struct {
	Path         string // Path of the file in the repository
	Ref          string // Branch, tag or commit sha to read the file from
	Destination  string // Local file to write
	WithProgress bool   // Print download progress
	// Progress receives the progress output when WithProgress is set. Defaults to os.Stdout.
	Progress io.Writer
}

// Config holds source-specific configuration
type Config struct {
	Logger *logrus.Entry // Logger instance
}

// GetLogger returns the configured logger, or a logger that discards everything
func (c Config) GetLogger() *logrus.Entry {
	if c.Logger != nil {
		return c.Logger
	}
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}

// Source interface defines the GitLab operations available to build scripts
type Source interface {
	// GetPipeline returns a single pipeline by id
	GetPipeline(ctx context.Context, project identity.ProjectConnection, pipelineId int) (Pipeline, error)

	// ListPipelines returns all pipelines of the project matching the options
	ListPipelines(ctx context.Context, project identity.ProjectConnection, opts PipelineListOptions) ([]Pipeline, error)

	// GetMergeRequest returns a merge request by its project-level id
	GetMergeRequest(ctx context.Context, project identity.ProjectConnection, iid int) (MergeRequest, error)

	// DownloadFile writes a file from the repository to the local disk
	DownloadFile(ctx context.Context, project identity.ProjectConnection, opts FileDownloadOptions) error

	// ListTags returns all tags of the repository
	ListTags(ctx context.Context, project identity.ProjectConnection) ([]Tag, error)

	// CreateTag creates a new tag in the repository
	CreateTag(ctx context.Context, project identity.ProjectConnection, opts TagOptions) (Tag, error)

	// ListBranches returns all branches of the repository
	ListBranches(ctx context.Context, project identity.ProjectConnection) ([]Branch, error)
}
