package gitlab

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/gruntwork-io/gitlab-tasks/identity"
	"github.com/gruntwork-io/gitlab-tasks/source"
	"github.com/sirupsen/logrus"
	gitlab "gitlab.com/gitlab-org/api/client-go"
)

// GitLabSource implements source.Source on top of the GitLab REST API
type GitLabSource struct {
	config source.Config
	logger *logrus.Entry
}

// NewGitLabSource creates a new GitLab source
func NewGitLabSource(config source.Config) source.Source {
	return &GitLabSource{
		config: config,
		logger: config.GetLogger(),
	}
}

func (s *GitLabSource) projectLogger(project identity.ProjectConnection) *logrus.Entry {
	return s.logger.WithFields(logrus.Fields{
		"server":  project.URL(),
		"project": project.ProjectPath(),
	})
}

// GetPipeline returns a single pipeline by id
func (s *GitLabSource) GetPipeline(ctx context.Context, project identity.ProjectConnection, pipelineId int) (source.Pipeline, error) {
	if err := source.ValidateProject(project); err != nil {
		return source.Pipeline{}, err
	}
	if err := source.ValidateId("pipelineId", pipelineId); err != nil {
		return source.Pipeline{}, err
	}

	client, err := newClient(project.Server())
	if err != nil {
		return source.Pipeline{}, err
	}

	s.projectLogger(project).WithField("pipeline", pipelineId).Debug("Fetching pipeline")
	pipeline, _, err := client.Pipelines.GetPipeline(project.ProjectPath(), pipelineId, gitlab.WithContext(ctx))
	if err != nil {
		return source.Pipeline{}, wrapApiError(err, "failed to get pipeline %d of %s", pipelineId, project.ProjectPath())
	}
	return convertPipeline(pipeline), nil
}

// ListPipelines returns all pipelines of the project matching opts, following pagination until the last page
func (s *GitLabSource) ListPipelines(ctx context.Context, project identity.ProjectConnection, opts source.PipelineListOptions) ([]source.Pipeline, error) {
	if err := source.ValidateProject(project); err != nil {
		return nil, err
	}

	client, err := newClient(project.Server())
	if err != nil {
		return nil, err
	}

	listOpts := &gitlab.ListProjectPipelinesOptions{
		ListOptions: gitlab.ListOptions{PerPage: perPage, Page: 1},
	}
	if opts.Ref != "" {
		listOpts.Ref = gitlab.Ptr(opts.Ref)
	}
	if opts.Status != "" {
		listOpts.Status = gitlab.Ptr(gitlab.BuildStateValue(opts.Status))
	}

	logger := s.projectLogger(project)
	var pipelines []source.Pipeline
	for {
		logger.WithField("page", listOpts.Page).Debug("Listing pipelines")
		page, resp, err := client.Pipelines.ListProjectPipelines(project.ProjectPath(), listOpts, gitlab.WithContext(ctx))
		if err != nil {
			return nil, wrapApiError(err, "failed to list pipelines of %s", project.ProjectPath())
		}
		for _, p := range page {
			pipelines = append(pipelines, convertPipelineInfo(p))
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		listOpts.Page = resp.NextPage
	}

	logger.Debugf("Found %d pipelines", len(pipelines))
	return pipelines, nil
}

// GetMergeRequest returns a merge request by its project-level id
func (s *GitLabSource) GetMergeRequest(ctx context.Context, project identity.ProjectConnection, iid int) (source.MergeRequest, error) {
	if err := source.ValidateProject(project); err != nil {
		return source.MergeRequest{}, err
	}
	if err := source.ValidateId("mergeRequestIid", iid); err != nil {
		return source.MergeRequest{}, err
	}

	client, err := newClient(project.Server())
	if err != nil {
		return source.MergeRequest{}, err
	}

	s.projectLogger(project).WithField("mergeRequest", iid).Debug("Fetching merge request")
	mr, _, err := client.MergeRequests.GetMergeRequest(project.ProjectPath(), iid, nil, gitlab.WithContext(ctx))
	if err != nil {
		return source.MergeRequest{}, wrapApiError(err, "failed to get merge request !%d of %s", iid, project.ProjectPath())
	}
	return convertMergeRequest(mr), nil
}

// DownloadFile fetches the raw content of a repository file and writes it to opts.Destination
func (s *GitLabSource) DownloadFile(ctx context.Context, project identity.ProjectConnection, opts source.FileDownloadOptions) error {
	if err := source.ValidateProject(project); err != nil {
		return err
	}
	if err := source.ValidateFileDownload(opts); err != nil {
		return err
	}

	client, err := newClient(project.Server())
	if err != nil {
		return err
	}

	logger := s.projectLogger(project).WithFields(logrus.Fields{
		"path": opts.Path,
		"ref":  opts.Ref,
	})
	logger.Debug("Downloading file")

	content, _, err := client.RepositoryFiles.GetRawFile(
		project.ProjectPath(),
		opts.Path,
		&gitlab.GetRawFileOptions{Ref: gitlab.Ptr(opts.Ref)},
		gitlab.WithContext(ctx),
	)
	if err != nil {
		return wrapApiError(err, "failed to download %s@%s from %s", opts.Path, opts.Ref, project.ProjectPath())
	}

	var progress io.Writer
	if opts.WithProgress {
		progress = opts.Progress
		if progress == nil {
			progress = os.Stdout
		}
	}
	if err := writeContentToDisk(content, opts.Destination, progress); err != nil {
		return fmt.Errorf("failed to write %s: %w", opts.Destination, err)
	}
	if progress != nil {
		fmt.Fprintln(progress)
	}

	logger.Infof("Downloaded %s to %s (%s)", opts.Path, opts.Destination, humanize.Bytes(uint64(len(content))))
	return nil
}

// ListTags returns all tags of the repository
func (s *GitLabSource) ListTags(ctx context.Context, project identity.ProjectConnection) ([]source.Tag, error) {
	if err := source.ValidateProject(project); err != nil {
		return nil, err
	}

	client, err := newClient(project.Server())
	if err != nil {
		return nil, err
	}

	listOpts := &gitlab.ListTagsOptions{
		ListOptions: gitlab.ListOptions{PerPage: perPage, Page: 1},
	}

	logger := s.projectLogger(project)
	var tags []source.Tag
	for {
		logger.WithField("page", listOpts.Page).Debug("Listing tags")
		page, resp, err := client.Tags.ListTags(project.ProjectPath(), listOpts, gitlab.WithContext(ctx))
		if err != nil {
			return nil, wrapApiError(err, "failed to list tags of %s", project.ProjectPath())
		}
		for _, t := range page {
			tags = append(tags, convertTag(t))
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		listOpts.Page = resp.NextPage
	}

	logger.Debugf("Found %d tags", len(tags))
	return tags, nil
}

// CreateTag creates a tag pointing at opts.Ref. A non-empty message creates an annotated tag.
func (s *GitLabSource) CreateTag(ctx context.Context, project identity.ProjectConnection, opts source.TagOptions) (source.Tag, error) {
	if err := source.ValidateProject(project); err != nil {
		return source.Tag{}, err
	}
	if err := source.ValidateTag(opts); err != nil {
		return source.Tag{}, err
	}

	client, err := newClient(project.Server())
	if err != nil {
		return source.Tag{}, err
	}

	createOpts := &gitlab.CreateTagOptions{
		TagName: gitlab.Ptr(opts.Name),
		Ref:     gitlab.Ptr(opts.Ref),
	}
	if opts.Message != "" {
		createOpts.Message = gitlab.Ptr(opts.Message)
	}

	logger := s.projectLogger(project).WithFields(logrus.Fields{
		"tag": opts.Name,
		"ref": opts.Ref,
	})
	logger.Debug("Creating tag")
	tag, _, err := client.Tags.CreateTag(project.ProjectPath(), createOpts, gitlab.WithContext(ctx))
	if err != nil {
		return source.Tag{}, wrapApiError(err, "failed to create tag %s in %s", opts.Name, project.ProjectPath())
	}

	logger.Infof("Created tag %s", tag.Name)
	return convertTag(tag), nil
}

// ListBranches returns all branches of the repository
func (s *GitLabSource) ListBranches(ctx context.Context, project identity.ProjectConnection) ([]source.Branch, error) {
	if err := source.ValidateProject(project); err != nil {
		return nil, err
	}

	client, err := newClient(project.Server())
	if err != nil {
		return nil, err
	}

	listOpts := &gitlab.ListBranchesOptions{
		ListOptions: gitlab.ListOptions{PerPage: perPage, Page: 1},
	}

	logger := s.projectLogger(project)
	var branches []source.Branch
	for {
		logger.WithField("page", listOpts.Page).Debug("Listing branches")
		page, resp, err := client.Branches.ListBranches(project.ProjectPath(), listOpts, gitlab.WithContext(ctx))
		if err != nil {
			return nil, wrapApiError(err, "failed to list branches of %s", project.ProjectPath())
		}
		for _, b := range page {
			branches = append(branches, convertBranch(b))
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		listOpts.Page = resp.NextPage
	}

	logger.Debugf("Found %d branches", len(branches))
	return branches, nil
}

func init() {
	source.NewGitLabSource = NewGitLabSource
}
