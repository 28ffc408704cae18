// Package fake provides an in-memory source.Source. It backs the CLI tests and the "fake" source type, which lets
// build scripts be exercised without a GitLab server.
package fake

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gruntwork-io/gitlab-tasks/identity"
	"github.com/gruntwork-io/gitlab-tasks/source"
	"github.com/sirupsen/logrus"
)

// projectData is everything the fake knows about a single project
type projectData struct {
	pipelines     []source.Pipeline
	mergeRequests map[int]source.MergeRequest
	files         map[string][]byte // keyed by ref + ":" + path
	tags          []source.Tag
	branches      []source.Branch
}

// DefaultBranch is the branch every project starts with when it is created on first use
const DefaultBranch = "main"

// FakeSource implements source.Source on top of in-memory data. Projects are keyed by their identity, so the access
// token of a connection does not matter.
type FakeSource struct {
	logger *logrus.Entry

	// createOnLookup makes unknown projects spring into existence with a single commit on DefaultBranch
	createOnLookup bool

	mu       sync.Mutex
	projects map[string]*projectData
}

// NewFakeSource creates the source behind "--source fake". Any project it is asked about exists, holding only
// DefaultBranch, so read commands succeed and created tags live until the process exits.
func NewFakeSource(config source.Config) source.Source {
	s := New(config)
	s.createOnLookup = true
	return s
}

// New creates an empty fake source that only knows the projects seeded into it
func New(config source.Config) *FakeSource {
	return &FakeSource{
		logger:   config.GetLogger(),
		projects: map[string]*projectData{},
	}
}

func (s *FakeSource) project(project identity.ProjectIdentity) *projectData {
	key := project.Key()
	data, ok := s.projects[key]
	if !ok {
		data = &projectData{
			mergeRequests: map[int]source.MergeRequest{},
			files:         map[string][]byte{},
		}
		s.projects[key] = data
	}
	return data
}

func (s *FakeSource) lookup(project identity.ProjectConnection) (*projectData, error) {
	p := project.Identity()
	data, ok := s.projects[p.Key()]
	if ok {
		return data, nil
	}
	if !s.createOnLookup {
		return nil, fmt.Errorf("project %s: %w", project.ProjectPath(), source.ErrNotFound)
	}

	s.logger.Infof("Creating in-memory project %s with branch %s", p.WebURL(), DefaultBranch)
	data = s.project(p)
	data.branches = append(data.branches, source.Branch{
		Name:      DefaultBranch,
		CommitSha: initialCommitSha(p),
		Default:   true,
		Protected: true,
	})
	return data, nil
}

// initialCommitSha derives a stable sha from the project, so repeated runs print the same commit
func initialCommitSha(project identity.ProjectIdentity) string {
	sum := sha1.Sum([]byte(project.Key()))
	return hex.EncodeToString(sum[:])
}

func fileKey(ref, path string) string {
	return ref + ":" + path
}

// AddPipeline registers a pipeline. Pipelines are listed in the order they were added.
func (s *FakeSource) AddPipeline(project identity.ProjectIdentity, pipeline source.Pipeline) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data := s.project(project)
	data.pipelines = append(data.pipelines, pipeline)
}

// AddMergeRequest registers a merge request under its iid
func (s *FakeSource) AddMergeRequest(project identity.ProjectIdentity, mr source.MergeRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.project(project).mergeRequests[mr.Iid] = mr
}

// AddFile registers the content of a repository file at a ref
func (s *FakeSource) AddFile(project identity.ProjectIdentity, ref, path string, content []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.project(project).files[fileKey(ref, path)] = content
}

// AddTag registers an existing tag
func (s *FakeSource) AddTag(project identity.ProjectIdentity, tag source.Tag) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data := s.project(project)
	data.tags = append(data.tags, tag)
}

// AddBranch registers an existing branch
func (s *FakeSource) AddBranch(project identity.ProjectIdentity, branch source.Branch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data := s.project(project)
	data.branches = append(data.branches, branch)
}

func (s *FakeSource) GetPipeline(ctx context.Context, project identity.ProjectConnection, pipelineId int) (source.Pipeline, error) {
	if err := source.ValidateProject(project); err != nil {
		return source.Pipeline{}, err
	}
	if err := source.ValidateId("pipelineId", pipelineId); err != nil {
		return source.Pipeline{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.lookup(project)
	if err != nil {
		return source.Pipeline{}, err
	}
	for _, p := range data.pipelines {
		if p.Id == pipelineId {
			return p, nil
		}
	}
	return source.Pipeline{}, fmt.Errorf("pipeline %d of %s: %w", pipelineId, project.ProjectPath(), source.ErrNotFound)
}

func (s *FakeSource) ListPipelines(ctx context.Context, project identity.ProjectConnection, opts source.PipelineListOptions) ([]source.Pipeline, error) {
	if err := source.ValidateProject(project); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.lookup(project)
	if err != nil {
		return nil, err
	}

	var pipelines []source.Pipeline
	for _, p := range data.pipelines {
		if opts.Ref != "" && p.Ref != opts.Ref {
			continue
		}
		if opts.Status != "" && p.Status != opts.Status {
			continue
		}
		pipelines = append(pipelines, p)
	}
	return pipelines, nil
}

func (s *FakeSource) GetMergeRequest(ctx context.Context, project identity.ProjectConnection, iid int) (source.MergeRequest, error) {
	if err := source.ValidateProject(project); err != nil {
		return source.MergeRequest{}, err
	}
	if err := source.ValidateId("mergeRequestIid", iid); err != nil {
		return source.MergeRequest{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.lookup(project)
	if err != nil {
		return source.MergeRequest{}, err
	}
	mr, ok := data.mergeRequests[iid]
	if !ok {
		return source.MergeRequest{}, fmt.Errorf("merge request !%d of %s: %w", iid, project.ProjectPath(), source.ErrNotFound)
	}
	return mr, nil
}

func (s *FakeSource) DownloadFile(ctx context.Context, project identity.ProjectConnection, opts source.FileDownloadOptions) error {
	if err := source.ValidateProject(project); err != nil {
		return err
	}
	if err := source.ValidateFileDownload(opts); err != nil {
		return err
	}

	s.mu.Lock()
	data, err := s.lookup(project)
	var content []byte
	var ok bool
	if err == nil {
		content, ok = data.files[fileKey(opts.Ref, opts.Path)]
	}
	s.mu.Unlock()

	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("file %s@%s of %s: %w", opts.Path, opts.Ref, project.ProjectPath(), source.ErrNotFound)
	}

	if err := os.MkdirAll(filepath.Dir(opts.Destination), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(opts.Destination, content, 0644); err != nil {
		return err
	}

	s.logger.Debugf("Wrote %s to %s", opts.Path, opts.Destination)
	return nil
}

func (s *FakeSource) ListTags(ctx context.Context, project identity.ProjectConnection) ([]source.Tag, error) {
	if err := source.ValidateProject(project); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.lookup(project)
	if err != nil {
		return nil, err
	}
	return append([]source.Tag(nil), data.tags...), nil
}

// CreateTag fails when the tag already exists or the ref is neither a known branch, tag nor commit sha
func (s *FakeSource) CreateTag(ctx context.Context, project identity.ProjectConnection, opts source.TagOptions) (source.Tag, error) {
	if err := source.ValidateProject(project); err != nil {
		return source.Tag{}, err
	}
	if err := source.ValidateTag(opts); err != nil {
		return source.Tag{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.lookup(project)
	if err != nil {
		return source.Tag{}, err
	}
	for _, t := range data.tags {
		if t.Name == opts.Name {
			return source.Tag{}, fmt.Errorf("tag %s already exists in %s", opts.Name, project.ProjectPath())
		}
	}

	sha, ok := resolveRef(data, opts.Ref)
	if !ok {
		return source.Tag{}, fmt.Errorf("ref %s of %s: %w", opts.Ref, project.ProjectPath(), source.ErrNotFound)
	}

	tag := source.Tag{Name: opts.Name, Message: opts.Message, CommitSha: sha}
	data.tags = append(data.tags, tag)
	return tag, nil
}

func (s *FakeSource) ListBranches(ctx context.Context, project identity.ProjectConnection) ([]source.Branch, error) {
	if err := source.ValidateProject(project); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.lookup(project)
	if err != nil {
		return nil, err
	}
	return append([]source.Branch(nil), data.branches...), nil
}

func resolveRef(data *projectData, ref string) (string, bool) {
	for _, b := range data.branches {
		if b.Name == ref || b.CommitSha == ref {
			return b.CommitSha, true
		}
	}
	for _, t := range data.tags {
		if t.Name == ref || t.CommitSha == ref {
			return t.CommitSha, true
		}
	}
	return "", false
}

func init() {
	source.NewFakeSource = NewFakeSource
}
