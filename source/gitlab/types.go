package gitlab

import (
	"github.com/gruntwork-io/gitlab-tasks/source"
	gitlab "gitlab.com/gitlab-org/api/client-go"
)

// Conversions from the client library's API models to the types of the source package

func convertPipeline(p *gitlab.Pipeline) source.Pipeline {
	return source.Pipeline{
		Id:        p.ID,
		Iid:       p.IID,
		ProjectId: p.ProjectID,
		Name:      p.Name,
		Status:    p.Status,
		Source:    p.Source,
		Ref:       p.Ref,
		Sha:       p.SHA,
		WebUrl:    p.WebURL,
		CreatedAt: p.CreatedAt,
	}
}

// The list endpoint returns a reduced model without the pipeline name
func convertPipelineInfo(p *gitlab.PipelineInfo) source.Pipeline {
	return source.Pipeline{
		Id:        p.ID,
		Iid:       p.IID,
		ProjectId: p.ProjectID,
		Status:    p.Status,
		Source:    p.Source,
		Ref:       p.Ref,
		Sha:       p.SHA,
		WebUrl:    p.WebURL,
		CreatedAt: p.CreatedAt,
	}
}

func convertMergeRequest(mr *gitlab.MergeRequest) source.MergeRequest {
	return source.MergeRequest{
		Id:           mr.ID,
		Iid:          mr.IID,
		Title:        mr.Title,
		State:        mr.State,
		SourceBranch: mr.SourceBranch,
		TargetBranch: mr.TargetBranch,
		Sha:          mr.SHA,
		WebUrl:       mr.WebURL,
	}
}

func convertTag(t *gitlab.Tag) source.Tag {
	tag := source.Tag{
		Name:    t.Name,
		Message: t.Message,
	}
	if t.Commit != nil {
		tag.CommitSha = t.Commit.ID
	}
	return tag
}

func convertBranch(b *gitlab.Branch) source.Branch {
	branch := source.Branch{
		Name:      b.Name,
		Default:   b.Default,
		Protected: b.Protected,
		Merged:    b.Merged,
		WebUrl:    b.WebURL,
	}
	if b.Commit != nil {
		branch.CommitSha = b.Commit.ID
	}
	return branch
}
