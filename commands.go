package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gruntwork-io/gitlab-tasks/identity"
	"github.com/gruntwork-io/gitlab-tasks/source"
	"github.com/urfave/cli/v2"
)

const optionId = "id"
const optionIid = "iid"
const optionRef = "ref"
const optionStatus = "status"
const optionPath = "path"
const optionDest = "dest"
const optionChecksum = "checksum"
const optionChecksumAlgo = "checksum-algo"
const optionWithProgress = "progress"
const optionConstraint = "constraint"
const optionName = "name"
const optionMessage = "message"

func (t tasks) identityCommand() *cli.Command {
	return &cli.Command{
		Name:  "identity",
		Usage: "Print the GitLab project the other commands would work on.",
		Action: t.withOptions(func(c *cli.Context, options GlobalOptions) error {
			project, err := t.resolveProject(options)
			if err != nil {
				return err
			}
			printProjectIdentity(c.App.Writer, project)
			return nil
		}),
	}
}

func printProjectIdentity(w io.Writer, project identity.ProjectIdentity) {
	fmt.Fprintf(w, "protocol:     %s\n", project.Protocol())
	fmt.Fprintf(w, "host:         %s\n", project.Host())
	fmt.Fprintf(w, "port:         %d\n", project.Port())
	fmt.Fprintf(w, "url:          %s\n", project.URL())
	fmt.Fprintf(w, "namespace:    %s\n", project.Namespace())
	fmt.Fprintf(w, "project:      %s\n", project.Project())
	fmt.Fprintf(w, "project path: %s\n", project.ProjectPath())
	fmt.Fprintf(w, "web url:      %s\n", project.WebURL())
}

func (t tasks) pipelineCommand() *cli.Command {
	return &cli.Command{
		Name:  "pipeline",
		Usage: "Inspect CI pipelines.",
		Subcommands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Print a single pipeline.",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: optionId, Required: true, Usage: "The id of the pipeline."},
				},
				Action: t.withSource(func(c *cli.Context, options GlobalOptions, src source.Source, project identity.ProjectConnection) error {
					pipeline, err := src.GetPipeline(c.Context, project, c.Int(optionId))
					if err != nil {
						return wrapSourceError(err)
					}
					printPipeline(c.App.Writer, pipeline)
					return nil
				}),
			},
			{
				Name:  "list",
				Usage: "Print the pipelines of the project, newest first.",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: optionRef, Usage: "Only list pipelines of this branch or tag."},
					&cli.StringFlag{Name: optionStatus, Usage: "Only list pipelines with this status, e.g. \"success\" or \"failed\"."},
				},
				Action: t.withSource(func(c *cli.Context, options GlobalOptions, src source.Source, project identity.ProjectConnection) error {
					pipelines, err := src.ListPipelines(c.Context, project, source.PipelineListOptions{
						Ref:    c.String(optionRef),
						Status: c.String(optionStatus),
					})
					if err != nil {
						return wrapSourceError(err)
					}
					for _, pipeline := range pipelines {
						printPipeline(c.App.Writer, pipeline)
					}
					options.Logger.Debugf("%d pipelines", len(pipelines))
					return nil
				}),
			},
		},
	}
}

func printPipeline(w io.Writer, pipeline source.Pipeline) {
	fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", pipeline.Id, pipeline.Status, pipeline.Ref, pipeline.Sha, pipeline.WebUrl)
}

func (t tasks) mergeRequestCommand() *cli.Command {
	return &cli.Command{
		Name:    "merge-request",
		Aliases: []string{"mr"},
		Usage:   "Inspect merge requests.",
		Subcommands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Print a single merge request.",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: optionIid, Required: true, Usage: "The project-level id of the merge request, as shown after the !."},
				},
				Action: t.withSource(func(c *cli.Context, options GlobalOptions, src source.Source, project identity.ProjectConnection) error {
					mr, err := src.GetMergeRequest(c.Context, project, c.Int(optionIid))
					if err != nil {
						return wrapSourceError(err)
					}

					w := c.App.Writer
					fmt.Fprintf(w, "!%d %s\n", mr.Iid, mr.Title)
					fmt.Fprintf(w, "state:  %s\n", mr.State)
					fmt.Fprintf(w, "source: %s\n", mr.SourceBranch)
					fmt.Fprintf(w, "target: %s\n", mr.TargetBranch)
					fmt.Fprintf(w, "sha:    %s\n", mr.Sha)
					fmt.Fprintf(w, "url:    %s\n", mr.WebUrl)
					return nil
				}),
			},
		},
	}
}

func (t tasks) fileCommand() *cli.Command {
	return &cli.Command{
		Name:  "file",
		Usage: "Work with repository files.",
		Subcommands: []*cli.Command{
			{
				Name:  "download",
				Usage: "Download a single file from the repository.",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: optionPath, Required: true, Usage: "The path of the file in the repository."},
					&cli.StringFlag{Name: optionRef, Required: true, Usage: "The branch, tag or commit sha to download the file from."},
					&cli.StringFlag{Name: optionDest, Required: true, Usage: "The local path to write the file to."},
					&cli.StringSliceFlag{
						Name:  optionChecksum,
						Usage: "The checksum that the file should have. The command fails if this value is non-empty\n\tand does not match the checksum of the downloaded file. Can be specified more than once.",
					},
					&cli.StringFlag{
						Name:  optionChecksumAlgo,
						Value: defaultChecksumAlgo,
						Usage: "The algorithm used to compute the checksum of the file. Acceptable values\n\tare \"sha256\" and \"sha512\".",
					},
					&cli.BoolFlag{Name: optionWithProgress, Usage: "Display progress of the download, especially useful for large files"},
				},
				Action: t.withSource(t.downloadFile),
			},
		},
	}
}

func (t tasks) downloadFile(c *cli.Context, options GlobalOptions, src source.Source, project identity.ProjectConnection) error {
	opts := source.FileDownloadOptions{
		Path:         c.String(optionPath),
		Ref:          c.String(optionRef),
		Destination:  c.String(optionDest),
		WithProgress: c.Bool(optionWithProgress),
		Progress:     c.App.Writer,
	}

	options.Logger.Infof("Downloading %s@%s of %s to %s", opts.Path, opts.Ref, project.WebURL(), opts.Destination)
	if err := src.DownloadFile(c.Context, project, opts); err != nil {
		switch {
		case errors.Is(err, identity.ErrInvalidArgument):
			return err
		case errors.Is(err, source.ErrNotFound), errors.Is(err, source.ErrUnauthorized):
			return wrapSourceError(err)
		default:
			return wrapError(failedToDownloadFile, err)
		}
	}

	if checksums := c.StringSlice(optionChecksum); len(checksums) > 0 {
		if err := verifyChecksumOfFile(options.Logger, opts.Destination, checksums, c.String(optionChecksumAlgo)); err != nil {
			return err
		}
	}
	return nil
}

func (t tasks) tagCommand() *cli.Command {
	constraintFlag := &cli.StringFlag{
		Name:  optionConstraint,
		Usage: "A version constraint such as \"~> 1.2\" or \">= 1.0, < 2.0\". Tags that are not versions never match.",
	}

	return &cli.Command{
		Name:  "tag",
		Usage: "Work with git tags.",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "Print the version tags of the repository, oldest first.",
				Flags: []cli.Flag{constraintFlag},
				Action: t.withSource(func(c *cli.Context, options GlobalOptions, src source.Source, project identity.ProjectConnection) error {
					names, err := listTagNames(c, src, project)
					if err != nil {
						return err
					}
					matching, tagErr := filterTagsByConstraint(c.String(optionConstraint), names)
					if tagErr != nil {
						return tagErr
					}
					for _, name := range matching {
						fmt.Fprintln(c.App.Writer, name)
					}
					return nil
				}),
			},
			{
				Name:  "latest",
				Usage: "Print the newest version tag, optionally restricted by --constraint.",
				Flags: []cli.Flag{constraintFlag},
				Action: t.withSource(func(c *cli.Context, options GlobalOptions, src source.Source, project identity.ProjectConnection) error {
					names, err := listTagNames(c, src, project)
					if err != nil {
						return err
					}
					latest, tagErr := getLatestAcceptableTag(c.String(optionConstraint), names)
					if tagErr != nil {
						return tagErr
					}
					if latest == "" {
						return newError(noTagMatchesConstraint, fmt.Sprintf("%s has no tags", project.ProjectPath()))
					}
					fmt.Fprintln(c.App.Writer, latest)
					return nil
				}),
			},
			{
				Name:  "create",
				Usage: "Create a tag. Passing --message creates an annotated tag.",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: optionName, Required: true, Usage: "The name of the tag."},
					&cli.StringFlag{Name: optionRef, Required: true, Usage: "The branch, tag or commit sha to tag."},
					&cli.StringFlag{Name: optionMessage, Usage: "The message of an annotated tag."},
				},
				Action: t.withSource(func(c *cli.Context, options GlobalOptions, src source.Source, project identity.ProjectConnection) error {
					tag, err := src.CreateTag(c.Context, project, source.TagOptions{
						Name:    c.String(optionName),
						Ref:     c.String(optionRef),
						Message: c.String(optionMessage),
					})
					if err != nil {
						return wrapSourceError(err)
					}
					fmt.Fprintf(c.App.Writer, "%s\t%s\n", tag.Name, tag.CommitSha)
					return nil
				}),
			},
		},
	}
}

func listTagNames(c *cli.Context, src source.Source, project identity.ProjectConnection) ([]string, error) {
	tags, err := src.ListTags(c.Context, project)
	if err != nil {
		return nil, wrapSourceError(err)
	}
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.Name)
	}
	return names, nil
}

func (t tasks) branchCommand() *cli.Command {
	return &cli.Command{
		Name:  "branch",
		Usage: "Work with git branches.",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "Print the branches of the repository.",
				Action: t.withSource(func(c *cli.Context, options GlobalOptions, src source.Source, project identity.ProjectConnection) error {
					branches, err := src.ListBranches(c.Context, project)
					if err != nil {
						return wrapSourceError(err)
					}
					for _, branch := range branches {
						var markers []string
						if branch.Default {
							markers = append(markers, "default")
						}
						if branch.Protected {
							markers = append(markers, "protected")
						}
						if branch.Merged {
							markers = append(markers, "merged")
						}
						fmt.Fprintf(c.App.Writer, "%s\t%s\t%s\n", branch.Name, branch.CommitSha, strings.Join(markers, ","))
					}
					return nil
				}),
			},
		},
	}
}
