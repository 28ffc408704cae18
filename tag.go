package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/go-version"
)

// semverTag is a tag name together with its parsed version. The original name is kept because it may carry a prefix
// such as "v".
type semverTag struct {
	name    string
	version *version.Version
}

// parseSemverTags returns the tags that are valid versions, sorted from oldest to newest. Other tags are skipped.
func parseSemverTags(tags []string) []semverTag {
	var parsed []semverTag
	for _, tag := range tags {
		v, err := version.NewVersion(tag)
		if err != nil {
			continue
		}
		parsed = append(parsed, semverTag{name: tag, version: v})
	}

	sort.SliceStable(parsed, func(i, j int) bool {
		return parsed[i].version.LessThan(parsed[j].version)
	})
	return parsed
}

func parseTagConstraint(tagConstraint string) (version.Constraints, *taskError) {
	constraints, err := version.NewConstraint(tagConstraint)
	if err != nil {
		// Explicitly check for a malformed tag value so we can return a nice error to the user
		if strings.Contains(err.Error(), "Malformed constraint") {
			return nil, newError(invalidTagConstraintExpression, err.Error())
		}
		return nil, wrapError(-1, err)
	}
	return constraints, nil
}

// filterTagsByConstraint returns the semver tags satisfying tagConstraint, oldest first. An empty constraint matches
// every semver tag.
func filterTagsByConstraint(tagConstraint string, tags []string) ([]string, *taskError) {
	parsed := parseSemverTags(tags)

	var constraints version.Constraints
	if tagConstraint != "" {
		var err *taskError
		if constraints, err = parseTagConstraint(tagConstraint); err != nil {
			return nil, err
		}
	}

	var matching []string
	for _, tag := range parsed {
		if constraints == nil || constraints.Check(tag.version) {
			matching = append(matching, tag.name)
		}
	}
	return matching, nil
}

// getLatestAcceptableTag returns the newest tag satisfying tagConstraint. An empty tag list yields an empty tag.
func getLatestAcceptableTag(tagConstraint string, tags []string) (string, *taskError) {
	if len(tags) == 0 {
		return "", nil
	}

	matching, err := filterTagsByConstraint(tagConstraint, tags)
	if err != nil {
		return "", err
	}
	if len(matching) == 0 && tagConstraint == "" {
		return "", newError(noTagMatchesConstraint, fmt.Sprintf("none of the %d tags is a version", len(tags)))
	}
	if len(matching) == 0 {
		return "", newError(noTagMatchesConstraint, fmt.Sprintf("no tag satisfies the constraint %q", tagConstraint))
	}
	return matching[len(matching)-1], nil
}
