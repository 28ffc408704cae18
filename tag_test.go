package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLatestAcceptableTag(t *testing.T) {
	t.Parallel()

	cases := []struct {
		tagConstraint string
		tags          []string
		expectedTag   string
	}{
		{"1.0.7", []string{"1.0.7"}, "1.0.7"},

		{"~> 1.0.0", []string{"1.0.5", "1.0.6", "1.0.7", "1.0.8", "1.0.9", "1.1.0", "1.2.3"}, "1.0.9"},
		{"~> 1.0.7", []string{"1.0.5", "1.0.6", "1.0.7", "1.0.8", "1.0.9", "1.1.0", "1.2.3"}, "1.0.9"},
		{"~> 1.1.0", []string{"1.0.5", "1.0.6", "1.0.7", "1.0.8", "1.0.9", "1.1.0", "1.2.3"}, "1.1.0"},
		{"~> 1.1.1", []string{"1.0.5", "1.0.6", "1.0.7", "1.0.8", "1.0.9", "1.1.0", "1.1.1", "1.1.2", "1.1.3", "1.2.3", "1.4.0", "2.0.0", "2.1.0"}, "1.1.3"},
		{"~> 1.2.1", []string{"1.0.5", "1.0.6", "1.0.7", "1.0.8", "1.0.9", "1.1.0", "1.1.1", "1.1.2", "1.1.3", "1.2.3", "1.4.0", "2.0.0", "2.1.0"}, "1.2.3"},
		{"~> 1.1", []string{"1.0.5", "1.0.6", "1.0.7", "1.0.8", "1.0.9", "1.1.0", "1.1.1", "1.1.2", "1.1.3", "1.2.3", "1.4.0", "2.0.0", "2.1.0"}, "1.4.0"},
		{">= 1.3", []string{"1.0.5", "1.0.6", "1.0.7", "1.0.8", "1.0.9", "1.1.0", "1.1.1", "1.1.2", "1.1.3", "1.2.3", "1.4.0", "2.0.0", "2.1.0"}, "2.1.0"},

		{"v1.0.7", []string{"v1.0.7"}, "v1.0.7"},
		{"v1.0.7", []string{}, ""},

		// Tags are not required to be sorted and may mix prefixes
		{"< 2.0", []string{"v1.10.0", "v2.0.0", "1.9.0", "v1.2.0"}, "v1.10.0"},

		// Tags that are not versions are ignored
		{"", []string{"latest", "v0.1.0", "release-candidate"}, "v0.1.0"},
	}

	for _, tc := range cases {
		tag, err := getLatestAcceptableTag(tc.tagConstraint, tc.tags)
		if err != nil {
			t.Fatalf("Failed on call to getLatestAcceptableTag: %s", err.details)
		}

		if tag != tc.expectedTag {
			t.Fatalf("Given constraint %s and tag list %v, expected %s, but received: %s", tc.tagConstraint, tc.tags, tc.expectedTag, tag)
		}
	}
}

func TestGetLatestAcceptableTagOnEmptyConstraint(t *testing.T) {
	t.Parallel()

	cases := []struct {
		tags        []string
		expectedTag string
	}{
		{[]string{"v0.0.1", "v0.0.2", "v0.0.3"}, "v0.0.3"},
		{[]string{"1.0.5", "1.0.6", "1.0.7", "1.0.8", "1.0.9", "1.1.0", "1.2.3"}, "1.2.3"},
		{[]string{}, ""},
	}

	for _, tc := range cases {
		tag, err := getLatestAcceptableTag("", tc.tags)
		require.Nil(t, err)
		assert.Equal(t, tc.expectedTag, tag)
	}
}

func TestGetLatestAcceptableTagOnMalformedConstraint(t *testing.T) {
	t.Parallel()

	cases := []string{
		"josh",
		"plump elephants dancing in the night",
	}

	for _, tagConstraint := range cases {
		_, err := getLatestAcceptableTag(tagConstraint, []string{"v0.0.1"})
		require.NotNil(t, err, "Expected malformed constraint error for %q", tagConstraint)
		assert.Equal(t, invalidTagConstraintExpression, err.errorCode)
	}
}

func TestGetLatestAcceptableTagWithoutMatch(t *testing.T) {
	t.Parallel()

	_, err := getLatestAcceptableTag(">= 3.0", []string{"v1.0.0", "v2.0.0"})
	require.NotNil(t, err)
	assert.Equal(t, noTagMatchesConstraint, err.errorCode)
}

func TestGetLatestAcceptableTagWithoutVersionTags(t *testing.T) {
	t.Parallel()

	_, err := getLatestAcceptableTag("", []string{"nightly", "release-candidate"})
	require.NotNil(t, err)
	assert.Equal(t, noTagMatchesConstraint, err.errorCode)
	assert.Equal(t, "none of the 2 tags is a version", err.details)
	assert.NotContains(t, err.Error(), "constraint")
}

func TestFilterTagsByConstraint(t *testing.T) {
	t.Parallel()

	tags := []string{"v1.2.0", "nightly", "v1.0.0", "v2.0.0", "v1.1.0"}

	all, err := filterTagsByConstraint("", tags)
	require.Nil(t, err)
	assert.Equal(t, []string{"v1.0.0", "v1.1.0", "v1.2.0", "v2.0.0"}, all)

	minor, err := filterTagsByConstraint("~> 1.1", tags)
	require.Nil(t, err)
	assert.Equal(t, []string{"v1.1.0", "v1.2.0"}, minor)
}
