package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateProfileLink(t *testing.T) {
	tests := []struct {
		name     string
		platform string
		link     string
		ok       bool
	}{
		{"github profile", "github", "https://github.com/vibecoder", true},
		{"github with www", "github", "https://www.github.com/vibecoder/", true},
		{"github repo path rejected", "github", "https://github.com/vibecoder/project", false},
		{"github http rejected", "github", "http://github.com/vibecoder", false},
		{"twitter", "twitter", "https://twitter.com/vibecoder", true},
		{"x.com accepted", "twitter", "https://x.com/vibe_coder", true},
		{"twitter wrong host", "twitter", "https://mastodon.social/@vibecoder", false},
		{"linkedin", "linkedin", "https://linkedin.com/in/vibe-coder", true},
		{"linkedin company rejected", "linkedin", "https://linkedin.com/company/startsnap", false},
		{"website https", "website", "https://startsnap.fun", true},
		{"website http", "website", "http://my.blog.example/posts", true},
		{"website no scheme", "website", "startsnap.fun", false},
		{"empty link allowed", "github", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProfileLink(tt.platform, tt.link)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidateProfileLinkUnknownPlatform(t *testing.T) {
	assert.Error(t, ValidateProfileLink("myspace", "https://myspace.com/vibecoder"))
}

func TestProfileValidateLinks(t *testing.T) {
	profile := Profile{
		GithubURL:  "https://github.com/vibecoder",
		TwitterURL: "not a url",
		WebsiteURL: "https://startsnap.fun",
	}
	platform, err := profile.ValidateLinks()
	require.Error(t, err)
	assert.Equal(t, "twitter", platform)

	profile.TwitterURL = ""
	platform, err = profile.ValidateLinks()
	require.NoError(t, err)
	assert.Empty(t, platform)
}
