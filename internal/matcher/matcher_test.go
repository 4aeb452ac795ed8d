package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatcher_Match(t *testing.T) {
	m := New([]string{
		"https://example.com",
		"https://example.com/private/",
		"https://news.site",
		"http://plain.org",
	})
	assert.Equal(t, 4, m.Len())

	tests := []struct {
		url       string
		wantMatch string
		wantFound bool
	}{
		{"https://example.com", "https://example.com", true},
		{"https://example.com/", "https://example.com", true},
		{"https://example.com/a/b?c=d", "https://example.com", true},
		{"https://example.com:8443/", "https://example.com", true},
		{"https://example.com/private/file", "https://example.com/private/", true},
		{"https://example.community", "", false},
		{"http://example.com", "", false},
		{"https://news.site#top", "https://news.site", true},
		{"https://news.sites", "", false},
		{"http://plain.org?x", "http://plain.org", true},
		{"https://other.net", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			match, found := m.Match(tt.url)
			assert.Equal(t, tt.wantFound, found)
			assert.Equal(t, tt.wantMatch, match)
		})
	}
}

func TestMatcher_Empty(t *testing.T) {
	m := New(nil)
	_, found := m.Match("https://example.com")
	assert.False(t, found)
}
