package moderation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDomain(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"youtube.com", "youtube.com"},
		{"https://www.YouTube.com", "youtube.com"},
		{"HTTPS://WWW.Example.com/x?y=1", "example.com"},
		{"http://sub.example.com:8080/path", "sub.example.com"},
		{"  www.github.com  ", "github.com"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeDomain(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			again, err := NormalizeDomain(got)
			require.NoError(t, err)
			assert.Equal(t, got, again, "normalization should be idempotent")
		})
	}

	_, err := NormalizeDomain("   ")
	assert.Error(t, err)
}

func TestIsAllowed(t *testing.T) {
	assert := assert.New(t)

	assert.True(IsAllowed("HTTPS://WWW.Example.com/x", []string{"example.com"}))
	assert.True(IsAllowed("https://youtube.com/watch?v=1", []string{"https://www.YouTube.com"}))
	assert.False(IsAllowed("https://music.youtube.com/", []string{"youtube.com"}), "no subdomain wildcarding")
	assert.False(IsAllowed("https://evil.com", nil))
	assert.False(IsAllowed("https://evil.com", []string{"example.com"}))
}

func TestFirstDisallowed(t *testing.T) {
	urls := []string{"https://youtube.com/a", "https://spam.biz/b", "https://other.net"}

	bad, found := FirstDisallowed(urls, []string{"youtube.com"})
	assert.True(t, found)
	assert.Equal(t, "https://spam.biz/b", bad)

	_, found = FirstDisallowed(urls[:1], []string{"youtube.com"})
	assert.False(t, found)
}

func TestExtractURLs(t *testing.T) {
	got := ExtractURLs("mira https://a.com/x y HTTP://B.org también, pero no ftp://c.net")
	assert.Equal(t, []string{"https://a.com/x", "HTTP://B.org"}, got)
	assert.Empty(t, ExtractURLs("sin enlaces"))
}

func TestAddRemoveDomain(t *testing.T) {
	assert := assert.New(t)

	list, d, added, err := AddDomain(nil, "youtube.com")
	assert.NoError(err)
	assert.True(added)
	assert.Equal("youtube.com", d)

	list, _, added, err = AddDomain(list, "https://www.YouTube.com")
	assert.NoError(err)
	assert.False(added, "the same domain in another form is not inserted twice")
	assert.Equal([]string{"youtube.com"}, list)

	list, _, _, _ = AddDomain(list, "github.com")
	list, d, removed, err := RemoveDomain(list, "WWW.YOUTUBE.COM")
	assert.NoError(err)
	assert.True(removed)
	assert.Equal("youtube.com", d)
	assert.Equal([]string{"github.com"}, list)

	_, _, removed, _ = RemoveDomain(list, "gitlab.com")
	assert.False(removed)
}
