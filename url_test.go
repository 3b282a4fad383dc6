package scrape2md_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taralika/scrape2md"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	base, err := url.Parse("https://example.com/docs/intro")
	require.NoError(t, err)

	tests := []struct {
		name   string
		rawURL string
		base   *url.URL
		want   string
		wantOK bool
	}{
		{
			name:   "absolute URL unchanged",
			rawURL: "https://example.com/docs/api",
			want:   "https://example.com/docs/api",
			wantOK: true,
		},
		{
			name:   "fragment stripped",
			rawURL: "https://example.com/docs/api#section",
			want:   "https://example.com/docs/api",
			wantOK: true,
		},
		{
			name:   "trailing slash stripped",
			rawURL: "https://example.com/docs/",
			want:   "https://example.com/docs",
			wantOK: true,
		},
		{
			name:   "root path keeps slash",
			rawURL: "https://example.com/",
			want:   "https://example.com/",
			wantOK: true,
		},
		{
			name:   "default https port stripped",
			rawURL: "https://example.com:443/docs",
			want:   "https://example.com/docs",
			wantOK: true,
		},
		{
			name:   "default http port stripped",
			rawURL: "http://example.com:80/docs",
			want:   "http://example.com/docs",
			wantOK: true,
		},
		{
			name:   "non-default port kept",
			rawURL: "https://example.com:8443/docs",
			want:   "https://example.com:8443/docs",
			wantOK: true,
		},
		{
			name:   "scheme and host lower-cased",
			rawURL: "HTTPS://Example.COM/Docs",
			want:   "https://example.com/Docs",
			wantOK: true,
		},
		{
			name:   "relative resolved against base",
			rawURL: "../guide/setup",
			base:   base,
			want:   "https://example.com/guide/setup",
			wantOK: true,
		},
		{
			name:   "query preserved",
			rawURL: "https://example.com/page?id=42",
			want:   "https://example.com/page?id=42",
			wantOK: true,
		},
		{
			name:   "mailto rejected",
			rawURL: "mailto:webmaster@example.com",
			wantOK: false,
		},
		{
			name:   "javascript rejected",
			rawURL: "javascript:void(0)",
			wantOK: false,
		},
		{
			name:   "tel rejected",
			rawURL: "tel:+15551234567",
			wantOK: false,
		},
		{
			name:   "data rejected",
			rawURL: "data:text/plain;base64,aGk=",
			wantOK: false,
		},
		{
			name:   "relative without base rejected",
			rawURL: "/docs/api",
			wantOK: false,
		},
		{
			name:   "unparseable rejected",
			rawURL: "https://example.com/%zz",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := scrape2md.Normalize(tt.rawURL, tt.base)

			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	t.Parallel()

	first, ok := scrape2md.Normalize("https://Example.com:443/docs/#intro", nil)
	require.True(t, ok)

	second, ok := scrape2md.Normalize(first, nil)
	require.True(t, ok)
	assert.Equal(t, first, second)
}

func TestSameOrigin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a    string
		b    string
		want bool
	}{
		{
			name: "same host and scheme",
			a:    "https://example.com/a",
			b:    "https://example.com/b",
			want: true,
		},
		{
			name: "different host",
			a:    "https://example.com/a",
			b:    "https://other.com/a",
			want: false,
		},
		{
			name: "different scheme",
			a:    "http://example.com/a",
			b:    "https://example.com/a",
			want: false,
		},
		{
			name: "different port",
			a:    "https://example.com:8443/a",
			b:    "https://example.com/a",
			want: false,
		},
		{
			name: "subdomain is a different origin",
			a:    "https://docs.example.com/a",
			b:    "https://example.com/a",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, scrape2md.SameOrigin(tt.a, tt.b))
		})
	}
}
