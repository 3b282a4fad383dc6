// Package fs persists accepted pages as markdown files, one directory
// per crawled site.
package fs

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/taralika/scrape2md"
)

// Ensure Writer implements scrape2md.PageWriter at compile time.
var _ scrape2md.PageWriter = (*Writer)(nil)

var unsafeDomainChars = regexp.MustCompile(`[^\w\-.]`)

// SanitizeDomain converts a hostname to a filesystem-safe directory name.
// Example: docs.example.com:8080 → docs.example.com_8080
func SanitizeDomain(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	host = unsafeDomainChars.ReplaceAllString(host, "_")
	if host == "" {
		return "site"
	}
	return host
}

// FormatPage formats a page with YAML frontmatter followed by the
// markdown content.
func FormatPage(page *scrape2md.Page, crawledAt time.Time) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("source: ")
	b.WriteString(page.URL)
	b.WriteString("\ntitle: ")
	b.WriteString(page.Title)
	b.WriteString("\ncrawled: ")
	b.WriteString(crawledAt.Format("2006-01-02"))
	b.WriteString("\n---\n\n")
	b.WriteString(page.Content)
	if !strings.HasSuffix(page.Content, "\n") {
		b.WriteString("\n")
	}
	return b.String()
}

// Writer writes pages as markdown files under baseDir, grouped by the
// sanitized domain of the page URL.
type Writer struct {
	baseDir string

	// Now is the clock used for the frontmatter crawl date.
	// Defaults to time.Now.
	Now func() time.Time
}

// NewWriter creates a new Writer rooted at baseDir.
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir, Now: time.Now}
}

// WritePage writes a page to <baseDir>/<sanitized-domain>/<filename>.md.
// The file is written to a temporary name first and renamed into place so
// readers never observe a partially written page. Cancellation does not
// abort the write: a page that reached the writer is persisted whole.
func (w *Writer) WritePage(ctx context.Context, page *scrape2md.Page) error {
	if page.Filename == "" {
		return scrape2md.Errorf(scrape2md.EINVALID, "page has no filename")
	}

	u, err := url.Parse(page.URL)
	if err != nil || u.Host == "" {
		return scrape2md.Errorf(scrape2md.EINVALID, "invalid page URL %q", page.URL)
	}

	dir := filepath.Join(w.baseDir, SanitizeDomain(u.Host))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	content := FormatPage(page, w.Now())
	tmpPath := filepath.Join(dir, "."+uuid.NewString()+".tmp")
	if err := os.WriteFile(tmpPath, []byte(content), 0644); err != nil {
		return err
	}

	finalPath := filepath.Join(dir, page.Filename+".md")
	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
