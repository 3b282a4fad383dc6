package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/taralika/scrape2md"
	"golang.org/x/sync/errgroup"
)

// Ensure ResourceStore implements scrape2md.ResourceDownloader.
var _ scrape2md.ResourceDownloader = (*ResourceStore)(nil)

const (
	// resourcesDirName is the directory, relative to the site output
	// directory, where downloaded resources land. Returned paths use it
	// as a prefix so page markdown can reference them relatively.
	resourcesDirName = "resources"

	// maxResourcesPerCall caps how many resources a single page may pull
	// in, so one image-heavy page cannot stall the crawl.
	maxResourcesPerCall = 50

	// maxResourceBytes caps the size of a single downloaded resource.
	maxResourceBytes = 20 << 20 // 20 MiB

	downloadConcurrency = 4

	defaultDownloadTimeout = 15 * time.Second
)

var unsafeResourceChars = regexp.MustCompile(`[^\w\-.]`)

// ResourceStore downloads page resources into a local directory.
// Downloads are best-effort: failures are skipped, never fatal.
type ResourceStore struct {
	client  *http.Client
	siteDir string

	mu    sync.Mutex
	local map[string]string // source URL -> relative local path
	taken map[string]bool   // claimed local filenames
}

// NewResourceStore creates a ResourceStore that saves resources under
// <siteDir>/resources. If client is nil, a client with a default timeout
// is used.
func NewResourceStore(client *http.Client, siteDir string) *ResourceStore {
	if client == nil {
		client = &http.Client{Timeout: defaultDownloadTimeout}
	}
	return &ResourceStore{
		client:  client,
		siteDir: siteDir,
		local:   make(map[string]string),
		taken:   make(map[string]bool),
	}
}

// DownloadAll fetches the given URLs concurrently and returns a map from
// source URL to the page-relative path of the downloaded copy. URLs that
// fail to download, exceed the per-call cap, or were already downloaded
// during this crawl are handled without error: already-downloaded URLs
// reuse their existing path, the rest are absent from the result.
func (r *ResourceStore) DownloadAll(ctx context.Context, urls []string) map[string]string {
	if len(urls) > maxResourcesPerCall {
		urls = urls[:maxResourcesPerCall]
	}

	result := make(map[string]string)
	var resultMu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(downloadConcurrency)

	for _, rawURL := range urls {
		g.Go(func() error {
			local, ok := r.download(gctx, rawURL)
			if !ok {
				return nil
			}
			resultMu.Lock()
			result[rawURL] = local
			resultMu.Unlock()
			return nil
		})
	}

	// Errors are never returned from the workers; Wait only observes
	// context cancellation.
	_ = g.Wait()
	return result
}

// download fetches one resource, reusing a previous download of the same
// URL when present.
func (r *ResourceStore) download(ctx context.Context, rawURL string) (string, bool) {
	r.mu.Lock()
	if local, ok := r.local[rawURL]; ok {
		r.mu.Unlock()
		return local, true
	}
	name := r.claimName(rawURL)
	r.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", false
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return "", false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", false
	}

	dir := filepath.Join(r.siteDir, resourcesDirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", false
	}

	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", false
	}
	_, copyErr := io.Copy(f, io.LimitReader(resp.Body, maxResourceBytes))
	closeErr := f.Close()
	if copyErr != nil || closeErr != nil {
		os.Remove(filepath.Join(dir, name))
		return "", false
	}

	local := path.Join(resourcesDirName, name)
	r.mu.Lock()
	r.local[rawURL] = local
	r.mu.Unlock()
	return local, true
}

// claimName reserves a unique filesystem-safe filename for the URL.
// Callers must hold r.mu.
func (r *ResourceStore) claimName(rawURL string) string {
	base := "resource"
	if u, err := url.Parse(rawURL); err == nil {
		if segment := path.Base(u.Path); segment != "" && segment != "." && segment != "/" {
			base = unsafeResourceChars.ReplaceAllString(segment, "_")
		}
	}

	name := base
	if r.taken[name] {
		name = fmt.Sprintf("%x-%s", xxhash.Sum64String(rawURL), base)
	}
	r.taken[name] = true
	return name
}
