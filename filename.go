package scrape2md

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// MaxFilenameLength bounds the length of generated filenames in runes,
// before any collision suffix.
const MaxFilenameLength = 100

var (
	unsafeFilenameChars = regexp.MustCompile(`[^\w\s\-.]`)
	repeatedWhitespace  = regexp.MustCompile(`\s+`)
)

// SanitizeFilename converts a title to a filesystem-safe name.
// Unsafe characters are removed, whitespace is collapsed, and the result
// is truncated to MaxFilenameLength runes. Returns "" when nothing
// usable remains.
func SanitizeFilename(title string) string {
	safe := unsafeFilenameChars.ReplaceAllString(title, "")
	safe = repeatedWhitespace.ReplaceAllString(safe, " ")
	safe = strings.TrimSpace(safe)
	if runes := []rune(safe); len(runes) > MaxFilenameLength {
		safe = strings.TrimSpace(string(runes[:MaxFilenameLength]))
	}
	// A name of only dots would collide with path navigation entries.
	if strings.Trim(safe, ".") == "" {
		return ""
	}
	return safe
}

// FilenameAllocator maps page titles and URLs to unique filesystem-safe
// names. Allocation is deterministic: the same sequence of calls yields
// the same names, with collisions disambiguated by a monotonic numeric
// suffix ("Name", "Name (2)", "Name (3)", ...).
//
// FilenameAllocator is not safe for concurrent use; the crawl loop is
// its only caller.
type FilenameAllocator struct {
	taken map[string]bool
}

// NewFilenameAllocator creates an empty allocator.
func NewFilenameAllocator() *FilenameAllocator {
	return &FilenameAllocator{taken: make(map[string]bool)}
}

// Allocate derives a unique name from title, falling back to the last URL
// path segment, then to a hash of the URL when both are empty.
func (a *FilenameAllocator) Allocate(title, rawURL string) string {
	base := SanitizeFilename(title)
	if base == "" {
		base = SanitizeFilename(lastPathSegment(rawURL))
	}
	if base == "" {
		base = fmt.Sprintf("page-%x", xxhash.Sum64String(rawURL))
	}

	name := base
	for i := 2; a.taken[name]; i++ {
		name = fmt.Sprintf("%s (%d)", base, i)
	}
	a.taken[name] = true
	return name
}

// lastPathSegment returns the final non-empty path segment of a URL,
// with any file extension removed.
func lastPathSegment(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	path := strings.Trim(u.Path, "/")
	if path == "" {
		return ""
	}
	segments := strings.Split(path, "/")
	segment := segments[len(segments)-1]
	if idx := strings.LastIndex(segment, "."); idx > 0 {
		segment = segment[:idx]
	}
	return segment
}
