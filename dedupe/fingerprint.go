// Package dedupe detects duplicate and near-duplicate page content.
// Content is reduced to a fingerprint: an exact hash over normalized
// text plus a set of word shingles for similarity comparison, so pages
// that differ only in timestamps, session tokens, or minor dynamic
// fragments are still recognized as duplicates.
package dedupe

import (
	"strings"

	"github.com/cespare/xxhash/v2"
)

// shingleSize is the number of consecutive words per shingle.
const shingleSize = 5

// Fingerprint is a normalized representation of a page's primary content
// used for duplicate comparison.
type Fingerprint struct {
	// Hash is an exact digest of the normalized text.
	Hash uint64

	shingles map[uint64]struct{}
}

// NewFingerprint computes a fingerprint over content.
// Fingerprinting is deterministic: identical content always yields an
// identical fingerprint.
func NewFingerprint(content string) Fingerprint {
	norm := normalize(content)
	fp := Fingerprint{
		Hash:     xxhash.Sum64String(norm),
		shingles: make(map[uint64]struct{}),
	}

	words := strings.Fields(norm)
	if len(words) == 0 {
		return fp
	}
	if len(words) < shingleSize {
		fp.shingles[xxhash.Sum64String(strings.Join(words, " "))] = struct{}{}
		return fp
	}
	for i := 0; i+shingleSize <= len(words); i++ {
		shingle := strings.Join(words[i:i+shingleSize], " ")
		fp.shingles[xxhash.Sum64String(shingle)] = struct{}{}
	}
	return fp
}

// Similarity returns the Jaccard overlap of the two fingerprints'
// shingle sets, in [0, 1].
func (f Fingerprint) Similarity(other Fingerprint) float64 {
	if len(f.shingles) == 0 || len(other.shingles) == 0 {
		return 0
	}

	smaller, larger := f.shingles, other.shingles
	if len(larger) < len(smaller) {
		smaller, larger = larger, smaller
	}

	var shared int
	for s := range smaller {
		if _, ok := larger[s]; ok {
			shared++
		}
	}

	union := len(f.shingles) + len(other.shingles) - shared
	return float64(shared) / float64(union)
}

// normalize lower-cases text and collapses all whitespace runs so that
// formatting differences never affect the fingerprint.
func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
