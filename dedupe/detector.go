package dedupe

// DefaultThreshold is the shingle-overlap ratio at or above which two
// pages are considered near-duplicates. It is a fixed configuration
// constant, not adaptive.
const DefaultThreshold = 0.90

// Detector judges whether page content duplicates content already
// accepted during a crawl. First-seen content wins: later duplicates are
// dropped and never overwrite an accepted page.
//
// Detector is not safe for concurrent use; the crawl loop is its only
// caller.
type Detector struct {
	threshold float64
	exact     map[uint64]struct{}
	accepted  []Fingerprint
}

// NewDetector creates a Detector with the given similarity threshold.
// A non-positive threshold falls back to DefaultThreshold.
func NewDetector(threshold float64) *Detector {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Detector{
		threshold: threshold,
		exact:     make(map[uint64]struct{}),
	}
}

// IsDuplicate reports whether fp matches an accepted fingerprint, either
// exactly or by shingle overlap at or above the threshold.
func (d *Detector) IsDuplicate(fp Fingerprint) bool {
	if _, ok := d.exact[fp.Hash]; ok {
		return true
	}
	for _, acc := range d.accepted {
		if fp.Similarity(acc) >= d.threshold {
			return true
		}
	}
	return false
}

// Accept registers a fingerprint as accepted. Call it only after the
// page has been persisted so failed writes never block future pages.
func (d *Detector) Accept(fp Fingerprint) {
	d.exact[fp.Hash] = struct{}{}
	d.accepted = append(d.accepted, fp)
}

// Len returns the number of accepted fingerprints.
func (d *Detector) Len() int {
	return len(d.accepted)
}
