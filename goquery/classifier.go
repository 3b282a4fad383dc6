package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// boilerplateThreshold is the confidence at or above which a region is
// removed as boilerplate.
const boilerplateThreshold = 0.7

// RegionClassifier scores how likely a DOM region is to be boilerplate.
// Classifiers are combined by taking the highest confidence, so each one
// stays narrow and can be tested and extended independently.
type RegionClassifier interface {
	// Name identifies the classifier.
	Name() string

	// Score returns a confidence in [0, 1] that the selection is
	// boilerplate rather than primary content.
	Score(sel *goquery.Selection) float64
}

// DefaultClassifiers returns the standard classifier chain.
func DefaultClassifiers() []RegionClassifier {
	return []RegionClassifier{
		&StructuralClassifier{},
		&NamedRegionClassifier{},
		&LinkDensityClassifier{},
	}
}

// StructuralClassifier recognizes boilerplate by element semantics:
// navigation, banner, and footer landmarks, ARIA roles, and credential
// forms. It generalizes across sites because it never depends on
// site-specific class names.
type StructuralClassifier struct{}

// Name implements RegionClassifier.
func (c *StructuralClassifier) Name() string { return "structural" }

// Score implements RegionClassifier.
func (c *StructuralClassifier) Score(sel *goquery.Selection) float64 {
	switch goquery.NodeName(sel) {
	case "nav", "footer", "aside":
		return 1.0
	case "header":
		return 0.9
	case "form":
		// Credential fields mark login/signup chrome; other forms
		// (search boxes, filters) stay below the removal threshold.
		if sel.Find("input[type='password']").Length() > 0 {
			return 1.0
		}
		return 0.4
	}

	switch role, _ := sel.Attr("role"); role {
	case "navigation", "banner", "contentinfo", "complementary":
		return 1.0
	case "dialog", "alertdialog":
		return 0.9
	}

	return 0
}

// namedRegionScores maps class/id keywords to boilerplate confidence.
// Keywords are substring-matched against the element's class and id.
var namedRegionScores = []struct {
	keyword string
	score   float64
}{
	{"cookie", 0.9},
	{"consent", 0.9},
	{"navbar", 0.95},
	{"navigation", 0.95},
	{"breadcrumb", 0.9},
	{"sidebar", 0.9},
	{"menu", 0.8},
	{"footer", 0.9},
	{"copyright", 0.85},
	{"modal", 0.9},
	{"dialog", 0.85},
	{"overlay", 0.85},
	{"popup", 0.9},
	{"login", 0.9},
	{"logon", 0.9},
	{"signin", 0.9},
	{"signup", 0.85},
	{"advert", 0.95},
	{"adsense", 0.95},
	{"promo", 0.75},
	{"settings", 0.75},
}

// NamedRegionClassifier recognizes boilerplate by conventional class and
// id naming (sidebars, menus, cookie banners, ad containers, dialogs).
type NamedRegionClassifier struct{}

// Name implements RegionClassifier.
func (c *NamedRegionClassifier) Name() string { return "named" }

// Score implements RegionClassifier.
func (c *NamedRegionClassifier) Score(sel *goquery.Selection) float64 {
	class, _ := sel.Attr("class")
	id, _ := sel.Attr("id")
	name := strings.ToLower(class + " " + id)
	if strings.TrimSpace(name) == "" {
		return 0
	}

	var max float64
	for _, entry := range namedRegionScores {
		if entry.score > max && strings.Contains(name, entry.keyword) {
			max = entry.score
		}
	}
	return max
}

// LinkDensityClassifier flags regions whose text is mostly link text,
// the shape of navigation menus and link farms regardless of markup.
type LinkDensityClassifier struct{}

// Name implements RegionClassifier.
func (c *LinkDensityClassifier) Name() string { return "linkdensity" }

// Score implements RegionClassifier.
func (c *LinkDensityClassifier) Score(sel *goquery.Selection) float64 {
	text := normalizeSpace(sel.Text())
	if len(text) < 20 {
		return 0 // too small to judge
	}

	links := sel.Find("a")
	if links.Length() < 3 {
		return 0
	}

	var linkText int
	links.Each(func(_ int, a *goquery.Selection) {
		linkText += len(normalizeSpace(a.Text()))
	})

	density := float64(linkText) / float64(len(text))
	switch {
	case density >= 0.85:
		return 0.85
	case density >= 0.7:
		return 0.75
	default:
		return 0
	}
}
