package htmldoc

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// class/id patterns that indicate page furniture rather than content
var regionPatterns = struct {
	navigation *regexp.Regexp
	header     *regexp.Regexp
	footer     *regexp.Regexp
	footnote   *regexp.Regexp
}{
	navigation: regexp.MustCompile(`(?i)(^|[^a-z])(nav|navbar|navigation|menu|topnav|sidenav|breadcrumb|breadcrumbs|sidebar|widget-area|widget|aside)([^a-z]|$)`),
	header:     regexp.MustCompile(`(?i)(^|[^a-z])(site-header|page-header|masthead|banner)([^a-z]|$)`),
	footer:     regexp.MustCompile(`(?i)(^|[^a-z])(footer|site-footer|page-footer|colophon)([^a-z]|$)`),
	footnote:   regexp.MustCompile(`(?i)(^|[^a-z])(footnotes?|endnotes?)([^a-z]|$)`),
}

// region is what an element contributes to the document
type region int

const (
	regionContent region = iota
	regionSkip
	regionHeader
	regionFooter
	regionFootnote
)

// regionClassifier decides which elements are navigation to drop and which
// are running headers, footers or footnote sections.
type regionClassifier struct {
	mode             NavigationExclusionMode
	bodyNode         *html.Node
	topLevelWrapper  *html.Node // Single wrapper div/main if present
	linkDensityCache map[*html.Node]float64
}

// newRegionClassifier creates a classifier for the given mode and document.
func newRegionClassifier(mode NavigationExclusionMode, doc *html.Node) *regionClassifier {
	rc := &regionClassifier{
		mode:             mode,
		linkDensityCache: make(map[*html.Node]float64),
	}

	rc.bodyNode = findElement(doc, "body")
	if rc.bodyNode == nil {
		rc.bodyNode = doc
	}
	rc.topLevelWrapper = detectTopLevelWrapper(rc.bodyNode)

	return rc
}

// detectTopLevelWrapper finds a single structural wrapper element if one exists.
// This handles the common pattern of <body><div id="wrapper">...</div></body>
func detectTopLevelWrapper(body *html.Node) *html.Node {
	var structuralChildren []*html.Node

	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			switch c.Data {
			case "div", "main":
				structuralChildren = append(structuralChildren, c)
			case "script", "style", "noscript", "template":
				// Ignore these
			default:
				// Any other element means no single wrapper
				return nil
			}
		}
	}

	if len(structuralChildren) == 1 {
		return structuralChildren[0]
	}
	return nil
}

// classify returns the region an element opens
func (rc *regionClassifier) classify(n *html.Node) region {
	if n.Type != html.ElementNode {
		return regionContent
	}

	// Footnote sections are content in every mode
	if rc.isFootnoteSection(n) {
		return regionFootnote
	}

	if rc.mode == NavigationExclusionNone {
		return regionContent
	}

	if r := rc.classifyExplicit(n); r != regionContent {
		return r
	}

	if rc.mode >= NavigationExclusionStandard {
		if r := rc.classifyByPattern(n); r != regionContent {
			return r
		}
	}

	if rc.mode >= NavigationExclusionAggressive && rc.isLinkDense(n) {
		return regionSkip
	}

	return regionContent
}

func (rc *regionClassifier) isFootnoteSection(n *html.Node) bool {
	switch getAttr(n, "role") {
	case "doc-endnotes", "doc-footnote", "doc-footnotes":
		return true
	}
	switch getAttr(n, "epub:type") {
	case "footnote", "footnotes", "endnotes":
		return true
	}
	switch n.Data {
	case "section", "div", "aside", "footer", "ol":
		return matchesAttr(n, regionPatterns.footnote)
	}
	return false
}

// classifyExplicit checks semantic HTML5 elements and ARIA roles.
func (rc *regionClassifier) classifyExplicit(n *html.Node) region {
	// <nav> and <aside> are never content, regardless of position
	switch n.Data {
	case "nav", "aside":
		return regionSkip
	}

	switch getAttr(n, "role") {
	case "navigation", "complementary":
		return regionSkip
	case "banner":
		if rc.isTopLevel(n) {
			return regionHeader
		}
	case "contentinfo":
		if rc.isTopLevel(n) {
			return regionFooter
		}
	}

	// <header> and <footer> inside an article belong to it
	switch n.Data {
	case "header":
		if rc.isTopLevel(n) {
			return regionHeader
		}
	case "footer":
		if rc.isTopLevel(n) {
			return regionFooter
		}
	}

	return regionContent
}

// isTopLevel returns true if the node is a direct child of body or a single top-level wrapper.
func (rc *regionClassifier) isTopLevel(n *html.Node) bool {
	parent := n.Parent
	if parent == nil {
		return false
	}
	return parent == rc.bodyNode || (rc.topLevelWrapper != nil && parent == rc.topLevelWrapper)
}

// classifyByPattern checks class and id attributes for common furniture patterns.
func (rc *regionClassifier) classifyByPattern(n *html.Node) region {
	switch n.Data {
	case "div", "section", "ul", "ol", "header", "footer", "span":
	default:
		return regionContent
	}
	switch {
	case matchesAttr(n, regionPatterns.navigation):
		return regionSkip
	case matchesAttr(n, regionPatterns.header):
		return regionHeader
	case matchesAttr(n, regionPatterns.footer):
		return regionFooter
	}
	return regionContent
}

func matchesAttr(n *html.Node, re *regexp.Regexp) bool {
	for _, key := range []string{"class", "id"} {
		if v := getAttr(n, key); v != "" && re.MatchString(normalizeClassName(v)) {
			return true
		}
	}
	return false
}

// isLinkDense checks if an element has an unusually high link-to-text ratio.
func (rc *regionClassifier) isLinkDense(n *html.Node) bool {
	switch n.Data {
	case "div", "section", "ul", "ol":
	default:
		return false
	}

	// More than 60% of the text inside at least four links is navigation
	return rc.linkDensity(n) > 0.6 && countLinks(n) >= 4
}

// linkDensity returns the ratio of link text to total text (0.0 to 1.0).
func (rc *regionClassifier) linkDensity(n *html.Node) float64 {
	if cached, ok := rc.linkDensityCache[n]; ok {
		return cached
	}

	density := 0.0
	if total := textLength(n); total > 0 {
		density = float64(linkTextLength(n)) / float64(total)
	}
	rc.linkDensityCache[n] = density
	return density
}

// textLength returns the total length of text content in a node.
func textLength(n *html.Node) int {
	if n.Type == html.TextNode {
		return len(strings.TrimSpace(n.Data))
	}

	total := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		total += textLength(c)
	}
	return total
}

// linkTextLength returns the length of text content within <a> tags.
func linkTextLength(n *html.Node) int {
	if n.Type == html.ElementNode && n.Data == "a" {
		return textLength(n)
	}

	total := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		total += linkTextLength(c)
	}
	return total
}

// countLinks returns the number of <a> elements within a node.
func countLinks(n *html.Node) int {
	count := 0
	if n.Type == html.ElementNode && n.Data == "a" {
		count = 1
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		count += countLinks(c)
	}
	return count
}

// getAttr returns the value of an attribute on a node, or empty string if not found.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// normalizeClassName converts camelCase to kebab-case for pattern matching,
// so "siteFooter" matches the same patterns as "site-footer".
func normalizeClassName(s string) string {
	var result strings.Builder
	result.Grow(len(s))

	for i, r := range s {
		if unicode.IsUpper(r) && i > 0 {
			result.WriteRune('-')
		}
		result.WriteRune(unicode.ToLower(r))
	}

	return result.String()
}
