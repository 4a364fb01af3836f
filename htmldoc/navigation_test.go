package htmldoc

import (
	"strings"
	"testing"

	"github.com/tsawler/strata/model"
)

func markdownFor(t *testing.T, src string, mode NavigationExclusionMode) string {
	t.Helper()
	opts := DefaultOptions()
	opts.Navigation = mode
	r, err := OpenReaderWithOptions(strings.NewReader(src), opts)
	if err != nil {
		t.Fatalf("OpenReaderWithOptions() failed: %v", err)
	}
	md, err := r.Markdown()
	if err != nil {
		t.Fatalf("Markdown() failed: %v", err)
	}
	return md
}

func TestNavigationExclusionModes(t *testing.T) {
	tests := []struct {
		name           string
		html           string
		mode           NavigationExclusionMode
		wantContains   []string
		wantNotContain []string
	}{
		{
			name: "None mode includes everything",
			html: `<html><body>
				<nav><p>Home | About</p></nav>
				<main><h1>Title</h1><p>Content</p></main>
				<footer><p>Copyright 2024</p></footer>
			</body></html>`,
			mode:         NavigationExclusionNone,
			wantContains: []string{"Title", "Content", "Home", "About", "Copyright"},
		},
		{
			name: "Explicit mode excludes nav element",
			html: `<html><body>
				<nav><a href="/">Home</a><a href="/about">About</a></nav>
				<main><h1>Title</h1><p>Content</p></main>
			</body></html>`,
			mode:           NavigationExclusionExplicit,
			wantContains:   []string{"Title", "Content"},
			wantNotContain: []string{"Home", "About"},
		},
		{
			name: "Explicit mode excludes aside element",
			html: `<html><body>
				<aside><p>Sidebar content</p></aside>
				<main><h1>Title</h1><p>Main content</p></main>
			</body></html>`,
			mode:           NavigationExclusionExplicit,
			wantContains:   []string{"Title", "Main content"},
			wantNotContain: []string{"Sidebar content"},
		},
		{
			name: "Explicit mode hides top-level header but not article header",
			html: `<html><body>
				<header><h1>Site Header</h1></header>
				<article>
					<header><h2>Article Header</h2></header>
					<p>Article content</p>
				</article>
			</body></html>`,
			mode:           NavigationExclusionExplicit,
			wantContains:   []string{"Article Header", "Article content"},
			wantNotContain: []string{"Site Header"},
		},
		{
			name: "Explicit mode hides top-level footer but not article footer",
			html: `<html><body>
				<article>
					<p>Article content</p>
					<footer><p>Article author info</p></footer>
				</article>
				<footer><p>Site footer copyright</p></footer>
			</body></html>`,
			mode:           NavigationExclusionExplicit,
			wantContains:   []string{"Article content", "Article author info"},
			wantNotContain: []string{"Site footer copyright"},
		},
		{
			name: "Explicit mode excludes elements with ARIA navigation role",
			html: `<html><body>
				<div role="navigation"><a href="/">Home</a></div>
				<main><h1>Title</h1><p>Content</p></main>
			</body></html>`,
			mode:           NavigationExclusionExplicit,
			wantContains:   []string{"Title", "Content"},
			wantNotContain: []string{"Home"},
		},
		{
			name: "Explicit mode hides ARIA banner role at top level",
			html: `<html><body>
				<div role="banner"><h1>Site Banner</h1></div>
				<main><h1>Main Title</h1><p>Content</p></main>
			</body></html>`,
			mode:           NavigationExclusionExplicit,
			wantContains:   []string{"Main Title", "Content"},
			wantNotContain: []string{"Site Banner"},
		},
		{
			name: "Explicit mode ignores class names",
			html: `<html><body>
				<div class="navbar"><a href="/">Home</a></div>
				<main><p>Content</p></main>
			</body></html>`,
			mode:         NavigationExclusionExplicit,
			wantContains: []string{"Home", "Content"},
		},
		{
			name: "Standard mode excludes div with nav class",
			html: `<html><body>
				<div class="main-navigation"><a href="/">Home</a></div>
				<main><h1>Title</h1><p>Content</p></main>
			</body></html>`,
			mode:           NavigationExclusionStandard,
			wantContains:   []string{"Title", "Content"},
			wantNotContain: []string{"Home"},
		},
		{
			name: "Standard mode matches camelCase class names",
			html: `<html><body>
				<div class="mainNav"><a href="/">Home</a></div>
				<main><p>Content</p></main>
			</body></html>`,
			mode:           NavigationExclusionStandard,
			wantContains:   []string{"Content"},
			wantNotContain: []string{"Home"},
		},
		{
			name: "Standard mode hides div with footer id",
			html: `<html><body>
				<main><h1>Title</h1><p>Content</p></main>
				<div id="footer"><p>Copyright 2024</p></div>
			</body></html>`,
			mode:           NavigationExclusionStandard,
			wantContains:   []string{"Title", "Content"},
			wantNotContain: []string{"Copyright"},
		},
		{
			name: "Standard mode excludes div with sidebar class",
			html: `<html><body>
				<div class="sidebar"><p>Widget content</p></div>
				<main><h1>Title</h1><p>Content</p></main>
			</body></html>`,
			mode:           NavigationExclusionStandard,
			wantContains:   []string{"Title", "Content"},
			wantNotContain: []string{"Widget content"},
		},
		{
			name: "Standard mode keeps link-heavy content",
			html: `<html><body>
				<div><a href="/a">One</a> <a href="/b">Two</a> <a href="/c">Three</a> <a href="/d">Four</a></div>
				<main><p>Content</p></main>
			</body></html>`,
			mode:         NavigationExclusionStandard,
			wantContains: []string{"One", "Four", "Content"},
		},
		{
			name: "Aggressive mode excludes link-dense sections",
			html: `<html><body>
				<div><a href="/a">One</a> <a href="/b">Two</a> <a href="/c">Three</a> <a href="/d">Four</a></div>
				<main><p>Content</p></main>
			</body></html>`,
			mode:           NavigationExclusionAggressive,
			wantContains:   []string{"Content"},
			wantNotContain: []string{"One", "Four"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md := markdownFor(t, tt.html, tt.mode)
			for _, want := range tt.wantContains {
				if !strings.Contains(md, want) {
					t.Errorf("Markdown() missing %q in:\n%s", want, md)
				}
			}
			for _, unwanted := range tt.wantNotContain {
				if strings.Contains(md, unwanted) {
					t.Errorf("Markdown() should not contain %q in:\n%s", unwanted, md)
				}
			}
		})
	}
}

func TestFurnitureLayers(t *testing.T) {
	src := `<html><body>
		<header><p>Site name</p></header>
		<main><p>Body text</p></main>
		<footer><p>Copyright</p></footer>
	</body></html>`

	r, err := OpenReader(strings.NewReader(src))
	if err != nil {
		t.Fatalf("OpenReader() failed: %v", err)
	}

	items := r.Items()
	if len(items) != 3 {
		t.Fatalf("Items() = %d items, want 3", len(items))
	}
	want := []model.ContentLayer{model.LayerHeader, model.LayerBody, model.LayerFooter}
	for i, layer := range want {
		if items[i].Layer != layer {
			t.Errorf("Items()[%d].Layer = %v, want %v", i, items[i].Layer, layer)
		}
	}
}

func TestNormalizeClassName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"siteFooter", "site-footer"},
		{"navbar", "navbar"},
		{"MainNav", "main-nav"},
		{"already-kebab", "already-kebab"},
	}

	for _, tt := range tests {
		if got := normalizeClassName(tt.input); got != tt.want {
			t.Errorf("normalizeClassName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNavigationExclusionModeString(t *testing.T) {
	for m := NavigationExclusionNone; m <= NavigationExclusionAggressive; m++ {
		parsed, ok := ParseNavigationExclusionMode(m.String())
		if !ok || parsed != m {
			t.Errorf("ParseNavigationExclusionMode(%q) = %v, %v", m.String(), parsed, ok)
		}
	}
	if _, ok := ParseNavigationExclusionMode("bogus"); ok {
		t.Error("ParseNavigationExclusionMode(bogus) should fail")
	}
}
