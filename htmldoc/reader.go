package htmldoc

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"

	"github.com/tsawler/strata/model"
	"github.com/tsawler/strata/structure"
)

// Reader provides access to HTML document content.
type Reader struct {
	doc      *html.Node
	title    string
	metadata map[string]string
	items    []structure.Item
}

// Open opens an HTML file for reading with default options.
func Open(filename string) (*Reader, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return OpenReader(f)
}

// OpenReader parses HTML from an io.Reader with default options.
func OpenReader(r io.Reader) (*Reader, error) {
	return OpenReaderWithOptions(r, DefaultOptions())
}

// OpenReaderWithOptions parses HTML from an io.Reader.
func OpenReaderWithOptions(r io.Reader, opts Options) (*Reader, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	reader := &Reader{
		doc:      doc,
		metadata: make(map[string]string),
	}

	// Extract title and metadata from head
	reader.extractHead(doc)

	// Extract content from body
	reader.extractBody(doc, opts)

	return reader, nil
}

// Close releases resources associated with the Reader.
func (r *Reader) Close() error {
	// Nothing to close for HTML (no file handles kept)
	return nil
}

// extractHead extracts title and meta tags from the head element.
func (r *Reader) extractHead(n *html.Node) {
	if n.Type == html.ElementNode && n.Data == "head" {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode {
				switch c.Data {
				case "title":
					r.title = strings.TrimSpace(rawText(c))
				case "meta":
					name, content := "", ""
					for _, attr := range c.Attr {
						switch attr.Key {
						case "name", "property":
							name = attr.Val
						case "content":
							content = attr.Val
						}
					}
					if name != "" && content != "" {
						r.metadata[name] = content
					}
				}
			}
		}
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		r.extractHead(c)
	}
}

// extractBody converts the body element into items.
func (r *Reader) extractBody(n *html.Node, opts Options) {
	body := findElement(n, "body")
	if body == nil {
		// No body tag, try to extract from root
		body = n
	}

	w := &blockWalker{regions: newRegionClassifier(opts.Navigation, n)}
	if opts.EmitTitle && r.title != "" {
		r.items = append(r.items, structure.NewItem(model.Title{Text: r.title}, 1))
	}
	r.items = append(r.items, w.children(body, blockContext{})...)
}

// PageCount returns 1 (HTML documents are single-page).
func (r *Reader) PageCount() (int, error) {
	return 1, nil
}

// Title returns the content of the <title> element
func (r *Reader) Title() string {
	return r.title
}

// Items returns the document content in reading order, ready for
// structure.Builder. All items are on page 1.
func (r *Reader) Items() []structure.Item {
	return r.items
}

// Structure assembles the document tree
func (r *Reader) Structure() (*model.DocumentStructure, error) {
	config := structure.DefaultBuilderConfig()
	config.PageCount = 1
	doc, err := structure.NewBuilderWithConfig(config).Build(r.items)
	if err != nil {
		return nil, fmt.Errorf("building structure: %w", err)
	}
	return doc, nil
}

// Markdown returns the HTML content as Markdown.
func (r *Reader) Markdown() (string, error) {
	return r.MarkdownWithOptions(structure.DefaultMarkdownOptions())
}

// MarkdownWithOptions returns HTML content as Markdown with options.
func (r *Reader) MarkdownWithOptions(opts structure.MarkdownOptions) (string, error) {
	doc, err := r.Structure()
	if err != nil {
		return "", err
	}
	return structure.RenderMarkdownWithOptions(doc, opts), nil
}

// Metadata returns document metadata.
func (r *Reader) Metadata() Metadata {
	meta := Metadata{
		Title:       r.title,
		Author:      r.metadata["author"],
		Description: r.metadata["description"],
	}

	if keywords, ok := r.metadata["keywords"]; ok {
		for _, kw := range strings.Split(keywords, ",") {
			if kw = strings.TrimSpace(kw); kw != "" {
				meta.Keywords = append(meta.Keywords, kw)
			}
		}
	}

	return meta
}
