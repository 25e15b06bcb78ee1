package mdnav

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/net/html"
)

// HeadingSource iterates the heading elements of a parsed document in
// document order. Implementations are read-only scans: they never mutate
// the underlying document and return headings with Level, Text, and
// SourceIndex filled (ids are assigned later).
type HeadingSource interface {
	Headings() []Heading
}

// HTMLSource extracts headings from a parsed HTML tree.
type HTMLSource struct {
	root *html.Node
}

// NewHTMLSource wraps an already-parsed HTML tree. A nil root is valid
// and yields no headings.
func NewHTMLSource(root *html.Node) *HTMLSource {
	return &HTMLSource{root: root}
}

// ParseHTMLSource parses an HTML string into a source. An empty or
// unparseable document yields no headings, never an error.
func ParseHTMLSource(content string) *HTMLSource {
	if strings.TrimSpace(content) == "" {
		return &HTMLSource{}
	}
	root, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return &HTMLSource{}
	}
	return &HTMLSource{root: root}
}

// Headings returns all h1-h6 elements in document order. Inline markup
// inside a heading is flattened: link and emphasis text is kept, tags are
// dropped.
func (s *HTMLSource) Headings() []Heading {
	if s == nil || s.root == nil {
		return nil
	}

	var headings []Heading
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if level := headingLevel(n.Data); level > 0 {
				headings = append(headings, Heading{
					Level:       level,
					Text:        textContent(n),
					SourceIndex: len(headings),
				})
				return // heading text already collected, don't recurse
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(s.root)
	return headings
}

// headingLevel maps an element tag to its heading level, 0 for non-headings.
func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

// textContent concatenates all text nodes under n and trims whitespace.
func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

// MarkdownSource extracts headings directly from Markdown content using
// the Goldmark parser, without rendering to HTML first.
type MarkdownSource struct {
	source []byte
}

// NewMarkdownSource wraps raw Markdown content. Empty content is valid
// and yields no headings.
func NewMarkdownSource(source []byte) *MarkdownSource {
	return &MarkdownSource{source: source}
}

// Headings parses the Markdown and returns all ATX/setext headings in
// document order. Inline nodes (links, emphasis, code spans) contribute
// their text content.
func (s *MarkdownSource) Headings() []Heading {
	if s == nil || len(s.source) == 0 {
		return nil
	}

	doc := goldmark.DefaultParser().Parse(text.NewReader(s.source))

	var headings []Heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		headings = append(headings, Heading{
			Level:       heading.Level,
			Text:        strings.TrimSpace(inlineText(heading, s.source)),
			SourceIndex: len(headings),
		})
		return ast.WalkSkipChildren, nil
	})
	return headings
}

// inlineText collects the text of all inline descendants of n. Autolinks
// carry their text internally rather than as child nodes, so they are
// read directly.
func inlineText(n ast.Node, source []byte) string {
	var buf strings.Builder
	var collect func(n ast.Node)
	collect = func(n ast.Node) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			switch node := c.(type) {
			case *ast.Text:
				buf.Write(node.Segment.Value(source))
			case *ast.AutoLink:
				buf.Write(node.Label(source))
			default:
				collect(c)
			}
		}
	}
	collect(n)
	return buf.String()
}
