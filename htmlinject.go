package mdnav

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// DefaultScrollOffsetPx is the distance from the viewport top that a
// heading's top aligns with after click-to-scroll navigation. Consumers
// wire it into their scroll call; the library only documents the contract.
const DefaultScrollOffsetPx = 16

// outlineInjector defines the contract for placing the rendered outline
// and its anchor targets into an HTML document.
type outlineInjector interface {
	InjectOutline(doc string, headings []Heading, outlineHTML string) (string, error)
}

// outlineInjection assigns anchor ids to the document's heading elements
// and inserts the outline fragment after <body>.
type outlineInjection struct{}

// InjectOutline parses the document, sets each heading element's id
// attribute to its assigned slug, re-renders, and inserts outlineHTML
// right after the opening <body> tag (falling back to prepending when no
// body exists). Headings beyond the extracted list are left untouched.
func (j *outlineInjection) InjectOutline(doc string, headings []Heading, outlineHTML string) (string, error) {
	if len(headings) > 0 {
		withIDs, err := assignAnchorIDs(doc, headings)
		if err != nil {
			return "", err
		}
		doc = withIDs
	}
	if outlineHTML == "" {
		return doc, nil
	}
	return insertAfterBody(doc, outlineHTML), nil
}

// assignAnchorIDs sets the id attribute on the document's h1-h6 elements,
// matching them to the heading list by document order.
func assignAnchorIDs(doc string, headings []Heading) (string, error) {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHTMLParse, err)
	}

	next := 0
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if next >= len(headings) {
			return
		}
		if n.Type == html.ElementNode && headingLevel(n.Data) > 0 {
			setAttr(n, "id", headings[next].ID)
			next++
			return // heading content holds no further headings
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	var buf strings.Builder
	if err := html.Render(&buf, root); err != nil {
		return "", fmt.Errorf("%w: %v", ErrHTMLRender, err)
	}
	return buf.String(), nil
}

// setAttr sets or replaces an attribute on an element node.
func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// insertAfterBody inserts fragment right after the opening <body> tag.
// Falls back to prepending when the document has no body tag.
func insertAfterBody(htmlContent, fragment string) string {
	lowerHTML := strings.ToLower(htmlContent)

	if idx := strings.Index(lowerHTML, "<body"); idx != -1 {
		// Find the closing > of <body...>
		closeIdx := strings.Index(htmlContent[idx:], ">")
		if closeIdx != -1 {
			insertPos := idx + closeIdx + 1
			return htmlContent[:insertPos] + fragment + htmlContent[insertPos:]
		}
	}

	// Fallback: prepend
	return fragment + htmlContent
}
