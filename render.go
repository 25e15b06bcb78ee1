package mdnav

import (
	"html"
	"strconv"
	"strings"
)

// Structural hooks in the rendered outline. Consumers style and delegate
// clicks off these; they are part of the output contract.
const (
	OutlineContainerClass = "mdnav-outline"
	OutlineTitleClass     = "mdnav-title"
	OutlineListClass      = "mdnav-list"
	OutlineItemClass      = "mdnav-item"
	outlineLevelClass     = "mdnav-level-" // suffixed with nesting depth
)

// RenderOutline walks the forest in pre-order and produces nested list
// markup. Nodes deeper than the configured maximum depth are omitted
// entirely, not flattened. In numbered mode each item is prefixed with
// its 1-based position among its siblings. All heading text is escaped;
// each item carries its heading id as a data attribute and as the target
// of its anchor href. An empty forest renders to an empty string.
func RenderOutline(forest []*OutlineNode, opts *OutlineOptions) string {
	if len(forest) == 0 {
		return ""
	}

	maxDepth := opts.maxDepth()
	numbered := opts != nil && opts.Numbered

	var buf strings.Builder
	buf.WriteString(`<nav class="` + OutlineContainerClass + `">`)

	if opts != nil && opts.Title != "" {
		buf.WriteString(`<p class="` + OutlineTitleClass + `">`)
		buf.WriteString(html.EscapeString(opts.Title))
		buf.WriteString(`</p>`)
	}

	renderLevel(&buf, forest, 1, maxDepth, numbered)

	buf.WriteString(`</nav>`)
	return buf.String()
}

// renderLevel emits one <ul> for a sibling group, recursing into children
// while depth allows.
func renderLevel(buf *strings.Builder, nodes []*OutlineNode, depth, maxDepth int, numbered bool) {
	if depth > maxDepth || len(nodes) == 0 {
		return
	}

	if depth == 1 {
		buf.WriteString(`<ul class="` + OutlineListClass + `">`)
	} else {
		buf.WriteString(`<ul>`)
	}

	for i, node := range nodes {
		buf.WriteString(`<li class="` + OutlineItemClass + ` ` + outlineLevelClass + strconv.Itoa(depth) + `"`)
		buf.WriteString(` data-id="`)
		buf.WriteString(html.EscapeString(node.Heading.ID))
		buf.WriteString(`"><a href="#`)
		buf.WriteString(html.EscapeString(node.Heading.ID))
		buf.WriteString(`">`)
		if numbered {
			buf.WriteString(strconv.Itoa(i + 1))
			buf.WriteString(`. `)
		}
		buf.WriteString(html.EscapeString(node.Heading.Text))
		buf.WriteString(`</a>`)

		renderLevel(buf, node.Children, depth+1, maxDepth, numbered)

		buf.WriteString(`</li>`)
	}

	buf.WriteString(`</ul>`)
}
