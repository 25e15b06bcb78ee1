// Package mdnav augments rendered Markdown documents with automatic
// navigation: it extracts headings, assigns stable anchor identifiers,
// builds a hierarchical outline, renders it as a clickable nested list,
// and tracks which section is currently in view as the reader scrolls.
//
// # Quick Start
//
// Create a service and render a document:
//
//	svc := mdnav.New()
//	result, err := svc.Render(ctx, mdnav.Input{Markdown: "# Hello\n\n## World"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("doc.html", []byte(result.HTML), 0644)
//
// The result contains the full HTML document with anchor ids assigned and
// the outline injected (result.HTML), the outline fragment on its own
// (result.Outline), and the extracted heading list and forest for callers
// that drive their own UI.
//
// # Pipeline
//
// Rendering follows these stages:
//
//  1. Markdown to HTML conversion via Goldmark (GFM, syntax highlighting)
//  2. Heading extraction from the parsed HTML tree
//  3. Slug assignment (URL-safe, collision-resistant anchor ids)
//  4. Hierarchy building (flat heading list to nested outline forest)
//  5. Outline rendering and injection into the document
//
// Each stage is also usable on its own: HTMLSource and MarkdownSource
// extract headings from pre-parsed content, AssignIDs slugs a heading
// list, BuildOutline nests it, and RenderOutline produces the markup.
//
// # Scroll Tracking
//
// A Tracker maps live scroll positions to the single active heading id,
// coalescing scroll events to at most one recomputation per frame:
//
//	tr := mdnav.NewTracker()
//	token := tr.Subscribe(func(id string) { highlight(id) })
//	tr.Attach(result.Headings, offsets, viewportHeight)
//	// feed scroll positions as they arrive:
//	tr.OnScroll(pos)
//	// when the document goes away:
//	tr.Detach()
//	tr.Unsubscribe(token)
//
// Offsets are measured by the host environment (the page, a terminal
// renderer, a test); the tracker itself never touches a DOM.
package mdnav
