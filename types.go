package mdnav

import (
	"fmt"
	"log/slog"
)

// Heading level bounds.
const (
	MinHeadingLevel = 1
	MaxHeadingLevel = 6
)

// Outline defaults.
const (
	// DefaultMinHeadings suppresses the outline for documents too short
	// to benefit from one.
	DefaultMinHeadings = 2

	// DefaultMaxDepth renders all six heading levels.
	DefaultMaxDepth = 6
)

// Heading is one extracted section title in document order.
// SourceIndex is the heading's position within one extraction pass and is
// strictly increasing; ID is empty until assigned by a SlugAssigner.
type Heading struct {
	Level       int    // 1-6
	Text        string // plain text, inline markup flattened
	ID          string // URL-safe anchor id
	SourceIndex int    // position among headings in the document
}

// OutlineNode is one entry in the outline forest. Every direct child's
// level is strictly greater than its parent's level, though not
// necessarily parent+1 (skipped levels attach to the nearest shallower
// ancestor).
type OutlineNode struct {
	Heading  Heading
	Children []*OutlineNode
}

// Walk visits the forest in pre-order, which reproduces document order.
// Returning false from fn stops the walk.
func Walk(forest []*OutlineNode, fn func(node *OutlineNode, depth int) bool) {
	var visit func(n *OutlineNode, depth int) bool
	visit = func(n *OutlineNode, depth int) bool {
		if !fn(n, depth) {
			return false
		}
		for _, c := range n.Children {
			if !visit(c, depth+1) {
				return false
			}
		}
		return true
	}
	for _, root := range forest {
		if !visit(root, 1) {
			return
		}
	}
}

// OutlineOptions configures hierarchy building and rendering.
type OutlineOptions struct {
	MinHeadings int    // below this count the forest is empty (0 = default 2)
	MaxDepth    int    // deeper nodes are omitted entirely (0 = default 6)
	Numbered    bool   // prefix each item with its 1-based sibling position
	Title       string // optional outline caption
}

// DefaultOutlineOptions returns outline options with default values.
func DefaultOutlineOptions() *OutlineOptions {
	return &OutlineOptions{
		MinHeadings: DefaultMinHeadings,
		MaxDepth:    DefaultMaxDepth,
	}
}

// Validate checks that outline options are valid.
// Returns nil if o is nil (nil means use defaults).
func (o *OutlineOptions) Validate() error {
	if o == nil {
		return nil
	}
	if o.MinHeadings < 0 {
		return fmt.Errorf("%w: %d (must be >= 0)", ErrInvalidMinHeadings, o.MinHeadings)
	}
	if o.MaxDepth < 0 || o.MaxDepth > MaxHeadingLevel {
		return fmt.Errorf("%w: %d (must be between 0 and %d)", ErrInvalidMaxDepth, o.MaxDepth, MaxHeadingLevel)
	}
	return nil
}

// minHeadings resolves the effective minimum heading count.
func (o *OutlineOptions) minHeadings() int {
	if o == nil || o.MinHeadings == 0 {
		return DefaultMinHeadings
	}
	return o.MinHeadings
}

// maxDepth resolves the effective maximum rendering depth.
func (o *OutlineOptions) maxDepth() int {
	if o == nil || o.MaxDepth == 0 {
		return DefaultMaxDepth
	}
	return o.MaxDepth
}

// Input contains rendering parameters.
type Input struct {
	Markdown string          // Markdown content (required)
	Outline  *OutlineOptions // outline config (optional, nil = defaults)
}

// Result holds the outcome of one pipeline run. The forest is rebuilt
// wholesale on every run; previous results are never mutated in place.
type Result struct {
	HTML     string         // full document with anchor ids and outline injected
	Outline  string         // the outline fragment on its own
	Headings []Heading      // flat heading list with assigned ids
	Forest   []*OutlineNode // hierarchical outline
}

// Option configures a Service.
type Option func(*Service)

// WithOutline sets default outline options applied when Input.Outline is nil.
func WithOutline(opts *OutlineOptions) Option {
	return func(s *Service) {
		s.cfg.outline = opts
	}
}

// WithLogger sets the logger used for defensive diagnostics.
// Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}
