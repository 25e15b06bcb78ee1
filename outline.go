package mdnav

import "log/slog"

// BuildOutline converts a flat, level-tagged heading sequence into a
// forest of nested outline nodes using defaults for nil opts. Defensive
// diagnostics go to slog.Default(); use a Service to direct them elsewhere.
func BuildOutline(headings []Heading, opts *OutlineOptions) []*OutlineNode {
	b := &outlineBuilder{minHeadings: opts.minHeadings(), logger: slog.Default()}
	return b.Build(headings)
}

// outlineBuilder nests headings with an explicit stack of open nodes.
type outlineBuilder struct {
	minHeadings int
	logger      *slog.Logger
}

// Build runs a single pass over the headings in document order: the stack
// is popped while its top is at the heading's level or deeper, then the
// heading becomes either a new root (empty stack) or the last child of
// the new stack top. A skipped level is never synthesized; a level-3
// heading directly after a level-1 simply attaches to it. Each node is
// pushed and popped at most once, so the pass is O(n) amortized.
//
// Documents with fewer headings than the configured minimum yield an
// empty forest; a single-entry outline adds no value.
func (b *outlineBuilder) Build(headings []Heading) []*OutlineNode {
	if len(headings) < b.minHeadings {
		return nil
	}

	var forest []*OutlineNode
	var stack []*OutlineNode

	for _, h := range headings {
		node := &OutlineNode{Heading: h}

		for len(stack) > 0 && stack[len(stack)-1].Heading.Level >= h.Level {
			stack = stack[:len(stack)-1]
		}

		if len(stack) == 0 {
			forest = append(forest, node)
		} else if parent := stack[len(stack)-1]; parent.Heading.Level < h.Level {
			parent.Children = append(parent.Children, node)
		} else {
			// Unreachable given the pop condition above. If it ever
			// trips, re-root the heading instead of failing the pass.
			b.logger.Warn("outline invariant violated, re-rooting heading",
				"heading", h.Text,
				"level", h.Level,
				"parentLevel", parent.Heading.Level,
			)
			stack = stack[:0]
			forest = append(forest, node)
		}

		stack = append(stack, node)
	}

	return forest
}
