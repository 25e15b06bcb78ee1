package mdnav

import (
	"strconv"
	"strings"
	"unicode"
)

// Slug length bounds.
const (
	// MaxSlugLength truncates candidates to keep fragment ids readable.
	MaxSlugLength = 50

	// minSlugLength is the shortest useful candidate; anything under it
	// falls back to a positional placeholder.
	minSlugLength = 2
)

// SlugAssigner converts heading text into unique, URL-safe anchor ids.
// The seen-set is scoped to one assigner instance, so multiple documents
// can be processed concurrently without cross-contamination. Assigners
// are not safe for concurrent use by multiple goroutines.
type SlugAssigner struct {
	seen map[string]struct{}
}

// NewSlugAssigner creates an assigner with an empty seen-set.
func NewSlugAssigner() *SlugAssigner {
	return &SlugAssigner{seen: make(map[string]struct{})}
}

// AssignIDs slugs a heading list in one pass using a fresh assigner and
// returns a new slice; the input is not mutated. Output ids are unique
// within the pass, and re-running on the same input yields the same ids.
func AssignIDs(headings []Heading) []Heading {
	a := NewSlugAssigner()
	out := make([]Heading, len(headings))
	for i, h := range headings {
		h.ID = a.Assign(h.Text, h.SourceIndex)
		out[i] = h
	}
	return out
}

// Assign derives a unique id for one heading. The candidate is the
// normalized heading text; when that is empty or shorter than two
// characters, the positional placeholder "heading-<sourceIndex>" is used
// instead. Collisions get an incrementing "-1", "-2", ... suffix.
func (a *SlugAssigner) Assign(text string, sourceIndex int) string {
	candidate := Slugify(text)
	if len([]rune(candidate)) < minSlugLength {
		candidate = "heading-" + strconv.Itoa(sourceIndex)
	}

	id := candidate
	for n := 1; ; n++ {
		if _, taken := a.seen[id]; !taken {
			break
		}
		id = candidate + "-" + strconv.Itoa(n)
	}
	a.seen[id] = struct{}{}
	return id
}

// Slugify normalizes heading text into a URL-fragment-safe candidate:
// ASCII letters are lowercased (case-folding is undefined for non-Latin
// scripts, which pass through unchanged), characters outside
// letters/digits/whitespace/hyphen are stripped, runs of whitespace and
// hyphens collapse to a single hyphen, leading/trailing hyphens are
// trimmed, and the result is truncated to MaxSlugLength runes.
func Slugify(text string) string {
	var b strings.Builder
	lastDash := true // suppress a leading dash
	for _, r := range text {
		switch {
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
			lastDash = false
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			// Non-ASCII letters and digits pass through unchanged.
			b.WriteRune(r)
			lastDash = false
		case unicode.IsSpace(r) || r == '-':
			if !lastDash {
				b.WriteRune('-')
				lastDash = true
			}
		}
		// Everything else is stripped.
	}

	slug := strings.TrimRight(b.String(), "-")
	if runes := []rune(slug); len(runes) > MaxSlugLength {
		slug = strings.TrimRight(string(runes[:MaxSlugLength]), "-")
	}
	return slug
}
