package mdnav

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptyMarkdown  = errors.New("markdown content cannot be empty")
	ErrHTMLConversion = errors.New("HTML conversion failed")
	ErrHTMLParse      = errors.New("HTML parsing failed")
	ErrHTMLRender     = errors.New("HTML rendering failed")

	// Outline option validation errors.
	ErrInvalidMaxDepth    = errors.New("invalid outline depth")
	ErrInvalidMinHeadings = errors.New("invalid minimum heading count")
)
