package mdnav

import (
	"context"
	"fmt"
	"log/slog"
)

// Service orchestrates the markdown-to-navigable-document pipeline.
type Service struct {
	cfg          serviceConfig
	preprocessor markdownPreprocessor
	converter    htmlConverter
	injector     outlineInjector
	logger       *slog.Logger
}

// serviceConfig holds internal configuration for Service.
type serviceConfig struct {
	outline *OutlineOptions
}

// New creates a Service with default configuration.
// Use options to customize behavior (e.g., WithOutline, WithLogger).
func New(opts ...Option) *Service {
	s := &Service{
		preprocessor: &commonMarkPreprocessor{},
		converter:    newGoldmarkConverter(),
		injector:     &outlineInjection{},
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s
}

// Render runs the full pipeline: markdown to HTML, heading extraction,
// slug assignment, hierarchy building, outline rendering and injection.
// The context is used for cancellation. The result is built wholesale;
// previous results are never mutated.
func (s *Service) Render(ctx context.Context, input Input) (*Result, error) {
	if input.Markdown == "" {
		return nil, ErrEmptyMarkdown
	}

	outlineOpts := input.Outline
	if outlineOpts == nil {
		outlineOpts = s.cfg.outline
	}
	if err := outlineOpts.Validate(); err != nil {
		return nil, err
	}

	// Preprocess markdown
	mdContent := s.preprocessor.PreprocessMarkdown(ctx, input.Markdown)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	// Convert to HTML
	htmlContent, err := s.converter.ToHTML(ctx, mdContent)
	if err != nil {
		return nil, fmt.Errorf("converting to HTML: %w", err)
	}

	// Extract headings and assign anchor ids
	headings := AssignIDs(ParseHTMLSource(htmlContent).Headings())

	// Build the outline forest
	builder := &outlineBuilder{minHeadings: outlineOpts.minHeadings(), logger: s.logger}
	forest := builder.Build(headings)

	// Render and inject the outline
	outlineHTML := RenderOutline(forest, outlineOpts)
	htmlContent, err = s.injector.InjectOutline(htmlContent, headings, outlineHTML)
	if err != nil {
		return nil, fmt.Errorf("injecting outline: %w", err)
	}

	return &Result{
		HTML:     htmlContent,
		Outline:  outlineHTML,
		Headings: headings,
		Forest:   forest,
	}, nil
}
