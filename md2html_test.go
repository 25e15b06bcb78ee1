package mdnav

import (
	"context"
	"strings"
	"testing"
)

func TestGoldmarkConverter_ToHTML(t *testing.T) {
	tests := []struct {
		name     string
		markdown string
		contains []string
	}{
		{
			name:     "heading and paragraph",
			markdown: "# Title\n\nSome text.",
			contains: []string{"<h1>Title</h1>", "<p>Some text.</p>"},
		},
		{
			name:     "produces complete document",
			markdown: "content",
			contains: []string{"<!DOCTYPE html>", "<body>", "</html>"},
		},
		{
			name:     "gfm table",
			markdown: "| a | b |\n|---|---|\n| 1 | 2 |",
			contains: []string{"<table>", "<td>1</td>"},
		},
		{
			name:     "heading with link",
			markdown: "## See [docs](https://example.com)",
			contains: []string{"<h2>See <a href=\"https://example.com\">docs</a></h2>"},
		},
	}

	conv := newGoldmarkConverter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := conv.ToHTML(context.Background(), tt.markdown)
			if err != nil {
				t.Fatal(err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("output missing %q\nfull output: %s", want, got)
				}
			}
		})
	}
}

func TestGoldmarkConverter_ContextCancellation(t *testing.T) {
	conv := newGoldmarkConverter()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := conv.ToHTML(ctx, "# Title")
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
}

func TestPreprocessMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "normalizes CRLF",
			input:    "# A\r\n\r\ntext\r\n",
			expected: "# A\n\ntext\n",
		},
		{
			name:     "normalizes bare CR",
			input:    "a\rb",
			expected: "a\nb",
		},
		{
			name:     "compresses blank line runs",
			input:    "a\n\n\n\n\nb",
			expected: "a\n\nb",
		},
		{
			name:     "plain content unchanged",
			input:    "# A\n\ntext",
			expected: "# A\n\ntext",
		},
	}

	p := &commonMarkPreprocessor{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.PreprocessMarkdown(context.Background(), tt.input)
			if got != tt.expected {
				t.Errorf("PreprocessMarkdown(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
