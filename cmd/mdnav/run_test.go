package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-mdnav/internal/config"
)

func TestValidateMarkdownExtension(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{name: "md extension", path: "doc.md", wantErr: false},
		{name: "markdown extension", path: "doc.markdown", wantErr: false},
		{name: "txt extension", path: "doc.txt", wantErr: true},
		{name: "no extension", path: "doc", wantErr: true},
		{name: "html extension", path: "doc.html", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateMarkdownExtension(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateMarkdownExtension(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidExtension) {
				t.Errorf("error %v is not ErrInvalidExtension", err)
			}
		})
	}
}

func TestRun_ConvertsFile(t *testing.T) {
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "doc.md")
	content := "# Intro\n\ntext\n\n## Goals\n\nmore\n"
	if err := os.WriteFile(inputPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	flags, args, err := parseFlags([]string{inputPath})
	if err != nil {
		t.Fatal(err)
	}

	var stdout bytes.Buffer
	if err := run(context.Background(), flags, args, &stdout); err != nil {
		t.Fatal(err)
	}

	outputPath := filepath.Join(dir, "doc.html")
	data, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("output file not written: %v", err)
	}
	html := string(data)
	for _, want := range []string{`<h1 id="intro">`, `<nav class="mdnav-outline">`} {
		if !strings.Contains(html, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if !strings.Contains(stdout.String(), "doc.html (2 headings)") {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestRun_ExplicitOutput(t *testing.T) {
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "doc.md")
	outputPath := filepath.Join(dir, "custom.html")
	if err := os.WriteFile(inputPath, []byte("# A\n\n## B\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	flags, args, err := parseFlags([]string{"--output", outputPath, inputPath})
	if err != nil {
		t.Fatal(err)
	}

	var stdout bytes.Buffer
	if err := run(context.Background(), flags, args, &stdout); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(outputPath); err != nil {
		t.Errorf("explicit output not written: %v", err)
	}
}

func TestRun_MissingInput(t *testing.T) {
	flags, args, err := parseFlags(nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := run(context.Background(), flags, args, &bytes.Buffer{}); !errors.Is(err, ErrMissingInput) {
		t.Errorf("got %v, want ErrMissingInput", err)
	}
}

func TestRun_Version(t *testing.T) {
	flags, args, err := parseFlags([]string{"--version"})
	if err != nil {
		t.Fatal(err)
	}

	var stdout bytes.Buffer
	if err := run(context.Background(), flags, args, &stdout); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout.String(), "mdnav dev") {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestParseFlags(t *testing.T) {
	flags, args, err := parseFlags([]string{
		"--max-depth", "3",
		"--numbered",
		"--title", "Contents",
		"--serve", ":8080",
		"--watch",
		"-v",
		"input.md",
	})
	if err != nil {
		t.Fatal(err)
	}

	if flags.outline.maxDepth != 3 || !flags.outline.numbered || flags.outline.title != "Contents" {
		t.Errorf("outline flags = %+v", flags.outline)
	}
	if flags.serve.addr != ":8080" || !flags.serve.watch {
		t.Errorf("serve flags = %+v", flags.serve)
	}
	if !flags.common.verbose {
		t.Error("verbose not set")
	}
	if len(args) != 1 || args[0] != "input.md" {
		t.Errorf("positional args = %v", args)
	}
}

func TestMergeOutlineOptions(t *testing.T) {
	cfg := config.Default()
	cfg.Outline.MaxDepth = 2
	cfg.Outline.Title = "From Config"

	opts := mergeOutlineOptions(cfg, outlineFlags{maxDepth: 4, numbered: true})

	if opts.MaxDepth != 4 {
		t.Errorf("flag did not override config: maxDepth = %d", opts.MaxDepth)
	}
	if opts.Title != "From Config" {
		t.Errorf("config value lost: title = %q", opts.Title)
	}
	if !opts.Numbered {
		t.Error("numbered flag not applied")
	}
}

func TestResolveAddr(t *testing.T) {
	cfg := config.Default()

	if got := resolveAddr(serveFlags{addr: ":9000"}, cfg); got != ":9000" {
		t.Errorf("explicit addr = %q", got)
	}
	if got := resolveAddr(serveFlags{watch: true}, cfg); got != ":7717" {
		t.Errorf("watch fallback addr = %q", got)
	}
	if got := resolveAddr(serveFlags{}, cfg); got != "" {
		t.Errorf("no-serve addr = %q, want empty", got)
	}
}
