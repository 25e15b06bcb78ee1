package main

import (
	"fmt"

	flag "github.com/spf13/pflag"
)

// cliFlags holds all parsed command-line flags.
type cliFlags struct {
	common  commonFlags
	outline outlineFlags
	serve   serveFlags
}

// commonFlags holds flags shared across modes.
type commonFlags struct {
	config  string
	output  string
	verbose bool
	version bool
}

// outlineFlags holds outline building and rendering flags.
type outlineFlags struct {
	maxDepth    int
	minHeadings int
	numbered    bool
	title       string
}

// serveFlags holds preview server flags.
type serveFlags struct {
	addr  string
	watch bool
}

// parseFlags parses args (excluding the program name) and returns the
// flags plus positional arguments.
func parseFlags(args []string) (*cliFlags, []string, error) {
	f := &cliFlags{}

	fs := flag.NewFlagSet("mdnav", flag.ContinueOnError)
	fs.SortFlags = false

	fs.StringVarP(&f.common.config, "config", "c", "", "path to YAML config file")
	fs.StringVarP(&f.common.output, "output", "o", "", "output HTML file (default: input with .html extension)")
	fs.BoolVarP(&f.common.verbose, "verbose", "v", false, "verbose output")
	fs.BoolVar(&f.common.version, "version", false, "print version and exit")

	fs.IntVar(&f.outline.maxDepth, "max-depth", 0, "deepest heading level in the outline (1-6, 0 = all)")
	fs.IntVar(&f.outline.minHeadings, "min-headings", 0, "suppress the outline below this heading count (0 = default 2)")
	fs.BoolVar(&f.outline.numbered, "numbered", false, "number outline entries by sibling position")
	fs.StringVar(&f.outline.title, "title", "", "outline caption")

	fs.StringVar(&f.serve.addr, "serve", "", `serve a live preview on this address (e.g. ":7717")`)
	fs.BoolVar(&f.serve.watch, "watch", false, "rebuild when the source file changes (requires --serve)")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: mdnav [flags] <input.md>\n\nFlags:\n%s", fs.FlagUsages())
	}

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
