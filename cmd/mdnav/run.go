package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	mdnav "github.com/alnah/go-mdnav"
	"github.com/alnah/go-mdnav/internal/config"
	"github.com/alnah/go-mdnav/internal/preview"
)

// Sentinel errors for CLI operations.
var (
	ErrMissingInput     = errors.New("usage: mdnav [flags] <input.md>")
	ErrInvalidExtension = errors.New("file must have .md or .markdown extension")
	ErrReadMarkdown     = errors.New("failed to read markdown file")
	ErrWriteOutput      = errors.New("failed to write output file")
)

// run executes the CLI: convert a markdown file to navigable HTML, or
// serve it as a live preview.
func run(ctx context.Context, flags *cliFlags, args []string, stdout io.Writer) error {
	if flags.common.version {
		fmt.Fprintf(stdout, "mdnav %s\n", Version)
		return nil
	}

	if len(args) < 1 {
		return ErrMissingInput
	}
	inputPath := args[0]

	if err := validateMarkdownExtension(inputPath); err != nil {
		return err
	}

	cfg, err := loadConfig(flags.common.config)
	if err != nil {
		return err
	}

	logger := newLogger(flags.common.verbose)
	outlineOpts := mergeOutlineOptions(cfg, flags.outline)
	svc := mdnav.New(mdnav.WithOutline(outlineOpts), mdnav.WithLogger(logger))

	if addr := resolveAddr(flags.serve, cfg); addr != "" {
		return serve(ctx, svc, inputPath, addr, flags.serve.watch || cfg.Serve.Watch, cfg, logger)
	}

	content, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReadMarkdown, err)
	}

	result, err := svc.Render(ctx, mdnav.Input{Markdown: string(content)})
	if err != nil {
		return err
	}

	outputPath := flags.common.output
	if outputPath == "" {
		outputPath = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".html"
	}
	if err := os.WriteFile(outputPath, []byte(result.HTML), 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}

	fmt.Fprintf(stdout, "Created %s (%d headings)\n", outputPath, len(result.Headings))
	return nil
}

// serve runs the live preview server until the context is cancelled.
func serve(ctx context.Context, svc *mdnav.Service, inputPath, addr string, watch bool, cfg *config.Config, logger *slog.Logger) error {
	build := func(ctx context.Context) (*mdnav.Result, error) {
		content, err := os.ReadFile(inputPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrReadMarkdown, err)
		}
		return svc.Render(ctx, mdnav.Input{Markdown: string(content)})
	}

	var trackerOpts []mdnav.TrackerOption
	if cfg.Tracker.ThresholdRatio > 0 {
		trackerOpts = append(trackerOpts, mdnav.WithThresholdRatio(cfg.Tracker.ThresholdRatio))
	}
	trackerOpts = append(trackerOpts, mdnav.WithTrackerLogger(logger))
	tracker := mdnav.NewTracker(trackerOpts...)

	srv, err := preview.NewServer(ctx, build, tracker, cfg.Tracker.ScrollOffsetPx, logger)
	if err != nil {
		return err
	}

	if watch {
		go func() {
			if err := srv.Watch(ctx, inputPath); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("watcher stopped", "error", err)
			}
		}()
	}

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      srv,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 0, // SSE connections stay open
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("serving preview", "addr", addr, "file", inputPath, "watch", watch)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// loadConfig loads the config file when given, defaults otherwise.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// mergeOutlineOptions layers CLI flags over the config file.
func mergeOutlineOptions(cfg *config.Config, flags outlineFlags) *mdnav.OutlineOptions {
	opts := &mdnav.OutlineOptions{
		MaxDepth:    cfg.Outline.MaxDepth,
		MinHeadings: cfg.Outline.MinHeadings,
		Numbered:    cfg.Outline.Numbered,
		Title:       cfg.Outline.Title,
	}
	if flags.maxDepth != 0 {
		opts.MaxDepth = flags.maxDepth
	}
	if flags.minHeadings != 0 {
		opts.MinHeadings = flags.minHeadings
	}
	if flags.numbered {
		opts.Numbered = true
	}
	if flags.title != "" {
		opts.Title = flags.title
	}
	return opts
}

// resolveAddr picks the preview address: the flag wins, then the config
// when watch mode asks for a server.
func resolveAddr(flags serveFlags, cfg *config.Config) string {
	if flags.addr != "" {
		return flags.addr
	}
	if flags.watch {
		return cfg.Serve.Addr
	}
	return ""
}

// validateMarkdownExtension checks that the file has a .md or .markdown extension.
func validateMarkdownExtension(path string) error {
	ext := filepath.Ext(path)
	if ext != ".md" && ext != ".markdown" {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, ext)
	}
	return nil
}

// newLogger builds the CLI logger; verbose mode enables debug output.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
