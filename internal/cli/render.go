package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flexkit/flexer/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string // output file path (or base path for multiple formats)
	noCache bool   // disable the result cache
}

// renderCommand creates the render command for generating layout artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		flags      renderOpts
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [manifest.toml]",
		Short: "Render a manifest's layout to SVG, JSON, DOT, or PNG",
		Long: `Render a manifest's layout to one or more artifact formats.

Formats:
  svg   rectangles drawn to scale (--labels adds element names)
  json  the full identifier-to-rectangle mapping
  dot   the element tree as a Graphviz digraph
  png   the element tree rasterized via Graphviz

Layout results and artifacts are cached locally; use --refresh to bypass.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.ManifestPath = args[0]
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), opts, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json, dot, png (comma-separated)")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Labels, "labels", false, "draw element names into the SVG")
	cmd.Flags().IntVar(&opts.Scale, "scale", 1, "SVG coordinate multiplier")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "include rects and attributes in DOT labels")
	cmd.Flags().IntVar(&opts.Width, "width", 0, "override the frame width")
	cmd.Flags().IntVar(&opts.Height, "height", 0, "override the frame height")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even if cached")

	return cmd
}

// runRender executes the full pipeline and writes each artifact to disk.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, flags renderOpts) error {
	logger := loggerFromContext(ctx)
	runner, err := c.newRunner(flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = logger

	prog := newProgress(logger)
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d format(s)", len(result.Artifacts)))

	if ctx.Err() != nil {
		return ctx.Err()
	}

	base := basePath(flags.output, opts.ManifestPath)
	for _, format := range opts.Formats {
		path := flags.output
		if path == "" || len(opts.Formats) > 1 {
			path = base + "." + format
		}
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}

	printSuccess("Render complete")
	printStats(result)
	return nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input. If output carries a
// known format extension, that extension is stripped so per-format suffixes
// can be appended.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
