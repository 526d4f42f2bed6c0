package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/flexkit/flexer/pkg/pipeline"
)

// layoutCommand creates the layout command for computing element rectangles.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout [manifest.toml]",
		Short: "Compute element rectangles from a manifest",
		Long: `Compute element rectangles from a manifest.

The layout command loads a TOML manifest, builds the element tree, and
computes an integer-pixel rectangle for every element. The result is printed
as a table; with --output it is also written as a JSON document (same format
as 'render -f json').

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.ManifestPath = args[0]
			return c.runLayout(cmd.Context(), opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the layout as JSON to this path")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().IntVar(&opts.Width, "width", 0, "override the frame width")
	cmd.Flags().IntVar(&opts.Height, "height", 0, "override the frame height")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even if cached")

	return cmd
}

// runLayout executes the load and layout stages and presents the result.
func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	logger := loggerFromContext(ctx)
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = logger
	opts.Formats = []string{pipeline.FormatJSON}

	prog := newProgress(logger)
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Laid out %d elements", result.Stats.ElementCount))

	if ctx.Err() != nil {
		return ctx.Err()
	}

	fmt.Println(rectTable(result))
	printStats(result)

	if output != "" {
		if err := os.WriteFile(output, result.Artifacts[pipeline.FormatJSON], 0o644); err != nil {
			return fmt.Errorf("write output %s: %w", output, err)
		}
		printFile(output)
	}

	printNextStep("Render", fmt.Sprintf("%s render %s -f svg", appName, opts.ManifestPath))
	return nil
}
