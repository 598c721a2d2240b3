package cmd

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/zjrosen/twinscroll/internal/config"
	"github.com/zjrosen/twinscroll/internal/document"
	"github.com/zjrosen/twinscroll/internal/syncscroll"
)

var mappingsWidth int

var mappingsCmd = &cobra.Command{
	Use:   "mappings FILE",
	Short: "Print the block mappings computed for a markdown file",
	Long: `Lay out FILE the way the preview pane would and print one row per block:
its source line range, its rendered pixel range, and its kind.

Examples:
  # Mappings at the default width
  twinscroll mappings README.md

  # Narrow preview, as in a small terminal
  twinscroll mappings README.md --width 40

  # Different glamour style
  twinscroll mappings README.md --style ascii`,
	Args: cobra.ExactArgs(1),
	RunE: runMappings,
}

func init() {
	mappingsCmd.Flags().IntVarP(&mappingsWidth, "width", "w", 80, "rendered pane width in columns")
	mappingsCmd.Flags().StringP("style", "s", "", "glamour style for the rendered pane")
	rootCmd.AddCommand(mappingsCmd)
}

func runMappings(cmd *cobra.Command, args []string) error {
	resolved, err := prepareConfig(cmd)
	if err != nil {
		return err
	}

	cleanup, err := initLogging("twinscroll-mappings")
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return printMappings(ctx, cmd.OutOrStdout(), resolved, args[0], mappingsWidth)
}

// printMappings lays out the document at path and writes its mappings as a table.
func printMappings(ctx context.Context, out io.Writer, c config.Config, path string, width int) error {
	if width <= 0 {
		return fmt.Errorf("width must be positive, got %d", width)
	}

	d, err := document.Open(path, syncscroll.WithConfig(c.SyncScroll.Engine()))
	if err != nil {
		return err
	}

	layouter, _ := newLayouter(c)
	layout, err := layouter.Layout(ctx, d.Source, width)
	if err != nil {
		return fmt.Errorf("laying out %s: %w", d.Name(), err)
	}
	d.ApplyLayout(layout)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "#\tLINES\tPIXELS\tROWS\tTYPE")
	for i, m := range d.Sync.Mappings() {
		_, _ = fmt.Fprintf(w, "%d\t%d-%d\t%.0f-%.0f\t%d-%d\t%s\n",
			i+1,
			m.StartLine, m.EndLine,
			m.StartY, m.EndY,
			layout.RowOf(m.StartY), layout.RowOf(m.EndY),
			m.Type,
		)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("writing mappings: %w", err)
	}

	_, err = fmt.Fprintf(out, "\n%s: %d lines, %d blocks, %.0fpx rendered (%d rows at width %d, style %s)\n",
		d.Name(), d.Sync.SourceLineCount(), len(d.Sync.Mappings()),
		d.Sync.RenderedTotalHeight(), len(layout.Lines), layout.Width, layouter.Style())
	return err
}
