// Package cli implements evalctl, a local runner for the mock analysis pipeline.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the evalctl command tree writing to out.
func NewRootCmd(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "evalctl",
		Short: "Run the mock image analysis from the command line",
		Long: `Run the mock image analysis pipeline on local files.

Scores, categories and commentary are randomly generated. No image content is
inspected, only file names and sizes are carried into the records.`,
		Example: `  # Analyze two images and show only the warnings
  evalctl analyze fox.jpg den.png --status warning

  # Reproducible output
  evalctl analyze fox.jpg --seed 42

  # Dump the built-in narrative catalog, edit it, use it
  evalctl catalog > catalog.yaml
  evalctl analyze fox.jpg --catalog catalog.yaml`,
		SilenceUsage: true,
	}
	root.SetOut(out)
	root.AddCommand(newAnalyzeCmd(), newCatalogCmd())
	return root
}

// Execute runs evalctl and exits non-zero on error.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := NewRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
