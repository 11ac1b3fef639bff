// Command valence-map renders a choropleth of chart positivity per country
// with a playable preview of each country's most representative track.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

func main() {
	color.NoColor = !isatty.IsTerminal(os.Stdout.Fd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// flags holds command-line overrides. Only flags set explicitly replace
// values from the config file or environment.
type flags struct {
	configPath string
	input      string
	output     string
	topN       int
	provider   string
	logLevel   string
	addr       string
}

func newRootCmd() *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:   "valence-map",
		Short: "Map the average valence of each country's top chart tracks",
		Long: `valence-map reads a daily per-country chart CSV, averages the valence of each
country's latest top-50 tracks, finds a playable preview for the track closest
to that average, and writes an interactive choropleth HTML page.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, f)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "config file (default valence-map.yaml if present)")
	pf.StringVar(&f.output, "output", "", "output HTML document")
	pf.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")

	rf := root.Flags()
	rf.StringVar(&f.input, "input", "", "chart CSV file")
	rf.IntVar(&f.topN, "top", 0, "rank cutoff per country")
	rf.StringVar(&f.provider, "provider", "", "preview provider: itunes or spotify")

	root.AddCommand(newServeCmd(f))
	return root
}
