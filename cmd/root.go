package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/wresch/gosr/internal/app"
	"github.com/wresch/gosr/internal/config"
	"github.com/wresch/gosr/internal/genome"
	"github.com/wresch/gosr/internal/logging"
	"github.com/wresch/gosr/internal/registry"

	// Tool packages register themselves via init().
	_ "github.com/wresch/gosr/internal/tools/bedsort"
	_ "github.com/wresch/gosr/internal/tools/binbam"
	_ "github.com/wresch/gosr/internal/tools/fastqcreport"
	_ "github.com/wresch/gosr/internal/tools/phred33"
	_ "github.com/wresch/gosr/internal/tools/scoretype"
	_ "github.com/wresch/gosr/internal/tools/tssd"
)

var quiet bool

var rootCmd = &cobra.Command{
	Use:   "gosr",
	Short: "Tools for NGS short read data processing",
	Long:  "gosr - a collection of tools for dealing with NGS short read data",
	// Logging is configured here so it happens after flag parsing (the
	// quiet flag has to be known) and before any tool handler runs.
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(quiet)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if isatty.IsTerminal(os.Stdout.Fd()) {
			p := tea.NewProgram(app.New(cmd.Version), tea.WithAltScreen())
			_, err := p.Run()
			return err
		}
		return cmd.Help()
	},
}

// SetVersion sets the version string shown by --version.
func SetVersion(v string) {
	rootCmd.Version = v
}

// attachTools adds every registered tool to root, in registry order, each
// built with its own logger handle.
func attachTools(root *cobra.Command) {
	for _, t := range registry.All() {
		root.AddCommand(t.Command(logging.Named(t.Name)))
	}
}

func Execute() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	for name, gc := range cfg.Genomes {
		g, err := genome.New(name, gc.Chromosomes, gc.Sizes)
		if err == nil {
			err = genome.Register(g)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", cfg.Quiet,
		"only log messages at info level and above")
	attachTools(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
