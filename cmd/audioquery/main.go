// Package main provides the audioquery CLI.
//
// Usage:
//
//	audioquery run --batch 2 --query-num 8
//	audioquery bench --iterations 100 --metrics-addr :9090
//	audioquery version
package main

import (
	"fmt"
	"os"

	"github.com/born-ml/audioquery/internal/config"
	"github.com/born-ml/audioquery/internal/logger"
	"github.com/spf13/cobra"
)

const version = "v0.1.0-dev"

// options are shared by the run and bench commands.
type options struct {
	cfg       config.Config
	batch     int
	backend   string
	logLevel  string
	logFormat string
}

func main() {
	if err := NewCLI().Execute(); err != nil {
		logger.Log.Error("command failed", "err", err)
		os.Exit(1)
	}
}

// NewCLI builds the root command.
func NewCLI() *cobra.Command {
	opts := &options{cfg: config.Default()}

	rootCmd := &cobra.Command{
		Use:   "audioquery",
		Short: "Audio-conditioned query generator",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SilenceUsage = true
			logger.Setup(opts.logLevel, opts.logFormat)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flags.StringVar(&opts.logFormat, "log-format", "console", "Log format (console, json)")

	cobra.EnableCommandSorting = false

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "audioquery %s\n", version)
		},
	}

	rootCmd.AddCommand(newRunCmd(opts), newBenchCmd(opts), versionCmd)
	return rootCmd
}

// addModelFlags registers the generator and input flags on cmd.
func addModelFlags(cmd *cobra.Command, opts *options) {
	flags := cmd.Flags()
	flags.IntVar(&opts.cfg.QueryNum, "query-num", opts.cfg.QueryNum, "Number of query tokens to generate")
	flags.IntVar(&opts.cfg.EmbedDim, "embed-dim", opts.cfg.EmbedDim, "Embedding dimension")
	flags.IntVar(&opts.cfg.NumHeads, "num-heads", opts.cfg.NumHeads, "Attention heads")
	flags.IntVar(&opts.cfg.NumLayers, "num-layers", opts.cfg.NumLayers, "Recorded layer count")
	flags.IntVar(&opts.cfg.HiddenDim, "hidden-dim", opts.cfg.HiddenDim, "Recorded feed-forward width")
	flags.Uint64Var(&opts.cfg.Seed, "seed", opts.cfg.Seed, "Seed for weights and synthetic audio")
	flags.IntVar(&opts.batch, "batch", 2, "Batch size of the synthetic audio input")
	flags.StringVar(&opts.backend, "backend", "cpu", "Compute backend (cpu, webgpu)")
}
