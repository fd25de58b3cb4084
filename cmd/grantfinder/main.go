// Package main is the grantfinder command line: run a search from the
// terminal, export it to PDF, or serve the web page.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"grant_finder/pkg/core/config"
	"grant_finder/pkg/core/logging"
)

// version is set at build time via ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "grantfinder",
	Short: "Find open humanitarian funding opportunities for Yemen",
	Long: `grantfinder asks a search-grounded generative model for current, open
funding calls relevant to Yemen and renders the answer as a sectioned report.

Use "search" for a one-off report in the terminal or as a PDF, and "serve" for
the interactive web page.`,
	SilenceUsage: true,
	Version:      version,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: "+config.DefaultPath+")")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug logging")
}

// setup loads configuration and builds the logger for a subcommand.
func setup(cmd *cobra.Command) (config.Config, *zap.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, nil, err
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.LogLevel = "debug"
	}
	logger, err := logging.New(cfg.LogLevel, true)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
