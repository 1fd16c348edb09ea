// Package main provides the CLI entry point for xlcull.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/javajack/xlcull/internal/config"
)

func main() {
	config.SetupEnvironment()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCommand(cfg).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCommand(cfg *config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:   "xlcull",
		Short: "Copy spreadsheets and cull rows that fail column conditions",
		Long: `xlcull copies an .xlsx workbook, deletes the rows that do not satisfy
a set of per-column conditions, and optionally adds generated formulas
to the rows that remain. The source workbook is never modified.`,
		SilenceUsage: true,
	}

	root.AddCommand(newRunCommand(cfg))
	root.AddCommand(newCullCommand(cfg))
	root.AddCommand(newHeadersCommand())
	root.AddCommand(newValidateCommand())

	return root
}
