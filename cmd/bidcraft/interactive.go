package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/bidcraft/internal/tui"
)

var interactiveCmd = &cobra.Command{
	Use:     "interactive",
	Aliases: []string{"tui"},
	Short:   "Generate proposals in an interactive terminal UI",
	RunE:    runInteractive,
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}

func runInteractive(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Log output before the alt-screen starts corrupts the display.
	gen, err := setupGenerator(cfg, cfg.Generation.Seed, silentLogger())
	if err != nil {
		logger.Error("failed to load templates", "error", err)
		os.Exit(1)
	}

	return tui.Run(gen, tui.Defaults{
		Experience: cfg.Author.Experience,
		Name:       cfg.Author.Name,
		Variants:   cfg.Generation.Variants,
	})
}
