package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amishk599/bidcraft/internal/model"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List job categories and their templates",
	Long:  "Prints a table of every job category with its trigger phrase count and tool stack.",
	RunE:  runCategories,
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}

func runCategories(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	store, err := loadTemplates(cfg.Generation.Templates)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load templates: %v\n", err)
		os.Exit(1)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-20s %-9s %-8s %s\n", "Category", "Triggers", "Openers", "Tool stack")
	fmt.Fprintln(out, strings.Repeat("─", 72))

	for _, c := range model.Categories() {
		set := store.Sets[c]
		name := c.Title()
		if c == model.DefaultCategory {
			name += " *"
		}
		fmt.Fprintf(out, "%-20s %-9d %-8d %s\n", name, len(set.Keywords), len(set.Openers), set.ToolStack)
	}

	fmt.Fprintf(out, "\n%d experience lines, %d closings. * = fallback when nothing matches.\n",
		len(store.Experience), len(store.Closings))
	return nil
}
