package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/joshuapare/treekit/pkg/treefile"
)

func init() {
	rootCmd.AddCommand(newStatsCmd())
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <file>",
		Short: "Show tree statistics",
		Long: `The stats command shows node, value and tag counts and the depth and
widest fan-out of a tree file.

Example:
  treectl stats config.tree
  treectl stats config.tree --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(args)
		},
	}
	return cmd
}

func runStats(args []string) error {
	treePath := args[0]

	printVerbose("Loading tree: %s\n", treePath)
	stats, err := treefile.Stats(treePath)
	if err != nil {
		return err
	}
	if info, err := os.Stat(treePath); err == nil {
		stats["file_size"] = fmt.Sprint(info.Size())
	}

	if jsonOut {
		return printJSON(stats)
	}

	names := make([]string, 0, len(stats))
	for k := range stats {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		printInfo("%-12s %s\n", k+":", stats[k])
	}
	return nil
}
