package main

import (
	"github.com/spf13/cobra"

	"github.com/joshuapare/treekit/pkg/treefile"
	"github.com/joshuapare/treekit/tree/dump"
)

var (
	mergeOverwrite bool
	mergeNoTags    bool
	mergeEncoding  string
	mergeDryRun    bool
)

func init() {
	cmd := newMergeCmd()
	cmd.Flags().BoolVar(&mergeOverwrite, "overwrite", false, "Write into existing same-label nodes instead of adding siblings")
	cmd.Flags().BoolVar(&mergeNoTags, "no-tags", false, "Ignore tags in the merged dump")
	cmd.Flags().StringVar(&mergeEncoding, "encoding", "", "Encoding of the merged dump")
	cmd.Flags().BoolVar(&mergeDryRun, "dry-run", false, "Apply in memory only")
	rootCmd.AddCommand(cmd)
}

func newMergeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge <file> <dump> [path]",
		Short: "Restore a dump into a tree file",
		Long: `The merge command restores the records of a dump under the node at
path (the root by default) and saves the file. Records that fail to parse
stop the merge; nothing is saved in that case.

Example:
  treectl merge config.tree patch.tree
  treectl merge config.tree patch.tree network --overwrite`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMerge(cmd, args)
		},
	}
	return cmd
}

func runMerge(cmd *cobra.Command, args []string) error {
	treePath, dumpPath := args[0], args[1]
	var nodePath string
	if len(args) > 2 {
		nodePath = args[2]
	}

	// --encoding names the dump's encoding, not the tree file's.
	opts := fileOptions(encodingFor(nil, ""))
	c, err := treefile.Load(treePath, opts)
	if err != nil {
		return err
	}
	defer c.Close()

	top, err := treefile.Find(c, nodePath)
	if err != nil {
		return err
	}

	printVerbose("Restoring %s under %q\n", dumpPath, nodePath)
	stats, err := dump.RestoreFromFile(c, top, dumpPath, dump.RestoreOptions{
		Overwrite: overwriteFor(cmd, mergeOverwrite),
		NoTags:    mergeNoTags,
		Encoding:  mergeEncoding,
	})
	if err != nil {
		return err
	}

	if jsonOut {
		if err := printJSON(stats); err != nil {
			return err
		}
	} else {
		printInfo("Merged %d records (%d created, %d reused, %d renumbered)\n",
			stats.Records, stats.Created, stats.Reused, stats.Remapped)
	}
	if mergeDryRun {
		return nil
	}
	return treefile.Save(c, treePath, opts)
}
