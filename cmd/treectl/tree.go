package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/treekit/pkg/treefile"
	"github.com/joshuapare/treekit/tree/printer"
)

var (
	treeDepth  int
	treeValues bool
	treeIDs    bool
	treeMeta   bool
)

func init() {
	cmd := newTreeCmd()
	cmd.Flags().IntVar(&treeDepth, "depth", 0, "Maximum depth (0 = unlimited)")
	cmd.Flags().BoolVar(&treeValues, "values", false, "Show values too")
	cmd.Flags().BoolVar(&treeIDs, "ids", false, "Show node ids")
	cmd.Flags().BoolVar(&treeMeta, "meta", false, "Show child and value counts")
	rootCmd.AddCommand(cmd)
}

func newTreeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree <file> [path]",
		Short: "Display tree structure",
		Long: `The tree command displays a hierarchical view of the nodes of a tree file.

Example:
  treectl tree config.tree
  treectl tree config.tree network --depth 2
  treectl tree config.tree --values --ids`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTree(cmd, args)
		},
	}
	return cmd
}

func runTree(cmd *cobra.Command, args []string) error {
	treePath := args[0]
	var nodePath string
	if len(args) > 1 {
		nodePath = args[1]
	}

	printVerbose("Loading tree: %s\n", treePath)
	c, err := treefile.Load(treePath, fileOptions(encodingFor(cmd, "")))
	if err != nil {
		return err
	}
	defer c.Close()

	top, err := treefile.Find(c, nodePath)
	if err != nil {
		return err
	}

	opts := printer.DefaultOptions()
	opts.MaxDepth = depthFor(cmd, treeDepth)
	opts.ShowValues = treeValues
	opts.ShowIDs = treeIDs
	opts.PrintMetadata = treeMeta
	opts.Color = useColor()
	if jsonOut {
		opts.Format = printer.FormatJSON
	}
	return printer.New(c, os.Stdout, opts).PrintTree(top)
}
