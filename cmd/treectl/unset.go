package main

import (
	"github.com/spf13/cobra"

	"github.com/joshuapare/treekit/pkg/treefile"
)

var (
	unsetNode   bool
	unsetDryRun bool
)

func init() {
	cmd := newUnsetCmd()
	cmd.Flags().BoolVar(&unsetNode, "node", false, "Delete the node at path and its subtree instead of a value")
	cmd.Flags().BoolVar(&unsetDryRun, "dry-run", false, "Apply in memory only")
	rootCmd.AddCommand(cmd)
}

func newUnsetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unset <file> <path> [name]",
		Short: "Remove a value or a node",
		Long: `The unset command removes one value of a node, or with --node the
node itself together with its subtree.

Example:
  treectl unset config.tree network mtu
  treectl unset config.tree network/eth1 --node`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUnset(cmd, args)
		},
	}
	return cmd
}

func runUnset(cmd *cobra.Command, args []string) error {
	treePath, nodePath := args[0], args[1]

	opts := fileOptions(encodingFor(cmd, ""))
	opts.DryRun = unsetDryRun

	if unsetNode {
		if err := treefile.DeleteNode(treePath, nodePath, opts); err != nil {
			return err
		}
		printInfo("Deleted %s\n", nodePath)
		return nil
	}
	if len(args) < 3 {
		return checkArgs(args, 3, "treectl unset <file> <path> <name>")
	}
	if err := treefile.UnsetValue(treePath, nodePath, args[2], opts); err != nil {
		return err
	}
	printInfo("Unset %s\n", args[2])
	return nil
}
