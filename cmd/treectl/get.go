package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/treekit/pkg/treefile"
	"github.com/joshuapare/treekit/tree/printer"
)

var getRaw bool

func init() {
	cmd := newGetCmd()
	cmd.Flags().BoolVar(&getRaw, "raw", false, "Print only the value text")
	rootCmd.AddCommand(cmd)
}

func newGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <file> <path> <name>",
		Short: "Get a value",
		Long: `The get command retrieves and displays one value of a node. The name
may address an array element as name(elem).

Example:
  treectl get config.tree network mtu
  treectl get config.tree network "addr(v4)" --raw`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(cmd, args)
		},
	}
	return cmd
}

func runGet(cmd *cobra.Command, args []string) error {
	treePath := args[0]
	nodePath := args[1]
	valueName := args[2]

	printVerbose("Loading tree: %s\n", treePath)
	c, err := treefile.Load(treePath, fileOptions(encodingFor(cmd, "")))
	if err != nil {
		return err
	}
	defer c.Close()

	id, err := treefile.Find(c, nodePath)
	if err != nil {
		return err
	}

	if getRaw && !jsonOut {
		v, err := c.Get(id, valueName)
		if err != nil {
			return fmt.Errorf("failed to get value: %w", err)
		}
		fmt.Fprintln(os.Stdout, v)
		return nil
	}

	opts := printer.DefaultOptions()
	opts.MaxValueBytes = 0
	opts.Color = useColor()
	if jsonOut {
		opts.Format = printer.FormatJSON
	}
	if err := printer.New(c, os.Stdout, opts).PrintValue(id, valueName); err != nil {
		return fmt.Errorf("failed to get value: %w", err)
	}
	return nil
}
