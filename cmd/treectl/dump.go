package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/treekit/pkg/treefile"
	"github.com/joshuapare/treekit/tree/dump"
)

var (
	dumpOutput   string
	dumpEncoding string
	dumpNoTags   bool
)

func init() {
	cmd := newDumpCmd()
	cmd.Flags().StringVarP(&dumpOutput, "output", "o", "", "Write the dump to a file instead of stdout")
	cmd.Flags().StringVar(&dumpEncoding, "encoding", "", "Encoding of the --output file (UTF-8, UTF-16LE, WINDOWS-1252)")
	cmd.Flags().BoolVar(&dumpNoTags, "no-tags", false, "Omit tags")
	rootCmd.AddCommand(cmd)
}

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump <file> [path]",
		Short: "Print the dump records of a tree or subtree",
		Long: `The dump command loads a tree file and prints its records in
canonical form (pre-order, values sorted by name). With a path, only that
subtree is dumped and it becomes the dump root.

Example:
  treectl dump config.tree
  treectl dump config.tree network/eth0
  treectl dump config.tree -o wide.tree --encoding UTF-16LE`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(cmd, args)
		},
	}
	return cmd
}

func runDump(cmd *cobra.Command, args []string) error {
	treePath := args[0]
	var nodePath string
	if len(args) > 1 {
		nodePath = args[1]
	}
	encoding := encodingFor(cmd, dumpEncoding)

	printVerbose("Loading tree: %s\n", treePath)
	c, err := treefile.Load(treePath, fileOptions(encodingFor(nil, "")))
	if err != nil {
		return err
	}
	defer c.Close()

	top, err := treefile.Find(c, nodePath)
	if err != nil {
		return err
	}
	opts := dump.DumpOptions{NoTags: dumpNoTags, Encoding: encoding}

	if dumpOutput != "" {
		if err := dump.DumpToFile(c, top, dumpOutput, opts); err != nil {
			return fmt.Errorf("failed to write dump: %w", err)
		}
		printInfo("Wrote %s\n", dumpOutput)
		return nil
	}
	return dump.Write(os.Stdout, c, top, opts)
}
