package main

import (
	"github.com/spf13/cobra"

	"github.com/joshuapare/treekit/pkg/treefile"
)

var (
	setCreate bool
	setBackup bool
	setDryRun bool
)

func init() {
	cmd := newSetCmd()
	cmd.Flags().BoolVar(&setCreate, "create", false, "Create missing nodes along the path")
	cmd.Flags().BoolVar(&setBackup, "backup", false, "Keep a copy of the file as <file>.bak")
	cmd.Flags().BoolVar(&setDryRun, "dry-run", false, "Apply in memory only")
	rootCmd.AddCommand(cmd)
}

func newSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <file> <path> <name> <value>",
		Short: "Set a value",
		Long: `The set command stores a value on a node and saves the file.

Example:
  treectl set config.tree network mtu 9000
  treectl set config.tree network/eth1 addr 10.0.0.2 --create
  treectl set config.tree network "addr(v6)" ::1 --backup`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSet(cmd, args)
		},
	}
	return cmd
}

func runSet(cmd *cobra.Command, args []string) error {
	treePath, nodePath, name, value := args[0], args[1], args[2], args[3]

	opts := fileOptions(encodingFor(cmd, ""))
	opts.CreateNodes = setCreate
	opts.CreateBackup = setBackup
	opts.DryRun = setDryRun

	printVerbose("Setting %s on %q in %s\n", name, nodePath, treePath)
	if err := treefile.SetValue(treePath, nodePath, name, value, opts); err != nil {
		return err
	}
	if setDryRun {
		printInfo("Dry run: %s not modified\n", treePath)
		return nil
	}
	printInfo("Set %s\n", name)
	return nil
}
