package main

import (
	"github.com/spf13/cobra"

	"github.com/joshuapare/treekit/pkg/treefile"
	"github.com/joshuapare/treekit/pkg/types"
)

var validateStrict bool

func init() {
	cmd := newValidateCmd()
	cmd.Flags().BoolVar(&validateStrict, "strict", false, "Enforce strict node, depth and value limits")
	rootCmd.AddCommand(cmd)
}

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Check that a tree file loads and is consistent",
		Long: `The validate command loads a tree file and runs the structural
invariant checks: parent/child links, depths, child and value indexes, and
tag tables.

Example:
  treectl validate config.tree
  treectl validate config.tree --strict`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(args)
		},
	}
	return cmd
}

type validateResult struct {
	File  string `json:"file"`
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

func runValidate(args []string) error {
	treePath := args[0]

	limits, err := cfg.limits()
	if err != nil {
		return err
	}
	if validateStrict {
		limits = types.StrictLimits()
	}

	printVerbose("Validating %s\n", treePath)
	verr := treefile.Validate(treePath, limits)

	if jsonOut {
		res := validateResult{File: treePath, Valid: verr == nil}
		if verr != nil {
			res.Error = verr.Error()
		}
		if err := printJSON(res); err != nil {
			return err
		}
		return verr
	}
	if verr != nil {
		return verr
	}
	printInfo("%s: OK\n", treePath)
	return nil
}
