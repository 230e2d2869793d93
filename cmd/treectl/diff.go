package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/joshuapare/treekit/pkg/treefile"
)

var (
	diffFormat    string
	diffUnchanged bool
)

func init() {
	cmd := newDiffCmd()
	cmd.Flags().StringVar(&diffFormat, "format", "text", "Output format (text, unified)")
	cmd.Flags().BoolVar(&diffUnchanged, "all", false, "Include unchanged nodes")
	rootCmd.AddCommand(cmd)
}

func newDiffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff <old> <new>",
		Short: "Compare two tree files and show differences",
		Long: `The diff command compares two tree files node by node and shows
added, removed and modified nodes with their value and tag changes.
--format unified prints a line diff of the canonical dumps instead.

Example:
  treectl diff before.tree after.tree
  treectl diff before.tree after.tree --format unified
  treectl diff before.tree after.tree --json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(args)
		},
	}
	return cmd
}

type diffPalette struct {
	add, del, mod *color.Color
}

func newDiffPalette() diffPalette {
	p := diffPalette{
		add: color.New(color.FgGreen),
		del: color.New(color.FgRed),
		mod: color.New(color.FgYellow),
	}
	for _, c := range []*color.Color{p.add, p.del, p.mod} {
		if useColor() {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func runDiff(args []string) error {
	oldPath, newPath := args[0], args[1]
	printVerbose("Comparing %s and %s...\n", oldPath, newPath)

	if diffFormat == "unified" && !jsonOut {
		return printUnified(oldPath, newPath)
	}
	if diffFormat != "text" && diffFormat != "unified" {
		return fmt.Errorf("unknown diff format %q", diffFormat)
	}

	d, err := treefile.DiffFiles(oldPath, newPath)
	if err != nil {
		return err
	}
	nodes := d.Changed()
	if diffUnchanged {
		nodes = make([]treefile.NodeDiff, 0, len(d.Nodes))
		for _, nd := range d.Nodes {
			nodes = append(nodes, nd)
		}
		sort.Slice(nodes, func(i, j int) bool { return nodes[i].Path < nodes[j].Path })
	}

	if jsonOut {
		return printJSON(nodes)
	}

	pal := newDiffPalette()
	for _, nd := range nodes {
		path := nd.Path
		if path == "" {
			path = "(root)"
		}
		switch nd.Status {
		case treefile.DiffAdded:
			printInfo("%s\n", pal.add.Sprint("+ "+path))
		case treefile.DiffRemoved:
			printInfo("%s\n", pal.del.Sprint("- "+path))
		case treefile.DiffModified:
			printInfo("%s\n", pal.mod.Sprint("~ "+path))
		default:
			printInfo("  %s\n", path)
		}
		for _, vd := range nd.ValueDiffs {
			switch vd.Status {
			case treefile.DiffAdded:
				printInfo("    %s\n", pal.add.Sprintf("+ %s = %q", vd.Name, vd.New))
			case treefile.DiffRemoved:
				printInfo("    %s\n", pal.del.Sprintf("- %s = %q", vd.Name, vd.Old))
			case treefile.DiffModified:
				printInfo("    %s\n", pal.mod.Sprintf("~ %s: %s", vd.Name, vd.Inline()))
			}
		}
		if len(nd.TagsAdded) > 0 {
			printInfo("    %s\n", pal.add.Sprint("+ tags: "+strings.Join(nd.TagsAdded, ", ")))
		}
		if len(nd.TagsRemoved) > 0 {
			printInfo("    %s\n", pal.del.Sprint("- tags: "+strings.Join(nd.TagsRemoved, ", ")))
		}
	}

	printVerbose("%d added, %d removed, %d modified\n",
		d.Count(treefile.DiffAdded), d.Count(treefile.DiffRemoved), d.Count(treefile.DiffModified))
	return nil
}

func printUnified(oldPath, newPath string) error {
	text, err := treefile.DiffText(oldPath, newPath)
	if err != nil {
		return err
	}
	pal := newDiffPalette()
	printInfo("--- %s\n+++ %s\n", oldPath, newPath)
	for _, line := range strings.Split(strings.TrimSuffix(text, "\n"), "\n") {
		switch {
		case line == "":
		case strings.HasPrefix(line, "+"):
			fmt.Fprintln(os.Stdout, pal.add.Sprint(line))
		case strings.HasPrefix(line, "-"):
			fmt.Fprintln(os.Stdout, pal.del.Sprint(line))
		default:
			fmt.Fprintln(os.Stdout, line)
		}
	}
	return nil
}
