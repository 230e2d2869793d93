package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/treekit/pkg/treefile"
	"github.com/joshuapare/treekit/tree"
)

var (
	tagsAdd    string
	tagsRemove string
)

func init() {
	cmd := newTagsCmd()
	cmd.Flags().StringVar(&tagsAdd, "add", "", "Add this tag to the node at path")
	cmd.Flags().StringVar(&tagsRemove, "remove", "", "Remove this tag from the node at path")
	rootCmd.AddCommand(cmd)
}

func newTagsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags <file> [path]",
		Short: "List or edit node tags",
		Long: `The tags command lists every tag of a tree file with the paths of the
nodes carrying it. With a path it lists that node's tags, and --add or
--remove edit them.

Example:
  treectl tags config.tree
  treectl tags config.tree network
  treectl tags config.tree network --add hot`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTags(cmd, args)
		},
	}
	return cmd
}

func runTags(cmd *cobra.Command, args []string) error {
	treePath := args[0]
	if (tagsAdd != "" || tagsRemove != "") && len(args) < 2 {
		return fmt.Errorf("--add and --remove need a node path")
	}
	opts := fileOptions(encodingFor(cmd, ""))

	if tagsAdd != "" {
		if err := treefile.SetTag(treePath, args[1], tagsAdd, false, opts); err != nil {
			return err
		}
		printInfo("Tagged %s with %s\n", args[1], tagsAdd)
	}
	if tagsRemove != "" {
		if err := treefile.SetTag(treePath, args[1], tagsRemove, true, opts); err != nil {
			return err
		}
		printInfo("Removed tag %s from %s\n", tagsRemove, args[1])
	}
	if tagsAdd != "" || tagsRemove != "" {
		return nil
	}

	c, err := treefile.Load(treePath, opts)
	if err != nil {
		return err
	}
	defer c.Close()

	if len(args) > 1 {
		id, err := treefile.Find(c, args[1])
		if err != nil {
			return err
		}
		tags, err := c.UserTags(id)
		if err != nil {
			return err
		}
		if jsonOut {
			return printJSON(tags)
		}
		for _, tag := range tags {
			printInfo("%s\n", tag)
		}
		return nil
	}

	byTag := make(map[string][]string)
	var order []string
	for _, tag := range c.TagNames() {
		if tag == tree.TagAll || tag == tree.TagRoot {
			continue
		}
		ids, err := c.TaggedNodes(tag)
		if err != nil {
			return err
		}
		paths := make([]string, 0, len(ids))
		for _, id := range ids {
			labels, err := c.NodePath(id)
			if err != nil {
				return err
			}
			paths = append(paths, treefile.JoinPath(labels))
		}
		byTag[tag] = paths
		order = append(order, tag)
	}

	if jsonOut {
		return printJSON(byTag)
	}
	for _, tag := range order {
		printInfo("%s: %s\n", tag, strings.Join(byTag[tag], ", "))
	}
	return nil
}
