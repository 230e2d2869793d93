package treefile

import (
	"fmt"

	"github.com/joshuapare/treekit/tree"
	"github.com/joshuapare/treekit/tree/dump"
)

// Load restores the dump file at path into a new tree and returns a client
// on it. The root takes the label recorded in the file. The caller closes
// the client.
func Load(path string, opts *Options) (*tree.Client, error) {
	opts = opts.orDefault()
	if !fileExists(path) {
		return nil, fmt.Errorf("tree file not found: %s", path)
	}

	rtOpts := tree.DefaultOptions()
	rtOpts.Limits = opts.limits()
	rt := tree.NewRuntime(rtOpts)
	c, err := rt.Open("", tree.OpenCreate)
	if err != nil {
		return nil, err
	}

	stats, err := dump.RestoreFromFile(c, c.Root(), path, dump.RestoreOptions{Encoding: opts.Encoding})
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	if stats.RootLabel != "" {
		if err := c.RelabelNode(c.Root(), stats.RootLabel); err != nil {
			c.Close()
			return nil, err
		}
	}
	return c, nil
}

// Save dumps the whole tree of c to path atomically.
func Save(c *tree.Client, path string, opts *Options) error {
	opts = opts.orDefault()
	err := dump.DumpToFile(c, c.Root(), path, dump.DumpOptions{
		Encoding: opts.Encoding,
		FullSync: opts.FullSync,
	})
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

// Create writes a dump file holding an empty tree whose root is labeled
// rootLabel.
func Create(path, rootLabel string, opts *Options) error {
	rt := tree.NewRuntime(tree.DefaultOptions())
	c, err := rt.Open(rootLabel, tree.OpenCreate)
	if err != nil {
		return err
	}
	defer c.Close()
	return Save(c, path, opts)
}
