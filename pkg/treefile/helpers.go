package treefile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joshuapare/treekit/internal/writer"
	"github.com/joshuapare/treekit/pkg/types"
	"github.com/joshuapare/treekit/tree"
	"github.com/joshuapare/treekit/tree/dump"
)

// PathSep separates labels in node paths.
const PathSep = "/"

// SplitPath splits a node path into labels. The empty path (or "/") is the
// root and yields nil.
func SplitPath(p string) []string {
	p = strings.Trim(p, PathSep)
	if p == "" {
		return nil
	}
	return strings.Split(p, PathSep)
}

// JoinPath is the inverse of SplitPath.
func JoinPath(labels []string) string {
	return strings.Join(labels, PathSep)
}

// Find returns the node of c at nodePath.
func Find(c *tree.Client, nodePath string) (types.NodeID, error) {
	return resolve(c, nodePath, false)
}

// resolve finds the node at nodePath, creating missing nodes when create
// is set.
func resolve(c *tree.Client, nodePath string, create bool) (types.NodeID, error) {
	labels := SplitPath(nodePath)
	if !create {
		id, err := c.FindPath(c.Root(), labels)
		if err != nil {
			return types.NoNode, fmt.Errorf("failed to find node %q: %w", nodePath, err)
		}
		return id, nil
	}
	node := c.Root()
	for _, label := range labels {
		child, err := c.FindChild(node, label)
		if errors.Is(err, types.ErrNotFound) {
			child, err = c.CreateNode(node, label, -1)
		}
		if err != nil {
			return types.NoNode, fmt.Errorf("failed to create node %q: %w", nodePath, err)
		}
		node = child
	}
	return node, nil
}

// modify loads path, runs fn and saves the result unless opts.DryRun.
func modify(path string, opts *Options, fn func(c *tree.Client) error) error {
	opts = opts.orDefault()
	c, err := Load(path, opts)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := fn(c); err != nil {
		return err
	}
	if opts.DryRun {
		// Serialize anyway so encoding failures still surface.
		var mem writer.MemWriter
		return dump.DumpTo(&mem, c, c.Root(), dump.DumpOptions{Encoding: opts.Encoding})
	}
	if opts.CreateBackup {
		backupPath := path + ".bak"
		if err := copyFile(path, backupPath); err != nil {
			return fmt.Errorf("failed to create backup at %s: %w", backupPath, err)
		}
	}
	return Save(c, path, opts)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
