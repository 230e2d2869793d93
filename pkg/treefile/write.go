package treefile

import (
	"fmt"

	"github.com/joshuapare/treekit/pkg/types"
	"github.com/joshuapare/treekit/tree"
)

// SetValue stores value name on the node at nodePath and saves the file.
//
// Example:
//
//	err := treefile.SetValue("config.tree", "network", "mtu", "9000", nil)
func SetValue(path, nodePath, name, value string, opts *Options) error {
	opts = opts.orDefault()
	return modify(path, opts, func(c *tree.Client) error {
		id, err := resolve(c, nodePath, opts.CreateNodes)
		if err != nil {
			return err
		}
		if err := c.Set(id, name, value); err != nil {
			return fmt.Errorf("failed to set value: %w", err)
		}
		return nil
	})
}

// UnsetValue removes value name from the node at nodePath and saves the
// file. A missing value is reported as not found.
func UnsetValue(path, nodePath, name string, opts *Options) error {
	return modify(path, opts, func(c *tree.Client) error {
		id, err := resolve(c, nodePath, false)
		if err != nil {
			return err
		}
		if !c.ValueExists(id, name) {
			return types.Errorf(types.ErrKindNotFound, "value %q not found in %q", name, nodePath)
		}
		if err := c.Unset(id, name); err != nil {
			return fmt.Errorf("failed to unset value: %w", err)
		}
		return nil
	})
}

// CreateNode creates the node at nodePath, with any missing ancestors.
func CreateNode(path, nodePath string, opts *Options) error {
	return modify(path, opts, func(c *tree.Client) error {
		_, err := resolve(c, nodePath, true)
		return err
	})
}

// DeleteNode removes the node at nodePath and its subtree.
func DeleteNode(path, nodePath string, opts *Options) error {
	return modify(path, opts, func(c *tree.Client) error {
		id, err := resolve(c, nodePath, false)
		if err != nil {
			return err
		}
		if err := c.DeleteNode(id); err != nil {
			return fmt.Errorf("failed to delete node: %w", err)
		}
		return nil
	})
}

// SetTag adds (or with remove set, removes) tag on the node at nodePath.
func SetTag(path, nodePath, tag string, remove bool, opts *Options) error {
	return modify(path, opts, func(c *tree.Client) error {
		id, err := resolve(c, nodePath, false)
		if err != nil {
			return err
		}
		if remove {
			return c.RemoveTag(id, tag)
		}
		return c.AddTag(id, tag)
	})
}
