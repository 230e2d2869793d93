package treefile

import (
	"fmt"
	"strconv"

	"github.com/joshuapare/treekit/pkg/types"
	"github.com/joshuapare/treekit/tree"
)

// Validate loads path under limits and runs the tree invariant checker.
//
// Example:
//
//	err := treefile.Validate("config.tree", types.StrictLimits())
func Validate(path string, limits types.Limits) error {
	c, err := Load(path, &Options{Limits: &limits})
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.Check(); err != nil {
		return fmt.Errorf("tree validation failed: %w", err)
	}
	return nil
}

// Stats returns summary counts of a tree file as strings, for display.
// Keys: root, nodes, max_depth, max_degree, values, tags.
func Stats(path string) (map[string]string, error) {
	c, err := Load(path, nil)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	var maxDepth, maxDegree, values int
	err = c.ApplyPreOrder(c.Root(), func(id types.NodeID) error {
		depth, _ := c.Depth(id)
		degree, _ := c.Degree(id)
		names, _ := c.ValueNames(id)
		maxDepth = max(maxDepth, depth)
		maxDegree = max(maxDegree, degree)
		values += len(names)
		return nil
	})
	if err != nil {
		return nil, err
	}
	root, _ := c.Label(c.Root())
	var tags int
	for _, tag := range c.TagNames() {
		if tag != tree.TagAll && tag != tree.TagRoot {
			tags++
		}
	}

	return map[string]string{
		"root":       root,
		"nodes":      strconv.Itoa(c.NodeCount()),
		"max_depth":  strconv.Itoa(maxDepth),
		"max_degree": strconv.Itoa(maxDegree),
		"values":     strconv.Itoa(values),
		"tags":       strconv.Itoa(tags),
	}, nil
}
