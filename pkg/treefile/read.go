package treefile

import (
	"fmt"
	"sort"

	"github.com/joshuapare/treekit/pkg/types"
	"github.com/joshuapare/treekit/tree"
	"github.com/joshuapare/treekit/tree/keys"
)

// NodeInfo describes one node of a tree file.
type NodeInfo struct {
	ID       types.NodeID
	Label    string
	Path     string
	Depth    int
	Children int
	Values   int
	Tags     []string
}

// ListNodes lists the children of the node at nodePath. With recursive set
// it descends up to maxDepth levels below it (0 = unlimited). Results are
// sorted by path.
func ListNodes(path, nodePath string, recursive bool, maxDepth int) ([]NodeInfo, error) {
	c, err := Load(path, nil)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	top, err := resolve(c, nodePath, false)
	if err != nil {
		return nil, err
	}
	nodes, err := listNodes(c, top, SplitPath(nodePath), recursive, maxDepth, 0)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(nodes, func(i, j int) bool { return nodes[i].Path < nodes[j].Path })
	return nodes, nil
}

func listNodes(c *tree.Client, id types.NodeID, prefix []string, recursive bool, maxDepth, depth int) ([]NodeInfo, error) {
	children, err := c.Children(id)
	if err != nil {
		return nil, err
	}
	var out []NodeInfo
	for _, child := range children {
		info, err := nodeInfo(c, child, prefix)
		if err != nil {
			return nil, err
		}
		out = append(out, info)
		if recursive && (maxDepth == 0 || depth+1 < maxDepth) {
			sub, err := listNodes(c, child, SplitPath(info.Path), recursive, maxDepth, depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
		}
	}
	return out, nil
}

func nodeInfo(c *tree.Client, id types.NodeID, prefix []string) (NodeInfo, error) {
	label, err := c.Label(id)
	if err != nil {
		return NodeInfo{}, err
	}
	depth, _ := c.Depth(id)
	degree, _ := c.Degree(id)
	names, _ := c.ValueNames(id)
	tags, _ := c.UserTags(id)
	path := append(append([]string(nil), prefix...), label)
	return NodeInfo{
		ID:       id,
		Label:    label,
		Path:     JoinPath(path),
		Depth:    depth,
		Children: degree,
		Values:   len(names),
		Tags:     tags,
	}, nil
}

// GetValues returns every value of the node at nodePath.
func GetValues(path, nodePath string) (map[string]string, error) {
	c, err := Load(path, nil)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	id, err := resolve(c, nodePath, false)
	if err != nil {
		return nil, err
	}
	return valueMap(c, id)
}

// GetValue returns value name of the node at nodePath. name may address an
// array element as "name(elem)".
func GetValue(path, nodePath, name string) (string, error) {
	c, err := Load(path, nil)
	if err != nil {
		return "", err
	}
	defer c.Close()

	id, err := resolve(c, nodePath, false)
	if err != nil {
		return "", err
	}
	v, err := c.Get(id, name)
	if err != nil {
		return "", fmt.Errorf("failed to get value %q: %w", name, err)
	}
	return v, nil
}

func valueMap(c *tree.Client, id types.NodeID) (map[string]string, error) {
	values := make(map[string]string)
	err := c.Iterate(id, func(k keys.Key, s string) bool {
		values[k.String()] = s
		return true
	})
	return values, err
}
