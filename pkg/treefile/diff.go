package treefile

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/joshuapare/treekit/pkg/types"
	"github.com/joshuapare/treekit/tree"
	"github.com/joshuapare/treekit/tree/dump"
)

// DiffStatus represents the diff state of an item.
type DiffStatus int

const (
	DiffUnchanged DiffStatus = iota // Item exists in both, unchanged
	DiffAdded                       // Item added (only in new)
	DiffRemoved                     // Item removed (only in old)
	DiffModified                    // Item exists in both but changed
)

func (s DiffStatus) String() string {
	switch s {
	case DiffAdded:
		return "added"
	case DiffRemoved:
		return "removed"
	case DiffModified:
		return "modified"
	default:
		return "unchanged"
	}
}

// NodeDiff represents differences for a single node.
type NodeDiff struct {
	Path        string
	Label       string
	Status      DiffStatus
	ValueDiffs  []ValueDiff
	TagsAdded   []string
	TagsRemoved []string
}

// ValueDiff represents differences for a single value.
type ValueDiff struct {
	Name   string
	Status DiffStatus
	Old    string
	New    string
}

// Inline renders a modified value as old text with "[-deleted-]" and
// "{+inserted+}" markers.
func (v ValueDiff) Inline() string {
	return InlineDiff(v.Old, v.New)
}

// TreeDiff contains the complete diff between two tree files.
type TreeDiff struct {
	OldPath string
	NewPath string
	Nodes   map[string]NodeDiff // path -> NodeDiff
}

// Count returns the number of nodes with status.
func (d *TreeDiff) Count(status DiffStatus) int {
	n := 0
	for _, nd := range d.Nodes {
		if nd.Status == status {
			n++
		}
	}
	return n
}

// Changed returns every node that is not unchanged, sorted by path.
func (d *TreeDiff) Changed() []NodeDiff {
	var out []NodeDiff
	for _, nd := range d.Nodes {
		if nd.Status != DiffUnchanged {
			out = append(out, nd)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// snap is the comparable content of one node.
type snap struct {
	label  string
	values map[string]string
	tags   []string
}

// DiffFiles compares two tree files node by node. Nodes are matched by
// path; siblings sharing a label are told apart by position, written
// "label[2]", "label[3]" after the first.
func DiffFiles(oldPath, newPath string) (*TreeDiff, error) {
	oldNodes, err := loadSnapshot(oldPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load old tree: %w", err)
	}
	newNodes, err := loadSnapshot(newPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load new tree: %w", err)
	}

	diff := &TreeDiff{OldPath: oldPath, NewPath: newPath, Nodes: make(map[string]NodeDiff)}
	for path, n := range newNodes {
		o, ok := oldNodes[path]
		if !ok {
			diff.Nodes[path] = NodeDiff{Path: path, Label: n.label, Status: DiffAdded}
			continue
		}
		nd := NodeDiff{Path: path, Label: n.label, Status: DiffUnchanged}
		nd.ValueDiffs = compareValues(o.values, n.values)
		nd.TagsAdded, nd.TagsRemoved = compareTags(o.tags, n.tags)
		if len(nd.ValueDiffs) > 0 || len(nd.TagsAdded) > 0 || len(nd.TagsRemoved) > 0 {
			nd.Status = DiffModified
		}
		diff.Nodes[path] = nd
	}
	for path, o := range oldNodes {
		if _, ok := newNodes[path]; !ok {
			diff.Nodes[path] = NodeDiff{Path: path, Label: o.label, Status: DiffRemoved}
		}
	}
	return diff, nil
}

func loadSnapshot(path string) (map[string]snap, error) {
	c, err := Load(path, nil)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	out := make(map[string]snap)
	err = walkKeyed(c, c.Root(), "", func(id types.NodeID, key string) error {
		label, _ := c.Label(id)
		values, err := valueMap(c, id)
		if err != nil {
			return err
		}
		tags, _ := c.UserTags(id)
		out[key] = snap{label: label, values: values, tags: tags}
		return nil
	})
	return out, err
}

// walkKeyed visits id's descendants with their disambiguated paths. The
// root itself is visited with the empty path.
func walkKeyed(c *tree.Client, id types.NodeID, prefix string, fn func(types.NodeID, string) error) error {
	if prefix == "" && id == c.Root() {
		if err := fn(id, ""); err != nil {
			return err
		}
	}
	children, err := c.Children(id)
	if err != nil {
		return err
	}
	seen := make(map[string]int)
	for _, child := range children {
		label, _ := c.Label(child)
		seen[label]++
		key := label
		if n := seen[label]; n > 1 {
			key += "[" + strconv.Itoa(n) + "]"
		}
		if prefix != "" {
			key = prefix + PathSep + key
		}
		if err := fn(child, key); err != nil {
			return err
		}
		if err := walkKeyed(c, child, key, fn); err != nil {
			return err
		}
	}
	return nil
}

func compareValues(before, after map[string]string) []ValueDiff {
	var out []ValueDiff
	for name, nv := range after {
		ov, ok := before[name]
		switch {
		case !ok:
			out = append(out, ValueDiff{Name: name, Status: DiffAdded, New: nv})
		case ov != nv:
			out = append(out, ValueDiff{Name: name, Status: DiffModified, Old: ov, New: nv})
		}
	}
	for name, ov := range before {
		if _, ok := after[name]; !ok {
			out = append(out, ValueDiff{Name: name, Status: DiffRemoved, Old: ov})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func compareTags(before, after []string) (added, removed []string) {
	in := func(list []string, s string) bool {
		for _, t := range list {
			if t == s {
				return true
			}
		}
		return false
	}
	for _, t := range after {
		if !in(before, t) {
			added = append(added, t)
		}
	}
	for _, t := range before {
		if !in(after, t) {
			removed = append(removed, t)
		}
	}
	return added, removed
}

// InlineDiff returns a character-level rendering of the edit from before to
// after: deletions as "[-text-]", insertions as "{+text+}".
func InlineDiff(before, after string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var b strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			b.WriteString("[-" + d.Text + "-]")
		case diffmatchpatch.DiffInsert:
			b.WriteString("{+" + d.Text + "+}")
		case diffmatchpatch.DiffEqual:
			b.WriteString(d.Text)
		}
	}
	return b.String()
}

// DiffText returns a line diff of the two files' canonical dumps. Each
// output line is prefixed with " " (common), "-" (old only) or "+" (new
// only). Identical trees yield only common lines.
func DiffText(oldPath, newPath string) (string, error) {
	oldText, err := canonicalDump(oldPath)
	if err != nil {
		return "", fmt.Errorf("failed to load old tree: %w", err)
	}
	newText, err := canonicalDump(newPath)
	if err != nil {
		return "", fmt.Errorf("failed to load new tree: %w", err)
	}
	return LineDiff(oldText, newText), nil
}

// LineDiff diffs two texts line by line.
func LineDiff(before, after string) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lines)

	var out strings.Builder
	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			out.WriteString(prefix + line)
			if !strings.HasSuffix(line, "\n") {
				out.WriteString("\n")
			}
		}
	}
	return out.String()
}

func canonicalDump(path string) (string, error) {
	c, err := Load(path, nil)
	if err != nil {
		return "", err
	}
	defer c.Close()
	return dump.Dump(c, c.Root(), dump.DumpOptions{})
}
