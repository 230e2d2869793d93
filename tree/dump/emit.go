// Package dump serializes tree subtrees to line-oriented text records and
// restores them.
//
// Each node becomes one record, a list of five fields:
//
//	parentId id {path} {key value ...} {tag ...}
//
// parentId is -1 for the dump root. path holds the labels from the dump
// root down to the node, dump root included. Records may span lines when a
// value contains a newline; a record ends where its list syntax balances.
// Blank lines and lines starting with '#' between records are ignored.
//
// Restore also accepts the older three-field shape ({path} {values}
// {tags}), with path relative to the restore root.
package dump

import (
	"bufio"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/joshuapare/treekit/internal/listfmt"
	"github.com/joshuapare/treekit/internal/textenc"
	"github.com/joshuapare/treekit/internal/writer"
	"github.com/joshuapare/treekit/pkg/types"
	"github.com/joshuapare/treekit/tree"
	"github.com/joshuapare/treekit/tree/keys"
)

// Dump returns the records of the subtree rooted at top.
func Dump(c *tree.Client, top types.NodeID, opts DumpOptions) (string, error) {
	var b strings.Builder
	if err := Write(&b, c, top, opts); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Write streams the records of the subtree rooted at top to w, one node per
// record in pre-order.
func Write(w io.Writer, c *tree.Client, top types.NodeID, opts DumpOptions) error {
	bw := bufio.NewWriter(w)
	err := c.ApplyPreOrder(top, func(id types.NodeID) error {
		rec, err := record(c, top, id, opts)
		if err != nil {
			return err
		}
		if _, err := bw.WriteString(rec); err != nil {
			return err
		}
		_, err = bw.WriteString(LF)
		return err
	})
	if err != nil {
		return err
	}
	return bw.Flush()
}

// DumpToFile writes the records of the subtree rooted at top to path,
// atomically, in opts.Encoding.
func DumpToFile(c *tree.Client, top types.NodeID, path string, opts DumpOptions) error {
	return DumpTo(&writer.FileWriter{Path: path, FullSync: opts.FullSync}, c, top, opts)
}

// DumpTo encodes the records of the subtree rooted at top in opts.Encoding
// and hands them to sink in one piece.
func DumpTo(sink writer.Sink, c *tree.Client, top types.NodeID, opts DumpOptions) error {
	text, err := Dump(c, top, opts)
	if err != nil {
		return err
	}
	data, err := textenc.Encode([]byte(text), opts.Encoding)
	if err != nil {
		return err
	}
	return sink.WriteDump(data)
}

// record renders one node.
func record(c *tree.Client, top, id types.NodeID, opts DumpOptions) (string, error) {
	parent := int64(RootParentID)
	if id != top {
		p, err := c.Parent(id)
		if err != nil {
			return "", err
		}
		parent = int64(p)
	}
	path, err := c.PathFrom(top, id)
	if err != nil {
		return "", err
	}

	var values []string
	type kv struct{ k, v string }
	var pairs []kv
	err = c.Iterate(id, func(k keys.Key, s string) bool {
		pairs = append(pairs, kv{k.String(), s})
		return true
	})
	if err != nil {
		return "", err
	}
	slices.SortFunc(pairs, func(a, b kv) int { return strings.Compare(a.k, b.k) })
	for _, p := range pairs {
		values = append(values, p.k, p.v)
	}

	var tags []string
	if !opts.NoTags {
		if tags, err = c.UserTags(id); err != nil {
			return "", err
		}
	}

	recordsDumped.Inc()
	return listfmt.Join([]string{
		strconv.FormatInt(parent, 10),
		id.String(),
		listfmt.Join(path),
		listfmt.Join(values),
		listfmt.Join(tags),
	}), nil
}
