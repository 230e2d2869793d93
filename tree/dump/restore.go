package dump

import (
	"bufio"
	"bytes"
	"errors"
	"strconv"
	"strings"

	"github.com/joshuapare/treekit/internal/listfmt"
	"github.com/joshuapare/treekit/internal/mmfile"
	"github.com/joshuapare/treekit/internal/textenc"
	"github.com/joshuapare/treekit/pkg/types"
	"github.com/joshuapare/treekit/tree"
	"github.com/joshuapare/treekit/tree/keys"
)

// maxRecordSize bounds a single (possibly multi-line) record.
const maxRecordSize = 64 << 20

// restorer carries the state of one restore run.
type restorer struct {
	c     *tree.Client
	top   types.NodeID
	opts  RestoreOptions
	remap map[types.NodeID]types.NodeID // dumped id -> restored id
	stats Stats
}

// Restore applies dump records to the subtree rooted at top. Records are
// applied as they are read: when an error stops the restore, nodes created
// by earlier records remain.
func Restore(c *tree.Client, top types.NodeID, data []byte, opts RestoreOptions) (Stats, error) {
	if !c.Exists(top) {
		return Stats{}, types.Errorf(types.ErrKindNotFound, "can't find restore root %d", top)
	}
	r := &restorer{
		c:     c,
		top:   top,
		opts:  opts,
		remap: make(map[types.NodeID]types.NodeID),
	}
	err := r.run(data)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			restoreFailures.Inc()
		}
	}
	return r.stats, err
}

// RestoreFromFile maps path, decodes it from opts.Encoding and restores
// it under top.
func RestoreFromFile(c *tree.Client, top types.NodeID, path string, opts RestoreOptions) (Stats, error) {
	raw, release, err := mmfile.Map(path)
	if err != nil {
		return Stats{}, err
	}
	// Decode copies, so the mapping can go before the restore runs.
	data, err := textenc.Decode(raw, opts.Encoding)
	if relErr := release(); err == nil {
		err = relErr
	}
	if err != nil {
		return Stats{}, err
	}
	return Restore(c, top, data, opts)
}

// run splits data into records and applies them in order.
func (r *restorer) run(data []byte) error {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), maxRecordSize)

	var (
		buf       strings.Builder
		startLine int
		lineNo    int
	)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSuffix(scanner.Text(), CR)
		if buf.Len() == 0 {
			trim := strings.TrimSpace(line)
			if trim == "" || strings.HasPrefix(trim, CommentPrefix) {
				continue
			}
			startLine = lineNo
		} else {
			buf.WriteString(LF)
		}
		buf.WriteString(line)
		if buf.Len() > maxRecordSize {
			return parseErrorf(startLine, "record exceeds %d bytes", maxRecordSize)
		}
		if !listfmt.Complete(buf.String()) {
			continue
		}
		text := buf.String()
		buf.Reset()
		if err := r.apply(text, startLine); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return &ParseError{Line: lineNo, Msg: "read failed", Err: err}
	}
	if buf.Len() > 0 {
		return parseErrorf(startLine, "unexpected end of input: unterminated record")
	}
	return nil
}

// apply parses one complete record.
func (r *restorer) apply(text string, line int) error {
	fields, err := listfmt.Split(text)
	if err != nil {
		return &ParseError{Line: line, Msg: "bad record syntax", Err: err}
	}
	switch len(fields) {
	case fieldsEmpty:
		return nil
	case fieldsLegacy:
		recordsRestored.WithLabelValues("legacy").Inc()
		return r.applyLegacy(fields, line)
	case fieldsModern, fieldsReserved:
		recordsRestored.WithLabelValues("modern").Inc()
		return r.applyModern(fields, line)
	default:
		return parseErrorf(line, "wrong # elements in restore entry: got %d, want 3, 5 or 6", len(fields))
	}
}

// applyLegacy handles {path} {values} {tags}. Missing ancestors along the
// path are created.
func (r *restorer) applyLegacy(fields []string, line int) error {
	path, err := splitField(fields[0], "path", line)
	if err != nil {
		return err
	}
	values, tags, err := r.payload(fields[1], fields[2], line)
	if err != nil {
		return err
	}

	node := r.top
	if len(path) > 0 {
		parent, err := r.ensurePath(path[:len(path)-1])
		if err != nil {
			return err
		}
		if node, err = r.placeNode(parent, path[len(path)-1], types.NoNode); err != nil {
			return err
		}
	}
	r.stats.Records++
	return r.fill(node, values, tags)
}

// applyModern handles parentId id {path} {values} {tags} [reserved].
func (r *restorer) applyModern(fields []string, line int) error {
	parentID, err := parseID(fields[0], "parent id", line)
	if err != nil {
		return err
	}
	id, err := parseID(fields[1], "node id", line)
	if err != nil {
		return err
	}
	path, err := splitField(fields[2], "path", line)
	if err != nil {
		return err
	}
	values, tags, err := r.payload(fields[3], fields[4], line)
	if err != nil {
		return err
	}
	if _, dup := r.remap[id]; dup {
		return parseErrorf(line, "node %d already exists in this restore", id)
	}

	var node types.NodeID
	switch {
	case parentID == RootParentID:
		node = r.top
		if len(path) > 0 {
			r.stats.RootLabel = path[0]
		}
	case len(path) == 0:
		return parseErrorf(line, "empty path for node %d", id)
	default:
		label := path[len(path)-1]
		parent, known := r.remap[parentID]
		if !known || !r.c.Exists(parent) {
			// Parent not restored here: locate or create it by path.
			// path[0] names the dump root and maps to the restore root.
			inner := path[1:max(len(path)-1, 1)]
			if parent, err = r.ensurePath(inner); err != nil {
				return err
			}
		}
		if node, err = r.placeNode(parent, label, id); err != nil {
			return err
		}
	}
	r.remap[id] = node
	r.stats.Records++
	return r.fill(node, values, tags)
}

// payload splits the value and tag fields.
func (r *restorer) payload(valueField, tagField string, line int) ([]string, []string, error) {
	values, err := splitField(valueField, "values", line)
	if err != nil {
		return nil, nil, err
	}
	if len(values)%2 != 0 {
		return nil, nil, parseErrorf(line, "odd number of elements in value list")
	}
	if r.opts.NoTags {
		return values, nil, nil
	}
	tags, err := splitField(tagField, "tags", line)
	if err != nil {
		return nil, nil, err
	}
	return values, tags, nil
}

// ensurePath walks labels down from the restore root, creating what is
// missing, and returns the node reached.
func (r *restorer) ensurePath(labels []string) (types.NodeID, error) {
	node := r.top
	for _, label := range labels {
		child, err := r.c.FindChild(node, label)
		if errors.Is(err, types.ErrNotFound) {
			if child, err = r.c.CreateNode(node, label, -1); err == nil {
				r.stats.Created++
			}
		}
		if err != nil {
			return types.NoNode, err
		}
		node = child
	}
	return node, nil
}

// placeNode returns the node labeled label under parent: an existing one
// with Overwrite, otherwise a new one that keeps id when it is free.
func (r *restorer) placeNode(parent types.NodeID, label string, id types.NodeID) (types.NodeID, error) {
	if r.opts.Overwrite {
		if existing, err := r.c.FindChild(parent, label); err == nil {
			r.stats.Reused++
			return existing, nil
		}
	}
	want := id
	if id != types.NoNode && r.c.Exists(id) {
		want = types.NoNode
		r.stats.Remapped++
	}
	node, err := r.c.CreateNodeWithID(parent, label, want, -1)
	if err != nil {
		return types.NoNode, err
	}
	r.stats.Created++
	return node, nil
}

// fill stores values and tags on node.
func (r *restorer) fill(node types.NodeID, values, tags []string) error {
	for i := 0; i < len(values); i += 2 {
		if err := r.c.SetKey(node, keys.Intern(values[i]), values[i+1]); err != nil {
			return err
		}
	}
	for _, tag := range tags {
		if tag == tree.TagAll || tag == tree.TagRoot {
			continue
		}
		if err := r.c.AddTag(node, tag); err != nil {
			return err
		}
	}
	return nil
}

func splitField(field, what string, line int) ([]string, error) {
	elems, err := listfmt.Split(field)
	if err != nil {
		return nil, &ParseError{Line: line, Msg: "bad " + what + " list", Err: err}
	}
	return elems, nil
}

func parseID(field, what string, line int) (types.NodeID, error) {
	n, err := strconv.ParseInt(field, 10, 64)
	if err != nil {
		return 0, parseErrorf(line, "bad %s %q", what, field)
	}
	if n < RootParentID {
		return 0, parseErrorf(line, "bad %s %q", what, field)
	}
	return types.NodeID(n), nil
}
