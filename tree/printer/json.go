package printer

import (
	"encoding/json"
	"fmt"

	"github.com/joshuapare/treekit/pkg/types"
)

// jsonNode represents a node in JSON format.
type jsonNode struct {
	Label     string            `json:"label"`
	ID        *types.NodeID     `json:"id,omitempty"`
	Children  *int              `json:"children,omitempty"`
	Values    *int              `json:"values,omitempty"`
	ValueData map[string]string `json:"value_data,omitempty"`
	Tags      []string          `json:"tags,omitempty"`
	Nodes     []jsonNode        `json:"nodes,omitempty"`
	Truncated []string          `json:"truncated,omitempty"`
}

// buildJSON collects id and, when recurse is set, its descendants.
func (p *Printer) buildJSON(id types.NodeID, depth int, recurse bool) (jsonNode, error) {
	label, err := p.client.Label(id)
	if err != nil {
		return jsonNode{}, err
	}
	out := jsonNode{Label: label}
	if p.opts.ShowIDs {
		nid := id
		out.ID = &nid
	}

	values, err := p.values(id)
	if err != nil {
		return jsonNode{}, err
	}
	if p.opts.PrintMetadata {
		degree, err := p.client.Degree(id)
		if err != nil {
			return jsonNode{}, err
		}
		nv := len(values)
		out.Children = &degree
		out.Values = &nv
	}
	if p.opts.ShowValues && len(values) > 0 {
		out.ValueData = make(map[string]string, len(values))
		for _, v := range values {
			shown, cut := p.truncate(v.text)
			out.ValueData[v.name] = shown
			if cut {
				out.Truncated = append(out.Truncated, v.name)
			}
		}
	}
	if p.opts.ShowTags {
		if out.Tags, err = p.client.UserTags(id); err != nil {
			return jsonNode{}, err
		}
	}

	if !recurse || !p.descend(depth) {
		return out, nil
	}
	children, err := p.client.Children(id)
	if err != nil {
		return jsonNode{}, err
	}
	for _, child := range children {
		cn, err := p.buildJSON(child, depth+1, true)
		if err != nil {
			return jsonNode{}, err
		}
		out.Nodes = append(out.Nodes, cn)
	}
	return out, nil
}

func (p *Printer) printNodeJSON(id types.NodeID) error {
	node, err := p.buildJSON(id, 0, false)
	if err != nil {
		return err
	}
	return p.writeJSON(node)
}

func (p *Printer) printTreeJSON(id types.NodeID) error {
	node, err := p.buildJSON(id, 0, true)
	if err != nil {
		return err
	}
	return p.writeJSON(node)
}

// printValueJSON prints {"name": "text"}.
func (p *Printer) printValueJSON(name, text string) error {
	shown, _ := p.truncate(text)
	return p.writeJSON(map[string]string{name: shown})
}

func (p *Printer) writeJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(p.writer, "%s\n", data)
	return err
}
