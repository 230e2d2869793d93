package printer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/joshuapare/treekit/pkg/types"
)

// printNodeText prints a node in human-readable text format.
func (p *Printer) printNodeText(id types.NodeID, depth int) error {
	label, err := p.client.Label(id)
	if err != nil {
		return err
	}
	indent := strings.Repeat(" ", depth*p.opts.IndentSize)

	fmt.Fprintf(p.writer, "%s[%s]", indent, p.label.Sprint(label))
	if p.opts.ShowIDs {
		fmt.Fprintf(p.writer, " #%s", id)
	}
	fmt.Fprintln(p.writer)

	var values []namedValue
	if p.opts.ShowValues || p.opts.PrintMetadata {
		if values, err = p.values(id); err != nil {
			return err
		}
	}

	if p.opts.PrintMetadata {
		degree, err := p.client.Degree(id)
		if err != nil {
			return err
		}
		fmt.Fprintf(p.writer, "%s  Children: %d, Values: %d\n", indent, degree, len(values))
	}

	if p.opts.ShowTags {
		tags, err := p.client.UserTags(id)
		if err != nil {
			return err
		}
		if len(tags) > 0 {
			colored := make([]string, len(tags))
			for i, t := range tags {
				colored[i] = p.tag.Sprint(t)
			}
			fmt.Fprintf(p.writer, "%s  Tags: %s\n", indent, strings.Join(colored, ", "))
		}
	}

	if p.opts.ShowValues {
		for _, v := range values {
			if err := p.printValueText(v.name, v.text, depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}

// printValueText prints one value as "name" = "text".
func (p *Printer) printValueText(name, text string, depth int) error {
	indent := strings.Repeat(" ", depth*p.opts.IndentSize)
	shown, cut := p.truncate(text)
	suffix := ""
	if cut {
		suffix = fmt.Sprintf(" (truncated, %d total bytes)", len(text))
	}
	_, err := fmt.Fprintf(p.writer, "%s%s = %s%s\n",
		indent, p.name.Sprint(strconv.Quote(name)), strconv.Quote(shown), suffix)
	return err
}

// printTreeText recursively prints a subtree in text format.
func (p *Printer) printTreeText(id types.NodeID, depth int) error {
	if err := p.printNodeText(id, depth); err != nil {
		return err
	}
	if !p.descend(depth) {
		return nil
	}
	children, err := p.client.Children(id)
	if err != nil {
		return err
	}
	for _, child := range children {
		if err := p.printTreeText(child, depth+1); err != nil {
			return err
		}
	}
	return nil
}
