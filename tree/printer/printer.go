package printer

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"

	"github.com/joshuapare/treekit/pkg/types"
	"github.com/joshuapare/treekit/tree"
	"github.com/joshuapare/treekit/tree/keys"
)

const (
	DefaultIndentSize    = 2
	DefaultMaxDepth      = 0
	DefaultMaxValueBytes = 64
)

// Format specifies the output format for printing.
type Format string

const (
	// FormatText outputs human-readable text format.
	FormatText Format = "text"

	// FormatJSON outputs JSON format.
	FormatJSON Format = "json"
)

// Options controls printing behavior.
type Options struct {
	// Format specifies output format (text, json).
	// Default: FormatText
	Format Format

	// IndentSize is the number of spaces per indent level (text format only).
	// Default: 2
	IndentSize int

	// MaxDepth limits recursion depth (0 = unlimited).
	// Default: 0 (unlimited)
	MaxDepth int

	// ShowValues includes value data in output.
	// Default: true
	ShowValues bool

	// ShowTags includes the client's user tags of each node.
	// Default: true
	ShowTags bool

	// ShowIDs appends node ids to labels.
	// Default: false
	ShowIDs bool

	// MaxValueBytes truncates longer value strings. Set to 0 for no limit.
	// Default: 64
	MaxValueBytes int

	// PrintMetadata includes child/value counts.
	// Default: false
	PrintMetadata bool

	// Color highlights labels, names and tags (text format only).
	// Default: false
	Color bool
}

// DefaultOptions returns sensible defaults for printing.
func DefaultOptions() Options {
	return Options{
		Format:        FormatText,
		IndentSize:    DefaultIndentSize,
		MaxDepth:      DefaultMaxDepth,
		ShowValues:    true,
		ShowTags:      true,
		ShowIDs:       false,
		MaxValueBytes: DefaultMaxValueBytes,
		PrintMetadata: false,
		Color:         false,
	}
}

// Printer handles formatted output of tree nodes.
type Printer struct {
	opts   Options
	writer io.Writer
	client *tree.Client

	label *color.Color
	name  *color.Color
	tag   *color.Color
}

// New creates a new Printer.
//
// Example:
//
//	p := printer.New(c, os.Stdout, printer.DefaultOptions())
//	p.PrintTree(c.Root())
func New(c *tree.Client, w io.Writer, opts Options) *Printer {
	p := &Printer{
		client: c,
		writer: w,
		opts:   opts,
		label:  color.New(color.FgCyan, color.Bold),
		name:   color.New(color.FgYellow),
		tag:    color.New(color.FgMagenta),
	}
	for _, col := range []*color.Color{p.label, p.name, p.tag} {
		if opts.Color {
			col.EnableColor()
		} else {
			col.DisableColor()
		}
	}
	return p
}

// PrintNode prints a single node and its values.
func (p *Printer) PrintNode(id types.NodeID) error {
	if !p.client.Exists(id) {
		return fmt.Errorf("node %s: %w", id, types.ErrNotFound)
	}
	switch p.opts.Format {
	case FormatJSON:
		return p.printNodeJSON(id)
	default:
		return p.printNodeText(id, 0)
	}
}

// PrintValue prints a single value of node id.
func (p *Printer) PrintValue(id types.NodeID, name string) error {
	s, err := p.client.Get(id, name)
	if err != nil {
		return fmt.Errorf("get value %q: %w", name, err)
	}
	switch p.opts.Format {
	case FormatJSON:
		return p.printValueJSON(name, s)
	default:
		return p.printValueText(name, s, 0)
	}
}

// PrintTree prints the subtree rooted at id, honoring MaxDepth.
func (p *Printer) PrintTree(id types.NodeID) error {
	if !p.client.Exists(id) {
		return fmt.Errorf("node %s: %w", id, types.ErrNotFound)
	}
	switch p.opts.Format {
	case FormatJSON:
		return p.printTreeJSON(id)
	default:
		return p.printTreeText(id, 0)
	}
}

type namedValue struct {
	name, text string
}

// values returns the visible values of id sorted by name.
func (p *Printer) values(id types.NodeID) ([]namedValue, error) {
	var out []namedValue
	err := p.client.Iterate(id, func(k keys.Key, s string) bool {
		out = append(out, namedValue{name: k.String(), text: s})
		return true
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out, nil
}

// truncate shortens s to MaxValueBytes, reporting the original length.
func (p *Printer) truncate(s string) (string, bool) {
	if p.opts.MaxValueBytes <= 0 || len(s) <= p.opts.MaxValueBytes {
		return s, false
	}
	return s[:p.opts.MaxValueBytes], true
}

func (p *Printer) descend(depth int) bool {
	return p.opts.MaxDepth <= 0 || depth+1 < p.opts.MaxDepth
}
