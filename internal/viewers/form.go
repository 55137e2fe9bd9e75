package viewers

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/glance/internal/styles"
	"github.com/zjrosen/glance/internal/surface"
	"github.com/zjrosen/glance/internal/viewer"
)

const maxFormDepth = 4

// Form lists the fields of a YAML or JSON document.
type Form struct {
	src source
}

// FormField is one leaf of a structured document.
type FormField struct {
	Path  string
	Kind  string
	Value string
}

// Mount implements viewer.Module.
func (f *Form) Mount(ctx context.Context, target *surface.Surface, dctx viewer.DispatchContext) error {
	data, _, err := f.src.read(ctx, maxPreviewBytes)
	if err != nil {
		return err
	}
	fields, err := ParseForm(data)
	if err != nil {
		return fmt.Errorf("%s: %w", dctx.Filename(), err)
	}

	title := heading(dctx.Filename())
	if !dctx.ACL().CanEdit {
		title += " " + styles.WarningStyle.Render("(read-only)")
	}
	lines := []string{title, ""}
	valueWidth := max(target.Width()-30, 10)
	for _, fl := range fields {
		lines = append(lines, fmt.Sprintf("%-24s %s %s",
			styles.TruncateString(fl.Path, 24),
			styles.MutedStyle.Render(fmt.Sprintf("%-6s", fl.Kind)),
			styles.TruncateString(fl.Value, valueWidth)))
	}
	target.Append(block(lines...))
	return nil
}

// ParseForm flattens a YAML (or JSON) mapping into dotted field paths, sorted.
func ParseForm(data []byte) ([]FormField, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing form: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("form must be a mapping, got %s", kindName(root))
	}

	var fields []FormField
	flatten(root, "", 0, &fields)
	slices.SortFunc(fields, func(a, b FormField) int { return strings.Compare(a.Path, b.Path) })
	return fields, nil
}

func flatten(n *yaml.Node, prefix string, depth int, out *[]FormField) {
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i].Value, n.Content[i+1]
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		if val.Kind == yaml.AliasNode && val.Alias != nil {
			val = val.Alias
		}
		if val.Kind == yaml.MappingNode && depth+1 < maxFormDepth {
			flatten(val, path, depth+1, out)
			continue
		}
		*out = append(*out, FormField{Path: path, Kind: kindName(val), Value: preview(val)})
	}
}

func kindName(n *yaml.Node) string {
	switch n.Kind {
	case yaml.MappingNode:
		return "map"
	case yaml.SequenceNode:
		return "list"
	case yaml.ScalarNode:
		switch n.Tag {
		case "!!int", "!!float":
			return "number"
		case "!!bool":
			return "bool"
		case "!!null":
			return "null"
		default:
			return "text"
		}
	default:
		return "other"
	}
}

func preview(n *yaml.Node) string {
	switch n.Kind {
	case yaml.ScalarNode:
		return n.Value
	case yaml.SequenceNode:
		return fmt.Sprintf("[%d items]", len(n.Content))
	case yaml.MappingNode:
		return fmt.Sprintf("{%d keys}", len(n.Content)/2)
	default:
		return ""
	}
}
