package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/glance/internal/viewer"
)

// SaveMimeEntry sets the type table entry for key in the config file.
// This preserves comments and formatting in other sections by using yaml.Node.
func SaveMimeEntry(configPath, key string, opener viewer.Opener) error {
	key = strings.ToLower(strings.TrimPrefix(key, "."))
	if key == "" {
		return fmt.Errorf("mime key is required")
	}
	if opener.Handler == "" {
		return fmt.Errorf("mime.%s: handler is required", key)
	}

	entry, err := buildOpenerNode(opener)
	if err != nil {
		return fmt.Errorf("building mime entry: %w", err)
	}

	return editConfig(configPath, func(root *yaml.Node) {
		mime := mappingValue(root, "mime")
		setMappingValue(mime, key, entry)
	})
}

// DeleteMimeEntry removes the type table entry for key from the config file.
// Removing a key that is not present is not an error.
func DeleteMimeEntry(configPath, key string) error {
	key = strings.ToLower(strings.TrimPrefix(key, "."))
	return editConfig(configPath, func(root *yaml.Node) {
		mime := mappingValue(root, "mime")
		for i := 0; i < len(mime.Content)-1; i += 2 {
			if mime.Content[i].Value == key {
				mime.Content = append(mime.Content[:i], mime.Content[i+2:]...)
				return
			}
		}
	})
}

func buildOpenerNode(opener viewer.Opener) (*yaml.Node, error) {
	var node yaml.Node
	if err := node.Encode(opener); err != nil {
		return nil, err
	}
	return &node, nil
}

// mappingValue returns the mapping stored under key in m, creating it when
// missing or when the existing value is not a mapping.
func mappingValue(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i < len(m.Content)-1; i += 2 {
		if m.Content[i].Value == key {
			if m.Content[i+1].Kind != yaml.MappingNode {
				m.Content[i+1] = &yaml.Node{Kind: yaml.MappingNode}
			}
			return m.Content[i+1]
		}
	}
	value := &yaml.Node{Kind: yaml.MappingNode}
	m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: key}, value)
	return value
}

func setMappingValue(m *yaml.Node, key string, value *yaml.Node) {
	for i := 0; i < len(m.Content)-1; i += 2 {
		if m.Content[i].Value == key {
			m.Content[i+1] = value
			return
		}
	}
	m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: key}, value)
}

// editConfig parses the config file, hands its root mapping to edit and
// writes the result back atomically. A missing file starts empty.
func editConfig(configPath string, edit func(root *yaml.Node)) error {
	data, err := os.ReadFile(configPath) //nolint:gosec // G304: user config path
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}

	var doc yaml.Node
	if len(bytes.TrimSpace(data)) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}

	if doc.Kind == 0 || len(doc.Content) == 0 {
		doc = yaml.Node{
			Kind:    yaml.DocumentNode,
			Content: []*yaml.Node{{Kind: yaml.MappingNode}},
		}
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return fmt.Errorf("parsing config: top level is not a mapping")
	}

	edit(root)

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&doc); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_ = encoder.Close()

	return writeAtomic(configPath, buf.Bytes())
}

// writeAtomic writes data to a temp file next to path, then renames it.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".glance.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(data); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}
