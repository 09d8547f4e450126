package store

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"mls-go/internal/model"
)

const frontmatterDelim = "---"

// splitFrontmatter separates a raw document into its front matter block and
// body text. A document without a leading "---" line has no front matter;
// the body is always returned verbatim, byte for byte.
func splitFrontmatter(content []byte) (block []byte, body string) {
	text := string(content)
	if !strings.HasPrefix(text, frontmatterDelim+"\n") && text != frontmatterDelim {
		return nil, text
	}
	rest := text[len(frontmatterDelim)+1:]
	end := strings.Index(rest, "\n"+frontmatterDelim)
	if end < 0 {
		return nil, text
	}
	block = []byte(rest[:end+1])
	after := rest[end+1+len(frontmatterDelim):]
	after = strings.TrimPrefix(after, "\n")
	return block, after
}

// parseDocument decodes a raw document into ordered properties plus body.
func parseDocument(content []byte) (model.Properties, string, error) {
	block, body := splitFrontmatter(content)
	if block == nil {
		return nil, body, nil
	}
	props, err := decodeProperties(block)
	if err != nil {
		return nil, "", err
	}
	return props, body, nil
}

// decodeProperties unmarshals a YAML mapping preserving key order.
func decodeProperties(block []byte) (model.Properties, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(block, &doc); err != nil {
		return nil, fmt.Errorf("parsing front matter: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, nil
	}
	mapping := doc.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("front matter is not a mapping")
	}

	props := make(model.Properties, 0, len(mapping.Content)/2)
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		keyNode, valNode := mapping.Content[i], mapping.Content[i+1]
		var value any
		if err := valNode.Decode(&value); err != nil {
			return nil, fmt.Errorf("decoding front matter key %q: %w", keyNode.Value, err)
		}
		props = append(props, model.Property{Key: keyNode.Value, Value: value})
	}
	return props, nil
}

// renderDocument serializes properties and body back into document bytes,
// keeping the property order exactly as given.
func renderDocument(props model.Properties, body string) ([]byte, error) {
	var buf bytes.Buffer
	if len(props) > 0 {
		mapping := &yaml.Node{Kind: yaml.MappingNode}
		for _, p := range props {
			keyNode := &yaml.Node{Kind: yaml.ScalarNode, Value: p.Key}
			valNode := &yaml.Node{}
			if err := valNode.Encode(p.Value); err != nil {
				return nil, fmt.Errorf("encoding front matter key %q: %w", p.Key, err)
			}
			mapping.Content = append(mapping.Content, keyNode, valNode)
		}

		buf.WriteString(frontmatterDelim + "\n")
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(mapping); err != nil {
			return nil, fmt.Errorf("encoding front matter: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encoding front matter: %w", err)
		}
		buf.WriteString(frontmatterDelim + "\n")
	}
	buf.WriteString(body)
	return buf.Bytes(), nil
}

// propsToMap flattens ordered properties into the map form used by
// folder-scoped index queries.
func propsToMap(props model.Properties) map[string]any {
	m := make(map[string]any, len(props))
	for _, p := range props {
		m[p.Key] = p.Value
	}
	return m
}

// docTitle returns the file name without its extension.
func docTitle(path string) string {
	base := path
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	return base
}
