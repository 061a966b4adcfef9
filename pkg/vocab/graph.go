// Package vocab projects a vocabulary graph into a grouped markdown
// document. It is independent of the rewrite engine.
package vocab

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Subcategory is a named group of terms inside a category.
type Subcategory struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Category is a top-level term grouping. Declaration order controls
// output order.
type Category struct {
	ID            string        `json:"id" yaml:"id"`
	Name          string        `json:"name" yaml:"name"`
	Description   string        `json:"description,omitempty" yaml:"description,omitempty"`
	Subcategories []Subcategory `json:"subcategories,omitempty" yaml:"subcategories,omitempty"`
}

// Relationship is one relation kind with its ordered targets.
type Relationship struct {
	Kind    string
	Targets []string
}

// Relationships preserves the document order of relation kinds, which
// generic map decoding would lose.
type Relationships []Relationship

// UnmarshalJSON decodes a relationships object keeping key order.
func (r *Relationships) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*r = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("relationships: expected object, got %v", tok)
	}

	var rels Relationships
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("relationships: expected string key, got %v", keyTok)
		}

		var targets []string
		if err := dec.Decode(&targets); err != nil {
			return fmt.Errorf("relationships[%s]: %w", key, err)
		}
		rels = append(rels, Relationship{Kind: key, Targets: targets})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	*r = rels
	return nil
}

// UnmarshalYAML decodes a relationships mapping keeping key order.
func (r *Relationships) UnmarshalYAML(value *yaml.Node) error {
	if value.Tag == "!!null" {
		*r = nil
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("relationships: expected mapping, got %s", value.Tag)
	}

	var rels Relationships
	for i := 0; i+1 < len(value.Content); i += 2 {
		keyNode := value.Content[i]
		valNode := value.Content[i+1]

		var targets []string
		if err := valNode.Decode(&targets); err != nil {
			return fmt.Errorf("relationships[%s]: %w", keyNode.Value, err)
		}
		rels = append(rels, Relationship{Kind: keyNode.Value, Targets: targets})
	}
	*r = rels
	return nil
}

// Term is one vocabulary entry.
type Term struct {
	Category      string        `json:"category" yaml:"category"`
	Subcategory   string        `json:"subcategory,omitempty" yaml:"subcategory,omitempty"`
	ID            string        `json:"id,omitempty" yaml:"id,omitempty"`
	Name          string        `json:"name,omitempty" yaml:"name,omitempty"`
	Type          string        `json:"type,omitempty" yaml:"type,omitempty"`
	Taxonomy      string        `json:"taxonomy,omitempty" yaml:"taxonomy,omitempty"`
	Definition    string        `json:"definition,omitempty" yaml:"definition,omitempty"`
	Relationships Relationships `json:"relationships,omitempty" yaml:"relationships,omitempty"`
	UsageContext  string        `json:"usage_context,omitempty" yaml:"usage_context,omitempty"`
	CodeReference string        `json:"code_reference,omitempty" yaml:"code_reference,omitempty"`
}

// Graph is the root of a vocabulary document.
type Graph struct {
	Categories []Category `json:"categories" yaml:"categories"`
	Terms      []Term     `json:"terms" yaml:"terms"`
}

// Parse decodes graph content in the named format ("json" or "yaml").
func Parse(data []byte, format string) (*Graph, error) {
	var g Graph
	switch format {
	case "json":
		if err := json.Unmarshal(data, &g); err != nil {
			return nil, fmt.Errorf("parse json graph: %w", err)
		}
	case "yaml":
		if err := yaml.Unmarshal(data, &g); err != nil {
			return nil, fmt.Errorf("parse yaml graph: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown graph format %q (want json or yaml)", format)
	}
	return &g, nil
}

// Load reads and decodes a graph file, picking the format from the
// file extension.
func Load(path string) (*Graph, error) {
	format, err := formatForPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read graph: %w", err)
	}
	return Parse(data, format)
}

// formatForPath maps a file extension to a graph format.
func formatForPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json", nil
	case ".yaml", ".yml":
		return "yaml", nil
	default:
		return "", fmt.Errorf("unsupported graph extension %q (want .json, .yaml, or .yml)", filepath.Ext(path))
	}
}
