package field

import (
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Document is the on-disk shape of a field tree definition. Rules and
// Attributes carry form-level declarations that sit beside the tree, the same
// way a component declares its own rules and labels.
type Document struct {
	Name       string              `json:"name,omitempty" yaml:"name,omitempty"`
	Fields     []Field             `json:"fields" yaml:"fields"`
	Rules      map[string][]string `json:"rules,omitempty" yaml:"rules,omitempty"`
	Attributes map[string]string   `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Messages   map[string]string   `json:"messages,omitempty" yaml:"messages,omitempty"`
}

// LoadFile reads a JSON or YAML definition from disk.
func LoadFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("field: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// LoadFS reads a JSON or YAML definition from fsys.
func LoadFS(fsys fs.FS, path string) (Document, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return Document{}, fmt.Errorf("field: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes a definition, trying JSON first and falling back to YAML. The
// resulting tree is normalised and checked for duplicate keys.
func Parse(data []byte, source string) (Document, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Document{}, fmt.Errorf("field: file %s is empty", source)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		doc = Document{}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return Document{}, fmt.Errorf("field: parse %s: invalid JSON or YAML", source)
		}
	}

	fields, err := normaliseFields(doc.Fields, source)
	if err != nil {
		return Document{}, err
	}
	doc.Fields = fields

	if _, err := NewTree(doc.Fields); err != nil {
		return Document{}, fmt.Errorf("field: file %s: %w", source, err)
	}
	return doc, nil
}

func normaliseFields(fields []Field, source string) ([]Field, error) {
	if len(fields) == 0 {
		return nil, nil
	}
	out := make([]Field, 0, len(fields))
	for idx, f := range fields {
		f.ID = strings.TrimSpace(f.ID)
		f.Name = strings.TrimSpace(f.Name)
		f.Kind = Kind(strings.ToLower(strings.TrimSpace(string(f.Kind))))
		if f.Kind == "" {
			f.Kind = inferKind(f)
		}

		switch f.Kind {
		case KindInput:
			if f.Type == "" {
				f.Type = "text"
			}
		case KindFile:
			if f.Visibility == "" {
				f.Visibility = VisibilityPrivate
			}
			if f.Visibility != VisibilityPrivate && f.Visibility != VisibilityPublic {
				return nil, fmt.Errorf("field: file %s field %q has unknown visibility %q", source, f.Name, f.Visibility)
			}
		case KindTabs, KindTab, KindSection:
		default:
			return nil, fmt.Errorf("field: file %s entry %d has unknown kind %q", source, idx, f.Kind)
		}

		if f.Key() == "" {
			return nil, fmt.Errorf("field: file %s entry %d has no name or id", source, idx)
		}

		children, err := normaliseFields(f.Children, source)
		if err != nil {
			return nil, err
		}
		f.Children = children
		out = append(out, f)
	}
	return out, nil
}

func inferKind(f Field) Kind {
	switch {
	case f.Type == "file":
		return KindFile
	case len(f.Children) > 0:
		return KindSection
	default:
		return KindInput
	}
}
