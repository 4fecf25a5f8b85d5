// Package schema reads model and enum declarations from YAML files.
//
//	models:
//	  - name: Post
//	    enums:
//	      - name: status
//	        values: [draft, published, archived]
//	      - name: tags
//	        values: [urgent, reviewed]
//	        multiple: true
//	        required: false
package schema

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/loamenum/pkg/enum"
	"github.com/aretw0/loamenum/pkg/model"
)

// File is a parsed schema document.
type File struct {
	Models []ModelDecl `yaml:"models"`
}

// ModelDecl declares one model.
type ModelDecl struct {
	Name       string     `yaml:"name"`
	Collection string     `yaml:"collection,omitempty"`
	Enums      []EnumDecl `yaml:"enums"`
}

// EnumDecl declares one enumerated attribute. Unset options keep the enum
// package defaults; an explicit `default: null` declares no default.
type EnumDecl struct {
	Name     string    `yaml:"name"`
	Values   []string  `yaml:"values"`
	Multiple bool      `yaml:"multiple,omitempty"`
	Default  yaml.Node `yaml:"default,omitempty"`
	Required *bool     `yaml:"required,omitempty"`
	Validate *bool     `yaml:"validate,omitempty"`
}

// Parse decodes and checks a schema document.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}
	if err := f.check(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Load reads a schema file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// LoadGlob reads and merges every schema file matching a doublestar pattern,
// in lexical order.
func LoadGlob(pattern string) (*File, error) {
	paths, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid schema pattern %q: %w", pattern, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no schema matches %q", pattern)
	}
	sort.Strings(paths)

	merged := &File{}
	for _, p := range paths {
		f, err := Load(p)
		if err != nil {
			return nil, err
		}
		merged.Models = append(merged.Models, f.Models...)
	}
	if err := merged.check(); err != nil {
		return nil, err
	}
	return merged, nil
}

func (f *File) check() error {
	seen := make(map[string]bool)
	var errs []error
	for i, m := range f.Models {
		switch {
		case m.Name == "":
			errs = append(errs, fmt.Errorf("models[%d]: name is required", i))
		case seen[m.Name]:
			errs = append(errs, fmt.Errorf("models[%d]: model %q declared twice", i, m.Name))
		}
		seen[m.Name] = true
		for j, e := range m.Enums {
			if e.Name == "" {
				errs = append(errs, fmt.Errorf("models[%d].enums[%d]: name is required", i, j))
			}
		}
	}
	return errors.Join(errs...)
}

// Options converts the declared options into enum options.
func (d EnumDecl) Options() ([]enum.Option, error) {
	opts := []enum.Option{enum.Multiple(d.Multiple)}
	if d.Default.Kind != 0 {
		def, err := decodeDefault(&d.Default)
		if err != nil {
			return nil, fmt.Errorf("enum %s: %w", d.Name, err)
		}
		opts = append(opts, enum.Default(def))
	}
	if d.Required != nil {
		opts = append(opts, enum.Required(*d.Required))
	}
	if d.Validate != nil {
		opts = append(opts, enum.Validate(*d.Validate))
	}
	return opts, nil
}

func decodeDefault(n *yaml.Node) (any, error) {
	switch {
	case n.Tag == "!!null":
		return nil, nil
	case n.Kind == yaml.SequenceNode:
		var vs []string
		if err := n.Decode(&vs); err != nil {
			return nil, fmt.Errorf("invalid default: %w", err)
		}
		return model.Symbols(vs...), nil
	case n.Kind == yaml.ScalarNode:
		return model.Symbol(n.Value), nil
	default:
		return nil, fmt.Errorf("invalid default at line %d", n.Line)
	}
}
