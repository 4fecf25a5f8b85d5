package schema

import (
	"fmt"
	"strings"

	"github.com/aretw0/loamenum/pkg/enum"
	"github.com/aretw0/loamenum/pkg/model"
)

// Entry is a built model with its enums in declaration order.
type Entry struct {
	Model *model.Model
	Enums []*enum.Enum
}

// Enum returns the enum declared for attribute.
func (e *Entry) Enum(attribute string) (*enum.Enum, bool) {
	for _, en := range e.Enums {
		if en.Name() == attribute {
			return en, true
		}
	}
	return nil, false
}

// Registry holds frozen models built from a schema.
type Registry struct {
	entries map[string]*Entry
	order   []string
}

// Build declares every model and enum with c and freezes the models.
func (f *File) Build(c *enum.Compiler) (*Registry, error) {
	r := &Registry{entries: make(map[string]*Entry)}
	for _, md := range f.Models {
		var mopts []model.Option
		if md.Collection != "" {
			mopts = append(mopts, model.WithCollection(md.Collection))
		}
		entry := &Entry{Model: model.New(md.Name, mopts...)}

		for _, ed := range md.Enums {
			opts, err := ed.Options()
			if err != nil {
				return nil, fmt.Errorf("model %s: %w", md.Name, err)
			}
			e, err := c.Declare(entry.Model, ed.Name, model.Symbols(ed.Values...), opts...)
			if err != nil {
				return nil, fmt.Errorf("model %s: %w", md.Name, err)
			}
			entry.Enums = append(entry.Enums, e)
		}
		entry.Model.Freeze()

		r.entries[md.Name] = entry
		r.order = append(r.order, md.Name)
	}
	return r, nil
}

// Model returns the entry of a model by name.
func (r *Registry) Model(name string) (*Entry, bool) {
	e, ok := r.entries[name]
	return e, ok
}

// Names returns model names in declaration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Entries returns the entries in declaration order.
func (r *Registry) Entries() []*Entry {
	out := make([]*Entry, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.entries[name])
	}
	return out
}

// ForID returns the entry whose collection prefixes id.
func (r *Registry) ForID(id string) (*Entry, bool) {
	for _, name := range r.order {
		e := r.entries[name]
		if strings.HasPrefix(id, e.Model.Collection()+"/") {
			return e, true
		}
	}
	return nil, false
}
