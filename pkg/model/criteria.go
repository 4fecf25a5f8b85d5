package model

import (
	"fmt"
	"reflect"
)

// Criteria is an immutable, ordered collection of documents of one model.
// Filtering returns a new Criteria.
type Criteria struct {
	model *Model
	docs  []*Document
}

// NewCriteria wraps docs.
func NewCriteria(m *Model, docs []*Document) *Criteria {
	return &Criteria{model: m, docs: docs}
}

// Model returns the model of the collection.
func (c *Criteria) Model() *Model { return c.model }

// Filter keeps the documents for which keep returns true.
func (c *Criteria) Filter(keep func(*Document) bool) *Criteria {
	var out []*Document
	for _, d := range c.docs {
		if keep(d) {
			out = append(out, d)
		}
	}
	return &Criteria{model: c.model, docs: out}
}

// Where keeps documents whose field equals value.
func (c *Criteria) Where(field string, value any) *Criteria {
	return c.Filter(func(d *Document) bool {
		return sameValue(d.ReadAttribute(field), value)
	})
}

// Contains keeps documents whose sequence field includes value.
func (c *Criteria) Contains(field string, value any) *Criteria {
	want := ToSymbol(value)
	return c.Filter(func(d *Document) bool {
		v := d.ReadAttribute(field)
		if v == nil {
			return false
		}
		return containsSymbol(ToSymbols(v), want)
	})
}

// Scope applies a named scope declared on the model.
func (c *Criteria) Scope(name string) (*Criteria, error) {
	s, ok := c.model.scope(name)
	if !ok {
		return nil, fmt.Errorf("%s has no scope %q", c.model.Name(), name)
	}
	return s(c), nil
}

// Documents returns the documents in order.
func (c *Criteria) Documents() []*Document {
	return append([]*Document(nil), c.docs...)
}

// IDs returns the document IDs in order.
func (c *Criteria) IDs() []string {
	ids := make([]string, len(c.docs))
	for i, d := range c.docs {
		ids[i] = d.ID
	}
	return ids
}

// Len returns the number of documents.
func (c *Criteria) Len() int { return len(c.docs) }

func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	as, aok := scalarSymbol(a)
	bs, bok := scalarSymbol(b)
	if aok && bok {
		return as == bs
	}
	return reflect.DeepEqual(a, b)
}

func scalarSymbol(v any) (Symbol, bool) {
	switch x := v.(type) {
	case Symbol:
		return x, true
	case string:
		return Symbol(x), true
	}
	return "", false
}
