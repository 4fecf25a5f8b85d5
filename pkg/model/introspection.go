package model

import (
	"github.com/aretw0/introspection"
)

// FieldState describes a declared field.
type FieldState struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Default any    `json:"default,omitempty"`
}

// RuleState describes a declared validation.
type RuleState struct {
	Field       string   `json:"field"`
	Kind        string   `json:"kind"`
	Allowed     []string `json:"allowed"`
	AllowAbsent bool     `json:"allow_absent"`
}

// ModelState exposes the declarations of a model.
type ModelState struct {
	Name        string              `json:"name"`
	Collection  string              `json:"collection"`
	Frozen      bool                `json:"frozen"`
	Fields      []FieldState        `json:"fields"`
	Validations []RuleState         `json:"validations"`
	Scopes      []string            `json:"scopes"`
	Constants   map[string][]string `json:"constants"`
	Members     []string            `json:"members"`
}

// State implements introspection.Introspectable.
func (m *Model) State() any {
	st := ModelState{
		Name:       m.name,
		Collection: m.collection,
		Frozen:     m.Frozen(),
		Scopes:     m.Scopes(),
		Members:    m.Members(),
		Constants:  make(map[string][]string),
	}
	for _, f := range m.Fields() {
		st.Fields = append(st.Fields, FieldState{Name: f.Name, Type: f.Type.String(), Default: f.Type.Dump(f.Default)})
	}
	for _, r := range m.Rules() {
		st.Validations = append(st.Validations, RuleState{
			Field:       r.Field,
			Kind:        string(r.Kind),
			Allowed:     symbolStrings(r.Allowed),
			AllowAbsent: r.AllowAbsent,
		})
	}
	for _, name := range m.Constants() {
		values, _ := m.Constant(name)
		st.Constants[name] = symbolStrings(values)
	}
	return st
}

// ComponentType implements introspection.Component.
func (m *Model) ComponentType() string {
	return "model"
}

func symbolStrings(set []Symbol) []string {
	out := make([]string, len(set))
	for i, s := range set {
		out[i] = string(s)
	}
	return out
}

var _ introspection.Introspectable = (*Model)(nil)
var _ introspection.Component = (*Model)(nil)
