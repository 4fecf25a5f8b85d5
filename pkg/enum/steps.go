package enum

import (
	"fmt"

	"github.com/aretw0/loamenum/pkg/model"
)

func (e *Enum) checkDefault() error {
	if !e.options.Validate || e.options.Default == nil {
		return nil
	}
	var defaults []model.Symbol
	if e.options.Multiple {
		defaults = e.options.Default.([]model.Symbol)
	} else {
		defaults = []model.Symbol{e.options.Default.(model.Symbol)}
	}
	for _, d := range defaults {
		if !e.allows(d) {
			return &model.ConfigurationError{
				Model:     e.model.Name(),
				Attribute: e.name,
				Reason:    fmt.Sprintf("default %q is not an allowed value", d),
			}
		}
	}
	return nil
}

// checkCollisions rejects names already present on the model, and pairs of
// values that map to the same member name ("in-progress" and "in_progress").
func (e *Enum) checkCollisions() error {
	m := e.model
	dup := func(kind, name string) error {
		return &model.DuplicateDefinitionError{Model: m.Name(), Kind: kind, Name: name}
	}

	if _, ok := m.Constant(e.constant); ok {
		return dup("constant", e.constant)
	}
	if _, ok := m.Field(e.field); ok {
		return dup("field", e.field)
	}
	scopes := make(map[string]bool)
	for _, s := range m.Scopes() {
		scopes[s] = true
	}
	members := make(map[string]bool)
	for _, name := range e.memberNames() {
		if members[name] {
			return dup("member", name)
		}
		members[name] = true
		if _, ok := m.Member(name); ok {
			return dup("member", name)
		}
	}
	for _, v := range e.values {
		if scopes[string(v)] {
			return dup("scope", string(v))
		}
	}
	return nil
}

func (e *Enum) memberNames() []string {
	names := make([]string, 0, 2*len(e.values)+2)
	for _, v := range e.values {
		names = append(names, predicateName(v), mutatorName(v))
	}
	return append(names, e.name, e.name+"=")
}

// register stores the value-set constant.
func (e *Enum) register() error {
	return e.model.SetConstant(e.constant, e.values)
}

// provision declares the backing field.
func (e *Enum) provision() error {
	typ := model.TypeSymbol
	if e.options.Multiple {
		typ = model.TypeSymbols
	}
	return e.model.DeclareField(model.FieldSpec{
		Name:    e.field,
		Type:    typ,
		Default: e.options.Default,
	})
}

// constrain declares the inclusion rule unless validation is off.
func (e *Enum) constrain() error {
	if !e.options.Validate {
		return nil
	}
	kind := model.Inclusion
	if e.options.Multiple {
		kind = model.CollectionInclusion
	}
	return e.model.DeclareValidation(model.Rule{
		Field:       e.field,
		Kind:        kind,
		Allowed:     e.values,
		AllowAbsent: !e.options.Required,
	})
}

// declareScopes declares one scope per value, named after the value.
func (e *Enum) declareScopes() error {
	for _, v := range e.values {
		if err := e.model.DeclareScope(string(v), e.scope(v)); err != nil {
			return err
		}
	}
	return nil
}

func (e *Enum) scope(v model.Symbol) model.Scope {
	return func(c *model.Criteria) *model.Criteria {
		e.trace(kindScope, string(v))
		if e.options.Multiple {
			return c.Contains(e.field, v)
		}
		return c.Where(e.field, v)
	}
}
