package enum

import (
	"context"
	"fmt"

	"github.com/aretw0/loamenum/pkg/model"
	"github.com/aretw0/loamenum/pkg/trace"
)

// Enum is a declared enumerated attribute. It is immutable once returned by
// Declare; its typed accessors dispatch through the same members that are
// registered on the model, so they trace the same way.
type Enum struct {
	model    *model.Model
	name     string
	field    string
	constant string
	values   []model.Symbol
	options  Options
	tracer   trace.Tracer
}

// Model returns the model the enum was declared on.
func (e *Enum) Model() *model.Model { return e.model }

// Name returns the attribute name.
func (e *Enum) Name() string { return e.name }

// Field returns the stored field name.
func (e *Enum) Field() string { return e.field }

// Constant returns the name of the value-set constant.
func (e *Enum) Constant() string { return e.constant }

// Values returns a copy of the allowed values in declaration order.
func (e *Enum) Values() []model.Symbol { return append([]model.Symbol{}, e.values...) }

// Options returns the resolved options.
func (e *Enum) Options() Options {
	o := e.options
	if d, ok := o.Default.([]model.Symbol); ok {
		o.Default = append([]model.Symbol{}, d...)
	}
	return o
}

// Multiple reports whether the attribute stores a sequence.
func (e *Enum) Multiple() bool { return e.options.Multiple }

func (e *Enum) allows(v model.Symbol) bool {
	for _, a := range e.values {
		if a == v {
			return true
		}
	}
	return false
}

func (e *Enum) check(d *model.Document, v model.Symbol) error {
	if d.Model() != e.model {
		return fmt.Errorf("document %s is not a %s", d.ID, e.model.Name())
	}
	if !e.allows(v) {
		return fmt.Errorf("%s#%s has no value %q: %w", e.model.Name(), e.name, v, model.ErrUnknownMember)
	}
	return nil
}

// Is calls the v? member on d.
func (e *Enum) Is(d *model.Document, v model.Symbol) (bool, error) {
	if err := e.check(d, v); err != nil {
		return false, err
	}
	return d.Is(predicateName(v))
}

// Bang calls the v! member on d.
func (e *Enum) Bang(ctx context.Context, d *model.Document, v model.Symbol) error {
	if err := e.check(d, v); err != nil {
		return err
	}
	return d.Bang(ctx, mutatorName(v))
}

// Get calls the getter on d and returns the raw stored value.
func (e *Enum) Get(d *model.Document) (any, error) {
	return d.Get(e.name)
}

// Set calls the setter on d.
func (e *Enum) Set(d *model.Document, v any) error {
	return d.Set(e.name, v)
}

// Value returns the scalar value held by d, if any.
func (e *Enum) Value(d *model.Document) (model.Symbol, bool) {
	raw, err := e.Get(d)
	if err != nil || raw == nil {
		return "", false
	}
	return model.ToSymbol(raw), true
}

// Selected returns the values held by d in multiple mode, or the scalar value
// as a one-element slice.
func (e *Enum) Selected(d *model.Document) []model.Symbol {
	raw, err := e.Get(d)
	if err != nil {
		return nil
	}
	return model.ToSymbols(raw)
}
