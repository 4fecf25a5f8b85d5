package enum

import (
	"context"

	"github.com/aretw0/loamenum/pkg/model"
	"github.com/aretw0/loamenum/pkg/trace"
)

type memberKind int

const (
	kindScope memberKind = iota
	kindInquirer
	kindValueSetter
	kindGetter
	kindSetter
)

func (e *Enum) traceKind(k memberKind) trace.Kind {
	if e.options.Multiple {
		switch k {
		case kindInquirer:
			return trace.KindArrayInquirer
		case kindValueSetter:
			return trace.KindArrayValueSetter
		case kindGetter:
			return trace.KindArrayGetter
		case kindSetter:
			return trace.KindArraySetter
		}
	}
	switch k {
	case kindInquirer:
		return trace.KindFieldInquirer
	case kindValueSetter:
		return trace.KindFieldValueSetter
	case kindGetter:
		return trace.KindFieldGetter
	case kindSetter:
		return trace.KindFieldSetter
	}
	return trace.KindScope
}

func (e *Enum) trace(k memberKind, member string) {
	trace.Safe(e.tracer, trace.Label{
		Kind:      e.traceKind(k),
		Model:     e.model.Name(),
		Attribute: e.name,
		Field:     e.field,
		Member:    member,
	})
}

func predicateName(v model.Symbol) string { return v.Identifier() + "?" }

func mutatorName(v model.Symbol) string { return v.Identifier() + "!" }

// synthesize defines the per-value and attribute members.
func (e *Enum) synthesize() error {
	members := make([]model.Member, 0, 2*len(e.values)+2)
	for _, v := range e.values {
		members = append(members,
			model.Member{Name: predicateName(v), Kind: model.PredicateMember, Predicate: e.inquirer(v)},
			model.Member{Name: mutatorName(v), Kind: model.MutatorMember, Mutator: e.valueSetter(v)},
		)
	}
	members = append(members,
		model.Member{Name: e.name, Kind: model.GetterMember, Getter: e.getter()},
		model.Member{Name: e.name + "=", Kind: model.SetterMember, Setter: e.setter()},
	)
	for _, m := range members {
		if err := e.model.DefineMember(m); err != nil {
			return err
		}
	}
	return nil
}

func (e *Enum) inquirer(v model.Symbol) func(*model.Document) bool {
	name := predicateName(v)
	return func(d *model.Document) bool {
		e.trace(kindInquirer, name)
		current := d.ReadAttribute(e.field)
		if e.options.Multiple {
			if current == nil {
				return false
			}
			for _, s := range model.ToSymbols(current) {
				if s == v {
					return true
				}
			}
			return false
		}
		return current != nil && model.ToSymbol(current) == v
	}
}

func (e *Enum) valueSetter(v model.Symbol) func(context.Context, *model.Document) error {
	name := mutatorName(v)
	return func(ctx context.Context, d *model.Document) error {
		e.trace(kindValueSetter, name)
		if e.options.Multiple {
			var next []model.Symbol
			if current := d.ReadAttribute(e.field); current != nil {
				next = model.ToSymbols(current)
			}
			return d.UpdateAndPersist(ctx, e.field, append(next, v))
		}
		return d.UpdateAndPersist(ctx, e.field, v)
	}
}

func (e *Enum) getter() func(*model.Document) any {
	return func(d *model.Document) any {
		e.trace(kindGetter, e.name)
		return d.ReadAttribute(e.field)
	}
}

func (e *Enum) setter() func(*model.Document, any) {
	name := e.name + "="
	return func(d *model.Document, v any) {
		e.trace(kindSetter, name)
		if e.options.Multiple {
			d.WriteAttribute(e.field, model.ToSymbols(v))
			return
		}
		if model.IsNil(v) {
			d.WriteAttribute(e.field, nil)
			return
		}
		d.WriteAttribute(e.field, model.ToSymbol(v))
	}
}
