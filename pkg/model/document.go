package model

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aretw0/loamenum/pkg/core"
)

// Document is an instance of a Model. It is not safe for concurrent use.
type Document struct {
	ID      string
	Content string

	model     *Model
	attrs     core.Metadata
	saver     Saver
	failures  []Failure
	persisted bool
}

// Model returns the document's model.
func (d *Document) Model() *Model { return d.model }

// Persisted reports whether the document was loaded from or saved to a store.
func (d *Document) Persisted() bool { return d.persisted }

// ReadAttribute returns the raw stored value of field, or nil when unset.
func (d *Document) ReadAttribute(field string) any {
	return d.attrs[field]
}

// WriteAttribute stores v under field without validating or saving.
func (d *Document) WriteAttribute(field string, v any) {
	if d.attrs == nil {
		d.attrs = make(core.Metadata)
	}
	d.attrs[field] = v
}

// Attributes returns a shallow copy of the attributes.
func (d *Document) Attributes() core.Metadata {
	return d.attrs.Clone()
}

// UpdateAndPersist writes field and saves the document immediately. Any
// failure, validation included, comes back as a *PersistenceError.
func (d *Document) UpdateAndPersist(ctx context.Context, field string, v any) error {
	d.WriteAttribute(field, v)
	if err := d.Save(ctx); err != nil {
		return &PersistenceError{Model: d.model.Name(), ID: d.ID, Field: field, Err: err}
	}
	return nil
}

// Validate runs every rule of the model and records the failures.
func (d *Document) Validate() bool {
	d.failures = nil
	for _, rule := range d.model.Rules() {
		if f, failed := rule.Check(d.attrs[rule.Field]); failed {
			d.failures = append(d.failures, f)
		}
	}
	return len(d.failures) == 0
}

// Valid is Validate under its usual name.
func (d *Document) Valid() bool { return d.Validate() }

// Errors returns the failures of the last validation.
func (d *Document) Errors() []Failure {
	return append([]Failure(nil), d.failures...)
}

// Save validates and persists the document.
func (d *Document) Save(ctx context.Context) error {
	if !d.Validate() {
		return &ValidationError{Model: d.model.Name(), ID: d.ID, Failures: d.Errors()}
	}
	if d.saver == nil {
		return ErrDetached
	}
	if err := d.saver.Save(ctx, d.Core()); err != nil {
		return err
	}
	d.persisted = true
	return nil
}

// Core converts the document into its storage form, dumping declared fields.
func (d *Document) Core() core.Document {
	meta := make(core.Metadata, len(d.attrs))
	for k, v := range d.attrs {
		if f, ok := d.model.Field(k); ok {
			v = f.Type.Dump(v)
		}
		meta[k] = v
	}
	return core.Document{ID: d.ID, Content: d.Content, Metadata: meta}
}

// Decode fills v, usually a struct with json tags, from the stored attributes.
func (d *Document) Decode(v any) error {
	data, err := json.Marshal(d.Core().Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal attributes of %s: %w", d.ID, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", d.ID, err)
	}
	return nil
}

// Is calls the predicate member name ("draft" or "draft?").
func (d *Document) Is(name string) (bool, error) {
	mem, err := d.member(withSuffix(name, "?"), PredicateMember)
	if err != nil {
		return false, err
	}
	return mem.Predicate(d), nil
}

// Bang calls the mutator member name ("publish" or "publish!").
func (d *Document) Bang(ctx context.Context, name string) error {
	mem, err := d.member(withSuffix(name, "!"), MutatorMember)
	if err != nil {
		return err
	}
	return mem.Mutator(ctx, d)
}

// Get calls the getter member name.
func (d *Document) Get(name string) (any, error) {
	mem, err := d.member(name, GetterMember)
	if err != nil {
		return nil, err
	}
	return mem.Getter(d), nil
}

// Set calls the setter member name ("status" or "status=").
func (d *Document) Set(name string, v any) error {
	mem, err := d.member(withSuffix(name, "="), SetterMember)
	if err != nil {
		return err
	}
	mem.Setter(d, v)
	return nil
}

func (d *Document) member(name string, kind MemberKind) (Member, error) {
	mem, ok := d.model.Member(name)
	if !ok || mem.Kind != kind {
		return Member{}, fmt.Errorf("%s#%s: %w", d.model.Name(), name, ErrUnknownMember)
	}
	return mem, nil
}

func withSuffix(name, suffix string) string {
	if strings.HasSuffix(name, suffix) {
		return name
	}
	return name + suffix
}
