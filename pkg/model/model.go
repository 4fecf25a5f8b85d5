// Package model is a small document-model framework on top of core.Repository.
//
// A Model plays the role of a class: it owns field declarations, validation
// rules, named scopes, constants and a member table. Documents are instances
// of a Model and carry typed attributes that round-trip through
// core.Document metadata.
package model

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/aretw0/loamenum/pkg/core"
	"github.com/go-openapi/inflect"
	"github.com/google/uuid"
)

// Saver persists a document. core.Repository satisfies it.
type Saver interface {
	Save(ctx context.Context, doc core.Document) error
}

// Model is the declaration target for fields, validations, scopes, constants
// and members. It is safe for concurrent use.
type Model struct {
	name       string
	collection string
	newID      func() string

	mu         sync.RWMutex
	frozen     bool
	fields     map[string]FieldSpec
	fieldOrder []string
	rules      []Rule
	scopes     map[string]Scope
	scopeOrder []string
	constants  map[string][]Symbol
	members    map[string]Member
}

// Option configures a Model.
type Option func(*Model)

// WithCollection overrides the ID prefix of documents created by the model.
// The default is the pluralized, underscored model name ("BlogPost" -> "blog_posts").
func WithCollection(collection string) Option {
	return func(m *Model) {
		m.collection = strings.Trim(collection, "/")
	}
}

// WithIDGenerator replaces the random UUID used for new document IDs.
func WithIDGenerator(fn func() string) Option {
	return func(m *Model) {
		if fn != nil {
			m.newID = fn
		}
	}
}

// New creates an empty, unfrozen model.
func New(name string, opts ...Option) *Model {
	m := &Model{
		name:       name,
		collection: inflect.Underscore(inflect.Pluralize(name)),
		newID:      uuid.NewString,
		fields:     make(map[string]FieldSpec),
		scopes:     make(map[string]Scope),
		constants:  make(map[string][]Symbol),
		members:    make(map[string]Member),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Name returns the model name.
func (m *Model) Name() string { return m.name }

// Collection returns the ID prefix of the model's documents.
func (m *Model) Collection() string { return m.collection }

// Freeze rejects any further declaration.
func (m *Model) Freeze() {
	m.mu.Lock()
	m.frozen = true
	m.mu.Unlock()
}

// Frozen reports whether Freeze was called.
func (m *Model) Frozen() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.frozen
}

// DeclareField registers a stored field.
func (m *Model) DeclareField(spec FieldSpec) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.frozen {
		return fmt.Errorf("declare field %q on %s: %w", spec.Name, m.name, ErrFrozen)
	}
	if _, ok := m.fields[spec.Name]; ok {
		return &DuplicateDefinitionError{Model: m.name, Kind: "field", Name: spec.Name}
	}
	m.fields[spec.Name] = spec
	m.fieldOrder = append(m.fieldOrder, spec.Name)
	return nil
}

// Field returns the declaration of a field.
func (m *Model) Field(name string) (FieldSpec, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.fields[name]
	return f, ok
}

// Fields returns the declared fields in declaration order.
func (m *Model) Fields() []FieldSpec {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]FieldSpec, 0, len(m.fieldOrder))
	for _, name := range m.fieldOrder {
		out = append(out, m.fields[name])
	}
	return out
}

// DeclareValidation registers a rule checked by Document.Validate.
func (m *Model) DeclareValidation(rule Rule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.frozen {
		return fmt.Errorf("declare validation on %s.%s: %w", m.name, rule.Field, ErrFrozen)
	}
	rule.Allowed = append([]Symbol(nil), rule.Allowed...)
	m.rules = append(m.rules, rule)
	return nil
}

// Rules returns the declared validations.
func (m *Model) Rules() []Rule {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Rule(nil), m.rules...)
}

// DeclareScope registers a named scope.
func (m *Model) DeclareScope(name string, scope Scope) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.frozen {
		return fmt.Errorf("declare scope %q on %s: %w", name, m.name, ErrFrozen)
	}
	if _, ok := m.scopes[name]; ok {
		return &DuplicateDefinitionError{Model: m.name, Kind: "scope", Name: name}
	}
	m.scopes[name] = scope
	m.scopeOrder = append(m.scopeOrder, name)
	return nil
}

// Scopes returns scope names in declaration order.
func (m *Model) Scopes() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.scopeOrder...)
}

func (m *Model) scope(name string) (Scope, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.scopes[name]
	return s, ok
}

// SetConstant registers a named, ordered value set.
func (m *Model) SetConstant(name string, values []Symbol) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.frozen {
		return fmt.Errorf("set constant %q on %s: %w", name, m.name, ErrFrozen)
	}
	if _, ok := m.constants[name]; ok {
		return &DuplicateDefinitionError{Model: m.name, Kind: "constant", Name: name}
	}
	m.constants[name] = append([]Symbol{}, values...)
	return nil
}

// Constant returns a copy of a constant's values.
func (m *Model) Constant(name string) ([]Symbol, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.constants[name]
	if !ok {
		return nil, false
	}
	return append([]Symbol{}, v...), true
}

// Constants returns the sorted constant names.
func (m *Model) Constants() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.constants))
	for name := range m.constants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefineMember attaches a member to the model.
func (m *Model) DefineMember(member Member) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.frozen {
		return fmt.Errorf("define member %q on %s: %w", member.Name, m.name, ErrFrozen)
	}
	if _, ok := m.members[member.Name]; ok {
		return &DuplicateDefinitionError{Model: m.name, Kind: "member", Name: member.Name}
	}
	m.members[member.Name] = member
	return nil
}

// Member looks up a member by its full name ("draft?", "status=").
func (m *Model) Member(name string) (Member, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mem, ok := m.members[name]
	return mem, ok
}

// Members returns the sorted member names.
func (m *Model) Members() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.members))
	for name := range m.members {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New creates a document with a fresh ID and every field default applied.
func (m *Model) New(saver Saver) *Document {
	d := &Document{
		ID:    m.collection + "/" + m.newID(),
		model: m,
		attrs: make(core.Metadata),
		saver: saver,
	}
	for _, f := range m.Fields() {
		if f.Default != nil {
			d.attrs[f.Name] = f.DefaultValue()
		}
	}
	return d
}

// Load wraps a stored document, casting declared fields into their Go shape.
func (m *Model) Load(doc core.Document, saver Saver) *Document {
	d := &Document{
		ID:        doc.ID,
		Content:   doc.Content,
		model:     m,
		attrs:     make(core.Metadata, len(doc.Metadata)),
		saver:     saver,
		persisted: true,
	}
	for k, v := range doc.Metadata {
		if f, ok := m.Field(k); ok {
			v = f.Type.Cast(v)
		}
		d.attrs[k] = v
	}
	return d
}

// Find loads one document from repo. Bare IDs are resolved inside the model's collection.
func (m *Model) Find(ctx context.Context, repo core.Repository, id string) (*Document, error) {
	if id != "" && !strings.Contains(id, "/") && m.collection != "" {
		id = m.collection + "/" + id
	}
	svc := service(repo)
	doc, err := svc.GetDocument(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find %s %s: %w", m.name, id, err)
	}
	return m.Load(doc, svc), nil
}

// All loads every document of the model's collection from repo.
func (m *Model) All(ctx context.Context, repo core.Repository) (*Criteria, error) {
	svc := service(repo)
	docs, err := svc.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", m.name, err)
	}
	prefix := m.collection + "/"
	var out []*Document
	for _, doc := range docs {
		if m.collection != "" && !strings.HasPrefix(doc.ID, prefix) {
			continue
		}
		out = append(out, m.Load(doc, svc))
	}
	return NewCriteria(m, out), nil
}

// service wraps repo so loaded documents save through the empty ID check.
func service(repo core.Repository) *core.Service {
	return core.NewService(repo, nil)
}
