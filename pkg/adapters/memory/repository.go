// Package memory provides a process-local core.Repository.
// Nothing is written to disk; contents vanish with the process.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/introspection"

	"github.com/aretw0/loamenum/pkg/core"
)

// Repository implements core.Repository on a guarded map.
type Repository struct {
	mu   sync.RWMutex
	docs map[string]core.Document
}

// NewRepository creates an empty in-memory repository.
func NewRepository() *Repository {
	return &Repository{docs: make(map[string]core.Document)}
}

// Initialize is a no-op.
func (r *Repository) Initialize(ctx context.Context) error { return nil }

// Save stores a copy of the document.
func (r *Repository) Save(ctx context.Context, doc core.Document) error {
	if doc.ID == "" {
		return core.ErrEmptyID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc.Metadata = doc.Metadata.Clone()
	r.docs[doc.ID] = doc
	return nil
}

// Get returns a copy of the stored document.
func (r *Repository) Get(ctx context.Context, id string) (core.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.docs[id]
	if !ok {
		return core.Document{}, fmt.Errorf("%s: %w", id, core.ErrNotFound)
	}
	doc.Metadata = doc.Metadata.Clone()
	return doc, nil
}

// List returns every document ordered by ID.
func (r *Repository) List(ctx context.Context) ([]core.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	docs := make([]core.Document, 0, len(r.docs))
	for _, doc := range r.docs {
		doc.Metadata = doc.Metadata.Clone()
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

// Delete removes a document.
func (r *Repository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[id]; !ok {
		return fmt.Errorf("%s: %w", id, core.ErrNotFound)
	}
	delete(r.docs, id)
	return nil
}

// Len reports the number of stored documents.
func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.docs)
}

// State implements introspection.Introspectable.
func (r *Repository) State() any {
	return map[string]int{"documents": r.Len()}
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "memory"
}

var _ core.Repository = (*Repository)(nil)
var _ introspection.Introspectable = (*Repository)(nil)
var _ introspection.Component = (*Repository)(nil)
