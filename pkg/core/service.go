package core

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Service handles the business rules shared by every document write.
type Service struct {
	repo   Repository
	logger *slog.Logger
	mu     sync.RWMutex

	saves   atomic.Uint64
	reads   atomic.Uint64
	deletes atomic.Uint64
}

// NewService creates a new Service. A nil logger falls back to slog.Default().
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// Repository exposes the wrapped repository.
func (s *Service) Repository() Repository {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.repo
}

// SaveDocument saves a document.
func (s *Service) SaveDocument(ctx context.Context, id string, content string, metadata Metadata) error {
	if id == "" {
		return ErrEmptyID
	}

	doc := Document{
		ID:       id,
		Content:  content,
		Metadata: metadata,
	}

	s.logger.Debug("saving document", "id", id)
	if err := s.repo.Save(ctx, doc); err != nil {
		return err
	}
	s.saves.Add(1)
	return nil
}

// Save stores doc through SaveDocument, so a Service can back model documents.
func (s *Service) Save(ctx context.Context, doc Document) error {
	return s.SaveDocument(ctx, doc.ID, doc.Content, doc.Metadata)
}

// GetDocument retrieves a document.
func (s *Service) GetDocument(ctx context.Context, id string) (Document, error) {
	if id == "" {
		return Document{}, ErrEmptyID
	}
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return Document{}, err
	}
	s.reads.Add(1)
	return doc, nil
}

// ListDocuments retrieves all documents.
func (s *Service) ListDocuments(ctx context.Context) ([]Document, error) {
	return s.repo.List(ctx)
}

// DeleteDocument removes a document.
func (s *Service) DeleteDocument(ctx context.Context, id string) error {
	if id == "" {
		return ErrEmptyID
	}
	s.logger.Debug("deleting document", "id", id)
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.deletes.Add(1)
	return nil
}

// Watch observes changes in the repository if supported.
func (s *Service) Watch(ctx context.Context, pattern string) (<-chan Event, error) {
	w, ok := s.repo.(Watchable)
	if !ok {
		return nil, errors.New("repository does not support watching")
	}
	return w.Watch(ctx, pattern)
}
