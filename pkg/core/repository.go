package core

import "context"

// Repository defines the contract for storing and retrieving documents.
// Adhering to this interface keeps models independent of the
// underlying storage mechanism (filesystem, SQL, memory).
type Repository interface {
	// Save persists a document. It creates if not exists, or replaces if it does.
	Save(ctx context.Context, doc Document) error

	// Get retrieves a document by its ID. Missing documents yield an error wrapping ErrNotFound.
	Get(ctx context.Context, id string) (Document, error)

	// List returns all available documents, ordered by ID.
	List(ctx context.Context) ([]Document, error)

	// Delete removes a document by its ID.
	Delete(ctx context.Context, id string) error

	// Initialize ensures the underlying storage is ready (create directories, schema migration).
	Initialize(ctx context.Context) error
}

// Watchable is implemented by repositories that can stream change events.
// The pattern is a doublestar glob matched against document IDs.
type Watchable interface {
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}
