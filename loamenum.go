package loamenum

import (
	"context"
	"log/slog"

	"github.com/aretw0/loamenum/internal/platform"
	"github.com/aretw0/loamenum/pkg/core"
	"github.com/aretw0/loamenum/pkg/enum"
	"github.com/aretw0/loamenum/pkg/model"
	"github.com/aretw0/loamenum/pkg/schema"
)

// --- Types ---

// Symbol is a public alias for model.Symbol.
type Symbol = model.Symbol

// Model is a public alias for model.Model.
type Model = model.Model

// Document is a public alias for model.Document.
type Document = model.Document

// Enum is a public alias for enum.Enum.
type Enum = enum.Enum

// --- Configuration ---

// Option defines a functional option for opening a store.
type Option = platform.Option

// WithAdapter selects the storage adapter: "fs" (default), "sqlite" or "memory".
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithRepository injects a custom storage adapter.
func WithRepository(repo core.Repository) Option {
	return platform.WithRepository(repo)
}

// WithReadOnly rejects writes.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithMustExist ensures the vault directory already exists.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithDevSafety controls the temporary-directory sandbox used under `go run`.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// WithSystemDir sets the hidden directory name of fs vaults.
func WithSystemDir(name string) Option {
	return platform.WithSystemDir(name)
}

// WithTable sets the sqlite table name.
func WithTable(table string) Option {
	return platform.WithTable(table)
}

// WithWatcherErrorHandler registers a callback for fs watcher errors.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// --- Stores ---

// Open opens and initializes the repository at uri.
func Open(ctx context.Context, uri string, opts ...Option) (core.Repository, error) {
	return platform.Open(ctx, uri, opts...)
}

// New opens a store and wraps it in a core.Service.
func New(ctx context.Context, uri string, opts ...Option) (*core.Service, error) {
	return platform.New(ctx, uri, opts...)
}

// FindRoot walks upwards from dir looking for a vault root.
func FindRoot(dir string) (string, error) {
	return platform.FindRoot(dir)
}

// --- Declarations ---

// NewModel creates an empty model.
func NewModel(name string, opts ...model.Option) *Model {
	return model.New(name, opts...)
}

// Declare declares an enumerated attribute on m with the default compiler.
func Declare(m *Model, name string, values []Symbol, opts ...enum.Option) (*Enum, error) {
	return enum.Declare(m, name, values, opts...)
}

// LoadSchema reads a schema file and builds its models with c. A nil
// compiler uses enum.NewCompiler().
func LoadSchema(path string, c *enum.Compiler) (*schema.Registry, error) {
	f, err := schema.Load(path)
	if err != nil {
		return nil, err
	}
	if c == nil {
		c = enum.NewCompiler()
	}
	return f.Build(c)
}
