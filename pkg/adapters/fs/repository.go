// Package fs implements core.Repository on a plain directory tree.
//
// Each document lives in one file whose extension selects the serializer:
// Markdown with YAML frontmatter (default), JSON or YAML. Document IDs are
// slash-separated paths relative to the root. Files using the default
// extension are addressed without it ("posts/hello" -> posts/hello.md);
// other files keep their extension in the ID ("posts/hello.json").
package fs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/loamenum/pkg/core"
)

// Config holds the configuration for the filesystem repository.
type Config struct {
	Path         string
	MustExist    bool
	ReadOnly     bool
	Logger       *slog.Logger
	SystemDir    string // e.g. ".loamenum"; skipped by List and Watch
	DefaultExt   string // e.g. ".md"
	ErrorHandler func(error)
}

// Repository implements core.Repository using the filesystem.
type Repository struct {
	Path        string
	config      Config
	serializers map[string]Serializer

	mu            sync.RWMutex
	watcherActive bool
	lastEvent     *time.Time
}

// NewRepository creates a new filesystem-backed repository.
func NewRepository(config Config) *Repository {
	if config.SystemDir == "" {
		config.SystemDir = ".loamenum"
	}
	if config.DefaultExt == "" {
		config.DefaultExt = ".md"
	}
	if !strings.HasPrefix(config.DefaultExt, ".") {
		config.DefaultExt = "." + config.DefaultExt
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Repository{
		Path:        config.Path,
		config:      config,
		serializers: DefaultSerializers(),
	}
}

// RegisterSerializer adds or replaces the serializer used for ext.
func (r *Repository) RegisterSerializer(ext string, s Serializer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.serializers[ext] = s
}

func (r *Repository) serializer(ext string) (Serializer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.serializers[ext]
	return s, ok
}

// Initialize ensures the root directory exists.
func (r *Repository) Initialize(ctx context.Context) error {
	if r.config.MustExist || r.config.ReadOnly {
		info, err := os.Stat(r.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("vault path does not exist: %s", r.Path)
		}
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("vault path is not a directory: %s", r.Path)
		}
		return nil
	}
	if err := os.MkdirAll(r.Path, 0755); err != nil {
		return fmt.Errorf("failed to create vault directory: %w", err)
	}
	return nil
}

// Save persists a document atomically.
func (r *Repository) Save(ctx context.Context, doc core.Document) error {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}
	if doc.ID == "" {
		return core.ErrEmptyID
	}

	filename, ext := r.filename(doc.ID)
	s, ok := r.serializer(ext)
	if !ok {
		return fmt.Errorf("unsupported extension %q for document %s", ext, doc.ID)
	}

	data, err := s.Serialize(doc)
	if err != nil {
		return fmt.Errorf("failed to serialize document: %w", err)
	}

	if err := writeFileAtomic(filepath.Join(r.Path, filename), data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	attrs := []any{"id", doc.ID}
	if reason, ok := ctx.Value(core.ChangeReasonKey).(string); ok && reason != "" {
		attrs = append(attrs, "reason", reason)
	}
	r.config.Logger.Debug("document saved", attrs...)
	return nil
}

// Get retrieves a document from the filesystem.
func (r *Repository) Get(ctx context.Context, id string) (core.Document, error) {
	if id == "" {
		return core.Document{}, core.ErrEmptyID
	}
	filename, ext := r.filename(id)
	s, ok := r.serializer(ext)
	if !ok {
		return core.Document{}, fmt.Errorf("unsupported extension %q for document %s", ext, id)
	}

	f, err := os.Open(filepath.Join(r.Path, filename))
	if err != nil {
		if os.IsNotExist(err) {
			return core.Document{}, fmt.Errorf("%s: %w", id, core.ErrNotFound)
		}
		return core.Document{}, err
	}
	defer f.Close()

	doc, err := s.Parse(f)
	if err != nil {
		return core.Document{}, fmt.Errorf("failed to parse document %s: %w", id, err)
	}
	doc.ID = id
	return *doc, nil
}

// List walks the tree and parses every supported file.
// Unparseable files are logged and skipped.
func (r *Repository) List(ctx context.Context) ([]core.Document, error) {
	return r.ListMatching(ctx, "")
}

// ListMatching is List restricted to IDs matching a doublestar pattern.
// An empty pattern matches everything.
func (r *Repository) ListMatching(ctx context.Context, pattern string) ([]core.Document, error) {
	if pattern != "" && !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q", pattern)
	}

	var docs []core.Document
	err := filepath.WalkDir(r.Path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if path != r.Path && r.skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		id, ok := r.resolveID(path)
		if !ok {
			return nil
		}
		if pattern != "" {
			if match, _ := doublestar.Match(pattern, id); !match {
				return nil
			}
		}

		doc, err := r.Get(ctx, id)
		if err != nil {
			r.config.Logger.Warn("skipping unreadable document", "id", id, "error", err)
			return nil
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

// Delete removes a document.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}
	if id == "" {
		return core.ErrEmptyID
	}
	filename, _ := r.filename(id)
	if err := os.Remove(filepath.Join(r.Path, filename)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%s: %w", id, core.ErrNotFound)
		}
		return fmt.Errorf("failed to delete %s: %w", id, err)
	}
	r.config.Logger.Debug("document deleted", "id", id)
	return nil
}

// filename maps an ID to its relative file name and serializer extension.
func (r *Repository) filename(id string) (string, string) {
	ext := filepath.Ext(id)
	if _, ok := r.serializer(ext); ok && ext != "" {
		return filepath.FromSlash(id), ext
	}
	return filepath.FromSlash(id) + r.config.DefaultExt, r.config.DefaultExt
}

// resolveID maps an absolute path back to a document ID.
// The boolean is false for files that are not documents.
func (r *Repository) resolveID(path string) (string, bool) {
	base := filepath.Base(path)
	if strings.HasPrefix(base, TempFilePrefix) || strings.HasPrefix(base, ".") {
		return "", false
	}
	ext := filepath.Ext(base)
	if _, ok := r.serializer(ext); !ok {
		return "", false
	}

	rel, err := filepath.Rel(r.Path, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	for _, part := range strings.Split(filepath.Dir(rel), string(filepath.Separator)) {
		if part != "." && r.skipDir(part) {
			return "", false
		}
	}

	id := filepath.ToSlash(rel)
	if ext == r.config.DefaultExt {
		id = strings.TrimSuffix(id, ext)
	}
	return id, true
}

func (r *Repository) skipDir(name string) bool {
	return name == r.config.SystemDir || name == ".git" || strings.HasPrefix(name, ".")
}

var _ core.Repository = (*Repository)(nil)
var _ core.Watchable = (*Repository)(nil)
