package fs_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/loamenum/pkg/adapters/fs"
	"github.com/aretw0/loamenum/pkg/core"
)

// setupRepo helps create a repository for testing.
// It returns the initialized repository and the root path of the vault.
func setupRepo(t *testing.T, opts ...func(*fs.Config)) (*fs.Repository, string) {
	t.Helper()

	vaultPath := filepath.Join(t.TempDir(), "vault")
	cfg := fs.Config{Path: vaultPath}
	for _, opt := range opts {
		opt(&cfg)
	}

	repo := fs.NewRepository(cfg)
	if err := repo.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	return repo, vaultPath
}

func TestInitialize(t *testing.T) {
	t.Run("Creates Directory if Missing", func(t *testing.T) {
		_, path := setupRepo(t)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			t.Errorf("expected directory to be created at %s", path)
		}
	})

	t.Run("Fails if MustExist and Missing", func(t *testing.T) {
		repo := fs.NewRepository(fs.Config{
			Path:      filepath.Join(t.TempDir(), "missing"),
			MustExist: true,
		})
		if err := repo.Initialize(context.Background()); err == nil {
			t.Error("expected Initialize to fail when directory is missing and MustExist=true")
		}
	})
}

func TestSaveGetDelete(t *testing.T) {
	repo, path := setupRepo(t)
	ctx := context.Background()

	doc := core.Document{
		ID:       "posts/hello",
		Content:  "Hello",
		Metadata: core.Metadata{"_status": "draft"},
	}
	if err := repo.Save(ctx, doc); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(path, "posts", "hello.md")); err != nil {
		t.Fatalf("expected markdown file on disk: %v", err)
	}

	got, err := repo.Get(ctx, "posts/hello")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ID != "posts/hello" || got.Content != "Hello" {
		t.Errorf("unexpected document: %+v", got)
	}
	if got.Metadata["_status"] != "draft" {
		t.Errorf("expected _status=draft, got %v", got.Metadata["_status"])
	}

	if err := repo.Delete(ctx, "posts/hello"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := repo.Get(ctx, "posts/hello"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := repo.Delete(ctx, "posts/hello"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestSave_ExplicitExtension(t *testing.T) {
	repo, path := setupRepo(t)
	ctx := context.Background()

	if err := repo.Save(ctx, core.Document{ID: "tags/a.json", Metadata: core.Metadata{"_tags": []any{"urgent"}}}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(path, "tags", "a.json")); err != nil {
		t.Fatalf("expected json file on disk: %v", err)
	}

	got, err := repo.Get(ctx, "tags/a.json")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	tags, ok := got.Metadata["_tags"].([]any)
	if !ok || len(tags) != 1 || tags[0] != "urgent" {
		t.Errorf("unexpected tags: %#v", got.Metadata["_tags"])
	}
}

func TestList(t *testing.T) {
	repo, path := setupRepo(t)
	ctx := context.Background()

	for _, id := range []string{"posts/b", "posts/a", "notes/x.yaml"} {
		if err := repo.Save(ctx, core.Document{ID: id, Metadata: core.Metadata{"k": id}}); err != nil {
			t.Fatalf("Save %s failed: %v", id, err)
		}
	}
	// Noise the walker must ignore.
	_ = os.MkdirAll(filepath.Join(path, ".loamenum"), 0755)
	_ = os.WriteFile(filepath.Join(path, ".loamenum", "state.md"), []byte("hidden"), 0644)
	_ = os.WriteFile(filepath.Join(path, "readme.txt"), []byte("plain"), 0644)
	_ = os.WriteFile(filepath.Join(path, "broken.md"), []byte("---\nunclosed"), 0644)

	t.Run("All", func(t *testing.T) {
		docs, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		var ids []string
		for _, d := range docs {
			ids = append(ids, d.ID)
		}
		want := []string{"notes/x.yaml", "posts/a", "posts/b"}
		if len(ids) != len(want) {
			t.Fatalf("expected %v, got %v", want, ids)
		}
		for i := range want {
			if ids[i] != want[i] {
				t.Errorf("index %d: expected %s, got %s", i, want[i], ids[i])
			}
		}
	})

	t.Run("Matching", func(t *testing.T) {
		docs, err := repo.ListMatching(ctx, "posts/**")
		if err != nil {
			t.Fatalf("ListMatching failed: %v", err)
		}
		if len(docs) != 2 {
			t.Errorf("expected 2 posts, got %d", len(docs))
		}
	})

	t.Run("Invalid Pattern", func(t *testing.T) {
		if _, err := repo.ListMatching(ctx, "posts/[a"); err == nil {
			t.Error("expected error for invalid pattern")
		}
	})
}

func TestReadOnly(t *testing.T) {
	_, path := setupRepo(t)
	repo := fs.NewRepository(fs.Config{Path: path, ReadOnly: true})
	if err := repo.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	err := repo.Save(context.Background(), core.Document{ID: "x"})
	if !errors.Is(err, core.ErrReadOnly) {
		t.Errorf("expected ErrReadOnly, got %v", err)
	}
	if err := repo.Delete(context.Background(), "x"); !errors.Is(err, core.ErrReadOnly) {
		t.Errorf("expected ErrReadOnly on delete, got %v", err)
	}
}

func TestWatch(t *testing.T) {
	repo, path := setupRepo(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	events, err := repo.Watch(ctx, "posts/**")
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	if err := os.MkdirAll(filepath.Join(path, "posts"), 0755); err != nil {
		t.Fatal(err)
	}
	// Give the watcher a moment to pick up the new directory.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(path, "ignored.md"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(path, "posts", "hello.md"), []byte("---\n_status: draft\n---\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case e := <-events:
		if e.ID != "posts/hello" {
			t.Errorf("expected event for posts/hello, got %s", e.ID)
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for watch event")
	}

	state := repo.State().(fs.RepositoryState)
	if !state.WatcherActive {
		t.Error("expected watcher to be reported active")
	}
	if state.LastEvent == nil {
		t.Error("expected last event timestamp")
	}
}
