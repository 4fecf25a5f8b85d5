package platform_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/loamenum/internal/platform"
	"github.com/aretw0/loamenum/pkg/adapters/fs"
	"github.com/aretw0/loamenum/pkg/adapters/memory"
	"github.com/aretw0/loamenum/pkg/adapters/sqlite"
	"github.com/aretw0/loamenum/pkg/core"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("FS Creates Directory", func(t *testing.T) {
		vault := filepath.Join(t.TempDir(), "vault")
		repo, err := platform.Open(ctx, vault)
		require.NoError(t, err)

		fsRepo, ok := repo.(*fs.Repository)
		require.True(t, ok)
		assert.Equal(t, vault, fsRepo.Path)

		info, err := os.Stat(vault)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("FS MustExist Fails on Missing Directory", func(t *testing.T) {
		_, err := platform.Open(ctx, filepath.Join(t.TempDir(), "missing"), platform.WithMustExist(true))
		assert.Error(t, err)
	})

	t.Run("FS ReadOnly", func(t *testing.T) {
		vault := t.TempDir()
		repo, err := platform.Open(ctx, vault, platform.WithReadOnly(true))
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Save(ctx, core.Document{ID: "a"}), core.ErrReadOnly)
	})

	t.Run("FS Custom Serializer", func(t *testing.T) {
		vault := t.TempDir()
		repo, err := platform.Open(ctx, vault,
			platform.WithDefaultExt(".json"),
			platform.WithSerializer(".txt", fs.JSONSerializer{}))
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, core.Document{ID: "notes/a.txt", Metadata: core.Metadata{"k": "v"}}))
		_, err = os.Stat(filepath.Join(vault, "notes", "a.txt"))
		assert.NoError(t, err)
	})

	t.Run("SQLite", func(t *testing.T) {
		repo, err := platform.Open(ctx, filepath.Join(t.TempDir(), "store.db"), platform.WithAdapter(platform.AdapterSQLite))
		require.NoError(t, err)
		sqlRepo, ok := repo.(*sqlite.Repository)
		require.True(t, ok)
		t.Cleanup(func() { _ = sqlRepo.Close() })

		require.NoError(t, repo.Save(ctx, core.Document{ID: "posts/1", Metadata: core.Metadata{"_status": "draft"}}))
		doc, err := repo.Get(ctx, "posts/1")
		require.NoError(t, err)
		assert.Equal(t, "draft", doc.Metadata["_status"])
	})

	t.Run("Memory", func(t *testing.T) {
		repo, err := platform.Open(ctx, "", platform.WithAdapter(platform.AdapterMemory))
		require.NoError(t, err)
		_, ok := repo.(*memory.Repository)
		assert.True(t, ok)
	})

	t.Run("Injected Repository", func(t *testing.T) {
		injected := memory.NewRepository()
		repo, err := platform.Open(ctx, "ignored", platform.WithAdapter("bogus"), platform.WithRepository(injected))
		require.NoError(t, err)
		assert.Same(t, injected, repo)
	})

	t.Run("Unknown Adapter", func(t *testing.T) {
		_, err := platform.Open(ctx, "x", platform.WithAdapter("s3"))
		assert.ErrorContains(t, err, "unknown adapter: s3")
	})
}

func TestNew(t *testing.T) {
	svc, err := platform.New(context.Background(), "", platform.WithAdapter(platform.AdapterMemory))
	require.NoError(t, err)
	st, ok := svc.State().(core.ServiceState)
	require.True(t, ok)
	assert.Equal(t, "memory", st.RepositoryType)
	assert.False(t, st.Watchable)
}

func TestResolveVaultPath(t *testing.T) {
	assert.Equal(t, ".", platform.ResolveVaultPath("", false))
	assert.Equal(t, "vault", platform.ResolveVaultPath("vault", false))

	inside := filepath.Join(os.TempDir(), "x", "vault")
	assert.Equal(t, inside, platform.ResolveVaultPath(inside, true))

	assert.Equal(t, filepath.Join(os.TempDir(), "loamenum-dev", "vault"),
		platform.ResolveVaultPath("/srv/data/vault", true))
	assert.Equal(t, filepath.Join(os.TempDir(), "loamenum-dev", "default"),
		platform.ResolveVaultPath(".", true))
	assert.True(t, platform.IsDevRun())
}
