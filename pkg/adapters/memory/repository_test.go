package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/loamenum/pkg/adapters/memory"
	"github.com/aretw0/loamenum/pkg/core"
)

func TestRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRepository()
	require.NoError(t, repo.Initialize(ctx))

	require.NoError(t, repo.Save(ctx, core.Document{ID: "b", Metadata: core.Metadata{"k": "v"}}))
	require.NoError(t, repo.Save(ctx, core.Document{ID: "a", Content: "hello"}))

	doc, err := repo.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "v", doc.Metadata["k"])

	docs, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a", docs[0].ID)

	require.NoError(t, repo.Delete(ctx, "a"))
	_, err = repo.Get(ctx, "a")
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "a"), core.ErrNotFound)
}

func TestRepository_Isolation(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRepository()

	meta := core.Metadata{"status": "draft"}
	require.NoError(t, repo.Save(ctx, core.Document{ID: "x", Metadata: meta}))
	meta["status"] = "published"

	doc, err := repo.Get(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, "draft", doc.Metadata["status"], "caller mutation leaked into the store")

	doc.Metadata["status"] = "archived"
	again, err := repo.Get(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, "draft", again.Metadata["status"], "returned copy aliased the store")
}

func TestRepository_EmptyID(t *testing.T) {
	repo := memory.NewRepository()
	assert.ErrorIs(t, repo.Save(context.Background(), core.Document{}), core.ErrEmptyID)
}
