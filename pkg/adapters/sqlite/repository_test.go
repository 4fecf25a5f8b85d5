package sqlite_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/loamenum/pkg/adapters/sqlite"
	"github.com/aretw0/loamenum/pkg/core"
)

func openMemory(t *testing.T) *sqlite.Repository {
	t.Helper()
	repo, err := sqlite.Open(":memory:", sqlite.Config{})
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	require.NoError(t, repo.Initialize(context.Background()))
	return repo
}

func TestRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := openMemory(t)

	require.NoError(t, repo.Save(ctx, core.Document{
		ID:       "posts/1",
		Content:  "body",
		Metadata: core.Metadata{"_status": "draft", "_tags": []string{"urgent"}},
	}))
	require.NoError(t, repo.Save(ctx, core.Document{ID: "posts/0"}))

	doc, err := repo.Get(ctx, "posts/1")
	require.NoError(t, err)
	assert.Equal(t, "body", doc.Content)
	assert.Equal(t, "draft", doc.Metadata["_status"])
	assert.Equal(t, []any{"urgent"}, doc.Metadata["_tags"])

	// Upsert replaces.
	require.NoError(t, repo.Save(ctx, core.Document{ID: "posts/1", Metadata: core.Metadata{"_status": "published"}}))
	doc, err = repo.Get(ctx, "posts/1")
	require.NoError(t, err)
	assert.Equal(t, "published", doc.Metadata["_status"])
	assert.NotContains(t, doc.Metadata, "_tags")

	docs, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "posts/0", docs[0].ID)

	require.NoError(t, repo.Delete(ctx, "posts/0"))
	_, err = repo.Get(ctx, "posts/0")
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "posts/0"), core.ErrNotFound)
}

func TestRepository_SaveFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := sqlite.NewRepository(db, sqlite.Config{})
	storeErr := errors.New("database is locked")
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO documents")).
		WithArgs("posts/1", "", `{"_status":"published"}`).
		WillReturnError(storeErr)

	err = repo.Save(context.Background(), core.Document{ID: "posts/1", Metadata: core.Metadata{"_status": "published"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CorruptMetadata(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := sqlite.NewRepository(db, sqlite.Config{Table: "docs"})
	mock.ExpectQuery(regexp.QuoteMeta("SELECT content, metadata FROM docs WHERE id = ?")).
		WithArgs("x").
		WillReturnRows(sqlmock.NewRows([]string{"content", "metadata"}).AddRow("", "{not json"))

	_, err = repo.Get(context.Background(), "x")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_EmptyID(t *testing.T) {
	repo := openMemory(t)
	assert.ErrorIs(t, repo.Save(context.Background(), core.Document{}), core.ErrEmptyID)
}
