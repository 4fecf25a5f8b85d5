package lifecycle_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/loamenum/pkg/adapters/lifecycle"
	"github.com/aretw0/loamenum/pkg/adapters/memory"
	"github.com/aretw0/loamenum/pkg/core"
	"github.com/aretw0/loamenum/pkg/enum"
	"github.com/aretw0/loamenum/pkg/schema"
	"github.com/aretw0/loamenum/pkg/trace"
)

func TestSource(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	f, err := schema.Parse([]byte("models:\n  - name: Post\n    enums:\n      - name: status\n        values: [draft, published]\n"))
	require.NoError(t, err)
	models, err := f.Build(enum.NewCompiler(enum.WithTracer(trace.Nop)))
	require.NoError(t, err)

	repo := memory.NewRepository()
	require.NoError(t, repo.Save(ctx, core.Document{ID: "posts/ok", Metadata: core.Metadata{"_status": "draft"}}))
	require.NoError(t, repo.Save(ctx, core.Document{ID: "posts/bad", Metadata: core.Metadata{"_status": "gone"}}))

	in := make(chan core.Event, 5)
	in <- core.Event{Type: core.EventModify, ID: "posts/ok"}
	in <- core.Event{Type: core.EventCreate, ID: "users/1"}
	in <- core.Event{Type: core.EventModify, ID: "posts/bad"}
	in <- core.Event{Type: core.EventModify, ID: "posts/missing"}
	in <- core.Event{Type: core.EventDelete, ID: "posts/old"}
	close(in)

	src := lifecycle.NewSource(in, models, repo)
	require.NoError(t, src.Start(ctx))

	var got []lifecycle.Checked
	for e := range src.Events() {
		c, ok := e.(lifecycle.Checked)
		require.True(t, ok)
		got = append(got, c)
	}

	require.Len(t, got, 4)
	assert.True(t, got[0].Valid())
	assert.Equal(t, "MODIFY posts/ok valid", got[0].String())

	assert.False(t, got[1].Valid())
	assert.Equal(t, "MODIFY posts/bad invalid: _status is not included in the list", got[1].String())

	assert.ErrorIs(t, got[2].Err, core.ErrNotFound)
	assert.Equal(t, "Post", got[3].Model)
	assert.Equal(t, "DELETE posts/old", got[3].String())
}
