package schema_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/loamenum/pkg/enum"
	"github.com/aretw0/loamenum/pkg/model"
	"github.com/aretw0/loamenum/pkg/schema"
	"github.com/aretw0/loamenum/pkg/trace"
)

const blog = `
models:
  - name: Post
    enums:
      - name: status
        values: [draft, published, archived]
      - name: tags
        values: [urgent, reviewed]
        multiple: true
        required: false
  - name: Job
    collection: queue/jobs
    enums:
      - name: state
        values: [queued, in-progress]
        default: null
        validate: false
`

func compiler() *enum.Compiler {
	return enum.NewCompiler(enum.WithTracer(trace.Nop))
}

func TestParseAndBuild(t *testing.T) {
	f, err := schema.Parse([]byte(blog))
	require.NoError(t, err)
	require.Len(t, f.Models, 2)

	reg, err := f.Build(compiler())
	require.NoError(t, err)
	assert.Equal(t, []string{"Post", "Job"}, reg.Names())

	post, ok := reg.Model("Post")
	require.True(t, ok)
	assert.True(t, post.Model.Frozen())
	require.Len(t, post.Enums, 2)

	tags, ok := post.Enum("tags")
	require.True(t, ok)
	assert.True(t, tags.Multiple())
	assert.False(t, tags.Options().Required)
	assert.Equal(t, []model.Symbol{"urgent"}, tags.Options().Default)

	job, ok := reg.Model("Job")
	require.True(t, ok)
	assert.Equal(t, "queue/jobs", job.Model.Collection())
	state, _ := job.Enum("state")
	assert.Nil(t, state.Options().Default)
	assert.False(t, state.Options().Validate)
	_, ok = job.Model.Member("in_progress!")
	assert.True(t, ok)

	e, ok := reg.ForID("queue/jobs/1")
	require.True(t, ok)
	assert.Equal(t, "Job", e.Model.Name())
	_, ok = reg.ForID("users/1")
	assert.False(t, ok)
	assert.Len(t, reg.Entries(), 2)
}

func TestEnumDecl_Options(t *testing.T) {
	f, err := schema.Parse([]byte(`
models:
  - name: Ticket
    enums:
      - name: tags
        values: [a, b]
        multiple: true
        default: [b]
      - name: level
        values: [low, high]
        default: high
        required: false
`))
	require.NoError(t, err)
	reg, err := f.Build(compiler())
	require.NoError(t, err)

	ticket, _ := reg.Model("Ticket")
	tags, _ := ticket.Enum("tags")
	assert.Equal(t, []model.Symbol{"b"}, tags.Options().Default)
	level, _ := ticket.Enum("level")
	assert.Equal(t, model.Symbol("high"), level.Options().Default)
	assert.False(t, level.Options().Required)
}

func TestParse_Errors(t *testing.T) {
	t.Run("Malformed", func(t *testing.T) {
		_, err := schema.Parse([]byte("models: [\n"))
		assert.Error(t, err)
	})
	t.Run("MissingNames", func(t *testing.T) {
		_, err := schema.Parse([]byte("models:\n  - enums:\n      - values: [a]\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "models[0]: name is required")
		assert.Contains(t, err.Error(), "models[0].enums[0]: name is required")
	})
	t.Run("DuplicateModel", func(t *testing.T) {
		_, err := schema.Parse([]byte("models:\n  - name: A\n  - name: A\n"))
		assert.ErrorContains(t, err, "declared twice")
	})
	t.Run("InvalidDeclaration", func(t *testing.T) {
		f, err := schema.Parse([]byte("models:\n  - name: A\n    enums:\n      - name: s\n        values: []\n"))
		require.NoError(t, err)
		_, err = f.Build(compiler())
		assert.ErrorIs(t, err, model.ErrConfiguration)
	})
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "blog.yaml"), []byte(blog), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "more"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "more", "users.yaml"),
		[]byte("models:\n  - name: User\n    enums:\n      - name: role\n        values: [admin, member]\n"), 0644))

	t.Run("Single", func(t *testing.T) {
		f, err := schema.Load(filepath.Join(dir, "blog.yaml"))
		require.NoError(t, err)
		assert.Len(t, f.Models, 2)

		_, err = schema.Load(filepath.Join(dir, "missing.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("Glob", func(t *testing.T) {
		f, err := schema.LoadGlob(filepath.Join(dir, "**", "*.yaml"))
		require.NoError(t, err)
		require.Len(t, f.Models, 3)
		assert.Equal(t, "User", f.Models[2].Name)

		_, err = schema.LoadGlob(filepath.Join(dir, "*.yml"))
		assert.ErrorContains(t, err, "no schema matches")
	})
}
