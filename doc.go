// Package loamenum adds declarative enumerated attributes to document models.
//
// A single declaration turns a stored attribute into a constrained enum:
//
//	post := loamenum.NewModel("Post")
//	status, err := loamenum.Declare(post, "status", model.Symbols("draft", "published", "archived"))
//
// The declaration registers, on the model:
//
//   - the STATUS constant holding the allowed values in order,
//   - the "_status" field (a symbol, or a symbol list with enum.Multiple),
//   - an inclusion validation checked on every save,
//   - one scope per value ("published" selects published documents),
//   - the members draft?, draft!, published?, ..., status and status=.
//
// Every generated member reports its caller to a trace.Tracer, logged at
// trace.LevelFatal by default, so legacy call sites can be found and removed.
//
// Documents are stored through core.Repository adapters: plain files
// (Markdown with frontmatter, JSON, YAML), SQLite, or memory.
//
//	repo, err := loamenum.Open(ctx, "./vault")
//	doc := post.New(repo)
//	err = doc.Bang(ctx, "published") // sets _status and saves
package loamenum
