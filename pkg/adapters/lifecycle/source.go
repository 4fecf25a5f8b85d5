// Package lifecycle bridges store change events into validated
// lifecycle.Event values.
package lifecycle

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/loamenum/pkg/core"
	"github.com/aretw0/loamenum/pkg/model"
	"github.com/aretw0/loamenum/pkg/schema"
)

// Checked is emitted for each change to a document of a declared model.
type Checked struct {
	Event    core.Event
	Model    string
	Failures []model.Failure
	Err      error
}

// Valid reports whether the document loaded and passed validation.
func (c Checked) Valid() bool { return c.Err == nil && len(c.Failures) == 0 }

func (c Checked) String() string {
	switch {
	case c.Event.Type == core.EventDelete:
		return c.Event.String()
	case c.Err != nil:
		return fmt.Sprintf("%s error: %v", c.Event, c.Err)
	case len(c.Failures) > 0:
		msgs := make([]string, len(c.Failures))
		for i, f := range c.Failures {
			msgs[i] = f.String()
		}
		return fmt.Sprintf("%s invalid: %s", c.Event, strings.Join(msgs, "; "))
	default:
		return fmt.Sprintf("%s valid", c.Event)
	}
}

type checkSource struct {
	events <-chan core.Event
	models *schema.Registry
	repo   core.Repository
	out    chan lifecycle.Event
}

// NewSource creates a lifecycle.Source that validates every changed document
// of a declared model and emits a Checked for it. Changes to IDs outside
// every model collection are dropped.
func NewSource(events <-chan core.Event, models *schema.Registry, repo core.Repository) lifecycle.Source {
	return &checkSource{
		events: events,
		models: models,
		repo:   repo,
		out:    make(chan lifecycle.Event),
	}
}

func (s *checkSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *checkSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					return nil
				}
				checked, ok := s.check(ctx, e)
				if !ok {
					continue
				}
				select {
				case s.out <- checked:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}

func (s *checkSource) check(ctx context.Context, e core.Event) (Checked, bool) {
	entry, ok := s.models.ForID(e.ID)
	if !ok {
		return Checked{}, false
	}
	c := Checked{Event: e, Model: entry.Model.Name()}
	if e.Type == core.EventDelete {
		return c, true
	}
	doc, err := entry.Model.Find(ctx, s.repo, e.ID)
	if err != nil {
		c.Err = err
		return c, true
	}
	if !doc.Valid() {
		c.Failures = doc.Errors()
	}
	return c, true
}
