package core

import (
	"github.com/aretw0/introspection"
)

// ServiceState reports the backing store and how many documents passed
// through the service since it was created.
type ServiceState struct {
	RepositoryType string `json:"repository_type"`
	Watchable      bool   `json:"watchable"`
	Saved          uint64 `json:"saved"`
	Read           uint64 `json:"read"`
	Deleted        uint64 `json:"deleted"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	repo := s.Repository()
	st := ServiceState{
		RepositoryType: "repository",
		Saved:          s.saves.Load(),
		Read:           s.reads.Load(),
		Deleted:        s.deletes.Load(),
	}
	if comp, ok := repo.(introspection.Component); ok {
		st.RepositoryType = comp.ComponentType()
	}
	_, st.Watchable = repo.(Watchable)
	return st
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string { return "service" }

var (
	_ introspection.Introspectable = (*Service)(nil)
	_ introspection.Component      = (*Service)(nil)
)
