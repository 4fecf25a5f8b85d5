package model

import "context"

// MemberKind tells which function of a Member is set.
type MemberKind int

const (
	PredicateMember MemberKind = iota
	MutatorMember
	GetterMember
	SetterMember
)

func (k MemberKind) String() string {
	switch k {
	case PredicateMember:
		return "predicate"
	case MutatorMember:
		return "mutator"
	case GetterMember:
		return "getter"
	case SetterMember:
		return "setter"
	default:
		return "unknown"
	}
}

// Member is a named behaviour attached to a model and invoked on its documents.
// Exactly one of the function fields matches Kind.
type Member struct {
	Name      string
	Kind      MemberKind
	Predicate func(d *Document) bool
	Mutator   func(ctx context.Context, d *Document) error
	Getter    func(d *Document) any
	Setter    func(d *Document, v any)
}

// Scope narrows a document collection.
type Scope func(c *Criteria) *Criteria
