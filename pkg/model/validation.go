package model

import "fmt"

// ValidationKind selects how a Rule checks a field.
type ValidationKind string

const (
	// Inclusion requires a scalar value to be one of Allowed.
	Inclusion ValidationKind = "inclusion"
	// CollectionInclusion requires every element of a sequence to be one of Allowed.
	CollectionInclusion ValidationKind = "collection_inclusion"
)

// Rule is a declared validation.
type Rule struct {
	Field       string
	Kind        ValidationKind
	Allowed     []Symbol
	AllowAbsent bool
}

// Failure is one failed rule on one document.
type Failure struct {
	Field   string
	Value   any
	Message string
}

func (f Failure) String() string {
	return fmt.Sprintf("%s %s", f.Field, f.Message)
}

// Check validates v, reporting a failure when the rule is violated.
func (r Rule) Check(v any) (Failure, bool) {
	switch r.Kind {
	case CollectionInclusion:
		return r.checkCollection(v)
	default:
		return r.checkScalar(v)
	}
}

func (r Rule) checkScalar(v any) (Failure, bool) {
	if v == nil {
		if r.AllowAbsent {
			return Failure{}, false
		}
		return r.fail(v, "is not included in the list"), true
	}
	var s Symbol
	switch x := v.(type) {
	case Symbol:
		s = x
	case string:
		s = Symbol(x)
	default:
		return r.fail(v, "is not included in the list"), true
	}
	if !containsSymbol(r.Allowed, s) {
		return r.fail(v, "is not included in the list"), true
	}
	return Failure{}, false
}

func (r Rule) checkCollection(v any) (Failure, bool) {
	values := ToSymbols(v)
	msg := "is not in " + joinSymbols(r.Allowed, ", ")
	if len(values) == 0 && !r.AllowAbsent {
		return r.fail(v, msg), true
	}
	for _, s := range values {
		if !containsSymbol(r.Allowed, s) {
			return r.fail(v, msg), true
		}
	}
	return Failure{}, false
}

func (r Rule) fail(v any, msg string) Failure {
	return Failure{Field: r.Field, Value: v, Message: msg}
}
