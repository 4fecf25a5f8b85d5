package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfiguration matches every declaration-time error via errors.Is.
	ErrConfiguration = errors.New("invalid model declaration")
	// ErrFrozen is returned when declaring on a frozen model.
	ErrFrozen = errors.New("model is frozen")
	// ErrUnknownMember is returned when dispatching a member that was never defined.
	ErrUnknownMember = errors.New("unknown member")
	// ErrDetached is returned when saving a document without a Saver.
	ErrDetached = errors.New("document is detached (missing Saver)")
)

// ConfigurationError reports an invalid declaration, such as an empty value set.
type ConfigurationError struct {
	Model     string
	Attribute string
	Reason    string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s#%s: %s", e.Model, e.Attribute, e.Reason)
}

// Is makes errors.Is(err, ErrConfiguration) true.
func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// DuplicateDefinitionError reports a name that is already taken on a model.
type DuplicateDefinitionError struct {
	Model string
	Kind  string // field, constant, scope or member
	Name  string
}

func (e *DuplicateDefinitionError) Error() string {
	return fmt.Sprintf("%s: %s %q already defined", e.Model, e.Kind, e.Name)
}

// Is makes errors.Is(err, ErrConfiguration) true.
func (e *DuplicateDefinitionError) Is(target error) bool { return target == ErrConfiguration }

// ValidationError is returned by Document.Save when validations fail. The
// same failures stay available on the document through Errors.
type ValidationError struct {
	Model    string
	ID       string
	Failures []Failure
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		msgs[i] = f.String()
	}
	return fmt.Sprintf("%s %s is invalid: %s", e.Model, e.ID, strings.Join(msgs, "; "))
}

// PersistenceError wraps the failure of an immediate update-and-save.
type PersistenceError struct {
	Model string
	ID    string
	Field string
	Err   error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist %s.%s of %s: %v", e.Model, e.Field, e.ID, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
