package errkind

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error is the single error type the resolver returns for every taxonomy
// entry in spec §7. Callers discriminate with errors.As and inspect Kind,
// TypeName/AttributeName for context, and Cause for a wrapped provider error
// (the introspection-failure variant).
type Error struct {
	Kind          Kind
	TypeName      string
	AttributeName string
	Other         string // a second attribute/type name, e.g. for mirror-conflict
	Cause         error
}

func (e *Error) Error() string {
	switch {
	case e.AttributeName != "" && e.Other != "":
		return fmt.Sprintf("%s: %s.%s / %s", e.Kind, e.TypeName, e.AttributeName, e.Other)
	case e.AttributeName != "":
		return fmt.Sprintf("%s: %s.%s", e.Kind, e.TypeName, e.AttributeName)
	case e.TypeName != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.TypeName)
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches on Kind so errors.Is(err, errkind.New(MirrorConflict)) works
// without requiring identical attribute/type fields.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New creates a bare sentinel of the given kind, suitable for errors.Is
// comparisons.
func New(kind Kind) *Error { return &Error{Kind: kind} }

// Newf creates an Error with a stack trace attached via pkg/errors, for a
// given type/attribute context.
func Newf(kind Kind, typeName, attributeName string) error {
	return errors.WithStack(&Error{Kind: kind, TypeName: typeName, AttributeName: attributeName})
}

// Conflict builds a mirror-conflict/convention-conflict style error naming
// both offending attributes.
func Conflict(kind Kind, typeName, attr, other string) error {
	return errors.WithStack(&Error{Kind: kind, TypeName: typeName, AttributeName: attr, Other: other})
}

// Wrap builds the introspection-failure variant around a provider error.
func Wrap(typeName string, cause error) error {
	if cause == nil {
		return nil
	}
	return errors.WithStack(&Error{Kind: IntrospectionFailure, TypeName: typeName, Cause: cause})
}

// As is a small convenience wrapper over errors.As for *Error.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
