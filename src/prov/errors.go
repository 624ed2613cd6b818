package prov

import (
	"errors"
	"fmt"
)

// ParseError is returned when a document cannot be decoded, either because
// the encoding is not recognised or because the content is malformed.
type ParseError struct {
	Format string
	Msg    string
	Err    error
}

func (e *ParseError) Error() string {
	m := fmt.Sprintf("parse %s: %s", e.Format, e.Msg)
	if e.Err != nil {
		m += ": " + e.Err.Error()
	}
	return m
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsParseError ...
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// NamespaceConflictError is returned when a prefix is bound to two different
// URIs.
type NamespaceConflictError struct {
	Prefix   string
	Existing string
	URI      string
}

func (e *NamespaceConflictError) Error() string {
	return fmt.Sprintf("namespace %s is bound to %s, cannot rebind to %s", e.Prefix, e.Existing, e.URI)
}

// IsNamespaceConflict ...
func IsNamespaceConflict(err error) bool {
	var ne *NamespaceConflictError
	return errors.As(err, &ne)
}
