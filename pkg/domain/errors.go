package domain

import (
	"errors"
	"fmt"
)

// NotFoundError reports that a referenced house, photo, item, row, or bucket
// is absent from the dataset.
type NotFoundError struct {
	Entity EntityType
	ID     string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// InvalidEntityError reports a malformed argument to a constructor or upsert.
type InvalidEntityError struct {
	Entity EntityType
	Reason string
}

func (e InvalidEntityError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Entity, e.Reason)
}

// ParseError reports an import payload that is not parseable JSON. The
// underlying decoder error is wrapped for inspection.
type ParseError struct {
	Err error
}

func (e ParseError) Error() string {
	return fmt.Sprintf("parse dataset: %v", e.Err)
}

func (e ParseError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}
