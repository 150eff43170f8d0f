package rigfile

import (
	"errors"
	"fmt"
)

var ErrMissingField = errors.New("rigfile: missing field")

// LoadError reports why a document could not be loaded. The caller's prior
// state is never touched by a failed load.
type LoadError struct {
	Document string
	Path     string
	Err      error
}

func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("rigfile: load %s %s: %v", e.Document, e.Path, e.Err)
	}
	return fmt.Sprintf("rigfile: load %s: %v", e.Document, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func missing(subject, field string) error {
	return fmt.Errorf("%w: %s.%s", ErrMissingField, subject, field)
}
