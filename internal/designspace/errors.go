package designspace

import (
	"errors"
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/util/validation/field"
)

var (
	// ErrInvalidSchema is matched by every *SchemaError.
	ErrInvalidSchema = errors.New("invalid design space schema")

	// ErrInvalidCandidate is matched by every *CandidateError.
	ErrInvalidCandidate = errors.New("candidate architecture outside design space")

	// ErrUnknownBuiltin is returned when a built-in design space name is not embedded.
	ErrUnknownBuiltin = errors.New("unknown built-in design space")

	errNotMapping = errors.New("document root must be a mapping")
)

// SchemaError reports why a design space document was rejected.
// Either Cause is set (the document could not be read as YAML at all)
// or Errs lists every violation found.
type SchemaError struct {
	// Source names the document, e.g. a file path or ConfigMap key.
	Source string

	Errs  field.ErrorList
	Cause error
}

func (e *SchemaError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("design space %q: %v", e.Source, e.Cause)
	}
	return fmt.Sprintf("design space %q: %s", e.Source, joinErrors(e.Errs))
}

// Is makes errors.Is(err, ErrInvalidSchema) hold.
func (e *SchemaError) Is(target error) bool {
	return target == ErrInvalidSchema
}

func (e *SchemaError) Unwrap() error {
	return e.Cause
}

// CandidateError reports why a candidate architecture does not belong to a catalog.
type CandidateError struct {
	// Catalog is the name of the catalog the candidate was checked against.
	Catalog string

	Errs field.ErrorList
}

func (e *CandidateError) Error() string {
	return fmt.Sprintf("candidate for design space %q: %s", e.Catalog, joinErrors(e.Errs))
}

// Is makes errors.Is(err, ErrInvalidCandidate) hold.
func (e *CandidateError) Is(target error) bool {
	return target == ErrInvalidCandidate
}

// joinErrors renders an error list on one line, in list order.
func joinErrors(errs field.ErrorList) string {
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}
