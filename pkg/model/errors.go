package model

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat means an import file extension or content is not recognised.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrInvalidField means a field value violates its constraint; the row is rejected.
	ErrInvalidField = errors.New("invalid field")
	// ErrInvalidRecurrenceRule means the recurrence pattern is unknown.
	ErrInvalidRecurrenceRule = errors.New("invalid recurrence rule")
	// ErrNotComputable means an aggregate has no defined value for the data.
	ErrNotComputable = errors.New("not computable")
)

// FieldError reports a rejected row. Row is 1-based within its batch.
type FieldError struct {
	Row    int
	Field  string
	Value  string
	Reason string
}

func (e *FieldError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("row %d: %s: %s", e.Row, e.Field, e.Reason)
	}
	return fmt.Sprintf("row %d: %s %q: %s", e.Row, e.Field, e.Value, e.Reason)
}

func (e *FieldError) Unwrap() error { return ErrInvalidField }

// WarningKind classifies data quality findings that never block an operation.
type WarningKind string

const (
	WarnUnparsedDate       WarningKind = "unparsed-date"
	WarnUnresolvedDep      WarningKind = "unresolved-dependency"
	WarnDependencyCycle    WarningKind = "dependency-cycle"
	WarnUnknownColumn      WarningKind = "unknown-column"
	WarnDuplicateReference WarningKind = "duplicate-reference"
)

// Warning is a non-fatal finding. Row is 1-based; 0 means not tied to a row.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Row     int         `json:"row,omitempty"`
	Field   string      `json:"field,omitempty"`
	Message string      `json:"message"`
}

func (w Warning) String() string {
	if w.Row > 0 {
		return fmt.Sprintf("row %d: %s", w.Row, w.Message)
	}
	return w.Message
}
