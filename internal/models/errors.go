package models

import (
	"errors"
	"fmt"
)

// Request and export validation errors. EmptyRequest and MissingDirectory are
// expected to be caught by the caller before generation or export starts.
var (
	ErrEmptyRequest       = errors.New("generation request has no records")
	ErrMissingDirectory   = errors.New("export directory is missing or not a directory")
	ErrEmptyReferenceList = errors.New("reference code list is empty")
	ErrInvalidRange       = errors.New("digit range must satisfy 0 <= min <= max <= 9")
	ErrInvalidCount       = errors.New("record count must not be negative")
	ErrUnknownSymbology   = errors.New("unknown symbology")
)

// RenderFailure reports a payload the rendering collaborator rejected.
type RenderFailure struct {
	Payload   string
	Symbology Symbology
	Cause     error
}

func (e *RenderFailure) Error() string {
	return fmt.Sprintf("render %s payload %q: %v", e.Symbology, e.Payload, e.Cause)
}

func (e *RenderFailure) Unwrap() error {
	return e.Cause
}

// IOFailure reports the first file write that failed during an export.
type IOFailure struct {
	Path  string
	Cause error
}

func (e *IOFailure) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Cause)
}

func (e *IOFailure) Unwrap() error {
	return e.Cause
}
