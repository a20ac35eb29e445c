package exodus

import (
	"errors"
	"fmt"
)

// Domain errors for reading results files.
var (
	// ErrOpen indicates the file could not be opened as netCDF.
	ErrOpen = errors.New("exodus: cannot open file")

	// ErrMissingField indicates a required field is absent from the file.
	ErrMissingField = errors.New("exodus: required field missing")

	// ErrFieldNotFound is returned by a Dataset for an unknown field name.
	ErrFieldNotFound = errors.New("exodus: field not found")

	// ErrClosed is returned by a Dataset used after Close.
	ErrClosed = errors.New("exodus: dataset closed")

	// ErrUnsupportedType indicates field values of a type the reader cannot convert.
	ErrUnsupportedType = errors.New("exodus: unsupported field type")

	// ErrShapeMismatch indicates coordinate arrays of different lengths.
	ErrShapeMismatch = errors.New("exodus: coordinate shape mismatch")
)

// FileOpenError wraps the underlying failure to open or parse a file.
type FileOpenError struct {
	Path string
	Err  error
}

func (e *FileOpenError) Error() string {
	return fmt.Sprintf("exodus: cannot open %s: %v", e.Path, e.Err)
}

func (e *FileOpenError) Unwrap() []error {
	return []error{ErrOpen, e.Err}
}

// MissingFieldError names a required field that is absent.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("exodus: required field %q missing", e.Field)
}

func (e *MissingFieldError) Unwrap() error {
	return ErrMissingField
}

// NoticeKind classifies a recoverable condition met during a read.
type NoticeKind int

const (
	// NameDecodeWarning: a name row could not be decoded and got a placeholder.
	NameDecodeWarning NoticeKind = iota
	// MissingValueArrayWarning: a declared variable has no value array.
	MissingValueArrayWarning
	// FieldReadWarning: an optional field exists but could not be read.
	FieldReadWarning
)

func (k NoticeKind) String() string {
	switch k {
	case NameDecodeWarning:
		return "name-decode"
	case MissingValueArrayWarning:
		return "missing-values"
	case FieldReadWarning:
		return "field-read"
	}
	return "unknown"
}

// Notice is a non-fatal condition recorded while extracting data.
type Notice struct {
	Kind    NoticeKind
	Field   string
	Index   int // 1-based variable position, 0 when not applicable
	Message string
}

func (n Notice) String() string {
	return fmt.Sprintf("%s: %s", n.Field, n.Message)
}
