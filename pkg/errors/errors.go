// Package errors provides structured error types for plasmidmap.
//
// Error codes let the CLI and the HTTP API treat failures the same way:
//   - INVALID_*: malformed input files, flags or request bodies
//   - NOT_FOUND / FILE_NOT_FOUND: missing resources
//   - EMPTY_ANNOTATION: an input that parsed but holds no drawable features
//   - INTERNAL_ERROR / UNSUPPORTED: everything else
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMissingColumn, "missing required column %q", "Start")
//	if errors.Is(err, errors.ErrCodeMissingColumn) {
//	    // tell the user which column to add
//	}
//
//	return errors.Wrap(errors.ErrCodeInvalidGenBank, err, "line %d", n)
package errors

import (
	"errors"
	"fmt"
)

// Code is the stable, machine-readable part of an Error. API clients switch
// on it.
type Code string

const (
	// Problems with what the user supplied. IsInput reports these.
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidGenBank  Code = "INVALID_GENBANK"
	ErrCodeInvalidTable    Code = "INVALID_TABLE"
	ErrCodeMissingColumn   Code = "MISSING_COLUMN"
	ErrCodeInvalidRegion   Code = "INVALID_REGION"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"
	ErrCodeInvalidPath     Code = "INVALID_PATH"
	ErrCodeEmptyAnnotation Code = "EMPTY_ANNOTATION"

	// Missing files and resources.
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	ErrCodeTimeout     Code = "TIMEOUT"
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// inputCodes are the codes caused by what the user supplied rather than by
// the program.
var inputCodes = map[Code]bool{
	ErrCodeInvalidInput:    true,
	ErrCodeInvalidFormat:   true,
	ErrCodeInvalidGenBank:  true,
	ErrCodeInvalidTable:    true,
	ErrCodeMissingColumn:   true,
	ErrCodeInvalidRegion:   true,
	ErrCodeInvalidConfig:   true,
	ErrCodeInvalidPath:     true,
	ErrCodeEmptyAnnotation: true,
}

// Error carries a Code next to the message. Cause, when set, is reachable
// through errors.Unwrap.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an *Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return Wrap(code, nil, format, args...)
}

// Wrap is New with a cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// find returns the outermost *Error in err's chain.
func find(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	if e, ok := find(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage is err without the code prefix, for terminals and API bodies.
func UserMessage(err error) string {
	e, ok := find(err)
	if !ok {
		return err.Error()
	}
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

// IsInput reports whether err was caused by bad user input. The HTTP API
// answers these with 400.
func IsInput(err error) bool {
	return inputCodes[GetCode(err)]
}
