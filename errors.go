package blend

import (
	"errors"
	"fmt"

	"github.com/gogpu/blend/internal/engine"
)

// Error kinds. Every error returned by this package matches exactly one of
// them with errors.Is.
var (
	// ErrAllocation is returned when pixel memory cannot be allocated or the
	// requested image size is out of range.
	ErrAllocation = errors.New("blend: allocation failed")

	// ErrIO is returned when a file cannot be opened or read.
	ErrIO = errors.New("blend: i/o failure")

	// ErrFormat is returned when input data is not in a recognized format.
	ErrFormat = errors.New("blend: unrecognized format")

	// ErrState is returned when an object is used in a state that does not
	// allow the operation, such as drawing through an ended Context.
	ErrState = errors.New("blend: invalid state")

	// ErrValidation is returned for rejected arguments and for every other
	// engine failure.
	ErrValidation = errors.New("blend: validation failed")
)

// Error describes a failed engine call.
//
// Code is the numeric engine status. Err is the underlying cause and may
// wrap an OS error, so errors.Is(err, fs.ErrNotExist) works for fonts that
// could not be opened.
type Error struct {
	Op   string
	Kind error
	Code uint32
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("blend: %s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("blend: %s: %v", e.Op, e.Err)
}

// Unwrap exposes the kind sentinel and the cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// kindOf maps an engine result code to an error kind.
func kindOf(code engine.Result) error {
	switch code {
	case engine.ErrOutOfMemory, engine.ErrImageTooLarge:
		return ErrAllocation
	case engine.ErrFileOpen, engine.ErrFileRead:
		return ErrIO
	case engine.ErrInvalidSignature, engine.ErrInvalidData:
		return ErrFormat
	case engine.ErrInvalidState, engine.ErrInvalidHandle, engine.ErrFontNotInitialized:
		return ErrState
	default:
		return ErrValidation
	}
}

// wrap converts an engine error into an *Error. A nil err stays nil.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var code engine.Result
	if !errors.As(err, &code) {
		return &Error{Op: op, Kind: ErrValidation, Err: err}
	}
	return &Error{Op: op, Kind: kindOf(code), Code: code.Code(), Err: err}
}

// wrapAs is wrap with a fixed kind.
func wrapAs(op string, kind, err error) error {
	if err == nil {
		return nil
	}
	e := &Error{Op: op, Kind: kind, Err: err}
	var code engine.Result
	if errors.As(err, &code) {
		e.Code = code.Code()
	}
	return e
}

// stateError reports use of a disposed or ended object.
func stateError(op string) error {
	return &Error{Op: op, Kind: ErrState, Code: engine.ErrInvalidState.Code(), Err: engine.ErrInvalidState}
}
